package chat

import "testing"

func TestHistoryPinsSystemMessage(t *testing.T) {
	h := NewHistory(SystemMessage("sys"), 2)
	h.Append(UserMessage("one"))
	h.Append(Message{Role: RoleAssistant, Content: "two"})
	h.Append(UserMessage("three"))

	msgs := h.Messages()
	if msgs[0].Role != RoleSystem || msgs[0].Content != "sys" {
		t.Fatalf("first message = %+v, want pinned system", msgs[0])
	}
	if len(msgs) != 3 {
		t.Fatalf("len = %d, want system plus 2 retained turns", len(msgs))
	}
	if msgs[1].Content != "two" || msgs[2].Content != "three" {
		t.Errorf("retained turns = %+v, want the newest two", msgs[1:])
	}
}

func TestHistoryUnbounded(t *testing.T) {
	h := NewHistory(SystemMessage("sys"), 0)
	for i := 0; i < 50; i++ {
		h.Append(UserMessage("msg"))
	}
	if got := len(h.Messages()); got != 51 {
		t.Errorf("len = %d, want 51", got)
	}
}

func TestHistoryClear(t *testing.T) {
	h := NewHistory(SystemMessage("sys"), 0)
	h.Append(UserMessage("hello"))
	h.Clear()

	msgs := h.Messages()
	if len(msgs) != 1 || msgs[0].Role != RoleSystem {
		t.Errorf("after clear = %+v, want system only", msgs)
	}
}
