package chat

import "sync"

// History is a bounded conversation store. The system message is pinned;
// when the turn limit is exceeded the oldest non-system messages are
// dropped so the rendered prompt stays inside the model's context window.
type History struct {
	mu       sync.RWMutex
	system   Message
	turns    []Message
	maxTurns int
}

// NewHistory creates a history seeded with the system message. maxTurns
// bounds the retained non-system messages; zero or negative means
// unbounded.
func NewHistory(system Message, maxTurns int) *History {
	return &History{system: system, maxTurns: maxTurns}
}

// Append adds a message, evicting the oldest turns past the limit.
func (h *History) Append(msgs ...Message) {
	h.mu.Lock()
	defer h.mu.Unlock()

	h.turns = append(h.turns, msgs...)
	if h.maxTurns > 0 && len(h.turns) > h.maxTurns {
		h.turns = h.turns[len(h.turns)-h.maxTurns:]
	}
}

// Messages returns the system message followed by the retained turns.
func (h *History) Messages() []Message {
	h.mu.RLock()
	defer h.mu.RUnlock()

	out := make([]Message, 0, len(h.turns)+1)
	out = append(out, h.system)
	out = append(out, h.turns...)
	return out
}

// Clear drops every turn but keeps the system message.
func (h *History) Clear() {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.turns = nil
}
