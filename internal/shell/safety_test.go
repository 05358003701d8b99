package shell

import "testing"

func TestPolicyCheck(t *testing.T) {
	policy := DefaultPolicy()

	tests := []struct {
		command string
		allowed bool
	}{
		{"ls -la", true},
		{"pwd", true},
		{"echo hello", true},
		{"date", true},
		{"whoami", true},
		{"uname -a", true},
		{"rm -rf /", false},
		{"sudo reboot", false},
		{"echo hi > /etc/passwd", false},
		{"cat /etc/passwd | grep root", false},
		{"ls && rm x", false},
		{"curl example.com", false},
		{"", false},
	}

	for _, tt := range tests {
		t.Run(tt.command, func(t *testing.T) {
			err := policy.Check(tt.command)
			if tt.allowed && err != nil {
				t.Errorf("Check(%q) = %v, want allowed", tt.command, err)
			}
			if !tt.allowed && err == nil {
				t.Errorf("Check(%q) allowed, want rejected", tt.command)
			}
		})
	}
}

func TestPolicyBlocklistBeatsAllowlist(t *testing.T) {
	policy := DefaultPolicy()
	// Starts with an allowlisted command but contains a blocked substring.
	if err := policy.Check("echo x; sudo rm y"); err == nil {
		t.Error("blocklisted substring slipped past the allowlist prefix")
	}
}
