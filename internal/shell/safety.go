package shell

import (
	"fmt"
	"strings"
)

// Policy restricts which commands the unattended shell tool will run.
// A command is rejected if it contains any blocklisted substring, and
// accepted only when it starts with an allowlisted command.
type Policy struct {
	Blocklist []string
	Allowlist []string
}

// DefaultPolicy returns the conservative policy used by the MCP agent's
// shell tool.
func DefaultPolicy() *Policy {
	return &Policy{
		Blocklist: []string{
			"rm", "sudo", "su", ">", ">>", "|",
			"mv", "cp", "chmod", "chown", "&",
		},
		Allowlist: []string{
			"ls", "pwd", "echo", "cat",
			"date", "whoami", "uname",
		},
	}
}

// Check returns an error when the command is not allowed.
func (p *Policy) Check(command string) error {
	for _, blocked := range p.Blocklist {
		if strings.Contains(command, blocked) {
			return fmt.Errorf("command not allowed for security reasons")
		}
	}
	for _, allowed := range p.Allowlist {
		if strings.HasPrefix(command, allowed) {
			return nil
		}
	}
	return fmt.Errorf("command not allowed for security reasons")
}
