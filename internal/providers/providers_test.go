package providers

import (
	"testing"

	"chanmgr/internal/errs"
)

func TestBuiltinTools(t *testing.T) {
	tests := []struct {
		name          string
		command       string
		credentialVar string
	}{
		{"claude", "claude", "ANTHROPIC_AUTH_TOKEN"},
		{"droid", "droid", "FACTORY_API_KEY"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tool, err := Get(tt.name)
			if err != nil {
				t.Fatalf("Get(%q) error: %v", tt.name, err)
			}
			if tool.Name() != tt.name {
				t.Errorf("Name() = %q, want %q", tool.Name(), tt.name)
			}
			if tool.DefaultCommand() != tt.command {
				t.Errorf("DefaultCommand() = %q, want %q", tool.DefaultCommand(), tt.command)
			}
			if tool.CredentialVar() != tt.credentialVar {
				t.Errorf("CredentialVar() = %q, want %q", tool.CredentialVar(), tt.credentialVar)
			}
			if tool.DisplayName() == "" || tool.DefaultBaseURL() == "" {
				t.Error("DisplayName() and DefaultBaseURL() should be set")
			}
		})
	}
}

func TestGetUnknown(t *testing.T) {
	_, err := Get("codex")
	if errs.KindOf(err) != errs.KindNotFound {
		t.Errorf("Get(codex) error = %v, want NotFound", err)
	}
}

func TestList(t *testing.T) {
	list := List()
	if len(list) < 2 || list[0] != "claude" || list[1] != "droid" {
		t.Errorf("List() = %v, want sorted [claude droid]", list)
	}
}
