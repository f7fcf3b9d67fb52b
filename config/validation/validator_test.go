package validation

import (
	"strings"
	"testing"

	"chanmgr/internal/errs"
)

func TestValidateChannelName(t *testing.T) {
	iv := NewInputValidator()

	tests := []struct {
		name    string
		input   string
		wantErr bool
	}{
		{"simple", "work", false},
		{"with dash and digits", "relay-2", false},
		{"unicode", "工作", false},
		{"inner space", "my relay", false},
		{"empty", "", true},
		{"blank", "   ", true},
		{"slash", "a/b", true},
		{"backslash", `a\b`, true},
		{"colon", "a:b", true},
		{"dot dot", "..", true},
		{"trailing dot", "work.", true},
		{"too long", strings.Repeat("a", MaxNameLength+1), true},
		{"max length", strings.Repeat("a", MaxNameLength), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := iv.ValidateChannelName(tt.input)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ValidateChannelName(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
			if err != nil && errs.KindOf(err) != errs.KindInvalidName {
				t.Errorf("kind = %q, want %q", errs.KindOf(err), errs.KindInvalidName)
			}
		})
	}
}

func TestValidateKeyName(t *testing.T) {
	iv := NewInputValidator()

	for _, name := range []string{"", "a b", "tab\tname", "line\nbreak"} {
		if err := iv.ValidateKeyName(name); err == nil {
			t.Errorf("ValidateKeyName(%q) expected error", name)
		}
	}
	if err := iv.ValidateKeyName("personal"); err != nil {
		t.Errorf("ValidateKeyName(personal) unexpected error: %v", err)
	}
}

func TestValidateChannel(t *testing.T) {
	v := NewValidator()
	base := ChannelInput{Name: "work", Token: "sk-ant-xxx"}

	tests := []struct {
		name    string
		modify  func(in *ChannelInput)
		wantErr string
	}{
		{"minimal", func(in *ChannelInput) {}, ""},
		{"empty token", func(in *ChannelInput) { in.Token = " " }, "auth token cannot be empty"},
		{"bad base url", func(in *ChannelInput) { in.BaseURL = "relay.example.com" }, "invalid URL format"},
		{"model ok", func(in *ChannelInput) { in.Model = "claude-sonnet-4-5" }, ""},
		{"model with space", func(in *ChannelInput) { in.Model = "claude sonnet" }, "cannot contain whitespace"},
		{"model too long", func(in *ChannelInput) { in.Model = strings.Repeat("m", 129) }, "model name too long"},
		{"balance without field", func(in *ChannelInput) { in.BalanceURL = "https://b.example.com" }, ""},
		{"balance bad url", func(in *ChannelInput) { in.BalanceURL = "b.example.com" }, "invalid URL format"},
		{"balance bad method", func(in *ChannelInput) {
			in.BalanceURL = "https://b.example.com"
			in.BalanceField = "data"
			in.BalanceMethod = "DELETE"
		}, "unsupported balance method"},
		{"balance ok", func(in *ChannelInput) {
			in.BalanceURL = "https://b.example.com"
			in.BalanceField = "data.balance"
			in.BalanceMethod = "get"
		}, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			in := base
			tt.modify(&in)
			err := v.ValidateChannel(in)
			if tt.wantErr == "" {
				if err != nil {
					t.Errorf("unexpected error: %v", err)
				}
				return
			}
			if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("error = %v, want containing %q", err, tt.wantErr)
			}
		})
	}
}

func TestValidateKeyProfile(t *testing.T) {
	v := NewValidator()

	if err := v.ValidateKeyProfile("a", "fk-123 with space"); err != nil {
		t.Errorf("keys may contain spaces: %v", err)
	}
	if err := v.ValidateKeyProfile("a", ""); err == nil {
		t.Error("expected error for empty key")
	}
	if err := v.ValidateKeyProfile("a", "k\n2"); err == nil {
		t.Error("expected error for key with newline")
	}
}
