package utils

import (
	"path/filepath"
	"strings"
	"testing"
)

func TestMaskSecret(t *testing.T) {
	tests := []struct {
		name     string
		secret   string
		expected string
	}{
		{"empty", "", "****"},
		{"eight chars", "12345678", "****"},
		{"anthropic token", "sk-ant-REDACTED", "sk-a****mnop"},
		{"surrounding space", "  fk-1234567890  ", "fk-1****7890"},
		{"multibyte", "密钥密钥abcdefgh", "密钥密钥****efgh"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := MaskSecret(tt.secret); got != tt.expected {
				t.Errorf("MaskSecret(%q) = %q, want %q", tt.secret, got, tt.expected)
			}
		})
	}

	if masked := MaskSecret("sk-ant-supersecretvalue99"); strings.Contains(masked, "supersecret") {
		t.Errorf("masked value leaks the middle: %q", masked)
	}
}

func TestHomeDir(t *testing.T) {
	t.Run("USERPROFILE wins", func(t *testing.T) {
		t.Setenv("USERPROFILE", filepath.FromSlash("/users/win"))
		t.Setenv("HOME", filepath.FromSlash("/home/unix"))
		if got := HomeDir(); got != filepath.FromSlash("/users/win") {
			t.Errorf("HomeDir() = %q", got)
		}
	})

	t.Run("HOME fallback", func(t *testing.T) {
		t.Setenv("USERPROFILE", "")
		t.Setenv("HOME", filepath.FromSlash("/home/unix"))
		if got := HomeDir(); got != filepath.FromSlash("/home/unix") {
			t.Errorf("HomeDir() = %q", got)
		}
	})
}

func TestIsDir(t *testing.T) {
	dir := t.TempDir()
	if !IsDir(dir) {
		t.Errorf("IsDir(%q) = false", dir)
	}
	if IsDir(filepath.Join(dir, "missing")) {
		t.Error("IsDir on a missing path should be false")
	}
	if IsDir("") {
		t.Error("IsDir(\"\") should be false")
	}
}

func TestValidateURL(t *testing.T) {
	tests := []struct {
		url      string
		expected bool
	}{
		{"https://api.anthropic.com", true},
		{"http://localhost:8080/v1", true},
		{"https://relay.example.com/api/balance?x=1", true},
		{"", false},
		{"relay.example.com", false},
		{"ftp://relay.example.com", false},
		{"https://", false},
		{"not a url", false},
	}

	for _, tt := range tests {
		t.Run(tt.url, func(t *testing.T) {
			if got := ValidateURL(tt.url); got != tt.expected {
				t.Errorf("ValidateURL(%q) = %v, want %v", tt.url, got, tt.expected)
			}
		})
	}
}

func TestExtractHost(t *testing.T) {
	tests := []struct {
		url      string
		expected string
	}{
		{"https://relay.example.com/v1", "relay.example.com"},
		{"http://127.0.0.1:3000", "127.0.0.1:3000"},
		{"", ""},
		{"relay.example.com", ""},
		{"ftp://relay.example.com", ""},
	}

	for _, tt := range tests {
		if got := ExtractHost(tt.url); got != tt.expected {
			t.Errorf("ExtractHost(%q) = %q, want %q", tt.url, got, tt.expected)
		}
	}
}
