package models

import (
	"reflect"
	"strings"
	"testing"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
)

// Encode then Decode is lossless for every channel except mtime, which is
// never written and never read back from the payload.
func TestPropertyCodecRoundTrip(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 100
	properties := gopter.NewProperties(parameters)

	balanceGen := gen.PtrOf(gen.Struct(reflect.TypeOf(BalanceAPI{}), map[string]gopter.Gen{
		"URL":    gen.OneConstOf("https://relay.example.com/balance", "http://localhost:8080/api/usage"),
		"Method": gen.OneConstOf("POST", "GET"),
		"Field":  gen.OneConstOf("", "data.balance", "remaining"),
	}))

	properties.Property("decode(encode(c)) == c with mtime cleared", prop.ForAll(
		func(env map[string]string, allow, deny []string, model string, thinking bool, balance *BalanceAPI, mtime int64) bool {
			c := Channel{
				Env:                   env,
				Permissions:           Permissions{Allow: allow, Deny: deny},
				Model:                 model,
				AlwaysThinkingEnabled: thinking,
				BalanceAPI:            balance,
				Mtime:                 &mtime,
			}

			data, err := Encode(c)
			if err != nil {
				return false
			}
			if strings.Contains(string(data), `"mtime"`) {
				return false
			}

			got, err := Decode(data)
			if err != nil {
				return false
			}

			want := c
			want.Mtime = nil
			normalize(&want)
			return reflect.DeepEqual(got, want)
		},
		gen.MapOf(gen.Identifier(), gen.AlphaString()),
		gen.SliceOf(gen.AlphaString()),
		gen.SliceOf(gen.AlphaString()),
		gen.AlphaString(),
		gen.Bool(),
		balanceGen,
		gen.Int64(),
	))

	properties.TestingRun(t)
}

func TestNewChannel(t *testing.T) {
	c := NewChannel("T", "", "", nil)

	if c.Env[EnvAuthToken] != "T" {
		t.Errorf("token = %q, want %q", c.Env[EnvAuthToken], "T")
	}
	if c.Env[EnvDisableTelemetry] != "1" {
		t.Errorf("telemetry flag = %q, want %q", c.Env[EnvDisableTelemetry], "1")
	}
	if _, ok := c.Env[EnvBaseURL]; ok {
		t.Error("empty base URL should not be written to env")
	}
	if !c.AlwaysThinkingEnabled {
		t.Error("new channels should enable thinking")
	}

	c = NewChannel("T", "https://relay.example.com", "claude-sonnet-4", nil)
	if c.BaseURL() != "https://relay.example.com" {
		t.Errorf("BaseURL() = %q", c.BaseURL())
	}
	if c.Model != "claude-sonnet-4" {
		t.Errorf("Model = %q", c.Model)
	}
}

func TestNewBalanceAPI(t *testing.T) {
	tests := []struct {
		name               string
		url, method, field string
		want               *BalanceAPI
	}{
		{"blank url", "", "GET", "x", nil},
		{"blank method defaults to POST", "https://b.example.com", "", "data.total", &BalanceAPI{URL: "https://b.example.com", Method: "POST", Field: "data.total"}},
		{"method upper-cased", "https://b.example.com", "get", "", &BalanceAPI{URL: "https://b.example.com", Method: "GET"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := NewBalanceAPI(tt.url, tt.method, tt.field)
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("NewBalanceAPI() = %+v, want %+v", got, tt.want)
			}
		})
	}
}

func TestEncodeLayout(t *testing.T) {
	c := NewChannel("T", "", "", NewBalanceAPI("https://b.example.com", "", ""))
	data, err := Encode(c)
	if err != nil {
		t.Fatalf("Encode() error: %v", err)
	}
	s := string(data)

	order := []string{`"env"`, `"permissions"`, `"alwaysThinkingEnabled"`, `"balanceApi"`}
	last := -1
	for _, key := range order {
		idx := strings.Index(s, key)
		if idx < 0 {
			t.Fatalf("encoded channel is missing %s:\n%s", key, s)
		}
		if idx < last {
			t.Errorf("%s is out of order:\n%s", key, s)
		}
		last = idx
	}

	if strings.Contains(s, `"field"`) {
		t.Errorf("blank balance field should be omitted:\n%s", s)
	}
	if strings.Contains(s, `"model"`) {
		t.Errorf("blank model should be omitted:\n%s", s)
	}
	if !strings.Contains(s, "\n  \"env\"") {
		t.Errorf("expected two-space indentation:\n%s", s)
	}
	if !strings.Contains(s, `"allow": []`) {
		t.Errorf("empty permissions should encode as []:\n%s", s)
	}
}

func TestDecodeTolerance(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr bool
	}{
		{"empty object", `{}`, false},
		{"unknown keys", `{"env":{"A":"b"},"theme":"dark","hooks":{"x":[1,2]}}`, false},
		{"missing permissions", `{"env":{},"alwaysThinkingEnabled":false}`, false},
		{"payload mtime discarded", `{"env":{},"mtime":123}`, false},
		{"truncated", `{"env":`, true},
		{"array root", `[]`, true},
		{"null", `null`, true},
		{"wrong env type", `{"env":"token"}`, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, err := Decode([]byte(tt.input))
			if tt.wantErr {
				if err == nil {
					t.Errorf("Decode(%s) expected error", tt.input)
				}
				return
			}
			if err != nil {
				t.Fatalf("Decode(%s) unexpected error: %v", tt.input, err)
			}
			if c.Mtime != nil {
				t.Error("Decode must not carry mtime from the payload")
			}
			if c.Env == nil || c.Permissions.Allow == nil || c.Permissions.Deny == nil {
				t.Errorf("Decode should normalize empty collections: %+v", c)
			}
		})
	}
}
