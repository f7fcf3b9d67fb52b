package models

// Environment variable names written into channel env maps
const (
	EnvAuthToken        = "ANTHROPIC_AUTH_TOKEN"
	EnvBaseURL          = "ANTHROPIC_BASE_URL"
	EnvDisableTelemetry = "CLAUDE_CODE_DISABLE_NONESSENTIAL_TRAFFIC"
)

// DefaultBalanceMethod is used when a balance URL is set without a method
const DefaultBalanceMethod = "POST"

// Channel represents one named Claude Code configuration profile.
// The name is not part of the payload; it comes from the backing filename.
type Channel struct {
	Env                   map[string]string `json:"env"`
	Permissions           Permissions       `json:"permissions"`
	Model                 string            `json:"model,omitempty"`
	AlwaysThinkingEnabled bool              `json:"alwaysThinkingEnabled"`
	BalanceAPI            *BalanceAPI       `json:"balanceApi,omitempty"`
	Mtime                 *int64            `json:"mtime,omitempty"` // read-side only, never persisted
}

// Permissions holds the tool permission rules of a channel
type Permissions struct {
	Allow []string `json:"allow"`
	Deny  []string `json:"deny"`
}

// BalanceAPI describes how to query the remaining balance of a channel
type BalanceAPI struct {
	URL    string `json:"url"`
	Method string `json:"method"`
	Field  string `json:"field,omitempty"`
}

// AuthToken returns the channel's auth token, or "" when unset
func (c *Channel) AuthToken() string {
	if c == nil || c.Env == nil {
		return ""
	}
	return c.Env[EnvAuthToken]
}

// BaseURL returns the channel's base URL, or "" when unset
func (c *Channel) BaseURL() string {
	if c == nil || c.Env == nil {
		return ""
	}
	return c.Env[EnvBaseURL]
}

// KeyProfile is a named Droid API key stored in key.txt
type KeyProfile struct {
	Name   string `json:"name"`
	APIKey string `json:"api_key"`
}

// ActivationResult carries the environment variable an activation wants set.
// Applying it (process env, user env store, shell export) is up to the caller.
type ActivationResult struct {
	Variable string `json:"variable"`
	Value    string `json:"value"`
	Profile  string `json:"profile"`
}
