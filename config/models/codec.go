package models

import (
	"encoding/json"
	"fmt"
	"strings"
)

// NewChannel builds a channel the way a save does: token, optional base URL,
// telemetry disabled, thinking enabled, empty permissions.
func NewChannel(token, baseURL, model string, balance *BalanceAPI) Channel {
	env := map[string]string{
		EnvAuthToken:        token,
		EnvDisableTelemetry: "1",
	}
	if baseURL != "" {
		env[EnvBaseURL] = baseURL
	}

	return Channel{
		Env:                   env,
		Permissions:           Permissions{Allow: []string{}, Deny: []string{}},
		Model:                 model,
		AlwaysThinkingEnabled: true,
		BalanceAPI:            balance,
	}
}

// NewBalanceAPI returns nil when url is blank. A blank method falls back to
// POST and a blank field is left out of the encoded document.
func NewBalanceAPI(url, method, field string) *BalanceAPI {
	url = strings.TrimSpace(url)
	if url == "" {
		return nil
	}
	method = strings.ToUpper(strings.TrimSpace(method))
	if method == "" {
		method = DefaultBalanceMethod
	}
	return &BalanceAPI{
		URL:    url,
		Method: method,
		Field:  strings.TrimSpace(field),
	}
}

// Encode serializes a channel as pretty-printed JSON with two-space indentation.
// Mtime is always dropped.
func Encode(c Channel) ([]byte, error) {
	c.Mtime = nil
	normalize(&c)

	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to serialize channel: %w", err)
	}
	return data, nil
}

// Decode parses a channel document. Unknown keys are ignored and missing
// optional keys get their zero value; any mtime in the payload is discarded.
func Decode(data []byte) (Channel, error) {
	var c Channel
	if err := json.Unmarshal(data, &c); err != nil {
		return Channel{}, fmt.Errorf("failed to parse channel: %w", err)
	}
	// json.Unmarshal accepts a bare null
	if c.Env == nil && strings.TrimSpace(string(data)) == "null" {
		return Channel{}, fmt.Errorf("failed to parse channel: document is null")
	}

	c.Mtime = nil
	normalize(&c)
	return c, nil
}

func normalize(c *Channel) {
	if c.Env == nil {
		c.Env = map[string]string{}
	}
	if c.Permissions.Allow == nil {
		c.Permissions.Allow = []string{}
	}
	if c.Permissions.Deny == nil {
		c.Permissions.Deny = []string{}
	}
	if c.BalanceAPI != nil && c.BalanceAPI.URL != "" && c.BalanceAPI.Method == "" {
		c.BalanceAPI.Method = DefaultBalanceMethod
	}
}
