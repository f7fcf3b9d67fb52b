package utils

import (
	"net/url"
	"strings"
)

// parseHTTP parses raw as an absolute http(s) URL with a host
func parseHTTP(raw string) (*url.URL, bool) {
	u, err := url.ParseRequestURI(strings.TrimSpace(raw))
	if err != nil || u.Host == "" {
		return nil, false
	}
	switch u.Scheme {
	case "http", "https":
		return u, true
	}
	return nil, false
}

// ValidateURL reports whether raw is an http(s) URL with a host
func ValidateURL(raw string) bool {
	_, ok := parseHTTP(raw)
	return ok
}

// ExtractHost returns the host of an http(s) URL, or "" when raw is not one
func ExtractHost(raw string) string {
	if u, ok := parseHTTP(raw); ok {
		return u.Host
	}
	return ""
}
