// Package balance queries a channel's remaining balance endpoint.
package balance

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"unicode/utf8"

	"github.com/cockroachdb/errors"
	"github.com/rs/zerolog/log"
	"github.com/tidwall/gjson"

	"chanmgr/config/models"
	"chanmgr/internal/errs"
)

// maxBody caps how much of a response is read
const maxBody = 1 << 20

// Result is the outcome of one balance query
type Result struct {
	Status int    `json:"status"`
	Field  string `json:"field,omitempty"`
	Value  string `json:"value"`
}

// Query sends a single request to api.URL with token as a bearer
// credential. When api.Field is set, the value at that gjson path is
// returned; otherwise the raw body is.
func Query(ctx context.Context, client *http.Client, api *models.BalanceAPI, token string) (*Result, error) {
	if api == nil || strings.TrimSpace(api.URL) == "" {
		return nil, errs.NotFound(nil, "channel has no balance API configured")
	}
	if client == nil {
		client = http.DefaultClient
	}

	method := strings.ToUpper(strings.TrimSpace(api.Method))
	if method == "" {
		method = models.DefaultBalanceMethod
	}

	req, err := http.NewRequestWithContext(ctx, method, api.URL, nil)
	if err != nil {
		return nil, errs.Invalid("invalid balance request: %v", err)
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	req.Header.Set("Accept", "application/json")

	log.Debug().Str("method", method).Str("url", api.URL).Msg("querying balance")
	resp, err := client.Do(req)
	if err != nil {
		return nil, errs.IO(err, "balance request failed")
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBody))
	if err != nil {
		return nil, errs.IO(err, "failed to read balance response")
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, errs.IO(errors.Newf("status %d", resp.StatusCode), "balance request failed: %s", snippet(body))
	}

	res := &Result{Status: resp.StatusCode, Field: api.Field}
	if api.Field == "" {
		res.Value = strings.TrimSpace(string(body))
		return res, nil
	}

	if !gjson.ValidBytes(body) {
		return nil, errs.Parse(nil, "balance response is not valid JSON")
	}
	v := gjson.GetBytes(body, api.Field)
	if !v.Exists() {
		return nil, errs.NotFound(nil, "field %q not found in balance response", api.Field)
	}
	res.Value = v.String()
	return res, nil
}

const maxSnippetRunes = 200

func snippet(body []byte) string {
	s := strings.TrimSpace(string(body))
	if utf8.RuneCountInString(s) > maxSnippetRunes {
		s = string([]rune(s)[:maxSnippetRunes]) + "..."
	}
	if s == "" {
		return "empty body"
	}
	return fmt.Sprintf("%q", s)
}
