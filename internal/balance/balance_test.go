package balance

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"chanmgr/config/models"
	"chanmgr/internal/errs"
)

func TestQueryExtractsField(t *testing.T) {
	var gotMethod, gotAuth string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotMethod = r.Method
		gotAuth = r.Header.Get("Authorization")
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"data":{"balance":12.5,"currency":"USD"}}`))
	}))
	defer srv.Close()

	res, err := Query(context.Background(), srv.Client(), &models.BalanceAPI{URL: srv.URL, Field: "data.balance"}, "tok")
	require.NoError(t, err)

	assert.Equal(t, http.MethodPost, gotMethod, "method defaults to POST")
	assert.Equal(t, "Bearer tok", gotAuth)
	assert.Equal(t, "12.5", res.Value)
	assert.Equal(t, http.StatusOK, res.Status)
}

func TestQueryRawBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodGet, r.Method)
		w.Write([]byte("  42 credits\n"))
	}))
	defer srv.Close()

	res, err := Query(context.Background(), nil, &models.BalanceAPI{URL: srv.URL, Method: "get"}, "")
	require.NoError(t, err)
	assert.Equal(t, "42 credits", res.Value)
}

func TestQueryErrors(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/denied":
			http.Error(w, "nope", http.StatusUnauthorized)
		case "/html":
			w.Write([]byte("<html></html>"))
		default:
			w.Write([]byte(`{"other":1}`))
		}
	}))
	defer srv.Close()

	tests := []struct {
		name string
		api  *models.BalanceAPI
		want errs.Kind
	}{
		{"no api", nil, errs.KindNotFound},
		{"blank url", &models.BalanceAPI{URL: " "}, errs.KindNotFound},
		{"http status", &models.BalanceAPI{URL: srv.URL + "/denied", Field: "x"}, errs.KindIO},
		{"not json", &models.BalanceAPI{URL: srv.URL + "/html", Field: "x"}, errs.KindParse},
		{"missing field", &models.BalanceAPI{URL: srv.URL, Field: "balance"}, errs.KindNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Query(context.Background(), srv.Client(), tt.api, "tok")
			require.Error(t, err)
			assert.Equal(t, tt.want, errs.KindOf(err))
		})
	}
}

func TestQueryHonorsDeadline(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-r.Context().Done():
		case <-time.After(2 * time.Second):
		}
	}))
	defer srv.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	_, err := Query(ctx, srv.Client(), &models.BalanceAPI{URL: srv.URL}, "tok")
	require.Error(t, err)
	assert.Equal(t, errs.KindIO, errs.KindOf(err))
}

func TestSnippetKeepsRunesWhole(t *testing.T) {
	body := []byte(strings.Repeat("余", 300))

	got := snippet(body)

	assert.True(t, utf8.ValidString(got))
	assert.NotContains(t, got, `\x`)
	assert.Equal(t, `"`+strings.Repeat("余", 200)+`..."`, got)
	assert.Equal(t, "empty body", snippet([]byte("  ")))
}
