package client

import (
	"context"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"

	"cedra_storefront/internal/utils"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHTTPClient_SendsBearerAndQuery(t *testing.T) {
	var gotAuth, gotQuery string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		gotQuery = r.URL.RawQuery
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"items":[],"total":0,"page":1,"limit":20,"totalPages":0}`))
	}))
	defer srv.Close()

	c := New(srv.URL+"/", nil)
	_, err := c.Search(context.Background(), url.Values{"q": {"tv"}})
	require.NoError(t, err)
	assert.Empty(t, gotAuth)
	assert.Equal(t, "q=tv", gotQuery)

	c.SetToken("abc")
	_, err = c.Search(context.Background(), nil)
	require.NoError(t, err)
	assert.Equal(t, "Bearer abc", gotAuth)
	assert.Empty(t, gotQuery)
}

func TestHTTPClient_DecodesErrors(t *testing.T) {
	tests := []struct {
		name      string
		status    int
		body      string
		kind      utils.ErrorKind
		message   string
		retryable bool
	}{
		{"corps d'erreur", http.StatusConflict, `{"error":"Produit en rupture de stock","code":"out_of_stock"}`, utils.KindOutOfStock, "Produit en rupture de stock", false},
		{"conflit rejouable", http.StatusConflict, `{"error":"réessayez","code":"conflict","retryable":true}`, utils.KindConflict, "réessayez", true},
		{"rate limit", http.StatusTooManyRequests, `{"error":"Trop de recherches","code":"rate_limited","retry_after":30}`, utils.KindInternal, "Trop de recherches", true},
		{"corps illisible", http.StatusNotFound, `<html>`, utils.KindNotFound, "Not Found", false},
		{"corps vide", http.StatusUnauthorized, ``, utils.KindAuth, "Unauthorized", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				_, _ = w.Write([]byte(tt.body))
			}))
			defer srv.Close()

			_, err := New(srv.URL, nil).Cart(context.Background())
			require.Error(t, err)

			var appErr *utils.AppError
			require.ErrorAs(t, err, &appErr)
			assert.Equal(t, tt.kind, appErr.Kind)
			assert.Equal(t, tt.message, appErr.Message)
			assert.Equal(t, tt.retryable, appErr.Retryable)
		})
	}
}
