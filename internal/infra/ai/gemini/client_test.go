package gemini

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bryanwahyu/aem-assistant/internal/domain/ai"
)

func newTestClient(t *testing.T, h http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)
	c, err := NewClient(context.Background(), "test-key", "gemini-2.0-flash", "gemini-embedding-001", srv.URL+"/")
	require.NoError(t, err)
	return c
}

func TestComplete(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.True(t, strings.HasSuffix(r.URL.Path, "models/gemini-2.0-flash:generateContent"), r.URL.Path)
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"candidates":[{"content":{"role":"model","parts":[{"text":"search_page"}]}}]}`))
	})

	out, err := c.Complete(context.Background(), ai.Prompt{Name: "router", System: "sys", User: "q"})
	require.NoError(t, err)
	assert.Equal(t, "search_page", out)
}

func TestComplete_Quota(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusTooManyRequests)
		_, _ = w.Write([]byte(`{"error":{"code":429,"message":"Resource exhausted","status":"RESOURCE_EXHAUSTED"}}`))
	})

	_, err := c.Complete(context.Background(), ai.Prompt{Name: "router"})
	assert.ErrorIs(t, err, ai.ErrQuotaExceeded)
}

func TestNewClient_RequiresKey(t *testing.T) {
	_, err := NewClient(context.Background(), "", "m", "", "")
	assert.ErrorIs(t, err, ai.ErrNotConfigured)
}
