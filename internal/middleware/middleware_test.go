package middleware

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest"
	"go.uber.org/zap/zaptest/observer"

	"github.com/bryanwahyu/aem-assistant/internal/domain/aem"
)

func okHandler(w http.ResponseWriter, _ *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("OK"))
}

func TestRequestID(t *testing.T) {
	t.Run("generates request ID if not present", func(t *testing.T) {
		var seen string
		h := RequestID(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			seen = GetRequestID(r.Context())
		}))
		w := httptest.NewRecorder()
		h.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/aem/store", nil))

		assert.NotEmpty(t, seen)
		assert.Equal(t, seen, w.Header().Get("X-Request-ID"))
	})

	t.Run("preserves existing request ID", func(t *testing.T) {
		h := RequestID(http.HandlerFunc(okHandler))
		req := httptest.NewRequest(http.MethodGet, "/aem/store", nil)
		req.Header.Set("X-Request-ID", "my-custom-id-123")
		w := httptest.NewRecorder()
		h.ServeHTTP(w, req)

		assert.Equal(t, "my-custom-id-123", w.Header().Get("X-Request-ID"))
	})
}

func TestLogging_RecordsStatusAndBytes(t *testing.T) {
	core, logs := observer.New(zap.InfoLevel)
	h := RequestID(Logging(zap.New(core))(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusTeapot)
		_, _ = w.Write([]byte("short and stout"))
	})))

	w := httptest.NewRecorder()
	h.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/assistant/query", nil))

	require.Equal(t, 1, logs.Len())
	fields := logs.All()[0].ContextMap()
	assert.Equal(t, "/assistant/query", fields["path"])
	assert.EqualValues(t, http.StatusTeapot, fields["status"])
	assert.EqualValues(t, len("short and stout"), fields["bytes"])
	assert.NotEmpty(t, fields["request_id"])
}

func TestRecovery_ReturnsOpaque500(t *testing.T) {
	h := Recovery(zaptest.NewLogger(t))(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {
		panic("boom")
	}))
	w := httptest.NewRecorder()
	h.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/aem/store", nil))

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.JSONEq(t, `{"error":"internal server error"}`, w.Body.String())
}

func TestMetrics_PassesThrough(t *testing.T) {
	r := chi.NewRouter()
	r.Use(Metrics)
	r.Get("/aem/urls/{id}", okHandler)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/aem/urls/3", nil))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "OK", w.Body.String())
}

func TestRateLimiter(t *testing.T) {
	rl := NewRateLimiter(1, 2, zaptest.NewLogger(t))
	now := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	rl.now = func() time.Time { return now }

	h := rl.Limit(http.HandlerFunc(okHandler))
	call := func(path, addr string) int {
		req := httptest.NewRequest(http.MethodGet, path, nil)
		req.RemoteAddr = addr
		w := httptest.NewRecorder()
		h.ServeHTTP(w, req)
		return w.Code
	}

	assert.Equal(t, http.StatusOK, call("/aem/store", "10.0.0.1:1234"))
	assert.Equal(t, http.StatusOK, call("/aem/store", "10.0.0.1:1235"))
	assert.Equal(t, http.StatusTooManyRequests, call("/aem/store", "10.0.0.1:1236"))

	// other client has its own bucket
	assert.Equal(t, http.StatusOK, call("/aem/store", "10.0.0.2:1234"))
	// probes are exempt
	assert.Equal(t, http.StatusOK, call("/health", "10.0.0.1:1237"))

	now = now.Add(time.Second)
	assert.Equal(t, http.StatusOK, call("/aem/store", "10.0.0.1:1238"))

	assert.Equal(t, 2, rl.Len())
	now = now.Add(11 * time.Minute)
	rl.Sweep()
	assert.Zero(t, rl.Len())
}

func TestAPIKeyAuth(t *testing.T) {
	var tenant string
	h := APIKeyAuth(map[string]string{"EW": "secret"})(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		tenant = GetTenantFromContext(r.Context())
		w.WriteHeader(http.StatusOK)
	}))

	tests := []struct {
		name   string
		method string
		auth   string
		want   int
	}{
		{name: "reads are open", method: http.MethodGet, want: http.StatusOK},
		{name: "missing header", method: http.MethodPost, want: http.StatusUnauthorized},
		{name: "wrong key", method: http.MethodDelete, auth: "Bearer nope", want: http.StatusUnauthorized},
		{name: "bearer key", method: http.MethodPost, auth: "Bearer secret", want: http.StatusOK},
		{name: "bare key", method: http.MethodPut, auth: "secret", want: http.StatusOK},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(tt.method, "/aem/urls", nil)
			if tt.auth != "" {
				req.Header.Set("Authorization", tt.auth)
			}
			w := httptest.NewRecorder()
			h.ServeHTTP(w, req)
			assert.Equal(t, tt.want, w.Code)
		})
	}
	assert.Equal(t, "EW", tenant)
}

func TestAPIKeyAuth_DisabledWithoutKeys(t *testing.T) {
	h := APIKeyAuth(nil)(http.HandlerFunc(okHandler))
	w := httptest.NewRecorder()
	h.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/aem/urls", nil))
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestHealthHandler(t *testing.T) {
	h := HealthHandler(map[string]HealthChecker{
		"index": CheckFunc(func(context.Context) error { return nil }),
		"minio": CheckFunc(func(context.Context) error { return errors.New("bucket missing") }),
	})
	w := httptest.NewRecorder()
	h.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/healthz", nil))

	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
	var got HealthStatus
	require.NoError(t, json.NewDecoder(w.Body).Decode(&got))
	assert.Equal(t, "unhealthy", got.Status)
	assert.Equal(t, "healthy", got.Checks["index"].Status)
	assert.Equal(t, "bucket missing", got.Checks["minio"].Message)

	w = httptest.NewRecorder()
	HealthHandler(nil).ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/healthz", nil))
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestValidators(t *testing.T) {
	id, err := ParseID("12")
	require.NoError(t, err)
	assert.Equal(t, 12, id)

	for _, raw := range []string{"abc", "", "0", "-3", "1.5"} {
		_, err := ParseID(raw)
		assert.ErrorIs(t, err, aem.ErrValidation, raw)
	}

	q, err := ValidateQueryText("  where is\x00 hero?\x07 ")
	require.NoError(t, err)
	assert.Equal(t, "where is hero?", q)
	_, err = ValidateQueryText(" \t ")
	assert.ErrorIs(t, err, aem.ErrValidation)

	assert.NoError(t, ValidateTenantID(""))
	assert.NoError(t, ValidateTenantID("EW"))
	assert.ErrorIs(t, ValidateTenantID("EW;drop"), aem.ErrValidation)

	req := httptest.NewRequest(http.MethodGet, "/aem/analyze-page?url=+https://a+", nil)
	u, err := RequireQuery(req, "url")
	require.NoError(t, err)
	assert.Equal(t, "https://a", u)
	_, err = RequireQuery(req, "selector")
	assert.ErrorIs(t, err, aem.ErrValidation)
}

func TestQueryParam_RejectsMalformedQuery(t *testing.T) {
	tests := []struct {
		name, target, want string
		wantErr            bool
	}{
		{"plain", "/aem/urls?tenant=EW", "EW", false},
		{"absent", "/aem/urls", "", false},
		{"trimmed", "/aem/urls?tenant=+KLI+", "KLI", false},
		{"semicolon separator", "/aem/urls?tenant=EW;x", "", true},
		{"bad escape", "/aem/urls?tenant=%zz", "", true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, tt.target, nil)
			got, err := QueryParam(req, "tenant")
			if tt.wantErr {
				assert.ErrorIs(t, err, aem.ErrValidation)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}

	req := httptest.NewRequest(http.MethodGet, "/aem/search-component?selector=heroV1;x=1", nil)
	_, err := RequireQuery(req, "selector")
	assert.ErrorIs(t, err, aem.ErrValidation)
}

func TestDecodeJSON(t *testing.T) {
	var body struct {
		Query string `json:"query"`
	}
	req := httptest.NewRequest(http.MethodPost, "/rag/query", strings.NewReader(`{"query":"hi","id":4}`))
	require.NoError(t, DecodeJSON(req, &body))
	assert.Equal(t, "hi", body.Query)

	req = httptest.NewRequest(http.MethodPost, "/rag/query", strings.NewReader(``))
	assert.ErrorIs(t, DecodeJSON(req, &body), aem.ErrValidation)

	req = httptest.NewRequest(http.MethodPost, "/rag/query", strings.NewReader(`{"query":`))
	assert.ErrorIs(t, DecodeJSON(req, &body), aem.ErrValidation)
}
