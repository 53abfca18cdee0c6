package cors

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPolicy_Allows(t *testing.T) {
	literal, err := AllowOrigins("https://app.example.com")
	require.NoError(t, err)

	pattern, err := AllowOrigins("https://*.example.com")
	require.NoError(t, err)

	star, err := AllowOrigins("*")
	require.NoError(t, err)

	tests := []struct {
		name   string
		policy Policy
		origin string
		want   bool
	}{
		{"allow all", AllowAll(), "https://anything.example.org", true},
		{"star entry", star, "https://anything.example.org", true},
		{"literal match", literal, "https://app.example.com", true},
		{"literal mismatch", literal, "https://other.example.com", false},
		{"glob match", pattern, "https://api.example.com", true},
		{"glob mismatch", pattern, "https://example.org", false},
		{"zero policy denies", Policy{}, "https://app.example.com", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.policy.Allows(tt.origin))
		})
	}
}

func TestAllowOrigins_InvalidPattern(t *testing.T) {
	_, err := AllowOrigins("https://[bad")
	assert.Error(t, err)
}

func TestMiddleware(t *testing.T) {
	policy, err := AllowOrigins("https://app.example.com")
	require.NoError(t, err)

	calls := 0
	h := Middleware(policy, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
	}))

	t.Run("no origin passes through", func(t *testing.T) {
		calls = 0
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
		assert.Equal(t, 1, calls)
	})

	t.Run("allowed origin reaches handler with headers set", func(t *testing.T) {
		calls = 0
		req := httptest.NewRequest(http.MethodPost, "/", nil)
		req.Header.Set("Origin", "https://app.example.com")
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)
		assert.Equal(t, 1, calls)
		assert.Equal(t, "https://app.example.com", rec.Header().Get("Access-Control-Allow-Origin"))
	})

	t.Run("disallowed origin short-circuits regardless of method", func(t *testing.T) {
		for _, method := range []string{http.MethodGet, http.MethodPost, http.MethodDelete} {
			calls = 0
			req := httptest.NewRequest(method, "/", nil)
			req.Header.Set("Origin", "https://evil.example.com")
			rec := httptest.NewRecorder()
			h.ServeHTTP(rec, req)
			assert.Equal(t, 0, calls)
			assert.Equal(t, http.StatusForbidden, rec.Code)
		}
	})

	t.Run("preflight answered without reaching handler", func(t *testing.T) {
		calls = 0
		req := httptest.NewRequest(http.MethodOptions, "/", nil)
		req.Header.Set("Origin", "https://app.example.com")
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)
		assert.Equal(t, 0, calls)
		assert.Equal(t, http.StatusNoContent, rec.Code)
		assert.NotEmpty(t, rec.Header().Get("Access-Control-Allow-Methods"))
	})
}
