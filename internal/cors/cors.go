// Package cors implements the origin-check stage interposed in front of
// HTTP-triggered and callable functions.
package cors

import (
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gobwas/glob"
)

const preflightMaxAge = time.Hour

// Policy decides which request origins may reach a handler. The zero value
// allows nothing; build policies with AllowAll or AllowOrigins.
type Policy struct {
	allowAll bool
	patterns []glob.Glob
}

// AllowAll returns a policy that admits every origin.
func AllowAll() Policy {
	return Policy{allowAll: true}
}

// AllowOrigins returns a policy admitting the given origins. Each entry may
// be a literal origin or a glob pattern such as "https://*.example.com".
func AllowOrigins(origins ...string) (Policy, error) {
	var p Policy
	for _, origin := range origins {
		if origin == "*" {
			p.allowAll = true
			continue
		}
		g, err := glob.Compile(origin)
		if err != nil {
			return Policy{}, fmt.Errorf("cors: invalid origin pattern %q: %w", origin, err)
		}
		p.patterns = append(p.patterns, g)
	}
	return p, nil
}

// Allows reports whether the given request origin is admitted.
func (p Policy) Allows(origin string) bool {
	if p.allowAll {
		return true
	}
	for _, g := range p.patterns {
		if g.Match(origin) {
			return true
		}
	}
	return false
}

// Middleware wraps next with the origin check. The check is method-agnostic:
// any request carrying a disallowed Origin header is rejected before next
// runs. Requests without an Origin header (same-origin or non-browser) pass
// through untouched.
func Middleware(p Policy, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		origin := r.Header.Get("Origin")

		if origin != "" {
			if !p.Allows(origin) {
				w.Header().Set("Content-Type", "application/json")
				w.WriteHeader(http.StatusForbidden)
				_, _ = w.Write([]byte(`{"error":"origin not allowed"}`))
				return
			}
			w.Header().Set("Access-Control-Allow-Origin", origin)
			w.Header().Set("Vary", "Origin")
		}

		if r.Method == http.MethodOptions {
			w.Header().Set("Access-Control-Allow-Methods", strings.Join([]string{
				http.MethodGet, http.MethodPost, http.MethodPut,
				http.MethodPatch, http.MethodDelete, http.MethodOptions,
			}, ", "))
			w.Header().Set("Access-Control-Allow-Headers", "Authorization, Content-Type")
			w.Header().Set("Access-Control-Max-Age", strconv.Itoa(int(preflightMaxAge.Seconds())))
			w.WriteHeader(http.StatusNoContent)
			return
		}

		next.ServeHTTP(w, r)
	})
}
