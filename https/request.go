// Package https declares request-triggered and RPC-style callable
// functions.
package https

import (
	"errors"
	"fmt"
	"net/http"

	functions "github.com/Jayother24/firebase-functions"
	"github.com/Jayother24/firebase-functions/internal/cors"
)

// CORSOptions selects the allowed-origin policy interposed in front of a
// handler. A nil *CORSOptions on the declaration means no CORS stage at all.
type CORSOptions struct {
	// Origins are the allowed origins; entries may be glob patterns. Empty
	// means every origin is allowed.
	Origins []string
}

// AllowAllOrigins returns CORS options admitting every origin.
func AllowAllOrigins() *CORSOptions {
	return &CORSOptions{}
}

// AllowOrigins returns CORS options admitting only the given origins.
func AllowOrigins(origins ...string) *CORSOptions {
	return &CORSOptions{Origins: origins}
}

func (c *CORSOptions) policy() (cors.Policy, error) {
	if len(c.Origins) == 0 {
		return cors.AllowAll(), nil
	}
	return cors.AllowOrigins(c.Origins...)
}

// RequestOptions configures a request-triggered declaration. CORS is the
// trigger key; the embedded RuntimeOptions take part in the generic merge.
type RequestOptions struct {
	// CORS enables the origin-check stage. Nil leaves the user handler
	// fully unwrapped.
	CORS *CORSOptions

	functions.RuntimeOptions
}

// Function is the callable artifact returned by a request-trigger
// declaration. It serves HTTP itself; ServeHTTP runs the CORS stage (when
// configured) before the user handler.
type Function struct {
	// Run is the original, undecorated handler.
	Run http.HandlerFunc

	handler  http.Handler
	global   functions.RuntimeOptions
	specific functions.RuntimeOptions
	endpoint functions.ManifestEndpoint
}

// OnRequest declares a function invoked directly with HTTP requests, with
// no CORS stage and default options.
func OnRequest(h http.HandlerFunc) (*Function, error) {
	return Request(RequestOptions{}, h)
}

// Request declares a request-triggered function with explicit options.
func Request(opts RequestOptions, h http.HandlerFunc) (*Function, error) {
	if h == nil {
		return nil, errors.New("https: handler is required")
	}

	// No CORS field means the user handler is invoked directly, with no
	// interposed stages.
	var handler http.Handler = h
	if opts.CORS != nil {
		policy, err := opts.CORS.policy()
		if err != nil {
			return nil, fmt.Errorf("https: %w", err)
		}
		handler = cors.Middleware(policy, h)
	}

	global := functions.Defaults()
	endpoint := functions.MergeEndpoint(global, opts.RuntimeOptions)
	endpoint.HTTPSTrigger = &functions.HTTPSTrigger{AllowInsecure: false}

	return &Function{
		Run:      h,
		handler:  handler,
		global:   global,
		specific: opts.RuntimeOptions,
		endpoint: endpoint,
	}, nil
}

// ServeHTTP invokes the function as the live handler.
func (f *Function) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	f.handler.ServeHTTP(w, r)
}

// Endpoint returns the manifest endpoint compiled at declaration time.
func (f *Function) Endpoint() functions.ManifestEndpoint { return f.endpoint }

// TriggerAnnotation builds the legacy trigger annotation. HTTP triggers
// synthesize no resource path, so the accessor never fails, but it still
// rebuilds the annotation on every call.
func (f *Function) TriggerAnnotation() (functions.Annotation, error) {
	ann := functions.MergeAnnotation(f.global, f.specific)
	ann["httpsTrigger"] = map[string]any{"allowInsecure": false}
	return ann, nil
}
