package https

import (
	"errors"
	"fmt"
	"net/http"

	functions "github.com/Jayother24/firebase-functions"
	"github.com/Jayother24/firebase-functions/callable"
)

// CallableLabel marks RPC-style endpoints in deployment metadata so tooling
// and clients can tell them apart from plain HTTP endpoints.
const CallableLabel = "deployment-callable"

// CallableHandler processes a decoded callable request.
type CallableHandler = callable.HandlerFunc

// CallableOptions configures a callable declaration. The origin policy
// defaults to allow-all; CORS narrows it.
type CallableOptions struct {
	// CORS narrows the origin policy. Nil admits every origin.
	CORS *CORSOptions

	functions.RuntimeOptions
}

// CallableFunction is the artifact returned by a callable declaration. The
// wire protocol (request parsing, response envelopes, error-code mapping)
// is owned by the callable package; this type owns the metadata.
type CallableFunction struct {
	// Run is the original, undecorated handler. Tests can call it with a
	// prebuilt callable.Request, bypassing the wire protocol.
	Run CallableHandler

	handler  http.Handler
	global   functions.RuntimeOptions
	specific functions.RuntimeOptions
	endpoint functions.ManifestEndpoint
}

// OnCall declares an RPC-style callable function with default options.
func OnCall(h CallableHandler) (*CallableFunction, error) {
	return Call(CallableOptions{}, h)
}

// Call declares an RPC-style callable function with explicit options.
func Call(opts CallableOptions, h CallableHandler) (*CallableFunction, error) {
	if h == nil {
		return nil, errors.New("https: handler is required")
	}

	corsOpts := opts.CORS
	if corsOpts == nil {
		corsOpts = AllowAllOrigins()
	}
	policy, err := corsOpts.policy()
	if err != nil {
		return nil, fmt.Errorf("https: %w", err)
	}

	global := functions.Defaults()
	endpoint := functions.MergeEndpoint(global, opts.RuntimeOptions)
	endpoint.HTTPSTrigger = &functions.HTTPSTrigger{AllowInsecure: false}
	endpoint.Labels[CallableLabel] = "true"

	return &CallableFunction{
		Run:      h,
		handler:  callable.NewHandler(h, policy),
		global:   global,
		specific: opts.RuntimeOptions,
		endpoint: endpoint,
	}, nil
}

// ServeHTTP invokes the function through the callable wire protocol.
func (f *CallableFunction) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	f.handler.ServeHTTP(w, r)
}

// Endpoint returns the manifest endpoint compiled at declaration time.
func (f *CallableFunction) Endpoint() functions.ManifestEndpoint { return f.endpoint }

// TriggerAnnotation builds the legacy trigger annotation: identical to a
// plain HTTP trigger plus the callable-identifying label.
func (f *CallableFunction) TriggerAnnotation() (functions.Annotation, error) {
	ann := functions.MergeAnnotation(f.global, f.specific)
	ann["httpsTrigger"] = map[string]any{"allowInsecure": false}

	labels, _ := ann["labels"].(map[string]string)
	if labels == nil {
		labels = map[string]string{}
	}
	labels[CallableLabel] = "true"
	ann["labels"] = labels

	return ann, nil
}
