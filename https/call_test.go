package https

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	functions "github.com/Jayother24/firebase-functions"
	"github.com/Jayother24/firebase-functions/callable"
)

func echoCallable(ctx context.Context, req *callable.Request) (any, error) {
	var v any
	if err := json.Unmarshal(req.Data, &v); err != nil {
		return nil, callable.NewError(callable.InvalidArgument, "bad data")
	}
	return v, nil
}

func TestOnCall_CallableLabel(t *testing.T) {
	opts := functions.RuntimeOptions{Region: "eu-west1", Labels: map[string]string{"team": "core"}}

	callFn, err := Call(CallableOptions{RuntimeOptions: opts}, echoCallable)
	require.NoError(t, err)
	reqFn, err := Request(RequestOptions{RuntimeOptions: opts}, func(w http.ResponseWriter, r *http.Request) {})
	require.NoError(t, err)

	// Identical options, but only the callable carries the marker label.
	assert.Equal(t, "true", callFn.Endpoint().Labels[CallableLabel])
	assert.NotContains(t, reqFn.Endpoint().Labels, CallableLabel)

	callAnn, err := callFn.TriggerAnnotation()
	require.NoError(t, err)
	reqAnn, err := reqFn.TriggerAnnotation()
	require.NoError(t, err)

	assert.Equal(t, "true", callAnn["labels"].(map[string]string)[CallableLabel])
	assert.NotContains(t, reqAnn["labels"].(map[string]string), CallableLabel)

	// Both mark the trigger the same way otherwise.
	assert.Equal(t, reqAnn["httpsTrigger"], callAnn["httpsTrigger"])
	require.NotNil(t, callFn.Endpoint().HTTPSTrigger)
	assert.False(t, callFn.Endpoint().HTTPSTrigger.AllowInsecure)
}

func TestCall_ServesProtocol(t *testing.T) {
	fn, err := OnCall(echoCallable)
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"data":{"x":1}}`))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	fn.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)

	var body map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, map[string]any{"x": float64(1)}, body["result"])
}

func TestCall_CORSNarrowsOriginPolicy(t *testing.T) {
	fn, err := Call(CallableOptions{CORS: AllowOrigins("https://app.example.com")}, echoCallable)
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"data":null}`))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Origin", "https://evil.example.com")
	rec := httptest.NewRecorder()
	fn.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusForbidden, rec.Code)
}

func TestCall_DefaultPolicyAllowsAnyOrigin(t *testing.T) {
	fn, err := OnCall(echoCallable)
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"data":null}`))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Origin", "https://anywhere.example.org")
	rec := httptest.NewRecorder()
	fn.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestCall_RunBypassesProtocol(t *testing.T) {
	fn, err := OnCall(func(ctx context.Context, req *callable.Request) (any, error) {
		return "direct", nil
	})
	require.NoError(t, err)

	// Run invokes the handler with a prebuilt request, skipping transport
	// parsing entirely.
	result, err := fn.Run(context.Background(), &callable.Request{Data: json.RawMessage(`null`)})
	require.NoError(t, err)
	assert.Equal(t, "direct", result)
}
