// Package callable implements the request/response protocol for RPC-style
// functions: request parsing, auth-claims extraction, response envelopes,
// and error-code mapping. Declaration and metadata live in the https
// package; this package owns only the wire protocol.
package callable

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"mime"
	"net/http"
	"strings"

	"github.com/golang-jwt/jwt/v5"
	"github.com/rs/zerolog/log"
	"github.com/tidwall/gjson"

	"github.com/Jayother24/firebase-functions/internal/cors"
)

// Request is the decoded callable invocation a handler receives.
type Request struct {
	// Data is the raw JSON of the request's data field. Decode it with
	// json.Unmarshal into the handler's own request type.
	Data json.RawMessage

	// Auth carries the claims of the caller's bearer token, or nil when the
	// request was unauthenticated.
	Auth *AuthContext

	// Raw is the underlying HTTP request, for access to headers and context.
	Raw *http.Request
}

// AuthContext describes the authenticated caller.
type AuthContext struct {
	// UID is the subject claim of the bearer token.
	UID string

	// Claims holds the full token claim set.
	Claims map[string]any
}

// HandlerFunc processes a decoded callable request and returns the result
// value serialized into the response envelope.
type HandlerFunc func(ctx context.Context, req *Request) (any, error)

// Handler serves the callable wire protocol for a single function. It
// accepts only POST and delegates origin checking to the configured policy
// (allow-all unless narrowed by the declaration).
type Handler struct {
	fn     HandlerFunc
	policy cors.Policy
}

// NewHandler builds a protocol handler around fn with the given origin
// policy.
func NewHandler(fn HandlerFunc, policy cors.Policy) http.Handler {
	h := &Handler{fn: fn, policy: policy}
	return cors.Middleware(policy, h)
}

type errorBody struct {
	Status  string `json:"status"`
	Message string `json:"message"`
	Details any    `json:"details,omitempty"`
}

type errorEnvelope struct {
	Error errorBody `json:"error"`
}

type resultEnvelope struct {
	Result any `json:"result"`
}

func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeError(w, NewError(InvalidArgument, "Bad Request"))
		return
	}

	req, cerr := decodeRequest(r)
	if cerr != nil {
		writeError(w, cerr)
		return
	}

	result, err := h.fn(r.Context(), req)
	if err != nil {
		var ce *Error
		if !errors.As(err, &ce) {
			log.Error().
				Err(err).
				Str("path", r.URL.Path).
				Msg("Unhandled callable error")
			ce = NewError(Internal, "INTERNAL")
		}
		writeError(w, ce)
		return
	}

	writeJSON(w, http.StatusOK, resultEnvelope{Result: result})
}

// decodeRequest validates the wire shape and extracts the data field and
// auth claims. Any malformed request maps to invalid-argument, matching the
// protocol's contract that shape errors are client errors.
func decodeRequest(r *http.Request) (*Request, *Error) {
	if ct := r.Header.Get("Content-Type"); ct != "" {
		mediaType, _, err := mime.ParseMediaType(ct)
		if err != nil || mediaType != "application/json" {
			return nil, NewError(InvalidArgument, "Request must be application/json")
		}
	}

	body, err := io.ReadAll(r.Body)
	if err != nil {
		return nil, NewError(InvalidArgument, "Failed to read request body")
	}

	if !gjson.ValidBytes(body) {
		return nil, NewError(InvalidArgument, "Request body is not valid JSON")
	}

	data := gjson.GetBytes(body, "data")
	if !data.Exists() {
		return nil, NewError(InvalidArgument, "Request body is missing data")
	}

	req := &Request{
		Data: json.RawMessage(data.Raw),
		Raw:  r,
	}

	auth, err := authFromHeader(r.Header.Get("Authorization"))
	if err != nil {
		return nil, NewError(Unauthenticated, "Unauthenticated")
	}
	req.Auth = auth

	return req, nil
}

// authFromHeader extracts the bearer token's claims. Signature verification
// is the fronting infrastructure's job; here the token is only parsed so
// handlers can see who the platform already authenticated.
func authFromHeader(header string) (*AuthContext, error) {
	if header == "" {
		return nil, nil
	}

	const prefix = "Bearer "
	if !strings.HasPrefix(header, prefix) {
		return nil, errors.New("callable: malformed authorization header")
	}

	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(strings.TrimPrefix(header, prefix), claims); err != nil {
		return nil, err
	}

	auth := &AuthContext{Claims: claims}
	if sub, err := claims.GetSubject(); err == nil {
		auth.UID = sub
	}
	return auth, nil
}

func writeError(w http.ResponseWriter, e *Error) {
	writeJSON(w, e.HTTPStatus(), errorEnvelope{Error: errorBody{
		Status:  e.Status(),
		Message: e.Message,
		Details: e.Details,
	}})
}

func writeJSON(w http.ResponseWriter, statusCode int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		log.Error().Err(err).Msg("Failed to encode callable response")
	}
}
