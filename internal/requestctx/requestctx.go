// Package requestctx carries per-invocation values through handler
// contexts.
package requestctx

import (
	"context"
	"time"
)

type contextKey string

const (
	requestIDKey    contextKey = "request_id"
	requestTimeKey  contextKey = "request_time"
	functionNameKey contextKey = "function_name"
)

func WithRequestID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, requestIDKey, id)
}

func WithRequestTime(ctx context.Context, t time.Time) context.Context {
	return context.WithValue(ctx, requestTimeKey, t)
}

// WithFunctionName records which declared function an invocation targets.
func WithFunctionName(ctx context.Context, name string) context.Context {
	return context.WithValue(ctx, functionNameKey, name)
}

func RequestID(ctx context.Context) string {
	if id, ok := ctx.Value(requestIDKey).(string); ok {
		return id
	}
	return ""
}

func RequestTime(ctx context.Context) time.Time {
	if t, ok := ctx.Value(requestTimeKey).(time.Time); ok {
		return t
	}
	return time.Time{}
}

// FunctionName returns the declared function name for the invocation, or
// the empty string when the request did not target a function.
func FunctionName(ctx context.Context) string {
	if name, ok := ctx.Value(functionNameKey).(string); ok {
		return name
	}
	return ""
}
