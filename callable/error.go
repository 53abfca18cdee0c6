package callable

import "net/http"

// ErrorCode is a canonical RPC status code carried in callable error
// responses.
type ErrorCode string

const (
	OK                 ErrorCode = "ok"
	Cancelled          ErrorCode = "cancelled"
	Unknown            ErrorCode = "unknown"
	InvalidArgument    ErrorCode = "invalid-argument"
	DeadlineExceeded   ErrorCode = "deadline-exceeded"
	NotFound           ErrorCode = "not-found"
	AlreadyExists      ErrorCode = "already-exists"
	PermissionDenied   ErrorCode = "permission-denied"
	ResourceExhausted  ErrorCode = "resource-exhausted"
	FailedPrecondition ErrorCode = "failed-precondition"
	Aborted            ErrorCode = "aborted"
	OutOfRange         ErrorCode = "out-of-range"
	Unimplemented      ErrorCode = "unimplemented"
	Internal           ErrorCode = "internal"
	Unavailable        ErrorCode = "unavailable"
	DataLoss           ErrorCode = "data-loss"
	Unauthenticated    ErrorCode = "unauthenticated"
)

// httpStatus maps each code to the HTTP status of the error response.
var httpStatus = map[ErrorCode]int{
	OK:                 http.StatusOK,
	Cancelled:          499,
	Unknown:            http.StatusInternalServerError,
	InvalidArgument:    http.StatusBadRequest,
	DeadlineExceeded:   http.StatusGatewayTimeout,
	NotFound:           http.StatusNotFound,
	AlreadyExists:      http.StatusConflict,
	PermissionDenied:   http.StatusForbidden,
	ResourceExhausted:  http.StatusTooManyRequests,
	FailedPrecondition: http.StatusBadRequest,
	Aborted:            http.StatusConflict,
	OutOfRange:         http.StatusBadRequest,
	Unimplemented:      http.StatusNotImplemented,
	Internal:           http.StatusInternalServerError,
	Unavailable:        http.StatusServiceUnavailable,
	DataLoss:           http.StatusInternalServerError,
	Unauthenticated:    http.StatusUnauthorized,
}

// status is the wire spelling of each code in the error envelope.
var status = map[ErrorCode]string{
	OK:                 "OK",
	Cancelled:          "CANCELLED",
	Unknown:            "UNKNOWN",
	InvalidArgument:    "INVALID_ARGUMENT",
	DeadlineExceeded:   "DEADLINE_EXCEEDED",
	NotFound:           "NOT_FOUND",
	AlreadyExists:      "ALREADY_EXISTS",
	PermissionDenied:   "PERMISSION_DENIED",
	ResourceExhausted:  "RESOURCE_EXHAUSTED",
	FailedPrecondition: "FAILED_PRECONDITION",
	Aborted:            "ABORTED",
	OutOfRange:         "OUT_OF_RANGE",
	Unimplemented:      "UNIMPLEMENTED",
	Internal:           "INTERNAL",
	Unavailable:        "UNAVAILABLE",
	DataLoss:           "DATA_LOSS",
	Unauthenticated:    "UNAUTHENTICATED",
}

// Error is an error a callable handler returns to control the response code
// and payload sent to the client.
type Error struct {
	Code    ErrorCode
	Message string
	Details any
}

// NewError builds a callable error with the given code and message.
func NewError(code ErrorCode, message string) *Error {
	return &Error{Code: code, Message: message}
}

func (e *Error) Error() string {
	return string(e.Code) + ": " + e.Message
}

// HTTPStatus returns the HTTP status the error maps to. Unrecognized codes
// map to 500.
func (e *Error) HTTPStatus() int {
	if s, ok := httpStatus[e.Code]; ok {
		return s
	}
	return http.StatusInternalServerError
}

// Status returns the wire spelling of the error's code.
func (e *Error) Status() string {
	if s, ok := status[e.Code]; ok {
		return s
	}
	return status[Unknown]
}
