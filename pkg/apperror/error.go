package apperror

import "net/http"

// Kind classifies an AppError for clients and logs.
type Kind string

const (
	KindMissingField      Kind = "missing_field"
	KindInvalidEmail      Kind = "invalid_email"
	KindSuspiciousContent Kind = "suspicious_content"
	KindMessageTooLong    Kind = "message_too_long"
	KindInvalidPayload    Kind = "invalid_payload"
	KindPayloadTooLarge   Kind = "payload_too_large"
	KindRateLimited       Kind = "rate_limited"
	KindUnavailable       Kind = "service_unavailable"
	KindDispatchFailure   Kind = "dispatch_failure"
	KindUnexpected        Kind = "unexpected_failure"
)

// Generic messages for server-side failures. Internal detail stays in Err.
const (
	MsgDispatchFailure = "Server error: the message could not be delivered. Please try again later."
	MsgUnexpected      = "An error occurred while sending the message."
)

type AppError struct {
	Code    int    `json:"code"`
	Kind    Kind   `json:"kind"`
	Message string `json:"message"`
	Err     error  `json:"-"`
}

func (e *AppError) Error() string {
	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.Err
}

// IsClientError reports whether the error is the caller's fault (4xx).
func (e *AppError) IsClientError() bool {
	return e.Code >= 400 && e.Code < 500
}

// WithKind returns a new error of the given kind.
func WithKind(code int, kind Kind, message string, err error) *AppError {
	return &AppError{
		Code:    code,
		Kind:    kind,
		Message: message,
		Err:     err,
	}
}

func BadRequest(message string) *AppError {
	return WithKind(http.StatusBadRequest, KindInvalidPayload, message, nil)
}

// Validation is a 400 carrying the failed rule's kind.
func Validation(kind Kind, message string) *AppError {
	return WithKind(http.StatusBadRequest, kind, message, nil)
}

func TooLarge(message string) *AppError {
	return WithKind(http.StatusRequestEntityTooLarge, KindPayloadTooLarge, message, nil)
}

// Dispatch wraps a notifier failure. The client only sees the generic message.
func Dispatch(err error) *AppError {
	return WithKind(http.StatusInternalServerError, KindDispatchFailure, MsgDispatchFailure, err)
}

func Internal(err error) *AppError {
	return WithKind(http.StatusInternalServerError, KindUnexpected, MsgUnexpected, err)
}
