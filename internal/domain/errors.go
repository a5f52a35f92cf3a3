package domain

import (
	"errors"
	"fmt"
	"net/http"
)

// ErrorKind classifies service-level failures so the transport layer
// can map them to HTTP statuses.
type ErrorKind string

const (
	// KindBadRequest marks missing or invalid caller input.
	KindBadRequest ErrorKind = "bad_request"

	// KindUnauthorized marks an ingest secret mismatch.
	KindUnauthorized ErrorKind = "unauthorized"

	// KindPreconditionFailed marks an operation attempted on an empty store.
	KindPreconditionFailed ErrorKind = "precondition_failed"

	// KindEmptyReply marks a generation response with no usable content.
	KindEmptyReply ErrorKind = "empty_reply"

	// KindUpstreamFailure marks exhaustion of every model/attempt combination.
	KindUpstreamFailure ErrorKind = "upstream_failure"
)

// Error is the structured error carried across service boundaries.
// Status and Payload hold the last upstream response for diagnostics
// when the kind is KindUpstreamFailure.
type Error struct {
	Kind    ErrorKind `json:"kind"`
	Message string    `json:"message"`
	Status  int       `json:"status,omitempty"`
	Payload string    `json:"payload,omitempty"`
	cause   error
}

func (e *Error) Error() string {
	if e.cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Message, e.cause)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

func (e *Error) Unwrap() error { return e.cause }

// HTTPStatus maps the error kind to a caller-facing HTTP status.
// Upstream failures reuse the upstream status when one was recorded.
func (e *Error) HTTPStatus() int {
	switch e.Kind {
	case KindBadRequest:
		return http.StatusBadRequest
	case KindUnauthorized:
		return http.StatusUnauthorized
	case KindPreconditionFailed:
		return http.StatusPreconditionFailed
	case KindUpstreamFailure:
		if e.Status >= 400 {
			return e.Status
		}
		return http.StatusBadGateway
	case KindEmptyReply:
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

// BadRequest builds a caller-input error.
func BadRequest(format string, args ...interface{}) *Error {
	return &Error{Kind: KindBadRequest, Message: fmt.Sprintf(format, args...)}
}

// Unauthorized builds an auth failure error.
func Unauthorized(msg string) *Error {
	return &Error{Kind: KindUnauthorized, Message: msg}
}

// PreconditionFailed builds an empty-store error.
func PreconditionFailed(msg string) *Error {
	return &Error{Kind: KindPreconditionFailed, Message: msg}
}

// EmptyReply builds an error for a generation response without content.
func EmptyReply(msg string) *Error {
	return &Error{Kind: KindEmptyReply, Message: msg}
}

// UpstreamFailure builds an exhaustion error carrying the last upstream
// status code and response body.
func UpstreamFailure(status int, payload string, cause error) *Error {
	return &Error{
		Kind:    KindUpstreamFailure,
		Message: "all models and attempts exhausted",
		Status:  status,
		Payload: payload,
		cause:   cause,
	}
}

// AsError extracts a *Error from err, or wraps it as an internal error.
func AsError(err error) *Error {
	var de *Error
	if errors.As(err, &de) {
		return de
	}
	return &Error{Kind: "internal", Message: err.Error(), cause: err}
}
