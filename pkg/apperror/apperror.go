package apperror

import (
	"errors"
	"fmt"
	"net/http"
)

// Kind classifies an error by how callers are expected to react to it.
type Kind string

const (
	// KindNotFound means the symbol or row is unknown. Rendered as "not available".
	KindNotFound Kind = "not_found"
	// KindUpstreamUnavailable covers network errors, timeouts and malformed upstream payloads.
	KindUpstreamUnavailable Kind = "upstream_unavailable"
	// KindValidation means a required argument was missing or malformed.
	KindValidation Kind = "validation"
	// KindStorageFailure means the persistence layer failed. Fatal for the operation.
	KindStorageFailure Kind = "storage_failure"
	// KindConfiguration means a required startup setting is missing. Fatal for the process.
	KindConfiguration Kind = "configuration"
	// KindUnknown is used for errors that were never classified.
	KindUnknown Kind = "unknown"
)

// Error is a classified error.
type Error struct {
	Kind    Kind
	Op      string
	Message string
	Err     error
}

func (e *Error) Error() string {
	msg := e.Message
	if msg == "" && e.Err != nil {
		msg = e.Err.Error()
	} else if e.Err != nil {
		msg = fmt.Sprintf("%s: %v", msg, e.Err)
	}
	if e.Op != "" {
		return fmt.Sprintf("%s: %s: %s", e.Op, e.Kind, msg)
	}
	return fmt.Sprintf("%s: %s", e.Kind, msg)
}

func (e *Error) Unwrap() error {
	return e.Err
}

func newError(kind Kind, op, message string, err error) *Error {
	return &Error{Kind: kind, Op: op, Message: message, Err: err}
}

func NotFound(op, message string) *Error {
	return newError(KindNotFound, op, message, nil)
}

func Upstream(op string, err error) *Error {
	return newError(KindUpstreamUnavailable, op, "", err)
}

func UpstreamMessage(op, message string) *Error {
	return newError(KindUpstreamUnavailable, op, message, nil)
}

func Validation(op, message string) *Error {
	return newError(KindValidation, op, message, nil)
}

func Storage(op string, err error) *Error {
	return newError(KindStorageFailure, op, "", err)
}

func Configuration(op, message string) *Error {
	return newError(KindConfiguration, op, message, nil)
}

// KindOf returns the Kind of the first classified error in err's chain.
func KindOf(err error) Kind {
	if err == nil {
		return ""
	}
	var appErr *Error
	if errors.As(err, &appErr) {
		return appErr.Kind
	}
	return KindUnknown
}

// IsKind reports whether err is classified as kind.
func IsKind(err error, kind Kind) bool {
	return err != nil && KindOf(err) == kind
}

// ClassifyHTTPStatus maps a non-2xx upstream status code to a classified error.
// 404 is NotFound; everything else is UpstreamUnavailable.
func ClassifyHTTPStatus(op string, statusCode int) *Error {
	if statusCode == http.StatusNotFound {
		return NotFound(op, fmt.Sprintf("upstream returned status %d", statusCode))
	}
	return UpstreamMessage(op, fmt.Sprintf("upstream returned status %d", statusCode))
}

// HTTPStatus maps a Kind to the status code used by the admin API.
func HTTPStatus(err error) int {
	switch KindOf(err) {
	case KindNotFound:
		return http.StatusNotFound
	case KindValidation:
		return http.StatusBadRequest
	case KindUpstreamUnavailable:
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}
