package api

import (
	"errors"
	"fmt"
	"net/http"
)

// ErrorKind classifies a failed API call.
type ErrorKind string

const (
	ErrorKindNetwork      ErrorKind = "network"
	ErrorKindUnauthorized ErrorKind = "unauthorized"
	ErrorKindForbidden    ErrorKind = "forbidden"
	ErrorKindNotFound     ErrorKind = "not_found"
	ErrorKindRejected     ErrorKind = "rejected"
	ErrorKindDecode       ErrorKind = "decode"
	ErrorKindInvalidInput ErrorKind = "invalid_input"
	// ErrorKindCanceled marks a call abandoned because its context ended.
	// The interceptor does not see it.
	ErrorKindCanceled     ErrorKind = "canceled"
)

// Error describes a failed call to the library backend.
type Error struct {
	Op        string
	Kind      ErrorKind
	Status    int
	Message   string
	RequestID string
	Err       error
}

func (e *Error) Error() string {
	if e == nil {
		return "api error"
	}
	switch {
	case e.Message != "" && e.Status != 0:
		return fmt.Sprintf("%s: %s (status %d)", e.Op, e.Message, e.Status)
	case e.Status != 0:
		return fmt.Sprintf("%s: unexpected status %d", e.Op, e.Status)
	case e.Err != nil:
		return fmt.Sprintf("%s: %s", e.Op, e.Err)
	default:
		return fmt.Sprintf("%s: %s", e.Op, e.Kind)
	}
}

func (e *Error) Unwrap() error { return e.Err }

// KindOf returns the kind of an *Error anywhere in err's chain, or "".
func KindOf(err error) ErrorKind {
	var apiErr *Error
	if errors.As(err, &apiErr) {
		return apiErr.Kind
	}
	return ""
}

// IsKind reports whether err carries the given kind.
func IsKind(err error, kind ErrorKind) bool {
	return KindOf(err) == kind
}

func kindForStatus(status int) ErrorKind {
	switch status {
	case http.StatusUnauthorized:
		return ErrorKindUnauthorized
	case http.StatusForbidden:
		return ErrorKindForbidden
	case http.StatusNotFound:
		return ErrorKindNotFound
	default:
		return ErrorKindRejected
	}
}

func invalidInput(op string, err error) error {
	return &Error{Op: op, Kind: ErrorKindInvalidInput, Err: err}
}
