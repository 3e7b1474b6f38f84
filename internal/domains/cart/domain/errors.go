package domain

import (
	"errors"
	"strings"
)

var (
	// ErrValidationRejected means the storefront accepted the request but flagged it.
	ErrValidationRejected = errors.New("cart change rejected by storefront")
	// ErrCartNotFound means the referenced cart no longer exists remotely.
	ErrCartNotFound = errors.New("cart not found")
	// ErrRemoteUnavailable covers transport, credential and protocol failures.
	ErrRemoteUnavailable = errors.New("storefront unavailable")
	// ErrInvalidArgument is returned before any network call for malformed input.
	ErrInvalidArgument = errors.New("invalid cart argument")
	// ErrSessionClosed is returned once a session store has been torn down.
	ErrSessionClosed = errors.New("cart session closed")
)

// UserError is a user-facing validation error reported by the storefront.
type UserError struct {
	Field   []string
	Message string
	Code    string
}

// RejectedError carries the user errors behind ErrValidationRejected.
type RejectedError struct {
	UserErrors []UserError
}

func (e *RejectedError) Error() string {
	if msg := e.Message(); msg != "" {
		return msg
	}
	return ErrValidationRejected.Error()
}

// Message joins the user error messages verbatim.
func (e *RejectedError) Message() string {
	if e == nil {
		return ""
	}
	msgs := make([]string, 0, len(e.UserErrors))
	for _, ue := range e.UserErrors {
		if m := strings.TrimSpace(ue.Message); m != "" {
			msgs = append(msgs, m)
		}
	}
	return strings.Join(msgs, ", ")
}

func (e *RejectedError) Unwrap() error { return ErrValidationRejected }
