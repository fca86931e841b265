package common

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/rs/zerolog"
)

// Error kinds surfaced by the curation core
var (
	ErrRemoteUnavailable = errors.New("remote unavailable")
	ErrRemoteRejected    = errors.New("remote rejected the request")
	ErrNotFound          = errors.New("not found")
	ErrNotConfirmed      = errors.New("operation not confirmed")
	ErrNoCollection      = errors.New("no collection is open")
	ErrInvalidRank       = errors.New("invalid rank")
)

// RemoteError describes a failed call against the remote authority.
// Kind is either ErrRemoteUnavailable or ErrRemoteRejected.
type RemoteError struct {
	Op      string
	Status  int
	Message string
	Kind    error
	Err     error
}

func (e *RemoteError) Error() string {
	var b strings.Builder
	b.WriteString(e.Op)
	b.WriteString(": ")
	b.WriteString(e.Kind.Error())
	if e.Status != 0 {
		fmt.Fprintf(&b, " (status %d)", e.Status)
	}
	if e.Message != "" {
		b.WriteString(": ")
		b.WriteString(e.Message)
	}
	if e.Err != nil {
		b.WriteString(": ")
		b.WriteString(e.Err.Error())
	}
	return b.String()
}

// Unwrap exposes both the kind and the underlying cause to errors.Is/As.
func (e *RemoteError) Unwrap() []error {
	if e.Err == nil {
		return []error{e.Kind}
	}
	return []error{e.Kind, e.Err}
}

// Unavailable builds a transport-level RemoteError
func Unavailable(op string, err error) *RemoteError {
	return &RemoteError{Op: op, Kind: ErrRemoteUnavailable, Err: err}
}

// Rejected builds a RemoteError for an explicit failure answer
func Rejected(op string, status int, message string) *RemoteError {
	return &RemoteError{Op: op, Status: status, Message: message, Kind: ErrRemoteRejected}
}

// FromStatus classifies a non-2xx HTTP status. Gateway-style statuses mean the
// authority could not be reached, everything else is an explicit rejection.
func FromStatus(op string, status int, message string) *RemoteError {
	switch status {
	case http.StatusBadGateway, http.StatusServiceUnavailable, http.StatusGatewayTimeout:
		return &RemoteError{Op: op, Status: status, Message: message, Kind: ErrRemoteUnavailable}
	}
	return Rejected(op, status, message)
}

// IsRemote reports whether err came from the remote authority
func IsRemote(err error) bool {
	return errors.Is(err, ErrRemoteUnavailable) || errors.Is(err, ErrRemoteRejected)
}

// ErrorUtils provides common error handling utilities
type ErrorUtils struct {
	logger zerolog.Logger
}

// NewErrorUtils creates a new ErrorUtils instance
func NewErrorUtils(logger zerolog.Logger) *ErrorUtils {
	return &ErrorUtils{logger: logger}
}

// WrapError wraps an error with additional context
func (eu *ErrorUtils) WrapError(err error, message string, args ...interface{}) error {
	if err == nil {
		return nil
	}
	context := fmt.Sprintf(message, args...)
	return fmt.Errorf("%s: %w", context, err)
}

// LogAndWrapError logs an error and wraps it with context
func (eu *ErrorUtils) LogAndWrapError(err error, level zerolog.Level, message string, args ...interface{}) error {
	if err == nil {
		return nil
	}

	context := fmt.Sprintf(message, args...)
	eu.logger.WithLevel(level).Err(err).Msg(context)

	return fmt.Errorf("%s: %w", context, err)
}
