package client

import (
	"errors"
	"fmt"
)

var (
	ErrUnauthenticated = errors.New("not authenticated")
	ErrAPI             = errors.New("api error")
	ErrDecode          = errors.New("unexpected response body")
)

// Kind classifies a failure by where it was detected.
type Kind string

const (
	KindValidation      Kind = "validation"
	KindUnauthenticated Kind = "unauthenticated"
	KindAPI             Kind = "api"
	KindDecode          Kind = "decode"
	KindNetwork         Kind = "network"
)

// Error carries the user-facing Message alongside the failure kind.
// Status is set only for KindAPI.
type Error struct {
	Op      string
	Kind    Kind
	Status  int
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("%s: %s: %s", e.Op, e.Kind, e.Message)
	}
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Op, e.Kind, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Op, e.Kind)
}

func (e *Error) Unwrap() error { return e.Err }

// Invalid builds a client-side validation error that never reached the network.
func Invalid(op string, err error, message string) *Error {
	return &Error{Op: op, Kind: KindValidation, Message: message, Err: err}
}

func IsKind(err error, kind Kind) bool {
	var e *Error
	return errors.As(err, &e) && e.Kind == kind
}

// UserMessage returns the text to show for err: the server's message verbatim for API
// errors, the operation's generic text otherwise.
func UserMessage(err error) string {
	if err == nil {
		return ""
	}
	var e *Error
	if errors.As(err, &e) && e.Message != "" {
		return e.Message
	}
	return err.Error()
}
