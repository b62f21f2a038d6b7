package domain

import (
	"errors"
	"fmt"
)

// Kind classifies a failure so callers can branch on it without string matching
type Kind int

const (
	KindUnknown Kind = iota
	// KindRemoteUnavailable means the remote could not be reached (refused, timeout)
	KindRemoteUnavailable
	// KindRemoteRejected means the remote answered with an error payload
	KindRemoteRejected
	// KindInputInvalid means the request was malformed before any remote call
	KindInputInvalid
	// KindNotFound means a referenced deck, model, note or item does not exist
	KindNotFound
)

func (k Kind) String() string {
	switch k {
	case KindRemoteUnavailable:
		return "remote_unavailable"
	case KindRemoteRejected:
		return "remote_rejected"
	case KindInputInvalid:
		return "input_invalid"
	case KindNotFound:
		return "not_found"
	default:
		return "unknown"
	}
}

// Sentinel errors, one per Kind, for use with errors.Is
var (
	ErrRemoteUnavailable = errors.New("remote unavailable")
	ErrRemoteRejected    = errors.New("remote rejected")
	ErrInputInvalid      = errors.New("invalid input")
	ErrNotFound          = errors.New("not found")

	// ErrNoClozeDeletions is returned when text yields no cloze deletion
	ErrNoClozeDeletions = errors.New("no cloze deletions found")
	// ErrNoValidNoteType is returned when neither the requested nor the default note type exists
	ErrNoValidNoteType = &Error{Kind: KindNotFound, Message: "no valid note type available"}
)

// Error is a kind-tagged failure. Message carries remote error text verbatim.
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
		return fmt.Sprintf("%s: %s", e.Op, msg)
	}
	return msg
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Is matches the sentinel for the error's Kind
func (e *Error) Is(target error) bool {
	if t, ok := target.(*Error); ok {
		return t == e || (t.Kind == e.Kind && t.Message == e.Message && t.Op == "")
	}
	return target == e.Kind.sentinel()
}

func (k Kind) sentinel() error {
	switch k {
	case KindRemoteUnavailable:
		return ErrRemoteUnavailable
	case KindRemoteRejected:
		return ErrRemoteRejected
	case KindInputInvalid:
		return ErrInputInvalid
	case KindNotFound:
		return ErrNotFound
	default:
		return nil
	}
}

// NewError builds a kind-tagged error for op
func NewError(kind Kind, op, message string) *Error {
	return &Error{Kind: kind, Op: op, Message: message}
}

// WrapError tags err with kind for op
func WrapError(kind Kind, op string, err error) *Error {
	return &Error{Kind: kind, Op: op, Err: err}
}

// KindOf returns the Kind carried by err, or KindUnknown
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	switch {
	case errors.Is(err, ErrRemoteUnavailable):
		return KindRemoteUnavailable
	case errors.Is(err, ErrRemoteRejected):
		return KindRemoteRejected
	case errors.Is(err, ErrInputInvalid):
		return KindInputInvalid
	case errors.Is(err, ErrNotFound):
		return KindNotFound
	}
	return KindUnknown
}
