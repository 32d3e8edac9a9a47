// internal/data/errors.go
package data

import (
	"errors"
	"net/http"
)

// Kind classifies every failure the library can report.
type Kind int

const (
	// KindStorage is an underlying persistence failure (connectivity,
	// constraint, malformed statement).
	KindStorage Kind = iota + 1
	// KindTransport is a failure encoding or decoding a request or response.
	KindTransport
	// KindNotFound means the targeted book does not exist, or a listing
	// returned zero rows.
	KindNotFound
	// KindConflict means an insert collided with an existing book id.
	KindConflict
)

func (k Kind) String() string {
	switch k {
	case KindStorage:
		return "storage"
	case KindTransport:
		return "transport"
	case KindNotFound:
		return "not_found"
	case KindConflict:
		return "conflict"
	default:
		return "unknown"
	}
}

var (
	// ErrRecordNotFound matches any KindNotFound error via errors.Is.
	ErrRecordNotFound = errors.New("record not found")
	// ErrDuplicateID matches any KindConflict error via errors.Is.
	ErrDuplicateID = errors.New("duplicate book id")
)

// genericMessage is what callers see for Storage and Transport failures.
const genericMessage = "the server encountered a problem and could not process your request"

// Error is the tagged error shared by the gateway and the HTTP handlers.
type Error struct {
	Kind    Kind
	Message string
	Err     error
}

// Error formats the variant's message, followed by the wrapped cause if any.
func (e *Error) Error() string {
	if e.Err != nil {
		return e.Message + ": " + e.Err.Error()
	}
	return e.Message
}

func (e *Error) Unwrap() error { return e.Err }

// Is lets callers test the kind with the package sentinels.
func (e *Error) Is(target error) bool {
	switch target {
	case ErrRecordNotFound:
		return e.Kind == KindNotFound
	case ErrDuplicateID:
		return e.Kind == KindConflict
	}
	return false
}

// Status maps the kind to an HTTP status code.
func (e *Error) Status() int {
	switch e.Kind {
	case KindNotFound:
		return http.StatusNotFound
	case KindConflict:
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

// PublicMessage returns the text that is safe to send to a client.
// Storage and Transport details stay server-side.
func (e *Error) PublicMessage() string {
	switch e.Kind {
	case KindNotFound, KindConflict:
		return e.Message
	default:
		return genericMessage
	}
}

// StorageError wraps a database failure.
func StorageError(err error) *Error {
	return &Error{Kind: KindStorage, Message: "database error", Err: err}
}

// TransportError wraps a request decoding or response encoding failure.
func TransportError(err error) *Error {
	return &Error{Kind: KindTransport, Message: "transport error", Err: err}
}

// NotFoundError reports a missing book with a caller-safe message.
func NotFoundError(message string) *Error {
	return &Error{Kind: KindNotFound, Message: message}
}

// ConflictError reports a duplicate id; err is the underlying constraint violation.
func ConflictError(message string, err error) *Error {
	return &Error{Kind: KindConflict, Message: message, Err: err}
}

// KindOf classifies err. Errors that did not come from this package are
// treated as storage failures.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindStorage
}

// AsError returns err as a tagged *Error, wrapping untagged errors as Storage.
func AsError(err error) *Error {
	var e *Error
	if errors.As(err, &e) {
		return e
	}
	return StorageError(err)
}
