package apperr

import (
	"errors"
	"fmt"

	"github.com/gofiber/fiber/v2"
)

// Kind error category, decides how the transport layers report the failure
type Kind int

const (
	// Unauthenticated bad/missing/expired credential, terminal for the connection
	Unauthenticated Kind = iota
	// Validation missing/empty required field, surfaced to the caller only
	Validation
	// NotFound referenced counterpart/student/message does not exist
	NotFound
	// Authorization principal has no relationship to the referenced student
	Authorization
	// Persistence storage operation failed, no automatic retry
	Persistence
)

// Error taxonomy error carried across the socket and REST paths
type Error struct {
	Kind Kind
	Msg  string
	Err  error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Msg, e.Err)
	}
	return e.Msg
}

func (e *Error) Unwrap() error { return e.Err }

// New create a taxonomy error
func New(kind Kind, msg string) *Error {
	return &Error{Kind: kind, Msg: msg}
}

// Wrap create a taxonomy error keeping the cause
func Wrap(kind Kind, msg string, err error) *Error {
	return &Error{Kind: kind, Msg: msg, Err: err}
}

// KindOf classify err; unknown errors count as Persistence so they are
// surfaced and never silently dropped
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return Persistence
}

// Is check err belongs to kind
func Is(err error, kind Kind) bool {
	return KindOf(err) == kind
}

// StatusCode map a taxonomy error onto the REST response status
func StatusCode(err error) int {
	switch KindOf(err) {
	case Unauthenticated:
		return fiber.StatusUnauthorized
	case Validation:
		return fiber.StatusBadRequest
	case NotFound:
		return fiber.StatusNotFound
	case Authorization:
		return fiber.StatusForbidden
	default:
		return fiber.StatusInternalServerError
	}
}
