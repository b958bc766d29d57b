// Package apperr defines the domain error taxonomy shared by services
// and handlers. Every operation resolves its failures into one of these
// typed errors; the HTTP layer maps the kind to a status code and the
// message goes out verbatim in the response body.
package apperr

import (
	"github.com/gofiber/fiber/v2"
)

type Kind int

const (
	KindUnauthorized Kind = iota + 1
	KindNotFound
	KindValidation
)

type Error struct {
	Kind    Kind
	Message string
}

func (e *Error) Error() string { return e.Message }

// HTTPStatus returns the status code the HTTP layer reports for this kind.
func (e *Error) HTTPStatus() int {
	switch e.Kind {
	case KindUnauthorized:
		return fiber.StatusUnauthorized
	case KindNotFound:
		return fiber.StatusNotFound
	default:
		return fiber.StatusBadRequest
	}
}

// Unauthorized deliberately covers both missing and invalid credentials,
// and NotFound covers both absent resources and resources the caller may
// not see. Collapsing these is an anti-enumeration policy: error
// responses never confirm whether a resource or account exists.
var (
	ErrUnauthorized = &Error{Kind: KindUnauthorized, Message: "Unauthorized"}
	ErrNotFound     = &Error{Kind: KindNotFound, Message: "Not found"}
)

func validation(msg string) *Error {
	return &Error{Kind: KindValidation, Message: msg}
}

var (
	ErrMissingName     = validation("Missing name")
	ErrInvalidType     = validation("Missing type")
	ErrParentNotFound  = validation("Parent not found")
	ErrParentNotFolder = validation("Parent is not a folder")
	ErrMissingData     = validation("Missing data")
	ErrMissingEmail    = validation("Missing email")
	ErrMissingPassword = validation("Missing password")
	ErrAlreadyExists   = validation("Already exist")
)
