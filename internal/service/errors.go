package service

import (
	"errors"
	"strings"
)

var (
	ErrValidation         = errors.New("validation")          // 400
	ErrConflict           = errors.New("conflict")            // 400
	ErrInvalidCredentials = errors.New("invalid credentials") // 401
	ErrUnauthorized       = errors.New("unauthorized")        // 401
	ErrForbidden          = errors.New("forbidden")           // 403
	ErrNotFound           = errors.New("not found")           // 404
)

var sentinels = []error{
	ErrValidation,
	ErrConflict,
	ErrInvalidCredentials,
	ErrUnauthorized,
	ErrForbidden,
	ErrNotFound,
}

// Detail returns the client-facing part of an error built as fmt.Errorf("%w: detail", ErrX).
func Detail(err error) string {
	msg := err.Error()
	for _, s := range sentinels {
		if errors.Is(err, s) {
			return strings.TrimPrefix(msg, s.Error()+": ")
		}
	}
	return msg
}

// Caller is the authenticated account performing a request.
type Caller struct {
	ID   uint
	Role string
}
