package service

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

var (
	// ErrInvalidCredentials is returned for every login failure cause
	// (unknown email, wrong password, deactivated account) so the
	// response never reveals which half of the pair was wrong.
	ErrInvalidCredentials = errors.New("invalid email or password")

	ErrInvalidToken = errors.New("invalid token")
	ErrNotFound     = errors.New("not found")
	ErrNotOwner     = errors.New("only the author can modify this recipe")

	ErrEmailTaken    = errors.New("user with this email already exists")
	ErrUsernameTaken = errors.New("user with this username already exists")
)

// ValidationError aggregates every violation detected while checking a
// request, keyed by field, so the caller sees the full list at once.
type ValidationError struct {
	Fields map[string][]string
}

func NewValidationError() *ValidationError {
	return &ValidationError{Fields: make(map[string][]string)}
}

func (e *ValidationError) Add(field, message string) {
	e.Fields[field] = append(e.Fields[field], message)
}

func (e *ValidationError) Empty() bool {
	return len(e.Fields) == 0
}

// ErrOrNil returns the error value, or nil when nothing was recorded.
// Returning e directly would yield a non-nil error interface holding a
// useless empty value.
func (e *ValidationError) ErrOrNil() error {
	if e.Empty() {
		return nil
	}
	return e
}

func (e *ValidationError) Error() string {
	fields := make([]string, 0, len(e.Fields))
	for f := range e.Fields {
		fields = append(fields, f)
	}
	sort.Strings(fields)
	parts := make([]string, 0, len(fields))
	for _, f := range fields {
		parts = append(parts, fmt.Sprintf("%s: %s", f, strings.Join(e.Fields[f], "; ")))
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

// AsValidationError unwraps err into a *ValidationError if it is one.
func AsValidationError(err error) (*ValidationError, bool) {
	var verr *ValidationError
	if errors.As(err, &verr) {
		return verr, true
	}
	return nil, false
}
