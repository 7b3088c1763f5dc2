// Package common defines shared constants and sentinel errors used across
// client and server layers of gophnotes. Callers should use errors.Is to
// match these values.
package common

import (
	"errors"
	"sort"
	"strings"
)

var (
	// Repository-level errors.
	ErrorNotFound = errors.New("not found")

	// Service-level errors.
	ErrorInternal        = errors.New("internal error")
	ErrorUnauthenticated = errors.New("unauthenticated")
	ErrorForbidden       = errors.New("forbidden")
	ErrorExportDisabled  = errors.New("export disabled")

	// Form errors, usually carried inside a FieldError.
	ErrorValidation         = errors.New("validation error")
	ErrorAlreadyExists      = errors.New("already exists")
	ErrorInvalidCredentials = errors.New("invalid username or password")

	// Anti-forgery token missing or not matching the session.
	ErrorAntiForgery = errors.New("invalid anti-forgery token")

	// Auth errors (invalid or malformed token).
	ErrInvalidToken = errors.New("invalid token")
	ErrTokenExpired = errors.New("token expired")
)

// FieldError is a recoverable form error with messages attached to the
// offending fields. Kind is one of ErrorValidation, ErrorAlreadyExists or
// ErrorInvalidCredentials.
type FieldError struct {
	Kind   error
	Fields map[string][]string
}

func (e *FieldError) Error() string {
	names := make([]string, 0, len(e.Fields))
	for name := range e.Fields {
		names = append(names, name)
	}
	sort.Strings(names)

	var b strings.Builder
	b.WriteString(e.Kind.Error())
	for i, name := range names {
		if i == 0 {
			b.WriteString(": ")
		} else {
			b.WriteString("; ")
		}
		b.WriteString(name)
		b.WriteString(": ")
		b.WriteString(strings.Join(e.Fields[name], ", "))
	}
	return b.String()
}

func (e *FieldError) Unwrap() error {
	return e.Kind
}

// Add appends a message to the given field.
func (e *FieldError) Add(field, msg string) {
	if e.Fields == nil {
		e.Fields = map[string][]string{}
	}
	e.Fields[field] = append(e.Fields[field], msg)
}

// NewValidationError returns an empty FieldError of kind ErrorValidation.
func NewValidationError() *FieldError {
	return &FieldError{Kind: ErrorValidation, Fields: map[string][]string{}}
}

// NewUniquenessError reports that field already holds the submitted value.
func NewUniquenessError(field, msg string) *FieldError {
	e := &FieldError{Kind: ErrorAlreadyExists}
	e.Add(field, msg)
	return e
}

// NewInvalidCredentialsError attaches the login failure to the username field
// so that unknown users and wrong passwords look the same.
func NewInvalidCredentialsError() *FieldError {
	e := &FieldError{Kind: ErrorInvalidCredentials}
	e.Add("username", "Invalid username or password.")
	return e
}

// FieldsOf returns the field messages carried by err, if any.
func FieldsOf(err error) map[string][]string {
	var fe *FieldError
	if errors.As(err, &fe) {
		return fe.Fields
	}
	return nil
}
