package validation

import (
	"errors"
	"fmt"
)

// Field names reported by ValidationError
const (
	FieldUsername = "username"
	FieldEmail    = "email"
	FieldPassword = "password"
)

// Common errors
var (
	ErrInvalidUsername = errors.New("invalid username")
	ErrInvalidEmail    = errors.New("invalid email")
	ErrInvalidPassword = errors.New("invalid password")
)

// ValidationError reports the first field that failed validation
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

// Unwrap returns the sentinel error for the failed field
func (e *ValidationError) Unwrap() error {
	switch e.Field {
	case FieldUsername:
		return ErrInvalidUsername
	case FieldEmail:
		return ErrInvalidEmail
	case FieldPassword:
		return ErrInvalidPassword
	default:
		return nil
	}
}

// FieldOf returns the failed field of err, or "" if err is not a ValidationError
func FieldOf(err error) string {
	var vErr *ValidationError
	if errors.As(err, &vErr) {
		return vErr.Field
	}
	return ""
}
