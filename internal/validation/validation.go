// Package validation checks registration input and builds the validated
// user record.
//
// The checks are intentionally simple. In particular the email rule only
// requires an '@' and a '.' somewhere in the string, so "user@.com" passes.
package validation

import (
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/antonrybalko/registration-service-go/internal/domain"
)

const (
	// MinPasswordLength is the minimum number of characters in a password
	MinPasswordLength = 8

	// PasswordSpecialChars lists the characters accepted as "special"
	PasswordSpecialChars = `!@#$%^&*(),.?":{}|<>`
)

// Reasons attached to ValidationError
const (
	reasonUsername = "it must not be empty and cannot contain spaces"
	reasonEmail    = "it must contain '@' and '.'"
	reasonPassword = "it must be at least 8 characters long, contain a letter, a number, and a special character"
)

// IsValidUsername reports whether username is non-empty and has no space
func IsValidUsername(username string) bool {
	return username != "" && !strings.Contains(username, " ")
}

// IsValidPassword reports whether password is long enough and contains a
// letter, a digit and one of PasswordSpecialChars
func IsValidPassword(password string) bool {
	if utf8.RuneCountInString(password) < MinPasswordLength {
		return false
	}

	var hasLetter, hasDigit, hasSpecial bool
	for _, r := range password {
		switch {
		case isASCIILetter(r):
			hasLetter = true
		case unicode.IsDigit(r):
			hasDigit = true
		case strings.ContainsRune(PasswordSpecialChars, r):
			hasSpecial = true
		}
	}

	return hasLetter && hasDigit && hasSpecial
}

// IsValidEmail reports whether email contains both '@' and '.'
func IsValidEmail(email string) bool {
	return strings.Contains(email, "@") && strings.Contains(email, ".")
}

// Register validates username, email and password in that order and returns
// the record on success. The first failing field is reported as a
// *ValidationError; later fields are not checked.
func Register(username, email, password string) (domain.UserRecord, error) {
	if !IsValidUsername(username) {
		return domain.UserRecord{}, &ValidationError{Field: FieldUsername, Reason: reasonUsername}
	}
	if !IsValidEmail(email) {
		return domain.UserRecord{}, &ValidationError{Field: FieldEmail, Reason: reasonEmail}
	}
	if !IsValidPassword(password) {
		return domain.UserRecord{}, &ValidationError{Field: FieldPassword, Reason: reasonPassword}
	}

	return domain.UserRecord{
		Username: username,
		Email:    email,
		Password: password,
	}, nil
}

// RegisterCredentials is Register for a Credentials value
func RegisterCredentials(c domain.Credentials) (domain.UserRecord, error) {
	return Register(c.Username, c.Email, c.Password)
}

func isASCIILetter(r rune) bool {
	return (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z')
}
