package auth

import (
	"errors"
	"strings"
	"unicode/utf16"
)

// minPasswordLength is the shortest password accepted by the identity service, in UTF-16 code units.
const minPasswordLength = 6

// Static error definitions for credential validation.
var (
	// ErrValidation is the common parent of every credential validation error.
	ErrValidation = errors.New("validation failed")
	// ErrEmptyField indicates that the email or the password is blank.
	ErrEmptyField = errors.New("fields cannot be empty")
	// ErrMalformedEmail indicates an email without "@" or ".".
	ErrMalformedEmail = errors.New("invalid email format")
	// ErrWeakPassword indicates a password shorter than six characters.
	ErrWeakPassword = errors.New("password must be at least 6 characters")
)

// Credentials holds a validated email/password pair. It is never persisted.
type Credentials struct {
	// Email is the trimmed account email.
	Email string
	// Password is the trimmed account password.
	Password string
}

// Validate trims both inputs and checks them in order: emptiness, email shape, password length.
// The first failing rule wins.
func Validate(email, password string) (Credentials, error) {
	email = strings.TrimSpace(email)
	password = strings.TrimSpace(password)

	switch {
	case email == "" || password == "":
		return Credentials{}, validationError(ErrEmptyField)
	case !strings.Contains(email, "@") || !strings.Contains(email, "."):
		return Credentials{}, validationError(ErrMalformedEmail)
	case passwordLength(password) < minPasswordLength:
		return Credentials{}, validationError(ErrWeakPassword)
	}

	return Credentials{Email: email, Password: password}, nil
}

// passwordLength counts UTF-16 code units, so a character outside the BMP counts twice.
func passwordLength(password string) int {
	return len(utf16.Encode([]rune(password)))
}

// ValidationError carries the rule a credential pair failed.
type ValidationError struct {
	// Reason is one of ErrEmptyField, ErrMalformedEmail or ErrWeakPassword.
	Reason error
}

func validationError(reason error) *ValidationError {
	return &ValidationError{Reason: reason}
}

// Error returns the message of the failed rule.
func (e *ValidationError) Error() string {
	return e.Reason.Error()
}

// Unwrap exposes both ErrValidation and the failed rule to errors.Is.
func (e *ValidationError) Unwrap() []error {
	return []error{ErrValidation, e.Reason}
}

