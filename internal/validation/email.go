package validation

import (
	"errors"
	"net/mail"
)

// maxEmailLength is the longest address an SMTP path allows.
const maxEmailLength = 254

var (
	ErrEmailRequired = errors.New("email address is required")
	ErrEmailTooLong  = errors.New("email address is too long")
	ErrEmailInvalid  = errors.New("invalid email address")
)

// ValidateEmail accepts a bare address. Display-name forms such as
// "Jane <jane@example.com>" are rejected since the value is stored as is.
func ValidateEmail(email string) error {
	switch {
	case email == "":
		return ErrEmailRequired
	case len(email) > maxEmailLength:
		return ErrEmailTooLong
	}

	addr, err := mail.ParseAddress(email)
	if err != nil || addr.Address != email {
		return ErrEmailInvalid
	}
	return nil
}
