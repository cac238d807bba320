package service

import (
	"errors"
	"time"
)

// ErrValidation is returned when a bound form has errors. The form itself
// carries the per-field messages.
var ErrValidation = errors.New("validation failed")

// Clock returns the current time. Services take one so tests can pin it.
type Clock func() time.Time

func utcNow() time.Time {
	return time.Now().UTC()
}

func stringPtr(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

func derefString(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
