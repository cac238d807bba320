package validation

import (
	"errors"
	"regexp"
)

var slugPattern = regexp.MustCompile(`^[a-z0-9][a-z0-9_-]*$`)

// ValidateSlug validates a custom field slug
func ValidateSlug(slug string) error {
	if slug == "" {
		return errors.New("slug is required")
	}

	if len(slug) > 64 {
		return errors.New("slug is too long (max 64 characters)")
	}

	if !slugPattern.MatchString(slug) {
		return errors.New("slug may only contain lowercase letters, digits, '-' and '_'")
	}

	return nil
}
