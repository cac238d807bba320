package validation

import (
	"fmt"
	"strings"
)

// ValidateName validates a display name (client, template, field label)
func ValidateName(name string) error {
	return ValidateRequired("name", name, 200)
}

// ValidateRequired checks that value is non-blank and at most max characters.
func ValidateRequired(field, value string, max int) error {
	trimmed := strings.TrimSpace(value)

	if trimmed == "" {
		return fmt.Errorf("%s is required", field)
	}

	if len([]rune(trimmed)) > max {
		return fmt.Errorf("%s is too long (max %d characters)", field, max)
	}

	return nil
}
