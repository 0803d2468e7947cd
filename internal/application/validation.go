package application

import (
	"fmt"
	"strings"

	"treedit/internal/domain"
)

// ValidateRequired checks if a string field is non-empty (after trimming whitespace).
// Returns a ValidationError if the field is empty.
func ValidateRequired(fieldName, value string) error {
	if strings.TrimSpace(value) == "" {
		displayName := formatFieldName(fieldName)
		return &ValidationError{
			Field:   fieldName,
			Message: fmt.Sprintf("%s is required", displayName),
		}
	}
	return nil
}

// formatFieldName converts camelCase field names to space-separated words
// for more readable error messages (e.g., "newKey" -> "new key")
func formatFieldName(fieldName string) string {
	replacements := map[string]string{
		"newKey":   "new key",
		"value":    "value",
		"path":     "path",
		"register": "register",
		"docPath":  "document path",
	}

	if formatted, ok := replacements[fieldName]; ok {
		return formatted
	}

	return fieldName
}

// ValidateRegister checks that name is the unnamed register or a letter a-z
func ValidateRegister(name rune) error {
	if name == '"' || (name >= 'a' && name <= 'z') {
		return nil
	}
	return &ValidationError{
		Field:   "register",
		Message: fmt.Sprintf("invalid register %q, expected a-z", name),
	}
}

// ValidatePath parses dotted path text, reporting failures against fieldName
func ValidatePath(fieldName, text string) (domain.Path, error) {
	p, err := domain.ParsePath(text)
	if err != nil {
		return nil, &ValidationError{
			Field:   fieldName,
			Message: fmt.Sprintf("invalid %s: %s", formatFieldName(fieldName), text),
		}
	}
	return p, nil
}
