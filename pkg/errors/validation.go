package errors

import (
	"strings"
	"unicode"
)

// ValidateProblemID validates a problem number as stored in the solver database.
func ValidateProblemID(id int) error {
	if id <= 0 {
		return New(ErrCodeInvalidInput, "problem id must be positive, got %d", id)
	}
	return nil
}

// ValidatePattern validates a printf-style name pattern such as "bag %s",
// "Join %d~%d" or "dbjson%d.json". The pattern must contain exactly verbs
// substitutions, each of them %d or %s; "%%" is an escaped percent sign.
func ValidatePattern(pattern string, verbs int) error {
	if pattern == "" {
		return New(ErrCodeInvalidInput, "pattern cannot be empty")
	}

	found := 0
	for i := 0; i < len(pattern); i++ {
		if pattern[i] != '%' {
			continue
		}
		if i+1 >= len(pattern) {
			return New(ErrCodeInvalidInput, "pattern %q ends with a dangling %%", pattern)
		}
		switch pattern[i+1] {
		case '%':
		case 'd', 's':
			found++
		default:
			return New(ErrCodeInvalidInput, "pattern %q uses unsupported verb %%%c", pattern, pattern[i+1])
		}
		i++
	}

	if found != verbs {
		return New(ErrCodeInvalidInput, "pattern %q needs %d substitution(s), has %d", pattern, verbs, found)
	}
	return nil
}

// ValidateBaseName validates a file base name that gets joined onto an
// output folder, like "TDStep" or "IncidenceGraphStep".
//
// Validation rules:
//   - Name cannot be empty
//   - Maximum length of 255 characters
//   - No null bytes or control characters
//   - No path separators
//   - No path traversal sequences (..)
func ValidateBaseName(name string) error {
	if name == "" {
		return New(ErrCodeInvalidPath, "file name cannot be empty")
	}

	const maxNameLength = 255
	if len(name) > maxNameLength {
		return New(ErrCodeInvalidPath, "file name too long (max %d characters)", maxNameLength)
	}

	for _, r := range name {
		if r == '\x00' || unicode.IsControl(r) {
			return New(ErrCodeInvalidPath, "file name contains invalid characters")
		}
	}

	if strings.ContainsAny(name, "/\\") {
		return New(ErrCodeInvalidPath, "file name cannot contain path separators: %q", name)
	}

	if strings.Contains(name, "..") {
		return New(ErrCodeInvalidPath, "file name cannot contain path traversal sequences (..)")
	}

	return nil
}
