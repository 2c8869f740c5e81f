package errors

import (
	"slices"
	"strings"
	"unicode"
)

// DefaultMaxInputSize bounds a single JSON document accepted by the CLI and
// the API (8 MiB).
const DefaultMaxInputSize int64 = 8 << 20

// ValidateInputSize rejects documents larger than max bytes.
// A non-positive max disables the check.
func ValidateInputSize(size, max int64) error {
	if max > 0 && size > max {
		return New(ErrCodeInputTooLarge, "input is %d bytes (max %d)", size, max)
	}
	return nil
}

// ValidateDiagramID validates a stored diagram id before it reaches a
// storage backend.
//
// Validation rules:
//   - ID cannot be empty
//   - Maximum length of 64 characters
//   - Only letters, digits, and '-'
func ValidateDiagramID(id string) error {
	if id == "" {
		return New(ErrCodeInvalidInput, "diagram id cannot be empty")
	}

	const maxIDLength = 64
	if len(id) > maxIDLength {
		return New(ErrCodeInvalidInput, "diagram id too long (max %d characters)", maxIDLength)
	}

	for _, r := range id {
		if r > unicode.MaxASCII || !(unicode.IsLetter(r) || unicode.IsDigit(r) || r == '-') {
			return New(ErrCodeInvalidInput, "diagram id contains invalid character %q", r)
		}
	}
	return nil
}

// ValidateFormat checks that format is one of allowed (case-insensitive).
func ValidateFormat(format string, allowed []string) error {
	if format == "" {
		return New(ErrCodeInvalidFormat, "format cannot be empty")
	}
	if !slices.Contains(allowed, strings.ToLower(format)) {
		return New(ErrCodeInvalidFormat, "unsupported format %q (want one of %s)", format, strings.Join(allowed, ", "))
	}
	return nil
}
