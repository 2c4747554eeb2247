package errors

import (
	"math"
	"regexp"
	"strings"
	"unicode"
)

// ValidatePercent checks that v is a finite fractional anchor in [0, 100].
// field names the coordinate ("x" or "y") for the error message.
func ValidatePercent(id, field string, v float64) error {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return New(ErrCodeInvalidIcon, "icon %q: %s is not a finite number", id, field)
	}
	if v < 0 || v > 100 {
		return New(ErrCodeInvalidIcon, "icon %q: %s must be within [0, 100], got %g", id, field, v)
	}
	return nil
}

// ValidateIconSize checks that an icon size is a positive, finite pixel value.
func ValidateIconSize(id string, size float64) error {
	if math.IsNaN(size) || math.IsInf(size, 0) || size <= 0 {
		return New(ErrCodeInvalidIcon, "icon %q: size must be positive, got %g", id, size)
	}
	return nil
}

// ValidateIconID validates an icon or media identifier.
//
// The validation rules are intentionally conservative:
//   - No empty IDs
//   - No control characters
//   - Maximum length of 128 characters
func ValidateIconID(id string) error {
	if id == "" {
		return New(ErrCodeInvalidIcon, "icon id cannot be empty")
	}
	if len(id) > 128 {
		return New(ErrCodeInvalidIcon, "icon id too long (max 128 characters)")
	}
	for _, r := range id {
		if unicode.IsControl(r) {
			return New(ErrCodeInvalidIcon, "icon id contains invalid control characters")
		}
	}
	return nil
}

// mapNameRegex matches map names accepted by the HTTP server.
var mapNameRegex = regexp.MustCompile(`^[A-Za-z0-9][A-Za-z0-9._-]*$`)

// ValidateMapName validates a map name taken from a URL path.
// It rejects names that could be used for path traversal.
func ValidateMapName(name string) error {
	if name == "" {
		return New(ErrCodeInvalidInput, "map name cannot be empty")
	}
	if len(name) > 100 {
		return New(ErrCodeInvalidInput, "map name too long (max 100 characters)")
	}
	if strings.Contains(name, "..") {
		return New(ErrCodeInvalidInput, "map name cannot contain path traversal sequences (..)")
	}
	if !mapNameRegex.MatchString(name) {
		return New(ErrCodeInvalidInput, "invalid map name: %q", name)
	}
	return nil
}
