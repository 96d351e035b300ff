package errors

import (
	"regexp"
	"strings"
	"unicode"
)

// maxNameLength bounds pattern names and owner identifiers.
const maxNameLength = 256

// ValidatePatternName validates a saved pattern's display name.
//
// The rules are conservative:
//   - No empty or whitespace-only names
//   - No control characters or null bytes
//   - Maximum length of 256 characters
func ValidatePatternName(name string) error {
	if strings.TrimSpace(name) == "" {
		return New(ErrCodeInvalidInput, "pattern name cannot be empty")
	}

	if len(name) > maxNameLength {
		return New(ErrCodeInvalidInput, "pattern name too long (max %d characters)", maxNameLength)
	}

	for _, r := range name {
		if unicode.IsControl(r) {
			return New(ErrCodeInvalidInput, "pattern name contains invalid control characters")
		}
	}

	return nil
}

// ownerRegex matches owner identifiers: e-mail addresses or simple user ids.
var ownerRegex = regexp.MustCompile(`^[A-Za-z0-9._%+\-]+(@[A-Za-z0-9.\-]+\.[A-Za-z]{2,})?$`)

// ValidateOwner validates the identifier of the user that owns a pattern.
func ValidateOwner(owner string) error {
	if owner == "" {
		return New(ErrCodeInvalidInput, "owner cannot be empty")
	}
	if len(owner) > maxNameLength {
		return New(ErrCodeInvalidInput, "owner too long (max %d characters)", maxNameLength)
	}
	if !ownerRegex.MatchString(owner) {
		return New(ErrCodeInvalidInput, "invalid owner: %q", owner)
	}
	return nil
}

// ValidateEmail validates an account e-mail address.
func ValidateEmail(email string) error {
	if !strings.Contains(email, "@") {
		return New(ErrCodeInvalidInput, "invalid email: %q", email)
	}
	return ValidateOwner(email)
}

// idRegex matches the identifiers produced by every store backend:
// UUIDs, ULIDs and Mongo ObjectID hex strings.
var idRegex = regexp.MustCompile(`^[A-Za-z0-9-]{1,64}$`)

// ValidatePatternID validates a stored pattern identifier.
// It rejects anything that could be used for path or query injection.
func ValidatePatternID(id string) error {
	if id == "" {
		return New(ErrCodeInvalidInput, "pattern id cannot be empty")
	}
	if !idRegex.MatchString(id) {
		return New(ErrCodeInvalidInput, "invalid pattern id: %q", id)
	}
	return nil
}

// ValidateSessionID validates an editing session identifier supplied by a client.
func ValidateSessionID(id string) error {
	if id == "" {
		return New(ErrCodeInvalidInput, "session id cannot be empty")
	}
	if !idRegex.MatchString(id) {
		return New(ErrCodeInvalidInput, "invalid session id: %q", id)
	}
	return nil
}
