package domain

import (
	"errors"
	"strings"
)

// Privacy controls who can see a diary's entries outside of their owner.
type Privacy string

const (
	// PrivacyPrivate hides entries from everyone but the owner.
	PrivacyPrivate Privacy = "PRIVATE"
	// PrivacyPublic exposes entries through tag listings.
	PrivacyPublic Privacy = "PUBLIC"
)

// DefaultPrivacy is applied when a diary is created without a privacy value.
const DefaultPrivacy = PrivacyPrivate

// ErrInvalidPrivacy is returned by ParsePrivacy for unknown values.
var ErrInvalidPrivacy = errors.New("Invalid enum value, must be one of [PUBLIC, PRIVATE]") //nolint:staticcheck // user-facing message

// ParsePrivacy accepts any casing and surrounding whitespace.
func ParsePrivacy(s string) (Privacy, error) {
	switch p := Privacy(strings.ToUpper(strings.TrimSpace(s))); p {
	case PrivacyPublic, PrivacyPrivate:
		return p, nil
	default:
		return "", ErrInvalidPrivacy
	}
}

// IsPublic reports whether p is PUBLIC.
func (p Privacy) IsPublic() bool {
	return p == PrivacyPublic
}

// Diary is a titled collection of entries owned by one user.
type Diary struct {
	Timestamps
	ID         string  `json:"id"`
	OwnerID    string  `json:"owner_user_id"`
	Title      string  `json:"title"`
	Privacy    Privacy `json:"privacy"`
	EntryCount int     `json:"entry_count"` // populated on read
}
