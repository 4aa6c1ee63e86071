// Package id generates prefixed identifiers for diary resources.
package id

import (
	"fmt"

	gonanoid "github.com/matoous/go-nanoid/v2"
)

// Resource prefixes. The prefix makes an ID self-describing in logs and URLs.
const (
	PrefixUser    = "user"
	PrefixDiary   = "diary"
	PrefixEntry   = "entry"
	PrefixTag     = "tag"
	PrefixLike    = "like"
	PrefixComment = "comment"
)

// Generate returns prefix + "-" + a 21 character NanoID,
// e.g. "diary-V1StGXR8_Z5jdHi6B-myT".
func Generate(prefix string) (string, error) {
	id, err := gonanoid.New()
	if err != nil {
		return "", fmt.Errorf("generate nanoid: %w", err)
	}
	return prefix + "-" + id, nil
}
