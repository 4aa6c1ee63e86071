// Package normalize cleans user-supplied text before it is validated or stored.
package normalize

import (
	"strings"
	"unicode"

	"golang.org/x/text/unicode/norm"
)

// Text trims surrounding whitespace, drops NUL bytes and composes the string
// to NFC so that "é" typed two different ways is stored once.
func Text(s string) string {
	s = strings.Map(func(r rune) rune {
		if r == 0 {
			return -1
		}
		return r
	}, s)
	return strings.TrimSpace(norm.NFC.String(s))
}

// TagName normalizes a tag name. On top of Text it collapses inner runs of
// whitespace to a single space, so "road  trip" and "road trip" collide on the
// unique name constraint. Case is preserved.
func TagName(s string) string {
	s = Text(s)
	var b strings.Builder
	b.Grow(len(s))
	space := false
	for _, r := range s {
		if unicode.IsSpace(r) {
			space = true
			continue
		}
		if space && b.Len() > 0 {
			b.WriteByte(' ')
		}
		space = false
		b.WriteRune(r)
	}
	return b.String()
}

// Email trims and lowercases an email address.
func Email(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

// Privacy trims and upper-cases a privacy value ("public" -> "PUBLIC").
func Privacy(s string) string {
	return strings.ToUpper(strings.TrimSpace(s))
}
