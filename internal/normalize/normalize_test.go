package normalize

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestText(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"trims", "  dear diary \n", "dear diary"},
		{"keeps inner whitespace", "a  b", "a  b"},
		{"drops nul", "a\x00b", "ab"},
		{"composes nfc", "cafe\u0301", "caf\u00e9"},
		{"blank", "   ", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Text(tt.in))
		})
	}
}

func TestTagName(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"  travel ", "travel"},
		{"road \t trip", "road trip"},
		{"Road Trip", "Road Trip"},
		{"\n\n", ""},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, TagName(tt.in), "input %q", tt.in)
	}
}

func TestEmailAndPrivacy(t *testing.T) {
	assert.Equal(t, "ann@example.com", Email("  Ann@Example.COM "))
	assert.Equal(t, "PUBLIC", Privacy(" public"))
	assert.Equal(t, "PRIVATE", Privacy("Private"))
}
