package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParsePrivacy(t *testing.T) {
	tests := []struct {
		in      string
		want    Privacy
		wantErr bool
	}{
		{"PUBLIC", PrivacyPublic, false},
		{"public", PrivacyPublic, false},
		{" Private ", PrivacyPrivate, false},
		{"secret", "", true},
		{"", "", true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParsePrivacy(tt.in)
			if tt.wantErr {
				require.ErrorIs(t, err, ErrInvalidPrivacy)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestDefaultPrivacyIsPrivate(t *testing.T) {
	assert.Equal(t, PrivacyPrivate, DefaultPrivacy)
	assert.False(t, DefaultPrivacy.IsPublic())
}

func TestEntry_VisibilityFollowsDiary(t *testing.T) {
	e := &Entry{DiaryPrivacy: PrivacyPrivate}
	assert.False(t, e.IsPublic())

	e.DiaryPrivacy = PrivacyPublic
	assert.True(t, e.IsPublic())
}

func TestEntry_HasTag(t *testing.T) {
	e := &Entry{Tags: []*Tag{{ID: "tag-a"}, {ID: "tag-b"}}}
	assert.True(t, e.HasTag("tag-b"))
	assert.False(t, e.HasTag("tag-c"))
}

func TestTimestamps(t *testing.T) {
	var ts Timestamps
	ts.InitTimestamps()
	assert.Equal(t, ts.CreatedAt, ts.UpdatedAt)
	assert.Equal(t, time.UTC, ts.CreatedAt.Location())

	before := ts.UpdatedAt
	time.Sleep(time.Millisecond)
	ts.Touch()
	assert.True(t, ts.UpdatedAt.After(before))
}
