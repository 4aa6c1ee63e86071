package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	domainerrors "github.com/diaryhq/diary-server/internal/errors"
)

func TestEntryTagService_AddAndRemove(t *testing.T) {
	env := setupTest(t)
	ctx := context.Background()
	ann := env.register(t, "ann@example.com")
	d := env.diary(t, ann, "Trip", "")
	e := env.entry(t, ann, d.ID, "hiking")
	tag := env.tag(t, ann, "outdoors")

	got, err := env.entryTag.AddTag(ctx, ann, e.ID, tag.ID)
	require.NoError(t, err)
	require.Len(t, got.Tags, 1)
	assert.True(t, got.HasTag(tag.ID))

	_, err = env.entryTag.AddTag(ctx, ann, e.ID, tag.ID)
	assertCode(t, err, domainerrors.CodeConflict, "The tag already exists on this entry")

	got, err = env.entryTag.RemoveTag(ctx, ann, e.ID, tag.ID)
	require.NoError(t, err)
	assert.Empty(t, got.Tags)

	_, err = env.entryTag.RemoveTag(ctx, ann, e.ID, tag.ID)
	assertCode(t, err, domainerrors.CodeValidation, "The tag does not exists on this entry")
}

func TestEntryTagService_Ordering(t *testing.T) {
	env := setupTest(t)
	ctx := context.Background()
	ann := env.register(t, "ann@example.com")
	bob := env.register(t, "bob@example.com")
	d := env.diary(t, ann, "Trip", "")
	e := env.entry(t, ann, d.ID, "hiking")
	tag := env.tag(t, ann, "outdoors")

	_, err := env.entryTag.AddTag(ctx, bob, "ent_missing", "tag_missing")
	assertCode(t, err, domainerrors.CodeNotFound, "Entry not found")

	_, err = env.entryTag.AddTag(ctx, bob, e.ID, "tag_missing")
	assertCode(t, err, domainerrors.CodeNotFound, "Tag not found")

	_, err = env.entryTag.AddTag(ctx, bob, e.ID, tag.ID)
	assertCode(t, err, domainerrors.CodeForbidden, "User is not authorized to update the entry")

	_, err = env.entryTag.AddTag(ctx, nil, e.ID, tag.ID)
	assertCode(t, err, domainerrors.CodeUnauthorized, "")
}
