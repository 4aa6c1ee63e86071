package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	domainerrors "github.com/diaryhq/diary-server/internal/errors"
)

func TestTagService_CRUD(t *testing.T) {
	env := setupTest(t)
	ctx := context.Background()
	ann := env.register(t, "ann@example.com")

	tag := env.tag(t, ann, "  Road   Trip ")
	assert.Equal(t, "Road Trip", tag.Name)

	got, err := env.tags.Get(ctx, tag.ID)
	require.NoError(t, err)
	assert.Equal(t, tag.ID, got.ID)

	renamed, err := env.tags.Update(ctx, ann, tag.ID, TagRequest{Name: "Travel"})
	require.NoError(t, err)
	assert.Equal(t, "Travel", renamed.Name)

	list, err := env.tags.List(ctx)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, "Travel", list[0].Name)

	require.NoError(t, env.tags.Delete(ctx, ann, tag.ID))
	_, err = env.tags.Get(ctx, tag.ID)
	assertCode(t, err, domainerrors.CodeNotFound, "Tag not found")
}

func TestTagService_Errors(t *testing.T) {
	env := setupTest(t)
	ctx := context.Background()
	ann := env.register(t, "ann@example.com")
	env.tag(t, ann, "travel")
	other := env.tag(t, ann, "food")

	_, err := env.tags.Create(ctx, ann, TagRequest{Name: "travel"})
	assertCode(t, err, domainerrors.CodeConflict, "Tag name already exists")

	_, err = env.tags.Update(ctx, ann, other.ID, TagRequest{Name: "travel"})
	assertCode(t, err, domainerrors.CodeConflict, "Tag name already exists")

	_, err = env.tags.Create(ctx, ann, TagRequest{Name: "  "})
	assertCode(t, err, domainerrors.CodeValidation, "Tag name cannot be empty")

	_, err = env.tags.Create(ctx, nil, TagRequest{Name: "x"})
	assertCode(t, err, domainerrors.CodeUnauthorized, "")

	err = env.tags.Delete(ctx, ann, "tag_missing")
	assertCode(t, err, domainerrors.CodeNotFound, "Tag not found")
}

func TestTagService_DeleteDetachesAndReindexes(t *testing.T) {
	env := setupTest(t)
	ctx := context.Background()
	ann := env.register(t, "ann@example.com")
	d := env.diary(t, ann, "Trip", "")
	e := env.entry(t, ann, d.ID, "plain words")
	tag := env.tag(t, ann, "zeppelin")

	_, err := env.entryTag.AddTag(ctx, ann, e.ID, tag.ID)
	require.NoError(t, err)

	found, err := env.search.Search(ctx, ann, "zeppelin", 0)
	require.NoError(t, err)
	require.Len(t, found, 1)

	require.NoError(t, env.tags.Delete(ctx, ann, tag.ID))

	got, err := env.entries.Get(ctx, ann, e.ID)
	require.NoError(t, err)
	assert.Empty(t, got.Tags)

	found, err = env.search.Search(ctx, ann, "zeppelin", 0)
	require.NoError(t, err)
	assert.Empty(t, found)
}
