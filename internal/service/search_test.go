package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	domainerrors "github.com/diaryhq/diary-server/internal/errors"
)

func TestSearchService_ScopedToActor(t *testing.T) {
	env := setupTest(t)
	ctx := context.Background()
	ann := env.register(t, "ann@example.com")
	bob := env.register(t, "bob@example.com")

	annDiary := env.diary(t, ann, "Ann", "PUBLIC")
	bobDiary := env.diary(t, bob, "Bob", "PUBLIC")
	annEntry := env.entry(t, ann, annDiary.ID, "the lighthouse keeper waved")
	env.entry(t, bob, bobDiary.ID, "another lighthouse on the coast")

	found, err := env.search.Search(ctx, ann, "lighthouse", 0)
	require.NoError(t, err)
	require.Len(t, found, 1)
	assert.Equal(t, annEntry.ID, found[0].ID)

	found, err = env.search.Search(ctx, ann, "volcano", 0)
	require.NoError(t, err)
	assert.Empty(t, found)
}

func TestSearchService_Errors(t *testing.T) {
	env := setupTest(t)
	ctx := context.Background()
	ann := env.register(t, "ann@example.com")

	_, err := env.search.Search(ctx, nil, "x", 0)
	assertCode(t, err, domainerrors.CodeUnauthorized, "")

	_, err = env.search.Search(ctx, ann, "   ", 0)
	assertCode(t, err, domainerrors.CodeValidation, "Search query cannot be empty")

	_, err = env.search.Search(ctx, ann, "x", -1)
	assertCode(t, err, domainerrors.CodeValidation, "Limit must not be negative")
}

func TestSearchService_Reindex(t *testing.T) {
	env := setupTest(t)
	ctx := context.Background()
	ann := env.register(t, "ann@example.com")
	d := env.diary(t, ann, "Trip", "")
	e := env.entry(t, ann, d.ID, "quiet morning by the canal")

	require.NoError(t, env.index.Rebuild(nil))
	found, err := env.search.Search(ctx, ann, "canal", 0)
	require.NoError(t, err)
	assert.Empty(t, found)

	require.NoError(t, env.search.Reindex(ctx))
	found, err = env.search.Search(ctx, ann, "canal", 0)
	require.NoError(t, err)
	require.Len(t, found, 1)
	assert.Equal(t, e.ID, found[0].ID)
}

func TestSearchService_SkipsStaleDocuments(t *testing.T) {
	env := setupTest(t)
	ctx := context.Background()
	ann := env.register(t, "ann@example.com")
	d := env.diary(t, ann, "Trip", "")
	e := env.entry(t, ann, d.ID, "orchard visit")

	// Delete behind the service's back so the document goes stale.
	require.NoError(t, env.store.DeleteEntry(ctx, e.ID))

	found, err := env.search.Search(ctx, ann, "orchard", 0)
	require.NoError(t, err)
	assert.Empty(t, found)

	count, err := env.search.DocumentCount()
	require.NoError(t, err)
	assert.Zero(t, count)
}
