package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	domainerrors "github.com/diaryhq/diary-server/internal/errors"
)

func TestLikeService(t *testing.T) {
	env := setupTest(t)
	ctx := context.Background()
	ann := env.register(t, "ann@example.com")
	bob := env.register(t, "bob@example.com")
	d := env.diary(t, ann, "Trip", "")
	e := env.entry(t, ann, d.ID, "hello")

	like, err := env.likes.Create(ctx, bob, LikeRequest{EntryID: e.ID})
	require.NoError(t, err)
	assert.Equal(t, bob.ID, like.UserID)
	assert.Equal(t, e.ID, like.EntryID)

	_, err = env.likes.Create(ctx, bob, LikeRequest{EntryID: e.ID})
	assertCode(t, err, domainerrors.CodeConflict, "The user has already liked this entry.")

	likes, err := env.likes.ListByEntry(ctx, ann, e.ID)
	require.NoError(t, err)
	require.Len(t, likes, 1)

	got, err := env.entries.Get(ctx, ann, e.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, got.LikeCount)

	err = env.likes.Delete(ctx, ann, like.ID)
	assertCode(t, err, domainerrors.CodeForbidden, "User is not authorized to delete the like")

	require.NoError(t, env.likes.Delete(ctx, bob, like.ID))

	_, err = env.likes.Get(ctx, bob, like.ID)
	assertCode(t, err, domainerrors.CodeNotFound, "Like not found")

	_, err = env.likes.Create(ctx, bob, LikeRequest{EntryID: e.ID})
	require.NoError(t, err)
}

func TestLikeService_Errors(t *testing.T) {
	env := setupTest(t)
	ctx := context.Background()
	bob := env.register(t, "bob@example.com")

	_, err := env.likes.Create(ctx, bob, LikeRequest{})
	assertCode(t, err, domainerrors.CodeValidation, "Entry ID cannot be empty")

	_, err = env.likes.Create(ctx, bob, LikeRequest{EntryID: "ent_missing"})
	assertCode(t, err, domainerrors.CodeNotFound, "Entry not found")

	_, err = env.likes.ListByEntry(ctx, bob, "ent_missing")
	assertCode(t, err, domainerrors.CodeNotFound, "Entry not found")

	_, err = env.likes.Create(ctx, nil, LikeRequest{EntryID: "ent_missing"})
	assertCode(t, err, domainerrors.CodeUnauthorized, "")
}
