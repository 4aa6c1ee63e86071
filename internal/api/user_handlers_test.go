package api

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUsers_UpdateReturnsFreshToken(t *testing.T) {
	ts := setupTestServer(t)
	token, userID := ts.registerUser(t, "ann@example.com")

	resp := ts.api.Put("/users/me", bearer(token), map[string]any{
		"email":    "anne@example.com",
		"password": "secret2",
	})
	require.Equal(t, http.StatusOK, resp.Code, resp.Body.String())
	updated := decode[AuthResponse](t, resp).Data
	assert.Equal(t, "anne@example.com", updated.User.Email)

	// The old token named the old email and no longer resolves.
	resp = ts.api.Get("/users/me", bearer(token))
	requireError(t, resp, http.StatusUnauthorized, "UNAUTHORIZED", "")

	resp = ts.api.Get("/users/me", bearer(updated.AccessToken))
	require.Equal(t, http.StatusOK, resp.Code, resp.Body.String())
	assert.Equal(t, userID, decode[UserResponse](t, resp).Data.ID)
}

func TestUsers_DeleteCascades(t *testing.T) {
	ts := setupTestServer(t)
	annToken, _ := ts.registerUser(t, "ann@example.com")
	bobToken, _ := ts.registerUser(t, "bob@example.com")

	annDiary := ts.createDiary(t, annToken, "Ann", "PUBLIC")
	annEntry := ts.createEntry(t, annToken, annDiary.ID, "gone soon")
	tag := ts.createTag(t, annToken, "ephemeral")
	resp := ts.api.Put("/entries/"+annEntry.ID+"/tags/"+tag.ID, bearer(annToken))
	require.Equal(t, http.StatusOK, resp.Code, resp.Body.String())

	bobDiary := ts.createDiary(t, bobToken, "Bob", "")
	bobEntry := ts.createEntry(t, bobToken, bobDiary.ID, "stays")
	resp = ts.api.Post("/likes", bearer(annToken), map[string]any{"entry_id": bobEntry.ID})
	require.Equal(t, http.StatusCreated, resp.Code, resp.Body.String())
	resp = ts.api.Post("/comments", bearer(annToken), map[string]any{"entry_id": bobEntry.ID, "content": "hi"})
	require.Equal(t, http.StatusCreated, resp.Code, resp.Body.String())

	resp = ts.api.Delete("/users/me", bearer(annToken))
	require.Equal(t, http.StatusOK, resp.Code, resp.Body.String())

	resp = ts.api.Get("/users/me", bearer(annToken))
	requireError(t, resp, http.StatusUnauthorized, "UNAUTHORIZED", "")

	resp = ts.api.Get("/entries/tags/" + tag.ID)
	require.Equal(t, http.StatusOK, resp.Code, resp.Body.String())
	assert.Empty(t, decode[[]EntryResponse](t, resp).Data)

	resp = ts.api.Get("/entries/"+bobEntry.ID, bearer(bobToken))
	require.Equal(t, http.StatusOK, resp.Code, resp.Body.String())
	got := decode[EntryResponse](t, resp).Data
	assert.Zero(t, got.LikeCount)
	assert.Zero(t, got.CommentCount)
}
