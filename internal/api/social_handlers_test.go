package api

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLikes(t *testing.T) {
	ts := setupTestServer(t)
	annToken, _ := ts.registerUser(t, "ann@example.com")
	bobToken, bobID := ts.registerUser(t, "bob@example.com")
	d := ts.createDiary(t, annToken, "Trip", "PUBLIC")
	e := ts.createEntry(t, annToken, d.ID, "sunrise")

	resp := ts.api.Post("/likes", bearer(bobToken), map[string]any{"entry_id": e.ID})
	require.Equal(t, http.StatusCreated, resp.Code, resp.Body.String())
	like := decode[LikeResponse](t, resp).Data
	assert.Equal(t, bobID, like.UserID)

	resp = ts.api.Post("/likes", bearer(bobToken), map[string]any{"entry_id": e.ID})
	requireError(t, resp, http.StatusConflict, "CONFLICT", "The user has already liked this entry.")

	resp = ts.api.Get("/likes/entries/"+e.ID, bearer(annToken))
	require.Equal(t, http.StatusOK, resp.Code, resp.Body.String())
	assert.Len(t, decode[[]LikeResponse](t, resp).Data, 1)

	resp = ts.api.Get("/entries/"+e.ID, bearer(annToken))
	require.Equal(t, http.StatusOK, resp.Code, resp.Body.String())
	assert.Equal(t, 1, decode[EntryResponse](t, resp).Data.LikeCount)

	resp = ts.api.Delete("/likes/"+like.ID, bearer(annToken))
	requireError(t, resp, http.StatusForbidden, "FORBIDDEN", "User is not authorized to delete the like")

	resp = ts.api.Delete("/likes/"+like.ID, bearer(bobToken))
	require.Equal(t, http.StatusOK, resp.Code, resp.Body.String())

	resp = ts.api.Get("/likes/"+like.ID, bearer(bobToken))
	requireError(t, resp, http.StatusNotFound, "NOT_FOUND", "Like not found")

	resp = ts.api.Post("/likes", bearer(bobToken), map[string]any{"entry_id": "entry-missing"})
	requireError(t, resp, http.StatusNotFound, "NOT_FOUND", "Entry not found")
}

func TestComments(t *testing.T) {
	ts := setupTestServer(t)
	annToken, _ := ts.registerUser(t, "ann@example.com")
	bobToken, _ := ts.registerUser(t, "bob@example.com")
	d := ts.createDiary(t, annToken, "Trip", "")
	e := ts.createEntry(t, annToken, d.ID, "sunrise")

	resp := ts.api.Post("/comments", bearer(bobToken), map[string]any{"entry_id": e.ID, "content": "lovely"})
	require.Equal(t, http.StatusCreated, resp.Code, resp.Body.String())
	c := decode[CommentResponse](t, resp).Data
	assert.Equal(t, "lovely", c.Content)

	resp = ts.api.Post("/comments", bearer(bobToken), map[string]any{"entry_id": e.ID, "content": " "})
	requireError(t, resp, http.StatusBadRequest, "VALIDATION", "Comment cannot be empty")

	resp = ts.api.Put("/comments/"+c.ID, bearer(annToken), map[string]any{"content": "edited"})
	requireError(t, resp, http.StatusForbidden, "FORBIDDEN", "User is not authorized to update the comment")

	resp = ts.api.Put("/comments/"+c.ID, bearer(bobToken), map[string]any{"content": "edited"})
	require.Equal(t, http.StatusOK, resp.Code, resp.Body.String())
	assert.Equal(t, "edited", decode[CommentResponse](t, resp).Data.Content)

	resp = ts.api.Get("/comments/entries/"+e.ID, bearer(annToken))
	require.Equal(t, http.StatusOK, resp.Code, resp.Body.String())
	assert.Len(t, decode[[]CommentResponse](t, resp).Data, 1)

	resp = ts.api.Delete("/comments/"+c.ID, bearer(bobToken))
	require.Equal(t, http.StatusOK, resp.Code, resp.Body.String())

	resp = ts.api.Get("/comments/"+c.ID, bearer(bobToken))
	requireError(t, resp, http.StatusNotFound, "NOT_FOUND", "Comment not found")
}

func TestTags(t *testing.T) {
	ts := setupTestServer(t)
	token, _ := ts.registerUser(t, "ann@example.com")

	resp := ts.api.Post("/tags", map[string]any{"name": "travel"})
	requireError(t, resp, http.StatusUnauthorized, "UNAUTHORIZED", "")

	tag := ts.createTag(t, token, "travel")

	resp = ts.api.Post("/tags", bearer(token), map[string]any{"name": "travel"})
	requireError(t, resp, http.StatusConflict, "CONFLICT", "Tag name already exists")

	resp = ts.api.Post("/tags", bearer(token), map[string]any{"name": ""})
	requireError(t, resp, http.StatusBadRequest, "VALIDATION", "Tag name cannot be empty")

	// Reads are public.
	resp = ts.api.Get("/tags")
	require.Equal(t, http.StatusOK, resp.Code, resp.Body.String())
	assert.Len(t, decode[[]TagResponse](t, resp).Data, 1)

	resp = ts.api.Get("/tags/" + tag.ID)
	require.Equal(t, http.StatusOK, resp.Code, resp.Body.String())
	assert.Equal(t, "travel", decode[TagResponse](t, resp).Data.Name)

	resp = ts.api.Put("/tags/"+tag.ID, bearer(token), map[string]any{"name": "journeys"})
	require.Equal(t, http.StatusOK, resp.Code, resp.Body.String())
	assert.Equal(t, "journeys", decode[TagResponse](t, resp).Data.Name)

	resp = ts.api.Delete("/tags/"+tag.ID, bearer(token))
	require.Equal(t, http.StatusOK, resp.Code, resp.Body.String())

	resp = ts.api.Get("/tags/" + tag.ID)
	requireError(t, resp, http.StatusNotFound, "NOT_FOUND", "Tag not found")
}
