package api

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/danielgtaylor/huma/v2/humatest"
	"github.com/stretchr/testify/require"

	"github.com/diaryhq/diary-server/internal/auth"
	"github.com/diaryhq/diary-server/internal/search"
	"github.com/diaryhq/diary-server/internal/service"
	"github.com/diaryhq/diary-server/internal/store/sqlstore"
)

// testEnvelope decodes either envelope shape.
type testEnvelope[T any] struct {
	Version int            `json:"v"`
	Success bool           `json:"success"`
	Data    T              `json:"data"`
	Code    string         `json:"code"`
	Message string         `json:"message"`
	Details map[string]any `json:"details"`
}

// testServer wraps the API server for testing.
type testServer struct {
	*Server
	api humatest.TestAPI
}

// setupTestServer creates a fully wired server over a temporary SQLite
// database and an in-memory search index.
func setupTestServer(t *testing.T) *testServer {
	return setupTestServerWithOptions(t, Options{AuthRatePerMinute: 6000, AuthRateBurst: 1000})
}

func setupTestServerWithOptions(t *testing.T, opts Options) *testServer {
	t.Helper()

	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelError}))

	st, err := sqlstore.Open(context.Background(), sqlstore.Config{
		Driver: sqlstore.DriverSQLite,
		DSN:    filepath.Join(t.TempDir(), "test.db"),
	}, logger)
	require.NoError(t, err)
	t.Cleanup(func() { _ = st.Close() })

	index, err := search.NewEntryIndex(search.Options{Logger: logger})
	require.NoError(t, err)
	t.Cleanup(func() { _ = index.Close() })

	authKey, err := auth.LoadOrGenerateKey(t.TempDir())
	require.NoError(t, err)
	tokenService, err := auth.NewTokenService(authKey, 15*time.Minute)
	require.NoError(t, err)

	searchService := service.NewSearchService(index, st, logger)
	authService := service.NewAuthService(st, tokenService, logger)
	services := &Services{
		Auth:     authService,
		User:     service.NewUserService(st, authService, searchService, logger),
		Diary:    service.NewDiaryService(st, searchService, logger),
		Entry:    service.NewEntryService(st, searchService, logger),
		EntryTag: service.NewEntryTagService(st, searchService, logger),
		Tag:      service.NewTagService(st, searchService, logger),
		Like:     service.NewLikeService(st, logger),
		Comment:  service.NewCommentService(st, logger),
		Search:   searchService,
	}

	s := NewServer(st, services, opts, logger)
	t.Cleanup(s.Close)

	return &testServer{
		Server: s,
		api:    humatest.Wrap(t, s.api),
	}
}

func decode[T any](t *testing.T, resp *httptest.ResponseRecorder) testEnvelope[T] {
	t.Helper()
	var envelope testEnvelope[T]
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &envelope), resp.Body.String())
	require.Equal(t, EnvelopeVersion, envelope.Version)
	return envelope
}

// requireError checks status, code and, when given, message of an error response.
func requireError(t *testing.T, resp *httptest.ResponseRecorder, status int, code, msg string) {
	t.Helper()
	require.Equal(t, status, resp.Code, resp.Body.String())
	envelope := decode[any](t, resp)
	require.False(t, envelope.Success)
	require.Equal(t, code, envelope.Code)
	if msg != "" {
		require.Equal(t, msg, envelope.Message)
	}
}

func bearer(token string) string {
	return "Authorization: Bearer " + token
}

// registerUser registers email and returns its token and user ID.
func (ts *testServer) registerUser(t *testing.T, email string) (token, userID string) {
	t.Helper()

	resp := ts.api.Post("/auth/register", map[string]any{
		"email":    email,
		"password": "secret1",
	})
	require.Equal(t, http.StatusOK, resp.Code, "Register failed: %s", resp.Body.String())

	envelope := decode[AuthResponse](t, resp)
	return envelope.Data.AccessToken, envelope.Data.User.ID
}

func (ts *testServer) createDiary(t *testing.T, token, title, privacy string) DiaryResponse {
	t.Helper()
	body := map[string]any{"title": title}
	if privacy != "" {
		body["privacy"] = privacy
	}
	resp := ts.api.Post("/diaries", bearer(token), body)
	require.Equal(t, http.StatusCreated, resp.Code, resp.Body.String())
	return decode[DiaryResponse](t, resp).Data
}

func (ts *testServer) createEntry(t *testing.T, token, diaryID, content string) EntryResponse {
	t.Helper()
	resp := ts.api.Post("/entries", bearer(token), map[string]any{"diary_id": diaryID, "content": content})
	require.Equal(t, http.StatusCreated, resp.Code, resp.Body.String())
	return decode[EntryResponse](t, resp).Data
}

func (ts *testServer) createTag(t *testing.T, token, name string) TagResponse {
	t.Helper()
	resp := ts.api.Post("/tags", bearer(token), map[string]any{"name": name})
	require.Equal(t, http.StatusCreated, resp.Code, resp.Body.String())
	return decode[TagResponse](t, resp).Data
}
