package service

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/diaryhq/diary-server/internal/auth"
	"github.com/diaryhq/diary-server/internal/domain"
	domainerrors "github.com/diaryhq/diary-server/internal/errors"
	"github.com/diaryhq/diary-server/internal/search"
	"github.com/diaryhq/diary-server/internal/store/sqlstore"
)

// testEnv wires every service over a temporary SQLite database and an
// in-memory search index.
type testEnv struct {
	store    *sqlstore.Store
	index    *search.EntryIndex
	auth     *AuthService
	users    *UserService
	diaries  *DiaryService
	entries  *EntryService
	tags     *TagService
	entryTag *EntryTagService
	likes    *LikeService
	comments *CommentService
	search   *SearchService
}

func setupTest(t *testing.T) *testEnv {
	t.Helper()

	ctx := context.Background()
	s, err := sqlstore.Open(ctx, sqlstore.Config{
		Driver: sqlstore.DriverSQLite,
		DSN:    filepath.Join(t.TempDir(), "diary.db"),
	}, nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })

	index, err := search.NewEntryIndex(search.Options{})
	require.NoError(t, err)
	t.Cleanup(func() { _ = index.Close() })

	key := make([]byte, auth.KeySize)
	for i := range key {
		key[i] = byte(i)
	}
	tokens, err := auth.NewTokenService(key, time.Hour)
	require.NoError(t, err)

	searchService := NewSearchService(index, s, nil)
	authService := NewAuthService(s, tokens, nil)

	return &testEnv{
		store:    s,
		index:    index,
		auth:     authService,
		users:    NewUserService(s, authService, searchService, nil),
		diaries:  NewDiaryService(s, searchService, nil),
		entries:  NewEntryService(s, searchService, nil),
		tags:     NewTagService(s, searchService, nil),
		entryTag: NewEntryTagService(s, searchService, nil),
		likes:    NewLikeService(s, nil),
		comments: NewCommentService(s, nil),
		search:   searchService,
	}
}

func (e *testEnv) register(t *testing.T, email string) *domain.User {
	t.Helper()
	resp, err := e.auth.Register(context.Background(), Credentials{Email: email, Password: "secret1"})
	require.NoError(t, err)
	return resp.User
}

func (e *testEnv) diary(t *testing.T, owner *domain.User, title, privacy string) *domain.Diary {
	t.Helper()
	d, err := e.diaries.Create(context.Background(), owner, DiaryRequest{Title: title, Privacy: privacy})
	require.NoError(t, err)
	return d
}

func (e *testEnv) entry(t *testing.T, owner *domain.User, diaryID, content string) *domain.Entry {
	t.Helper()
	entry, err := e.entries.Create(context.Background(), owner, CreateEntryRequest{DiaryID: diaryID, Content: content})
	require.NoError(t, err)
	return entry
}

func (e *testEnv) tag(t *testing.T, actor *domain.User, name string) *domain.Tag {
	t.Helper()
	tag, err := e.tags.Create(context.Background(), actor, TagRequest{Name: name})
	require.NoError(t, err)
	return tag
}

// assertCode checks that err is a domain error with the given code and,
// when msg is not empty, message.
func assertCode(t *testing.T, err error, code domainerrors.Code, msg string) {
	t.Helper()
	var domainErr *domainerrors.Error
	require.ErrorAs(t, err, &domainErr)
	assert.Equal(t, code, domainErr.Code)
	if msg != "" {
		assert.Equal(t, msg, domainErr.Message)
	}
}
