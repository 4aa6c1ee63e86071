// Package store defines the persistence contract for users, diaries, entries,
// tags, likes and comments.
//
// Lookups return ErrNotFound on a miss. Writes that violate a uniqueness rule
// return ErrAlreadyExists; writes that point at a missing parent return
// ErrInvalidReference. Deletes cascade to dependents inside the store.
package store

import (
	"context"

	"github.com/diaryhq/diary-server/internal/domain"
)

// Store is the Identity and Content store.
type Store interface {
	Close() error
	Ping(ctx context.Context) error

	// Users
	CreateUser(ctx context.Context, u *domain.User) error
	GetUser(ctx context.Context, id string) (*domain.User, error)
	GetUserByEmail(ctx context.Context, email string) (*domain.User, error)
	UpdateUser(ctx context.Context, u *domain.User) error
	DeleteUser(ctx context.Context, id string) error

	// Diaries
	CreateDiary(ctx context.Context, d *domain.Diary) error
	GetDiary(ctx context.Context, id string) (*domain.Diary, error)
	ListDiariesByOwner(ctx context.Context, ownerID string) ([]*domain.Diary, error)
	UpdateDiary(ctx context.Context, d *domain.Diary) error
	DeleteDiary(ctx context.Context, id string) error

	// Entries. Returned entries carry their diary's owner and privacy, their
	// tags and their like/comment counts.
	CreateEntry(ctx context.Context, e *domain.Entry) error
	GetEntry(ctx context.Context, id string) (*domain.Entry, error)
	GetEntriesByIDs(ctx context.Context, ids []string) ([]*domain.Entry, error)
	ListEntriesByDiary(ctx context.Context, diaryID string) ([]*domain.Entry, error)
	ListEntriesByOwner(ctx context.Context, ownerID string) ([]*domain.Entry, error)
	ListEntriesByTag(ctx context.Context, tagID string) ([]*domain.Entry, error)
	ListEntries(ctx context.Context) ([]*domain.Entry, error)
	UpdateEntry(ctx context.Context, e *domain.Entry) error
	DeleteEntry(ctx context.Context, id string) error

	// Tags
	CreateTag(ctx context.Context, t *domain.Tag) error
	GetTag(ctx context.Context, id string) (*domain.Tag, error)
	ListTags(ctx context.Context) ([]*domain.Tag, error)
	UpdateTag(ctx context.Context, t *domain.Tag) error
	DeleteTag(ctx context.Context, id string) error

	// Entry/tag association. AddEntryTag returns ErrAlreadyExists when the pair
	// is present; RemoveEntryTag returns ErrNotFound when it is absent.
	AddEntryTag(ctx context.Context, et *domain.EntryTag) error
	RemoveEntryTag(ctx context.Context, entryID, tagID string) error
	ListEntryTags(ctx context.Context, entryID string) ([]*domain.Tag, error)

	// Likes. CreateLike returns ErrAlreadyExists for a second like by the same user.
	CreateLike(ctx context.Context, l *domain.Like) error
	GetLike(ctx context.Context, id string) (*domain.Like, error)
	ListLikesByEntry(ctx context.Context, entryID string) ([]*domain.Like, error)
	DeleteLike(ctx context.Context, id string) error

	// Comments
	CreateComment(ctx context.Context, c *domain.Comment) error
	GetComment(ctx context.Context, id string) (*domain.Comment, error)
	ListCommentsByEntry(ctx context.Context, entryID string) ([]*domain.Comment, error)
	UpdateComment(ctx context.Context, c *domain.Comment) error
	DeleteComment(ctx context.Context, id string) error
}
