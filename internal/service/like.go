package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/diaryhq/diary-server/internal/domain"
	domainerrors "github.com/diaryhq/diary-server/internal/errors"
	"github.com/diaryhq/diary-server/internal/id"
	"github.com/diaryhq/diary-server/internal/normalize"
	"github.com/diaryhq/diary-server/internal/policy"
	"github.com/diaryhq/diary-server/internal/store"
)

// LikeService records likes. Any signed-in user may like any existing entry,
// once; only the liker may take it back.
type LikeService struct {
	store  store.Store
	logger *slog.Logger
}

// NewLikeService creates a new like service.
func NewLikeService(store store.Store, logger *slog.Logger) *LikeService {
	return &LikeService{
		store:  store,
		logger: orDiscard(logger),
	}
}

// LikeRequest names the entry to like.
type LikeRequest struct {
	EntryID string `json:"entry_id" label:"Entry ID" validate:"required"`
}

// ListByEntry returns the likes of an entry, oldest first.
func (s *LikeService) ListByEntry(ctx context.Context, actor *domain.User, entryID string) ([]*domain.Like, error) {
	if err := policy.Authenticated(actorID(actor)); err != nil {
		return nil, err
	}
	if _, err := s.store.GetEntry(ctx, entryID); err != nil {
		return nil, lookupError(err, msgEntryNotFound)
	}
	likes, err := s.store.ListLikesByEntry(ctx, entryID)
	if err != nil {
		return nil, fmt.Errorf("list likes: %w", err)
	}
	return likes, nil
}

// Get returns one like.
func (s *LikeService) Get(ctx context.Context, actor *domain.User, likeID string) (*domain.Like, error) {
	return s.load(ctx, actor, likeID, policy.View)
}

// Create likes an entry on behalf of the actor. A second like of the same
// entry is a CONFLICT and changes nothing.
func (s *LikeService) Create(ctx context.Context, actor *domain.User, req LikeRequest) (*domain.Like, error) {
	if err := policy.Authenticated(actorID(actor)); err != nil {
		return nil, err
	}
	req.EntryID = normalize.Text(req.EntryID)
	if err := validate.Validate(req); err != nil {
		return nil, err
	}
	if _, err := s.store.GetEntry(ctx, req.EntryID); err != nil {
		return nil, lookupError(err, msgEntryNotFound)
	}

	likeID, err := id.Generate(id.PrefixLike)
	if err != nil {
		return nil, fmt.Errorf("generate like ID: %w", err)
	}
	like := &domain.Like{
		ID:        likeID,
		UserID:    actor.ID,
		EntryID:   req.EntryID,
		CreatedAt: time.Now().UTC(),
	}

	err = s.store.CreateLike(ctx, like)
	if errors.Is(err, store.ErrAlreadyExists) {
		return nil, domainerrors.Conflict("The user has already liked this entry.")
	}
	if err != nil {
		return nil, writeError(err)
	}

	s.logger.Info("entry liked", "like_id", like.ID, "entry_id", like.EntryID, "user_id", actor.ID)
	return like, nil
}

// Delete removes a like placed by the actor.
func (s *LikeService) Delete(ctx context.Context, actor *domain.User, likeID string) error {
	if _, err := s.load(ctx, actor, likeID, policy.Delete); err != nil {
		return err
	}
	if err := s.store.DeleteLike(ctx, likeID); err != nil {
		return lookupError(err, msgLikeNotFound)
	}

	s.logger.Info("like deleted", "like_id", likeID, "user_id", actor.ID)
	return nil
}

func (s *LikeService) load(ctx context.Context, actor *domain.User, likeID string, action policy.Action) (*domain.Like, error) {
	if err := policy.Authenticated(actorID(actor)); err != nil {
		return nil, err
	}
	like, err := s.store.GetLike(ctx, likeID)
	if err != nil {
		return nil, lookupError(err, msgLikeNotFound)
	}
	if err := authorize(s.logger, policy.Like(actor.ID, like, action), "like_id", likeID, "user_id", actor.ID); err != nil {
		return nil, err
	}
	return like, nil
}
