package service

import (
	"context"
	"errors"
	"log/slog"

	"github.com/diaryhq/diary-server/internal/domain"
	domainerrors "github.com/diaryhq/diary-server/internal/errors"
	"github.com/diaryhq/diary-server/internal/policy"
	"github.com/diaryhq/diary-server/internal/store"
)

// EntryTagService attaches tags to entries and detaches them.
//
// Each change is a single insert or delete; the (entry, tag) primary key and
// the affected row count decide "already present" and "not present", so two
// concurrent adds of one pair cannot both succeed. A rejected call changes
// nothing and repeating it gives the same answer.
type EntryTagService struct {
	store  store.Store
	search *SearchService
	logger *slog.Logger
}

// NewEntryTagService creates a new entry tag service.
func NewEntryTagService(store store.Store, search *SearchService, logger *slog.Logger) *EntryTagService {
	return &EntryTagService{
		store:  store,
		search: search,
		logger: orDiscard(logger),
	}
}

// AddTag attaches tagID to entryID. An existing pair is a CONFLICT.
func (s *EntryTagService) AddTag(ctx context.Context, actor *domain.User, entryID, tagID string) (*domain.Entry, error) {
	if err := s.check(ctx, actor, entryID, tagID); err != nil {
		return nil, err
	}

	err := s.store.AddEntryTag(ctx, &domain.EntryTag{EntryID: entryID, TagID: tagID})
	if errors.Is(err, store.ErrAlreadyExists) {
		return nil, domainerrors.Conflict("The tag already exists on this entry")
	}
	if err != nil {
		return nil, writeError(err)
	}

	s.logger.Info("tag added to entry", "entry_id", entryID, "tag_id", tagID, "user_id", actor.ID)
	return s.reload(ctx, entryID)
}

// RemoveTag detaches tagID from entryID. A missing pair is a client error.
func (s *EntryTagService) RemoveTag(ctx context.Context, actor *domain.User, entryID, tagID string) (*domain.Entry, error) {
	if err := s.check(ctx, actor, entryID, tagID); err != nil {
		return nil, err
	}

	err := s.store.RemoveEntryTag(ctx, entryID, tagID)
	if errors.Is(err, store.ErrNotFound) {
		return nil, domainerrors.Validation("The tag does not exists on this entry")
	}
	if err != nil {
		return nil, err
	}

	s.logger.Info("tag removed from entry", "entry_id", entryID, "tag_id", tagID, "user_id", actor.ID)
	return s.reload(ctx, entryID)
}

// check resolves the entry, then the tag, then ownership, in that order.
func (s *EntryTagService) check(ctx context.Context, actor *domain.User, entryID, tagID string) error {
	if err := policy.Authenticated(actorID(actor)); err != nil {
		return err
	}
	entry, err := s.store.GetEntry(ctx, entryID)
	if err != nil {
		return lookupError(err, msgEntryNotFound)
	}
	if _, err := s.store.GetTag(ctx, tagID); err != nil {
		return lookupError(err, msgTagNotFound)
	}
	return authorize(s.logger, policy.Entry(actor.ID, entry, policy.Update), "entry_id", entryID, "user_id", actor.ID)
}

func (s *EntryTagService) reload(ctx context.Context, entryID string) (*domain.Entry, error) {
	entry, err := s.store.GetEntry(ctx, entryID)
	if err != nil {
		return nil, lookupError(err, msgEntryNotFound)
	}
	s.search.IndexEntry(entry)
	return entry, nil
}
