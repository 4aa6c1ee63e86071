package service

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/diaryhq/diary-server/internal/domain"
	"github.com/diaryhq/diary-server/internal/id"
	"github.com/diaryhq/diary-server/internal/normalize"
	"github.com/diaryhq/diary-server/internal/policy"
	"github.com/diaryhq/diary-server/internal/store"
)

// EntryService manages diary entries. Reads and writes by ID are restricted
// to the diary owner; only ListPublicByTag exposes entries to others.
type EntryService struct {
	store  store.Store
	search *SearchService
	logger *slog.Logger
}

// NewEntryService creates a new entry service.
func NewEntryService(store store.Store, search *SearchService, logger *slog.Logger) *EntryService {
	return &EntryService{
		store:  store,
		search: search,
		logger: orDiscard(logger),
	}
}

// CreateEntryRequest is the payload for a new entry.
type CreateEntryRequest struct {
	Content string `json:"content" label:"Entry content" validate:"required"`
	DiaryID string `json:"diary_id" label:"Diary ID" validate:"required"`
}

// UpdateEntryRequest is the payload for editing an entry.
type UpdateEntryRequest struct {
	Content string `json:"content" label:"Entry content" validate:"required"`
}

// ListByDiary returns the entries of a diary owned by the actor.
func (s *EntryService) ListByDiary(ctx context.Context, actor *domain.User, diaryID string) ([]*domain.Entry, error) {
	if err := policy.Authenticated(actorID(actor)); err != nil {
		return nil, err
	}
	diary, err := s.store.GetDiary(ctx, diaryID)
	if err != nil {
		return nil, lookupError(err, msgDiaryNotFound)
	}
	if err := authorize(s.logger, policy.Diary(actor.ID, diary, policy.Access), "diary_id", diaryID, "user_id", actor.ID); err != nil {
		return nil, err
	}

	entries, err := s.store.ListEntriesByDiary(ctx, diaryID)
	if err != nil {
		return nil, fmt.Errorf("list entries: %w", err)
	}
	return entries, nil
}

// ListPublicByTag returns the entries carrying a tag whose diary is PUBLIC.
// It needs no actor. Entries in PRIVATE diaries are left out, not refused.
func (s *EntryService) ListPublicByTag(ctx context.Context, tagID string) ([]*domain.Entry, error) {
	if _, err := s.store.GetTag(ctx, tagID); err != nil {
		return nil, lookupError(err, msgTagNotFound)
	}
	entries, err := s.store.ListEntriesByTag(ctx, tagID)
	if err != nil {
		return nil, fmt.Errorf("list entries by tag: %w", err)
	}
	return policy.PubliclyVisible(entries), nil
}

// Create adds an entry to a diary owned by the actor.
func (s *EntryService) Create(ctx context.Context, actor *domain.User, req CreateEntryRequest) (*domain.Entry, error) {
	if err := policy.Authenticated(actorID(actor)); err != nil {
		return nil, err
	}
	req.Content = normalize.Text(req.Content)
	req.DiaryID = normalize.Text(req.DiaryID)
	if err := validate.Validate(req); err != nil {
		return nil, err
	}

	diary, err := s.store.GetDiary(ctx, req.DiaryID)
	if err != nil {
		return nil, lookupError(err, msgDiaryNotFound)
	}
	if err := authorize(s.logger, policy.CreateEntry(actor.ID, diary), "diary_id", diary.ID, "user_id", actor.ID); err != nil {
		return nil, err
	}

	entryID, err := id.Generate(id.PrefixEntry)
	if err != nil {
		return nil, fmt.Errorf("generate entry ID: %w", err)
	}
	entry := &domain.Entry{
		ID:      entryID,
		DiaryID: diary.ID,
		Content: req.Content,
	}
	entry.InitTimestamps()

	if err := s.store.CreateEntry(ctx, entry); err != nil {
		return nil, writeError(err)
	}

	// Read back for the owner, privacy and empty tag list.
	created, err := s.store.GetEntry(ctx, entry.ID)
	if err != nil {
		return nil, lookupError(err, msgEntryNotFound)
	}
	s.search.IndexEntry(created)

	s.logger.Info("entry created", "entry_id", created.ID, "diary_id", diary.ID, "user_id", actor.ID)
	return created, nil
}

// Get returns an entry in a diary owned by the actor. Entries in PUBLIC
// diaries are no exception.
func (s *EntryService) Get(ctx context.Context, actor *domain.User, entryID string) (*domain.Entry, error) {
	return s.load(ctx, actor, entryID, policy.View)
}

// Update replaces the content of an entry.
func (s *EntryService) Update(ctx context.Context, actor *domain.User, entryID string, req UpdateEntryRequest) (*domain.Entry, error) {
	entry, err := s.load(ctx, actor, entryID, policy.Update)
	if err != nil {
		return nil, err
	}
	req.Content = normalize.Text(req.Content)
	if err := validate.Validate(req); err != nil {
		return nil, err
	}

	entry.Content = req.Content
	entry.Touch()
	if err := s.store.UpdateEntry(ctx, entry); err != nil {
		return nil, lookupError(err, msgEntryNotFound)
	}
	s.search.IndexEntry(entry)

	s.logger.Info("entry updated", "entry_id", entry.ID)
	return entry, nil
}

// Delete removes an entry with its tag links, likes and comments.
func (s *EntryService) Delete(ctx context.Context, actor *domain.User, entryID string) error {
	if _, err := s.load(ctx, actor, entryID, policy.Delete); err != nil {
		return err
	}
	if err := s.store.DeleteEntry(ctx, entryID); err != nil {
		return lookupError(err, msgEntryNotFound)
	}
	s.search.RemoveEntries(entryID)

	s.logger.Info("entry deleted", "entry_id", entryID)
	return nil
}

// load fetches an entry and checks action against its diary's owner.
func (s *EntryService) load(ctx context.Context, actor *domain.User, entryID string, action policy.Action) (*domain.Entry, error) {
	if err := policy.Authenticated(actorID(actor)); err != nil {
		return nil, err
	}
	entry, err := s.store.GetEntry(ctx, entryID)
	if err != nil {
		return nil, lookupError(err, msgEntryNotFound)
	}
	if err := authorize(s.logger, policy.Entry(actor.ID, entry, action), "entry_id", entryID, "user_id", actor.ID); err != nil {
		return nil, err
	}
	return entry, nil
}
