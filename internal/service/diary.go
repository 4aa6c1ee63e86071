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

// DiaryService manages diaries. Every operation is restricted to the owner.
type DiaryService struct {
	store  store.Store
	search *SearchService
	logger *slog.Logger
}

// NewDiaryService creates a new diary service.
func NewDiaryService(store store.Store, search *SearchService, logger *slog.Logger) *DiaryService {
	return &DiaryService{
		store:  store,
		search: search,
		logger: orDiscard(logger),
	}
}

// DiaryRequest is the create and update payload. An empty privacy means
// PRIVATE on create and "unchanged" on update.
type DiaryRequest struct {
	Title   string `json:"title" label:"Diary Title" validate:"required,max=255"`
	Privacy string `json:"privacy" label:"Privacy" validate:"omitempty,oneof=PUBLIC PRIVATE"`
}

func (r *DiaryRequest) normalize() {
	r.Title = normalize.Text(r.Title)
	r.Privacy = normalize.Privacy(r.Privacy)
}

// List returns the actor's diaries, oldest first.
func (s *DiaryService) List(ctx context.Context, actor *domain.User) ([]*domain.Diary, error) {
	if err := policy.Authenticated(actorID(actor)); err != nil {
		return nil, err
	}
	diaries, err := s.store.ListDiariesByOwner(ctx, actor.ID)
	if err != nil {
		return nil, fmt.Errorf("list diaries: %w", err)
	}
	return diaries, nil
}

// Create creates a diary owned by the actor.
func (s *DiaryService) Create(ctx context.Context, actor *domain.User, req DiaryRequest) (*domain.Diary, error) {
	if err := policy.Authenticated(actorID(actor)); err != nil {
		return nil, err
	}
	req.normalize()
	if err := validate.Validate(req); err != nil {
		return nil, err
	}

	diaryID, err := id.Generate(id.PrefixDiary)
	if err != nil {
		return nil, fmt.Errorf("generate diary ID: %w", err)
	}

	privacy := domain.DefaultPrivacy
	if req.Privacy != "" {
		privacy = domain.Privacy(req.Privacy)
	}

	diary := &domain.Diary{
		ID:      diaryID,
		OwnerID: actor.ID,
		Title:   req.Title,
		Privacy: privacy,
	}
	diary.InitTimestamps()

	if err := s.store.CreateDiary(ctx, diary); err != nil {
		return nil, writeError(err)
	}

	s.logger.Info("diary created", "diary_id", diary.ID, "user_id", actor.ID, "privacy", diary.Privacy)
	return diary, nil
}

// Get returns a diary owned by the actor.
func (s *DiaryService) Get(ctx context.Context, actor *domain.User, diaryID string) (*domain.Diary, error) {
	return s.load(ctx, actor, diaryID, policy.View)
}

// Update changes the title and, when given, the privacy of a diary.
func (s *DiaryService) Update(ctx context.Context, actor *domain.User, diaryID string, req DiaryRequest) (*domain.Diary, error) {
	diary, err := s.load(ctx, actor, diaryID, policy.Update)
	if err != nil {
		return nil, err
	}
	req.normalize()
	if err := validate.Validate(req); err != nil {
		return nil, err
	}

	diary.Title = req.Title
	if req.Privacy != "" {
		diary.Privacy = domain.Privacy(req.Privacy)
	}
	diary.Touch()

	if err := s.store.UpdateDiary(ctx, diary); err != nil {
		return nil, lookupError(err, msgDiaryNotFound)
	}

	s.logger.Info("diary updated", "diary_id", diary.ID, "privacy", diary.Privacy)
	return diary, nil
}

// Delete removes a diary and every entry in it.
func (s *DiaryService) Delete(ctx context.Context, actor *domain.User, diaryID string) error {
	if _, err := s.load(ctx, actor, diaryID, policy.Delete); err != nil {
		return err
	}

	entries, err := s.store.ListEntriesByDiary(ctx, diaryID)
	if err != nil {
		return fmt.Errorf("list entries: %w", err)
	}

	if err := s.store.DeleteDiary(ctx, diaryID); err != nil {
		return lookupError(err, msgDiaryNotFound)
	}
	s.search.RemoveEntries(entryIDs(entries)...)

	s.logger.Info("diary deleted", "diary_id", diaryID, "entries", len(entries))
	return nil
}

// load fetches a diary and checks action against it. A missing diary is
// reported before any authorization decision.
func (s *DiaryService) load(ctx context.Context, actor *domain.User, diaryID string, action policy.Action) (*domain.Diary, error) {
	if err := policy.Authenticated(actorID(actor)); err != nil {
		return nil, err
	}
	diary, err := s.store.GetDiary(ctx, diaryID)
	if err != nil {
		return nil, lookupError(err, msgDiaryNotFound)
	}
	if err := authorize(s.logger, policy.Diary(actor.ID, diary, action), "diary_id", diaryID, "user_id", actor.ID); err != nil {
		return nil, err
	}
	return diary, nil
}
