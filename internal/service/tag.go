package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/diaryhq/diary-server/internal/domain"
	domainerrors "github.com/diaryhq/diary-server/internal/errors"
	"github.com/diaryhq/diary-server/internal/id"
	"github.com/diaryhq/diary-server/internal/normalize"
	"github.com/diaryhq/diary-server/internal/policy"
	"github.com/diaryhq/diary-server/internal/store"
)

// TagService manages the global tag set. Tags have no owner: anyone may read
// them and any signed-in user may change them.
type TagService struct {
	store  store.Store
	search *SearchService
	logger *slog.Logger
}

// NewTagService creates a new tag service.
func NewTagService(store store.Store, search *SearchService, logger *slog.Logger) *TagService {
	return &TagService{
		store:  store,
		search: search,
		logger: orDiscard(logger),
	}
}

// TagRequest is the create and rename payload.
type TagRequest struct {
	Name string `json:"name" label:"Tag name" validate:"required,max=100"`
}

// List returns every tag ordered by name.
func (s *TagService) List(ctx context.Context) ([]*domain.Tag, error) {
	tags, err := s.store.ListTags(ctx)
	if err != nil {
		return nil, fmt.Errorf("list tags: %w", err)
	}
	return tags, nil
}

// Get returns one tag.
func (s *TagService) Get(ctx context.Context, tagID string) (*domain.Tag, error) {
	tag, err := s.store.GetTag(ctx, tagID)
	if err != nil {
		return nil, lookupError(err, msgTagNotFound)
	}
	return tag, nil
}

// Create adds a tag. Names are unique after normalization.
func (s *TagService) Create(ctx context.Context, actor *domain.User, req TagRequest) (*domain.Tag, error) {
	if err := policy.Authenticated(actorID(actor)); err != nil {
		return nil, err
	}
	req.Name = normalize.TagName(req.Name)
	if err := validate.Validate(req); err != nil {
		return nil, err
	}

	tagID, err := id.Generate(id.PrefixTag)
	if err != nil {
		return nil, fmt.Errorf("generate tag ID: %w", err)
	}
	tag := &domain.Tag{ID: tagID, Name: req.Name}
	tag.InitTimestamps()

	if err := s.store.CreateTag(ctx, tag); err != nil {
		return nil, tagWriteError(err)
	}

	s.logger.Info("tag created", "tag_id", tag.ID, "name", tag.Name, "user_id", actor.ID)
	return tag, nil
}

// Update renames a tag. Entries carrying it are reindexed.
func (s *TagService) Update(ctx context.Context, actor *domain.User, tagID string, req TagRequest) (*domain.Tag, error) {
	if err := policy.Authenticated(actorID(actor)); err != nil {
		return nil, err
	}
	tag, err := s.store.GetTag(ctx, tagID)
	if err != nil {
		return nil, lookupError(err, msgTagNotFound)
	}
	req.Name = normalize.TagName(req.Name)
	if err := validate.Validate(req); err != nil {
		return nil, err
	}

	tag.Name = req.Name
	tag.Touch()
	if err := s.store.UpdateTag(ctx, tag); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, domainerrors.NotFound(msgTagNotFound)
		}
		return nil, tagWriteError(err)
	}

	s.reindexTagged(ctx, tagID)

	s.logger.Info("tag updated", "tag_id", tag.ID, "name", tag.Name, "user_id", actor.ID)
	return tag, nil
}

// Delete removes a tag and detaches it from every entry.
func (s *TagService) Delete(ctx context.Context, actor *domain.User, tagID string) error {
	if err := policy.Authenticated(actorID(actor)); err != nil {
		return err
	}
	if _, err := s.store.GetTag(ctx, tagID); err != nil {
		return lookupError(err, msgTagNotFound)
	}

	tagged, err := s.store.ListEntriesByTag(ctx, tagID)
	if err != nil {
		return fmt.Errorf("list tagged entries: %w", err)
	}
	if err := s.store.DeleteTag(ctx, tagID); err != nil {
		return lookupError(err, msgTagNotFound)
	}
	s.search.ReindexEntries(ctx, entryIDs(tagged))

	s.logger.Info("tag deleted", "tag_id", tagID, "entries", len(tagged), "user_id", actor.ID)
	return nil
}

func (s *TagService) reindexTagged(ctx context.Context, tagID string) {
	tagged, err := s.store.ListEntriesByTag(ctx, tagID)
	if err != nil {
		s.logger.Warn("failed to list tagged entries for reindex", "tag_id", tagID, "error", err)
		return
	}
	s.search.ReindexEntries(ctx, entryIDs(tagged))
}

func tagWriteError(err error) error {
	if errors.Is(err, store.ErrAlreadyExists) {
		return domainerrors.Conflict("Tag name already exists")
	}
	return writeError(err)
}
