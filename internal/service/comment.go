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

// CommentService manages comments on entries. Any signed-in user may comment
// on an existing entry; only the author may edit or delete the comment.
type CommentService struct {
	store  store.Store
	logger *slog.Logger
}

// NewCommentService creates a new comment service.
func NewCommentService(store store.Store, logger *slog.Logger) *CommentService {
	return &CommentService{
		store:  store,
		logger: orDiscard(logger),
	}
}

// CreateCommentRequest is the payload for a new comment.
type CreateCommentRequest struct {
	Content string `json:"content" label:"Comment" validate:"required"`
	EntryID string `json:"entry_id" label:"Entry ID" validate:"required"`
}

// UpdateCommentRequest is the payload for editing a comment.
type UpdateCommentRequest struct {
	Content string `json:"content" label:"Comment" validate:"required"`
}

// ListByEntry returns the comments on an entry, oldest first.
func (s *CommentService) ListByEntry(ctx context.Context, actor *domain.User, entryID string) ([]*domain.Comment, error) {
	if err := policy.Authenticated(actorID(actor)); err != nil {
		return nil, err
	}
	if _, err := s.store.GetEntry(ctx, entryID); err != nil {
		return nil, lookupError(err, msgEntryNotFound)
	}
	comments, err := s.store.ListCommentsByEntry(ctx, entryID)
	if err != nil {
		return nil, fmt.Errorf("list comments: %w", err)
	}
	return comments, nil
}

// Get returns one comment.
func (s *CommentService) Get(ctx context.Context, actor *domain.User, commentID string) (*domain.Comment, error) {
	return s.load(ctx, actor, commentID, policy.View)
}

// Create adds a comment by the actor.
func (s *CommentService) Create(ctx context.Context, actor *domain.User, req CreateCommentRequest) (*domain.Comment, error) {
	if err := policy.Authenticated(actorID(actor)); err != nil {
		return nil, err
	}
	req.Content = normalize.Text(req.Content)
	req.EntryID = normalize.Text(req.EntryID)
	if err := validate.Validate(req); err != nil {
		return nil, err
	}
	if _, err := s.store.GetEntry(ctx, req.EntryID); err != nil {
		return nil, lookupError(err, msgEntryNotFound)
	}

	commentID, err := id.Generate(id.PrefixComment)
	if err != nil {
		return nil, fmt.Errorf("generate comment ID: %w", err)
	}
	comment := &domain.Comment{
		ID:      commentID,
		UserID:  actor.ID,
		EntryID: req.EntryID,
		Content: req.Content,
	}
	comment.InitTimestamps()

	if err := s.store.CreateComment(ctx, comment); err != nil {
		return nil, writeError(err)
	}

	s.logger.Info("comment created", "comment_id", comment.ID, "entry_id", comment.EntryID, "user_id", actor.ID)
	return comment, nil
}

// Update replaces the content of the actor's comment.
func (s *CommentService) Update(ctx context.Context, actor *domain.User, commentID string, req UpdateCommentRequest) (*domain.Comment, error) {
	comment, err := s.load(ctx, actor, commentID, policy.Update)
	if err != nil {
		return nil, err
	}
	req.Content = normalize.Text(req.Content)
	if err := validate.Validate(req); err != nil {
		return nil, err
	}

	comment.Content = req.Content
	comment.Touch()
	if err := s.store.UpdateComment(ctx, comment); err != nil {
		return nil, lookupError(err, msgCommentNotFound)
	}

	s.logger.Info("comment updated", "comment_id", comment.ID)
	return comment, nil
}

// Delete removes the actor's comment.
func (s *CommentService) Delete(ctx context.Context, actor *domain.User, commentID string) error {
	if _, err := s.load(ctx, actor, commentID, policy.Delete); err != nil {
		return err
	}
	if err := s.store.DeleteComment(ctx, commentID); err != nil {
		return lookupError(err, msgCommentNotFound)
	}

	s.logger.Info("comment deleted", "comment_id", commentID, "user_id", actor.ID)
	return nil
}

func (s *CommentService) load(ctx context.Context, actor *domain.User, commentID string, action policy.Action) (*domain.Comment, error) {
	if err := policy.Authenticated(actorID(actor)); err != nil {
		return nil, err
	}
	comment, err := s.store.GetComment(ctx, commentID)
	if err != nil {
		return nil, lookupError(err, msgCommentNotFound)
	}
	if err := authorize(s.logger, policy.Comment(actor.ID, comment, action), "comment_id", commentID, "user_id", actor.ID); err != nil {
		return nil, err
	}
	return comment, nil
}
