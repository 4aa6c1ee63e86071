package api

import (
	"context"
	"net/http"
	"time"

	"github.com/danielgtaylor/huma/v2"

	"github.com/diaryhq/diary-server/internal/domain"
	"github.com/diaryhq/diary-server/internal/service"
)

func (s *Server) registerCommentRoutes() {
	huma.Register(s.api, huma.Operation{
		OperationID: "listEntryComments",
		Method:      http.MethodGet,
		Path:        "/comments/entries/{entry_id}",
		Summary:     "List entry comments",
		Description: "Returns the comments on an entry, oldest first",
		Tags:        []string{"Comments"},
		Security:    bearerSecurity,
	}, s.handleListEntryComments)

	huma.Register(s.api, huma.Operation{
		OperationID: "getComment",
		Method:      http.MethodGet,
		Path:        "/comments/{id}",
		Summary:     "Get comment",
		Description: "Returns a comment by ID",
		Tags:        []string{"Comments"},
		Security:    bearerSecurity,
	}, s.handleGetComment)

	huma.Register(s.api, huma.Operation{
		OperationID:   "createComment",
		Method:        http.MethodPost,
		Path:          "/comments",
		Summary:       "Create comment",
		Description:   "Comments on an entry",
		Tags:          []string{"Comments"},
		Security:      bearerSecurity,
		DefaultStatus: http.StatusCreated,
	}, s.handleCreateComment)

	huma.Register(s.api, huma.Operation{
		OperationID: "updateComment",
		Method:      http.MethodPut,
		Path:        "/comments/{id}",
		Summary:     "Update comment",
		Description: "Edits a comment written by the authenticated user",
		Tags:        []string{"Comments"},
		Security:    bearerSecurity,
	}, s.handleUpdateComment)

	huma.Register(s.api, huma.Operation{
		OperationID: "deleteComment",
		Method:      http.MethodDelete,
		Path:        "/comments/{id}",
		Summary:     "Delete comment",
		Description: "Deletes a comment written by the authenticated user",
		Tags:        []string{"Comments"},
		Security:    bearerSecurity,
	}, s.handleDeleteComment)
}

// === DTOs ===

// CommentResponse contains comment data in API responses.
type CommentResponse struct {
	ID        string    `json:"id" doc:"Comment ID"`
	UserID    string    `json:"user_id" doc:"Author user ID"`
	EntryID   string    `json:"entry_id" doc:"Commented entry"`
	Content   string    `json:"content" doc:"Comment text"`
	CreatedAt time.Time `json:"created_at" doc:"Creation time"`
	UpdatedAt time.Time `json:"updated_at" doc:"Last update time"`
}

// CommentOutput wraps the comment response for Huma.
type CommentOutput struct {
	Body CommentResponse
}

// ListCommentsOutput wraps a list of comments for Huma.
type ListCommentsOutput struct {
	Body []CommentResponse
}

// CreateCommentRequest is the request body for a new comment.
type CreateCommentRequest struct {
	Content string `json:"content" required:"false" doc:"Comment text"`
	EntryID string `json:"entry_id" required:"false" doc:"Entry to comment on"`
}

// CreateCommentInput wraps the create comment request for Huma.
type CreateCommentInput struct {
	Body CreateCommentRequest
}

// UpdateCommentRequest is the request body for editing a comment.
type UpdateCommentRequest struct {
	Content string `json:"content" required:"false" doc:"Comment text"`
}

// UpdateCommentInput wraps the update comment request for Huma.
type UpdateCommentInput struct {
	ID   string `path:"id" doc:"Comment ID"`
	Body UpdateCommentRequest
}

// CommentIDInput identifies a comment by path.
type CommentIDInput struct {
	ID string `path:"id" doc:"Comment ID"`
}

func toCommentResponse(c *domain.Comment) CommentResponse {
	return CommentResponse{
		ID:        c.ID,
		UserID:    c.UserID,
		EntryID:   c.EntryID,
		Content:   c.Content,
		CreatedAt: c.CreatedAt,
		UpdatedAt: c.UpdatedAt,
	}
}

// === Handlers ===

func (s *Server) handleListEntryComments(ctx context.Context, input *EntryChildrenInput) (*ListCommentsOutput, error) {
	comments, err := s.services.Comment.ListByEntry(ctx, actorFrom(ctx), input.EntryID)
	if err != nil {
		return nil, err
	}

	resp := make([]CommentResponse, len(comments))
	for i, c := range comments {
		resp[i] = toCommentResponse(c)
	}
	return &ListCommentsOutput{Body: resp}, nil
}

func (s *Server) handleGetComment(ctx context.Context, input *CommentIDInput) (*CommentOutput, error) {
	c, err := s.services.Comment.Get(ctx, actorFrom(ctx), input.ID)
	if err != nil {
		return nil, err
	}
	return &CommentOutput{Body: toCommentResponse(c)}, nil
}

func (s *Server) handleCreateComment(ctx context.Context, input *CreateCommentInput) (*CommentOutput, error) {
	c, err := s.services.Comment.Create(ctx, actorFrom(ctx), service.CreateCommentRequest{
		Content: input.Body.Content,
		EntryID: input.Body.EntryID,
	})
	if err != nil {
		return nil, err
	}
	return &CommentOutput{Body: toCommentResponse(c)}, nil
}

func (s *Server) handleUpdateComment(ctx context.Context, input *UpdateCommentInput) (*CommentOutput, error) {
	c, err := s.services.Comment.Update(ctx, actorFrom(ctx), input.ID, service.UpdateCommentRequest{
		Content: input.Body.Content,
	})
	if err != nil {
		return nil, err
	}
	return &CommentOutput{Body: toCommentResponse(c)}, nil
}

func (s *Server) handleDeleteComment(ctx context.Context, input *CommentIDInput) (*MessageOutput, error) {
	if err := s.services.Comment.Delete(ctx, actorFrom(ctx), input.ID); err != nil {
		return nil, err
	}
	return message("Comment deleted"), nil
}
