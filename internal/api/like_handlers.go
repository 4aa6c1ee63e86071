package api

import (
	"context"
	"net/http"
	"time"

	"github.com/danielgtaylor/huma/v2"

	"github.com/diaryhq/diary-server/internal/domain"
	"github.com/diaryhq/diary-server/internal/service"
)

func (s *Server) registerLikeRoutes() {
	huma.Register(s.api, huma.Operation{
		OperationID: "listEntryLikes",
		Method:      http.MethodGet,
		Path:        "/likes/entries/{entry_id}",
		Summary:     "List entry likes",
		Description: "Returns the likes of an entry",
		Tags:        []string{"Likes"},
		Security:    bearerSecurity,
	}, s.handleListEntryLikes)

	huma.Register(s.api, huma.Operation{
		OperationID: "getLike",
		Method:      http.MethodGet,
		Path:        "/likes/{id}",
		Summary:     "Get like",
		Description: "Returns a like by ID",
		Tags:        []string{"Likes"},
		Security:    bearerSecurity,
	}, s.handleGetLike)

	huma.Register(s.api, huma.Operation{
		OperationID:   "createLike",
		Method:        http.MethodPost,
		Path:          "/likes",
		Summary:       "Like entry",
		Description:   "Likes an entry. A user can like an entry once.",
		Tags:          []string{"Likes"},
		Security:      bearerSecurity,
		DefaultStatus: http.StatusCreated,
	}, s.handleCreateLike)

	huma.Register(s.api, huma.Operation{
		OperationID: "deleteLike",
		Method:      http.MethodDelete,
		Path:        "/likes/{id}",
		Summary:     "Unlike",
		Description: "Removes a like placed by the authenticated user",
		Tags:        []string{"Likes"},
		Security:    bearerSecurity,
	}, s.handleDeleteLike)
}

// === DTOs ===

// LikeResponse contains like data in API responses.
type LikeResponse struct {
	ID        string    `json:"id" doc:"Like ID"`
	UserID    string    `json:"user_id" doc:"User who liked"`
	EntryID   string    `json:"entry_id" doc:"Liked entry"`
	CreatedAt time.Time `json:"created_at" doc:"Creation time"`
}

// LikeOutput wraps the like response for Huma.
type LikeOutput struct {
	Body LikeResponse
}

// ListLikesOutput wraps a list of likes for Huma.
type ListLikesOutput struct {
	Body []LikeResponse
}

// CreateLikeRequest is the request body for liking an entry.
type CreateLikeRequest struct {
	EntryID string `json:"entry_id" required:"false" doc:"Entry to like"`
}

// CreateLikeInput wraps the create like request for Huma.
type CreateLikeInput struct {
	Body CreateLikeRequest
}

// LikeIDInput identifies a like by path.
type LikeIDInput struct {
	ID string `path:"id" doc:"Like ID"`
}

// EntryChildrenInput identifies the entry whose likes or comments are listed.
type EntryChildrenInput struct {
	EntryID string `path:"entry_id" doc:"Entry ID"`
}

func toLikeResponse(l *domain.Like) LikeResponse {
	return LikeResponse{
		ID:        l.ID,
		UserID:    l.UserID,
		EntryID:   l.EntryID,
		CreatedAt: l.CreatedAt,
	}
}

// === Handlers ===

func (s *Server) handleListEntryLikes(ctx context.Context, input *EntryChildrenInput) (*ListLikesOutput, error) {
	likes, err := s.services.Like.ListByEntry(ctx, actorFrom(ctx), input.EntryID)
	if err != nil {
		return nil, err
	}

	resp := make([]LikeResponse, len(likes))
	for i, l := range likes {
		resp[i] = toLikeResponse(l)
	}
	return &ListLikesOutput{Body: resp}, nil
}

func (s *Server) handleGetLike(ctx context.Context, input *LikeIDInput) (*LikeOutput, error) {
	l, err := s.services.Like.Get(ctx, actorFrom(ctx), input.ID)
	if err != nil {
		return nil, err
	}
	return &LikeOutput{Body: toLikeResponse(l)}, nil
}

func (s *Server) handleCreateLike(ctx context.Context, input *CreateLikeInput) (*LikeOutput, error) {
	l, err := s.services.Like.Create(ctx, actorFrom(ctx), service.LikeRequest{EntryID: input.Body.EntryID})
	if err != nil {
		return nil, err
	}
	return &LikeOutput{Body: toLikeResponse(l)}, nil
}

func (s *Server) handleDeleteLike(ctx context.Context, input *LikeIDInput) (*MessageOutput, error) {
	if err := s.services.Like.Delete(ctx, actorFrom(ctx), input.ID); err != nil {
		return nil, err
	}
	return message("Like deleted"), nil
}
