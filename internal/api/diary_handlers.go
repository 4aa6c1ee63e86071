package api

import (
	"context"
	"net/http"
	"time"

	"github.com/danielgtaylor/huma/v2"

	"github.com/diaryhq/diary-server/internal/domain"
	"github.com/diaryhq/diary-server/internal/service"
)

func (s *Server) registerDiaryRoutes() {
	huma.Register(s.api, huma.Operation{
		OperationID: "listDiaries",
		Method:      http.MethodGet,
		Path:        "/diaries",
		Summary:     "List diaries",
		Description: "Returns the authenticated user's diaries",
		Tags:        []string{"Diaries"},
		Security:    bearerSecurity,
	}, s.handleListDiaries)

	huma.Register(s.api, huma.Operation{
		OperationID:   "createDiary",
		Method:        http.MethodPost,
		Path:          "/diaries",
		Summary:       "Create diary",
		Description:   "Creates a diary. Privacy defaults to PRIVATE.",
		Tags:          []string{"Diaries"},
		Security:      bearerSecurity,
		DefaultStatus: http.StatusCreated,
	}, s.handleCreateDiary)

	huma.Register(s.api, huma.Operation{
		OperationID: "getDiary",
		Method:      http.MethodGet,
		Path:        "/diaries/{id}",
		Summary:     "Get diary",
		Description: "Returns a diary owned by the authenticated user",
		Tags:        []string{"Diaries"},
		Security:    bearerSecurity,
	}, s.handleGetDiary)

	huma.Register(s.api, huma.Operation{
		OperationID: "updateDiary",
		Method:      http.MethodPut,
		Path:        "/diaries/{id}",
		Summary:     "Update diary",
		Description: "Changes the title and, when given, the privacy of a diary",
		Tags:        []string{"Diaries"},
		Security:    bearerSecurity,
	}, s.handleUpdateDiary)

	huma.Register(s.api, huma.Operation{
		OperationID: "deleteDiary",
		Method:      http.MethodDelete,
		Path:        "/diaries/{id}",
		Summary:     "Delete diary",
		Description: "Deletes a diary and all of its entries",
		Tags:        []string{"Diaries"},
		Security:    bearerSecurity,
	}, s.handleDeleteDiary)
}

// === DTOs ===

// DiaryResponse contains diary data in API responses.
type DiaryResponse struct {
	ID          string    `json:"id" doc:"Diary ID"`
	OwnerUserID string    `json:"owner_user_id" doc:"Owner user ID"`
	Title       string    `json:"title" doc:"Diary title"`
	Privacy     string    `json:"privacy" enum:"PUBLIC,PRIVATE" doc:"Visibility of the diary's entries"`
	EntryCount  int       `json:"entry_count" doc:"Number of entries"`
	CreatedAt   time.Time `json:"created_at" doc:"Creation time"`
	UpdatedAt   time.Time `json:"updated_at" doc:"Last update time"`
}

// DiaryOutput wraps the diary response for Huma.
type DiaryOutput struct {
	Body DiaryResponse
}

// ListDiariesOutput wraps a list of diaries for Huma.
type ListDiariesOutput struct {
	Body []DiaryResponse
}

// DiaryRequest is the request body for creating and updating a diary.
type DiaryRequest struct {
	Title   string `json:"title" required:"false" doc:"Diary title"`
	Privacy string `json:"privacy,omitempty" doc:"PUBLIC or PRIVATE"`
}

// CreateDiaryInput wraps the create diary request for Huma.
type CreateDiaryInput struct {
	Body DiaryRequest
}

// DiaryIDInput identifies a diary by path.
type DiaryIDInput struct {
	ID string `path:"id" doc:"Diary ID"`
}

// UpdateDiaryInput wraps the update diary request for Huma.
type UpdateDiaryInput struct {
	ID   string `path:"id" doc:"Diary ID"`
	Body DiaryRequest
}

func toDiaryResponse(d *domain.Diary) DiaryResponse {
	return DiaryResponse{
		ID:          d.ID,
		OwnerUserID: d.OwnerID,
		Title:       d.Title,
		Privacy:     string(d.Privacy),
		EntryCount:  d.EntryCount,
		CreatedAt:   d.CreatedAt,
		UpdatedAt:   d.UpdatedAt,
	}
}

// === Handlers ===

func (s *Server) handleListDiaries(ctx context.Context, _ *struct{}) (*ListDiariesOutput, error) {
	diaries, err := s.services.Diary.List(ctx, actorFrom(ctx))
	if err != nil {
		return nil, err
	}

	resp := make([]DiaryResponse, len(diaries))
	for i, d := range diaries {
		resp[i] = toDiaryResponse(d)
	}
	return &ListDiariesOutput{Body: resp}, nil
}

func (s *Server) handleCreateDiary(ctx context.Context, input *CreateDiaryInput) (*DiaryOutput, error) {
	d, err := s.services.Diary.Create(ctx, actorFrom(ctx), service.DiaryRequest{
		Title:   input.Body.Title,
		Privacy: input.Body.Privacy,
	})
	if err != nil {
		return nil, err
	}
	return &DiaryOutput{Body: toDiaryResponse(d)}, nil
}

func (s *Server) handleGetDiary(ctx context.Context, input *DiaryIDInput) (*DiaryOutput, error) {
	d, err := s.services.Diary.Get(ctx, actorFrom(ctx), input.ID)
	if err != nil {
		return nil, err
	}
	return &DiaryOutput{Body: toDiaryResponse(d)}, nil
}

func (s *Server) handleUpdateDiary(ctx context.Context, input *UpdateDiaryInput) (*DiaryOutput, error) {
	d, err := s.services.Diary.Update(ctx, actorFrom(ctx), input.ID, service.DiaryRequest{
		Title:   input.Body.Title,
		Privacy: input.Body.Privacy,
	})
	if err != nil {
		return nil, err
	}
	return &DiaryOutput{Body: toDiaryResponse(d)}, nil
}

func (s *Server) handleDeleteDiary(ctx context.Context, input *DiaryIDInput) (*MessageOutput, error) {
	if err := s.services.Diary.Delete(ctx, actorFrom(ctx), input.ID); err != nil {
		return nil, err
	}
	return message("Diary deleted"), nil
}
