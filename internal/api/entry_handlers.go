package api

import (
	"context"
	"net/http"
	"time"

	"github.com/danielgtaylor/huma/v2"

	"github.com/diaryhq/diary-server/internal/domain"
	"github.com/diaryhq/diary-server/internal/service"
)

func (s *Server) registerEntryRoutes() {
	huma.Register(s.api, huma.Operation{
		OperationID: "listDiaryEntries",
		Method:      http.MethodGet,
		Path:        "/entries/diaries/{diary_id}",
		Summary:     "List diary entries",
		Description: "Returns the entries of a diary owned by the authenticated user",
		Tags:        []string{"Entries"},
		Security:    bearerSecurity,
	}, s.handleListDiaryEntries)

	huma.Register(s.api, huma.Operation{
		OperationID: "searchEntries",
		Method:      http.MethodGet,
		Path:        "/entries/search",
		Summary:     "Search entries",
		Description: "Full-text search over the authenticated user's entries and their tags",
		Tags:        []string{"Entries"},
		Security:    bearerSecurity,
	}, s.handleSearchEntries)

	huma.Register(s.api, huma.Operation{
		OperationID: "listPublicEntriesByTag",
		Method:      http.MethodGet,
		Path:        "/entries/tags/{tag_id}",
		Summary:     "List public entries by tag",
		Description: "Returns entries carrying the tag whose diary is PUBLIC. No authentication required.",
		Tags:        []string{"Entries"},
	}, s.handleListPublicEntriesByTag)

	huma.Register(s.api, huma.Operation{
		OperationID:   "createEntry",
		Method:        http.MethodPost,
		Path:          "/entries",
		Summary:       "Create entry",
		Description:   "Adds an entry to a diary owned by the authenticated user",
		Tags:          []string{"Entries"},
		Security:      bearerSecurity,
		DefaultStatus: http.StatusCreated,
	}, s.handleCreateEntry)

	huma.Register(s.api, huma.Operation{
		OperationID: "getEntry",
		Method:      http.MethodGet,
		Path:        "/entries/{id}",
		Summary:     "Get entry",
		Description: "Returns an entry. Only the diary owner may read it, even in a PUBLIC diary.",
		Tags:        []string{"Entries"},
		Security:    bearerSecurity,
	}, s.handleGetEntry)

	huma.Register(s.api, huma.Operation{
		OperationID: "updateEntry",
		Method:      http.MethodPut,
		Path:        "/entries/{id}",
		Summary:     "Update entry",
		Description: "Replaces the content of an entry",
		Tags:        []string{"Entries"},
		Security:    bearerSecurity,
	}, s.handleUpdateEntry)

	huma.Register(s.api, huma.Operation{
		OperationID: "deleteEntry",
		Method:      http.MethodDelete,
		Path:        "/entries/{id}",
		Summary:     "Delete entry",
		Description: "Deletes an entry with its likes, comments and tag links",
		Tags:        []string{"Entries"},
		Security:    bearerSecurity,
	}, s.handleDeleteEntry)

	huma.Register(s.api, huma.Operation{
		OperationID: "addEntryTag",
		Method:      http.MethodPut,
		Path:        "/entries/{id}/tags/{tag_id}",
		Summary:     "Add tag to entry",
		Description: "Attaches a tag to an entry. Fails with 409 if the tag is already attached.",
		Tags:        []string{"Entries"},
		Security:    bearerSecurity,
	}, s.handleAddEntryTag)

	huma.Register(s.api, huma.Operation{
		OperationID: "removeEntryTag",
		Method:      http.MethodDelete,
		Path:        "/entries/{id}/tags/{tag_id}",
		Summary:     "Remove tag from entry",
		Description: "Detaches a tag from an entry. Fails with 400 if the tag is not attached.",
		Tags:        []string{"Entries"},
		Security:    bearerSecurity,
	}, s.handleRemoveEntryTag)
}

// === DTOs ===

// EntryResponse contains entry data in API responses.
type EntryResponse struct {
	ID           string        `json:"id" doc:"Entry ID"`
	DiaryID      string        `json:"diary_id" doc:"Parent diary ID"`
	Content      string        `json:"content" doc:"Entry content"`
	Tags         []TagResponse `json:"tags" doc:"Attached tags"`
	LikeCount    int           `json:"like_count" doc:"Number of likes"`
	CommentCount int           `json:"comment_count" doc:"Number of comments"`
	CreatedAt    time.Time     `json:"created_at" doc:"Creation time"`
	UpdatedAt    time.Time     `json:"updated_at" doc:"Last update time"`
}

// EntryOutput wraps the entry response for Huma.
type EntryOutput struct {
	Body EntryResponse
}

// ListEntriesOutput wraps a list of entries for Huma.
type ListEntriesOutput struct {
	Body []EntryResponse
}

// CreateEntryRequest is the request body for creating an entry.
type CreateEntryRequest struct {
	Content string `json:"content" required:"false" doc:"Entry content"`
	DiaryID string `json:"diary_id" required:"false" doc:"Diary to add the entry to"`
}

// CreateEntryInput wraps the create entry request for Huma.
type CreateEntryInput struct {
	Body CreateEntryRequest
}

// UpdateEntryRequest is the request body for updating an entry.
type UpdateEntryRequest struct {
	Content string `json:"content" required:"false" doc:"Entry content"`
}

// UpdateEntryInput wraps the update entry request for Huma.
type UpdateEntryInput struct {
	ID   string `path:"id" doc:"Entry ID"`
	Body UpdateEntryRequest
}

// EntryIDInput identifies an entry by path.
type EntryIDInput struct {
	ID string `path:"id" doc:"Entry ID"`
}

// DiaryEntriesInput identifies a diary whose entries are listed.
type DiaryEntriesInput struct {
	DiaryID string `path:"diary_id" doc:"Diary ID"`
}

// TagEntriesInput identifies a tag whose public entries are listed.
type TagEntriesInput struct {
	TagID string `path:"tag_id" doc:"Tag ID"`
}

// EntryTagInput identifies an entry and a tag.
type EntryTagInput struct {
	ID    string `path:"id" doc:"Entry ID"`
	TagID string `path:"tag_id" doc:"Tag ID"`
}

// SearchEntriesInput contains search parameters.
type SearchEntriesInput struct {
	Query string `query:"q" doc:"Search text"`
	Limit int    `query:"limit" doc:"Maximum results (default 20, max 100)"`
}

func toEntryResponse(e *domain.Entry) EntryResponse {
	tags := make([]TagResponse, len(e.Tags))
	for i, t := range e.Tags {
		tags[i] = toTagResponse(t)
	}
	return EntryResponse{
		ID:           e.ID,
		DiaryID:      e.DiaryID,
		Content:      e.Content,
		Tags:         tags,
		LikeCount:    e.LikeCount,
		CommentCount: e.CommentCount,
		CreatedAt:    e.CreatedAt,
		UpdatedAt:    e.UpdatedAt,
	}
}

func toListEntriesOutput(entries []*domain.Entry) *ListEntriesOutput {
	resp := make([]EntryResponse, len(entries))
	for i, e := range entries {
		resp[i] = toEntryResponse(e)
	}
	return &ListEntriesOutput{Body: resp}
}

// === Handlers ===

func (s *Server) handleListDiaryEntries(ctx context.Context, input *DiaryEntriesInput) (*ListEntriesOutput, error) {
	entries, err := s.services.Entry.ListByDiary(ctx, actorFrom(ctx), input.DiaryID)
	if err != nil {
		return nil, err
	}
	return toListEntriesOutput(entries), nil
}

func (s *Server) handleSearchEntries(ctx context.Context, input *SearchEntriesInput) (*ListEntriesOutput, error) {
	entries, err := s.services.Search.Search(ctx, actorFrom(ctx), input.Query, input.Limit)
	if err != nil {
		return nil, err
	}
	return toListEntriesOutput(entries), nil
}

func (s *Server) handleListPublicEntriesByTag(ctx context.Context, input *TagEntriesInput) (*ListEntriesOutput, error) {
	entries, err := s.services.Entry.ListPublicByTag(ctx, input.TagID)
	if err != nil {
		return nil, err
	}
	return toListEntriesOutput(entries), nil
}

func (s *Server) handleCreateEntry(ctx context.Context, input *CreateEntryInput) (*EntryOutput, error) {
	e, err := s.services.Entry.Create(ctx, actorFrom(ctx), service.CreateEntryRequest{
		Content: input.Body.Content,
		DiaryID: input.Body.DiaryID,
	})
	if err != nil {
		return nil, err
	}
	return &EntryOutput{Body: toEntryResponse(e)}, nil
}

func (s *Server) handleGetEntry(ctx context.Context, input *EntryIDInput) (*EntryOutput, error) {
	e, err := s.services.Entry.Get(ctx, actorFrom(ctx), input.ID)
	if err != nil {
		return nil, err
	}
	return &EntryOutput{Body: toEntryResponse(e)}, nil
}

func (s *Server) handleUpdateEntry(ctx context.Context, input *UpdateEntryInput) (*EntryOutput, error) {
	e, err := s.services.Entry.Update(ctx, actorFrom(ctx), input.ID, service.UpdateEntryRequest{
		Content: input.Body.Content,
	})
	if err != nil {
		return nil, err
	}
	return &EntryOutput{Body: toEntryResponse(e)}, nil
}

func (s *Server) handleDeleteEntry(ctx context.Context, input *EntryIDInput) (*MessageOutput, error) {
	if err := s.services.Entry.Delete(ctx, actorFrom(ctx), input.ID); err != nil {
		return nil, err
	}
	return message("Entry deleted"), nil
}

func (s *Server) handleAddEntryTag(ctx context.Context, input *EntryTagInput) (*EntryOutput, error) {
	e, err := s.services.EntryTag.AddTag(ctx, actorFrom(ctx), input.ID, input.TagID)
	if err != nil {
		return nil, err
	}
	return &EntryOutput{Body: toEntryResponse(e)}, nil
}

func (s *Server) handleRemoveEntryTag(ctx context.Context, input *EntryTagInput) (*EntryOutput, error) {
	e, err := s.services.EntryTag.RemoveTag(ctx, actorFrom(ctx), input.ID, input.TagID)
	if err != nil {
		return nil, err
	}
	return &EntryOutput{Body: toEntryResponse(e)}, nil
}
