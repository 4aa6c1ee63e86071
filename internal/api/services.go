package api

import (
	"github.com/diaryhq/diary-server/internal/service"
)

// Services groups the business logic services used by the API server.
type Services struct {
	Auth     *service.AuthService
	User     *service.UserService
	Diary    *service.DiaryService
	Entry    *service.EntryService
	EntryTag *service.EntryTagService // tag association on entries
	Tag      *service.TagService
	Like     *service.LikeService
	Comment  *service.CommentService
	Search   *service.SearchService
}
