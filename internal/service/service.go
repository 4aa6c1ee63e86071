// Package service implements the diary use cases on top of the store, the
// authorization policy and the search index. Services take the acting user
// explicitly; a nil actor is an anonymous caller.
package service

import (
	"errors"
	"log/slog"

	"github.com/diaryhq/diary-server/internal/domain"
	domainerrors "github.com/diaryhq/diary-server/internal/errors"
	"github.com/diaryhq/diary-server/internal/store"
	"github.com/diaryhq/diary-server/internal/validation"
)

// validate is shared by all services. Inputs are normalized before they are
// validated, so whitespace-only strings fail "required".
var validate = validation.New()

// Not found messages.
const (
	msgUserNotFound    = "User not found"
	msgDiaryNotFound   = "Diary not found"
	msgEntryNotFound   = "Entry not found"
	msgTagNotFound     = "Tag not found"
	msgLikeNotFound    = "Like not found"
	msgCommentNotFound = "Comment not found"
)

func actorID(actor *domain.User) string {
	if actor == nil {
		return ""
	}
	return actor.ID
}

func orDiscard(logger *slog.Logger) *slog.Logger {
	if logger == nil {
		return slog.New(slog.DiscardHandler)
	}
	return logger
}

// lookupError converts a failed lookup into a NOT_FOUND error carrying msg.
func lookupError(err error, msg string) error {
	if errors.Is(err, store.ErrNotFound) {
		return domainerrors.NotFound(msg)
	}
	return writeError(err)
}

// writeError converts store constraint failures into domain errors. Anything
// else is returned unchanged and surfaces as an internal error.
func writeError(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, store.ErrInvalidReference):
		return domainerrors.Integrity("Integrity error: referenced record does not exist").WithCause(err)
	case errors.Is(err, store.ErrAlreadyExists):
		return domainerrors.Conflict("Record already exists").WithCause(err)
	default:
		return err
	}
}

// authorize logs a denied decision at debug level and returns it unchanged.
func authorize(logger *slog.Logger, err error, args ...any) error {
	if err != nil {
		logger.Debug("authorization denied", append(args, "reason", err.Error())...)
	}
	return err
}
