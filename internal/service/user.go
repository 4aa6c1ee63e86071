package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/diaryhq/diary-server/internal/domain"
	domainerrors "github.com/diaryhq/diary-server/internal/errors"
	"github.com/diaryhq/diary-server/internal/normalize"
	"github.com/diaryhq/diary-server/internal/policy"
	"github.com/diaryhq/diary-server/internal/store"
)

// UserService manages the actor's own account.
type UserService struct {
	store  store.Store
	auth   *AuthService
	search *SearchService
	logger *slog.Logger
}

// NewUserService creates a new user service.
func NewUserService(store store.Store, auth *AuthService, search *SearchService, logger *slog.Logger) *UserService {
	return &UserService{
		store:  store,
		auth:   auth,
		search: search,
		logger: orDiscard(logger),
	}
}

// Get returns the actor's account as stored.
func (s *UserService) Get(ctx context.Context, actor *domain.User) (*domain.User, error) {
	if err := policy.Authenticated(actorID(actor)); err != nil {
		return nil, err
	}
	user, err := s.store.GetUser(ctx, actor.ID)
	if err != nil {
		return nil, lookupError(err, msgUserNotFound)
	}
	return user, nil
}

// Update replaces the actor's email and password. Since the email is the
// token identity, a new token is returned.
func (s *UserService) Update(ctx context.Context, actor *domain.User, req Credentials) (*AuthResponse, error) {
	if err := policy.Authenticated(actorID(actor)); err != nil {
		return nil, err
	}
	req.Email = normalize.Email(req.Email)
	if err := validate.Validate(req); err != nil {
		return nil, err
	}

	user, err := s.store.GetUser(ctx, actor.ID)
	if err != nil {
		return nil, lookupError(err, msgUserNotFound)
	}

	hash, err := hashPassword(req.Password)
	if err != nil {
		return nil, err
	}
	user.Email = req.Email
	user.PasswordHash = hash
	user.Touch()

	if err := s.store.UpdateUser(ctx, user); err != nil {
		if errors.Is(err, store.ErrAlreadyExists) {
			return nil, domainerrors.Conflict("Email already registered")
		}
		return nil, lookupError(err, msgUserNotFound)
	}

	s.logger.Info("user updated", "user_id", user.ID)

	return s.auth.issue(user)
}

// Delete removes the actor's account together with their diaries, entries,
// likes and comments.
func (s *UserService) Delete(ctx context.Context, actor *domain.User) error {
	if err := policy.Authenticated(actorID(actor)); err != nil {
		return err
	}

	owned, err := s.store.ListEntriesByOwner(ctx, actor.ID)
	if err != nil {
		return fmt.Errorf("list entries: %w", err)
	}

	if err := s.store.DeleteUser(ctx, actor.ID); err != nil {
		return lookupError(err, msgUserNotFound)
	}
	s.search.RemoveEntries(entryIDs(owned)...)

	s.logger.Info("user deleted", "user_id", actor.ID, "entries", len(owned))
	return nil
}
