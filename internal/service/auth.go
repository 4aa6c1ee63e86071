package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/diaryhq/diary-server/internal/auth"
	"github.com/diaryhq/diary-server/internal/domain"
	domainerrors "github.com/diaryhq/diary-server/internal/errors"
	"github.com/diaryhq/diary-server/internal/id"
	"github.com/diaryhq/diary-server/internal/normalize"
	"github.com/diaryhq/diary-server/internal/store"
)

// msgBadCredentials is returned for an unknown email and a wrong password alike.
const msgBadCredentials = "Incorrect username and password!"

// AuthService registers users, checks credentials and resolves the actor
// behind an access token.
type AuthService struct {
	store        store.Store
	tokenService *auth.TokenService
	logger       *slog.Logger
}

// NewAuthService creates a new authentication service.
func NewAuthService(store store.Store, tokenService *auth.TokenService, logger *slog.Logger) *AuthService {
	return &AuthService{
		store:        store,
		tokenService: tokenService,
		logger:       orDiscard(logger),
	}
}

// Credentials is the registration and profile update payload.
type Credentials struct {
	Email    string `json:"email" label:"Email" validate:"required,email,max=254"`
	Password string `json:"password" label:"Password" validate:"required,min=6,max=1024"`
}

// LoginRequest contains user credentials. Format rules are not applied so
// that every mismatch looks the same.
type LoginRequest struct {
	Email    string `json:"email" label:"Email" validate:"required"`
	Password string `json:"password" label:"Password" validate:"required"`
}

// AuthResponse is an access token and the user it identifies.
type AuthResponse struct {
	AccessToken string       `json:"access_token"`
	TokenType   string       `json:"token_type"`
	ExpiresAt   time.Time    `json:"expires_at"`
	User        *domain.User `json:"user"`
}

// Register validates req, creates the user and signs them in. Nothing is
// written when validation fails.
func (s *AuthService) Register(ctx context.Context, req Credentials) (*AuthResponse, error) {
	req.Email = normalize.Email(req.Email)
	if err := validate.Validate(req); err != nil {
		return nil, err
	}

	passwordHash, err := hashPassword(req.Password)
	if err != nil {
		return nil, err
	}

	userID, err := id.Generate(id.PrefixUser)
	if err != nil {
		return nil, fmt.Errorf("generate user ID: %w", err)
	}

	user := &domain.User{
		ID:           userID,
		Email:        req.Email,
		PasswordHash: passwordHash,
	}
	user.InitTimestamps()

	if err := s.store.CreateUser(ctx, user); err != nil {
		if errors.Is(err, store.ErrAlreadyExists) {
			return nil, domainerrors.Conflict("Email already registered")
		}
		return nil, fmt.Errorf("create user: %w", err)
	}

	s.logger.Info("user registered", "user_id", user.ID)

	return s.issue(user)
}

// hashPassword hashes a password that already passed validation. The length
// rule counts characters while the hasher bounds bytes, so multi-byte
// passwords can still be rejected here.
func hashPassword(password string) (string, error) {
	hash, err := auth.HashPassword(password)
	if errors.Is(err, auth.ErrPasswordTooLong) {
		return "", domainerrors.Validationf("Password must not exceed %d bytes", auth.MaxPasswordLength)
	}
	if err != nil {
		return "", fmt.Errorf("hash password: %w", err)
	}
	return hash, nil
}

// Login checks the credentials and returns a fresh token. Hashes in a legacy
// format are upgraded on success.
func (s *AuthService) Login(ctx context.Context, req LoginRequest) (*AuthResponse, error) {
	req.Email = normalize.Email(req.Email)
	if err := validate.Validate(req); err != nil {
		return nil, err
	}

	user, err := s.store.GetUserByEmail(ctx, req.Email)
	if errors.Is(err, store.ErrNotFound) {
		return nil, domainerrors.InvalidCredentials(msgBadCredentials)
	}
	if err != nil {
		return nil, fmt.Errorf("get user: %w", err)
	}

	ok, needsRehash := auth.VerifyPassword(user.PasswordHash, req.Password)
	if !ok {
		s.logger.Debug("login failed", "user_id", user.ID)
		return nil, domainerrors.InvalidCredentials(msgBadCredentials)
	}

	if needsRehash {
		s.upgradeHash(ctx, user, req.Password)
	}

	s.logger.Info("user logged in", "user_id", user.ID)

	return s.issue(user)
}

// upgradeHash re-hashes a legacy password. Failure leaves the old hash,
// which still verifies.
func (s *AuthService) upgradeHash(ctx context.Context, user *domain.User, password string) {
	hash, err := auth.HashPassword(password)
	if err != nil {
		s.logger.Warn("failed to rehash password", "user_id", user.ID, "error", err)
		return
	}
	user.PasswordHash = hash
	user.Touch()
	if err := s.store.UpdateUser(ctx, user); err != nil {
		s.logger.Warn("failed to store rehashed password", "user_id", user.ID, "error", err)
		return
	}
	s.logger.Info("upgraded legacy password hash", "user_id", user.ID)
}

// Authenticate verifies token and returns the user it names. The token's
// identity is the email; the user ID claim must still match, so a token
// outlives neither an account deletion nor an email change.
func (s *AuthService) Authenticate(ctx context.Context, token string) (*domain.User, error) {
	claims, err := s.tokenService.Verify(token)
	if err != nil {
		return nil, domainerrors.Unauthorized("Invalid or expired token")
	}

	user, err := s.store.GetUserByEmail(ctx, claims.Subject)
	if errors.Is(err, store.ErrNotFound) {
		return nil, domainerrors.Unauthorized("User no longer exists")
	}
	if err != nil {
		return nil, fmt.Errorf("get user: %w", err)
	}
	if user.ID != claims.UserID {
		return nil, domainerrors.Unauthorized("Invalid or expired token")
	}
	return user, nil
}

func (s *AuthService) issue(user *domain.User) (*AuthResponse, error) {
	token, err := s.tokenService.Issue(user)
	if err != nil {
		return nil, fmt.Errorf("issue token: %w", err)
	}
	return &AuthResponse{
		AccessToken: token.Token,
		TokenType:   "Bearer",
		ExpiresAt:   token.ExpiresAt,
		User:        user,
	}, nil
}
