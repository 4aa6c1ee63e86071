package api

import (
	"net/http"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegister_Success(t *testing.T) {
	ts := setupTestServer(t)

	resp := ts.api.Post("/auth/register", map[string]any{
		"email":    "Ann@Example.com",
		"password": "secret1",
	})
	require.Equal(t, http.StatusOK, resp.Code, resp.Body.String())

	envelope := decode[AuthResponse](t, resp)
	assert.True(t, envelope.Success)
	assert.NotEmpty(t, envelope.Data.AccessToken)
	assert.Equal(t, "Bearer", envelope.Data.TokenType)
	assert.Equal(t, "ann@example.com", envelope.Data.User.Email)
	assert.NotContains(t, resp.Body.String(), "password")
}

func TestRegister_ShortPassword(t *testing.T) {
	ts := setupTestServer(t)

	resp := ts.api.Post("/auth/register", map[string]any{
		"email":    "ann@example.com",
		"password": "12345",
	})
	requireError(t, resp, http.StatusBadRequest, "VALIDATION", "Password must be at least 6 characters long")

	// Nothing was written: the same email can still register.
	ts.registerUser(t, "ann@example.com")
}

func TestRegister_MultiBytePasswordTooLong(t *testing.T) {
	ts := setupTestServer(t)

	resp := ts.api.Post("/auth/register", map[string]any{
		"email":    "ann@example.com",
		"password": strings.Repeat("€", 400),
	})
	requireError(t, resp, http.StatusBadRequest, "VALIDATION", "Password must not exceed 1024 bytes")
}

func TestRegister_DuplicateEmail(t *testing.T) {
	ts := setupTestServer(t)
	ts.registerUser(t, "ann@example.com")

	resp := ts.api.Post("/auth/register", map[string]any{
		"email":    "ann@example.com",
		"password": "secret2",
	})
	requireError(t, resp, http.StatusConflict, "CONFLICT", "Email already registered")
}

func TestLogin(t *testing.T) {
	ts := setupTestServer(t)
	_, userID := ts.registerUser(t, "ann@example.com")

	resp := ts.api.Post("/auth/login", map[string]any{
		"email":    "ann@example.com",
		"password": "secret1",
	})
	require.Equal(t, http.StatusOK, resp.Code, resp.Body.String())
	envelope := decode[AuthResponse](t, resp)
	assert.Equal(t, userID, envelope.Data.User.ID)

	resp = ts.api.Get("/users/me", bearer(envelope.Data.AccessToken))
	require.Equal(t, http.StatusOK, resp.Code, resp.Body.String())
	assert.Equal(t, userID, decode[UserResponse](t, resp).Data.ID)
}

func TestLogin_WrongPassword(t *testing.T) {
	ts := setupTestServer(t)
	ts.registerUser(t, "ann@example.com")

	resp := ts.api.Post("/auth/login", map[string]any{
		"email":    "ann@example.com",
		"password": "not-the-password",
	})
	requireError(t, resp, http.StatusUnauthorized, "INVALID_CREDENTIALS", "Incorrect username and password!")
}

func TestAuth_RateLimited(t *testing.T) {
	ts := setupTestServerWithOptions(t, Options{AuthRatePerMinute: 1, AuthRateBurst: 2})

	body := map[string]any{"email": "ann@example.com", "password": "wrong-password"}
	for range 2 {
		resp := ts.api.Post("/auth/login", body)
		require.Equal(t, http.StatusUnauthorized, resp.Code, resp.Body.String())
	}

	resp := ts.api.Post("/auth/login", body)
	requireError(t, resp, http.StatusTooManyRequests, "RATE_LIMITED", "")

	// Other routes are not limited.
	resp = ts.api.Get("/tags")
	assert.Equal(t, http.StatusOK, resp.Code)
}

func TestProtectedRoute_InvalidToken(t *testing.T) {
	ts := setupTestServer(t)

	resp := ts.api.Get("/diaries", bearer("v4.local.not-a-token"))
	requireError(t, resp, http.StatusUnauthorized, "UNAUTHORIZED", "")

	resp = ts.api.Get("/diaries")
	requireError(t, resp, http.StatusUnauthorized, "UNAUTHORIZED", "")
}
