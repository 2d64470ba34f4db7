package auth

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/spec-kit/helpdesk-service/internal/domain"
	"github.com/spec-kit/helpdesk-service/internal/repository"
	apperrors "github.com/spec-kit/helpdesk-service/pkg/util/errorutil"
)

func TestTokenManager_RoundTrip(t *testing.T) {
	tm := NewTokenManager("secret", 5*time.Minute)

	token, exp, err := tm.GenerateToken("u1", domain.RoleAgent)
	require.NoError(t, err)
	assert.WithinDuration(t, time.Now().Add(5*time.Minute), exp, 5*time.Second)

	claims, err := tm.ParseToken(token)
	require.NoError(t, err)
	assert.Equal(t, "u1", claims.Subject)
	assert.Equal(t, domain.RoleAgent, claims.Role)
}

func TestTokenManager_RejectsForeignSecretAndExpiry(t *testing.T) {
	issuer := NewTokenManager("one", 5*time.Minute)
	token, _, err := issuer.GenerateToken("u1", domain.RoleUser)
	require.NoError(t, err)

	_, err = NewTokenManager("two", 5*time.Minute).ParseToken(token)
	assert.Error(t, err)

	later := NewTokenManager("one", 5*time.Minute)
	later.now = func() time.Time { return time.Now().Add(time.Hour) }
	_, err = later.ParseToken(token)
	assert.Error(t, err)
}

func TestPassword_HashAndCompare(t *testing.T) {
	hash, err := HashPassword("password123", 4)
	require.NoError(t, err)

	assert.NoError(t, ComparePassword(hash, "password123"))
	assert.ErrorIs(t, ComparePassword(hash, "wrong"), ErrPasswordMismatch)
	assert.ErrorIs(t, ComparePassword("", "password123"), ErrPasswordMismatch)
}

func TestPassword_OutOfRangeCostUsesDefault(t *testing.T) {
	hash, err := HashPassword("password123", 99)
	require.NoError(t, err)

	cost, err := bcrypt.Cost([]byte(hash))
	require.NoError(t, err)
	assert.Equal(t, bcrypt.DefaultCost, cost)
}

func newTestApp(t *testing.T) (*fiber.App, *TokenManager, *domain.User, *domain.User) {
	t.Helper()
	users := repository.NewMemoryUserRepository(nil)
	user := &domain.User{Name: "Regular User", Email: "user@example.com", Role: domain.RoleUser}
	admin := &domain.User{Name: "Admin User", Email: "admin@example.com", Role: domain.RoleAdmin}
	require.NoError(t, users.Create(context.Background(), user))
	require.NoError(t, users.Create(context.Background(), admin))

	tokens := NewTokenManager("secret", 5*time.Minute)
	mw := NewAuthMiddleware(tokens, users)

	app := fiber.New(fiber.Config{
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			domainErr := apperrors.ToDomainError(err)
			return c.Status(domainErr.HTTPStatus).SendString(domainErr.Code)
		},
	})
	app.Get("/me", mw.Handle, func(c *fiber.Ctx) error {
		principal, _ := PrincipalFromContext(c)
		return c.SendString(string(principal.Caller().Role))
	})
	app.Get("/admin", mw.Handle, RequireAdmin(), func(c *fiber.Ctx) error {
		return c.SendStatus(http.StatusNoContent)
	})
	return app, tokens, user, admin
}

func TestAuthMiddleware(t *testing.T) {
	app, tokens, user, admin := newTestApp(t)
	userToken, _, err := tokens.GenerateToken(user.ID, user.Role)
	require.NoError(t, err)
	adminToken, _, err := tokens.GenerateToken(admin.ID, admin.Role)
	require.NoError(t, err)
	ghostToken, _, err := tokens.GenerateToken("missing", domain.RoleAdmin)
	require.NoError(t, err)

	tests := []struct {
		name   string
		path   string
		header string
		status int
	}{
		{name: "missing header", path: "/me", status: http.StatusUnauthorized},
		{name: "wrong scheme", path: "/me", header: "Basic abc", status: http.StatusUnauthorized},
		{name: "garbage token", path: "/me", header: "Bearer abc", status: http.StatusUnauthorized},
		{name: "unknown user", path: "/me", header: "Bearer " + ghostToken, status: http.StatusUnauthorized},
		{name: "valid user", path: "/me", header: "Bearer " + userToken, status: http.StatusOK},
		{name: "user on admin route", path: "/admin", header: "Bearer " + userToken, status: http.StatusForbidden},
		{name: "admin on admin route", path: "/admin", header: "Bearer " + adminToken, status: http.StatusNoContent},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, tt.path, nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			resp, err := app.Test(req)
			require.NoError(t, err)
			assert.Equal(t, tt.status, resp.StatusCode)
		})
	}
}
