package middleware

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	deliverycontext "bookbridge/internal/delivery/context"
	"bookbridge/internal/domain/entity"
	domainerrors "bookbridge/internal/domain/errors"
	"bookbridge/internal/domain/repository"
	"bookbridge/internal/domain/service"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubTokenService struct {
	claims map[string]*service.Claims
}

func (s *stubTokenService) GenerateTokens(uuid.UUID, string) (string, string, error) {
	return "", "", errors.New("not exercised")
}

func (s *stubTokenService) ValidateAccessToken(token string) (*service.Claims, error) {
	claims, ok := s.claims[token]
	if !ok {
		return nil, errors.New("invalid token")
	}

	return claims, nil
}

func (s *stubTokenService) ValidateRefreshToken(string) (*service.Claims, error) {
	return nil, errors.New("not exercised")
}

func (s *stubTokenService) HashToken(token string) string { return token }

func (s *stubTokenService) GetRefreshTokenDuration() time.Duration { return time.Minute }

type stubUserRepo struct {
	users map[uuid.UUID]*entity.User
}

func (s *stubUserRepo) FindByID(_ context.Context, id uuid.UUID) (*entity.User, error) {
	user, ok := s.users[id]
	if !ok {
		return nil, repository.ErrUserNotFound
	}

	return user, nil
}

func (s *stubUserRepo) FindByEmail(context.Context, string) (*entity.User, error) {
	return nil, repository.ErrUserNotFound
}

func (s *stubUserRepo) ListAll(context.Context) ([]*entity.User, error) { return nil, nil }

func (s *stubUserRepo) SearchByNameEmailPhone(context.Context, string) ([]*entity.User, error) {
	return nil, nil
}

func (s *stubUserRepo) CountByRole(context.Context, entity.Role) (int64, error) { return 0, nil }

func (s *stubUserRepo) Create(context.Context, *entity.User) error { return nil }

func (s *stubUserRepo) Update(context.Context, *entity.User) error { return nil }

func (s *stubUserRepo) Delete(context.Context, uuid.UUID) error { return nil }

type authFixtures struct {
	middleware *AuthMiddleware
	tokenSvc   *stubTokenService
	userRepo   *stubUserRepo
}

func newAuthFixtures() authFixtures {
	tokenSvc := &stubTokenService{claims: make(map[string]*service.Claims)}
	userRepo := &stubUserRepo{users: make(map[uuid.UUID]*entity.User)}
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	return authFixtures{
		middleware: NewAuthMiddleware(tokenSvc, userRepo, logger),
		tokenSvc:   tokenSvc,
		userRepo:   userRepo,
	}
}

// addUser registers a token/user pair with the stubs and returns the user ID.
func (f authFixtures) addUser(token string, role entity.Role, status entity.UserStatus) uuid.UUID {
	userID := uuid.New()
	f.tokenSvc.claims[token] = &service.Claims{UserID: userID, Role: role.String(), Type: "access"}
	f.userRepo.users[userID] = &entity.User{ID: userID, Role: role, Status: status}

	return userID
}

func newEchoContext(authHeader string) echo.Context {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	if authHeader != "" {
		req.Header.Set("Authorization", authHeader)
	}

	return echo.New().NewContext(req, httptest.NewRecorder())
}

// capturedSession runs a handler chain and returns the session it observed.
func capturedSession(t *testing.T, mw echo.MiddlewareFunc, c echo.Context) entity.Session {
	t.Helper()

	var session entity.Session
	handler := mw(func(c echo.Context) error {
		session = deliverycontext.GetSession(c)

		return nil
	})
	require.NoError(t, handler(c))

	return session
}

func TestResolveSession(t *testing.T) {
	fixtures := newAuthFixtures()
	seekerID := fixtures.addUser("seeker-token", entity.RoleSeeker, entity.UserStatusActive)
	fixtures.addUser("blocked-token", entity.RoleSeeker, entity.UserStatusBlocked)

	orphanID := uuid.New()
	fixtures.tokenSvc.claims["orphan-token"] = &service.Claims{UserID: orphanID, Role: "seeker", Type: "access"}

	t.Run("no header is anonymous", func(t *testing.T) {
		session := capturedSession(t, fixtures.middleware.ResolveSession, newEchoContext(""))
		assert.False(t, session.IsAuthenticated())
	})

	t.Run("non-bearer header is anonymous", func(t *testing.T) {
		session := capturedSession(t, fixtures.middleware.ResolveSession, newEchoContext("Basic abc123"))
		assert.False(t, session.IsAuthenticated())
	})

	t.Run("invalid token is anonymous", func(t *testing.T) {
		session := capturedSession(t, fixtures.middleware.ResolveSession, newEchoContext("Bearer forged"))
		assert.False(t, session.IsAuthenticated())
	})

	t.Run("valid token resolves identity and role", func(t *testing.T) {
		session := capturedSession(t, fixtures.middleware.ResolveSession, newEchoContext("Bearer seeker-token"))
		require.True(t, session.IsAuthenticated())
		assert.Equal(t, seekerID, *session.UserID)
		assert.True(t, session.HasRole(entity.RoleSeeker))
	})

	t.Run("blocked account is anonymous", func(t *testing.T) {
		session := capturedSession(t, fixtures.middleware.ResolveSession, newEchoContext("Bearer blocked-token"))
		assert.False(t, session.IsAuthenticated())
	})

	t.Run("valid token with missing profile keeps identity without role", func(t *testing.T) {
		session := capturedSession(t, fixtures.middleware.ResolveSession, newEchoContext("Bearer orphan-token"))
		require.True(t, session.IsAuthenticated())
		assert.Equal(t, orphanID, *session.UserID)
		assert.Nil(t, session.Role)
	})
}

func TestAuthenticate(t *testing.T) {
	fixtures := newAuthFixtures()
	fixtures.addUser("seeker-token", entity.RoleSeeker, entity.UserStatusActive)

	t.Run("anonymous caller is rejected", func(t *testing.T) {
		handler := fixtures.middleware.Authenticate(func(c echo.Context) error { return nil })
		err := handler(newEchoContext(""))
		assert.ErrorIs(t, err, domainerrors.ErrSignInRequired)
	})

	t.Run("valid token passes through", func(t *testing.T) {
		session := capturedSession(t, fixtures.middleware.Authenticate, newEchoContext("Bearer seeker-token"))
		assert.True(t, session.IsAuthenticated())
	})
}

func TestRequireRoles(t *testing.T) {
	fixtures := newAuthFixtures()
	fixtures.addUser("admin-token", entity.RoleAdmin, entity.UserStatusActive)
	fixtures.addUser("donor-token", entity.RoleDonor, entity.UserStatusActive)

	adminOnly := fixtures.middleware.RequireRoles(entity.RoleAdmin)

	run := func(authHeader string) error {
		chain := fixtures.middleware.ResolveSession(adminOnly(func(c echo.Context) error { return nil }))

		return chain(newEchoContext(authHeader))
	}

	t.Run("admin is allowed", func(t *testing.T) {
		assert.NoError(t, run("Bearer admin-token"))
	})

	t.Run("wrong role is forbidden", func(t *testing.T) {
		assert.ErrorIs(t, run("Bearer donor-token"), domainerrors.ErrRoleNotAllowed)
	})

	t.Run("anonymous is sent to sign in", func(t *testing.T) {
		assert.ErrorIs(t, run(""), domainerrors.ErrSignInRequired)
	})
}
