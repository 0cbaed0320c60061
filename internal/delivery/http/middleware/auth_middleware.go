package middleware

import (
	"log/slog"
	"strings"

	deliverycontext "bookbridge/internal/delivery/context"
	"bookbridge/internal/domain/entity"
	domainerrors "bookbridge/internal/domain/errors"
	"bookbridge/internal/domain/policy"
	"bookbridge/internal/domain/repository"
	"bookbridge/internal/domain/service"

	"github.com/labstack/echo/v4"
)

// AuthMiddleware resolves the per-request session from the Bearer token and
// enforces route guards. The effective role is always re-read from the
// profile record; the token's role claim is treated as a hint only, so a role
// change or a block takes effect on the very next request.
type AuthMiddleware struct {
	tokenSvc service.TokenService
	userRepo repository.UserRepository
	logger   *slog.Logger
}

// NewAuthMiddleware is the constructor for AuthMiddleware.
func NewAuthMiddleware(tokenSvc service.TokenService, userRepo repository.UserRepository, logger *slog.Logger) *AuthMiddleware {
	return &AuthMiddleware{tokenSvc: tokenSvc, userRepo: userRepo, logger: logger}
}

// ResolveSession builds the request session from the Authorization header and
// always continues. Absent, malformed or invalid tokens yield an anonymous
// session; routes that merely adjust their output by role sit behind this.
func (m *AuthMiddleware) ResolveSession(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		deliverycontext.SetSession(c, m.sessionFrom(c))

		return next(c)
	}
}

// Authenticate requires a session with an identity. It must run after
// ResolveSession has stored one, or it resolves the session itself.
func (m *AuthMiddleware) Authenticate(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		session := m.sessionFrom(c)
		if !session.IsAuthenticated() {
			return domainerrors.ErrSignInRequired
		}
		deliverycontext.SetSession(c, session)

		return next(c)
	}
}

// RequireRoles is a middleware factory enforcing a route guard. It maps the
// policy decisions onto HTTP: no identity becomes 401, wrong role becomes 403.
// It must be used after Authenticate or ResolveSession.
func (m *AuthMiddleware) RequireRoles(allowed ...entity.Role) echo.MiddlewareFunc {
	allowedRoles := entity.Roles(allowed)

	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			session := deliverycontext.GetSession(c)

			switch policy.Authorize(session, allowedRoles) {
			case policy.Allow:
				return next(c)
			case policy.RedirectAuth:
				return domainerrors.ErrSignInRequired
			default:
				return domainerrors.ErrRoleNotAllowed
			}
		}
	}
}

// sessionFrom resolves the session for the current request. A blocked account
// is indistinguishable from no account at all; a valid identity whose profile
// lookup failed keeps its identity but carries no role.
func (m *AuthMiddleware) sessionFrom(c echo.Context) entity.Session {
	authHeader := c.Request().Header.Get("Authorization")
	if authHeader == "" {
		return entity.AnonymousSession()
	}

	tokenString := strings.TrimPrefix(authHeader, "Bearer ")
	if tokenString == authHeader {
		return entity.AnonymousSession()
	}

	claims, err := m.tokenSvc.ValidateAccessToken(tokenString)
	if err != nil {
		return entity.AnonymousSession()
	}

	user, err := m.userRepo.FindByID(c.Request().Context(), claims.UserID)
	if err != nil {
		m.logger.Warn("Profile lookup failed during session resolution",
			slog.Any("userID", claims.UserID), slog.Any("error", err))

		return entity.IdentifiedSession(claims.UserID)
	}
	if user.Status == entity.UserStatusBlocked {
		return entity.AnonymousSession()
	}

	return entity.AuthenticatedSession(user.ID, user.Role)
}
