package middleware

import (
	"log/slog"
	"net/http"
	"slices"

	"storefront/config"
	deliverycontext "storefront/internal/delivery/context"
	domainerrors "storefront/internal/domain/errors"
	"storefront/internal/domain/service"

	"github.com/labstack/echo/v4"
)

// AuthMiddleware reads the session cookie for request context and page
// gating. Tokens are never verified here; the backend rejects bad ones.
type AuthMiddleware struct {
	inspector service.TokenInspector
	cfg       *config.Config
}

// NewAuthMiddleware is the constructor for AuthMiddleware.
func NewAuthMiddleware(inspector service.TokenInspector, cfg *config.Config) *AuthMiddleware {
	return &AuthMiddleware{inspector: inspector, cfg: cfg}
}

// Identify attaches the session subject and roles to the request when the
// cookie holds a readable token. Anonymous requests pass through.
func (m *AuthMiddleware) Identify(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		cookie, err := c.Cookie(m.cfg.Auth.CookieName)
		if err != nil || cookie.Value == "" {
			return next(c)
		}

		claims, ok := m.inspector.Inspect(cookie.Value)
		if !ok {
			return next(c)
		}

		ctx := c.Request().Context()
		ctx = deliverycontext.WithSessionSubject(ctx, claims.Subject)
		ctx = deliverycontext.WithSessionRoles(ctx, claims.Roles)
		logger := deliverycontext.GetLoggerOrDefault(ctx, slog.Default()).With(slog.String("user_id", claims.Subject))
		ctx = deliverycontext.WithLogger(ctx, logger)
		c.SetRequest(c.Request().WithContext(ctx))

		return next(c)
	}
}

// RequireSubject redirects anonymous requests to the login page and rejects
// cookies that carry no readable subject. It must be used AFTER Identify.
func (m *AuthMiddleware) RequireSubject(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		if deliverycontext.GetSessionSubject(c.Request().Context()) != "" {
			return next(c)
		}

		if cookie, err := c.Cookie(m.cfg.Auth.CookieName); err == nil && cookie.Value != "" {
			return domainerrors.ErrSessionUnreadable
		}

		return c.Redirect(http.StatusFound, m.cfg.Auth.LoginPath)
	}
}

// RequireRole is a middleware factory that checks if the user has a specific role.
// It must be used AFTER RequireSubject.
func (m *AuthMiddleware) RequireRole(requiredRole string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			roles := deliverycontext.GetSessionRoles(c.Request().Context())
			if !slices.Contains(roles, requiredRole) {
				return domainerrors.ErrAdminRequired.WithDetails("require '" + requiredRole + "' role")
			}

			return next(c)
		}
	}
}
