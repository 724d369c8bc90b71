package middleware

import (
	"github.com/labstack/echo/v4"

	"github.com/internquest/internquest-api/internal/api/session"
	"github.com/internquest/internquest-api/internal/core/domain"
	"github.com/internquest/internquest-api/internal/core/ports"
)

const principalKey = "principal"

// Session resolves the session cookie into a domain.Principal and stores it
// in the echo context. Requests without a valid session pass through
// anonymously; RequireSession and RBAC decide whether that is acceptable.
func Session(auth ports.AuthService, cookie *session.Cookie) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			id, err := cookie.Read(c)
			if err != nil {
				return next(c)
			}

			principal, err := auth.Authenticate(c.Request().Context(), id)
			switch {
			case err == nil:
				SetPrincipal(c, *principal)
			case session.IsUnauthenticated(err):
			default:
				return err
			}
			return next(c)
		}
	}
}

// PrincipalFrom returns the caller resolved by Session.
func PrincipalFrom(c echo.Context) (domain.Principal, bool) {
	p, ok := c.Get(principalKey).(domain.Principal)
	return p, ok
}

// SetPrincipal stores p as the caller of the request.
func SetPrincipal(c echo.Context, p domain.Principal) {
	c.Set(principalKey, p)
}

// RequireSession rejects anonymous requests with domain.ErrUnauthenticated.
func RequireSession() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if _, ok := PrincipalFrom(c); !ok {
				return domain.ErrUnauthenticated
			}
			return next(c)
		}
	}
}
