package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/internquest/internquest-api/internal/api/middleware"
	"github.com/internquest/internquest-api/internal/core/domain"
)

// principal returns the caller resolved by the session middleware. Routes
// that reach a handler without one were registered without RequireSession
// or RBAC, so this fails closed.
func principal(c echo.Context) (domain.Principal, error) {
	p, ok := middleware.PrincipalFrom(c)
	if !ok {
		return domain.Principal{}, domain.ErrUnauthenticated
	}
	return p, nil
}

func clientMeta(c echo.Context) domain.ClientMeta {
	return domain.ClientMeta{
		IP:        c.RealIP(),
		UserAgent: c.Request().UserAgent(),
	}
}

// bindAndValidate decodes the request into req and runs the struct validator.
func bindAndValidate(c echo.Context, req any) error {
	if err := c.Bind(req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	return nil
}
