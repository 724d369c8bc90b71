package api

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/internquest/internquest-api/internal/core/domain"
)

// errorResponse is the canonical error envelope for all API errors.
type errorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code"`
}

var statusByKind = map[domain.ErrorKind]int{
	domain.KindValidation:         http.StatusBadRequest,
	domain.KindPasswordMismatch:   http.StatusBadRequest,
	domain.KindUsernameTaken:      http.StatusBadRequest,
	domain.KindEmailTaken:         http.StatusBadRequest,
	domain.KindInvalidCredentials: http.StatusUnauthorized,
	domain.KindUnauthenticated:    http.StatusUnauthorized,
	domain.KindForbidden:          http.StatusForbidden,
	domain.KindNotFound:           http.StatusNotFound,
	domain.KindConflict:           http.StatusConflict,
	domain.KindInvalidTransition:  http.StatusUnprocessableEntity,
}

// NewHTTPErrorHandler returns an echo.HTTPErrorHandler that:
//   - Maps domain error kinds to their HTTP status codes.
//   - Logs store failures and unexpected errors without leaking details to the client.
//   - Renders a consistent JSON envelope: {"error": "<message>", "code": "<kind>"}.
func NewHTTPErrorHandler(log zerolog.Logger) echo.HTTPErrorHandler {
	return func(err error, c echo.Context) {
		if c.Response().Committed {
			return
		}

		code, body := resolveError(err, log, c)
		if c.Request().Method == http.MethodHead {
			_ = c.NoContent(code)
			return
		}
		_ = c.JSON(code, body)
	}
}

func resolveError(err error, log zerolog.Logger, c echo.Context) (int, errorResponse) {
	// Echo's own errors (router 404/405, oversized bodies, etc.)
	var he *echo.HTTPError
	if errors.As(err, &he) {
		return he.Code, errorResponse{Error: fmt.Sprintf("%v", he.Message), Code: codeForStatus(he.Code)}
	}

	var de *domain.Error
	if errors.As(err, &de) {
		if status, ok := statusByKind[de.Kind]; ok {
			return status, errorResponse{Error: de.Message, Code: string(de.Kind)}
		}
	}

	// Store failure or unexpected error: log the real cause, return a generic message.
	code := "internal"
	if de != nil {
		code = string(de.Kind)
	}
	log.Error().
		Err(err).
		Str("method", c.Request().Method).
		Str("path", c.Path()).
		Str("request_id", c.Response().Header().Get(echo.HeaderXRequestID)).
		Msg("unhandled error")

	return http.StatusInternalServerError, errorResponse{Error: "internal server error", Code: code}
}

func codeForStatus(status int) string {
	switch status {
	case http.StatusBadRequest:
		return string(domain.KindValidation)
	case http.StatusUnauthorized:
		return string(domain.KindUnauthenticated)
	case http.StatusForbidden:
		return string(domain.KindForbidden)
	case http.StatusNotFound:
		return string(domain.KindNotFound)
	case http.StatusMethodNotAllowed:
		return "method_not_allowed"
	}
	if status >= http.StatusInternalServerError {
		return "internal"
	}
	return "http_error"
}
