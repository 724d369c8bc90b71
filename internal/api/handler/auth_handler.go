package handler

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/internquest/internquest-api/internal/api/metrics"
	"github.com/internquest/internquest-api/internal/api/session"
	"github.com/internquest/internquest-api/internal/core/domain"
	"github.com/internquest/internquest-api/internal/core/ports"
)

// AuthHandler serves registration, login, logout and the current user.
type AuthHandler struct {
	authService ports.AuthService
	cookie      *session.Cookie
	metrics     *metrics.Metrics
}

func NewAuthHandler(authService ports.AuthService, cookie *session.Cookie, m *metrics.Metrics) *AuthHandler {
	return &AuthHandler{authService: authService, cookie: cookie, metrics: m}
}

// RegisterStudent creates an intern account and signs it in.
//
// @Summary      Register an intern
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body      registerStudentRequest  true  "Account details"
// @Success      200   {object}  userResponse
// @Failure      400   {object}  errorResponse
// @Failure      500   {object}  errorResponse
// @Router       /api/register/student [post]
func (h *AuthHandler) RegisterStudent(c echo.Context) error {
	var req registerStudentRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	user, sess, err := h.authService.RegisterIntern(c.Request().Context(), toRegisterInput(req), clientMeta(c))
	if err != nil {
		return err
	}
	if err := h.cookie.Issue(c, sess); err != nil {
		return err
	}

	h.metrics.ObserveRegistration(string(domain.RoleIntern))
	return c.JSON(http.StatusOK, toUserResponse(user))
}

// RegisterCompany creates a company account with its company profile and
// signs it in.
//
// @Summary      Register a company
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body      registerCompanyRequest  true  "Account and company details"
// @Success      200   {object}  registerCompanyResponse
// @Failure      400   {object}  errorResponse
// @Failure      500   {object}  errorResponse
// @Router       /api/register/company [post]
func (h *AuthHandler) RegisterCompany(c echo.Context) error {
	var req registerCompanyRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	user, company, sess, err := h.authService.RegisterCompany(
		c.Request().Context(),
		toRegisterInput(req.User),
		toCompanyInput(req.Company),
		clientMeta(c),
	)
	if err != nil {
		return err
	}
	if err := h.cookie.Issue(c, sess); err != nil {
		return err
	}

	h.metrics.ObserveRegistration(string(domain.RoleCompany))
	return c.JSON(http.StatusOK, registerCompanyResponse{
		User:    toUserResponse(user),
		Company: toCompanyResponse(company),
	})
}

// Login checks the credentials and starts a session.
//
// @Summary      Login
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body      loginRequest  true  "Login credentials"
// @Success      200   {object}  userResponse
// @Failure      400   {object}  errorResponse
// @Failure      401   {object}  errorResponse
// @Failure      500   {object}  errorResponse
// @Router       /api/login [post]
func (h *AuthHandler) Login(c echo.Context) error {
	var req loginRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	user, sess, err := h.authService.Login(c.Request().Context(), req.Username, req.Password, clientMeta(c))
	if err != nil {
		if errors.Is(err, domain.ErrInvalidCredentials) {
			h.metrics.ObserveLogin(metrics.LoginFailed)
		} else {
			h.metrics.ObserveLogin(metrics.LoginError)
		}
		return err
	}
	if err := h.cookie.Issue(c, sess); err != nil {
		return err
	}

	h.metrics.ObserveLogin(metrics.LoginSucceeded)
	return c.JSON(http.StatusOK, toUserResponse(user))
}

// Logout destroys the session and clears the cookie. Calling it without a
// session succeeds.
//
// @Summary      Logout
// @Tags         auth
// @Produce      json
// @Success      200  {object}  statusResponse
// @Failure      500  {object}  errorResponse
// @Router       /api/logout [post]
func (h *AuthHandler) Logout(c echo.Context) error {
	h.cookie.Clear(c)

	id, err := h.cookie.Read(c)
	if err == nil {
		if err := h.authService.Logout(c.Request().Context(), id, clientMeta(c)); err != nil {
			return err
		}
	}
	return c.JSON(http.StatusOK, statusResponse{Status: "logged out"})
}

// Me returns the signed-in user.
//
// @Summary      Current user
// @Tags         auth
// @Produce      json
// @Success      200  {object}  userResponse
// @Failure      401  {object}  errorResponse
// @Failure      500  {object}  errorResponse
// @Router       /api/user [get]
func (h *AuthHandler) Me(c echo.Context) error {
	p, err := principal(c)
	if err != nil {
		return err
	}

	user, err := h.authService.CurrentUser(c.Request().Context(), p.SessionID)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toUserResponse(user))
}

// UpdateProfile changes the signed-in user's profile fields. Omitted fields
// keep their value.
//
// @Summary      Update profile
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body      updateProfileRequest  true  "Fields to change"
// @Success      200   {object}  userResponse
// @Failure      400   {object}  errorResponse
// @Failure      401   {object}  errorResponse
// @Failure      500   {object}  errorResponse
// @Router       /api/user [patch]
func (h *AuthHandler) UpdateProfile(c echo.Context) error {
	p, err := principal(c)
	if err != nil {
		return err
	}

	var req updateProfileRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	user, err := h.authService.UpdateProfile(c.Request().Context(), p, toProfileUpdate(req))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toUserResponse(user))
}
