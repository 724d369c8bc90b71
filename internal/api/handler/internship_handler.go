package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/internquest/internquest-api/internal/api/metrics"
	"github.com/internquest/internquest-api/internal/core/domain"
	"github.com/internquest/internquest-api/internal/core/ports"
)

// InternshipHandler handles HTTP requests for listings and applications.
type InternshipHandler struct {
	service ports.InternshipService
	metrics *metrics.Metrics
}

func NewInternshipHandler(service ports.InternshipService, m *metrics.Metrics) *InternshipHandler {
	return &InternshipHandler{service: service, metrics: m}
}

// Create handles POST /api/internships.
//
// @Summary      Post an internship
// @Tags         internships
// @Accept       json
// @Produce      json
// @Param        body  body      createInternshipRequest  true  "Listing details"
// @Success      201   {object}  internshipResponse
// @Failure      400   {object}  errorResponse
// @Failure      401   {object}  errorResponse
// @Failure      403   {object}  errorResponse
// @Failure      500   {object}  errorResponse
// @Router       /api/internships [post]
func (h *InternshipHandler) Create(c echo.Context) error {
	p, err := principal(c)
	if err != nil {
		return err
	}

	var req createInternshipRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	internship, err := h.service.CreateInternship(c.Request().Context(), p, toCreateInternshipInput(req))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, toInternshipResponse(internship))
}

// List handles GET /api/internships.
//
// @Summary      List internships
// @Tags         internships
// @Produce      json
// @Param        page        query     int     false  "Page number (1-based)"
// @Param        limit       query     int     false  "Items per page (max 100)"
// @Param        company_id  query     int     false  "Only listings of this company"
// @Param        location    query     string  false  "Location, partial match"
// @Param        type        query     string  false  "remote, onsite or hybrid"
// @Param        search      query     string  false  "Text in title or description"
// @Success      200         {object}  listInternshipsResponse
// @Failure      400         {object}  errorResponse
// @Failure      500         {object}  errorResponse
// @Router       /api/internships [get]
func (h *InternshipHandler) List(c echo.Context) error {
	var q listInternshipsQuery
	if err := c.Bind(&q); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid query parameters")
	}
	if err := c.Validate(&q); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	result, err := h.service.ListInternships(c.Request().Context(), toListInternshipsInput(q))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toListInternshipsResponse(result))
}

// Get handles GET /api/internships/:id.
//
// @Summary      Get an internship
// @Tags         internships
// @Produce      json
// @Param        id   path      string  true  "Internship id"
// @Success      200  {object}  internshipResponse
// @Failure      404  {object}  errorResponse
// @Failure      500  {object}  errorResponse
// @Router       /api/internships/{id} [get]
func (h *InternshipHandler) Get(c echo.Context) error {
	internship, err := h.service.GetInternship(c.Request().Context(), c.Param("id"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toInternshipResponse(internship))
}

// Apply handles POST /api/internships/:id/applications.
//
// @Summary      Apply to an internship
// @Tags         applications
// @Accept       json
// @Produce      json
// @Param        id    path      string        true  "Internship id"
// @Param        body  body      applyRequest  true  "Cover letter"
// @Success      201   {object}  applicationResponse
// @Failure      400   {object}  errorResponse
// @Failure      401   {object}  errorResponse
// @Failure      403   {object}  errorResponse
// @Failure      404   {object}  errorResponse
// @Failure      409   {object}  errorResponse
// @Failure      500   {object}  errorResponse
// @Router       /api/internships/{id}/applications [post]
func (h *InternshipHandler) Apply(c echo.Context) error {
	p, err := principal(c)
	if err != nil {
		return err
	}

	var req applyRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	app, err := h.service.Apply(c.Request().Context(), p, c.Param("id"), req.CoverLetter)
	if err != nil {
		return err
	}

	h.metrics.ObserveApplication()
	return c.JSON(http.StatusCreated, toApplicationResponse(app))
}

// ListApplications handles GET /api/applications. Interns get their own
// applications, companies the applications to their listings.
//
// @Summary      List applications
// @Tags         applications
// @Produce      json
// @Success      200  {object}  listApplicationsResponse
// @Failure      401  {object}  errorResponse
// @Failure      500  {object}  errorResponse
// @Router       /api/applications [get]
func (h *InternshipHandler) ListApplications(c echo.Context) error {
	p, err := principal(c)
	if err != nil {
		return err
	}

	apps, err := h.service.ListApplications(c.Request().Context(), p)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toListApplicationsResponse(apps))
}

// UpdateApplicationStatus handles PATCH /api/applications/:id.
//
// @Summary      Review an application
// @Tags         applications
// @Accept       json
// @Produce      json
// @Param        id    path      string                          true  "Application id"
// @Param        body  body      updateApplicationStatusRequest  true  "New status"
// @Success      200   {object}  applicationResponse
// @Failure      400   {object}  errorResponse
// @Failure      401   {object}  errorResponse
// @Failure      403   {object}  errorResponse
// @Failure      404   {object}  errorResponse
// @Failure      422   {object}  errorResponse
// @Failure      500   {object}  errorResponse
// @Router       /api/applications/{id} [patch]
func (h *InternshipHandler) UpdateApplicationStatus(c echo.Context) error {
	p, err := principal(c)
	if err != nil {
		return err
	}

	var req updateApplicationStatusRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	app, err := h.service.UpdateApplicationStatus(c.Request().Context(), p, c.Param("id"), domain.ApplicationStatus(req.Status))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toApplicationResponse(app))
}
