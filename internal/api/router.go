package api

import (
	"net/http"

	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"
	echoSwagger "github.com/swaggo/echo-swagger"

	// Registers the generated OpenAPI document with swag.
	_ "github.com/internquest/internquest-api/docs"
	"github.com/internquest/internquest-api/internal/api/handler"
	"github.com/internquest/internquest-api/internal/api/metrics"
	"github.com/internquest/internquest-api/internal/api/middleware"
	"github.com/internquest/internquest-api/internal/api/session"
	"github.com/internquest/internquest-api/internal/core/domain"
	"github.com/internquest/internquest-api/internal/core/ports"
)

// Deps are the collaborators the router wires into handlers.
type Deps struct {
	Auth        ports.AuthService
	Internships ports.InternshipService
	Cookie      *session.Cookie
	Metrics     *metrics.Metrics
	// Registry backs /metrics and the HTTP metrics middleware. A fresh
	// registry is used when nil.
	Registry *prometheus.Registry
	Checks   []handler.Check
	Log      zerolog.Logger
}

// NewRouter builds and returns the Echo instance with all routes registered.
func NewRouter(d Deps) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.HTTPErrorHandler = NewHTTPErrorHandler(d.Log)
	e.Validator = handler.NewValidator()

	reg := d.Registry
	if reg == nil {
		reg = prometheus.NewRegistry()
	}

	// --- Global middleware ---
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.RequestID())
	e.Use(requestLogger(d.Log))
	e.Use(echoprometheus.NewMiddlewareWithConfig(echoprometheus.MiddlewareConfig{
		Namespace:  "internquest",
		Subsystem:  "http",
		Registerer: reg,
		Skipper: func(c echo.Context) bool {
			return c.Path() == "/metrics"
		},
	}))

	authHandler := handler.NewAuthHandler(d.Auth, d.Cookie, d.Metrics)
	internshipHandler := handler.NewInternshipHandler(d.Internships, d.Metrics)
	healthHandler := handler.NewHealthHandler(d.Checks...)

	// --- Operational endpoints (no session) ---
	e.GET("/health", healthHandler.Liveness)        // liveness  – is the process alive?
	e.GET("/health/ready", healthHandler.Readiness) // readiness – are dependencies up?
	e.GET("/metrics", echoprometheus.NewHandlerWithConfig(echoprometheus.HandlerConfig{Gatherer: reg}))
	e.GET("/swagger/*", echoSwagger.WrapHandler)

	// --- API ---
	api := e.Group("/api", middleware.Session(d.Auth, d.Cookie))
	requireSession := middleware.RequireSession()

	api.POST("/register/student", authHandler.RegisterStudent)
	api.POST("/register/company", authHandler.RegisterCompany)
	api.POST("/login", authHandler.Login)
	api.POST("/logout", authHandler.Logout)
	api.GET("/user", authHandler.Me, requireSession)
	api.PATCH("/user", authHandler.UpdateProfile, requireSession)

	api.GET("/internships", internshipHandler.List)
	api.GET("/internships/:id", internshipHandler.Get)
	api.POST("/internships", internshipHandler.Create, middleware.RBAC(domain.RoleCompany))
	api.POST("/internships/:id/applications", internshipHandler.Apply, middleware.RBAC(domain.RoleIntern))
	api.GET("/applications", internshipHandler.ListApplications, requireSession)
	api.PATCH("/applications/:id", internshipHandler.UpdateApplicationStatus, middleware.RBAC(domain.RoleCompany))

	return e
}

// requestLogger writes one zerolog line per request.
func requestLogger(log zerolog.Logger) echo.MiddlewareFunc {
	return echomiddleware.RequestLoggerWithConfig(echomiddleware.RequestLoggerConfig{
		LogMethod:    true,
		LogURIPath:   true,
		LogStatus:    true,
		LogLatency:   true,
		LogRequestID: true,
		LogRemoteIP:  true,
		LogError:     true,
		HandleError:  true,
		LogValuesFunc: func(_ echo.Context, v echomiddleware.RequestLoggerValues) error {
			ev := log.Info()
			if v.Status >= http.StatusInternalServerError {
				ev = log.Error().Err(v.Error)
			}
			ev.Str("method", v.Method).
				Str("path", v.URIPath).
				Int("status", v.Status).
				Dur("latency", v.Latency).
				Str("request_id", v.RequestID).
				Str("remote_ip", v.RemoteIP).
				Msg("request")
			return nil
		},
	})
}
