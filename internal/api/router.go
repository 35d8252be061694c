package api

import (
	"github.com/google/uuid"
	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"
	echoSwagger "github.com/swaggo/echo-swagger"

	"github.com/taskdesk/task-manager/internal/api/handler"
	"github.com/taskdesk/task-manager/internal/api/middleware"
	"github.com/taskdesk/task-manager/internal/core/domain"
	"github.com/taskdesk/task-manager/internal/core/ports"

	_ "github.com/taskdesk/task-manager/docs"
)

// Deps carries everything the router needs. Repositories are wired by the
// caller; the router only sees services.
type Deps struct {
	Tasks ports.TaskService
	Users ports.UserService
	Auth  ports.AuthService

	// Checks are pinged by the readiness probe.
	Checks []handler.DependencyCheck

	Logger    zerolog.Logger
	JWTSecret string

	// Registerer and Gatherer default to the global Prometheus registry.
	Registerer prometheus.Registerer
	Gatherer   prometheus.Gatherer
}

// NewRouter builds and returns the Echo instance with all routes registered.
func NewRouter(d Deps) *echo.Echo {
	if d.Registerer == nil {
		d.Registerer = prometheus.DefaultRegisterer
	}
	if d.Gatherer == nil {
		d.Gatherer = prometheus.DefaultGatherer
	}

	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Validator = handler.NewValidator()
	e.HTTPErrorHandler = NewHTTPErrorHandler(d.Logger)

	// --- Global middleware ---
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.RequestIDWithConfig(echomiddleware.RequestIDConfig{
		Generator: uuid.NewString,
	}))
	e.Use(requestLogger(d.Logger))
	e.Use(echoprometheus.NewMiddlewareWithConfig(echoprometheus.MiddlewareConfig{
		Namespace:  "taskmanager",
		Subsystem:  "http",
		Registerer: d.Registerer,
		Skipper: func(c echo.Context) bool {
			return c.Path() == "/metrics"
		},
	}))

	// --- Handlers ---
	taskHandler := handler.NewTaskHandler(d.Tasks)
	userHandler := handler.NewUserHandler(d.Users)
	authHandler := handler.NewAuthHandler(d.Auth)
	auth := middleware.Auth(d.JWTSecret)
	active := middleware.ActiveUser(d.Users)
	managers := middleware.RBAC(domain.RoleManager, domain.RoleAdmin)

	// --- Auth routes ---
	e.POST("/auth/login", authHandler.Login)

	// --- Users ---
	e.POST("/users", userHandler.Create)
	e.GET("/users", userHandler.List, auth, active)
	e.PATCH("/users", userHandler.Update, auth, active)
	e.DELETE("/users", userHandler.Delete, auth, active, managers)

	// --- Tasks ---
	tasks := e.Group("/tasks", auth, active)
	tasks.GET("", taskHandler.List)
	tasks.GET("/:id", taskHandler.Get)
	tasks.POST("", taskHandler.Create)
	tasks.PATCH("", taskHandler.Update)
	tasks.DELETE("", taskHandler.Delete)

	// --- Health probes (no auth required) ---
	healthHandler := handler.NewHealthHandler()
	healthDepsHandler := handler.NewHealthDependenciesHandler(d.Checks...)

	e.GET("/health", healthHandler.Liveness)            // liveness  – is the process alive?
	e.GET("/health/ready", healthDepsHandler.Readiness) // readiness – are dependencies up?

	// --- Observability & docs ---
	e.GET("/metrics", echo.WrapHandler(promhttp.HandlerFor(d.Gatherer, promhttp.HandlerOpts{})))
	e.GET("/swagger/*", echoSwagger.WrapHandler)

	return e
}
