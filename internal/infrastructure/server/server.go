package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	echoSwagger "github.com/swaggo/echo-swagger"

	_ "github.com/taskmaster/todoboard/docs"
	"github.com/taskmaster/todoboard/internal/adapters/cache"
	"github.com/taskmaster/todoboard/internal/adapters/events"
	httpHandlers "github.com/taskmaster/todoboard/internal/adapters/http"
	"github.com/taskmaster/todoboard/internal/adapters/repository"
	"github.com/taskmaster/todoboard/internal/application/services"
	"github.com/taskmaster/todoboard/internal/infrastructure/config"
	"github.com/taskmaster/todoboard/internal/infrastructure/database"
	"github.com/taskmaster/todoboard/internal/infrastructure/logger"
	"github.com/taskmaster/todoboard/internal/infrastructure/metrics"
)

// Server represents the HTTP server
type Server struct {
	echo        *echo.Echo
	config      *config.Config
	logger      *logger.Logger
	db          *database.DB
	cache       *cache.TodoCache
	notifier    *events.Notifier
	metrics     *metrics.Metrics
	todoService *services.TodoService
}

// Option attaches optional infrastructure to the server
type Option func(*Server)

// WithCache shares loaded todo lists through Redis
func WithCache(c *cache.TodoCache) Option {
	return func(s *Server) { s.cache = c }
}

// WithNotifier exchanges change events with other instances over MQTT.
// The server owns the notifier: Shutdown closes it, and so does a failed New.
func WithNotifier(n *events.Notifier) Option {
	return func(s *Server) { s.notifier = n }
}

// New creates a new server instance
func New(cfg *config.Config, db *database.DB, appLogger *logger.Logger, opts ...Option) (*Server, error) {
	e := echo.New()

	// Set custom validator
	e.Validator = httpHandlers.NewValidator()

	// Configure Echo
	e.HideBanner = true
	e.HidePort = true
	e.Debug = cfg.App.Debug && cfg.App.IsDevelopment()

	// Custom error handler
	e.HTTPErrorHandler = customErrorHandler(appLogger)

	server := &Server{
		echo:   e,
		config: cfg,
		logger: appLogger,
		db:     db,
	}
	for _, opt := range opts {
		opt(server)
	}
	if cfg.Metrics.Enabled {
		server.metrics = metrics.New()
	}

	// Initialize repositories
	todoRepo := repository.NewTodoRepository(db.DB)
	userRepo := repository.NewUserRepository(db.DB)

	// Initialize services
	serviceOpts := []services.TodoServiceOption{services.WithMetrics(server.metrics)}
	if server.cache != nil {
		serviceOpts = append(serviceOpts, services.WithCache(server.cache))
	}
	if server.notifier != nil {
		serviceOpts = append(serviceOpts, services.WithNotifier(server.notifier))
	}
	todoService := services.NewTodoService(todoRepo, appLogger, serviceOpts...)
	userService := services.NewUserService(userRepo, appLogger)
	server.todoService = todoService

	if server.notifier != nil {
		if err := server.notifier.Subscribe(todoService.HandleRemoteChange); err != nil {
			server.notifier.Close()
			return nil, fmt.Errorf("failed to subscribe to todo changes: %w", err)
		}
	}

	// Initialize handlers
	todoHandler := httpHandlers.NewTodoHandler(todoService, userService, appLogger)
	userHandler := httpHandlers.NewUserHandler(userService, appLogger)
	settingsHandler := httpHandlers.NewSettingsHandler(cfg.UI)

	// Setup middleware
	server.setupMiddleware()

	// Setup metrics
	if server.metrics != nil {
		server.setupMetrics()
	}

	// Setup routes
	server.setupRoutes(todoHandler, userHandler, settingsHandler)

	return server, nil
}

// setupRoutes configures all routes
func (s *Server) setupRoutes(todoHandler *httpHandlers.TodoHandler, userHandler *httpHandlers.UserHandler, settingsHandler *httpHandlers.SettingsHandler) {
	// Health check routes
	s.echo.GET("/health", s.healthCheck)
	s.echo.GET("/ready", s.readinessCheck)

	// API documentation
	s.echo.GET("/swagger/*", echoSwagger.WrapHandler)

	// API v1 routes
	v1 := s.echo.Group("/api/v1")

	todos := v1.Group("/todos")
	todos.GET("", todoHandler.ListTodos)
	todos.POST("", todoHandler.CreateTodo)
	todos.GET("/overdue", todoHandler.OverdueTodos)
	todos.POST("/reload", todoHandler.ReloadTodos)
	todos.GET("/:id", todoHandler.GetTodo)
	todos.PUT("/:id", todoHandler.UpdateTodo)
	todos.DELETE("/:id", todoHandler.DeleteTodo)

	v1.GET("/users", userHandler.ListUsers)
	v1.GET("/settings", settingsHandler.GetSettings)
}

// setupMetrics exposes the registry and counts every request
func (s *Server) setupMetrics() {
	s.echo.Use(s.metricsMiddleware())
	s.echo.GET("/metrics", echo.WrapHandler(s.metrics.Handler()))
}

// Health check handlers
func (s *Server) healthCheck(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]string{
		"status": "ok",
		"time":   time.Now().UTC().Format(time.RFC3339),
	})
}

func (s *Server) readinessCheck(c echo.Context) error {
	ctx := c.Request().Context()
	checks := map[string]interface{}{}
	ready := true

	if err := s.db.HealthCheck(ctx); err != nil {
		ready = false
		checks["database"] = map[string]string{"status": "error", "error": err.Error()}
	} else {
		checks["database"] = map[string]interface{}{"status": "ok", "stats": s.db.GetConnectionInfo()}
	}

	if s.cache != nil {
		if err := s.cache.Ping(ctx); err != nil {
			// The board keeps working from the store without the cache.
			checks["cache"] = map[string]string{"status": "degraded", "error": err.Error()}
		} else {
			checks["cache"] = map[string]string{"status": "ok"}
		}
	}

	response := map[string]interface{}{
		"status": "ready",
		"time":   time.Now().UTC().Format(time.RFC3339),
		"checks": checks,
	}
	if !ready {
		response["status"] = "not_ready"
		return c.JSON(http.StatusServiceUnavailable, response)
	}
	return c.JSON(http.StatusOK, response)
}

// Warm loads the todo snapshot so the first request does not pay for it
func (s *Server) Warm(ctx context.Context) error {
	_, err := s.todoService.Snapshot(ctx)
	return err
}

// Handler returns the root HTTP handler
func (s *Server) Handler() http.Handler {
	return s.echo
}

// Start starts the HTTP server
func (s *Server) Start(address string) error {
	s.echo.Server.ReadTimeout = s.config.Server.ReadTimeout
	s.echo.Server.WriteTimeout = s.config.Server.WriteTimeout
	s.echo.Server.IdleTimeout = s.config.Server.IdleTimeout

	s.logger.Infow("Starting server", "address", address)
	if err := s.echo.Start(address); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// Shutdown gracefully shuts down the server and its notifier
func (s *Server) Shutdown(ctx context.Context) error {
	s.logger.Infow("Shutting down server")
	err := s.echo.Shutdown(ctx)
	if s.notifier != nil {
		s.notifier.Close()
	}
	return err
}

// customErrorHandler handles HTTP errors
func customErrorHandler(logger *logger.Logger) echo.HTTPErrorHandler {
	return func(err error, c echo.Context) {
		var (
			code = http.StatusInternalServerError
			msg  interface{}
		)

		var he *echo.HTTPError
		var ve validator.ValidationErrors
		switch {
		case errors.As(err, &he):
			code = he.Code
			msg = map[string]interface{}{"message": he.Message}
			if he.Internal != nil {
				err = fmt.Errorf("%v, %v", err, he.Internal)
			}
		case errors.As(err, &ve):
			code = http.StatusBadRequest
			msg = map[string]string{"message": "validation failed", "details": ve.Error()}
		default:
			msg = map[string]string{"message": err.Error()}
		}

		if code >= http.StatusInternalServerError {
			logger.Errorw("Internal server error", "error", err, "path", c.Request().URL.Path)
		}

		// Send response
		if !c.Response().Committed {
			if c.Request().Method == http.MethodHead {
				err = c.NoContent(code)
			} else {
				err = c.JSON(code, msg)
			}
			if err != nil {
				logger.Errorw("Error sending response", "error", err)
			}
		}
	}
}
