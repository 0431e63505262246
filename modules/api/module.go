package api

import (
	"context"
	"errors"
	"fmt"
	"log"

	domain "github.com/example/task-manager-api/domain/task"
	taskmod "github.com/example/task-manager-api/modules/task"
	"github.com/go-monolith/mono"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/google/uuid"
)

// Config holds the settings the API module needs at startup.
type Config struct {
	AppName     string
	Version     string
	Port        int
	CORSOrigins string
	Debug       bool
}

// Module provides the HTTP API for the task manager.
type Module struct {
	app        *fiber.App
	handlers   *Handlers
	taskModule *taskmod.Module
	cfg        Config
}

// Compile-time interface checks.
var (
	_ mono.Module                = (*Module)(nil)
	_ mono.HealthCheckableModule = (*Module)(nil)
)

// NewModule creates a new API module.
func NewModule(cfg Config) *Module {
	return &Module{
		cfg: cfg,
	}
}

// Name returns the module name.
func (m *Module) Name() string {
	return "api"
}

// SetTaskModule sets the task module dependency.
func (m *Module) SetTaskModule(tm *taskmod.Module) {
	m.taskModule = tm
}

// Health returns the health status of the module.
func (m *Module) Health(_ context.Context) mono.HealthStatus {
	return mono.HealthStatus{
		Healthy: m.app != nil,
		Message: "operational",
		Details: map[string]any{
			"port": m.cfg.Port,
		},
	}
}

// initApp builds the Fiber app with global middleware and routes.
// Split from Start so tests can exercise the full stack without
// listening on a port.
func (m *Module) initApp(service *taskmod.Service) {
	m.app = fiber.New(fiber.Config{
		AppName:               m.cfg.AppName,
		DisableStartupMessage: true,
		ErrorHandler:          m.errorHandler,
	})

	// Global middleware
	m.app.Use(recover.New())
	m.app.Use(requestID())
	m.app.Use(logger.New(logger.Config{
		Format: "[${time}] ${status} - ${latency} ${method} ${path}\n",
	}))
	m.app.Use(cors.New(cors.Config{
		AllowOrigins: m.cfg.CORSOrigins,
	}))

	m.handlers = NewHandlers(service, m.cfg.AppName, m.cfg.Version)
	m.setupRoutes()
}

// Start builds the HTTP stack and starts the server.
func (m *Module) Start(_ context.Context) error {
	if m.taskModule == nil {
		return fmt.Errorf("task module not set")
	}

	service := m.taskModule.GetService()
	if service == nil {
		return fmt.Errorf("task service not available")
	}

	m.initApp(service)

	go func() {
		addr := fmt.Sprintf(":%d", m.cfg.Port)
		log.Printf("[api] Starting HTTP server on %s", addr)
		if err := m.app.Listen(addr); err != nil {
			log.Printf("[api] HTTP server error: %v", err)
		}
	}()

	return nil
}

// setupRoutes configures all HTTP routes.
func (m *Module) setupRoutes() {
	// Liveness endpoints
	m.app.Get("/", m.handlers.Root)
	m.app.Get("/health", m.handlers.HealthCheck)

	// API v1 routes
	api := m.app.Group("/api/v1")

	tasks := api.Group("/tasks")
	tasks.Get("/", m.handlers.ListTasks)
	tasks.Post("/", m.handlers.CreateTask)
	tasks.Get("/stats/summary", m.handlers.TaskStats)
	tasks.Get("/:id", m.handlers.GetTask)
	tasks.Put("/:id", m.handlers.UpdateTask)
	tasks.Delete("/:id", m.handlers.DeleteTask)
}

// Stop stops the HTTP server gracefully.
func (m *Module) Stop(_ context.Context) error {
	if m.app != nil {
		log.Println("[api] Shutting down HTTP server...")
		return m.app.Shutdown()
	}
	return nil
}

// GetApp returns the Fiber app (for testing).
func (m *Module) GetApp() *fiber.App {
	return m.app
}

// requestID attaches an X-Request-Id header to every response,
// preserving one supplied by the client.
func requestID() fiber.Handler {
	return func(c *fiber.Ctx) error {
		id := c.Get(fiber.HeaderXRequestID)
		if id == "" {
			id = uuid.NewString()
		}
		c.Set(fiber.HeaderXRequestID, id)
		return c.Next()
	}
}

// errorHandler is the single place translating outcomes into status
// codes and the uniform error envelope.
func (m *Module) errorHandler(c *fiber.Ctx, err error) error {
	var (
		verr *taskmod.ValidationError
		serr *domain.StoreError
		ferr *fiber.Error
		body ErrorBody
	)

	switch {
	case errors.As(err, &verr):
		body = ErrorBody{
			StatusCode: fiber.StatusUnprocessableEntity,
			Message:    "Validation error",
			Details:    verr.Details,
		}
	case errors.Is(err, domain.ErrNotFound):
		body = ErrorBody{
			StatusCode: fiber.StatusNotFound,
			Message:    fmt.Sprintf("Task with id %s not found", c.Params("id")),
		}
	case errors.As(err, &serr):
		log.Printf("[api] Store error on %s %s: %v", c.Method(), c.Path(), serr)
		body = ErrorBody{
			StatusCode: fiber.StatusServiceUnavailable,
			Message:    "Database service unavailable",
		}
	case errors.As(err, &ferr):
		body = ErrorBody{
			StatusCode: ferr.Code,
			Message:    ferr.Message,
		}
	default:
		log.Printf("[api] Unhandled error on %s %s: %v", c.Method(), c.Path(), err)
		message := "Internal server error"
		if m.cfg.Debug {
			message = err.Error()
		}
		body = ErrorBody{
			StatusCode: fiber.StatusInternalServerError,
			Message:    message,
		}
	}

	body.Path = c.Path()
	return c.Status(body.StatusCode).JSON(ErrorResponse{Error: body})
}
