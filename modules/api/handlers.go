package api

import (
	"fmt"
	"strconv"

	taskmod "github.com/example/task-manager-api/modules/task"
	"github.com/gofiber/fiber/v2"
)

// Handlers contains the HTTP handlers for the task API.
type Handlers struct {
	service *taskmod.Service
	appName string
	version string
}

// NewHandlers creates a new Handlers instance.
func NewHandlers(service *taskmod.Service, appName, version string) *Handlers {
	return &Handlers{
		service: service,
		appName: appName,
		version: version,
	}
}

// Root handles GET /.
func (h *Handlers) Root(c *fiber.Ctx) error {
	return c.JSON(RootResponse{
		Message: "Welcome to " + h.appName,
		Version: h.version,
	})
}

// HealthCheck handles GET /health.
func (h *Handlers) HealthCheck(c *fiber.Ctx) error {
	return c.JSON(HealthResponse{
		Status:  "healthy",
		App:     h.appName,
		Version: h.version,
	})
}

// parseTaskID parses the :id path parameter.
func parseTaskID(c *fiber.Ctx) (uint, error) {
	raw := c.Params("id")
	id, err := strconv.ParseUint(raw, 10, 32)
	if err != nil {
		return 0, taskmod.NewValidationError("id", "id must be a positive integer")
	}
	return uint(id), nil
}

// parseListQuery parses and type-checks the list query parameters.
// Range validation happens in the service.
func parseListQuery(c *fiber.Ctx) (*taskmod.ListTasksQuery, error) {
	query := &taskmod.ListTasksQuery{
		Page:     1,
		PageSize: 10,
	}

	verr := &taskmod.ValidationError{}

	if raw := c.Query("page"); raw != "" {
		page, err := strconv.Atoi(raw)
		if err != nil {
			verr.Details = append(verr.Details, taskmod.FieldError{Field: "page", Message: "page must be an integer"})
		} else {
			query.Page = page
		}
	}
	if raw := c.Query("page_size"); raw != "" {
		pageSize, err := strconv.Atoi(raw)
		if err != nil {
			verr.Details = append(verr.Details, taskmod.FieldError{Field: "page_size", Message: "page_size must be an integer"})
		} else {
			query.PageSize = pageSize
		}
	}
	if raw := c.Query("status"); raw != "" {
		query.Status = &raw
	}
	if raw := c.Query("priority"); raw != "" {
		query.Priority = &raw
	}
	if raw := c.Query("completed"); raw != "" {
		completed, err := strconv.ParseBool(raw)
		if err != nil {
			verr.Details = append(verr.Details, taskmod.FieldError{Field: "completed", Message: "completed must be a boolean"})
		} else {
			query.Completed = &completed
		}
	}

	if len(verr.Details) > 0 {
		return nil, verr
	}
	return query, nil
}

// ListTasks handles GET /api/v1/tasks.
func (h *Handlers) ListTasks(c *fiber.Ctx) error {
	query, err := parseListQuery(c)
	if err != nil {
		return err
	}

	tasks, total, err := h.service.List(c.UserContext(), query)
	if err != nil {
		return err
	}

	return c.JSON(taskmod.NewListTasksResponse(tasks, total, query.Page, query.PageSize))
}

// GetTask handles GET /api/v1/tasks/:id.
func (h *Handlers) GetTask(c *fiber.Ctx) error {
	id, err := parseTaskID(c)
	if err != nil {
		return err
	}

	t, err := h.service.Get(c.UserContext(), id)
	if err != nil {
		return err
	}

	return c.JSON(taskmod.NewTaskResponse(t))
}

// CreateTask handles POST /api/v1/tasks.
func (h *Handlers) CreateTask(c *fiber.Ctx) error {
	var req taskmod.CreateTaskRequest
	if err := c.BodyParser(&req); err != nil {
		return taskmod.NewValidationError("body", "invalid request body")
	}

	t, err := h.service.Create(c.UserContext(), &req)
	if err != nil {
		return err
	}

	return c.Status(fiber.StatusCreated).JSON(taskmod.NewTaskResponse(t))
}

// UpdateTask handles PUT /api/v1/tasks/:id.
func (h *Handlers) UpdateTask(c *fiber.Ctx) error {
	id, err := parseTaskID(c)
	if err != nil {
		return err
	}

	var req taskmod.UpdateTaskRequest
	if err := c.BodyParser(&req); err != nil {
		return taskmod.NewValidationError("body", "invalid request body")
	}

	t, err := h.service.Update(c.UserContext(), id, &req)
	if err != nil {
		return err
	}

	return c.JSON(taskmod.NewTaskResponse(t))
}

// DeleteTask handles DELETE /api/v1/tasks/:id.
func (h *Handlers) DeleteTask(c *fiber.Ctx) error {
	id, err := parseTaskID(c)
	if err != nil {
		return err
	}

	if err := h.service.Delete(c.UserContext(), id); err != nil {
		return err
	}

	return c.JSON(MessageResponse{
		Message: fmt.Sprintf("Task %d deleted successfully", id),
	})
}

// TaskStats handles GET /api/v1/tasks/stats/summary.
func (h *Handlers) TaskStats(c *fiber.Ctx) error {
	stats, err := h.service.Stats(c.UserContext())
	if err != nil {
		return err
	}

	return c.JSON(stats)
}
