package api

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	domain "github.com/example/task-manager-api/domain/task"
	taskmod "github.com/example/task-manager-api/modules/task"
)

// setupApp builds the API module over an in-memory database, wired the
// same way Start does but without listening on a port.
func setupApp(t *testing.T) *fiber.App {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	repo := domain.NewRepository(db)
	require.NoError(t, repo.Migrate())

	m := NewModule(Config{
		AppName:     "Task Manager API",
		Version:     "test",
		CORSOrigins: "*",
	})
	m.initApp(taskmod.NewService(repo))

	return m.GetApp()
}

func doJSON(t *testing.T, app *fiber.App, method, path, body string) (*http.Response, map[string]any) {
	t.Helper()

	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != "" {
		req.Header.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSON)
	}

	resp, err := app.Test(req, -1)
	require.NoError(t, err)

	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)

	decoded := map[string]any{}
	if len(raw) > 0 {
		require.NoError(t, json.Unmarshal(raw, &decoded), "body: %s", raw)
	}
	return resp, decoded
}

func createTask(t *testing.T, app *fiber.App, body string) map[string]any {
	t.Helper()

	resp, data := doJSON(t, app, http.MethodPost, "/api/v1/tasks", body)
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	return data
}

func TestCreateTask(t *testing.T) {
	app := setupApp(t)

	t.Run("full payload echoes input", func(t *testing.T) {
		data := createTask(t, app, `{
			"title": "Write docs",
			"description": "User guide",
			"status": "in_progress",
			"priority": "high",
			"completed": false
		}`)

		assert.Equal(t, "Write docs", data["title"])
		assert.Equal(t, "User guide", data["description"])
		assert.Equal(t, "in_progress", data["status"])
		assert.Equal(t, "high", data["priority"])
		assert.Equal(t, false, data["completed"])
		assert.NotNil(t, data["id"])
		assert.NotEmpty(t, data["created_at"])
		assert.Equal(t, data["created_at"], data["updated_at"])
	})

	t.Run("minimal payload applies defaults", func(t *testing.T) {
		data := createTask(t, app, `{"title": "Minimal Task"}`)

		assert.Equal(t, "Minimal Task", data["title"])
		assert.Nil(t, data["description"])
		assert.Equal(t, "pending", data["status"])
		assert.Equal(t, "medium", data["priority"])
		assert.Equal(t, false, data["completed"])
	})

	t.Run("missing title rejected", func(t *testing.T) {
		resp, data := doJSON(t, app, http.MethodPost, "/api/v1/tasks", `{"description": "no title"}`)

		require.Equal(t, http.StatusUnprocessableEntity, resp.StatusCode)
		errBody := data["error"].(map[string]any)
		assert.EqualValues(t, 422, errBody["status_code"])
		assert.Equal(t, "/api/v1/tasks", errBody["path"])
		assert.NotEmpty(t, errBody["details"])
	})

	t.Run("empty title rejected", func(t *testing.T) {
		resp, _ := doJSON(t, app, http.MethodPost, "/api/v1/tasks", `{"title": ""}`)
		assert.Equal(t, http.StatusUnprocessableEntity, resp.StatusCode)
	})

	t.Run("malformed body rejected", func(t *testing.T) {
		resp, _ := doJSON(t, app, http.MethodPost, "/api/v1/tasks", `{"title": `)
		assert.Equal(t, http.StatusUnprocessableEntity, resp.StatusCode)
	})
}

func TestGetTask(t *testing.T) {
	app := setupApp(t)

	created := createTask(t, app, `{"title": "Fetch me"}`)
	id := int(created["id"].(float64))

	t.Run("existing task", func(t *testing.T) {
		resp, data := doJSON(t, app, http.MethodGet, fmt.Sprintf("/api/v1/tasks/%d", id), "")

		require.Equal(t, http.StatusOK, resp.StatusCode)
		assert.Equal(t, "Fetch me", data["title"])
	})

	t.Run("missing task", func(t *testing.T) {
		resp, data := doJSON(t, app, http.MethodGet, "/api/v1/tasks/99999", "")

		require.Equal(t, http.StatusNotFound, resp.StatusCode)
		errBody := data["error"].(map[string]any)
		assert.EqualValues(t, 404, errBody["status_code"])
		assert.Contains(t, errBody["message"], "99999")
	})

	t.Run("non-numeric id", func(t *testing.T) {
		resp, _ := doJSON(t, app, http.MethodGet, "/api/v1/tasks/abc", "")
		assert.Equal(t, http.StatusUnprocessableEntity, resp.StatusCode)
	})
}

func TestListTasks(t *testing.T) {
	t.Run("empty database", func(t *testing.T) {
		app := setupApp(t)

		resp, data := doJSON(t, app, http.MethodGet, "/api/v1/tasks", "")

		require.Equal(t, http.StatusOK, resp.StatusCode)
		assert.Empty(t, data["tasks"])
		assert.EqualValues(t, 0, data["total"])
		assert.EqualValues(t, 1, data["page"])
		assert.EqualValues(t, 10, data["page_size"])
		assert.EqualValues(t, 0, data["total_pages"])
	})

	t.Run("pagination", func(t *testing.T) {
		app := setupApp(t)
		for i := 1; i <= 15; i++ {
			createTask(t, app, fmt.Sprintf(`{"title": "Task %d"}`, i))
		}

		resp, data := doJSON(t, app, http.MethodGet, "/api/v1/tasks?page=1&page_size=5", "")
		require.Equal(t, http.StatusOK, resp.StatusCode)
		assert.Len(t, data["tasks"], 5)
		assert.EqualValues(t, 15, data["total"])
		assert.EqualValues(t, 3, data["total_pages"])

		resp, data = doJSON(t, app, http.MethodGet, "/api/v1/tasks?page=3&page_size=5", "")
		require.Equal(t, http.StatusOK, resp.StatusCode)
		assert.Len(t, data["tasks"], 5)
		assert.EqualValues(t, 3, data["page"])
	})

	t.Run("status filter", func(t *testing.T) {
		app := setupApp(t)
		createTask(t, app, `{"title": "a", "status": "pending"}`)
		createTask(t, app, `{"title": "b", "status": "completed"}`)
		createTask(t, app, `{"title": "c", "status": "pending"}`)

		resp, data := doJSON(t, app, http.MethodGet, "/api/v1/tasks?status=pending", "")

		require.Equal(t, http.StatusOK, resp.StatusCode)
		assert.EqualValues(t, 2, data["total"])
		for _, raw := range data["tasks"].([]any) {
			task := raw.(map[string]any)
			assert.Equal(t, "pending", task["status"])
		}
	})

	t.Run("completed filter", func(t *testing.T) {
		app := setupApp(t)
		createTask(t, app, `{"title": "open"}`)
		createTask(t, app, `{"title": "closed", "completed": true}`)

		resp, data := doJSON(t, app, http.MethodGet, "/api/v1/tasks?completed=true", "")

		require.Equal(t, http.StatusOK, resp.StatusCode)
		assert.EqualValues(t, 1, data["total"])
	})

	t.Run("invalid query params", func(t *testing.T) {
		app := setupApp(t)

		tests := []string{
			"/api/v1/tasks?page=0",
			"/api/v1/tasks?page=abc",
			"/api/v1/tasks?page_size=0",
			"/api/v1/tasks?page_size=101",
			"/api/v1/tasks?completed=maybe",
		}
		for _, path := range tests {
			resp, data := doJSON(t, app, http.MethodGet, path, "")
			assert.Equal(t, http.StatusUnprocessableEntity, resp.StatusCode, "path %s", path)
			errBody := data["error"].(map[string]any)
			assert.NotEmpty(t, errBody["details"], "path %s", path)
		}
	})
}

func TestUpdateTask(t *testing.T) {
	app := setupApp(t)

	created := createTask(t, app, `{"title": "Original", "description": "keep", "priority": "low"}`)
	id := int(created["id"].(float64))

	t.Run("partial update retains absent fields", func(t *testing.T) {
		resp, data := doJSON(t, app, http.MethodPut,
			fmt.Sprintf("/api/v1/tasks/%d", id), `{"status": "in_progress", "completed": true}`)

		require.Equal(t, http.StatusOK, resp.StatusCode)
		assert.Equal(t, "in_progress", data["status"])
		assert.Equal(t, true, data["completed"])
		assert.Equal(t, "Original", data["title"])
		assert.Equal(t, "keep", data["description"])
		assert.Equal(t, "low", data["priority"])
	})

	t.Run("explicit null clears description", func(t *testing.T) {
		resp, data := doJSON(t, app, http.MethodPut,
			fmt.Sprintf("/api/v1/tasks/%d", id), `{"description": null}`)

		require.Equal(t, http.StatusOK, resp.StatusCode)
		assert.Nil(t, data["description"])
		assert.Equal(t, "Original", data["title"])
	})

	t.Run("invalid title rejected", func(t *testing.T) {
		resp, _ := doJSON(t, app, http.MethodPut,
			fmt.Sprintf("/api/v1/tasks/%d", id), `{"title": "  "}`)
		assert.Equal(t, http.StatusUnprocessableEntity, resp.StatusCode)
	})

	t.Run("missing task", func(t *testing.T) {
		resp, _ := doJSON(t, app, http.MethodPut, "/api/v1/tasks/99999", `{"title": "anything"}`)
		assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	})
}

func TestDeleteTask(t *testing.T) {
	app := setupApp(t)

	created := createTask(t, app, `{"title": "Doomed"}`)
	id := int(created["id"].(float64))

	t.Run("delete existing task", func(t *testing.T) {
		resp, data := doJSON(t, app, http.MethodDelete, fmt.Sprintf("/api/v1/tasks/%d", id), "")

		require.Equal(t, http.StatusOK, resp.StatusCode)
		assert.Contains(t, data["message"], "deleted successfully")

		resp, _ = doJSON(t, app, http.MethodGet, fmt.Sprintf("/api/v1/tasks/%d", id), "")
		assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	})

	t.Run("delete missing task", func(t *testing.T) {
		resp, _ := doJSON(t, app, http.MethodDelete, "/api/v1/tasks/99999", "")
		assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	})
}

func TestTaskStats(t *testing.T) {
	app := setupApp(t)

	createTask(t, app, `{"title": "done 1", "status": "completed", "completed": true}`)
	createTask(t, app, `{"title": "done 2", "status": "completed", "completed": true}`)
	createTask(t, app, `{"title": "waiting", "status": "pending"}`)
	createTask(t, app, `{"title": "working", "status": "in_progress"}`)

	resp, data := doJSON(t, app, http.MethodGet, "/api/v1/tasks/stats/summary", "")

	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.EqualValues(t, 4, data["total"])
	assert.EqualValues(t, 2, data["completed"])
	assert.EqualValues(t, 1, data["pending"])
	assert.EqualValues(t, 1, data["in_progress"])
}

func TestRootAndHealth(t *testing.T) {
	app := setupApp(t)

	resp, data := doJSON(t, app, http.MethodGet, "/", "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, data["message"], "Task Manager API")

	resp, data = doJSON(t, app, http.MethodGet, "/health", "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "healthy", data["status"])
}

func TestRequestIDHeader(t *testing.T) {
	app := setupApp(t)

	t.Run("generated when absent", func(t *testing.T) {
		resp, _ := doJSON(t, app, http.MethodGet, "/health", "")
		assert.NotEmpty(t, resp.Header.Get(fiber.HeaderXRequestID))
	})

	t.Run("preserved when supplied", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/health", nil)
		req.Header.Set(fiber.HeaderXRequestID, "client-id-123")

		resp, err := app.Test(req, -1)
		require.NoError(t, err)
		assert.Equal(t, "client-id-123", resp.Header.Get(fiber.HeaderXRequestID))
	})
}
