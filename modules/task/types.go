package task

import (
	"encoding/json"
	"time"

	domain "github.com/example/task-manager-api/domain/task"
)

// Optional distinguishes a JSON field that was absent from one that was
// explicitly set, including set to null. An absent field leaves the
// zero Optional (Present() == false); any value present in the payload,
// null included, marks it set.
type Optional[T any] struct {
	value T
	set   bool
}

// NewOptional returns a set Optional holding v.
func NewOptional[T any](v T) Optional[T] {
	return Optional[T]{value: v, set: true}
}

// Present reports whether the field appeared in the payload.
func (o Optional[T]) Present() bool {
	return o.set
}

// Value returns the decoded value; meaningful only when Present.
func (o Optional[T]) Value() T {
	return o.value
}

// UnmarshalJSON implements json.Unmarshaler. It is only invoked for
// fields present in the payload, which is what makes the set flag work.
func (o *Optional[T]) UnmarshalJSON(b []byte) error {
	o.set = true
	return json.Unmarshal(b, &o.value)
}

// MarshalJSON implements json.Marshaler.
func (o Optional[T]) MarshalJSON() ([]byte, error) {
	return json.Marshal(o.value)
}

// CreateTaskRequest is the request for creating a task. Title is
// required; every other field falls back to its documented default.
type CreateTaskRequest struct {
	Title       string  `json:"title"`
	Description *string `json:"description"`
	Status      string  `json:"status"`
	Priority    string  `json:"priority"`
	Completed   bool    `json:"completed"`
}

// UpdateTaskRequest is the partial-update request. Only fields present
// in the payload are applied to the stored task; Description may be
// explicitly set to null to clear it.
type UpdateTaskRequest struct {
	Title       Optional[string]  `json:"title"`
	Description Optional[*string] `json:"description"`
	Status      Optional[string]  `json:"status"`
	Priority    Optional[string]  `json:"priority"`
	Completed   Optional[bool]    `json:"completed"`
}

// ListTasksQuery holds the parsed list parameters. Filters left nil
// impose no constraint.
type ListTasksQuery struct {
	Page      int     `json:"page"`
	PageSize  int     `json:"page_size"`
	Status    *string `json:"status,omitempty"`
	Priority  *string `json:"priority,omitempty"`
	Completed *bool   `json:"completed,omitempty"`
}

// applyDefaults fills zero pagination values with the documented
// defaults. Explicit out-of-range values are left for validation.
func (q *ListTasksQuery) applyDefaults() {
	if q.Page == 0 {
		q.Page = defaultPage
	}
	if q.PageSize == 0 {
		q.PageSize = defaultPageSize
	}
}

// TaskResponse represents a task in responses.
type TaskResponse struct {
	ID          uint      `json:"id"`
	Title       string    `json:"title"`
	Description *string   `json:"description"`
	Status      string    `json:"status"`
	Priority    string    `json:"priority"`
	Completed   bool      `json:"completed"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// NewTaskResponse converts a task entity to its response form.
func NewTaskResponse(t *domain.Task) TaskResponse {
	return TaskResponse{
		ID:          t.ID,
		Title:       t.Title,
		Description: t.Description,
		Status:      t.Status,
		Priority:    t.Priority,
		Completed:   t.Completed,
		CreatedAt:   t.CreatedAt,
		UpdatedAt:   t.UpdatedAt,
	}
}

// ListTasksResponse is the paginated list envelope.
type ListTasksResponse struct {
	Tasks      []TaskResponse `json:"tasks"`
	Total      int64          `json:"total"`
	Page       int            `json:"page"`
	PageSize   int            `json:"page_size"`
	TotalPages int            `json:"total_pages"`
}

// NewListTasksResponse builds the list envelope. TotalPages is
// ceil(total/pageSize), or 0 when nothing matched.
func NewListTasksResponse(tasks []domain.Task, total int64, page, pageSize int) ListTasksResponse {
	totalPages := 0
	if total > 0 {
		totalPages = int((total + int64(pageSize) - 1) / int64(pageSize))
	}

	resp := ListTasksResponse{
		Tasks:      make([]TaskResponse, 0, len(tasks)),
		Total:      total,
		Page:       page,
		PageSize:   pageSize,
		TotalPages: totalPages,
	}
	for i := range tasks {
		resp.Tasks = append(resp.Tasks, NewTaskResponse(&tasks[i]))
	}
	return resp
}

// GetTaskRequest is the request-reply payload for fetching a task.
type GetTaskRequest struct {
	ID uint `json:"id"`
}

// StatsRequest is the (empty) request-reply payload for statistics.
type StatsRequest struct{}

// DeleteTaskRequest is the request-reply payload for deleting a task.
type DeleteTaskRequest struct {
	ID uint `json:"id"`
}

// DeleteTaskResponse reports the outcome of a delete.
type DeleteTaskResponse struct {
	Deleted bool `json:"deleted"`
	ID      uint `json:"id"`
}
