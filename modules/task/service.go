package task

import (
	"context"
	"fmt"
	"strings"
	"unicode/utf8"

	domain "github.com/example/task-manager-api/domain/task"
)

const (
	maxTitleLength = 255

	defaultPage     = 1
	defaultPageSize = 10
	maxPageSize     = 100
)

// Service validates commands and executes them against the repository.
type Service struct {
	repo *domain.Repository
}

// NewService creates a new task service.
func NewService(repo *domain.Repository) *Service {
	return &Service{repo: repo}
}

// validateTitle trims the title and checks the 1-255 character bound.
func validateTitle(title string) (string, error) {
	trimmed := strings.TrimSpace(title)
	if trimmed == "" {
		return "", NewValidationError("title", "title must not be empty")
	}
	if utf8.RuneCountInString(trimmed) > maxTitleLength {
		return "", NewValidationError("title", fmt.Sprintf("title must be at most %d characters", maxTitleLength))
	}
	return trimmed, nil
}

// Create validates the request, applies defaults and persists a new
// task. The store assigns ID and timestamps.
func (s *Service) Create(ctx context.Context, req *CreateTaskRequest) (*domain.Task, error) {
	title, err := validateTitle(req.Title)
	if err != nil {
		return nil, err
	}

	t := &domain.Task{
		Title:       title,
		Description: req.Description,
		Status:      req.Status,
		Priority:    req.Priority,
		Completed:   req.Completed,
	}
	if t.Status == "" {
		t.Status = domain.StatusPending
	}
	if t.Priority == "" {
		t.Priority = domain.PriorityMedium
	}

	if err := s.repo.Create(ctx, t); err != nil {
		return nil, err
	}
	return t, nil
}

// Get retrieves a task by ID.
func (s *Service) Get(ctx context.Context, id uint) (*domain.Task, error) {
	return s.repo.GetByID(ctx, id)
}

// List validates the query and returns the matching page of tasks plus
// the total match count before pagination.
func (s *Service) List(ctx context.Context, q *ListTasksQuery) ([]domain.Task, int64, error) {
	verr := &ValidationError{}
	if q.Page < 1 {
		verr.add("page", "page must be greater than or equal to 1")
	}
	if q.PageSize < 1 || q.PageSize > maxPageSize {
		verr.add("page_size", fmt.Sprintf("page_size must be between 1 and %d", maxPageSize))
	}
	if err := verr.orNil(); err != nil {
		return nil, 0, err
	}

	filter := domain.Filter{
		Status:    q.Status,
		Priority:  q.Priority,
		Completed: q.Completed,
	}
	skip := (q.Page - 1) * q.PageSize

	return s.repo.List(ctx, filter, skip, q.PageSize)
}

// Update applies the fields present in the request to the stored task
// and refreshes UpdatedAt. Absent fields retain their prior values; a
// missing ID leaves the store unchanged.
func (s *Service) Update(ctx context.Context, id uint, req *UpdateTaskRequest) (*domain.Task, error) {
	t, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.Title.Present() {
		title, err := validateTitle(req.Title.Value())
		if err != nil {
			return nil, err
		}
		t.Title = title
	}
	if req.Description.Present() {
		t.Description = req.Description.Value()
	}
	if req.Status.Present() {
		t.Status = req.Status.Value()
	}
	if req.Priority.Present() {
		t.Priority = req.Priority.Value()
	}
	if req.Completed.Present() {
		t.Completed = req.Completed.Value()
	}

	if err := s.repo.Update(ctx, t); err != nil {
		return nil, err
	}
	return t, nil
}

// Delete removes a task by ID. A missing ID returns ErrNotFound with no
// side effects.
func (s *Service) Delete(ctx context.Context, id uint) error {
	return s.repo.Delete(ctx, id)
}

// Stats returns the aggregate task counts.
func (s *Service) Stats(ctx context.Context) (*domain.Stats, error) {
	return s.repo.Stats(ctx)
}
