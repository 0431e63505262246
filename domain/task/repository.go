package task

import (
	"context"
	"errors"

	"gorm.io/gorm"
)

// ErrNotFound is returned when a task does not exist.
var ErrNotFound = errors.New("task not found")

// StoreError wraps a database failure so the transport layer can
// distinguish storage outages from domain outcomes.
type StoreError struct {
	Op  string
	Err error
}

func (e *StoreError) Error() string {
	return "task store: " + e.Op + ": " + e.Err.Error()
}

func (e *StoreError) Unwrap() error {
	return e.Err
}

// Filter holds the optional equality filters for listing tasks.
// Nil fields impose no constraint; set fields are combined with AND.
type Filter struct {
	Status    *string
	Priority  *string
	Completed *bool
}

func (f Filter) apply(q *gorm.DB) *gorm.DB {
	if f.Status != nil {
		q = q.Where("status = ?", *f.Status)
	}
	if f.Priority != nil {
		q = q.Where("priority = ?", *f.Priority)
	}
	if f.Completed != nil {
		q = q.Where("completed = ?", *f.Completed)
	}
	return q
}

// Repository provides database operations for tasks.
type Repository struct {
	db *gorm.DB
}

// NewRepository creates a new task repository.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// Create persists a new task. The store assigns ID, CreatedAt and
// UpdatedAt.
func (r *Repository) Create(ctx context.Context, t *Task) error {
	if err := r.db.WithContext(ctx).Create(t).Error; err != nil {
		return &StoreError{Op: "create", Err: err}
	}
	return nil
}

// GetByID retrieves a task by its ID.
func (r *Repository) GetByID(ctx context.Context, id uint) (*Task, error) {
	var t Task
	if err := r.db.WithContext(ctx).First(&t, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, &StoreError{Op: "get", Err: err}
	}
	return &t, nil
}

// List retrieves tasks matching the filter, ordered by creation time
// descending, with offset/limit pagination. The returned total is the
// match count before pagination.
func (r *Repository) List(ctx context.Context, f Filter, offset, limit int) ([]Task, int64, error) {
	var total int64
	if err := f.apply(r.db.WithContext(ctx).Model(&Task{})).Count(&total).Error; err != nil {
		return nil, 0, &StoreError{Op: "count", Err: err}
	}

	tasks := make([]Task, 0)
	q := f.apply(r.db.WithContext(ctx).Model(&Task{})).
		Order("created_at DESC").
		Offset(offset).
		Limit(limit)
	if err := q.Find(&tasks).Error; err != nil {
		return nil, 0, &StoreError{Op: "list", Err: err}
	}

	return tasks, total, nil
}

// Update saves all fields of an existing task and refreshes UpdatedAt.
func (r *Repository) Update(ctx context.Context, t *Task) error {
	if err := r.db.WithContext(ctx).Save(t).Error; err != nil {
		return &StoreError{Op: "update", Err: err}
	}
	return nil
}

// Delete removes a task by ID. The delete is hard: no tombstone remains.
func (r *Repository) Delete(ctx context.Context, id uint) error {
	result := r.db.WithContext(ctx).Delete(&Task{}, id)
	if result.Error != nil {
		return &StoreError{Op: "delete", Err: result.Error}
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// Stats computes aggregate task counts in four statements. Completed
// counts the boolean flag independently of Status.
func (r *Repository) Stats(ctx context.Context) (*Stats, error) {
	var s Stats

	counts := []struct {
		dest  *int64
		query func(*gorm.DB) *gorm.DB
	}{
		{&s.Total, func(q *gorm.DB) *gorm.DB { return q }},
		{&s.Completed, func(q *gorm.DB) *gorm.DB { return q.Where("completed = ?", true) }},
		{&s.Pending, func(q *gorm.DB) *gorm.DB { return q.Where("status = ?", StatusPending) }},
		{&s.InProgress, func(q *gorm.DB) *gorm.DB { return q.Where("status = ?", StatusInProgress) }},
	}

	for _, c := range counts {
		if err := c.query(r.db.WithContext(ctx).Model(&Task{})).Count(c.dest).Error; err != nil {
			return nil, &StoreError{Op: "stats", Err: err}
		}
	}

	return &s, nil
}

// Migrate runs database migrations for the tasks table.
func (r *Repository) Migrate() error {
	return r.db.AutoMigrate(&Task{})
}
