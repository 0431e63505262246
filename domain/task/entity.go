package task

import "time"

// Conventional status and priority values. The columns are free-form
// strings; these are the values the API documents and the stats
// aggregation buckets on.
const (
	StatusPending    = "pending"
	StatusInProgress = "in_progress"
	StatusCompleted  = "completed"

	PriorityLow    = "low"
	PriorityMedium = "medium"
	PriorityHigh   = "high"
)

// Task is the managed entity. The store assigns ID and both timestamps
// on creation; UpdatedAt is refreshed on every successful mutation.
// Completed is independent of Status and never derived from it.
type Task struct {
	ID          uint      `gorm:"primarykey" json:"id"`
	Title       string    `gorm:"size:255;not null;index" json:"title"`
	Description *string   `gorm:"type:text" json:"description"`
	Status      string    `gorm:"size:50;not null;default:pending" json:"status"`
	Priority    string    `gorm:"size:50;not null;default:medium" json:"priority"`
	Completed   bool      `gorm:"not null;default:false" json:"completed"`
	CreatedAt   time.Time `gorm:"index" json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// TableName returns the table name for the Task model.
func (Task) TableName() string {
	return "tasks"
}

// Stats holds aggregate task counts. Completed counts the boolean flag
// while Pending and InProgress count status strings, so the three
// sub-counts need not sum to Total.
type Stats struct {
	Total      int64 `json:"total"`
	Completed  int64 `json:"completed"`
	Pending    int64 `json:"pending"`
	InProgress int64 `json:"in_progress"`
}
