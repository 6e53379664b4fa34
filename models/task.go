package models

import "time"

// ============================================================================
// KANBAN TASK MODEL
// ============================================================================

// Valid kanban columns, in board order.
const (
	TaskStatusTodo       = "todo"
	TaskStatusInProgress = "in_progress"
	TaskStatusDone       = "done"
)

var ValidTaskStatuses = map[string]bool{
	TaskStatusTodo:       true,
	TaskStatusInProgress: true,
	TaskStatusDone:       true,
}

type Task struct {
	ID          string     `json:"id"`
	UserID      string     `json:"user_id"`
	CategoryID  *string    `json:"category_id,omitempty"`
	Title       string     `json:"title"`
	Description string     `json:"description,omitempty"`
	Status      string     `json:"status"`
	Position    int        `json:"position"`
	DueDate     *time.Time `json:"due_date,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`

	// Derived from DueDate for color coding, never stored.
	DueInterval string `json:"due_interval,omitempty"`
	DueColor    string `json:"due_color,omitempty"`
}

type CreateTaskRequest struct {
	Title       string  `json:"title" binding:"required,max=255"`
	Description string  `json:"description"`
	Status      string  `json:"status"`
	CategoryID  *string `json:"category_id"`
	DueDate     *string `json:"due_date"` // YYYY-MM-DD
}

type UpdateTaskRequest struct {
	Title       string  `json:"title" binding:"required,max=255"`
	Description string  `json:"description"`
	CategoryID  *string `json:"category_id"`
	DueDate     *string `json:"due_date"` // YYYY-MM-DD, empty string clears
}

type MoveTaskRequest struct {
	Status   string `json:"status" binding:"required"`
	Position *int   `json:"position" binding:"required"`
}
