package tasks

import (
	"time"

	"github.com/LEOK66/Modo-sub000/internal/storage"
	"github.com/google/uuid"
)

// Task statuses.
const (
	StatusPending = "pending"
	StatusDone    = "done"
)

// TaskDTO is the API shape of a task.
type TaskDTO struct {
	ID        uuid.UUID `json:"id"`
	ProfileID uuid.UUID `json:"profile_id"`
	Title     string    `json:"title"`
	Notes     string    `json:"notes,omitempty"`
	DueDate   *string   `json:"due_date,omitempty"`
	Status    string    `json:"status"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// TaskInput is one task to create.
type TaskInput struct {
	Title   string  `json:"title"`
	Notes   string  `json:"notes,omitempty"`
	DueDate *string `json:"due_date,omitempty"`
}

type CreateTasksRequest struct {
	ProfileID uuid.UUID   `json:"profile_id"`
	Tasks     []TaskInput `json:"tasks"`
}

type CreateTasksResponse struct {
	Tasks []TaskDTO `json:"tasks"`
}

type ListTasksResponse struct {
	Tasks []TaskDTO `json:"tasks"`
}

// UpdateTaskRequest carries the mutable fields; absent fields stay as-is.
type UpdateTaskRequest struct {
	Title   *string `json:"title,omitempty"`
	Notes   *string `json:"notes,omitempty"`
	DueDate *string `json:"due_date,omitempty"`
	Status  *string `json:"status,omitempty"`
}

func taskToDTO(t storage.Task) TaskDTO {
	return TaskDTO{
		ID:        t.ID,
		ProfileID: t.ProfileID,
		Title:     t.Title,
		Notes:     t.Notes,
		DueDate:   t.DueDate,
		Status:    t.Status,
		CreatedAt: t.CreatedAt,
		UpdatedAt: t.UpdatedAt,
	}
}
