package tasks

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/LEOK66/Modo-sub000/internal/storage"
	"github.com/LEOK66/Modo-sub000/internal/userctx"
	"github.com/google/uuid"
)

var (
	ErrUnauthorized    = errors.New("unauthorized")
	ErrInvalidRequest  = errors.New("invalid request")
	ErrProfileNotFound = errors.New("profile not found")
	ErrTaskNotFound    = errors.New("task not found")
)

const maxTasksPerRequest = 20

// Service manages tasks; used by both the HTTP handlers and the assistant
// task tools.
type Service struct {
	tasksStorage    storage.TasksStorage
	profilesStorage storage.Storage
}

func NewService(tasksStorage storage.TasksStorage, profilesStorage storage.Storage) *Service {
	return &Service{
		tasksStorage:    tasksStorage,
		profilesStorage: profilesStorage,
	}
}

// Create inserts a batch of tasks for a profile.
func (s *Service) Create(ctx context.Context, req *CreateTasksRequest) (*CreateTasksResponse, error) {
	userID := normalizeOwner(userIDFromContext(ctx))
	if userID == "" {
		return nil, ErrUnauthorized
	}
	if err := validateCreateRequest(req); err != nil {
		return nil, err
	}
	if err := s.ensureProfileOwned(ctx, userID, req.ProfileID); err != nil {
		return nil, err
	}

	records := make([]storage.Task, 0, len(req.Tasks))
	for _, input := range req.Tasks {
		records = append(records, storage.Task{
			OwnerUserID: userID,
			ProfileID:   req.ProfileID,
			Title:       strings.TrimSpace(input.Title),
			Notes:       strings.TrimSpace(input.Notes),
			DueDate:     input.DueDate,
			Status:      StatusPending,
		})
	}

	inserted, err := s.tasksStorage.InsertTasks(ctx, records)
	if err != nil {
		return nil, err
	}

	dtos := make([]TaskDTO, 0, len(inserted))
	for _, task := range inserted {
		dtos = append(dtos, taskToDTO(task))
	}
	return &CreateTasksResponse{Tasks: dtos}, nil
}

// List returns a profile's tasks, optionally filtered by status.
func (s *Service) List(ctx context.Context, profileID uuid.UUID, status string, limit int) (*ListTasksResponse, error) {
	userID := normalizeOwner(userIDFromContext(ctx))
	if userID == "" {
		return nil, ErrUnauthorized
	}
	if profileID == uuid.Nil {
		return nil, fmt.Errorf("%w: profile_id is required", ErrInvalidRequest)
	}
	if status != "" && status != StatusPending && status != StatusDone {
		return nil, fmt.Errorf("%w: unknown status %q", ErrInvalidRequest, status)
	}
	if err := s.ensureProfileOwned(ctx, userID, profileID); err != nil {
		return nil, err
	}

	records, err := s.tasksStorage.ListTasks(ctx, userID, profileID, status, limit)
	if err != nil {
		return nil, err
	}

	dtos := make([]TaskDTO, 0, len(records))
	for _, task := range records {
		dtos = append(dtos, taskToDTO(task))
	}
	return &ListTasksResponse{Tasks: dtos}, nil
}

// Update patches a task's mutable fields.
func (s *Service) Update(ctx context.Context, id uuid.UUID, req *UpdateTaskRequest) (*TaskDTO, error) {
	userID := normalizeOwner(userIDFromContext(ctx))
	if userID == "" {
		return nil, ErrUnauthorized
	}
	if id == uuid.Nil {
		return nil, fmt.Errorf("%w: task id is required", ErrInvalidRequest)
	}
	if err := validateUpdateRequest(req); err != nil {
		return nil, err
	}

	updated, err := s.tasksStorage.UpdateTask(ctx, userID, id, storage.TaskUpdate{
		Title:   req.Title,
		Notes:   req.Notes,
		DueDate: req.DueDate,
		Status:  req.Status,
	})
	if err != nil {
		return nil, ErrTaskNotFound
	}

	dto := taskToDTO(*updated)
	return &dto, nil
}

// Delete removes a task.
func (s *Service) Delete(ctx context.Context, id uuid.UUID) error {
	userID := normalizeOwner(userIDFromContext(ctx))
	if userID == "" {
		return ErrUnauthorized
	}
	if id == uuid.Nil {
		return fmt.Errorf("%w: task id is required", ErrInvalidRequest)
	}

	if err := s.tasksStorage.DeleteTask(ctx, userID, id); err != nil {
		return ErrTaskNotFound
	}
	return nil
}

func validateCreateRequest(req *CreateTasksRequest) error {
	if req.ProfileID == uuid.Nil {
		return fmt.Errorf("%w: profile_id is required", ErrInvalidRequest)
	}
	if len(req.Tasks) == 0 {
		return fmt.Errorf("%w: at least one task is required", ErrInvalidRequest)
	}
	if len(req.Tasks) > maxTasksPerRequest {
		return fmt.Errorf("%w: at most %d tasks per request", ErrInvalidRequest, maxTasksPerRequest)
	}
	for i, input := range req.Tasks {
		if strings.TrimSpace(input.Title) == "" {
			return fmt.Errorf("%w: task %d has an empty title", ErrInvalidRequest, i)
		}
		if err := validateDueDate(input.DueDate); err != nil {
			return err
		}
	}
	return nil
}

func validateUpdateRequest(req *UpdateTaskRequest) error {
	if req.Title == nil && req.Notes == nil && req.DueDate == nil && req.Status == nil {
		return fmt.Errorf("%w: nothing to update", ErrInvalidRequest)
	}
	if req.Title != nil && strings.TrimSpace(*req.Title) == "" {
		return fmt.Errorf("%w: title cannot be empty", ErrInvalidRequest)
	}
	if req.Status != nil && *req.Status != StatusPending && *req.Status != StatusDone {
		return fmt.Errorf("%w: unknown status %q", ErrInvalidRequest, *req.Status)
	}
	return validateDueDate(req.DueDate)
}

func validateDueDate(dueDate *string) error {
	if dueDate == nil || *dueDate == "" {
		return nil
	}
	if _, err := time.Parse("2006-01-02", *dueDate); err != nil {
		return fmt.Errorf("%w: due_date must be YYYY-MM-DD", ErrInvalidRequest)
	}
	return nil
}

func (s *Service) ensureProfileOwned(ctx context.Context, userID string, profileID uuid.UUID) error {
	profile, err := s.profilesStorage.GetProfile(ctx, profileID)
	if err != nil {
		return ErrProfileNotFound
	}
	if normalizeOwner(profile.OwnerUserID) != userID {
		return ErrProfileNotFound // Don't reveal existence
	}
	return nil
}

func userIDFromContext(ctx context.Context) string {
	userID, _ := userctx.GetUserID(ctx)
	return userID
}

func normalizeOwner(s string) string {
	return strings.TrimSpace(strings.ToLower(s))
}
