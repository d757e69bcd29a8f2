package memory

import (
	"context"
	"errors"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/LEOK66/Modo-sub000/internal/storage"
	"github.com/google/uuid"
)

var ErrTaskNotFound = errors.New("task not found")

type TasksMemoryStorage struct {
	mu    sync.RWMutex
	tasks map[uuid.UUID]storage.Task
}

func NewTasksMemoryStorage() *TasksMemoryStorage {
	return &TasksMemoryStorage{
		tasks: make(map[uuid.UUID]storage.Task),
	}
}

func (s *TasksMemoryStorage) InsertTasks(ctx context.Context, tasks []storage.Task) ([]storage.Task, error) {
	_ = ctx

	s.mu.Lock()
	defer s.mu.Unlock()

	now := time.Now().UTC()
	saved := make([]storage.Task, 0, len(tasks))
	for _, task := range tasks {
		if task.ID == uuid.Nil {
			task.ID = uuid.New()
		}
		if task.Status == "" {
			task.Status = "pending"
		}
		task.OwnerUserID = strings.TrimSpace(task.OwnerUserID)
		task.CreatedAt = now
		task.UpdatedAt = now
		s.tasks[task.ID] = task
		saved = append(saved, task)
	}
	return saved, nil
}

func (s *TasksMemoryStorage) ListTasks(ctx context.Context, ownerUserID string, profileID uuid.UUID, status string, limit int) ([]storage.Task, error) {
	_ = ctx

	ownerUserID = strings.TrimSpace(ownerUserID)
	if limit <= 0 {
		limit = 100
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	filtered := make([]storage.Task, 0, len(s.tasks))
	for _, task := range s.tasks {
		if task.OwnerUserID != ownerUserID || task.ProfileID != profileID {
			continue
		}
		if status != "" && task.Status != status {
			continue
		}
		filtered = append(filtered, task)
	}

	sort.Slice(filtered, func(i, j int) bool {
		if filtered[i].CreatedAt.Equal(filtered[j].CreatedAt) {
			return filtered[i].ID.String() < filtered[j].ID.String()
		}
		return filtered[i].CreatedAt.Before(filtered[j].CreatedAt)
	})

	if len(filtered) > limit {
		filtered = filtered[:limit]
	}
	return filtered, nil
}

func (s *TasksMemoryStorage) GetTask(ctx context.Context, ownerUserID string, id uuid.UUID) (*storage.Task, error) {
	_ = ctx

	s.mu.RLock()
	defer s.mu.RUnlock()

	task, ok := s.tasks[id]
	if !ok || task.OwnerUserID != strings.TrimSpace(ownerUserID) {
		return nil, ErrTaskNotFound
	}
	return &task, nil
}

func (s *TasksMemoryStorage) UpdateTask(ctx context.Context, ownerUserID string, id uuid.UUID, update storage.TaskUpdate) (*storage.Task, error) {
	_ = ctx

	s.mu.Lock()
	defer s.mu.Unlock()

	task, ok := s.tasks[id]
	if !ok || task.OwnerUserID != strings.TrimSpace(ownerUserID) {
		return nil, ErrTaskNotFound
	}

	if update.Title != nil {
		task.Title = *update.Title
	}
	if update.Notes != nil {
		task.Notes = *update.Notes
	}
	if update.DueDate != nil {
		task.DueDate = update.DueDate
	}
	if update.Status != nil {
		task.Status = *update.Status
	}
	task.UpdatedAt = time.Now().UTC()

	s.tasks[id] = task
	return &task, nil
}

func (s *TasksMemoryStorage) DeleteTask(ctx context.Context, ownerUserID string, id uuid.UUID) error {
	_ = ctx

	s.mu.Lock()
	defer s.mu.Unlock()

	task, ok := s.tasks[id]
	if !ok || task.OwnerUserID != strings.TrimSpace(ownerUserID) {
		return ErrTaskNotFound
	}
	delete(s.tasks, task.ID)
	return nil
}
