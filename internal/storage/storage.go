package storage

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// Profile is a member of the household the app tracks (owner or guest).
type Profile struct {
	ID          uuid.UUID
	OwnerUserID string
	Type        string // "owner" or "guest"
	Name        string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// Storage is the profile store plus connection lifecycle.
type Storage interface {
	ListProfiles(ctx context.Context) ([]Profile, error)
	GetProfile(ctx context.Context, id uuid.UUID) (*Profile, error)
	CreateProfile(ctx context.Context, profile *Profile) error
	UpdateProfile(ctx context.Context, profile *Profile) error
	DeleteProfile(ctx context.Context, id uuid.UUID) error

	// Close closes the connection (for Postgres).
	Close() error
}

// ChatMessage is one stored turn of the assistant conversation.
type ChatMessage struct {
	ID          uuid.UUID
	OwnerUserID string
	ProfileID   uuid.UUID
	Role        string // "user" | "assistant"
	Content     string
	CreatedAt   time.Time
}

type ChatStorage interface {
	InsertMessage(ctx context.Context, ownerUserID string, profileID uuid.UUID, role, content string) (ChatMessage, error)

	// ListMessages returns up to limit messages in chronological order and,
	// when more remain, a cursor (created_at of the oldest returned row).
	ListMessages(ctx context.Context, ownerUserID string, profileID uuid.UUID, limit int, before *time.Time) ([]ChatMessage, *time.Time, error)
}

// Task is a single to-do item, either user-created or assistant-created.
type Task struct {
	ID          uuid.UUID
	OwnerUserID string
	ProfileID   uuid.UUID
	Title       string
	Notes       string
	DueDate     *string // YYYY-MM-DD
	Status      string  // "pending" | "done"
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// TaskUpdate carries the mutable task fields; nil means "leave unchanged".
type TaskUpdate struct {
	Title   *string
	Notes   *string
	DueDate *string
	Status  *string
}

type TasksStorage interface {
	InsertTasks(ctx context.Context, tasks []Task) ([]Task, error)
	ListTasks(ctx context.Context, ownerUserID string, profileID uuid.UUID, status string, limit int) ([]Task, error)
	GetTask(ctx context.Context, ownerUserID string, id uuid.UUID) (*Task, error)
	UpdateTask(ctx context.Context, ownerUserID string, id uuid.UUID, update TaskUpdate) (*Task, error)
	DeleteTask(ctx context.Context, ownerUserID string, id uuid.UUID) error
}

// GeneratedPlan is a plan produced by an assistant tool call, stored as the
// decoded JSON payload plus identifying metadata.
type GeneratedPlan struct {
	ID          uuid.UUID
	OwnerUserID string
	ProfileID   uuid.UUID
	Kind        string // "workout" | "nutrition" | "weekly"
	Title       string
	Payload     []byte // decoded plan, re-marshalled
	CreatedAt   time.Time
}

type PlansStorage interface {
	InsertPlan(ctx context.Context, plan *GeneratedPlan) error
	ListPlans(ctx context.Context, ownerUserID string, profileID uuid.UUID, kind string, limit int) ([]GeneratedPlan, error)
	GetPlan(ctx context.Context, ownerUserID string, id uuid.UUID) (*GeneratedPlan, error)
}
