package profiles

import (
	"time"

	"github.com/google/uuid"
)

type ProfileDTO struct {
	ID          uuid.UUID `json:"id"`
	OwnerUserID string    `json:"owner_user_id"`
	Type        string    `json:"type"`
	Name        string    `json:"name"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

type ProfilesResponse struct {
	Profiles []ProfileDTO `json:"profiles"`
}

type CreateProfileRequest struct {
	Type string `json:"type"`
	Name string `json:"name"`
}

type UpdateProfileRequest struct {
	Name string `json:"name"`
}

type ErrorResponse struct {
	Error ErrorDetail `json:"error"`
}

type ErrorDetail struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}
