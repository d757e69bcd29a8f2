package chat

import (
	"time"

	"github.com/LEOK66/Modo-sub000/internal/plans"
	"github.com/LEOK66/Modo-sub000/internal/storage"
	"github.com/google/uuid"
)

type ChatMessageDTO struct {
	ID        uuid.UUID `json:"id"`
	Role      string    `json:"role"`
	Content   string    `json:"content"`
	CreatedAt time.Time `json:"created_at"`
}

type SendMessageRequest struct {
	ProfileID uuid.UUID `json:"profile_id"`
	Content   string    `json:"content"`
}

// SendMessageResponse carries the assistant's answer. Plan is set when the
// exchange ended in a plan-generation tool instead of plain text.
type SendMessageResponse struct {
	AssistantMessage ChatMessageDTO `json:"assistant_message"`
	Plan             *plans.PlanDTO `json:"plan,omitempty"`
}

type ListMessagesResponse struct {
	Messages   []ChatMessageDTO `json:"messages"`
	NextCursor *string          `json:"next_cursor,omitempty"`
}

type ErrorResponse struct {
	Error ErrorDetail `json:"error"`
}

type ErrorDetail struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func messageToDTO(msg storage.ChatMessage) ChatMessageDTO {
	return ChatMessageDTO{
		ID:        msg.ID,
		Role:      msg.Role,
		Content:   msg.Content,
		CreatedAt: msg.CreatedAt,
	}
}
