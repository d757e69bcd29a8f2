package ai

import (
	"context"
	"errors"
)

// Conversation roles as the backend understands them.
const (
	RoleSystem    = "system"
	RoleUser      = "user"
	RoleAssistant = "assistant"
	RoleTool      = "tool"
)

// Tool-choice modes for a completion request.
const (
	ToolChoiceAuto = "auto"
	ToolChoiceNone = "none"
)

var (
	// ErrInvalidResponse means the backend answered but the reply could not
	// be interpreted (no choices, or a turn with neither text nor tool call).
	ErrInvalidResponse = errors.New("invalid ai response")
	// ErrAuthFailed covers 401/403 from the backend.
	ErrAuthFailed = errors.New("ai auth failed")
	// ErrRateLimited covers 429 from the backend.
	ErrRateLimited = errors.New("ai rate limited")
)

// ToolCall is the backend's request to execute a named tool.
type ToolCall struct {
	ID        string // backend-assigned call id, echoed back in the tool turn
	Name      string
	Arguments string // raw JSON argument string, opaque to the backend contract
}

// Turn is one message of the conversation sent to or received from the
// backend. Assistant turns that request a tool carry ToolCall; tool turns
// carry the producing tool's name and the call id they answer.
type Turn struct {
	Role       string
	Content    string
	ToolName   string
	ToolCallID string
	ToolCall   *ToolCall
}

// ToolSchema describes one callable tool in the completion request.
type ToolSchema struct {
	Name        string
	Description string
	Parameters  map[string]any // JSON-schema typed parameters
}

type CompletionRequest struct {
	Turns      []Turn
	Tools      []ToolSchema
	ToolChoice string // auto | none | a specific tool name (forced)
	MaxTokens  int
}

// Completion is one backend reply: either free text or a tool call.
type Completion struct {
	Text     string
	ToolCall *ToolCall
}

// Provider is the generative-AI backend. Implementations are expected to
// surface transport failures as-is; they never retry.
type Provider interface {
	Complete(ctx context.Context, req CompletionRequest) (Completion, error)
}

// TextTurn is a convenience constructor for plain role+content turns.
func TextTurn(role, content string) Turn {
	return Turn{Role: role, Content: content}
}

// ToolResultTurn builds the turn that feeds a tool's result back to the
// backend.
func ToolResultTurn(toolName, callID, content string) Turn {
	return Turn{
		Role:       RoleTool,
		Content:    content,
		ToolName:   toolName,
		ToolCallID: callID,
	}
}
