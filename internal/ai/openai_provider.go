package ai

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/LEOK66/Modo-sub000/internal/config"
)

const chatCompletionsURL = "https://api.openai.com/v1/chat/completions"

type OpenAIProvider struct {
	apiKey      string
	model       string
	maxTokens   int
	temperature float64
	baseURL     string
	httpClient  *http.Client
}

func NewOpenAIProvider(cfg *config.Config) *OpenAIProvider {
	timeoutSeconds := cfg.AITimeoutSeconds
	if timeoutSeconds <= 0 {
		timeoutSeconds = 30
	}

	return &OpenAIProvider{
		apiKey:      cfg.OpenAIAPIKey,
		model:       cfg.OpenAIModel,
		maxTokens:   cfg.AIMaxOutputTokens,
		temperature: cfg.AITemperature,
		baseURL:     chatCompletionsURL,
		httpClient: &http.Client{
			Timeout: time.Duration(timeoutSeconds) * time.Second,
		},
	}
}

func (p *OpenAIProvider) Complete(ctx context.Context, req CompletionRequest) (Completion, error) {
	maxTokens := req.MaxTokens
	if maxTokens <= 0 {
		maxTokens = p.maxTokens
	}

	requestPayload := chatCompletionsRequest{
		Model:       p.model,
		Temperature: p.temperature,
		MaxTokens:   maxTokens,
		Messages:    buildWireMessages(req.Turns),
		Tools:       buildWireTools(req.Tools),
		ToolChoice:  buildWireToolChoice(req.ToolChoice, req.Tools),
	}

	body, err := json.Marshal(requestPayload)
	if err != nil {
		return Completion{}, err
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, p.baseURL, bytes.NewReader(body))
	if err != nil {
		return Completion{}, err
	}
	httpReq.Header.Set("Authorization", "Bearer "+p.apiKey)
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := p.httpClient.Do(httpReq)
	if err != nil {
		return Completion{}, err
	}
	defer resp.Body.Close()

	responseBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return Completion{}, err
	}

	switch {
	case resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden:
		return Completion{}, fmt.Errorf("%w: status %d", ErrAuthFailed, resp.StatusCode)
	case resp.StatusCode == http.StatusTooManyRequests:
		return Completion{}, fmt.Errorf("%w: status %d", ErrRateLimited, resp.StatusCode)
	case resp.StatusCode < 200 || resp.StatusCode >= 300:
		return Completion{}, fmt.Errorf("openai request failed with status %d", resp.StatusCode)
	}

	var parsed chatCompletionsResponse
	if err := json.Unmarshal(responseBody, &parsed); err != nil {
		return Completion{}, fmt.Errorf("%w: %v", ErrInvalidResponse, err)
	}
	if len(parsed.Choices) == 0 {
		return Completion{}, fmt.Errorf("%w: no choices", ErrInvalidResponse)
	}

	message := parsed.Choices[0].Message
	if len(message.ToolCalls) > 0 {
		call := message.ToolCalls[0]
		if strings.TrimSpace(call.Function.Name) == "" {
			return Completion{}, fmt.Errorf("%w: tool call without a name", ErrInvalidResponse)
		}
		return Completion{
			ToolCall: &ToolCall{
				ID:        call.ID,
				Name:      call.Function.Name,
				Arguments: call.Function.Arguments,
			},
		}, nil
	}

	return Completion{Text: strings.TrimSpace(message.Content)}, nil
}

func buildWireMessages(turns []Turn) []wireMessage {
	messages := make([]wireMessage, 0, len(turns))
	for _, turn := range turns {
		role := strings.TrimSpace(turn.Role)
		if role == "" {
			continue
		}

		msg := wireMessage{
			Role:    role,
			Content: turn.Content,
		}
		if turn.ToolCall != nil {
			msg.ToolCalls = []wireToolCall{{
				ID:   turn.ToolCall.ID,
				Type: "function",
				Function: wireFunctionCall{
					Name:      turn.ToolCall.Name,
					Arguments: turn.ToolCall.Arguments,
				},
			}}
		}
		if role == RoleTool {
			msg.ToolCallID = turn.ToolCallID
			msg.Name = turn.ToolName
		}
		messages = append(messages, msg)
	}
	return messages
}

func buildWireTools(tools []ToolSchema) []wireTool {
	if len(tools) == 0 {
		return nil
	}
	wire := make([]wireTool, 0, len(tools))
	for _, tool := range tools {
		wire = append(wire, wireTool{
			Type: "function",
			Function: wireFunction{
				Name:        tool.Name,
				Description: tool.Description,
				Parameters:  tool.Parameters,
			},
		})
	}
	return wire
}

// buildWireToolChoice maps our tool-choice mode to the wire format: "auto",
// "none", or an object forcing a specific function.
func buildWireToolChoice(choice string, tools []ToolSchema) any {
	if len(tools) == 0 {
		return nil
	}
	switch choice {
	case "", ToolChoiceAuto:
		return ToolChoiceAuto
	case ToolChoiceNone:
		return ToolChoiceNone
	default:
		return map[string]any{
			"type":     "function",
			"function": map[string]string{"name": choice},
		}
	}
}

type chatCompletionsRequest struct {
	Model       string        `json:"model"`
	Messages    []wireMessage `json:"messages"`
	Temperature float64       `json:"temperature"`
	MaxTokens   int           `json:"max_tokens"`
	Tools       []wireTool    `json:"tools,omitempty"`
	ToolChoice  any           `json:"tool_choice,omitempty"`
}

type wireMessage struct {
	Role       string         `json:"role"`
	Content    string         `json:"content"`
	Name       string         `json:"name,omitempty"`
	ToolCallID string         `json:"tool_call_id,omitempty"`
	ToolCalls  []wireToolCall `json:"tool_calls,omitempty"`
}

type wireToolCall struct {
	ID       string           `json:"id"`
	Type     string           `json:"type"`
	Function wireFunctionCall `json:"function"`
}

type wireFunctionCall struct {
	Name      string `json:"name"`
	Arguments string `json:"arguments"`
}

type wireTool struct {
	Type     string       `json:"type"`
	Function wireFunction `json:"function"`
}

type wireFunction struct {
	Name        string         `json:"name"`
	Description string         `json:"description,omitempty"`
	Parameters  map[string]any `json:"parameters,omitempty"`
}

type chatCompletionsResponse struct {
	Choices []struct {
		Message struct {
			Role      string         `json:"role"`
			Content   string         `json:"content"`
			ToolCalls []wireToolCall `json:"tool_calls"`
		} `json:"message"`
	} `json:"choices"`
}
