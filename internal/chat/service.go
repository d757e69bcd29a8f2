package chat

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/LEOK66/Modo-sub000/internal/ai"
	"github.com/LEOK66/Modo-sub000/internal/assistant"
	"github.com/LEOK66/Modo-sub000/internal/storage"
	"github.com/LEOK66/Modo-sub000/internal/userctx"
	"github.com/google/uuid"
)

var (
	ErrUnauthorized    = errors.New("unauthorized")
	ErrInvalidRequest  = errors.New("invalid request")
	ErrProfileNotFound = errors.New("profile not found")
	ErrAIFailed        = errors.New("ai failed")
)

const (
	defaultHistoryLimit = 20
	defaultTimeout      = 30 * time.Second
	maxContentLength    = 4000
)

// Options tunes one chat service; zero values pick sensible defaults.
type Options struct {
	HistoryLimit int
	MaxToolCalls int
	MaxTokens    int
	Timeout      time.Duration
}

// Service runs the conversational exchange: it persists the user turn,
// replays recent history to a fresh router, and stores whatever the router
// comes back with.
type Service struct {
	chatStorage     storage.ChatStorage
	profilesStorage storage.Storage
	provider        ai.Provider
	registry        *assistant.Registry
	bus             *assistant.Bus
	opts            Options
	now             func() time.Time
}

func NewService(
	chatStorage storage.ChatStorage,
	profilesStorage storage.Storage,
	provider ai.Provider,
	registry *assistant.Registry,
	bus *assistant.Bus,
	opts Options,
) *Service {
	if opts.HistoryLimit <= 0 {
		opts.HistoryLimit = defaultHistoryLimit
	}
	if opts.Timeout <= 0 {
		opts.Timeout = defaultTimeout
	}
	return &Service{
		chatStorage:     chatStorage,
		profilesStorage: profilesStorage,
		provider:        provider,
		registry:        registry,
		bus:             bus,
		opts:            opts,
		now:             time.Now,
	}
}

func (s *Service) ListMessages(ctx context.Context, profileID uuid.UUID, limit int, before *time.Time) (*ListMessagesResponse, error) {
	userID := normalizeOwner(userIDFromContext(ctx))
	if userID == "" {
		return nil, ErrUnauthorized
	}
	if _, err := s.ensureProfileOwned(ctx, userID, profileID); err != nil {
		return nil, err
	}

	if limit <= 0 || limit > 100 {
		limit = 50
	}
	rows, nextCursorTime, err := s.chatStorage.ListMessages(ctx, userID, profileID, limit, before)
	if err != nil {
		return nil, err
	}

	messages := make([]ChatMessageDTO, 0, len(rows))
	for _, row := range rows {
		messages = append(messages, messageToDTO(row))
	}

	var nextCursor *string
	if nextCursorTime != nil {
		cursor := nextCursorTime.UTC().Format(time.RFC3339Nano)
		nextCursor = &cursor
	}

	return &ListMessagesResponse{Messages: messages, NextCursor: nextCursor}, nil
}

func (s *Service) SendMessage(ctx context.Context, req SendMessageRequest) (*SendMessageResponse, error) {
	userID := normalizeOwner(userIDFromContext(ctx))
	if userID == "" {
		return nil, ErrUnauthorized
	}

	content := strings.TrimSpace(req.Content)
	if req.ProfileID == uuid.Nil || content == "" {
		return nil, ErrInvalidRequest
	}
	if len(content) > maxContentLength {
		return nil, fmt.Errorf("%w: message too long", ErrInvalidRequest)
	}

	profile, err := s.ensureProfileOwned(ctx, userID, req.ProfileID)
	if err != nil {
		return nil, err
	}

	if _, err := s.chatStorage.InsertMessage(ctx, userID, req.ProfileID, ai.RoleUser, content); err != nil {
		return nil, err
	}

	historyRows, _, err := s.chatStorage.ListMessages(ctx, userID, req.ProfileID, s.opts.HistoryLimit, nil)
	if err != nil {
		return nil, err
	}

	turns := make([]ai.Turn, 0, len(historyRows)+1)
	turns = append(turns, ai.TextTurn(ai.RoleSystem, s.buildSystemPrompt(profile.Name)))
	for _, row := range historyRows {
		turns = append(turns, ai.TextTurn(row.Role, row.Content))
	}

	// One router per exchange: cheap to build, and closing it drops its bus
	// subscriptions so abandoned exchanges leave nothing behind.
	router := assistant.NewRouter(s.provider, s.registry, s.bus, assistant.RouterConfig{
		MaxToolCalls: s.opts.MaxToolCalls,
		MaxTokens:    s.opts.MaxTokens,
	})
	defer router.Close()

	exchangeCtx, cancel := context.WithTimeout(userctx.WithProfileID(ctx, req.ProfileID), s.opts.Timeout)
	defer cancel()

	reply, err := router.Respond(exchangeCtx, turns)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrAIFailed, err)
	}

	answer := reply.Text
	if reply.Plan != nil && answer == "" {
		answer = fmt.Sprintf("I've put together a %s plan for you: %s.", reply.Plan.Kind, reply.Plan.Title)
	}

	stored, err := s.chatStorage.InsertMessage(ctx, userID, req.ProfileID, ai.RoleAssistant, answer)
	if err != nil {
		return nil, err
	}

	return &SendMessageResponse{
		AssistantMessage: messageToDTO(stored),
		Plan:             reply.Plan,
	}, nil
}

func (s *Service) buildSystemPrompt(profileName string) string {
	return fmt.Sprintf(
		"You are Modo, a friendly wellness assistant for %s. Today is %s. "+
			"Answer briefly in plain text, or call one of the available tools to "+
			"manage tasks or generate workout, nutrition, or weekly plans. When "+
			"generating a plan, put the complete plan in the tool arguments.",
		profileName, s.now().Format("2006-01-02"),
	)
}

func (s *Service) ensureProfileOwned(ctx context.Context, userID string, profileID uuid.UUID) (*storage.Profile, error) {
	profile, err := s.profilesStorage.GetProfile(ctx, profileID)
	if err != nil {
		return nil, ErrProfileNotFound
	}
	if normalizeOwner(profile.OwnerUserID) != userID {
		return nil, ErrProfileNotFound // Don't reveal existence
	}
	return profile, nil
}

func userIDFromContext(ctx context.Context) string {
	userID, _ := userctx.GetUserID(ctx)
	return userID
}

func normalizeOwner(s string) string {
	return strings.TrimSpace(strings.ToLower(s))
}
