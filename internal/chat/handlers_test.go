package chat

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/LEOK66/Modo-sub000/internal/ai"
	"github.com/LEOK66/Modo-sub000/internal/assistant"
	"github.com/LEOK66/Modo-sub000/internal/plans"
	"github.com/LEOK66/Modo-sub000/internal/storage"
	"github.com/LEOK66/Modo-sub000/internal/storage/memory"
	"github.com/LEOK66/Modo-sub000/internal/tasks"
	"github.com/LEOK66/Modo-sub000/internal/tools"
	"github.com/LEOK66/Modo-sub000/internal/userctx"
	"github.com/google/uuid"
)

func newChatFixture(t *testing.T) (*Handlers, *memory.MemoryStorage, uuid.UUID) {
	t.Helper()

	mem := memory.New()
	profileID := uuid.New()
	if err := mem.CreateProfile(context.Background(), &storage.Profile{ID: profileID, OwnerUserID: "userA", Type: "owner", Name: "User A"}); err != nil {
		t.Fatalf("create profile: %v", err)
	}

	registry := assistant.NewRegistry()
	bus := assistant.NewBus()
	tools.RegisterAll(registry, bus,
		tasks.NewService(mem.GetTasksStorage(), mem),
		plans.NewService(mem.GetPlansStorage(), mem),
	)

	svc := NewService(mem.GetChatStorage(), mem, ai.NewMockProvider(), registry, bus, Options{})
	return NewHandlers(svc), mem, profileID
}

func sendMessage(t *testing.T, h *Handlers, profileID uuid.UUID, userID, content string) *httptest.ResponseRecorder {
	t.Helper()

	body, _ := json.Marshal(SendMessageRequest{ProfileID: profileID, Content: content})
	req := httptest.NewRequest(http.MethodPost, "/v1/chat/messages", bytes.NewReader(body))
	req = req.WithContext(userctx.WithUserID(context.Background(), userID))
	w := httptest.NewRecorder()
	h.HandleSendMessage(w, req)
	return w
}

func TestChatPlainTextAnswer(t *testing.T) {
	h, _, profileID := newChatFixture(t)

	w := sendMessage(t, h, profileID, "userA", "hello there")
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d body=%s", w.Code, w.Body.String())
	}

	var resp SendMessageResponse
	if err := json.NewDecoder(w.Body).Decode(&resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if resp.AssistantMessage.Content == "" {
		t.Fatal("expected a non-empty assistant answer")
	}
	if resp.Plan != nil {
		t.Fatalf("plain chat must not produce a plan, got %+v", resp.Plan)
	}
}

func TestChatTaskToolRoundTrip(t *testing.T) {
	h, mem, profileID := newChatFixture(t)

	w := sendMessage(t, h, profileID, "userA", "remind me to drink water, add a task")
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d body=%s", w.Code, w.Body.String())
	}

	var resp SendMessageResponse
	if err := json.NewDecoder(w.Body).Decode(&resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if !strings.Contains(resp.AssistantMessage.Content, "create_tasks") {
		t.Fatalf("expected the mock's post-tool answer, got %q", resp.AssistantMessage.Content)
	}

	// The async tool really created the task.
	created, err := tasks.NewService(mem.GetTasksStorage(), mem).List(
		userctx.WithUserID(context.Background(), "userA"), profileID, "", 0)
	if err != nil {
		t.Fatalf("list tasks: %v", err)
	}
	if len(created.Tasks) != 1 {
		t.Fatalf("expected 1 task created through the tool, got %d", len(created.Tasks))
	}
}

func TestChatWorkoutPlanIsTerminal(t *testing.T) {
	h, mem, profileID := newChatFixture(t)

	w := sendMessage(t, h, profileID, "userA", "build me a workout for tomorrow")
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d body=%s", w.Code, w.Body.String())
	}

	var resp SendMessageResponse
	if err := json.NewDecoder(w.Body).Decode(&resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if resp.Plan == nil || resp.Plan.Kind != plans.KindWorkout {
		t.Fatalf("expected a workout plan in the response, got %+v", resp.Plan)
	}
	if resp.AssistantMessage.Content == "" {
		t.Fatal("plan responses still carry an assistant message")
	}

	// Plan persisted and retrievable.
	stored, err := plans.NewService(mem.GetPlansStorage(), mem).Get(
		userctx.WithUserID(context.Background(), "userA"), resp.Plan.ID)
	if err != nil {
		t.Fatalf("stored plan not found: %v", err)
	}
	if stored.Title != resp.Plan.Title {
		t.Fatalf("stored title %q != returned %q", stored.Title, resp.Plan.Title)
	}
}

func TestChatHistoryListing(t *testing.T) {
	h, _, profileID := newChatFixture(t)

	if w := sendMessage(t, h, profileID, "userA", "hello"); w.Code != http.StatusOK {
		t.Fatalf("send: %d body=%s", w.Code, w.Body.String())
	}

	req := httptest.NewRequest(http.MethodGet, "/v1/chat/messages?profile_id="+profileID.String(), nil)
	req = req.WithContext(userctx.WithUserID(context.Background(), "userA"))
	w := httptest.NewRecorder()
	h.HandleListMessages(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d body=%s", w.Code, w.Body.String())
	}
	var resp ListMessagesResponse
	if err := json.NewDecoder(w.Body).Decode(&resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	// One user turn plus one assistant turn.
	if len(resp.Messages) != 2 {
		t.Fatalf("expected 2 messages, got %d", len(resp.Messages))
	}
	if resp.Messages[0].Role != ai.RoleUser || resp.Messages[1].Role != ai.RoleAssistant {
		t.Fatalf("unexpected roles: %+v", resp.Messages)
	}
}

func TestChatForeignProfileRejected(t *testing.T) {
	h, _, profileID := newChatFixture(t)

	w := sendMessage(t, h, profileID, "userB", "hello")
	if w.Code != http.StatusNotFound {
		t.Fatalf("expected 404 for foreign profile, got %d", w.Code)
	}
}

func TestChatEmptyMessageRejected(t *testing.T) {
	h, _, profileID := newChatFixture(t)

	w := sendMessage(t, h, profileID, "userA", "   ")
	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for empty content, got %d", w.Code)
	}
}
