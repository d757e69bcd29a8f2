package tasks

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/LEOK66/Modo-sub000/internal/storage"
	"github.com/LEOK66/Modo-sub000/internal/storage/memory"
	"github.com/LEOK66/Modo-sub000/internal/userctx"
	"github.com/google/uuid"
)

func newTestHandlers(t *testing.T) (*Handlers, *memory.MemoryStorage, uuid.UUID) {
	t.Helper()

	mem := memory.New()
	profileA := uuid.New()
	if err := mem.CreateProfile(context.Background(), &storage.Profile{ID: profileA, OwnerUserID: "userA", Type: "owner", Name: "User A"}); err != nil {
		t.Fatalf("create profile: %v", err)
	}
	return NewHandlers(NewService(mem.GetTasksStorage(), mem)), mem, profileA
}

func TestTasksCreateAndList(t *testing.T) {
	h, _, profileA := newTestHandlers(t)
	userCtx := userctx.WithUserID(context.Background(), "userA")

	due := "2026-09-01"
	body, _ := json.Marshal(CreateTasksRequest{
		ProfileID: profileA,
		Tasks: []TaskInput{
			{Title: "Drink water", Notes: "2 liters"},
			{Title: "Evening walk", DueDate: &due},
		},
	})

	createReq := httptest.NewRequest(http.MethodPost, "/v1/tasks", bytes.NewReader(body))
	createReq = createReq.WithContext(userCtx)
	createW := httptest.NewRecorder()
	h.HandleCreateTasks(createW, createReq)

	if createW.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d body=%s", createW.Code, createW.Body.String())
	}
	var createResp CreateTasksResponse
	if err := json.NewDecoder(createW.Body).Decode(&createResp); err != nil {
		t.Fatalf("decode create response: %v", err)
	}
	if len(createResp.Tasks) != 2 {
		t.Fatalf("expected 2 tasks, got %d", len(createResp.Tasks))
	}
	for _, task := range createResp.Tasks {
		if task.Status != StatusPending {
			t.Fatalf("new tasks must be pending, got %q", task.Status)
		}
	}

	listReq := httptest.NewRequest(http.MethodGet, "/v1/tasks?profile_id="+profileA.String()+"&status=pending", nil)
	listReq = listReq.WithContext(userCtx)
	listW := httptest.NewRecorder()
	h.HandleListTasks(listW, listReq)

	if listW.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d body=%s", listW.Code, listW.Body.String())
	}
	var listResp ListTasksResponse
	if err := json.NewDecoder(listW.Body).Decode(&listResp); err != nil {
		t.Fatalf("decode list response: %v", err)
	}
	if len(listResp.Tasks) != 2 {
		t.Fatalf("expected 2 pending tasks, got %d", len(listResp.Tasks))
	}
}

func TestTasksUpdateAndDelete(t *testing.T) {
	h, _, profileA := newTestHandlers(t)
	userCtx := userctx.WithUserID(context.Background(), "userA")

	body, _ := json.Marshal(CreateTasksRequest{
		ProfileID: profileA,
		Tasks:     []TaskInput{{Title: "Stretch"}},
	})
	createReq := httptest.NewRequest(http.MethodPost, "/v1/tasks", bytes.NewReader(body))
	createReq = createReq.WithContext(userCtx)
	createW := httptest.NewRecorder()
	h.HandleCreateTasks(createW, createReq)
	if createW.Code != http.StatusCreated {
		t.Fatalf("create: %d body=%s", createW.Code, createW.Body.String())
	}
	var createResp CreateTasksResponse
	if err := json.NewDecoder(createW.Body).Decode(&createResp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	taskID := createResp.Tasks[0].ID

	done := StatusDone
	patchBody, _ := json.Marshal(UpdateTaskRequest{Status: &done})
	patchReq := httptest.NewRequest(http.MethodPatch, "/v1/tasks/"+taskID.String(), bytes.NewReader(patchBody))
	patchReq = patchReq.WithContext(userCtx)
	patchReq.SetPathValue("id", taskID.String())
	patchW := httptest.NewRecorder()
	h.HandleUpdateTask(patchW, patchReq)

	if patchW.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d body=%s", patchW.Code, patchW.Body.String())
	}
	var updated TaskDTO
	if err := json.NewDecoder(patchW.Body).Decode(&updated); err != nil {
		t.Fatalf("decode update response: %v", err)
	}
	if updated.Status != StatusDone {
		t.Fatalf("expected done, got %q", updated.Status)
	}

	deleteReq := httptest.NewRequest(http.MethodDelete, "/v1/tasks/"+taskID.String(), nil)
	deleteReq = deleteReq.WithContext(userCtx)
	deleteReq.SetPathValue("id", taskID.String())
	deleteW := httptest.NewRecorder()
	h.HandleDeleteTask(deleteW, deleteReq)

	if deleteW.Code != http.StatusNoContent {
		t.Fatalf("expected 204, got %d", deleteW.Code)
	}

	// Gone now.
	deleteAgainW := httptest.NewRecorder()
	h.HandleDeleteTask(deleteAgainW, deleteReq)
	if deleteAgainW.Code != http.StatusNotFound {
		t.Fatalf("expected 404 on second delete, got %d", deleteAgainW.Code)
	}
}

func TestTasksValidation(t *testing.T) {
	h, _, profileA := newTestHandlers(t)
	userCtx := userctx.WithUserID(context.Background(), "userA")

	bad := "not-a-date"
	body, _ := json.Marshal(CreateTasksRequest{
		ProfileID: profileA,
		Tasks:     []TaskInput{{Title: "Walk", DueDate: &bad}},
	})
	req := httptest.NewRequest(http.MethodPost, "/v1/tasks", bytes.NewReader(body))
	req = req.WithContext(userCtx)
	w := httptest.NewRecorder()
	h.HandleCreateTasks(w, req)

	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for bad due_date, got %d", w.Code)
	}
}

func TestTasksForeignProfileRejected(t *testing.T) {
	h, _, profileA := newTestHandlers(t)

	body, _ := json.Marshal(CreateTasksRequest{
		ProfileID: profileA,
		Tasks:     []TaskInput{{Title: "Spy task"}},
	})
	req := httptest.NewRequest(http.MethodPost, "/v1/tasks", bytes.NewReader(body))
	req = req.WithContext(userctx.WithUserID(context.Background(), "userB"))
	w := httptest.NewRecorder()
	h.HandleCreateTasks(w, req)

	if w.Code != http.StatusNotFound {
		t.Fatalf("expected 404 for foreign profile, got %d", w.Code)
	}
}
