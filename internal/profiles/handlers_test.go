package profiles

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/LEOK66/Modo-sub000/internal/storage/memory"
	"github.com/LEOK66/Modo-sub000/internal/userctx"
)

func TestProfilesListCreatesOwner(t *testing.T) {
	h := NewHandlers(NewService(memory.New()))

	req := httptest.NewRequest(http.MethodGet, "/v1/profiles", nil)
	req = req.WithContext(userctx.WithUserID(context.Background(), "userA"))
	w := httptest.NewRecorder()
	h.HandleList(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d body=%s", w.Code, w.Body.String())
	}
	var resp ProfilesResponse
	if err := json.NewDecoder(w.Body).Decode(&resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(resp.Profiles) != 1 || resp.Profiles[0].Type != "owner" {
		t.Fatalf("expected an implicit owner profile, got %+v", resp.Profiles)
	}
}

func TestProfilesCreateGuestAndDelete(t *testing.T) {
	h := NewHandlers(NewService(memory.New()))
	userCtx := userctx.WithUserID(context.Background(), "userA")

	body, _ := json.Marshal(CreateProfileRequest{Type: "guest", Name: "Alex"})
	createReq := httptest.NewRequest(http.MethodPost, "/v1/profiles", bytes.NewReader(body))
	createReq = createReq.WithContext(userCtx)
	createW := httptest.NewRecorder()
	h.HandleCreate(createW, createReq)

	if createW.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d body=%s", createW.Code, createW.Body.String())
	}
	var guest ProfileDTO
	if err := json.NewDecoder(createW.Body).Decode(&guest); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if guest.Type != "guest" || guest.Name != "Alex" {
		t.Fatalf("unexpected guest: %+v", guest)
	}

	deleteReq := httptest.NewRequest(http.MethodDelete, "/v1/profiles/"+guest.ID.String(), nil)
	deleteReq = deleteReq.WithContext(userCtx)
	deleteReq.SetPathValue("id", guest.ID.String())
	deleteW := httptest.NewRecorder()
	h.HandleDelete(deleteW, deleteReq)

	if deleteW.Code != http.StatusNoContent {
		t.Fatalf("expected 204, got %d", deleteW.Code)
	}
}

func TestProfilesCannotCreateOwnerOrDeleteIt(t *testing.T) {
	svc := NewService(memory.New())
	h := NewHandlers(svc)
	userCtx := userctx.WithUserID(context.Background(), "userA")

	body, _ := json.Marshal(CreateProfileRequest{Type: "owner", Name: "Sneaky"})
	createReq := httptest.NewRequest(http.MethodPost, "/v1/profiles", bytes.NewReader(body))
	createReq = createReq.WithContext(userCtx)
	createW := httptest.NewRecorder()
	h.HandleCreate(createW, createReq)
	if createW.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for owner type, got %d", createW.Code)
	}

	owners, err := svc.ListProfiles(userCtx)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	ownerID := owners[0].ID

	deleteReq := httptest.NewRequest(http.MethodDelete, "/v1/profiles/"+ownerID.String(), nil)
	deleteReq = deleteReq.WithContext(userCtx)
	deleteReq.SetPathValue("id", ownerID.String())
	deleteW := httptest.NewRecorder()
	h.HandleDelete(deleteW, deleteReq)
	if deleteW.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 deleting owner, got %d", deleteW.Code)
	}
}

func TestProfilesUpdateForeignProfileRejected(t *testing.T) {
	svc := NewService(memory.New())
	h := NewHandlers(svc)

	owners, err := svc.ListProfiles(userctx.WithUserID(context.Background(), "userA"))
	if err != nil {
		t.Fatalf("list: %v", err)
	}

	body, _ := json.Marshal(UpdateProfileRequest{Name: "Hijacked"})
	req := httptest.NewRequest(http.MethodPatch, "/v1/profiles/"+owners[0].ID.String(), bytes.NewReader(body))
	req = req.WithContext(userctx.WithUserID(context.Background(), "userB"))
	req.SetPathValue("id", owners[0].ID.String())
	w := httptest.NewRecorder()
	h.HandleUpdate(w, req)

	if w.Code != http.StatusNotFound {
		t.Fatalf("expected 404 for foreign profile, got %d", w.Code)
	}
}
