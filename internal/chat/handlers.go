package chat

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/LEOK66/Modo-sub000/internal/ai"
	"github.com/LEOK66/Modo-sub000/internal/assistant"
	"github.com/LEOK66/Modo-sub000/internal/plans"
	"github.com/google/uuid"
)

type Handlers struct {
	service *Service
}

func NewHandlers(service *Service) *Handlers {
	return &Handlers{service: service}
}

// HandleSendMessage runs one conversational exchange.
// POST /v1/chat/messages
func (h *Handlers) HandleSendMessage(w http.ResponseWriter, r *http.Request) {
	var req SendMessageRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_payload", "invalid JSON body")
		return
	}

	resp, err := h.service.SendMessage(r.Context(), req)
	if err != nil {
		h.handleError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

// HandleListMessages returns conversation history, newest page last.
// GET /v1/chat/messages?profile_id=<uuid>&limit=N&before=<RFC3339>
func (h *Handlers) HandleListMessages(w http.ResponseWriter, r *http.Request) {
	profileIDRaw := strings.TrimSpace(r.URL.Query().Get("profile_id"))
	if profileIDRaw == "" {
		writeError(w, http.StatusBadRequest, "invalid_request", "profile_id is required")
		return
	}
	profileID, err := uuid.Parse(profileIDRaw)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request", "invalid profile_id")
		return
	}

	limit := 0
	if limitRaw := strings.TrimSpace(r.URL.Query().Get("limit")); limitRaw != "" {
		limit, err = strconv.Atoi(limitRaw)
		if err != nil || limit < 0 {
			writeError(w, http.StatusBadRequest, "invalid_request", "invalid limit")
			return
		}
	}

	var before *time.Time
	if beforeRaw := strings.TrimSpace(r.URL.Query().Get("before")); beforeRaw != "" {
		parsed, err := time.Parse(time.RFC3339Nano, beforeRaw)
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid_request", "invalid before cursor")
			return
		}
		before = &parsed
	}

	resp, err := h.service.ListMessages(r.Context(), profileID, limit, before)
	if err != nil {
		h.handleError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (h *Handlers) handleError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, ErrUnauthorized):
		writeError(w, http.StatusUnauthorized, "unauthorized", "authentication required")
	case errors.Is(err, ErrProfileNotFound):
		writeError(w, http.StatusNotFound, "profile_not_found", "profile not found")
	case errors.Is(err, ErrInvalidRequest):
		writeError(w, http.StatusBadRequest, "invalid_request", err.Error())
	case errors.Is(err, ai.ErrRateLimited):
		writeError(w, http.StatusTooManyRequests, "ai_rate_limited", "the assistant is busy, try again in a moment")
	case errors.Is(err, plans.ErrEmptyPlan):
		writeError(w, http.StatusBadGateway, "empty_plan", "the assistant produced an empty plan, try rephrasing")
	case errors.Is(err, plans.ErrTruncatedResponse):
		writeError(w, http.StatusBadGateway, "truncated_response", "the assistant's plan was cut off, try again")
	case errors.Is(err, assistant.ErrChainDepthExceeded):
		writeError(w, http.StatusBadGateway, "chain_depth_exceeded", "the assistant got stuck in a tool loop")
	case errors.Is(err, ErrAIFailed):
		writeError(w, http.StatusBadGateway, "ai_failed", "the assistant is unavailable right now")
	default:
		writeError(w, http.StatusInternalServerError, "internal_error", "internal server error")
	}
}

func writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func writeError(w http.ResponseWriter, status int, code, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(ErrorResponse{Error: ErrorDetail{Code: code, Message: message}})
}
