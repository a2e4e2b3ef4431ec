// Package negotiation exposes the chat endpoint and the session views.
package negotiation

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	negotiationService "github.com/negochallenge/backend/internal/service/negotiation"
	"github.com/negochallenge/backend/internal/store"
	"github.com/negochallenge/backend/pkg/utils"
)

// Handler serves the negotiation REST routes.
type Handler struct {
	svc *negotiationService.Service
}

// New creates the negotiation handler.
func New(svc *negotiationService.Service) *Handler {
	return &Handler{svc: svc}
}

// RegisterRoutes mounts the chat and session routes.
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Post("/chat", h.handleChat)
	r.Get("/sessions/all", h.handleListSessions)
	r.Get("/sessions/stats", h.handleStats)
	r.Get("/sessions/{sessionID}", h.handleSessionDetail)
}

type chatRequest struct {
	SessionID  string `json:"sessionId"`
	Message    string `json:"userMessage"`
	ReferredBy string `json:"referredBy,omitempty"`
}

// handleChat runs one buyer turn through the pipeline.
func (h *Handler) handleChat(w http.ResponseWriter, r *http.Request) {
	var payload chatRequest
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		utils.RespondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	payload.SessionID = strings.TrimSpace(payload.SessionID)
	if payload.SessionID == "" {
		utils.RespondError(w, http.StatusBadRequest, "sessionId is required")
		return
	}
	if strings.TrimSpace(payload.Message) == "" {
		utils.RespondError(w, http.StatusBadRequest, "userMessage is required")
		return
	}

	result, err := h.svc.ProcessTurn(r.Context(), payload.SessionID, payload.Message, payload.ReferredBy)
	if err != nil {
		utils.RespondError(w, http.StatusInternalServerError, err.Error())
		return
	}

	utils.RespondJSON(w, http.StatusOK, result)
}

// handleListSessions returns every session for the admin view.
func (h *Handler) handleListSessions(w http.ResponseWriter, r *http.Request) {
	sessions, err := h.svc.Sessions(r.Context())
	if err != nil {
		utils.RespondError(w, http.StatusInternalServerError, err.Error())
		return
	}
	utils.RespondJSON(w, http.StatusOK, map[string]any{
		"sessions": sessions,
		"count":    len(sessions),
	})
}

// handleStats returns the dashboard aggregates.
func (h *Handler) handleStats(w http.ResponseWriter, r *http.Request) {
	stats, err := h.svc.Stats(r.Context())
	if err != nil {
		utils.RespondError(w, http.StatusInternalServerError, err.Error())
		return
	}
	utils.RespondJSON(w, http.StatusOK, stats)
}

// handleSessionDetail returns one session's transcript.
func (h *Handler) handleSessionDetail(w http.ResponseWriter, r *http.Request) {
	sessionID := chi.URLParam(r, "sessionID")

	detail, err := h.svc.SessionDetail(r.Context(), sessionID)
	if err != nil {
		if errors.Is(err, store.ErrSessionNotFound) {
			utils.RespondError(w, http.StatusNotFound, "session not found")
			return
		}
		utils.RespondError(w, http.StatusInternalServerError, err.Error())
		return
	}
	utils.RespondJSON(w, http.StatusOK, detail)
}
