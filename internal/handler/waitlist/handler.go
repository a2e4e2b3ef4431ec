// Package waitlist exposes the signup endpoints.
package waitlist

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	waitlistService "github.com/negochallenge/backend/internal/service/waitlist"
	"github.com/negochallenge/backend/pkg/utils"
)

// Handler serves the waitlist routes.
type Handler struct {
	svc *waitlistService.Service
}

// New creates the waitlist handler.
func New(svc *waitlistService.Service) *Handler {
	return &Handler{svc: svc}
}

// RegisterRoutes mounts the waitlist routes.
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Post("/waitlist", h.handleSignup)
	r.Get("/waitlist/count", h.handleCount)
	r.Get("/waitlist/all", h.handleList)
}

type signupRequest struct {
	ContactType  string `json:"contactType"`
	ContactValue string `json:"contactValue"`
	Source       string `json:"source,omitempty"`
	ReferredBy   string `json:"referredBy,omitempty"`
}

func (h *Handler) handleSignup(w http.ResponseWriter, r *http.Request) {
	var payload signupRequest
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		utils.RespondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	result, err := h.svc.Signup(r.Context(), payload.ContactType, payload.ContactValue, payload.Source, payload.ReferredBy)
	if err != nil {
		utils.RespondError(w, http.StatusBadRequest, err.Error())
		return
	}

	status := http.StatusCreated
	message := "You're on the list!"
	if result.AlreadyJoined {
		status = http.StatusOK
		message = "You're already on the list!"
	}

	utils.RespondJSON(w, status, map[string]any{
		"message":       message,
		"referralCode":  result.Entry.ReferralCode,
		"alreadyJoined": result.AlreadyJoined,
	})
}

func (h *Handler) handleCount(w http.ResponseWriter, r *http.Request) {
	count, err := h.svc.Count(r.Context())
	if err != nil {
		utils.RespondError(w, http.StatusInternalServerError, err.Error())
		return
	}
	utils.RespondJSON(w, http.StatusOK, map[string]int{"count": count})
}

func (h *Handler) handleList(w http.ResponseWriter, r *http.Request) {
	entries, err := h.svc.List(r.Context())
	if err != nil {
		utils.RespondError(w, http.StatusInternalServerError, err.Error())
		return
	}
	utils.RespondJSON(w, http.StatusOK, map[string]any{
		"entries": entries,
		"count":   len(entries),
	})
}
