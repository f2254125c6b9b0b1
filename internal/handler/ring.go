package handler

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/ringshq/rings/internal/apperr"
	"github.com/ringshq/rings/internal/ctxkeys"
	"github.com/ringshq/rings/internal/service"
)

type ringHandler struct {
	ringService *service.RingService
}

func NewRingHandler(ringService *service.RingService) *ringHandler {
	return &ringHandler{ringService: ringService}
}

// List returns the caller's Rings with member counts, optionally filtered
// by a name substring.
func (h *ringHandler) List(w http.ResponseWriter, r *http.Request) {
	session := ctxkeys.Session(r.Context())

	rings, err := h.ringService.ForUser(session.UserID, r.URL.Query().Get("search"))
	if err != nil {
		respondError(w, r, err, "Unable to load rings. Please try again.")
		return
	}

	respondJSON(w, http.StatusOK, rings)
}

type createRingRequest struct {
	Name string `json:"name"`
}

func (h *ringHandler) Create(w http.ResponseWriter, r *http.Request) {
	session := ctxkeys.Session(r.Context())

	var req createRingRequest
	err := json.NewDecoder(r.Body).Decode(&req)
	if err != nil {
		respondError(w, r, apperr.Validation("Invalid request body", ""), "")
		return
	}

	ring, err := h.ringService.Create(req.Name, session.UserID)
	if err != nil {
		respondError(w, r, err, "Unable to create ring. Please try again.")
		return
	}

	respondJSON(w, http.StatusCreated, ring)
}

// Search finds Rings by name substring regardless of membership.
func (h *ringHandler) Search(w http.ResponseWriter, r *http.Request) {
	session := ctxkeys.Session(r.Context())

	rings, err := h.ringService.Search(r.URL.Query().Get("q"), session.UserID)
	if err != nil {
		respondError(w, r, err, "Unable to search rings. Please try again.")
		return
	}

	respondJSON(w, http.StatusOK, rings)
}

func (h *ringHandler) Join(w http.ResponseWriter, r *http.Request) {
	session := ctxkeys.Session(r.Context())

	ring, err := h.ringService.Join(session.UserID, r.PathValue("id"))
	if err != nil {
		respondError(w, r, err, "Unable to join Ring. Please try again.")
		return
	}

	respondJSON(w, http.StatusOK, ring)
}

func (h *ringHandler) Get(w http.ResponseWriter, r *http.Request) {
	session := ctxkeys.Session(r.Context())

	ring, err := h.ringService.Authorize(session.UserID, r.PathValue("id"))
	if err != nil {
		respondError(w, r, err, "Unable to load ring details. Please try again.")
		return
	}

	summary, err := h.ringService.Summary(ring)
	if err != nil {
		respondError(w, r, err, "Unable to load ring details. Please try again.")
		return
	}

	respondJSON(w, http.StatusOK, summary)
}

func (h *ringHandler) Members(w http.ResponseWriter, r *http.Request) {
	session := ctxkeys.Session(r.Context())

	ring, err := h.ringService.Authorize(session.UserID, r.PathValue("id"))
	if err != nil {
		respondError(w, r, err, "Unable to load member count. Please try again.")
		return
	}

	summary, err := h.ringService.Summary(ring)
	if err != nil {
		respondError(w, r, err, "Unable to load member count. Please try again.")
		return
	}

	respondJSON(w, http.StatusOK, map[string]int{"memberCount": summary.MemberCount})
}

type addMemberRequest struct {
	Username string `json:"username"`
}

func (h *ringHandler) AddMember(w http.ResponseWriter, r *http.Request) {
	session := ctxkeys.Session(r.Context())
	ringID := r.PathValue("id")

	var req addMemberRequest
	err := json.NewDecoder(r.Body).Decode(&req)
	if err != nil {
		respondError(w, r, apperr.Validation("Invalid request body", ""), "")
		return
	}

	user, err := h.ringService.AddMember(ringID, session.UserID, req.Username)
	if err != nil {
		respondError(w, r, err, "Unable to add user to ring. Please try again.")
		return
	}

	respondJSON(w, http.StatusOK, map[string]string{
		"message":  fmt.Sprintf("User '%s' has been added to the Ring.", user.Username),
		"ringId":   ringID,
		"userId":   user.ID,
		"username": user.Username,
	})
}
