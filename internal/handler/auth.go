package handler

import (
	"encoding/json"
	"net/http"

	"github.com/ringshq/rings/internal/apperr"
	"github.com/ringshq/rings/internal/ctxkeys"
	"github.com/ringshq/rings/internal/service"
)

type authHandler struct {
	authService *service.AuthService
}

func NewAuthHandler(authService *service.AuthService) *authHandler {
	return &authHandler{authService: authService}
}

type credentialsRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// Register creates the account and logs the new user straight in.
func (h *authHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req credentialsRequest
	err := json.NewDecoder(r.Body).Decode(&req)
	if err != nil {
		respondError(w, r, apperr.Validation("Invalid request body", ""), "")
		return
	}

	user, err := h.authService.Register(req.Username, req.Password)
	if err != nil {
		respondError(w, r, err, "An error occurred during registration. Please try again.")
		return
	}

	token, err := h.authService.GenerateSessionToken(user)
	if err != nil {
		respondError(w, r, err, "An error occurred during registration. Please try again.")
		return
	}
	h.authService.SetSessionCookie(w, token)

	respondJSON(w, http.StatusCreated, user.Public())
}

func (h *authHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req credentialsRequest
	err := json.NewDecoder(r.Body).Decode(&req)
	if err != nil || req.Username == "" || req.Password == "" {
		respondError(w, r, apperr.Validation("Username and password are required", ""), "")
		return
	}

	user, err := h.authService.Login(req.Username, req.Password)
	if err != nil {
		respondError(w, r, err, "An error occurred during login. Please try again.")
		return
	}

	token, err := h.authService.GenerateSessionToken(user)
	if err != nil {
		respondError(w, r, err, "An error occurred during login. Please try again.")
		return
	}
	h.authService.SetSessionCookie(w, token)

	respondJSON(w, http.StatusOK, user.Public())
}

func (h *authHandler) Logout(w http.ResponseWriter, r *http.Request) {
	h.authService.ClearSessionCookie(w)
	respondJSON(w, http.StatusOK, map[string]string{"message": "Logged out successfully"})
}

func (h *authHandler) Me(w http.ResponseWriter, r *http.Request) {
	session := ctxkeys.Session(r.Context())

	user, err := h.authService.ByID(session.UserID)
	if err != nil {
		respondError(w, r, err, "Unable to load account. Please try again.")
		return
	}

	respondJSON(w, http.StatusOK, user.Public())
}
