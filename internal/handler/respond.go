package handler

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/ringshq/rings/internal/apperr"
	"github.com/ringshq/rings/internal/ctxkeys"
)

// statusFor maps the closed error taxonomy to HTTP status codes. This is
// the only place the mapping exists; no other layer knows about HTTP.
func statusFor(code apperr.Code) int {
	switch code {
	case apperr.CodeValidation:
		return http.StatusBadRequest
	case apperr.CodeUnauthorized, apperr.CodeInvalidCredentials:
		return http.StatusUnauthorized
	case apperr.CodeForbidden:
		return http.StatusForbidden
	case apperr.CodeRingNotFound, apperr.CodeUserNotFound:
		return http.StatusNotFound
	case apperr.CodeUsernameExists, apperr.CodeRingNameExists, apperr.CodeAlreadyMember:
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

func respondJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	err := json.NewEncoder(w).Encode(v)
	if err != nil {
		slog.Error("failed to encode response", "error", err)
	}
}

// respondError writes the error envelope. Taxonomy errors pass through with
// their code and message; anything else degrades to a generic internal
// error for the caller while the specific cause is logged with the request
// correlation id for operator diagnosis.
func respondError(w http.ResponseWriter, r *http.Request, err error, fallback string) {
	var appErr *apperr.Error
	if errors.As(err, &appErr) {
		respondJSON(w, statusFor(appErr.Code), appErr.Body())
		return
	}

	userID := ""
	if session := ctxkeys.Session(r.Context()); session != nil {
		userID = session.UserID
	}

	slog.Error("request failed",
		"error", err,
		"method", r.Method,
		"path", r.URL.Path,
		"user_id", userID,
		"request_id", ctxkeys.RequestID(r.Context()),
	)

	respondJSON(w, http.StatusInternalServerError, apperr.Internal(fallback).Body())
}
