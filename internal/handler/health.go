package handler

import (
	"net/http"
	"time"

	"github.com/jmoiron/sqlx"
)

type healthHandler struct {
	db *sqlx.DB
}

func NewHealthHandler(db *sqlx.DB) *healthHandler {
	return &healthHandler{db: db}
}

type healthResponse struct {
	Status    string    `json:"status"`
	Timestamp time.Time `json:"timestamp"`
	Database  string    `json:"database"`
}

func (h *healthHandler) Health(w http.ResponseWriter, r *http.Request) {
	resp := healthResponse{
		Status:    "healthy",
		Timestamp: time.Now().UTC(),
		Database:  "connected",
	}

	err := h.db.PingContext(r.Context())
	if err != nil {
		resp.Status = "unhealthy"
		resp.Database = "disconnected"
		respondJSON(w, http.StatusServiceUnavailable, resp)
		return
	}

	respondJSON(w, http.StatusOK, resp)
}
