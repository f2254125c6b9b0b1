package handler

import (
	"net/http"

	"github.com/ringshq/rings/internal/ctxkeys"
	"github.com/ringshq/rings/internal/service"
)

type feedHandler struct {
	postService *service.PostService
}

func NewFeedHandler(postService *service.PostService) *feedHandler {
	return &feedHandler{postService: postService}
}

// Feed returns the caller's cross-Ring news feed, newest first.
func (h *feedHandler) Feed(w http.ResponseWriter, r *http.Request) {
	session := ctxkeys.Session(r.Context())

	posts, err := h.postService.Feed(session.UserID, r.URL.Query().Get("search"))
	if err != nil {
		respondError(w, r, err, "Unable to load news feed. Please try again.")
		return
	}

	respondJSON(w, http.StatusOK, posts)
}
