package handler

import (
	"errors"
	"mime/multipart"
	"net/http"

	"github.com/ringshq/rings/internal/apperr"
	"github.com/ringshq/rings/internal/ctxkeys"
	"github.com/ringshq/rings/internal/service"
)

// maxUploadMemory bounds the in-memory portion of multipart parsing; the
// image itself may be up to 10 MiB plus form overhead.
const maxUploadMemory = 12 << 20

type postHandler struct {
	ringService *service.RingService
	postService *service.PostService
}

func NewPostHandler(ringService *service.RingService, postService *service.PostService) *postHandler {
	return &postHandler{
		ringService: ringService,
		postService: postService,
	}
}

// List returns the Ring's posts in chat-log order, oldest first.
func (h *postHandler) List(w http.ResponseWriter, r *http.Request) {
	session := ctxkeys.Session(r.Context())

	ring, err := h.ringService.Authorize(session.UserID, r.PathValue("id"))
	if err != nil {
		respondError(w, r, err, "Unable to load posts. Please try again.")
		return
	}

	posts, err := h.postService.ForRing(ring.ID)
	if err != nil {
		respondError(w, r, err, "Unable to load posts. Please try again.")
		return
	}

	respondJSON(w, http.StatusOK, posts)
}

// Create accepts multipart form data: messageText plus an optional image.
// The membership gate runs before the body is parsed.
func (h *postHandler) Create(w http.ResponseWriter, r *http.Request) {
	session := ctxkeys.Session(r.Context())

	ring, err := h.ringService.Authorize(session.UserID, r.PathValue("id"))
	if err != nil {
		respondError(w, r, err, "Unable to create post. Please try again.")
		return
	}

	err = r.ParseMultipartForm(maxUploadMemory)
	if err != nil {
		respondError(w, r, apperr.Validation("Invalid multipart form data", ""), "")
		return
	}

	var image *multipart.FileHeader
	file, header, err := r.FormFile("image")
	if err == nil {
		_ = file.Close()
		image = header
	} else if !errors.Is(err, http.ErrMissingFile) {
		respondError(w, r, apperr.Validation("Unable to read uploaded image.", "image"), "")
		return
	}

	post, err := h.postService.Create(ring.ID, session, r.FormValue("messageText"), image)
	if err != nil {
		respondError(w, r, err, "Unable to create post. Please try again.")
		return
	}

	respondJSON(w, http.StatusCreated, post)
}
