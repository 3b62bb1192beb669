package handlers

import (
	"io"
	"log"
	"net/http"

	"snaptext-backend/internal/blobstore"

	"github.com/go-chi/chi/v5"
)

type ImageHandler struct {
	store *blobstore.GridFS
}

func NewImageHandler(store *blobstore.GridFS) *ImageHandler {
	return &ImageHandler{store: store}
}

// --- GET /images/{id} ---

// ServeImage streams a stored feedback image so the references handed out at
// ingestion time resolve in a browser.
func (h *ImageHandler) ServeImage(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	stream, contentType, err := h.store.Open(r.Context(), id)
	if err != nil {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "image not found"})
		return
	}
	defer stream.Close()

	w.Header().Set("Content-Type", contentType)
	w.Header().Set("Cache-Control", "public, max-age=86400")
	if _, err := io.Copy(w, stream); err != nil {
		log.Printf("Error streaming image %s: %v", id, err)
	}
}
