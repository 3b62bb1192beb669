package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"

	"snaptext-backend/internal/models"
	"snaptext-backend/internal/notify"
	"snaptext-backend/internal/pipeline"

	"github.com/go-chi/chi/v5"
)

// maxUploadBytes caps multipart memory buffering; larger files spill to disk.
const maxUploadBytes = 10 << 20 // 10 MB

type FeedbackHandler struct {
	pipeline *pipeline.Pipeline
	notifier notify.Notifier
}

func NewFeedbackHandler(p *pipeline.Pipeline, notifier notify.Notifier) *FeedbackHandler {
	return &FeedbackHandler{
		pipeline: p,
		notifier: notifier,
	}
}

// --- POST /feedback ---

// SubmitFeedback accepts a multipart form with an "image" file and a
// "feedback" text field, runs the ingestion pipeline, and returns the
// persisted record.
func (h *FeedbackHandler) SubmitFeedback(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid multipart form"})
		return
	}

	feedbackText := r.FormValue("feedback")
	if feedbackText == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "feedback text is required"})
		return
	}

	file, _, err := r.FormFile("image")
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "image file is required"})
		return
	}
	defer file.Close()

	imageBytes, err := io.ReadAll(file)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "failed to read image"})
		return
	}

	record, err := h.pipeline.Ingest(r.Context(), imageBytes, feedbackText)
	if err != nil {
		log.Printf("Error ingesting feedback: %v", err)
		writeJSON(w, statusForIngestError(err), map[string]string{"error": err.Error()})
		return
	}

	// Fire the notification in a background goroutine (non-blocking)
	go func() {
		message := formatNotification(record)
		if err := h.notifier.Publish(context.Background(), "New feedback received", message); err != nil {
			log.Printf("Error publishing notification: %v", err)
		}
	}()

	writeJSON(w, http.StatusCreated, map[string]interface{}{
		"message":  "feedback submitted successfully",
		"feedback": record,
	})
}

// --- GET /feedback ---

func (h *FeedbackHandler) ListFeedback(w http.ResponseWriter, r *http.Request) {
	records, err := h.pipeline.List(r.Context())
	if err != nil {
		log.Printf("Error listing feedback: %v", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "failed to list feedback"})
		return
	}
	if records == nil {
		records = []models.Feedback{}
	}
	writeJSON(w, http.StatusOK, records)
}

// --- DELETE /feedback/{id} ---

func (h *FeedbackHandler) DeleteFeedback(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if id == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "feedback id is required"})
		return
	}

	if err := h.pipeline.Delete(r.Context(), id); err != nil {
		log.Printf("Error deleting feedback %s: %v", id, err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "failed to delete feedback"})
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{
		"message": "feedback deleted successfully",
	})
}

func statusForIngestError(err error) int {
	switch {
	case errors.Is(err, pipeline.ErrDecode):
		return http.StatusBadRequest
	case errors.Is(err, pipeline.ErrBlobStore), errors.Is(err, pipeline.ErrExtraction):
		return http.StatusBadGateway
	case errors.Is(err, pipeline.ErrRecordStore):
		return http.StatusInternalServerError
	default:
		// Input validation errors from the pipeline itself.
		return http.StatusBadRequest
	}
}

func formatNotification(record *models.Feedback) string {
	return fmt.Sprintf("Feedback: %s\nExtracted text: %s\nImage: %s",
		record.Feedback, record.ExtractedText, record.ImageRef)
}

func writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}
