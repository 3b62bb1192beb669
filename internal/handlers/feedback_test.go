package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"image"
	"image/png"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"

	"snaptext-backend/internal/blobstore"
	"snaptext-backend/internal/models"
	"snaptext-backend/internal/notify"
	"snaptext-backend/internal/pipeline"
	"snaptext-backend/internal/repository"

	"github.com/go-chi/chi/v5"
)

type stubEngine struct {
	text string
}

func (s *stubEngine) Name() string { return "stub" }

func (s *stubEngine) ExtractText(ctx context.Context, img image.Image) (string, error) {
	return s.text, nil
}

func newTestRouter(extracted string) chi.Router {
	pipe := pipeline.New(blobstore.NewMemory(), &stubEngine{text: extracted}, repository.NewMemory())
	h := NewFeedbackHandler(pipe, notify.NewMock())

	r := chi.NewRouter()
	r.Post("/feedback", h.SubmitFeedback)
	r.Get("/feedback", h.ListFeedback)
	r.Delete("/feedback/{id}", h.DeleteFeedback)
	return r
}

func multipartBody(t *testing.T, imageBytes []byte, feedback string) (*bytes.Buffer, string) {
	t.Helper()
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)

	if imageBytes != nil {
		part, err := w.CreateFormFile("image", "upload.png")
		if err != nil {
			t.Fatalf("create form file: %v", err)
		}
		if _, err := part.Write(imageBytes); err != nil {
			t.Fatalf("write image part: %v", err)
		}
	}
	if feedback != "" {
		if err := w.WriteField("feedback", feedback); err != nil {
			t.Fatalf("write feedback field: %v", err)
		}
	}
	if err := w.Close(); err != nil {
		t.Fatalf("close multipart writer: %v", err)
	}
	return &buf, w.FormDataContentType()
}

func testPNG(t *testing.T) []byte {
	t.Helper()
	img := image.NewGray(image.Rect(0, 0, 8, 8))
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatalf("encode test png: %v", err)
	}
	return buf.Bytes()
}

type submitResponse struct {
	Message  string          `json:"message"`
	Feedback models.Feedback `json:"feedback"`
}

func TestSubmitListDeleteFlow(t *testing.T) {
	router := newTestRouter("HELLO")

	body, contentType := multipartBody(t, testPNG(t), "great app")
	req := httptest.NewRequest(http.MethodPost, "/feedback", body)
	req.Header.Set("Content-Type", contentType)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusCreated {
		t.Fatalf("POST /feedback status = %d, body %s", rec.Code, rec.Body.String())
	}
	var submitted submitResponse
	if err := json.NewDecoder(rec.Body).Decode(&submitted); err != nil {
		t.Fatalf("decode submit response: %v", err)
	}
	if submitted.Feedback.ID == "" {
		t.Fatal("expected a record id in the response")
	}
	if submitted.Feedback.ExtractedText != "HELLO" {
		t.Fatalf("unexpected extracted text: %q", submitted.Feedback.ExtractedText)
	}

	// List contains the record.
	req = httptest.NewRequest(http.MethodGet, "/feedback", nil)
	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("GET /feedback status = %d", rec.Code)
	}
	var listed []models.Feedback
	if err := json.NewDecoder(rec.Body).Decode(&listed); err != nil {
		t.Fatalf("decode list response: %v", err)
	}
	if len(listed) != 1 || listed[0].ID != submitted.Feedback.ID {
		t.Fatalf("expected the submitted record, got %+v", listed)
	}

	// Delete twice — both succeed.
	for i := 0; i < 2; i++ {
		req = httptest.NewRequest(http.MethodDelete, "/feedback/"+submitted.Feedback.ID, nil)
		rec = httptest.NewRecorder()
		router.ServeHTTP(rec, req)
		if rec.Code != http.StatusOK {
			t.Fatalf("DELETE attempt %d status = %d", i+1, rec.Code)
		}
	}

	// The record is gone.
	req = httptest.NewRequest(http.MethodGet, "/feedback", nil)
	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	listed = nil
	if err := json.NewDecoder(rec.Body).Decode(&listed); err != nil {
		t.Fatalf("decode list response: %v", err)
	}
	if len(listed) != 0 {
		t.Fatalf("expected empty list after delete, got %+v", listed)
	}
}

func TestSubmitRequiresFeedbackText(t *testing.T) {
	router := newTestRouter("HELLO")

	body, contentType := multipartBody(t, testPNG(t), "")
	req := httptest.NewRequest(http.MethodPost, "/feedback", body)
	req.Header.Set("Content-Type", contentType)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
}

func TestSubmitRequiresImage(t *testing.T) {
	router := newTestRouter("HELLO")

	body, contentType := multipartBody(t, nil, "great app")
	req := httptest.NewRequest(http.MethodPost, "/feedback", body)
	req.Header.Set("Content-Type", contentType)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
}

func TestSubmitRejectsUndecodableImage(t *testing.T) {
	router := newTestRouter("HELLO")

	body, contentType := multipartBody(t, []byte("not an image"), "great app")
	req := httptest.NewRequest(http.MethodPost, "/feedback", body)
	req.Header.Set("Content-Type", contentType)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
}

func TestListReturnsEmptyArrayNotNull(t *testing.T) {
	router := newTestRouter("HELLO")

	req := httptest.NewRequest(http.MethodGet, "/feedback", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("GET /feedback status = %d", rec.Code)
	}
	if got := bytes.TrimSpace(rec.Body.Bytes()); !bytes.Equal(got, []byte("[]")) {
		t.Fatalf("expected [] body, got %s", got)
	}
}
