package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"strings"
	"time"

	"snaptext-backend/internal/blobstore"
	"snaptext-backend/internal/database"
	"snaptext-backend/internal/handlers"
	"snaptext-backend/internal/notify"
	"snaptext-backend/internal/ocr"
	"snaptext-backend/internal/pipeline"
	"snaptext-backend/internal/repository"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/joho/godotenv"
)

func main() {
	// Load .env (ignore error in production — env vars set directly)
	_ = godotenv.Load()

	mongoURI := getEnv("MONGODB_URI", "")
	dbName := getEnv("DB_NAME", "snaptext")
	port := getEnv("PORT", "8080")
	baseURL := getEnv("PUBLIC_BASE_URL", "http://localhost:"+port)

	if mongoURI == "" {
		log.Fatal("❌ MONGODB_URI is required")
	}

	// Connect to MongoDB
	db, err := database.Connect(mongoURI, dbName)
	if err != nil {
		log.Fatalf("❌ Failed to connect to MongoDB: %v", err)
	}

	// Initialize the record store
	feedbackRepo := repository.NewFeedbackRepo(db)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := feedbackRepo.EnsureIndexes(ctx); err != nil {
		log.Printf("⚠️  Warning: failed to create feedback indexes: %v", err)
	}

	// Blob store shares the Mongo deployment via GridFS
	blobs := blobstore.NewGridFS(db, baseURL)

	// Tesseract-backed extraction engine
	var languages []string
	if langs := getEnv("TESSERACT_LANGS", ""); langs != "" {
		languages = strings.Split(langs, ",")
	}
	engine := ocr.NewTesseractEngine(languages...)
	log.Printf("🔎 OCR engine: %s", engine.Name())

	// Ingestion pipeline owns the injected collaborator handles
	pipe := pipeline.New(blobs, engine, feedbackRepo)

	// Email notifier if configured, mock otherwise
	var notifier notify.Notifier
	if apiKey := getEnv("RESEND_API_KEY", ""); apiKey != "" {
		notifier = notify.NewEmail(apiKey, getEnv("FROM_EMAIL", ""), getEnv("FEEDBACK_NOTIFY_EMAIL", ""))
	} else {
		log.Println("⚠️  RESEND_API_KEY not set, feedback notifications are logged only")
		notifier = notify.NewMock()
	}

	// Initialize handlers
	feedbackHandler := handlers.NewFeedbackHandler(pipe, notifier)
	imageHandler := handlers.NewImageHandler(blobs)

	// Setup chi router
	r := chi.NewRouter()

	// Global middleware
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.RealIP)
	r.Use(middleware.RequestID)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"*"},
		AllowedMethods:   []string{"GET", "POST", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		ExposedHeaders:   []string{"Link"},
		AllowCredentials: false,
		MaxAge:           300,
	}))

	// Health check
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"status":"ok","service":"snaptext-backend"}`))
	})

	r.Post("/feedback", feedbackHandler.SubmitFeedback)
	r.Get("/feedback", feedbackHandler.ListFeedback)
	r.Delete("/feedback/{id}", feedbackHandler.DeleteFeedback)
	r.Get("/images/{id}", imageHandler.ServeImage)

	// Start server
	log.Printf("🚀 Snaptext backend starting on port %s", port)
	if err := http.ListenAndServe(":"+port, r); err != nil {
		log.Fatalf("❌ Server failed: %v", err)
	}
}

func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}
