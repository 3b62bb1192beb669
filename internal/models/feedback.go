package models

import (
	"time"
)

// Feedback is the single persisted entity: one user feedback submission with
// the stored image reference and the text extracted from that image.
//
// ID is assigned by the record store at creation and is opaque to everything
// above the repository layer. CreatedAt is always UTC and marshals as RFC 3339
// with an explicit zone offset.
type Feedback struct {
	ID            string    `json:"id"`
	Feedback      string    `json:"feedback"`
	ImageRef      string    `json:"image_url"`
	ExtractedText string    `json:"extracted_text"`
	CreatedAt     time.Time `json:"created_at"`
}
