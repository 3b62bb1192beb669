// Package pipeline orchestrates "store image → extract text → persist record"
// as one logical unit of work. The three external calls are strictly ordered
// and NOT transactional: there is no compensating rollback, so a failure after
// the blob upload leaves an orphaned blob behind. That gap is inherited from
// the original design and documented rather than silently fixed.
package pipeline

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"image"
	"strings"
	"time"

	"snaptext-backend/internal/blobstore"
	"snaptext-backend/internal/models"
	"snaptext-backend/internal/ocr"

	// Image formats accepted for decoding. Anything these decoders reject is
	// a DecodeError for the pipeline.
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"

	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"
)

// SentinelNoText replaces empty extraction output so every stored record
// carries displayable text.
const SentinelNoText = "No readable text found."

// lineBreakMarker is what newlines in extracted text are normalized to. The
// rendering client treats extracted text as HTML fragments.
const lineBreakMarker = "<br>"

// Error taxonomy for the pipeline. Callers classify with errors.Is; every
// returned error wraps exactly one of these plus the underlying cause.
var (
	ErrBlobStore   = errors.New("blob store upload failed")
	ErrDecode      = errors.New("image is not a decodable raster")
	ErrExtraction  = errors.New("text extraction failed")
	ErrRecordStore = errors.New("record store operation failed")
)

// RecordStore is the narrow persistence contract the pipeline needs. The
// Mongo-backed repository implements it for production; an in-memory
// implementation backs the tests.
type RecordStore interface {
	// Insert persists the record and returns the generated id.
	Insert(ctx context.Context, record *models.Feedback) (string, error)
	// ListByCreatedAtDesc returns every record, most recent first.
	ListByCreatedAtDesc(ctx context.Context) ([]models.Feedback, error)
	// DeleteByID removes a record; deleting a missing id is not an error.
	DeleteByID(ctx context.Context, id string) error
}

// Pipeline owns the injected collaborator handles. It holds no mutable state,
// so any number of requests may run through one instance concurrently.
type Pipeline struct {
	blobs   blobstore.BlobStore
	engine  ocr.Engine
	records RecordStore
	now     func() time.Time
}

func New(blobs blobstore.BlobStore, engine ocr.Engine, records RecordStore) *Pipeline {
	return &Pipeline{
		blobs:   blobs,
		engine:  engine,
		records: records,
		now:     time.Now,
	}
}

// Ingest runs the full ingestion sequence and returns the persisted record
// with its store-assigned id. It is not idempotent: identical inputs produce
// a new record every time. On failure no partial record is ever persisted,
// but a blob uploaded before the failing step survives.
func (p *Pipeline) Ingest(ctx context.Context, imageBytes []byte, feedbackText string) (*models.Feedback, error) {
	if len(imageBytes) == 0 {
		return nil, errors.New("image is required")
	}
	if feedbackText == "" {
		return nil, errors.New("feedback text is required")
	}

	// Step 1: store the image. Failing here aborts before any other side effect.
	imageRef, err := p.blobs.Put(ctx, imageBytes, sniffContentType(imageBytes))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrBlobStore, err)
	}

	// Step 2: decode and extract. A decode failure at this point means the
	// blob from step 1 is already orphaned.
	img, _, err := image.Decode(bytes.NewReader(imageBytes))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrDecode, err)
	}

	extracted, err := p.engine.ExtractText(ctx, ocr.Grayscale(img))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrExtraction, err)
	}
	extracted = strings.TrimSpace(extracted)
	if extracted == "" {
		extracted = SentinelNoText
	}

	// Step 3: normalize line breaks for the rendering client.
	extracted = strings.ReplaceAll(extracted, "\n", lineBreakMarker)

	// Step 4: persist. A failure here also leaves the blob behind.
	record := &models.Feedback{
		Feedback:      feedbackText,
		ImageRef:      imageRef,
		ExtractedText: extracted,
		CreatedAt:     p.now().UTC(),
	}
	id, err := p.records.Insert(ctx, record)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrRecordStore, err)
	}
	record.ID = id
	return record, nil
}

// List returns every stored record sorted by creation time descending. The
// whole collection is materialized per call — no pagination, no filtering.
func (p *Pipeline) List(ctx context.Context) ([]models.Feedback, error) {
	records, err := p.records.ListByCreatedAtDesc(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrRecordStore, err)
	}
	return records, nil
}

// Delete removes a record by id. Deleting an id that no longer exists
// succeeds, so repeated deletion is idempotent. The stored blob is NOT
// deleted — orphaned images accumulate in the blob store.
func (p *Pipeline) Delete(ctx context.Context, id string) error {
	if err := p.records.DeleteByID(ctx, id); err != nil {
		return fmt.Errorf("%w: %v", ErrRecordStore, err)
	}
	return nil
}

func sniffContentType(data []byte) string {
	switch {
	case bytes.HasPrefix(data, []byte("\x89PNG\r\n\x1a\n")):
		return "image/png"
	case bytes.HasPrefix(data, []byte("\xff\xd8\xff")):
		return "image/jpeg"
	case bytes.HasPrefix(data, []byte("GIF8")):
		return "image/gif"
	case bytes.HasPrefix(data, []byte("BM")):
		return "image/bmp"
	case bytes.HasPrefix(data, []byte("II*\x00")) || bytes.HasPrefix(data, []byte("MM\x00*")):
		return "image/tiff"
	case len(data) >= 12 && bytes.Equal(data[0:4], []byte("RIFF")) && bytes.Equal(data[8:12], []byte("WEBP")):
		return "image/webp"
	default:
		return "application/octet-stream"
	}
}
