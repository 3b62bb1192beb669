package blobstore

import "context"

// BlobStore is the narrow contract the ingestion pipeline needs from image
// storage: store bytes, get back a stable reference a rendering client can
// resolve later. Retrieval and deletion are deliberately not part of this
// contract — the pipeline never reads blobs back and never deletes them.
type BlobStore interface {
	Put(ctx context.Context, data []byte, contentType string) (string, error)
}
