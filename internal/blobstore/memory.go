package blobstore

import (
	"context"
	"sync"

	"github.com/google/uuid"
)

// Memory implements the BlobStore interface with an in-process map.
// Replace this with the GridFS store for production use.
type Memory struct {
	mu    sync.Mutex
	blobs map[string][]byte
}

func NewMemory() *Memory {
	return &Memory{blobs: make(map[string][]byte)}
}

func (m *Memory) Put(ctx context.Context, data []byte, contentType string) (string, error) {
	ref := "memory://feedback_images/" + uuid.New().String() + extensionFor(contentType)

	m.mu.Lock()
	defer m.mu.Unlock()
	m.blobs[ref] = append([]byte(nil), data...)
	return ref, nil
}

// Get returns the stored bytes for a reference, or false if unknown.
func (m *Memory) Get(ref string) ([]byte, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	data, ok := m.blobs[ref]
	return data, ok
}

// Len reports how many blobs are stored.
func (m *Memory) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.blobs)
}
