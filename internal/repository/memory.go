package repository

import (
	"context"
	"sort"
	"sync"

	"snaptext-backend/internal/models"

	"github.com/google/uuid"
)

// Memory implements the pipeline's RecordStore contract with an in-process
// slice. Replace this with FeedbackRepo for production use.
type Memory struct {
	mu      sync.Mutex
	records []models.Feedback
}

func NewMemory() *Memory {
	return &Memory{}
}

func (m *Memory) Insert(ctx context.Context, record *models.Feedback) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	stored := *record
	stored.ID = uuid.New().String()
	m.records = append(m.records, stored)
	return stored.ID, nil
}

func (m *Memory) ListByCreatedAtDesc(ctx context.Context) ([]models.Feedback, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	out := make([]models.Feedback, len(m.records))
	copy(out, m.records)
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	return out, nil
}

func (m *Memory) DeleteByID(ctx context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	for i, record := range m.records {
		if record.ID == id {
			m.records = append(m.records[:i], m.records[i+1:]...)
			return nil
		}
	}
	// Missing id is not an error — deletion is idempotent.
	return nil
}
