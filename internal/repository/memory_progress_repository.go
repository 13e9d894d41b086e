package repository

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"sentinel-server/internal/models"
)

var _ ProgressRepository = (*MemoryProgressRepository)(nil)

// MemoryProgressRepository is an in-memory ProgressRepository used in tests
// and for running the server without a database. It copies records on the way
// in and out so callers never alias stored state.
type MemoryProgressRepository struct {
	mu      sync.RWMutex
	records map[uuid.UUID]*models.Progress

	// Writes counts Replace calls; tests use it to assert that idempotent
	// operations do not touch the store.
	Writes int
}

// NewMemoryProgressRepository creates an empty in-memory store.
func NewMemoryProgressRepository() *MemoryProgressRepository {
	return &MemoryProgressRepository{records: make(map[uuid.UUID]*models.Progress)}
}

func (r *MemoryProgressRepository) Get(_ context.Context, userID uuid.UUID) (*models.Progress, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	stored, ok := r.records[userID]
	if !ok {
		return models.NewProgress(userID), nil
	}
	return stored.Clone(), nil
}

func (r *MemoryProgressRepository) Replace(_ context.Context, progress *models.Progress) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	cp := progress.Clone()
	cp.UpdatedAt = time.Now()
	r.records[progress.UserID] = cp
	r.Writes++
	return nil
}
