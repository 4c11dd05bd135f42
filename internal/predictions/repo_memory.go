package predictions

import (
	"context"
	"sync"
)

// MemoryRepo stores the prediction history in memory and is safe for
// concurrent use. Used when no database is configured.
type MemoryRepo struct {
	mu      sync.RWMutex
	records []Prediction
}

// NewMemoryRepo constructs a MemoryRepo.
func NewMemoryRepo() *MemoryRepo {
	return &MemoryRepo{}
}

// Create appends one record to the history.
func (r *MemoryRepo) Create(ctx context.Context, prediction Prediction) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.records = append(r.records, prediction)
	return nil
}

// CreateBatch appends a set of records to the history.
func (r *MemoryRepo) CreateBatch(ctx context.Context, predictions []Prediction) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.records = append(r.records, predictions...)
	return nil
}

// ListRecent returns up to limit records, newest first.
func (r *MemoryRepo) ListRecent(ctx context.Context, limit int) ([]Prediction, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	if limit <= 0 || limit > len(r.records) {
		limit = len(r.records)
	}
	out := make([]Prediction, 0, limit)
	for i := len(r.records) - 1; i >= 0 && len(out) < limit; i-- {
		out = append(out, r.records[i])
	}
	return out, nil
}
