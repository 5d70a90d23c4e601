package memory

import (
	"context"

	"github.com/medicore/clinic-api/internal/repository"
)

type sequenceRepository struct {
	store *Store
}

func NewSequenceRepository(store *Store) repository.SequenceRepository {
	return &sequenceRepository{store: store}
}

func (r *sequenceRepository) Next(_ context.Context, key string) (int64, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	r.store.sequences[key]++
	return r.store.sequences[key], nil
}
