package postgres

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/medicore/clinic-api/internal/repository"
)

type sequenceRepository struct {
	db *sqlx.DB
}

func NewSequenceRepository(db *sqlx.DB) repository.SequenceRepository {
	return &sequenceRepository{db: db}
}

// Next increments the named counter and returns the new value. The upsert
// makes the fetch-and-increment atomic, so two concurrent creates can never
// be handed the same value.
func (r *sequenceRepository) Next(ctx context.Context, key string) (int64, error) {
	query := `
		INSERT INTO sequences (key, value)
		VALUES ($1, 1)
		ON CONFLICT (key) DO UPDATE SET value = sequences.value + 1
		RETURNING value`
	var value int64
	if err := r.db.GetContext(ctx, &value, query, key); err != nil {
		return 0, fmt.Errorf("failed to advance sequence %s: %w", key, err)
	}
	return value, nil
}
