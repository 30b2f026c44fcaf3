package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/grammate-io/grammate-api/internal/domain/entity"
)

// RecordRepository defines the interface for persisted analysis results
type RecordRepository interface {
	// Create appends a new record with its annotations
	Create(ctx context.Context, record *entity.Record) error

	// GetByID retrieves a record with its annotations
	GetByID(ctx context.Context, id uuid.UUID) (*entity.Record, error)

	// ListRecent retrieves the most recent records, newest first
	ListRecent(ctx context.Context, limit, offset int) ([]*entity.Record, int64, error)

	// Count returns the total number of stored records
	Count(ctx context.Context) (int64, error)

	// Delete removes a record and its annotations
	Delete(ctx context.Context, id uuid.UUID) error
}
