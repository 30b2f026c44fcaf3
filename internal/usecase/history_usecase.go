package usecase

import (
	"context"
	"errors"

	"github.com/google/uuid"

	"github.com/grammate-io/grammate-api/internal/domain/entity"
	"github.com/grammate-io/grammate-api/internal/domain/repository"
)

// Error definitions for history retrieval
var (
	ErrRecordNotFound = errors.New("record not found")
)

// HistoryListOutput represents a paginated page of persisted records
type HistoryListOutput struct {
	Records []*entity.Record `json:"records"`
	Total   int64            `json:"total"`
	Limit   int              `json:"limit"`
	Offset  int              `json:"offset"`
	HasMore bool             `json:"has_more"`
}

// HistoryUsecase defines the interface for reading the persisted history
type HistoryUsecase interface {
	// List retrieves the most recent records, newest first
	List(ctx context.Context, limit, offset int) (*HistoryListOutput, error)

	// GetByID retrieves a single record with its annotations
	GetByID(ctx context.Context, id uuid.UUID) (*entity.Record, error)
}

type historyUsecase struct {
	recordRepo repository.RecordRepository
}

// NewHistoryUsecase creates a new history usecase
func NewHistoryUsecase(recordRepo repository.RecordRepository) HistoryUsecase {
	return &historyUsecase{recordRepo: recordRepo}
}

func (u *historyUsecase) List(ctx context.Context, limit, offset int) (*HistoryListOutput, error) {
	if limit <= 0 {
		limit = 20
	}
	if limit > 100 {
		limit = 100
	}
	if offset < 0 {
		offset = 0
	}

	records, total, err := u.recordRepo.ListRecent(ctx, limit, offset)
	if err != nil {
		return nil, err
	}

	return &HistoryListOutput{
		Records: records,
		Total:   total,
		Limit:   limit,
		Offset:  offset,
		HasMore: int64(offset+limit) < total,
	}, nil
}

func (u *historyUsecase) GetByID(ctx context.Context, id uuid.UUID) (*entity.Record, error) {
	record, err := u.recordRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if record == nil {
		return nil, ErrRecordNotFound
	}
	return record, nil
}
