package usecase

import (
	"context"
	"errors"
	"strings"

	"go.uber.org/zap"

	"github.com/grammate-io/grammate-api/internal/domain/entity"
	"github.com/grammate-io/grammate-api/internal/domain/repository"
	"github.com/grammate-io/grammate-api/internal/domain/service"
	"github.com/grammate-io/grammate-api/internal/infrastructure/metrics"
)

// Error definitions for single-item annotation
var (
	ErrEmptyText = errors.New("text is empty")
)

// AnnotateUsecase defines the interface for synchronous single-item annotation
type AnnotateUsecase interface {
	// Annotate submits one text and returns its result. Successful results
	// are persisted; persistence failure does not fail the call.
	Annotate(ctx context.Context, text string) (*entity.AnalysisResult, error)
}

type annotateUsecase struct {
	recordRepo repository.RecordRepository
	annotator  service.Annotator
	logger     *zap.Logger
}

// NewAnnotateUsecase creates a new annotate usecase
func NewAnnotateUsecase(recordRepo repository.RecordRepository, annotator service.Annotator, logger *zap.Logger) AnnotateUsecase {
	return &annotateUsecase{
		recordRepo: recordRepo,
		annotator:  annotator,
		logger:     logger,
	}
}

func (u *annotateUsecase) Annotate(ctx context.Context, text string) (*entity.AnalysisResult, error) {
	if strings.TrimSpace(text) == "" {
		return nil, ErrEmptyText
	}

	result, err := u.annotator.Annotate(ctx, text)
	if err != nil {
		return nil, err
	}

	if err := u.recordRepo.Create(ctx, entity.NewRecord(result)); err != nil {
		metrics.StoreAppendFailures.Inc()
		u.logger.Warn("failed to persist result, continuing", zap.Error(err))
	}

	return result, nil
}
