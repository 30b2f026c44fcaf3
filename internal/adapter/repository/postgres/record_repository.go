package postgres

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/grammate-io/grammate-api/internal/domain/entity"
	"github.com/grammate-io/grammate-api/internal/domain/repository"
)

type recordRepository struct {
	db *gorm.DB
}

// NewRecordRepository creates a new record repository
func NewRecordRepository(db *gorm.DB) repository.RecordRepository {
	return &recordRepository{db: db}
}

func (r *recordRepository) Create(ctx context.Context, record *entity.Record) error {
	return r.db.WithContext(ctx).Create(record).Error
}

func (r *recordRepository) GetByID(ctx context.Context, id uuid.UUID) (*entity.Record, error) {
	var record entity.Record
	err := r.db.WithContext(ctx).
		Preload("Annotations").
		First(&record, "id = ?", id).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil
		}
		return nil, err
	}
	return &record, nil
}

func (r *recordRepository) ListRecent(ctx context.Context, limit, offset int) ([]*entity.Record, int64, error) {
	var records []*entity.Record
	var total int64

	if err := r.db.WithContext(ctx).Model(&entity.Record{}).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	err := r.db.WithContext(ctx).
		Preload("Annotations").
		Order("created_at DESC").
		Limit(limit).
		Offset(offset).
		Find(&records).Error
	if err != nil {
		return nil, 0, err
	}

	return records, total, nil
}

func (r *recordRepository) Count(ctx context.Context) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&entity.Record{}).Count(&count).Error
	return count, err
}

func (r *recordRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Delete(&entity.RecordAnnotation{}, "record_id = ?", id).Error; err != nil {
			return err
		}
		return tx.Delete(&entity.Record{}, "id = ?", id).Error
	})
}
