package audit

import (
	"context"

	"gorm.io/gorm"
)

type Repository interface {
	Create(ctx context.Context, entry *AuditLog) error
	FindRecentByEntity(ctx context.Context, entityType, entityID string, limit int) ([]AuditLog, error)
}

type repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) Create(ctx context.Context, entry *AuditLog) error {
	return r.db.WithContext(ctx).Create(entry).Error
}

func (r *repository) FindRecentByEntity(ctx context.Context, entityType, entityID string, limit int) ([]AuditLog, error) {
	var entries []AuditLog
	err := r.db.WithContext(ctx).
		Where("entity_type = ?", entityType).
		Where("entity_id = ?", entityID).
		Order("occurred_at DESC").
		Limit(limit).
		Find(&entries).Error
	return entries, err
}
