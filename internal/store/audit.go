package store

import (
	"context"
	"fmt"
	"time"

	"design-studio/internal/logger"
	"design-studio/internal/models"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

type AuditStore struct {
	db *gorm.DB
}

func NewAuditStore(db *gorm.DB) *AuditStore {
	return &AuditStore{db: db}
}

// Record пишет запись в журнал аудита. Сбой журнала не отменяет основное действие.
func (s *AuditStore) Record(ctx context.Context, entry models.AuditLog) {
	if err := s.db.WithContext(ctx).Create(&entry).Error; err != nil {
		logger.L().Warn("failed to write audit log",
			zap.String("entity", entry.Entity),
			zap.Uint("entity_id", entry.EntityID),
			zap.String("action", entry.Action),
			zap.Error(err),
		)
	}
}

func (s *AuditStore) List(ctx context.Context, limit int) ([]models.AuditLog, error) {
	var logs []models.AuditLog
	if err := s.db.WithContext(ctx).
		Order("created_at desc, id desc").
		Limit(limit).
		Find(&logs).Error; err != nil {
		return nil, fmt.Errorf("list audit logs: %w", err)
	}
	return logs, nil
}

func (s *AuditStore) DeleteOlderThan(ctx context.Context, before time.Time) (int64, error) {
	res := s.db.WithContext(ctx).Where("created_at < ?", before).Delete(&models.AuditLog{})
	if res.Error != nil {
		return 0, fmt.Errorf("clean audit logs: %w", res.Error)
	}
	return res.RowsAffected, nil
}
