package job

import (
	"context"
	"time"

	"design-studio/internal/logger"
	"design-studio/internal/metrics"
	"design-studio/internal/store"

	"go.uber.org/zap"
)

const defaultRetentionDays = 90

// AuditCleanupJob удаляет записи журнала аудита старше срока хранения.
type AuditCleanupJob struct {
	audit         *store.AuditStore
	retentionDays int
	now           func() time.Time
}

func NewAuditCleanupJob(audit *store.AuditStore, retentionDays int) *AuditCleanupJob {
	if retentionDays <= 0 {
		retentionDays = defaultRetentionDays
	}
	return &AuditCleanupJob{audit: audit, retentionDays: retentionDays, now: time.Now}
}

// Run вызывается cron-ом.
func (j *AuditCleanupJob) Run() {
	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	before := j.now().AddDate(0, 0, -j.retentionDays)
	removed, err := j.audit.DeleteOlderThan(ctx, before)
	if err != nil {
		logger.L().Warn("failed to clean old audit logs", zap.Error(err))
		return
	}

	metrics.AuditCleaned(removed)
	logger.L().Debug("audit cleanup completed",
		zap.Int("retention_days", j.retentionDays),
		zap.Int64("removed", removed),
	)
}
