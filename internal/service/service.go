// Package service реализует операции портала: проверку прав, политику
// жизненного цикла заявок и запись в журнал аудита.
package service

import (
	"context"
	"strings"

	"design-studio/internal/auth"
	"design-studio/internal/logger"
	"design-studio/internal/metrics"
	"design-studio/internal/models"
	"design-studio/internal/store"

	"go.uber.org/zap"
)

// Media — хранилище загруженных изображений.
type Media interface {
	Save(dir, ext string, data []byte) (string, error)
	Remove(name string) error
}

// сущности журнала аудита
const (
	entityUser        = "user"
	entityApplication = "application"
	entityCategory    = "category"
)

func record(ctx context.Context, audit *store.AuditStore, id *auth.Identity, entity string, entityID uint, action, details string) {
	entry := models.AuditLog{Entity: entity, EntityID: entityID, Action: action, Details: details}
	if id != nil {
		entry.UserID = id.UserID
		entry.Username = id.Username
	}
	audit.Record(ctx, entry)
	if entity == entityApplication {
		metrics.ApplicationEvent(action)
	}
}

// removeFiles удаляет файлы из медиахранилища; ошибки только логируются.
func removeFiles(media Media, names ...string) {
	for _, name := range names {
		if err := media.Remove(name); err != nil {
			logger.L().Warn("failed to remove media file", zap.String("path", name), zap.Error(err))
		}
	}
}

func trim(values ...*string) {
	for _, v := range values {
		*v = strings.TrimSpace(*v)
	}
}
