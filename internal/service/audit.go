package service

import (
	"context"

	"design-studio/internal/auth"
	"design-studio/internal/models"
	"design-studio/internal/store"
)

// AuditPageSize — сколько последних записей показывает журнал.
const AuditPageSize = 200

type Audit struct {
	audit *store.AuditStore
}

func NewAudit(audit *store.AuditStore) *Audit {
	return &Audit{audit: audit}
}

func (s *Audit) Recent(ctx context.Context, id *auth.Identity) ([]models.AuditLog, error) {
	if err := auth.Require(id, auth.IsSuperuser); err != nil {
		return nil, err
	}
	return s.audit.List(ctx, AuditPageSize)
}
