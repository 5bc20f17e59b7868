package store

import (
	"context"
	"fmt"

	"design-studio/internal/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type ApplicationStore struct {
	db *gorm.DB
}

func NewApplicationStore(db *gorm.DB) *ApplicationStore {
	return &ApplicationStore{db: db}
}

// ListFilter — условия выборки; пустые поля не ограничивают результат.
type ListFilter struct {
	PublisherID *uint
	Status      models.ApplicationStatus
	Limit       int
}

func (s *ApplicationStore) Create(ctx context.Context, app *models.Application) error {
	if err := s.db.WithContext(ctx).Omit(clause.Associations).Create(app).Error; err != nil {
		return fmt.Errorf("create application: %w", translate(err))
	}
	return nil
}

func (s *ApplicationStore) GetByID(ctx context.Context, id uint) (*models.Application, error) {
	var app models.Application
	err := s.db.WithContext(ctx).
		Preload("Category").
		Preload("Publisher").
		Preload("Designer").
		First(&app, id).Error
	if err != nil {
		return nil, fmt.Errorf("get application %d: %w", id, translate(err))
	}
	return &app, nil
}

// List — новые заявки первыми.
func (s *ApplicationStore) List(ctx context.Context, f ListFilter) ([]models.Application, error) {
	q := s.db.WithContext(ctx).
		Preload("Category").
		Preload("Publisher").
		Order("created_at desc, id desc")

	if f.PublisherID != nil {
		q = q.Where("publisher_id = ?", *f.PublisherID)
	}
	if f.Status != "" {
		q = q.Where("status = ?", f.Status)
	}
	if f.Limit > 0 {
		q = q.Limit(f.Limit)
	}

	var apps []models.Application
	if err := q.Find(&apps).Error; err != nil {
		return nil, fmt.Errorf("list applications: %w", err)
	}
	return apps, nil
}

func (s *ApplicationStore) CountByStatus(ctx context.Context, status models.ApplicationStatus) (int64, error) {
	var count int64
	err := s.db.WithContext(ctx).Model(&models.Application{}).
		Where("status = ?", status).
		Count(&count).Error
	if err != nil {
		return 0, fmt.Errorf("count applications: %w", err)
	}
	return count, nil
}

// DeleteNew удаляет заявку, только если она всё ещё новая и принадлежит автору.
// Условие проверяется в самом DELETE, поэтому смена статуса между проверкой
// и удалением не приведёт к удалению принятой заявки.
func (s *ApplicationStore) DeleteNew(ctx context.Context, id, publisherID uint) (bool, error) {
	res := s.db.WithContext(ctx).
		Where("id = ? AND publisher_id = ? AND status = ?", id, publisherID, models.StatusNew).
		Delete(&models.Application{})
	if res.Error != nil {
		return false, fmt.Errorf("delete application %d: %w", id, res.Error)
	}
	return res.RowsAffected > 0, nil
}

func (s *ApplicationStore) UpdateDesign(ctx context.Context, id, designerID uint, designImage string) error {
	updates := map[string]any{"designer_id": designerID}
	if designImage != "" {
		updates["design_image"] = designImage
	}
	return s.update(ctx, id, updates)
}

func (s *ApplicationStore) UpdateStatus(ctx context.Context, id uint, status models.ApplicationStatus, comment string) error {
	return s.update(ctx, id, map[string]any{"status": status, "comment": comment})
}

func (s *ApplicationStore) update(ctx context.Context, id uint, updates map[string]any) error {
	res := s.db.WithContext(ctx).Model(&models.Application{}).
		Where("id = ?", id).
		Updates(updates)
	if res.Error != nil {
		return fmt.Errorf("update application %d: %w", id, translate(res.Error))
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("update application %d: %w", id, ErrNotFound)
	}
	return nil
}
