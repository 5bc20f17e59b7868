package store

import (
	"context"
	"fmt"

	"design-studio/internal/models"

	"gorm.io/gorm"
)

type CategoryStore struct {
	db *gorm.DB
}

func NewCategoryStore(db *gorm.DB) *CategoryStore {
	return &CategoryStore{db: db}
}

func (s *CategoryStore) List(ctx context.Context) ([]models.Category, error) {
	var categories []models.Category
	if err := s.db.WithContext(ctx).Order("name asc").Find(&categories).Error; err != nil {
		return nil, fmt.Errorf("list categories: %w", err)
	}
	return categories, nil
}

func (s *CategoryStore) GetByID(ctx context.Context, id uint) (*models.Category, error) {
	var category models.Category
	if err := s.db.WithContext(ctx).First(&category, id).Error; err != nil {
		return nil, fmt.Errorf("get category %d: %w", id, translate(err))
	}
	return &category, nil
}

func (s *CategoryStore) NameTaken(ctx context.Context, name string) (bool, error) {
	var count int64
	err := s.db.WithContext(ctx).Model(&models.Category{}).
		Where("LOWER(name) = LOWER(?)", name).
		Count(&count).Error
	if err != nil {
		return false, fmt.Errorf("check category name: %w", err)
	}
	return count > 0, nil
}

func (s *CategoryStore) Create(ctx context.Context, category *models.Category) error {
	if err := s.db.WithContext(ctx).Create(category).Error; err != nil {
		return fmt.Errorf("create category %s: %w", category.Name, translate(err))
	}
	return nil
}

// Delete удаляет категорию вместе со всеми её заявками и возвращает пути
// изображений удалённых заявок, чтобы их можно было убрать из хранилища.
func (s *CategoryStore) Delete(ctx context.Context, id uint) ([]string, error) {
	var images []string

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var apps []models.Application
		if err := tx.Select("id", "image", "design_image").
			Where("category_id = ?", id).
			Find(&apps).Error; err != nil {
			return fmt.Errorf("load applications of category %d: %w", id, err)
		}
		for _, a := range apps {
			images = append(images, a.Image)
			if a.DesignImage != "" {
				images = append(images, a.DesignImage)
			}
		}

		if err := tx.Where("category_id = ?", id).Delete(&models.Application{}).Error; err != nil {
			return fmt.Errorf("delete applications of category %d: %w", id, err)
		}

		res := tx.Delete(&models.Category{}, id)
		if res.Error != nil {
			return fmt.Errorf("delete category %d: %w", id, res.Error)
		}
		if res.RowsAffected == 0 {
			return fmt.Errorf("delete category %d: %w", id, ErrNotFound)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return images, nil
}
