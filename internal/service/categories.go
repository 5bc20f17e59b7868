package service

import (
	"context"
	"errors"

	"design-studio/internal/apperr"
	"design-studio/internal/auth"
	"design-studio/internal/models"
	"design-studio/internal/store"
	"design-studio/internal/validation"
)

const (
	msgCategoryExists   = "Категория с таким названием уже существует"
	msgCategoryNotFound = "Категория не найдена"
)

type Categories struct {
	cats     *store.CategoryStore
	audit    *store.AuditStore
	media    Media
	validate *validation.Validator
}

func NewCategories(cats *store.CategoryStore, audit *store.AuditStore, m Media, v *validation.Validator) *Categories {
	return &Categories{cats: cats, audit: audit, media: m, validate: v}
}

// List — страница управления категориями, только для администратора.
func (s *Categories) List(ctx context.Context, id *auth.Identity) ([]models.Category, error) {
	if err := auth.Require(id, auth.IsSuperuser); err != nil {
		return nil, err
	}
	return s.cats.List(ctx)
}

// Options — список для формы создания заявки.
func (s *Categories) Options(ctx context.Context) ([]models.Category, error) {
	return s.cats.List(ctx)
}

func (s *Categories) Create(ctx context.Context, id *auth.Identity, form CategoryForm) (*models.Category, error) {
	if err := auth.Require(id, auth.IsSuperuser); err != nil {
		return nil, err
	}
	trim(&form.Name)

	fields := s.validate.Struct(form)
	if fields.Empty() {
		taken, err := s.cats.NameTaken(ctx, form.Name)
		if err != nil {
			return nil, err
		}
		if taken {
			fields.Add("name", msgCategoryExists)
		}
	}
	if err := apperr.Validation(fields); err != nil {
		return nil, err
	}

	category := &models.Category{Name: form.Name}
	if err := s.cats.Create(ctx, category); err != nil {
		if errors.Is(err, store.ErrDuplicate) {
			return nil, apperr.FieldError("name", msgCategoryExists)
		}
		return nil, err
	}

	record(ctx, s.audit, id, entityCategory, category.ID, "create", "Создана категория "+category.Name)
	return category, nil
}

// Delete удаляет категорию вместе с её заявками и их изображениями.
func (s *Categories) Delete(ctx context.Context, id *auth.Identity, categoryID uint) error {
	if err := auth.Require(id, auth.IsSuperuser); err != nil {
		return err
	}
	category, err := s.cats.GetByID(ctx, categoryID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return apperr.NotFound(msgCategoryNotFound)
		}
		return err
	}

	images, err := s.cats.Delete(ctx, category.ID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return apperr.NotFound(msgCategoryNotFound)
		}
		return err
	}
	removeFiles(s.media, images...)

	record(ctx, s.audit, id, entityCategory, category.ID, "delete", "Удалена категория "+category.Name)
	return nil
}
