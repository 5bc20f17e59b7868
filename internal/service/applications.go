package service

import (
	"context"
	"errors"
	"fmt"

	"design-studio/internal/apperr"
	"design-studio/internal/auth"
	"design-studio/internal/media"
	"design-studio/internal/models"
	"design-studio/internal/store"
	"design-studio/internal/validation"
)

const (
	msgApplicationNotFound = "Заявка не найдена"
	msgCategoryInvalid     = "Выберите категорию из списка"
	msgImageRequired       = "Загрузите изображение"
	msgDeleteNotNew        = "Нельзя удалить заявку, которая уже принята в работу или выполнена"
	msgDeleteNotOwner      = "Удалить заявку может только её автор"
)

// LandingLimit — сколько выполненных заявок показывать на главной.
const LandingLimit = 4

type Applications struct {
	apps     *store.ApplicationStore
	cats     *store.CategoryStore
	audit    *store.AuditStore
	media    Media
	validate *validation.Validator
}

func NewApplications(apps *store.ApplicationStore, cats *store.CategoryStore, audit *store.AuditStore, m Media, v *validation.Validator) *Applications {
	return &Applications{apps: apps, cats: cats, audit: audit, media: m, validate: v}
}

type Landing struct {
	Done          []models.Application
	AcceptedCount int64
}

// Landing — последние выполненные заявки и число заявок в работе. Доступно всем.
func (s *Applications) Landing(ctx context.Context) (*Landing, error) {
	done, err := s.apps.List(ctx, store.ListFilter{Status: models.StatusDone, Limit: LandingLimit})
	if err != nil {
		return nil, err
	}
	accepted, err := s.apps.CountByStatus(ctx, models.StatusAccepted)
	if err != nil {
		return nil, err
	}
	return &Landing{Done: done, AcceptedCount: accepted}, nil
}

// Create — заявку подаёт только обычный пользователь; статус всегда "n".
func (s *Applications) Create(ctx context.Context, id *auth.Identity, form ApplicationForm, img Upload) (*models.Application, error) {
	if err := auth.Require(id, auth.IsPlainUser); err != nil {
		return nil, err
	}
	trim(&form.Name, &form.Description)

	fields := s.validate.Struct(form)
	if _, bad := fields["category_id"]; !bad {
		if _, err := s.cats.GetByID(ctx, form.CategoryID); err != nil {
			if !errors.Is(err, store.ErrNotFound) {
				return nil, err
			}
			fields.Add("category_id", msgCategoryInvalid)
		}
	}

	var format string
	if img.Empty() {
		fields.Add("image", msgImageRequired)
	} else {
		f, err := validation.CheckImage(img.Data, validation.MaxRequestImageSize)
		if err != nil {
			fields.Add("image", validation.ImageMessage(err))
		}
		format = f
	}
	if err := apperr.Validation(fields); err != nil {
		return nil, err
	}

	path, err := s.media.Save(media.DirApplications, validation.Extension(format), img.Data)
	if err != nil {
		return nil, err
	}

	publisherID := id.UserID
	app := &models.Application{
		Name:        form.Name,
		Description: form.Description,
		CategoryID:  form.CategoryID,
		Image:       path,
		PublisherID: &publisherID,
		Status:      models.StatusNew,
	}
	if err := s.apps.Create(ctx, app); err != nil {
		removeFiles(s.media, path)
		return nil, err
	}

	record(ctx, s.audit, id, entityApplication, app.ID, "create", "Создана заявка "+app.Name)
	return app, nil
}

// Get — карточку видят сотрудники, администраторы и автор заявки.
func (s *Applications) Get(ctx context.Context, id *auth.Identity, appID uint) (*models.Application, error) {
	if err := auth.Require(id, nil); err != nil {
		return nil, err
	}
	app, err := s.load(ctx, appID)
	if err != nil {
		return nil, err
	}
	if !auth.IsEmployerOrSuperuser(id) && !app.PublishedBy(id.UserID) {
		return nil, apperr.Forbidden()
	}
	return app, nil
}

// ListOwn — заявки вызывающего пользователя. Неизвестный статус фильтра игнорируется.
func (s *Applications) ListOwn(ctx context.Context, id *auth.Identity, status string) ([]models.Application, error) {
	if err := auth.Require(id, auth.IsPlainUser); err != nil {
		return nil, err
	}
	publisherID := id.UserID
	return s.apps.List(ctx, store.ListFilter{PublisherID: &publisherID, Status: statusFilter(status)})
}

func (s *Applications) ListAll(ctx context.Context, id *auth.Identity, status string) ([]models.Application, error) {
	if err := auth.Require(id, auth.IsEmployerOrSuperuser); err != nil {
		return nil, err
	}
	return s.apps.List(ctx, store.ListFilter{Status: statusFilter(status)})
}

// Delete — удалить можно только свою заявку и только пока она новая.
func (s *Applications) Delete(ctx context.Context, id *auth.Identity, appID uint) error {
	if err := auth.Require(id, nil); err != nil {
		return err
	}
	app, err := s.load(ctx, appID)
	if err != nil {
		return err
	}
	if app.Status != models.StatusNew {
		return apperr.Policy(msgDeleteNotNew)
	}
	if !app.PublishedBy(id.UserID) {
		return apperr.Policy(msgDeleteNotOwner)
	}

	deleted, err := s.apps.DeleteNew(ctx, app.ID, id.UserID)
	if err != nil {
		return err
	}
	if !deleted {
		// статус сменился между чтением и удалением
		return apperr.Policy(msgDeleteNotNew)
	}

	removeFiles(s.media, app.Image, app.DesignImage)
	record(ctx, s.audit, id, entityApplication, app.ID, "delete", "Удалена заявка "+app.Name)
	return nil
}

// SubmitDesign прикрепляет дизайн и назначает дизайнером вызывающего сотрудника.
// Ограничение размера здесь не действует; статус не меняется.
func (s *Applications) SubmitDesign(ctx context.Context, id *auth.Identity, appID uint, img Upload) (*models.Application, error) {
	if err := auth.Require(id, auth.IsEmployer); err != nil {
		return nil, err
	}
	app, err := s.load(ctx, appID)
	if err != nil {
		return nil, err
	}

	var path string
	if !img.Empty() {
		format, err := validation.CheckImage(img.Data, 0)
		if err != nil {
			return nil, apperr.FieldError("design_image", validation.ImageMessage(err))
		}
		path, err = s.media.Save(media.DirDesigns, validation.Extension(format), img.Data)
		if err != nil {
			return nil, err
		}
	}

	if err := s.apps.UpdateDesign(ctx, app.ID, id.UserID, path); err != nil {
		removeFiles(s.media, path)
		if errors.Is(err, store.ErrNotFound) {
			return nil, apperr.NotFound(msgApplicationNotFound)
		}
		return nil, err
	}
	if path != "" && app.DesignImage != "" {
		removeFiles(s.media, app.DesignImage)
	}

	details := "Назначен дизайнер " + id.Username
	if path != "" {
		details = "Загружен дизайн, дизайнер " + id.Username
	}
	record(ctx, s.audit, id, entityApplication, app.ID, "design", details)
	return s.load(ctx, app.ID)
}

// ChangeStatus принимает любой допустимый код статуса, порядок переходов не ограничен.
func (s *Applications) ChangeStatus(ctx context.Context, id *auth.Identity, appID uint, form StatusForm) (*models.Application, error) {
	if err := auth.Require(id, auth.IsEmployerOrSuperuser); err != nil {
		return nil, err
	}
	trim(&form.Status, &form.Comment)
	if err := apperr.Validation(s.validate.Struct(form)); err != nil {
		return nil, err
	}
	app, err := s.load(ctx, appID)
	if err != nil {
		return nil, err
	}

	status := models.ApplicationStatus(form.Status)
	if err := s.apps.UpdateStatus(ctx, app.ID, status, form.Comment); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, apperr.NotFound(msgApplicationNotFound)
		}
		return nil, err
	}

	record(ctx, s.audit, id, entityApplication, app.ID, "status",
		fmt.Sprintf("Статус: %s → %s", app.Status.Label(), status.Label()))
	return s.load(ctx, app.ID)
}

func (s *Applications) load(ctx context.Context, appID uint) (*models.Application, error) {
	app, err := s.apps.GetByID(ctx, appID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, apperr.NotFound(msgApplicationNotFound)
		}
		return nil, err
	}
	return app, nil
}

func statusFilter(raw string) models.ApplicationStatus {
	status := models.ApplicationStatus(raw)
	if status.Valid() {
		return status
	}
	return ""
}
