package service

import (
	"context"
	"errors"
	"fmt"

	"design-studio/internal/apperr"
	"design-studio/internal/auth"
	"design-studio/internal/models"
	"design-studio/internal/store"
	"design-studio/internal/validation"

	"golang.org/x/crypto/bcrypt"
)

const (
	msgUsernameTaken    = "Пользователь с таким ником уже существует"
	msgEmailTaken       = "Пользователь с такой почтой уже существует"
	msgUsernameBusy     = "Данный ник занят"
	msgEmailBusy        = "Данная почта занята"
	msgBadCredentials   = "Неверное имя пользователя или пароль"
	msgWrongOldPassword = "Старый пароль введён неверно"
	msgUserNotFound     = "Пользователь не найден"
	fieldAll            = "__all__"
)

type Accounts struct {
	users    *store.UserStore
	audit    *store.AuditStore
	validate *validation.Validator
	cost     int
}

func NewAccounts(users *store.UserStore, audit *store.AuditStore, v *validation.Validator) *Accounts {
	return &Accounts{users: users, audit: audit, validate: v, cost: bcrypt.DefaultCost}
}

// WithHashCost меняет стоимость bcrypt (в тестах — bcrypt.MinCost).
func (s *Accounts) WithHashCost(cost int) *Accounts {
	s.cost = cost
	return s
}

// Register создаёт обычного пользователя или сотрудника (is_employer).
func (s *Accounts) Register(ctx context.Context, form RegisterForm) (*models.User, error) {
	trim(&form.Username, &form.Email, &form.FirstName, &form.LastName, &form.Patronymic)

	fields := s.validate.Struct(form)
	if err := s.checkUnique(ctx, fields, form.Username, form.Email, 0, msgUsernameTaken, msgEmailTaken); err != nil {
		return nil, err
	}
	if err := apperr.Validation(fields); err != nil {
		return nil, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(form.Password), s.cost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	role := models.RoleUser
	if form.IsEmployer {
		role = models.RoleEmployer
	}
	user := &models.User{
		Username:     form.Username,
		PasswordHash: string(hash),
		Email:        form.Email,
		FirstName:    form.FirstName,
		LastName:     form.LastName,
		Patronymic:   form.Patronymic,
		Role:         role,
	}
	if err := s.users.Create(ctx, user); err != nil {
		if errors.Is(err, store.ErrDuplicate) {
			return nil, s.duplicateError(ctx, form.Username, form.Email, 0, msgUsernameTaken, msgEmailTaken)
		}
		return nil, err
	}

	record(ctx, s.audit, auth.FromUser(user), entityUser, user.ID, "create", "Зарегистрирован пользователь "+user.Username)
	return user, nil
}

// Authenticate проверяет логин и пароль. Причина отказа не раскрывается.
func (s *Accounts) Authenticate(ctx context.Context, form LoginForm) (*models.User, error) {
	trim(&form.Username)
	if err := apperr.Validation(s.validate.Struct(form)); err != nil {
		return nil, err
	}

	user, err := s.users.GetByUsername(ctx, form.Username)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, apperr.FieldError(fieldAll, msgBadCredentials)
		}
		return nil, err
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(form.Password)); err != nil {
		return nil, apperr.FieldError(fieldAll, msgBadCredentials)
	}
	return user, nil
}

// Identify восстанавливает личность по идентификатору из сессии.
func (s *Accounts) Identify(ctx context.Context, userID uint) (*auth.Identity, error) {
	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	return auth.FromUser(user), nil
}

func (s *Accounts) Profile(ctx context.Context, id *auth.Identity) (*models.User, error) {
	if err := auth.Require(id, nil); err != nil {
		return nil, err
	}
	user, err := s.users.GetByID(ctx, id.UserID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, apperr.NotFound(msgUserNotFound)
		}
		return nil, err
	}
	return user, nil
}

// UpdateProfile меняет ник, почту и ФИО. Занятость проверяется без учёта самого пользователя.
func (s *Accounts) UpdateProfile(ctx context.Context, id *auth.Identity, form ProfileForm) (*models.User, error) {
	user, err := s.Profile(ctx, id)
	if err != nil {
		return nil, err
	}
	trim(&form.Username, &form.Email, &form.FirstName, &form.LastName, &form.Patronymic)

	fields := s.validate.Struct(form)
	if err := s.checkUnique(ctx, fields, form.Username, form.Email, user.ID, msgUsernameBusy, msgEmailBusy); err != nil {
		return nil, err
	}
	if err := apperr.Validation(fields); err != nil {
		return nil, err
	}

	user.Username = form.Username
	user.Email = form.Email
	user.FirstName = form.FirstName
	user.LastName = form.LastName
	user.Patronymic = form.Patronymic
	if err := s.users.Update(ctx, user); err != nil {
		if errors.Is(err, store.ErrDuplicate) {
			return nil, s.duplicateError(ctx, form.Username, form.Email, user.ID, msgUsernameBusy, msgEmailBusy)
		}
		return nil, err
	}

	record(ctx, s.audit, id, entityUser, user.ID, "update", "Изменён профиль "+user.Username)
	return user, nil
}

// ChangePassword меняет пароль и возвращает обновлённую личность: её отпечаток
// нужен, чтобы текущая сессия осталась действительной.
func (s *Accounts) ChangePassword(ctx context.Context, id *auth.Identity, form PasswordForm) (*auth.Identity, error) {
	user, err := s.Profile(ctx, id)
	if err != nil {
		return nil, err
	}

	fields := s.validate.Struct(form)
	if form.OldPassword != "" {
		if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(form.OldPassword)); err != nil {
			fields.Add("old_password", msgWrongOldPassword)
		}
	}
	if err := apperr.Validation(fields); err != nil {
		return nil, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(form.NewPassword1), s.cost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}
	user.PasswordHash = string(hash)
	if err := s.users.Update(ctx, user); err != nil {
		return nil, err
	}

	record(ctx, s.audit, id, entityUser, user.ID, "password", "Изменён пароль")
	return auth.FromUser(user), nil
}

// DeleteAccount удаляет учётную запись; заявки пользователя остаются без автора.
func (s *Accounts) DeleteAccount(ctx context.Context, id *auth.Identity) error {
	if err := auth.Require(id, nil); err != nil {
		return err
	}
	if err := s.users.Delete(ctx, id.UserID); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return apperr.NotFound(msgUserNotFound)
		}
		return err
	}

	record(ctx, s.audit, id, entityUser, id.UserID, "delete", "Удалён пользователь "+id.Username)
	return nil
}

func (s *Accounts) checkUnique(ctx context.Context, fields apperr.FieldErrors, username, email string, exceptID uint, usernameMsg, emailMsg string) error {
	if _, bad := fields["username"]; !bad && username != "" {
		taken, err := s.users.UsernameTaken(ctx, username, exceptID)
		if err != nil {
			return err
		}
		if taken {
			fields.Add("username", usernameMsg)
		}
	}
	if _, bad := fields["email"]; !bad && email != "" {
		taken, err := s.users.EmailTaken(ctx, email, exceptID)
		if err != nil {
			return err
		}
		if taken {
			fields.Add("email", emailMsg)
		}
	}
	return nil
}

// duplicateError — гонка двух регистраций: уникальный индекс сработал после проверки.
func (s *Accounts) duplicateError(ctx context.Context, username, email string, exceptID uint, usernameMsg, emailMsg string) error {
	fields := apperr.FieldErrors{}
	if err := s.checkUnique(ctx, fields, username, email, exceptID, usernameMsg, emailMsg); err != nil {
		return err
	}
	if fields.Empty() {
		fields.Add(fieldAll, usernameMsg)
	}
	return apperr.Validation(fields)
}
