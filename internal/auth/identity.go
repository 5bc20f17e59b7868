// Package auth определяет личность запроса и предикаты ролей.
//
// Роль вычисляется один раз при аутентификации (middleware.InjectUser) и
// дальше передаётся явно: через context.Context запроса и аргументы сервисов.
package auth

import (
	"context"

	"design-studio/internal/apperr"
	"design-studio/internal/models"
)

type Identity struct {
	UserID     uint
	Username   string
	Role       models.UserRole
	SessionKey string
}

func FromUser(u *models.User) *Identity {
	if u == nil {
		return nil
	}
	role := u.Role
	if role == "" {
		role = models.RoleUser
	}
	return &Identity{UserID: u.ID, Username: u.Username, Role: role, SessionKey: u.SessionKey()}
}

// Predicate — проверка роли. Все ограничения доступа собираются только из них.
type Predicate func(*Identity) bool

func Authenticated(id *Identity) bool {
	return id != nil && id.UserID != 0
}

func IsEmployer(id *Identity) bool {
	return Authenticated(id) && id.Role == models.RoleEmployer
}

func IsSuperuser(id *Identity) bool {
	return Authenticated(id) && id.Role == models.RoleSuperuser
}

func IsPlainUser(id *Identity) bool {
	return Authenticated(id) && !IsEmployer(id) && !IsSuperuser(id)
}

func IsEmployerOrSuperuser(id *Identity) bool {
	return IsEmployer(id) || IsSuperuser(id)
}

// Require сначала проверяет вход, и только потом — предикат роли.
func Require(id *Identity, p Predicate) error {
	if !Authenticated(id) {
		return apperr.Unauthenticated()
	}
	if p != nil && !p(id) {
		return apperr.Forbidden()
	}
	return nil
}

type ctxKey struct{}

func WithIdentity(ctx context.Context, id *Identity) context.Context {
	return context.WithValue(ctx, ctxKey{}, id)
}

func FromContext(ctx context.Context) *Identity {
	id, _ := ctx.Value(ctxKey{}).(*Identity)
	return id
}
