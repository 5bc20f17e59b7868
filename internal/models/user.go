package models

import (
	"crypto/sha256"
	"encoding/hex"
	"strings"
	"time"
)

type UserRole string

const (
	RoleUser      UserRole = "user"
	RoleEmployer  UserRole = "employer"
	RoleSuperuser UserRole = "superuser"
)

func (r UserRole) Label() string {
	switch r {
	case RoleEmployer:
		return "Сотрудник"
	case RoleSuperuser:
		return "Администратор"
	default:
		return "Пользователь"
	}
}

// Удаление жёсткое, поэтому без gorm.Model: иначе занятые ник и почта
// остались бы в уникальных индексах после удаления аккаунта.
type User struct {
	ID        uint `gorm:"primaryKey"`
	CreatedAt time.Time
	UpdatedAt time.Time

	Username     string   `gorm:"uniqueIndex;size:150;not null"`
	PasswordHash string   `gorm:"not null"`
	Email        string   `gorm:"uniqueIndex;size:254;not null"`
	FirstName    string   `gorm:"size:150"`
	LastName     string   `gorm:"size:150"`
	Patronymic   string   `gorm:"size:50"`
	Role         UserRole `gorm:"type:varchar(20);not null;default:user"`
}

// FullName — ФИО в порядке "Фамилия Имя Отчество".
func (u User) FullName() string {
	parts := make([]string, 0, 3)
	for _, p := range []string{u.LastName, u.FirstName, u.Patronymic} {
		if p = strings.TrimSpace(p); p != "" {
			parts = append(parts, p)
		}
	}
	return strings.Join(parts, " ")
}

// SessionKey — отпечаток хэша пароля. Хранится в сессии: после смены пароля
// старые сессии перестают совпадать с ним.
func (u User) SessionKey() string {
	sum := sha256.Sum256([]byte(u.PasswordHash))
	return hex.EncodeToString(sum[:16])
}
