package models

import "time"

// AuditLog не ссылается на users внешним ключом: записи переживают удаление аккаунта.
type AuditLog struct {
	ID        uint      `gorm:"primaryKey"`
	CreatedAt time.Time `gorm:"index"`

	UserID   uint
	Username string `gorm:"size:150"`

	Entity   string `gorm:"size:50;not null"` // "application", "category", "user"
	EntityID uint
	Action   string `gorm:"size:50;not null"` // "create", "status_change" и т.п.
	Details  string `gorm:"type:text"`
}
