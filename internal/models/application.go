package models

import "time"

type ApplicationStatus string

// коды статусов хранятся и передаются одной буквой
const (
	StatusNew      ApplicationStatus = "n"
	StatusAccepted ApplicationStatus = "a"
	StatusDone     ApplicationStatus = "d"
)

// Statuses — все статусы в порядке жизненного цикла.
var Statuses = []ApplicationStatus{StatusNew, StatusAccepted, StatusDone}

func (s ApplicationStatus) Valid() bool {
	switch s {
	case StatusNew, StatusAccepted, StatusDone:
		return true
	}
	return false
}

func (s ApplicationStatus) Label() string {
	switch s {
	case StatusNew:
		return "Новая"
	case StatusAccepted:
		return "Принято в работу"
	case StatusDone:
		return "Выполнено"
	}
	return string(s)
}

type Application struct {
	ID        uint      `gorm:"primaryKey"`
	CreatedAt time.Time `gorm:"<-:create;index"`
	UpdatedAt time.Time

	Name        string `gorm:"size:255;not null"`
	Description string `gorm:"type:text;not null"`

	CategoryID uint     `gorm:"not null;index"`
	Category   Category `gorm:"constraint:OnDelete:CASCADE"`

	Image       string `gorm:"size:255;not null"` // путь в медиахранилище
	DesignImage string `gorm:"size:255"`

	PublisherID *uint `gorm:"index"`
	Publisher   *User `gorm:"foreignKey:PublisherID;constraint:OnDelete:SET NULL"`
	DesignerID  *uint `gorm:"index"`
	Designer    *User `gorm:"foreignKey:DesignerID;constraint:OnDelete:SET NULL"`

	Status  ApplicationStatus `gorm:"type:varchar(1);not null;default:n;index"`
	Comment string            `gorm:"type:text"`
}

// PublishedBy сравнивает автора по идентификатору, а не по нику.
func (a Application) PublishedBy(userID uint) bool {
	return a.PublisherID != nil && userID != 0 && *a.PublisherID == userID
}
