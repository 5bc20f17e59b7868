package models

import "time"

type Category struct {
	ID        uint `gorm:"primaryKey"`
	CreatedAt time.Time

	Name string `gorm:"uniqueIndex;size:100;not null"`
}
