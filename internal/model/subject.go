package model

import (
	"time"

	"gorm.io/gorm"
)

type Subject struct {
	ID                      uint           `gorm:"primarykey" json:"id"`
	Name                    string         `json:"name" gorm:"not null"`
	Code                    string         `json:"code" gorm:"not null;uniqueIndex"` // "MET", "LAW", ...
	Description             string         `json:"description,omitempty"`
	DefaultTimeLimitMinutes int            `json:"default_time_limit_minutes" gorm:"not null;default:30"`
	CreatedAt               time.Time      `json:"created_at"`
	UpdatedAt               time.Time      `json:"updated_at"`
	DeletedAt               gorm.DeletedAt `gorm:"index" json:"-"`
}
