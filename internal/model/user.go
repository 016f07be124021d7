package model

import (
	"time"

	"gorm.io/gorm"
)

const (
	RoleStudent  = "student"
	RoleExaminer = "examiner"
	RoleAdmin    = "admin"
)

type User struct {
	ID                  uint           `gorm:"primarykey" json:"id"`
	Username            string         `json:"username" gorm:"not null;uniqueIndex"`
	Password            string         `json:"-" gorm:"not null"`
	Role                string         `json:"role" gorm:"not null;index"` // "student", "examiner", "admin"
	Archived            bool           `json:"archived" gorm:"not null;default:false;index"`
	ForcePasswordChange bool           `json:"force_password_change" gorm:"not null;default:false"`
	CreatedAt           time.Time      `json:"created_at"`
	UpdatedAt           time.Time      `json:"updated_at"`
	DeletedAt           gorm.DeletedAt `gorm:"index" json:"-"`
}
