package model

import (
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// OptionCount is the fixed number of answer options per question.
const OptionCount = 4

type Question struct {
	ID                 uint                        `gorm:"primarykey" json:"id"`
	SubjectID          uint                        `json:"subject_id" gorm:"not null;index"`
	Subject            Subject                     `json:"subject,omitempty" gorm:"foreignKey:SubjectID"`
	ExternalID         string                      `json:"external_id,omitempty" gorm:"index"` // human-readable reference, e.g. "MET-014"
	Text               string                      `json:"text" gorm:"type:text;not null"`
	Options            datatypes.JSONSlice[string] `json:"options" gorm:"not null"`
	CorrectOptionIndex int                         `json:"correct_option_index" gorm:"not null"` // 0-3, canonical order
	Active             bool                        `json:"active" gorm:"not null;default:true;index"`
	ImageID            *string                     `json:"image_id,omitempty"`
	CreatedAt          time.Time                   `json:"created_at"`
	UpdatedAt          time.Time                   `json:"updated_at"`
	DeletedAt          gorm.DeletedAt              `gorm:"index" json:"-"`
}
