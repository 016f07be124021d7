package model

import (
	"time"

	"gorm.io/gorm"
)

// Answer records one graded answer inside a submitted Attempt. The selected
// index is canonical (display-order unscrambling happens client side before
// submit) and IsCorrect is computed by the grader at submit time, never taken
// from the client. The verdict is a snapshot: editing the question afterwards
// does not change historical grading.
type Answer struct {
	ID                  uint           `gorm:"primarykey" json:"id"`
	AttemptID           uint           `json:"attempt_id" gorm:"not null;index"`
	QuestionID          uint           `json:"question_id" gorm:"not null;index"`
	Question            Question       `json:"question,omitempty" gorm:"foreignKey:QuestionID"`
	SelectedOptionIndex *int           `json:"selected_option_index"` // nil if unanswered
	IsCorrect           bool           `json:"is_correct" gorm:"not null;default:false"`
	CreatedAt           time.Time      `json:"created_at"`
	UpdatedAt           time.Time      `json:"updated_at"`
	DeletedAt           gorm.DeletedAt `gorm:"index" json:"-"`
}
