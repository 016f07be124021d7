package model

import (
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// TestSize is the fixed number of questions in a generated test.
const TestSize = 20

// Test is a fixed snapshot of question references for one subject. After
// creation only the assignment list may change.
type Test struct {
	ID                 uint                      `gorm:"primarykey" json:"id"`
	Name               string                    `json:"name" gorm:"not null"`
	Description        string                    `json:"description,omitempty"`
	SubjectID          uint                      `json:"subject_id" gorm:"not null;index"`
	Subject            Subject                   `json:"subject,omitempty" gorm:"foreignKey:SubjectID"`
	QuestionIDs        datatypes.JSONSlice[uint] `json:"question_ids" gorm:"not null"`
	TimeLimitMinutes   int                       `json:"time_limit_minutes" gorm:"not null"`
	CreatedBy          uint                      `json:"created_by" gorm:"not null;index"` // examiner's user ID
	AssignedStudentIDs datatypes.JSONSlice[uint] `json:"assigned_student_ids"`
	CreatedAt          time.Time                 `json:"created_at"`
	UpdatedAt          time.Time                 `json:"updated_at"`
	DeletedAt          gorm.DeletedAt            `gorm:"index" json:"-"`
}

// AssignedTo reports whether the student is on the test's assignment list.
func (t *Test) AssignedTo(studentID uint) bool {
	for _, id := range t.AssignedStudentIDs {
		if id == studentID {
			return true
		}
	}
	return false
}
