package model

import (
	"time"

	"gorm.io/gorm"
)

const (
	AttemptStatusOpen      = "open"
	AttemptStatusSubmitted = "submitted"
	AttemptStatusAbandoned = "abandoned"
)

const (
	SubmissionTypeManual = "manual"
	SubmissionTypeAuto   = "auto"
)

// Attempt is one student's single run through a Test. It is created open and
// transitions exactly once to submitted; an attempt with SubmittedAt set is
// never mutated again.
type Attempt struct {
	ID             uint           `gorm:"primarykey" json:"id"`
	TestID         uint           `json:"test_id" gorm:"not null;index"`
	Test           Test           `json:"test,omitempty" gorm:"foreignKey:TestID"`
	StudentID      uint           `json:"student_id" gorm:"not null;index"`
	SubjectID      uint           `json:"subject_id" gorm:"not null;index"` // denormalized from Test for per-subject queries
	Status         string         `json:"status" gorm:"not null;default:'open';index"`
	Answers        []Answer       `json:"answers,omitempty" gorm:"foreignKey:AttemptID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE;"`
	StartTime      time.Time      `json:"start_time" gorm:"not null"`
	EndTime        *time.Time     `json:"end_time,omitempty"`
	Score          int            `json:"score" gorm:"not null;default:0"`
	Passed         bool           `json:"passed" gorm:"not null;default:false;index"`
	SubmittedAt    *time.Time     `json:"submitted_at,omitempty" gorm:"index"`
	SubmissionType string         `json:"submission_type,omitempty"` // "manual" or "auto"
	CreatedAt      time.Time      `json:"created_at"`
	UpdatedAt      time.Time      `json:"updated_at"`
	DeletedAt      gorm.DeletedAt `gorm:"index" json:"-"`
}

// Deadline is the last instant a submission for this attempt is accepted,
// given the test's time limit and a latency tolerance.
func (a *Attempt) Deadline(timeLimitMinutes int, tolerance time.Duration) time.Time {
	return a.StartTime.Add(time.Duration(timeLimitMinutes)*time.Minute + tolerance)
}
