package dto

import "time"

type ErrorResponse struct {
	Message string   `json:"message"`
	Details []string `json:"details,omitempty"`
}

// TestQuestionDTO is a question as rendered to a student taking a test.
// It deliberately has no correct-option field: the canonical answer must
// never appear in a test-start payload.
type TestQuestionDTO struct {
	ID         uint     `json:"id"`
	ExternalID string   `json:"external_id,omitempty"`
	Text       string   `json:"text"`
	Options    []string `json:"options"`
	ImageID    *string  `json:"image_id,omitempty"`
}

// StartTestResponseDTO is returned when a student starts a test.
type StartTestResponseDTO struct {
	AttemptID        uint              `json:"attempt_id"`
	TestName         string            `json:"test_name"`
	TimeLimitMinutes int               `json:"time_limit_minutes"`
	Questions        []TestQuestionDTO `json:"questions"`
}

// SubmitResultDTO is the grading outcome returned on submission.
type SubmitResultDTO struct {
	AttemptID   uint      `json:"attempt_id"`
	Score       int       `json:"score"`
	Passed      bool      `json:"passed"`
	SubmittedAt time.Time `json:"submitted_at"`
}

// AnswerDetailDTO joins a stored answer with the current question content
// for result review. The verdict and selected index are the submit-time
// snapshot; only text and options reflect later edits.
type AnswerDetailDTO struct {
	QuestionID          uint     `json:"question_id"`
	QuestionText        string   `json:"question_text"`
	Options             []string `json:"options"`
	SelectedOptionIndex *int     `json:"selected_option_index"`
	CorrectOptionIndex  int      `json:"correct_option_index"`
	IsCorrect           bool     `json:"is_correct"`
}

// AttemptDetailDTO is the full result view of a submitted attempt.
type AttemptDetailDTO struct {
	ID             uint              `json:"id"`
	TestID         uint              `json:"test_id"`
	TestName       string            `json:"test_name,omitempty"`
	StudentID      uint              `json:"student_id"`
	SubjectID      uint              `json:"subject_id"`
	Status         string            `json:"status"`
	Score          int               `json:"score"`
	Passed         bool              `json:"passed"`
	StartTime      time.Time         `json:"start_time"`
	EndTime        *time.Time        `json:"end_time,omitempty"`
	SubmittedAt    *time.Time        `json:"submitted_at,omitempty"`
	SubmissionType string            `json:"submission_type,omitempty"`
	Answers        []AnswerDetailDTO `json:"answers,omitempty"`
}

// DashboardEntryDTO is one row of the student dashboard.
type DashboardEntryDTO struct {
	SubjectID uint    `json:"subject_id"`
	Subject   string  `json:"subject"`
	Status    string  `json:"status"` // "passed", "available", "locked"
	Attempts  int     `json:"attempts"`
	BestScore *string `json:"best_score"` // "n/20", nil when no attempts
}

// StudentOverviewDTO is one row of the examiner's student overview.
type StudentOverviewDTO struct {
	StudentID      uint   `json:"student_id"`
	Username       string `json:"username"`
	PassedSubjects int    `json:"passed_subjects"`
	TotalSubjects  int    `json:"total_subjects"`
}

// SubjectProgressDTO is one subject row in the examiner's student detail view.
type SubjectProgressDTO struct {
	SubjectID     uint    `json:"subject_id"`
	SubjectName   string  `json:"subject_name"`
	Status        string  `json:"status"` // "passed", "assigned", "in_progress", "not_started"
	AttemptsCount int     `json:"attempts_count"`
	BestScore     *string `json:"best_score"`
}

type UserDTO struct {
	ID       uint   `json:"id"`
	Username string `json:"username"`
	Role     string `json:"role"`
	Archived bool   `json:"archived"`
}

type StudentDetailsDTO struct {
	Student UserDTO              `json:"student"`
	Details []SubjectProgressDTO `json:"details"`
}

// QuestionAdminDTO is a question with its canonical answer, for examiner and
// admin views only.
type QuestionAdminDTO struct {
	ID                 uint     `json:"id"`
	SubjectID          uint     `json:"subject_id"`
	ExternalID         string   `json:"external_id,omitempty"`
	Text               string   `json:"text"`
	Options            []string `json:"options"`
	CorrectOptionIndex int      `json:"correct_option_index"`
	Active             bool     `json:"active"`
	ImageID            *string  `json:"image_id,omitempty"`
}

// TestSessionDTO is a freshly sampled question set for examiner review.
type TestSessionDTO struct {
	SubjectID uint               `json:"subject_id"`
	Questions []QuestionAdminDTO `json:"questions"`
}

type TestDTO struct {
	ID                 uint      `json:"id"`
	Name               string    `json:"name"`
	Description        string    `json:"description,omitempty"`
	SubjectID          uint      `json:"subject_id"`
	SubjectName        string    `json:"subject_name,omitempty"`
	QuestionIDs        []uint    `json:"question_ids"`
	TimeLimitMinutes   int       `json:"time_limit_minutes"`
	AssignedStudentIDs []uint    `json:"assigned_student_ids"`
	CreatedAt          time.Time `json:"created_at"`
}

type SubjectDTO struct {
	ID                      uint   `json:"id"`
	Name                    string `json:"name"`
	Code                    string `json:"code"`
	Description             string `json:"description,omitempty"`
	DefaultTimeLimitMinutes int    `json:"default_time_limit_minutes"`
}

// ArchiveRunSummaryDTO reports one archival sweep.
type ArchiveRunSummaryDTO struct {
	ArchivedStudents int   `json:"archived_students"`
	SweptAttempts    int64 `json:"swept_attempts"`
}

// UserAccountDTO is one account row in the admin user-management views.
// It never carries the password hash.
type UserAccountDTO struct {
	ID                  uint      `json:"id"`
	Username            string    `json:"username"`
	Role                string    `json:"role"`
	Status              string    `json:"status"` // "active" or "archived"
	ForcePasswordChange bool      `json:"force_password_change"`
	CreatedAt           time.Time `json:"created_at"`
}

// TempPasswordDTO returns a freshly generated temporary password exactly
// once, on account creation or password reset. It is never retrievable
// afterwards.
type TempPasswordDTO struct {
	ID           uint   `json:"id"`
	Username     string `json:"username"`
	TempPassword string `json:"temp_password"`
}
