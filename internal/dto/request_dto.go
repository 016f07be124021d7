package dto

// SubmittedAnswerDTO is one answer in a test submission. The index is
// canonical: the client unscrambles its display-order selection before
// sending. A nil index means the question was left unanswered.
type SubmittedAnswerDTO struct {
	QuestionID          uint `json:"question_id" binding:"required"`
	SelectedOptionIndex *int `json:"selected_option_index"`
}

// AttemptSubmitDTO is the request body for submitting a test attempt.
// SubmissionType records whether the student clicked submit or the client
// countdown fired at zero.
type AttemptSubmitDTO struct {
	Answers        []SubmittedAnswerDTO `json:"answers" binding:"required,dive"`
	SubmissionType string               `json:"submission_type" binding:"required,oneof=manual auto"`
}

// TestSessionRequestDTO asks for a fresh random sample of questions for a
// subject, for examiner review before the test is persisted.
type TestSessionRequestDTO struct {
	SubjectID uint `json:"subject_id" binding:"required"`
}

// ReplacementRequestDTO asks for one replacement question outside the
// already-picked set.
type ReplacementRequestDTO struct {
	SubjectID  uint   `json:"subject_id" binding:"required"`
	ExcludeIDs []uint `json:"exclude_ids" binding:"required"`
}

// TestCreateDTO is the examiner request for persisting a test snapshot.
// A test is always exactly 20 questions. TimeLimitMinutes of zero falls back
// to the subject's default.
type TestCreateDTO struct {
	Name               string `json:"name" binding:"required"`
	Description        string `json:"description"`
	SubjectID          uint   `json:"subject_id" binding:"required"`
	QuestionIDs        []uint `json:"question_ids" binding:"required,len=20"`
	TimeLimitMinutes   int    `json:"time_limit_minutes" binding:"omitempty,gt=0"`
	AssignedStudentIDs []uint `json:"assigned_student_ids"`
}

// AssignTestDTO replaces a test's assignment list.
type AssignTestDTO struct {
	StudentIDs []uint `json:"student_ids" binding:"required"`
}

// QuestionCreateDTO is the admin request for adding a question to the bank.
type QuestionCreateDTO struct {
	SubjectID          uint     `json:"subject_id" binding:"required"`
	ExternalID         string   `json:"external_id"`
	Text               string   `json:"text" binding:"required"`
	Options            []string `json:"options" binding:"required,len=4,dive,required"`
	CorrectOptionIndex *int     `json:"correct_option_index" binding:"required,min=0,max=3"`
	ImageID            *string  `json:"image_id"`
}

// QuestionUpdateDTO is the admin request for editing a question. Edits never
// touch stored attempt verdicts.
type QuestionUpdateDTO struct {
	Text               string   `json:"text" binding:"required"`
	Options            []string `json:"options" binding:"required,len=4,dive,required"`
	CorrectOptionIndex *int     `json:"correct_option_index" binding:"required,min=0,max=3"`
	ImageID            *string  `json:"image_id"`
}

// QuestionActiveDTO toggles a question in or out of the sampling pool.
type QuestionActiveDTO struct {
	Active *bool `json:"active" binding:"required"`
}

// UserCreateDTO is the admin request for provisioning a student or examiner
// account. The temporary password is generated server side.
type UserCreateDTO struct {
	Username string `json:"username" binding:"required,min=3"`
}

// SubjectCreateDTO is the admin request for adding a subject.
type SubjectCreateDTO struct {
	Name                    string `json:"name" binding:"required"`
	Code                    string `json:"code" binding:"required"`
	Description             string `json:"description"`
	DefaultTimeLimitMinutes int    `json:"default_time_limit_minutes" binding:"omitempty,gt=0"`
}
