package service

import (
	"errors"
	"fmt"
	"time"

	"github.com/faanskit/flygprov/internal/dto"
	"github.com/faanskit/flygprov/internal/model"
	"github.com/faanskit/flygprov/internal/repository"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"
)

// submitTolerance absorbs network latency between the client countdown
// firing its auto-submit at zero and the request reaching the server.
const submitTolerance = 30 * time.Second

// AttemptService manages the attempt lifecycle: open on start, exactly one
// transition to submitted. The time limit is enforced server side from the
// stored start time, not trusted from the client countdown.
type AttemptService interface {
	Start(testID, studentID uint) (*dto.StartTestResponseDTO, error)
	Submit(attemptID, studentID uint, req dto.AttemptSubmitDTO) (*dto.SubmitResultDTO, error)
	GetAttemptDetail(attemptID, requesterID uint, requesterRole string) (*dto.AttemptDetailDTO, error)
}

type attemptService struct {
	testRepo     repository.TestRepository
	questionRepo repository.QuestionRepository
	attemptRepo  repository.AttemptRepository
	grader       GradingService
	now          func() time.Time
}

func NewAttemptService(
	testRepo repository.TestRepository,
	questionRepo repository.QuestionRepository,
	attemptRepo repository.AttemptRepository,
	grader GradingService,
) AttemptService {
	return &attemptService{
		testRepo:     testRepo,
		questionRepo: questionRepo,
		attemptRepo:  attemptRepo,
		grader:       grader,
		now:          time.Now,
	}
}

func (s *attemptService) Start(testID, studentID uint) (*dto.StartTestResponseDTO, error) {
	test, err := s.testRepo.FindByID(testID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("test %d: %w", testID, ErrNotFound)
		}
		return nil, fmt.Errorf("loading test %d: %w", testID, err)
	}
	if !test.AssignedTo(studentID) {
		return nil, fmt.Errorf("test %d is not assigned to student %d: %w", testID, studentID, ErrForbidden)
	}

	questions, err := s.questionRepo.FindByIDs(test.QuestionIDs)
	if err != nil {
		return nil, fmt.Errorf("loading questions for test %d: %w", testID, err)
	}

	attempt := model.Attempt{
		TestID:    test.ID,
		StudentID: studentID,
		SubjectID: test.SubjectID,
		Status:    model.AttemptStatusOpen,
		StartTime: s.now(),
	}
	if err := s.attemptRepo.Create(&attempt); err != nil {
		return nil, fmt.Errorf("creating attempt for test %d: %w", testID, err)
	}
	log.Info().Uint("attemptID", attempt.ID).Uint("testID", testID).Uint("studentID", studentID).
		Msg("Attempt started")

	// Questions are mapped by hand: the canonical correct index must never
	// reach a test-start payload.
	questionDTOs := make([]dto.TestQuestionDTO, len(questions))
	for i, q := range questions {
		questionDTOs[i] = dto.TestQuestionDTO{
			ID:         q.ID,
			ExternalID: q.ExternalID,
			Text:       q.Text,
			Options:    q.Options,
			ImageID:    q.ImageID,
		}
	}

	return &dto.StartTestResponseDTO{
		AttemptID:        attempt.ID,
		TestName:         test.Name,
		TimeLimitMinutes: test.TimeLimitMinutes,
		Questions:        questionDTOs,
	}, nil
}

func (s *attemptService) Submit(attemptID, studentID uint, req dto.AttemptSubmitDTO) (*dto.SubmitResultDTO, error) {
	attempt, err := s.attemptRepo.FindByID(attemptID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("attempt %d: %w", attemptID, ErrNotFound)
		}
		return nil, fmt.Errorf("loading attempt %d: %w", attemptID, err)
	}
	if attempt.StudentID != studentID {
		return nil, fmt.Errorf("attempt %d belongs to another student: %w", attemptID, ErrForbidden)
	}
	if attempt.SubmittedAt != nil {
		return nil, fmt.Errorf("attempt %d: %w", attemptID, ErrAlreadySubmitted)
	}

	test, err := s.testRepo.FindByID(attempt.TestID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("test %d for attempt %d: %w", attempt.TestID, attemptID, ErrNotFound)
		}
		return nil, fmt.Errorf("loading test %d: %w", attempt.TestID, err)
	}

	now := s.now()
	if now.After(attempt.Deadline(test.TimeLimitMinutes, submitTolerance)) {
		log.Warn().Uint("attemptID", attemptID).Time("startTime", attempt.StartTime).
			Int("timeLimitMinutes", test.TimeLimitMinutes).
			Msg("Submission arrived past the deadline, rejecting")
		return nil, fmt.Errorf("attempt %d: %w", attemptID, ErrTimeExpired)
	}

	questions, err := s.questionRepo.FindByIDs(test.QuestionIDs)
	if err != nil {
		return nil, fmt.Errorf("loading questions for test %d: %w", test.ID, err)
	}

	answers, score := s.grader.Grade(questions, req.Answers)
	attempt.Score = score
	attempt.Passed = s.grader.Passed(score)
	attempt.EndTime = &now
	attempt.SubmittedAt = &now
	attempt.SubmissionType = req.SubmissionType

	// The terminal write is a compare-and-set on submitted_at: if the
	// auto-submit timer and a manual click race, exactly one grading wins.
	claimed, err := s.attemptRepo.FinalizeSubmission(attempt, answers)
	if err != nil {
		return nil, fmt.Errorf("finalizing attempt %d: %w", attemptID, err)
	}
	if !claimed {
		return nil, fmt.Errorf("attempt %d: %w", attemptID, ErrAlreadySubmitted)
	}

	log.Info().Uint("attemptID", attemptID).Int("score", score).Bool("passed", attempt.Passed).
		Str("submissionType", req.SubmissionType).Msg("Attempt submitted and graded")

	return &dto.SubmitResultDTO{
		AttemptID:   attempt.ID,
		Score:       score,
		Passed:      attempt.Passed,
		SubmittedAt: now,
	}, nil
}

func (s *attemptService) GetAttemptDetail(attemptID, requesterID uint, requesterRole string) (*dto.AttemptDetailDTO, error) {
	attempt, err := s.attemptRepo.FindByIDWithDetails(attemptID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("attempt %d: %w", attemptID, ErrNotFound)
		}
		return nil, fmt.Errorf("loading attempt %d: %w", attemptID, err)
	}
	// Owned by the student who created it; readable by examiners and admins.
	if requesterRole == model.RoleStudent && attempt.StudentID != requesterID {
		return nil, fmt.Errorf("attempt %d belongs to another student: %w", attemptID, ErrForbidden)
	}

	resp := dto.AttemptDetailDTO{
		ID:             attempt.ID,
		TestID:         attempt.TestID,
		TestName:       attempt.Test.Name,
		StudentID:      attempt.StudentID,
		SubjectID:      attempt.SubjectID,
		Status:         attempt.Status,
		Score:          attempt.Score,
		Passed:         attempt.Passed,
		StartTime:      attempt.StartTime,
		EndTime:        attempt.EndTime,
		SubmittedAt:    attempt.SubmittedAt,
		SubmissionType: attempt.SubmissionType,
	}
	resp.Answers = make([]dto.AnswerDetailDTO, len(attempt.Answers))
	for i, ans := range attempt.Answers {
		// Text and options come from the question as it exists now; the
		// verdict and selection are the submit-time snapshot.
		resp.Answers[i] = dto.AnswerDetailDTO{
			QuestionID:          ans.QuestionID,
			QuestionText:        ans.Question.Text,
			Options:             ans.Question.Options,
			SelectedOptionIndex: ans.SelectedOptionIndex,
			CorrectOptionIndex:  ans.Question.CorrectOptionIndex,
			IsCorrect:           ans.IsCorrect,
		}
	}
	return &resp, nil
}
