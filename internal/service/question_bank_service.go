package service

import (
	"fmt"

	"github.com/faanskit/flygprov/internal/model"
	"github.com/faanskit/flygprov/internal/repository"
	"github.com/rs/zerolog/log"
)

// QuestionBankService hands out random samples of active questions. It is
// read-only: inactive and soft-deleted questions never enter a sample.
type QuestionBankService interface {
	// SampleQuestions returns exactly count active questions for the
	// subject, uniformly at random without replacement, or
	// ErrInsufficientQuestions when the pool is too small.
	SampleQuestions(subjectID uint, count int) ([]model.Question, error)
	// SampleReplacement returns one random active question for the subject
	// outside excludeIDs, or ErrNoReplacementAvailable when the exclusion
	// set covers the whole pool.
	SampleReplacement(subjectID uint, excludeIDs []uint) (*model.Question, error)
}

type questionBankService struct {
	questionRepo repository.QuestionRepository
}

func NewQuestionBankService(questionRepo repository.QuestionRepository) QuestionBankService {
	return &questionBankService{questionRepo: questionRepo}
}

func (s *questionBankService) SampleQuestions(subjectID uint, count int) ([]model.Question, error) {
	questions, err := s.questionRepo.SampleActive(subjectID, count)
	if err != nil {
		return nil, fmt.Errorf("sampling questions for subject %d: %w", subjectID, err)
	}
	if len(questions) < count {
		log.Warn().Uint("subjectID", subjectID).Int("wanted", count).Int("available", len(questions)).
			Msg("Subject has too few active questions for a full test")
		return nil, fmt.Errorf("subject %d has %d active questions, need %d: %w",
			subjectID, len(questions), count, ErrInsufficientQuestions)
	}
	return questions, nil
}

func (s *questionBankService) SampleReplacement(subjectID uint, excludeIDs []uint) (*model.Question, error) {
	questions, err := s.questionRepo.SampleActiveExcluding(subjectID, excludeIDs, 1)
	if err != nil {
		return nil, fmt.Errorf("sampling replacement for subject %d: %w", subjectID, err)
	}
	if len(questions) == 0 {
		return nil, fmt.Errorf("subject %d: %w", subjectID, ErrNoReplacementAvailable)
	}
	return &questions[0], nil
}
