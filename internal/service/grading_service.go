package service

import (
	"github.com/faanskit/flygprov/internal/dto"
	"github.com/faanskit/flygprov/internal/model"
	"github.com/rs/zerolog/log"
)

// PassThreshold is the minimum score for a passed attempt: 15 of 20 (75%).
// It is a global constant, not configurable per subject.
const PassThreshold = 15

// GradingService compares submitted canonical answer indices against each
// question's canonical correct index. It never fails on malformed input: an
// answer for a question outside the test's set, or with no selection, is
// simply incorrect, so a partially broken client submission still yields a
// score.
type GradingService interface {
	Grade(questions []model.Question, submitted []dto.SubmittedAnswerDTO) (answers []model.Answer, score int)
	Passed(score int) bool
}

type gradingService struct{}

func NewGradingService() GradingService {
	return &gradingService{}
}

func (s *gradingService) Grade(questions []model.Question, submitted []dto.SubmittedAnswerDTO) ([]model.Answer, int) {
	questionMap := make(map[uint]model.Question, len(questions))
	for _, q := range questions {
		questionMap[q.ID] = q
	}

	answers := make([]model.Answer, 0, len(submitted))
	score := 0
	for _, sub := range submitted {
		question, known := questionMap[sub.QuestionID]
		if !known {
			log.Warn().Uint("questionID", sub.QuestionID).Msg("Answer references a question outside the test's question set, grading as incorrect")
		}
		isCorrect := known &&
			sub.SelectedOptionIndex != nil &&
			*sub.SelectedOptionIndex == question.CorrectOptionIndex
		if isCorrect {
			score++
		}
		answers = append(answers, model.Answer{
			QuestionID:          sub.QuestionID,
			SelectedOptionIndex: sub.SelectedOptionIndex,
			IsCorrect:           isCorrect,
		})
	}
	return answers, score
}

func (s *gradingService) Passed(score int) bool {
	return score >= PassThreshold
}
