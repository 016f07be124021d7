package service

import (
	"testing"

	"github.com/faanskit/flygprov/internal/dto"
	"github.com/faanskit/flygprov/internal/model"
)

func bankQuestions(count int, correctIndex int) []model.Question {
	questions := make([]model.Question, count)
	for i := range questions {
		questions[i] = model.Question{
			ID:                 uint(i + 1),
			Options:            []string{"a", "b", "c", "d"},
			CorrectOptionIndex: correctIndex,
		}
	}
	return questions
}

func TestGrade(t *testing.T) {
	questions := []model.Question{
		{ID: 1, CorrectOptionIndex: 2},
		{ID: 2, CorrectOptionIndex: 0},
		{ID: 3, CorrectOptionIndex: 3},
	}

	tests := []struct {
		name      string
		submitted []dto.SubmittedAnswerDTO
		wantScore int
		wantFlags []bool
	}{
		{
			name: "all correct",
			submitted: []dto.SubmittedAnswerDTO{
				{QuestionID: 1, SelectedOptionIndex: intPtr(2)},
				{QuestionID: 2, SelectedOptionIndex: intPtr(0)},
				{QuestionID: 3, SelectedOptionIndex: intPtr(3)},
			},
			wantScore: 3,
			wantFlags: []bool{true, true, true},
		},
		{
			name: "one wrong",
			submitted: []dto.SubmittedAnswerDTO{
				{QuestionID: 1, SelectedOptionIndex: intPtr(2)},
				{QuestionID: 2, SelectedOptionIndex: intPtr(1)},
				{QuestionID: 3, SelectedOptionIndex: intPtr(3)},
			},
			wantScore: 2,
			wantFlags: []bool{true, false, true},
		},
		{
			name: "unanswered question is incorrect",
			submitted: []dto.SubmittedAnswerDTO{
				{QuestionID: 1, SelectedOptionIndex: nil},
				{QuestionID: 2, SelectedOptionIndex: intPtr(0)},
			},
			wantScore: 1,
			wantFlags: []bool{false, true},
		},
		{
			name: "answer for unknown question is incorrect",
			submitted: []dto.SubmittedAnswerDTO{
				{QuestionID: 99, SelectedOptionIndex: intPtr(2)},
				{QuestionID: 1, SelectedOptionIndex: intPtr(2)},
			},
			wantScore: 1,
			wantFlags: []bool{false, true},
		},
		{
			name:      "empty submission scores zero",
			submitted: nil,
			wantScore: 0,
			wantFlags: nil,
		},
	}

	grader := NewGradingService()
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			answers, score := grader.Grade(questions, tc.submitted)
			if score != tc.wantScore {
				t.Errorf("score = %d, want %d", score, tc.wantScore)
			}
			if len(answers) != len(tc.submitted) {
				t.Fatalf("got %d answers, want %d", len(answers), len(tc.submitted))
			}
			for i, want := range tc.wantFlags {
				if answers[i].IsCorrect != want {
					t.Errorf("answer %d IsCorrect = %v, want %v", i, answers[i].IsCorrect, want)
				}
				if answers[i].QuestionID != tc.submitted[i].QuestionID {
					t.Errorf("answer %d QuestionID = %d, want %d", i, answers[i].QuestionID, tc.submitted[i].QuestionID)
				}
			}
		})
	}
}

func TestGradeRecordsSelectionSnapshot(t *testing.T) {
	grader := NewGradingService()
	answers, _ := grader.Grade(bankQuestions(1, 1), []dto.SubmittedAnswerDTO{
		{QuestionID: 1, SelectedOptionIndex: intPtr(3)},
	})
	if answers[0].SelectedOptionIndex == nil || *answers[0].SelectedOptionIndex != 3 {
		t.Errorf("SelectedOptionIndex = %v, want 3", answers[0].SelectedOptionIndex)
	}
}

func TestPassedThreshold(t *testing.T) {
	tests := []struct {
		score int
		want  bool
	}{
		{score: 0, want: false},
		{score: 14, want: false},
		{score: 15, want: true},
		{score: 20, want: true},
	}

	grader := NewGradingService()
	for _, tc := range tests {
		if got := grader.Passed(tc.score); got != tc.want {
			t.Errorf("Passed(%d) = %v, want %v", tc.score, got, tc.want)
		}
	}
}
