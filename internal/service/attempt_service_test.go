package service

import (
	"encoding/json"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/faanskit/flygprov/internal/dto"
	"github.com/faanskit/flygprov/internal/model"
)

const (
	fixtureStudentID = uint(42)
	fixtureOtherID   = uint(43)
)

var fixtureStart = time.Date(2025, 3, 10, 9, 0, 0, 0, time.UTC)

// attemptFixture wires an attemptService against in-memory repositories with
// one 20-question test assigned to fixtureStudentID. The service clock starts
// at fixtureStart and can be moved per test.
type attemptFixture struct {
	svc         *attemptService
	testRepo    *fakeTestRepo
	attemptRepo *fakeAttemptRepo
	testID      uint
	clock       *time.Time
}

func newAttemptFixture(t *testing.T) *attemptFixture {
	t.Helper()

	questionRepo := &fakeQuestionRepo{}
	questionIDs := make([]uint, 0, model.TestSize)
	for i := 0; i < model.TestSize; i++ {
		q := model.Question{
			SubjectID:          7,
			Text:               "q",
			Options:            []string{"a", "b", "c", "d"},
			CorrectOptionIndex: i % model.OptionCount,
			Active:             true,
		}
		questionRepo.Create(&q)
		questionIDs = append(questionIDs, q.ID)
	}

	testRepo := newFakeTestRepo()
	test := model.Test{
		Name:               "MET Test 1",
		SubjectID:          7,
		QuestionIDs:        questionIDs,
		TimeLimitMinutes:   30,
		CreatedBy:          1,
		AssignedStudentIDs: []uint{fixtureStudentID},
	}
	if err := testRepo.Create(&test); err != nil {
		t.Fatalf("seeding test: %v", err)
	}

	clock := fixtureStart
	attemptRepo := newFakeAttemptRepo()
	svc := &attemptService{
		testRepo:     testRepo,
		questionRepo: questionRepo,
		attemptRepo:  attemptRepo,
		grader:       NewGradingService(),
		now:          func() time.Time { return clock },
	}
	return &attemptFixture{
		svc:         svc,
		testRepo:    testRepo,
		attemptRepo: attemptRepo,
		testID:      test.ID,
		clock:       &clock,
	}
}

// correctSubmission answers the first correctCount questions correctly and
// the rest wrong.
func (f *attemptFixture) correctSubmission(t *testing.T, correctCount int) dto.AttemptSubmitDTO {
	t.Helper()
	test, err := f.testRepo.FindByID(f.testID)
	if err != nil {
		t.Fatalf("loading fixture test: %v", err)
	}
	answers := make([]dto.SubmittedAnswerDTO, 0, len(test.QuestionIDs))
	for i, qid := range test.QuestionIDs {
		selected := i % model.OptionCount
		if i >= correctCount {
			selected = (selected + 1) % model.OptionCount
		}
		answers = append(answers, dto.SubmittedAnswerDTO{QuestionID: qid, SelectedOptionIndex: intPtr(selected)})
	}
	return dto.AttemptSubmitDTO{Answers: answers, SubmissionType: model.SubmissionTypeManual}
}

func TestStartCreatesOpenAttempt(t *testing.T) {
	f := newAttemptFixture(t)

	resp, err := f.svc.Start(f.testID, fixtureStudentID)
	if err != nil {
		t.Fatalf("Start: %v", err)
	}
	if len(resp.Questions) != model.TestSize {
		t.Errorf("got %d questions, want %d", len(resp.Questions), model.TestSize)
	}
	if resp.TimeLimitMinutes != 30 {
		t.Errorf("TimeLimitMinutes = %d, want 30", resp.TimeLimitMinutes)
	}

	attempt, err := f.attemptRepo.FindByID(resp.AttemptID)
	if err != nil {
		t.Fatalf("loading created attempt: %v", err)
	}
	if attempt.Status != model.AttemptStatusOpen {
		t.Errorf("status = %q, want %q", attempt.Status, model.AttemptStatusOpen)
	}
	if attempt.StudentID != fixtureStudentID {
		t.Errorf("studentID = %d, want %d", attempt.StudentID, fixtureStudentID)
	}
	if !attempt.StartTime.Equal(fixtureStart) {
		t.Errorf("startTime = %v, want %v", attempt.StartTime, fixtureStart)
	}
	if attempt.SubjectID != 7 {
		t.Errorf("subjectID = %d, want 7", attempt.SubjectID)
	}
}

func TestStartPayloadNeverContainsCorrectIndex(t *testing.T) {
	f := newAttemptFixture(t)

	resp, err := f.svc.Start(f.testID, fixtureStudentID)
	if err != nil {
		t.Fatalf("Start: %v", err)
	}
	raw, err := json.Marshal(resp)
	if err != nil {
		t.Fatalf("marshaling response: %v", err)
	}
	if strings.Contains(string(raw), "correct_option_index") {
		t.Fatalf("test-start payload leaks the correct option index: %s", raw)
	}
}

func TestStartErrors(t *testing.T) {
	f := newAttemptFixture(t)

	tests := []struct {
		name      string
		testID    uint
		studentID uint
		wantErr   error
	}{
		{name: "unknown test", testID: 999, studentID: fixtureStudentID, wantErr: ErrNotFound},
		{name: "not assigned", testID: f.testID, studentID: fixtureOtherID, wantErr: ErrForbidden},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := f.svc.Start(tc.testID, tc.studentID); !errors.Is(err, tc.wantErr) {
				t.Errorf("err = %v, want %v", err, tc.wantErr)
			}
		})
	}
}

func TestSubmitGradesAndFinalizes(t *testing.T) {
	tests := []struct {
		name       string
		correct    int
		wantPassed bool
	}{
		{name: "15 of 20 passes", correct: 15, wantPassed: true},
		{name: "14 of 20 fails", correct: 14, wantPassed: false},
		{name: "all correct passes", correct: 20, wantPassed: true},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			f := newAttemptFixture(t)
			started, err := f.svc.Start(f.testID, fixtureStudentID)
			if err != nil {
				t.Fatalf("Start: %v", err)
			}

			*f.clock = fixtureStart.Add(10 * time.Minute)
			result, err := f.svc.Submit(started.AttemptID, fixtureStudentID, f.correctSubmission(t, tc.correct))
			if err != nil {
				t.Fatalf("Submit: %v", err)
			}
			if result.Score != tc.correct {
				t.Errorf("score = %d, want %d", result.Score, tc.correct)
			}
			if result.Passed != tc.wantPassed {
				t.Errorf("passed = %v, want %v", result.Passed, tc.wantPassed)
			}

			stored, err := f.attemptRepo.FindByIDWithDetails(started.AttemptID)
			if err != nil {
				t.Fatalf("loading attempt: %v", err)
			}
			if stored.Status != model.AttemptStatusSubmitted {
				t.Errorf("status = %q, want %q", stored.Status, model.AttemptStatusSubmitted)
			}
			if stored.SubmittedAt == nil || !stored.SubmittedAt.Equal(*f.clock) {
				t.Errorf("submittedAt = %v, want %v", stored.SubmittedAt, *f.clock)
			}
			if len(stored.Answers) != model.TestSize {
				t.Errorf("stored %d answers, want %d", len(stored.Answers), model.TestSize)
			}
		})
	}
}

func TestSubmitRejectsResubmission(t *testing.T) {
	f := newAttemptFixture(t)
	started, _ := f.svc.Start(f.testID, fixtureStudentID)

	if _, err := f.svc.Submit(started.AttemptID, fixtureStudentID, f.correctSubmission(t, 20)); err != nil {
		t.Fatalf("first Submit: %v", err)
	}
	_, err := f.svc.Submit(started.AttemptID, fixtureStudentID, f.correctSubmission(t, 0))
	if !errors.Is(err, ErrAlreadySubmitted) {
		t.Fatalf("second Submit err = %v, want ErrAlreadySubmitted", err)
	}

	// The losing submission must not overwrite the stored grading.
	stored, _ := f.attemptRepo.FindByID(started.AttemptID)
	if stored.Score != 20 {
		t.Errorf("score after rejected resubmission = %d, want 20", stored.Score)
	}
}

func TestSubmitRacingSubmissionLosesCleanly(t *testing.T) {
	// The fast-path check sees an open attempt, but the conditional update is
	// claimed by a concurrent submission in between.
	f := newAttemptFixture(t)
	started, _ := f.svc.Start(f.testID, fixtureStudentID)
	f.attemptRepo.loseRace = true

	_, err := f.svc.Submit(started.AttemptID, fixtureStudentID, f.correctSubmission(t, 20))
	if !errors.Is(err, ErrAlreadySubmitted) {
		t.Fatalf("err = %v, want ErrAlreadySubmitted", err)
	}
}

func TestSubmitOwnershipAndNotFound(t *testing.T) {
	f := newAttemptFixture(t)
	started, _ := f.svc.Start(f.testID, fixtureStudentID)

	if _, err := f.svc.Submit(started.AttemptID, fixtureOtherID, f.correctSubmission(t, 20)); !errors.Is(err, ErrForbidden) {
		t.Errorf("foreign student err = %v, want ErrForbidden", err)
	}
	if _, err := f.svc.Submit(999, fixtureStudentID, f.correctSubmission(t, 20)); !errors.Is(err, ErrNotFound) {
		t.Errorf("unknown attempt err = %v, want ErrNotFound", err)
	}
}

func TestSubmitDeadline(t *testing.T) {
	tests := []struct {
		name    string
		elapsed time.Duration
		wantErr error
	}{
		{name: "well within the limit", elapsed: 29 * time.Minute},
		{name: "inside the latency tolerance", elapsed: 30*time.Minute + submitTolerance - time.Second},
		{name: "past the tolerance", elapsed: 30*time.Minute + submitTolerance + time.Second, wantErr: ErrTimeExpired},
		{name: "hours late", elapsed: 5 * time.Hour, wantErr: ErrTimeExpired},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			f := newAttemptFixture(t)
			started, err := f.svc.Start(f.testID, fixtureStudentID)
			if err != nil {
				t.Fatalf("Start: %v", err)
			}

			*f.clock = fixtureStart.Add(tc.elapsed)
			_, err = f.svc.Submit(started.AttemptID, fixtureStudentID, f.correctSubmission(t, 20))
			if tc.wantErr != nil {
				if !errors.Is(err, tc.wantErr) {
					t.Fatalf("err = %v, want %v", err, tc.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
		})
	}
}

func TestGetAttemptDetail(t *testing.T) {
	f := newAttemptFixture(t)
	started, _ := f.svc.Start(f.testID, fixtureStudentID)
	*f.clock = fixtureStart.Add(10 * time.Minute)
	if _, err := f.svc.Submit(started.AttemptID, fixtureStudentID, f.correctSubmission(t, 16)); err != nil {
		t.Fatalf("Submit: %v", err)
	}

	t.Run("owner sees the full result", func(t *testing.T) {
		detail, err := f.svc.GetAttemptDetail(started.AttemptID, fixtureStudentID, model.RoleStudent)
		if err != nil {
			t.Fatalf("GetAttemptDetail: %v", err)
		}
		if detail.Score != 16 || !detail.Passed {
			t.Errorf("score/passed = %d/%v, want 16/true", detail.Score, detail.Passed)
		}
		if len(detail.Answers) != model.TestSize {
			t.Errorf("got %d answers, want %d", len(detail.Answers), model.TestSize)
		}
	})

	t.Run("another student is forbidden", func(t *testing.T) {
		if _, err := f.svc.GetAttemptDetail(started.AttemptID, fixtureOtherID, model.RoleStudent); !errors.Is(err, ErrForbidden) {
			t.Errorf("err = %v, want ErrForbidden", err)
		}
	})

	t.Run("examiner may read any attempt", func(t *testing.T) {
		if _, err := f.svc.GetAttemptDetail(started.AttemptID, fixtureOtherID, model.RoleExaminer); err != nil {
			t.Errorf("unexpected error: %v", err)
		}
	})

	t.Run("unknown attempt", func(t *testing.T) {
		if _, err := f.svc.GetAttemptDetail(999, fixtureStudentID, model.RoleStudent); !errors.Is(err, ErrNotFound) {
			t.Errorf("err = %v, want ErrNotFound", err)
		}
	})
}
