package service

import (
	"time"

	"github.com/faanskit/flygprov/internal/model"
	"gorm.io/gorm"
)

// In-memory repository fakes. They implement just enough of the repository
// contracts for the services under test, with deterministic "random" sampling
// (insertion order) so assertions stay stable.

func intPtr(v int) *int { return &v }

func timePtr(v time.Time) *time.Time { return &v }

type fakeTestRepo struct {
	tests  map[uint]model.Test
	nextID uint
}

func newFakeTestRepo() *fakeTestRepo {
	return &fakeTestRepo{tests: make(map[uint]model.Test), nextID: 1}
}

func (f *fakeTestRepo) Create(test *model.Test) error {
	test.ID = f.nextID
	f.nextID++
	f.tests[test.ID] = *test
	return nil
}

func (f *fakeTestRepo) FindByID(id uint) (*model.Test, error) {
	test, ok := f.tests[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return &test, nil
}

func (f *fakeTestRepo) FindAll() ([]model.Test, error) {
	tests := make([]model.Test, 0, len(f.tests))
	for _, t := range f.tests {
		tests = append(tests, t)
	}
	return tests, nil
}

func (f *fakeTestRepo) UpdateAssignedStudents(id uint, studentIDs []uint) error {
	test, ok := f.tests[id]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	test.AssignedStudentIDs = studentIDs
	f.tests[id] = test
	return nil
}

type fakeQuestionRepo struct {
	questions []model.Question
}

func (f *fakeQuestionRepo) Create(q *model.Question) error {
	q.ID = uint(len(f.questions) + 1)
	f.questions = append(f.questions, *q)
	return nil
}

func (f *fakeQuestionRepo) FindByID(id uint) (*model.Question, error) {
	for _, q := range f.questions {
		if q.ID == id {
			return &q, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (f *fakeQuestionRepo) FindByIDs(ids []uint) ([]model.Question, error) {
	var out []model.Question
	for _, id := range ids {
		for _, q := range f.questions {
			if q.ID == id {
				out = append(out, q)
			}
		}
	}
	return out, nil
}

func (f *fakeQuestionRepo) FindBySubject(subjectID uint) ([]model.Question, error) {
	var out []model.Question
	for _, q := range f.questions {
		if q.SubjectID == subjectID {
			out = append(out, q)
		}
	}
	return out, nil
}

func (f *fakeQuestionRepo) Update(q *model.Question) error {
	for i := range f.questions {
		if f.questions[i].ID == q.ID {
			f.questions[i] = *q
			return nil
		}
	}
	return gorm.ErrRecordNotFound
}

func (f *fakeQuestionRepo) Delete(id uint) error {
	for i := range f.questions {
		if f.questions[i].ID == id {
			f.questions = append(f.questions[:i], f.questions[i+1:]...)
			return nil
		}
	}
	return gorm.ErrRecordNotFound
}

func (f *fakeQuestionRepo) SampleActive(subjectID uint, count int) ([]model.Question, error) {
	return f.SampleActiveExcluding(subjectID, nil, count)
}

func (f *fakeQuestionRepo) SampleActiveExcluding(subjectID uint, excludeIDs []uint, count int) ([]model.Question, error) {
	excluded := make(map[uint]bool, len(excludeIDs))
	for _, id := range excludeIDs {
		excluded[id] = true
	}
	var out []model.Question
	for _, q := range f.questions {
		if q.SubjectID != subjectID || !q.Active || excluded[q.ID] {
			continue
		}
		out = append(out, q)
		if len(out) == count {
			break
		}
	}
	return out, nil
}

type fakeAttemptRepo struct {
	attempts map[uint]*model.Attempt
	answers  map[uint][]model.Answer
	nextID   uint
	// loseRace forces FinalizeSubmission to report an unclaimed row, as if a
	// concurrent submission won the conditional update first.
	loseRace bool
}

func newFakeAttemptRepo() *fakeAttemptRepo {
	return &fakeAttemptRepo{
		attempts: make(map[uint]*model.Attempt),
		answers:  make(map[uint][]model.Answer),
		nextID:   1,
	}
}

func (f *fakeAttemptRepo) Create(attempt *model.Attempt) error {
	attempt.ID = f.nextID
	f.nextID++
	stored := *attempt
	f.attempts[attempt.ID] = &stored
	return nil
}

func (f *fakeAttemptRepo) FindByID(id uint) (*model.Attempt, error) {
	attempt, ok := f.attempts[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	copied := *attempt
	return &copied, nil
}

func (f *fakeAttemptRepo) FindByIDWithDetails(id uint) (*model.Attempt, error) {
	attempt, err := f.FindByID(id)
	if err != nil {
		return nil, err
	}
	attempt.Answers = f.answers[id]
	return attempt, nil
}

func (f *fakeAttemptRepo) FindAllByStudent(studentID uint) ([]model.Attempt, error) {
	var out []model.Attempt
	for id := uint(1); id < f.nextID; id++ {
		if a, ok := f.attempts[id]; ok && a.StudentID == studentID {
			out = append(out, *a)
		}
	}
	return out, nil
}

func (f *fakeAttemptRepo) FindAllByStudentAndSubject(studentID, subjectID uint) ([]model.Attempt, error) {
	all, _ := f.FindAllByStudent(studentID)
	var out []model.Attempt
	for _, a := range all {
		if a.SubjectID == subjectID {
			out = append(out, a)
		}
	}
	return out, nil
}

func (f *fakeAttemptRepo) FindAll() ([]model.Attempt, error) {
	var out []model.Attempt
	for id := uint(1); id < f.nextID; id++ {
		if a, ok := f.attempts[id]; ok {
			out = append(out, *a)
		}
	}
	return out, nil
}

func (f *fakeAttemptRepo) FinalizeSubmission(attempt *model.Attempt, answers []model.Answer) (bool, error) {
	stored, ok := f.attempts[attempt.ID]
	if !ok {
		return false, gorm.ErrRecordNotFound
	}
	if f.loseRace || stored.SubmittedAt != nil {
		return false, nil
	}
	stored.Status = model.AttemptStatusSubmitted
	stored.Score = attempt.Score
	stored.Passed = attempt.Passed
	stored.EndTime = attempt.EndTime
	stored.SubmittedAt = attempt.SubmittedAt
	stored.SubmissionType = attempt.SubmissionType
	for i := range answers {
		answers[i].AttemptID = attempt.ID
	}
	f.answers[attempt.ID] = answers
	return true, nil
}

func (f *fakeAttemptRepo) DistinctPassedSubjectIDs(studentID uint) ([]uint, error) {
	seen := make(map[uint]bool)
	var out []uint
	for _, a := range f.attempts {
		if a.StudentID == studentID && a.Passed && !seen[a.SubjectID] {
			seen[a.SubjectID] = true
			out = append(out, a.SubjectID)
		}
	}
	return out, nil
}

func (f *fakeAttemptRepo) LastPassedSubmission(studentID uint) (*time.Time, error) {
	var last *time.Time
	for _, a := range f.attempts {
		if a.StudentID != studentID || !a.Passed || a.SubmittedAt == nil {
			continue
		}
		if last == nil || a.SubmittedAt.After(*last) {
			last = a.SubmittedAt
		}
	}
	return last, nil
}

func (f *fakeAttemptRepo) MarkAbandonedBefore(cutoff time.Time) (int64, error) {
	var swept int64
	for _, a := range f.attempts {
		if a.Status == model.AttemptStatusOpen && a.StartTime.Before(cutoff) {
			a.Status = model.AttemptStatusAbandoned
			swept++
		}
	}
	return swept, nil
}

type fakeUserRepo struct {
	users  map[uint]*model.User
	nextID uint
}

func newFakeUserRepo(users ...model.User) *fakeUserRepo {
	repo := &fakeUserRepo{users: make(map[uint]*model.User), nextID: 1}
	for i := range users {
		u := users[i]
		repo.users[u.ID] = &u
		if u.ID >= repo.nextID {
			repo.nextID = u.ID + 1
		}
	}
	return repo
}

func (f *fakeUserRepo) Create(user *model.User) error {
	user.ID = f.nextID
	f.nextID++
	stored := *user
	f.users[user.ID] = &stored
	return nil
}

func (f *fakeUserRepo) FindByUsername(username string) (*model.User, error) {
	for _, u := range f.users {
		if u.Username == username {
			copied := *u
			return &copied, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (f *fakeUserRepo) FindByID(id uint) (*model.User, error) {
	user, ok := f.users[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	copied := *user
	return &copied, nil
}

func (f *fakeUserRepo) FindByRole(role string) ([]model.User, error) {
	var out []model.User
	for _, u := range f.users {
		if u.Role == role {
			out = append(out, *u)
		}
	}
	return out, nil
}

func (f *fakeUserRepo) FindActiveStudents() ([]model.User, error) {
	students, err := f.FindByRole(model.RoleStudent)
	if err != nil {
		return nil, err
	}
	var out []model.User
	for _, u := range students {
		if !u.Archived {
			out = append(out, u)
		}
	}
	return out, nil
}

func (f *fakeUserRepo) SetArchived(id uint, archived bool) error {
	user, ok := f.users[id]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	user.Archived = archived
	return nil
}

func (f *fakeUserRepo) UpdatePassword(id uint, passwordHash string, forceChange bool) error {
	user, ok := f.users[id]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	user.Password = passwordHash
	user.ForcePasswordChange = forceChange
	return nil
}

type fakeSubjectRepo struct {
	subjects []model.Subject
}

func (f *fakeSubjectRepo) Create(s *model.Subject) error {
	s.ID = uint(len(f.subjects) + 1)
	f.subjects = append(f.subjects, *s)
	return nil
}

func (f *fakeSubjectRepo) FindByID(id uint) (*model.Subject, error) {
	for _, s := range f.subjects {
		if s.ID == id {
			return &s, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (f *fakeSubjectRepo) FindAll() ([]model.Subject, error) {
	return append([]model.Subject(nil), f.subjects...), nil
}

func (f *fakeSubjectRepo) Count() (int64, error) {
	return int64(len(f.subjects)), nil
}

func (f *fakeSubjectRepo) Update(s *model.Subject) error {
	for i := range f.subjects {
		if f.subjects[i].ID == s.ID {
			f.subjects[i] = *s
			return nil
		}
	}
	return gorm.ErrRecordNotFound
}

func (f *fakeSubjectRepo) Delete(id uint) error {
	for i := range f.subjects {
		if f.subjects[i].ID == id {
			f.subjects = append(f.subjects[:i], f.subjects[i+1:]...)
			return nil
		}
	}
	return gorm.ErrRecordNotFound
}
