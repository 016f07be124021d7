package service

import (
	"fmt"

	"github.com/faanskit/flygprov/internal/dto"
	"github.com/faanskit/flygprov/internal/model"
	"github.com/faanskit/flygprov/internal/repository"
)

// firstSubjectCode is the subject every new student starts with; it is
// always available even with zero attempts.
const firstSubjectCode = "LAW"

// StudentService builds the per-subject dashboard for the calling student.
type StudentService interface {
	Dashboard(studentID uint) ([]dto.DashboardEntryDTO, error)
}

type studentService struct {
	subjectRepo repository.SubjectRepository
	attemptRepo repository.AttemptRepository
}

func NewStudentService(subjectRepo repository.SubjectRepository, attemptRepo repository.AttemptRepository) StudentService {
	return &studentService{subjectRepo: subjectRepo, attemptRepo: attemptRepo}
}

func (s *studentService) Dashboard(studentID uint) ([]dto.DashboardEntryDTO, error) {
	subjects, err := s.subjectRepo.FindAll()
	if err != nil {
		return nil, fmt.Errorf("loading subjects: %w", err)
	}
	attempts, err := s.attemptRepo.FindAllByStudent(studentID)
	if err != nil {
		return nil, fmt.Errorf("loading attempts for student %d: %w", studentID, err)
	}

	entries := make([]dto.DashboardEntryDTO, 0, len(subjects))
	for _, subject := range subjects {
		var subjectAttempts []model.Attempt
		for _, a := range attempts {
			// Swept attempts are not in progress and stay off the dashboard.
			if a.SubjectID == subject.ID && a.Status != model.AttemptStatusAbandoned {
				subjectAttempts = append(subjectAttempts, a)
			}
		}

		hasPassed := false
		bestScore := -1
		for _, a := range subjectAttempts {
			if a.Passed {
				hasPassed = true
			}
			if a.Score > bestScore {
				bestScore = a.Score
			}
		}

		status := "locked"
		switch {
		case hasPassed:
			status = "passed"
		case len(subjectAttempts) > 0:
			status = "available"
		case subject.Code == firstSubjectCode:
			status = "available"
		}

		entry := dto.DashboardEntryDTO{
			SubjectID: subject.ID,
			Subject:   subject.Name,
			Status:    status,
			Attempts:  len(subjectAttempts),
		}
		if len(subjectAttempts) > 0 {
			formatted := fmt.Sprintf("%d/%d", bestScore, model.TestSize)
			entry.BestScore = &formatted
		}
		entries = append(entries, entry)
	}
	return entries, nil
}
