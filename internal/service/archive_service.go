package service

import (
	"fmt"
	"time"

	"github.com/faanskit/flygprov/internal/dto"
	"github.com/faanskit/flygprov/internal/repository"
	"github.com/rs/zerolog/log"
)

// ArchiveService is the daily batch pass over students and attempts.
// A student who has passed every subject and then stayed inactive beyond the
// grace period is archived; open attempts older than the stale cutoff are
// marked abandoned so the open set stays bounded.
type ArchiveService interface {
	// EvaluateArchival archives completed students whose last passed
	// submission is older than gracePeriodDays. A zero-subject catalog
	// aborts the whole run with ErrNoSubjects.
	EvaluateArchival(gracePeriodDays int) (archivedCount int, err error)
	// SweepStaleAttempts marks open attempts started more than olderThan
	// ago as abandoned.
	SweepStaleAttempts(olderThan time.Duration) (int64, error)
	// Run performs one full daily pass (sweep, then archival) and reports
	// the counts. The scheduler and the manual admin trigger both go
	// through here.
	Run(gracePeriodDays int, staleAfter time.Duration) (*dto.ArchiveRunSummaryDTO, error)
}

type archiveService struct {
	userRepo    repository.UserRepository
	subjectRepo repository.SubjectRepository
	attemptRepo repository.AttemptRepository
	now         func() time.Time
}

func NewArchiveService(
	userRepo repository.UserRepository,
	subjectRepo repository.SubjectRepository,
	attemptRepo repository.AttemptRepository,
) ArchiveService {
	return &archiveService{
		userRepo:    userRepo,
		subjectRepo: subjectRepo,
		attemptRepo: attemptRepo,
		now:         time.Now,
	}
}

func (s *archiveService) EvaluateArchival(gracePeriodDays int) (int, error) {
	totalSubjects, err := s.subjectRepo.Count()
	if err != nil {
		return 0, fmt.Errorf("counting subjects: %w", err)
	}
	if totalSubjects == 0 {
		log.Warn().Msg("Archival run aborted: subject catalog is empty")
		return 0, ErrNoSubjects
	}

	students, err := s.userRepo.FindActiveStudents()
	if err != nil {
		return 0, fmt.Errorf("loading active students: %w", err)
	}
	if len(students) == 0 {
		log.Info().Msg("Archival run: no active students to process")
		return 0, nil
	}

	gracePeriod := time.Duration(gracePeriodDays) * 24 * time.Hour
	cutoff := s.now().Add(-gracePeriod)

	archived := 0
	for _, student := range students {
		passedSubjects, err := s.attemptRepo.DistinctPassedSubjectIDs(student.ID)
		if err != nil {
			return archived, fmt.Errorf("loading passed subjects for student %d: %w", student.ID, err)
		}
		if int64(len(passedSubjects)) < totalSubjects {
			continue
		}

		lastPassed, err := s.attemptRepo.LastPassedSubmission(student.ID)
		if err != nil {
			return archived, fmt.Errorf("loading last passed submission for student %d: %w", student.ID, err)
		}
		if lastPassed == nil {
			continue
		}
		if !lastPassed.Before(cutoff) {
			log.Info().Uint("studentID", student.ID).Str("username", student.Username).
				Msg("Student has passed all subjects but is still within the grace period")
			continue
		}

		if err := s.userRepo.SetArchived(student.ID, true); err != nil {
			return archived, fmt.Errorf("archiving student %d: %w", student.ID, err)
		}
		log.Info().Uint("studentID", student.ID).Str("username", student.Username).Msg("Student archived")
		archived++
	}

	log.Info().Int("archived", archived).Int("students", len(students)).Msg("Archival run finished")
	return archived, nil
}

func (s *archiveService) Run(gracePeriodDays int, staleAfter time.Duration) (*dto.ArchiveRunSummaryDTO, error) {
	swept, err := s.SweepStaleAttempts(staleAfter)
	if err != nil {
		return nil, err
	}
	archived, err := s.EvaluateArchival(gracePeriodDays)
	if err != nil {
		return nil, err
	}
	return &dto.ArchiveRunSummaryDTO{
		ArchivedStudents: archived,
		SweptAttempts:    swept,
	}, nil
}

func (s *archiveService) SweepStaleAttempts(olderThan time.Duration) (int64, error) {
	cutoff := s.now().Add(-olderThan)
	swept, err := s.attemptRepo.MarkAbandonedBefore(cutoff)
	if err != nil {
		return 0, fmt.Errorf("sweeping stale attempts: %w", err)
	}
	if swept > 0 {
		log.Info().Int64("swept", swept).Time("cutoff", cutoff).Msg("Stale open attempts marked abandoned")
	}
	return swept, nil
}
