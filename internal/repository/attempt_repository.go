package repository

import (
	"time"

	"github.com/faanskit/flygprov/internal/model"
	"gorm.io/gorm"
)

type AttemptRepository interface {
	Create(attempt *model.Attempt) error
	FindByID(id uint) (*model.Attempt, error)
	FindByIDWithDetails(id uint) (*model.Attempt, error)
	FindAllByStudent(studentID uint) ([]model.Attempt, error)
	FindAllByStudentAndSubject(studentID, subjectID uint) ([]model.Attempt, error)
	FindAll() ([]model.Attempt, error)

	// FinalizeSubmission performs the single open -> submitted transition.
	// The terminal write is a conditional update guarded by
	// "submitted_at IS NULL": of two racing submissions exactly one claims
	// the row, and the loser gets claimed == false with nothing written.
	// The attempt fields and its graded answers are persisted in one
	// transaction so a reader never observes a half-updated attempt.
	FinalizeSubmission(attempt *model.Attempt, answers []model.Answer) (claimed bool, err error)

	// DistinctPassedSubjectIDs returns the subject IDs in which the student
	// has at least one passed attempt.
	DistinctPassedSubjectIDs(studentID uint) ([]uint, error)
	// LastPassedSubmission returns the most recent submission time among the
	// student's passed attempts, or nil if there is none.
	LastPassedSubmission(studentID uint) (*time.Time, error)
	// MarkAbandonedBefore flags open attempts started before cutoff as
	// abandoned and returns how many rows changed.
	MarkAbandonedBefore(cutoff time.Time) (int64, error)
}

type attemptRepository struct {
	db *gorm.DB
}

func NewAttemptRepository(db *gorm.DB) AttemptRepository {
	return &attemptRepository{db: db}
}

func (r *attemptRepository) Create(attempt *model.Attempt) error {
	return r.db.Create(attempt).Error
}

func (r *attemptRepository) FindByID(id uint) (*model.Attempt, error) {
	var attempt model.Attempt
	if err := r.db.First(&attempt, id).Error; err != nil {
		return nil, err
	}
	return &attempt, nil
}

func (r *attemptRepository) FindByIDWithDetails(id uint) (*model.Attempt, error) {
	var attempt model.Attempt
	err := r.db.
		Preload("Test").
		Preload("Answers.Question").
		First(&attempt, id).Error
	if err != nil {
		return nil, err
	}
	return &attempt, nil
}

func (r *attemptRepository) FindAllByStudent(studentID uint) ([]model.Attempt, error) {
	var attempts []model.Attempt
	err := r.db.Where("student_id = ?", studentID).Order("start_time DESC").Find(&attempts).Error
	return attempts, err
}

func (r *attemptRepository) FindAllByStudentAndSubject(studentID, subjectID uint) ([]model.Attempt, error) {
	var attempts []model.Attempt
	err := r.db.
		Where("student_id = ? AND subject_id = ?", studentID, subjectID).
		Order("start_time DESC").
		Find(&attempts).Error
	return attempts, err
}

func (r *attemptRepository) FindAll() ([]model.Attempt, error) {
	var attempts []model.Attempt
	err := r.db.Find(&attempts).Error
	return attempts, err
}

func (r *attemptRepository) FinalizeSubmission(attempt *model.Attempt, answers []model.Answer) (bool, error) {
	claimed := false
	err := r.db.Transaction(func(tx *gorm.DB) error {
		result := tx.Model(&model.Attempt{}).
			Where("id = ? AND submitted_at IS NULL", attempt.ID).
			Updates(map[string]interface{}{
				"status":          model.AttemptStatusSubmitted,
				"score":           attempt.Score,
				"passed":          attempt.Passed,
				"end_time":        attempt.EndTime,
				"submitted_at":    attempt.SubmittedAt,
				"submission_type": attempt.SubmissionType,
			})
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			// Lost the race, or the attempt was already submitted.
			return nil
		}
		claimed = true

		for i := range answers {
			answers[i].AttemptID = attempt.ID
		}
		if len(answers) > 0 {
			if err := tx.Create(&answers).Error; err != nil {
				return err
			}
		}
		return nil
	})
	return claimed, err
}

func (r *attemptRepository) DistinctPassedSubjectIDs(studentID uint) ([]uint, error) {
	var subjectIDs []uint
	err := r.db.Model(&model.Attempt{}).
		Where("student_id = ? AND passed = ?", studentID, true).
		Distinct().
		Pluck("subject_id", &subjectIDs).Error
	return subjectIDs, err
}

func (r *attemptRepository) LastPassedSubmission(studentID uint) (*time.Time, error) {
	var attempt model.Attempt
	err := r.db.
		Where("student_id = ? AND passed = ? AND submitted_at IS NOT NULL", studentID, true).
		Order("submitted_at DESC").
		First(&attempt).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil
		}
		return nil, err
	}
	return attempt.SubmittedAt, nil
}

func (r *attemptRepository) MarkAbandonedBefore(cutoff time.Time) (int64, error) {
	result := r.db.Model(&model.Attempt{}).
		Where("status = ? AND start_time < ?", model.AttemptStatusOpen, cutoff).
		Update("status", model.AttemptStatusAbandoned)
	return result.RowsAffected, result.Error
}
