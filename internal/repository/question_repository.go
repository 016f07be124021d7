package repository

import (
	"github.com/faanskit/flygprov/internal/model"
	"gorm.io/gorm"
)

type QuestionRepository interface {
	Create(question *model.Question) error
	FindByID(id uint) (*model.Question, error)
	FindByIDs(ids []uint) ([]model.Question, error)
	FindBySubject(subjectID uint) ([]model.Question, error)
	Update(question *model.Question) error
	Delete(id uint) error

	// SampleActive returns up to count active questions for the subject,
	// uniformly at random without replacement.
	SampleActive(subjectID uint, count int) ([]model.Question, error)
	// SampleActiveExcluding returns up to count random active questions for
	// the subject whose IDs are not in excludeIDs.
	SampleActiveExcluding(subjectID uint, excludeIDs []uint, count int) ([]model.Question, error)
}

type questionRepository struct {
	db *gorm.DB
}

func NewQuestionRepository(db *gorm.DB) QuestionRepository {
	return &questionRepository{db: db}
}

func (r *questionRepository) Create(question *model.Question) error {
	return r.db.Create(question).Error
}

func (r *questionRepository) FindByID(id uint) (*model.Question, error) {
	var question model.Question
	if err := r.db.First(&question, id).Error; err != nil {
		return nil, err
	}
	return &question, nil
}

func (r *questionRepository) FindByIDs(ids []uint) ([]model.Question, error) {
	var questions []model.Question
	if len(ids) == 0 {
		return questions, nil
	}
	err := r.db.Where("id IN ?", ids).Find(&questions).Error
	return questions, err
}

func (r *questionRepository) FindBySubject(subjectID uint) ([]model.Question, error) {
	var questions []model.Question
	err := r.db.Where("subject_id = ?", subjectID).Order("external_id ASC").Find(&questions).Error
	return questions, err
}

func (r *questionRepository) Update(question *model.Question) error {
	return r.db.Save(question).Error
}

func (r *questionRepository) Delete(id uint) error {
	return r.db.Delete(&model.Question{}, id).Error
}

func (r *questionRepository) SampleActive(subjectID uint, count int) ([]model.Question, error) {
	var questions []model.Question
	err := r.db.
		Where("subject_id = ? AND active = ?", subjectID, true).
		Order("RANDOM()").
		Limit(count).
		Find(&questions).Error
	return questions, err
}

func (r *questionRepository) SampleActiveExcluding(subjectID uint, excludeIDs []uint, count int) ([]model.Question, error) {
	var questions []model.Question
	query := r.db.Where("subject_id = ? AND active = ?", subjectID, true)
	if len(excludeIDs) > 0 {
		query = query.Where("id NOT IN ?", excludeIDs)
	}
	err := query.Order("RANDOM()").Limit(count).Find(&questions).Error
	return questions, err
}
