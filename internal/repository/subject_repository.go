package repository

import (
	"github.com/faanskit/flygprov/internal/model"
	"gorm.io/gorm"
)

type SubjectRepository interface {
	Create(subject *model.Subject) error
	FindByID(id uint) (*model.Subject, error)
	FindAll() ([]model.Subject, error)
	Count() (int64, error)
	Update(subject *model.Subject) error
	Delete(id uint) error
}

type subjectRepository struct {
	db *gorm.DB
}

func NewSubjectRepository(db *gorm.DB) SubjectRepository {
	return &subjectRepository{db: db}
}

func (r *subjectRepository) Create(subject *model.Subject) error {
	return r.db.Create(subject).Error
}

func (r *subjectRepository) FindByID(id uint) (*model.Subject, error) {
	var subject model.Subject
	if err := r.db.First(&subject, id).Error; err != nil {
		return nil, err
	}
	return &subject, nil
}

func (r *subjectRepository) FindAll() ([]model.Subject, error) {
	var subjects []model.Subject
	err := r.db.Order("code ASC").Find(&subjects).Error
	return subjects, err
}

func (r *subjectRepository) Count() (int64, error) {
	var count int64
	err := r.db.Model(&model.Subject{}).Count(&count).Error
	return count, err
}

func (r *subjectRepository) Update(subject *model.Subject) error {
	return r.db.Save(subject).Error
}

func (r *subjectRepository) Delete(id uint) error {
	return r.db.Delete(&model.Subject{}, id).Error
}
