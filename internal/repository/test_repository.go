package repository

import (
	"github.com/faanskit/flygprov/internal/model"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type TestRepository interface {
	Create(test *model.Test) error
	FindByID(id uint) (*model.Test, error)
	FindAll() ([]model.Test, error)
	// UpdateAssignedStudents replaces the assignment list, the only mutable
	// part of a test after creation.
	UpdateAssignedStudents(id uint, studentIDs []uint) error
}

type testRepository struct {
	db *gorm.DB
}

func NewTestRepository(db *gorm.DB) TestRepository {
	return &testRepository{db: db}
}

func (r *testRepository) Create(test *model.Test) error {
	return r.db.Create(test).Error
}

func (r *testRepository) FindByID(id uint) (*model.Test, error) {
	var test model.Test
	if err := r.db.Preload("Subject").First(&test, id).Error; err != nil {
		return nil, err
	}
	return &test, nil
}

func (r *testRepository) FindAll() ([]model.Test, error) {
	var tests []model.Test
	err := r.db.Preload("Subject").Order("created_at DESC").Find(&tests).Error
	return tests, err
}

func (r *testRepository) UpdateAssignedStudents(id uint, studentIDs []uint) error {
	result := r.db.Model(&model.Test{}).
		Where("id = ?", id).
		Update("assigned_student_ids", datatypes.NewJSONSlice(studentIDs))
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
