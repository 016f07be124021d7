package repository

import (
	"github.com/faanskit/flygprov/internal/model"
	"gorm.io/gorm"
)

type UserRepository interface {
	Create(user *model.User) error
	FindByID(id uint) (*model.User, error)
	FindByUsername(username string) (*model.User, error)
	FindByRole(role string) ([]model.User, error)
	FindActiveStudents() ([]model.User, error)
	// SetArchived flips the archived flag; it is the only mutation the
	// archival pass and the reactivate endpoint perform.
	SetArchived(id uint, archived bool) error
	// UpdatePassword replaces the stored hash and sets the
	// force-password-change flag in one write.
	UpdatePassword(id uint, passwordHash string, forceChange bool) error
}

type userRepository struct {
	db *gorm.DB
}

func NewUserRepository(db *gorm.DB) UserRepository {
	return &userRepository{db: db}
}

func (r *userRepository) Create(user *model.User) error {
	return r.db.Create(user).Error
}

func (r *userRepository) FindByID(id uint) (*model.User, error) {
	var user model.User
	if err := r.db.First(&user, id).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *userRepository) FindByUsername(username string) (*model.User, error) {
	var user model.User
	if err := r.db.Where("username = ?", username).First(&user).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *userRepository) FindByRole(role string) ([]model.User, error) {
	var users []model.User
	err := r.db.Where("role = ?", role).Order("created_at DESC").Find(&users).Error
	return users, err
}

func (r *userRepository) FindActiveStudents() ([]model.User, error) {
	var users []model.User
	err := r.db.Where("role = ? AND archived = ?", model.RoleStudent, false).Find(&users).Error
	return users, err
}

func (r *userRepository) SetArchived(id uint, archived bool) error {
	result := r.db.Model(&model.User{}).Where("id = ?", id).Update("archived", archived)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *userRepository) UpdatePassword(id uint, passwordHash string, forceChange bool) error {
	result := r.db.Model(&model.User{}).Where("id = ?", id).Updates(map[string]interface{}{
		"password":              passwordHash,
		"force_password_change": forceChange,
	})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
