package service

import (
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"

	"github.com/faanskit/flygprov/internal/dto"
	"github.com/faanskit/flygprov/internal/model"
	"github.com/faanskit/flygprov/internal/repository"
	"github.com/rs/zerolog/log"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// UserService is the admin surface for student and examiner accounts.
// Authentication itself lives in the identity provider issuing the JWTs;
// this service only provisions accounts: a new account gets a generated
// temporary password (returned once, stored only as a bcrypt hash) and must
// change it on first login.
type UserService interface {
	List(role, status string) ([]dto.UserAccountDTO, error)
	Create(role, username string) (*dto.TempPasswordDTO, error)
	SetArchived(role string, id uint, archived bool) error
	ResetPassword(role string, id uint) (*dto.TempPasswordDTO, error)
}

type userService struct {
	userRepo repository.UserRepository
}

func NewUserService(userRepo repository.UserRepository) UserService {
	return &userService{userRepo: userRepo}
}

func (s *userService) List(role, status string) ([]dto.UserAccountDTO, error) {
	users, err := s.userRepo.FindByRole(role)
	if err != nil {
		return nil, fmt.Errorf("loading %s accounts: %w", role, err)
	}

	accounts := make([]dto.UserAccountDTO, 0, len(users))
	for _, user := range users {
		if status == "active" && user.Archived {
			continue
		}
		if status == "archived" && !user.Archived {
			continue
		}
		accounts = append(accounts, toUserAccountDTO(user))
	}
	return accounts, nil
}

func (s *userService) Create(role, username string) (*dto.TempPasswordDTO, error) {
	if _, err := s.userRepo.FindByUsername(username); err == nil {
		return nil, fmt.Errorf("username %q: %w", username, ErrUsernameTaken)
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("checking username %q: %w", username, err)
	}

	tempPassword, hash, err := generateTempPassword()
	if err != nil {
		return nil, fmt.Errorf("generating password: %w", err)
	}

	user := model.User{
		Username:            username,
		Password:            hash,
		Role:                role,
		ForcePasswordChange: true,
	}
	if err := s.userRepo.Create(&user); err != nil {
		return nil, fmt.Errorf("creating %s account: %w", role, err)
	}
	log.Info().Uint("userID", user.ID).Str("username", username).Str("role", role).Msg("Account created")

	return &dto.TempPasswordDTO{
		ID:           user.ID,
		Username:     user.Username,
		TempPassword: tempPassword,
	}, nil
}

func (s *userService) SetArchived(role string, id uint, archived bool) error {
	if _, err := s.findWithRole(role, id); err != nil {
		return err
	}
	if err := s.userRepo.SetArchived(id, archived); err != nil {
		return fmt.Errorf("updating %s %d: %w", role, id, err)
	}
	log.Info().Uint("userID", id).Str("role", role).Bool("archived", archived).Msg("Account archived flag updated")
	return nil
}

func (s *userService) ResetPassword(role string, id uint) (*dto.TempPasswordDTO, error) {
	user, err := s.findWithRole(role, id)
	if err != nil {
		return nil, err
	}

	tempPassword, hash, err := generateTempPassword()
	if err != nil {
		return nil, fmt.Errorf("generating password: %w", err)
	}
	if err := s.userRepo.UpdatePassword(id, hash, true); err != nil {
		return nil, fmt.Errorf("resetting password for %s %d: %w", role, id, err)
	}
	log.Info().Uint("userID", id).Str("role", role).Msg("Password reset, change forced on next login")

	return &dto.TempPasswordDTO{
		ID:           user.ID,
		Username:     user.Username,
		TempPassword: tempPassword,
	}, nil
}

// findWithRole loads the user and treats a role mismatch the same as an
// unknown ID, so student endpoints cannot touch examiner accounts.
func (s *userService) findWithRole(role string, id uint) (*model.User, error) {
	user, err := s.userRepo.FindByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%s %d: %w", role, id, ErrNotFound)
		}
		return nil, fmt.Errorf("loading %s %d: %w", role, id, err)
	}
	if user.Role != role {
		return nil, fmt.Errorf("%s %d: %w", role, id, ErrNotFound)
	}
	return user, nil
}

func generateTempPassword() (plain, hash string, err error) {
	buf := make([]byte, 6)
	if _, err := rand.Read(buf); err != nil {
		return "", "", err
	}
	plain = hex.EncodeToString(buf)

	hashed, err := bcrypt.GenerateFromPassword([]byte(plain), bcrypt.DefaultCost)
	if err != nil {
		return "", "", err
	}
	return plain, string(hashed), nil
}

func toUserAccountDTO(user model.User) dto.UserAccountDTO {
	status := "active"
	if user.Archived {
		status = "archived"
	}
	return dto.UserAccountDTO{
		ID:                  user.ID,
		Username:            user.Username,
		Role:                user.Role,
		Status:              status,
		ForcePasswordChange: user.ForcePasswordChange,
		CreatedAt:           user.CreatedAt,
	}
}
