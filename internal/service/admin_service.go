package service

import (
	"errors"
	"fmt"
	"regexp"
	"strconv"

	"github.com/faanskit/flygprov/internal/dto"
	"github.com/faanskit/flygprov/internal/model"
	"github.com/faanskit/flygprov/internal/repository"
	"github.com/jinzhu/copier"
	"github.com/rs/zerolog/log"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// AdminService is the question-bank and subject-catalog CRUD surface.
// Question edits never touch stored attempt verdicts: grading snapshots the
// verdict at submit time.
type AdminService interface {
	CreateQuestion(req dto.QuestionCreateDTO) (*dto.QuestionAdminDTO, error)
	UpdateQuestion(id uint, req dto.QuestionUpdateDTO) (*dto.QuestionAdminDTO, error)
	SetQuestionActive(id uint, active bool) error
	DeleteQuestion(id uint) error
	ListQuestionsBySubject(subjectID uint) ([]dto.QuestionAdminDTO, error)

	CreateSubject(req dto.SubjectCreateDTO) (*dto.SubjectDTO, error)
	ListSubjects() ([]dto.SubjectDTO, error)
	DeleteSubject(id uint) error
}

type adminService struct {
	questionRepo repository.QuestionRepository
	subjectRepo  repository.SubjectRepository
}

func NewAdminService(questionRepo repository.QuestionRepository, subjectRepo repository.SubjectRepository) AdminService {
	return &adminService{questionRepo: questionRepo, subjectRepo: subjectRepo}
}

func (s *adminService) CreateQuestion(req dto.QuestionCreateDTO) (*dto.QuestionAdminDTO, error) {
	subject, err := s.subjectRepo.FindByID(req.SubjectID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("subject %d: %w", req.SubjectID, ErrNotFound)
		}
		return nil, fmt.Errorf("loading subject %d: %w", req.SubjectID, err)
	}

	externalID := req.ExternalID
	if externalID == "" {
		existing, err := s.questionRepo.FindBySubject(req.SubjectID)
		if err != nil {
			return nil, fmt.Errorf("loading questions for subject %d: %w", req.SubjectID, err)
		}
		externalID = nextExternalID(subject.Code, existing)
	}

	question := model.Question{
		SubjectID:          req.SubjectID,
		ExternalID:         externalID,
		Text:               req.Text,
		Options:            datatypes.NewJSONSlice(req.Options),
		CorrectOptionIndex: *req.CorrectOptionIndex,
		Active:             true,
		ImageID:            req.ImageID,
	}
	if err := s.questionRepo.Create(&question); err != nil {
		return nil, fmt.Errorf("creating question: %w", err)
	}
	log.Info().Uint("questionID", question.ID).Uint("subjectID", req.SubjectID).Msg("Question created")

	out := toQuestionAdminDTO(question)
	return &out, nil
}

var externalIDNumber = regexp.MustCompile(`(\d+)`)

// nextExternalID derives the next per-subject reference, e.g. "MET-014"
// after "MET-013". The numeric part is one past the highest number found in
// the subject's existing references, zero-padded to the widest existing
// number (minimum three digits).
func nextExternalID(subjectCode string, existing []model.Question) string {
	maxNum := 0
	width := 3
	for _, q := range existing {
		match := externalIDNumber.FindString(q.ExternalID)
		if match == "" {
			continue
		}
		num, err := strconv.Atoi(match)
		if err != nil {
			continue
		}
		if num > maxNum {
			maxNum = num
		}
		if len(match) > width {
			width = len(match)
		}
	}
	return fmt.Sprintf("%s-%0*d", subjectCode, width, maxNum+1)
}

func (s *adminService) UpdateQuestion(id uint, req dto.QuestionUpdateDTO) (*dto.QuestionAdminDTO, error) {
	question, err := s.questionRepo.FindByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("question %d: %w", id, ErrNotFound)
		}
		return nil, fmt.Errorf("loading question %d: %w", id, err)
	}

	question.Text = req.Text
	question.Options = datatypes.NewJSONSlice(req.Options)
	question.CorrectOptionIndex = *req.CorrectOptionIndex
	question.ImageID = req.ImageID
	if err := s.questionRepo.Update(question); err != nil {
		return nil, fmt.Errorf("updating question %d: %w", id, err)
	}

	out := toQuestionAdminDTO(*question)
	return &out, nil
}

func (s *adminService) SetQuestionActive(id uint, active bool) error {
	question, err := s.questionRepo.FindByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fmt.Errorf("question %d: %w", id, ErrNotFound)
		}
		return fmt.Errorf("loading question %d: %w", id, err)
	}
	question.Active = active
	if err := s.questionRepo.Update(question); err != nil {
		return fmt.Errorf("toggling question %d: %w", id, err)
	}
	log.Info().Uint("questionID", id).Bool("active", active).Msg("Question active flag updated")
	return nil
}

func (s *adminService) DeleteQuestion(id uint) error {
	if _, err := s.questionRepo.FindByID(id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fmt.Errorf("question %d: %w", id, ErrNotFound)
		}
		return fmt.Errorf("loading question %d: %w", id, err)
	}
	return s.questionRepo.Delete(id)
}

func (s *adminService) ListQuestionsBySubject(subjectID uint) ([]dto.QuestionAdminDTO, error) {
	questions, err := s.questionRepo.FindBySubject(subjectID)
	if err != nil {
		return nil, fmt.Errorf("loading questions for subject %d: %w", subjectID, err)
	}
	return toQuestionAdminDTOs(questions), nil
}

func (s *adminService) CreateSubject(req dto.SubjectCreateDTO) (*dto.SubjectDTO, error) {
	subject := model.Subject{
		Name:                    req.Name,
		Code:                    req.Code,
		Description:             req.Description,
		DefaultTimeLimitMinutes: req.DefaultTimeLimitMinutes,
	}
	if subject.DefaultTimeLimitMinutes == 0 {
		subject.DefaultTimeLimitMinutes = 30
	}
	if err := s.subjectRepo.Create(&subject); err != nil {
		return nil, fmt.Errorf("creating subject: %w", err)
	}
	log.Info().Uint("subjectID", subject.ID).Str("code", subject.Code).Msg("Subject created")

	var out dto.SubjectDTO
	if err := copier.Copy(&out, &subject); err != nil {
		return nil, fmt.Errorf("preparing subject response: %w", err)
	}
	return &out, nil
}

func (s *adminService) ListSubjects() ([]dto.SubjectDTO, error) {
	subjects, err := s.subjectRepo.FindAll()
	if err != nil {
		return nil, fmt.Errorf("loading subjects: %w", err)
	}
	dtos := make([]dto.SubjectDTO, len(subjects))
	for i := range subjects {
		if err := copier.Copy(&dtos[i], &subjects[i]); err != nil {
			return nil, fmt.Errorf("preparing subject response: %w", err)
		}
	}
	return dtos, nil
}

func (s *adminService) DeleteSubject(id uint) error {
	if _, err := s.subjectRepo.FindByID(id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fmt.Errorf("subject %d: %w", id, ErrNotFound)
		}
		return fmt.Errorf("loading subject %d: %w", id, err)
	}
	return s.subjectRepo.Delete(id)
}
