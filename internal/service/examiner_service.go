package service

import (
	"errors"
	"fmt"

	"github.com/faanskit/flygprov/internal/dto"
	"github.com/faanskit/flygprov/internal/model"
	"github.com/faanskit/flygprov/internal/repository"
	"github.com/jinzhu/copier"
	"github.com/rs/zerolog/log"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// ExaminerService covers the examiner workflows: student progress views,
// sampling a question set for review, and persisting/assigning tests.
type ExaminerService interface {
	StudentOverview() ([]dto.StudentOverviewDTO, error)
	StudentDetails(studentID uint) (*dto.StudentDetailsDTO, error)
	CreateTestSession(subjectID uint) (*dto.TestSessionDTO, error)
	ReplaceQuestion(subjectID uint, excludeIDs []uint) (*dto.QuestionAdminDTO, error)
	CreateTest(req dto.TestCreateDTO, createdBy uint) (*dto.TestDTO, error)
	AssignTest(testID uint, studentIDs []uint) error
	ListTests() ([]dto.TestDTO, error)
}

type examinerService struct {
	userRepo     repository.UserRepository
	subjectRepo  repository.SubjectRepository
	attemptRepo  repository.AttemptRepository
	testRepo     repository.TestRepository
	questionBank QuestionBankService
}

func NewExaminerService(
	userRepo repository.UserRepository,
	subjectRepo repository.SubjectRepository,
	attemptRepo repository.AttemptRepository,
	testRepo repository.TestRepository,
	questionBank QuestionBankService,
) ExaminerService {
	return &examinerService{
		userRepo:     userRepo,
		subjectRepo:  subjectRepo,
		attemptRepo:  attemptRepo,
		testRepo:     testRepo,
		questionBank: questionBank,
	}
}

func (s *examinerService) StudentOverview() ([]dto.StudentOverviewDTO, error) {
	students, err := s.userRepo.FindByRole(model.RoleStudent)
	if err != nil {
		return nil, fmt.Errorf("loading students: %w", err)
	}
	subjects, err := s.subjectRepo.FindAll()
	if err != nil {
		return nil, fmt.Errorf("loading subjects: %w", err)
	}
	attempts, err := s.attemptRepo.FindAll()
	if err != nil {
		return nil, fmt.Errorf("loading attempts: %w", err)
	}

	overview := make([]dto.StudentOverviewDTO, 0, len(students))
	for _, student := range students {
		passedSubjects := 0
		for _, subject := range subjects {
			for _, a := range attempts {
				if a.StudentID == student.ID && a.SubjectID == subject.ID && a.Passed {
					passedSubjects++
					break
				}
			}
		}
		overview = append(overview, dto.StudentOverviewDTO{
			StudentID:      student.ID,
			Username:       student.Username,
			PassedSubjects: passedSubjects,
			TotalSubjects:  len(subjects),
		})
	}
	return overview, nil
}

func (s *examinerService) StudentDetails(studentID uint) (*dto.StudentDetailsDTO, error) {
	student, err := s.userRepo.FindByID(studentID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("student %d: %w", studentID, ErrNotFound)
		}
		return nil, fmt.Errorf("loading student %d: %w", studentID, err)
	}
	subjects, err := s.subjectRepo.FindAll()
	if err != nil {
		return nil, fmt.Errorf("loading subjects: %w", err)
	}
	attempts, err := s.attemptRepo.FindAllByStudent(studentID)
	if err != nil {
		return nil, fmt.Errorf("loading attempts for student %d: %w", studentID, err)
	}
	tests, err := s.testRepo.FindAll()
	if err != nil {
		return nil, fmt.Errorf("loading tests: %w", err)
	}

	details := make([]dto.SubjectProgressDTO, 0, len(subjects))
	for _, subject := range subjects {
		var subjectAttempts []model.Attempt
		for _, a := range attempts {
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

		// Assigned but never started: a test for this subject lists the
		// student and has no attempt of theirs against it.
		assignedNotStarted := false
		for _, t := range tests {
			if t.SubjectID != subject.ID || !t.AssignedTo(studentID) {
				continue
			}
			started := false
			for _, a := range attempts {
				if a.TestID == t.ID {
					started = true
					break
				}
			}
			if !started {
				assignedNotStarted = true
				break
			}
		}

		status := "not_started"
		switch {
		case hasPassed:
			status = "passed"
		case assignedNotStarted:
			status = "assigned"
		case len(subjectAttempts) > 0:
			status = "in_progress"
		}

		progress := dto.SubjectProgressDTO{
			SubjectID:     subject.ID,
			SubjectName:   subject.Name,
			Status:        status,
			AttemptsCount: len(subjectAttempts),
		}
		if bestScore >= 0 {
			formatted := fmt.Sprintf("%d/%d", bestScore, model.TestSize)
			progress.BestScore = &formatted
		}
		details = append(details, progress)
	}

	return &dto.StudentDetailsDTO{
		Student: dto.UserDTO{
			ID:       student.ID,
			Username: student.Username,
			Role:     student.Role,
			Archived: student.Archived,
		},
		Details: details,
	}, nil
}

func (s *examinerService) CreateTestSession(subjectID uint) (*dto.TestSessionDTO, error) {
	questions, err := s.questionBank.SampleQuestions(subjectID, model.TestSize)
	if err != nil {
		return nil, err
	}
	return &dto.TestSessionDTO{
		SubjectID: subjectID,
		Questions: toQuestionAdminDTOs(questions),
	}, nil
}

func (s *examinerService) ReplaceQuestion(subjectID uint, excludeIDs []uint) (*dto.QuestionAdminDTO, error) {
	question, err := s.questionBank.SampleReplacement(subjectID, excludeIDs)
	if err != nil {
		return nil, err
	}
	replacement := toQuestionAdminDTO(*question)
	return &replacement, nil
}

func (s *examinerService) CreateTest(req dto.TestCreateDTO, createdBy uint) (*dto.TestDTO, error) {
	subject, err := s.subjectRepo.FindByID(req.SubjectID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("subject %d: %w", req.SubjectID, ErrNotFound)
		}
		return nil, fmt.Errorf("loading subject %d: %w", req.SubjectID, err)
	}

	timeLimit := req.TimeLimitMinutes
	if timeLimit == 0 {
		timeLimit = subject.DefaultTimeLimitMinutes
	}

	test := model.Test{
		Name:               req.Name,
		Description:        req.Description,
		SubjectID:          req.SubjectID,
		QuestionIDs:        datatypes.NewJSONSlice(req.QuestionIDs),
		TimeLimitMinutes:   timeLimit,
		CreatedBy:          createdBy,
		AssignedStudentIDs: datatypes.NewJSONSlice(req.AssignedStudentIDs),
	}
	if err := s.testRepo.Create(&test); err != nil {
		return nil, fmt.Errorf("creating test: %w", err)
	}
	log.Info().Uint("testID", test.ID).Uint("subjectID", req.SubjectID).Uint("createdBy", createdBy).
		Msg("Test created")

	testDTO := toTestDTO(test)
	testDTO.SubjectName = subject.Name
	return &testDTO, nil
}

func (s *examinerService) AssignTest(testID uint, studentIDs []uint) error {
	if err := s.testRepo.UpdateAssignedStudents(testID, studentIDs); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fmt.Errorf("test %d: %w", testID, ErrNotFound)
		}
		return fmt.Errorf("assigning test %d: %w", testID, err)
	}
	log.Info().Uint("testID", testID).Int("studentCount", len(studentIDs)).Msg("Test assignment updated")
	return nil
}

func (s *examinerService) ListTests() ([]dto.TestDTO, error) {
	tests, err := s.testRepo.FindAll()
	if err != nil {
		return nil, fmt.Errorf("loading tests: %w", err)
	}
	dtos := make([]dto.TestDTO, len(tests))
	for i, t := range tests {
		dtos[i] = toTestDTO(t)
		dtos[i].SubjectName = t.Subject.Name
	}
	return dtos, nil
}

func toTestDTO(test model.Test) dto.TestDTO {
	return dto.TestDTO{
		ID:                 test.ID,
		Name:               test.Name,
		Description:        test.Description,
		SubjectID:          test.SubjectID,
		QuestionIDs:        test.QuestionIDs,
		TimeLimitMinutes:   test.TimeLimitMinutes,
		AssignedStudentIDs: test.AssignedStudentIDs,
		CreatedAt:          test.CreatedAt,
	}
}

func toQuestionAdminDTO(question model.Question) dto.QuestionAdminDTO {
	var out dto.QuestionAdminDTO
	if err := copier.Copy(&out, &question); err != nil {
		log.Error().Err(err).Uint("questionID", question.ID).Msg("Failed to copy question to admin DTO")
	}
	out.Options = question.Options
	return out
}

func toQuestionAdminDTOs(questions []model.Question) []dto.QuestionAdminDTO {
	dtos := make([]dto.QuestionAdminDTO, len(questions))
	for i, q := range questions {
		dtos[i] = toQuestionAdminDTO(q)
	}
	return dtos
}
