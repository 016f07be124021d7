package examiner

import (
	"net/http"
	"strconv"

	"github.com/faanskit/flygprov/internal/controller"
	"github.com/faanskit/flygprov/internal/dto"
	"github.com/faanskit/flygprov/internal/middleware"
	"github.com/faanskit/flygprov/internal/service"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
)

type ExaminerController struct {
	examinerService service.ExaminerService
}

func NewExaminerController(examinerService service.ExaminerService) *ExaminerController {
	return &ExaminerController{examinerService: examinerService}
}

// GetStudentOverview godoc
// @Summary (Examiner) Student overview
// @Description Passed-subject count against the subject total, per student.
// @Tags Examiner
// @Produce json
// @Security BearerAuth
// @Success 200 {array} dto.StudentOverviewDTO
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /examiner/students [get]
func (c *ExaminerController) GetStudentOverview(ctx *gin.Context) {
	overview, err := c.examinerService.StudentOverview()
	if err != nil {
		log.Error().Err(err).Msg("GetStudentOverview: service error")
		controller.RespondServiceError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, overview)
}

// GetStudentDetails godoc
// @Summary (Examiner) Per-subject detail for one student
// @Tags Examiner
// @Produce json
// @Security BearerAuth
// @Param student_id path int true "Student ID"
// @Success 200 {object} dto.StudentDetailsDTO
// @Failure 400 {object} dto.ErrorResponse "Invalid Student ID format"
// @Failure 404 {object} dto.ErrorResponse "Student not found"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /examiner/students/{student_id} [get]
func (c *ExaminerController) GetStudentDetails(ctx *gin.Context) {
	studentID, err := strconv.ParseUint(ctx.Param("student_id"), 10, 32)
	if err != nil {
		ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{Message: "Invalid Student ID format"})
		return
	}
	details, err := c.examinerService.StudentDetails(uint(studentID))
	if err != nil {
		log.Warn().Err(err).Uint64("studentID", studentID).Msg("GetStudentDetails: service error")
		controller.RespondServiceError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, details)
}

// CreateTestSession godoc
// @Summary (Examiner) Sample a fresh question set
// @Description Draws 20 random active questions for the subject, for review before the test is persisted.
// @Tags Examiner
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body dto.TestSessionRequestDTO true "Subject to sample from"
// @Success 200 {object} dto.TestSessionDTO
// @Failure 400 {object} dto.ErrorResponse "Invalid request body"
// @Failure 409 {object} dto.ErrorResponse "Subject has too few active questions"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /examiner/test-sessions [post]
func (c *ExaminerController) CreateTestSession(ctx *gin.Context) {
	var req dto.TestSessionRequestDTO
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{Message: "Invalid request body", Details: []string{err.Error()}})
		return
	}
	session, err := c.examinerService.CreateTestSession(req.SubjectID)
	if err != nil {
		log.Warn().Err(err).Uint("subjectID", req.SubjectID).Msg("CreateTestSession: service error")
		controller.RespondServiceError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, session)
}

// ReplaceQuestion godoc
// @Summary (Examiner) Draw a replacement question
// @Description One random active question for the subject outside the excluded set.
// @Tags Examiner
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body dto.ReplacementRequestDTO true "Subject and already-picked question IDs"
// @Success 200 {object} dto.QuestionAdminDTO
// @Failure 400 {object} dto.ErrorResponse "Invalid request body"
// @Failure 409 {object} dto.ErrorResponse "No replacement available"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /examiner/test-sessions/replace-question [post]
func (c *ExaminerController) ReplaceQuestion(ctx *gin.Context) {
	var req dto.ReplacementRequestDTO
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{Message: "Invalid request body", Details: []string{err.Error()}})
		return
	}
	replacement, err := c.examinerService.ReplaceQuestion(req.SubjectID, req.ExcludeIDs)
	if err != nil {
		log.Warn().Err(err).Uint("subjectID", req.SubjectID).Msg("ReplaceQuestion: service error")
		controller.RespondServiceError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, replacement)
}

// CreateTest godoc
// @Summary (Examiner) Persist a test snapshot
// @Description Creates a test of exactly 20 question references. A zero time limit falls back to the subject default.
// @Tags Examiner
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param test body dto.TestCreateDTO true "Test data"
// @Success 201 {object} dto.TestDTO
// @Failure 400 {object} dto.ErrorResponse "Invalid request body"
// @Failure 404 {object} dto.ErrorResponse "Subject not found"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /examiner/tests [post]
func (c *ExaminerController) CreateTest(ctx *gin.Context) {
	var req dto.TestCreateDTO
	if err := ctx.ShouldBindJSON(&req); err != nil {
		log.Warn().Err(err).Msg("CreateTest: failed to bind JSON")
		ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{Message: "Invalid request body", Details: []string{err.Error()}})
		return
	}
	created, err := c.examinerService.CreateTest(req, middleware.CurrentUserID(ctx))
	if err != nil {
		log.Error().Err(err).Msg("CreateTest: service error")
		controller.RespondServiceError(ctx, err)
		return
	}
	ctx.JSON(http.StatusCreated, created)
}

// AssignTest godoc
// @Summary (Examiner) Replace a test's assignment list
// @Tags Examiner
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param test_id path int true "Test ID"
// @Param assignment body dto.AssignTestDTO true "Student IDs"
// @Success 200 {object} map[string]string
// @Failure 400 {object} dto.ErrorResponse "Invalid request"
// @Failure 404 {object} dto.ErrorResponse "Test not found"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /examiner/tests/{test_id}/assign [put]
func (c *ExaminerController) AssignTest(ctx *gin.Context) {
	testID, err := strconv.ParseUint(ctx.Param("test_id"), 10, 32)
	if err != nil {
		ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{Message: "Invalid Test ID format"})
		return
	}
	var req dto.AssignTestDTO
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{Message: "Invalid request body", Details: []string{err.Error()}})
		return
	}
	if err := c.examinerService.AssignTest(uint(testID), req.StudentIDs); err != nil {
		log.Warn().Err(err).Uint64("testID", testID).Msg("AssignTest: service error")
		controller.RespondServiceError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, gin.H{"message": "Test assigned successfully"})
}

// ListTests godoc
// @Summary (Examiner) List all tests
// @Tags Examiner
// @Produce json
// @Security BearerAuth
// @Success 200 {array} dto.TestDTO
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /examiner/tests [get]
func (c *ExaminerController) ListTests(ctx *gin.Context) {
	tests, err := c.examinerService.ListTests()
	if err != nil {
		log.Error().Err(err).Msg("ListTests: service error")
		controller.RespondServiceError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, tests)
}
