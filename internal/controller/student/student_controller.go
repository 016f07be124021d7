package student

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

type StudentController struct {
	studentService service.StudentService
	attemptService service.AttemptService
}

func NewStudentController(studentService service.StudentService, attemptService service.AttemptService) *StudentController {
	return &StudentController{
		studentService: studentService,
		attemptService: attemptService,
	}
}

// GetDashboard godoc
// @Summary (Student) Per-subject progress dashboard
// @Description Status, attempt count and best score for every subject, for the authenticated student.
// @Tags Student
// @Produce json
// @Security BearerAuth
// @Success 200 {array} dto.DashboardEntryDTO
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /student/dashboard [get]
func (c *StudentController) GetDashboard(ctx *gin.Context) {
	studentID := middleware.CurrentUserID(ctx)
	entries, err := c.studentService.Dashboard(studentID)
	if err != nil {
		log.Error().Err(err).Uint("studentID", studentID).Msg("GetDashboard: service error")
		controller.RespondServiceError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, entries)
}

// StartTest godoc
// @Summary (Student) Start a test attempt
// @Description Creates an open attempt and returns the test's questions. The response never contains the correct option index.
// @Tags Student
// @Produce json
// @Security BearerAuth
// @Param test_id path int true "Test ID"
// @Success 200 {object} dto.StartTestResponseDTO
// @Failure 400 {object} dto.ErrorResponse "Invalid Test ID format"
// @Failure 403 {object} dto.ErrorResponse "Test not assigned to this student"
// @Failure 404 {object} dto.ErrorResponse "Test not found"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /student/tests/{test_id}/start [get]
func (c *StudentController) StartTest(ctx *gin.Context) {
	testID, err := strconv.ParseUint(ctx.Param("test_id"), 10, 32)
	if err != nil {
		ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{Message: "Invalid Test ID format"})
		return
	}
	studentID := middleware.CurrentUserID(ctx)

	resp, err := c.attemptService.Start(uint(testID), studentID)
	if err != nil {
		log.Warn().Err(err).Uint64("testID", testID).Uint("studentID", studentID).Msg("StartTest: service error")
		controller.RespondServiceError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, resp)
}

// SubmitAttempt godoc
// @Summary (Student) Submit a test attempt
// @Description Grades the submitted canonical answers. Exactly one submission per attempt is accepted; re-submission is rejected.
// @Tags Student
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param attempt_id path int true "Attempt ID"
// @Param submission body dto.AttemptSubmitDTO true "Canonical answers and submission type"
// @Success 200 {object} dto.SubmitResultDTO
// @Failure 400 {object} dto.ErrorResponse "Invalid body, already submitted, or time expired"
// @Failure 403 {object} dto.ErrorResponse "Attempt belongs to another student"
// @Failure 404 {object} dto.ErrorResponse "Attempt not found"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /student/attempts/{attempt_id}/submit [post]
func (c *StudentController) SubmitAttempt(ctx *gin.Context) {
	attemptID, err := strconv.ParseUint(ctx.Param("attempt_id"), 10, 32)
	if err != nil {
		ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{Message: "Invalid Attempt ID format"})
		return
	}
	studentID := middleware.CurrentUserID(ctx)

	var req dto.AttemptSubmitDTO
	if err := ctx.ShouldBindJSON(&req); err != nil {
		log.Warn().Err(err).Msg("SubmitAttempt: failed to bind JSON")
		ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{Message: "Invalid request body", Details: []string{err.Error()}})
		return
	}

	result, err := c.attemptService.Submit(uint(attemptID), studentID, req)
	if err != nil {
		log.Warn().Err(err).Uint64("attemptID", attemptID).Uint("studentID", studentID).Msg("SubmitAttempt: service error")
		controller.RespondServiceError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, result)
}

// GetAttemptDetail godoc
// @Summary Get the result view of an attempt
// @Description Full detail of a submitted attempt. Accessible to the owning student and to examiners and admins.
// @Tags Student
// @Produce json
// @Security BearerAuth
// @Param attempt_id path int true "Attempt ID"
// @Success 200 {object} dto.AttemptDetailDTO
// @Failure 400 {object} dto.ErrorResponse "Invalid Attempt ID format"
// @Failure 403 {object} dto.ErrorResponse "Attempt belongs to another student"
// @Failure 404 {object} dto.ErrorResponse "Attempt not found"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /attempts/{attempt_id} [get]
func (c *StudentController) GetAttemptDetail(ctx *gin.Context) {
	attemptID, err := strconv.ParseUint(ctx.Param("attempt_id"), 10, 32)
	if err != nil {
		ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{Message: "Invalid Attempt ID format"})
		return
	}

	detail, err := c.attemptService.GetAttemptDetail(uint(attemptID), middleware.CurrentUserID(ctx), middleware.CurrentRole(ctx))
	if err != nil {
		log.Warn().Err(err).Uint64("attemptID", attemptID).Msg("GetAttemptDetail: service error")
		controller.RespondServiceError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, detail)
}
