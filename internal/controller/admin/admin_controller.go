package admin

import (
	"net/http"
	"strconv"
	"time"

	"github.com/faanskit/flygprov/config"
	"github.com/faanskit/flygprov/internal/controller"
	"github.com/faanskit/flygprov/internal/dto"
	"github.com/faanskit/flygprov/internal/service"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
)

type AdminController struct {
	adminService   service.AdminService
	archiveService service.ArchiveService
	cfg            *config.Config
}

func NewAdminController(adminService service.AdminService, archiveService service.ArchiveService, cfg *config.Config) *AdminController {
	return &AdminController{
		adminService:   adminService,
		archiveService: archiveService,
		cfg:            cfg,
	}
}

// RunArchival godoc
// @Summary (Admin) Trigger the daily archival pass now
// @Description Sweeps stale open attempts, then archives students who passed every subject and stayed inactive beyond the grace period. The same pass the scheduler runs daily.
// @Tags Admin
// @Produce json
// @Security BearerAuth
// @Success 200 {object} dto.ArchiveRunSummaryDTO
// @Failure 409 {object} dto.ErrorResponse "Subject catalog is empty"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /admin/archive/run [post]
func (c *AdminController) RunArchival(ctx *gin.Context) {
	summary, err := c.archiveService.Run(
		c.cfg.Archive.GracePeriodDays,
		time.Duration(c.cfg.Archive.StaleAttemptHours)*time.Hour,
	)
	if err != nil {
		log.Error().Err(err).Msg("RunArchival: service error")
		controller.RespondServiceError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, summary)
}

// CreateQuestion godoc
// @Summary (Admin) Add a question to the bank
// @Tags Admin
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param question body dto.QuestionCreateDTO true "Question data"
// @Success 201 {object} dto.QuestionAdminDTO
// @Failure 400 {object} dto.ErrorResponse "Invalid request body"
// @Failure 404 {object} dto.ErrorResponse "Subject not found"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /admin/questions [post]
func (c *AdminController) CreateQuestion(ctx *gin.Context) {
	var req dto.QuestionCreateDTO
	if err := ctx.ShouldBindJSON(&req); err != nil {
		log.Warn().Err(err).Msg("CreateQuestion: failed to bind JSON")
		ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{Message: "Invalid request body", Details: []string{err.Error()}})
		return
	}
	created, err := c.adminService.CreateQuestion(req)
	if err != nil {
		log.Error().Err(err).Msg("CreateQuestion: service error")
		controller.RespondServiceError(ctx, err)
		return
	}
	ctx.JSON(http.StatusCreated, created)
}

// UpdateQuestion godoc
// @Summary (Admin) Edit a question
// @Description Edits affect future tests only; verdicts stored in submitted attempts are never re-graded.
// @Tags Admin
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param question_id path int true "Question ID"
// @Param question body dto.QuestionUpdateDTO true "Question data"
// @Success 200 {object} dto.QuestionAdminDTO
// @Failure 400 {object} dto.ErrorResponse "Invalid request"
// @Failure 404 {object} dto.ErrorResponse "Question not found"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /admin/questions/{question_id} [put]
func (c *AdminController) UpdateQuestion(ctx *gin.Context) {
	questionID, err := strconv.ParseUint(ctx.Param("question_id"), 10, 32)
	if err != nil {
		ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{Message: "Invalid Question ID format"})
		return
	}
	var req dto.QuestionUpdateDTO
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{Message: "Invalid request body", Details: []string{err.Error()}})
		return
	}
	updated, err := c.adminService.UpdateQuestion(uint(questionID), req)
	if err != nil {
		log.Warn().Err(err).Uint64("questionID", questionID).Msg("UpdateQuestion: service error")
		controller.RespondServiceError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, updated)
}

// SetQuestionActive godoc
// @Summary (Admin) Toggle a question in or out of the sampling pool
// @Tags Admin
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param question_id path int true "Question ID"
// @Param active body dto.QuestionActiveDTO true "Active flag"
// @Success 200 {object} map[string]string
// @Failure 400 {object} dto.ErrorResponse "Invalid request"
// @Failure 404 {object} dto.ErrorResponse "Question not found"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /admin/questions/{question_id}/active [put]
func (c *AdminController) SetQuestionActive(ctx *gin.Context) {
	questionID, err := strconv.ParseUint(ctx.Param("question_id"), 10, 32)
	if err != nil {
		ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{Message: "Invalid Question ID format"})
		return
	}
	var req dto.QuestionActiveDTO
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{Message: "Invalid request body", Details: []string{err.Error()}})
		return
	}
	if err := c.adminService.SetQuestionActive(uint(questionID), *req.Active); err != nil {
		log.Warn().Err(err).Uint64("questionID", questionID).Msg("SetQuestionActive: service error")
		controller.RespondServiceError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, gin.H{"message": "Question updated"})
}

// DeleteQuestion godoc
// @Summary (Admin) Delete a question
// @Tags Admin
// @Produce json
// @Security BearerAuth
// @Param question_id path int true "Question ID"
// @Success 200 {object} map[string]string
// @Failure 400 {object} dto.ErrorResponse "Invalid Question ID format"
// @Failure 404 {object} dto.ErrorResponse "Question not found"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /admin/questions/{question_id} [delete]
func (c *AdminController) DeleteQuestion(ctx *gin.Context) {
	questionID, err := strconv.ParseUint(ctx.Param("question_id"), 10, 32)
	if err != nil {
		ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{Message: "Invalid Question ID format"})
		return
	}
	if err := c.adminService.DeleteQuestion(uint(questionID)); err != nil {
		log.Warn().Err(err).Uint64("questionID", questionID).Msg("DeleteQuestion: service error")
		controller.RespondServiceError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, gin.H{"message": "Question deleted"})
}

// ListQuestions godoc
// @Summary (Admin) List a subject's questions
// @Tags Admin
// @Produce json
// @Security BearerAuth
// @Param subject_id query int true "Subject ID"
// @Success 200 {array} dto.QuestionAdminDTO
// @Failure 400 {object} dto.ErrorResponse "Missing or invalid subject_id"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /admin/questions [get]
func (c *AdminController) ListQuestions(ctx *gin.Context) {
	subjectID, err := strconv.ParseUint(ctx.Query("subject_id"), 10, 32)
	if err != nil {
		ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{Message: "Missing or invalid subject_id query parameter"})
		return
	}
	questions, err := c.adminService.ListQuestionsBySubject(uint(subjectID))
	if err != nil {
		log.Error().Err(err).Uint64("subjectID", subjectID).Msg("ListQuestions: service error")
		controller.RespondServiceError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, questions)
}

// CreateSubject godoc
// @Summary (Admin) Add a subject
// @Tags Admin
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param subject body dto.SubjectCreateDTO true "Subject data"
// @Success 201 {object} dto.SubjectDTO
// @Failure 400 {object} dto.ErrorResponse "Invalid request body"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /admin/subjects [post]
func (c *AdminController) CreateSubject(ctx *gin.Context) {
	var req dto.SubjectCreateDTO
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{Message: "Invalid request body", Details: []string{err.Error()}})
		return
	}
	created, err := c.adminService.CreateSubject(req)
	if err != nil {
		log.Error().Err(err).Msg("CreateSubject: service error")
		controller.RespondServiceError(ctx, err)
		return
	}
	ctx.JSON(http.StatusCreated, created)
}

// ListSubjects godoc
// @Summary (Admin) List subjects
// @Tags Admin
// @Produce json
// @Security BearerAuth
// @Success 200 {array} dto.SubjectDTO
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /admin/subjects [get]
func (c *AdminController) ListSubjects(ctx *gin.Context) {
	subjects, err := c.adminService.ListSubjects()
	if err != nil {
		log.Error().Err(err).Msg("ListSubjects: service error")
		controller.RespondServiceError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, subjects)
}

// DeleteSubject godoc
// @Summary (Admin) Delete a subject
// @Tags Admin
// @Produce json
// @Security BearerAuth
// @Param subject_id path int true "Subject ID"
// @Success 200 {object} map[string]string
// @Failure 400 {object} dto.ErrorResponse "Invalid Subject ID format"
// @Failure 404 {object} dto.ErrorResponse "Subject not found"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /admin/subjects/{subject_id} [delete]
func (c *AdminController) DeleteSubject(ctx *gin.Context) {
	subjectID, err := strconv.ParseUint(ctx.Param("subject_id"), 10, 32)
	if err != nil {
		ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{Message: "Invalid Subject ID format"})
		return
	}
	if err := c.adminService.DeleteSubject(uint(subjectID)); err != nil {
		log.Warn().Err(err).Uint64("subjectID", subjectID).Msg("DeleteSubject: service error")
		controller.RespondServiceError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, gin.H{"message": "Subject deleted"})
}
