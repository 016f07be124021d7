package admin

import (
	"net/http"
	"strconv"

	"github.com/faanskit/flygprov/internal/controller"
	"github.com/faanskit/flygprov/internal/dto"
	"github.com/faanskit/flygprov/internal/model"
	"github.com/faanskit/flygprov/internal/service"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
)

// UserController is the admin account-management surface. Students and
// examiners share the same handlers with the role fixed per route.
type UserController struct {
	userService service.UserService
}

func NewUserController(userService service.UserService) *UserController {
	return &UserController{userService: userService}
}

// ListStudents godoc
// @Summary (Admin) List student accounts
// @Description Optionally filtered with ?status=active or ?status=archived.
// @Tags Admin
// @Produce json
// @Security BearerAuth
// @Param status query string false "Filter: active or archived"
// @Success 200 {array} dto.UserAccountDTO
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /admin/students [get]
func (c *UserController) ListStudents(ctx *gin.Context) {
	c.listUsers(ctx, model.RoleStudent)
}

// CreateStudent godoc
// @Summary (Admin) Create a student account
// @Description The response carries the generated temporary password exactly once; the account must change it on first login.
// @Tags Admin
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param account body dto.UserCreateDTO true "Account data"
// @Success 201 {object} dto.TempPasswordDTO
// @Failure 400 {object} dto.ErrorResponse "Invalid request body"
// @Failure 409 {object} dto.ErrorResponse "Username already exists"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /admin/students [post]
func (c *UserController) CreateStudent(ctx *gin.Context) {
	c.createUser(ctx, model.RoleStudent)
}

// ArchiveStudent godoc
// @Summary (Admin) Archive a student account
// @Tags Admin
// @Produce json
// @Security BearerAuth
// @Param user_id path int true "User ID"
// @Success 200 {object} map[string]string
// @Failure 400 {object} dto.ErrorResponse "Invalid User ID format"
// @Failure 404 {object} dto.ErrorResponse "Student not found"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /admin/students/{user_id}/archive [put]
func (c *UserController) ArchiveStudent(ctx *gin.Context) {
	c.setArchived(ctx, model.RoleStudent, true)
}

// ReactivateStudent godoc
// @Summary (Admin) Reactivate an archived student account
// @Tags Admin
// @Produce json
// @Security BearerAuth
// @Param user_id path int true "User ID"
// @Success 200 {object} map[string]string
// @Failure 400 {object} dto.ErrorResponse "Invalid User ID format"
// @Failure 404 {object} dto.ErrorResponse "Student not found"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /admin/students/{user_id}/reactivate [put]
func (c *UserController) ReactivateStudent(ctx *gin.Context) {
	c.setArchived(ctx, model.RoleStudent, false)
}

// ResetStudentPassword godoc
// @Summary (Admin) Reset a student's password
// @Description Generates a new temporary password and forces a change on next login.
// @Tags Admin
// @Produce json
// @Security BearerAuth
// @Param user_id path int true "User ID"
// @Success 200 {object} dto.TempPasswordDTO
// @Failure 400 {object} dto.ErrorResponse "Invalid User ID format"
// @Failure 404 {object} dto.ErrorResponse "Student not found"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /admin/students/{user_id}/reset-password [put]
func (c *UserController) ResetStudentPassword(ctx *gin.Context) {
	c.resetPassword(ctx, model.RoleStudent)
}

// ListExaminers godoc
// @Summary (Admin) List examiner accounts
// @Description Optionally filtered with ?status=active or ?status=archived.
// @Tags Admin
// @Produce json
// @Security BearerAuth
// @Param status query string false "Filter: active or archived"
// @Success 200 {array} dto.UserAccountDTO
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /admin/examiners [get]
func (c *UserController) ListExaminers(ctx *gin.Context) {
	c.listUsers(ctx, model.RoleExaminer)
}

// CreateExaminer godoc
// @Summary (Admin) Create an examiner account
// @Tags Admin
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param account body dto.UserCreateDTO true "Account data"
// @Success 201 {object} dto.TempPasswordDTO
// @Failure 400 {object} dto.ErrorResponse "Invalid request body"
// @Failure 409 {object} dto.ErrorResponse "Username already exists"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /admin/examiners [post]
func (c *UserController) CreateExaminer(ctx *gin.Context) {
	c.createUser(ctx, model.RoleExaminer)
}

// ArchiveExaminer godoc
// @Summary (Admin) Archive an examiner account
// @Tags Admin
// @Produce json
// @Security BearerAuth
// @Param user_id path int true "User ID"
// @Success 200 {object} map[string]string
// @Failure 400 {object} dto.ErrorResponse "Invalid User ID format"
// @Failure 404 {object} dto.ErrorResponse "Examiner not found"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /admin/examiners/{user_id}/archive [put]
func (c *UserController) ArchiveExaminer(ctx *gin.Context) {
	c.setArchived(ctx, model.RoleExaminer, true)
}

// ReactivateExaminer godoc
// @Summary (Admin) Reactivate an archived examiner account
// @Tags Admin
// @Produce json
// @Security BearerAuth
// @Param user_id path int true "User ID"
// @Success 200 {object} map[string]string
// @Failure 400 {object} dto.ErrorResponse "Invalid User ID format"
// @Failure 404 {object} dto.ErrorResponse "Examiner not found"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /admin/examiners/{user_id}/reactivate [put]
func (c *UserController) ReactivateExaminer(ctx *gin.Context) {
	c.setArchived(ctx, model.RoleExaminer, false)
}

// ResetExaminerPassword godoc
// @Summary (Admin) Reset an examiner's password
// @Tags Admin
// @Produce json
// @Security BearerAuth
// @Param user_id path int true "User ID"
// @Success 200 {object} dto.TempPasswordDTO
// @Failure 400 {object} dto.ErrorResponse "Invalid User ID format"
// @Failure 404 {object} dto.ErrorResponse "Examiner not found"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /admin/examiners/{user_id}/reset-password [put]
func (c *UserController) ResetExaminerPassword(ctx *gin.Context) {
	c.resetPassword(ctx, model.RoleExaminer)
}

func (c *UserController) listUsers(ctx *gin.Context, role string) {
	accounts, err := c.userService.List(role, ctx.Query("status"))
	if err != nil {
		log.Error().Err(err).Str("role", role).Msg("listUsers: service error")
		controller.RespondServiceError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, accounts)
}

func (c *UserController) createUser(ctx *gin.Context, role string) {
	var req dto.UserCreateDTO
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{Message: "Invalid request body", Details: []string{err.Error()}})
		return
	}
	created, err := c.userService.Create(role, req.Username)
	if err != nil {
		log.Warn().Err(err).Str("role", role).Str("username", req.Username).Msg("createUser: service error")
		controller.RespondServiceError(ctx, err)
		return
	}
	ctx.JSON(http.StatusCreated, created)
}

func (c *UserController) setArchived(ctx *gin.Context, role string, archived bool) {
	userID, err := strconv.ParseUint(ctx.Param("user_id"), 10, 32)
	if err != nil {
		ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{Message: "Invalid User ID format"})
		return
	}
	if err := c.userService.SetArchived(role, uint(userID), archived); err != nil {
		log.Warn().Err(err).Uint64("userID", userID).Str("role", role).Msg("setArchived: service error")
		controller.RespondServiceError(ctx, err)
		return
	}
	message := "Account archived"
	if !archived {
		message = "Account reactivated"
	}
	ctx.JSON(http.StatusOK, gin.H{"message": message})
}

func (c *UserController) resetPassword(ctx *gin.Context, role string) {
	userID, err := strconv.ParseUint(ctx.Param("user_id"), 10, 32)
	if err != nil {
		ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{Message: "Invalid User ID format"})
		return
	}
	result, err := c.userService.ResetPassword(role, uint(userID))
	if err != nil {
		log.Warn().Err(err).Uint64("userID", userID).Str("role", role).Msg("resetPassword: service error")
		controller.RespondServiceError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, result)
}
