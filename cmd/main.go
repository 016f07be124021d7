package main

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.uber.org/fx"
	"gorm.io/gorm"

	"github.com/faanskit/flygprov/config"
	"github.com/faanskit/flygprov/database"
	_ "github.com/faanskit/flygprov/docs" // Swagger docs - auto-generated
	adminctrl "github.com/faanskit/flygprov/internal/controller/admin"
	examinerctrl "github.com/faanskit/flygprov/internal/controller/examiner"
	studentctrl "github.com/faanskit/flygprov/internal/controller/student"
	"github.com/faanskit/flygprov/internal/logger"
	"github.com/faanskit/flygprov/internal/middleware"
	"github.com/faanskit/flygprov/internal/model"
	"github.com/faanskit/flygprov/internal/repository"
	"github.com/faanskit/flygprov/internal/service"
)

// @title Flygprov Exam API
// @version 1.0
// @description Exam administration API for a flight-training organization: students take 20-question multiple-choice tests per subject, examiners manage students and tests, admins manage the question bank.
// @contact.name API Support
// @license.name MIT
// @host localhost:8080
// @BasePath /api/v1
// @schemes http https
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
func main() {
	logger.Init()

	app := fx.New(
		// Core application components
		fx.Provide(
			config.NewConfig,
			database.NewDatabase, // Provides *gorm.DB
			NewGinEngine,         // Provides *gin.Engine
		),

		// Repositories layer
		fx.Provide(
			repository.NewUserRepository,
			repository.NewSubjectRepository,
			repository.NewQuestionRepository,
			repository.NewTestRepository,
			repository.NewAttemptRepository,
		),

		// Services layer
		fx.Provide(
			service.NewGradingService,
			service.NewQuestionBankService,
			service.NewAttemptService,
			service.NewStudentService,
			service.NewExaminerService,
			service.NewAdminService,
			service.NewUserService,
			service.NewArchiveService,
			service.NewScheduler,
		),

		// API controllers layer
		fx.Provide(
			studentctrl.NewStudentController,
			examinerctrl.NewExaminerController,
			adminctrl.NewAdminController,
			adminctrl.NewUserController,
		),

		fx.Invoke(RegisterRoutesAndStartServer),
		fx.Invoke(RegisterScheduler),
		fx.Invoke(AutoMigrateDB),
	)

	if err := app.Start(context.Background()); err != nil {
		log.Fatal().Err(err).Msg("Failed to start application")
	}

	<-app.Done()
	log.Info().Msg("Application shutting down gracefully...")
}

func NewGinEngine() *gin.Engine {
	gin.SetMode(gin.ReleaseMode)

	r := gin.New()

	r.Use(gin.LoggerWithFormatter(func(param gin.LogFormatterParams) string {
		log.Info().
			Str("client_ip", param.ClientIP).
			Str("method", param.Method).
			Str("path", param.Path).
			Int("status_code", param.StatusCode).
			Dur("latency", param.Latency).
			Str("error_message", param.ErrorMessage).
			Msg("gin_request")
		return ""
	}))
	r.Use(gin.Recovery())

	r.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"*"},
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	// Swagger UI at /swagger/index.html
	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	return r
}

// RegisterRoutesAndStartServer configures API routes and manages the server
// lifecycle.
func RegisterRoutesAndStartServer(
	lc fx.Lifecycle,
	router *gin.Engine,
	cfg *config.Config,
	studentCtrl *studentctrl.StudentController,
	examinerCtrl *examinerctrl.ExaminerController,
	adminCtrl *adminctrl.AdminController,
	userCtrl *adminctrl.UserController,
) {
	api := router.Group("/api/v1")
	api.Use(middleware.RequireAuth(cfg.JWTSecret))

	// Attempt result view is shared: the owning student, examiners and
	// admins may read it; the service enforces ownership for students.
	api.GET("/attempts/:attempt_id", studentCtrl.GetAttemptDetail)

	studentGroup := api.Group("/student", middleware.RequireRole(model.RoleStudent))
	{
		studentGroup.GET("/dashboard", studentCtrl.GetDashboard)
		studentGroup.GET("/tests/:test_id/start", studentCtrl.StartTest)
		studentGroup.POST("/attempts/:attempt_id/submit", studentCtrl.SubmitAttempt)
	}

	examinerGroup := api.Group("/examiner", middleware.RequireRole(model.RoleExaminer, model.RoleAdmin))
	{
		examinerGroup.GET("/students", examinerCtrl.GetStudentOverview)
		examinerGroup.GET("/students/:student_id", examinerCtrl.GetStudentDetails)
		examinerGroup.POST("/test-sessions", examinerCtrl.CreateTestSession)
		examinerGroup.POST("/test-sessions/replace-question", examinerCtrl.ReplaceQuestion)
		examinerGroup.POST("/tests", examinerCtrl.CreateTest)
		examinerGroup.GET("/tests", examinerCtrl.ListTests)
		examinerGroup.PUT("/tests/:test_id/assign", examinerCtrl.AssignTest)
	}

	adminGroup := api.Group("/admin", middleware.RequireRole(model.RoleAdmin))
	{
		adminGroup.POST("/questions", adminCtrl.CreateQuestion)
		adminGroup.GET("/questions", adminCtrl.ListQuestions)
		adminGroup.PUT("/questions/:question_id", adminCtrl.UpdateQuestion)
		adminGroup.PUT("/questions/:question_id/active", adminCtrl.SetQuestionActive)
		adminGroup.DELETE("/questions/:question_id", adminCtrl.DeleteQuestion)
		adminGroup.POST("/subjects", adminCtrl.CreateSubject)
		adminGroup.GET("/subjects", adminCtrl.ListSubjects)
		adminGroup.DELETE("/subjects/:subject_id", adminCtrl.DeleteSubject)
		adminGroup.POST("/archive/run", adminCtrl.RunArchival)

		adminGroup.GET("/students", userCtrl.ListStudents)
		adminGroup.POST("/students", userCtrl.CreateStudent)
		adminGroup.PUT("/students/:user_id/archive", userCtrl.ArchiveStudent)
		adminGroup.PUT("/students/:user_id/reactivate", userCtrl.ReactivateStudent)
		adminGroup.PUT("/students/:user_id/reset-password", userCtrl.ResetStudentPassword)
		adminGroup.GET("/examiners", userCtrl.ListExaminers)
		adminGroup.POST("/examiners", userCtrl.CreateExaminer)
		adminGroup.PUT("/examiners/:user_id/archive", userCtrl.ArchiveExaminer)
		adminGroup.PUT("/examiners/:user_id/reactivate", userCtrl.ReactivateExaminer)
		adminGroup.PUT("/examiners/:user_id/reset-password", userCtrl.ResetExaminerPassword)
	}

	server := &http.Server{
		Addr:    ":" + cfg.Server.Port,
		Handler: router,
	}

	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			log.Info().Msgf("Flygprov API server starting on port %s", cfg.Server.Port)
			go func() {
				if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
					log.Fatal().Err(err).Msg("Server ListenAndServe failed")
				}
			}()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			log.Info().Msg("Server shutting down...")
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer cancel()
			return server.Shutdown(shutdownCtx)
		},
	})
}

// RegisterScheduler ties the daily archival scheduler to the fx lifecycle.
func RegisterScheduler(lc fx.Lifecycle, scheduler *service.Scheduler) {
	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			scheduler.Start()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			scheduler.Stop()
			return nil
		},
	})
}

func AutoMigrateDB(db *gorm.DB) error {
	log.Info().Msg("Running database migrations...")
	err := db.AutoMigrate(
		&model.User{},
		&model.Subject{},
		&model.Question{},
		&model.Test{},
		&model.Attempt{},
		&model.Answer{},
	)
	if err != nil {
		log.Error().Err(err).Msg("Database migration failed")
		return err
	}
	log.Info().Msg("Database migration completed successfully")
	return nil
}
