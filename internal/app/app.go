package app

import (
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"bloodlink_backend/internal/auth"
	"bloodlink_backend/internal/config"
	"bloodlink_backend/internal/database"
	"bloodlink_backend/internal/email"
	"bloodlink_backend/internal/handlers"
	"bloodlink_backend/internal/logger"
	"bloodlink_backend/internal/middleware"
	"bloodlink_backend/internal/models"
	"bloodlink_backend/internal/repositories"
	"bloodlink_backend/internal/routes"
	"bloodlink_backend/internal/services"
	"bloodlink_backend/internal/validator"
	"bloodlink_backend/pkg/apperrors"
)

func Run() {
	config.LoadConfig()
	cfg := config.AppConfig
	logger.Init(cfg.Server.Env)
	logger.Info("Logger initialized", "env", cfg.Server.Env)

	logger.Info("Connecting to database...")
	gormDB, err := gorm.Open(postgres.Open(cfg.Database.DSN), &gorm.Config{})
	if err != nil {
		logger.Fatal("Failed to connect to GORM", "error", err)
	}
	sqlDB, err := gormDB.DB()
	if err != nil {
		logger.Fatal("Failed to get *sql.DB from GORM", "error", err)
	}
	if err = sqlDB.Ping(); err != nil {
		logger.Fatal("Database unavailable", "error", err)
	}
	logger.Info("Database connected")

	if err := database.Migrate(gormDB); err != nil {
		logger.Fatal("Database migration failed", "error", err)
	}

	if err := SeedFirstAdmin(gormDB, cfg); err != nil {
		logger.Fatal("Failed to seed first admin user", "error", err)
	}

	ginRouter := SetupRouter(cfg, gormDB, sqlDB)

	address := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	logger.Info(fmt.Sprintf("🚀 Server starting on %s", address))
	if err := ginRouter.Run(address); err != nil {
		logger.Fatal("Server startup error", "error", err)
	}
}

// SetupRouter собирает gin.Engine со всеми middleware и маршрутами.
// Тесты вызывают его напрямую, минуя Run.
func SetupRouter(cfg *config.Config, gormDB *gorm.DB, sqlDB *sql.DB) *gin.Engine {
	auth.Init(cfg.JWT.Secret, cfg.JWT.TTL)

	emailProvider := buildEmailProvider(cfg)
	serviceContainer := services.NewServiceContainer(cfg, emailProvider)
	appHandlers := initializeHandlers(serviceContainer)
	ginRouter := initializeGinRouter(gormDB, cfg)

	routes.RegisterRoutes(ginRouter, appHandlers)

	return ginRouter
}

func buildEmailProvider(cfg *config.Config) email.Provider {
	if cfg.Email.SMTPHost == "" {
		logger.Warn("SMTP host not configured, using in-memory email provider")
		return email.NewMockProvider()
	}

	smtpConfig := email.DefaultConfig()
	smtpConfig.Host = cfg.Email.SMTPHost
	smtpConfig.Port = cfg.Email.SMTPPort
	smtpConfig.Username = cfg.Email.SMTPUsername
	smtpConfig.Password = cfg.Email.SMTPPassword
	smtpConfig.FromEmail = cfg.Email.FromEmail
	smtpConfig.FromName = cfg.Email.FromName
	smtpConfig.UseTLS = cfg.Email.UseTLS

	baseURL := fmt.Sprintf("http://%s:%d", cfg.Server.Host, cfg.Server.Port)
	return email.NewSMTPProvider(smtpConfig, email.NewTemplateManager(), baseURL)
}

func initializeHandlers(sc *services.ServiceContainer) *handlers.AppHandlers {
	base := handlers.NewBaseHandler(validator.New())

	return &handlers.AppHandlers{
		AuthHandler:         handlers.NewAuthHandler(base, sc.AuthService),
		HospitalHandler:     handlers.NewHospitalHandler(base, sc.HospitalService),
		RequestHandler:      handlers.NewRequestHandler(base, sc.RequestService),
		DonationHandler:     handlers.NewDonationHandler(base, sc.DonationService),
		NotificationHandler: handlers.NewNotificationHandler(base, sc.NotificationService),
		FeedbackHandler:     handlers.NewFeedbackHandler(base, sc.FeedbackService),
	}
}

func initializeGinRouter(gormDB *gorm.DB, cfg *config.Config) *gin.Engine {
	if cfg.Server.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	ginRouter := gin.New()
	ginRouter.Use(gin.Recovery())
	ginRouter.Use(middleware.RequestIDMiddleware())
	ginRouter.Use(middleware.LoggingMiddleware())
	ginRouter.Use(middleware.CORSMiddleware())
	ginRouter.Use(middleware.DBMiddleware(gormDB))

	return ginRouter
}

// SeedFirstAdmin создает первую админскую запись из конфигурации.
// Повторные запуски и гонки между репликами разрешает частичный
// уникальный индекс на роли admin.
func SeedFirstAdmin(db *gorm.DB, cfg *config.Config) error {
	if cfg.FirstAdminEmail == "" || cfg.FirstAdminPassword == "" {
		logger.Warn("First admin credentials not configured, skipping seed")
		return nil
	}

	return db.Transaction(func(tx *gorm.DB) error {
		userRepo := repositories.NewUserRepository(tx)

		exists, err := userRepo.AdminExists()
		if err != nil {
			return err
		}
		if exists {
			return nil
		}

		hashed, err := auth.HashPassword(cfg.FirstAdminPassword)
		if err != nil {
			return err
		}

		now := time.Now()
		admin := &models.User{
			Name:         "Administrator",
			Email:        strings.ToLower(cfg.FirstAdminEmail),
			PasswordHash: hashed,
			Role:         models.UserRoleAdmin,
			Phone:        "n/a",
			IsVerified:   true,
			VerifiedAt:   &now,
		}

		if err := userRepo.Create(admin); err != nil {
			if errors.Is(err, apperrors.ErrAdminAlreadyExists) {
				return nil
			}
			return err
		}
		logger.Info("First admin user created", "email", admin.Email)
		return nil
	})
}
