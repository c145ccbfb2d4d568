package main

import (
	"log"
	"net/http"
	"os"

	_ "frenchnotes/docs" // swagger docs

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	"frenchnotes/internal/auth"
	"frenchnotes/internal/cache"
	"frenchnotes/internal/config"
	"frenchnotes/internal/db"
	"frenchnotes/internal/handler"
	"frenchnotes/internal/mailer"
	"frenchnotes/internal/media"
	"frenchnotes/internal/model"
	"frenchnotes/internal/repository"
	"frenchnotes/internal/router"
	"frenchnotes/internal/service"
)

// @title French Notes API
// @version 1.0
// @description Educational content platform backend with device-gated student logins, content catalog and idea submissions.
// @host localhost:8080
// @BasePath /api
// @schemes http
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and JWT token.
func main() {
	cfg := config.Load()

	e := echo.New()
	e.Use(middleware.RequestID())

	gormDB, err := db.NewMySQL(cfg.MySQLDSN)
	if err != nil {
		log.Fatalf("database init: %v", err)
	}

	// Drop tables if RESET_DB environment variable is set
	if os.Getenv("RESET_DB") == "true" {
		log.Println("RESET_DB=true detected, dropping all tables...")
		tables := []interface{}{
			&model.Idea{},
			&model.Content{},
			&model.LoginLog{},
			&model.User{},
		}
		for _, table := range tables {
			if err := gormDB.Migrator().DropTable(table); err != nil {
				log.Printf("Warning: Failed to drop table (may not exist): %v", err)
			}
		}
		log.Println("Tables dropped")
	}

	// Run migrations for all models
	if err := gormDB.AutoMigrate(
		&model.User{},
		&model.LoginLog{},
		&model.Content{},
		&model.Idea{},
	); err != nil {
		log.Fatalf("auto-migrate: %v", err)
	}

	cacheClient := cache.New(cfg.RedisAddr, cfg.RedisPass, cfg.RedisDB)

	// Initialize repositories
	userRepo := repository.NewUserRepository(gormDB)
	loginLogRepo := repository.NewLoginLogRepository(gormDB)
	contentRepo := repository.NewContentRepository(gormDB)
	ideaRepo := repository.NewIdeaRepository(gormDB)

	// External collaborators
	jwtService := auth.NewJWTService(cfg.JWTSecret)
	mail := mailer.New(cfg.SMTPHost, cfg.SMTPPort, cfg.SMTPUser, cfg.SMTPPass, cfg.EmailFrom)
	mediaStore := media.NewClient(cfg.MediaCloudName, cfg.MediaAPIKey, cfg.MediaAPISecret, cfg.MediaFolder)

	// Initialize services
	deviceService := service.NewDeviceService(loginLogRepo, jwtService, cfg.LoginApprovalMode)
	authService := service.NewAuthService(userRepo, deviceService, jwtService, mail, cfg.FrontendBaseURL)
	userService := service.NewUserService(userRepo)
	contentService := service.NewContentService(contentRepo, mediaStore, cacheClient)
	ideaService := service.NewIdeaService(ideaRepo, mediaStore)

	// Initialize handlers
	authHandler := handler.NewAuthHandler(authService)
	adminHandler := handler.NewAdminHandler(userService, deviceService)
	contentHandler := handler.NewContentHandler(contentService)
	ideaHandler := handler.NewIdeaHandler(ideaService)

	// Register routes
	router.Register(
		e,
		cfg,
		authHandler,
		adminHandler,
		contentHandler,
		ideaHandler,
	)

	log.Printf("login approval mode: %s", cfg.LoginApprovalMode)

	addr := ":" + cfg.ServerPort
	if err := e.Start(addr); err != nil && err != http.ErrServerClosed {
		log.Fatalf("server start: %v", err)
	}
}
