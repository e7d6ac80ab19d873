package main

import (
	"log"
	"net/http"

	"bookclub/docs"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	"bookclub/internal/auth"
	"bookclub/internal/cache"
	"bookclub/internal/config"
	"bookclub/internal/db"
	"bookclub/internal/handler"
	"bookclub/internal/mail"
	"bookclub/internal/model"
	"bookclub/internal/repository"
	"bookclub/internal/router"
	"bookclub/internal/service"
)

// @title Book Club Library API
// @version 1.0
// @description Library management API with catalog, readers, lending workflow and JWT authentication.
// @host localhost:8080
// @BasePath /api
// @schemes http
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and JWT token.
func main() {
	cfg := config.Load()
	if cfg.SwaggerHost != "" {
		docs.SwaggerInfo.Host = cfg.SwaggerHost
	}

	e := echo.New()
	e.Use(middleware.RequestID())

	gormDB, err := db.Connect(cfg)
	if err != nil {
		log.Fatalf("database init: %v", err)
	}

	// Run migrations for all models
	if err := gormDB.AutoMigrate(
		&model.User{},
		&model.Book{},
		&model.Reader{},
		&model.LendingTransaction{},
		&model.AuditLog{},
	); err != nil {
		log.Fatalf("auto-migrate: %v", err)
	}

	cacheClient := cache.New(cfg.RedisAddr, cfg.RedisPass, cfg.RedisDB)

	// Initialize repositories
	userRepo := repository.NewUserRepository(gormDB)
	bookRepo := repository.NewBookRepository(gormDB)
	readerRepo := repository.NewReaderRepository(gormDB)
	lendingRepo := repository.NewLendingRepository(gormDB)
	auditRepo := repository.NewAuditLogRepository(gormDB)

	// Initialize auth and transport components
	tokenService := auth.NewTokenService(cfg.AccessTokenSecret, cfg.RefreshTokenSecret, cfg.AccessTokenTTL, cfg.RefreshTokenTTL)
	mailer := mail.NewSMTPMailer(cfg.SMTP)

	// Initialize services
	auditService := service.NewAuditService(auditRepo, userRepo)
	defer auditService.Close()
	authService := service.NewAuthService(userRepo, tokenService, mailer, auditService, cfg.ClientOrigin, cfg.ResetTokenTTL)
	bookService := service.NewBookService(bookRepo, cacheClient, auditService)
	readerService := service.NewReaderService(readerRepo, cacheClient, auditService)
	lendingService := service.NewLendingService(lendingRepo, bookRepo, readerRepo, auditService, cfg.LendingPeriod)
	notificationService := service.NewNotificationService(lendingRepo, mailer, auditService)

	// Initialize handlers
	authHandler := handler.NewAuthHandler(authService, cfg.RefreshTokenTTL, cfg.Production())
	bookHandler := handler.NewBookHandler(bookService)
	readerHandler := handler.NewReaderHandler(readerService)
	lendingHandler := handler.NewLendingHandler(lendingService)
	notificationHandler := handler.NewNotificationHandler(notificationService)
	auditHandler := handler.NewAuditHandler(auditService)

	// Register routes
	router.Register(
		e,
		cfg,
		tokenService,
		authHandler,
		bookHandler,
		readerHandler,
		lendingHandler,
		notificationHandler,
		auditHandler,
	)

	addr := ":" + cfg.ServerPort
	if err := e.Start(addr); err != nil && err != http.ErrServerClosed {
		log.Fatalf("server start: %v", err)
	}
}
