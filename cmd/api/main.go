package main

import (
	"log"

	"github.com/gin-gonic/gin"

	"github.com/billpoint/billpoint-api/internal/application/service"
	"github.com/billpoint/billpoint-api/internal/config"
	"github.com/billpoint/billpoint-api/internal/infrastructure/database"
	"github.com/billpoint/billpoint-api/internal/infrastructure/repository"
	"github.com/billpoint/billpoint-api/internal/presentation/http/handler"
	"github.com/billpoint/billpoint-api/internal/presentation/http/routes"
	"github.com/billpoint/billpoint-api/pkg/email"
	"github.com/billpoint/billpoint-api/pkg/oauth"
	"github.com/billpoint/billpoint-api/pkg/utils"
)

func main() {
	cfg := config.Load()

	if cfg.App.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	db, err := database.NewPostgresDB(&cfg.Database)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}

	if err := database.AutoMigrate(db); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}

	redisClient, err := database.NewRedisClient(&cfg.Redis)
	if err != nil {
		log.Fatalf("Failed to connect to Redis: %v", err)
	}

	jwtManager := utils.NewJWTManager(
		cfg.JWT.Secret,
		cfg.JWT.ExpiryHours,
		cfg.JWT.RefreshExpiryHours,
	)

	// Repositories
	merchantRepo := repository.NewMerchantRepository(db)
	phoneRepo := repository.NewPhoneIndexRepository(db)
	productRepo := repository.NewProductRepository(db)
	billRepo := repository.NewBillRepository(db)
	settingsRepo := repository.NewSettingsRepository(db)
	idempotencyRepo := repository.NewIdempotencyRepository(db)

	emailService := email.NewEmailService(email.EmailConfig{
		SMTPHost:     cfg.Email.SMTPHost,
		SMTPPort:     cfg.Email.SMTPPort,
		SMTPUsername: cfg.Email.SMTPUsername,
		SMTPPassword: cfg.Email.SMTPPassword,
		FromName:     cfg.Email.FromName,
		FromEmail:    cfg.Email.FromEmail,
	})

	googleOAuthService := oauth.NewGoogleOAuthService(oauth.GoogleOAuthConfig{
		ClientID:           cfg.OAuth.GoogleClientID,
		ClientSecret:       cfg.OAuth.GoogleClientSecret,
		RedirectURL:        cfg.OAuth.GoogleRedirectURL,
		FrontendSuccessURL: cfg.OAuth.FrontendSuccessURL,
		FrontendErrorURL:   cfg.OAuth.FrontendErrorURL,
	})

	// Services
	otpService := service.NewOTPService(redisClient, emailService, service.OTPConfig{
		TTL:          cfg.OTP.TTL,
		ResendWindow: cfg.OTP.ResendWindow,
		MaxAttempts:  cfg.OTP.MaxAttempts,
	})
	authService := service.NewAuthService(merchantRepo, phoneRepo, jwtManager, otpService, googleOAuthService)
	settingsService := service.NewSettingsService(settingsRepo, merchantRepo, phoneRepo)
	cartService := service.NewCartService(redisClient, productRepo, settingsService)
	billService := service.NewBillService(billRepo, cartService, settingsService)
	productService := service.NewProductService(productRepo)
	accountService := service.NewAccountService(
		merchantRepo, phoneRepo, productRepo, billRepo, settingsRepo,
		otpService, cartService, emailService, redisClient,
	)

	handlers := &routes.Handlers{
		Auth:     handler.NewAuthHandler(authService, otpService, googleOAuthService),
		Account:  handler.NewAccountHandler(accountService),
		Product:  handler.NewProductHandler(productService),
		Cart:     handler.NewCartHandler(cartService),
		Bill:     handler.NewBillHandler(billService),
		Settings: handler.NewSettingsHandler(settingsService),
	}

	router := routes.Setup(handlers, &routes.Deps{
		JWTManager:      jwtManager,
		Cfg:             cfg,
		IdempotencyRepo: idempotencyRepo,
	})

	port := cfg.App.Port
	if port == "" {
		port = "8080"
	}

	log.Printf("Starting %s server on port %s...", cfg.App.Name, port)
	log.Printf("Environment: %s", cfg.App.Env)

	if err := router.Run(":" + port); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}
