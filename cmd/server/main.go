package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"member_directory/internal/config"
	"member_directory/internal/handler"
	"member_directory/internal/logging"
	"member_directory/internal/mailer"
	"member_directory/internal/ratelimit"
	"member_directory/internal/repository"
	"member_directory/internal/service"
	"member_directory/internal/utils"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"
)

func main() {
	// Load .env file
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found or error loading, relying on environment variables")
	}

	// --- Configuration ---
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
	if cfg.GinMode != "" {
		gin.SetMode(cfg.GinMode)
	}

	logger := logging.New(cfg.LogLevel)
	ctx := context.Background()

	// --- Database Connection ---
	dbPool, err := config.ConnectDB(ctx, cfg.DB)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer dbPool.Close()

	// --- Migrations ---
	if err := config.Migrate(ctx, dbPool); err != nil {
		log.Fatalf("Failed to migrate database: %v", err)
	}

	// --- Rate limiting (optional) ---
	var limiter *ratelimit.Limiter
	if cfg.Redis.Addr != "" {
		rdb := redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		defer rdb.Close()
		if err := rdb.Ping(ctx).Err(); err != nil {
			logger.Warn(ctx, "redis unreachable, rate limiting will fail open", "addr", cfg.Redis.Addr, "error", err)
		}
		limiter = ratelimit.NewLimiter(rdb, ratelimit.Config{
			MaxAttempts: cfg.RateLimit.MaxAttempts,
			Window:      cfg.RateLimit.Window,
		})
	} else {
		logger.Info(ctx, "REDIS_ADDR not set, rate limiting disabled")
	}

	// --- Mail ---
	var m mailer.Mailer
	if cfg.SMTP.Host != "" {
		m = mailer.NewSMTPMailer(mailer.SMTPConfig{
			Host:     cfg.SMTP.Host,
			Port:     cfg.SMTP.Port,
			Username: cfg.SMTP.Username,
			Password: cfg.SMTP.Password,
			From:     cfg.SMTP.From,
		})
	} else {
		logger.Warn(ctx, "SMTP_HOST not set, emails will only be logged")
		m = mailer.NewLogMailer(logger)
	}

	// --- Initialize Utilities ---
	jwtUtil := utils.NewJWTUtil(cfg.JWT.Secret, cfg.JWT.Issuer, cfg.JWT.Audience, cfg.JWT.Expiration)
	hasher := utils.NewPasswordHasher(cfg.BcryptCost)
	textCipher, err := utils.NewTextCipher(cfg.AESKey)
	if err != nil {
		log.Fatalf("Failed to initialize cipher: %v", err)
	}

	// --- Initialize Repositories ---
	accountRepo := repository.NewAccountRepository(dbPool)
	otpRepo := repository.NewOTPRepository(dbPool)
	profileRepo := repository.NewProfileRepository(dbPool)

	// --- Initialize Services ---
	authService := service.NewAuthService(accountRepo, jwtUtil, hasher, limiter, logger.With("component", "auth"))
	resetService := service.NewPasswordResetService(accountRepo, otpRepo, m, hasher, limiter, logger.With("component", "password_reset"), cfg.OTPTTL)
	legacyService := service.NewLegacyService(accountRepo, textCipher, hasher, logger.With("component", "legacy"))

	// --- Seed accounts ---
	if cfg.SeedAccountsPath != "" {
		seeds, err := config.LoadSeedAccounts(cfg.SeedAccountsPath)
		if err != nil {
			log.Fatalf("Failed to load seed accounts: %v", err)
		}
		if err := authService.Seed(ctx, seeds); err != nil {
			log.Fatalf("Failed to seed accounts: %v", err)
		}
	}

	// --- Setup Gin Router ---
	router := handler.NewRouter(handler.RouterDeps{
		JWT:      jwtUtil,
		APIKey:   cfg.APIKey,
		Profiles: profileRepo,
		Auth:     handler.NewAuthHandler(authService, resetService, profileRepo, logger),
		Admin:    handler.NewAdminHandler(authService, logger),
		Legacy:   handler.NewLegacyHandler(legacyService, logger),
		HealthCheck: func(ctx context.Context) error {
			return dbPool.Ping(ctx)
		},
	})

	// --- Start Server ---
	srv := &http.Server{
		Addr:              ":" + cfg.ServerPort,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	go func() {
		logger.Info(ctx, "server starting", "port", cfg.ServerPort)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("listen: %s\n", err)
		}
	}()

	// --- Graceful Shutdown ---
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Info(ctx, "shutting down server")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Fatal("Server forced to shutdown:", err)
	}
	// let queued OTP mails finish; each is bounded by its own timeout
	resetService.Wait()

	logger.Info(ctx, "server exiting")
}
