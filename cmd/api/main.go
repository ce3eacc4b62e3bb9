// @title           Community Board API
// @version         1.0
// @description     커뮤니티 게시판 API

// @host      localhost:8080
// @BasePath  /api

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and JWT token.

package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gorm.io/gorm"

	"community-board-api/internal/cache"
	"community-board-api/internal/config"
	"community-board-api/internal/database"
	"community-board-api/internal/job"
	"community-board-api/internal/mail"
	"community-board-api/internal/metrics"
	"community-board-api/internal/repository"
	"community-board-api/internal/router"
	"community-board-api/internal/storage"
)

func main() {
	// Load configuration
	cfg, err := config.Load("configs/config.yaml")
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	// Initialize logger
	logger, err := initLogger(cfg.Logger.Level)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	// Set Gin mode
	if cfg.Server.Mode == "release" {
		gin.SetMode(gin.ReleaseMode)
	}

	logger.Info("Starting Community Board API",
		zap.String("port", cfg.Server.Port),
		zap.String("mode", cfg.Server.Mode),
		zap.String("base_path", cfg.Server.BasePath),
	)

	// Initialize metrics
	m := metrics.NewWithLogger(logger)

	// bootstrap runs once the database connection is up: migrations, seed
	// data and the DB-level metric hooks
	bootstrap := func(db *gorm.DB) {
		if err := database.SafeAutoMigrateWithRetry(db, logger, 3); err != nil {
			logger.Error("Failed to run database migrations", zap.Error(err))
			return
		}
		if err := database.Seed(db, database.SeedConfig{
			AdminUsername: cfg.Admin.Username,
			AdminPassword: cfg.Admin.Password,
			AdminNickname: cfg.Admin.Nickname,
		}, logger); err != nil {
			logger.Error("Failed to seed base data", zap.Error(err))
		}
		database.RegisterMetricsCallbacks(db, m)
		database.StartDBStatsCollector(db, m)
		metrics.NewBusinessMetricsCollector(db, m, logger).Start()
	}

	// Initialize database (실패해도 앱은 시작됨 - pod 생존 보장)
	dbConfig := database.Config{
		DSN:             cfg.Database.GetDSN(),
		MaxOpenConns:    cfg.Database.MaxOpenConns,
		MaxIdleConns:    cfg.Database.MaxIdleConns,
		ConnMaxLifetime: cfg.Database.ConnMaxLifetime,
	}

	db, err := database.New(dbConfig)
	if err != nil {
		logger.Warn("Failed to connect to database on startup, will retry in background",
			zap.Error(err))
		// 백그라운드에서 DB 연결 재시도 (5초 간격)
		database.NewAsync(dbConfig, 5*time.Second, logger, bootstrap)
	} else {
		logger.Info("Database connected successfully")
		database.SetDB(db)
		bootstrap(db)
	}

	// Initialize Redis for view deduplication (non-fatal)
	if err := database.InitRedis(*cfg, logger); err != nil {
		logger.Warn("Failed to connect to Redis, every read will count as a view",
			zap.Error(err))
	}
	viewCache := cache.NewViewCache(database.GetRedis(), cfg.Redis.ViewTTL, logger)

	// Initialize profile image storage
	var imageStore storage.ImageStore
	if cfg.S3.Bucket != "" && cfg.S3.Region != "" {
		s3Store, err := storage.NewS3ImageStore(&cfg.S3, m)
		if err != nil {
			logger.Warn("Failed to initialize S3 image store, using in-memory stub", zap.Error(err))
			imageStore = storage.NewMockImageStore()
		} else {
			logger.Info("S3 image store initialized",
				zap.String("bucket", cfg.S3.Bucket),
				zap.String("region", cfg.S3.Region),
			)
			imageStore = s3Store
		}
	} else {
		logger.Warn("S3 configuration incomplete, profile images stored in stub mode")
		imageStore = storage.NewMockImageStore()
	}

	// Initialize mail delivery
	var mailSender mail.Sender
	if cfg.Mail.Host != "" {
		mailSender = mail.NewSMTPSender(cfg.Mail, logger, m)
		logger.Info("SMTP mail sender initialized", zap.String("host", cfg.Mail.Host))
	} else {
		logger.Warn("Mail host not configured, verification mails are logged only")
		mailSender = mail.NewLogSender(logger)
	}

	// Setup router with all dependencies
	r := router.Setup(router.Config{
		DB:             db,
		Logger:         logger,
		Metrics:        m,
		ViewTracker:    viewCache,
		ImageStore:     imageStore,
		MailSender:     mailSender,
		JWT:            cfg.JWT,
		BasePath:       cfg.Server.BasePath,
		AllowedOrigins: cfg.Server.AllowedOrigins,
	})

	// Schedule the stale-account cleanup job
	scheduler := cron.New()
	cleanupJob := job.NewCleanupJob(repository.NewMemberRepository(db), cfg.Cleanup.Retention, logger)
	if _, err := scheduler.AddJob(cfg.Cleanup.Schedule, cleanupJob); err != nil {
		logger.Warn("Failed to schedule cleanup job",
			zap.String("schedule", cfg.Cleanup.Schedule),
			zap.Error(err))
	} else {
		scheduler.Start()
		defer scheduler.Stop()
	}

	// Create HTTP server
	srv := &http.Server{
		Addr:         fmt.Sprintf(":%s", cfg.Server.Port),
		Handler:      r,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	// Start server in goroutine
	go func() {
		logger.Info("Community Board API started successfully",
			zap.String("address", srv.Addr),
		)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Info("Shutting down server...")

	// Graceful shutdown with timeout
	ctx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Error("Server forced to shutdown", zap.Error(err))
	}

	logger.Info("Server exited gracefully")
}

// initLogger initializes the zap logger with the specified level
func initLogger(level string) (*zap.Logger, error) {
	var zapLevel zapcore.Level
	switch level {
	case "debug":
		zapLevel = zapcore.DebugLevel
	case "info":
		zapLevel = zapcore.InfoLevel
	case "warn":
		zapLevel = zapcore.WarnLevel
	case "error":
		zapLevel = zapcore.ErrorLevel
	default:
		zapLevel = zapcore.InfoLevel
	}

	config := zap.Config{
		Level:            zap.NewAtomicLevelAt(zapLevel),
		Development:      zapLevel == zapcore.DebugLevel,
		Encoding:         "json",
		EncoderConfig:    zap.NewProductionEncoderConfig(),
		OutputPaths:      []string{"stdout"},
		ErrorOutputPaths: []string{"stderr"},
	}

	return config.Build()
}
