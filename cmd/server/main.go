package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/redis/go-redis/v9"
	ginprometheus "github.com/zsais/go-gin-prometheus"
	"go.uber.org/zap"

	"sentinel-server/internal/authutils"
	"sentinel-server/internal/config"
	"sentinel-server/internal/handler"
	"sentinel-server/internal/messaging"
	"sentinel-server/internal/middleware"
	"sentinel-server/internal/quest"
	"sentinel-server/internal/repository"
	"sentinel-server/internal/service"
	"sentinel-server/migrations"
	"sentinel-server/pkg/database"
	"sentinel-server/pkg/logger"
	"sentinel-server/pkg/migration"
)

func main() {
	_ = godotenv.Load()
	log.Println("Starting Sentinel Server...")

	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	zapLogger, err := logger.New(logger.Config{Level: cfg.LogLevel})
	if err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer zapLogger.Sync()
	zapLogger.Info("Logger initialized", zap.String("logLevel", cfg.LogLevel))

	// PostgreSQL
	dbPool, err := database.NewPool(context.Background(), database.Config{
		Host:        cfg.DBHost,
		Port:        cfg.DBPort,
		User:        cfg.DBUser,
		Password:    cfg.DBPassword,
		Name:        cfg.DBName,
		SSLMode:     cfg.DBSSLMode,
		MaxConns:    cfg.DBMaxConns,
		IdleTimeout: cfg.DBIdleTimeout,
	})
	if err != nil {
		zapLogger.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer dbPool.Close()
	zapLogger.Info("Connected to PostgreSQL")

	// Schema migrations
	migrator := migration.NewMigrator(migration.Config{
		MigrationsPath: ".",
		MigrationsFS:   migrations.FS,
	}, dbPool)
	if err := migrator.Up(context.Background()); err != nil {
		zapLogger.Fatal("Failed to apply migrations", zap.Error(err))
	}

	// Redis
	redisClient := redis.NewClient(&redis.Options{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
		DB:       cfg.RedisDB,
	})
	if err := redisClient.Ping(context.Background()).Err(); err != nil {
		zapLogger.Fatal("Failed to connect to Redis", zap.Error(err))
	}
	defer redisClient.Close()
	zapLogger.Info("Connected to Redis", zap.String("addr", cfg.RedisAddr))

	// RabbitMQ
	rabbitConn, err := connectRabbitMQ(cfg.RabbitMQURL, zapLogger)
	if err != nil {
		zapLogger.Fatal("Failed to connect to RabbitMQ", zap.Error(err))
	}
	defer rabbitConn.Close()
	zapLogger.Info("Connected to RabbitMQ")

	analyticsPublisher, err := messaging.NewRabbitMQAnalyticsPublisher(rabbitConn, cfg.AnalyticsQueue, zapLogger)
	if err != nil {
		zapLogger.Fatal("Failed to create analytics publisher", zap.Error(err))
	}

	// Quest catalog
	catalogBytes, err := os.ReadFile(cfg.QuestCatalogPath)
	if err != nil {
		zapLogger.Fatal("Failed to read quest catalog", zap.String("path", cfg.QuestCatalogPath), zap.Error(err))
	}
	catalog, err := quest.LoadCatalog(catalogBytes, zapLogger)
	if err != nil {
		zapLogger.Fatal("Failed to load quest catalog", zap.Error(err))
	}

	// Repositories
	userRepo := repository.NewPgUserRepository(dbPool, zapLogger)
	progressRepo := repository.NewPgProgressRepository(dbPool, zapLogger)
	threatRepo := repository.NewPgThreatRepository(dbPool, zapLogger)
	reportRepo := repository.NewPgReportRepository(dbPool, zapLogger)
	videoRepo := repository.NewPgVideoRepository(dbPool, zapLogger)

	// Services
	aiClient := service.NewOpenAIClient(service.AIConfig{
		APIKey:          cfg.AIAPIKey,
		BaseURL:         cfg.AIBaseURL,
		Model:           cfg.AIModel,
		MaxPromptTokens: cfg.AIMaxPromptTokens,
		MaxTokens:       cfg.AIMaxTokens,
	}, zapLogger)

	progressService := service.NewProgressService(progressRepo, zapLogger)
	questService := service.NewQuestService(catalog, quest.NewSessionStore(), progressService, analyticsPublisher, zapLogger)
	authService := service.NewAuthService(userRepo, cfg.JWTSecret, cfg.AccessTokenTTL, zapLogger)
	threatService := service.NewThreatService(threatRepo, zapLogger)
	reportService := service.NewReportService(reportRepo, zapLogger)
	videoService := service.NewVideoService(aiClient, videoRepo, zapLogger)
	scannerService := service.NewScannerService(aiClient, zapLogger)
	tipService := service.NewTipService(aiClient, userRepo, redisClient, zapLogger)

	verifier, err := authutils.NewJWTVerifier(cfg.JWTSecret, zapLogger)
	if err != nil {
		zapLogger.Fatal("Failed to create JWT verifier", zap.Error(err))
	}

	h := handler.NewHandler(handler.Deps{
		Auth:     authService,
		Quests:   questService,
		Progress: progressService,
		Threats:  threatService,
		Reports:  reportService,
		Videos:   videoService,
		Scanner:  scannerService,
		Tips:     tipService,
		Verifier: verifier,
		Redis:    redisClient,
		RateLimit: handler.RateLimitConfig{
			ScanLimit:    cfg.ScanRateLimit,
			ScanWindow:   cfg.ScanRateWindow,
			ReportLimit:  cfg.ReportRateLimit,
			ReportWindow: cfg.ReportRateWindow,
		},
	}, zapLogger)

	// HTTP server (gin)
	gin.SetMode(gin.ReleaseMode)
	router := gin.New()
	router.RedirectTrailingSlash = true
	router.Use(middleware.ZapLogging(zapLogger))
	router.Use(gin.Recovery())

	corsConfig := cors.DefaultConfig()
	corsConfig.AllowOrigins = []string{"http://localhost:3000"}
	corsConfig.AllowMethods = []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"}
	corsConfig.AllowHeaders = []string{"Origin", "Content-Length", "Content-Type", "Authorization"}
	corsConfig.AllowCredentials = true
	corsConfig.MaxAge = 12 * time.Hour
	router.Use(cors.New(corsConfig))

	healthHandler := func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	}
	router.GET("/health", healthHandler)
	router.HEAD("/health", healthHandler)

	h.RegisterRoutes(router)

	p := ginprometheus.NewPrometheus("gin")
	p.Use(router)

	srv := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		zapLogger.Info("HTTP server listening", zap.String("port", cfg.Port))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			zapLogger.Fatal("HTTP server listen error", zap.Error(err))
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	zapLogger.Info("Shutdown signal received, starting graceful shutdown...")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		zapLogger.Error("Error during HTTP server shutdown", zap.Error(err))
	}

	zapLogger.Info("Sentinel Server stopped")
}

// connectRabbitMQ dials the broker with a few retries so the server survives
// broker startup races in compose environments.
func connectRabbitMQ(url string, logger *zap.Logger) (*amqp.Connection, error) {
	var conn *amqp.Connection
	var err error
	maxRetries := 5
	retryDelay := 5 * time.Second
	for i := 0; i < maxRetries; i++ {
		conn, err = amqp.Dial(url)
		if err == nil {
			return conn, nil
		}
		logger.Warn("Failed to connect to RabbitMQ",
			zap.Int("attempt", i+1),
			zap.Int("max_attempts", maxRetries),
			zap.Duration("retry_delay", retryDelay),
			zap.Error(err),
		)
		time.Sleep(retryDelay)
	}
	return nil, err
}
