package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"peerprep/interview/internal/config"
	"peerprep/interview/internal/handlers"
	"peerprep/interview/internal/jobs"
	"peerprep/interview/internal/llm"
	_ "peerprep/interview/internal/llm/gemini"
	"peerprep/interview/internal/memory"
	"peerprep/interview/internal/metrics"
	"peerprep/interview/internal/models"
	questionsmongo "peerprep/interview/internal/questions/mongo"
	"peerprep/interview/internal/repositories"
	"peerprep/interview/internal/routers"
	"peerprep/interview/internal/session"
	"peerprep/interview/internal/speech"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

func registerRoutes(router *chi.Mux, sessionHandler *handlers.SessionHandler, speechHandler *handlers.SpeechHandler, healthHandler *handlers.HealthHandler) {
	routers.HealthRoutes(router, healthHandler)
	routers.SessionRoutes(router, sessionHandler)
	routers.SpeechRoutes(router, speechHandler)
}

// Helper functions for environment variables
func getEnv(key, defaultVal string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return defaultVal
}

// initDatabase initializes the PostgreSQL database connection
func initDatabase() (*gorm.DB, error) {
	host := getEnv("POSTGRES_HOST", "localhost")
	user := getEnv("POSTGRES_USER", "postgres")
	password := getEnv("POSTGRES_PASSWORD", "postgres")
	dbname := getEnv("POSTGRES_DB", "postgres")
	port := getEnv("POSTGRES_PORT", "5432")
	sslmode := getEnv("POSTGRES_SSLMODE", "disable")

	dsn := fmt.Sprintf("host=%s user=%s password=%s dbname=%s port=%s sslmode=%s",
		host, user, password, dbname, port, sslmode)

	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	if err := db.AutoMigrate(&models.InterviewReport{}, &models.CreditAccount{}); err != nil {
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}

	return db, nil
}

func main() {
	logger, _ := zap.NewProduction()
	defer logger.Sync()

	cfg, err := config.LoadConfig()
	if err != nil {
		logger.Fatal("Failed to load configuration", zap.Error(err))
	}

	logger.Info("Configuration loaded",
		zap.String("provider", cfg.Provider))

	// LLM oracle based on configuration
	oracle, err := llm.NewProvider(cfg.Provider)
	if err != nil {
		logger.Fatal("Failed to initialize LLM oracle", zap.Error(err))
	}

	// conversation memory
	rdb := redis.NewClient(&redis.Options{Addr: cfg.RedisAddr})
	memoryTTL := time.Duration(cfg.MemoryTTLDays) * 24 * time.Hour
	memoryStore := memory.NewRedisStore(rdb, memoryTTL)

	// question pool
	mongoClient, err := questionsmongo.NewClient(context.Background(), cfg.MongoURI)
	if err != nil {
		logger.Fatal("Failed to connect to question pool", zap.Error(err))
	}
	questionRepo, err := questionsmongo.NewQuestionRepo(mongoClient)
	if err != nil {
		logger.Fatal("Failed to initialize question repository", zap.Error(err))
	}

	// durable storage for reports and credits
	db, err := initDatabase()
	if err != nil {
		logger.Fatal("Failed to initialize database", zap.Error(err))
	}
	reportRepo := &repositories.ReportRepository{DB: db}
	creditRepo := &repositories.CreditRepository{DB: db}

	engine := session.NewEngine(
		session.NewStore(),
		oracle,
		memoryStore,
		questionRepo,
		reportRepo,
		creditRepo,
		logger,
	)

	sessionHandler := handlers.NewSessionHandler(engine, reportRepo, logger)
	speechHandler := handlers.NewSpeechHandler(speech.NewClient(logger), logger)
	healthHandler := handlers.NewHealthHandler(oracle, rdb, db, cfg)

	// scheduled export of completed reports
	exporterConfig := &jobs.ExporterConfig{
		Schedule:  getEnv("REPORT_EXPORT_SCHEDULE", "0 2 * * *"),
		ExportDir: getEnv("REPORT_EXPORT_DIR", "./exports"),
		Enabled:   getEnv("REPORT_EXPORT_ENABLED", "false") == "true",
	}
	exporterJob := jobs.NewReportExporterJob(reportRepo, exporterConfig, logger)
	if err := exporterJob.Start(); err != nil {
		logger.Error("Failed to start report exporter job", zap.Error(err))
	}

	router := chi.NewRouter()

	// cors middleware
	router.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"http://localhost:5173", "https://d1z9c2graxigrz.cloudfront.net"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Content-Type", "Authorization"},
		AllowCredentials: true,
	}))

	router.Use(middleware.RequestID, middleware.RealIP, middleware.Logger, middleware.Recoverer, middleware.Timeout(60*time.Second))
	router.Use(metrics.Middleware("interview"))

	registerRoutes(router, sessionHandler, speechHandler, healthHandler)

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}
	serverAddr := ":" + port

	// http server with timeouts
	server := &http.Server{
		Addr:         serverAddr,
		Handler:      router,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 90 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// starting server in a goroutine
	go func() {
		logger.Info("Interview service starting", zap.String("addr", serverAddr))
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("failed to start server", zap.Error(err))
		}
	}()

	// wait for interrupt signal to gracefully shutdown the server
	shutdownChan := make(chan os.Signal, 1)
	signal.Notify(shutdownChan, syscall.SIGINT, syscall.SIGTERM)
	<-shutdownChan

	logger.Info("Interview service shutting down...")

	exporterJob.Stop()

	// graceful shutdown with timeout
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		logger.Fatal("server forced to shutdown", zap.Error(err))
	}

	if err := rdb.Close(); err != nil {
		logger.Warn("failed to close redis client", zap.Error(err))
	}

	logger.Info("Interview service exited")
}
