package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/joho/godotenv"
	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"github.com/gabeliss/kandidly/internal/config"
	"github.com/gabeliss/kandidly/internal/handlers"
	"github.com/gabeliss/kandidly/internal/jobs"
	"github.com/gabeliss/kandidly/internal/lifecycle"
	"github.com/gabeliss/kandidly/internal/llm"
	_ "github.com/gabeliss/kandidly/internal/llm/gemini"
	"github.com/gabeliss/kandidly/internal/metrics"
	"github.com/gabeliss/kandidly/internal/models"
	"github.com/gabeliss/kandidly/internal/notify"
	"github.com/gabeliss/kandidly/internal/prompts"
	"github.com/gabeliss/kandidly/internal/repositories"
	"github.com/gabeliss/kandidly/internal/routers"
	"github.com/gabeliss/kandidly/internal/storage"
)

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
	dbname := getEnv("POSTGRES_DB", "kandidly")
	port := getEnv("POSTGRES_PORT", "5432")
	sslmode := getEnv("POSTGRES_SSLMODE", "disable")

	dsn := fmt.Sprintf("host=%s user=%s password=%s dbname=%s port=%s sslmode=%s",
		host, user, password, dbname, port, sslmode)

	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	if err := db.AutoMigrate(&models.InterviewRecord{}, &models.Challenge{}); err != nil {
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}

	return db, nil
}

func registerRoutes(router *chi.Mux, interviewHandler *handlers.InterviewHandler, challengeHandler *handlers.ChallengeHandler, takeHandler *handlers.TakeHandler, healthHandler *handlers.HealthHandler, linkSecret string) {
	routers.HealthRoutes(router, healthHandler)
	routers.InterviewRoutes(router, interviewHandler)
	routers.ChallengeRoutes(router, challengeHandler)
	routers.TakeRoutes(router, takeHandler, linkSecret)
}

func main() {
	// .env is optional; real deployments set the environment directly
	_ = godotenv.Load()

	logger, _ := zap.NewProduction()
	defer logger.Sync()

	cfg, err := config.LoadConfig()
	if err != nil {
		logger.Fatal("Failed to load configuration", zap.Error(err))
	}

	logger.Info("Configuration loaded",
		zap.Int("send_expiry_days", cfg.SendExpiryDays),
		zap.String("sweep_schedule", cfg.SweepSchedule),
		zap.String("provider", cfg.Provider))

	db, err := initDatabase()
	if err != nil {
		logger.Fatal("Failed to initialize database", zap.Error(err))
	}

	interviewRepo := &repositories.InterviewRepository{DB: db}
	challengeRepo := &repositories.ChallengeRepository{DB: db}

	artifactStore, err := storage.NewLocalStore(cfg.ArtifactDir)
	if err != nil {
		logger.Fatal("Failed to initialize artifact store", zap.Error(err))
	}

	clock := lifecycle.SystemClock{}
	machine := lifecycle.NewMachine(interviewRepo, challengeRepo, clock, cfg.SendExpiry(), logger)

	// AI provider based on configuration; analysis endpoints are disabled
	// when the provider cannot start (e.g. missing API key)
	var evaluator *lifecycle.Evaluator
	aiProvider, err := llm.NewProvider(cfg.Provider)
	if err != nil {
		logger.Warn("AI provider unavailable, analysis disabled", zap.Error(err))
	} else {
		promptManager, err := prompts.NewPromptManager()
		if err != nil {
			logger.Fatal("Failed to initialize prompt manager", zap.Error(err))
		}
		analyzer := llm.NewSubmissionAnalyzer(aiProvider, promptManager, logger)
		evaluator = lifecycle.NewEvaluator(machine, challengeRepo, analyzer, logger)
	}

	// invitation email is optional the same way
	var mailer notify.Mailer
	if smtpMailer, err := notify.NewSMTPMailer(); err != nil {
		logger.Warn("SMTP unavailable, invitation email disabled", zap.Error(err))
	} else {
		mailer = smtpMailer
	}

	sweeper := jobs.NewExpirySweeper(interviewRepo, machine, clock, cfg.SweepSchedule, logger)
	if err := sweeper.Start(); err != nil {
		logger.Fatal("Failed to start expiry sweeper", zap.Error(err))
	}

	interviewHandler := handlers.NewInterviewHandler(interviewRepo, machine, evaluator, mailer, cfg.BaseURL, cfg.LinkSecret, logger)
	challengeHandler := handlers.NewChallengeHandler(challengeRepo, logger)
	takeHandler := handlers.NewTakeHandler(machine, challengeRepo, artifactStore, clock, logger)
	healthHandler := handlers.NewHealthHandler(db, aiProvider)

	router := chi.NewRouter()

	// cors middleware
	router.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{getEnv("CORS_ORIGIN", "http://localhost:5173")},
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Content-Type", "Authorization"},
		AllowCredentials: true,
	}))

	router.Use(chimiddleware.RequestID, chimiddleware.RealIP, chimiddleware.Recoverer, chimiddleware.Timeout(60*time.Second))
	router.Use(metrics.Middleware("interview"))

	registerRoutes(router, interviewHandler, challengeHandler, takeHandler, healthHandler, cfg.LinkSecret)

	serverAddr := ":" + cfg.Port

	// http server with timeouts
	server := &http.Server{
		Addr:         serverAddr,
		Handler:      router,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 30 * time.Second,
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

	sweeper.Stop()

	// graceful shutdown with timeout
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		logger.Fatal("server forced to shutdown", zap.Error(err))
	}

	logger.Info("Interview service exited")
}
