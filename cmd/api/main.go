package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"muzza-postulaciones/config"
	_ "muzza-postulaciones/docs" // Important for Swagger
	v1 "muzza-postulaciones/internal/delivery/http/v1"
	"muzza-postulaciones/internal/domain"
	"muzza-postulaciones/internal/repository/memory"
	redisrepo "muzza-postulaciones/internal/repository/redis"
	"muzza-postulaciones/internal/usecase"
	"muzza-postulaciones/pkg/formspree"
	"muzza-postulaciones/pkg/gemini"
	"muzza-postulaciones/pkg/logger"
	"muzza-postulaciones/pkg/pixel"
	"muzza-postulaciones/pkg/redis"
	"muzza-postulaciones/pkg/security/antivirus"
	"muzza-postulaciones/pkg/validation"
)

// @title           Muzza Postulaciones API
// @version         1.0
// @description     Application form sessions for the Muzza customer service and sales position.
// @host            localhost:8080
// @BasePath        /v1
func main() {
	// 1. Load Config
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	// 2. Setup Logger
	logger.Init(cfg.LogLevel)
	logger.Log.Info("Starting muzza postulaciones", "port", cfg.Port, "cv_required", cfg.CVRequired)

	ctx, stop := context.WithCancel(context.Background())
	defer stop()

	// 3. Setup session store (Redis when configured, memory otherwise)
	ttl := time.Duration(cfg.SessionTTLMinutes) * time.Minute
	var (
		applicationRepo domain.ApplicationRepository
		healthUC        usecase.HealthUsecase
	)
	if cfg.UpstashRedisURL != "" {
		if err := redis.Initialize(redis.Config{URL: cfg.UpstashRedisURL, Password: cfg.UpstashRedisPassword}); err != nil {
			logger.Log.Warn("Redis unavailable, sessions will be kept in memory", "error", err)
		}
	}
	if client := redis.Client(); client != nil {
		defer redis.Close()
		applicationRepo = redisrepo.NewApplicationRepository(client, ttl)
		healthUC = usecase.NewHealthUsecase("redis", redis.HealthCheck)
	} else {
		applicationRepo = memory.NewApplicationRepository(ttl)
		memory.StartCleanup(ctx, applicationRepo, time.Minute)
		healthUC = usecase.NewHealthUsecase("memory", nil)
	}

	// 4. Setup external clients
	timeout := time.Duration(cfg.HTTPTimeoutSeconds) * time.Second
	geminiClient := gemini.NewClient(cfg.GeminiBaseURL, cfg.GeminiModel, cfg.GeminiAPIKey, timeout)
	formspreeClient := formspree.NewClient(cfg.SubmissionURL, timeout)

	var scanner antivirus.Scanner
	if cfg.ClamAVAddress != "" {
		clam := antivirus.NewClamAVScanner(cfg.ClamAVAddress, timeout)
		if !clam.Available(ctx) {
			logger.Log.Warn("ClamAV not reachable yet, résumé uploads will be rejected until it is", "address", cfg.ClamAVAddress)
		}
		scanner = clam
	}

	// 5. Setup UseCases
	validate := validation.New()
	questionProvider := usecase.NewQuestionProvider(geminiClient, cfg.CustomerServiceQuestions, cfg.SalesAptitudeQuestions)
	applicationUC := usecase.NewApplicationUsecase(
		applicationRepo,
		questionProvider,
		usecase.NewFormspreeSubmitter(formspreeClient),
		nil, // no server-side clipboard; the confirmation asks for a manual copy
		validate,
		usecase.ApplicationConfig{
			CVRequired:      cfg.CVRequired,
			CVMaxBytes:      cfg.CVMaxBytes,
			ContactEmail:    cfg.ContactEmail,
			ShareURL:        cfg.ShareURL,
			InFlightTimeout: 2 * timeout,
			Scanner:         scanner,
		},
	)

	// 6. Setup Router
	router := v1.NewRouter(v1.RouterDeps{
		ApplicationUC: applicationUC,
		HealthUC:      healthUC,
		Pixel:         pixel.NewLoader(cfg.MetaPixelID, logger.Log),
		Config:        cfg,
	})

	// 7. Start Server
	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Log.Error("Listen failed", "error", err)
		}
	}()

	// Graceful Shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Log.Info("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Log.Error("Server forced to shutdown", "error", err)
	}

	logger.Log.Info("Server exiting")
}
