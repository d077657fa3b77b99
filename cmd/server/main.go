package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"skymate-service/internal/infrastructure/config"
	"skymate-service/internal/infrastructure/persistence"
	"skymate-service/internal/interface/httpapi"
	interfaceRepo "skymate-service/internal/interface/repository"
	"skymate-service/internal/usecase"
	"skymate-service/pkg/logger"
	"skymate-service/pkg/metrics"
	"skymate-service/pkg/utils"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

func main() {
	// Create logger
	log := logger.NewLogger()
	log.Info("Starting SkyMate Service")

	// Load configuration
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatal("Failed to load config", "error", err)
	}

	// Set up context with cancellation
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Set up MongoDB connection
	log.Info("Connecting to MongoDB")
	mongoClient, db, err := persistence.NewMongoClient(ctx, cfg.MongoURI, cfg.MongoDB, cfg.MongoUser, cfg.MongoPassword)
	if err != nil {
		log.Fatal("Failed to connect to MongoDB", "error", err)
	}

	gormDB, err := gorm.Open(postgres.Open(cfg.PostgresURI), &gorm.Config{})
	if err != nil {
		log.Fatal("Failed to connect to PostgreSQL", "error", err)
	}

	// Set up repositories
	airlineRepository := interfaceRepo.NewGormAirlineRepository(gormDB)
	mongoMemory := interfaceRepo.NewMongoMemoryRepository(db)
	mem0Memory := interfaceRepo.NewMem0Repository(log)
	memoryRepo := interfaceRepo.NewDualMemoryRepository(log, mongoMemory, mem0Memory)

	// Set up usecases
	appMetrics := metrics.NewMetrics(cfg.MetricsNamespace)
	memoryParser := utils.NewMemoryParser(log)
	categorizer := usecase.NewPreferenceCategorizer()
	tagger := usecase.NewFlightTagger()
	filterEngine := usecase.NewFlightFilterEngine()
	events := usecase.NewPreferenceEvents()
	sessions := usecase.NewSessionRegistry(memoryRepo, events, log, appMetrics)
	historyParser := usecase.NewBookingHistoryParser(memoryRepo, airlineRepository, memoryParser, log, appMetrics)
	ingestor := usecase.NewChatIngestor(memoryRepo, categorizer, tagger, events, log, appMetrics)

	events.Subscribe(func(event usecase.PreferenceEvent) {
		log.Info("Preferences changed", "userId", event.UserID)
	})

	// Set up HTTP server
	mux := http.NewServeMux()
	handler := httpapi.NewHandler(memoryRepo, sessions, categorizer, tagger, filterEngine, historyParser, ingestor, log)
	handler.Register(mux)

	mux.Handle("/metrics", promhttp.Handler())
	mux.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("Healthy"))
	})

	server := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      mux,
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
	}

	// Start HTTP server in a goroutine
	go func() {
		log.Info("Starting HTTP server", "port", cfg.Port)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("HTTP server error", "error", err)
		}
	}()

	// Wait for interrupt signal
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	sig := <-sigChan
	log.Info("Received signal", "signal", sig)

	// Graceful shutdown
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Error("HTTP server shutdown error", "error", err)
	}

	cancel() // Cancel the context to stop all goroutines

	// Disconnect from MongoDB
	if err := mongoClient.Disconnect(context.Background()); err != nil {
		log.Error("MongoDB disconnect error", "error", err)
	}

	log.Info("SkyMate Service stopped")
}
