package app

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"sortserver/internal/config"
	"sortserver/internal/logger"
	"sortserver/internal/repository/sqlite"
	"sortserver/internal/routes"
	"sortserver/internal/services"
	"sortserver/internal/services/ai"
	"sortserver/internal/services/events"
	"sortserver/internal/services/prediction"
	"sortserver/internal/services/sorting"
	"sortserver/internal/services/stream"
	"sortserver/internal/services/websocket"
)

type App struct {
	config     *config.Config
	logger     *logger.Logger
	classifier *ai.ClassifierService
	db         *sqlite.DB
	publisher  *events.Publisher
	hubService *websocket.HubService
	manager    *services.Manager
}

func NewApp() (*App, error) {
	cfg := config.Load()
	log := logger.NewLogger(cfg)

	classifier, err := ai.NewClassifierService(cfg, log)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize classifier: %w", err)
	}

	db, err := sqlite.New(cfg.DatabasePath)
	if err != nil {
		return nil, fmt.Errorf("failed to open classification database: %w", err)
	}
	history := sqlite.NewClassificationRepository(db)

	publisher, err := events.NewPublisher(log)
	if err != nil {
		// Event publishing is optional; the pipeline runs without it.
		log.Warning("Kafka publisher disabled: %v", err)
		publisher = nil
	}

	hub := websocket.NewHubService(log)
	ingestor := stream.NewIngestor(cfg, log)

	manager := services.NewManager(
		classifier,
		sorting.NewMapper(cfg),
		prediction.NewStore(),
		prediction.NewCooldownGate(cfg.CooldownInterval),
		stream.NewScheduler(cfg.FrameSkip),
		ingestor,
		hub,
		history,
		publisher,
		cfg.IdentifyTimeout,
		log,
	)

	return &App{
		config:     cfg,
		logger:     log,
		classifier: classifier,
		db:         db,
		publisher:  publisher,
		hubService: hub,
		manager:    manager,
	}, nil
}

func (a *App) Run() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Start background services
	go a.hubService.Run(ctx)
	go a.manager.Run(ctx)

	router := routes.SetupRoutes(a.manager, a.config, a.logger)

	fmt.Printf("🚀 Material Identification Server\n")
	fmt.Printf("📍 URL: http://localhost:%d\n", a.config.Port)
	fmt.Printf("📷 Stream: %s\n", a.config.StreamURL)
	fmt.Printf("🤖 AI Model: %s (loaded: %v)\n", a.config.ModelPath, a.manager.ModelLoaded())

	server := &http.Server{
		Addr:    fmt.Sprintf(":%d", a.config.Port),
		Handler: router,
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- server.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		a.close()
		return err
	case <-ctx.Done():
		a.logger.Info("Shutdown signal received")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			a.logger.Error("Server shutdown failed: %v", err)
		}
		a.close()
		return nil
	}
}

// close releases long-lived resources after the flows have stopped.
func (a *App) close() {
	a.classifier.Close()
	if a.publisher != nil {
		a.publisher.Close()
	}
	if err := a.db.Close(); err != nil {
		a.logger.Error("Failed to close database: %v", err)
	}
}
