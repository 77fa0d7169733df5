package app

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/SAP-F-2025/placement-test-service/internal/cache"
	"github.com/SAP-F-2025/placement-test-service/internal/config"
	"github.com/SAP-F-2025/placement-test-service/internal/events"
	"github.com/SAP-F-2025/placement-test-service/internal/handlers"
	"github.com/SAP-F-2025/placement-test-service/internal/middleware"
	"github.com/SAP-F-2025/placement-test-service/internal/services"
	"github.com/SAP-F-2025/placement-test-service/internal/store"
	"github.com/SAP-F-2025/placement-test-service/internal/utils"
	"github.com/SAP-F-2025/placement-test-service/internal/validator"
	"github.com/SAP-F-2025/placement-test-service/pkg"
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
)

// App is the placement test server: the results log behind the HTTP routes.
type App struct {
	Config     *config.Config
	Router     *gin.Engine
	ResultsLog *store.ResultsLog

	logger    *utils.SlogLogger
	publisher events.EventPublisher
	redis     *redis.Client
}

func NewApp(ctx context.Context, cfg *config.Config, logger *utils.SlogLogger) (*App, error) {
	resultsLog := store.NewResultsLog(cfg.ResultsFile)
	// A failed Ensure does not stop the server: Append creates the file on
	// the first submission, without a header row.
	created, err := resultsLog.Ensure()
	switch {
	case err != nil:
		logger.Error("Failed to initialize results file", "path", cfg.ResultsFile, "error", err)
	case created:
		logger.Info("Results file created with header", "path", cfg.ResultsFile)
	default:
		logger.Info("Results file already exists", "path", cfg.ResultsFile)
	}

	app := &App{
		Config:     cfg,
		ResultsLog: resultsLog,
		logger:     logger,
	}

	publisher, err := cfg.Events.CreateEventPublisher(logger.Slog())
	if err != nil {
		logger.Error("Failed to create event publisher, falling back to mock", "error", err)
		publisher = events.NewMockEventPublisher(logger.Slog())
	}
	app.publisher = publisher

	dedup := app.initDedup(ctx)

	serviceManager := services.NewServiceManager(resultsLog, publisher, dedup, validator.New(), logger.Slog())

	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.New()
	metrics := middleware.NewMetrics()
	router.Use(
		gin.Recovery(),
		utils.LoggerMiddleware(logger),
		utils.ContextLogger(logger),
		middleware.Secure(),
		metrics.Middleware(),
	)

	handlers.NewHandlerManager(serviceManager, handlers.RouterOptions{
		Metrics:          metrics,
		DownloadVerifier: middleware.NewDownloadVerifier(cfg.Download),
		AllowQueryKey:    cfg.Download.Auth == config.DownloadAuthToken,
		SubmitRateLimit:  cfg.SubmitRateLimit,
		StaticDir:        cfg.StaticDir,
	}, logger).SetupRoutes(router)
	app.Router = router

	logger.Info("Download access", "mode", cfg.Download.Auth)
	return app, nil
}

// initDedup builds the duplicate store. An unreachable Redis disables
// suppression rather than the server.
func (a *App) initDedup(ctx context.Context) services.DedupOptions {
	if !a.Config.Dedup.Enabled {
		return services.DedupOptions{}
	}

	if a.Config.Dedup.Store == config.DedupStoreMemory {
		a.logger.Info("Duplicate suppression enabled", "store", config.DedupStoreMemory,
			"window", a.Config.Dedup.Window.String())
		return services.DedupOptions{
			Cache:  cache.NewMemoryCache(),
			Window: a.Config.Dedup.Window,
		}
	}

	client, err := pkg.NewRedisClient(ctx, &a.Config.Dedup)
	if err != nil {
		a.logger.Warn("Duplicate suppression disabled", "error", err)
		return services.DedupOptions{}
	}
	a.redis = client

	a.logger.Info("Duplicate suppression enabled", "store", config.DedupStoreRedis,
		"window", a.Config.Dedup.Window.String())
	return services.DedupOptions{
		Cache:  cache.NewRedisCache(client, a.logger.Slog()),
		Window: a.Config.Dedup.Window,
	}
}

// Run serves until ctx is cancelled, then drains in-flight requests for at
// most ShutdownTimeout.
func (a *App) Run(ctx context.Context) error {
	srv := &http.Server{
		Addr:              a.Config.Addr(),
		Handler:           a.Router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	serveErr := make(chan error, 1)
	go func() {
		a.logger.Info("Server running", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- err
		}
		close(serveErr)
	}()

	select {
	case err := <-serveErr:
		a.close()
		if err != nil {
			return fmt.Errorf("listen: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	a.logger.Info("Shutting down server...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), a.Config.ShutdownTimeout)
	defer cancel()

	err := srv.Shutdown(shutdownCtx)
	a.close()
	if err != nil {
		return fmt.Errorf("server forced to shutdown: %w", err)
	}

	a.logger.Info("Server exiting")
	return nil
}

func (a *App) close() {
	if a.publisher != nil {
		if err := a.publisher.Close(); err != nil {
			a.logger.Error("Failed to close event publisher", "error", err)
		}
	}
	if a.redis != nil {
		if err := a.redis.Close(); err != nil {
			a.logger.Error("Failed to close redis client", "error", err)
		}
	}
}
