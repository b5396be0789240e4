package cmd

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"knowledge-assistant/internal/assistant"
	"knowledge-assistant/internal/wire"
	"knowledge-assistant/pkg/database"
	"knowledge-assistant/pkg/mailer"
	"knowledge-assistant/pkg/ratelimit"

	"github.com/go-chi/chi/v5"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

const shutdownTimeout = 15 * time.Second

var autoMigrate bool

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP API server",
	RunE:  runServe,
}

func init() {
	serveCmd.Flags().BoolVar(&autoMigrate, "migrate", true, "apply pending migrations before serving")
}

func runServe(cmd *cobra.Command, _ []string) error {
	rt, err := bootstrap()
	if err != nil {
		return err
	}
	defer rt.close()

	config, logger := rt.config, rt.logger
	logger.Info("Starting application",
		zap.String("app", config.App.Name),
		zap.String("port", config.App.Port),
		zap.Bool("debug", config.App.Debug),
	)

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if autoMigrate {
		if err := database.Migrate(ctx, rt.db); err != nil {
			logger.Error("Failed to migrate database", zap.Error(err))
			return err
		}
	}

	// Mail dispatcher
	dispatcher := mailer.NewDispatcher(
		mailer.NewSender(config.Email, logger),
		mailer.DispatcherConfig{Workers: config.Email.Workers, QueueSize: config.Email.QueueSize},
		logger,
	)
	dispatcher.Start()
	defer dispatcher.Stop()

	// OTP send limiter (Redis when configured)
	limiter, closeLimiter, err := ratelimit.New(ctx, config.Redis, logger)
	if err != nil {
		logger.Warn("Redis unavailable, OTP sends are not throttled", zap.Error(err))
		limiter, closeLimiter = ratelimit.Noop{}, func() error { return nil }
	}
	defer func() { _ = closeLimiter() }()

	// AI gateway; without a key it answers in demo mode
	var provider assistant.Provider
	if config.AI.APIKey != "" {
		gemini, err := assistant.NewGeminiProvider(ctx, config.AI.APIKey, config.AI.Model)
		if err != nil {
			logger.Error("Failed to create Gemini client", zap.Error(err))
			return err
		}
		defer func() { _ = gemini.Close() }()
		provider = gemini
	} else {
		logger.Warn("GEMINI_API_KEY not set, assistant runs in demo mode")
	}
	gateway := assistant.NewGateway(config.AI.APIKey, provider, logger)

	// Wire all dependencies
	app := wire.Wiring(rt.repo, config, logger, wire.Infra{
		Mail:    dispatcher,
		Limiter: limiter,
		Gateway: gateway,
	})

	go cleanSessions(ctx, rt, logger)

	return APIServer(ctx, app.Router, config.App.Port, logger)
}

// APIServer serves route until ctx is cancelled, then shuts down gracefully.
func APIServer(ctx context.Context, route *chi.Mux, port string, logger *zap.Logger) error {
	srv := &http.Server{
		Addr:              fmt.Sprintf(":%s", port),
		Handler:           route,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("Starting HTTP server", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			logger.Error("Server error", zap.Error(err))
		}
		return err
	case <-ctx.Done():
	}

	logger.Info("Shutting down HTTP server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}

// cleanSessions prunes expired sessions once an hour.
func cleanSessions(ctx context.Context, rt *runtime, logger *zap.Logger) {
	ticker := time.NewTicker(time.Hour)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			n, err := rt.repo.Session.CleanExpiredSessions(ctx)
			if err != nil {
				logger.Warn("Failed to clean sessions", zap.Error(err))
				continue
			}
			logger.Info("Expired sessions cleaned", zap.Int64("count", n))
		}
	}
}
