// internal/wire/wire.go
package wire

import (
	"net/http"

	"knowledge-assistant/internal/adaptor"
	"knowledge-assistant/internal/assistant"
	"knowledge-assistant/internal/data/repository"
	"knowledge-assistant/internal/usecase"
	"knowledge-assistant/pkg/middleware"
	"knowledge-assistant/pkg/ratelimit"
	"knowledge-assistant/pkg/utils"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
)

// App menyimpan semua dependencies
type App struct {
	Router  *chi.Mux
	Service *usecase.Service
}

// Infra is everything the services need besides the database: the mail
// queue, the OTP send limiter and the AI gateway.
type Infra struct {
	Mail    usecase.EmailQueue
	Limiter ratelimit.Limiter
	Gateway *assistant.Gateway
}

// Wiring menginisialisasi semua dependencies
func Wiring(repo *repository.Repository, config *utils.Config, logger *zap.Logger, infra Infra) *App {
	// Initialize services dan handlers
	service := usecase.NewService(usecase.Deps{
		Repo:    repo,
		Config:  config,
		Mail:    infra.Mail,
		Limiter: infra.Limiter,
		Gateway: infra.Gateway,
		Log:     logger,
	})
	handler := adaptor.NewHandler(service, logger)

	// Setup router
	router := setupRouter(handler, repo, config, logger)

	return &App{
		Router:  router,
		Service: service,
	}
}

// setupRouter konfigurasi Chi router
func setupRouter(
	handler *adaptor.Handler,
	repo *repository.Repository,
	config *utils.Config,
	logger *zap.Logger,
) *chi.Mux {
	r := chi.NewRouter()

	// Apply global middleware
	r.Use(middleware.Logger(logger))
	r.Use(middleware.Recover(logger))
	r.Use(middleware.CORS())
	r.Use(middleware.Metrics())

	// Apply routes
	wireAuth(r, handler.Auth, repo, logger)
	wireUser(r, handler.User, handler.Notification, repo, logger)
	wireArticle(r, handler.Article, repo, logger)
	wireChat(r, handler.Chat, repo, logger)
	wireEnquiry(r, handler.Enquiry, repo, logger)

	// Health check endpoint
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		utils.ResponseSuccess(w, "OK", map[string]string{"app": config.App.Name})
	})
	r.Handle("/metrics", promhttp.Handler())

	return r
}
