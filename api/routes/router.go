package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/bremray/bremray-backend/api/controllers"
	"github.com/bremray/bremray-backend/api/middleware"
	"github.com/bremray/bremray-backend/internal/auth"
	"github.com/bremray/bremray-backend/internal/catalog"
	"github.com/bremray/bremray-backend/internal/contractors"
	"github.com/bremray/bremray-backend/internal/jobcards"
	"github.com/bremray/bremray-backend/internal/jobs"
	"github.com/bremray/bremray-backend/internal/photos"
	"github.com/bremray/bremray-backend/pkg/config"
	"github.com/bremray/bremray-backend/pkg/enums"
	"github.com/bremray/bremray-backend/pkg/logger"
	"github.com/bremray/bremray-backend/pkg/metrics"
	"github.com/bremray/bremray-backend/pkg/redis"
)

func NewRouter(
	cfg *config.Config,
	logg *logger.Logger,
	verifier middleware.TokenVerifier,
	redisClient *redis.Client,
	httpMetrics *metrics.HTTPMetrics,
	authService auth.Service,
	catalogService catalog.Service,
	contractorsService contractors.Service,
	jobsService jobs.Service,
	jobCardsService jobcards.Service,
	photosService photos.Service,
	readyChecks map[string]controllers.Pinger,
) http.Handler {
	r := chi.NewRouter()
	r.Use(
		middleware.Recoverer(logg),
		middleware.RequestID(logg),
		middleware.Logging(logg),
		middleware.Metrics(httpMetrics),
		middleware.CORS(),
	)

	loginPolicy := middleware.NewAuthRateLimitPolicy(
		"login",
		cfg.AuthRateLimit.LoginWindow,
		cfg.AuthRateLimit.LoginIPLimit,
		cfg.AuthRateLimit.LoginIdentifierLimit,
	)

	adminOnly := middleware.RequireRole(string(enums.UserRoleAdmin), logg)

	r.Route("/health", func(r chi.Router) {
		r.Get("/live", controllers.HealthLive(cfg))
		r.Get("/ready", controllers.HealthReady(cfg, logg, readyChecks))
	})

	r.Handle("/metrics", promhttp.Handler())

	r.Route("/api/v1", func(r chi.Router) {
		r.With(middleware.AuthRateLimit(loginPolicy, redisClient, logg)).
			Post("/auth/login", controllers.AuthLogin(authService, logg))

		r.Group(func(r chi.Router) {
			r.Use(middleware.Auth(verifier, logg))

			r.Post("/auth/refresh", controllers.AuthRefresh(authService, logg))

			r.Get("/master_items", controllers.MasterItemsIndex(catalogService, logg))
			r.Get("/templates", controllers.TemplatesIndex(catalogService, logg))

			r.Route("/job_cards", func(r chi.Router) {
				r.Get("/", controllers.JobCardsIndex(jobCardsService, logg))
				r.Get("/{id}", controllers.JobCardsShow(jobCardsService, logg))
				r.Patch("/{id}/increment_item", controllers.JobCardsIncrementItem(jobCardsService, logg))
				r.Post("/{id}/custom_entries", controllers.JobCardsAddCustomEntry(jobCardsService, logg))
				r.With(adminOnly).Post("/{id}/close", controllers.JobCardsClose(jobCardsService, logg))
				r.With(adminOnly).Post("/{id}/reopen", controllers.JobCardsReopen(jobCardsService, logg))
			})

			r.Route("/jobs", func(r chi.Router) {
				r.With(adminOnly).Post("/", controllers.JobsCreate(jobsService, logg))

				r.Route("/{jobId}/photos", func(r chi.Router) {
					r.Get("/", controllers.PhotosIndex(photosService, logg))
					r.Post("/", controllers.PhotosCreate(photosService, logg, cfg.Photos.MaxUploadMB))
					r.Get("/{id}/download", controllers.PhotosDownload(photosService, logg))
					r.With(adminOnly).Delete("/{id}", controllers.PhotosDestroy(photosService, logg))
				})
			})

			r.Route("/contractors", func(r chi.Router) {
				r.Use(adminOnly)
				r.Post("/", controllers.ContractorsCreate(contractorsService, logg))
				r.Get("/", controllers.ContractorsIndex(contractorsService, logg))
			})
		})
	})

	return r
}
