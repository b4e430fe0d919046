package routes

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/angelmondragon/artisanhub/api/controllers"
	"github.com/angelmondragon/artisanhub/api/middleware"
	"github.com/angelmondragon/artisanhub/internal/ar"
	"github.com/angelmondragon/artisanhub/internal/assets"
	"github.com/angelmondragon/artisanhub/internal/catalog"
	"github.com/angelmondragon/artisanhub/internal/inventory"
	"github.com/angelmondragon/artisanhub/internal/marketing"
	"github.com/angelmondragon/artisanhub/internal/submission"
	"github.com/angelmondragon/artisanhub/pkg/config"
	"github.com/angelmondragon/artisanhub/pkg/logger"
)

// RateLimiter counts requests per fixed window. pkg/redis.Client satisfies it.
type RateLimiter interface {
	FixedWindowAllow(ctx context.Context, scope string, limit int64, window time.Duration) (bool, int64, error)
}

// Dependencies are the services the router mounts. Leave Redis and Limiter nil
// when sessions are kept in memory.
type Dependencies struct {
	Redis    controllers.Pinger
	Limiter  RateLimiter
	Gatherer prometheus.Gatherer

	Sessions         controllers.SessionService
	StrictLoader     assets.Loader
	BestEffortLoader assets.Loader

	Catalog    catalog.Service
	Inventory  inventory.Service
	Marketing  marketing.Service
	Classifier controllers.ImageAnalyzer
	Submission submission.Service
	AR         ar.Service
}

func NewRouter(cfg *config.Config, logg *logger.Logger, deps Dependencies) http.Handler {
	r := chi.NewRouter()
	r.Use(
		middleware.Recoverer(logg),
		middleware.RequestID(logg),
		middleware.Logging(logg),
		middleware.CORS(cfg.CORS.AllowedOrigins),
	)

	generationLimit := middleware.RateLimit(
		middleware.NewRateLimitPolicy("generation", cfg.RateLimit.Window, cfg.RateLimit.GenerationLimit),
		deps.Limiter,
		logg,
	)
	analyzeLimit := middleware.RateLimit(
		middleware.NewRateLimitPolicy("analyze", cfg.RateLimit.Window, cfg.RateLimit.AnalyzeLimit),
		deps.Limiter,
		logg,
	)

	r.Route("/health", func(r chi.Router) {
		r.Get("/live", controllers.HealthLive(cfg))
		r.Get("/ready", controllers.HealthReady(cfg, logg, deps.Redis))
	})
	if deps.Gatherer != nil {
		r.Handle("/metrics", promhttp.HandlerFor(deps.Gatherer, promhttp.HandlerOpts{}))
	}

	r.Route("/api/public", func(r chi.Router) {
		r.Get("/ping", controllers.PublicPing())
	})

	r.Route("/api/v1", func(r chi.Router) {
		r.Get("/assets/{id}", controllers.AssetLoad(deps.Sessions, deps.StrictLoader, logg))

		r.Route("/products", func(r chi.Router) {
			r.Get("/", controllers.CatalogList(deps.Catalog, logg))
			r.Get("/{id}", controllers.ProductLoad(deps.Sessions, deps.BestEffortLoader, logg))
			r.Get("/{id}/youtube", controllers.CatalogYoutube(deps.Catalog, logg))
		})

		r.Route("/sessions/{sessionId}", func(r chi.Router) {
			r.Get("/", controllers.SessionGet(deps.Sessions, logg))
			r.Put("/tab", controllers.SessionSelectTab(deps.Sessions, logg))
			r.Delete("/", controllers.SessionClose(deps.Sessions, logg))
		})

		r.Route("/inventory", func(r chi.Router) {
			r.Post("/recommendation", controllers.InventoryRecommend(deps.Inventory, logg))
			r.With(generationLimit).Post("/design-ideas", controllers.InventoryDesignIdea(deps.Inventory, logg))
		})

		r.Route("/marketing", func(r chi.Router) {
			r.Get("/email-lists", controllers.MarketingEmailList(deps.Marketing, logg))
			r.Post("/email-lists", controllers.MarketingStoreEmailList(deps.Marketing, logg))
			r.Post("/send", controllers.MarketingSend(deps.Marketing, logg))
			r.Route("/{id}", func(r chi.Router) {
				r.Get("/email-images", controllers.MarketingEmailImages(deps.Marketing, logg))
				r.With(generationLimit).Get("/email-draft", controllers.MarketingEmailDraft(deps.Marketing, logg))
				r.Get("/youtube-status", controllers.MarketingYoutubeStatus(deps.Marketing, logg))
				r.Post("/upload-video", controllers.MarketingUploadVideo(deps.Marketing, logg))
				r.With(generationLimit).Post("/{kind}", controllers.MarketingGenerate(deps.Marketing, logg))
			})
		})

		r.With(analyzeLimit).Post("/classifier/analyze", controllers.ClassifierAnalyze(deps.Classifier, logg))
		r.With(generationLimit).Post("/submissions", controllers.SubmissionCreate(deps.Submission, cfg.Classifier.MaxImageBytes, logg))

		r.Route("/ar/{id}", func(r chi.Router) {
			r.With(generationLimit).Post("/", controllers.ARCreate(deps.AR, logg))
			r.Get("/", controllers.ARGet(deps.AR, logg))
		})
	})

	return r
}
