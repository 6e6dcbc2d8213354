package api

import (
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"

	"github.com/nikhilbhutani/braillevoice/internal/api/handlers"
	"github.com/nikhilbhutani/braillevoice/internal/api/middleware"
	"github.com/nikhilbhutani/braillevoice/internal/config"
)

// Services are the collaborators the routes need. Cache may be nil.
type Services struct {
	Processor   handlers.Processor
	Transcriber handlers.Transcriber
	Cache       handlers.Pinger
}

type Router struct {
	mux     *chi.Mux
	cfg     *config.Config
	svc     Services
	limiter *middleware.RateLimiter
}

func NewRouter(cfg *config.Config, svc Services) *Router {
	return &Router{
		mux:     chi.NewRouter(),
		cfg:     cfg,
		svc:     svc,
		limiter: middleware.NewRateLimiter(cfg.RateLimit.RPS, cfg.RateLimit.Burst),
	}
}

func (rt *Router) Setup() http.Handler {
	r := rt.mux
	maxBytes := rt.cfg.Storage.MaxUploadBytes

	page := handlers.NewPage(maxBytes)
	indexH := handlers.NewIndexHandler(rt.svc.Processor, page, maxBytes)

	// Global middleware
	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(middleware.Logging)
	r.Use(middleware.Recover(http.HandlerFunc(indexH.Internal)))

	// Health endpoints
	health := handlers.NewHealthHandler(rt.svc.Cache)
	r.Get("/health", health.Health)
	r.Get("/readyz", health.Readyz)

	r.Handle("/static/*", http.StripPrefix("/static/", noListing(http.FileServer(http.Dir(rt.cfg.Storage.StaticDir)))))

	r.Get("/", indexH.Form)
	r.With(rt.limiter.Limit).Post("/", indexH.Submit)

	apiH := handlers.NewAPIHandler(rt.svc.Processor, rt.svc.Transcriber, maxBytes)
	r.Route("/api/v1", func(r chi.Router) {
		r.Use(middleware.CORS(rt.cfg.Server.CORSOrigins))
		r.Use(rt.limiter.Limit)
		r.Post("/process", apiH.Process)
		r.Post("/braille", apiH.Braille)
	})

	return r
}

// Close releases background resources of the middleware.
func (rt *Router) Close() {
	rt.limiter.Close()
}

func noListing(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "" || strings.HasSuffix(r.URL.Path, "/") {
			http.NotFound(w, r)
			return
		}
		next.ServeHTTP(w, r)
	})
}
