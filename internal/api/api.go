// Package api exposes the MyFishingDiary services as a REST/JSON API.
package api

import (
	"fmt"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/mmynk/myfishingdiary/internal/auth"
	"github.com/mmynk/myfishingdiary/internal/middleware"
	"github.com/mmynk/myfishingdiary/internal/service"
)

// Services are the application services the handlers delegate to.
type Services struct {
	Trips  *service.TripService
	Groups *service.GroupService
	Auth   *service.AuthService
	Seed   *service.SeedService
}

// Options configure the router.
type Options struct {
	JWT    *auth.JWTManager
	Logger *slog.Logger

	// Registry receives the HTTP metrics and is served on /metrics.
	// A fresh registry is used when nil.
	Registry *prometheus.Registry

	RateLimit          middleware.RateLimitConfig
	CORSAllowedOrigins []string

	// SeedEndpoints exposes POST and DELETE /api/db.
	SeedEndpoints bool

	// StaticPath is the SPA build directory. Empty disables static hosting.
	StaticPath string
}

// Handler serves the REST endpoints.
type Handler struct {
	trips  *service.TripService
	groups *service.GroupService
	auth   *service.AuthService
	seed   *service.SeedService
	logger *slog.Logger
}

// NewHandler creates a Handler.
func NewHandler(svc Services, logger *slog.Logger) *Handler {
	if logger == nil {
		logger = slog.Default()
	}
	return &Handler{
		trips:  svc.Trips,
		groups: svc.Groups,
		auth:   svc.Auth,
		seed:   svc.Seed,
		logger: logger,
	}
}

// NewRouter builds the complete HTTP handler: middleware chain, API routes,
// OpenAPI document, metrics and the static SPA.
func NewRouter(svc Services, opts Options) (http.Handler, error) {
	if opts.JWT == nil {
		return nil, fmt.Errorf("api: JWT manager is required")
	}
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}
	if opts.Registry == nil {
		opts.Registry = prometheus.NewRegistry()
	}
	if opts.RateLimit.RequestsPerSecond <= 0 {
		opts.RateLimit = middleware.RateLimitConfig{RequestsPerSecond: 20, Burst: 40}
	}
	if len(opts.CORSAllowedOrigins) == 0 {
		opts.CORSAllowedOrigins = []string{"*"}
	}

	spec, err := LoadSpec()
	if err != nil {
		return nil, err
	}
	specJSON, err := spec.MarshalJSON()
	if err != nil {
		return nil, fmt.Errorf("failed to encode OpenAPI document: %w", err)
	}

	h := NewHandler(svc, opts.Logger)
	metrics := middleware.NewMetrics(opts.Registry)

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RequestLogger(opts.Logger))
	r.Use(chimw.Recoverer)
	r.Use(metrics.Handler)
	r.Use(middleware.SecurityHeaders)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: opts.CORSAllowedOrigins,
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodOptions},
		AllowedHeaders: []string{"Accept", "Authorization", "Content-Type", "X-Request-ID"},
		ExposedHeaders: []string{"X-Request-ID", "Retry-After"},
		MaxAge:         300,
	}))

	r.Handle("/metrics", promhttp.HandlerFor(opts.Registry, promhttp.HandlerOpts{}))

	r.Route("/api", func(r chi.Router) {
		r.NotFound(func(w http.ResponseWriter, r *http.Request) {
			middleware.WriteError(w, http.StatusNotFound, "Not found.")
		})
		r.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
			middleware.WriteError(w, http.StatusMethodNotAllowed, "Method not allowed.")
		})

		r.Get("/swagger.json", func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Content-Type", "application/json")
			_, _ = w.Write(specJSON)
		})
		r.Get("/docs", serveDocs)

		r.Group(func(r chi.Router) {
			r.Use(middleware.NewRateLimiter(opts.RateLimit).Handler)
			h.mountPublic(r, opts.SeedEndpoints)

			r.Group(func(r chi.Router) {
				r.Use(middleware.RequireAuth(opts.JWT))
				h.mountProtected(r)
			})
		})
	})

	if opts.StaticPath != "" {
		static, err := newSPAHandler(opts.StaticPath)
		if err != nil {
			return nil, err
		}
		r.Get("/*", static)
		opts.Logger.Info("Serving static files", "path", opts.StaticPath)
	}

	return r, nil
}

// mountPublic registers the routes that need no token.
func (h *Handler) mountPublic(r chi.Router, seedEndpoints bool) {
	r.Post("/register", h.Register)
	r.Post("/login", h.Login)

	r.Get("/trips", h.ListTrips)
	r.Get("/trips-paginate", h.ListTripsPage)
	r.Get("/trips/distance", h.NearTrips)
	r.Get("/trips/address", h.NearAddress)
	r.Get("/trips/{tripId}", h.GetTrip)
	r.Get("/trips/{tripId}/fish", h.CatchSummary)
	r.Get("/trips/{tripId}/fish/{fishId}", h.GetFish)
	r.Get("/trips/{tripId}/comments/{commentId}", h.GetComment)

	r.Get("/fishing-group", h.ListGroups)

	if seedEndpoints {
		r.Post("/db", h.SeedDB)
		r.Delete("/db", h.DropDB)
	}
}

// mountProtected registers the routes that require a bearer token.
func (h *Handler) mountProtected(r chi.Router) {
	r.Post("/trips", h.CreateTrip)
	r.Put("/trips/{tripId}", h.UpdateTrip)
	r.Delete("/trips/{tripId}", h.DeleteTrip)

	r.Post("/trips/{tripId}/fish", h.AddFish)
	r.Put("/trips/{tripId}/fish/{fishId}", h.UpdateFish)
	r.Delete("/trips/{tripId}/fish/{fishId}", h.DeleteFish)

	r.Post("/trips/{tripId}/comments", h.AddComment)
	r.Put("/trips/{tripId}/comments/{commentId}", h.UpdateComment)
	r.Delete("/trips/{tripId}/comments/{commentId}", h.DeleteComment)

	r.Post("/fishing-group", h.CreateGroup)
	r.Put("/fishing-group/{fishingGroupId}", h.UpdateGroup)
	r.Put("/fishing-group/{fishingGroupId}/users", h.AddGroupUsers)
	r.Put("/fishing-group/{fishingGroupId}/users-remove", h.RemoveGroupUsers)
	r.Delete("/fishing-group/{fishingGroupId}", h.DeleteGroup)
}
