package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"gorm.io/gorm"

	"github.com/statuspulse/statuspulse/internal/cache"
	"github.com/statuspulse/statuspulse/internal/config"
	"github.com/statuspulse/statuspulse/internal/status"
	"github.com/statuspulse/statuspulse/internal/websocket"
)

// NewRouter creates a new HTTP router
func NewRouter(cfg *config.Config, db *gorm.DB, engine *status.Engine, hub *websocket.Hub) http.Handler {
	r := chi.NewRouter()

	// Middleware
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Compress(5))
	r.Use(SecurityHeadersMiddleware(cfg))

	// CORS
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   cfg.CORSOrigins,
		AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		ExposedHeaders:   []string{"Link"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	readLimiter := NewRateLimiter(20, 40)
	readLimiter.CleanupOldLimiters()
	ingestLimiter := NewRateLimiter(100, 200)
	ingestLimiter.CleanupOldLimiters()

	snapshots := cache.New(cfg.Engine.SnapshotCacheTTL)

	// API routes
	r.Route("/api", func(r chi.Router) {
		r.Group(func(r chi.Router) {
			r.Use(RateLimitMiddleware(readLimiter))

			// Status query surface
			r.Get("/status", HandleGetStatus(engine, snapshots))
			r.Get("/history", HandleGetHistory(db))
			r.Get("/monitors/{id}/series", HandleGetSeries(engine))

			// Reference data for filter dropdowns
			r.Get("/monitors", HandleGetMonitors(db))
			r.Get("/regions", HandleGetRegions(db))
			r.Get("/datacenters", HandleGetDatacenters(db))
		})

		// Agent ingest
		r.Group(func(r chi.Router) {
			r.Use(IngestRateLimitMiddleware(ingestLimiter))
			r.Post("/heartbeats", HandleIngestHeartbeat(db, hub))
		})
	})

	// Badge endpoints (no rate limit, cached upstream by shields proxies)
	r.Get("/api/badge/{id}/status", HandleStatusBadge(engine))

	// Prometheus metrics endpoint
	r.Get("/metrics", HandlePrometheusMetrics(engine))

	// WebSocket endpoint
	r.Get("/ws", hub.HandleWebSocket)

	// Health check
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("OK"))
	})

	return r
}
