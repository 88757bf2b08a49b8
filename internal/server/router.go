package server

import (
	"net/http"
	"time"

	"github.com/avelichko/searchcore/internal/ratelimit"
	"github.com/avelichko/searchcore/pkg/health"
	"github.com/avelichko/searchcore/pkg/metrics"
	"github.com/avelichko/searchcore/pkg/middleware"
)

// RouterConfig holds the router-level settings.
type RouterConfig struct {
	RequestTimeout time.Duration
}

// NewRouter builds the full HTTP handler with all routes and middleware.
//
// Route table:
//
//	POST   /api/v1/documents                  → add document
//	GET    /api/v1/search                     → ranked query
//	GET    /api/v1/documents/{id}/match       → match explanation
//	GET    /api/v1/documents/{id}/frequencies → word frequencies
//	DELETE /api/v1/documents/{id}             → remove document
//	POST   /api/v1/documents/deduplicate      → remove duplicates
//	GET    /api/v1/stats                      → counters
//	GET    /health/live, /health/ready        → probes
//
// Middleware chain (outermost first): RequestID → Metrics → RateLimit →
// Timeout → handler. limiter may be nil when rate limiting is disabled.
func NewRouter(h *Handler, checker *health.Checker, m *metrics.Metrics, limiter *ratelimit.Limiter, cfg RouterConfig) http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("POST /api/v1/documents", h.AddDocument)
	mux.HandleFunc("GET /api/v1/search", h.Search)
	mux.HandleFunc("GET /api/v1/documents/{id}/match", h.MatchDocument)
	mux.HandleFunc("GET /api/v1/documents/{id}/frequencies", h.WordFrequencies)
	mux.HandleFunc("DELETE /api/v1/documents/{id}", h.RemoveDocument)
	mux.HandleFunc("POST /api/v1/documents/deduplicate", h.Deduplicate)
	mux.HandleFunc("GET /api/v1/stats", h.Stats)

	mux.HandleFunc("GET /health/live", checker.LiveHandler())
	mux.HandleFunc("GET /health/ready", checker.ReadyHandler())

	var chain http.Handler = mux
	chain = middleware.Timeout(cfg.RequestTimeout)(chain)
	if limiter != nil {
		chain = rateLimit(limiter)(chain)
	}
	chain = middleware.Metrics(m)(chain)
	chain = middleware.RequestID(chain)
	return chain
}
