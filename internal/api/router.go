package api

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	httpSwagger "github.com/swaggo/http-swagger"

	"github.com/m4r13y/hawkins-ig-sub001/internal/security"

	// Import generated docs
	_ "github.com/m4r13y/hawkins-ig-sub001/docs"
)

// defaultMaxBodySize caps request bodies at 64 KiB; no form submission
// comes anywhere near it.
const defaultMaxBodySize = 64 << 10

// RouterConfig wires the handler's dependencies. Syncer may be nil when no
// CRM is configured; Limiter may be nil to disable rate limiting.
type RouterConfig struct {
	Leads         LeadStore
	Subscriptions SubscriptionStore
	Syncer        LeadSyncer
	Limiter       *security.RateLimiter
	AdminToken    string
	MaxBodySize   int64
}

// NewRouter creates a new chi router with all endpoints and middleware
func NewRouter(cfg RouterConfig) http.Handler {
	maxBody := cfg.MaxBodySize
	if maxBody <= 0 {
		maxBody = defaultMaxBodySize
	}

	h := &Handler{
		leads:         cfg.Leads,
		subscriptions: cfg.Subscriptions,
		syncer:        cfg.Syncer,
		limiter:       cfg.Limiter,
		adminToken:    cfg.AdminToken,
		maxBodySize:   maxBody,
	}

	r := chi.NewRouter()

	// Middleware
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Compress(5))
	r.Use(middleware.Timeout(60 * time.Second))
	r.Use(middleware.Heartbeat("/ping"))

	// CORS for browser form submissions and the Swagger UI
	r.Use(func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Access-Control-Allow-Origin", "*")
			w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
			w.Header().Set("Access-Control-Allow-Headers", "Accept, Authorization, Content-Type")

			if r.Method == "OPTIONS" {
				w.WriteHeader(http.StatusOK)
				return
			}

			next.ServeHTTP(w, r)
		})
	})

	// API routes
	r.Route("/api", func(r chi.Router) {
		r.Get("/health", h.handleHealth)

		r.Route("/leads", func(r chi.Router) {
			r.Post("/insurance", h.handleSubmitInsuranceLead)
			r.Post("/insurance/fast", h.handleSubmitInsuranceLeadFast)
			r.Post("/contact", h.handleSubmitContactLead)
			r.Post("/status", h.handleUpdateLeadStatus)
			r.Post("/retry-sync", h.requireAdmin(h.handleRetrySync))
			r.Get("/analytics", h.requireAdmin(h.handleAnalytics))
		})

		r.Post("/newsletter", h.handleSubscribeNewsletter)
		r.Post("/waitlist", h.handleJoinWaitlist)
	})

	// Swagger documentation
	r.Get("/swagger/*", httpSwagger.Handler(
		httpSwagger.URL("/swagger/doc.json"),
	))

	// Redirect root to swagger docs
	r.Get("/", func(w http.ResponseWriter, r *http.Request) {
		http.Redirect(w, r, "/swagger/", http.StatusFound)
	})

	return r
}
