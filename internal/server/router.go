// Package server assembles the HTTP router.
package server

import (
	"net/http"

	"github.com/Stewz00/chat-auth-service/internal/handler"
	"github.com/Stewz00/chat-auth-service/internal/logging"
	"github.com/Stewz00/chat-auth-service/internal/metrics"
	"github.com/Stewz00/chat-auth-service/internal/middleware"
	"github.com/Stewz00/chat-auth-service/internal/service"
	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/sirupsen/logrus"
)

// Deps are the collaborators the router wires together
type Deps struct {
	AuthService *service.AuthService
	AuthHandler *handler.AuthHandler
	ChatHandler *handler.ChatHandler
	Logger      *logrus.Logger
	Metrics     *metrics.Metrics
	// Gatherer backs /metrics; the route is omitted when nil
	Gatherer    prometheus.Gatherer

	IPRateLimit     int
	AuthIPRateLimit int
	AllowedOrigins  []string
}

func NewRouter(d Deps) *chi.Mux {
	logger := d.Logger
	if logger == nil {
		logger = logging.Discard()
	}
	origins := d.AllowedOrigins
	if len(origins) == 0 {
		origins = []string{"http://localhost:*"}
	}

	r := chi.NewRouter()

	// Global middleware
	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(middleware.RequestLogger(logger, d.Metrics))
	r.Use(chimiddleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   origins,
		AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-Request-ID"},
		ExposedHeaders:   []string{"X-Request-ID", "X-RateLimit-Limit", "X-RateLimit-Remaining", "X-RateLimit-Reset"},
		AllowCredentials: true,
		MaxAge:           300,
	}))
	r.Use(middleware.ClientInfo)
	r.Use(middleware.RateLimiter(d.IPRateLimit))

	// Health check endpoint
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("OK"))
	})
	if d.Gatherer != nil {
		r.Handle("/metrics", promhttp.HandlerFor(d.Gatherer, promhttp.HandlerOpts{}))
	}

	// Auth routes with strict rate limiting
	r.Group(func(r chi.Router) {
		r.Use(middleware.StrictRateLimiter(d.AuthIPRateLimit))
		r.Post("/register", d.AuthHandler.Register)
		r.Post("/login", d.AuthHandler.Login)
	})

	r.Post("/logout", d.AuthHandler.Logout)

	// Protected routes
	r.Group(func(r chi.Router) {
		r.Use(middleware.RequireSession(d.AuthService))
		r.Get("/user", d.AuthHandler.CurrentUser)
		r.Post("/chat", d.ChatHandler.Chat)
		r.Post("/save-chat", d.ChatHandler.SaveChat)
	})

	return r
}
