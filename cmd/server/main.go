package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/Stewz00/chat-auth-service/internal/audit"
	"github.com/Stewz00/chat-auth-service/internal/config"
	"github.com/Stewz00/chat-auth-service/internal/database"
	"github.com/Stewz00/chat-auth-service/internal/handler"
	"github.com/Stewz00/chat-auth-service/internal/hasher"
	"github.com/Stewz00/chat-auth-service/internal/logging"
	"github.com/Stewz00/chat-auth-service/internal/metrics"
	"github.com/Stewz00/chat-auth-service/internal/repository"
	"github.com/Stewz00/chat-auth-service/internal/server"
	"github.com/Stewz00/chat-auth-service/internal/service"
	"github.com/Stewz00/chat-auth-service/internal/validation"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/sirupsen/logrus"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		logrus.WithError(err).Fatal("failed to load configuration")
	}

	logger := logging.New(cfg.AppName, cfg.AppEnv)

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	m := metrics.New(reg)

	// Audit trail: always logged, also persisted when a database is configured
	recorders := audit.Multi{audit.NewLogRecorder(logger)}
	if cfg.DbURL != "" {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		db, err := database.New(ctx, cfg.DbURL, database.DefaultPoolSize)
		if err != nil {
			cancel()
			logger.WithError(err).Fatal("failed to connect to database")
		}
		defer db.Close()

		pg := audit.NewPostgresRecorder(db.Pool, logger)
		if err := pg.EnsureSchema(ctx); err != nil {
			cancel()
			logger.WithError(err).Fatal("failed to prepare audit schema")
		}
		cancel()
		recorders = append(recorders, pg)
		logger.Info("postgres audit sink enabled")
	}

	// Initialize stores, services, and handlers
	passwordHasher := hasher.NewBcryptHasher(cfg.BcryptCost)
	logger.WithField("bcrypt_cost", passwordHasher.Cost()).Info("password hasher ready")
	userRepo := repository.NewUserRepository(passwordHasher)
	sessionRepo := repository.NewSessionRepository(cfg.SessionTTL)
	attemptTracker := repository.NewAttemptTracker(cfg.LoginAttemptWindow, cfg.LoginMaxAttempts)
	m.TrackActiveSessions(sessionRepo.CountSessions)

	authService := service.NewAuthService(userRepo, sessionRepo, attemptTracker, passwordHasher,
		service.WithLogger(logger),
		service.WithRecorder(recorders),
		service.WithMetrics(m),
	)
	v := validation.New()

	r := server.NewRouter(server.Deps{
		AuthService:     authService,
		AuthHandler:     handler.NewAuthHandler(authService, v, logger),
		ChatHandler:     handler.NewChatHandler(handler.EchoResponder{}, v, logger),
		Logger:          logger,
		Metrics:         m,
		Gatherer:        reg,
		IPRateLimit:     cfg.IPRateLimit,
		AuthIPRateLimit: cfg.AuthIPRateLimit,
		AllowedOrigins:  cfg.CORSAllowedOrigins,
	})

	// Create server with timeouts
	srv := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      r,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Start server in a goroutine
	go func() {
		logger.WithFields(logrus.Fields{"port": cfg.Port, "env": cfg.AppEnv}).Info("server starting")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.WithError(err).Fatal("server failed to start")
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("server is shutting down")
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.WithError(err).Error("server forced to shutdown")
		return
	}

	logger.Info("server exited properly")
}
