package main

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "github.com/lib/pq"

	"innoevent/config"
	"innoevent/internal/adapters/auth"
	httpdelivery "innoevent/internal/delivery/http"
	"innoevent/internal/delivery/http/controllers"
	"innoevent/internal/delivery/http/middleware"
	"innoevent/internal/observability/metrics"
	"innoevent/internal/repository/postgres"
	"innoevent/internal/services"
)

const serviceTimeout = 5 * time.Second

// @title InnoEvent API
// @version 1.0.0
// @description Event management and seat-capacity-bounded registration API
// @BasePath /
func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}

	log := config.NewLogger()
	log.Info("starting innoevent server", slog.String("environment", cfg.Environment))

	db, err := sql.Open("postgres", cfg.DBUrl)
	if err != nil {
		log.Error("failed to open database", slog.String("error", err.Error()))
		os.Exit(1)
	}
	defer db.Close()

	pingCtx, pingCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer pingCancel()
	if err := db.PingContext(pingCtx); err != nil {
		log.Error("failed to reach database", slog.String("error", err.Error()))
		os.Exit(1)
	}

	m := metrics.New()

	userRepo := postgres.NewUserRepository(db)
	eventRepo := postgres.NewEventRepository(db)
	regRepo := postgres.NewRegistrationRepository(db)

	hasher := auth.NewBcryptHasher(cfg.BcryptCost)
	tokenIssuer := auth.NewJWTIssuer(cfg.JWTSecret)
	tokenVerifier := auth.NewJWTVerifier(cfg.JWTSecret)

	userService := services.NewUserService(userRepo, hasher, tokenIssuer, cfg.TokenExpiry, log)
	eventService := services.NewEventService(eventRepo, userRepo, regRepo, log, m, serviceTimeout)
	ledgerService := services.NewLedgerService(userRepo, regRepo, log, m, postgres.IsRetryableTxError)

	userController := controllers.NewUserController(log, userService)
	authController := controllers.NewAuthController(log, userService)
	eventController := controllers.NewEventController(log, eventService)
	registrationController := controllers.NewRegistrationController(log, ledgerService)
	healthController := controllers.NewHealthController(db)

	mux := httpdelivery.NewRouter(
		userController,
		authController,
		eventController,
		registrationController,
		healthController,
		tokenVerifier,
		m,
	)

	handler := middleware.CORS(cfg.CORSAllowedOrigins,
		middleware.LoggingMiddleware(log,
			middleware.MetricsMiddleware(m, mux)))

	server := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      handler,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		log.Info("server listening", slog.String("port", cfg.Port))
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Error("server error", slog.String("error", err.Error()))
		}
	}()

	<-sigChan
	log.Info("shutdown signal received")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Error("shutdown error", slog.String("error", err.Error()))
	}
	log.Info("server stopped")
}
