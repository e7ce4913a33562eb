package http

import (
	"net/http"

	httpSwagger "github.com/swaggo/http-swagger"

	_ "innoevent/docs"
	"innoevent/internal/delivery/http/controllers"
	"innoevent/internal/delivery/http/middleware"
	"innoevent/internal/domain"
	"innoevent/internal/observability/metrics"
)

// NewRouter initializes the HTTP router with all application routes
func NewRouter(
	userController *controllers.UserController,
	authController *controllers.AuthController,
	eventController *controllers.EventController,
	registrationController *controllers.RegistrationController,
	healthController *controllers.HealthController,
	verifier domain.TokenVerifier,
	m *metrics.Metrics,
) *http.ServeMux {
	mux := http.NewServeMux()
	requireAuth := middleware.RequireAuth(verifier)

	// Users
	mux.HandleFunc("POST /api/users", userController.Create)
	mux.HandleFunc("GET /api/users", userController.List)
	mux.HandleFunc("GET /api/users/me", requireAuth(userController.GetMe))
	mux.HandleFunc("GET /api/users/{userID}", userController.Get)
	mux.HandleFunc("PUT /api/users/{userID}", userController.Update)
	mux.HandleFunc("DELETE /api/users/{userID}", userController.Delete)

	// Auth
	mux.HandleFunc("POST /api/auth/login", authController.Login)

	// Events
	mux.HandleFunc("POST /api/events", eventController.Create)
	mux.HandleFunc("GET /api/events", eventController.List)
	mux.HandleFunc("GET /api/events/{eventID}", eventController.Get)
	mux.HandleFunc("GET /api/events/user/{userID}", eventController.ListByUser)
	mux.HandleFunc("PUT /api/events/{eventID}", eventController.Update)
	mux.HandleFunc("DELETE /api/events/{eventID}", eventController.Delete)

	// Registrations
	mux.HandleFunc("POST /api/registrations", registrationController.Register)
	mux.HandleFunc("DELETE /api/registrations/{registrationID}", registrationController.Cancel)
	mux.HandleFunc("GET /api/registrations/user/{userID}", registrationController.ListForUser)
	mux.HandleFunc("GET /api/registrations/event/{eventID}", registrationController.ListForEvent)

	// Operational
	mux.HandleFunc("GET /health", healthController.Check)
	mux.Handle("GET /metrics", m.Handler())

	// Swagger
	mux.Handle("/swagger/", httpSwagger.WrapHandler)

	return mux
}
