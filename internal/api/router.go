package api

import (
	"database/sql"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/medwaste/classify-be/internal/api/handlers"
	"github.com/medwaste/classify-be/internal/auth"
	"github.com/medwaste/classify-be/internal/backend"
	"github.com/medwaste/classify-be/internal/cache"
	"github.com/medwaste/classify-be/internal/classifier"
	"github.com/medwaste/classify-be/internal/services"
	"github.com/medwaste/classify-be/internal/websocket"
)

// NewRouter creates and configures a new Chi router.
func NewRouter(
	db *sql.DB,
	hub *websocket.Hub,
	notifier *backend.Notifier,
	admin auth.AdminCredential,
	userService services.UserServiceProvider,
	historyService services.HistoryServiceProvider,
	statsService services.StatsServiceProvider,
	eventService services.EventServiceProvider,
	classifierClient *classifier.Client,
	recentCache *cache.RecentCache,
	allowedOrigins []string,
) *chi.Mux {
	r := chi.NewRouter()

	// Basic middleware stack
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   allowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-CSRF-Token"},
		ExposedHeaders:   []string{"Link"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	// Initialize handlers
	userHandler := handlers.NewUserHandler(userService, admin)
	classifyHandler := handlers.NewClassifyHandler(classifierClient, historyService, eventService, recentCache, hub)
	historyHandler := handlers.NewHistoryHandler(historyService)
	statsHandler := handlers.NewStatsHandler(statsService)
	eventHandler := handlers.NewEventHandler(eventService)
	healthHandler := handlers.NewHealthHandler(db)
	wsHandler := handlers.NewWebSocketHandler(hub, userService, historyService, statsService, notifier, admin)

	r.Get("/healthz", healthHandler.Health)

	// API versioning
	r.Route("/api/v1", func(r chi.Router) {
		// Public endpoints
		r.Post("/auth/register", userHandler.Register)
		r.Post("/auth/login", userHandler.Login)
		r.Post("/auth/logout", userHandler.Logout)
		r.Get("/categories", classifyHandler.Categories)

		// WebSocket connections carry their token in the header or cookie
		// and resolve it through their own session manager.
		r.Get("/ws", wsHandler.Serve)

		// Authenticated endpoints
		r.Group(func(r chi.Router) {
			r.Use(auth.JWTMiddleware())

			r.Get("/auth/me", userHandler.GetMe)
			r.Delete("/users/{id}", userHandler.Delete)
			r.Post("/classify", classifyHandler.Classify)
			r.Get("/recent", classifyHandler.Recent)

			r.Route("/history", func(r chi.Router) {
				r.Get("/", historyHandler.List)
				r.Delete("/", historyHandler.Clear)
				r.Delete("/{id}", historyHandler.Delete)
			})

			// Administrator endpoints expose the unscoped record set.
			r.Group(func(r chi.Router) {
				r.Use(auth.RequireAdministrator)
				r.Get("/admin/stats", statsHandler.Dashboard)
				r.Get("/admin/events", eventHandler.Recent)
			})
		})
	})

	return r
}
