package rest

import (
	"context"
	"fmt"
	"net/http"

	"github.com/fortuna/gridiron/internal/cache"
	"github.com/fortuna/gridiron/internal/service"
	"github.com/fortuna/gridiron/internal/store"
	"github.com/gorilla/mux"
)

// Server represents the REST API server
type Server struct {
	port    string
	server  *http.Server
	handler *Handler
}

// NewServer creates a new REST API server
func NewServer(port string, db *store.Database, redisCache *cache.RedisCache, broadcaster service.Broadcaster, publisher service.EventPublisher) *Server {
	handler := NewHandler(db, redisCache, broadcaster, publisher)

	router := mux.NewRouter()

	// Apply middleware
	router.Use(RecoveryMiddleware)
	router.Use(LoggingMiddleware)
	router.Use(CORSMiddleware)

	// Health check
	router.HandleFunc("/health", handler.HealthCheck).Methods("GET")

	// API v1 routes
	api := router.PathPrefix("/api/v1").Subrouter()

	// Stats: the persist-create/update/delete and hydrate surface
	api.HandleFunc("/games/{gameID}/stats", handler.GetGameStats).Methods("GET")
	api.HandleFunc("/games/{gameID}/stats", handler.CreateStat).Methods("POST")
	api.HandleFunc("/stats/{statID}", handler.UpdateStat).Methods("PUT")
	api.HandleFunc("/stats/{statID}", handler.DeleteStat).Methods("DELETE")

	// Games
	api.HandleFunc("/games", handler.GetGamesBySeason).Methods("GET")
	api.HandleFunc("/games", handler.CreateGame).Methods("POST")
	api.HandleFunc("/games/{gameID}", handler.GetGame).Methods("GET")

	// Players
	api.HandleFunc("/players/search", handler.SearchPlayers).Methods("GET")
	api.HandleFunc("/players", handler.CreatePlayer).Methods("POST")
	api.HandleFunc("/players/{playerID}", handler.GetPlayer).Methods("GET")

	// Shortcut configuration
	api.HandleFunc("/users/{userID}/shortcuts", handler.GetShortcuts).Methods("GET")
	api.HandleFunc("/users/{userID}/shortcuts", handler.SaveShortcuts).Methods("PUT")

	return &Server{
		port:    port,
		handler: handler,
		server: &http.Server{
			Addr:    fmt.Sprintf(":%s", port),
			Handler: router,
		},
	}
}

// Start starts the REST API server
func (s *Server) Start() error {
	return s.server.ListenAndServe()
}

// Shutdown gracefully shuts down the server
func (s *Server) Shutdown(ctx context.Context) error {
	if s.server != nil {
		return s.server.Shutdown(ctx)
	}
	return nil
}
