package rest

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"github.com/sirupsen/logrus"

	"github.com/yourusername/courtside/internal/features"
	"github.com/yourusername/courtside/internal/metrics"
	"github.com/yourusername/courtside/internal/service"
)

// Server represents the REST API server
type Server struct {
	port    string
	server  *http.Server
	handler *Handler
}

// NewServer creates a new REST API server
func NewServer(port string, predictor *service.Predictor, resolver *features.ContextResolver, currentSeasonID, recentFormWindow int, logger *logrus.Logger) *Server {
	handler := NewHandler(predictor, resolver, currentSeasonID, recentFormWindow, logger)

	router := mux.NewRouter()

	// Apply middleware
	router.Use(RecoveryMiddleware(logger))
	router.Use(LoggingMiddleware(logger))

	// Health and observability
	router.HandleFunc("/healthz", handler.HealthCheck).Methods("GET")
	router.Handle("/metrics", metrics.Handler()).Methods("GET")

	// API v1 routes
	api := router.PathPrefix("/v1").Subrouter()

	// Projections
	api.HandleFunc("/projections/{player}", handler.ProjectPlayer).Methods("POST")

	// Odds conversion
	api.HandleFunc("/odds", handler.ConvertOdds).Methods("POST")

	// Pace/usage baseline, no trained model involved
	api.HandleFunc("/baseline", handler.Baseline).Methods("POST")

	// Teams
	api.HandleFunc("/teams", handler.ListTeams).Methods("GET")
	api.HandleFunc("/teams/{code}/context", handler.GetTeamContext).Methods("GET")

	return &Server{
		port:    port,
		handler: handler,
		server: &http.Server{
			Addr:         fmt.Sprintf(":%s", port),
			Handler:      router,
			ReadTimeout:  15 * time.Second,
			WriteTimeout: 60 * time.Second,
			IdleTimeout:  60 * time.Second,
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
