// Package health exposes liveness and readiness endpoints on a sidecar port.
package health

import (
	"context"
	"encoding/json"
	"net/http"
	"os"
	"sync"
	"time"

	"github.com/sirupsen/logrus"
)

const probeTimeout = 3 * time.Second

// Probe checks one downstream dependency. A nil error means healthy.
type Probe func(ctx context.Context) error

type namedProbe struct {
	name  string
	probe Probe
}

// Server serves /live, /health and /ready for container orchestration.
// Readiness is the ready flag plus every registered probe passing.
type Server struct {
	serviceName string
	port        string
	logger      *logrus.Logger
	server      *http.Server

	mu     sync.RWMutex
	ready  bool
	probes []namedProbe
}

// NewServer creates a health server. An empty port falls back to the
// HEALTH_PORT environment variable, then to 8081.
func NewServer(serviceName, port string, logger *logrus.Logger) *Server {
	if port == "" {
		port = os.Getenv("HEALTH_PORT")
	}
	if port == "" {
		port = "8081"
	}

	return &Server{
		serviceName: serviceName,
		port:        port,
		logger:      logger,
	}
}

// AddProbe registers a readiness probe under a stable name. Probes run in
// registration order on every /ready request.
func (s *Server) AddProbe(name string, probe Probe) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.probes = append(s.probes, namedProbe{name: name, probe: probe})
}

// SetReady flips the readiness flag, typically once startup wiring is done
// and again ahead of shutdown.
func (s *Server) SetReady(ready bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.ready = ready
}

// IsReady reports the readiness flag. Probes are not consulted here.
func (s *Server) IsReady() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.ready
}

// Start serves in the background and shuts down when ctx is cancelled.
func (s *Server) Start(ctx context.Context) error {
	mux := http.NewServeMux()
	mux.HandleFunc("/live", s.handleLive)
	mux.HandleFunc("/health", s.handleHealth)
	mux.HandleFunc("/ready", s.handleReady)

	s.server = &http.Server{
		Addr:         ":" + s.port,
		Handler:      mux,
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		s.logger.WithFields(logrus.Fields{
			"port":    s.port,
			"service": s.serviceName,
		}).Info("Health server starting")

		if err := s.server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			s.logger.WithError(err).Error("Health server error")
		}
	}()

	go func() {
		<-ctx.Done()
		s.Shutdown()
	}()

	return nil
}

// Shutdown stops the server, waiting up to five seconds for in-flight
// requests.
func (s *Server) Shutdown() error {
	if s.server == nil {
		return nil
	}

	s.logger.Info("Health server shutting down")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	return s.server.Shutdown(ctx)
}

func (s *Server) handleLive(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{
		"status":  "ok",
		"service": s.serviceName,
	})
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{
		"status":    "ok",
		"service":   s.serviceName,
		"timestamp": time.Now().UTC().Format(time.RFC3339),
	})
}

func (s *Server) handleReady(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	s.mu.RLock()
	ready := s.ready
	probes := make([]namedProbe, len(s.probes))
	copy(probes, s.probes)
	s.mu.RUnlock()

	checks := make(map[string]string, len(probes)+1)
	healthy := ready
	if ready {
		checks["service"] = "ok"
	} else {
		checks["service"] = "not_ready"
	}

	for _, p := range probes {
		ctx, cancel := context.WithTimeout(r.Context(), probeTimeout)
		err := p.probe(ctx)
		cancel()

		if err != nil {
			healthy = false
			checks[p.name] = "error: " + err.Error()
		} else {
			checks[p.name] = "ok"
		}
	}

	status := "ok"
	code := http.StatusOK
	if !healthy {
		status = "not_ready"
		code = http.StatusServiceUnavailable
	}

	writeJSON(w, code, map[string]any{
		"status":   status,
		"service":  s.serviceName,
		"checks":   checks,
		"duration": time.Since(start).String(),
	})
}

func writeJSON(w http.ResponseWriter, code int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	json.NewEncoder(w).Encode(body)
}
