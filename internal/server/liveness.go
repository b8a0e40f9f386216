// internal/server/liveness.go
package server

import (
	"context"
	"fmt"
	"net/http"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"health-assistant/internal/common/logger"
	"health-assistant/internal/common/metrics"
)

const livenessBody = "Service is running..."

// Server is the keep-alive HTTP responder that makes the hosting platform
// consider the process alive. It serves the liveness body on every GET path
// and Prometheus metrics on /metrics, and runs on the main goroutine.
type Server struct {
	httpServer *http.Server
	logger     logger.Logger
}

func New(port int, log logger.Logger) *Server {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())
	mux.HandleFunc("/", livenessHandler)

	return &Server{
		httpServer: &http.Server{
			Addr:    fmt.Sprintf(":%d", port),
			Handler: mux,
		},
		logger: log.WithFields(map[string]interface{}{
			"component": "liveness",
		}),
	}
}

// Run serves until Shutdown or a listener error.
func (s *Server) Run() error {
	s.logger.Info("serving", map[string]interface{}{
		"addr": s.httpServer.Addr,
	})
	if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}

func (s *Server) Shutdown(ctx context.Context) error {
	return s.httpServer.Shutdown(ctx)
}

// Handler exposes the mux for tests.
func (s *Server) Handler() http.Handler {
	return s.httpServer.Handler
}

// livenessHandler answers any GET path with the static liveness body.
func livenessHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, http.StatusText(http.StatusMethodNotAllowed), http.StatusMethodNotAllowed)
		return
	}

	metrics.LivenessRequests.Inc()
	w.Header().Set("Content-Type", "text/plain")
	w.WriteHeader(http.StatusOK)
	fmt.Fprint(w, livenessBody)
}
