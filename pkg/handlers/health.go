package handlers

import (
	"net/http"
	"os"
	"runtime"

	"go.uber.org/zap"

	"github.com/brandonnguyen11/rosterAI/pkg/config"
	"github.com/brandonnguyen11/rosterAI/pkg/remote"
)

// ServiceName is reported by /ping.
const ServiceName = "rosterai-engine"

// PingResponse contains service status and version information.
type PingResponse struct {
	Status      string `json:"status"`
	Version     string `json:"version"`
	Service     string `json:"service"`
	GoVersion   string `json:"go_version"`
	Hostname    string `json:"hostname"`
	Environment string `json:"environment"`
}

// HealthResponse is returned by /health.
type HealthResponse struct {
	Status  string                  `json:"status"`
	Storage string                  `json:"storage"`
	Remotes map[string]RemoteHealth `json:"remotes"`
}

// RemoteHealth describes one remote service as seen by its circuit breaker.
type RemoteHealth struct {
	Enabled             bool   `json:"enabled"`
	Circuit             string `json:"circuit"`
	ConsecutiveFailures int    `json:"consecutive_failures"`
}

// RemoteService is the view of a remote client the health handler reports on.
type RemoteService interface {
	Service() string
	Enabled() bool
	Breaker() *remote.CircuitBreaker
}

var _ RemoteService = (*remote.Client)(nil)

// HealthHandler handles health check and ping endpoints.
type HealthHandler struct {
	cfg     *config.Config
	remotes []RemoteService
	logger  *zap.Logger
}

// NewHealthHandler creates a new HealthHandler with the given configuration.
func NewHealthHandler(cfg *config.Config, logger *zap.Logger, remotes ...RemoteService) *HealthHandler {
	return &HealthHandler{cfg: cfg, remotes: remotes, logger: logger}
}

// RegisterRoutes registers the health handler's routes on the given mux.
func (h *HealthHandler) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("GET /health", h.Health)
	mux.HandleFunc("GET /ping", h.Ping)
}

// Health handles GET /health requests.
// The service is up even when a remote is down; remotes are reported, not
// judged.
func (h *HealthHandler) Health(w http.ResponseWriter, r *http.Request) {
	response := HealthResponse{
		Status:  "ok",
		Storage: h.cfg.Storage.Backend,
		Remotes: make(map[string]RemoteHealth, len(h.remotes)),
	}
	for _, rs := range h.remotes {
		breaker := rs.Breaker()
		response.Remotes[rs.Service()] = RemoteHealth{
			Enabled:             rs.Enabled(),
			Circuit:             breaker.State().String(),
			ConsecutiveFailures: breaker.ConsecutiveFailures(),
		}
	}

	if err := WriteJSON(w, http.StatusOK, response); err != nil {
		h.logger.Error("Failed to encode health response", zap.Error(err))
	}
}

// Ping handles GET /ping requests.
// Returns detailed service information including version and environment.
func (h *HealthHandler) Ping(w http.ResponseWriter, r *http.Request) {
	hostname, err := os.Hostname()
	if err != nil {
		http.Error(w, "failed to get hostname", http.StatusInternalServerError)
		return
	}

	response := PingResponse{
		Status:      "ok",
		Version:     h.cfg.Version,
		Service:     ServiceName,
		GoVersion:   runtime.Version(),
		Hostname:    hostname,
		Environment: h.cfg.Env,
	}

	if err := WriteJSON(w, http.StatusOK, response); err != nil {
		h.logger.Error("Failed to encode ping response", zap.Error(err))
	}
}
