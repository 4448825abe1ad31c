// Package handlers provides plain HTTP endpoints alongside the MCP
// transport.
package handlers

import (
	"net/http"
	"runtime"

	"go.uber.org/zap"

	"github.com/querylab/kgraph/pkg/config"
	"github.com/querylab/kgraph/pkg/services"
)

// StatusResponse reports service and knowledge-graph readiness.
type StatusResponse struct {
	Status      string              `json:"status"`
	Service     string              `json:"service"`
	Version     string              `json:"version"`
	GoVersion   string              `json:"go_version"`
	Environment string              `json:"environment"`
	Graph       services.GraphStats `json:"graph"`
}

// HealthHandler handles health check and status endpoints.
type HealthHandler struct {
	cfg    *config.Config
	graph  services.KnowledgeGraphService
	logger *zap.Logger
}

// NewHealthHandler creates a new HealthHandler.
func NewHealthHandler(cfg *config.Config, graph services.KnowledgeGraphService, logger *zap.Logger) *HealthHandler {
	return &HealthHandler{cfg: cfg, graph: graph, logger: logger}
}

// RegisterRoutes registers the health handler's routes on the given mux.
func (h *HealthHandler) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("/health", h.Health)
	mux.HandleFunc("/status", h.Status)
}

// Health handles GET /health requests. It returns a plain "ok" once the
// knowledge graph finished initializing, 503 before that, so load
// balancers keep traffic away during the build.
func (h *HealthHandler) Health(w http.ResponseWriter, r *http.Request) {
	if !h.graph.IsInitialized() {
		http.Error(w, "initializing", http.StatusServiceUnavailable)
		return
	}
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok"))
}

// Status handles GET /status requests with detailed service and graph
// information.
func (h *HealthHandler) Status(w http.ResponseWriter, r *http.Request) {
	status := "ok"
	if !h.graph.IsInitialized() {
		status = "initializing"
	}

	response := StatusResponse{
		Status:      status,
		Service:     "kgraph",
		Version:     h.cfg.Version,
		GoVersion:   runtime.Version(),
		Environment: h.cfg.Env,
		Graph:       h.graph.Stats(),
	}

	if err := WriteJSON(w, http.StatusOK, response); err != nil {
		h.logger.Error("Failed to write status response", zap.Error(err))
	}
}
