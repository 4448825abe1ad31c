package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/querylab/kgraph/pkg/config"
	"github.com/querylab/kgraph/pkg/graph"
	"github.com/querylab/kgraph/pkg/services"
)

type stubGraphService struct {
	initialized bool
	stats       services.GraphStats
}

func (s *stubGraphService) Initialize(ctx context.Context) error { return nil }
func (s *stubGraphService) IsInitialized() bool                  { return s.initialized }
func (s *stubGraphService) GetTableInfo(table string) (*services.TableInfo, error) {
	return nil, nil
}
func (s *stubGraphService) GetColumnValues(table, column string) (*services.ColumnValues, error) {
	return nil, nil
}
func (s *stubGraphService) FindJoinPath(from, to string) ([]graph.JoinStep, error) {
	return nil, nil
}
func (s *stubGraphService) GetQuerySuggestion(tables []string) (*graph.QuerySuggestion, error) {
	return nil, nil
}
func (s *stubGraphService) SuggestSQLQuery(tables, columns []string) (string, error) {
	return "", nil
}
func (s *stubGraphService) Stats() services.GraphStats { return s.stats }

func newTestHandler(initialized bool, stats services.GraphStats) *HealthHandler {
	cfg := &config.Config{Version: "1.2.3", Env: "test"}
	svc := &stubGraphService{initialized: initialized, stats: stats}
	return NewHealthHandler(cfg, svc, zap.NewNop())
}

func TestHealth_Ready(t *testing.T) {
	h := newTestHandler(true, services.GraphStats{})

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	rec := httptest.NewRecorder()
	h.Health(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "ok", rec.Body.String())
}

func TestHealth_Initializing(t *testing.T) {
	h := newTestHandler(false, services.GraphStats{})

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	rec := httptest.NewRecorder()
	h.Health(rec, req)

	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
}

func TestStatus(t *testing.T) {
	stats := services.GraphStats{Initialized: true, Tables: 4, Edges: 3, Source: "snapshot"}
	h := newTestHandler(true, stats)

	req := httptest.NewRequest(http.MethodGet, "/status", nil)
	rec := httptest.NewRecorder()
	h.Status(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))

	var got StatusResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	assert.Equal(t, "ok", got.Status)
	assert.Equal(t, "kgraph", got.Service)
	assert.Equal(t, "1.2.3", got.Version)
	assert.Equal(t, "test", got.Environment)
	assert.Equal(t, stats, got.Graph)
}

func TestStatus_Initializing(t *testing.T) {
	h := newTestHandler(false, services.GraphStats{})

	req := httptest.NewRequest(http.MethodGet, "/status", nil)
	rec := httptest.NewRecorder()
	h.Status(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)

	var got StatusResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	assert.Equal(t, "initializing", got.Status)
	assert.False(t, got.Graph.Initialized)
}

func TestRegisterRoutes(t *testing.T) {
	h := newTestHandler(true, services.GraphStats{})
	mux := http.NewServeMux()
	h.RegisterRoutes(mux)

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code)

	req = httptest.NewRequest(http.MethodGet, "/status", nil)
	rec = httptest.NewRecorder()
	mux.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code)
}
