package main

import (
	"context"
	"log"
	"net/http"

	"github.com/querylab/kgraph/pkg/adapters/datasource/sqlite"
	"github.com/querylab/kgraph/pkg/config"
	"github.com/querylab/kgraph/pkg/handlers"
	"github.com/querylab/kgraph/pkg/logging"
	"github.com/querylab/kgraph/pkg/mcp"
	"github.com/querylab/kgraph/pkg/mcp/tools"
	"github.com/querylab/kgraph/pkg/middleware"
	"github.com/querylab/kgraph/pkg/services"
	"go.uber.org/zap"
)

// Version is set at build time via ldflags
var Version = "dev"

func main() {
	// Load configuration
	cfg, err := config.Load(Version)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	logger, err := logging.New(cfg.Env)
	if err != nil {
		log.Fatalf("Failed to create logger: %v", err)
	}
	defer func() { _ = logger.Sync() }()

	logger.Info("Configuration loaded",
		zap.String("environment", cfg.Env),
		zap.String("database", cfg.Graph.DatabasePath),
		zap.String("snapshot", cfg.Graph.SnapshotPath()))

	connector := &sqlite.Connector{
		Path:                 cfg.Graph.DatabasePath,
		Logger:               logger,
		CommonValueThreshold: cfg.Graph.CommonValueThreshold,
	}
	cache := services.NewSnapshotCache(cfg.Graph.SnapshotPath(), logger)
	graphService := services.NewKnowledgeGraph(connector, cache, &cfg.Graph, logger)

	if err := graphService.Initialize(context.Background()); err != nil {
		logger.Fatal("Failed to initialize knowledge graph", zap.Error(err))
	}
	stats := graphService.Stats()
	logger.Info("Knowledge graph ready",
		zap.Int("tables", stats.Tables),
		zap.Int("edges", stats.Edges),
		zap.String("source", stats.Source))

	// MCP server and tools
	mcpServer := mcp.NewServer("kgraph", cfg.Version, logger)
	toolDeps := &tools.KnowledgeToolDeps{
		Graph:  graphService,
		Logger: logger,
	}
	tools.RegisterKnowledgeTools(mcpServer.MCP(), toolDeps)
	tools.RegisterJoinTools(mcpServer.MCP(), toolDeps)

	mux := http.NewServeMux()

	mcpHandler := handlers.NewMCPHandler(mcpServer, logger)
	mcpHandler.RegisterRoutes(mux)

	healthHandler := handlers.NewHealthHandler(cfg, graphService, logger)
	healthHandler.RegisterRoutes(mux)

	handler := middleware.RequestLogger(logger)(mux)

	logger.Info("Starting kgraph",
		zap.String("addr", cfg.ListenAddr()),
		zap.String("version", cfg.Version))
	if err := http.ListenAndServe(cfg.ListenAddr(), handler); err != nil {
		logger.Fatal("Server failed", zap.Error(err))
	}
}
