// rebuild-graph discards the snapshot for the configured database and
// rebuilds the knowledge graph from scratch.
//
// Usage: go run ./scripts/rebuild-graph [-db path]
//
// Configuration comes from config.yaml / KG_* environment variables, the
// same way the server reads it. The -db flag overrides the database path.
//
// Flags:
//
//	-db        Database file to build from (default: configured path)
//	-timeout   Build timeout in seconds, 0 disables (default: configured)
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"time"

	"go.uber.org/zap"

	"github.com/querylab/kgraph/pkg/adapters/datasource/sqlite"
	"github.com/querylab/kgraph/pkg/config"
	"github.com/querylab/kgraph/pkg/services"
)

func main() {
	dbPath := flag.String("db", "", "Database file to build from (default: configured path)")
	timeout := flag.Int("timeout", -1, "Build timeout in seconds, 0 disables (default: configured)")
	flag.Parse()

	cfg, err := config.Load("dev")
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		os.Exit(1)
	}
	if *dbPath != "" {
		cfg.Graph.DatabasePath = *dbPath
	}
	if *timeout >= 0 {
		cfg.Graph.BuildTimeoutSeconds = *timeout
	}

	logger, err := zap.NewDevelopment()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to create logger: %v\n", err)
		os.Exit(1)
	}
	defer func() { _ = logger.Sync() }()

	connector := &sqlite.Connector{
		Path:                 cfg.Graph.DatabasePath,
		Logger:               logger,
		CommonValueThreshold: cfg.Graph.CommonValueThreshold,
	}
	cache := services.NewSnapshotCache(cfg.Graph.SnapshotPath(), logger)

	if err := cache.Invalidate(); err != nil {
		fmt.Fprintf(os.Stderr, "Failed to remove snapshot %s: %v\n", cfg.Graph.SnapshotPath(), err)
		os.Exit(1)
	}

	graphService := services.NewKnowledgeGraph(connector, cache, &cfg.Graph, logger)

	start := time.Now()
	if err := graphService.Initialize(context.Background()); err != nil {
		fmt.Fprintf(os.Stderr, "Build failed: %v\n", err)
		os.Exit(1)
	}

	stats := graphService.Stats()
	fmt.Printf("Rebuilt knowledge graph from %s in %s\n", cfg.Graph.DatabasePath, time.Since(start).Round(time.Millisecond))
	fmt.Printf("  Tables: %d\n", stats.Tables)
	fmt.Printf("  Edges:  %d\n", stats.Edges)
	fmt.Printf("  Snapshot: %s\n", cfg.Graph.SnapshotPath())
}
