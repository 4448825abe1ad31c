package services

import (
	"errors"
	"fmt"
	"os"

	"go.uber.org/zap"

	"github.com/querylab/kgraph/pkg/graph"
)

// SnapshotCache persists graph snapshots between process runs so startup
// can skip introspection when a valid snapshot exists.
type SnapshotCache interface {
	// Load returns the cached snapshot when it exists, parses, was built
	// from dbPath, and carries sample data. Any other condition is a
	// cache miss, never an error.
	Load(dbPath string) (*graph.Snapshot, bool)

	// Store writes a snapshot to disk.
	Store(snapshot *graph.Snapshot) error

	// Invalidate removes the snapshot file. Removing a file that does
	// not exist is not an error.
	Invalidate() error

	// Path returns the snapshot file location.
	Path() string
}

type fileSnapshotCache struct {
	path   string
	logger *zap.Logger
}

// NewSnapshotCache creates a file-backed snapshot cache at path.
func NewSnapshotCache(path string, logger *zap.Logger) SnapshotCache {
	return &fileSnapshotCache{
		path:   path,
		logger: logger.Named("snapshot-cache"),
	}
}

var _ SnapshotCache = (*fileSnapshotCache)(nil)

func (c *fileSnapshotCache) Load(dbPath string) (*graph.Snapshot, bool) {
	data, err := os.ReadFile(c.path)
	if err != nil {
		if !errors.Is(err, os.ErrNotExist) {
			c.logger.Warn("Failed to read snapshot file",
				zap.String("path", c.path),
				zap.Error(err))
		}
		return nil, false
	}

	snapshot, err := graph.ParseSnapshot(data)
	if err != nil {
		c.logger.Warn("Snapshot file is corrupt, ignoring",
			zap.String("path", c.path),
			zap.Error(err))
		return nil, false
	}

	if snapshot.Metadata.DBPath != dbPath {
		c.logger.Info("Snapshot belongs to a different database, ignoring",
			zap.String("snapshot_db", snapshot.Metadata.DBPath),
			zap.String("requested_db", dbPath))
		return nil, false
	}

	if !snapshot.HasSampleData() {
		c.logger.Info("Snapshot has no sample data, ignoring",
			zap.String("path", c.path))
		return nil, false
	}

	return snapshot, true
}

func (c *fileSnapshotCache) Store(snapshot *graph.Snapshot) error {
	data, err := snapshot.Marshal()
	if err != nil {
		return err
	}

	if err := os.WriteFile(c.path, data, 0o600); err != nil {
		return fmt.Errorf("write snapshot %s: %w", c.path, err)
	}

	c.logger.Info("Snapshot persisted",
		zap.String("path", c.path),
		zap.Int("bytes", len(data)),
		zap.String("build_id", snapshot.Metadata.BuildID))
	return nil
}

func (c *fileSnapshotCache) Invalidate() error {
	if err := os.Remove(c.path); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("remove snapshot %s: %w", c.path, err)
	}
	return nil
}

func (c *fileSnapshotCache) Path() string {
	return c.path
}
