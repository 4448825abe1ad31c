package graph

import (
	"bytes"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// Snapshot is the JSON-serializable form of a graph, written to disk so
// later startups can skip introspection.
type Snapshot struct {
	Nodes    map[string]*TableNode `json:"nodes"`
	Edges    []Edge                `json:"edges"`
	Metadata SnapshotMetadata      `json:"metadata"`
}

// SnapshotMetadata identifies when and from which database a snapshot was
// built. DBPath is the validity key: a snapshot only serves the database
// it was built from.
type SnapshotMetadata struct {
	Timestamp string `json:"timestamp"`
	DBPath    string `json:"db_path"`
	BuildID   string `json:"build_id"`
}

// Snapshot captures the graph's current state for persistence.
func (g *Graph) Snapshot(dbPath string) *Snapshot {
	edges := make([]Edge, 0, g.EdgeCount())
	for _, e := range g.Edges() {
		edges = append(edges, *e)
	}

	return &Snapshot{
		Nodes: g.nodes,
		Edges: edges,
		Metadata: SnapshotMetadata{
			Timestamp: time.Now().UTC().Format(time.RFC3339),
			DBPath:    dbPath,
			BuildID:   uuid.NewString(),
		},
	}
}

// FromSnapshot rebuilds a graph from a decoded snapshot.
func FromSnapshot(s *Snapshot) *Graph {
	g := New()
	for name, node := range s.Nodes {
		g.AddTableNode(name, node)
	}
	for _, e := range s.Edges {
		g.AddReferenceEdge(e.From, e.To, e.FromColumn, e.ToColumn)
	}
	return g
}

// Marshal encodes the snapshot as JSON.
func (s *Snapshot) Marshal() ([]byte, error) {
	data, err := json.Marshal(s)
	if err != nil {
		return nil, fmt.Errorf("marshal snapshot: %w", err)
	}
	return data, nil
}

// ParseSnapshot decodes snapshot JSON. Numbers are preserved as
// json.Number so values survive a save/load cycle without losing their
// textual form.
func ParseSnapshot(data []byte) (*Snapshot, error) {
	decoder := json.NewDecoder(bytes.NewReader(data))
	decoder.UseNumber()

	var s Snapshot
	if err := decoder.Decode(&s); err != nil {
		return nil, fmt.Errorf("parse snapshot: %w", err)
	}
	if s.Nodes == nil {
		s.Nodes = map[string]*TableNode{}
	}
	return &s, nil
}

// HasSampleData reports whether at least one node carries sampled rows.
// A snapshot without any is treated as a failed build and not reused.
func (s *Snapshot) HasSampleData() bool {
	for _, node := range s.Nodes {
		if node.HasSampleData() {
			return true
		}
	}
	return false
}
