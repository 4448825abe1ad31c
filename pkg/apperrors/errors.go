package apperrors

import "errors"

var (
	// ErrNotInitialized is returned by planner operations invoked before
	// the knowledge graph finished initializing.
	ErrNotInitialized = errors.New("knowledge graph not initialized")

	// ErrTableNotFound is returned when a queried table is not in the graph.
	ErrTableNotFound = errors.New("table not found")

	// ErrColumnNotFound is returned when a queried column does not exist on
	// a known table.
	ErrColumnNotFound = errors.New("column not found")

	// ErrNoJoinPath is returned when no foreign-key path connects two tables
	// within the search depth, in either direction.
	ErrNoJoinPath = errors.New("no join path")

	// ErrNoSuggestion is returned when join-order synthesis cannot connect
	// all requested tables.
	ErrNoSuggestion = errors.New("no query suggestion available")
)
