package ports

import (
	"context"
	"io"

	"go.trai.ch/graphcache/internal/core/domain"
)

//go:generate mockgen -source=engine.go -destination=mocks/mock_engine.go -package=mocks

// BuildRequest parameterizes a graph build.
type BuildRequest struct {
	OSMPath  string
	GTFSPath string
	GraphDir string
	Options  domain.EngineOptions
	// Output receives the engine's build log, if set.
	Output io.Writer
}

// LoadRequest parameterizes loading a previously built graph.
type LoadRequest struct {
	GraphDir string
	Options  domain.EngineOptions
}

// RoutingEngine builds and loads routable graphs.
// Both calls are synchronous and may run for minutes.
type RoutingEngine interface {
	// Build constructs a graph from the inputs into GraphDir.
	Build(ctx context.Context, req BuildRequest) (Graph, error)
	// Load opens an existing graph from GraphDir.
	Load(ctx context.Context, req LoadRequest) (Graph, error)
}

// Graph is a loaded, queryable graph.
type Graph interface {
	// Route returns the best itinerary for the query.
	// It returns domain.ErrNoRoute when no route exists.
	Route(ctx context.Context, query domain.RouteQuery) (*domain.Itinerary, error)
	// Close releases the graph.
	Close() error
}
