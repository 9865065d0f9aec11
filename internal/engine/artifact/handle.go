// Package artifact holds the loaded routing graph behind a readiness-gated handle.
package artifact

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"sync"
	"sync/atomic"

	"go.trai.ch/graphcache/internal/core/domain"
	"go.trai.ch/graphcache/internal/core/ports"
	"go.trai.ch/zerr"
	"golang.org/x/sync/singleflight"
)

// Handle owns at most one loaded graph.
// The graph store and the readiness flip happen under one lock; queries read the graph lock-free.
type Handle struct {
	engine ports.RoutingEngine
	tracer ports.Tracer
	logger ports.Logger

	mu         sync.Mutex
	ready      chan struct{}
	generation uint64
	closed     bool
	current    atomic.Pointer[loaded]

	loads singleflight.Group
}

type loaded struct {
	graph ports.Graph
}

// NewHandle creates an empty, not-ready Handle.
func NewHandle(engine ports.RoutingEngine, tracer ports.Tracer, logger ports.Logger) *Handle {
	return &Handle{
		engine: engine,
		tracer: tracer,
		logger: logger,
		ready:  make(chan struct{}),
	}
}

// Init loads the graph from layout when it exists and the Handle is not ready yet.
// A missing graph directory leaves the Handle not ready without error.
// Concurrent calls share one load.
func (h *Handle) Init(ctx context.Context, layout domain.CacheLayout, opts domain.EngineOptions) error {
	if h.Ready() {
		return nil
	}

	_, err, _ := h.loads.Do(layout.GraphDir(), func() (any, error) {
		return nil, h.load(ctx, layout, opts)
	})
	return err
}

func (h *Handle) load(ctx context.Context, layout domain.CacheLayout, opts domain.EngineOptions) error {
	if h.Ready() {
		return nil
	}

	graphDir := layout.GraphDir()
	info, err := os.Stat(graphDir)
	if errors.Is(err, fs.ErrNotExist) {
		return nil
	}
	if err != nil {
		return zerr.With(fmt.Errorf("%w: %w", domain.ErrArtifactInitFailure, err), "path", graphDir)
	}
	if !info.IsDir() {
		return zerr.With(zerr.Wrap(domain.ErrArtifactInitFailure, "graph location is not a directory"), "path", graphDir)
	}

	h.mu.Lock()
	generation := h.generation
	h.mu.Unlock()

	ctx, span := h.tracer.Start(ctx, "artifact.load", ports.WithAttribute("path", graphDir))
	defer span.End()

	graph, err := h.engine.Load(ctx, ports.LoadRequest{GraphDir: graphDir, Options: opts})
	if err != nil {
		span.RecordError(err)
		return zerr.With(fmt.Errorf("%w: %w", domain.ErrArtifactInitFailure, err), "path", graphDir)
	}

	if !h.install(graph, generation) {
		h.closeGraph(graph)
		return zerr.With(zerr.Wrap(domain.ErrArtifactInitFailure, "graph was reset while loading"), "path", graphDir)
	}

	return nil
}

// Install replaces any loaded graph with graph and marks the Handle ready.
// A closed Handle refuses the graph and closes it.
func (h *Handle) Install(graph ports.Graph) error {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.closed {
		h.closeGraph(graph)
		return domain.ErrArtifactClosed
	}

	h.storeLocked(graph)
	return nil
}

// install stores graph unless the Handle was closed or a Reset happened after generation was observed.
func (h *Handle) install(graph ports.Graph, generation uint64) bool {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.closed || h.generation != generation {
		return false
	}

	h.storeLocked(graph)
	return true
}

func (h *Handle) storeLocked(graph ports.Graph) {
	if prev := h.current.Swap(&loaded{graph: graph}); prev != nil {
		h.closeGraph(prev.graph)
	}

	select {
	case <-h.ready:
	default:
		close(h.ready)
	}
}

// Reset closes and discards the graph and marks the Handle not ready. It is safe on an empty Handle.
func (h *Handle) Reset() {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.resetLocked()
}

func (h *Handle) resetLocked() {
	h.generation++

	if prev := h.current.Swap(nil); prev != nil {
		h.closeGraph(prev.graph)
	}

	select {
	case <-h.ready:
		h.ready = make(chan struct{})
	default:
	}
}

// Close releases the graph on shutdown. Later installs are refused.
func (h *Handle) Close() {
	h.mu.Lock()
	defer h.mu.Unlock()

	h.closed = true
	h.resetLocked()
}

// Ready reports whether a graph is loaded.
func (h *Handle) Ready() bool {
	return h.current.Load() != nil
}

// ReadyChan returns a channel closed once the Handle becomes ready.
// After a Reset, callers must fetch a new channel.
func (h *Handle) ReadyChan() <-chan struct{} {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.ready
}

// WaitReady blocks until the Handle is ready or ctx is done.
func (h *Handle) WaitReady(ctx context.Context) error {
	select {
	case <-h.ReadyChan():
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Route queries the loaded graph. It never waits for readiness.
func (h *Handle) Route(ctx context.Context, query domain.RouteQuery) (*domain.Itinerary, error) {
	current := h.current.Load()
	if current == nil {
		return nil, domain.ErrArtifactNotReady
	}
	return current.graph.Route(ctx, query)
}

func (h *Handle) closeGraph(graph ports.Graph) {
	if err := graph.Close(); err != nil && h.logger != nil {
		h.logger.Warn("failed to close graph: " + err.Error())
	}
}
