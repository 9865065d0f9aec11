package engine

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"sync/atomic"

	"go.trai.ch/graphcache/internal/core/domain"
	"go.trai.ch/graphcache/internal/core/ports"
	"go.trai.ch/zerr"
)

var _ ports.Graph = (*Graph)(nil)

// Graph is a built graph directory queried through the engine's query command.
type Graph struct {
	engine *Engine
	dir    string
	opts   domain.EngineOptions
	closed atomic.Bool
}

func newGraph(e *Engine, dir string, opts domain.EngineOptions) *Graph {
	return &Graph{engine: e, dir: dir, opts: opts}
}

// Dir returns the graph directory.
func (g *Graph) Dir() string {
	return g.dir
}

// Route sends the query as JSON on stdin and decodes the itinerary from stdout.
// Empty output or a JSON null means no route was found.
func (g *Graph) Route(ctx context.Context, query domain.RouteQuery) (*domain.Itinerary, error) {
	if g.closed.Load() {
		return nil, domain.ErrArtifactNotReady
	}
	if len(g.opts.QueryCommand) == 0 {
		return nil, zerr.With(zerr.Wrap(domain.ErrEngineNotConfigured, "no query command"), "command", "query")
	}

	if query.Profile == "" {
		query.Profile = query.Mode.Profile(g.opts.Profile)
	}

	payload, err := json.Marshal(query)
	if err != nil {
		return nil, zerr.Wrap(err, "failed to encode route query")
	}

	env := baseEnv(g.dir, g.opts)
	env[EnvProfile] = query.Profile

	var out bytes.Buffer
	err = g.engine.run(ctx, invocation{
		argv:   g.opts.QueryCommand,
		env:    env,
		stdin:  bytes.NewReader(payload),
		stdout: &out,
	})
	if err != nil {
		return nil, commandError("query", err)
	}

	body := bytes.TrimSpace(out.Bytes())
	if len(body) == 0 || bytes.Equal(body, []byte("null")) {
		return nil, domain.ErrNoRoute
	}

	var itinerary domain.Itinerary
	if err := json.Unmarshal(body, &itinerary); err != nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrEngineProtocol, err)
	}
	if len(itinerary.Legs) == 0 {
		return nil, domain.ErrNoRoute
	}

	return &itinerary, nil
}

// Close marks the graph closed. Later queries report the graph as not ready.
func (g *Graph) Close() error {
	g.closed.Store(true)
	return nil
}
