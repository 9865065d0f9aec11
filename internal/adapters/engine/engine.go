// Package engine drives an external routing engine through child processes.
package engine

import (
	"context"
	"fmt"
	"os"

	"go.trai.ch/graphcache/internal/core/domain"
	"go.trai.ch/graphcache/internal/core/ports"
	"go.trai.ch/zerr"
)

// Environment variables passed to engine processes.
const (
	EnvOSMFile    = "GRAPH_OSM_FILE"
	EnvGTFSFile   = "GRAPH_GTFS_FILE"
	EnvLocation   = "GRAPH_LOCATION"
	EnvDataAccess = "GRAPH_DATA_ACCESS"
	EnvProfile    = "GRAPH_PROFILE"
)

var _ ports.RoutingEngine = (*Engine)(nil)

// Engine implements ports.RoutingEngine by running the configured engine commands.
type Engine struct {
	logger ports.Logger
}

// New creates a new Engine that logs process output to logger.
func New(logger ports.Logger) *Engine {
	return &Engine{logger: logger}
}

// Build runs the build command, which must write a complete graph into req.GraphDir.
func (e *Engine) Build(ctx context.Context, req ports.BuildRequest) (ports.Graph, error) {
	if len(req.Options.BuildCommand) == 0 {
		return nil, zerr.With(zerr.Wrap(domain.ErrEngineNotConfigured, "no build command"), "command", "build")
	}

	if err := os.MkdirAll(req.GraphDir, domain.DirPerm); err != nil {
		return nil, zerr.With(zerr.Wrap(err, "failed to create graph directory"), "path", req.GraphDir)
	}

	env := baseEnv(req.GraphDir, req.Options)
	env[EnvOSMFile] = req.OSMPath
	env[EnvGTFSFile] = req.GTFSPath

	err := e.run(ctx, invocation{
		argv:   req.Options.BuildCommand,
		env:    env,
		stdout: req.Output,
		log:    true,
	})
	if err != nil {
		return nil, commandError("build", err)
	}

	return newGraph(e, req.GraphDir, req.Options), nil
}

// Load opens an existing graph directory, running the load command first when one is configured.
func (e *Engine) Load(ctx context.Context, req ports.LoadRequest) (ports.Graph, error) {
	info, err := os.Stat(req.GraphDir)
	if err != nil {
		return nil, zerr.With(zerr.Wrap(err, "failed to open graph directory"), "path", req.GraphDir)
	}
	if !info.IsDir() {
		return nil, zerr.With(zerr.New("graph location is not a directory"), "path", req.GraphDir)
	}

	if len(req.Options.LoadCommand) > 0 {
		err := e.run(ctx, invocation{
			argv: req.Options.LoadCommand,
			env:  baseEnv(req.GraphDir, req.Options),
			log:  true,
		})
		if err != nil {
			return nil, commandError("load", err)
		}
	}

	return newGraph(e, req.GraphDir, req.Options), nil
}

func baseEnv(graphDir string, opts domain.EngineOptions) map[string]string {
	env := make(map[string]string, len(opts.Environment)+5)
	for k, v := range opts.Environment {
		env[k] = v
	}
	env[EnvLocation] = graphDir
	env[EnvDataAccess] = opts.DataAccess()
	env[EnvProfile] = opts.Profile
	return env
}

func commandError(op string, err error) error {
	return zerr.With(fmt.Errorf("routing engine %s: %w", op, err), "op", op)
}
