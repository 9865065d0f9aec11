// Package importer builds the routing graph in the background, one job per name at a time.
package importer

import (
	"context"
	"errors"
	"fmt"
	"os"
	"sync"

	"go.trai.ch/graphcache/internal/core/domain"
	"go.trai.ch/graphcache/internal/core/ports"
	"go.trai.ch/zerr"
)

// removeAll is swapped in tests to simulate cleanup failures.
var removeAll = os.RemoveAll

// Target receives the built graph.
type Target interface {
	Install(graph ports.Graph) error
	Reset()
}

// Params are the inputs of one import.
type Params struct {
	OSMPath  string
	GTFSPath string
	Layout   domain.CacheLayout
	Options  domain.EngineOptions
}

// Deps are the collaborators of an import job.
type Deps struct {
	Engine ports.RoutingEngine
	Store  ports.VersionStore
	Target Target
	Tracer ports.Tracer
	Logger ports.Logger
}

// Job builds, persists and installs one graph.
// A Job is single use.
type Job struct {
	params Params
	deps   Deps

	cleanupOnce sync.Once
}

// NewJob creates an import job.
func NewJob(params Params, deps Deps) *Job {
	return &Job{params: params, deps: deps}
}

// Run executes the import. Any failure removes the partial graph and version file before Run returns.
// Progress is reported at each checkpoint while ctx is live.
func (j *Job) Run(ctx context.Context, report func(progress int)) (err error) {
	if err := j.validate(); err != nil {
		return err
	}

	ctx, span := j.deps.Tracer.Start(ctx, "import",
		ports.WithAttribute("job.name", domain.ImportJobName),
		ports.WithAttribute("display.name", "import"),
	)
	defer func() {
		if err != nil {
			span.RecordError(err)
		}
		span.End()
	}()

	version, err := j.deps.Store.Compute(j.params.OSMPath, j.params.GTFSPath)
	if err != nil {
		return err
	}
	span.SetAttribute("cache.version", version.ID())

	j.deps.Target.Reset()
	j.removeStale()
	j.report(ctx, report, domain.ProgressValidated)

	graph, err := j.build(ctx)
	if err != nil {
		j.cleanup(ctx)
		return j.classify(ctx, err)
	}
	j.report(ctx, report, domain.ProgressBuilt)

	if ctx.Err() != nil {
		j.discard(ctx, graph)
		return domain.ErrCancelled
	}

	if err := j.deps.Store.Write(j.params.Layout.VersionFile(), version); err != nil {
		j.discard(ctx, graph)
		return err
	}
	j.report(ctx, report, domain.ProgressPersisted)

	if ctx.Err() != nil {
		j.discard(ctx, graph)
		return domain.ErrCancelled
	}

	if err := j.deps.Target.Install(graph); err != nil {
		j.deps.Logger.Warn(fmt.Sprintf("graph %s built but not installed: %v", version.ID(), err))
		return err
	}
	j.report(ctx, report, domain.ProgressInstalled)
	j.deps.Logger.Info(fmt.Sprintf("graph %s installed", version.ID()))

	return nil
}

func (j *Job) validate() error {
	missing := func(name string) error {
		return zerr.With(zerr.Wrap(domain.ErrMissingJobParameter, name+" is required"), "param", name)
	}

	switch {
	case j.params.OSMPath == "":
		return missing("osm path")
	case j.params.GTFSPath == "":
		return missing("gtfs path")
	case j.params.Layout.Root == "":
		return missing("cache root")
	default:
		return nil
	}
}

// build runs the engine, converting a panic into an error.
func (j *Job) build(ctx context.Context) (graph ports.Graph, err error) {
	ctx, span := j.deps.Tracer.Start(ctx, "import.build")
	defer span.End()

	defer func() {
		if r := recover(); r != nil {
			graph = nil
			err = zerr.With(zerr.New("panic during graph build"), "panic", fmt.Sprint(r))
		}
		if err != nil {
			span.RecordError(err)
		}
	}()

	return j.deps.Engine.Build(ctx, ports.BuildRequest{
		OSMPath:  j.params.OSMPath,
		GTFSPath: j.params.GTFSPath,
		GraphDir: j.params.Layout.GraphDir(),
		Options:  j.params.Options,
		Output:   span,
	})
}

// classify maps a build error onto the failure taxonomy.
func (j *Job) classify(ctx context.Context, err error) error {
	switch {
	case ctx.Err() != nil, errors.Is(err, domain.ErrCancelled):
		return domain.ErrCancelled
	case errors.Is(err, domain.ErrOutOfMemory):
		j.deps.Logger.Error(err)
		return err
	default:
		wrapped := fmt.Errorf("%w: %w", domain.ErrBuildFailure, err)
		j.deps.Logger.Error(wrapped)
		return wrapped
	}
}

func (j *Job) discard(ctx context.Context, graph ports.Graph) {
	if err := graph.Close(); err != nil {
		j.deps.Logger.Warn("failed to close discarded graph: " + err.Error())
	}
	j.cleanup(ctx)
}

// cleanup removes partial output once, ignoring cancellation of ctx.
func (j *Job) cleanup(ctx context.Context) {
	j.cleanupOnce.Do(func() {
		_, span := j.deps.Tracer.Start(context.WithoutCancel(ctx), "import.cleanup")
		defer span.End()

		j.removeStale()
	})
}

func (j *Job) removeStale() {
	for _, path := range []string{j.params.Layout.GraphDir(), j.params.Layout.VersionFile()} {
		if err := removeAll(path); err != nil {
			j.deps.Logger.Warn(fmt.Sprintf("failed to remove %s: %v", path, err))
		}
	}
}

func (j *Job) report(ctx context.Context, report func(int), progress int) {
	if report == nil || ctx.Err() != nil {
		return
	}
	report(progress)
}
