// Package app implements the application layer for graphcache.
package app

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.trai.ch/graphcache/internal/adapters/detector"
	"go.trai.ch/graphcache/internal/adapters/linear"
	"go.trai.ch/graphcache/internal/adapters/telemetry"
	"go.trai.ch/graphcache/internal/adapters/watcher"
	"go.trai.ch/graphcache/internal/core/domain"
	"go.trai.ch/graphcache/internal/core/ports"
	"go.trai.ch/graphcache/internal/engine/artifact"
	"go.trai.ch/graphcache/internal/engine/coordinator"
	"go.trai.ch/graphcache/internal/engine/importer"
	"go.trai.ch/zerr"
	"golang.org/x/sync/errgroup"
)

// shutdownTimeout bounds how long closing a session waits for running imports to clean up.
const shutdownTimeout = 30 * time.Second

// App represents the main application logic.
type App struct {
	configLoader ports.ConfigLoader
	logger       ports.Logger
	engine       ports.RoutingEngine
	store        ports.VersionStore
	disk         ports.DiskSpace
	watcher      ports.Watcher
	stderr       io.Writer
	workDir      string
}

// New creates a new App instance.
func New(
	loader ports.ConfigLoader,
	log ports.Logger,
	engine ports.RoutingEngine,
	store ports.VersionStore,
	disk ports.DiskSpace,
	w ports.Watcher,
) *App {
	return &App{
		configLoader: loader,
		logger:       log,
		engine:       engine,
		store:        store,
		disk:         disk,
		watcher:      w,
		stderr:       os.Stderr,
	}
}

// WithOutput sets the stream progress and states are rendered to.
func (a *App) WithOutput(w io.Writer) *App {
	a.stderr = w
	return a
}

// WithWorkDir sets the directory configuration discovery starts from.
// It defaults to the process working directory.
func (a *App) WithWorkDir(dir string) *App {
	a.workDir = dir
	return a
}

// Options configures one command invocation.
type Options struct {
	// OutputMode is one of auto, interactive, linear or quiet.
	OutputMode string
	// JSONLog switches log lines to JSON.
	JSONLog bool
	// Timeout overrides the configured ready timeout when positive.
	Timeout time.Duration
	// Interval overrides the configured refresh interval of watch mode when positive.
	Interval time.Duration
}

// session bundles the per-invocation components.
type session struct {
	cfg      *domain.Config
	logger   ports.Logger
	renderer *linear.Renderer
	provider *sdktrace.TracerProvider
	handle   *artifact.Handle
	registry *importer.Registry
	coord    *coordinator.Coordinator
}

func (a *App) open(opts Options) (*session, error) {
	cfg, err := a.loadConfig()
	if err != nil {
		return nil, zerr.Wrap(err, "failed to load configuration")
	}
	if opts.Timeout > 0 {
		cfg.ReadyTimeout = opts.Timeout
	}
	if opts.Interval > 0 {
		cfg.RefreshInterval = opts.Interval
	}

	if err := a.configureLogging(cfg, opts); err != nil {
		return nil, zerr.Wrap(err, "failed to open debug log")
	}

	mode := detector.ResolveMode(detector.DetectEnvironment(), opts.OutputMode)
	rendererOpts := []linear.Option{linear.WithProfile(detector.ColorProfile(mode))}
	if mode == detector.ModeQuiet {
		rendererOpts = append(rendererOpts, linear.WithQuiet())
	}
	renderer := linear.NewRenderer(a.stderr, a.stderr, rendererOpts...)

	provider := telemetry.Setup(renderer)
	tracer := telemetry.NewOTelTracer(telemetry.InstrumentationName).WithRenderer(renderer)

	handle := artifact.NewHandle(a.engine, tracer, a.logger)
	registry := importer.NewRegistry()
	registry.SetObserver(renderer.OnProgress)

	coord := coordinator.New(cfg, coordinator.Deps{
		Engine:   a.engine,
		Store:    a.store,
		Disk:     a.disk,
		Handle:   handle,
		Registry: registry,
		Tracer:   tracer,
		Logger:   a.logger,
	})

	return &session{
		cfg:      cfg,
		logger:   a.logger,
		renderer: renderer,
		provider: provider,
		handle:   handle,
		registry: registry,
		coord:    coord,
	}, nil
}

// close stops running imports and releases the graph before flushing output.
func (s *session) close() error {
	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	err := s.registry.Shutdown(ctx)
	s.handle.Close()
	err = errors.Join(err, s.provider.Shutdown(ctx))
	return errors.Join(err, s.renderer.Stop())
}

func (a *App) loadConfig() (*domain.Config, error) {
	dir := a.workDir
	if dir == "" {
		wd, err := os.Getwd()
		if err != nil {
			return nil, err
		}
		dir = wd
	}

	abs, err := filepath.Abs(dir)
	if err != nil {
		return nil, err
	}
	return a.configLoader.Load(abs)
}

// configurableLogger is implemented by loggers that support JSON output and a debug file.
type configurableLogger interface {
	SetJSON(enable bool)
	SetDebugFile(opts domain.LogOptions) error
}

func (a *App) configureLogging(cfg *domain.Config, opts Options) error {
	l, ok := a.logger.(configurableLogger)
	if !ok {
		return nil
	}

	l.SetJSON(opts.JSONLog || cfg.Log.JSON)
	if cfg.Log.File == "" {
		return nil
	}
	return l.SetDebugFile(cfg.Log)
}

// await runs one cache session, rendering every state.
func (s *session) await(ctx context.Context) error {
	var last domain.CacheState
	for state := range s.coord.Start(ctx) {
		s.renderer.OnState(state)
		last = state
	}
	return sessionError(last)
}

func sessionError(state domain.CacheState) error {
	switch state.Kind {
	case domain.StateReady:
		return nil
	case domain.StateMissingFiles:
		return zerr.With(zerr.Wrap(domain.ErrSessionFailed, domain.ErrMissingInputFiles.Error()), "files", state.MissingFiles)
	default:
		return zerr.With(zerr.Wrap(domain.ErrSessionFailed, state.Message), "state", state.Kind.String())
	}
}

// wait blocks until the import behind ticket settles.
func (s *session) wait(ctx context.Context, ticket *importer.Ticket) error {
	select {
	case <-ticket.Done():
	case <-ctx.Done():
		return fmt.Errorf("%w: %w", domain.ErrCancelled, ctx.Err())
	}

	if err := ticket.Err(); err != nil {
		return zerr.With(fmt.Errorf("%w: %w", domain.ErrImportFailed, err), "job", domain.ImportJobName)
	}
	return nil
}

// Start runs one cache session and succeeds when the graph is ready.
func (a *App) Start(ctx context.Context, opts Options) (err error) {
	s, err := a.open(opts)
	if err != nil {
		return err
	}
	defer func() { err = errors.Join(err, s.close()) }()

	return s.await(ctx)
}

// Rebuild discards the cache and waits for a fresh import.
func (a *App) Rebuild(ctx context.Context, opts Options) (err error) {
	s, err := a.open(opts)
	if err != nil {
		return err
	}
	defer func() { err = errors.Join(err, s.close()) }()

	ticket, err := s.coord.ForceRebuild(ctx)
	if err != nil {
		return err
	}
	if err := s.wait(ctx, ticket); err != nil {
		return err
	}

	a.logger.Info("graph cache rebuilt")
	return nil
}

// Refresh rebuilds the cache only when the inputs changed since the last build.
func (a *App) Refresh(ctx context.Context, opts Options) (err error) {
	s, err := a.open(opts)
	if err != nil {
		return err
	}
	defer func() { err = errors.Join(err, s.close()) }()

	ticket := s.coord.ForceRefreshCheck(ctx)
	if ticket == nil {
		a.logger.Info("no refresh needed")
		return nil
	}
	if err := s.wait(ctx, ticket); err != nil {
		return err
	}

	a.logger.Info("graph cache refreshed")
	return nil
}

// Status reports the state of the cache without changing it.
func (a *App) Status(_ context.Context, opts Options) (st coordinator.Status, err error) {
	s, err := a.open(opts)
	if err != nil {
		return coordinator.Status{}, err
	}
	defer func() { err = errors.Join(err, s.close()) }()

	return s.coord.Status(), nil
}

// Route waits for the graph and answers one query.
func (a *App) Route(ctx context.Context, query domain.RouteQuery, opts Options) (it *domain.Itinerary, err error) {
	s, err := a.open(opts)
	if err != nil {
		return nil, err
	}
	defer func() { err = errors.Join(err, s.close()) }()

	if err := s.await(ctx); err != nil {
		return nil, err
	}
	return s.coord.Route(ctx, query)
}

// Clean removes the graph cache.
func (a *App) Clean(ctx context.Context, opts Options) (err error) {
	s, err := a.open(opts)
	if err != nil {
		return err
	}
	defer func() { err = errors.Join(err, s.close()) }()

	return s.coord.Clean(ctx)
}

// Watch keeps the graph ready until ctx is done.
// It re-runs a session when an input changes and checks for stale inputs periodically.
func (a *App) Watch(ctx context.Context, opts Options) (err error) {
	s, err := a.open(opts)
	if err != nil {
		return err
	}
	defer func() { err = errors.Join(err, s.close()) }()

	if err := a.watcher.Start(ctx, s.cfg.OSMPath(), s.cfg.GTFSPath()); err != nil {
		return err
	}
	defer func() { err = errors.Join(err, a.watcher.Stop()) }()

	changes := make(chan struct{}, 1)
	debouncer := watcher.NewDebouncer(watcher.DefaultDebounceWindow, func(paths []string) {
		a.logger.Info("input changed: " + strings.Join(paths, ", "))
		select {
		case changes <- struct{}{}:
		default:
		}
	})
	defer debouncer.Stop()

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		for event := range a.watcher.Events() {
			debouncer.Add(event.Path)
		}
		return nil
	})

	g.Go(func() error {
		return s.watchLoop(gctx, changes)
	})

	return g.Wait()
}

func (s *session) watchLoop(ctx context.Context, changes <-chan struct{}) error {
	ticker := time.NewTicker(s.cfg.RefreshInterval)
	defer ticker.Stop()

	s.check(ctx)
	for {
		select {
		case <-ctx.Done():
			return nil
		case <-changes:
			s.check(ctx)
		case <-ticker.C:
			s.coord.ForceRefreshCheck(ctx)
		}
	}
}

// check runs a session in watch mode, where a failed session is not fatal.
func (s *session) check(ctx context.Context) {
	if err := s.await(ctx); err != nil && !errors.Is(err, domain.ErrSessionFailed) {
		s.logger.Error(err)
	}
}
