// Package coordinator decides whether the cached graph can be reused and drives rebuilds.
package coordinator

import (
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/dustin/go-humanize"
	"go.trai.ch/graphcache/internal/core/domain"
	"go.trai.ch/graphcache/internal/core/ports"
	"go.trai.ch/graphcache/internal/engine/artifact"
	"go.trai.ch/graphcache/internal/engine/importer"
	"go.trai.ch/zerr"
)

// stateBuffer holds every state one session can emit, so sends never block.
const stateBuffer = 4

// Deps are the collaborators of a Coordinator.
type Deps struct {
	Engine   ports.RoutingEngine
	Store    ports.VersionStore
	Disk     ports.DiskSpace
	Handle   *artifact.Handle
	Registry *importer.Registry
	Tracer   ports.Tracer
	Logger   ports.Logger
}

// Coordinator owns the cache lifecycle of one workspace.
type Coordinator struct {
	cfg  *domain.Config
	deps Deps
}

// New creates a Coordinator for cfg.
func New(cfg *domain.Config, deps Deps) *Coordinator {
	return &Coordinator{cfg: cfg, deps: deps}
}

// Start runs one session in the background.
// The channel receives the session's states in order and is closed after the terminal one.
func (c *Coordinator) Start(ctx context.Context) <-chan domain.CacheState {
	states := make(chan domain.CacheState, stateBuffer)

	go func() {
		defer close(states)
		emit := func(s domain.CacheState) { states <- s }

		defer func() {
			if r := recover(); r != nil {
				c.deps.Logger.Error(zerr.With(zerr.New("cache session panicked"), "panic", fmt.Sprint(r)))
				emit(domain.ErrorState(""))
			}
		}()

		emit(c.session(ctx, emit))
	}()

	return states
}

func (c *Coordinator) session(ctx context.Context, emit func(domain.CacheState)) domain.CacheState {
	ctx, span := c.deps.Tracer.Start(ctx, "coordinator.start",
		ports.WithAttribute("display.name", "check"),
	)
	defer span.End()

	if missing := c.MissingFiles(); len(missing) > 0 {
		return domain.MissingFilesState(missing)
	}

	if err := c.validate(); err != nil {
		span.RecordError(err)
		return c.failure(err)
	}

	current, err := c.deps.Store.Compute(c.cfg.OSMPath(), c.cfg.GTFSPath())
	if err != nil {
		span.RecordError(err)
		return c.failure(err)
	}
	span.SetAttribute("cache.version", current.ID())

	layout := c.cfg.Layout()
	saved := c.deps.Store.Read(layout.VersionFile())
	stale := saved == nil || !saved.Equal(current)

	if stale {
		c.deps.Logger.Info(fmt.Sprintf("graph cache is stale, rebuilding for %s", current.ID()))
	}

	if !stale && dirExists(layout.GraphDir()) {
		if err := c.deps.Handle.Init(ctx, layout, c.cfg.Engine); err != nil {
			span.RecordError(err)
			c.deps.Logger.Error(err)
			return domain.ErrorState(domain.ErrArtifactInitFailure.Error())
		}
		if c.deps.Handle.Ready() {
			return domain.ReadyState()
		}
	}

	if err := c.invalidate(ctx); err != nil {
		span.RecordError(err)
		return c.failure(err)
	}

	emit(domain.NeedsImportState())
	ticket := c.deps.Registry.Submit(domain.ImportJobName, c.newJob())
	emit(domain.ImportingState())

	return c.awaitReady(ctx, ticket)
}

// awaitReady waits for the Handle to become ready, bounded by the ready timeout.
// A job that fails first ends the wait early.
func (c *Coordinator) awaitReady(ctx context.Context, ticket *importer.Ticket) domain.CacheState {
	timer := time.NewTimer(c.cfg.ReadyTimeout)
	defer timer.Stop()

	ready := c.deps.Handle.ReadyChan()
	select {
	case <-ready:
		return domain.ReadyState()
	case <-ticket.Done():
		if c.deps.Handle.Ready() {
			return domain.ReadyState()
		}
		return c.failure(ticket.Err())
	case <-timer.C:
		c.deps.Registry.Cancel(domain.ImportJobName)
		c.deps.Logger.Error(zerr.With(zerr.Wrap(domain.ErrTimeout, "graph not ready in time"), "timeout", c.cfg.ReadyTimeout.String()))
		return domain.ErrorState(domain.ErrTimeout.Error())
	case <-ctx.Done():
		return domain.ErrorState(domain.ErrCancelled.Error())
	}
}

// ForceRebuild discards the cache and submits a fresh import regardless of fingerprints.
func (c *Coordinator) ForceRebuild(ctx context.Context) (*importer.Ticket, error) {
	if missing := c.MissingFiles(); len(missing) > 0 {
		return nil, zerr.With(zerr.Wrap(domain.ErrMissingInputFiles, "cannot rebuild"), "files", missing)
	}
	if err := c.validate(); err != nil {
		return nil, err
	}
	if err := c.invalidate(ctx); err != nil {
		return nil, err
	}

	c.deps.Logger.Info("rebuilding graph cache")
	return c.deps.Registry.Submit(domain.ImportJobName, c.newJob()), nil
}

// ForceRefreshCheck submits an import when the inputs changed since the last successful build.
// It does nothing when inputs are missing or unreadable, no version was saved,
// the inputs are unchanged or an import is already running.
// The returned ticket is nil when nothing was submitted.
func (c *Coordinator) ForceRefreshCheck(_ context.Context) *importer.Ticket {
	if len(c.MissingFiles()) > 0 || c.checkReadable() != nil {
		return nil
	}

	saved := c.deps.Store.Read(c.cfg.Layout().VersionFile())
	if saved == nil {
		return nil
	}

	current, err := c.deps.Store.Compute(c.cfg.OSMPath(), c.cfg.GTFSPath())
	if err != nil || saved.Equal(current) {
		return nil
	}

	ticket, submitted := c.deps.Registry.SubmitIfIdle(domain.ImportJobName, c.newJob())
	if !submitted {
		return nil
	}

	c.deps.Logger.Info(fmt.Sprintf("inputs changed (%s -> %s), refreshing graph cache", saved.ID(), current.ID()))
	return ticket
}

// MissingFiles returns the configured names of the inputs that are absent or not regular files.
func (c *Coordinator) MissingFiles() []string {
	var missing []string
	for _, in := range c.inputs() {
		info, err := os.Stat(in.path)
		if err != nil || !info.Mode().IsRegular() {
			missing = append(missing, in.name)
		}
	}
	return missing
}

// InputLastModified returns the modification time of the road-network extract.
func (c *Coordinator) InputLastModified() (time.Time, bool) {
	info, err := os.Stat(c.cfg.OSMPath())
	if err != nil {
		return time.Time{}, false
	}
	return info.ModTime(), true
}

// Clean cancels any import, waits for it to settle and removes the cache root.
func (c *Coordinator) Clean(ctx context.Context) error {
	if err := c.deps.Registry.CancelAndWait(ctx, domain.ImportJobName); err != nil {
		return err
	}
	c.deps.Handle.Reset()

	root := c.cfg.Layout().Root
	if err := os.RemoveAll(root); err != nil {
		return zerr.With(fmt.Errorf("%w: %w", domain.ErrCacheCleanFailed, err), "path", root)
	}
	c.deps.Logger.Info("removed " + root)
	return nil
}

// Route answers a query from the loaded graph.
func (c *Coordinator) Route(ctx context.Context, query domain.RouteQuery) (*domain.Itinerary, error) {
	if query.Profile == "" {
		query.Profile = query.Mode.Profile(c.cfg.Engine.Profile)
	}
	return c.deps.Handle.Route(ctx, query)
}

// validate runs the checks that must pass before anything is deleted or written.
func (c *Coordinator) validate() error {
	if err := c.checkReadable(); err != nil {
		return err
	}
	return c.checkDiskSpace()
}

func (c *Coordinator) checkReadable() error {
	for _, in := range c.inputs() {
		f, err := os.Open(in.path)
		if err != nil {
			return zerr.With(fmt.Errorf("%w: %w", domain.ErrUnreadableInputFiles, err), "file", in.name)
		}
		_ = f.Close()
	}
	return nil
}

func (c *Coordinator) checkDiskSpace() error {
	root := c.cfg.Layout().Root
	avail, err := c.deps.Disk.Available(root)
	if err != nil {
		return err
	}
	if avail < c.cfg.MinFreeSpace {
		msg := fmt.Sprintf("%s available, %s required", humanize.IBytes(avail), humanize.IBytes(c.cfg.MinFreeSpace))
		return zerr.With(zerr.With(zerr.Wrap(domain.ErrInsufficientDiskSpace, msg),
			"available", avail), "required", c.cfg.MinFreeSpace)
	}
	return nil
}

// invalidate stops any import and removes the graph and its version record.
func (c *Coordinator) invalidate(ctx context.Context) error {
	if err := c.deps.Registry.CancelAndWait(ctx, domain.ImportJobName); err != nil {
		return err
	}

	layout := c.cfg.Layout()
	for _, path := range []string{layout.GraphDir(), layout.VersionFile()} {
		if err := os.RemoveAll(path); err != nil {
			return zerr.With(fmt.Errorf("%w: %w", domain.ErrCacheCleanFailed, err), "path", path)
		}
	}
	c.deps.Handle.Reset()
	return nil
}

func (c *Coordinator) newJob() *importer.Job {
	return importer.NewJob(importer.Params{
		OSMPath:  c.cfg.OSMPath(),
		GTFSPath: c.cfg.GTFSPath(),
		Layout:   c.cfg.Layout(),
		Options:  c.cfg.Engine,
	}, importer.Deps{
		Engine: c.deps.Engine,
		Store:  c.deps.Store,
		Target: c.deps.Handle,
		Tracer: c.deps.Tracer,
		Logger: c.deps.Logger,
	})
}

// failure maps an error onto a terminal Error state.
func (c *Coordinator) failure(err error) domain.CacheState {
	switch {
	case err == nil:
		return domain.ErrorState("")
	case errors.Is(err, domain.ErrInsufficientDiskSpace):
		c.deps.Logger.Error(err)
		return domain.ErrorState(diskSpaceMessage(err))
	case errors.Is(err, domain.ErrUnreadableInputFiles):
		c.deps.Logger.Error(err)
		return domain.ErrorState(domain.ErrUnreadableInputFiles.Error())
	case errors.Is(err, domain.ErrCancelled), errors.Is(err, context.Canceled):
		return domain.ErrorState(domain.ErrCancelled.Error())
	default:
		return domain.ErrorState(err.Error())
	}
}

func diskSpaceMessage(err error) string {
	var zerrErr *zerr.Error
	if errors.As(err, &zerrErr) {
		md := zerrErr.Metadata()
		avail, okA := md["available"].(uint64)
		required, okR := md["required"].(uint64)
		if okA && okR {
			return fmt.Sprintf("%s: %s available, %s required",
				domain.ErrInsufficientDiskSpace.Error(), humanize.IBytes(avail), humanize.IBytes(required))
		}
	}
	return domain.ErrInsufficientDiskSpace.Error()
}

type input struct {
	name string
	path string
}

func (c *Coordinator) inputs() []input {
	return []input{
		{name: c.cfg.OSMFile, path: c.cfg.OSMPath()},
		{name: c.cfg.GTFSFile, path: c.cfg.GTFSPath()},
	}
}

func dirExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.IsDir()
}
