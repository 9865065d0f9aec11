package importer

import (
	"context"
	"fmt"
	"sync"

	"go.trai.ch/graphcache/internal/core/domain"
	"go.trai.ch/zerr"
)

// Runnable is a unit of background work reporting progress in percent.
type Runnable interface {
	Run(ctx context.Context, report func(progress int)) error
}

// Registry runs at most one job per name.
// Submitting replaces: the predecessor is cancelled and the new job starts once it has settled.
type Registry struct {
	mu       sync.Mutex
	slots    map[string]*Ticket
	wg       sync.WaitGroup
	closed   bool
	notifyMu sync.Mutex
	observer func(domain.ImportJob)
}

// Ticket tracks one submitted job.
type Ticket struct {
	reg      *Registry
	cancel   context.CancelFunc
	done     chan struct{}
	snapshot domain.ImportJob
	err      error
}

// Done returns a channel closed when the job has settled.
func (t *Ticket) Done() <-chan struct{} {
	return t.done
}

// Err returns the error the job settled with, or nil while it is unsettled or after success.
func (t *Ticket) Err() error {
	t.reg.mu.Lock()
	defer t.reg.mu.Unlock()
	return t.err
}

// Snapshot returns the job's current state.
func (t *Ticket) Snapshot() domain.ImportJob {
	t.reg.mu.Lock()
	defer t.reg.mu.Unlock()
	return t.snapshot
}

// NewRegistry creates an empty Registry.
func NewRegistry() *Registry {
	return &Registry{slots: make(map[string]*Ticket)}
}

// SetObserver registers fn to receive every job state and progress change.
func (r *Registry) SetObserver(fn func(domain.ImportJob)) {
	r.notifyMu.Lock()
	defer r.notifyMu.Unlock()
	r.observer = fn
}

// Submit cancels any job registered under name and schedules job in its place.
func (r *Registry) Submit(name string, job Runnable) *Ticket {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.submitLocked(name, job)
}

// SubmitIfIdle schedules job only when no job under name is pending or running.
// Otherwise it returns the ticket of the outstanding job and false.
func (r *Registry) SubmitIfIdle(name string, job Runnable) (*Ticket, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if s := r.slots[name]; s != nil && !s.snapshot.State.Settled() {
		return s, false
	}
	return r.submitLocked(name, job), true
}

func (r *Registry) submitLocked(name string, job Runnable) *Ticket {
	var prevDone <-chan struct{}
	if prev := r.slots[name]; prev != nil {
		prev.cancel()
		prevDone = prev.done
	}

	ctx, cancel := context.WithCancel(context.Background())
	s := &Ticket{
		reg:      r,
		cancel:   cancel,
		done:     make(chan struct{}),
		snapshot: domain.ImportJob{Name: name, State: domain.JobPending},
	}
	r.slots[name] = s

	if r.closed {
		cancel()
	}

	r.wg.Add(1)
	go r.run(ctx, s, job, prevDone)

	return s
}

func (r *Registry) run(ctx context.Context, s *Ticket, job Runnable, prevDone <-chan struct{}) {
	defer r.wg.Done()
	defer s.cancel()

	if prevDone != nil {
		<-prevDone
	}

	if ctx.Err() != nil {
		r.settle(s, domain.ErrCancelled)
		return
	}

	r.update(s, func(j *domain.ImportJob) { j.State = domain.JobRunning })
	r.settle(s, r.runSafely(ctx, s, job))
}

func (r *Registry) runSafely(ctx context.Context, s *Ticket, job Runnable) (err error) {
	defer func() {
		if p := recover(); p != nil {
			err = zerr.With(zerr.New("import job panicked"), "panic", fmt.Sprint(p))
		}
	}()

	return job.Run(ctx, func(progress int) {
		r.update(s, func(j *domain.ImportJob) { j.Progress = progress })
	})
}

func (r *Registry) settle(s *Ticket, err error) {
	r.update(s, func(j *domain.ImportJob) {
		if err != nil {
			j.State = domain.JobFailed
			j.FailureMessage = err.Error()
			return
		}
		j.State = domain.JobSucceeded
	})

	r.mu.Lock()
	s.err = err
	close(s.done)
	r.mu.Unlock()
}

func (r *Registry) update(s *Ticket, mutate func(*domain.ImportJob)) {
	r.notifyMu.Lock()
	defer r.notifyMu.Unlock()

	r.mu.Lock()
	mutate(&s.snapshot)
	snapshot := s.snapshot
	r.mu.Unlock()

	if r.observer != nil {
		r.observer(snapshot)
	}
}

// IsImportRunning reports whether a job under name is pending or running.
func (r *Registry) IsImportRunning(name string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	s := r.slots[name]
	return s != nil && !s.snapshot.State.Settled()
}

// Snapshot returns the state of the latest job under name.
func (r *Registry) Snapshot(name string) (domain.ImportJob, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	s := r.slots[name]
	if s == nil {
		return domain.ImportJob{}, false
	}
	return s.snapshot, true
}

// Err returns the error of the latest settled job under name.
func (r *Registry) Err(name string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if s := r.slots[name]; s != nil {
		return s.err
	}
	return nil
}

// Done returns a channel closed when the latest job under name has settled.
// Without a job the channel is already closed.
func (r *Registry) Done(name string) <-chan struct{} {
	r.mu.Lock()
	defer r.mu.Unlock()

	if s := r.slots[name]; s != nil {
		return s.done
	}
	closed := make(chan struct{})
	close(closed)
	return closed
}

// Cancel requests cancellation of the job under name without waiting.
func (r *Registry) Cancel(name string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if s := r.slots[name]; s != nil {
		s.cancel()
	}
}

// CancelAndWait cancels the job under name and waits until it has settled, cleanup included.
func (r *Registry) CancelAndWait(ctx context.Context, name string) error {
	r.Cancel(name)

	select {
	case <-r.Done(name):
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Shutdown cancels every job and waits for all of them to settle.
// Jobs submitted afterwards settle as cancelled without running.
func (r *Registry) Shutdown(ctx context.Context) error {
	r.mu.Lock()
	r.closed = true
	for _, s := range r.slots {
		s.cancel()
	}
	r.mu.Unlock()

	done := make(chan struct{})
	go func() {
		r.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
