// Package linear provides a synchronous, line-buffered renderer for terminals and CI logs.
package linear

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"sync"
	"time"

	"github.com/muesli/termenv"
	"go.trai.ch/graphcache/internal/core/domain"
	"go.trai.ch/graphcache/internal/ui/output"
	"go.trai.ch/graphcache/internal/ui/style"
)

// Renderer implements ports.Renderer with chronological, prefixed log lines.
// Lifecycle lines go to stderr and traced output goes to stdout.
type Renderer struct {
	stdout io.Writer
	stderr io.Writer
	output *termenv.Output
	quiet  bool

	mu       sync.Mutex
	tasks    map[string]*taskState
	progress map[string]int
}

type taskState struct {
	name      string
	startTime time.Time
	buffer    bytes.Buffer
}

// Option configures a Renderer.
type Option func(*Renderer)

// WithQuiet suppresses everything except failures.
func WithQuiet() Option {
	return func(r *Renderer) { r.quiet = true }
}

// WithProfile selects the color profile used for lifecycle lines.
func WithProfile(profileFn output.ProfileFunc) Option {
	return func(r *Renderer) {
		r.output = output.NewWithProfile(r.stderr, profileFn)
	}
}

// NewRenderer creates a new Renderer. Nil writers default to the process streams.
func NewRenderer(stdout, stderr io.Writer, opts ...Option) *Renderer {
	if stdout == nil {
		stdout = os.Stdout
	}
	if stderr == nil {
		stderr = os.Stderr
	}

	r := &Renderer{
		stdout:   stdout,
		stderr:   stderr,
		tasks:    make(map[string]*taskState),
		progress: make(map[string]int),
	}
	r.output = output.NewWithProfile(stderr, output.ColorProfileANSI)

	for _, opt := range opts {
		opt(r)
	}

	return r
}

// Stop flushes every partial line still buffered.
func (r *Renderer) Stop() error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, task := range r.tasks {
		r.flushBufferLocked(task)
	}

	return nil
}

// OnState prints a cache state line.
func (r *Renderer) OnState(state domain.CacheState) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.quiet && state.Kind != domain.StateError && state.Kind != domain.StateMissingFiles {
		return
	}

	icon, color := style.ForState(state.Kind)
	symbol := r.output.String(icon).Foreground(r.output.Color(string(color))).String()
	_, _ = fmt.Fprintf(r.stderr, "%s %s\n", symbol, state.String())
}

// OnProgress prints the job's progress when it changes.
func (r *Renderer) OnProgress(job domain.ImportJob) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.quiet {
		return
	}

	if last, ok := r.progress[job.Name]; ok && last == job.Progress && !job.State.Settled() {
		return
	}
	r.progress[job.Name] = job.Progress

	prefix := r.output.String(fmt.Sprintf("[%s]", job.Name)).Faint().String()
	if !job.State.Settled() {
		_, _ = fmt.Fprintf(r.stderr, "%s %3d%%\n", prefix, job.Progress)
		return
	}
	delete(r.progress, job.Name)

	icon, color := style.ForJob(job.State)
	symbol := r.output.String(icon).Foreground(r.output.Color(string(color))).String()
	if job.State == domain.JobFailed {
		_, _ = fmt.Fprintf(r.stderr, "%s %s %s at %d%%: %s\n", prefix, symbol, job.State, job.Progress, job.FailureMessage)
		return
	}
	_, _ = fmt.Fprintf(r.stderr, "%s %s %s\n", prefix, symbol, job.State)
}

// OnTaskStart prints a task start message.
func (r *Renderer) OnTaskStart(spanID, _ /* parentID */, name string, startTime time.Time) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.tasks[spanID] = &taskState{
		name:      name,
		startTime: startTime,
	}

	if r.quiet {
		return
	}

	prefix := r.output.String(fmt.Sprintf("[%s]", name)).Faint().String()
	_, _ = fmt.Fprintf(r.stderr, "%s Starting...\n", prefix)
}

// OnTaskLog buffers log data and prints complete lines with the task prefix.
func (r *Renderer) OnTaskLog(spanID string, data []byte) {
	r.mu.Lock()
	defer r.mu.Unlock()

	task, ok := r.tasks[spanID]
	if !ok {
		return
	}

	task.buffer.Write(data)
	for {
		idx := bytes.IndexByte(task.buffer.Bytes(), '\n')
		if idx < 0 {
			break
		}
		r.printLineLocked(task.name, task.buffer.Next(idx+1))
	}
}

// OnTaskComplete flushes the remaining buffer and prints the completion status.
func (r *Renderer) OnTaskComplete(spanID string, endTime time.Time, err error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	task, ok := r.tasks[spanID]
	if !ok {
		return
	}
	delete(r.tasks, spanID)

	r.flushBufferLocked(task)

	if r.quiet && err == nil {
		return
	}

	duration := endTime.Sub(task.startTime)
	prefix := fmt.Sprintf("[%s]", task.name)

	if err != nil {
		symbol := r.output.String(style.Cross).Foreground(r.output.Color(string(style.Red))).String()
		_, _ = fmt.Fprintf(r.stderr, "%s %s Failed after %v: %v\n", prefix, symbol, duration, err)
		return
	}

	symbol := r.output.String(style.Check).Foreground(r.output.Color(string(style.Green))).String()
	_, _ = fmt.Fprintf(r.stderr, "%s %s Completed in %v\n", prefix, symbol, duration)
}

// flushBufferLocked prints a trailing partial line. Must be called with r.mu held.
func (r *Renderer) flushBufferLocked(task *taskState) {
	if task.buffer.Len() > 0 {
		r.printLineLocked(task.name, task.buffer.Bytes())
		task.buffer.Reset()
	}
}

// printLineLocked prints a line with the task name prefix. Must be called with r.mu held.
func (r *Renderer) printLineLocked(taskName string, line []byte) {
	line = bytes.TrimSuffix(line, []byte("\n"))
	line = bytes.TrimSuffix(line, []byte("\r"))

	if len(line) == 0 || r.quiet {
		return
	}

	_, _ = fmt.Fprintf(r.stdout, "[%s] %s\n", taskName, line)
}
