package engine

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"go.trai.ch/graphcache/internal/core/domain"
	"go.trai.ch/graphcache/internal/core/ports"
	"go.trai.ch/zerr"
)

// oomExitCode is the exit status of a process killed by the kernel OOM killer (128 + SIGKILL).
const oomExitCode = 137

// stderrTailSize is how much trailing stderr is kept for error reporting.
const stderrTailSize = 4096

// waitDelay bounds how long output copying may continue after the process is killed.
const waitDelay = 5 * time.Second

var oomMarkers = []string{"OutOfMemoryError", "out of memory", "Cannot allocate memory"}

// invocation describes a single engine process run.
type invocation struct {
	argv   []string
	env    map[string]string
	stdin  io.Reader
	stdout io.Writer
	log    bool
}

func (e *Engine) run(ctx context.Context, inv invocation) error {
	if len(inv.argv) == 0 {
		return domain.ErrEngineNotConfigured
	}

	name := inv.argv[0]
	args := inv.argv[1:]

	cmdEnv := resolveEnvironment(os.Environ(), inv.env)

	executable := name
	if !filepath.IsAbs(name) {
		if lp, err := lookPath(name, cmdEnv); err == nil {
			executable = lp
		}
	}

	cmd := exec.CommandContext(ctx, executable, args...) //nolint:gosec // command comes from user configuration
	if len(cmd.Args) > 0 {
		cmd.Args[0] = name
	}
	cmd.Env = cmdEnv
	cmd.Stdin = inv.stdin
	cmd.WaitDelay = waitDelay
	configureCommandProcess(cmd)
	cmd.Cancel = func() error {
		terminateCommandProcess(cmd)
		return nil
	}

	tail := &tailBuffer{limit: stderrTailSize}
	var stdoutLog, stderrLog *logWriter
	stdout := inv.stdout
	stderr := io.Writer(tail)
	if inv.log {
		stdoutLog = &logWriter{logger: e.logger, level: "info"}
		stderrLog = &logWriter{logger: e.logger, level: "warn"}
		stdout = multiWriter(stdoutLog, inv.stdout)
		stderr = io.MultiWriter(stderrLog, tail)
	}
	if stdout == nil {
		stdout = io.Discard
	}
	cmd.Stdout = stdout
	cmd.Stderr = stderr

	err := cmd.Run()

	if stdoutLog != nil {
		_ = stdoutLog.Close()
		_ = stderrLog.Close()
	}

	if err == nil {
		return nil
	}

	if ctxErr := ctx.Err(); ctxErr != nil {
		return fmt.Errorf("%w: %w", domain.ErrCancelled, ctxErr)
	}

	exitCode := -1
	killed := false
	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		exitCode = exitErr.ExitCode()
		killed = killedByKernel(exitErr)
	}

	detail := strings.TrimSpace(tail.String())
	if killed || exitCode == oomExitCode || containsAny(detail, oomMarkers) {
		return zerr.With(fmt.Errorf("%w: %w", domain.ErrOutOfMemory, err), "exit_code", exitCode)
	}

	failure := zerr.Wrap(err, "command failed")
	if detail != "" {
		failure = zerr.Wrap(err, "command failed: "+lastLine(detail))
	}
	return zerr.With(zerr.With(failure, "exit_code", exitCode), "command", name)
}

func multiWriter(log io.Writer, out io.Writer) io.Writer {
	if out == nil {
		return log
	}
	return io.MultiWriter(log, out)
}

func containsAny(s string, markers []string) bool {
	for _, m := range markers {
		if strings.Contains(s, m) {
			return true
		}
	}
	return false
}

func lastLine(s string) string {
	if i := strings.LastIndexByte(s, '\n'); i >= 0 {
		return strings.TrimSpace(s[i+1:])
	}
	return s
}

// tailBuffer keeps the last limit bytes written to it.
type tailBuffer struct {
	mu    sync.Mutex
	buf   []byte
	limit int
}

func (t *tailBuffer) Write(p []byte) (int, error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.buf = append(t.buf, p...)
	if over := len(t.buf) - t.limit; over > 0 {
		t.buf = t.buf[over:]
	}
	return len(p), nil
}

func (t *tailBuffer) String() string {
	t.mu.Lock()
	defer t.mu.Unlock()
	return string(t.buf)
}

// logWriter forwards complete lines of process output to the logger.
type logWriter struct {
	logger ports.Logger
	level  string
	buf    []byte
}

func (w *logWriter) Write(p []byte) (n int, err error) {
	w.buf = append(w.buf, p...)

	for {
		i := bytes.IndexByte(w.buf, '\n')
		if i < 0 {
			break
		}

		w.logLine(w.buf[:i])
		w.buf = w.buf[i+1:]
	}

	return len(p), nil
}

func (w *logWriter) Close() error {
	if len(w.buf) > 0 {
		w.logLine(w.buf)
		w.buf = nil
	}
	return nil
}

func (w *logWriter) logLine(line []byte) {
	msg := strings.TrimSuffix(string(line), "\r")
	if msg == "" {
		return
	}

	if w.level == "info" {
		w.logger.Info(msg)
	} else {
		w.logger.Warn(msg)
	}
}

// allowListedEnvVars are the system environment variables inherited by engine processes.
var allowListedEnvVars = map[string]struct{}{
	"HOME":      {},
	"TERM":      {},
	"USER":      {},
	"PATH":      {},
	"TMPDIR":    {},
	"LANG":      {},
	"JAVA_HOME": {},
}

// resolveEnvironment keeps allow-listed system variables and applies overrides on top.
func resolveEnvironment(sysEnv []string, overrides map[string]string) []string {
	envMap := make(map[string]string)
	for _, entry := range sysEnv {
		k, v, ok := strings.Cut(entry, "=")
		if !ok {
			continue
		}
		if _, allowed := allowListedEnvVars[k]; allowed {
			envMap[k] = v
		}
	}

	for k, v := range overrides {
		envMap[k] = v
	}

	result := make([]string, 0, len(envMap))
	for k, v := range envMap {
		result = append(result, k+"="+v)
	}
	return result
}

// lookPath searches for an executable in the directories named by PATH in env.
func lookPath(file string, env []string) (string, error) {
	var path string
	for _, e := range env {
		if strings.HasPrefix(e, "PATH=") {
			path = strings.TrimPrefix(e, "PATH=")
			break
		}
	}

	if path == "" {
		return "", exec.ErrNotFound
	}

	for _, dir := range filepath.SplitList(path) {
		if dir == "" {
			// Unix shell semantics: path element "" means "."
			dir = "."
		}
		candidate := filepath.Join(dir, file)
		if err := findExecutable(candidate); err == nil {
			return candidate, nil
		}
	}
	return "", exec.ErrNotFound
}

func findExecutable(file string) error {
	d, err := os.Stat(file)
	if err != nil {
		return err
	}
	if m := d.Mode(); !m.IsDir() && m&0o111 != 0 {
		return nil
	}
	return os.ErrPermission
}
