package process

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os/exec"
	"sort"
	"strings"
	"syscall"
	"time"
	"unicode/utf8"

	"github.com/aretw0/mlpipe/pkg/domain"
)

// DefaultGracePeriod is how long a cancelled stage may take to exit after SIGTERM
// before it is killed.
const DefaultGracePeriod = 5 * time.Second

// stderrTail bounds the stderr excerpt kept for error messages.
const stderrTail = 2048

// Runner implements ports.StageExecutor by executing local processes.
// Only stages present in its registry can be run.
type Runner struct {
	registry    map[domain.StageName]StageConfig
	baseDir     string
	timeout     time.Duration
	gracePeriod time.Duration
	stdout      io.Writer
	stderr      io.Writer
}

// RunnerOption configures the runner.
type RunnerOption func(*Runner)

// WithRegistry populates the allow-list from a loaded config.
func WithRegistry(reg Registry) RunnerOption {
	return func(r *Runner) {
		for name, st := range reg.Stages {
			r.registry[name] = st
		}
	}
}

// WithBaseDir sets the working directory for executed processes.
func WithBaseDir(dir string) RunnerOption {
	return func(r *Runner) {
		r.baseDir = dir
	}
}

// WithTimeout bounds every stage that does not set its own timeout.
// Zero means no limit.
func WithTimeout(d time.Duration) RunnerOption {
	return func(r *Runner) {
		r.timeout = d
	}
}

// WithGracePeriod overrides DefaultGracePeriod.
func WithGracePeriod(d time.Duration) RunnerOption {
	return func(r *Runner) {
		r.gracePeriod = d
	}
}

// WithOutput mirrors the child's stdout and stderr to the given writers
// in addition to capturing them.
func WithOutput(stdout, stderr io.Writer) RunnerOption {
	return func(r *Runner) {
		r.stdout = stdout
		r.stderr = stderr
	}
}

// NewRunner creates a new process runner.
func NewRunner(opts ...RunnerOption) *Runner {
	r := &Runner{
		registry:    make(map[domain.StageName]StageConfig),
		gracePeriod: DefaultGracePeriod,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Register adds a trusted command for a stage to the allow-list.
func (r *Runner) Register(stage domain.StageName, command string, args ...string) {
	r.registry[stage] = StageConfig{
		Name:    string(stage),
		Command: command,
		Args:    args,
	}
}

// Execute runs the command registered for inv.Stage with inv.Args appended.
// A process that starts and exits non-zero yields a result with its exit code
// and a nil error.
func (r *Runner) Execute(ctx context.Context, inv domain.Invocation) (domain.ExecResult, error) {
	proc, ok := r.registry[inv.Stage]
	if !ok {
		return domain.ExecResult{}, fmt.Errorf("stage not registered: %s", inv.Stage)
	}

	timeout := proc.Timeout
	if timeout == 0 {
		timeout = r.timeout
	}
	if timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}

	args := append(append([]string{}, proc.Args...), inv.Args...)
	cmd := exec.CommandContext(ctx, proc.Command, args...)
	cmd.Dir = r.baseDir

	// Give the child a chance to flush before it is killed.
	cmd.Cancel = func() error {
		return cmd.Process.Signal(syscall.SIGTERM)
	}
	cmd.WaitDelay = r.gracePeriod

	env := make([]string, 0, len(proc.Environment))
	keys := make([]string, 0, len(proc.Environment))
	for k := range proc.Environment {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		env = append(env, fmt.Sprintf("%s=%s", k, proc.Environment[k]))
	}
	cmd.Env = append(cmd.Environ(), env...)

	var stdout, stderr bytes.Buffer
	cmd.Stdout = tee(&stdout, r.stdout)
	cmd.Stderr = tee(&stderr, r.stderr)

	err := cmd.Run()

	result := domain.ExecResult{
		Stdout: stdout.String(),
		Stderr: tail(stderr.String(), stderrTail),
	}

	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			// Killed by us: surface the cancellation, not the signal.
			result.ExitCode = -1
			return result, fmt.Errorf("%s: %w", proc.Command, ctxErr)
		}
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			result.ExitCode = exitErr.ExitCode()
			return result, nil
		}
		return result, fmt.Errorf("%s: %w", proc.Command, err)
	}

	return result, nil
}

func tee(buf *bytes.Buffer, w io.Writer) io.Writer {
	if w == nil {
		return buf
	}
	return io.MultiWriter(buf, w)
}

func tail(s string, n int) string {
	s = strings.TrimSpace(s)
	if len(s) <= n {
		return s
	}
	cut := len(s) - n
	for cut < len(s) && !utf8.RuneStart(s[cut]) {
		cut++
	}
	return "..." + s[cut:]
}
