// Package runner provides thin, context-aware subprocess helpers:
// capture a command's output (Run), stream it line by line (Stream),
// or go through the configured shell (Shell). Timeouts are forwarded
// to the process context; no retry or recovery logic lives here.
package runner

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"strings"
	"time"

	"github.com/foundrykit/foundrykit/core"
)

// stderrTailLimit bounds the stderr excerpt carried inside an ExitError.
const stderrTailLimit = 4096

// Result captures a finished subprocess
type Result struct {
	Stdout   string
	Stderr   string
	ExitCode int
	Duration time.Duration
}

// ExitError reports a subprocess that ran but exited non-zero.
// It carries the exit code and a stderr tail for diagnostics.
type ExitError struct {
	Command  string
	ExitCode int
	Stderr   string
}

func (e *ExitError) Error() string {
	if e.Stderr != "" {
		return fmt.Sprintf("command %q exited with code %d: %s", e.Command, e.ExitCode, e.Stderr)
	}
	return fmt.Sprintf("command %q exited with code %d", e.Command, e.ExitCode)
}

// Unwrap makes the error match core.ErrProcessFailed via errors.Is
func (e *ExitError) Unwrap() error {
	return core.ErrProcessFailed
}

type runOptions struct {
	env     []string
	dir     string
	stdin   io.Reader
	timeout time.Duration
}

// RunOption configures a single subprocess invocation
type RunOption func(*runOptions)

// WithEnv appends KEY=VALUE pairs to the inherited environment
func WithEnv(pairs ...string) RunOption {
	return func(o *runOptions) {
		o.env = append(o.env, pairs...)
	}
}

// WithDir sets the working directory
func WithDir(dir string) RunOption {
	return func(o *runOptions) {
		o.dir = dir
	}
}

// WithStdin supplies the process's standard input
func WithStdin(r io.Reader) RunOption {
	return func(o *runOptions) {
		o.stdin = r
	}
}

// WithTimeout bounds the invocation, overriding the runner's default.
// Zero means no timeout.
func WithTimeout(timeout time.Duration) RunOption {
	return func(o *runOptions) {
		o.timeout = timeout
	}
}

// Runner executes subprocesses using the runner section of a Config
// for its default timeout and shell path.
type Runner struct {
	cfg    *core.Config
	logger core.Logger
}

// NewRunner creates a runner. A nil config gets defaults; a nil logger
// is replaced with a no-op.
func NewRunner(cfg *core.Config, logger core.Logger) *Runner {
	if cfg == nil {
		cfg = core.DefaultConfig()
	}
	if logger == nil {
		logger = &core.NoOpLogger{}
	}
	return &Runner{cfg: cfg, logger: logger}
}

func (r *Runner) buildOptions(opts []RunOption) runOptions {
	o := runOptions{timeout: r.cfg.Runner.DefaultTimeout}
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

func (r *Runner) command(ctx context.Context, o *runOptions, name string, args ...string) (*exec.Cmd, context.Context, context.CancelFunc) {
	cancel := func() {}
	if o.timeout > 0 {
		ctx, cancel = context.WithTimeout(ctx, o.timeout)
	}
	cmd := exec.CommandContext(ctx, name, args...) // #nosec G204 -- command comes from the caller by design
	if len(o.env) > 0 {
		cmd.Env = append(os.Environ(), o.env...)
	}
	cmd.Dir = o.dir
	cmd.Stdin = o.stdin
	return cmd, ctx, cancel
}

// Run executes a command and captures its output. A non-zero exit
// returns both the populated Result and an *ExitError.
func (r *Runner) Run(ctx context.Context, name string, args []string, opts ...RunOption) (*Result, error) {
	o := r.buildOptions(opts)
	cmd, cmdCtx, cancel := r.command(ctx, &o, name, args...)
	defer cancel()

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	r.logger.Debug("Running command", map[string]interface{}{
		"command": name,
		"args":    strings.Join(args, " "),
		"timeout": o.timeout.String(),
	})

	start := time.Now()
	err := cmd.Run()
	result := &Result{
		Stdout:   stdout.String(),
		Stderr:   stderr.String(),
		Duration: time.Since(start),
	}

	if err == nil {
		return result, nil
	}
	return result, classifyError(cmdCtx, err, name, result)
}

// Shell executes a command line through the configured shell
func (r *Runner) Shell(ctx context.Context, command string, opts ...RunOption) (*Result, error) {
	return r.Run(ctx, r.cfg.Runner.ShellPath, []string{"-c", command}, opts...)
}

// classifyError maps a cmd.Run/Wait failure onto the library's error
// vocabulary. Context expiry wins over the exit status the kill caused.
func classifyError(cmdCtx context.Context, err error, name string, result *Result) error {
	switch {
	case errors.Is(cmdCtx.Err(), context.DeadlineExceeded):
		result.ExitCode = -1
		return fmt.Errorf("command %q timed out: %w", name, core.ErrTimeout)
	case errors.Is(cmdCtx.Err(), context.Canceled):
		result.ExitCode = -1
		return fmt.Errorf("command %q canceled: %w", name, core.ErrContextCanceled)
	}

	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		result.ExitCode = exitErr.ExitCode()
		return &ExitError{
			Command:  name,
			ExitCode: exitErr.ExitCode(),
			Stderr:   tail(result.Stderr, stderrTailLimit),
		}
	}

	result.ExitCode = -1
	return &core.FoundationError{
		Op:   "runner.Run",
		Kind: "runner",
		ID:   name,
		Err:  err,
	}
}

func tail(s string, limit int) string {
	s = strings.TrimSpace(s)
	if len(s) <= limit {
		return s
	}
	return s[len(s)-limit:]
}
