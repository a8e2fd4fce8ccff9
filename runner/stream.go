package runner

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"sync"

	"github.com/foundrykit/foundrykit/core"
)

// Source identifies which output stream a Line came from
type Source string

const (
	SourceStdout Source = "stdout"
	SourceStderr Source = "stderr"
)

// Line is one line of subprocess output tagged with its source stream
type Line struct {
	Source Source
	Text   string
}

// WaitFunc reports the final status of a streamed command. It must be
// called after the line channel is drained.
type WaitFunc func() error

// Stream starts a command and returns a channel of its output lines.
// The channel closes when both streams reach EOF; the returned WaitFunc
// then reports the exit status with the same classification as Run.
func (r *Runner) Stream(ctx context.Context, name string, args []string, opts ...RunOption) (<-chan Line, WaitFunc, error) {
	o := r.buildOptions(opts)
	cmd, cmdCtx, cancel := r.command(ctx, &o, name, args...)

	stdout, err := cmd.StdoutPipe()
	if err != nil {
		cancel()
		return nil, nil, fmt.Errorf("failed to open stdout pipe: %w", err)
	}
	stderr, err := cmd.StderrPipe()
	if err != nil {
		cancel()
		return nil, nil, fmt.Errorf("failed to open stderr pipe: %w", err)
	}

	if err := cmd.Start(); err != nil {
		cancel()
		return nil, nil, &core.FoundationError{
			Op:   "runner.Stream",
			Kind: "runner",
			ID:   name,
			Err:  err,
		}
	}

	r.logger.Debug("Streaming command", map[string]interface{}{
		"command": name,
		"pid":     cmd.Process.Pid,
	})

	lines := make(chan Line, 64)
	var wg sync.WaitGroup
	wg.Add(2)

	var scanMu sync.Mutex
	var scanErr error

	scan := func(src Source, reader io.Reader) {
		defer wg.Done()
		scanner := bufio.NewScanner(reader)
		scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
		for scanner.Scan() {
			lines <- Line{Source: src, Text: scanner.Text()}
		}
		if err := scanner.Err(); err != nil {
			scanMu.Lock()
			if scanErr == nil {
				scanErr = fmt.Errorf("reading %s: %w", src, err)
			}
			scanMu.Unlock()
		}
	}
	go scan(SourceStdout, stdout)
	go scan(SourceStderr, stderr)

	go func() {
		wg.Wait()
		close(lines)
	}()

	wait := func() error {
		defer cancel()
		if err := cmd.Wait(); err != nil {
			return classifyError(cmdCtx, err, name, &Result{})
		}
		// A scan failure truncates the stream even when the process
		// itself exited cleanly.
		scanMu.Lock()
		defer scanMu.Unlock()
		if scanErr != nil {
			return &core.FoundationError{
				Op:   "runner.Stream",
				Kind: "runner",
				ID:   name,
				Err:  scanErr,
			}
		}
		return nil
	}

	return lines, wait, nil
}
