package runner

import (
	"context"
	"sync"
)

var (
	defaultOnce   sync.Once
	defaultRunner *Runner
)

// Default returns the process-wide runner, built from DefaultConfig
// on first use
func Default() *Runner {
	defaultOnce.Do(func() {
		defaultRunner = NewRunner(nil, nil)
	})
	return defaultRunner
}

// Run executes a command with the default runner
func Run(ctx context.Context, name string, args []string, opts ...RunOption) (*Result, error) {
	return Default().Run(ctx, name, args, opts...)
}

// Shell executes a command line through the default runner's shell
func Shell(ctx context.Context, command string, opts ...RunOption) (*Result, error) {
	return Default().Shell(ctx, command, opts...)
}

// Stream streams a command's output with the default runner
func Stream(ctx context.Context, name string, args []string, opts ...RunOption) (<-chan Line, WaitFunc, error) {
	return Default().Stream(ctx, name, args, opts...)
}
