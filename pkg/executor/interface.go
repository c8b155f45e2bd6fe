package executor

import "context"

// Executor defines the interface for executing external commands
type Executor interface {
	// Execute runs a command to completion and returns its stdout.
	Execute(ctx context.Context, name string, args ...string) (string, error)
	// Start launches a long-running command and returns without waiting.
	Start(ctx context.Context, name string, args ...string) (Process, error)
}

// Process is a command started with Start.
type Process interface {
	// Stop terminates the process and waits for it to exit.
	Stop() error
	// Done is closed once the process has exited.
	Done() <-chan struct{}
}
