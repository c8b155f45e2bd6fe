package chatlog

import "context"

// Source retrieves chat transcripts for a talker (group or contact name).
type Source interface {
	// Fetch returns the transcript for talker within r. An empty string means
	// the talker had no messages in the range.
	Fetch(ctx context.Context, talker string, r DateRange) (string, error)
}

// Server makes sure the local chatlog HTTP server is reachable.
type Server interface {
	// EnsureRunning refreshes the decrypted databases and starts the server
	// if it is not already up. The returned stop function
	// shuts down a server this call started and is a no-op otherwise.
	EnsureRunning(ctx context.Context) (stop func() error, err error)
}
