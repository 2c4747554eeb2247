package cli

import (
	"context"
	"io"
)

// Execute runs the pinmap CLI and returns an error if any command fails.
// This is the main entry point for the CLI application.
//
// Logging:
//   - Default: info level (logs to w)
//   - With --verbose (-v): debug level
func Execute(ctx context.Context, w io.Writer) error {
	c := New(w, LogInfo)
	return c.RootCommand().ExecuteContext(ctx)
}
