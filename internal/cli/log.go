// Package cli implements the pinmap command-line interface.
//
// This package provides commands for laying out and rendering image maps,
// browsing them in the terminal, serving them over HTTP and managing the
// render cache. The CLI is built using cobra and logs via the
// charmbracelet/log library.
//
// # Commands
//
// The main commands are:
//   - layout: Print icon placements for a viewport size
//   - render: Generate SVG, PNG or JSON output, optionally re-rendering on change
//   - view: Browse a map's media in the terminal
//   - map: Explore a map's icons in the terminal
//   - serve: Serve a directory of maps over HTTP
//   - cache, config: Manage the render cache and the settings file
//
// # Logging
//
// All commands support --verbose (-v) for debug-level logging, which also
// logs layout, navigation and cache events.
//
// # Example
//
//	import "github.com/matzehuels/pinmap/internal/cli"
//
//	func main() {
//	    if err := cli.Execute(context.Background(), os.Stderr); err != nil {
//	        os.Exit(1)
//	    }
//	}
package cli

import (
	"io"
	"strings"
	"time"

	"github.com/charmbracelet/log"
)

// newLogger returns the CLI logger. Records carry a "15:04:05.00"
// timestamp and are filtered at level.
func newLogger(w io.Writer, level log.Level) *log.Logger {
	return log.NewWithOptions(w, log.Options{
		ReportTimestamp: true,
		TimeFormat:      "15:04:05.00",
		Level:           level,
	})
}

// progress times one command invocation and the named stages within it.
// Not safe for concurrent use.
type progress struct {
	logger *log.Logger
	start  time.Time
	last   time.Time
	stages []string
	took   []time.Duration
}

func newProgress(l *log.Logger) *progress {
	now := time.Now()
	return &progress{logger: l, start: now, last: now}
}

// mark closes the current stage under name and logs it at debug level.
func (p *progress) mark(name string) {
	now := time.Now()
	d := now.Sub(p.last).Round(time.Millisecond)
	p.last = now
	p.stages = append(p.stages, name)
	p.took = append(p.took, d)
	p.logger.Debug("stage", "name", name, "took", d)
}

// breakdown formats the marked stages, e.g. "load 3ms, render 12ms".
func (p *progress) breakdown() string {
	parts := make([]string, len(p.stages))
	for i, name := range p.stages {
		parts[i] = name + " " + p.took[i].String()
	}
	return strings.Join(parts, ", ")
}

// done logs msg with the total elapsed time, e.g. "Rendered harbor (15ms)".
func (p *progress) done(msg string) {
	total := time.Since(p.start).Round(time.Millisecond)
	if len(p.stages) == 0 {
		p.logger.Infof("%s (%s)", msg, total)
		return
	}
	p.logger.Info(msg, "took", total, "stages", p.breakdown())
}
