package cli

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/matzehuels/pinmap/pkg/buildinfo"
	"github.com/matzehuels/pinmap/pkg/cache"
	"github.com/matzehuels/pinmap/pkg/config"
	"github.com/matzehuels/pinmap/pkg/httputil"
	"github.com/matzehuels/pinmap/pkg/mapfile"
	"github.com/matzehuels/pinmap/pkg/observability"
	"github.com/matzehuels/pinmap/pkg/pipeline"
)

// =============================================================================
// Constants
// =============================================================================

// appName is the application name used for directories and display.
const appName = "pinmap"

// assetsDir is the subdirectory of the cache directory holding downloaded
// map images.
const assetsDir = "assets"

// Log levels exported for use in main.go.
const (
	LogDebug = log.DebugLevel
	LogInfo  = log.InfoLevel
)

// =============================================================================
// CLI - Central CLI State
// =============================================================================

// CLI holds shared state for all commands.
type CLI struct {
	Logger *log.Logger

	// Config is loaded before any command runs.
	Config config.Config

	configPath string
	verbose    bool
}

// New creates a new CLI instance with a default logger.
func New(w io.Writer, level log.Level) *CLI {
	return &CLI{
		Logger: newLogger(w, level),
		Config: config.Default(),
	}
}

// SetLogLevel updates the logger's level.
func (c *CLI) SetLogLevel(level log.Level) {
	c.Logger.SetLevel(level)
}

// RootCommand creates the root cobra command with all subcommands registered.
func (c *CLI) RootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:   appName,
		Short: "Pinmap lays out icons on images and browses their media",
		Long: `Pinmap anchors icons to an image by percentage, keeps them anchored as the
image is resized and zoomed, and renders the result as SVG, PNG or JSON.
Maps can be browsed in the terminal or served over HTTP.`,
		Version:           buildinfo.Get().Version,
		SilenceUsage:      true,
		PersistentPreRunE: c.setup,
	}

	root.SetVersionTemplate(buildinfo.Template())
	root.PersistentFlags().BoolVarP(&c.verbose, "verbose", "v", false, "enable verbose logging")
	root.PersistentFlags().StringVar(&c.configPath, "config", "", "settings file (default: $XDG_CONFIG_HOME/pinmap/config.toml)")

	// Register all subcommands
	root.AddCommand(c.infoCommand())
	root.AddCommand(c.layoutCommand())
	root.AddCommand(c.renderCommand())
	root.AddCommand(c.viewCommand())
	root.AddCommand(c.mapCommand())
	root.AddCommand(c.serveCommand())
	root.AddCommand(c.cacheCommand())
	root.AddCommand(c.configCommand())
	root.AddCommand(c.completionCommand())

	return root
}

// setup applies --verbose and loads the settings file.
func (c *CLI) setup(cmd *cobra.Command, _ []string) error {
	if c.verbose {
		c.SetLogLevel(LogDebug)
		observability.InstallLogHooks(c.Logger)
	}
	path, required := c.configPath, c.configPath != ""
	if path == "" {
		p, err := config.DefaultPath()
		if err != nil {
			c.Logger.Debug("no settings path", "err", err)
			return nil
		}
		path = p
	}
	cfg, err := config.Load(path, required)
	if err != nil {
		return err
	}
	c.Config = cfg
	c.Logger.Debug("settings", "path", path)
	return nil
}

// =============================================================================
// Runner Factory
// =============================================================================

// newRunner creates a pipeline runner for CLI use.
func (c *CLI) newRunner(ctx context.Context, noCache bool) (*pipeline.Runner, error) {
	cc, err := c.newCache(ctx, noCache)
	if err != nil {
		return nil, err
	}
	keyer := cache.NewScopedKeyer(cache.NewDefaultKeyer(), c.Config.Cache.Prefix)
	r := pipeline.NewRunner(cc, keyer, c.Logger)
	if f := c.newFetcher(); f != nil {
		r.Assets = f
	}
	return r, nil
}

// newFetcher returns a fetcher for remote map images stored under the
// cache directory, or nil if the directory is unusable.
func (c *CLI) newFetcher() *httputil.Fetcher {
	store, err := c.assetStore()
	if err != nil {
		c.Logger.Debug("remote images disabled", "err", err)
		return nil
	}
	return httputil.NewFetcher(store, c.Logger)
}

// assetStore opens the store for downloaded images. It lives in the file
// cache directory whatever the render cache backend.
func (c *CLI) assetStore() (*httputil.Store, error) {
	dir, err := c.cacheDir()
	if err != nil {
		return nil, err
	}
	return httputil.NewStore(filepath.Join(dir, assetsDir), httputil.DefaultTTL)
}

// localize downloads the remote images def references, for commands that
// read images without a runner.
func (c *CLI) localize(ctx context.Context, def *mapfile.Definition) error {
	r := pipeline.NewRunner(nil, nil, c.Logger)
	if f := c.newFetcher(); f != nil {
		r.Assets = f
	}
	return r.Localize(ctx, def)
}

// newCache opens the configured backend. An unreachable Redis falls back
// to no caching with a warning.
func (c *CLI) newCache(ctx context.Context, noCache bool) (cache.Cache, error) {
	cfg := c.Config.Cache
	if noCache || cfg.Backend == config.BackendNone {
		return cache.NewNullCache(), nil
	}
	if cfg.Backend == config.BackendRedis {
		rc, err := cache.NewRedisCache(ctx, cfg.RedisAddr)
		if err != nil {
			c.Logger.Warn("redis unavailable, caching disabled", "addr", cfg.RedisAddr, "err", err)
			return cache.NewNullCache(), nil
		}
		return rc, nil
	}
	dir, err := c.cacheDir()
	if err != nil {
		return cache.NewNullCache(), nil
	}
	fc, err := cache.NewFileCache(dir)
	if err != nil {
		return nil, err
	}
	return fc, nil
}

// =============================================================================
// Paths
// =============================================================================

// cacheDir returns the file cache directory: the configured one, or the
// user cache directory.
func (c *CLI) cacheDir() (string, error) {
	if c.Config.Cache.Dir != "" {
		return c.Config.Cache.Dir, nil
	}
	return cache.DefaultDir()
}

// resolveMap accepts a definition path, or a map name looked up in the
// configured maps directory.
func (c *CLI) resolveMap(arg string) (string, error) {
	if _, err := os.Stat(arg); err == nil {
		return arg, nil
	}
	if _, err := mapfile.FormatOf(arg); err == nil {
		return arg, nil // let Load report the missing file
	}
	return mapfile.Find(c.Config.Server.MapsDir, arg)
}

// loadMap resolves arg and reads the definition, filling layout fields it
// leaves unset from the settings file.
func (c *CLI) loadMap(arg string) (*mapfile.Definition, error) {
	path, err := c.resolveMap(arg)
	if err != nil {
		return nil, err
	}
	def, err := mapfile.Load(path)
	if err != nil {
		return nil, err
	}
	c.Config.Layout.Apply(def)
	return def, nil
}

// =============================================================================
// Options Helpers
// =============================================================================

// baseOptions returns pipeline options seeded from the settings file.
func (c *CLI) baseOptions() pipeline.Options {
	cfg := c.Config
	return pipeline.Options{
		Width:  cfg.Viewport.Width,
		Height: cfg.Viewport.Height,
		Tier:   cfg.Viewport.Tier,
		Logger: c.Logger,
	}
}

// parseFormats parses a comma-separated format string into a slice.
func parseFormats(s string) []string {
	if s == "" {
		return []string{pipeline.FormatSVG}
	}
	var out []string
	for _, f := range strings.Split(s, ",") {
		if f = strings.TrimSpace(f); f != "" {
			out = append(out, f)
		}
	}
	return out
}
