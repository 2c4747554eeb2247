package pipeline

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/pinmap/pkg/cache"
	"github.com/matzehuels/pinmap/pkg/iconmap"
	"github.com/matzehuels/pinmap/pkg/mapfile"
	"github.com/matzehuels/pinmap/pkg/observability"
	"github.com/matzehuels/pinmap/pkg/viewport"
)

// Runner encapsulates pipeline execution with caching.
// Both CLI and server use this to avoid duplicating caching logic.
//
// The Runner is stateless except for the cache and logger - it doesn't
// store pipeline results. Multiple goroutines can safely use the same
// Runner with different options.
type Runner struct {
	Cache  cache.Cache
	Keyer  cache.Keyer
	Logger *log.Logger

	// Assets, when set, downloads remote images referenced by a map.
	Assets AssetFetcher
}

// NewRunner creates a runner with the given cache and keyer.
// If keyer is nil, a DefaultKeyer is used.
// If cache is nil, a NullCache is used (caching disabled).
func NewRunner(c cache.Cache, keyer cache.Keyer, logger *log.Logger) *Runner {
	if keyer == nil {
		keyer = cache.NewDefaultKeyer()
	}
	if c == nil {
		c = cache.NewNullCache()
	}
	if logger == nil {
		logger = log.Default()
	}
	return &Runner{
		Cache:  c,
		Keyer:  keyer,
		Logger: logger,
	}
}

// Execute runs the complete load → layout → render pipeline, caching the
// rendered artifacts.
func (r *Runner) Execute(ctx context.Context, opts Options) (*Result, error) {
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, fmt.Errorf("invalid options: %w", err)
	}
	r.applyLogger(&opts)

	result := &Result{}

	// Stage 1: Load
	loadStart := time.Now()
	def, err := r.Load(ctx, opts)
	if err != nil {
		return nil, fmt.Errorf("load: %w", err)
	}
	result.Definition = def
	result.Stats.LoadTime = time.Since(loadStart)
	result.Stats.IconCount = def.Icons.Len()
	result.Stats.MediaCount = len(def.Media)

	r.Logger.Info("loaded map",
		"name", def.Name,
		"icons", result.Stats.IconCount,
		"media", result.Stats.MediaCount,
		"duration", result.Stats.LoadTime)

	// Stage 2: Layout
	layoutStart := time.Now()
	fr, err := r.Layout(ctx, def, opts)
	if err != nil {
		return nil, fmt.Errorf("layout: %w", err)
	}
	if result.MapHash, err = MapHash(def); err != nil {
		return nil, fmt.Errorf("layout: %w", err)
	}
	result.Frame = fr
	result.Tier = opts.TierValue()
	result.Viewport = viewport.ConfigFor(result.Tier)
	result.Stats.LayoutTime = time.Since(layoutStart)

	r.Logger.Info("computed layout",
		"placements", len(fr.Placements),
		"scale", fr.Scale,
		"duration", result.Stats.LayoutTime)

	// Stage 3: Render
	renderStart := time.Now()
	artifacts, renderHit, err := r.RenderWithCacheInfo(ctx, def, fr, opts)
	if err != nil {
		return nil, fmt.Errorf("render: %w", err)
	}
	result.Artifacts = artifacts
	result.Stats.RenderTime = time.Since(renderStart)
	result.CacheInfo.RenderHit = renderHit

	r.Logger.Info("rendered outputs",
		"formats", opts.Formats,
		"cached", renderHit,
		"duration", result.Stats.RenderTime)

	return result, nil
}

// Load returns opts.Definition, or reads the definition at opts.MapPath.
func (r *Runner) Load(ctx context.Context, opts Options) (*mapfile.Definition, error) {
	if err := opts.ValidateForLoad(); err != nil {
		return nil, err
	}
	def := opts.Definition
	if def == nil {
		start := time.Now()
		var err error
		def, err = mapfile.Load(opts.MapPath)
		icons := 0
		if def != nil {
			icons = def.Icons.Len()
		}
		observability.Pipeline().OnLoadComplete(ctx, opts.MapPath, icons, time.Since(start), err)
		if err != nil {
			return nil, err
		}
	}
	if err := r.Localize(ctx, def); err != nil {
		return nil, err
	}
	return def, nil
}

// Layout computes the frame for def. Placements are derived state: they
// are recomputed on every call and never written to the cache.
func (r *Runner) Layout(ctx context.Context, def *mapfile.Definition, opts Options) (iconmap.Frame, error) {
	if err := opts.ValidateForLayout(); err != nil {
		return iconmap.Frame{}, err
	}
	r.applyLogger(&opts)
	hooks := observability.Pipeline()
	hooks.OnLayoutStart(ctx, def.Name, def.Icons.Len())
	start := time.Now()

	fr, err := Layout(def, opts)
	hooks.OnLayoutComplete(ctx, def.Name, len(fr.Placements), time.Since(start), err)
	if err != nil {
		return iconmap.Frame{}, err
	}
	return fr, nil
}

// RenderWithCacheInfo generates artifacts with caching and returns cache hit info.
func (r *Runner) RenderWithCacheInfo(ctx context.Context, def *mapfile.Definition, fr iconmap.Frame, opts Options) (map[string][]byte, bool, error) {
	if err := opts.ValidateForRender(); err != nil {
		return nil, false, err
	}
	r.applyLogger(&opts)

	// Compute cache key from layout data. The map hash is part of the key
	// because image references and pixels are written into the output.
	layoutData, err := json.Marshal(fr)
	if err != nil {
		return nil, false, fmt.Errorf("serialize layout for cache key: %w", err)
	}
	mapHash, err := MapHash(def)
	if err != nil {
		return nil, false, err
	}
	var keyData bytes.Buffer
	keyData.Write(layoutData)
	keyData.WriteString(mapHash)
	layoutHash := cache.Hash(keyData.Bytes())

	// Try to get all formats from cache
	artifacts := make(map[string][]byte, len(opts.Formats))
	if !opts.Refresh {
		for _, format := range opts.Formats {
			key := r.Keyer.ArtifactKey(layoutHash, opts.ArtifactKeyOpts(format))
			data, hit, err := r.Cache.Get(ctx, key)
			if err != nil || !hit {
				observability.Cache().OnCacheMiss(ctx, "artifact")
				break
			}
			observability.Cache().OnCacheHit(ctx, "artifact")
			artifacts[format] = data
		}
		if len(artifacts) == len(opts.Formats) {
			return artifacts, true, nil // All artifacts from cache
		}
	}

	hooks := observability.Pipeline()
	hooks.OnRenderStart(ctx, opts.Formats)
	start := time.Now()
	rendered, err := Render(ctx, def, fr, opts)
	hooks.OnRenderComplete(ctx, opts.Formats, time.Since(start), err)
	if err != nil {
		return nil, false, err
	}

	// Cache each format
	for format, data := range rendered {
		key := r.Keyer.ArtifactKey(layoutHash, opts.ArtifactKeyOpts(format))
		if err := r.Cache.Set(ctx, key, data, cache.TTLArtifact); err != nil {
			opts.Logger.Warn("cache artifact", "format", format, "err", err)
			continue
		}
		observability.Cache().OnCacheSet(ctx, "artifact", len(data))
	}

	return rendered, false, nil // Cache miss
}

// Render is a convenience wrapper that calls RenderWithCacheInfo and discards the cache hit info.
func (r *Runner) Render(ctx context.Context, def *mapfile.Definition, fr iconmap.Frame, opts Options) (map[string][]byte, error) {
	artifacts, _, err := r.RenderWithCacheInfo(ctx, def, fr, opts)
	return artifacts, err
}

// Close releases resources held by the runner (primarily the cache).
func (r *Runner) Close() error {
	if r.Cache != nil {
		return r.Cache.Close()
	}
	return nil
}

// applyLogger sets the runner's logger on options if not already set.
func (r *Runner) applyLogger(opts *Options) {
	if opts.Logger == nil {
		opts.Logger = r.Logger
	}
}
