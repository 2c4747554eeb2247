package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"github.com/spf13/cobra"

	"github.com/matzehuels/pinmap/pkg/iconmap"
	"github.com/matzehuels/pinmap/pkg/mapfile"
	"github.com/matzehuels/pinmap/pkg/pipeline"
	"github.com/matzehuels/pinmap/pkg/watch"
)

// renderOpts holds the command-line flags for the render command.
type renderOpts struct {
	output  string   // output file (single format) or base path
	formats []string // output formats: "svg", "png", "json"
	watch   bool     // re-render whenever the map or its images change
	layout  layoutFlags
}

// renderCommand creates the render command for generating map outputs.
func (c *CLI) renderCommand() *cobra.Command {
	var formatsStr string
	ro := renderOpts{}
	opts := pipeline.Options{Interactive: true}

	cmd := &cobra.Command{
		Use:   "render <map>",
		Short: "Render a map to SVG, PNG or JSON",
		Long: `Render a map for a viewport size.

SVG output embeds the icons with hover and click events; PNG output
rasterizes the image with icon markers; JSON output holds the computed
placements. With --watch the map is re-rendered whenever the definition
or one of its images changes.`,
		Args:              cobra.ExactArgs(1),
		ValidArgsFunction: c.completeMaps,
		PreRun: func(cmd *cobra.Command, args []string) {
			seedOptions(cmd, &opts, c.baseOptions())
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			ro.formats = parseFormats(formatsStr)
			if err := pipeline.ValidateFormats(ro.formats); err != nil {
				return err
			}
			opts.Formats = ro.formats
			ro.layout.apply(&opts)
			return c.runRender(cmd.Context(), args[0], opts, &ro)
		},
	}

	ro.layout.register(cmd, &opts)
	cmd.Flags().StringVarP(&ro.output, "output", "o", "", "output file (single format) or base path (multiple)")
	cmd.Flags().StringVarP(&formatsStr, "format", "f", "", "output format(s): svg (default), png, json (comma-separated)")
	cmd.Flags().BoolVar(&opts.Interactive, "interactive", opts.Interactive, "embed hover/click events in SVG output")
	cmd.Flags().BoolVar(&opts.Outline, "outline", false, "outline icon hit areas")
	cmd.Flags().StringVar(&opts.AssetBase, "asset-base", "", "URL prefix for image references")
	cmd.Flags().BoolVarP(&ro.watch, "watch", "w", false, "re-render on changes")

	return cmd
}

// runRender renders once, then keeps re-rendering on change when watching.
func (c *CLI) runRender(ctx context.Context, arg string, opts pipeline.Options, ro *renderOpts) error {
	path, err := c.resolveMap(arg)
	if err != nil {
		return err
	}

	runner, err := c.newRunner(ctx, ro.layout.noCache)
	if err != nil {
		return fmt.Errorf("initialize runner: %w", err)
	}
	defer runner.Close()

	def, err := c.renderOnce(ctx, runner, path, opts, ro)
	if err != nil || !ro.watch {
		return err
	}

	printNewline()
	printInfo("Watching for changes (ctrl+c to stop)")
	var mu sync.Mutex
	err = watch.Files(ctx, watchedPaths(path, def), 0, c.Logger, func(changed string) {
		mu.Lock()
		defer mu.Unlock()
		c.Logger.Debug("changed", "path", changed)
		if _, err := c.renderOnce(ctx, runner, path, opts, ro); err != nil {
			printError("%v", err)
		}
	})
	if ctx.Err() != nil {
		return nil
	}
	return err
}

// renderOnce loads the map from path, renders it and writes the outputs.
func (c *CLI) renderOnce(ctx context.Context, runner *pipeline.Runner, path string, opts pipeline.Options, ro *renderOpts) (*mapfile.Definition, error) {
	prog := newProgress(c.Logger)
	spinner := newSpinnerWithContext(ctx, "Loading "+filepath.Base(path)+"...")
	spinner.Start()
	def, err := c.loadMap(path)
	if err != nil {
		spinner.Stop()
		return nil, err
	}
	opts.Definition = def
	prog.mark("load")

	spinner.SetMessage(fmt.Sprintf("Rendering %s as %s...", def.Name, strings.Join(opts.Formats, ", ")))
	result, err := runner.Execute(ctx, opts)
	if err != nil {
		spinner.StopWithError("Render failed")
		return def, err
	}
	spinner.Stop()
	prog.mark("render")

	base := basePath(ro.output, path)
	formats := make([]string, 0, len(result.Artifacts))
	for f := range result.Artifacts {
		formats = append(formats, f)
	}
	sort.Strings(formats)

	printSuccess("Rendered %s", def.Name)
	for _, format := range formats {
		out := base + "." + format
		if len(formats) == 1 && ro.output != "" {
			out = ro.output
		}
		if err := writeOutput(out, result.Artifacts[format]); err != nil {
			return def, err
		}
		printFile(out)
	}
	prog.mark("write")
	printStats(result.Stats.IconCount, result.Stats.MediaCount, result.Frame.Scale, result.CacheInfo.RenderHit)
	prog.done("Rendered " + def.Name)
	return def, nil
}

// watchedPaths lists the definition and every local image it references.
func watchedPaths(path string, def *mapfile.Definition) []string {
	paths := []string{path}
	if isLocal(def.Image) {
		paths = append(paths, def.Image)
	}
	for _, ic := range def.Icons.Icons() {
		if ic.Variant == iconmap.VariantImage && isLocal(ic.Image) {
			paths = append(paths, ic.Image)
		}
	}
	return paths
}

func isLocal(p string) bool {
	return p != "" && !strings.Contains(p, "://") && !strings.HasPrefix(p, "data:")
}

// basePath derives the base output path from the output and input file paths.
// If output is empty, it strips the extension from input.
// If output has a format extension (.svg, .png, .json), it strips that extension.
func basePath(output, input string) string {
	if output == "" {
		return strings.TrimSuffix(input, filepath.Ext(input))
	}
	ext := filepath.Ext(output)
	if pipeline.ValidFormats[strings.TrimPrefix(ext, ".")] {
		return strings.TrimSuffix(output, ext)
	}
	return output
}

// writeOutput writes data to path, creating parent directories.
func writeOutput(path string, data []byte) error {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create %s: %w", dir, err)
		}
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return nil
}
