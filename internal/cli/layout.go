package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"strconv"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"

	"github.com/matzehuels/pinmap/pkg/iconmap"
	"github.com/matzehuels/pinmap/pkg/mapfile"
	"github.com/matzehuels/pinmap/pkg/pipeline"
)

// layoutFlags holds the flags shared by the commands that lay maps out.
type layoutFlags struct {
	baseWidth float64
	zBase     int
	noCache   bool
}

func (f *layoutFlags) register(cmd *cobra.Command, opts *pipeline.Options) {
	cmd.Flags().Float64Var(&opts.Width, "width", opts.Width, "viewport width")
	cmd.Flags().Float64Var(&opts.Height, "height", opts.Height, "viewport height")
	cmd.Flags().StringVar(&opts.Tier, "tier", opts.Tier, "device tier: pointer, touch")
	cmd.Flags().Float64Var(&f.baseWidth, "base-width", 0, "override the map's base width")
	cmd.Flags().IntVar(&f.zBase, "z-base", 0, "override the map's stacking base")
	cmd.Flags().BoolVar(&f.noCache, "no-cache", false, "disable caching")
}

func (f *layoutFlags) apply(opts *pipeline.Options) {
	opts.BaseWidth = f.baseWidth
	opts.ZBase = f.zBase
}

// layoutCommand creates the layout command for printing icon placements.
func (c *CLI) layoutCommand() *cobra.Command {
	var (
		flags  layoutFlags
		filter string
		asJSON bool
	)
	opts := pipeline.Options{}

	cmd := &cobra.Command{
		Use:   "layout <map>",
		Short: "Print icon placements for a viewport size",
		Long: `Compute where every icon of a map lands in a viewport.

The map is a definition file (.toml, .yaml, .json) or the name of one in the
configured maps directory. The image is fitted into the viewport, the
responsive icon scale is derived from the viewport width, and each icon's
percentage anchor is converted to pixels. Placements are recomputed on
every run.`,
		Args:              cobra.ExactArgs(1),
		ValidArgsFunction: c.completeMaps,
		PreRun: func(cmd *cobra.Command, args []string) {
			seedOptions(cmd, &opts, c.baseOptions())
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			flags.apply(&opts)
			return c.runLayout(cmd.Context(), cmd.OutOrStdout(), args[0], opts, flags.noCache, filter, asJSON)
		},
	}

	flags.register(cmd, &opts)
	cmd.Flags().StringVarP(&filter, "filter", "f", "", "fuzzy-filter icons by title or id")
	cmd.Flags().BoolVar(&asJSON, "json", false, "print the layout frame as JSON")

	return cmd
}

// seedOptions copies settings-file values into opts for every flag the
// user did not set.
func seedOptions(cmd *cobra.Command, opts *pipeline.Options, base pipeline.Options) {
	if !cmd.Flags().Changed("width") {
		opts.Width = base.Width
	}
	if !cmd.Flags().Changed("height") {
		opts.Height = base.Height
	}
	if !cmd.Flags().Changed("tier") {
		opts.Tier = base.Tier
	}
	opts.Logger = base.Logger
}

// runLayout loads the map, computes the layout, and prints it.
func (c *CLI) runLayout(ctx context.Context, w io.Writer, arg string, opts pipeline.Options, noCache bool, filter string, asJSON bool) error {
	def, err := c.loadMap(arg)
	if err != nil {
		return err
	}

	runner, err := c.newRunner(ctx, noCache)
	if err != nil {
		return fmt.Errorf("initialize runner: %w", err)
	}
	defer runner.Close()
	if err := runner.Localize(ctx, def); err != nil {
		return err
	}

	fr, err := runner.Layout(ctx, def, opts)
	if err != nil {
		return fmt.Errorf("compute layout: %w", err)
	}

	placements := fr.Placements
	if filter != "" {
		placements = filterPlacements(def, placements, filter)
	}

	if asJSON {
		fr.Placements = placements
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(fr)
	}

	fmt.Fprintln(w, layoutTable(def, placements))
	printStats(def.Icons.Len(), len(def.Media), fr.Scale, false)
	return nil
}

// filterPlacements keeps the placements whose icon matches query, in
// match order.
func filterPlacements(def *mapfile.Definition, placements []iconmap.Placement, query string) []iconmap.Placement {
	byID := make(map[string]iconmap.Placement, len(placements))
	for _, p := range placements {
		byID[p.IconID] = p
	}
	var out []iconmap.Placement
	for _, ic := range iconmap.Search(def.Icons, query) {
		if p, ok := byID[ic.ID]; ok {
			out = append(out, p)
		}
	}
	return out
}

// layoutTable renders placements as a bordered table.
func layoutTable(def *mapfile.Definition, placements []iconmap.Placement) string {
	headerStyle := lipgloss.NewStyle().Foreground(colorGray).Bold(true)
	rows := make([][]string, 0, len(placements))
	for _, p := range placements {
		ic, _ := def.Icons.Get(p.IconID)
		glyph := ic.Emoji
		if ic.Variant == iconmap.VariantImage {
			glyph = "▣"
		}
		rows = append(rows, []string{
			glyph,
			ic.Label(),
			p.IconID,
			fmtFloat(p.X),
			fmtFloat(p.Y),
			fmtFloat(p.Size),
			strconv.Itoa(p.Z),
		})
	}

	return table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(colorDim)).
		Headers("", "Icon", "ID", "X", "Y", "Size", "Z").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			switch {
			case row == table.HeaderRow:
				return headerStyle
			case col >= 3:
				return lipgloss.NewStyle().Foreground(colorCyan).Align(lipgloss.Right)
			case col == 2:
				return lipgloss.NewStyle().Foreground(colorDim)
			default:
				return lipgloss.NewStyle().Foreground(colorWhite)
			}
		}).
		Render()
}

func fmtFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', 1, 64)
}
