package cli

import (
	"context"
	"errors"
	"io"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	pmerrors "github.com/matzehuels/pinmap/pkg/errors"
	"github.com/matzehuels/pinmap/pkg/geometry"
	"github.com/matzehuels/pinmap/pkg/pipeline"
)

// viewCommand creates the view command for browsing a map's media.
func (c *CLI) viewCommand() *cobra.Command {
	var (
		start  int
		iconID string
	)

	cmd := &cobra.Command{
		Use:   "view <map>",
		Short: "Browse a map's media in the terminal",
		Long: `Open the media viewer for a map.

Navigate with ←/→, the mouse wheel or a horizontal drag; navigation wraps
around at both ends. 1-9 jump directly to an item and esc closes the viewer.`,
		Args:              cobra.ExactArgs(1),
		ValidArgsFunction: c.completeMaps,
		RunE: func(cmd *cobra.Command, args []string) error {
			def, err := c.loadMap(args[0])
			if err != nil {
				return err
			}
			if len(def.Media) == 0 {
				printWarning("%s has no media", def.Name)
				return nil
			}

			index := start - 1
			if iconID != "" {
				ic, ok := def.Icons.Get(iconID)
				if !ok {
					return pmerrors.New(pmerrors.ErrCodeInvalidInput, "map %s has no icon %q", def.Name, iconID)
				}
				index = def.MediaIndex(ic)
			}

			title := def.Title
			if title == "" {
				title = def.Name
			}
			m := NewViewerModel(title, def.Media, index, c.Config.Viewer)
			defer m.Release()
			return runProgram(cmd.Context(), m)
		},
	}

	cmd.Flags().IntVarP(&start, "start", "s", 1, "1-based media item to open at")
	cmd.Flags().StringVar(&iconID, "icon", "", "open at the media item linked to this icon")

	return cmd
}

// mapCommand creates the map command for exploring a map interactively.
func (c *CLI) mapCommand() *cobra.Command {
	var noWatch bool
	opts := pipeline.Options{}
	var flags layoutFlags

	cmd := &cobra.Command{
		Use:   "map <map>",
		Short: "Explore a map interactively in the terminal",
		Long: `Show a map in the terminal with its icons anchored to the image.

Icons keep their anchors while the terminal is resized or the view is zoomed.
Hover or tab to an icon to see its details, / to fuzzy-filter icons, and
enter or click to open the media viewer at the icon's item. The image file
is watched and the layout follows changes to it.`,
		Args:              cobra.ExactArgs(1),
		ValidArgsFunction: c.completeMaps,
		PreRun: func(cmd *cobra.Command, args []string) {
			seedOptions(cmd, &opts, c.baseOptions())
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			flags.apply(&opts)
			if err := opts.ValidateForLayout(); err != nil {
				return err
			}
			def, err := c.loadMap(args[0])
			if err != nil {
				return err
			}
			if err := c.localize(cmd.Context(), def); err != nil {
				return err
			}

			m, err := NewMapModel(def, opts, c.Config.Viewer)
			if err != nil {
				return err
			}
			defer m.Release()

			ctx, cancel := context.WithCancel(cmd.Context())
			defer cancel()
			if !noWatch {
				// The program owns the terminal, so watcher logs are dropped.
				quiet := log.New(io.Discard)
				go func() { _ = geometry.Watch(ctx, m.Image(), m.Observation(), quiet) }()
			}
			return runProgram(ctx, m, tea.WithAltScreen())
		},
	}

	flags.register(cmd, &opts)
	cmd.Flags().BoolVar(&noWatch, "no-watch", false, "do not follow changes to the image file")

	return cmd
}

// runProgram runs a full-screen model with mouse support until it quits
// or ctx is cancelled.
func runProgram(ctx context.Context, m tea.Model, extra ...tea.ProgramOption) error {
	opts := append([]tea.ProgramOption{tea.WithContext(ctx), tea.WithMouseCellMotion()}, extra...)
	_, err := tea.NewProgram(m, opts...).Run()
	if errors.Is(err, tea.ErrProgramKilled) && ctx.Err() != nil {
		return nil
	}
	return err
}
