package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/matzehuels/pinmap/internal/server"
)

// serveCommand creates the serve command for the HTTP API.
func (c *CLI) serveCommand() *cobra.Command {
	var (
		addr    string
		mapsDir string
		noCache bool
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve maps over HTTP",
		Long: `Serve every map in a directory over HTTP.

Clients fetch layouts for their viewport size and device tier, rendered
SVG/PNG/JSON artifacts, and the map's image assets. Layouts and renders are
cached with the configured backend.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if !cmd.Flags().Changed("addr") {
				addr = c.Config.Server.Addr
			}
			if !cmd.Flags().Changed("maps") {
				mapsDir = c.Config.Server.MapsDir
			}

			runner, err := c.newRunner(cmd.Context(), noCache)
			if err != nil {
				return fmt.Errorf("initialize runner: %w", err)
			}
			defer runner.Close()

			srv := server.New(runner, mapsDir, c.Logger)
			srv.Width = c.Config.Viewport.Width
			srv.Height = c.Config.Viewport.Height
			srv.Prepare = c.Config.Layout.Apply

			printInfo("Serving %s on %s", mapsDir, addr)
			return srv.ListenAndServe(cmd.Context(), addr)
		},
	}

	cmd.Flags().StringVar(&addr, "addr", "", "listen address (default from settings, :8080)")
	cmd.Flags().StringVar(&mapsDir, "maps", "", "directory of map definitions (default from settings)")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "disable caching")

	return cmd
}
