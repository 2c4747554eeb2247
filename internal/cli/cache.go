package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/matzehuels/pinmap/pkg/cache"
	"github.com/matzehuels/pinmap/pkg/config"
)

// cacheCommand creates the cache management command.
func (c *CLI) cacheCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "cache",
		Short: "Manage cached renders and downloaded images",
	}
	cmd.AddCommand(c.cacheClearCommand(), c.cachePathCommand())
	return cmd
}

func (c *CLI) cacheClearCommand() *cobra.Command {
	var rendersOnly, assetsOnly bool
	cmd := &cobra.Command{
		Use:   "clear",
		Short: "Clear cached renders and downloaded images",
		Long: `Clear removes cached renders from the file cache and the
images downloaded for maps that reference remote URLs. Entries in a Redis
backend expire on their own and are not touched.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if rendersOnly && assetsOnly {
				return fmt.Errorf("--renders and --assets are mutually exclusive")
			}
			dir, err := c.cacheDir()
			if err != nil {
				return fmt.Errorf("get cache dir: %w", err)
			}
			if !assetsOnly {
				if err := c.clearRenders(dir); err != nil {
					return err
				}
			}
			if !rendersOnly {
				if err := c.clearAssets(); err != nil {
					return err
				}
			}
			printDetail("Directory: %s", dir)
			return nil
		},
	}
	cmd.Flags().BoolVar(&rendersOnly, "renders", false, "only clear layouts and renders")
	cmd.Flags().BoolVar(&assetsOnly, "assets", false, "only clear downloaded images")
	return cmd
}

func (c *CLI) clearRenders(dir string) error {
	if backend := c.Config.Cache.Backend; backend != config.BackendFile {
		printWarning("Render cache backend is %q; only the file cache can be cleared", backend)
		return nil
	}
	fc, err := cache.NewFileCache(dir)
	if err != nil {
		return err
	}
	n, err := fc.Clear()
	if err != nil {
		return fmt.Errorf("clear renders: %w", err)
	}
	printSuccess("Cleared %s", plural(n, "cached render"))
	return nil
}

func (c *CLI) clearAssets() error {
	store, err := c.assetStore()
	if err != nil {
		return err
	}
	n, err := store.Clear()
	if err != nil {
		return fmt.Errorf("clear downloaded images: %w", err)
	}
	printSuccess("Cleared %s", plural(n, "downloaded image"))
	return nil
}

func (c *CLI) cachePathCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "path",
		Short: "Print the cache directory path",
		RunE: func(cmd *cobra.Command, args []string) error {
			dir, err := c.cacheDir()
			if err != nil {
				return fmt.Errorf("get cache dir: %w", err)
			}
			fmt.Fprintln(cmd.OutOrStdout(), dir)
			return nil
		},
	}
}
