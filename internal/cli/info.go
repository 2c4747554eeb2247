package cli

import (
	"context"
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/matzehuels/pinmap/pkg/gallery"
	"github.com/matzehuels/pinmap/pkg/geometry"
	"github.com/matzehuels/pinmap/pkg/iconmap"
	"github.com/matzehuels/pinmap/pkg/mapfile"
)

// infoCommand creates the map summary command.
func (c *CLI) infoCommand() *cobra.Command {
	return &cobra.Command{
		Use:               "info <map>",
		Short:             "Summarize a map definition",
		Args:              cobra.ExactArgs(1),
		ValidArgsFunction: c.completeMaps,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runInfo(cmd.Context(), args[0])
		},
	}
}

func (c *CLI) runInfo(ctx context.Context, arg string) error {
	def, err := c.loadMap(arg)
	if err != nil {
		return err
	}
	if err := c.localize(ctx, def); err != nil {
		return err
	}
	w, h, format, err := geometry.DecodeSize(def.Image)
	if err != nil {
		return err
	}

	title := def.Title
	if title == "" {
		title = def.Name
	}
	fmt.Fprintln(stdout, StyleTitle.Render(title))
	printKeyValue("Name", def.Name)
	printKeyValue("Image", fmt.Sprintf("%s (%s, %.0f×%.0f)", def.ImageRef, format, w, h))
	printKeyValue("Base width", fmtFloat(def.BaseWidth))
	printKeyValue("Scale", scaleRange(def))
	printKeyValue("Z base", strconv.Itoa(def.ZBase))
	printKeyValue("Icons", iconSummary(def))
	printKeyValue("Media", mediaSummary(def))
	printNewline()
	printNextStep("Render it", appName+" render "+arg)
	if len(def.Media) > 0 {
		printNextStep("Browse its media", appName+" view "+arg)
	}
	return nil
}

func scaleRange(def *mapfile.Definition) string {
	lo, hi := "0", "∞"
	if def.Scale.Min > 0 {
		lo = fmtFloat(def.Scale.Min)
	}
	if def.Scale.Max > 0 {
		hi = fmtFloat(def.Scale.Max)
	}
	return lo + " – " + hi
}

func iconSummary(def *mapfile.Definition) string {
	var emoji, images int
	for _, ic := range def.Icons.Icons() {
		if ic.Variant == iconmap.VariantImage {
			images++
		} else {
			emoji++
		}
	}
	return fmt.Sprintf("%d (%d emoji, %d image)", emoji+images, emoji, images)
}

func mediaSummary(def *mapfile.Definition) string {
	var videos int
	for _, m := range def.Media {
		if m.Kind == gallery.KindVideo {
			videos++
		}
	}
	return fmt.Sprintf("%d (%d image, %d video)", len(def.Media), len(def.Media)-videos, videos)
}
