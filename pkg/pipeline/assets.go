package pipeline

import (
	"context"

	"github.com/matzehuels/pinmap/pkg/httputil"
	"github.com/matzehuels/pinmap/pkg/iconmap"
	"github.com/matzehuels/pinmap/pkg/mapfile"
)

// AssetFetcher makes a remote asset available as a local file.
// *httputil.Fetcher implements it.
type AssetFetcher interface {
	Fetch(ctx context.Context, rawURL string) (string, error)
}

var _ AssetFetcher = (*httputil.Fetcher)(nil)

// Localize replaces the remote image references of def with local copies.
// A background image that cannot be fetched is an error; an icon image
// that cannot be fetched is logged and left as is, so the icon is skipped
// when rasterizing. Without Assets, def is unchanged.
func (r *Runner) Localize(ctx context.Context, def *mapfile.Definition) error {
	if r.Assets == nil {
		return nil
	}
	if httputil.IsRemote(def.Image) {
		p, err := r.Assets.Fetch(ctx, def.Image)
		if err != nil {
			return err
		}
		def.Image = p
	}

	icons := def.Icons.Icons()
	changed := false
	for i, ic := range icons {
		if ic.Variant != iconmap.VariantImage || !httputil.IsRemote(ic.Image) {
			continue
		}
		p, err := r.Assets.Fetch(ctx, ic.Image)
		if err != nil {
			r.Logger.Warn("icon image unavailable", "icon", ic.ID, "err", err)
			continue
		}
		icons[i].Image = p
		changed = true
	}
	if !changed {
		return nil
	}
	set, err := iconmap.NewSet(icons...)
	if err != nil {
		return err
	}
	def.Icons = set
	return nil
}
