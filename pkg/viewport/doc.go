// Package viewport describes the pan/zoom transform applied to a map and the
// device-tier policy that configures it.
//
// The gesture engine itself is external. This package defines its contract,
// [Adapter], and the single lookup table, [Policies], that decides which
// gestures are enabled on which [Tier]:
//
//	Tier     Wheel  Pinch  Pan
//	pointer  on     off    off
//	touch    off    on     on
//
// Front ends classify the device once ([TierOf]) and look the configuration
// up once ([ConfigFor]); no other code branches on the tier.
//
// [Engine] is an in-process implementation of [Adapter] used by the terminal
// viewer and by tests. It clamps the scale to the configured range and
// notifies listeners only when the scale actually changes.
package viewport
