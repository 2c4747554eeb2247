package iconmap_test

import (
	"fmt"

	"github.com/matzehuels/pinmap/pkg/geometry"
	"github.com/matzehuels/pinmap/pkg/iconmap"
)

func ExampleLayout() {
	set, _ := iconmap.NewSet(
		iconmap.Icon{ID: "a", X: 0, Y: 0, Size: 20, Emoji: "📍"},
		iconmap.Icon{ID: "b", X: 100, Y: 100, Size: 20, Emoji: "📍"},
	)
	g := geometry.Snapshot{ImageWidth: 200, ImageHeight: 100, ImageOffsetX: 10, ImageOffsetY: 5}

	for _, p := range iconmap.Layout(set, g, 1, 0) {
		fmt.Printf("%s -> (%g,%g) z=%d\n", p.IconID, p.X, p.Y, p.Z)
	}
	// Output:
	// a -> (10,5) z=0
	// b -> (210,105) z=1
}
