package scale_test

import (
	"fmt"

	"github.com/matzehuels/pinmap/pkg/scale"
)

func ExampleFactor() {
	b := scale.Bounds{Min: 0.5, Max: 2}

	fmt.Println(scale.Factor(600, 1200, b))
	fmt.Println(scale.Factor(3000, 1200, b))
	fmt.Println(scale.Factor(0, 1200, b))
	// Output:
	// 0.5
	// 2
	// 1
}
