package fractal

import (
	"fmt"
	"maps"
	"slices"
	"strings"
)

// Bounds is a region of the complex plane without a resolution.
type Bounds struct {
	MinX, MaxX float64
	MinY, MaxY float64
}

// Viewport samples b at width×height pixels.
func (b Bounds) Viewport(width, height int) (Viewport, error) {
	return NewViewport(b.MinX, b.MaxX, b.MinY, b.MaxY, width, height)
}

// Frame sizes of the explorer views.
const (
	DefaultWidth  = 900
	DefaultHeight = 700

	JuliaWidth  = 300
	JuliaHeight = 300
)

var (
	// DefaultBounds shows the whole Mandelbrot set.
	DefaultBounds = Bounds{MinX: -2.0, MaxX: 2.0, MinY: -1.6, MaxY: 1.6}

	// Seahorse Valley – curls between the main cardioid and the period-2 bulb
	SeahorseValley = Bounds{MinX: -0.8, MaxX: -0.7, MinY: 0.05, MaxY: 0.15}

	// Elephant Valley – trunks on the right edge of the cardioid
	ElephantValley = Bounds{MinX: 0.25, MaxX: 0.35, MinY: -0.05, MaxY: 0.05}

	// Spiral Minibrot – small copy with tight spiral arms
	SpiralMinibrot = Bounds{MinX: -0.7435, MaxX: -0.7420, MinY: 0.1310, MaxY: 0.1325}

	// Triple Spiral – threefold spiral structure
	TripleSpiral = Bounds{MinX: -0.7480, MaxX: -0.7450, MinY: 0.0950, MaxY: 0.0980}

	// Valley of the Dragon – deep spiral filaments
	ValleyOfTheDragon = Bounds{MinX: -0.7400, MaxX: -0.7350, MinY: 0.1800, MaxY: 0.1850}

	// Burning Ship's largest mast, the classic "ship" view
	ShipMast = Bounds{MinX: -1.80, MaxX: -1.70, MinY: -0.09, MaxY: 0.01}
)

var regions = map[string]Bounds{
	"default":           DefaultBounds,
	"seahorse-valley":   SeahorseValley,
	"elephant-valley":   ElephantValley,
	"spiral-minibrot":   SpiralMinibrot,
	"triple-spiral":     TripleSpiral,
	"valley-of-dragon":  ValleyOfTheDragon,
	"burning-ship-mast": ShipMast,
}

// Region looks up a named landmark.
func Region(name string) (Bounds, error) {
	b, ok := regions[strings.ToLower(name)]
	if !ok {
		return Bounds{}, fmt.Errorf("%w: unknown region %q (known: %s)",
			ErrInvalidConfiguration, name, strings.Join(RegionNames(), ", "))
	}
	return b, nil
}

// RegionNames returns the landmark names in sorted order.
func RegionNames() []string {
	return slices.Sorted(maps.Keys(regions))
}
