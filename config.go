package fractal

import (
	"fmt"
	"image/color"
)

// DefaultIterations is the iteration cap of the Mandelbrot and Burning Ship views.
const DefaultIterations = 100

// Config describes one render pass. It is a value: replace it between passes,
// never mutate it during one.
type Config struct {
	Variant    Variant  `json:"variant"`
	Viewport   Viewport `json:"viewport"`
	Iterations int      `json:"iterations"`
	JuliaSeed  Complex  `json:"juliaSeed"`

	// ColorIterations is the cap colors are graded against, 0 means Iterations.
	// Julia views are colored against the cap of the Mandelbrot view they
	// were picked from, not against their own escape cap.
	ColorIterations int `json:"colorIterations,omitempty"`
}

// JuliaIterations is the conventional Julia cap, width+height of its view.
func JuliaIterations(vp Viewport) int {
	return vp.Width + vp.Height
}

// ColorCap returns the cap passed to ColorOf.
func (cfg Config) ColorCap() int {
	if cfg.ColorIterations > 0 {
		return cfg.ColorIterations
	}
	return cfg.Iterations
}

// Validate checks the viewport, the variant and the iteration caps.
// The caps are never clamped.
func (cfg Config) Validate() error {
	if err := cfg.Viewport.Validate(); err != nil {
		return err
	}
	if !cfg.Variant.valid() {
		return fmt.Errorf("%w: unknown variant %d", ErrInvalidConfiguration, int(cfg.Variant))
	}
	if cfg.Iterations <= 0 {
		return fmt.Errorf("%w: iterations must be positive, got %d", ErrInvalidConfiguration, cfg.Iterations)
	}
	if cfg.ColorIterations < 0 {
		return fmt.Errorf("%w: color iterations must not be negative, got %d", ErrInvalidConfiguration, cfg.ColorIterations)
	}
	return nil
}

// At computes the color of pixel (px, py). cfg must be valid.
func (cfg Config) At(px, py int) color.RGBA {
	c := cfg.Viewport.PixelToComplex(px, py)
	r := Escape(cfg.Variant, c, cfg.JuliaSeed, cfg.Iterations)
	return ColorOf(r.Count, r.Final, cfg.ColorCap())
}
