package fractal

import (
	"fmt"
	"image"
	"math"
)

// Viewport is a rectangular region of the complex plane sampled at Width×Height pixels.
type Viewport struct {
	MinX   float64 `json:"minX"`
	MaxX   float64 `json:"maxX"`
	MinY   float64 `json:"minY"`
	MaxY   float64 `json:"maxY"`
	Width  int     `json:"width"`
	Height int     `json:"height"`
}

// NewViewport returns a validated Viewport.
func NewViewport(minX, maxX, minY, maxY float64, width, height int) (Viewport, error) {
	vp := Viewport{MinX: minX, MaxX: maxX, MinY: minY, MaxY: maxY, Width: width, Height: height}
	if err := vp.Validate(); err != nil {
		return Viewport{}, err
	}
	return vp, nil
}

// Validate reports whether the bounds are finite and ordered and the resolution is positive.
func (vp Viewport) Validate() error {
	for _, f := range []float64{vp.MinX, vp.MaxX, vp.MinY, vp.MaxY} {
		if math.IsInf(f, 0) || math.IsNaN(f) {
			return fmt.Errorf("%w: non-finite bound in %v", ErrInvalidViewport, vp.Bounds())
		}
	}
	if !(vp.MinX < vp.MaxX) {
		return fmt.Errorf("%w: minX %g must be below maxX %g", ErrInvalidViewport, vp.MinX, vp.MaxX)
	}
	if !(vp.MinY < vp.MaxY) {
		return fmt.Errorf("%w: minY %g must be below maxY %g", ErrInvalidViewport, vp.MinY, vp.MaxY)
	}
	if vp.Width <= 0 || vp.Height <= 0 {
		return fmt.Errorf("%w: resolution %dx%d", ErrInvalidViewport, vp.Width, vp.Height)
	}
	return nil
}

// Bounds returns the plane region of the viewport.
func (vp Viewport) Bounds() Bounds {
	return Bounds{MinX: vp.MinX, MaxX: vp.MaxX, MinY: vp.MinY, MaxY: vp.MaxY}
}

// PixelToComplex maps pixel (px, py) onto the plane.
// Pixels in [0,Width)×[0,Height) land in [MinX,MaxX)×[MinY,MaxY).
func (vp Viewport) PixelToComplex(px, py int) Complex {
	return Complex{
		Re: vp.MinX + float64(px)*(vp.MaxX-vp.MinX)/float64(vp.Width),
		Im: vp.MinY + float64(py)*(vp.MaxY-vp.MinY)/float64(vp.Height),
	}
}

// ComplexToPixel is the inverse of PixelToComplex. The result is not rounded
// and may fall outside the frame.
func (vp Viewport) ComplexToPixel(c Complex) (x, y float64) {
	x = (c.Re - vp.MinX) * float64(vp.Width) / (vp.MaxX - vp.MinX)
	y = (c.Im - vp.MinY) * float64(vp.Height) / (vp.MaxY - vp.MinY)
	return x, y
}

// Select returns the viewport covering the pixel rectangle sel at the same
// resolution. sel may be given in any drag direction; a selection without
// width or height is rejected.
func (vp Viewport) Select(sel image.Rectangle) (Viewport, error) {
	sel = sel.Canon()
	if sel.Dx() == 0 || sel.Dy() == 0 {
		return Viewport{}, fmt.Errorf("%w: empty selection %v", ErrInvalidViewport, sel)
	}
	lo := vp.PixelToComplex(sel.Min.X, sel.Min.Y)
	hi := vp.PixelToComplex(sel.Max.X, sel.Max.Y)
	return NewViewport(lo.Re, hi.Re, lo.Im, hi.Im, vp.Width, vp.Height)
}
