package fractal

import (
	"fmt"
	"image"
	"image/color"

	"github.com/gogpu/gg"
)

// SelectionColor is the outline color of a zoom selection.
var SelectionColor = color.RGBA{R: 192, G: 192, B: 192, A: 0xff}

const markerRadius = 4

// Annotate draws over a rendered frame: the outline of the pixel rectangle sel
// (skipped when empty) and a small circle at each marker point of the plane.
// vp must be the viewport img was rendered with. img is not modified.
func Annotate(img image.Image, vp Viewport, sel image.Rectangle, markers ...Complex) (image.Image, error) {
	dc := gg.NewContextForImage(img)
	defer dc.Close()

	dc.SetColor(SelectionColor)
	dc.SetLineWidth(1)

	if sel = sel.Canon(); !sel.Empty() {
		dc.DrawRectangle(float64(sel.Min.X)+0.5, float64(sel.Min.Y)+0.5,
			float64(sel.Dx()-1), float64(sel.Dy()-1))
		if err := dc.Stroke(); err != nil {
			return nil, fmt.Errorf("stroke selection: %w", err)
		}
	}

	for _, m := range markers {
		x, y := vp.ComplexToPixel(m)
		dc.DrawCircle(x, y, markerRadius)
		if err := dc.Stroke(); err != nil {
			return nil, fmt.Errorf("stroke marker %s: %w", m, err)
		}
	}

	return dc.Image(), nil
}
