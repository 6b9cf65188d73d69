package fractal

import (
	"image/color"
	"math"
)

// Inside is the color of points that did not escape within the cap.
var Inside = color.RGBA{A: 0xff}

const (
	hueScale   = 0.9
	saturation = 0.9
	brightness = 0.9
)

// ColorOf maps an iteration result to a color.
// count == limit is black; anything else is a smooth HSB gradient where
// hue = 0.9 · (count + 5 − log₂(ln|z|)) / limit.
// When |z| ≤ 1 the logarithm is undefined and count/limit is used instead.
func ColorOf(count int, final Complex, limit int) color.RGBA {
	if count == limit {
		return Inside
	}
	smooth := smoothCount(count, final, limit)
	hue := float32(hueScale * float64(smooth))
	return hsbToRGB(hue, saturation, brightness)
}

// smoothCount is computed in single precision to reproduce reference renderings.
func smoothCount(count int, final Complex, limit int) float32 {
	mod := final.Modulus()
	if mod > 1 {
		s := float32(float64(count)+5-math.Log(math.Log(mod))/math.Ln2) / float32(limit)
		if !math.IsNaN(float64(s)) && !math.IsInf(float64(s), 0) {
			return s
		}
	}
	s := float32(count) / float32(limit)
	return min(max(s, 0), 1)
}

// hsbToRGB is the usual single precision HSB conversion: hue wraps around [0,1),
// channels are truncated after adding 0.5.
func hsbToRGB(hue, sat, bri float32) color.RGBA {
	if sat == 0 {
		v := channel(bri)
		return color.RGBA{R: v, G: v, B: v, A: 0xff}
	}
	h := float32(hue-float32(math.Floor(float64(hue)))) * 6
	f := h - float32(math.Floor(float64(h)))
	p := bri * (1 - sat)
	q := bri * (1 - float32(sat*f))
	t := bri * (1 - float32(sat*(1-f)))

	var r, g, b float32
	switch int(h) {
	case 0:
		r, g, b = bri, t, p
	case 1:
		r, g, b = q, bri, p
	case 2:
		r, g, b = p, bri, t
	case 3:
		r, g, b = p, q, bri
	case 4:
		r, g, b = t, p, bri
	case 5:
		r, g, b = bri, p, q
	}
	return color.RGBA{R: channel(r), G: channel(g), B: channel(b), A: 0xff}
}

func channel(v float32) uint8 {
	return uint8(int32(float32(v*255) + 0.5))
}
