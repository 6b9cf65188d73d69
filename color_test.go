package fractal

import (
	"image/color"
	"math"
	"testing"
)

func TestColorOf_InsideIsBlack(t *testing.T) {
	for _, limit := range []int{1, 10, 100, 600} {
		if got := ColorOf(limit, Complex{0.1, 0.1}, limit); got != (color.RGBA{0, 0, 0, 255}) {
			t.Errorf("limit %d: inside color = %v, want black", limit, got)
		}
	}
}

func TestColorOf_Reference(t *testing.T) {
	// Values produced by the float32 HSBtoRGB reference.
	tests := []struct {
		name  string
		count int
		final Complex
		limit int
		want  color.RGBA
	}{
		{"early escape", 3, Complex{3, 0}, 100, color.RGBA{230, 111, 23, 255}},
		{"corner pixel", 0, Complex{-2, -2}, 10, color.RGBA{23, 230, 161, 255}},
		{"mid cap", 50, Complex{3, 4}, 100, color.RGBA{23, 230, 216, 255}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ColorOf(tt.count, tt.final, tt.limit)
			if got != tt.want {
				t.Errorf("ColorOf(%d, %v, %d) = %v, want %v", tt.count, tt.final, tt.limit, got, tt.want)
			}
			if again := ColorOf(tt.count, tt.final, tt.limit); again != got {
				t.Errorf("second call = %v, first = %v", again, got)
			}
		})
	}
}

func TestColorOf_SmallModulusFallback(t *testing.T) {
	// |z| ≤ 1 makes log(log|z|) undefined; count/limit is used instead.
	tests := []struct {
		count, limit int
		final        Complex
		want         color.RGBA
	}{
		{599, 600, Complex{0, 0}, color.RGBA{230, 23, 149, 255}},
		{5, 10, Complex{0.5, 0.5}, color.RGBA{23, 230, 168, 255}},
		{5, 10, Complex{1, 0}, color.RGBA{23, 230, 168, 255}},
	}
	for _, tt := range tests {
		if got := ColorOf(tt.count, tt.final, tt.limit); got != tt.want {
			t.Errorf("ColorOf(%d, %v, %d) = %v, want %v", tt.count, tt.final, tt.limit, got, tt.want)
		}
	}

	if s := smoothCount(5, Complex{0.5, 0}, 10); s != 0.5 {
		t.Errorf("fallback smooth = %g, want 0.5", s)
	}
}

func TestColorOf_NonFinite(t *testing.T) {
	for _, z := range []Complex{
		{math.Inf(1), 0},
		{math.NaN(), 1},
		{math.Inf(-1), math.Inf(1)},
	} {
		s := smoothCount(3, z, 10)
		if math.IsNaN(float64(s)) || s < 0 || s > 1 {
			t.Errorf("smoothCount(%v) = %g, want a value in [0,1]", z, s)
		}
		if c := ColorOf(3, z, 10); c.A != 255 {
			t.Errorf("ColorOf(%v) = %v", z, c)
		}
	}
}

func TestHSBToRGB(t *testing.T) {
	tests := []struct {
		hue  float32
		want color.RGBA
	}{
		{0, color.RGBA{230, 23, 23, 255}},
		{0.25, color.RGBA{126, 230, 23, 255}},
		{0.5, color.RGBA{23, 230, 230, 255}},
		{1.25, color.RGBA{126, 230, 23, 255}}, // wraps
		{-0.75, color.RGBA{126, 230, 23, 255}},
	}
	for _, tt := range tests {
		if got := hsbToRGB(tt.hue, 0.9, 0.9); got != tt.want {
			t.Errorf("hsbToRGB(%g) = %v, want %v", tt.hue, got, tt.want)
		}
	}
	if got := hsbToRGB(0.3, 0, 1); got != (color.RGBA{255, 255, 255, 255}) {
		t.Errorf("zero saturation = %v, want white", got)
	}
}
