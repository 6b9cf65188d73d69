package fractal

import (
	"context"
	"errors"
	"image"
	"image/color"
	"testing"
)

func mustViewport(t *testing.T, minX, maxX, minY, maxY float64, w, h int) Viewport {
	t.Helper()
	vp, err := NewViewport(minX, maxX, minY, maxY, w, h)
	if err != nil {
		t.Fatal(err)
	}
	return vp
}

func TestConfig_Validate(t *testing.T) {
	vp := mustViewport(t, -2, 2, -2, 2, 4, 4)
	tests := []struct {
		name string
		cfg  Config
		want error
	}{
		{"valid", Config{Variant: Mandelbrot, Viewport: vp, Iterations: 10}, nil},
		{"zero iterations", Config{Variant: Mandelbrot, Viewport: vp}, ErrInvalidConfiguration},
		{"negative iterations", Config{Variant: Julia, Viewport: vp, Iterations: -5}, ErrInvalidConfiguration},
		{"unknown variant", Config{Variant: Variant(9), Viewport: vp, Iterations: 10}, ErrInvalidConfiguration},
		{"negative color iterations", Config{Variant: Julia, Viewport: vp, Iterations: 10, ColorIterations: -1}, ErrInvalidConfiguration},
		{"degenerate viewport", Config{Variant: Mandelbrot, Viewport: Viewport{Width: 4, Height: 4}, Iterations: 10}, ErrInvalidViewport},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.cfg.Validate()
			if tt.want == nil && err != nil {
				t.Fatalf("Validate() = %v", err)
			}
			if tt.want != nil && !errors.Is(err, tt.want) {
				t.Fatalf("Validate() = %v, want %v", err, tt.want)
			}
		})
	}
}

func TestJuliaIterations(t *testing.T) {
	vp := mustViewport(t, -2, 2, -1.6, 1.6, JuliaWidth, JuliaHeight)
	if got := JuliaIterations(vp); got != 600 {
		t.Errorf("JuliaIterations = %d, want 600", got)
	}
}

func TestConfig_ColorCap(t *testing.T) {
	if got := (Config{Iterations: 600}).ColorCap(); got != 600 {
		t.Errorf("default color cap = %d, want 600", got)
	}
	if got := (Config{Iterations: 600, ColorIterations: 100}).ColorCap(); got != 100 {
		t.Errorf("color cap = %d, want 100", got)
	}
}

func TestConfig_JuliaColoredAgainstColorCap(t *testing.T) {
	vp := mustViewport(t, -2, 2, -1.6, 1.6, JuliaWidth, JuliaHeight)
	cfg := Config{
		Variant:         Julia,
		Viewport:        vp,
		Iterations:      JuliaIterations(vp),
		JuliaSeed:       Complex{-0.75, 0.1},
		ColorIterations: DefaultIterations,
	}

	// Reference colors of the explorer's Julia view at a Mandelbrot cap of 100.
	tests := []struct {
		x, y int
		want color.RGBA
	}{
		{30, 40, color.RGBA{230, 74, 23, 255}},    // escapes at index 0
		{200, 100, color.RGBA{230, 114, 23, 255}}, // index 3
		{150, 150, color.RGBA{23, 230, 23, 255}},  // z₀ = 0, index 32
	}
	for _, tt := range tests {
		if got := cfg.At(tt.x, tt.y); got != tt.want {
			t.Errorf("pixel (%d,%d) = %v, want %v", tt.x, tt.y, got, tt.want)
		}
	}

	// Escaping at index 100 equals the color cap: black, although the loop cap is 600.
	if r := Escape(Julia, vp.PixelToComplex(153, 88), cfg.JuliaSeed, cfg.Iterations); r.Count != DefaultIterations {
		t.Fatalf("pixel (153,88) count = %d, want %d", r.Count, DefaultIterations)
	}
	if got := cfg.At(153, 88); got != Inside {
		t.Errorf("pixel (153,88) = %v, want black", got)
	}

	img, err := Render(context.Background(), cfg)
	if err != nil {
		t.Fatal(err)
	}
	for y := 0; y < vp.Height; y++ {
		for x := 0; x < vp.Width; x++ {
			r := Escape(Julia, vp.PixelToComplex(x, y), cfg.JuliaSeed, cfg.Iterations)
			if want := ColorOf(r.Count, r.Final, DefaultIterations); img.RGBAAt(x, y) != want {
				t.Fatalf("pixel (%d,%d) = %v, want %v", x, y, img.RGBAAt(x, y), want)
			}
		}
	}

	// Without a color cap the escape cap grades the colors.
	cfg.ColorIterations = 0
	if got := cfg.At(200, 100); got != (color.RGBA{230, 38, 23, 255}) {
		t.Errorf("pixel (200,100) against the escape cap = %v", got)
	}
}

func TestRender_TwoByTwo(t *testing.T) {
	cfg := Config{
		Variant:    Mandelbrot,
		Viewport:   mustViewport(t, -2, 2, -2, 2, 2, 2),
		Iterations: 10,
	}
	img, err := Render(context.Background(), cfg)
	if err != nil {
		t.Fatal(err)
	}
	if img.Bounds() != image.Rect(0, 0, 2, 2) {
		t.Fatalf("bounds = %v", img.Bounds())
	}

	// (0,0) maps to -2-2i and escapes immediately.
	if r := Escape(Mandelbrot, cfg.Viewport.PixelToComplex(0, 0), Complex{}, 10); r.Count >= 10 {
		t.Errorf("pixel (0,0) count = %d, want < 10", r.Count)
	}
	if got := img.RGBAAt(0, 0); got == Inside {
		t.Errorf("pixel (0,0) is black")
	}

	// (1,1) maps to the origin, inside the set.
	if c := cfg.Viewport.PixelToComplex(1, 1); c != (Complex{}) {
		t.Fatalf("pixel (1,1) maps to %v", c)
	}
	if got := img.RGBAAt(1, 1); got != Inside {
		t.Errorf("pixel (1,1) = %v, want black", got)
	}
}

func TestRender_WorkersAgree(t *testing.T) {
	cfg := Config{
		Variant:    BurningShip,
		Viewport:   mustViewport(t, -2, 1, -2, 1, 37, 23),
		Iterations: 50,
	}
	want, err := Render(context.Background(), cfg, WithWorkers(1))
	if err != nil {
		t.Fatal(err)
	}
	for _, n := range []int{0, 2, 3, 7, 64} {
		got, err := Render(context.Background(), cfg, WithWorkers(n))
		if err != nil {
			t.Fatal(err)
		}
		if string(got.Pix) != string(want.Pix) {
			t.Errorf("%d workers render a different image", n)
		}
	}
}

func TestRenderTile_MatchesFrame(t *testing.T) {
	cfg := Config{
		Variant:    Julia,
		Viewport:   mustViewport(t, -2, 2, -1.6, 1.6, 40, 30),
		JuliaSeed:  Complex{-0.8, 0.156},
		Iterations: 70,
	}
	frame, err := Render(context.Background(), cfg)
	if err != nil {
		t.Fatal(err)
	}

	tile := image.Rect(10, 5, 27, 19)
	img, err := RenderTile(context.Background(), cfg, tile)
	if err != nil {
		t.Fatal(err)
	}
	if img.Bounds() != tile {
		t.Fatalf("tile bounds = %v, want %v", img.Bounds(), tile)
	}
	for y := tile.Min.Y; y < tile.Max.Y; y++ {
		for x := tile.Min.X; x < tile.Max.X; x++ {
			if img.RGBAAt(x, y) != frame.RGBAAt(x, y) {
				t.Fatalf("pixel (%d,%d) differs: %v vs %v", x, y, img.RGBAAt(x, y), frame.RGBAAt(x, y))
			}
		}
	}
}

func TestRenderTile_Invalid(t *testing.T) {
	cfg := Config{Variant: Mandelbrot, Viewport: mustViewport(t, -2, 2, -2, 2, 8, 8), Iterations: 10}
	for _, tile := range []image.Rectangle{
		image.Rect(0, 0, 0, 0),
		image.Rect(4, 4, 9, 8),
		image.Rect(-1, 0, 4, 4),
	} {
		if _, err := RenderTile(context.Background(), cfg, tile); !errors.Is(err, ErrInvalidConfiguration) {
			t.Errorf("tile %v: err = %v, want ErrInvalidConfiguration", tile, err)
		}
	}

	cfg.Iterations = 0
	if _, err := Render(context.Background(), cfg); !errors.Is(err, ErrInvalidConfiguration) {
		t.Errorf("zero iterations: err = %v", err)
	}
}

func TestRender_Cancelled(t *testing.T) {
	ctx, cancel := context.WithCancelCause(context.Background())
	stop := errors.New("viewport changed")
	cancel(stop)

	cfg := Config{Variant: Mandelbrot, Viewport: mustViewport(t, -2, 2, -2, 2, 64, 64), Iterations: 100}
	img, err := Render(ctx, cfg)
	if !errors.Is(err, stop) {
		t.Fatalf("err = %v, want cancellation cause", err)
	}
	if img != nil {
		t.Error("cancelled render returned an image")
	}
}

func TestRenderSupersampled(t *testing.T) {
	// A small window around the origin is entirely inside the set.
	cfg := Config{Variant: Mandelbrot, Viewport: mustViewport(t, -0.1, 0.1, -0.1, 0.1, 16, 12), Iterations: 50}
	img, err := RenderSupersampled(context.Background(), cfg, 3)
	if err != nil {
		t.Fatal(err)
	}
	if img.Bounds() != image.Rect(0, 0, 16, 12) {
		t.Fatalf("bounds = %v", img.Bounds())
	}
	for y := 0; y < 12; y++ {
		for x := 0; x < 16; x++ {
			if c := img.RGBAAt(x, y); c.R != 0 || c.G != 0 || c.B != 0 {
				t.Fatalf("pixel (%d,%d) = %v, want black", x, y, c)
			}
		}
	}

	plain, err := RenderSupersampled(context.Background(), cfg, 1)
	if err != nil {
		t.Fatal(err)
	}
	if plain.RGBAAt(0, 0) != (color.RGBA{A: 255}) {
		t.Errorf("factor 1 pixel = %v", plain.RGBAAt(0, 0))
	}
}

func BenchmarkRender(b *testing.B) {
	vp, _ := DefaultBounds.Viewport(DefaultWidth/4, DefaultHeight/4)
	cfg := Config{Variant: Mandelbrot, Viewport: vp, Iterations: DefaultIterations}
	for b.Loop() {
		if _, err := Render(context.Background(), cfg); err != nil {
			b.Fatal(err)
		}
	}
}
