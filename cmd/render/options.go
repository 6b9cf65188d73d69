package main

import (
	"flag"
	"fmt"
	"image"
	"log/slog"
	"strconv"
	"strings"

	fractal "github.com/marben/dist_fractal"
)

type options struct {
	cfg         fractal.Config
	workers     int
	supersample int
	outline     image.Rectangle
	marks       []fractal.Complex
	output      string
	logLevel    slog.Level
}

// parseOptions turns command-line arguments into a validated render configuration.
// A -select rectangle zooms into that part of the frame given by the bounds flags.
func parseOptions(args []string) (options, error) {
	fs := flag.NewFlagSet("render", flag.ContinueOnError)

	minX := fs.Float64("minx", fractal.DefaultBounds.MinX, "left plane bound")
	maxX := fs.Float64("maxx", fractal.DefaultBounds.MaxX, "right plane bound")
	minY := fs.Float64("miny", fractal.DefaultBounds.MinY, "top plane bound")
	maxY := fs.Float64("maxy", fractal.DefaultBounds.MaxY, "bottom plane bound")
	region := fs.String("region", "", "named landmark, overrides the bounds flags")
	width := fs.Int("width", 0, "width in pixels (default 900, 300 for julia)")
	height := fs.Int("height", 0, "height in pixels (default 700, 300 for julia)")
	variant := fs.String("variant", "mandelbrot", "mandelbrot, burningship or julia")
	iterations := fs.Int("iterations", 0, "iteration cap (default 100, width+height for julia)")
	colorIterations := fs.Int("color-iterations", 0, "cap colors are graded against (default the iteration cap, 100 for julia)")
	seed := fs.String("seed", "0,0", "julia seed as re,im")
	sel := fs.String("select", "", "zoom into pixel rectangle x0,y0,x1,y1")
	outline := fs.String("outline", "", "draw a selection outline x0,y0,x1,y1 on the result")
	mark := fs.Bool("mark", false, "mark the julia seed on the result")
	workers := fs.Int("workers", 0, "render goroutines, 0 uses every CPU")
	supersample := fs.Int("supersample", 1, "render at this factor and scale down")
	output := fs.String("o", "fractal.png", "output file")
	debug := fs.Bool("debug", false, "debug logging")

	if err := fs.Parse(args); err != nil {
		return options{}, err
	}

	var o options
	var err error

	if o.cfg.Variant, err = fractal.ParseVariant(*variant); err != nil {
		return options{}, err
	}
	if o.cfg.JuliaSeed, err = fractal.ParseComplex(*seed); err != nil {
		return options{}, fmt.Errorf("-seed: %w", err)
	}

	w, h := fractal.DefaultWidth, fractal.DefaultHeight
	if o.cfg.Variant == fractal.Julia {
		w, h = fractal.JuliaWidth, fractal.JuliaHeight
	}
	if *width != 0 {
		w = *width
	}
	if *height != 0 {
		h = *height
	}

	bounds := fractal.Bounds{MinX: *minX, MaxX: *maxX, MinY: *minY, MaxY: *maxY}
	if *region != "" {
		if bounds, err = fractal.Region(*region); err != nil {
			return options{}, err
		}
	}
	if o.cfg.Viewport, err = bounds.Viewport(w, h); err != nil {
		return options{}, err
	}
	if *sel != "" {
		r, err := parseRect(*sel)
		if err != nil {
			return options{}, fmt.Errorf("-select: %w", err)
		}
		if o.cfg.Viewport, err = o.cfg.Viewport.Select(r); err != nil {
			return options{}, err
		}
	}

	switch {
	case *iterations != 0:
		o.cfg.Iterations = *iterations
	case o.cfg.Variant == fractal.Julia:
		o.cfg.Iterations = fractal.JuliaIterations(o.cfg.Viewport)
	default:
		o.cfg.Iterations = fractal.DefaultIterations
	}
	o.cfg.ColorIterations = *colorIterations
	if o.cfg.ColorIterations == 0 && o.cfg.Variant == fractal.Julia {
		o.cfg.ColorIterations = fractal.DefaultIterations
	}
	if err := o.cfg.Validate(); err != nil {
		return options{}, err
	}

	if *outline != "" {
		if o.outline, err = parseRect(*outline); err != nil {
			return options{}, fmt.Errorf("-outline: %w", err)
		}
	}
	if *mark {
		o.marks = append(o.marks, o.cfg.JuliaSeed)
	}

	o.workers = *workers
	o.supersample = *supersample
	o.output = *output
	o.logLevel = slog.LevelInfo
	if *debug {
		o.logLevel = slog.LevelDebug
	}
	return o, nil
}

func (o options) renderOptions() []fractal.RenderOption {
	if o.workers <= 0 {
		return nil
	}
	return []fractal.RenderOption{fractal.WithWorkers(o.workers)}
}

// parseRect parses "x0,y0,x1,y1" in pixels.
func parseRect(s string) (image.Rectangle, error) {
	parts, err := splitN(s, 4)
	if err != nil {
		return image.Rectangle{}, err
	}
	var v [4]int
	for i, p := range parts {
		if v[i], err = strconv.Atoi(p); err != nil {
			return image.Rectangle{}, err
		}
	}
	return image.Rect(v[0], v[1], v[2], v[3]), nil
}

func splitN(s string, n int) ([]string, error) {
	parts := strings.Split(s, ",")
	if len(parts) != n {
		return nil, fmt.Errorf("want %d comma separated numbers, got %q", n, s)
	}
	for i := range parts {
		parts[i] = strings.TrimSpace(parts[i])
	}
	return parts, nil
}
