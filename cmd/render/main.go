// render draws one fractal frame on this machine and saves it as a PNG file.
//
// Usage:
//
//	render [-variant mandelbrot|burningship|julia] [-seed -0.8,0.156] [-select x0,y0,x1,y1] [-o out.png]
package main

import (
	"context"
	"fmt"
	"image"
	"image/png"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"time"

	fractal "github.com/marben/dist_fractal"
)

func main() {
	if err := run(os.Args[1:]); err != nil {
		log.Fatalf("render: %v", err)
	}
}

func run(args []string) error {
	opts, err := parseOptions(args)
	if err != nil {
		return err
	}

	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: opts.logLevel}))
	fractal.SetLogger(logger)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	start := time.Now()
	img, err := fractal.RenderSupersampled(ctx, opts.cfg, opts.supersample, opts.renderOptions()...)
	if err != nil {
		return err
	}
	logger.Info("rendered",
		"variant", opts.cfg.Variant.String(),
		"size", fmt.Sprintf("%dx%d", opts.cfg.Viewport.Width, opts.cfg.Viewport.Height),
		"iterations", opts.cfg.Iterations,
		"elapsed", time.Since(start))

	var out image.Image = img
	if !opts.outline.Empty() || len(opts.marks) > 0 {
		if out, err = fractal.Annotate(img, opts.cfg.Viewport, opts.outline, opts.marks...); err != nil {
			return fmt.Errorf("annotate: %w", err)
		}
	}

	f, err := os.Create(opts.output)
	if err != nil {
		return fmt.Errorf("create output: %w", err)
	}
	defer f.Close()

	if err := png.Encode(f, out); err != nil {
		return fmt.Errorf("encode png: %w", err)
	}
	logger.Info("saved", "file", opts.output)
	return f.Close()
}
