package fractal

import (
	"context"
	"fmt"
	"image"
	"runtime"
	"sync"
	"time"

	xdraw "golang.org/x/image/draw"
)

type renderOptions struct {
	workers int
}

// RenderOption tunes a render pass.
type RenderOption func(*renderOptions)

// WithWorkers sets how many goroutines share a pass. Values below 1 mean one.
func WithWorkers(n int) RenderOption {
	return func(o *renderOptions) {
		o.workers = max(n, 1)
	}
}

func defaultRenderOptions() renderOptions {
	return renderOptions{workers: runtime.GOMAXPROCS(0)}
}

// Render renders the whole frame described by cfg.
// The returned buffer belongs to the caller.
func Render(ctx context.Context, cfg Config, opts ...RenderOption) (*image.RGBA, error) {
	return RenderTile(ctx, cfg, image.Rect(0, 0, cfg.Viewport.Width, cfg.Viewport.Height), opts...)
}

// RenderTile renders the part of the frame covered by tile. tile is in frame
// pixel coordinates and the returned image has tile as its bounds.
//
// Rows are split into disjoint bands, one per worker. ctx is checked before
// every row; a cancelled pass returns the cancellation cause and no image.
func RenderTile(ctx context.Context, cfg Config, tile image.Rectangle, opts ...RenderOption) (*image.RGBA, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	frame := image.Rect(0, 0, cfg.Viewport.Width, cfg.Viewport.Height)
	if tile.Empty() || !tile.In(frame) {
		return nil, fmt.Errorf("%w: tile %v outside frame %v", ErrInvalidConfiguration, tile, frame)
	}

	o := defaultRenderOptions()
	for _, opt := range opts {
		opt(&o)
	}
	workers := min(o.workers, tile.Dy())

	start := time.Now()
	img := image.NewRGBA(tile)
	band := (tile.Dy() + workers - 1) / workers

	var wg sync.WaitGroup
	for y0 := tile.Min.Y; y0 < tile.Max.Y; y0 += band {
		y1 := min(y0+band, tile.Max.Y)
		wg.Go(func() {
			for py := y0; py < y1; py++ {
				if ctx.Err() != nil {
					return
				}
				for px := tile.Min.X; px < tile.Max.X; px++ {
					img.SetRGBA(px, py, cfg.At(px, py))
				}
			}
		})
	}
	wg.Wait()

	if ctx.Err() != nil {
		return nil, context.Cause(ctx)
	}

	Logger().Debug("tile rendered",
		"variant", cfg.Variant.String(),
		"tile", tile.String(),
		"workers", workers,
		"elapsed", time.Since(start))
	return img, nil
}

// RenderSupersampled renders at factor times the resolution of cfg and
// scales the result down to the requested size. factor ≤ 1 is a plain Render.
func RenderSupersampled(ctx context.Context, cfg Config, factor int, opts ...RenderOption) (*image.RGBA, error) {
	if factor <= 1 {
		return Render(ctx, cfg, opts...)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	hiCfg := cfg
	hiCfg.Viewport.Width *= factor
	hiCfg.Viewport.Height *= factor
	hi, err := Render(ctx, hiCfg, opts...)
	if err != nil {
		return nil, err
	}

	dst := image.NewRGBA(image.Rect(0, 0, cfg.Viewport.Width, cfg.Viewport.Height))
	xdraw.CatmullRom.Scale(dst, dst.Bounds(), hi, hi.Bounds(), xdraw.Src, nil)
	return dst, nil
}
