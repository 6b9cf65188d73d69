package fractal

import (
	"context"
	"image"
	"time"
)

// ImgProvider hands out a fully rendered frame.
type ImgProvider interface {
	GetImage(ctx context.Context) (*image.RGBA, error)
}

// Renderer renders one tile of the frame described by cfg.
type Renderer interface {
	RenderTile(ctx context.Context, cfg Config, tile image.Rectangle) (*image.RGBA, error)
}

// LocalRenderer renders tiles on this machine's CPUs.
type LocalRenderer struct {
	Workers int // goroutines per tile, 0 means GOMAXPROCS

	// Delay is slept after every tile. It slows workers down so progressive
	// rendering can be watched.
	Delay time.Duration

	OnTileRender func(tile image.Rectangle)
}

var _ Renderer = LocalRenderer{}

func (r LocalRenderer) RenderTile(ctx context.Context, cfg Config, tile image.Rectangle) (*image.RGBA, error) {
	if r.OnTileRender != nil {
		r.OnTileRender(tile)
	}

	var opts []RenderOption
	if r.Workers > 0 {
		opts = append(opts, WithWorkers(r.Workers))
	}
	img, err := RenderTile(ctx, cfg, tile, opts...)
	if err != nil {
		return nil, err
	}

	if r.Delay > 0 {
		t := time.NewTimer(r.Delay)
		defer t.Stop()
		select {
		case <-t.C:
		case <-ctx.Done():
			return nil, context.Cause(ctx)
		}
	}
	return img, nil
}

// SplitRect splits r into tiles of size tileW × tileH, row by row.
// Tiles at the right and bottom edges are smaller if r is not divisible.
func SplitRect(r image.Rectangle, tileW, tileH int) []image.Rectangle {
	if tileW <= 0 || tileH <= 0 {
		panic("tile dimensions must be positive")
	}

	var tiles []image.Rectangle
	for y := r.Min.Y; y < r.Max.Y; y += tileH {
		for x := r.Min.X; x < r.Max.X; x += tileW {
			tiles = append(tiles, image.Rect(x, y, min(x+tileW, r.Max.X), min(y+tileH, r.Max.Y)))
		}
	}
	return tiles
}
