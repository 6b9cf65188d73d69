package main

import (
	"context"
	"fmt"
	"image"
	"image/draw"
	"log/slog"
	"sync"

	fractal "github.com/marben/dist_fractal"
)

const tileSize = 64

// renderPass is the tile bookkeeping of one Config.
type renderPass struct {
	cfg  fractal.Config
	img  *image.RGBA
	done chan struct{} // closed when every tile is in img

	totalTiles     int
	totalPixels    int
	finishedPixels int

	unstarted map[image.Rectangle]struct{}
	inProcess map[image.Rectangle]struct{}
}

func newRenderPass(cfg fractal.Config) *renderPass {
	img := image.NewRGBA(image.Rect(0, 0, cfg.Viewport.Width, cfg.Viewport.Height))
	tiles := fractal.SplitRect(img.Bounds(), tileSize, tileSize)
	unstarted := make(map[image.Rectangle]struct{}, len(tiles))
	for _, t := range tiles {
		unstarted[t] = struct{}{}
	}
	return &renderPass{
		cfg:         cfg,
		img:         img,
		done:        make(chan struct{}),
		totalTiles:  len(tiles),
		totalPixels: cfg.Viewport.Width * cfg.Viewport.Height,
		unstarted:   unstarted,
		inProcess:   make(map[image.Rectangle]struct{}),
	}
}

// imgWorkScheduler hands tiles of the current pass to connected renderers.
type imgWorkScheduler struct {
	m       sync.Mutex
	workers int
	pass    *renderPass
	changed chan struct{} // closed and replaced on every reset
}

var _ fractal.ImgProvider = (*imgWorkScheduler)(nil)

func newImgWorkScheduler(cfg fractal.Config) (*imgWorkScheduler, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &imgWorkScheduler{
		pass:    newRenderPass(cfg),
		changed: make(chan struct{}),
	}, nil
}

// reset abandons the current pass and starts rendering cfg.
// Tiles of the old pass still being rendered are dropped when they arrive.
func (iws *imgWorkScheduler) reset(cfg fractal.Config) error {
	if err := cfg.Validate(); err != nil {
		return err
	}

	iws.m.Lock()
	iws.pass = newRenderPass(cfg)
	close(iws.changed)
	iws.changed = make(chan struct{})
	iws.m.Unlock()

	slog.Info("render pass started", "variant", cfg.Variant.String(), "bounds", fmt.Sprintf("%+v", cfg.Viewport.Bounds()))
	return nil
}

func (iws *imgWorkScheduler) config() fractal.Config {
	iws.m.Lock()
	defer iws.m.Unlock()
	return iws.pass.cfg
}

// popTile returns the next tile to render. When nothing is left it returns
// the channel that is closed on the next reset.
func (iws *imgWorkScheduler) popTile() (p *renderPass, tile image.Rectangle, wait <-chan struct{}) {
	iws.m.Lock()
	defer iws.m.Unlock()

	p = iws.pass

	// Get unstarted tile
	for tile = range p.unstarted {
		delete(p.unstarted, tile)
		p.inProcess[tile] = struct{}{}
		return p, tile, nil
	}

	// If there is no unstarted tile, we work again on a started one
	for tile = range p.inProcess {
		return p, tile, nil
	}

	return nil, image.Rectangle{}, iws.changed
}

// GetImage waits until the current pass is complete.
func (iws *imgWorkScheduler) GetImage(ctx context.Context) (*image.RGBA, error) {
	_, img, err := iws.finishedPass(ctx)
	return img, err
}

// finishedPass waits until the current pass is complete and returns its
// config together with its image. A reset while waiting moves the wait on
// to the new pass, since the abandoned one never completes.
func (iws *imgWorkScheduler) finishedPass(ctx context.Context) (fractal.Config, *image.RGBA, error) {
	for {
		iws.m.Lock()
		p, changed := iws.pass, iws.changed
		iws.m.Unlock()

		select {
		case <-p.done:
			return p.cfg, p.img, nil
		case <-changed:
		case <-ctx.Done():
			return fractal.Config{}, nil, context.Cause(ctx)
		}
	}
}

type progress struct {
	Config        fractal.Config `json:"config"`
	Workers       int            `json:"workers"`
	TotalTiles    int            `json:"totalTiles"`
	FinishedTiles int            `json:"finishedTiles"`
	Finished      float64        `json:"finished"`
}

func (iws *imgWorkScheduler) progress() progress {
	iws.m.Lock()
	defer iws.m.Unlock()

	p := iws.pass
	return progress{
		Config:        p.cfg,
		Workers:       iws.workers,
		TotalTiles:    p.totalTiles,
		FinishedTiles: p.totalTiles - len(p.unstarted) - len(p.inProcess),
		Finished:      float64(p.finishedPixels) / float64(p.totalPixels),
	}
}

func (iws *imgWorkScheduler) tileFinished(p *renderPass, tileImg *image.RGBA) {
	rect := tileImg.Bounds()

	iws.m.Lock()
	defer iws.m.Unlock()

	if p != iws.pass {
		slog.Debug("dropping tile of abandoned pass", "tile", rect.String())
		return
	}

	// A tile rendered twice is only counted and drawn once.
	if _, found := p.inProcess[rect]; !found {
		return
	}
	draw.Draw(p.img, rect, tileImg, rect.Min, draw.Src)
	delete(p.inProcess, rect)
	p.finishedPixels += rect.Dx() * rect.Dy()

	if len(p.unstarted) == 0 && len(p.inProcess) == 0 {
		close(p.done)
		slog.Info("render pass finished", "variant", p.cfg.Variant.String())
	} else {
		slog.Debug("tile finished", "tile", rect.String(), "finished", float64(p.finishedPixels)/float64(p.totalPixels))
	}
}

// tileFailed puts a tile back so another worker can pick it up.
func (iws *imgWorkScheduler) tileFailed(p *renderPass, tile image.Rectangle) {
	iws.m.Lock()
	defer iws.m.Unlock()

	if p != iws.pass {
		return
	}
	if _, found := p.inProcess[tile]; found {
		delete(p.inProcess, tile)
		p.unstarted[tile] = struct{}{}
	}
}

func (iws *imgWorkScheduler) addWorker(delta int) {
	iws.m.Lock()
	iws.workers += delta
	w := iws.workers
	iws.m.Unlock()

	slog.Info("workers changed", "workers", w)
}

// render feeds tiles to renderer until ctx is done or renderer fails.
// Can be called from multiple goroutines in parallel.
func (iws *imgWorkScheduler) render(ctx context.Context, renderer fractal.Renderer) error {
	iws.addWorker(1)
	defer iws.addWorker(-1)

	for {
		p, tile, wait := iws.popTile()
		if p == nil {
			select {
			case <-wait:
				continue
			case <-ctx.Done():
				return nil
			}
		}

		tileImg, err := renderer.RenderTile(ctx, p.cfg, tile)
		if err != nil {
			iws.tileFailed(p, tile)
			return fmt.Errorf("render tile %s: %w", tile, err)
		}
		iws.tileFinished(p, tileImg)
	}
}
