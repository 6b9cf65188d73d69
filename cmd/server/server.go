package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strings"

	fractal "github.com/marben/dist_fractal"
)

// defaultIterations is the cap of Mandelbrot and Burning Ship passes. The
// server renders large frames deep inside landmarks, so it is higher than
// the explorer default.
const defaultIterations = 1000

// main is the entry point for the fractal server.
// All rendering is performed by connected workers; the server only coordinates and distributes work.
func main() {
	if err := run(os.Args[1:]); err != nil {
		log.Fatalf("run: %+v", err)
	}
}

type options struct {
	addr     string
	cfg      fractal.Config
	origins  []string
	logLevel slog.Level
}

func parseOptions(args []string) (options, error) {
	fs := flag.NewFlagSet("server", flag.ContinueOnError)

	addr := fs.String("addr", ":8080", "http listen address")
	width := fs.Int("width", 1920, "image width in pixels")
	height := fs.Int("height", 1080, "image height in pixels")
	variant := fs.String("variant", "mandelbrot", "mandelbrot, burningship or julia")
	iterations := fs.Int("iterations", 0, "iteration cap (default 1000, width+height for julia)")
	colorIterations := fs.Int("color-iterations", 0, "cap colors are graded against (default the iteration cap, 100 for julia)")
	seed := fs.String("seed", "0,0", "julia seed as re,im")
	region := fs.String("region", "", "starting region, one of the named landmarks (default seahorse-valley, default for julia)")
	origins := fs.String("origins", "", "comma separated origin host patterns allowed to open /ws besides the server's own host")
	debug := fs.Bool("debug", false, "log every tile")

	if err := fs.Parse(args); err != nil {
		return options{}, err
	}

	o := options{addr: *addr, logLevel: slog.LevelInfo}
	if *debug {
		o.logLevel = slog.LevelDebug
	}

	var err error
	if o.cfg.Variant, err = fractal.ParseVariant(*variant); err != nil {
		return options{}, err
	}
	if o.cfg.JuliaSeed, err = fractal.ParseComplex(*seed); err != nil {
		return options{}, fmt.Errorf("-seed: %w", err)
	}

	name := *region
	if name == "" {
		name = "seahorse-valley"
		if o.cfg.Variant == fractal.Julia {
			name = "default"
		}
	}
	bounds, err := fractal.Region(name)
	if err != nil {
		return options{}, err
	}
	if o.cfg.Viewport, err = bounds.Viewport(*width, *height); err != nil {
		return options{}, err
	}

	switch {
	case *iterations != 0:
		o.cfg.Iterations = *iterations
	case o.cfg.Variant == fractal.Julia:
		o.cfg.Iterations = fractal.JuliaIterations(o.cfg.Viewport)
	default:
		o.cfg.Iterations = defaultIterations
	}
	o.cfg.ColorIterations = *colorIterations
	if o.cfg.ColorIterations == 0 && o.cfg.Variant == fractal.Julia {
		o.cfg.ColorIterations = fractal.DefaultIterations
	}
	if err := o.cfg.Validate(); err != nil {
		return options{}, err
	}

	for p := range strings.SplitSeq(*origins, ",") {
		if p = strings.TrimSpace(p); p != "" {
			o.origins = append(o.origins, p)
		}
	}
	return o, nil
}

func run(args []string) error {
	opts, err := parseOptions(args)
	if err != nil {
		return err
	}

	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: opts.logLevel}))
	slog.SetDefault(logger)
	fractal.SetLogger(logger)

	imgWorkScheduler, err := newImgWorkScheduler(opts.cfg)
	if err != nil {
		return fmt.Errorf("scheduler: %w", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	srv := webServer(ctx, opts.addr, imgWorkScheduler, &fractal.Favorites{}, opts.origins)
	go func() {
		<-ctx.Done()
		srv.Shutdown(context.Background())
	}()

	slog.Info("waiting for workers", "addr", opts.addr, "ws", "/ws")
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("http server: %w", err)
	}
	return nil
}
