// cliclient is a CLI client for the distributed fractal renderer.
// It joins the server as a worker, waits for the fully rendered image, and saves it as a PNG file.

package main

import (
	"context"
	"flag"
	"fmt"
	"image"
	"io"
	"log"
	"log/slog"
	"net/http"
	"os"
	"time"

	"github.com/coder/websocket"
	fractal "github.com/marben/dist_fractal"
)

// main is the entry point for the CLI client.
// It runs the client logic and logs any fatal errors.
func main() {
	if err := run(); err != nil {
		log.Fatalf("FATAL: %v", err)
	}
}

// run connects to the server, renders tiles for it, and saves the finished image.
func run() error {
	server := flag.String("server", "localhost:8080", "server host:port")
	out := flag.String("o", "fractal.png", "output file")
	favorites := flag.Bool("favorites", false, "mark favorite Julia seeds on the image")
	workers := flag.Int("workers", 0, "goroutines per tile, 0 uses every CPU")
	delay := flag.Duration("delay", 0, "pause after each tile, to watch progressive rendering")
	flag.Parse()

	fractal.SetLogger(slog.Default())

	ctx := context.Background()

	// Step 1: Connect to the server's worker endpoint
	wsURL := "ws://" + *server + "/ws"
	slog.Info("connecting", "url", wsURL)
	conn, _, err := websocket.Dial(ctx, wsURL, nil)
	if err != nil {
		return fmt.Errorf("failed to connect to server: %w", err)
	}
	defer conn.CloseNow()

	// Step 2: Serve our CPU to the server
	renderer := fractal.LocalRenderer{
		Workers:      *workers,
		Delay:        *delay,
		OnTileRender: func(tile image.Rectangle) { slog.Info("rendering tile", "tile", tile.String()) },
	}
	serveCtx, cancel := context.WithCancel(ctx)
	defer cancel()
	serveErr := make(chan error, 1)
	go func() { serveErr <- fractal.ServeRendererWS(serveCtx, conn, renderer) }()

	// Step 3: Request the fully rendered image
	imgURL := "http://" + *server + "/image.png"
	if *favorites {
		imgURL += "?favorites=1"
	}
	slog.Info("requesting fully rendered image", "url", imgURL)
	body, err := fetch(ctx, imgURL, serveErr)
	if err != nil {
		return err
	}

	// Step 4: Save the rendered image
	if err := os.WriteFile(*out, body, 0o644); err != nil {
		return fmt.Errorf("failed to write output file: %w", err)
	}
	slog.Info("fully rendered image saved", "file", *out)

	conn.Close(websocket.StatusNormalClosure, "done")
	return nil
}

// fetch downloads url. It gives up early if serving tiles fails, since the
// server may then be waiting on us forever.
func fetch(ctx context.Context, url string, serveErr <-chan error) ([]byte, error) {
	ctx, cancel := context.WithCancelCause(ctx)
	defer cancel(nil)
	go func() {
		if err := <-serveErr; err != nil {
			cancel(fmt.Errorf("serving tiles: %w", err))
		}
	}()

	client := &http.Client{Timeout: time.Hour}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	resp, err := client.Do(req)
	if err != nil {
		if cause := context.Cause(ctx); cause != nil {
			return nil, cause
		}
		return nil, fmt.Errorf("get image: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("get image: %s", resp.Status)
	}
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read image: %w", err)
	}
	return body, nil
}
