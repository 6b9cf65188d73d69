package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"image"
	"image/png"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/coder/websocket"
	fractal "github.com/marben/dist_fractal"
)

// webServer serves the worker websocket endpoint and the control API.
// ctx bounds the lifetime of worker connections.
func webServer(ctx context.Context, addr string, iws *imgWorkScheduler, favs *fractal.Favorites, origins []string) *http.Server {
	return &http.Server{
		Addr:              addr,
		Handler:           newMux(ctx, iws, favs, origins),
		ReadHeaderTimeout: 5 * time.Second,
	}
}

func newMux(ctx context.Context, iws *imgWorkScheduler, favs *fractal.Favorites, origins []string) *http.ServeMux {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /ws", websocketHandler(ctx, iws, origins))
	mux.HandleFunc("GET /image.png", imageHandler(iws, favs))
	mux.HandleFunc("GET /progress", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, iws.progress())
	})
	mux.HandleFunc("POST /job", jobHandler(iws))
	mux.HandleFunc("POST /zoom", zoomHandler(iws))
	mux.HandleFunc("GET /favorites", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, favoriteList(favs))
	})
	mux.HandleFunc("POST /favorites", addFavoriteHandler(favs))
	mux.HandleFunc("DELETE /favorites/{index}", removeFavoriteHandler(favs))
	mux.HandleFunc("POST /favorites/{index}/render", renderFavoriteHandler(iws, favs))
	return mux
}

// websocketHandler turns every websocket connection into a worker of iws.
// The handler blocks for as long as the worker is connected.
//
// Requests without an Origin header (command-line workers) and same-origin
// requests are always accepted; other origins must match one of origins.
func websocketHandler(ctx context.Context, iws *imgWorkScheduler, origins []string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		c, err := websocket.Accept(w, r, &websocket.AcceptOptions{
			OriginPatterns: origins,
		})
		if err != nil {
			slog.Warn("websocket accept", "remote", r.RemoteAddr, "err", err)
			return
		}
		slog.Info("worker connected", "remote", r.RemoteAddr)

		// Each connected client is used as a worker
		if err := iws.render(ctx, fractal.NewRendererWSClient(c)); err != nil {
			slog.Warn("worker dropped", "remote", r.RemoteAddr, "err", err)
			c.CloseNow()
			return
		}
		c.Close(websocket.StatusNormalClosure, "server shutting down")
	}
}

// imageHandler blocks until the current pass is complete and sends it as PNG.
// With ?favorites=1 the favorite Julia seeds are marked on the image.
func imageHandler(iws *imgWorkScheduler, favs *fractal.Favorites) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		cfg, img, err := iws.finishedPass(r.Context())
		if err != nil {
			httpError(w, http.StatusServiceUnavailable, err)
			return
		}

		var out image.Image = img
		if r.URL.Query().Get("favorites") == "1" {
			if out, err = fractal.Annotate(img, cfg.Viewport, image.Rectangle{}, favs.List()...); err != nil {
				httpError(w, http.StatusInternalServerError, err)
				return
			}
		}

		w.Header().Set("Content-Type", "image/png")
		if err := png.Encode(w, out); err != nil {
			slog.Warn("png encode", "err", err)
		}
	}
}

func jobHandler(iws *imgWorkScheduler) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var cfg fractal.Config
		if err := json.NewDecoder(r.Body).Decode(&cfg); err != nil {
			httpError(w, http.StatusBadRequest, fmt.Errorf("decode config: %w", err))
			return
		}
		startPass(w, iws, cfg)
	}
}

type zoomRequest struct {
	X0 int `json:"x0"`
	Y0 int `json:"y0"`
	X1 int `json:"x1"`
	Y1 int `json:"y1"`
}

// zoomHandler restarts rendering inside a pixel rectangle of the current frame.
func zoomHandler(iws *imgWorkScheduler) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req zoomRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			httpError(w, http.StatusBadRequest, fmt.Errorf("decode selection: %w", err))
			return
		}

		cfg := iws.config()
		vp, err := cfg.Viewport.Select(image.Rect(req.X0, req.Y0, req.X1, req.Y1))
		if err != nil {
			httpError(w, http.StatusBadRequest, err)
			return
		}
		cfg.Viewport = vp
		startPass(w, iws, cfg)
	}
}

type favorite struct {
	Index int             `json:"index"`
	Point fractal.Complex `json:"point"`
	Label string          `json:"label"`
}

func favoriteList(favs *fractal.Favorites) []favorite {
	points := favs.List()
	list := make([]favorite, len(points))
	for i, p := range points {
		list[i] = favorite{Index: i, Point: p, Label: p.String()}
	}
	return list
}

func addFavoriteHandler(favs *fractal.Favorites) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var p fractal.Complex
		if err := json.NewDecoder(r.Body).Decode(&p); err != nil {
			httpError(w, http.StatusBadRequest, fmt.Errorf("decode point: %w", err))
			return
		}
		if err := favs.Add(p); err != nil {
			httpError(w, http.StatusConflict, err)
			return
		}
		writeJSON(w, http.StatusCreated, favoriteList(favs))
	}
}

func removeFavoriteHandler(favs *fractal.Favorites) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		i, err := strconv.Atoi(r.PathValue("index"))
		if err != nil {
			httpError(w, http.StatusBadRequest, fmt.Errorf("favorite index: %w", err))
			return
		}
		if err := favs.Remove(i); err != nil {
			httpError(w, http.StatusNotFound, err)
			return
		}
		writeJSON(w, http.StatusOK, favoriteList(favs))
	}
}

// renderFavoriteHandler renders the Julia set of a favorite seed over the
// default bounds at the current resolution. Colors are graded against the cap
// of the current pass, the way the explorer grades its Julia view against
// the Mandelbrot cap.
func renderFavoriteHandler(iws *imgWorkScheduler, favs *fractal.Favorites) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		i, err := strconv.Atoi(r.PathValue("index"))
		if err != nil {
			httpError(w, http.StatusBadRequest, fmt.Errorf("favorite index: %w", err))
			return
		}
		seed, err := favs.Get(i)
		if err != nil {
			httpError(w, http.StatusNotFound, err)
			return
		}

		cur := iws.config()
		vp, err := fractal.DefaultBounds.Viewport(cur.Viewport.Width, cur.Viewport.Height)
		if err != nil {
			httpError(w, http.StatusInternalServerError, err)
			return
		}
		startPass(w, iws, fractal.Config{
			Variant:         fractal.Julia,
			Viewport:        vp,
			Iterations:      fractal.JuliaIterations(vp),
			JuliaSeed:       seed,
			ColorIterations: cur.ColorCap(),
		})
	}
}

func startPass(w http.ResponseWriter, iws *imgWorkScheduler, cfg fractal.Config) {
	if err := iws.reset(cfg); err != nil {
		status := http.StatusInternalServerError
		if errors.Is(err, fractal.ErrInvalidViewport) || errors.Is(err, fractal.ErrInvalidConfiguration) {
			status = http.StatusBadRequest
		}
		httpError(w, status, err)
		return
	}
	writeJSON(w, http.StatusAccepted, iws.progress())
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Warn("json encode", "err", err)
	}
}

func httpError(w http.ResponseWriter, status int, err error) {
	writeJSON(w, status, map[string]string{"error": err.Error()})
}
