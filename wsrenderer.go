package fractal

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"image"
	"sync"

	"github.com/coder/websocket"
	"github.com/coder/websocket/wsjson"
)

const (
	// maxRequestMessage bounds a tile request, which carries no pixels.
	maxRequestMessage = 1 << 16

	// responseOverhead covers the JSON framing and error text of a tile response.
	responseOverhead = 1 << 12
)

// tileResponseLimit is the largest response a well-behaved peer sends for tile:
// its RGBA pixels base64 encoded, plus framing.
func tileResponseLimit(tile image.Rectangle) int64 {
	pix := 4 * max(tile.Dx(), 0) * max(tile.Dy(), 0)
	return int64(base64.StdEncoding.EncodedLen(pix)) + responseOverhead
}

type tileRequest struct {
	Config Config          `json:"config"`
	Tile   image.Rectangle `json:"tile"`
}

type tileResponse struct {
	Tile image.Rectangle `json:"tile"`
	Pix  []byte          `json:"pix,omitempty"`
	Err  string          `json:"err,omitempty"`
}

// RendererWSClient calls a Renderer served on the other end of a websocket
// with ServeRendererWS. Calls are serialized, one tile in flight at a time.
// The read limit of the connection follows the size of the requested tile,
// so tiles of any size can be rendered.
//
// coder/websocket closes the connection when a read or write context is
// cancelled, so a cancelled RenderTile leaves the client unusable.
type RendererWSClient struct {
	conn *websocket.Conn
	mu   sync.Mutex
}

var _ Renderer = (*RendererWSClient)(nil)

func NewRendererWSClient(conn *websocket.Conn) *RendererWSClient {
	return &RendererWSClient{conn: conn}
}

func (c *RendererWSClient) RenderTile(ctx context.Context, cfg Config, tile image.Rectangle) (*image.RGBA, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if err := wsjson.Write(ctx, c.conn, tileRequest{Config: cfg, Tile: tile}); err != nil {
		return nil, fmt.Errorf("send tile request: %w", err)
	}

	c.conn.SetReadLimit(tileResponseLimit(tile))
	var resp tileResponse
	if err := wsjson.Read(ctx, c.conn, &resp); err != nil {
		return nil, fmt.Errorf("read tile response: %w", err)
	}
	if resp.Err != "" {
		return nil, fmt.Errorf("remote render of tile %v: %s", tile, resp.Err)
	}
	if resp.Tile != tile {
		return nil, fmt.Errorf("remote answered tile %v, asked for %v", resp.Tile, tile)
	}
	if want := 4 * tile.Dx() * tile.Dy(); len(resp.Pix) != want {
		return nil, fmt.Errorf("tile %v: got %d bytes of pixels, want %d", tile, len(resp.Pix), want)
	}

	return &image.RGBA{Pix: resp.Pix, Stride: 4 * tile.Dx(), Rect: tile}, nil
}

// ServeRendererWS answers tile requests arriving on conn with r until the peer
// closes the connection or ctx is done. A normal close returns nil.
// Render failures are reported to the peer and do not end the loop.
func ServeRendererWS(ctx context.Context, conn *websocket.Conn, r Renderer) error {
	conn.SetReadLimit(maxRequestMessage)
	for {
		var req tileRequest
		if err := wsjson.Read(ctx, conn, &req); err != nil {
			if websocket.CloseStatus(err) == websocket.StatusNormalClosure {
				return nil
			}
			if errors.Is(err, context.Canceled) {
				return nil
			}
			return fmt.Errorf("read tile request: %w", err)
		}

		resp := tileResponse{Tile: req.Tile}
		img, err := r.RenderTile(ctx, req.Config, req.Tile)
		if err != nil {
			Logger().Warn("tile render failed", "tile", req.Tile.String(), "err", err)
			resp.Err = err.Error()
		} else {
			resp.Pix = packPix(img)
		}

		if err := wsjson.Write(ctx, conn, resp); err != nil {
			return fmt.Errorf("send tile response: %w", err)
		}
	}
}

// packPix returns the pixels of img as a contiguous 4·Dx·Dy slice.
func packPix(img *image.RGBA) []byte {
	w := 4 * img.Rect.Dx()
	if img.Stride == w {
		return img.Pix[:w*img.Rect.Dy()]
	}
	pix := make([]byte, 0, w*img.Rect.Dy())
	for y := img.Rect.Min.Y; y < img.Rect.Max.Y; y++ {
		off := img.PixOffset(img.Rect.Min.X, y)
		pix = append(pix, img.Pix[off:off+w]...)
	}
	return pix
}
