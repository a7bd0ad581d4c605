package print

import (
	"bytes"
	"context"
	"fmt"
	"image"
	"image/color"

	"github.com/disintegration/imaging"
	"github.com/fogleman/gg"
	_ "golang.org/x/image/webp"

	"github.com/matzehuels/boardexport/pkg/board"
	"github.com/matzehuels/boardexport/pkg/cache"
	"github.com/matzehuels/boardexport/pkg/resource"
)

// CanvasSize is the edge length of a normalized tile image in pixels.
const CanvasSize = 150

// JPEGQuality is the quality of normalized tile images.
const JPEGQuality = 92

// Normalize draws src centered on a square canvas. The canvas is filled with
// background and, when border parses as a color, framed twice: once under the
// image and once, thicker, over it. Images larger than the canvas are scaled
// down to fit; smaller ones keep their size. A nil src yields an empty
// canvas. The result is JPEG.
func Normalize(src image.Image, background, border string) ([]byte, error) {
	dc := gg.NewContext(CanvasSize, CanvasSize)
	dc.SetColor(canvasColor(background))
	dc.Clear()

	frame, framed := ParseColor(border)
	if framed {
		strokeFrame(dc, frame, 2)
	}

	if src != nil {
		b := src.Bounds()
		if b.Dx() > CanvasSize || b.Dy() > CanvasSize {
			src = imaging.Fit(src, CanvasSize, CanvasSize, imaging.Lanczos)
		}
		dc.DrawImageAnchored(src, CanvasSize/2, CanvasSize/2, 0.5, 0.5)
	}

	if framed {
		strokeFrame(dc, frame, 3)
	}

	var buf bytes.Buffer
	if err := imaging.Encode(&buf, dc.Image(), imaging.JPEG, imaging.JPEGQuality(JPEGQuality)); err != nil {
		return nil, fmt.Errorf("encode tile image: %w", err)
	}
	return buf.Bytes(), nil
}

func canvasColor(bg string) color.Color {
	c, ok := ParseColor(FillColor(bg))
	if !ok {
		return color.White
	}
	return c
}

func strokeFrame(dc *gg.Context, c color.Color, width float64) {
	dc.SetColor(c)
	dc.SetLineWidth(width)
	dc.DrawRectangle(0, 0, CanvasSize, CanvasSize)
	dc.Stroke()
}

// tileImage returns the data URI printed for t. Failures degrade to the
// "not found" image and never surface.
func (e *engine) tileImage(ctx context.Context, b *board.Board, t *board.Tile) string {
	key := e.opts.Keyer.RasterKey(t.Image+"\x00"+t.BackgroundColor+"\x00"+t.BorderColor,
		cache.RasterKeyOpts{Width: CanvasSize, Height: CanvasSize})
	if data, ok, err := e.opts.Cache.Get(ctx, key); err == nil && ok {
		return resource.DataURI("image/jpeg", data)
	}

	src, err := e.loadImage(ctx, b, t)
	if err != nil {
		e.opts.Logger.Warn("tile image unavailable", "board", b.ID, "tile", t.ID, "err", err)
		return e.notFound
	}
	data, err := Normalize(src, t.BackgroundColor, t.BorderColor)
	if err != nil {
		e.opts.Logger.Warn("tile image unavailable", "board", b.ID, "tile", t.ID, "err", err)
		return e.notFound
	}
	if err := e.opts.Cache.Set(ctx, key, data, e.opts.CacheTTL); err != nil {
		e.opts.Logger.Debug("cache tile image", "tile", t.ID, "err", err)
	}
	return resource.DataURI("image/jpeg", data)
}

// loadImage resolves and decodes the tile's image. A tile without an image
// yields nil and prints as its background.
func (e *engine) loadImage(ctx context.Context, b *board.Board, t *board.Tile) (image.Image, error) {
	if t.Image == "" {
		return nil, nil
	}
	rec := e.resolver.Resolve(ctx, t.Image, resource.Hint{
		BoardName: b.DisplayName(),
		Label:     t.LabelText(),
		TileID:    t.ID,
	})
	if rec.Placeholder() {
		return nil, fmt.Errorf("image %q not found", t.Image)
	}

	data := rec.Data
	if rec.MIME == "image/svg+xml" {
		if e.opts.Rasterizer == nil {
			return nil, fmt.Errorf("no rasterizer for SVG image")
		}
		png, err := e.opts.Rasterizer.Rasterize(ctx, data, CanvasSize, CanvasSize)
		if err != nil {
			return nil, fmt.Errorf("rasterize: %w", err)
		}
		data = png
	}

	img, err := imaging.Decode(bytes.NewReader(data), imaging.AutoOrientation(true))
	if err != nil {
		return nil, fmt.Errorf("decode %s: %w", rec.MIME, err)
	}
	return img, nil
}
