package render

import (
	"bytes"
	"context"
	"fmt"
	"os/exec"
	"strconv"
)

const tool = "rsvg-convert"

// Available reports whether rsvg-convert is on the PATH.
func Available() bool {
	_, err := exec.LookPath(tool)
	return err == nil
}

// ToPDF converts SVG bytes to PDF using rsvg-convert.
// Requires librsvg: brew install librsvg (macOS), apt install librsvg2-bin (Linux).
func ToPDF(ctx context.Context, svg []byte) ([]byte, error) {
	return rsvgConvert(ctx, svg, "pdf")
}

// ToPNG converts SVG bytes to PNG using rsvg-convert with the given scale factor.
// Scale of 2.0 produces a 2x resolution image.
func ToPNG(ctx context.Context, svg []byte, scale float64) ([]byte, error) {
	return rsvgConvert(ctx, svg, "png", "-z", fmt.Sprintf("%.2f", scale))
}

// Rasterizer renders SVG symbols to PNG at a fixed box size.
type Rasterizer struct{}

// NewRasterizer returns a rasterizer backed by rsvg-convert.
func NewRasterizer() *Rasterizer {
	return &Rasterizer{}
}

// Rasterize renders svg into a PNG that fits width × height, keeping the
// aspect ratio.
func (*Rasterizer) Rasterize(ctx context.Context, svg []byte, width, height int) ([]byte, error) {
	return rsvgConvert(ctx, svg, "png",
		"-w", strconv.Itoa(width),
		"-h", strconv.Itoa(height),
		"--keep-aspect-ratio",
	)
}

// rsvgConvert shells out to rsvg-convert for format conversion.
func rsvgConvert(ctx context.Context, svg []byte, format string, extraArgs ...string) ([]byte, error) {
	if !Available() {
		return nil, fmt.Errorf("%s export requires librsvg. Install with:\n  macOS:  brew install librsvg\n  Linux:  apt install librsvg2-bin", format)
	}

	args := append([]string{"-f", format}, extraArgs...)
	cmd := exec.CommandContext(ctx, tool, args...)
	cmd.Stdin = bytes.NewReader(svg)

	var out, errBuf bytes.Buffer
	cmd.Stdout = &out
	cmd.Stderr = &errBuf

	if err := cmd.Run(); err != nil {
		return nil, fmt.Errorf("rsvg-convert: %v: %s", err, errBuf.String())
	}
	return out.Bytes(), nil
}
