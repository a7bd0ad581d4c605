package resource

import (
	"bytes"
	"image/color"
	"image/png"
	"sync"

	"github.com/fogleman/gg"

	"github.com/matzehuels/boardexport/pkg/fonts"
)

// NotFoundPath is the archive path of the placeholder image.
const NotFoundPath = "/not-found.png"

// NotFoundSize is the edge length of the placeholder image in pixels.
const NotFoundSize = 150

var (
	notFoundPNG  []byte
	notFoundOnce sync.Once
)

// NotFoundPNG returns the PNG bytes of the "image not found" placeholder:
// a grey question mark on a light background. It is drawn once per process.
func NotFoundPNG() []byte {
	notFoundOnce.Do(func() {
		notFoundPNG = drawNotFound()
	})
	return notFoundPNG
}

func drawNotFound() []byte {
	dc := gg.NewContext(NotFoundSize, NotFoundSize)
	dc.SetColor(color.RGBA{0xf2, 0xf2, 0xf2, 0xff})
	dc.Clear()

	dc.SetColor(color.RGBA{0xbd, 0xbd, 0xbd, 0xff})
	dc.SetLineWidth(4)
	dc.DrawRoundedRectangle(8, 8, NotFoundSize-16, NotFoundSize-16, 12)
	dc.Stroke()

	if face, err := fonts.Face(NotFoundSize / 2); err == nil {
		dc.SetFontFace(face)
		dc.SetColor(color.RGBA{0x9e, 0x9e, 0x9e, 0xff})
		dc.DrawStringAnchored("?", NotFoundSize/2, NotFoundSize/2, 0.5, 0.35)
	}

	var buf bytes.Buffer
	if err := png.Encode(&buf, dc.Image()); err != nil {
		return nil
	}
	return buf.Bytes()
}
