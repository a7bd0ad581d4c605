package print

import (
	"context"
	"io"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/boardexport/pkg/cache"
	"github.com/matzehuels/boardexport/pkg/errors"
	"github.com/matzehuels/boardexport/pkg/resource"
)

// LabelPosition places a tile's label relative to its image.
type LabelPosition string

const (
	LabelBelow  LabelPosition = "Below"
	LabelAbove  LabelPosition = "Above"
	LabelHidden LabelPosition = "Hidden"
)

// ParseLabelPosition parses a label position setting. The empty string
// selects [LabelBelow].
func ParseLabelPosition(s string) (LabelPosition, error) {
	switch LabelPosition(s) {
	case "", LabelBelow:
		return LabelBelow, nil
	case LabelAbove:
		return LabelAbove, nil
	case LabelHidden:
		return LabelHidden, nil
	}
	return "", errors.New(errors.ErrCodeInvalidInput, "unknown label position %q (want Above, Below or Hidden)", s)
}

// Rasterizer renders SVG bytes to PNG within a width × height box.
// [*render.Rasterizer] implements it.
type Rasterizer interface {
	Rasterize(ctx context.Context, svg []byte, width, height int) ([]byte, error)
}

// Options configures [Layout].
type Options struct {
	// LabelPosition stacks labels below, above or not at all.
	LabelPosition LabelPosition
	// Locale selects the document font family.
	Locale string
	// Translate resolves label and name keys. Defaults to identity.
	Translate func(key string) string
	// PicseePal targets the PicseePal viewer: wider margins, a smaller grid
	// and a background with the cut guide.
	PicseePal bool
	// Resources configures image loading. Embed is ignored.
	Resources resource.Options
	// Rasterizer renders SVG images. Without one SVG images print as the
	// "not found" image.
	Rasterizer Rasterizer
	// Cache stores normalized tile images. Defaults to a null cache.
	Cache cache.Cache
	// Keyer builds cache keys. Defaults to [cache.DefaultKeyer].
	Keyer cache.Keyer
	// CacheTTL is the lifetime of cached tile images. Defaults to
	// [cache.TTLRaster].
	CacheTTL time.Duration
	// Logger receives per-board progress at debug level.
	Logger *log.Logger
}

func (o *Options) setDefaults() error {
	pos, err := ParseLabelPosition(string(o.LabelPosition))
	if err != nil {
		return err
	}
	o.LabelPosition = pos
	if o.Translate == nil {
		o.Translate = func(key string) string { return key }
	}
	if o.Cache == nil {
		o.Cache = cache.NewNullCache()
	}
	if o.Keyer == nil {
		o.Keyer = cache.NewDefaultKeyer()
	}
	if o.CacheTTL == 0 {
		o.CacheTTL = cache.TTLRaster
	}
	if o.Logger == nil {
		o.Logger = log.New(io.Discard)
	}
	if o.Resources.Logger == nil {
		o.Resources.Logger = o.Logger
	}
	o.Resources.Embed = true
	return nil
}
