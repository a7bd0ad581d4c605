package obf

import (
	"context"
	"io"

	"github.com/charmbracelet/log"
	"golang.org/x/sync/errgroup"

	"github.com/matzehuels/boardexport/pkg/board"
	"github.com/matzehuels/boardexport/pkg/errors"
	"github.com/matzehuels/boardexport/pkg/grid"
	"github.com/matzehuels/boardexport/pkg/resource"
)

// Translator maps a message key to display text.
type Translator func(key string) string

// Identity returns keys unchanged.
func Identity(key string) string { return key }

// ConvertOptions configures [Convert].
type ConvertOptions struct {
	// Embed selects data URIs over archive paths. It must match
	// Resolver.Embed() when a resolver is given.
	Embed bool
	// Translate translates labels and board names. Defaults to [Identity].
	Translate Translator
	// Locale is recorded in the document.
	Locale string
	// Resolver resolves tile images. Defaults to a resolver built from Embed.
	// Share one resolver across the boards of an export so that image ids
	// stay unique.
	Resolver *resource.Resolver
	// Logger receives debug output.
	Logger *log.Logger
}

func (o *ConvertOptions) setDefaults() error {
	if o.Translate == nil {
		o.Translate = Identity
	}
	if o.Logger == nil {
		o.Logger = log.New(io.Discard)
	}
	if o.Resolver == nil {
		o.Resolver = resource.NewResolver(resource.Options{Embed: o.Embed, Logger: o.Logger})
	} else if o.Resolver.Embed() != o.Embed {
		return errors.New(errors.ErrCodeInvalidInput, "resolver embed mode does not match conversion")
	}
	return nil
}

// BoardPath returns the archive path of a board document.
func BoardPath(id string) string {
	return "boards/" + id + ".obf"
}

// Convert builds the OBF document of b. boardsByID is used to resolve
// load-board links; targets missing from it produce buttons without a link.
//
// A board without tiles yields a nil document and an empty record map. The
// returned map holds the resolved image of every button by image id. Image
// loading failures never surface as errors; Convert only fails for a board
// that does not validate.
func Convert(ctx context.Context, boardsByID map[string]*board.Board, b *board.Board, opts ConvertOptions) (*Document, map[string]resource.Record, error) {
	records := make(map[string]resource.Record)
	if b == nil || len(b.Tiles) == 0 {
		return nil, records, nil
	}
	if err := b.Validate(); err != nil {
		return nil, nil, err
	}
	if err := opts.setDefaults(); err != nil {
		return nil, nil, err
	}
	tr := opts.Translate

	buttons := make([]Button, len(b.Tiles))
	resolved := make([]*resource.Record, len(b.Tiles))

	g, gctx := errgroup.WithContext(ctx)
	for i := range b.Tiles {
		tile := &b.Tiles[i]
		g.Go(func() error {
			btn := newButton(tile, tr)
			if tile.Image != "" {
				rec := opts.Resolver.Resolve(gctx, tile.Image, resource.Hint{
					BoardName: b.DisplayName(),
					Label:     tile.LabelText(),
					TileID:    tile.ID,
				})
				btn.ImageID = rec.ID
				resolved[i] = &rec
			}
			if target, ok := boardsByID[tile.LoadBoard]; ok && tile.LoadBoard != "" {
				btn.LoadBoard = &LoadBoard{
					Name: boardTitle(target, tr),
					Path: BoardPath(tile.LoadBoard),
				}
			}
			buttons[i] = btn
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, nil, err
	}

	images := make([]Image, 0, len(b.Tiles))
	for _, rec := range resolved {
		if rec == nil {
			continue
		}
		records[rec.ID] = *rec
		images = append(images, Image{
			ID:          rec.ID,
			Path:        rec.Path,
			Data:        rec.Inline,
			ContentType: rec.MIME,
			Width:       ImageSize,
			Height:      ImageSize,
		})
	}

	order, err := grid.Reconcile(Columns, 0, nil, b.TileIDs())
	if err != nil {
		return nil, nil, err
	}

	doc := &Document{
		Format:  Format,
		ID:      b.ID,
		Locale:  opts.Locale,
		Name:    documentName(b, tr),
		URL:     BoardURL + b.ID,
		License: DefaultLicense,
		Images:  images,
		Buttons: buttons,
		Sounds:  []any{},
		Grid: Grid{
			Rows:    len(order),
			Columns: Columns,
			Order:   board.Order(order),
		},
		Ext: boardExt(b),
	}
	if b.NameKey != "" {
		doc.DescriptionHTML = tr(b.NameKey)
	}

	opts.Logger.Debug("converted board", "id", b.ID, "buttons", len(buttons), "images", len(images))
	return doc, records, nil
}

func newButton(t *board.Tile, tr Translator) Button {
	btn := Button{
		ID:              t.ID,
		Action:          t.Action,
		Vocalization:    t.Vocalization,
		BorderColor:     t.BorderColor,
		BackgroundColor: t.BackgroundColor,
	}
	if label := t.LabelText(); label != "" {
		btn.Label = tr(label)
	}
	for _, key := range ExtProperties {
		if v, ok := t.Property(key); ok && board.Truthy(v) {
			if btn.Ext == nil {
				btn.Ext = make(map[string]any)
			}
			btn.Ext[ExtKey(key)] = v
		}
	}
	return btn
}

func boardExt(b *board.Board) map[string]any {
	var ext map[string]any
	for _, key := range ExtProperties {
		if v, ok := b.Property(key); ok {
			if ext == nil {
				ext = make(map[string]any)
			}
			ext[ExtKey(key)] = v
		}
	}
	return ext
}

// boardTitle names a link target. Stock boards carry a name key that must be
// translated; user boards carry only a name.
func boardTitle(b *board.Board, tr Translator) string {
	if b.NameKey != "" {
		return tr(b.NameKey)
	}
	return b.Name
}

func documentName(b *board.Board, tr Translator) string {
	if b.Name != "" {
		return b.Name
	}
	return boardTitle(b, tr)
}
