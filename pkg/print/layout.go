package print

import (
	"context"

	"github.com/matzehuels/boardexport/pkg/board"
	"github.com/matzehuels/boardexport/pkg/errors"
	"github.com/matzehuels/boardexport/pkg/fonts"
	"github.com/matzehuels/boardexport/pkg/grid"
	"github.com/matzehuels/boardexport/pkg/resource"
)

// fillerTile stands in for empty cells of fixed-grid pages.
var fillerTile = board.Tile{BackgroundColor: LegacyGray}

// Layout builds the print document for boards, in order. Every board after
// the first starts on a new page.
//
// Layout fails only on invalid input: no boards, or a board that does not
// validate. Unloadable images print as the "not found" image.
func Layout(ctx context.Context, boards []board.Board, opts Options) (*Document, error) {
	if len(boards) == 0 {
		return nil, errors.New(errors.ErrCodeInvalidInput, "no boards to print")
	}
	if err := opts.setDefaults(); err != nil {
		return nil, err
	}
	for i := range boards {
		if err := boards[i].Validate(); err != nil {
			return nil, err
		}
	}

	font, registry := fonts.Registry(opts.Locale)
	doc := newDocument(font, registry, opts.PicseePal)

	e := &engine{
		opts:     opts,
		resolver: resource.NewResolver(opts.Resources),
		notFound: resource.DataURI("image/png", resource.NotFoundPNG()),
	}
	for i := range boards {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		nodes, err := e.board(ctx, &boards[i], i > 0)
		if err != nil {
			return nil, err
		}
		doc.Content = append(doc.Content, nodes...)
		opts.Logger.Debug("laid out board", "board", boards[i].ID, "tiles", len(boards[i].Tiles))
	}
	return doc, nil
}

type engine struct {
	opts     Options
	resolver *resource.Resolver
	notFound string
}

// placement is a tile assigned to a grid row.
type placement struct {
	tile      *board.Tile
	row       int
	pageBreak bool
}

// dimensions returns the grid used to print b: the stored grid of a fixed
// board, the defaults otherwise.
func dimensions(b *board.Board) (columns, rows int, fixed bool) {
	if b.IsFixed && b.Grid != nil && b.Grid.Columns > 0 && b.Grid.Rows > 0 {
		return b.Grid.Columns, b.Grid.Rows, true
	}
	return DefaultColumns, DefaultRows, false
}

// board returns the header and table nodes of one board.
func (e *engine) board(ctx context.Context, b *board.Board, breakPage bool) ([]Node, error) {
	columns, rows, fixed := dimensions(b)

	header := Node{
		AbsolutePosition: &Position{X: 0, Y: 5},
		Text:             b.Name,
		Alignment:        "center",
		FontSize:         8,
	}
	table := Node{
		Table:  &Table{Widths: CellWidths(columns, e.opts.PicseePal)},
		Layout: GridLayout,
	}
	if breakPage {
		if e.opts.PicseePal {
			table.PageBreak = PageBreakBefore
		} else {
			header.PageBreak = PageBreakBefore
		}
	}

	var placed []placement
	if fixed {
		var err error
		if placed, err = fixedPlacements(b, columns, rows); err != nil {
			return nil, err
		}
	} else {
		placed = freePlacements(b, columns, rows)
	}

	body := make([][]Cell, 0, 2*len(placed)/columns+2)
	for _, p := range placed {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		first, second := e.cells(ctx, b, p.tile, columns, rows)
		if p.pageBreak {
			first.PageBreak = PageBreakBefore
		}
		r := 2 * p.row
		for len(body) <= r+1 {
			body = append(body, nil)
		}
		body[r] = append(body[r], first)
		body[r+1] = append(body[r+1], second)
	}
	table.Table.Body = padRows(body, columns)

	if e.opts.PicseePal {
		return []Node{table}, nil
	}
	return []Node{header, table}, nil
}

// fixedPlacements cuts the tiles into pages of rows × columns, reconciles each
// page against the stored order and marks the first row of every page after
// the first. Empty cells get a filler tile.
func fixedPlacements(b *board.Board, columns, rows int) ([]placement, error) {
	perPage := rows * columns
	var placed []placement
	for page, start := 0, 0; start < len(b.Tiles); page, start = page+1, start+perPage {
		end := min(start+perPage, len(b.Tiles))
		ids := make([]string, 0, end-start)
		for i := start; i < end; i++ {
			ids = append(ids, b.Tiles[i].ID)
		}

		order, err := grid.Reconcile(columns, rows, b.Grid.Order, ids)
		if err != nil {
			return nil, err
		}
		for r, line := range order {
			for c, id := range line {
				tile, ok := b.TileByID(id)
				if id == grid.Empty || !ok {
					tile = &fillerTile
				}
				placed = append(placed, placement{
					tile:      tile,
					row:       page*rows + r,
					pageBreak: page > 0 && r == 0 && c == 0,
				})
			}
		}
	}
	return placed, nil
}

// freePlacements lays tiles out in reading order and breaks the page every
// rows rows.
func freePlacements(b *board.Board, columns, rows int) []placement {
	placed := make([]placement, len(b.Tiles))
	for i := range b.Tiles {
		row := i / columns
		placed[i] = placement{
			tile:      &b.Tiles[i],
			row:       row,
			pageBreak: i%columns == 0 && row%rows == 0 && row > 0,
		}
	}
	return placed
}

// cells returns the two stacked cells of a tile, first the one printed on
// top.
func (e *engine) cells(ctx context.Context, b *board.Board, t *board.Tile, columns, rows int) (Cell, Cell) {
	fill := FillColor(t.BackgroundColor)
	pos := e.opts.LabelPosition

	img := Cell{
		Image:     e.tileImage(ctx, b, t),
		Alignment: "center",
		Width:     ImageWidth(columns, rows, e.opts.PicseePal),
		FillColor: fill,
		Border:    borders[pos].image,
	}

	label := textCell(e.label(t))
	label.Alignment = "center"
	label.FillColor = fill
	label.Border = borders[pos].label
	label.FontSize = LabelFontSize(img.Width)

	switch pos {
	case LabelAbove:
		return label, img
	case LabelHidden:
		return textCell(" "), img
	}
	return img, label
}

// label returns the printed label: the literal label or the label key,
// translated.
func (e *engine) label(t *board.Tile) string {
	if label := t.LabelText(); label != "" {
		return e.opts.Translate(label)
	}
	return ""
}

// padRows fills the last label row and the last image row with empty cells
// so the table is rectangular. A board without tiles gets one empty row.
func padRows(body [][]Cell, columns int) [][]Cell {
	if len(body) == 0 {
		body = [][]Cell{nil}
	}
	for r := max(0, len(body)-2); r < len(body); r++ {
		for len(body[r]) < columns {
			body[r] = append(body[r], textCell(""))
		}
	}
	return body
}
