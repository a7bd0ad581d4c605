package print

import (
	"github.com/matzehuels/boardexport/pkg/fonts"
)

// GridLayout names the table layout used for every board table.
const GridLayout = "pdfGridLayout"

// PageBreakBefore is the only page break value the engine emits.
const PageBreakBefore = "before"

// Document is a print document definition.
type Document struct {
	PageSize        string                  `json:"pageSize"`
	PageOrientation string                  `json:"pageOrientation"`
	PageMargins     []float64               `json:"pageMargins"`
	Content         []Node                  `json:"content"`
	DefaultStyle    Style                   `json:"defaultStyle"`
	Fonts           map[string]fonts.Family `json:"fonts"`
	Background      *Node                   `json:"background,omitempty"`
	TableLayouts    map[string]TableLayout  `json:"tableLayouts"`
}

// Style is a text style.
type Style struct {
	Font string `json:"font"`
}

// Node is a content element: a text run, a stack, a table or a canvas.
type Node struct {
	// Text is a string or a []Node of runs.
	Text             any       `json:"text,omitempty"`
	Stack            []Node    `json:"stack,omitempty"`
	Canvas           []Shape   `json:"canvas,omitempty"`
	Table            *Table    `json:"table,omitempty"`
	Layout           string    `json:"layout,omitempty"`
	AbsolutePosition *Position `json:"absolutePosition,omitempty"`
	Alignment        string    `json:"alignment,omitempty"`
	FontSize         int       `json:"fontSize,omitempty"`
	PageBreak        string    `json:"pageBreak,omitempty"`
}

// Position is an absolute position on the page, in points.
type Position struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Shape is a vector shape drawn on a canvas node.
type Shape struct {
	Type      string  `json:"type"`
	X         float64 `json:"x"`
	Y         float64 `json:"y"`
	W         float64 `json:"w"`
	H         float64 `json:"h"`
	R         float64 `json:"r,omitempty"`
	Dash      *Dash   `json:"dash,omitempty"`
	LineColor string  `json:"lineColor,omitempty"`
}

// Dash is a dash pattern.
type Dash struct {
	Length float64 `json:"length"`
}

// Table is a grid of cells with fixed column widths.
type Table struct {
	Widths []float64 `json:"widths"`
	Body   [][]Cell  `json:"body"`
}

// Cell is one table cell: an image, a label or padding.
type Cell struct {
	Text      *string `json:"text,omitempty"`
	Image     string  `json:"image,omitempty"`
	Width     float64 `json:"width,omitempty"`
	Alignment string  `json:"alignment,omitempty"`
	FillColor string  `json:"fillColor,omitempty"`
	Border    []bool  `json:"border,omitempty"`
	FontSize  int     `json:"fontSize,omitempty"`
	PageBreak string  `json:"pageBreak,omitempty"`
}

func textCell(s string) Cell {
	return Cell{Text: &s}
}

// TableLayout holds static line and padding settings for a table layout.
type TableLayout struct {
	HLineWidth   float64 `json:"hLineWidth"`
	VLineWidth   float64 `json:"vLineWidth"`
	HLineColor   string  `json:"hLineColor"`
	VLineColor   string  `json:"vLineColor"`
	PaddingLeft  float64 `json:"paddingLeft"`
	PaddingRight float64 `json:"paddingRight"`
}

// Tables returns the board tables in document order.
func (d *Document) Tables() []*Table {
	var out []*Table
	for i := range d.Content {
		if d.Content[i].Table != nil {
			out = append(out, d.Content[i].Table)
		}
	}
	return out
}

// Images returns the number of image cells in the document.
func (d *Document) Images() int {
	n := 0
	for _, t := range d.Tables() {
		for _, row := range t.Body {
			for _, c := range row {
				if c.Image != "" {
					n++
				}
			}
		}
	}
	return n
}

var (
	margins          = []float64{20, 20}
	picseePalMargins = []float64{144, 100, 144, 120}
)

func newDocument(font string, registry map[string]fonts.Family, picsee bool) *Document {
	doc := &Document{
		PageSize:        "A4",
		PageOrientation: "landscape",
		PageMargins:     margins,
		Content:         []Node{},
		DefaultStyle:    Style{Font: font},
		Fonts:           registry,
		TableLayouts: map[string]TableLayout{
			GridLayout: {
				HLineWidth: BorderWidth,
				VLineWidth: BorderWidth,
				HLineColor: "#ffffff",
				VLineColor: "#ffffff",
			},
		},
	}
	if picsee {
		doc.PageMargins = picseePalMargins
		bg := picseePalBackground()
		doc.Background = &bg
	}
	return doc
}

// picseePalBackground draws the viewable area, the cut guide and the
// printing instructions on every page.
func picseePalBackground() Node {
	return Node{Stack: []Node{
		{
			AbsolutePosition: &Position{X: 0, Y: 3},
			Text: []Node{{
				Text:      "\nPicseePal compatible PDF",
				FontSize:  18,
				Alignment: "center",
			}},
		},
		{
			AbsolutePosition: &Position{X: 0, Y: 48},
			Canvas: []Shape{
				{Type: "rect", X: 137.5, Y: 48, W: 567, H: 374.22, R: 5, LineColor: "black"},
				{Type: "rect", X: 101.65, Y: 11.5, W: 638.7, H: 447, R: 55, Dash: &Dash{Length: 5}, LineColor: "black"},
			},
		},
		{
			AbsolutePosition: &Position{X: 0, Y: 500},
			Text: []Node{{
				Text:      "\nPlease print on A4 / US Letter paper at 100% scale.\nCut along dashed line before inserting into PicseePal device.",
				FontSize:  15,
				Alignment: "center",
			}},
		},
	}}
}
