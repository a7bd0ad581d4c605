package print

const (
	// DefaultColumns is the column count of free-form boards.
	DefaultColumns = 6
	// DefaultRows is the row count per page of free-form boards.
	DefaultRows = 5

	// GridWidth is the printable table width in points.
	GridWidth = 800
	// PicseePalGridWidth is the table width inside the PicseePal window.
	PicseePalGridWidth = 553
	// BorderWidth is the white line drawn between cells.
	BorderWidth = 2
)

// widthTable caps image widths by grid density. Densities beyond the table
// use its last entry.
type widthTable struct {
	column []float64
	row    []float64
}

// Index 0 is unused; index n is the cap for n columns or rows.
var (
	imageWidths = widthTable{
		column: []float64{0, 130, 130, 130, 130, 120, 118, 100, 85, 75, 67, 60, 55},
		row:    []float64{0, 130, 130, 130, 90, 75, 60, 50, 45, 40, 37, 33, 30},
	}
	picseePalImageWidths = widthTable{
		column: []float64{0, 90, 90, 90, 90, 83, 80, 69, 59, 52, 46, 41, 38},
		row:    []float64{0, 90, 90, 90, 62, 52, 41, 35, 31, 28, 26, 23, 21},
	}
)

func lookup(table []float64, n int) float64 {
	if n < 1 {
		n = 1
	}
	if n >= len(table) {
		n = len(table) - 1
	}
	return table[n]
}

// ImageWidth returns the printed image width for a grid of columns × rows:
// the smaller of the column cap and the row cap.
func ImageWidth(columns, rows int, picsee bool) float64 {
	t := imageWidths
	if picsee {
		t = picseePalImageWidths
	}
	return min(lookup(t.column, columns), lookup(t.row, rows))
}

// LabelFontSize returns the label font size for an image width, or 0 when
// the document default applies.
func LabelFontSize(imageWidth float64) int {
	switch {
	case imageWidth <= 37:
		return 7
	case imageWidth <= 40:
		return 8
	case imageWidth <= 45:
		return 9
	}
	return 0
}

// CellWidths splits the grid width evenly over columns, leaving room for the
// cell borders.
func CellWidths(columns int, picsee bool) []float64 {
	width := float64(GridWidth)
	if picsee {
		width = PicseePalGridWidth
	}
	cell := (width - BorderWidth*float64(columns)) / float64(columns)
	widths := make([]float64, columns)
	for i := range widths {
		widths[i] = cell
	}
	return widths
}

// Cell borders as [left, top, right, bottom]. The two cells of a tile share
// no border, so the pair reads as one box.
type cellBorders struct {
	image []bool
	label []bool
}

var borders = map[LabelPosition]cellBorders{
	LabelBelow: {
		image: []bool{true, true, true, false},
		label: []bool{true, false, true, true},
	},
	LabelAbove: {
		label: []bool{true, true, true, false},
		image: []bool{true, false, true, true},
	},
	LabelHidden: {
		image: []bool{true, true, true, true},
	},
}
