// Package print lays out boards as a paginated, printable grid of cells.
//
// [Layout] turns boards into a [Document]: a landscape A4 document definition
// in the shape pdfmake consumes. Each tile becomes two stacked cells, an image
// cell and a label cell, whose order follows [Options.LabelPosition]. Every
// tile image is normalized onto a 150 × 150 canvas filled with the tile's
// background color and stroked with its border color.
//
// # Pagination
//
// Fixed-grid boards are cut into pages of rows × columns tiles; each page is
// reconciled against the board's stored order, and the first row of every
// page after the first carries a page break. Free-form boards are laid out in
// reading order over [DefaultColumns] columns and break every
// [DefaultRows] rows.
//
// Tiles are processed one at a time, in order: the row a tile lands on, and
// with it the page break decision, depends on every tile before it.
//
// # Output
//
// The byte layout of the final document is left to a [Generator].
// [DefinitionGenerator] writes the document definition as JSON; [Generate]
// bounds any generator with a timeout.
package print
