// Package grid reconciles a sparse, user-edited cell-position map with a
// dense rectangular grid.
//
// Fixed-grid boards store an explicit order: a two-dimensional array of tile
// ids in which rows may be short or missing and ids may be stale (the tile was
// deleted after it was positioned). [Reconcile] turns that order plus the
// current tile list into a dense rows × columns grid:
//
//   - ids in the order that are not among the items become empty cells
//   - items that are not positioned fill the first empty cells in reading
//     order (row-major, left to right, top to bottom)
//   - when the grid is full, rows are appended so no item is ever dropped
//
// The result only depends on the order of items and the stored order, so
// reconciling identical inputs always yields an identical grid.
//
// # Usage
//
//	dense, err := grid.Reconcile(3, 2, [][]string{{"", "b"}}, []string{"a", "b", "c"})
//	// dense == [][]string{{"a", "b", "c"}, {"", "", ""}}
package grid
