package grid

import (
	"github.com/matzehuels/boardexport/pkg/errors"
)

// Empty marks an unoccupied cell in a reconciled grid.
const Empty = ""

// Reconcile produces a dense grid of at least rows × columns cells from a
// sparse order and the list of item ids that must appear in it.
//
// Positions in order outside the rows × columns window are ignored, as are
// unknown ids and second occurrences of an id. Every id in items appears in
// the result exactly once; duplicate entries in items are placed once.
// Every returned row has exactly columns cells.
//
// Reconcile returns an INVALID_GRID error if columns is not positive or rows
// is negative.
func Reconcile(columns, rows int, order [][]string, items []string) ([][]string, error) {
	if columns <= 0 {
		return nil, errors.New(errors.ErrCodeInvalidGrid, "columns must be positive, got %d", columns)
	}
	if rows < 0 {
		return nil, errors.New(errors.ErrCodeInvalidGrid, "rows cannot be negative, got %d", rows)
	}

	present := make(map[string]bool, len(items))
	for _, id := range items {
		if id != Empty {
			present[id] = true
		}
	}

	dense := make([][]string, rows)
	placed := make(map[string]bool, len(items))
	for r := range dense {
		dense[r] = make([]string, columns)
		if r >= len(order) {
			continue
		}
		for c := 0; c < columns && c < len(order[r]); c++ {
			id := order[r][c]
			if id == Empty || !present[id] || placed[id] {
				continue
			}
			dense[r][c] = id
			placed[id] = true
		}
	}

	// Cells only ever fill up, so the scan for the next free cell never
	// needs to look behind the cursor.
	cursor := 0
	for _, id := range items {
		if id == Empty || placed[id] {
			continue
		}
		for {
			r, c := cursor/columns, cursor%columns
			if r == len(dense) {
				dense = append(dense, make([]string, columns))
			}
			if dense[r][c] == Empty {
				dense[r][c] = id
				placed[id] = true
				break
			}
			cursor++
		}
	}

	return dense, nil
}
