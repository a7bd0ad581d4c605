package board

import (
	"github.com/matzehuels/boardexport/pkg/errors"
)

// Validate checks the fields every export format relies on. It returns an
// INVALID_BOARD or INVALID_GRID error; callers validate before any I/O.
func (b *Board) Validate() error {
	if err := errors.ValidateID("board", b.ID); err != nil {
		return err
	}

	ids := make(map[string]bool, len(b.Tiles))
	for i, t := range b.Tiles {
		if t.ID == "" {
			return errors.New(errors.ErrCodeInvalidBoard, "board %s: tile %d has no id", b.ID, i)
		}
		if ids[t.ID] {
			return errors.New(errors.ErrCodeInvalidBoard, "board %s: duplicate tile id %q", b.ID, t.ID)
		}
		ids[t.ID] = true
	}

	if !b.IsFixed {
		return nil
	}
	if b.Grid == nil {
		return errors.New(errors.ErrCodeInvalidGrid, "board %s: fixed board has no grid", b.ID)
	}
	if b.Grid.Columns <= 0 {
		return errors.New(errors.ErrCodeInvalidGrid, "board %s: columns must be positive, got %d", b.ID, b.Grid.Columns)
	}
	if b.Grid.Rows <= 0 {
		return errors.New(errors.ErrCodeInvalidGrid, "board %s: rows must be positive, got %d", b.ID, b.Grid.Rows)
	}
	return nil
}

// ValidateAll validates every board and rejects duplicate board ids.
func ValidateAll(boards []Board) error {
	seen := make(map[string]bool, len(boards))
	for i := range boards {
		if err := boards[i].Validate(); err != nil {
			return err
		}
		if seen[boards[i].ID] {
			return errors.New(errors.ErrCodeInvalidBoard, "duplicate board id %q", boards[i].ID)
		}
		seen[boards[i].ID] = true
	}
	return nil
}
