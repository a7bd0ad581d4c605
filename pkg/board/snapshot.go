package board

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
)

// WriteSnapshot encodes boards as the native snapshot format: a flat JSON
// array of the board objects without any transformation. The output can be
// re-imported with [ReadSnapshot].
func WriteSnapshot(w io.Writer, boards []Board) error {
	if boards == nil {
		boards = []Board{}
	}
	enc := json.NewEncoder(w)
	if err := enc.Encode(boards); err != nil {
		return fmt.Errorf("encode: %w", err)
	}
	return nil
}

// ReadSnapshot decodes a native snapshot from r.
//
// The input must be a JSON array of board objects. A single board object is
// accepted too and returned as a one-element slice, since that is what a
// single-board backup of older installations contains.
//
// ReadSnapshot does not validate the boards; call [ValidateAll] before
// exporting them. ReadSnapshot does not close r.
func ReadSnapshot(r io.Reader) ([]Board, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("read: %w", err)
	}

	var boards []Board
	if err := json.Unmarshal(data, &boards); err == nil {
		return boards, nil
	}

	var single Board
	if err := json.Unmarshal(data, &single); err != nil {
		return nil, fmt.Errorf("decode: %w", err)
	}
	return []Board{single}, nil
}

// ExportSnapshot writes boards to a snapshot file at path.
func ExportSnapshot(path string, boards []Board) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	defer f.Close()
	return WriteSnapshot(f, boards)
}

// ImportSnapshot reads a snapshot file at path.
func ImportSnapshot(path string) ([]Board, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()
	return ReadSnapshot(f)
}
