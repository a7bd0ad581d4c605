// Package store loads board collections for export.
//
// A [Source] yields the full set of boards an export may draw from. The
// snapshot file source reads the native export format; the MongoDB source
// reads a boards collection as the storage backend keeps it.
package store

import (
	"context"

	"github.com/matzehuels/boardexport/pkg/board"
)

// Source yields boards.
type Source interface {
	Boards(ctx context.Context) ([]board.Board, error)
}

// FileSource reads a native snapshot file.
type FileSource struct {
	Path string
}

// NewFileSource returns a source for the snapshot at path.
func NewFileSource(path string) *FileSource {
	return &FileSource{Path: path}
}

// Boards reads and decodes the snapshot.
func (s *FileSource) Boards(ctx context.Context) ([]board.Board, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return board.ImportSnapshot(s.Path)
}

// Static serves a fixed board list.
type Static []board.Board

func (s Static) Boards(ctx context.Context) ([]board.Board, error) {
	return s, nil
}
