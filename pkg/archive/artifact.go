package archive

import (
	"time"

	"github.com/matzehuels/boardexport/pkg/board"
	"github.com/matzehuels/boardexport/pkg/errors"
)

// Artifact is a finished export file.
type Artifact struct {
	Name string
	MIME string
	Data []byte
}

// Size returns the length of the artifact in bytes.
func (a Artifact) Size() int {
	return len(a.Data)
}

// File name suffixes by export format.
const (
	SuffixOBF      = "board.obf"
	SuffixOBZ      = "board.obz"
	SuffixSnapshot = "board.json"
	SuffixPDF      = "board.pdf"
)

// SetName is the name component used for exports of several boards.
const SetName = "boardsset"

// TimeLayout formats the timestamp that starts every file name.
const TimeLayout = "2006-01-02_15-04-05"

// Filename builds "<UTC timestamp>_<name> <suffix>". name is sanitized so the
// result is a single path element.
func Filename(now time.Time, name, suffix string) string {
	return now.UTC().Format(TimeLayout) + "_" + errors.SanitizeFilename(name) + " " + suffix
}

// NameFor returns the name component for a set of boards: the board's name
// for a single board, [SetName] otherwise.
func NameFor(boards []board.Board) string {
	if len(boards) != 1 {
		return SetName
	}
	if name := boards[0].DisplayName(); name != "" {
		return name
	}
	return boards[0].ID
}
