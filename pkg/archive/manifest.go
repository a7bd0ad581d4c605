package archive

import (
	"github.com/matzehuels/boardexport/pkg/board"
	"github.com/matzehuels/boardexport/pkg/obf"
)

// ManifestName is the archive entry of the manifest.
const ManifestName = "manifest.json"

// RootID is the board id, or name, that marks the root board of a set.
const RootID = "root"

// Manifest indexes the contents of an OBZ archive.
type Manifest struct {
	Format string `json:"format"`
	Root   string `json:"root"`
	Paths  Paths  `json:"paths"`
}

// Paths maps board ids and image ids to archive entries.
type Paths struct {
	Boards map[string]string `json:"boards"`
	Images map[string]string `json:"images"`
}

// NewManifest returns an empty manifest.
func NewManifest() *Manifest {
	return &Manifest{
		Format: obf.Format,
		Paths: Paths{
			Boards: make(map[string]string),
			Images: make(map[string]string),
		},
	}
}

// chooseRoot picks the root among the converted boards: a board with id
// "root", else a board named or keyed "root", else the first converted
// board. converted holds board ids in input order.
func chooseRoot(converted []string, byID map[string]*board.Board) string {
	for _, id := range converted {
		if id == RootID {
			return id
		}
	}
	for _, id := range converted {
		if b := byID[id]; b != nil && (b.Name == RootID || b.NameKey == RootID) {
			return id
		}
	}
	if len(converted) == 0 {
		return ""
	}
	return converted[0]
}
