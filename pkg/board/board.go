package board

import (
	"encoding/json"
)

// Board is a named arrangement of tiles.
type Board struct {
	ID      string `json:"id"`
	Name    string `json:"name,omitempty"`
	NameKey string `json:"nameKey,omitempty"`
	Tiles   []Tile `json:"tiles"`
	IsFixed bool   `json:"isFixed,omitempty"`
	Grid    *Grid  `json:"grid,omitempty"`

	// Extra holds passthrough properties the model does not interpret.
	Extra map[string]json.RawMessage `json:"-"`

	seen map[string]bool
}

// Grid is the user-authored layout of a fixed-grid board.
type Grid struct {
	Rows    int   `json:"rows"`
	Columns int   `json:"columns"`
	Order   Order `json:"order"`
}

// Order is a two-dimensional array of tile ids. Empty strings are empty
// cells and are encoded as JSON null.
type Order [][]string

// Tile is a single selectable cell on a board.
type Tile struct {
	ID              string `json:"id"`
	Label           string `json:"label,omitempty"`
	LabelKey        string `json:"labelKey,omitempty"`
	Image           string `json:"image,omitempty"`
	BackgroundColor string `json:"backgroundColor,omitempty"`
	BorderColor     string `json:"borderColor,omitempty"`
	Vocalization    string `json:"vocalization,omitempty"`
	Action          string `json:"action,omitempty"`
	LoadBoard       string `json:"loadBoard,omitempty"`

	// Extra holds passthrough properties the model does not interpret.
	Extra map[string]json.RawMessage `json:"-"`

	seen map[string]bool
}

// DisplayName returns the board name, falling back to its translation key.
func (b *Board) DisplayName() string {
	if b.Name != "" {
		return b.Name
	}
	return b.NameKey
}

// TileIDs returns the ids of all tiles in tile order.
func (b *Board) TileIDs() []string {
	ids := make([]string, len(b.Tiles))
	for i, t := range b.Tiles {
		ids[i] = t.ID
	}
	return ids
}

// TileByID returns the tile with the given id.
func (b *Board) TileByID(id string) (*Tile, bool) {
	for i := range b.Tiles {
		if b.Tiles[i].ID == id {
			return &b.Tiles[i], true
		}
	}
	return nil, false
}

// Property returns a board property by its JSON key, looking at modeled
// fields first and passthrough properties second. ok is false when the key is
// absent or null.
func (b *Board) Property(key string) (any, bool) {
	switch key {
	case "id":
		return b.ID, b.ID != "" || b.seen[key]
	case "name":
		return b.Name, b.Name != "" || b.seen[key]
	case "nameKey":
		return b.NameKey, b.NameKey != "" || b.seen[key]
	case "isFixed":
		return b.IsFixed, b.IsFixed || b.seen[key]
	}
	return rawProperty(b.Extra, key)
}

// LabelText returns the tile's label, falling back to its translation key.
func (t *Tile) LabelText() string {
	if t.Label != "" {
		return t.Label
	}
	return t.LabelKey
}

// Property returns a tile property by its JSON key, looking at modeled fields
// first and passthrough properties second. ok is false when the key is absent
// or null.
func (t *Tile) Property(key string) (any, bool) {
	if f, ok := tileFields(t)[key]; ok {
		return *f, *f != "" || t.seen[key]
	}
	return rawProperty(t.Extra, key)
}

func rawProperty(extra map[string]json.RawMessage, key string) (any, bool) {
	raw, ok := extra[key]
	if !ok {
		return nil, false
	}
	var v any
	if err := json.Unmarshal(raw, &v); err != nil || v == nil {
		return nil, false
	}
	return v, true
}

// Truthy reports whether v counts as set: not nil, false, zero or empty.
func Truthy(v any) bool {
	switch x := v.(type) {
	case nil:
		return false
	case bool:
		return x
	case string:
		return x != ""
	case float64:
		return x != 0
	case int:
		return x != 0
	}
	return true
}
