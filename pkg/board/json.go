package board

import (
	"encoding/json"
)

var (
	tileKeys  = []string{"id", "label", "labelKey", "image", "backgroundColor", "borderColor", "vocalization", "action", "loadBoard"}
	boardKeys = []string{"id", "name", "nameKey", "tiles", "isFixed", "grid"}
)

func tileFields(t *Tile) map[string]*string {
	return map[string]*string{
		"id":              &t.ID,
		"label":           &t.Label,
		"labelKey":        &t.LabelKey,
		"image":           &t.Image,
		"backgroundColor": &t.BackgroundColor,
		"borderColor":     &t.BorderColor,
		"vocalization":    &t.Vocalization,
		"action":          &t.Action,
		"loadBoard":       &t.LoadBoard,
	}
}

// splitKnown removes modeled keys from raw and returns which of them were
// present with a non-null value. Null values stay in raw so that they are
// written back as null.
func splitKnown(raw map[string]json.RawMessage, keys []string) map[string]bool {
	seen := make(map[string]bool)
	for _, k := range keys {
		v, ok := raw[k]
		if !ok || string(v) == "null" {
			continue
		}
		seen[k] = true
		delete(raw, k)
	}
	return seen
}

func copyExtra(extra map[string]json.RawMessage, size int) map[string]any {
	m := make(map[string]any, len(extra)+size)
	for k, v := range extra {
		m[k] = v
	}
	return m
}

// UnmarshalJSON decodes a tile and keeps unmodeled keys in Extra.
func (t *Tile) UnmarshalJSON(data []byte) error {
	type plain Tile
	var p plain
	if err := json.Unmarshal(data, &p); err != nil {
		return err
	}
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	*t = Tile(p)
	t.seen = splitKnown(raw, tileKeys)
	if len(raw) > 0 {
		t.Extra = raw
	}
	return nil
}

// MarshalJSON encodes a tile including its passthrough properties.
func (t Tile) MarshalJSON() ([]byte, error) {
	m := copyExtra(t.Extra, len(tileKeys))
	for k, f := range tileFields(&t) {
		if *f != "" || t.seen[k] {
			m[k] = *f
		}
	}
	return json.Marshal(m)
}

// UnmarshalJSON decodes a board and keeps unmodeled keys in Extra.
func (b *Board) UnmarshalJSON(data []byte) error {
	type plain Board
	var p plain
	if err := json.Unmarshal(data, &p); err != nil {
		return err
	}
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	*b = Board(p)
	b.seen = splitKnown(raw, boardKeys)
	if len(raw) > 0 {
		b.Extra = raw
	}
	return nil
}

// MarshalJSON encodes a board including its passthrough properties.
func (b Board) MarshalJSON() ([]byte, error) {
	m := copyExtra(b.Extra, len(boardKeys))
	m["id"] = b.ID
	if b.Name != "" || b.seen["name"] {
		m["name"] = b.Name
	}
	if b.NameKey != "" || b.seen["nameKey"] {
		m["nameKey"] = b.NameKey
	}
	if b.Tiles != nil || b.seen["tiles"] {
		tiles := b.Tiles
		if tiles == nil {
			tiles = []Tile{}
		}
		m["tiles"] = tiles
	}
	if b.IsFixed || b.seen["isFixed"] {
		m["isFixed"] = b.IsFixed
	}
	if b.Grid != nil {
		m["grid"] = b.Grid
	}
	return json.Marshal(m)
}

// MarshalJSON encodes empty cells as null.
func (o Order) MarshalJSON() ([]byte, error) {
	if o == nil {
		return []byte("null"), nil
	}
	rows := make([][]*string, len(o))
	for i, row := range o {
		rows[i] = make([]*string, len(row))
		for j := range row {
			if row[j] != "" {
				rows[i][j] = &row[j]
			}
		}
	}
	return json.Marshal(rows)
}

// UnmarshalJSON decodes null cells as empty strings.
func (o *Order) UnmarshalJSON(data []byte) error {
	if string(data) == "null" {
		*o = nil
		return nil
	}
	var rows [][]*string
	if err := json.Unmarshal(data, &rows); err != nil {
		return err
	}
	out := make(Order, len(rows))
	for i, row := range rows {
		out[i] = make([]string, len(row))
		for j, id := range row {
			if id != nil {
				out[i][j] = *id
			}
		}
	}
	*o = out
	return nil
}
