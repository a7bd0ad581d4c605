package obf

import (
	"encoding/json"
	"strings"

	"github.com/matzehuels/boardexport/pkg/board"
)

// Format is the format tag of documents and manifests.
const Format = "open-board-0.1"

// Columns is the width of the button grid of every document.
const Columns = 6

// ImageSize is the width and height recorded for every image.
const ImageSize = 300

// ExtPrefix prefixes extension property keys.
const ExtPrefix = "ext_cboard_"

// BoardURL is the public URL prefix of a board.
const BoardURL = "https://app.cboard.io/board/"

// ExtProperties lists the board and tile properties exported as extensions.
var ExtProperties = []string{
	"labelKey",
	"nameKey",
	"author",
	"email",
	"isPublic",
	"hidden",
	"caption",
	"sound",
	"type",
}

// License is the license block of a document.
type License struct {
	Type               string `json:"type"`
	CopyrightNoticeURL string `json:"copyright_notice_url"`
	AuthorName         string `json:"author_name"`
	AuthorURL          string `json:"author_url"`
	AuthorEmail        string `json:"author_email"`
}

// DefaultLicense is attached to every exported board.
var DefaultLicense = License{
	Type:               "CC-By",
	CopyrightNoticeURL: "https://creativecommons.org/licenses/by/4.0/",
	AuthorName:         "Cboard",
	AuthorURL:          "https://www.cboard.io",
	AuthorEmail:        "support@cboard.io",
}

// Image is an entry of the image table.
type Image struct {
	ID          string `json:"id"`
	Path        string `json:"path,omitempty"`
	Data        string `json:"data,omitempty"`
	ContentType string `json:"content_type"`
	Width       int    `json:"width"`
	Height      int    `json:"height"`
}

// LoadBoard links a button to another board of the archive.
type LoadBoard struct {
	Name string `json:"name"`
	Path string `json:"path"`
}

// Button is one tile of the board.
type Button struct {
	ID              string     `json:"id"`
	Label           string     `json:"label"`
	ImageID         string     `json:"image_id,omitempty"`
	Action          string     `json:"action,omitempty"`
	Vocalization    string     `json:"vocalization,omitempty"`
	BorderColor     string     `json:"border_color,omitempty"`
	BackgroundColor string     `json:"background_color,omitempty"`
	LoadBoard       *LoadBoard `json:"load_board,omitempty"`

	// Ext holds extension properties keyed by their full prefixed name.
	Ext map[string]any `json:"-"`
}

// Grid is the dense button layout. Empty cells are encoded as null.
type Grid struct {
	Rows    int         `json:"rows"`
	Columns int         `json:"columns"`
	Order   board.Order `json:"order"`
}

// Document is a single-board OBF document.
type Document struct {
	Format          string   `json:"format"`
	ID              string   `json:"id"`
	Locale          string   `json:"locale"`
	Name            string   `json:"name"`
	URL             string   `json:"url"`
	License         License  `json:"license"`
	Images          []Image  `json:"images"`
	Buttons         []Button `json:"buttons"`
	Sounds          []any    `json:"sounds"`
	Grid            Grid     `json:"grid"`
	DescriptionHTML string   `json:"description_html"`

	// Ext holds extension properties keyed by their full prefixed name.
	Ext map[string]any `json:"-"`
}

// ButtonIDs returns the ids of all buttons in order.
func (d *Document) ButtonIDs() []string {
	ids := make([]string, len(d.Buttons))
	for i, b := range d.Buttons {
		ids[i] = b.ID
	}
	return ids
}

// ExtKey returns the extension key for a camelCase property name.
func ExtKey(name string) string {
	return ExtPrefix + snakeCase(name)
}

func snakeCase(s string) string {
	var b strings.Builder
	for _, r := range s {
		if r >= 'A' && r <= 'Z' {
			b.WriteByte('_')
			r += 'a' - 'A'
		}
		b.WriteRune(r)
	}
	return strings.TrimPrefix(b.String(), "_")
}

// MarshalJSON encodes the button with its extension properties.
func (b Button) MarshalJSON() ([]byte, error) {
	type plain Button
	return marshalWithExt(plain(b), b.Ext)
}

// UnmarshalJSON decodes a button and collects its extension properties.
func (b *Button) UnmarshalJSON(data []byte) error {
	type plain Button
	var p plain
	ext, err := unmarshalWithExt(data, &p)
	if err != nil {
		return err
	}
	*b = Button(p)
	b.Ext = ext
	return nil
}

// MarshalJSON encodes the document with its extension properties.
func (d Document) MarshalJSON() ([]byte, error) {
	type plain Document
	if d.Sounds == nil {
		d.Sounds = []any{}
	}
	if d.Images == nil {
		d.Images = []Image{}
	}
	return marshalWithExt(plain(d), d.Ext)
}

// UnmarshalJSON decodes a document and collects its extension properties.
func (d *Document) UnmarshalJSON(data []byte) error {
	type plain Document
	var p plain
	ext, err := unmarshalWithExt(data, &p)
	if err != nil {
		return err
	}
	*d = Document(p)
	d.Ext = ext
	return nil
}

func marshalWithExt(v any, ext map[string]any) ([]byte, error) {
	data, err := json.Marshal(v)
	if err != nil || len(ext) == 0 {
		return data, err
	}
	var m map[string]any
	if err := json.Unmarshal(data, &m); err != nil {
		return nil, err
	}
	for k, val := range ext {
		m[k] = val
	}
	return json.Marshal(m)
}

func unmarshalWithExt(data []byte, v any) (map[string]any, error) {
	if err := json.Unmarshal(data, v); err != nil {
		return nil, err
	}
	var m map[string]any
	if err := json.Unmarshal(data, &m); err != nil {
		return nil, err
	}
	var ext map[string]any
	for k, val := range m {
		if strings.HasPrefix(k, ExtPrefix) {
			if ext == nil {
				ext = make(map[string]any)
			}
			ext[k] = val
		}
	}
	return ext, nil
}
