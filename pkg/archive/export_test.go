package archive

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/klauspost/compress/zip"

	"github.com/matzehuels/boardexport/pkg/board"
	"github.com/matzehuels/boardexport/pkg/errors"
	"github.com/matzehuels/boardexport/pkg/obf"
	"github.com/matzehuels/boardexport/pkg/resource"
)

const pngDataURI = "data:image/png;base64,iVBORw0KGgo="

var fixedNow = time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC)

func testOptions() Options {
	return Options{
		Locale: "en",
		Now:    func() time.Time { return fixedNow },
	}
}

func tiles(prefix string, n int, link string) []board.Tile {
	out := make([]board.Tile, n)
	for i := range out {
		out[i] = board.Tile{ID: fmt.Sprintf("%s%d", prefix, i), Label: fmt.Sprintf("%s %d", prefix, i)}
	}
	if link != "" && n > 0 {
		out[0].LoadBoard = link
	}
	return out
}

func TestExportOne(t *testing.T) {
	b := &board.Board{ID: "home", Name: "Home", Tiles: []board.Tile{
		{ID: "eat", Label: "Eat", Image: pngDataURI},
		{ID: "more", Label: "More", LoadBoard: "elsewhere"},
	}}

	art, err := ExportOne(context.Background(), b, testOptions())
	if err != nil {
		t.Fatalf("ExportOne() error: %v", err)
	}
	if art.Name != "2024-05-01_10-00-00_Home board.obf" {
		t.Errorf("Name = %q", art.Name)
	}
	if art.MIME != "application/json" {
		t.Errorf("MIME = %q", art.MIME)
	}

	var doc obf.Document
	if err := json.Unmarshal(art.Data, &doc); err != nil {
		t.Fatalf("artifact is not a document: %v", err)
	}
	if len(doc.Images) != 1 || doc.Images[0].Data != pngDataURI || doc.Images[0].Path != "" {
		t.Errorf("images = %+v, want one embedded image", doc.Images)
	}
	if doc.Buttons[1].LoadBoard != nil {
		t.Error("single-board export cannot link to other boards")
	}
}

func TestExportOne_Errors(t *testing.T) {
	ctx := context.Background()
	if _, err := ExportOne(ctx, &board.Board{ID: "empty"}, testOptions()); !errors.Is(err, errors.ErrCodeInvalidInput) {
		t.Errorf("empty board: error = %v, want INVALID_INPUT", err)
	}
	if _, err := ExportOne(ctx, &board.Board{ID: "a/b", Tiles: tiles("t", 1, "")}, testOptions()); !errors.Is(err, errors.ErrCodeInvalidBoard) {
		t.Errorf("bad id: error = %v, want INVALID_BOARD", err)
	}
	if _, err := ExportOne(ctx, nil, testOptions()); !errors.Is(err, errors.ErrCodeInvalidInput) {
		t.Errorf("nil board: error = %v, want INVALID_INPUT", err)
	}
}

func TestExportMany_Manifest(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	defer srv.Close()

	boards := []board.Board{
		{ID: "home", Name: "Home", Tiles: append(tiles("h", 3, "food"), board.Tile{ID: "pic", Label: "Eat", Image: pngDataURI})},
		{ID: "empty", Name: "Empty"},
		{ID: "food", Name: "Food", Tiles: []board.Tile{
			{ID: "f0", Label: "Apple", Image: srv.URL + "/apple.png"},
			{ID: "f1", Label: "Pear", Image: srv.URL + "/pear.png", LoadBoard: "home"},
		}},
	}

	art, err := ExportMany(context.Background(), boards, testOptions())
	if err != nil {
		t.Fatalf("ExportMany() error: %v", err)
	}
	if art.Name != "2024-05-01_10-00-00_boardsset board.obz" {
		t.Errorf("Name = %q", art.Name)
	}

	c, err := Read(art.Data)
	if err != nil {
		t.Fatalf("Read() error: %v", err)
	}
	if err := c.Check(); err != nil {
		t.Errorf("manifest is inconsistent: %v", err)
	}

	m := c.Manifest
	if m.Format != obf.Format {
		t.Errorf("format = %q", m.Format)
	}
	if len(m.Paths.Boards) != 2 || m.Paths.Boards["home"] != "boards/home.obf" || m.Paths.Boards["food"] != "boards/food.obf" {
		t.Errorf("boards = %v", m.Paths.Boards)
	}
	if _, ok := m.Paths.Boards["empty"]; ok {
		t.Error("board without tiles should be skipped")
	}
	if m.Root != "boards/home.obf" {
		t.Errorf("root = %q, want first converted board", m.Root)
	}

	for _, id := range []string{"home", "food"} {
		doc, err := c.Board(id)
		if err != nil {
			t.Fatalf("Board(%s) error: %v", id, err)
		}
		for _, img := range doc.Images {
			if _, ok := m.Paths.Images[img.ID]; !ok {
				t.Errorf("image %s of %s missing from manifest", img.ID, id)
			}
			if img.Data != "" {
				t.Error("archive documents must not embed images")
			}
		}
	}
	if len(m.Paths.Images) != 3 {
		t.Errorf("got %d images in manifest, want 3", len(m.Paths.Images))
	}

	// Both failed fetches share one placeholder file.
	placeholders := 0
	for _, path := range m.Paths.Images {
		if path == "images"+resource.NotFoundPath {
			placeholders++
		}
	}
	if placeholders != 2 {
		t.Errorf("got %d placeholder references, want 2", placeholders)
	}
	if !bytes.Equal(c.Files["images"+resource.NotFoundPath], resource.NotFoundPNG()) {
		t.Error("placeholder file content mismatch")
	}
	if _, ok := c.Files["images/custom/Home/Eat.png"]; !ok {
		t.Errorf("inline image not written; files: %v", fileNames(c))
	}

	food, _ := c.Board("food")
	if food.Buttons[1].LoadBoard == nil || food.Buttons[1].LoadBoard.Path != "boards/home.obf" {
		t.Errorf("load_board = %+v", food.Buttons[1].LoadBoard)
	}
}

func fileNames(c *Contents) []string {
	var names []string
	for name := range c.Files {
		names = append(names, name)
	}
	return names
}

func TestExportMany_Root(t *testing.T) {
	tests := []struct {
		name   string
		boards []board.Board
		want   string
	}{
		{
			name: "id root",
			boards: []board.Board{
				{ID: "a", Tiles: tiles("a", 1, "")},
				{ID: "root", Tiles: tiles("r", 1, "")},
			},
			want: "boards/root.obf",
		},
		{
			name: "named root",
			boards: []board.Board{
				{ID: "a", Tiles: tiles("a", 1, "")},
				{ID: "b", NameKey: "root", Tiles: tiles("b", 1, "")},
			},
			want: "boards/b.obf",
		},
		{
			name: "first board skipped",
			boards: []board.Board{
				{ID: "empty"},
				{ID: "b", Tiles: tiles("b", 1, "")},
			},
			want: "boards/b.obf",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			art, err := ExportMany(context.Background(), tt.boards, testOptions())
			if err != nil {
				t.Fatalf("ExportMany() error: %v", err)
			}
			c, err := Read(art.Data)
			if err != nil {
				t.Fatalf("Read() error: %v", err)
			}
			if c.Manifest.Root != tt.want {
				t.Errorf("root = %q, want %q", c.Manifest.Root, tt.want)
			}
		})
	}
}

func TestExportMany_SingleBoardName(t *testing.T) {
	art, err := ExportMany(context.Background(), []board.Board{{ID: "x", Name: "My: Board", Tiles: tiles("t", 2, "")}}, testOptions())
	if err != nil {
		t.Fatalf("ExportMany() error: %v", err)
	}
	if art.Name != "2024-05-01_10-00-00_My_ Board board.obz" {
		t.Errorf("Name = %q", art.Name)
	}
}

func TestExportMany_Errors(t *testing.T) {
	ctx := context.Background()
	tests := []struct {
		name   string
		boards []board.Board
		code   errors.Code
	}{
		{"no boards", nil, errors.ErrCodeInvalidInput},
		{"all empty", []board.Board{{ID: "a"}, {ID: "b"}}, errors.ErrCodeInvalidInput},
		{"duplicate ids", []board.Board{{ID: "a"}, {ID: "a"}}, errors.ErrCodeInvalidBoard},
		{"bad grid", []board.Board{{ID: "a", IsFixed: true, Tiles: tiles("t", 1, "")}}, errors.ErrCodeInvalidGrid},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := ExportMany(ctx, tt.boards, testOptions()); !errors.Is(err, tt.code) {
				t.Errorf("ExportMany() error = %v, want %s", err, tt.code)
			}
		})
	}
}

func TestExportMany_Deflate(t *testing.T) {
	art, err := ExportMany(context.Background(), []board.Board{{ID: "a", Tiles: tiles("t", 20, "")}}, testOptions())
	if err != nil {
		t.Fatalf("ExportMany() error: %v", err)
	}
	zr, err := zip.NewReader(bytes.NewReader(art.Data), int64(len(art.Data)))
	if err != nil {
		t.Fatalf("zip.NewReader() error: %v", err)
	}
	for _, f := range zr.File {
		if f.Method != zip.Deflate {
			t.Errorf("%s stored with method %d, want deflate", f.Name, f.Method)
		}
		if !f.Modified.Equal(fixedNow) {
			t.Errorf("%s modified %v, want %v", f.Name, f.Modified, fixedNow)
		}
	}
}

func TestExportMany_SameLabelDifferentImages(t *testing.T) {
	other := "data:image/png;base64,iVBORw0KGgoAAAA="
	boards := []board.Board{{ID: "a", Name: "A", Tiles: []board.Tile{
		{ID: "1", Label: "Dog", Image: pngDataURI},
		{ID: "2", Label: "Dog", Image: other},
	}}}

	art, err := ExportMany(context.Background(), boards, testOptions())
	if err != nil {
		t.Fatalf("ExportMany() error: %v", err)
	}
	c, err := Read(art.Data)
	if err != nil {
		t.Fatalf("Read() error: %v", err)
	}
	if err := c.Check(); err != nil {
		t.Fatalf("Check() error: %v", err)
	}
	paths := make(map[string]bool)
	for _, p := range c.Manifest.Paths.Images {
		paths[p] = true
	}
	if len(paths) != 2 {
		t.Errorf("images share a file: %v", c.Manifest.Paths.Images)
	}

	doc, err := c.Board("a")
	if err != nil {
		t.Fatalf("Board() error: %v", err)
	}
	want := map[string]string{"1": pngDataURI, "2": other}
	for _, btn := range doc.Buttons {
		var path string
		for _, img := range doc.Images {
			if img.ID == btn.ImageID {
				path = img.Path
			}
		}
		data, ok := c.Files["images"+path]
		if !ok {
			t.Fatalf("button %s: image %q not in archive", btn.ID, path)
		}
		_, raw, err := resource.DecodeDataURI(want[btn.ID])
		if err != nil {
			t.Fatal(err)
		}
		if !bytes.Equal(data, raw) {
			t.Errorf("button %s: %s holds % x, want % x", btn.ID, path, data, raw)
		}
	}
}

func TestCheck_DocumentPathMismatch(t *testing.T) {
	boards := []board.Board{{ID: "a", Name: "A", Tiles: []board.Tile{{ID: "1", Label: "Dog", Image: pngDataURI}}}}
	art, err := ExportMany(context.Background(), boards, testOptions())
	if err != nil {
		t.Fatalf("ExportMany() error: %v", err)
	}
	c, err := Read(art.Data)
	if err != nil {
		t.Fatalf("Read() error: %v", err)
	}
	for id := range c.Manifest.Paths.Images {
		c.Files["images/moved.png"] = c.Files[c.Manifest.Paths.Images[id]]
		c.Manifest.Paths.Images[id] = "images/moved.png"
	}
	if err := c.Check(); !errors.Is(err, errors.ErrCodeInvalidFormat) {
		t.Errorf("Check() error = %v, want INVALID_FORMAT", err)
	}
}

func TestRead_Invalid(t *testing.T) {
	if _, err := Read([]byte("not a zip")); !errors.Is(err, errors.ErrCodeInvalidFormat) {
		t.Errorf("Read() error = %v, want INVALID_FORMAT", err)
	}
}

func TestFilename(t *testing.T) {
	local := time.Date(2024, 1, 2, 3, 4, 5, 0, time.FixedZone("CET", 3600))
	if got := Filename(local, "Home", SuffixPDF); got != "2024-01-02_02-04-05_Home board.pdf" {
		t.Errorf("Filename() = %q", got)
	}
	if got := Filename(fixedNow, "  ", SuffixOBF); !strings.HasSuffix(got, "_board board.obf") {
		t.Errorf("Filename() with blank name = %q", got)
	}
}

func TestNameFor(t *testing.T) {
	if got := NameFor([]board.Board{{ID: "x", NameKey: "boards.home"}}); got != "boards.home" {
		t.Errorf("NameFor(single) = %q", got)
	}
	if got := NameFor([]board.Board{{ID: "x"}}); got != "x" {
		t.Errorf("NameFor(unnamed) = %q", got)
	}
	if got := NameFor([]board.Board{{ID: "x"}, {ID: "y"}}); got != SetName {
		t.Errorf("NameFor(set) = %q", got)
	}
}
