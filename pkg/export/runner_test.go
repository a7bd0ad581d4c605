package export

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/matzehuels/boardexport/pkg/archive"
	"github.com/matzehuels/boardexport/pkg/board"
	"github.com/matzehuels/boardexport/pkg/errors"
	"github.com/matzehuels/boardexport/pkg/observability"
	"github.com/matzehuels/boardexport/pkg/resource"
)

var fixedNow = time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC)

// boardSet is root → food → drinks → root, plus an unlinked "spare" board.
func boardSet() []board.Board {
	tile := func(id, label, link string) board.Tile {
		return board.Tile{ID: id, Label: label, LoadBoard: link, BackgroundColor: "#ffffff"}
	}
	return []board.Board{
		{ID: "root", Name: "Home", Tiles: []board.Tile{tile("r1", "Food", "food"), tile("r2", "Yes", "")}},
		{ID: "food", Name: "Food", Tiles: []board.Tile{tile("f1", "Drinks", "drinks")}},
		{ID: "drinks", Name: "Drinks", Tiles: []board.Tile{tile("d1", "Home", "root")}},
		{ID: "spare", Name: "Spare", Tiles: []board.Tile{tile("s1", "Other", "")}},
	}
}

func run(t *testing.T, opts Options) *Result {
	t.Helper()
	opts.Now = func() time.Time { return fixedNow }
	res, err := NewRunner(nil, nil, nil).Execute(context.Background(), opts)
	if err != nil {
		t.Fatalf("Execute() failed: %v", err)
	}
	return res
}

func TestExecute_Formats(t *testing.T) {
	tests := []struct {
		format   string
		root     string
		wantName string
		wantMIME string
		boards   []string
	}{
		{FormatOBF, "", "2024-05-01_10-00-00_Home board.obf", "application/json", []string{"root"}},
		{FormatOBF, "food", "2024-05-01_10-00-00_Food board.obf", "application/json", []string{"food"}},
		{FormatOBZ, "root", "2024-05-01_10-00-00_boardsset board.obz", "application/zip", []string{"root", "food", "drinks"}},
		{FormatSnapshot, "", "2024-05-01_10-00-00_boardsset board.json", "application/json", []string{"root", "food", "drinks", "spare"}},
		{FormatSnapshot, "spare", "2024-05-01_10-00-00_Spare board.json", "application/json", []string{"spare"}},
		{FormatPDF, "drinks", "2024-05-01_10-00-00_boardsset board-print.json", "application/json", []string{"drinks", "root", "food"}},
	}
	for _, tt := range tests {
		t.Run(tt.format+"/"+tt.root, func(t *testing.T) {
			res := run(t, Options{Format: tt.format, Root: tt.root, Boards: boardSet()})

			if res.Artifact.Name != tt.wantName {
				t.Errorf("Name = %q, want %q", res.Artifact.Name, tt.wantName)
			}
			if res.Artifact.MIME != tt.wantMIME {
				t.Errorf("MIME = %q, want %q", res.Artifact.MIME, tt.wantMIME)
			}
			if fmt.Sprint(res.Boards) != fmt.Sprint(tt.boards) {
				t.Errorf("Boards = %v, want %v", res.Boards, tt.boards)
			}
			if res.Stats.Boards != len(tt.boards) || res.Stats.Size != len(res.Artifact.Data) {
				t.Errorf("Stats = %+v", res.Stats)
			}
			if _, err := uuid.Parse(res.ID); err != nil {
				t.Errorf("ID %q is not a uuid: %v", res.ID, err)
			}
		})
	}
}

func TestExecute_OBZContents(t *testing.T) {
	res := run(t, Options{Format: FormatOBZ, Root: "root", Boards: boardSet()})

	contents, err := archive.Read(res.Artifact.Data)
	if err != nil {
		t.Fatalf("Read() failed: %v", err)
	}
	if err := contents.Check(); err != nil {
		t.Errorf("Check() failed: %v", err)
	}
	if contents.Manifest.Root != "boards/root.obf" {
		t.Errorf("root = %q", contents.Manifest.Root)
	}
	if _, ok := contents.Manifest.Paths.Boards["spare"]; ok {
		t.Error("unreachable board should not be exported")
	}
}

func TestExecute_FetchRetries(t *testing.T) {
	tests := []struct {
		name            string
		retries         int
		wantPlaceholder bool
	}{
		{"no retries", 0, true},
		{"one retry", 1, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var hits atomic.Int64
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				if hits.Add(1) == 1 {
					w.WriteHeader(http.StatusServiceUnavailable)
					return
				}
				w.Header().Set("Content-Type", "image/png")
				w.Write([]byte("\x89PNG-eat"))
			}))
			defer srv.Close()

			runner := NewRunner(nil, nil, nil)
			runner.Retries = tt.retries
			runner.RetryDelay = time.Millisecond
			boards := []board.Board{{ID: "root", Name: "Home", Tiles: []board.Tile{
				{ID: "t1", Label: "Eat", Image: srv.URL + "/eat.png"},
			}}}
			res, err := runner.Execute(context.Background(), Options{Format: FormatOBZ, Boards: boards})
			if err != nil {
				t.Fatalf("Execute() failed: %v", err)
			}

			contents, err := archive.Read(res.Artifact.Data)
			if err != nil {
				t.Fatalf("Read() failed: %v", err)
			}
			for _, path := range contents.Manifest.Paths.Images {
				if placeholder := path == "images"+resource.NotFoundPath; placeholder != tt.wantPlaceholder {
					t.Errorf("image at %s, placeholder = %v, want %v", path, placeholder, tt.wantPlaceholder)
				}
			}
			if want := int64(tt.retries + 1); hits.Load() != want {
				t.Errorf("requests = %d, want %d", hits.Load(), want)
			}
		})
	}
}

func TestExecute_SnapshotRoundTrip(t *testing.T) {
	in := boardSet()
	res := run(t, Options{Format: FormatSnapshot, Boards: in})

	out, err := board.ReadSnapshot(bytes.NewReader(res.Artifact.Data))
	if err != nil {
		t.Fatalf("ReadSnapshot() failed: %v", err)
	}
	if len(out) != len(in) || out[3].Tiles[0].Label != "Other" {
		t.Errorf("snapshot = %+v", out)
	}
}

func TestExecute_PDF(t *testing.T) {
	res := run(t, Options{
		Format:        FormatPDF,
		Root:          "food",
		Boards:        boardSet(),
		LabelPosition: "Above",
		PicseePal:     true,
		Locale:        "ko",
	})

	var def map[string]any
	if err := json.Unmarshal(res.Artifact.Data, &def); err != nil {
		t.Fatalf("print definition is not JSON: %v", err)
	}
	if def["defaultStyle"].(map[string]any)["font"] != "NotoSansKR" {
		t.Errorf("defaultStyle = %v", def["defaultStyle"])
	}
	if _, ok := def["background"]; !ok {
		t.Error("PicseePal export should have a background")
	}
}

func TestExecute_Errors(t *testing.T) {
	tests := []struct {
		name string
		opts Options
		code errors.Code
	}{
		{"bad format", Options{Format: "docx", Boards: boardSet()}, errors.ErrCodeInvalidInput},
		{"no boards", Options{Format: FormatOBZ}, errors.ErrCodeInvalidInput},
		{"unknown root", Options{Format: FormatOBZ, Root: "nope", Boards: boardSet()}, errors.ErrCodeNotFound},
		{"unknown obf root", Options{Format: FormatOBF, Root: "nope", Boards: boardSet()}, errors.ErrCodeNotFound},
		{"bad label position", Options{Format: FormatPDF, LabelPosition: "Left", Boards: boardSet()}, errors.ErrCodeInvalidInput},
		{"invalid board", Options{Format: FormatOBZ, Boards: []board.Board{{Name: "no id"}}}, errors.ErrCodeInvalidBoard},
		{"empty obf", Options{Format: FormatOBF, Boards: []board.Board{{ID: "empty"}}}, errors.ErrCodeInvalidInput},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewRunner(nil, nil, nil).Execute(context.Background(), tt.opts)
			if got := errors.GetCode(err); got != tt.code {
				t.Errorf("code = %q, want %q (err: %v)", got, tt.code, err)
			}
		})
	}
}

type recordingHooks struct {
	observability.NoopExportHooks
	mu     sync.Mutex
	events []string
}

func (h *recordingHooks) OnExportStart(_ context.Context, format string, boards int) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.events = append(h.events, fmt.Sprintf("start %s %d", format, boards))
}

func (h *recordingHooks) OnExportComplete(_ context.Context, format string, size int, _ time.Duration, err error) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.events = append(h.events, fmt.Sprintf("complete %s ok=%v sized=%v", format, err == nil, size > 0))
}

func TestExecute_Hooks(t *testing.T) {
	hooks := &recordingHooks{}
	observability.SetExportHooks(hooks)
	defer observability.Reset()

	run(t, Options{Format: FormatOBZ, Boards: boardSet()})
	NewRunner(nil, nil, nil).Execute(context.Background(), Options{Format: FormatOBF, Boards: []board.Board{{ID: "empty"}}})

	want := []string{
		"start obz 4",
		"complete obz ok=true sized=true",
		"start obf 1",
		"complete obf ok=false sized=false",
	}
	if strings.Join(hooks.events, "\n") != strings.Join(want, "\n") {
		t.Errorf("events:\n%s\nwant:\n%s", strings.Join(hooks.events, "\n"), strings.Join(want, "\n"))
	}
}

func TestOptions_JSON(t *testing.T) {
	body := `{"format":"pdf","root":"root","label_position":"Hidden","picsee":true,"boards":[{"id":"root","tiles":[]}]}`

	var opts Options
	if err := json.Unmarshal([]byte(body), &opts); err != nil {
		t.Fatalf("Unmarshal() failed: %v", err)
	}
	if err := opts.ValidateAndSetDefaults(); err != nil {
		t.Fatalf("ValidateAndSetDefaults() failed: %v", err)
	}
	if opts.Format != FormatPDF || opts.Root != "root" || opts.LabelPosition != "Hidden" || !opts.PicseePal {
		t.Errorf("opts = %+v", opts)
	}
	if len(opts.Boards) != 1 || opts.Timeout <= 0 || opts.Generator == nil {
		t.Errorf("defaults not applied: %+v", opts)
	}
}

func TestValidateFormat(t *testing.T) {
	tests := []struct {
		format  string
		wantErr bool
	}{
		{"obf", false},
		{"obz", false},
		{"cboard", false},
		{"pdf", false},
		{"OBF", true}, // case-sensitive
		{"", true},
	}
	for _, tt := range tests {
		if err := ValidateFormat(tt.format); (err != nil) != tt.wantErr {
			t.Errorf("ValidateFormat(%q) error = %v, wantErr %v", tt.format, err, tt.wantErr)
		}
	}
}

func TestSelect_DefaultFormat(t *testing.T) {
	opts := Options{Boards: boardSet()}
	if err := opts.ValidateAndSetDefaults(); err != nil {
		t.Fatal(err)
	}
	if opts.Format != DefaultFormat {
		t.Errorf("Format = %q, want %q", opts.Format, DefaultFormat)
	}
}
