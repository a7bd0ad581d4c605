package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/matzehuels/boardexport/pkg/board"
	"github.com/matzehuels/boardexport/pkg/deliver"
	"github.com/matzehuels/boardexport/pkg/errors"
	"github.com/matzehuels/boardexport/pkg/export"
)

func cliBoards() []board.Board {
	return []board.Board{
		{ID: "root", Name: "Home", Tiles: []board.Tile{
			{ID: "r1", Label: "Food", LoadBoard: "food"},
			{ID: "r2", Label: "Yes"},
		}},
		{ID: "food", Name: "Food", IsFixed: true, Grid: &board.Grid{Rows: 2, Columns: 2}, Tiles: []board.Tile{
			{ID: "f1", Label: "Apple"},
		}},
		{ID: "spare", Name: "Spare", Tiles: []board.Tile{{ID: "s1", Label: "Other"}}},
	}
}

// writeSnapshot stores cliBoards in a temp snapshot file.
func writeSnapshot(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "boards.json")
	if err := board.ExportSnapshot(path, cliBoards()); err != nil {
		t.Fatal(err)
	}
	return path
}

// runCLI executes the root command with args and returns its stdout.
func runCLI(t *testing.T, args ...string) (string, error) {
	t.Helper()
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	t.Setenv("XDG_CACHE_HOME", t.TempDir())

	var logs, out bytes.Buffer
	root := New(&logs, LogInfo).RootCommand()
	root.SetArgs(args)
	root.SetOut(&out)
	root.SetErr(&logs)
	root.SetIn(strings.NewReader(""))
	err := root.Execute()
	return out.String(), err
}

// =============================================================================
// Config
// =============================================================================

func TestLoadConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	err := os.WriteFile(path, []byte(`
locale = "de-DE"
label_position = "Above"
sandboxed = true
timeout = "45s"

[cache]
backend = "redis"
redis_addr = "localhost:6379"
ttl = "24h"

[fetch]
retries = 2
retry_delay = "250ms"
offline = false
allowed_hosts = ["cboard.io", "arasaac.org"]

[s3]
bucket = "exports"
use_path_style = true

[mongo]
uri = "mongodb://localhost:27017"
database = "cboard"
`), 0o644)
	if err != nil {
		t.Fatal(err)
	}

	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig() error: %v", err)
	}
	if cfg.Locale != "de-DE" || cfg.LabelPosition != "Above" || !cfg.Sandboxed {
		t.Errorf("top-level values = %+v", cfg)
	}
	if cfg.Timeout.Duration != 45*time.Second {
		t.Errorf("Timeout = %v, want 45s", cfg.Timeout.Duration)
	}
	if cfg.Cache.Backend != CacheRedis || cfg.Cache.TTL.Duration != 24*time.Hour {
		t.Errorf("Cache = %+v", cfg.Cache)
	}
	if cfg.S3.Bucket != "exports" || !cfg.S3.UsePathStyle {
		t.Errorf("S3 = %+v", cfg.S3)
	}
	if cfg.Mongo.Database != "cboard" || cfg.Mongo.Collection != "boards" {
		t.Errorf("Mongo = %+v, want default collection kept", cfg.Mongo)
	}
	if cfg.Server.Addr != ":8080" {
		t.Errorf("Server.Addr = %q, want default", cfg.Server.Addr)
	}

	res := cfg.resources()
	if len(res.AllowedHosts) != 2 || res.AllowedHosts[1] != "arasaac.org" || res.Offline {
		t.Errorf("resources() = %+v", res)
	}
	runner, err := New(io.Discard, LogInfo).newRunner(context.Background(), cfg, true)
	if err != nil {
		t.Fatalf("newRunner() error: %v", err)
	}
	if runner.Retries != 2 || runner.RetryDelay != 250*time.Millisecond {
		t.Errorf("runner retries = %d after %v", runner.Retries, runner.RetryDelay)
	}
}

func TestLoadConfig_Errors(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{"unknown key", "colour = \"red\"\n"},
		{"bad duration", "timeout = \"soon\"\n"},
		{"bad syntax", "locale = \n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "config.toml")
			if err := os.WriteFile(path, []byte(tt.content), 0o644); err != nil {
				t.Fatal(err)
			}
			_, err := LoadConfig(path)
			if !errors.Is(err, errors.ErrCodeInvalidInput) {
				t.Errorf("LoadConfig() error = %v, want INVALID_INPUT", err)
			}
		})
	}
}

func TestConfigTranslator(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "de.yaml"), []byte("home: Startseite\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg := Config{Locale: "de-DE", Translations: dir}
	translate, err := cfg.translator()
	if err != nil {
		t.Fatalf("translator() error: %v", err)
	}
	if got := translate("home"); got != "Startseite" {
		t.Errorf("translate(home) = %q", got)
	}

	none, err := Config{}.translator()
	if err != nil || none != nil {
		t.Errorf("translator() without catalog: non-nil = %v, err = %v", none != nil, err)
	}
}

func TestNewCache(t *testing.T) {
	t.Setenv("XDG_CACHE_HOME", t.TempDir())
	ctx := context.Background()

	for _, backend := range []string{"", CacheFile, CacheNone} {
		cc, err := newCache(ctx, CacheConfig{Backend: backend}, false)
		if err != nil {
			t.Errorf("newCache(%q) error: %v", backend, err)
			continue
		}
		if err := ping(ctx, cc); err != nil {
			t.Errorf("ping(%q) error: %v", backend, err)
		}
		cc.Close()
	}

	if _, err := newCache(ctx, CacheConfig{Backend: "memcached"}, false); !errors.Is(err, errors.ErrCodeInvalidInput) {
		t.Errorf("unknown backend error = %v, want INVALID_INPUT", err)
	}
}

// =============================================================================
// Delivery
// =============================================================================

func TestPromptPermission(t *testing.T) {
	tests := []struct {
		input string
		want  bool
	}{
		{"y\n", true},
		{"Yes\n", true},
		{"n\n", false},
		{"\n", false},
		{"", false},
	}
	for _, tt := range tests {
		t.Run(strings.TrimSpace(tt.input), func(t *testing.T) {
			var out bytes.Buffer
			got, err := promptPermission(strings.NewReader(tt.input), &out).Request(context.Background())
			if err != nil {
				t.Fatal(err)
			}
			if got != tt.want {
				t.Errorf("Request() = %v, want %v", got, tt.want)
			}
			if !strings.Contains(out.String(), "Download") {
				t.Errorf("prompt = %q", out.String())
			}
		})
	}
}

func TestNewSink(t *testing.T) {
	ctx := context.Background()
	var stdout, prompt bytes.Buffer

	sink, err := newSink(ctx, Config{}, sinkOpts{output: "-"}, &stdout, nil, &prompt)
	if _, ok := sink.(deliver.WriterSink); err != nil || !ok {
		t.Errorf("output - gave %T, %v", sink, err)
	}
	sink, err = newSink(ctx, Config{}, sinkOpts{output: "out", sandboxed: true, yes: true}, &stdout, nil, &prompt)
	if _, ok := sink.(*deliver.SandboxSink); err != nil || !ok {
		t.Errorf("sandboxed gave %T, %v", sink, err)
	}
	sink, err = newSink(ctx, Config{}, sinkOpts{output: "out"}, &stdout, nil, &prompt)
	if _, ok := sink.(*deliver.DirSink); err != nil || !ok {
		t.Errorf("dir gave %T, %v", sink, err)
	}
	if _, err := newSink(ctx, Config{}, sinkOpts{toS3: true}, &stdout, nil, &prompt); !errors.Is(err, errors.ErrCodeInvalidInput) {
		t.Errorf("s3 without bucket error = %v, want INVALID_INPUT", err)
	}
}

func TestLoadBoards_Errors(t *testing.T) {
	ctx := context.Background()
	if _, err := loadBoards(ctx, Config{}, "", false); !errors.Is(err, errors.ErrCodeInvalidInput) {
		t.Errorf("no input error = %v", err)
	}
	if _, err := loadBoards(ctx, Config{}, "", true); !errors.Is(err, errors.ErrCodeInvalidInput) {
		t.Errorf("mongo without uri error = %v", err)
	}
}

// =============================================================================
// Commands
// =============================================================================

func TestExportCommand_Directory(t *testing.T) {
	snapshot := writeSnapshot(t)
	dir := t.TempDir()

	if _, err := runCLI(t, "export", snapshot, "--format", "cboard", "--root", "root", "-o", dir, "--no-cache"); err != nil {
		t.Fatalf("export failed: %v", err)
	}

	matches, _ := filepath.Glob(filepath.Join(dir, "*_boardsset board.json"))
	if len(matches) != 1 {
		t.Fatalf("exported files = %v", matches)
	}
	boards, err := board.ImportSnapshot(matches[0])
	if err != nil {
		t.Fatal(err)
	}
	if len(boards) != 2 || boards[0].ID != "root" {
		t.Errorf("exported boards = %d, first %q; want root and food", len(boards), boards[0].ID)
	}
}

func TestExportCommand_Stdout(t *testing.T) {
	snapshot := writeSnapshot(t)

	out, err := runCLI(t, "export", snapshot, "--format", "obf", "--root", "food", "-o", "-", "--no-cache")
	if err != nil {
		t.Fatalf("export failed: %v", err)
	}
	var doc map[string]any
	if err := json.Unmarshal([]byte(out), &doc); err != nil {
		t.Fatalf("stdout is not an obf document: %v", err)
	}
	if doc["id"] != "food" {
		t.Errorf("id = %v, want food", doc["id"])
	}
}

func TestExportCommand_SandboxDenied(t *testing.T) {
	snapshot := writeSnapshot(t)

	_, err := runCLI(t, "export", snapshot, "--sandboxed", "-o", t.TempDir(), "--no-cache")
	if !errors.Is(err, errors.ErrCodePermissionDenied) {
		t.Errorf("error = %v, want PERMISSION_DENIED", err)
	}
}

func TestExportCommand_Errors(t *testing.T) {
	snapshot := writeSnapshot(t)
	tests := []struct {
		name string
		args []string
		code errors.Code
	}{
		{"unknown format", []string{"export", snapshot, "--format", "docx", "-o", "-"}, errors.ErrCodeInvalidInput},
		{"unknown root", []string{"export", snapshot, "--root", "zzz", "-o", "-"}, errors.ErrCodeNotFound},
		{"bad label position", []string{"export", snapshot, "--format", "pdf", "--label-position", "Left", "-o", "-"}, errors.ErrCodeInvalidInput},
		{"no input", []string{"export", "-o", "-"}, errors.ErrCodeInvalidInput},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := runCLI(t, append(tt.args, "--no-cache")...)
			if !errors.Is(err, tt.code) {
				t.Errorf("error = %v, want %s", err, tt.code)
			}
		})
	}
}

func TestBoardsCommand(t *testing.T) {
	out, err := runCLI(t, "boards", writeSnapshot(t), "--validate")
	if err != nil {
		t.Fatalf("boards failed: %v", err)
	}
	for _, want := range []string{"Home", "food", "fixed", "Exports"} {
		if !strings.Contains(out, want) {
			t.Errorf("output lacks %q:\n%s", want, out)
		}
	}
}

func TestGraphCommand_DOT(t *testing.T) {
	out, err := runCLI(t, "graph", writeSnapshot(t), "--format", "dot", "--root", "root")
	if err != nil {
		t.Fatalf("graph failed: %v", err)
	}
	if !strings.Contains(out, `"root" -> "food"`) {
		t.Errorf("DOT lacks root edge:\n%s", out)
	}
	if strings.Contains(out, "spare") {
		t.Errorf("DOT contains unreachable board:\n%s", out)
	}
}

func TestRenderGraph_InvalidFormat(t *testing.T) {
	_, err := renderGraph(context.Background(), cliBoards(), "gif", 1)
	if !errors.Is(err, errors.ErrCodeInvalidInput) {
		t.Errorf("error = %v, want INVALID_INPUT", err)
	}
}

// =============================================================================
// Board picker
// =============================================================================

func TestSummarize(t *testing.T) {
	rows := summarize(cliBoards())
	if len(rows) != 3 {
		t.Fatalf("rows = %d", len(rows))
	}
	root := rows[0]
	if root.Tiles != 2 || root.Links != 1 || root.Reachable != 2 || root.Fixed {
		t.Errorf("root row = %+v", root)
	}
	if !rows[1].Fixed || rows[1].Reachable != 1 {
		t.Errorf("food row = %+v", rows[1])
	}
}

func TestBoardListModel(t *testing.T) {
	key := func(s string) tea.KeyMsg {
		switch s {
		case "down":
			return tea.KeyMsg{Type: tea.KeyDown}
		case "up":
			return tea.KeyMsg{Type: tea.KeyUp}
		case "enter":
			return tea.KeyMsg{Type: tea.KeyEnter}
		}
		return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
	}
	press := func(m BoardListModel, keys ...string) BoardListModel {
		for _, k := range keys {
			next, _ := m.Update(key(k))
			m = next.(BoardListModel)
		}
		return m
	}

	tests := []struct {
		name string
		keys []string
		want string
	}{
		{"first", []string{"enter"}, "root"},
		{"second", []string{"down", "enter"}, "food"},
		{"clamped at end", []string{"down", "down", "down", "down", "enter"}, "spare"},
		{"clamped at start", []string{"up", "k", "enter"}, "root"},
		{"vim keys", []string{"j", "j", "k", "enter"}, "food"},
		{"quit", []string{"down", "q"}, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := press(NewBoardListModel(cliBoards(), export.FormatOBZ), tt.keys...)
			if m.Selected != tt.want {
				t.Errorf("Selected = %q, want %q", m.Selected, tt.want)
			}
		})
	}
}

func TestBoardListModel_View(t *testing.T) {
	m := NewBoardListModel(cliBoards(), export.FormatOBZ)
	view := m.View()
	for _, want := range []string{"Select Root Board", "Home", "[1/3]", "obz exports 2 board(s)"} {
		if !strings.Contains(view, want) {
			t.Errorf("view lacks %q:\n%s", want, view)
		}
	}

	m = NewBoardListModel(cliBoards(), export.FormatOBF)
	if !strings.Contains(m.View(), "obf exports 1 board(s)") {
		t.Errorf("obf view:\n%s", m.View())
	}
}

func TestFormatSize(t *testing.T) {
	tests := []struct {
		n    int
		want string
	}{
		{0, "0 B"},
		{1023, "1023 B"},
		{1024, "1.0 KiB"},
		{1536, "1.5 KiB"},
		{5 << 20, "5.0 MiB"},
	}
	for _, tt := range tests {
		if got := formatSize(tt.n); got != tt.want {
			t.Errorf("formatSize(%d) = %q, want %q", tt.n, got, tt.want)
		}
	}
}
