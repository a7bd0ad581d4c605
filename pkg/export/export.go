// Package export runs a complete board export for the CLI and the HTTP API.
//
// A [Runner] takes a board collection and [Options], selects the boards to
// export, produces the artifact for the requested format and reports timing
// through the observability hooks. Centralizing this keeps both entry points
// behaving the same.
//
// # Formats
//
//   - obf: one board as a single interchange document with embedded images
//   - obz: a set of boards as an interchange archive with a manifest
//   - cboard: the native snapshot, boards exactly as stored
//   - pdf: the print layout, rendered by a print generator
//
// # Usage
//
//	runner := export.NewRunner(cache, nil, logger)
//	result, err := runner.Execute(ctx, export.Options{
//	    Format: export.FormatOBZ,
//	    Root:   "root",
//	    Boards: boards,
//	})
//	if err != nil {
//	    log.Fatal(err)
//	}
//	os.WriteFile(result.Artifact.Name, result.Artifact.Data, 0o644)
package export

import (
	"io"
	"strings"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/boardexport/pkg/board"
	"github.com/matzehuels/boardexport/pkg/errors"
	"github.com/matzehuels/boardexport/pkg/generate"
	"github.com/matzehuels/boardexport/pkg/print"
	"github.com/matzehuels/boardexport/pkg/resource"
)

// =============================================================================
// Formats
// =============================================================================

const (
	FormatOBF      = "obf"
	FormatOBZ      = "obz"
	FormatSnapshot = "cboard"
	FormatPDF      = "pdf"
)

// DefaultFormat is used when Options.Format is empty.
const DefaultFormat = FormatOBZ

// ValidFormats is the set of supported export formats.
var ValidFormats = map[string]bool{
	FormatOBF:      true,
	FormatOBZ:      true,
	FormatSnapshot: true,
	FormatPDF:      true,
}

// Formats lists the supported formats in display order.
var Formats = []string{FormatOBF, FormatOBZ, FormatSnapshot, FormatPDF}

// ValidateFormat checks that a format is supported.
func ValidateFormat(format string) error {
	if !ValidFormats[format] {
		return errors.New(errors.ErrCodeInvalidInput, "invalid format: %q (must be one of: %s)",
			format, strings.Join(Formats, ", "))
	}
	return nil
}

// =============================================================================
// Options
// =============================================================================

// Options configures one export. The serialized fields form the body of an
// API export request.
type Options struct {
	Format string        `json:"format"`
	Boards []board.Board `json:"boards"`

	// Root selects the board to export for obf, and limits the other formats
	// to the root and the boards reachable from it. Empty means the first
	// board for obf and all boards otherwise.
	Root string `json:"root,omitempty"`

	Locale        string              `json:"locale,omitempty"`
	LabelPosition print.LabelPosition `json:"label_position,omitempty"`
	PicseePal     bool                `json:"picsee,omitempty"`

	// Runtime options (not serialized)
	Translate  func(key string) string `json:"-"`
	Resources  resource.Options        `json:"-"`
	Rasterizer print.Rasterizer        `json:"-"`
	Generator  print.Generator         `json:"-"`
	Timeout    time.Duration           `json:"-"`
	Now        func() time.Time        `json:"-"`
	Logger     *log.Logger             `json:"-"`

	// validated tracks whether ValidateAndSetDefaults has been called.
	validated bool
}

// ValidateAndSetDefaults checks the request and applies defaults. It is
// idempotent.
func (o *Options) ValidateAndSetDefaults() error {
	if o.validated {
		return nil
	}
	if o.Format == "" {
		o.Format = DefaultFormat
	}
	if err := ValidateFormat(o.Format); err != nil {
		return err
	}
	if len(o.Boards) == 0 {
		return errors.New(errors.ErrCodeInvalidInput, "no boards to export")
	}
	pos, err := print.ParseLabelPosition(string(o.LabelPosition))
	if err != nil {
		return err
	}
	o.LabelPosition = pos

	if o.Translate == nil {
		o.Translate = func(key string) string { return key }
	}
	if o.Generator == nil {
		o.Generator = print.DefinitionGenerator{}
	}
	if o.Timeout <= 0 {
		o.Timeout = generate.DefaultTimeout
	}
	if o.Now == nil {
		o.Now = time.Now
	}
	if o.Logger == nil {
		o.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}
	o.validated = true
	return nil
}

// =============================================================================
// Results
// =============================================================================

// Result is the outcome of an export.
type Result struct {
	// ID identifies the export run in logs and API responses.
	ID string
	// Artifact is the produced file.
	Artifact Artifact
	// Boards lists the ids of the exported boards.
	Boards []string
	// Stats holds timing and size information.
	Stats Stats
}

// Stats contains export statistics.
type Stats struct {
	Boards   int
	Size     int
	Duration time.Duration
}
