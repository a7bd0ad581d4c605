package archive

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"github.com/klauspost/compress/flate"
	"github.com/klauspost/compress/zip"

	"github.com/matzehuels/boardexport/pkg/board"
	"github.com/matzehuels/boardexport/pkg/errors"
	"github.com/matzehuels/boardexport/pkg/generate"
	"github.com/matzehuels/boardexport/pkg/obf"
	"github.com/matzehuels/boardexport/pkg/observability"
	"github.com/matzehuels/boardexport/pkg/resource"
)

// CompressionLevel is the DEFLATE level of archive entries.
const CompressionLevel = 6

// Options configures [ExportOne] and [ExportMany].
type Options struct {
	// Translate translates labels and board names.
	Translate obf.Translator
	// Locale is recorded in every document.
	Locale string
	// Resources configures image resolution. Embed is set by the export
	// functions and ignored here.
	Resources resource.Options
	// Timeout bounds writing the archive. Defaults to generate.DefaultTimeout.
	Timeout time.Duration
	// Now stamps file names and archive entries. Defaults to time.Now.
	Now func() time.Time
	// Logger receives progress and skip messages.
	Logger *log.Logger
}

func (o *Options) setDefaults() {
	if o.Now == nil {
		o.Now = time.Now
	}
	if o.Logger == nil {
		o.Logger = log.New(io.Discard)
	}
	if o.Resources.Logger == nil {
		o.Resources.Logger = o.Logger
	}
}

// ExportOne converts a single board into a self-contained OBF document with
// embedded images. Load-board links are only kept for links to b itself.
func ExportOne(ctx context.Context, b *board.Board, opts Options) (Artifact, error) {
	opts.setDefaults()
	if b == nil {
		return Artifact{}, errors.New(errors.ErrCodeInvalidInput, "no board to export")
	}
	if err := b.Validate(); err != nil {
		return Artifact{}, err
	}

	res := opts.Resources
	res.Embed = true
	doc, _, err := obf.Convert(ctx, map[string]*board.Board{b.ID: b}, b, obf.ConvertOptions{
		Embed:     true,
		Translate: opts.Translate,
		Locale:    opts.Locale,
		Resolver:  resource.NewResolver(res),
		Logger:    opts.Logger,
	})
	if err != nil {
		return Artifact{}, err
	}
	if doc == nil {
		return Artifact{}, errors.New(errors.ErrCodeInvalidInput, "board %s has no tiles", b.ID)
	}

	data, err := generate.Run(ctx, opts.Timeout, func(context.Context) ([]byte, error) {
		return json.MarshalIndent(doc, "", "  ")
	})
	if err != nil {
		return Artifact{}, err
	}
	return Artifact{
		Name: Filename(opts.Now(), NameFor([]board.Board{*b}), SuffixOBF),
		MIME: "application/json",
		Data: data,
	}, nil
}

type entry struct {
	name string
	data []byte
}

// ExportMany converts boards into an OBZ archive. Every board is exported;
// callers that want a board and its sub-boards pass [board.Reachable].
// Boards without tiles are skipped. ExportMany fails if no board remains.
func ExportMany(ctx context.Context, boards []board.Board, opts Options) (Artifact, error) {
	opts.setDefaults()
	if len(boards) == 0 {
		return Artifact{}, errors.New(errors.ErrCodeInvalidInput, "no boards to export")
	}
	if err := board.ValidateAll(boards); err != nil {
		return Artifact{}, err
	}

	byID := board.Index(boards)
	res := opts.Resources
	res.Embed = false
	resolver := resource.NewResolver(res)

	manifest := NewManifest()
	var entries []entry
	written := make(map[string][]byte)
	var converted []string

	for i := range boards {
		b := &boards[i]
		doc, records, err := obf.Convert(ctx, byID, b, obf.ConvertOptions{
			Translate: opts.Translate,
			Locale:    opts.Locale,
			Resolver:  resolver,
			Logger:    opts.Logger,
		})
		if err != nil {
			return Artifact{}, err
		}
		if doc == nil {
			opts.Logger.Info("skipping board without tiles", "board", b.ID)
			observability.Export().OnBoardSkipped(ctx, b.ID, "no tiles")
			continue
		}

		var images []entry
		for i := range doc.Images {
			img := &doc.Images[i]
			rec := records[img.ID]
			name := rec.ArchiveName()
			if prev, ok := written[name]; ok && !bytes.Equal(prev, rec.Data) {
				// Two tiles with the same label but different pictures.
				name = "images/" + rec.ID + "." + resource.Extension(rec.MIME)
			}
			if img.Path != "" {
				img.Path = strings.TrimPrefix(name, "images")
			}
			manifest.Paths.Images[img.ID] = name
			if _, ok := written[name]; !ok {
				written[name] = rec.Data
				images = append(images, entry{name: name, data: rec.Data})
			}
		}

		data, err := json.MarshalIndent(doc, "", "  ")
		if err != nil {
			return Artifact{}, errors.Wrap(errors.ErrCodeInternal, err, "encode board %s", b.ID)
		}
		path := obf.BoardPath(b.ID)
		entries = append(entries, entry{name: path, data: data})
		entries = append(entries, images...)
		manifest.Paths.Boards[b.ID] = path
		converted = append(converted, b.ID)
	}

	if len(converted) == 0 {
		return Artifact{}, errors.New(errors.ErrCodeInvalidInput, "none of the %d boards has tiles", len(boards))
	}
	manifest.Root = manifest.Paths.Boards[chooseRoot(converted, byID)]

	mdata, err := json.MarshalIndent(manifest, "", "  ")
	if err != nil {
		return Artifact{}, errors.Wrap(errors.ErrCodeInternal, err, "encode manifest")
	}
	entries = append(entries, entry{name: ManifestName, data: mdata})

	now := opts.Now()
	data, err := generate.Run(ctx, opts.Timeout, func(ctx context.Context) ([]byte, error) {
		return writeZip(ctx, entries, now)
	})
	if err != nil {
		return Artifact{}, err
	}

	opts.Logger.Debug("assembled archive", "boards", len(converted), "images", len(manifest.Paths.Images), "bytes", len(data))
	return Artifact{
		Name: Filename(now, NameFor(boards), SuffixOBZ),
		MIME: "application/zip",
		Data: data,
	}, nil
}

func writeZip(ctx context.Context, entries []entry, modified time.Time) ([]byte, error) {
	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	zw.RegisterCompressor(zip.Deflate, func(w io.Writer) (io.WriteCloser, error) {
		return flate.NewWriter(w, CompressionLevel)
	})

	for _, e := range entries {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		if err := errors.ValidatePath(e.name); err != nil {
			return nil, err
		}
		w, err := zw.CreateHeader(&zip.FileHeader{
			Name:     e.name,
			Method:   zip.Deflate,
			Modified: modified,
		})
		if err != nil {
			return nil, err
		}
		if _, err := w.Write(e.data); err != nil {
			return nil, err
		}
	}
	if err := zw.Close(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
