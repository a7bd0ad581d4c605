package export

import (
	"bytes"
	"context"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"

	"github.com/matzehuels/boardexport/pkg/archive"
	"github.com/matzehuels/boardexport/pkg/board"
	"github.com/matzehuels/boardexport/pkg/cache"
	"github.com/matzehuels/boardexport/pkg/errors"
	"github.com/matzehuels/boardexport/pkg/httputil"
	"github.com/matzehuels/boardexport/pkg/observability"
	"github.com/matzehuels/boardexport/pkg/print"
)

// Artifact is a finished export file.
type Artifact = archive.Artifact

// Runner executes exports with a shared resource cache.
//
// The Runner is stateless except for the cache and logger; multiple
// goroutines can use the same Runner with different options.
type Runner struct {
	Cache  cache.Cache
	Keyer  cache.Keyer
	Logger *log.Logger

	// FetchTTL is how long fetched image bytes stay cached. Zero means
	// cache.TTLFetch.
	FetchTTL time.Duration

	// Retries is how many more times a failed fetch is tried, waiting
	// RetryDelay before the first retry and doubling after.
	Retries    int
	RetryDelay time.Duration
}

// NewRunner creates a runner with the given cache and keyer.
// If keyer is nil, a DefaultKeyer is used.
// If cache is nil, a NullCache is used (caching disabled).
func NewRunner(c cache.Cache, keyer cache.Keyer, logger *log.Logger) *Runner {
	if keyer == nil {
		keyer = cache.NewDefaultKeyer()
	}
	if c == nil {
		c = cache.NewNullCache()
	}
	if logger == nil {
		logger = log.Default()
	}
	return &Runner{
		Cache:  c,
		Keyer:  keyer,
		Logger: logger,
	}
}

// Execute selects the boards and produces the artifact for opts.Format.
func (r *Runner) Execute(ctx context.Context, opts Options) (*Result, error) {
	r.applyLogger(&opts)
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, err
	}
	r.applyFetcher(&opts)

	id := uuid.NewString()
	logger := opts.Logger.With("export", id[:8])
	opts.Logger = logger
	opts.Resources.Logger = logger

	boards, err := Select(opts.Boards, opts.Format, opts.Root)
	if err != nil {
		return nil, err
	}

	hooks := observability.Export()
	hooks.OnExportStart(ctx, opts.Format, len(boards))
	start := time.Now()

	art, err := r.produce(ctx, boards, opts)
	dur := time.Since(start)
	hooks.OnExportComplete(ctx, opts.Format, art.Size(), dur, err)
	if err != nil {
		logger.Error("export failed", "format", opts.Format, "err", err)
		return nil, err
	}

	ids := make([]string, len(boards))
	for i := range boards {
		ids[i] = boards[i].ID
	}
	logger.Info("exported boards",
		"format", opts.Format,
		"boards", len(boards),
		"file", art.Name,
		"duration", dur)
	logger.Debug("artifact size", "bytes", art.Size())

	return &Result{
		ID:       id,
		Artifact: art,
		Boards:   ids,
		Stats: Stats{
			Boards:   len(boards),
			Size:     art.Size(),
			Duration: dur,
		},
	}, nil
}

func (r *Runner) produce(ctx context.Context, boards []board.Board, opts Options) (Artifact, error) {
	archiveOpts := archive.Options{
		Translate: opts.Translate,
		Locale:    opts.Locale,
		Resources: opts.Resources,
		Timeout:   opts.Timeout,
		Now:       opts.Now,
		Logger:    opts.Logger,
	}

	switch opts.Format {
	case FormatOBF:
		return archive.ExportOne(ctx, &boards[0], archiveOpts)
	case FormatOBZ:
		return archive.ExportMany(ctx, boards, archiveOpts)
	case FormatSnapshot:
		return snapshot(boards, opts)
	case FormatPDF:
		return r.printDocument(ctx, boards, opts)
	}
	return Artifact{}, ValidateFormat(opts.Format)
}

func snapshot(boards []board.Board, opts Options) (Artifact, error) {
	var buf bytes.Buffer
	if err := board.WriteSnapshot(&buf, boards); err != nil {
		return Artifact{}, errors.Wrap(errors.ErrCodeInternal, err, "write snapshot")
	}
	return Artifact{
		Name: archive.Filename(opts.Now(), archive.NameFor(boards), archive.SuffixSnapshot),
		MIME: "application/json",
		Data: buf.Bytes(),
	}, nil
}

func (r *Runner) printDocument(ctx context.Context, boards []board.Board, opts Options) (Artifact, error) {
	doc, err := print.Layout(ctx, boards, print.Options{
		LabelPosition: opts.LabelPosition,
		Locale:        opts.Locale,
		Translate:     opts.Translate,
		PicseePal:     opts.PicseePal,
		Resources:     opts.Resources,
		Rasterizer:    opts.Rasterizer,
		Cache:         r.Cache,
		Keyer:         r.Keyer,
		Logger:        opts.Logger,
	})
	if err != nil {
		return Artifact{}, err
	}
	data, err := print.Generate(ctx, doc, opts.Generator, opts.Timeout)
	if err != nil {
		return Artifact{}, err
	}
	return Artifact{
		Name: archive.Filename(opts.Now(), archive.NameFor(boards), opts.Generator.Suffix()),
		MIME: opts.Generator.MIME(),
		Data: data,
	}, nil
}

// Select returns the boards an export of format covers. obf exports the root
// alone; the other formats export the root and every board reachable from
// it. Without a root, obf takes the first board and the others take all.
func Select(all []board.Board, format, root string) ([]board.Board, error) {
	if len(all) == 0 {
		return nil, errors.New(errors.ErrCodeInvalidInput, "no boards to export")
	}
	if format == FormatOBF {
		if root == "" {
			return all[:1], nil
		}
		b, ok := board.Index(all)[root]
		if !ok {
			return nil, errors.New(errors.ErrCodeNotFound, "root board %q not found", root)
		}
		return []board.Board{*b}, nil
	}
	if root == "" {
		return all, nil
	}
	set := board.Reachable(all, root)
	if len(set) == 0 {
		return nil, errors.New(errors.ErrCodeNotFound, "root board %q not found", root)
	}
	return set, nil
}

// Close releases resources held by the runner (primarily the cache).
func (r *Runner) Close() error {
	if r.Cache != nil {
		return r.Cache.Close()
	}
	return nil
}

// applyLogger sets the runner's logger on options if not already set.
func (r *Runner) applyLogger(opts *Options) {
	if opts.Logger == nil {
		opts.Logger = r.Logger
	}
}

// applyFetcher routes image fetches through the runner's cache unless the
// caller brought its own fetcher.
func (r *Runner) applyFetcher(opts *Options) {
	if opts.Resources.Fetcher != nil {
		return
	}
	ttl := r.FetchTTL
	if ttl <= 0 {
		ttl = cache.TTLFetch
	}
	opts.Resources.Fetcher = httputil.NewClient(
		httputil.WithCache(r.Cache, ttl),
		httputil.WithKeyer(r.Keyer),
		httputil.WithRetries(r.Retries, r.RetryDelay),
	)
}
