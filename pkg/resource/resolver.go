package resource

import (
	"context"
	"io"
	"io/fs"
	"net/url"
	"path"
	"strings"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/boardexport/pkg/errors"
	"github.com/matzehuels/boardexport/pkg/httputil"
	"github.com/matzehuels/boardexport/pkg/observability"
)

// Kind describes where a record's bytes came from.
type Kind string

const (
	KindInline      Kind = "inline"
	KindURL         Kind = "url"
	KindPath        Kind = "path"
	KindPlaceholder Kind = "placeholder"
)

// Record is a resolved image.
type Record struct {
	// ID is the generated image id, unique within one export.
	ID string
	// Data holds the raw bytes.
	Data []byte
	// MIME is the media type without parameters.
	MIME string
	// Inline is the data URI, set in embed mode only.
	Inline string
	// Path is the archive-relative path starting with "/", set in archive
	// mode only. It is empty for fetched references in sandboxed mode and
	// for paths that are not safe archive entries.
	Path string
	// Kind tells how the reference was loaded.
	Kind Kind
}

// Placeholder reports whether the record is the "not found" image.
func (r Record) Placeholder() bool {
	return r.Kind == KindPlaceholder
}

// ArchiveName returns the archive entry the bytes are written to.
func (r Record) ArchiveName() string {
	if r.Path != "" {
		return "images" + r.Path
	}
	return "images/" + r.ID + "." + Extension(r.MIME)
}

// Hint names the tile an image belongs to. It is used to build paths for
// inline images, which have no path of their own.
type Hint struct {
	BoardName string
	Label     string
	TileID    string
}

// Fetcher retrieves remote bytes. [*httputil.Client] implements it.
type Fetcher interface {
	Get(ctx context.Context, rawURL string) (*httputil.Response, error)
}

// Options configures a [Resolver].
type Options struct {
	// Embed selects data URIs instead of archive paths.
	Embed bool
	// Sandboxed selects the sandboxed runtime: asset paths are read from
	// AssetRoot and fetched references get no archive path.
	Sandboxed bool
	// AssetRoot holds the application's static assets.
	AssetRoot fs.FS
	// BaseURL is the origin asset paths are fetched from when not sandboxed.
	BaseURL string
	// Offline disables fetching. URLs and base-URL paths resolve to the
	// placeholder.
	Offline bool
	// AllowedHosts restricts fetched URLs to these hosts. Empty allows any
	// host. The BaseURL host is always allowed.
	AllowedHosts []string
	// Fetcher retrieves URLs. Defaults to an uncached [httputil.Client].
	Fetcher Fetcher
	// NewID generates image ids. Defaults to [NewObjectID]. It must be safe
	// for concurrent use.
	NewID func() string
	// Logger receives warnings for references that fall back to the
	// placeholder.
	Logger *log.Logger
}

// Resolver turns image references into records. It is safe for concurrent
// use; the converter resolves the images of one board in parallel.
type Resolver struct {
	opts Options
}

// NewResolver returns a resolver with defaults applied to opts.
func NewResolver(opts Options) *Resolver {
	if opts.Fetcher == nil {
		opts.Fetcher = httputil.NewClient()
	}
	if opts.NewID == nil {
		opts.NewID = NewObjectID
	}
	if opts.Logger == nil {
		opts.Logger = log.New(io.Discard)
	}
	return &Resolver{opts: opts}
}

// Embed reports whether the resolver produces data URIs.
func (r *Resolver) Embed() bool {
	return r.opts.Embed
}

// Resolve loads ref and returns its record. On any failure it logs the error
// and returns a placeholder record instead.
func (r *Resolver) Resolve(ctx context.Context, ref string, hint Hint) Record {
	start := time.Now()
	kind, mediaType, data, err := r.load(ctx, ref)
	if err != nil {
		r.opts.Logger.Warn("image unavailable, using placeholder", "ref", abbreviate(ref), "err", err)
		observability.Resource().OnFallback(ctx, abbreviate(ref), err)
		return r.Placeholder()
	}

	rec := Record{
		ID:   r.opts.NewID(),
		Data: data,
		MIME: mediaType,
		Kind: kind,
	}
	if r.opts.Embed {
		if kind == KindInline {
			rec.Inline = ref
		} else {
			rec.Inline = DataURI(mediaType, data)
		}
	} else {
		rec.Path = r.archivePath(kind, ref, mediaType, hint)
		if rec.Path != "" && errors.ValidatePath(rec.Path) != nil {
			rec.Path = ""
		}
	}

	observability.Resource().OnResolve(ctx, string(kind), len(data), time.Since(start))
	return rec
}

// Placeholder returns a fresh record for the "not found" image.
func (r *Resolver) Placeholder() Record {
	data := NotFoundPNG()
	rec := Record{
		ID:   r.opts.NewID(),
		Data: data,
		MIME: "image/png",
		Kind: KindPlaceholder,
	}
	if r.opts.Embed {
		rec.Inline = DataURI(rec.MIME, data)
	} else {
		rec.Path = NotFoundPath
	}
	return rec
}

func (r *Resolver) load(ctx context.Context, ref string) (Kind, string, []byte, error) {
	if err := ctx.Err(); err != nil {
		return "", "", nil, err
	}
	switch {
	case ref == "":
		return "", "", nil, errors.New(errors.ErrCodeNotFound, "empty image reference")

	case IsDataURI(ref):
		mediaType, data, err := DecodeDataURI(ref)
		return KindInline, mediaType, data, err

	case isRemote(ref):
		mediaType, data, err := r.fetch(ctx, ref)
		return KindURL, mediaType, data, err
	}

	if r.opts.Sandboxed {
		mediaType, data, err := r.readAsset(SandboxPath(ref))
		return KindPath, mediaType, data, err
	}
	if r.opts.BaseURL != "" {
		mediaType, data, err := r.fetch(ctx, joinURL(r.opts.BaseURL, ref))
		return KindPath, mediaType, data, err
	}
	if r.opts.AssetRoot != nil {
		mediaType, data, err := r.readAsset(ref)
		return KindPath, mediaType, data, err
	}
	return "", "", nil, errors.New(errors.ErrCodeNotFound, "no asset source configured for %q", ref)
}

func (r *Resolver) fetch(ctx context.Context, rawURL string) (string, []byte, error) {
	if err := r.checkHost(rawURL); err != nil {
		return "", nil, err
	}
	resp, err := r.opts.Fetcher.Get(ctx, rawURL)
	if err != nil {
		return "", nil, err
	}
	mediaType := baseType(resp.ContentType)
	if mediaType == "" || mediaType == "application/octet-stream" {
		mediaType = DetectType(rawURL, resp.Body)
	}
	return mediaType, resp.Body, nil
}

func (r *Resolver) checkHost(rawURL string) error {
	if r.opts.Offline {
		return errors.New(errors.ErrCodePermissionDenied, "fetching disabled: %s", abbreviate(rawURL))
	}
	if len(r.opts.AllowedHosts) == 0 {
		return nil
	}
	u, err := url.Parse(rawURL)
	if err != nil {
		return errors.Wrap(errors.ErrCodeInvalidInput, err, "parse %s", abbreviate(rawURL))
	}
	host := u.Hostname()
	if base, err := url.Parse(r.opts.BaseURL); err == nil && r.opts.BaseURL != "" && strings.EqualFold(base.Hostname(), host) {
		return nil
	}
	for _, allowed := range r.opts.AllowedHosts {
		if strings.EqualFold(allowed, host) {
			return nil
		}
	}
	return errors.New(errors.ErrCodePermissionDenied, "host %q is not allowed", host)
}

func (r *Resolver) readAsset(name string) (string, []byte, error) {
	if r.opts.AssetRoot == nil {
		return "", nil, errors.New(errors.ErrCodeNotFound, "no asset root for %q", name)
	}
	p := path.Clean(strings.TrimPrefix(name, "/"))
	if !fs.ValidPath(p) {
		return "", nil, errors.New(errors.ErrCodeInvalidPath, "invalid asset path %q", name)
	}
	data, err := fs.ReadFile(r.opts.AssetRoot, p)
	if err != nil {
		return "", nil, errors.Wrap(errors.ErrCodeNotFound, err, "read asset %s", p)
	}
	return DetectType(p, data), data, nil
}

func (r *Resolver) archivePath(kind Kind, ref, mediaType string, hint Hint) string {
	switch kind {
	case KindInline:
		label := hint.Label
		if label == "" {
			label = hint.TileID
		}
		return "/custom/" + errors.SanitizeFilename(hint.BoardName) + "/" +
			errors.SanitizeFilename(label) + "." + Extension(mediaType)
	case KindURL:
		if r.opts.Sandboxed {
			return ""
		}
		u, err := url.Parse(ref)
		if err != nil {
			return ""
		}
		return path.Clean("/" + u.Host + "/" + u.Path)
	default:
		if r.opts.Sandboxed {
			return ""
		}
		return path.Clean("/" + ref)
	}
}

// SandboxPath rewrites an absolute asset path for the sandboxed runtime,
// which only accepts paths relative to the application directory.
func SandboxPath(ref string) string {
	if strings.HasPrefix(ref, "/") {
		return "." + ref
	}
	return ref
}

func isRemote(ref string) bool {
	u, err := url.Parse(ref)
	return err == nil && (u.Scheme == "http" || u.Scheme == "https") && u.Host != ""
}

func joinURL(base, ref string) string {
	return strings.TrimRight(base, "/") + "/" + strings.TrimLeft(ref, "/")
}

func abbreviate(ref string) string {
	if len(ref) > 80 {
		return ref[:77] + "..."
	}
	return ref
}
