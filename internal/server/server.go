// Package server exposes board exports over HTTP.
//
// The API accepts the same request the CLI builds, as JSON:
//
//	POST /api/v1/export/{format}
//	{"boards": [...], "root": "root", "locale": "en-US", "label_position": "Above"}
//
// and answers with the artifact bytes as an attachment. Errors are JSON
// objects with the error code and message.
package server

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"mime"
	"net/http"
	"strconv"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/matzehuels/boardexport/pkg/buildinfo"
	bexerrors "github.com/matzehuels/boardexport/pkg/errors"
	"github.com/matzehuels/boardexport/pkg/export"
	"github.com/matzehuels/boardexport/pkg/print"
	"github.com/matzehuels/boardexport/pkg/resource"
)

// DefaultMaxBody caps the size of an export request body.
const DefaultMaxBody = 32 << 20

// Options configures a [Server]. The runtime fields are applied to every
// export request; clients cannot set them.
type Options struct {
	Resources  resource.Options
	Translate  func(key string) string
	Rasterizer print.Rasterizer
	Timeout    time.Duration
	MaxBody    int64
	Logger     *log.Logger
}

// Server handles export requests with a shared runner.
type Server struct {
	runner *export.Runner
	opts   Options
	router chi.Router
}

// New returns a server that exports with runner.
func New(runner *export.Runner, opts Options) *Server {
	if opts.MaxBody <= 0 {
		opts.MaxBody = DefaultMaxBody
	}
	if opts.Logger == nil {
		opts.Logger = log.New(io.Discard)
	}
	s := &Server{runner: runner, opts: opts}
	s.router = s.routes()
	return s
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

func (s *Server) routes() chi.Router {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(requestLogger(s.opts.Logger))

	r.Get("/healthz", s.handleHealth)
	r.Route("/api/v1", func(r chi.Router) {
		r.Get("/formats", s.handleFormats)
		r.Post("/export", s.handleExport)
		r.Post("/export/{format}", s.handleExport)
	})
	return r
}

// ListenAndServe serves on addr until ctx is done, then shuts down
// gracefully.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errc := make(chan error, 1)
	go func() {
		s.opts.Logger.Info("listening", "addr", addr)
		errc <- srv.ListenAndServe()
	}()

	select {
	case err := <-errc:
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), 10*time.Second)
		defer cancel()
		s.opts.Logger.Info("shutting down")
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return err
		}
		if err := <-errc; err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	}
}

// =============================================================================
// Handlers
// =============================================================================

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{
		"status":  "ok",
		"version": buildinfo.Version,
	})
}

func (s *Server) handleFormats(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"formats": export.Formats,
		"default": export.DefaultFormat,
	})
}

func (s *Server) handleExport(w http.ResponseWriter, r *http.Request) {
	var opts export.Options
	body := http.MaxBytesReader(w, r.Body, s.opts.MaxBody)
	if err := json.NewDecoder(body).Decode(&opts); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			writeError(w, http.StatusRequestEntityTooLarge, bexerrors.Wrap(bexerrors.ErrCodeInvalidInput, err, "request body too large"))
			return
		}
		writeError(w, http.StatusBadRequest, bexerrors.Wrap(bexerrors.ErrCodeInvalidInput, err, "decode request"))
		return
	}
	if format := chi.URLParam(r, "format"); format != "" {
		opts.Format = format
	}

	opts.Resources = s.opts.Resources
	opts.Translate = s.opts.Translate
	opts.Rasterizer = s.opts.Rasterizer
	opts.Timeout = s.opts.Timeout
	opts.Logger = s.opts.Logger.With("request", middleware.GetReqID(r.Context()))

	result, err := s.runner.Execute(r.Context(), opts)
	if err != nil {
		writeError(w, statusFor(err), err)
		return
	}

	art := result.Artifact
	w.Header().Set("Content-Type", art.MIME)
	w.Header().Set("Content-Length", strconv.Itoa(len(art.Data)))
	w.Header().Set("Content-Disposition", mime.FormatMediaType("attachment", map[string]string{"filename": art.Name}))
	w.Header().Set("X-Export-ID", result.ID)
	w.WriteHeader(http.StatusOK)
	w.Write(art.Data)
}
