package server

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5/middleware"

	bexerrors "github.com/matzehuels/boardexport/pkg/errors"
)

// errorBody is the JSON shape of an error response.
type errorBody struct {
	Code    string `json:"code"`
	Message string `json:"error"`
}

// statusFor maps an export error to an HTTP status.
func statusFor(err error) int {
	switch {
	case bexerrors.IsInvalid(err):
		return http.StatusBadRequest
	case bexerrors.Is(err, bexerrors.ErrCodeNotFound):
		return http.StatusNotFound
	case bexerrors.Is(err, bexerrors.ErrCodePermissionDenied):
		return http.StatusForbidden
	case bexerrors.Is(err, bexerrors.ErrCodeTimeout), errors.Is(err, context.DeadlineExceeded):
		return http.StatusGatewayTimeout
	}
	return http.StatusInternalServerError
}

func writeError(w http.ResponseWriter, status int, err error) {
	code := string(bexerrors.GetCode(err))
	if code == "" {
		code = string(bexerrors.ErrCodeInternal)
	}
	writeJSON(w, status, errorBody{Code: code, Message: bexerrors.UserMessage(err)})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

// requestLogger logs one line per request at info level.
func requestLogger(logger *log.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
			start := time.Now()
			next.ServeHTTP(ww, r)
			logger.Info("request",
				"method", r.Method,
				"path", r.URL.Path,
				"status", ww.Status(),
				"bytes", ww.BytesWritten(),
				"duration", time.Since(start).Round(time.Millisecond),
				"id", middleware.GetReqID(r.Context()))
		})
	}
}
