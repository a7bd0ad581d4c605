package resource

import (
	"encoding/base64"
	"mime"
	"net/http"
	"net/url"
	"path"
	"strings"

	"github.com/matzehuels/boardexport/pkg/errors"
)

var extensions = map[string]string{
	"image/png":     "png",
	"image/jpeg":    "jpeg",
	"image/jpg":     "jpeg",
	"image/gif":     "gif",
	"image/svg+xml": "svg",
	"image/webp":    "webp",
	"image/bmp":     "bmp",
	"image/x-icon":  "ico",
}

// Extension returns the file extension, without dot, for a media type.
// Parameters such as "; charset=utf-8" are ignored. Unknown types map to
// "bin".
func Extension(mediaType string) string {
	mt := baseType(mediaType)
	if ext, ok := extensions[mt]; ok {
		return ext
	}
	if exts, err := mime.ExtensionsByType(mt); err == nil && len(exts) > 0 {
		return strings.TrimPrefix(exts[0], ".")
	}
	return "bin"
}

// DetectType guesses the media type of data loaded from name.
func DetectType(name string, data []byte) string {
	switch strings.ToLower(path.Ext(name)) {
	case ".svg":
		return "image/svg+xml"
	case ".png":
		return "image/png"
	case ".jpg", ".jpeg":
		return "image/jpeg"
	case ".gif":
		return "image/gif"
	case ".webp":
		return "image/webp"
	}
	if mt := mime.TypeByExtension(path.Ext(name)); mt != "" {
		return baseType(mt)
	}
	return baseType(http.DetectContentType(data))
}

func baseType(mediaType string) string {
	mt, _, err := mime.ParseMediaType(mediaType)
	if err != nil {
		mt = strings.TrimSpace(strings.SplitN(mediaType, ";", 2)[0])
	}
	return strings.ToLower(mt)
}

// IsDataURI reports whether ref is an inline data URI.
func IsDataURI(ref string) bool {
	return strings.HasPrefix(ref, "data:")
}

// DecodeDataURI splits a data URI into its media type and payload.
// Both base64 and percent-encoded payloads are accepted.
func DecodeDataURI(ref string) (string, []byte, error) {
	if !IsDataURI(ref) {
		return "", nil, errors.New(errors.ErrCodeInvalidInput, "not a data uri")
	}
	header, payload, ok := strings.Cut(ref[len("data:"):], ",")
	if !ok {
		return "", nil, errors.New(errors.ErrCodeInvalidInput, "data uri has no payload")
	}

	isBase64 := strings.HasSuffix(header, ";base64")
	mediaType := strings.TrimSuffix(header, ";base64")
	if mediaType == "" {
		mediaType = "text/plain"
	}

	if isBase64 {
		data, err := base64.StdEncoding.DecodeString(payload)
		if err != nil {
			data, err = base64.RawStdEncoding.DecodeString(strings.TrimRight(payload, "="))
		}
		if err != nil {
			return "", nil, errors.Wrap(errors.ErrCodeInvalidInput, err, "decode data uri")
		}
		return baseType(mediaType), data, nil
	}

	text, err := url.PathUnescape(payload)
	if err != nil {
		return "", nil, errors.Wrap(errors.ErrCodeInvalidInput, err, "decode data uri")
	}
	return baseType(mediaType), []byte(text), nil
}

// DataURI encodes data as a base64 data URI.
func DataURI(mediaType string, data []byte) string {
	return "data:" + baseType(mediaType) + ";base64," + base64.StdEncoding.EncodeToString(data)
}
