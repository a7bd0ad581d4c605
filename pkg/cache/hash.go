package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
)

// Keyer produces cache keys for the values the export pipeline caches.
type Keyer interface {
	// FetchKey returns the key for the raw bytes fetched from a URL.
	FetchKey(rawURL string) string
	// RasterKey returns the key for a vector image rasterized at a size.
	RasterKey(ref string, opts RasterKeyOpts) string
}

// RasterKeyOpts identifies one rasterization of a vector image.
type RasterKeyOpts struct {
	Width  int `json:"w"`
	Height int `json:"h"`
}

// DefaultKeyer is the unscoped [Keyer].
type DefaultKeyer struct{}

// NewDefaultKeyer returns a [DefaultKeyer].
func NewDefaultKeyer() Keyer {
	return DefaultKeyer{}
}

// FetchKey returns "fetch:" followed by the hash of the URL.
func (DefaultKeyer) FetchKey(rawURL string) string {
	return hashKey("fetch", rawURL)
}

// RasterKey returns "raster:" followed by the hash of ref and opts.
func (DefaultKeyer) RasterKey(ref string, opts RasterKeyOpts) string {
	return hashKey("raster", ref, opts)
}

// hashKey generates a cache key by hashing the components.
// The key format is: prefix:hash(parts...)
func hashKey(prefix string, parts ...any) string {
	data, _ := json.Marshal(parts)
	hash := sha256.Sum256(data)
	return fmt.Sprintf("%s:%s", prefix, hex.EncodeToString(hash[:]))
}

// Hash computes a SHA-256 hash of the input data.
// Returns the full 64-character hex string.
func Hash(data []byte) string {
	hash := sha256.Sum256(data)
	return hex.EncodeToString(hash[:])
}
