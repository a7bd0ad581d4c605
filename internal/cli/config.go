package cli

import (
	"io/fs"
	"os"
	"strings"
	"time"

	"github.com/BurntSushi/toml"

	"github.com/matzehuels/boardexport/pkg/deliver"
	"github.com/matzehuels/boardexport/pkg/errors"
	"github.com/matzehuels/boardexport/pkg/generate"
	"github.com/matzehuels/boardexport/pkg/i18n"
	"github.com/matzehuels/boardexport/pkg/resource"
	"github.com/matzehuels/boardexport/pkg/store"
)

const defaultTimeout = generate.DefaultTimeout

// Cache backends.
const (
	CacheNone  = "none"
	CacheFile  = "file"
	CacheRedis = "redis"
)

// Config is the TOML config file. Command-line flags override its values.
type Config struct {
	Locale        string   `toml:"locale"`
	LabelPosition string   `toml:"label_position"`
	Translations  string   `toml:"translations"`
	OutputDir     string   `toml:"output_dir"`
	Sandboxed     bool     `toml:"sandboxed"`
	AssetRoot     string   `toml:"asset_root"`
	AssetBaseURL  string   `toml:"asset_base_url"`
	Timeout       Duration `toml:"timeout"`
	PicseePal     bool     `toml:"picsee"`

	Server ServerConfig      `toml:"server"`
	Cache  CacheConfig       `toml:"cache"`
	Fetch  FetchConfig       `toml:"fetch"`
	S3     deliver.S3Config  `toml:"s3"`
	Mongo  store.MongoConfig `toml:"mongo"`
}

// ServerConfig configures the serve command.
type ServerConfig struct {
	Addr string `toml:"addr"`
}

// CacheConfig selects the fetch cache backend.
type CacheConfig struct {
	Backend   string   `toml:"backend"`
	RedisAddr string   `toml:"redis_addr"`
	TTL       Duration `toml:"ttl"`
}

// FetchConfig controls how remote images are fetched.
type FetchConfig struct {
	Retries      int      `toml:"retries"`
	RetryDelay   Duration `toml:"retry_delay"`
	Offline      bool     `toml:"offline"`
	AllowedHosts []string `toml:"allowed_hosts"`
}

// Duration is a time.Duration written as a string ("20s", "168h") in TOML.
type Duration struct {
	time.Duration
}

// UnmarshalText parses a Go duration string.
func (d *Duration) UnmarshalText(text []byte) error {
	v, err := time.ParseDuration(string(text))
	if err != nil {
		return errors.Wrap(errors.ErrCodeInvalidInput, err, "invalid duration %q", text)
	}
	d.Duration = v
	return nil
}

// MarshalText formats the duration.
func (d Duration) MarshalText() ([]byte, error) {
	return []byte(d.String()), nil
}

// DefaultConfig returns the configuration used when no file exists.
func DefaultConfig() Config {
	return Config{
		Timeout: Duration{defaultTimeout},
		Server:  ServerConfig{Addr: ":8080"},
		Cache:   CacheConfig{Backend: CacheFile},
		Mongo:   store.MongoConfig{Collection: store.DefaultCollection},
	}
}

// LoadConfig decodes the TOML file at path over the defaults. Unknown keys
// are rejected so typos do not pass silently.
func LoadConfig(path string) (Config, error) {
	cfg := DefaultConfig()
	md, err := toml.DecodeFile(path, &cfg)
	if err != nil {
		return Config{}, errors.Wrap(errors.ErrCodeInvalidInput, err, "read config %s", path)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, k := range undecoded {
			keys[i] = k.String()
		}
		return Config{}, errors.New(errors.ErrCodeInvalidInput, "unknown config keys in %s: %s", path, strings.Join(keys, ", "))
	}
	return cfg, nil
}

// resources builds the resolver options for the asset settings.
func (c Config) resources() resource.Options {
	var root fs.FS
	if c.AssetRoot != "" {
		root = os.DirFS(c.AssetRoot)
	}
	return resource.Options{
		Sandboxed:    c.Sandboxed,
		AssetRoot:    root,
		BaseURL:      c.AssetBaseURL,
		Offline:      c.Fetch.Offline,
		AllowedHosts: c.Fetch.AllowedHosts,
	}
}

// translator loads the catalog named by Translations. A directory is
// searched for the catalog of the configured locale. Without a catalog
// every key translates to itself.
func (c Config) translator() (func(string) string, error) {
	if c.Translations == "" {
		return nil, nil
	}
	info, err := os.Stat(c.Translations)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeNotFound, err, "translations")
	}
	var cat *i18n.Catalog
	if info.IsDir() {
		cat, err = i18n.LoadLocale(c.Translations, c.Locale)
	} else {
		cat, err = i18n.Load(c.Translations)
	}
	if err != nil {
		return nil, err
	}
	return cat.Func(), nil
}
