package i18n

import (
	"encoding/json"
	"fmt"
	"path/filepath"
	"sort"
	"strings"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"

	"github.com/matzehuels/boardexport/pkg/errors"
)

// Parser decodes one catalog file format.
type Parser interface {
	// Type names the format.
	Type() string
	// Supports reports whether a file name has this format.
	Supports(name string) bool
	// Parse decodes data into a flat key → message map.
	Parse(data []byte) (map[string]string, error)
}

// Parsers lists the supported catalog formats.
var Parsers = []Parser{JSON{}, YAML{}, TOML{}}

// ParserFor returns the parser for a file name.
func ParserFor(name string) (Parser, error) {
	for _, p := range Parsers {
		if p.Supports(name) {
			return p, nil
		}
	}
	return nil, errors.New(errors.ErrCodeInvalidFormat, "unsupported catalog format %q", filepath.Ext(name))
}

// Extensions returns the file extensions ParserFor accepts, sorted.
func Extensions() []string {
	return []string{".json", ".toml", ".yaml", ".yml"}
}

type JSON struct{}

func (JSON) Type() string              { return "json" }
func (JSON) Supports(name string) bool { return hasExt(name, ".json") }

func (JSON) Parse(data []byte) (map[string]string, error) {
	var raw map[string]any
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidFormat, err, "parse json catalog")
	}
	return flatten(raw)
}

type YAML struct{}

func (YAML) Type() string              { return "yaml" }
func (YAML) Supports(name string) bool { return hasExt(name, ".yaml", ".yml") }

func (YAML) Parse(data []byte) (map[string]string, error) {
	var raw map[string]any
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidFormat, err, "parse yaml catalog")
	}
	return flatten(raw)
}

type TOML struct{}

func (TOML) Type() string              { return "toml" }
func (TOML) Supports(name string) bool { return hasExt(name, ".toml") }

func (TOML) Parse(data []byte) (map[string]string, error) {
	var raw map[string]any
	if err := toml.Unmarshal(data, &raw); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidFormat, err, "parse toml catalog")
	}
	return flatten(raw)
}

func hasExt(name string, exts ...string) bool {
	ext := strings.ToLower(filepath.Ext(name))
	for _, e := range exts {
		if ext == e {
			return true
		}
	}
	return false
}

// flatten joins nested keys with dots. Scalars other than strings are
// formatted with %v; lists are rejected.
func flatten(raw map[string]any) (map[string]string, error) {
	out := make(map[string]string, len(raw))
	var walk func(prefix string, m map[string]any) error
	walk = func(prefix string, m map[string]any) error {
		keys := make([]string, 0, len(m))
		for k := range m {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		for _, k := range keys {
			key := k
			if prefix != "" {
				key = prefix + "." + k
			}
			switch v := m[k].(type) {
			case string:
				out[key] = v
			case map[string]any:
				if err := walk(key, v); err != nil {
					return err
				}
			case nil:
			case []any:
				return errors.New(errors.ErrCodeInvalidFormat, "catalog key %q holds a list", key)
			default:
				out[key] = fmt.Sprint(v)
			}
		}
		return nil
	}
	if err := walk("", raw); err != nil {
		return nil, err
	}
	return out, nil
}
