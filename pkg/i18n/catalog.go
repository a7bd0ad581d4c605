package i18n

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/matzehuels/boardexport/pkg/errors"
)

// Catalog holds the messages of one locale.
type Catalog struct {
	Locale   string
	Messages map[string]string
}

// Load reads a catalog file. The format is chosen by extension; the locale
// is the file name without it.
func Load(path string) (*Catalog, error) {
	p, err := ParserFor(path)
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeNotFound, err, "read catalog")
	}
	msgs, err := p.Parse(data)
	if err != nil {
		return nil, err
	}
	base := filepath.Base(path)
	return &Catalog{
		Locale:   strings.TrimSuffix(base, filepath.Ext(base)),
		Messages: msgs,
	}, nil
}

// LoadLocale finds the catalog for locale in dir. It tries the full tag
// ("pt-BR") before the language ("pt") and every supported extension.
func LoadLocale(dir, locale string) (*Catalog, error) {
	candidates := []string{locale}
	if lang, _, ok := strings.Cut(strings.ReplaceAll(locale, "_", "-"), "-"); ok {
		candidates = append(candidates, lang)
	}
	for _, name := range candidates {
		for _, ext := range Extensions() {
			path := filepath.Join(dir, name+ext)
			if _, err := os.Stat(path); err == nil {
				c, err := Load(path)
				if err != nil {
					return nil, err
				}
				c.Locale = locale
				return c, nil
			}
		}
	}
	return nil, errors.New(errors.ErrCodeNotFound, "no catalog for locale %q in %s", locale, dir)
}

// Translate returns the message for key, or key itself when the catalog
// has none. A nil catalog translates every key to itself.
func (c *Catalog) Translate(key string) string {
	if c == nil {
		return key
	}
	if msg, ok := c.Messages[key]; ok && msg != "" {
		return msg
	}
	return key
}

// Func returns [Catalog.Translate] as a plain function.
func (c *Catalog) Func() func(string) string {
	return c.Translate
}
