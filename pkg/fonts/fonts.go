// Package fonts maps locales to the font families used in print documents
// and provides the built-in face used to draw placeholder images.
//
// Print documents register exactly two families: [Default] and the family
// selected for the document locale. Scripts that Roboto does not cover (Khmer,
// Arabic, Thai, Devanagari, Hebrew, CJK, Bengali) get a dedicated family.
package fonts

import (
	"strings"
	"sync"

	"github.com/golang/freetype/truetype"
	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/gobold"
)

// Default is the family used when the locale has no dedicated entry.
const Default = "Roboto"

// Family lists the font files of one family, as a pdfmake font definition.
type Family struct {
	Normal      string `json:"normal"`
	Bold        string `json:"bold"`
	Italics     string `json:"italics"`
	BoldItalics string `json:"bolditalics"`
}

func family(prefix string) Family {
	return Family{
		Normal:      prefix + "-Regular.ttf",
		Bold:        prefix + "-Bold.ttf",
		Italics:     prefix + "-Regular.ttf",
		BoldItalics: prefix + "-Bold.ttf",
	}
}

// Catalog holds every family the print generator knows about.
var Catalog = map[string]Family{
	"Roboto": {
		Normal:      "Roboto-Regular.ttf",
		Bold:        "Roboto-Medium.ttf",
		Italics:     "Roboto-Italic.ttf",
		BoldItalics: "Roboto-MediumItalic.ttf",
	},
	"Khmer":            family("Khmer"),
	"Tajawal":          family("Tajawal"),
	"Sarabun":          family("Sarabun"),
	"Hind":             family("Hind"),
	"NotoSansHebrew":   family("NotoSansHebrew"),
	"NotoSansJP":       family("NotoSansJP"),
	"NotoSansKR":       family("NotoSansKR"),
	"AnekDevanagari":   family("AnekDevanagari"),
	"NotoSansSC":       family("NotoSansSC"),
	"NotoSerifBengali": family("NotoSerifBengali"),
}

var byLanguage = map[string]string{
	"km": "Khmer",
	"ar": "Tajawal",
	"th": "Sarabun",
	"hi": "Hind",
	"he": "NotoSansHebrew",
	"ja": "NotoSansJP",
	"ko": "NotoSansKR",
	"ne": "AnekDevanagari",
	"zh": "NotoSansSC",
	"bn": "NotoSerifBengali",
}

// ForLocale returns the family name for a locale such as "ar" or "ja-JP".
// Only the language subtag is considered.
func ForLocale(locale string) string {
	lang := strings.ToLower(locale)
	if i := strings.IndexAny(lang, "-_"); i >= 0 {
		lang = lang[:i]
	}
	if name, ok := byLanguage[lang]; ok {
		return name
	}
	return Default
}

// Registry returns the families to register for a document in locale:
// the default family plus the locale's family.
func Registry(locale string) (string, map[string]Family) {
	name := ForLocale(locale)
	reg := map[string]Family{Default: Catalog[Default]}
	reg[name] = Catalog[name]
	return name, reg
}

var (
	glyphFont    *truetype.Font
	glyphFontErr error
	glyphOnce    sync.Once
)

// Face returns a bold sans-serif face at the given point size, used for
// placeholder glyphs. The font is parsed once.
func Face(points float64) (font.Face, error) {
	glyphOnce.Do(func() {
		glyphFont, glyphFontErr = truetype.Parse(gobold.TTF)
	})
	if glyphFontErr != nil {
		return nil, glyphFontErr
	}
	return truetype.NewFace(glyphFont, &truetype.Options{Size: points}), nil
}
