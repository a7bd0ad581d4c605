package fonts

import "testing"

func TestForLocale(t *testing.T) {
	tests := []struct {
		locale string
		want   string
	}{
		{"", "Roboto"},
		{"en", "Roboto"},
		{"en-US", "Roboto"},
		{"km", "Khmer"},
		{"ar-SA", "Tajawal"},
		{"th", "Sarabun"},
		{"hi-IN", "Hind"},
		{"he", "NotoSansHebrew"},
		{"ja", "NotoSansJP"},
		{"ko-KR", "NotoSansKR"},
		{"ne", "AnekDevanagari"},
		{"zh_CN", "NotoSansSC"},
		{"BN", "NotoSerifBengali"},
	}
	for _, tt := range tests {
		t.Run(tt.locale, func(t *testing.T) {
			if got := ForLocale(tt.locale); got != tt.want {
				t.Errorf("ForLocale(%q) = %q, want %q", tt.locale, got, tt.want)
			}
		})
	}
}

func TestCatalogCoversLocales(t *testing.T) {
	for lang, name := range byLanguage {
		if _, ok := Catalog[name]; !ok {
			t.Errorf("locale %s maps to %s, which is not in Catalog", lang, name)
		}
	}
}

func TestRegistry(t *testing.T) {
	name, reg := Registry("ja")
	if name != "NotoSansJP" {
		t.Errorf("Registry name = %q", name)
	}
	if len(reg) != 2 {
		t.Errorf("Registry should hold exactly 2 families, got %d", len(reg))
	}
	if _, ok := reg[Default]; !ok {
		t.Error("Registry must include the default family")
	}

	name, reg = Registry("fr")
	if name != Default || len(reg) != 1 {
		t.Errorf("Registry(fr) = %q, %d families", name, len(reg))
	}
}

func TestFace(t *testing.T) {
	face, err := Face(48)
	if err != nil {
		t.Fatalf("Face() error: %v", err)
	}
	defer face.Close()
	if face.Metrics().Height <= 0 {
		t.Error("face should have positive height")
	}
}
