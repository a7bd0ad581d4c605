package print

import (
	"image/color"
	"testing"
)

func TestFillColor(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"", "#FFFFFF"},
		{"#d9d9d9", "#FFFFFF"},
		{"#D9D9D9", "#FFFFFF"},
		{"#abc", "#abc"},
		{"#ff00aa", "#ff00aa"},
		{"rgb(255, 0, 128)", "#ff0080"},
		{"rgb(1,2,3)", "#010203"},
		{"rgba(0, 0, 0, 0.5)", "#000000"},
		{"red", "red"},
		{"rgb(300, 0, 0)", "rgb(300, 0, 0)"},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			if got := FillColor(tt.in); got != tt.want {
				t.Errorf("FillColor(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestParseColor(t *testing.T) {
	tests := []struct {
		in   string
		want color.NRGBA
		ok   bool
	}{
		{"#fff", color.NRGBA{255, 255, 255, 255}, true},
		{"#102030", color.NRGBA{0x10, 0x20, 0x30, 255}, true},
		{"#10203080", color.NRGBA{0x10, 0x20, 0x30, 0x80}, true},
		{"rgba(10, 20, 30, 1)", color.NRGBA{10, 20, 30, 255}, true},
		{"RGB(10, 20, 30)", color.NRGBA{10, 20, 30, 255}, true},
		{"White", color.NRGBA{255, 255, 255, 255}, true},
		{"#12", color.NRGBA{}, false},
		{"#gggggg", color.NRGBA{}, false},
		{"rgb(1, 2)", color.NRGBA{}, false},
		{"", color.NRGBA{}, false},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, ok := ParseColor(tt.in)
			if ok != tt.ok || got != tt.want {
				t.Errorf("ParseColor(%q) = %v, %v; want %v, %v", tt.in, got, ok, tt.want, tt.ok)
			}
		})
	}
}
