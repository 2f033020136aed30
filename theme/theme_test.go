package theme

import (
	"image/color"
	"os"
	"path/filepath"
	"testing"
)

func TestLoadMissingFileUsesDefaults(t *testing.T) {
	th := Load(filepath.Join(t.TempDir(), "nope.toml"))
	d := Default()
	if th.PopupMargin != d.PopupMargin || th.MenuItemH != d.MenuItemH {
		t.Fatalf("expected defaults for a missing file, got %+v", th)
	}
}

func TestLoadPartialFileKeepsDefaultMetrics(t *testing.T) {
	path := filepath.Join(t.TempDir(), "theme.toml")
	content := "popup_margin = 32\n\n[colors]\naccent = \"#ff8800\"\n"
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("write: %v", err)
	}

	th := Load(path)
	if th.PopupMargin != 32 {
		t.Fatalf("expected overridden margin, got %v", th.PopupMargin)
	}
	if th.Colors.Accent != "#ff8800" {
		t.Fatalf("expected overridden accent, got %v", th.Colors.Accent)
	}
	if th.MenuItemH != Default().MenuItemH {
		t.Fatalf("unset metric should keep its default, got %v", th.MenuItemH)
	}
	if th.Colors.Panel != Default().Colors.Panel {
		t.Fatalf("unset color should keep its default, got %v", th.Colors.Panel)
	}
}

func TestLoadBrokenFileFallsBack(t *testing.T) {
	path := filepath.Join(t.TempDir(), "theme.toml")
	if err := os.WriteFile(path, []byte("not = = toml"), 0644); err != nil {
		t.Fatalf("write: %v", err)
	}
	th := Load(path)
	if th.PopupMargin != Default().PopupMargin {
		t.Fatalf("broken file must fall back to defaults")
	}
}

func TestColorParsing(t *testing.T) {
	cases := []struct {
		hex  string
		want color.RGBA
	}{
		{"#ff8800", color.RGBA{255, 136, 0, 255}},
		{"#fff", color.RGBA{255, 255, 255, 255}},
		{"#000000", color.RGBA{0, 0, 0, 255}},
		{"garbage", color.RGBA{255, 0, 255, 255}}, // magenta fallback
		{"", color.RGBA{255, 0, 255, 255}},
	}
	for _, c := range cases {
		if got := Color(c.hex); got != c.want {
			t.Fatalf("Color(%q): expected %v, got %v", c.hex, c.want, got)
		}
	}
}
