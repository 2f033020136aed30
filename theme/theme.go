// Package theme loads UI variables (colors, spacing, popup metrics,
// animation durations) from an optional theme.toml. A missing or broken
// file falls back to the built-in dark defaults so the editor always has
// a usable look.
package theme

import (
	"fmt"
	"image/color"
	"os"
	"strconv"

	"github.com/pelletier/go-toml/v2"

	"github.com/milk9111/leveled/logging"
)

// Theme is the decoded file. Colors are hex strings in the file and
// parsed RGBA at runtime.
type Theme struct {
	Colors     Colors  `toml:"colors"`
	FontSize   float64 `toml:"font_size"`
	Spacing    float64 `toml:"spacing"`
	Scale      float64 `toml:"scale"`
	TitleBarH  float64 `toml:"title_bar_height"`
	MenuItemH  float64 `toml:"menu_item_height"`
	MenuMinW   float64 `toml:"menu_min_width"`
	SeparatorH float64 `toml:"separator_height"`

	// Popup behavior: margin kept from screen edges, open/close tween
	// durations in seconds, and the cursor-monitor cutoff.
	PopupMargin   float64 `toml:"popup_margin"`
	OpenDuration  float64 `toml:"open_duration"`
	CloseDuration float64 `toml:"close_duration"`
	MonitorCutoff float64 `toml:"monitor_cutoff"`
}

type Colors struct {
	Background   string `toml:"background"`
	Panel        string `toml:"panel"`
	PanelTitle   string `toml:"panel_title"`
	Border       string `toml:"border"`
	Text         string `toml:"text"`
	TextDisabled string `toml:"text_disabled"`
	Accent       string `toml:"accent"`
	Menu         string `toml:"menu"`
	MenuHover    string `toml:"menu_hover"`
	Separator    string `toml:"separator"`
	Marquee      string `toml:"marquee"`
	Grid         string `toml:"grid"`
}

// Default returns the built-in dark theme.
func Default() *Theme {
	return &Theme{
		Colors: Colors{
			Background:   "#1e1e1e",
			Panel:        "#282828",
			PanelTitle:   "#333333",
			Border:       "#3c3c3c",
			Text:         "#e6e6e6",
			TextDisabled: "#787878",
			Accent:       "#3c78ff",
			Menu:         "#2d2d30",
			MenuHover:    "#3e3e42",
			Separator:    "#505050",
			Marquee:      "#3c78ff",
			Grid:         "#2a2a2a",
		},
		FontSize:      13,
		Spacing:       6,
		Scale:         1,
		TitleBarH:     22,
		MenuItemH:     24,
		MenuMinW:      120,
		SeparatorH:    7,
		PopupMargin:   20,
		OpenDuration:  0.15,
		CloseDuration: 0.15,
		MonitorCutoff: 0.2,
	}
}

// Load reads path over the defaults. A missing file is not an error;
// unknown keys and parse failures log a warning and keep the defaults.
func Load(path string) *Theme {
	t := Default()
	if path == "" {
		return t
	}
	data, err := os.ReadFile(path)
	if err != nil {
		if !os.IsNotExist(err) {
			logging.Warnf("theme: read %s: %v", path, err)
		}
		return t
	}
	if err := toml.Unmarshal(data, t); err != nil {
		logging.Warnf("theme: parse %s: %v, using defaults", path, err)
		return Default()
	}
	t.fillZero()
	return t
}

// fillZero restores defaults for fields the file left unset, so a theme
// that only overrides colors keeps sane metrics.
func (t *Theme) fillZero() {
	d := Default()
	if t.FontSize <= 0 {
		t.FontSize = d.FontSize
	}
	if t.Spacing <= 0 {
		t.Spacing = d.Spacing
	}
	if t.Scale <= 0 {
		t.Scale = d.Scale
	}
	if t.TitleBarH <= 0 {
		t.TitleBarH = d.TitleBarH
	}
	if t.MenuItemH <= 0 {
		t.MenuItemH = d.MenuItemH
	}
	if t.MenuMinW <= 0 {
		t.MenuMinW = d.MenuMinW
	}
	if t.SeparatorH <= 0 {
		t.SeparatorH = d.SeparatorH
	}
	if t.PopupMargin <= 0 {
		t.PopupMargin = d.PopupMargin
	}
	if t.OpenDuration <= 0 {
		t.OpenDuration = d.OpenDuration
	}
	if t.CloseDuration <= 0 {
		t.CloseDuration = d.CloseDuration
	}
	if t.MonitorCutoff <= 0 {
		t.MonitorCutoff = d.MonitorCutoff
	}
}

// Color parses a #rgb or #rrggbb hex string, falling back to magenta on
// malformed input so a theme typo is visible instead of invisible.
func Color(hex string) color.RGBA {
	c, err := parseHexColor(hex)
	if err != nil {
		logging.Warnf("theme: %v", err)
		return color.RGBA{255, 0, 255, 255}
	}
	return c
}

func parseHexColor(s string) (color.RGBA, error) {
	if len(s) == 0 || s[0] != '#' {
		return color.RGBA{}, fmt.Errorf("bad hex color %q", s)
	}
	hex := s[1:]
	if len(hex) == 3 {
		hex = string([]byte{hex[0], hex[0], hex[1], hex[1], hex[2], hex[2]})
	}
	if len(hex) != 6 {
		return color.RGBA{}, fmt.Errorf("bad hex color %q", s)
	}
	v, err := strconv.ParseUint(hex, 16, 32)
	if err != nil {
		return color.RGBA{}, fmt.Errorf("bad hex color %q", s)
	}
	return color.RGBA{R: uint8(v >> 16), G: uint8(v >> 8), B: uint8(v), A: 255}, nil
}
