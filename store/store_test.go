package store

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/milk9111/leveled/ui"
)

func TestRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "settings.json")

	s := Open(path)
	s.SetRect("panel.layers.bounds", ui.Rect{X: 8, Y: 40, Width: 200, Height: 220})
	s.SetString("last_level", "levels/a.yaml")
	if err := s.Save(); err != nil {
		t.Fatalf("save: %v", err)
	}

	s2 := Open(path)
	r, ok := s2.GetRect("panel.layers.bounds")
	if !ok || r.Width != 200 || r.Height != 220 {
		t.Fatalf("rect lost in round trip: %+v ok=%v", r, ok)
	}
	if v, ok := s2.GetString("last_level"); !ok || v != "levels/a.yaml" {
		t.Fatalf("string lost in round trip: %q ok=%v", v, ok)
	}
	if _, ok := s2.GetString("missing"); ok {
		t.Fatalf("missing key must report absent")
	}
}

func TestCorruptFileStartsEmpty(t *testing.T) {
	path := filepath.Join(t.TempDir(), "settings.json")
	if err := os.WriteFile(path, []byte("{not json"), 0644); err != nil {
		t.Fatalf("write: %v", err)
	}

	s := Open(path)
	if _, ok := s.GetString("anything"); ok {
		t.Fatalf("corrupt store must start empty")
	}
	s.SetString("k", "v")
	if err := s.Save(); err != nil {
		t.Fatalf("save over corrupt file: %v", err)
	}
}

func TestDelete(t *testing.T) {
	s := Open(filepath.Join(t.TempDir(), "s.json"))
	s.SetString("k", "v")
	s.Delete("k")
	if _, ok := s.GetString("k"); ok {
		t.Fatalf("deleted key must be absent")
	}
}
