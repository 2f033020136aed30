package asset

import (
	"image"
	"image/png"
	"os"
	"path/filepath"
	"testing"
)

func writePNG(t *testing.T, path string, w, h int) {
	t.Helper()
	f, err := os.Create(path)
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	defer f.Close()
	if err := png.Encode(f, image.NewRGBA(image.Rect(0, 0, w, h))); err != nil {
		t.Fatalf("encode: %v", err)
	}
}

func TestListSortsAndDecodes(t *testing.T) {
	dir := t.TempDir()
	writePNG(t, filepath.Join(dir, "b.png"), 8, 4)
	writePNG(t, filepath.Join(dir, "a.png"), 2, 2)
	if err := os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("x"), 0644); err != nil {
		t.Fatalf("write: %v", err)
	}

	assets, err := List(dir)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(assets) != 2 {
		t.Fatalf("expected 2 assets, got %d", len(assets))
	}
	if assets[0].Name != "a.png" || assets[1].Name != "b.png" {
		t.Fatalf("expected name-sorted assets, got %v %v", assets[0].Name, assets[1].Name)
	}
	if assets[1].W != 8 || assets[1].H != 4 {
		t.Fatalf("expected decoded dimensions, got %dx%d", assets[1].W, assets[1].H)
	}
}

func TestListKeepsUndecodableFiles(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "bad.png"), []byte("not a png"), 0644); err != nil {
		t.Fatalf("write: %v", err)
	}

	assets, err := List(dir)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(assets) != 1 || assets[0].Img != nil {
		t.Fatalf("broken asset should be listed without a thumbnail: %+v", assets)
	}
}
