// Package asset lists and watches the editor's asset directory. Images
// are decoded to stdlib image.Image so the package stays usable headless;
// the renderer uploads them lazily.
package asset

import (
	"image"
	"image/png"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/milk9111/leveled/logging"
)

type Asset struct {
	Name string
	Path string
	Img  image.Image
	W, H int
}

// List scans dir for PNG assets, sorted by name. Files that fail to
// decode are listed without a thumbnail so a broken asset still shows up
// in the browser.
func List(dir string) ([]Asset, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, err
	}
	assets := make([]Asset, 0, len(entries))
	for _, e := range entries {
		if e.IsDir() || !isImageFile(e.Name()) {
			continue
		}
		path := filepath.Join(dir, e.Name())
		a := Asset{Name: e.Name(), Path: path}
		if f, err := os.Open(path); err == nil {
			if img, err := png.Decode(f); err == nil {
				a.Img = img
				a.W = img.Bounds().Dx()
				a.H = img.Bounds().Dy()
			} else {
				logging.Warnf("asset: decode %s: %v", path, err)
			}
			f.Close()
		}
		assets = append(assets, a)
	}
	sort.Slice(assets, func(i, j int) bool { return assets[i].Name < assets[j].Name })
	return assets, nil
}

func isImageFile(name string) bool {
	return strings.ToLower(filepath.Ext(name)) == ".png"
}
