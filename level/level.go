// Package level is the thin level model the editor front-end edits:
// named tile layers, placed entities, and YAML load/save.
package level

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

type Level struct {
	Name     string   `yaml:"name"`
	Width    int      `yaml:"width"`
	Height   int      `yaml:"height"`
	TileSize int      `yaml:"tile_size"`
	Layers   []Layer  `yaml:"layers"`
	Entities []Entity `yaml:"entities,omitempty"`
}

type Layer struct {
	Name    string `yaml:"name"`
	Visible bool   `yaml:"visible"`
	Physics bool   `yaml:"physics"`
	Color   string `yaml:"color,omitempty"`
	Tiles   []int  `yaml:"tiles,flow"`
}

type Entity struct {
	Name  string            `yaml:"name"`
	Kind  string            `yaml:"kind"`
	X     float64           `yaml:"x"`
	Y     float64           `yaml:"y"`
	Props map[string]string `yaml:"props,omitempty"`
}

// New returns a level with one empty visible layer.
func New(name string, width, height, tileSize int) *Level {
	return &Level{
		Name:     name,
		Width:    width,
		Height:   height,
		TileSize: tileSize,
		Layers: []Layer{{
			Name:    "Layer 1",
			Visible: true,
			Tiles:   make([]int, width*height),
		}},
	}
}

// AddLayer appends an empty visible layer and returns its index.
func (l *Level) AddLayer(name string) int {
	l.Layers = append(l.Layers, Layer{
		Name:    name,
		Visible: true,
		Tiles:   make([]int, l.Width*l.Height),
	})
	return len(l.Layers) - 1
}

// RemoveLayer deletes the layer at index; the last layer cannot be removed.
func (l *Level) RemoveLayer(index int) bool {
	if index < 0 || index >= len(l.Layers) || len(l.Layers) == 1 {
		return false
	}
	l.Layers = append(l.Layers[:index], l.Layers[index+1:]...)
	return true
}

// Tile returns the value at (x, y) on the layer, or 0 out of range.
func (l *Level) Tile(layer, x, y int) int {
	if layer < 0 || layer >= len(l.Layers) || x < 0 || x >= l.Width || y < 0 || y >= l.Height {
		return 0
	}
	return l.Layers[layer].Tiles[y*l.Width+x]
}

// SetTile writes the value at (x, y) on the layer; out of range is a no-op.
func (l *Level) SetTile(layer, x, y, value int) {
	if layer < 0 || layer >= len(l.Layers) || x < 0 || x >= l.Width || y < 0 || y >= l.Height {
		return
	}
	l.Layers[layer].Tiles[y*l.Width+x] = value
}

// Clone deep-copies the level for undo snapshots.
func (l *Level) Clone() *Level {
	c := *l
	c.Layers = make([]Layer, len(l.Layers))
	for i, layer := range l.Layers {
		c.Layers[i] = layer
		c.Layers[i].Tiles = make([]int, len(layer.Tiles))
		copy(c.Layers[i].Tiles, layer.Tiles)
	}
	c.Entities = make([]Entity, len(l.Entities))
	for i, e := range l.Entities {
		c.Entities[i] = e
		if e.Props != nil {
			c.Entities[i].Props = make(map[string]string, len(e.Props))
			for k, v := range e.Props {
				c.Entities[i].Props[k] = v
			}
		}
	}
	return &c
}

// Load reads a level from a YAML file and repairs missing layers so the
// editor never opens a level it cannot edit.
func Load(path string) (*Level, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read level: %w", err)
	}
	var lvl Level
	if err := yaml.Unmarshal(data, &lvl); err != nil {
		return nil, fmt.Errorf("unmarshal level: %w", err)
	}
	if lvl.TileSize <= 0 {
		lvl.TileSize = 16
	}
	if len(lvl.Layers) == 0 {
		lvl.Layers = []Layer{{Name: "Layer 1", Visible: true, Tiles: make([]int, lvl.Width*lvl.Height)}}
	}
	for i := range lvl.Layers {
		if len(lvl.Layers[i].Tiles) != lvl.Width*lvl.Height {
			tiles := make([]int, lvl.Width*lvl.Height)
			copy(tiles, lvl.Layers[i].Tiles)
			lvl.Layers[i].Tiles = tiles
		}
	}
	return &lvl, nil
}

// Save writes the level as YAML, creating the directory when needed.
func (l *Level) Save(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("create level dir: %w", err)
	}
	data, err := yaml.Marshal(l)
	if err != nil {
		return fmt.Errorf("marshal level: %w", err)
	}
	return os.WriteFile(path, data, 0644)
}
