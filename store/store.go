// Package store is the JSON file-backed key/value settings store: panel
// bounds, the last opened level, the theme name. It stands in for the
// browser local storage a web editor would use.
package store

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/milk9111/leveled/logging"
	"github.com/milk9111/leveled/ui"
)

type Store struct {
	path   string
	values map[string]json.RawMessage
}

// Open loads the store at path. A missing file yields an empty store; a
// corrupt one is logged and replaced on the next Save.
func Open(path string) *Store {
	s := &Store{path: path, values: make(map[string]json.RawMessage)}
	data, err := os.ReadFile(path)
	if err != nil {
		if !os.IsNotExist(err) {
			logging.Warnf("store: read %s: %v", path, err)
		}
		return s
	}
	if err := json.Unmarshal(data, &s.values); err != nil {
		logging.Warnf("store: parse %s: %v, starting empty", path, err)
		s.values = make(map[string]json.RawMessage)
	}
	return s
}

// Set marshals value under key. Marshal failures are logged, not returned;
// settings are a best-effort convenience.
func (s *Store) Set(key string, value any) {
	data, err := json.Marshal(value)
	if err != nil {
		logging.Warnf("store: set %s: %v", key, err)
		return
	}
	s.values[key] = data
}

// Get unmarshals key into out, reporting whether the key existed and
// decoded.
func (s *Store) Get(key string, out any) bool {
	data, ok := s.values[key]
	if !ok {
		return false
	}
	if err := json.Unmarshal(data, out); err != nil {
		logging.Warnf("store: get %s: %v", key, err)
		return false
	}
	return true
}

func (s *Store) Delete(key string) {
	delete(s.values, key)
}

// SetRect / GetRect persist panel bounds.
func (s *Store) SetRect(key string, r ui.Rect) { s.Set(key, r) }

func (s *Store) GetRect(key string) (ui.Rect, bool) {
	var r ui.Rect
	ok := s.Get(key, &r)
	return r, ok
}

func (s *Store) SetString(key, value string) { s.Set(key, value) }

func (s *Store) GetString(key string) (string, bool) {
	var v string
	ok := s.Get(key, &v)
	return v, ok
}

// Save writes the store back to disk.
func (s *Store) Save() error {
	if err := os.MkdirAll(filepath.Dir(s.path), 0755); err != nil {
		return fmt.Errorf("create store dir: %w", err)
	}
	data, err := json.MarshalIndent(s.values, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal store: %w", err)
	}
	return os.WriteFile(s.path, data, 0644)
}
