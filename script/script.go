// Package script runs user macros written in Tengo. Each .tengo file in
// the macros directory defines a run(editor) function and optionally a
// macro_name global; the runner surfaces them as toolbar menu actions
// against a small editor API.
package script

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/d5/tengo/v2"
	"github.com/d5/tengo/v2/stdlib"

	"github.com/milk9111/leveled/logging"
)

const macroDispatchScript = `
if __phase == "run" {
	run(__editor)
}
`

// API is the surface macros script against. Every field is optional; nil
// entries become no-ops.
type API struct {
	SetTool   func(name string)
	AddLayer  func(name string)
	SetTile   func(layer, x, y, value int)
	FillLayer func(layer, value int)
	SelectAll func()
	Log       func(msg string)
}

// Macro is one compiled user script.
type Macro struct {
	Name     string
	Path     string
	compiled *tengo.Compiled
}

// Runner loads and executes the macros in one directory.
type Runner struct {
	dir    string
	macros []Macro
}

func NewRunner(dir string) *Runner {
	r := &Runner{dir: dir}
	r.Reload()
	return r
}

// Macros returns the loaded macros, sorted by name.
func (r *Runner) Macros() []Macro { return r.macros }

// Reload recompiles every .tengo file in the directory. Scripts that fail
// to compile are skipped with a warning; one broken macro must not take
// the menu down.
func (r *Runner) Reload() {
	r.macros = r.macros[:0]
	entries, err := os.ReadDir(r.dir)
	if err != nil {
		if !os.IsNotExist(err) {
			logging.Warnf("script: read macros dir: %v", err)
		}
		return
	}
	for _, e := range entries {
		if e.IsDir() || strings.ToLower(filepath.Ext(e.Name())) != ".tengo" {
			continue
		}
		path := filepath.Join(r.dir, e.Name())
		m, err := compileMacro(path)
		if err != nil {
			logging.Warnf("script: %v", err)
			continue
		}
		r.macros = append(r.macros, m)
	}
	sort.Slice(r.macros, func(i, j int) bool { return r.macros[i].Name < r.macros[j].Name })
}

func compileMacro(path string) (Macro, error) {
	src, err := os.ReadFile(path)
	if err != nil {
		return Macro{}, fmt.Errorf("read macro %s: %w", path, err)
	}

	script := tengo.NewScript(append(src, []byte("\n"+macroDispatchScript)...))
	_ = script.Add("__phase", "")
	_ = script.Add("__editor", map[string]any{})
	script.SetImports(stdlib.GetModuleMap(stdlib.AllModuleNames()...))

	compiled, err := script.Compile()
	if err != nil {
		return Macro{}, fmt.Errorf("compile macro %s: %w", path, err)
	}

	// Probe pass with run() gated off, so the optional macro_name global
	// can be read without executing the macro body.
	probe := compiled.Clone()
	if err := probe.Run(); err != nil {
		return Macro{}, fmt.Errorf("load macro %s: %w", path, err)
	}

	name := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	if probe.IsDefined("macro_name") {
		if s := strings.TrimSpace(probe.Get("macro_name").String()); s != "" {
			name = s
		}
	}
	return Macro{Name: name, Path: path, compiled: compiled}, nil
}

// Run executes the macro against the API.
func (m Macro) Run(api API) error {
	c := m.compiled.Clone()
	if err := c.Set("__phase", "run"); err != nil {
		return fmt.Errorf("macro %s: %w", m.Name, err)
	}
	if err := c.Set("__editor", buildEngine(api)); err != nil {
		return fmt.Errorf("macro %s: %w", m.Name, err)
	}
	if err := c.Run(); err != nil {
		return fmt.Errorf("macro %s: %w", m.Name, err)
	}
	return nil
}

func buildEngine(api API) *tengo.ImmutableMap {
	fns := map[string]tengo.Object{
		"set_tool": callable1Str(func(s string) {
			if api.SetTool != nil {
				api.SetTool(s)
			}
		}),
		"add_layer": callable1Str(func(s string) {
			if api.AddLayer != nil {
				api.AddLayer(s)
			}
		}),
		"log": callable1Str(func(s string) {
			if api.Log != nil {
				api.Log(s)
			}
		}),
		"select_all": &tengo.UserFunction{Name: "select_all", Value: func(args ...tengo.Object) (tengo.Object, error) {
			if api.SelectAll != nil {
				api.SelectAll()
			}
			return tengo.UndefinedValue, nil
		}},
		"set_tile": &tengo.UserFunction{Name: "set_tile", Value: func(args ...tengo.Object) (tengo.Object, error) {
			if len(args) != 4 {
				return nil, tengo.ErrWrongNumArguments
			}
			vals := make([]int, 4)
			for i, a := range args {
				v, ok := tengo.ToInt(a)
				if !ok {
					return nil, tengo.ErrInvalidArgumentType{Name: fmt.Sprintf("arg%d", i), Expected: "int"}
				}
				vals[i] = v
			}
			if api.SetTile != nil {
				api.SetTile(vals[0], vals[1], vals[2], vals[3])
			}
			return tengo.UndefinedValue, nil
		}},
		"fill_layer": &tengo.UserFunction{Name: "fill_layer", Value: func(args ...tengo.Object) (tengo.Object, error) {
			if len(args) != 2 {
				return nil, tengo.ErrWrongNumArguments
			}
			layer, ok := tengo.ToInt(args[0])
			if !ok {
				return nil, tengo.ErrInvalidArgumentType{Name: "layer", Expected: "int"}
			}
			value, ok := tengo.ToInt(args[1])
			if !ok {
				return nil, tengo.ErrInvalidArgumentType{Name: "value", Expected: "int"}
			}
			if api.FillLayer != nil {
				api.FillLayer(layer, value)
			}
			return tengo.UndefinedValue, nil
		}},
	}
	return &tengo.ImmutableMap{Value: fns}
}

func callable1Str(fn func(string)) *tengo.UserFunction {
	return &tengo.UserFunction{Value: func(args ...tengo.Object) (tengo.Object, error) {
		if len(args) != 1 {
			return nil, tengo.ErrWrongNumArguments
		}
		s, ok := tengo.ToString(args[0])
		if !ok {
			return nil, tengo.ErrInvalidArgumentType{Name: "first", Expected: "string"}
		}
		fn(s)
		return tengo.UndefinedValue, nil
	}}
}
