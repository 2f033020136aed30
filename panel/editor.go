// Package panel builds the editor's UI surfaces on top of the element
// tree and the delegation registry: toolbar, layers, outliner, asset
// browser, canvas, and the modal dialogs. Panels register declarative
// handler maps; none of them attach per-element listeners.
package panel

import (
	"fmt"
	"sync"

	"golang.design/x/clipboard"
	"gopkg.in/yaml.v3"

	"github.com/milk9111/leveled/gesture"
	"github.com/milk9111/leveled/level"
	"github.com/milk9111/leveled/logging"
)

// Tool enumerates the canvas tools.
type Tool int

const (
	ToolBrush Tool = iota
	ToolErase
	ToolFill
	ToolSelect
)

func (t Tool) String() string {
	switch t {
	case ToolBrush:
		return "Brush"
	case ToolErase:
		return "Erase"
	case ToolFill:
		return "Fill"
	case ToolSelect:
		return "Select"
	default:
		return "Unknown"
	}
}

const maxUndo = 100

// Editor is the shared editing state every panel reads and mutates:
// the level, the active layer and tool, entity selection, and the undo
// stack. It has no UI of its own.
type Editor struct {
	Level        *level.Level
	Filename     string
	CurrentLayer int
	CurrentTool  Tool
	Selected     map[int]struct{} // entity indices
	Gestures     *gesture.State
	StatusLine   string

	undoStack []*level.Level
	dirty     bool

	// onChange listeners re-render panel content subtrees.
	onChange []func()
}

func NewEditor(lvl *level.Level, gestures *gesture.State) *Editor {
	return &Editor{
		Level:    lvl,
		Selected: make(map[int]struct{}),
		Gestures: gestures,
	}
}

// OnChange registers a re-render hook; Changed invokes every hook.
func (e *Editor) OnChange(fn func()) {
	e.onChange = append(e.onChange, fn)
}

func (e *Editor) Changed() {
	e.dirty = true
	for _, fn := range e.onChange {
		fn()
	}
}

func (e *Editor) Dirty() bool { return e.dirty }

// PushUndo snapshots the level before a mutation. Oldest snapshots fall
// off past the cap.
func (e *Editor) PushUndo() {
	e.undoStack = append(e.undoStack, e.Level.Clone())
	if len(e.undoStack) > maxUndo {
		e.undoStack = e.undoStack[1:]
	}
}

// Undo restores the most recent snapshot, if any.
func (e *Editor) Undo() {
	n := len(e.undoStack)
	if n == 0 {
		return
	}
	e.Level = e.undoStack[n-1]
	e.undoStack = e.undoStack[:n-1]
	if e.CurrentLayer >= len(e.Level.Layers) {
		e.CurrentLayer = len(e.Level.Layers) - 1
	}
	e.ClearSelection()
	e.Changed()
}

func (e *Editor) UndoDepth() int { return len(e.undoStack) }

func (e *Editor) SetTool(t Tool) {
	e.CurrentTool = t
	e.Status(fmt.Sprintf("tool: %s", t))
	e.Changed()
}

func (e *Editor) Status(msg string) {
	e.StatusLine = msg
}

// SelectEntity adds an entity to the selection; additive controls whether
// the existing selection is kept.
func (e *Editor) SelectEntity(index int, additive bool) {
	if !additive {
		e.ClearSelection()
	}
	if index >= 0 && index < len(e.Level.Entities) {
		e.Selected[index] = struct{}{}
	}
	e.Changed()
}

func (e *Editor) ClearSelection() {
	for k := range e.Selected {
		delete(e.Selected, k)
	}
}

// SelectAll selects every entity.
func (e *Editor) SelectAll() {
	for i := range e.Level.Entities {
		e.Selected[i] = struct{}{}
	}
	e.Changed()
}

// DeleteSelected removes the selected entities, highest index first.
func (e *Editor) DeleteSelected() {
	if len(e.Selected) == 0 {
		return
	}
	e.PushUndo()
	kept := e.Level.Entities[:0]
	for i, ent := range e.Level.Entities {
		if _, ok := e.Selected[i]; !ok {
			kept = append(kept, ent)
		}
	}
	e.Level.Entities = kept
	e.ClearSelection()
	e.Changed()
}

// Save writes the level to its filename, defaulting under levels/.
func (e *Editor) Save() error {
	if e.Filename == "" {
		e.Filename = fmt.Sprintf("levels/%s.yaml", e.Level.Name)
	}
	if err := e.Level.Save(e.Filename); err != nil {
		return err
	}
	e.dirty = false
	e.Status(fmt.Sprintf("saved %s", e.Filename))
	return nil
}

// Load replaces the level from a file; the undo stack is discarded.
func (e *Editor) Load(path string) error {
	lvl, err := level.Load(path)
	if err != nil {
		return err
	}
	e.Level = lvl
	e.Filename = path
	e.CurrentLayer = 0
	e.undoStack = nil
	e.ClearSelection()
	e.dirty = false
	e.Status(fmt.Sprintf("loaded %s", path))
	e.Changed()
	return nil
}

var (
	clipboardOnce sync.Once
	clipboardOK   bool
)

// CopyText puts s on the system clipboard. Clipboard access can fail on
// headless hosts; that degrades to a logged warning.
func CopyText(s string) {
	clipboardOnce.Do(func() {
		if err := clipboard.Init(); err != nil {
			logging.Warnf("clipboard unavailable: %v", err)
			return
		}
		clipboardOK = true
	})
	if !clipboardOK {
		return
	}
	clipboard.Write(clipboard.FmtText, []byte(s))
}

// EntityYAML renders one entity as YAML for clipboard copy.
func EntityYAML(ent level.Entity) string {
	data, err := yaml.Marshal(ent)
	if err != nil {
		logging.Warnf("marshal entity: %v", err)
		return ""
	}
	return string(data)
}
