package panel

import (
	"github.com/milk9111/leveled/event"
	"github.com/milk9111/leveled/logging"
	"github.com/milk9111/leveled/menu"
	"github.com/milk9111/leveled/script"
	"github.com/milk9111/leveled/store"
	"github.com/milk9111/leveled/theme"
	"github.com/milk9111/leveled/ui"
)

// Toolbar is the horizontal strip along the top: one button per tool,
// undo/save, and a Macros dropdown backed by the script runner.
type Toolbar struct {
	*Panel
	ed     *Editor
	menus  *menu.Controller
	runner *script.Runner
	dialog *Dialog
}

func NewToolbar(ed *Editor, runner *script.Runner, doc *ui.Document, reg *event.Registry, menus *menu.Controller, dialog *Dialog, th *theme.Theme, st *store.Store) *Toolbar {
	t := &Toolbar{
		Panel:  NewPanel("Toolbar", ui.Rect{X: 0, Y: 0, Width: doc.Width(), Height: 32}, doc, reg, ed.Gestures, th, st),
		ed:     ed,
		menus:  menus,
		runner: runner,
		dialog: dialog,
	}
	// the toolbar has no collapsing title bar; reclaim the row
	t.Title.SetVisible(false)
	t.OnLayout = t.rebuild

	reg.RegisterContainer(t.Root, event.Handlers{
		event.Click: {
			{Selector: "[data-tool]", Fn: t.onTool},
			{Selector: "#toolbar-undo", Fn: func(ev *event.Event, _ *ui.Element) {
				ev.StopPropagation()
				ed.Undo()
			}},
			{Selector: "#toolbar-save", Fn: t.onSave},
			{Selector: "#toolbar-macros", Fn: t.onMacros},
		},
	}, "toolbar")

	ed.OnChange(t.rebuild)
	t.rebuild()
	return t
}

var toolOrder = []Tool{ToolBrush, ToolErase, ToolFill, ToolSelect}

func (t *Toolbar) rebuild() {
	t.Content.RemoveAllChildren()
	b := t.Root.Bounds
	x := b.X + 4
	h := b.Height - 8

	for _, tool := range toolOrder {
		btn := button(tool.String(), ui.Rect{X: x, Y: b.Y + 4, Width: 58, Height: h}, t.th)
		btn.SetData("tool", tool.String())
		if tool == t.ed.CurrentTool {
			btn.Background = theme.Color(t.th.Colors.Accent)
		}
		t.Content.AppendChild(btn)
		x += 62
	}

	x += 12
	undo := button("Undo", ui.Rect{X: x, Y: b.Y + 4, Width: 50, Height: h}, t.th)
	undo.ID = "toolbar-undo"
	undo.Disabled = t.ed.UndoDepth() == 0
	t.Content.AppendChild(undo)
	x += 54

	save := button("Save", ui.Rect{X: x, Y: b.Y + 4, Width: 50, Height: h}, t.th)
	save.ID = "toolbar-save"
	t.Content.AppendChild(save)
	x += 54

	macros := button("Macros", ui.Rect{X: x, Y: b.Y + 4, Width: 64, Height: h}, t.th)
	macros.ID = "toolbar-macros"
	t.Content.AppendChild(macros)

	status := ui.NewElement("label")
	status.ID = "toolbar-status"
	status.Text = t.ed.StatusLine
	status.Foreground = theme.Color(t.th.Colors.TextDisabled)
	status.Bounds = ui.Rect{X: x + 76, Y: b.Y + 4, Width: b.Width - x - 80, Height: h}
	t.Content.AppendChild(status)
}

// SetStatus updates the status line without a full rebuild.
func (t *Toolbar) SetStatus(msg string) {
	if el := t.Content.FindByID("toolbar-status"); el != nil {
		el.Text = msg
	}
}

func (t *Toolbar) onTool(ev *event.Event, matched *ui.Element) {
	ev.StopPropagation()
	for _, tool := range toolOrder {
		if tool.String() == matched.Data("tool") {
			t.ed.SetTool(tool)
			return
		}
	}
}

func (t *Toolbar) onSave(ev *event.Event, _ *ui.Element) {
	ev.StopPropagation()
	t.dialog.Prompt("Save as", t.ed.Filename, func(text string) {
		if text != "" {
			t.ed.Filename = text
		}
		if err := t.ed.Save(); err != nil {
			logging.Errorf("save: %v", err)
			t.ed.Status("save failed")
		}
		t.ed.Changed()
	})
}

// onMacros opens the macro list as a dropdown anchored to the button.
func (t *Toolbar) onMacros(ev *event.Event, matched *ui.Element) {
	ev.StopPropagation()
	macros := t.runner.Macros()
	items := make([]menu.Item, 0, len(macros)+2)
	for _, m := range macros {
		m := m
		items = append(items, menu.Item{Label: m.Name, Action: func(menu.Context) {
			if err := m.Run(t.api()); err != nil {
				logging.Errorf("script: %v", err)
				t.ed.Status("macro failed: " + m.Name)
			}
			t.ed.Changed()
		}})
	}
	if len(items) > 0 {
		items = append(items, menu.Item{Separator: true})
	}
	items = append(items, menu.Item{Label: "Reload Macros", Action: func(menu.Context) {
		t.runner.Reload()
	}})
	t.menus.ShowDropdown(matched, items, menu.Context{Target: matched})
}

// api is the editor surface handed to macros.
func (t *Toolbar) api() script.API {
	ed := t.ed
	return script.API{
		SetTool: func(name string) {
			for _, tool := range toolOrder {
				if tool.String() == name {
					ed.SetTool(tool)
					return
				}
			}
		},
		AddLayer: func(name string) {
			ed.PushUndo()
			ed.CurrentLayer = ed.Level.AddLayer(name)
		},
		SetTile: func(layer, x, y, value int) {
			ed.Level.SetTile(layer, x, y, value)
		},
		FillLayer: func(layer, value int) {
			if layer < 0 || layer >= len(ed.Level.Layers) {
				return
			}
			ed.PushUndo()
			tiles := ed.Level.Layers[layer].Tiles
			for i := range tiles {
				tiles[i] = value
			}
		},
		SelectAll: func() { ed.SelectAll() },
		Log:       func(msg string) { ed.Status(msg) },
	}
}
