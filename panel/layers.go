package panel

import (
	"fmt"
	"strconv"

	"github.com/milk9111/leveled/event"
	"github.com/milk9111/leveled/menu"
	"github.com/milk9111/leveled/store"
	"github.com/milk9111/leveled/theme"
	"github.com/milk9111/leveled/ui"
)

// Layers lists the level's layers: click selects, the eye cell toggles
// visibility, double-click renames, and the context menu carries the
// rest (rename, delete, physics toggle, add).
type Layers struct {
	*Panel
	ed     *Editor
	menus  *menu.Controller
	dialog *Dialog
	def    *menu.Definition
}

func NewLayers(ed *Editor, doc *ui.Document, reg *event.Registry, menus *menu.Controller, dialog *Dialog, th *theme.Theme, st *store.Store) *Layers {
	l := &Layers{
		Panel:  NewPanel("Layers", ui.Rect{X: 8, Y: 40, Width: 200, Height: 220}, doc, reg, ed.Gestures, th, st),
		ed:     ed,
		menus:  menus,
		dialog: dialog,
	}
	l.OnLayout = l.rebuild
	l.def = &menu.Definition{
		ID:             "layers",
		BuildItems:     l.buildMenu,
		ExtractContext: menu.ExtractDataset,
	}

	reg.RegisterContainer(l.Content, event.Handlers{
		event.Click: {
			{Selector: "[data-layer-eye]", Fn: l.onToggleVisible},
			{Selector: "[data-layer-index]", Fn: l.onSelect},
		},
		event.DoubleClick: {
			{Selector: "[data-layer-index]", Fn: l.onRename},
		},
		event.ContextMenu: {
			{Selector: "[data-layer-index]", Fn: l.onContextMenu},
			{Fn: l.onContextMenu},
		},
	}, "layers")

	ed.OnChange(l.rebuild)
	l.rebuild()
	return l
}

func (l *Layers) rebuild() {
	l.Content.RemoveAllChildren()
	b := l.ContentBounds()
	rowH := l.th.MenuItemH
	for i, layer := range l.ed.Level.Layers {
		row := ui.NewElement("row")
		row.SetData("layer-index", strconv.Itoa(i))
		row.Bounds = ui.Rect{X: b.X, Y: b.Y + float64(i)*rowH, Width: b.Width, Height: rowH}
		if i == l.ed.CurrentLayer {
			row.HasBg = true
			row.Background = theme.Color(l.th.Colors.Accent)
		}

		eye := ui.NewElement("cell")
		eye.SetData("layer-eye", strconv.Itoa(i))
		eye.SetData("layer-index", strconv.Itoa(i))
		eye.Text = "o"
		if !layer.Visible {
			eye.Text = "-"
		}
		eye.Foreground = theme.Color(l.th.Colors.Text)
		eye.Bounds = ui.Rect{X: row.Bounds.X, Y: row.Bounds.Y, Width: 20, Height: rowH}
		row.AppendChild(eye)

		name := ui.NewElement("cell")
		name.SetData("layer-index", strconv.Itoa(i))
		name.Text = layer.Name
		if layer.Physics {
			name.Text += " [P]"
		}
		name.Foreground = theme.Color(l.th.Colors.Text)
		name.Bounds = ui.Rect{X: row.Bounds.X + 20, Y: row.Bounds.Y, Width: row.Bounds.Width - 20, Height: rowH}
		row.AppendChild(name)

		l.Content.AppendChild(row)
	}
}

func layerIndex(el *ui.Element) (int, bool) {
	i, err := strconv.Atoi(el.Data("layer-index"))
	return i, err == nil
}

func (l *Layers) onSelect(ev *event.Event, matched *ui.Element) {
	ev.StopPropagation()
	if i, ok := layerIndex(matched); ok {
		l.ed.CurrentLayer = i
		l.ed.Changed()
	}
}

func (l *Layers) onToggleVisible(ev *event.Event, matched *ui.Element) {
	ev.StopPropagation()
	i, err := strconv.Atoi(matched.Data("layer-eye"))
	if err != nil || i >= len(l.ed.Level.Layers) {
		return
	}
	l.ed.Level.Layers[i].Visible = !l.ed.Level.Layers[i].Visible
	l.ed.Changed()
}

func (l *Layers) onRename(ev *event.Event, matched *ui.Element) {
	ev.StopPropagation()
	if i, ok := layerIndex(matched); ok {
		l.promptRename(i)
	}
}

func (l *Layers) promptRename(index int) {
	if index < 0 || index >= len(l.ed.Level.Layers) {
		return
	}
	l.dialog.Prompt("Rename layer", l.ed.Level.Layers[index].Name, func(text string) {
		if text == "" || index >= len(l.ed.Level.Layers) {
			return
		}
		l.ed.PushUndo()
		l.ed.Level.Layers[index].Name = text
		l.ed.Changed()
	})
}

func (l *Layers) onContextMenu(ev *event.Event, matched *ui.Element) {
	ev.StopPropagation()
	owner := l.Root.Bounds
	l.menus.ShowFor(l.def, ev, matched, &owner)
}

// buildMenu assembles the context-menu items for either a layer row or
// the panel background (no layer-index in the context data).
func (l *Layers) buildMenu(ctx menu.Context) []menu.Item {
	onRow := func(menu.Context) bool { _, ok := ctx.Data["layer-index"]; return ok }
	index := -1
	if s, ok := ctx.Data["layer-index"]; ok {
		index, _ = strconv.Atoi(s)
	}
	return []menu.Item{
		{Label: "Add Layer", Action: func(menu.Context) {
			l.ed.PushUndo()
			i := l.ed.Level.AddLayer(fmt.Sprintf("Layer %d", len(l.ed.Level.Layers)+1))
			l.ed.CurrentLayer = i
			l.ed.Changed()
		}},
		{Separator: true},
		{Label: "Rename", Visible: onRow, Action: func(menu.Context) {
			l.promptRename(index)
		}},
		{Label: "Toggle Physics", Visible: onRow, Action: func(menu.Context) {
			if index >= 0 && index < len(l.ed.Level.Layers) {
				l.ed.PushUndo()
				l.ed.Level.Layers[index].Physics = !l.ed.Level.Layers[index].Physics
				l.ed.Changed()
			}
		}},
		{Label: "Delete", Visible: onRow,
			Enabled: func(menu.Context) bool { return len(l.ed.Level.Layers) > 1 },
			Action: func(menu.Context) {
				l.dialog.Confirm("Delete layer?", func() {
					l.ed.PushUndo()
					if l.ed.Level.RemoveLayer(index) {
						if l.ed.CurrentLayer >= len(l.ed.Level.Layers) {
							l.ed.CurrentLayer = len(l.ed.Level.Layers) - 1
						}
						l.ed.Changed()
					}
				})
			}},
	}
}
