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

// Outliner lists the level's entities. Click selects (ctrl-free additive
// selection is the canvas's job; here click replaces), and the context
// menu offers copy-as-YAML, duplicate and delete.
type Outliner struct {
	*Panel
	ed     *Editor
	menus  *menu.Controller
	dialog *Dialog
	def    *menu.Definition
}

func NewOutliner(ed *Editor, doc *ui.Document, reg *event.Registry, menus *menu.Controller, dialog *Dialog, th *theme.Theme, st *store.Store) *Outliner {
	o := &Outliner{
		Panel:  NewPanel("Outliner", ui.Rect{X: 8, Y: 268, Width: 200, Height: 220}, doc, reg, ed.Gestures, th, st),
		ed:     ed,
		menus:  menus,
		dialog: dialog,
	}
	o.OnLayout = o.rebuild
	o.def = &menu.Definition{
		ID:             "outliner",
		BuildItems:     o.buildMenu,
		ExtractContext: menu.ExtractDataset,
	}

	reg.RegisterContainer(o.Content, event.Handlers{
		event.Click: {
			{Selector: "[data-entity-index]", Fn: o.onSelect},
		},
		event.ContextMenu: {
			{Selector: "[data-entity-index]", Fn: o.onContextMenu},
			{Fn: o.onContextMenu},
		},
	}, "outliner")

	ed.OnChange(o.rebuild)
	o.rebuild()
	return o
}

func (o *Outliner) rebuild() {
	o.Content.RemoveAllChildren()
	b := o.ContentBounds()
	rowH := o.th.MenuItemH
	for i, ent := range o.ed.Level.Entities {
		row := ui.NewElement("row")
		row.SetData("entity-index", strconv.Itoa(i))
		row.Text = fmt.Sprintf("%s (%s)", ent.Name, ent.Kind)
		row.Foreground = theme.Color(o.th.Colors.Text)
		row.Bounds = ui.Rect{X: b.X, Y: b.Y + float64(i)*rowH, Width: b.Width, Height: rowH}
		if _, sel := o.ed.Selected[i]; sel {
			row.HasBg = true
			row.Background = theme.Color(o.th.Colors.Accent)
		}
		o.Content.AppendChild(row)
	}
}

func (o *Outliner) onSelect(ev *event.Event, matched *ui.Element) {
	ev.StopPropagation()
	if i, err := strconv.Atoi(matched.Data("entity-index")); err == nil {
		o.ed.SelectEntity(i, false)
	}
}

func (o *Outliner) onContextMenu(ev *event.Event, matched *ui.Element) {
	ev.StopPropagation()
	owner := o.Root.Bounds
	o.menus.ShowFor(o.def, ev, matched, &owner)
}

func (o *Outliner) buildMenu(ctx menu.Context) []menu.Item {
	onRow := func(menu.Context) bool { _, ok := ctx.Data["entity-index"]; return ok }
	index := -1
	if s, ok := ctx.Data["entity-index"]; ok {
		index, _ = strconv.Atoi(s)
	}
	return []menu.Item{
		{Label: "Copy as YAML", Visible: onRow, Action: func(menu.Context) {
			if index >= 0 && index < len(o.ed.Level.Entities) {
				CopyText(EntityYAML(o.ed.Level.Entities[index]))
				o.ed.Status("entity copied")
			}
		}},
		{Label: "Duplicate", Visible: onRow, Action: func(menu.Context) {
			if index >= 0 && index < len(o.ed.Level.Entities) {
				o.ed.PushUndo()
				dup := o.ed.Level.Entities[index]
				if dup.Props != nil {
					props := make(map[string]string, len(dup.Props))
					for k, v := range dup.Props {
						props[k] = v
					}
					dup.Props = props
				}
				dup.Name += " copy"
				dup.X += 8
				dup.Y += 8
				o.ed.Level.Entities = append(o.ed.Level.Entities, dup)
				o.ed.SelectEntity(len(o.ed.Level.Entities)-1, false)
			}
		}},
		{Separator: true},
		{Label: "Delete", Visible: onRow, Action: func(menu.Context) {
			o.dialog.Confirm("Delete entity?", func() {
				if index >= 0 && index < len(o.ed.Level.Entities) {
					o.ed.PushUndo()
					o.ed.Level.Entities = append(o.ed.Level.Entities[:index], o.ed.Level.Entities[index+1:]...)
					o.ed.ClearSelection()
					o.ed.Changed()
				}
			})
		}},
		{Label: "Select All", Enabled: func(menu.Context) bool { return len(o.ed.Level.Entities) > 0 },
			Action: func(menu.Context) { o.ed.SelectAll() }},
	}
}
