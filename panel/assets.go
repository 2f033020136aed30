package panel

import (
	"sort"
	"strings"

	"github.com/lithammer/fuzzysearch/fuzzy"

	"github.com/milk9111/leveled/asset"
	"github.com/milk9111/leveled/event"
	"github.com/milk9111/leveled/logging"
	"github.com/milk9111/leveled/menu"
	"github.com/milk9111/leveled/store"
	"github.com/milk9111/leveled/theme"
	"github.com/milk9111/leveled/ui"
)

// Assets is the asset browser: the PNG files of the assets directory
// with a fuzzy filter box. Click picks the brush asset; the context menu
// copies the asset path. The watcher feeds Refresh on disk changes.
type Assets struct {
	*Panel
	ed    *Editor
	doc   *ui.Document
	menus *menu.Controller
	def   *menu.Definition

	dir      string
	all      []asset.Asset
	filter   string
	filterEl *ui.Element
	Picked   string // path of the selected brush asset
}

func NewAssets(dir string, ed *Editor, doc *ui.Document, reg *event.Registry, menus *menu.Controller, th *theme.Theme, st *store.Store) *Assets {
	a := &Assets{
		Panel: NewPanel("Assets", ui.Rect{X: 8, Y: 496, Width: 200, Height: 240}, doc, reg, ed.Gestures, th, st),
		ed:    ed,
		doc:   doc,
		menus: menus,
		dir:   dir,
	}
	a.OnLayout = a.rebuild
	a.def = &menu.Definition{
		ID:             "assets",
		BuildItems:     a.buildMenu,
		ExtractContext: menu.ExtractDataset,
	}

	reg.RegisterContainer(a.Content, event.Handlers{
		event.Click: {
			{Selector: "#asset-filter", Fn: func(ev *event.Event, matched *ui.Element) {
				ev.StopPropagation()
				doc.Focus(matched)
			}},
			{Selector: "[data-asset-path]", Fn: a.onPick},
		},
		event.ContextMenu: {
			{Selector: "[data-asset-path]", Fn: a.onContextMenu},
		},
		event.KeyDown: {
			{Selector: "#asset-filter", Fn: a.onFilterKey},
		},
	}, "assets")

	a.Refresh()
	return a
}

// Refresh re-reads the asset directory, keeping the current filter.
func (a *Assets) Refresh() {
	assets, err := asset.List(a.dir)
	if err != nil {
		logging.Warnf("assets: list %s: %v", a.dir, err)
		assets = nil
	}
	a.all = assets
	a.rebuild()
}

// matches applies the fuzzy filter, best rank first.
func (a *Assets) matches() []asset.Asset {
	if a.filter == "" {
		return a.all
	}
	type ranked struct {
		asset.Asset
		rank int
	}
	out := make([]ranked, 0, len(a.all))
	for _, as := range a.all {
		r := fuzzy.RankMatchNormalizedFold(a.filter, as.Name)
		if r < 0 {
			continue
		}
		out = append(out, ranked{Asset: as, rank: r})
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].rank < out[j].rank })
	result := make([]asset.Asset, len(out))
	for i, r := range out {
		result[i] = r.Asset
	}
	return result
}

func (a *Assets) rebuild() {
	// the rebuild replaces the filter element; keyboard focus has to
	// follow it or the next keystroke falls through to the hotkeys
	focused := a.filterEl != nil && a.doc.Focused() == a.filterEl
	a.Content.RemoveAllChildren()
	b := a.ContentBounds()
	rowH := a.th.MenuItemH

	a.filterEl = ui.NewElement("input")
	a.filterEl.ID = "asset-filter"
	a.filterEl.Text = a.filter
	if a.filter == "" {
		a.filterEl.Text = "filter..."
		a.filterEl.Foreground = theme.Color(a.th.Colors.TextDisabled)
	} else {
		a.filterEl.Foreground = theme.Color(a.th.Colors.Text)
	}
	a.filterEl.HasBg = true
	a.filterEl.Background = theme.Color("#1a1a1a")
	a.filterEl.Bounds = ui.Rect{X: b.X + 2, Y: b.Y + 2, Width: b.Width - 4, Height: rowH - 4}
	a.Content.AppendChild(a.filterEl)
	if focused {
		a.doc.Focus(a.filterEl)
	}

	y := b.Y + rowH
	for _, as := range a.matches() {
		row := ui.NewElement("row")
		row.SetData("asset-path", as.Path)
		row.SetData("asset-id", as.Name)
		row.Text = as.Name
		row.Foreground = theme.Color(a.th.Colors.Text)
		row.Bounds = ui.Rect{X: b.X, Y: y, Width: b.Width, Height: rowH}
		if as.Path == a.Picked {
			row.HasBg = true
			row.Background = theme.Color(a.th.Colors.Accent)
		}
		a.Content.AppendChild(row)
		y += rowH
		if y > b.Y+b.Height {
			break
		}
	}
}

func (a *Assets) onPick(ev *event.Event, matched *ui.Element) {
	ev.StopPropagation()
	a.Picked = matched.Data("asset-path")
	a.ed.Status("brush: " + matched.Data("asset-id"))
	a.rebuild()
}

func (a *Assets) onFilterKey(ev *event.Event, _ *ui.Element) {
	ev.StopPropagation()
	switch ev.Key {
	case "Backspace":
		if len(a.filter) > 0 {
			a.filter = a.filter[:len(a.filter)-1]
		}
	case "Escape":
		a.filter = ""
	default:
		if len(ev.Key) == 1 {
			a.filter += strings.ToLower(ev.Key)
		}
	}
	a.rebuild()
}

func (a *Assets) onContextMenu(ev *event.Event, matched *ui.Element) {
	ev.StopPropagation()
	owner := a.Root.Bounds
	a.menus.ShowFor(a.def, ev, matched, &owner)
}

func (a *Assets) buildMenu(ctx menu.Context) []menu.Item {
	path := ctx.Data["asset-path"]
	return []menu.Item{
		{Label: "Use as Brush", Action: func(menu.Context) {
			a.Picked = path
			a.rebuild()
		}},
		{Label: "Copy Path", Action: func(menu.Context) {
			CopyText(path)
			a.ed.Status("path copied")
		}},
		{Separator: true},
		{Label: "Rescan", Action: func(menu.Context) { a.Refresh() }},
	}
}
