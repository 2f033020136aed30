package panel

import (
	"math"

	"github.com/milk9111/leveled/event"
	"github.com/milk9111/leveled/gesture"
	"github.com/milk9111/leveled/store"
	"github.com/milk9111/leveled/theme"
	"github.com/milk9111/leveled/ui"
)

const (
	gripSize  = 10
	minPanelW = 80
	minPanelH = 60
)

// Panel is the shared chrome every editor panel gets: a bordered body
// with a title bar that collapses on click, a corner grip that resizes
// through the shared gesture state, and bounds restored from and
// persisted to the settings store. Concrete panels own the content
// element and rebuild its subtree on editor changes.
type Panel struct {
	Name    string
	Root    *ui.Element
	Title   *ui.Element
	Content *ui.Element

	// OnLayout runs after every bounds change so concrete panels can
	// re-lay their content rows.
	OnLayout func()

	th        *theme.Theme
	reg       *event.Registry
	gestures  *gesture.State
	collapsed bool
	bounds    ui.Rect

	grip         *ui.Element
	resizing     bool
	resizeFrom   ui.Point
	resizeBounds ui.Rect
}

// NewPanel builds the chrome, attaches it to the document body, and wires
// the title-bar collapse and grip resize handlers. Stored bounds win over
// the default.
func NewPanel(name string, def ui.Rect, doc *ui.Document, reg *event.Registry, gestures *gesture.State, th *theme.Theme, st *store.Store) *Panel {
	p := &Panel{Name: name, th: th, reg: reg, gestures: gestures, bounds: def}
	if st != nil {
		if r, ok := st.GetRect("panel." + name + ".bounds"); ok && r.Width > 0 && r.Height > 0 {
			p.bounds = r
		}
	}

	p.Root = ui.NewElement("panel")
	p.Root.ID = "panel-" + name
	p.Root.HasBg = true
	p.Root.Background = theme.Color(th.Colors.Panel)
	p.Root.HasBorder = true
	p.Root.Border = theme.Color(th.Colors.Border)

	p.Title = ui.NewElement("titlebar")
	p.Title.Text = name
	p.Title.HasBg = true
	p.Title.Background = theme.Color(th.Colors.PanelTitle)
	p.Title.Foreground = theme.Color(th.Colors.Text)
	p.Title.AddClass("titlebar")

	p.Content = ui.NewElement("content")
	p.Content.AddClass("content")

	p.grip = ui.NewElement("grip")
	p.grip.AddClass("grip")
	p.grip.HasBg = true
	p.grip.Background = theme.Color(th.Colors.Border)

	p.Root.AppendChild(p.Title)
	p.Root.AppendChild(p.Content)
	p.Root.AppendChild(p.grip)
	doc.Body(p.Root)

	p.layout()

	reg.RegisterContainer(p.Root, event.Handlers{
		event.Click: {
			{Selector: ".titlebar", Fn: func(ev *event.Event, _ *ui.Element) {
				p.SetCollapsed(!p.collapsed)
				ev.StopPropagation()
			}},
		},
		event.MouseDown: {
			{Selector: ".grip", Fn: p.onGripDown},
		},
		event.MouseMove: {
			{Fn: p.onResizeMove},
		},
		event.MouseUp: {
			{Fn: p.onResizeUp},
		},
	}, "panel-"+name)

	return p
}

func (p *Panel) Bounds() ui.Rect { return p.bounds }

// SetBounds moves the panel, relayouts the chrome and invokes the
// content relayout hook.
func (p *Panel) SetBounds(r ui.Rect) {
	p.bounds = r
	p.layout()
	if p.OnLayout != nil {
		p.OnLayout()
	}
}

func (p *Panel) Collapsed() bool { return p.collapsed }

func (p *Panel) SetCollapsed(v bool) {
	p.collapsed = v
	p.Content.SetVisible(!v)
	p.layout()
}

func (p *Panel) layout() {
	r := p.bounds
	if p.collapsed {
		r.Height = p.th.TitleBarH
	}
	p.Root.Bounds = r
	p.Title.Bounds = ui.Rect{X: r.X, Y: r.Y, Width: r.Width, Height: p.th.TitleBarH}
	p.Content.Bounds = ui.Rect{
		X:      r.X,
		Y:      r.Y + p.th.TitleBarH,
		Width:  r.Width,
		Height: p.bounds.Height - p.th.TitleBarH,
	}
	p.grip.SetVisible(!p.collapsed)
	p.grip.Bounds = ui.Rect{
		X:      r.Right() - gripSize,
		Y:      r.Bottom() - gripSize,
		Width:  gripSize,
		Height: gripSize,
	}
}

// ContentBounds is where concrete panels lay their rows out.
func (p *Panel) ContentBounds() ui.Rect { return p.Content.Bounds }

// Persist writes the panel bounds to the store.
func (p *Panel) Persist(st *store.Store) {
	if st != nil {
		st.SetRect("panel."+p.Name+".bounds", p.bounds)
	}
}

// onGripDown starts the resize as a shared gesture, so a global cancel
// (right-click anywhere) restores the original bounds.
func (p *Panel) onGripDown(ev *event.Event, _ *ui.Element) {
	if p.gestures == nil {
		return
	}
	ev.StopPropagation()
	p.resizing = true
	p.resizeFrom = ui.Point{X: ev.X, Y: ev.Y}
	p.resizeBounds = p.bounds
	p.gestures.Begin(gesture.ResizePanel, func() {
		p.resizing = false
		p.SetBounds(p.resizeBounds)
	})
}

func (p *Panel) onResizeMove(ev *event.Event, _ *ui.Element) {
	if !p.resizing || p.gestures.Active() != gesture.ResizePanel {
		return
	}
	r := p.resizeBounds
	r.Width = math.Max(minPanelW, r.Width+ev.X-p.resizeFrom.X)
	r.Height = math.Max(minPanelH, r.Height+ev.Y-p.resizeFrom.Y)
	p.SetBounds(r)
}

func (p *Panel) onResizeUp(ev *event.Event, _ *ui.Element) {
	if !p.resizing {
		return
	}
	p.resizing = false
	p.gestures.End(gesture.ResizePanel)
}
