// Package menu positions and runs popups: context menus and dropdowns.
// One controller owns the single visible popup, its open/close tweens,
// and the cursor-containment monitor that keeps a menu from lingering
// after the pointer already left during the open animation.
package menu

import (
	"strconv"

	"github.com/tanema/gween"
	"github.com/tanema/gween/ease"

	"github.com/milk9111/leveled/event"
	"github.com/milk9111/leveled/logging"
	"github.com/milk9111/leveled/theme"
	"github.com/milk9111/leveled/ui"
)

// Fallback size used when a popup measures to zero, so it is never
// positioned as a point.
const (
	fallbackWidth  = 150
	fallbackHeight = 50
)

type phase int

const (
	phaseIdle phase = iota
	phasePending // attached and positioned, waiting one frame before the tween
	phaseOpening
	phaseOpen
	phaseClosing
)

// Controller manages at most one visible popup. All methods run on the
// update goroutine.
type Controller struct {
	doc     *ui.Document
	reg     *event.Registry
	th      *theme.Theme
	measure func(string) float64
	current *popup
}

type popup struct {
	el      *ui.Element
	items   []Item
	ctx     Context
	place   Placement
	phase   phase
	tween   *gween.Tween
	monitor float64 // seconds spent monitoring cursor containment
}

// NewController wires a controller to the document and registry. measure
// converts a label to pixels; nil falls back to a coarse estimate so the
// controller stays testable without a font.
func NewController(doc *ui.Document, reg *event.Registry, th *theme.Theme, measure func(string) float64) *Controller {
	if measure == nil {
		measure = func(s string) float64 { return float64(len(s)) * 7 }
	}
	return &Controller{doc: doc, reg: reg, th: th, measure: measure}
}

// Visible reports whether a popup is attached, in any phase.
func (c *Controller) Visible() bool { return c.current != nil }

// Element exposes the popup element while visible; nil otherwise.
func (c *Controller) Element() *ui.Element {
	if c.current == nil {
		return nil
	}
	return c.current.el
}

// Show opens a popup for the request, force-closing any current popup
// instantly first so at most one is ever visible. A request that cannot
// attach is dropped silently; popups never fail into caller code.
func (c *Controller) Show(req Request) {
	if c.current != nil {
		c.detach()
	}
	if c.doc == nil {
		logging.Debugf("menu: show dropped, no document")
		return
	}

	items := visibleItems(req.Items, req.Context)
	el, size := c.build(items, req.Context)
	if size.W <= 0 || size.H <= 0 {
		fb := req.Fallback
		if fb.W <= 0 {
			fb.W = fallbackWidth
		}
		if fb.H <= 0 {
			fb.H = fallbackHeight
		}
		size = fb
	}

	c.doc.Overlay().AppendChild(el)
	if !c.doc.Attached(el) {
		logging.Debugf("menu: show dropped, popup failed to attach")
		el.Remove()
		return
	}

	place := Position(req.Trigger, size, ui.Size{W: c.doc.Width(), H: c.doc.Height()}, req.Owner, c.th.PopupMargin)
	el.Bounds = ui.Rect{X: place.X, Y: place.Y, Width: size.W, Height: size.H}
	c.layoutItems(el)
	el.Alpha = 0

	p := &popup{el: el, items: items, ctx: req.Context, place: place, phase: phasePending}
	c.current = p

	c.reg.RegisterContainer(el, event.Handlers{
		event.Click: {
			{Selector: "[data-menu-index]", Fn: c.onItemClick},
			{Fn: func(ev *event.Event, _ *ui.Element) { ev.StopPropagation() }},
		},
		event.ContextMenu: {
			// a right-click on an open menu is swallowed, not re-opened
			{Fn: func(ev *event.Event, _ *ui.Element) { ev.StopPropagation() }},
		},
	}, "popup")
}

// ShowFor runs a definition's strategy functions against a trigger event
// and shows the result at the event position.
func (c *Controller) ShowFor(def *Definition, ev *event.Event, matched *ui.Element, owner *ui.Rect) {
	if def == nil || def.BuildItems == nil {
		logging.Warnf("menu: show %q: no item builder", defID(def))
		return
	}
	extract := def.ExtractContext
	if extract == nil {
		extract = ExtractDataset
	}
	ctx := extract(ev, matched)
	c.Show(Request{
		Trigger: ui.Point{X: ev.X, Y: ev.Y},
		Items:   def.BuildItems(ctx),
		Context: ctx,
		Owner:   owner,
	})
}

// ShowDropdown anchors a popup to an element's bottom-left corner instead
// of a cursor point.
func (c *Controller) ShowDropdown(anchor *ui.Element, items []Item, ctx Context) {
	if anchor == nil || !c.doc.Attached(anchor) {
		logging.Debugf("menu: dropdown dropped, anchor not attached")
		return
	}
	owner := anchor.Bounds
	c.Show(Request{
		Trigger: ui.Point{X: anchor.Bounds.X, Y: anchor.Bounds.Bottom()},
		Items:   items,
		Context: ctx,
		Owner:   &owner,
	})
}

// Hide closes the current popup. The animated path runs the close tween
// before detaching; immediate, or any hide before the open tween
// finished, detaches right away and cancels the cursor monitor.
func (c *Controller) Hide(immediate bool) {
	p := c.current
	if p == nil {
		return
	}
	if immediate || p.phase != phaseOpen {
		c.detach()
		return
	}
	p.phase = phaseClosing
	p.tween = gween.New(float32(p.el.Alpha), 0, float32(c.th.CloseDuration), ease.OutQuad)
}

// Update advances the popup lifecycle by dt seconds: starts the open
// tween one frame after show, runs the bounded cursor monitor while
// opening, and detaches once the close tween ends.
func (c *Controller) Update(dt float64) {
	p := c.current
	if p == nil {
		return
	}

	switch p.phase {
	case phasePending:
		p.phase = phaseOpening
		p.tween = gween.New(0, 1, float32(c.th.OpenDuration), ease.OutQuad)

	case phaseOpening:
		// Bounded per-frame containment check: if the cursor leaves the
		// popup before the open tween completes, close instantly. The
		// wall-clock cutoff guarantees termination when the tween has
		// zero duration.
		if p.monitor <= c.th.MonitorCutoff {
			p.monitor += dt
			if !c.cursorInside(p) {
				c.detach()
				return
			}
		}
		alpha, done := p.tween.Update(float32(dt))
		p.el.Alpha = float64(alpha)
		if done {
			p.el.Alpha = 1
			if !c.cursorInside(p) {
				c.detach()
				return
			}
			p.phase = phaseOpen
		}
		c.highlight(p)

	case phaseOpen:
		c.highlight(p)

	case phaseClosing:
		alpha, done := p.tween.Update(float32(dt))
		p.el.Alpha = float64(alpha)
		if done {
			c.detach()
		}
	}
}

func (c *Controller) cursorInside(p *popup) bool {
	return p.el.Bounds.Expand(triggerPad).Contains(c.doc.Cursor)
}

// highlight gives the hovered, enabled item the hover background.
func (c *Controller) highlight(p *popup) {
	hover := theme.Color(c.th.Colors.MenuHover)
	for _, child := range p.el.Children() {
		if child.Tag != "menuitem" {
			continue
		}
		child.HasBg = !child.Disabled && child.Bounds.Contains(c.doc.Cursor)
		child.Background = hover
	}
}

func (c *Controller) onItemClick(ev *event.Event, matched *ui.Element) {
	ev.StopPropagation()
	p := c.current
	if p == nil {
		return
	}
	idx, err := strconv.Atoi(matched.Data("menu-index"))
	if err != nil || idx < 0 || idx >= len(p.items) {
		return
	}
	it := p.items[idx]
	if it.Separator || !it.enabled(p.ctx) {
		return
	}
	ctx := p.ctx
	// hide before running the action so the action sees a closed menu
	c.Hide(true)
	if it.Action != nil {
		it.Action(ctx)
	}
}

func (c *Controller) detach() {
	p := c.current
	if p == nil {
		return
	}
	c.current = nil
	c.reg.UnregisterContainer(p.el)
	p.el.Remove()
}

// build creates the popup subtree and measures it from theme metrics.
func (c *Controller) build(items []Item, ctx Context) (*ui.Element, ui.Size) {
	el := ui.NewElement("menu")
	el.ID = "popup"
	el.HasBg = true
	el.Background = theme.Color(c.th.Colors.Menu)
	el.HasBorder = true
	el.Border = theme.Color(c.th.Colors.Border)

	width := 0.0
	height := 0.0
	for i, it := range items {
		if it.Separator {
			sep := ui.NewElement("separator")
			sep.HasBg = true
			sep.Background = theme.Color(c.th.Colors.Separator)
			el.AppendChild(sep)
			height += c.th.SeparatorH
			continue
		}
		label := it.Label
		if it.Icon != "" {
			label = it.Icon + " " + label
		}
		if it.Shortcut != "" {
			label += "  " + it.Shortcut
		}
		row := ui.NewElement("menuitem")
		row.Text = label
		row.SetData("menu-index", strconv.Itoa(i))
		row.Disabled = !it.enabled(ctx)
		row.Foreground = theme.Color(c.th.Colors.Text)
		el.AppendChild(row)
		if w := c.measure(label) + 20; w > width {
			width = w
		}
		height += c.th.MenuItemH
	}
	if width > 0 && width < c.th.MenuMinW {
		width = c.th.MenuMinW
	}
	return el, ui.Size{W: width, H: height}
}

// layoutItems stacks children inside the positioned popup rect.
func (c *Controller) layoutItems(el *ui.Element) {
	y := el.Bounds.Y
	for _, child := range el.Children() {
		h := c.th.MenuItemH
		if child.Tag == "separator" {
			h = c.th.SeparatorH
			child.Bounds = ui.Rect{X: el.Bounds.X + 4, Y: y + h/2, Width: el.Bounds.Width - 8, Height: 1}
		} else {
			child.Bounds = ui.Rect{X: el.Bounds.X, Y: y, Width: el.Bounds.Width, Height: h}
		}
		y += h
	}
}

func visibleItems(items []Item, ctx Context) []Item {
	out := make([]Item, 0, len(items))
	for _, it := range items {
		if it.Separator || it.visible(ctx) {
			out = append(out, it)
		}
	}
	// drop leading/trailing separators left behind by filtering
	for len(out) > 0 && out[0].Separator {
		out = out[1:]
	}
	for len(out) > 0 && out[len(out)-1].Separator {
		out = out[:len(out)-1]
	}
	return out
}

func defID(def *Definition) string {
	if def == nil {
		return "<nil>"
	}
	return def.ID
}
