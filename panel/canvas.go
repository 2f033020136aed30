package panel

import (
	"fmt"
	"image/color"
	"math"

	"github.com/hajimehoshi/ebiten/v2"

	"github.com/milk9111/leveled/event"
	"github.com/milk9111/leveled/gesture"
	"github.com/milk9111/leveled/level"
	"github.com/milk9111/leveled/menu"
	"github.com/milk9111/leveled/store"
	"github.com/milk9111/leveled/theme"
	"github.com/milk9111/leveled/ui"
)

// Canvas is the editing viewport: tile painting with the active tool,
// middle-drag panning, wheel zoom, and marquee entity selection. The
// marquee is a gesture in the shared state so a global right-click can
// cancel it from outside the panel.
type Canvas struct {
	*Panel
	ed    *Editor
	doc   *ui.Document
	menus *menu.Controller
	def   *menu.Definition

	Zoom float64
	PanX float64
	PanY float64

	painting    bool
	paintUndo   bool
	lastPan     ui.Point
	marqueeFrom ui.Point
	marqueeEl   *ui.Element

	pixel *ebiten.Image
}

func NewCanvas(ed *Editor, doc *ui.Document, reg *event.Registry, menus *menu.Controller, th *theme.Theme, st *store.Store) *Canvas {
	c := &Canvas{
		Panel: NewPanel("Canvas", ui.Rect{X: 216, Y: 40, Width: doc.Width() - 224, Height: doc.Height() - 48}, doc, reg, ed.Gestures, th, st),
		ed:    ed,
		doc:   doc,
		menus: menus,
		Zoom:  1,
	}
	c.def = &menu.Definition{
		ID:         "canvas",
		BuildItems: c.buildMenu,
		ExtractContext: func(ev *event.Event, matched *ui.Element) menu.Context {
			return menu.Context{Target: matched, X: ev.X, Y: ev.Y}
		},
	}
	// the canvas draws itself under the element tree; the content element
	// is only a hit target and stays unpainted
	c.Root.HasBg = false

	reg.RegisterContainer(c.Content, event.Handlers{
		event.MouseDown: {
			{Fn: c.onMouseDown},
		},
		event.MouseMove: {
			{Fn: c.onMouseMove},
		},
		event.MouseUp: {
			{Fn: c.onMouseUp},
		},
		event.Wheel: {
			{Fn: c.onWheel},
		},
		event.ContextMenu: {
			{Fn: c.onContextMenu},
		},
	}, "canvas")

	return c
}

// tileAt maps a screen point to tile coordinates, or false outside the
// level.
func (c *Canvas) tileAt(p ui.Point) (int, int, bool) {
	b := c.ContentBounds()
	size := float64(c.ed.Level.TileSize) * c.Zoom
	tx := int(math.Floor((p.X - b.X - c.PanX) / size))
	ty := int(math.Floor((p.Y - b.Y - c.PanY) / size))
	if tx < 0 || tx >= c.ed.Level.Width || ty < 0 || ty >= c.ed.Level.Height {
		return 0, 0, false
	}
	return tx, ty, true
}

// worldAt maps a screen point to level pixel coordinates.
func (c *Canvas) worldAt(p ui.Point) (float64, float64) {
	b := c.ContentBounds()
	return (p.X - b.X - c.PanX) / c.Zoom, (p.Y - b.Y - c.PanY) / c.Zoom
}

func (c *Canvas) onMouseDown(ev *event.Event, _ *ui.Element) {
	p := ui.Point{X: ev.X, Y: ev.Y}
	switch ev.Button {
	case event.ButtonMiddle:
		c.lastPan = p
		c.ed.Gestures.Begin(gesture.Pan, nil)
	case event.ButtonLeft:
		if c.ed.CurrentTool == ToolSelect {
			c.beginMarquee(p)
			return
		}
		c.painting = true
		c.paintUndo = false
		c.ed.Gestures.Begin(gesture.Paint, func() { c.painting = false })
		c.paint(p)
	}
}

func (c *Canvas) onMouseMove(ev *event.Event, _ *ui.Element) {
	p := ui.Point{X: ev.X, Y: ev.Y}
	switch c.ed.Gestures.Active() {
	case gesture.Pan:
		c.PanX += p.X - c.lastPan.X
		c.PanY += p.Y - c.lastPan.Y
		c.lastPan = p
	case gesture.Paint:
		if c.painting {
			c.paint(p)
		}
	case gesture.Marquee:
		c.updateMarquee(p)
	}
}

func (c *Canvas) onMouseUp(ev *event.Event, _ *ui.Element) {
	switch ev.Button {
	case event.ButtonMiddle:
		c.ed.Gestures.End(gesture.Pan)
	case event.ButtonLeft:
		if c.ed.Gestures.Active() == gesture.Marquee {
			c.commitMarquee(ui.Point{X: ev.X, Y: ev.Y}, false)
			return
		}
		c.painting = false
		c.ed.Gestures.End(gesture.Paint)
	}
}

func (c *Canvas) onWheel(ev *event.Event, _ *ui.Element) {
	if ev.WheelY == 0 {
		return
	}
	old := c.Zoom
	c.Zoom *= math.Pow(1.1, ev.WheelY)
	c.Zoom = math.Min(8, math.Max(0.25, c.Zoom))
	// keep the point under the cursor fixed while zooming
	b := c.ContentBounds()
	fx := ev.X - b.X
	fy := ev.Y - b.Y
	c.PanX = fx - (fx-c.PanX)*(c.Zoom/old)
	c.PanY = fy - (fy-c.PanY)*(c.Zoom/old)
}

func (c *Canvas) paint(p ui.Point) {
	tx, ty, ok := c.tileAt(p)
	if !ok {
		return
	}
	if !c.paintUndo {
		c.ed.PushUndo()
		c.paintUndo = true
	}
	switch c.ed.CurrentTool {
	case ToolBrush:
		c.ed.Level.SetTile(c.ed.CurrentLayer, tx, ty, 1)
	case ToolErase:
		c.ed.Level.SetTile(c.ed.CurrentLayer, tx, ty, 0)
	case ToolFill:
		c.fill(tx, ty)
	}
}

// fill flood-fills the connected region of the clicked tile's value.
func (c *Canvas) fill(tx, ty int) {
	lvl := c.ed.Level
	from := lvl.Tile(c.ed.CurrentLayer, tx, ty)
	const to = 1
	if from == to {
		return
	}
	stack := [][2]int{{tx, ty}}
	for len(stack) > 0 {
		n := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		x, y := n[0], n[1]
		if x < 0 || x >= lvl.Width || y < 0 || y >= lvl.Height {
			continue
		}
		if lvl.Tile(c.ed.CurrentLayer, x, y) != from {
			continue
		}
		lvl.SetTile(c.ed.CurrentLayer, x, y, to)
		stack = append(stack, [2]int{x - 1, y}, [2]int{x + 1, y}, [2]int{x, y - 1}, [2]int{x, y + 1})
	}
}

// beginMarquee starts the rubber-band gesture; the cancel hook removes
// the overlay so cancellation from anywhere leaves no stale rectangle.
func (c *Canvas) beginMarquee(p ui.Point) {
	c.marqueeFrom = p
	c.marqueeEl = ui.NewElement("marquee")
	c.marqueeEl.HitTransparent = true
	c.marqueeEl.HasBorder = true
	c.marqueeEl.Border = theme.Color(c.th.Colors.Marquee)
	c.marqueeEl.Bounds = ui.Rect{X: p.X, Y: p.Y}
	c.doc.Overlay().AppendChild(c.marqueeEl)
	c.ed.Gestures.Begin(gesture.Marquee, func() { c.removeMarquee() })
}

func (c *Canvas) updateMarquee(p ui.Point) {
	if c.marqueeEl == nil {
		return
	}
	c.marqueeEl.Bounds = rectBetween(c.marqueeFrom, p)
}

// commitMarquee selects the entities the rectangle touches and ends the
// gesture normally.
func (c *Canvas) commitMarquee(p ui.Point, additive bool) {
	r := rectBetween(c.marqueeFrom, p)
	c.removeMarquee()
	c.ed.Gestures.End(gesture.Marquee)

	x0, y0 := c.worldAt(ui.Point{X: r.X, Y: r.Y})
	x1, y1 := c.worldAt(ui.Point{X: r.Right(), Y: r.Bottom()})
	world := ui.Rect{X: x0, Y: y0, Width: x1 - x0, Height: y1 - y0}

	if !additive {
		c.ed.ClearSelection()
	}
	size := float64(c.ed.Level.TileSize)
	for i, ent := range c.ed.Level.Entities {
		box := ui.Rect{X: ent.X, Y: ent.Y, Width: size, Height: size}
		if world.Intersects(box) {
			c.ed.Selected[i] = struct{}{}
		}
	}
	c.ed.Changed()
}

func (c *Canvas) removeMarquee() {
	if c.marqueeEl != nil {
		c.marqueeEl.Remove()
		c.marqueeEl = nil
	}
}

func rectBetween(a, b ui.Point) ui.Rect {
	return ui.Rect{
		X:      math.Min(a.X, b.X),
		Y:      math.Min(a.Y, b.Y),
		Width:  math.Abs(a.X - b.X),
		Height: math.Abs(a.Y - b.Y),
	}
}

func (c *Canvas) onContextMenu(ev *event.Event, matched *ui.Element) {
	ev.StopPropagation()
	owner := c.Root.Bounds
	c.menus.ShowFor(c.def, ev, matched, &owner)
}

func (c *Canvas) buildMenu(ctx menu.Context) []menu.Item {
	wx, wy := c.worldAt(ui.Point{X: ctx.X, Y: ctx.Y})
	return []menu.Item{
		{Label: "Add Entity Here", Action: func(menu.Context) {
			c.ed.PushUndo()
			c.ed.Level.Entities = append(c.ed.Level.Entities, level.Entity{
				Name: fmt.Sprintf("entity_%d", len(c.ed.Level.Entities)+1),
				Kind: "prop",
				X:    math.Round(wx),
				Y:    math.Round(wy),
			})
			c.ed.SelectEntity(len(c.ed.Level.Entities)-1, false)
		}},
		{Label: "Delete Selected",
			Visible: func(menu.Context) bool { return len(c.ed.Selected) > 0 },
			Action:  func(menu.Context) { c.ed.DeleteSelected() }},
		{Separator: true},
		{Label: "Reset View", Action: func(menu.Context) {
			c.Zoom = 1
			c.PanX = 0
			c.PanY = 0
		}},
	}
}

// Draw renders the grid, tiles, entities and selection straight to the
// screen; the element tree only carries the panel chrome on top.
func (c *Canvas) Draw(screen *ebiten.Image) {
	if c.pixel == nil {
		c.pixel = ebiten.NewImage(1, 1)
		c.pixel.Fill(color.White)
	}
	b := c.ContentBounds()
	lvl := c.ed.Level
	size := float64(lvl.TileSize) * c.Zoom

	grid := theme.Color(c.th.Colors.Grid)
	for x := 0; x <= lvl.Width; x++ {
		c.line(screen, b.X+c.PanX+float64(x)*size, b.Y+c.PanY, 1, float64(lvl.Height)*size, grid)
	}
	for y := 0; y <= lvl.Height; y++ {
		c.line(screen, b.X+c.PanX, b.Y+c.PanY+float64(y)*size, float64(lvl.Width)*size, 1, grid)
	}

	for li := range lvl.Layers {
		layer := &lvl.Layers[li]
		if !layer.Visible {
			continue
		}
		tile := theme.Color(layer.Color)
		if layer.Color == "" {
			tile = theme.Color(c.th.Colors.Accent)
		}
		if li != c.ed.CurrentLayer {
			tile.A = 140
		}
		for ty := 0; ty < lvl.Height; ty++ {
			for tx := 0; tx < lvl.Width; tx++ {
				if layer.Tiles[ty*lvl.Width+tx] == 0 {
					continue
				}
				c.line(screen, b.X+c.PanX+float64(tx)*size, b.Y+c.PanY+float64(ty)*size, size, size, tile)
			}
		}
	}

	sel := theme.Color(c.th.Colors.Marquee)
	for i, ent := range lvl.Entities {
		col := theme.Color("#c8c864")
		if _, ok := c.ed.Selected[i]; ok {
			col = sel
		}
		ex := b.X + c.PanX + ent.X*c.Zoom
		ey := b.Y + c.PanY + ent.Y*c.Zoom
		c.line(screen, ex, ey, size, size, col)
	}
}

func (c *Canvas) line(screen *ebiten.Image, x, y, w, h float64, col color.RGBA) {
	op := &ebiten.DrawImageOptions{}
	op.GeoM.Scale(w, h)
	op.GeoM.Translate(x, y)
	op.ColorScale.ScaleWithColor(col)
	screen.DrawImage(c.pixel, op)
}
