// Package input translates Ebiten's polled input state into the logical
// events the registry dispatches: edge-detected mouse buttons, click and
// double-click synthesis, context-menu on right press, wheel, key
// presses, and viewport resize.
package input

import (
	"time"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"

	"github.com/milk9111/leveled/event"
	"github.com/milk9111/leveled/ui"
)

const (
	doubleClickTime = 350 * time.Millisecond
	doubleClickDist = 4.0
	clickSlop       = 5.0
)

// Pump polls host input once per Update and returns the synthesized
// events in dispatch order. It also keeps the document cursor current,
// which the popup cursor monitor reads between events.
type Pump struct {
	lastW, lastH   int
	downX, downY   float64
	lastClickAt    time.Time
	lastClickX     float64
	lastClickY     float64
	pressedButtons map[ebiten.MouseButton]bool
}

func NewPump() *Pump {
	return &Pump{pressedButtons: make(map[ebiten.MouseButton]bool)}
}

var buttons = []struct {
	eb  ebiten.MouseButton
	btn event.MouseButton
}{
	{ebiten.MouseButtonLeft, event.ButtonLeft},
	{ebiten.MouseButtonRight, event.ButtonRight},
	{ebiten.MouseButtonMiddle, event.ButtonMiddle},
}

// Poll reads the host state, updates the document cursor and viewport,
// and returns this frame's events with hit-test targets resolved.
func (p *Pump) Poll(doc *ui.Document, screenW, screenH int) []*event.Event {
	var events []*event.Event

	if screenW != p.lastW || screenH != p.lastH {
		p.lastW, p.lastH = screenW, screenH
		doc.SetViewport(float64(screenW), float64(screenH))
		events = append(events, &event.Event{Type: event.Resize, X: float64(screenW), Y: float64(screenH)})
	}

	mx, my := ebiten.CursorPosition()
	x, y := float64(mx), float64(my)
	moved := x != doc.Cursor.X || y != doc.Cursor.Y
	doc.Cursor = ui.Point{X: x, Y: y}

	target := func() *ui.Element { return doc.HitTest(ui.Point{X: x, Y: y}) }

	if moved {
		events = append(events, &event.Event{Type: event.MouseMove, X: x, Y: y, Button: p.heldButton(), Target: target()})
	}

	for _, b := range buttons {
		if inpututil.IsMouseButtonJustPressed(b.eb) {
			p.pressedButtons[b.eb] = true
			events = append(events, &event.Event{Type: event.MouseDown, X: x, Y: y, Button: b.btn, Target: target()})
			if b.btn == event.ButtonLeft {
				p.downX, p.downY = x, y
			}
			if b.btn == event.ButtonRight {
				events = append(events, &event.Event{Type: event.ContextMenu, X: x, Y: y, Button: b.btn, Target: target()})
			}
		}
		if inpututil.IsMouseButtonJustReleased(b.eb) {
			p.pressedButtons[b.eb] = false
			events = append(events, &event.Event{Type: event.MouseUp, X: x, Y: y, Button: b.btn, Target: target()})
			if b.btn == event.ButtonLeft && abs(x-p.downX) <= clickSlop && abs(y-p.downY) <= clickSlop {
				events = append(events, p.synthesizeClick(x, y, target()))
			}
		}
	}

	if wx, wy := ebiten.Wheel(); wx != 0 || wy != 0 {
		events = append(events, &event.Event{Type: event.Wheel, X: x, Y: y, WheelX: wx, WheelY: wy, Target: target()})
	}

	for _, k := range inpututil.AppendJustPressedKeys(nil) {
		ev := &event.Event{Type: event.KeyDown, X: x, Y: y, Key: keyName(k)}
		if f := doc.Focused(); f != nil {
			ev.Target = f
		} else {
			ev.Target = target()
		}
		events = append(events, ev)
	}

	return events
}

// synthesizeClick emits a click, upgraded to a double-click when the
// previous click was close enough in time and space.
func (p *Pump) synthesizeClick(x, y float64, target *ui.Element) *event.Event {
	now := time.Now()
	typ := event.Click
	if now.Sub(p.lastClickAt) <= doubleClickTime &&
		abs(x-p.lastClickX) <= doubleClickDist && abs(y-p.lastClickY) <= doubleClickDist {
		typ = event.DoubleClick
		p.lastClickAt = time.Time{}
	} else {
		p.lastClickAt = now
	}
	p.lastClickX, p.lastClickY = x, y
	return &event.Event{Type: typ, X: x, Y: y, Button: event.ButtonLeft, Target: target}
}

func (p *Pump) heldButton() event.MouseButton {
	for _, b := range buttons {
		if p.pressedButtons[b.eb] {
			return b.btn
		}
	}
	return event.ButtonNone
}

// keyName maps the keys panels care about to stable names; everything
// else uses Ebiten's own string form.
func keyName(k ebiten.Key) string {
	switch k {
	case ebiten.KeyEscape:
		return "Escape"
	case ebiten.KeyEnter:
		return "Enter"
	case ebiten.KeyBackspace:
		return "Backspace"
	case ebiten.KeyDelete:
		return "Delete"
	case ebiten.KeySpace:
		return " "
	default:
		return k.String()
	}
}

func abs(v float64) float64 {
	if v < 0 {
		return -v
	}
	return v
}
