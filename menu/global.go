package menu

import (
	"github.com/milk9111/leveled/event"
	"github.com/milk9111/leveled/gesture"
	"github.com/milk9111/leveled/ui"
)

// GlobalInput is the shared input context created once in main. It sees
// every synthesized event before the registry does and owns the two
// global behaviors popups depend on: cancelling the in-progress gesture
// on any non-primary press or context-menu trigger, and dismissing the
// open popup on outside interaction or escape.
//
// Cancelling before dispatch is what guarantees a right-click never
// leaves a stale marquee overlay on screen even though the same click
// also opens a context menu.
type GlobalInput struct {
	doc      *ui.Document
	gestures *gesture.State
	ctrl     *Controller
}

func NewGlobalInput(doc *ui.Document, gestures *gesture.State, ctrl *Controller) *GlobalInput {
	return &GlobalInput{doc: doc, gestures: gestures, ctrl: ctrl}
}

// Handle runs before registry dispatch for every event.
func (g *GlobalInput) Handle(ev *event.Event) {
	switch ev.Type {
	case event.MouseDown:
		if ev.Button != event.ButtonLeft {
			g.gestures.Cancel()
		}
		g.dismissOutside(ev)
	case event.ContextMenu:
		g.gestures.Cancel()
	case event.KeyDown:
		if ev.Key == "Escape" && g.ctrl.Visible() {
			g.ctrl.Hide(false)
			ev.StopPropagation()
		}
	}
}

// dismissOutside closes the open popup when a press lands outside it.
// Presses inside the popup fall through to its own click handling.
func (g *GlobalInput) dismissOutside(ev *event.Event) {
	el := g.ctrl.Element()
	if el == nil {
		return
	}
	if ev.Target != nil && el.Contains(ev.Target) {
		return
	}
	if el.Bounds.Contains(ui.Point{X: ev.X, Y: ev.Y}) {
		return
	}
	g.ctrl.Hide(true)
}
