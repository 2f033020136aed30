package menu

import (
	"testing"

	"github.com/milk9111/leveled/event"
	"github.com/milk9111/leveled/gesture"
	"github.com/milk9111/leveled/theme"
	"github.com/milk9111/leveled/ui"
)

func newTestController() (*Controller, *ui.Document, *event.Registry) {
	doc := ui.NewDocument(1000, 800)
	reg := event.NewRegistry(doc)
	ctrl := NewController(doc, reg, theme.Default(), nil)
	return ctrl, doc, reg
}

func items(labels ...string) []Item {
	out := make([]Item, len(labels))
	for i, l := range labels {
		out[i] = Item{Label: l, Action: func(Context) {}}
	}
	return out
}

// openFully shows a popup and advances updates until the open tween ends,
// keeping the cursor inside so the monitor does not fire.
func openFully(ctrl *Controller, doc *ui.Document, req Request) {
	ctrl.Show(req)
	doc.Cursor = req.Trigger
	for i := 0; i < 60 && ctrl.Visible(); i++ {
		ctrl.Update(1.0 / 60)
		if el := ctrl.Element(); el != nil && el.Alpha >= 1 {
			return
		}
	}
}

func TestShowAttachesAndPositions(t *testing.T) {
	ctrl, doc, _ := newTestController()
	ctrl.Show(Request{Trigger: ui.Point{X: 100, Y: 100}, Items: items("Copy", "Paste")})

	el := ctrl.Element()
	if el == nil {
		t.Fatalf("expected a popup element after Show")
	}
	if !doc.Attached(el) {
		t.Fatalf("popup must be attached to the document overlay")
	}
	if el.Bounds.Width <= 0 || el.Bounds.Height <= 0 {
		t.Fatalf("popup measured to zero: %+v", el.Bounds)
	}
	if el.Alpha != 0 {
		t.Fatalf("popup must start invisible for the two-phase show, alpha=%v", el.Alpha)
	}
}

func TestSingleVisibleInvariant(t *testing.T) {
	ctrl, doc, _ := newTestController()
	openFully(ctrl, doc, Request{Trigger: ui.Point{X: 100, Y: 100}, Items: items("A")})
	first := ctrl.Element()

	ctrl.Show(Request{Trigger: ui.Point{X: 300, Y: 300}, Items: items("B")})
	second := ctrl.Element()

	if second == first {
		t.Fatalf("second show must replace the first popup")
	}
	if doc.Attached(first) {
		t.Fatalf("first popup must be force-closed, not stacked")
	}
	count := 0
	for _, c := range doc.Overlay().Children() {
		if c.Tag == "menu" {
			count++
		}
	}
	if count != 1 {
		t.Fatalf("expected exactly one visible popup, got %d", count)
	}
}

func TestCursorMonitorForceCloses(t *testing.T) {
	ctrl, doc, _ := newTestController()
	ctrl.Show(Request{Trigger: ui.Point{X: 400, Y: 300}, Items: items("A", "B")})

	// cursor far away from the popup during the open animation
	doc.Cursor = ui.Point{X: 10, Y: 10}
	ctrl.Update(1.0 / 60) // pending -> opening
	ctrl.Update(1.0 / 60) // monitor sees the cursor outside

	if ctrl.Visible() {
		t.Fatalf("popup should force-close when the cursor leaves during the open animation")
	}
}

func TestCursorMonitorKeepsPopupWhenInside(t *testing.T) {
	ctrl, doc, _ := newTestController()
	req := Request{Trigger: ui.Point{X: 400, Y: 300}, Items: items("A", "B")}
	openFully(ctrl, doc, req)

	if !ctrl.Visible() {
		t.Fatalf("popup should survive the open animation with the cursor inside")
	}
	if el := ctrl.Element(); el.Alpha != 1 {
		t.Fatalf("open tween should end at full alpha, got %v", el.Alpha)
	}
}

func TestHideImmediateDetaches(t *testing.T) {
	ctrl, doc, _ := newTestController()
	openFully(ctrl, doc, Request{Trigger: ui.Point{X: 400, Y: 300}, Items: items("A")})
	el := ctrl.Element()

	ctrl.Hide(true)
	if ctrl.Visible() || doc.Attached(el) {
		t.Fatalf("immediate hide must detach synchronously")
	}
}

func TestHideAnimatedDetachesAfterTween(t *testing.T) {
	ctrl, doc, _ := newTestController()
	openFully(ctrl, doc, Request{Trigger: ui.Point{X: 400, Y: 300}, Items: items("A")})
	el := ctrl.Element()

	ctrl.Hide(false)
	if !doc.Attached(el) {
		t.Fatalf("animated hide must keep the popup through the close tween")
	}
	for i := 0; i < 60 && ctrl.Visible(); i++ {
		ctrl.Update(1.0 / 60)
	}
	if ctrl.Visible() || doc.Attached(el) {
		t.Fatalf("popup must detach after the close tween elapses")
	}
}

func TestHideDuringOpenTakesImmediatePath(t *testing.T) {
	ctrl, doc, _ := newTestController()
	ctrl.Show(Request{Trigger: ui.Point{X: 400, Y: 300}, Items: items("A")})
	doc.Cursor = ui.Point{X: 400, Y: 300}
	ctrl.Update(1.0 / 60) // opening
	el := ctrl.Element()

	ctrl.Hide(false)
	if ctrl.Visible() || doc.Attached(el) {
		t.Fatalf("hide during the open tween must detach immediately")
	}
}

func TestFallbackSizeForEmptyMenu(t *testing.T) {
	ctrl, _, _ := newTestController()
	ctrl.Show(Request{Trigger: ui.Point{X: 100, Y: 100}})

	el := ctrl.Element()
	if el == nil {
		t.Fatalf("expected popup even with no items")
	}
	if el.Bounds.Width != fallbackWidth || el.Bounds.Height != fallbackHeight {
		t.Fatalf("expected fallback size %dx%d, got %+v", fallbackWidth, fallbackHeight, el.Bounds)
	}
}

func TestItemClickHidesThenRunsAction(t *testing.T) {
	ctrl, doc, reg := newTestController()

	var ranWhileHidden bool
	req := Request{
		Trigger: ui.Point{X: 100, Y: 100},
		Items: []Item{{Label: "Do it", Action: func(Context) {
			ranWhileHidden = !ctrl.Visible()
		}}},
	}
	openFully(ctrl, doc, req)

	row := ctrl.Element().Find(func(e *ui.Element) bool { return e.Data("menu-index") == "0" })
	if row == nil {
		t.Fatalf("expected a menu item row")
	}
	reg.Dispatch(&event.Event{Type: event.Click, X: row.Bounds.X + 2, Y: row.Bounds.Y + 2, Target: row})

	if ctrl.Visible() {
		t.Fatalf("activation must hide the popup")
	}
	if !ranWhileHidden {
		t.Fatalf("action must run after the popup is hidden")
	}
}

func TestDisabledItemDoesNotActivate(t *testing.T) {
	ctrl, doc, reg := newTestController()

	var ran bool
	req := Request{
		Trigger: ui.Point{X: 100, Y: 100},
		Items: []Item{{
			Label:   "Nope",
			Enabled: func(Context) bool { return false },
			Action:  func(Context) { ran = true },
		}},
	}
	openFully(ctrl, doc, req)

	row := ctrl.Element().Find(func(e *ui.Element) bool { return e.Data("menu-index") == "0" })
	reg.Dispatch(&event.Event{Type: event.Click, Target: row})

	if ran {
		t.Fatalf("disabled item must not run its action")
	}
	if !ctrl.Visible() {
		t.Fatalf("clicking a disabled item must not close the menu")
	}
}

func TestVisiblePredicateFiltersItems(t *testing.T) {
	ctrl, _, _ := newTestController()
	ctrl.Show(Request{
		Trigger: ui.Point{X: 100, Y: 100},
		Items: []Item{
			{Label: "Shown", Action: func(Context) {}},
			{Label: "Hidden", Visible: func(Context) bool { return false }, Action: func(Context) {}},
		},
	})

	rows := 0
	for _, c := range ctrl.Element().Children() {
		if c.Tag == "menuitem" {
			rows++
		}
	}
	if rows != 1 {
		t.Fatalf("expected 1 visible item, got %d", rows)
	}
}

func TestGlobalInputCancelsGestureAndDismisses(t *testing.T) {
	ctrl, doc, _ := newTestController()
	gestures := gesture.NewState()
	global := NewGlobalInput(doc, gestures, ctrl)

	cancelled := 0
	gestures.Begin(gesture.Marquee, func() { cancelled++ })

	// a right-button press cancels the marquee before anything else runs
	global.Handle(&event.Event{Type: event.MouseDown, Button: event.ButtonRight, X: 50, Y: 50})
	if gestures.Active() != gesture.None || cancelled != 1 {
		t.Fatalf("non-primary press must cancel the active gesture, active=%v cancelled=%d", gestures.Active(), cancelled)
	}

	openFully(ctrl, doc, Request{Trigger: ui.Point{X: 400, Y: 300}, Items: items("A")})

	// a primary press outside the popup dismisses it
	global.Handle(&event.Event{Type: event.MouseDown, Button: event.ButtonLeft, X: 10, Y: 10})
	if ctrl.Visible() {
		t.Fatalf("outside press must dismiss the popup")
	}

	openFully(ctrl, doc, Request{Trigger: ui.Point{X: 400, Y: 300}, Items: items("A")})
	ev := &event.Event{Type: event.KeyDown, Key: "Escape"}
	global.Handle(ev)
	for i := 0; i < 60 && ctrl.Visible(); i++ {
		ctrl.Update(1.0 / 60)
	}
	if ctrl.Visible() {
		t.Fatalf("escape must dismiss the popup")
	}
	if !ev.Stopped() {
		t.Fatalf("escape that closed a popup should not propagate")
	}
}
