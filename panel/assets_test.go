package panel

import (
	"testing"

	"github.com/milk9111/leveled/event"
	"github.com/milk9111/leveled/gesture"
	"github.com/milk9111/leveled/level"
	"github.com/milk9111/leveled/menu"
	"github.com/milk9111/leveled/theme"
	"github.com/milk9111/leveled/ui"
)

func newAssetsFixture(t *testing.T) (*Assets, *ui.Document, *event.Registry) {
	t.Helper()
	doc := ui.NewDocument(1000, 800)
	reg := event.NewRegistry(doc)
	th := theme.Default()
	ed := NewEditor(level.New("t", 4, 4, 16), gesture.NewState())
	menus := menu.NewController(doc, reg, th, nil)
	a := NewAssets(t.TempDir(), ed, doc, reg, menus, th, nil)
	return a, doc, reg
}

func TestFilterKeepsFocusAcrossRebuild(t *testing.T) {
	a, doc, reg := newAssetsFixture(t)

	filter := a.Content.FindByID("asset-filter")
	if filter == nil {
		t.Fatalf("expected a filter element")
	}
	reg.Dispatch(&event.Event{Type: event.Click, Button: event.ButtonLeft, X: filter.Bounds.X + 1, Y: filter.Bounds.Y + 1, Target: filter})
	if doc.Focused() == nil {
		t.Fatalf("click must focus the filter")
	}

	// each keystroke rebuilds the content subtree; focus has to follow
	// the replacement filter element or later keys fall through
	reg.Dispatch(&event.Event{Type: event.KeyDown, Key: "b", Target: doc.Focused()})
	if a.filter != "b" {
		t.Fatalf("expected filter %q, got %q", "b", a.filter)
	}
	refreshed := a.Content.FindByID("asset-filter")
	if refreshed == nil || doc.Focused() != refreshed {
		t.Fatalf("focus must move to the rebuilt filter element")
	}

	reg.Dispatch(&event.Event{Type: event.KeyDown, Key: "e", Target: doc.Focused()})
	if a.filter != "be" {
		t.Fatalf("expected filter %q, got %q", "be", a.filter)
	}
}

func TestFilterEscapeClearsAndKeepsFocus(t *testing.T) {
	a, doc, reg := newAssetsFixture(t)

	filter := a.Content.FindByID("asset-filter")
	reg.Dispatch(&event.Event{Type: event.Click, Button: event.ButtonLeft, X: filter.Bounds.X + 1, Y: filter.Bounds.Y + 1, Target: filter})
	reg.Dispatch(&event.Event{Type: event.KeyDown, Key: "x", Target: doc.Focused()})
	reg.Dispatch(&event.Event{Type: event.KeyDown, Key: "Escape", Target: doc.Focused()})

	if a.filter != "" {
		t.Fatalf("escape must clear the filter, got %q", a.filter)
	}
	if doc.Focused() == nil {
		t.Fatalf("clearing the filter must not drop focus")
	}
}
