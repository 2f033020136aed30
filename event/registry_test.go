package event

import (
	"testing"

	"github.com/milk9111/leveled/ui"
)

func buildDoc() (*ui.Document, *ui.Element, *ui.Element, *ui.Element) {
	doc := ui.NewDocument(800, 600)
	container := ui.NewElement("div")
	doc.Body(container)

	tab := ui.NewElement("div")
	tab.AddClass("tab")
	container.AppendChild(tab)

	row := ui.NewElement("div")
	row.SetData("asset-id", "tiles.png")
	container.AppendChild(row)

	return doc, container, tab, row
}

func TestRegisterContainerListenerInvariant(t *testing.T) {
	cases := []struct {
		name     string
		handlers Handlers
		want     int
	}{
		{
			name: "one_type_many_rules",
			handlers: Handlers{
				Click: {
					{Selector: ".tab", Fn: func(*Event, *ui.Element) {}},
					{Selector: "[data-asset-id]", Fn: func(*Event, *ui.Element) {}},
					{Fn: func(*Event, *ui.Element) {}},
				},
			},
			want: 1,
		},
		{
			name: "two_types",
			handlers: Handlers{
				Click:       {{Selector: ".tab", Fn: func(*Event, *ui.Element) {}}},
				ContextMenu: {{Fn: func(*Event, *ui.Element) {}}},
			},
			want: 2,
		},
		{
			name: "rule_without_callback_dropped",
			handlers: Handlers{
				Click:     {{Selector: ".tab"}},
				MouseDown: {{Fn: func(*Event, *ui.Element) {}}},
			},
			want: 1,
		},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			doc, container, _, _ := buildDoc()
			reg := NewRegistry(doc)
			reg.RegisterContainer(container, c.handlers, "test")
			if got := reg.ListenerCount(container); got != c.want {
				t.Fatalf("expected %d listeners, got %d", c.want, got)
			}
		})
	}
}

func TestRegisterNilOrDetachedContainerIsNoop(t *testing.T) {
	doc, _, _, _ := buildDoc()
	reg := NewRegistry(doc)

	detached := ui.NewElement("div")
	reg.RegisterContainer(nil, Handlers{Click: {{Fn: func(*Event, *ui.Element) {}}}}, "nil")
	reg.RegisterContainer(detached, Handlers{Click: {{Fn: func(*Event, *ui.Element) {}}}}, "detached")

	if reg.ListenerCount(detached) != 0 {
		t.Fatalf("detached container should not be registered")
	}
}

func TestDispatchFirstMatchWins(t *testing.T) {
	doc, container, tab, row := buildDoc()
	reg := NewRegistry(doc)

	var tabHits, rowHits, catchHits int
	reg.RegisterContainer(container, Handlers{
		Click: {
			{Selector: ".tab", Fn: func(*Event, *ui.Element) { tabHits++ }},
			{Selector: "[data-asset-id]", Fn: func(*Event, *ui.Element) { rowHits++ }},
			{Fn: func(*Event, *ui.Element) { catchHits++ }},
		},
	}, "test")

	// click matching only the second selector fires only its callback
	reg.Dispatch(&Event{Type: Click, Target: row})
	if tabHits != 0 || rowHits != 1 || catchHits != 0 {
		t.Fatalf("expected only the asset rule to fire, got tab=%d row=%d catch=%d", tabHits, rowHits, catchHits)
	}

	reg.Dispatch(&Event{Type: Click, Target: tab})
	if tabHits != 1 || rowHits != 1 {
		t.Fatalf("expected tab rule to fire, got tab=%d row=%d", tabHits, rowHits)
	}

	// no selector matches: the catch-all fires with the container
	reg.Dispatch(&Event{Type: Click, Target: container})
	if catchHits != 1 {
		t.Fatalf("expected catch-all to fire once, got %d", catchHits)
	}
}

func TestDispatchRegistrationOrderBreaksTies(t *testing.T) {
	doc, container, _, row := buildDoc()
	row.AddClass("tab") // matches both selectors now
	reg := NewRegistry(doc)

	var first, second int
	reg.RegisterContainer(container, Handlers{
		Click: {
			{Selector: ".tab", Fn: func(*Event, *ui.Element) { first++ }},
			{Selector: "[data-asset-id]", Fn: func(*Event, *ui.Element) { second++ }},
		},
	}, "test")

	reg.Dispatch(&Event{Type: Click, Target: row})
	if first != 1 || second != 0 {
		t.Fatalf("first-registered selector should win ties, got first=%d second=%d", first, second)
	}
}

func TestDispatchMatchesDeepestAncestorFirst(t *testing.T) {
	doc, container, tab, _ := buildDoc()
	inner := ui.NewElement("span")
	tab.AppendChild(inner)
	reg := NewRegistry(doc)

	var matchedEl *ui.Element
	reg.RegisterContainer(container, Handlers{
		Click: {
			{Selector: ".tab", Fn: func(_ *Event, m *ui.Element) { matchedEl = m }},
		},
	}, "test")

	reg.Dispatch(&Event{Type: Click, Target: inner})
	if matchedEl != tab {
		t.Fatalf("expected ancestor walk to resolve the .tab element")
	}
}

func TestUnregisterRemovesAllListeners(t *testing.T) {
	doc, container, tab, _ := buildDoc()
	reg := NewRegistry(doc)

	var hits int
	reg.RegisterContainer(container, Handlers{
		Click:     {{Selector: ".tab", Fn: func(*Event, *ui.Element) { hits++ }}},
		MouseDown: {{Fn: func(*Event, *ui.Element) { hits++ }}},
	}, "test")

	reg.UnregisterContainer(container)
	if reg.ListenerCount(container) != 0 {
		t.Fatalf("expected zero listeners after unregister")
	}

	reg.Dispatch(&Event{Type: Click, Target: tab})
	reg.Dispatch(&Event{Type: MouseDown, Target: tab})
	if hits != 0 {
		t.Fatalf("expected no callbacks after unregister, got %d", hits)
	}

	// idempotent
	reg.UnregisterContainer(container)
	reg.UnregisterContainer(nil)
}

func TestDispatchPanicIsolation(t *testing.T) {
	doc, container, tab, _ := buildDoc()
	outer := ui.NewElement("section")
	doc.Body(outer)
	outer.AppendChild(container)

	reg := NewRegistry(doc)
	var outerHits int
	reg.RegisterContainer(container, Handlers{
		Click: {{Selector: ".tab", Fn: func(*Event, *ui.Element) { panic("broken handler") }}},
	}, "inner")
	reg.RegisterContainer(outer, Handlers{
		Click: {{Fn: func(*Event, *ui.Element) { outerHits++ }}},
	}, "outer")

	reg.Dispatch(&Event{Type: Click, Target: tab})
	if outerHits != 1 {
		t.Fatalf("panic in one container should not block siblings, got %d", outerHits)
	}
}

func TestStopPropagationBetweenContainers(t *testing.T) {
	doc, container, tab, _ := buildDoc()
	outer := ui.NewElement("section")
	doc.Body(outer)
	outer.AppendChild(container)

	reg := NewRegistry(doc)
	var outerHits int
	reg.RegisterContainer(container, Handlers{
		Click: {{Selector: ".tab", Fn: func(ev *Event, _ *ui.Element) { ev.StopPropagation() }}},
	}, "inner")
	reg.RegisterContainer(outer, Handlers{
		Click: {{Fn: func(*Event, *ui.Element) { outerHits++ }}},
	}, "outer")

	reg.Dispatch(&Event{Type: Click, Target: tab})
	if outerHits != 0 {
		t.Fatalf("stopped event must not reach outer container")
	}
}

func TestCaptureRunsBeforeBubble(t *testing.T) {
	doc, container, tab, _ := buildDoc()
	outer := ui.NewElement("section")
	doc.Body(outer)
	outer.AppendChild(container)

	reg := NewRegistry(doc)
	var order []string
	// mouseup is a capture type: the outer registration must fire first
	reg.RegisterContainer(outer, Handlers{
		MouseUp: {{Fn: func(*Event, *ui.Element) { order = append(order, "outer") }}},
	}, "outer")
	reg.RegisterContainer(container, Handlers{
		MouseUp: {{Fn: func(*Event, *ui.Element) { order = append(order, "inner") }}},
	}, "inner")

	reg.Dispatch(&Event{Type: MouseUp, Target: tab})
	if len(order) != 2 || order[0] != "outer" || order[1] != "inner" {
		t.Fatalf("expected capture order outer,inner, got %v", order)
	}
}

func TestRegisterElementFlatHandlers(t *testing.T) {
	doc, _, _, _ := buildDoc()
	btn := ui.NewElement("button")
	doc.Body(btn)
	inner := ui.NewElement("span")
	btn.AppendChild(inner)

	reg := NewRegistry(doc)
	var matched *ui.Element
	reg.RegisterElement(btn, ElementHandlers{
		Click: func(_ *Event, m *ui.Element) { matched = m },
	}, "button")

	// a click on a descendant still reports the registered element
	reg.Dispatch(&Event{Type: Click, Target: inner})
	if matched != btn {
		t.Fatalf("element registration should pass the element itself")
	}

	reg.UnregisterElement(btn)
	matched = nil
	reg.Dispatch(&Event{Type: Click, Target: inner})
	if matched != nil {
		t.Fatalf("expected no callback after unregister")
	}
}

func TestReRegisterReplacesRulesWholesale(t *testing.T) {
	doc, container, tab, _ := buildDoc()
	reg := NewRegistry(doc)

	var before, after int
	reg.RegisterContainer(container, Handlers{
		Click: {{Selector: ".tab", Fn: func(*Event, *ui.Element) { before++ }}},
	}, "test")
	reg.RegisterContainer(container, Handlers{
		Click: {{Selector: ".tab", Fn: func(*Event, *ui.Element) { after++ }}},
	}, "test")

	reg.Dispatch(&Event{Type: Click, Target: tab})
	if before != 0 || after != 1 {
		t.Fatalf("re-registration must replace rules, got before=%d after=%d", before, after)
	}
	if reg.ListenerCount(container) != 1 {
		t.Fatalf("expected a single listener after re-registration")
	}
}

func TestResizeBroadcast(t *testing.T) {
	doc, container, _, _ := buildDoc()
	other := ui.NewElement("aside")
	doc.Body(other)

	reg := NewRegistry(doc)
	var hits int
	reg.RegisterContainer(container, Handlers{
		Resize: {{Fn: func(*Event, *ui.Element) { hits++ }}},
	}, "a")
	reg.RegisterContainer(other, Handlers{
		Resize: {{Fn: func(*Event, *ui.Element) { hits++ }}},
	}, "b")

	reg.Dispatch(&Event{Type: Resize, X: 1024, Y: 768})
	if hits != 2 {
		t.Fatalf("resize should reach every listening container, got %d", hits)
	}
}
