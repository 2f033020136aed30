package ui

import "testing"

func TestParseSelectorMatches(t *testing.T) {
	tab := NewElement("div")
	tab.AddClass("tab").AddClass("active")
	tab.ID = "main-tab"
	tab.SetData("asset-id", "tiles.png")

	cases := []struct {
		selector string
		want     bool
	}{
		{"div", true},
		{"span", false},
		{"*", true},
		{".tab", true},
		{".tab.active", true},
		{".tab.closed", false},
		{"#main-tab", true},
		{"#other", false},
		{"div.tab", true},
		{"span.tab", false},
		{"[data-asset-id]", true},
		{"[asset-id]", true},
		{"[data-asset-id=tiles.png]", true},
		{"[data-asset-id=other.png]", false},
		{"[data-missing]", false},
		{`div.tab[data-asset-id="tiles.png"]`, true},
	}

	for _, c := range cases {
		t.Run(c.selector, func(t *testing.T) {
			sel, err := ParseSelector(c.selector)
			if err != nil {
				t.Fatalf("parse %q: %v", c.selector, err)
			}
			if got := sel.Matches(tab); got != c.want {
				t.Fatalf("selector %q: expected %v, got %v", c.selector, c.want, got)
			}
		})
	}
}

func TestParseSelectorErrors(t *testing.T) {
	bad := []string{"", ".", "#", "[", "[=v]", ".tab .active", "a > b"}
	for _, s := range bad {
		if _, err := ParseSelector(s); err == nil {
			t.Fatalf("expected parse error for %q", s)
		}
	}
}

func TestDocumentHitTest(t *testing.T) {
	doc := NewDocument(800, 600)

	panel := NewElement("panel")
	panel.Bounds = Rect{X: 100, Y: 100, Width: 200, Height: 200}
	doc.Body(panel)

	row := NewElement("row")
	row.Bounds = Rect{X: 110, Y: 110, Width: 180, Height: 20}
	panel.AppendChild(row)

	hidden := NewElement("row")
	hidden.Bounds = Rect{X: 110, Y: 140, Width: 180, Height: 20}
	hidden.SetVisible(false)
	panel.AppendChild(hidden)

	cases := []struct {
		name string
		at   Point
		want *Element
	}{
		{"deepest_child", Point{X: 120, Y: 115}, row},
		{"panel_body", Point{X: 120, Y: 250}, panel},
		{"hidden_skipped", Point{X: 120, Y: 145}, panel},
		{"empty_space", Point{X: 500, Y: 500}, doc.Root()},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			if got := doc.HitTest(c.at); got != c.want {
				t.Fatalf("hit test at %+v: expected %s, got %s", c.at, c.want.Tag, got.Tag)
			}
		})
	}
}

func TestElementTreeOps(t *testing.T) {
	parent := NewElement("div")
	a := NewElement("a")
	b := NewElement("b")
	parent.AppendChild(a)
	parent.AppendChild(b)

	if len(parent.Children()) != 2 || a.Parent() != parent {
		t.Fatalf("append failed")
	}

	other := NewElement("div")
	other.AppendChild(a) // reparent
	if a.Parent() != other || len(parent.Children()) != 1 {
		t.Fatalf("reparenting must move, not duplicate")
	}

	b.Remove()
	if len(parent.Children()) != 0 || b.Parent() != nil {
		t.Fatalf("remove failed")
	}

	if !other.Contains(a) || other.Contains(b) {
		t.Fatalf("contains misreported")
	}
}
