package ui

// Document owns the root of the element tree, the viewport size, the last
// known cursor position, and keyboard focus. There is exactly one document
// per editor process; popups live on a dedicated overlay child of the root
// so they always hit-test above panel content.
type Document struct {
	root    *Element
	overlay *Element
	width   float64
	height  float64
	Cursor  Point
	focus   *Element
}

func NewDocument(width, height float64) *Document {
	root := NewElement("root")
	root.ID = "root"
	overlay := NewElement("overlay")
	overlay.ID = "overlay"
	overlay.HitTransparent = true
	root.AppendChild(overlay)
	d := &Document{root: root, overlay: overlay}
	d.SetViewport(width, height)
	return d
}

func (d *Document) Root() *Element    { return d.root }
func (d *Document) Overlay() *Element { return d.overlay }

func (d *Document) Width() float64  { return d.width }
func (d *Document) Height() float64 { return d.height }

// SetViewport resizes the root (and overlay) bounds. Panels relayout in
// response to the resize event the input layer emits alongside this.
func (d *Document) SetViewport(width, height float64) {
	d.width = width
	d.height = height
	d.root.Bounds = Rect{Width: width, Height: height}
	d.overlay.Bounds = d.root.Bounds
}

// Attached reports whether el is part of this document's tree.
func (d *Document) Attached(el *Element) bool {
	return el != nil && el.Root() == d.root
}

// Body appends a child directly under the root, below the overlay. Keeping
// the overlay as the last child preserves its hit-test priority.
func (d *Document) Body(el *Element) {
	d.root.AppendChild(el)
	// re-append so the overlay stays topmost
	d.root.AppendChild(d.overlay)
}

// HitTest returns the deepest visible element whose bounds contain the
// point. Later siblings are drawn on top, so children are tested in
// reverse order. Returns the root when nothing else matches.
func (d *Document) HitTest(p Point) *Element {
	if hit := hitTest(d.root, p); hit != nil {
		return hit
	}
	return d.root
}

func hitTest(el *Element, p Point) *Element {
	if !el.visible || !el.Bounds.Contains(p) {
		return nil
	}
	for i := len(el.children) - 1; i >= 0; i-- {
		if hit := hitTest(el.children[i], p); hit != nil {
			return hit
		}
	}
	if el.HitTransparent {
		return nil
	}
	return el
}

// Focus moves keyboard focus. Passing nil clears it.
func (d *Document) Focus(el *Element) {
	if el != nil && !d.Attached(el) {
		return
	}
	d.focus = el
}

// Focused returns the focused element, clearing stale focus on elements
// that have since been detached.
func (d *Document) Focused() *Element {
	if d.focus != nil && !d.Attached(d.focus) {
		d.focus = nil
	}
	return d.focus
}
