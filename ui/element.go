// Package ui holds the retained element tree the editor panels are built
// from: tagged elements with ids, classes and datasets, absolute bounds,
// and a document that owns the root and answers hit tests. Panels build
// subtrees, the event registry matches selectors against them, and the
// renderer draws them back-to-front.
package ui

import (
	"image/color"
)

// Element is one node of the retained tree. Bounds are absolute screen
// coordinates; layout is the owner's job, not the tree's.
type Element struct {
	Tag     string
	ID      string
	Text    string
	Dataset map[string]string
	Bounds  Rect

	// Style fields consumed by the renderer. Alpha exists so popup
	// tweens can fade an element without touching Bounds.
	Background color.RGBA
	Foreground color.RGBA
	Border     color.RGBA
	HasBg      bool
	HasBorder  bool
	Alpha      float64
	Disabled   bool

	// HitTransparent elements never hit-test themselves, only their
	// children. Used by full-screen overlay layers and decoration-only
	// elements like the marquee rectangle.
	HitTransparent bool

	classes  []string
	visible  bool
	parent   *Element
	children []*Element
}

// NewElement returns a detached, visible element with the given tag.
func NewElement(tag string) *Element {
	return &Element{Tag: tag, visible: true, Alpha: 1}
}

func (e *Element) Parent() *Element     { return e.parent }
func (e *Element) Children() []*Element { return e.children }

func (e *Element) Visible() bool     { return e.visible }
func (e *Element) SetVisible(v bool) { e.visible = v }

// AppendChild attaches child as the last (topmost) child. A child already
// attached elsewhere is moved, not duplicated.
func (e *Element) AppendChild(child *Element) *Element {
	if child == nil || child == e {
		return e
	}
	if child.parent != nil {
		child.parent.RemoveChild(child)
	}
	child.parent = e
	e.children = append(e.children, child)
	return e
}

// RemoveChild detaches child from e. Removing a child that is not attached
// to e is a no-op.
func (e *Element) RemoveChild(child *Element) {
	if child == nil || child.parent != e {
		return
	}
	for i, c := range e.children {
		if c == child {
			e.children = append(e.children[:i], e.children[i+1:]...)
			break
		}
	}
	child.parent = nil
}

// Remove detaches e from its parent, if any.
func (e *Element) Remove() {
	if e.parent != nil {
		e.parent.RemoveChild(e)
	}
}

// RemoveAllChildren detaches every child. Used by panels that rebuild their
// content subtree on state change.
func (e *Element) RemoveAllChildren() {
	for _, c := range e.children {
		c.parent = nil
	}
	e.children = e.children[:0]
}

func (e *Element) AddClass(name string) *Element {
	if name == "" || e.HasClass(name) {
		return e
	}
	e.classes = append(e.classes, name)
	return e
}

func (e *Element) RemoveClass(name string) {
	for i, c := range e.classes {
		if c == name {
			e.classes = append(e.classes[:i], e.classes[i+1:]...)
			return
		}
	}
}

func (e *Element) HasClass(name string) bool {
	for _, c := range e.classes {
		if c == name {
			return true
		}
	}
	return false
}

func (e *Element) SetData(key, value string) *Element {
	if e.Dataset == nil {
		e.Dataset = make(map[string]string)
	}
	e.Dataset[key] = value
	return e
}

func (e *Element) Data(key string) string {
	return e.Dataset[key]
}

// Root walks to the top of the tree e is attached to.
func (e *Element) Root() *Element {
	n := e
	for n.parent != nil {
		n = n.parent
	}
	return n
}

// Contains reports whether other is e or a descendant of e.
func (e *Element) Contains(other *Element) bool {
	for n := other; n != nil; n = n.parent {
		if n == e {
			return true
		}
	}
	return false
}

// Find returns the first element in the subtree (preorder, e included) for
// which match returns true.
func (e *Element) Find(match func(*Element) bool) *Element {
	if match(e) {
		return e
	}
	for _, c := range e.children {
		if found := c.Find(match); found != nil {
			return found
		}
	}
	return nil
}

// FindByID returns the descendant (or e itself) with the given id.
func (e *Element) FindByID(id string) *Element {
	return e.Find(func(n *Element) bool { return n.ID == id })
}

// Walk visits the subtree in preorder. Returning false from visit skips the
// element's children.
func (e *Element) Walk(visit func(*Element) bool) {
	if !visit(e) {
		return
	}
	for _, c := range e.children {
		c.Walk(visit)
	}
}
