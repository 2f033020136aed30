// Package event is the delegation registry: UI code declares "when event E
// occurs on an element matching selector S inside container C, call F"
// and the registry keeps exactly one listener per (container, event type)
// no matter how many rules target that pair. Dispatch walks the ancestor
// chain from the hit-test target and fires at most one rule per container.
package event

import "github.com/milk9111/leveled/ui"

// Type names a logical input event. The input package synthesizes these
// from host state once per frame.
type Type string

const (
	Click       Type = "click"
	DoubleClick Type = "dblclick"
	ContextMenu Type = "contextmenu"
	MouseDown   Type = "mousedown"
	MouseMove   Type = "mousemove"
	MouseUp     Type = "mouseup"
	KeyDown     Type = "keydown"
	Wheel       Type = "wheel"
	Resize      Type = "resize"
)

// MouseButton identifies which button an event carries.
type MouseButton int

const (
	ButtonNone MouseButton = iota - 1
	ButtonLeft
	ButtonRight
	ButtonMiddle
)

// Event is one dispatched occurrence. Target is the deepest element under
// the cursor (or the focused element for key events); X/Y are screen
// coordinates.
type Event struct {
	Type    Type
	X, Y    float64
	Button  MouseButton
	Key     string
	Rune    rune
	WheelX  float64
	WheelY  float64
	Target  *ui.Element
	stopped bool
}

// StopPropagation prevents containers further along the ancestor chain
// from seeing this event. It never suppresses the rule already chosen for
// the current container.
func (e *Event) StopPropagation() { e.stopped = true }

// Stopped reports whether a handler called StopPropagation.
func (e *Event) Stopped() bool { return e.stopped }

// Handler receives the event and the element the winning selector matched.
type Handler func(ev *Event, matched *ui.Element)

// Rule pairs a selector with a handler. An empty selector is the
// catch-all: it fires only when no selector rule matched. Rules are
// immutable after registration; re-registering a container replaces its
// rules wholesale.
type Rule struct {
	Selector string
	Fn       Handler
}

// Handlers maps event types to ordered rule lists for RegisterContainer.
type Handlers map[Type][]Rule

// ElementHandlers maps event types to flat handlers for RegisterElement,
// where the element itself is the target and no selector matching runs.
type ElementHandlers map[Type]Handler
