// Package gesture tracks the single interactive gesture in progress:
// marquee selection, canvas pan, painting, entity drag, or a panel
// resize. Exactly one gesture can be active at a time and there is one
// cancellation entry point, so a global right-click can always tear down
// whatever is in flight without knowing which panel started it.
package gesture

import "github.com/milk9111/leveled/logging"

// Kind enumerates the mutually-exclusive interaction modes.
type Kind int

const (
	None Kind = iota
	Marquee
	Pan
	Paint
	DragEntity
	ResizePanel
)

func (k Kind) String() string {
	switch k {
	case None:
		return "none"
	case Marquee:
		return "marquee"
	case Pan:
		return "pan"
	case Paint:
		return "paint"
	case DragEntity:
		return "drag-entity"
	case ResizePanel:
		return "resize-panel"
	default:
		return "unknown"
	}
}

// State holds the active gesture and its cancel hook. Created once in
// main and passed to every component that starts or cancels gestures.
type State struct {
	active   Kind
	onCancel func()
}

func NewState() *State {
	return &State{}
}

func (s *State) Active() Kind { return s.active }

// Begin starts a gesture, cancelling any gesture already in progress.
// onCancel runs only on Cancel, not on a normal End.
func (s *State) Begin(kind Kind, onCancel func()) {
	if kind == None {
		return
	}
	if s.active != None {
		logging.Debugf("gesture: %s interrupts %s", kind, s.active)
		s.Cancel()
	}
	s.active = kind
	s.onCancel = onCancel
}

// End completes the active gesture normally. Ending a gesture of a
// different kind than the active one is a no-op, so stale mouse-up
// handlers cannot clear someone else's gesture.
func (s *State) End(kind Kind) {
	if s.active != kind {
		return
	}
	s.active = None
	s.onCancel = nil
}

// Cancel aborts whatever gesture is active and runs its cancel hook
// exactly once. Cancelling with nothing active is a no-op.
func (s *State) Cancel() {
	if s.active == None {
		return
	}
	hook := s.onCancel
	logging.Debugf("gesture: cancel %s", s.active)
	s.active = None
	s.onCancel = nil
	if hook != nil {
		hook()
	}
}
