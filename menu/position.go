package menu

import "github.com/milk9111/leveled/ui"

// Side records which way a popup opened relative to its trigger, so the
// show animation can originate from the trigger corner.
type Side int

const (
	OpenRight Side = iota
	OpenLeft
	OpenBelow
	OpenAbove
	Centered
)

func (s Side) String() string {
	switch s {
	case OpenRight:
		return "right"
	case OpenLeft:
		return "left"
	case OpenBelow:
		return "below"
	case OpenAbove:
		return "above"
	case Centered:
		return "centered"
	default:
		return "unknown"
	}
}

// Placement is the computed popup origin plus the quadrant it opened
// toward.
type Placement struct {
	X, Y       float64
	Horizontal Side
	Vertical   Side
}

// triggerPad is how far inside the popup edge the trigger point is pulled
// when clamping pushed the popup off the trigger. Keeping the cursor over
// the popup prevents an immediate spurious mouse-leave close.
const triggerPad = 2

// Position computes where a popup of the given size goes for a trigger
// point. The quadrant with room wins: right/below of the trigger when the
// popup plus margin fits, flipped to left/above otherwise, centered and
// clamped as a last resort. Owner bounds are a soft preference, the
// viewport is a hard constraint, and the trigger always ends up on the
// popup.
func Position(trigger ui.Point, size ui.Size, viewport ui.Size, owner *ui.Rect, margin float64) Placement {
	p := Placement{}

	// Horizontal: prefer opening right of the trigger.
	switch {
	case viewport.W-trigger.X >= size.W+margin:
		p.X = trigger.X
		p.Horizontal = OpenRight
	case trigger.X >= size.W+margin:
		p.X = trigger.X - size.W
		p.Horizontal = OpenLeft
	default:
		p.X = clamp(trigger.X-size.W/2, margin, viewport.W-size.W-margin)
		p.Horizontal = Centered
	}

	// Vertical: prefer opening below.
	switch {
	case viewport.H-trigger.Y >= size.H+margin:
		p.Y = trigger.Y
		p.Vertical = OpenBelow
	case trigger.Y >= size.H+margin:
		p.Y = trigger.Y - size.H
		p.Vertical = OpenAbove
	default:
		p.Y = clamp(trigger.Y-size.H/2, margin, viewport.H-size.H-margin)
		p.Vertical = Centered
	}

	if owner != nil {
		p.X = nudge(p.X, size.W, owner.X, owner.Right(), margin, viewport.W)
		p.Y = nudge(p.Y, size.H, owner.Y, owner.Bottom(), margin, viewport.H)
	}

	// If clamping or nudging pushed the popup off the trigger, shift it
	// back by the minimum needed to put the trigger just inside an edge.
	if trigger.X < p.X {
		p.X = trigger.X - triggerPad
	} else if trigger.X > p.X+size.W {
		p.X = trigger.X - size.W + triggerPad
	}
	if trigger.Y < p.Y {
		p.Y = trigger.Y - triggerPad
	} else if trigger.Y > p.Y+size.H {
		p.Y = trigger.Y - size.H + triggerPad
	}

	return p
}

// nudge pulls one axis of the popup into the owner span where that is
// still compatible with the viewport margins.
func nudge(pos, size, ownerLo, ownerHi, margin, viewportSize float64) float64 {
	if pos+size > ownerHi {
		pos = ownerHi - size
	}
	if pos < ownerLo {
		pos = ownerLo
	}
	return clamp(pos, margin, viewportSize-size-margin)
}

func clamp(v, lo, hi float64) float64 {
	if hi < lo {
		// popup larger than the clamp window; pin to the near edge
		return lo
	}
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
