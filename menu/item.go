package menu

import (
	"github.com/milk9111/leveled/event"
	"github.com/milk9111/leveled/ui"
)

// Context is the caller-defined data a menu is shown against: the element
// the trigger matched, its dataset, and the trigger position. Predicates
// and actions receive it so one definition serves every row of a panel.
type Context struct {
	Target *ui.Element
	Data   map[string]string
	X, Y   float64
}

// Item is one entry of a menu: an action with optional visibility and
// enabled predicates, or a separator. Read-only once built; the build
// function assembles a fresh slice before each show.
type Item struct {
	Label     string
	Icon      string
	Shortcut  string
	Action    func(Context)
	Visible   func(Context) bool
	Enabled   func(Context) bool
	Separator bool
}

func (it Item) visible(ctx Context) bool {
	return it.Visible == nil || it.Visible(ctx)
}

func (it Item) enabled(ctx Context) bool {
	return it.Enabled == nil || it.Enabled(ctx)
}

// Definition bundles the strategy functions for one kind of context menu:
// how to extract context from the matched element and which items to
// offer. Panels hold a Definition instead of subclassing anything.
type Definition struct {
	ID             string
	BuildItems     func(Context) []Item
	ExtractContext func(ev *event.Event, matched *ui.Element) Context
}

// ExtractDataset is the default context extractor: the matched element's
// dataset plus the trigger position.
func ExtractDataset(ev *event.Event, matched *ui.Element) Context {
	ctx := Context{Target: matched, X: ev.X, Y: ev.Y}
	if matched != nil && len(matched.Dataset) > 0 {
		ctx.Data = make(map[string]string, len(matched.Dataset))
		for k, v := range matched.Dataset {
			ctx.Data[k] = v
		}
	}
	return ctx
}

// Request is one transient show request.
type Request struct {
	Trigger  ui.Point
	Items    []Item
	Context  Context
	Owner    *ui.Rect
	Fallback ui.Size
}
