package event

import (
	"github.com/milk9111/leveled/logging"
	"github.com/milk9111/leveled/ui"
)

// captureTypes lists the event types whose listeners run in the capture
// phase (outermost container first) so panel resizers and drag trackers
// see them before the elements underneath.
var captureTypes = map[Type]bool{
	MouseMove: true,
	MouseUp:   true,
}

// Registry owns every container and element registration for one
// document. All methods are synchronous and must be called from the
// update goroutine; the registry never mutates application state itself.
type Registry struct {
	doc       *ui.Document
	bindings  []*binding
	byElement map[*ui.Element]*binding
}

// binding is one registration: a container (or single element) plus one
// listener record per event type present.
type binding struct {
	id        string
	el        *ui.Element
	flat      bool // registered via RegisterElement: no selector matching
	listeners map[Type]*listener
	order     int
}

// listener is the single native-listener record for one (container, type)
// pair. Rules keep registration order; catchAll is the empty-selector rule.
type listener struct {
	capture  bool
	rules    []compiledRule
	catchAll Handler
	flatFn   Handler
}

type compiledRule struct {
	raw string
	sel ui.Selector
	fn  Handler
}

func NewRegistry(doc *ui.Document) *Registry {
	return &Registry{
		doc:       doc,
		byElement: make(map[*ui.Element]*binding),
	}
}

// RegisterContainer attaches delegated handlers to container. For each
// event type present in h exactly one listener record is created,
// regardless of how many rules target that type. A nil container, or one
// not attached to the document, logs a warning and is a no-op.
// Registering a container that is already registered replaces its rules
// wholesale.
func (r *Registry) RegisterContainer(container *ui.Element, h Handlers, id string) {
	if container == nil {
		logging.Warnf("event: register %q: nil container", id)
		return
	}
	if !r.doc.Attached(container) {
		logging.Warnf("event: register %q: container not attached to document", id)
		return
	}
	if len(h) == 0 {
		logging.Warnf("event: register %q: empty handler map", id)
		return
	}

	b := r.obtain(container, id, false)
	b.listeners = make(map[Type]*listener, len(h))
	for typ, rules := range h {
		l := &listener{capture: captureTypes[typ]}
		for _, rule := range rules {
			if rule.Fn == nil {
				logging.Warnf("event: register %q: %s rule %q has no callback", id, typ, rule.Selector)
				continue
			}
			if rule.Selector == "" {
				// last empty-selector rule wins; matches the container
				l.catchAll = rule.Fn
				continue
			}
			sel, err := ui.ParseSelector(rule.Selector)
			if err != nil {
				logging.Warnf("event: register %q: %v", id, err)
				continue
			}
			l.rules = append(l.rules, compiledRule{raw: rule.Selector, sel: sel, fn: rule.Fn})
		}
		if len(l.rules) == 0 && l.catchAll == nil {
			continue
		}
		b.listeners[typ] = l
	}
}

// RegisterElement attaches flat handlers to a single element that is
// itself the target. Used for lone buttons, inputs and resizers.
func (r *Registry) RegisterElement(el *ui.Element, h ElementHandlers, id string) {
	if el == nil {
		logging.Warnf("event: register element %q: nil element", id)
		return
	}
	if !r.doc.Attached(el) {
		logging.Warnf("event: register element %q: element not attached to document", id)
		return
	}
	if len(h) == 0 {
		logging.Warnf("event: register element %q: empty handler map", id)
		return
	}

	b := r.obtain(el, id, true)
	b.listeners = make(map[Type]*listener, len(h))
	for typ, fn := range h {
		if fn == nil {
			continue
		}
		b.listeners[typ] = &listener{capture: captureTypes[typ], flatFn: fn}
	}
}

func (r *Registry) obtain(el *ui.Element, id string, flat bool) *binding {
	if b, ok := r.byElement[el]; ok {
		b.id = id
		b.flat = flat
		return b
	}
	b := &binding{id: id, el: el, flat: flat, order: len(r.bindings)}
	r.bindings = append(r.bindings, b)
	r.byElement[el] = b
	return b
}

// UnregisterContainer removes every listener record owned by the
// container's registration. Idempotent: unregistering twice, or a
// container that was never registered, is a no-op.
func (r *Registry) UnregisterContainer(container *ui.Element) {
	r.unregister(container)
}

// UnregisterElement is UnregisterContainer for element registrations.
func (r *Registry) UnregisterElement(el *ui.Element) {
	r.unregister(el)
}

func (r *Registry) unregister(el *ui.Element) {
	if el == nil {
		return
	}
	b, ok := r.byElement[el]
	if !ok {
		return
	}
	delete(r.byElement, el)
	for i, other := range r.bindings {
		if other == b {
			r.bindings = append(r.bindings[:i], r.bindings[i+1:]...)
			break
		}
	}
}

// ListenerCount returns the number of listener records held for el, one
// per event type with at least one rule.
func (r *Registry) ListenerCount(el *ui.Element) int {
	if b, ok := r.byElement[el]; ok {
		return len(b.listeners)
	}
	return 0
}

// Dispatch routes one synthesized event. The ancestor chain is walked
// from ev.Target to the root; every registered container on the chain
// with a listener for ev.Type gets exactly one callback: the first rule
// (in registration order) whose selector matches the deepest possible
// element, or the catch-all with the container itself. Capture
// registrations run outermost-first, then bubbling registrations
// innermost-first. A panicking callback is logged and does not affect
// sibling containers; StopPropagation halts the walk between containers.
func (r *Registry) Dispatch(ev *Event) {
	if ev == nil {
		return
	}
	if ev.Type == Resize {
		r.dispatchBroadcast(ev)
		return
	}
	if ev.Target == nil {
		return
	}

	chain := ancestorChain(ev.Target)

	var capture, bubble []*binding
	// chain is target-first; capture wants outermost-first
	for i := len(chain) - 1; i >= 0; i-- {
		if b, ok := r.byElement[chain[i]]; ok {
			if l, ok := b.listeners[ev.Type]; ok && l.capture {
				capture = append(capture, b)
			}
		}
	}
	for _, el := range chain {
		if b, ok := r.byElement[el]; ok {
			if l, ok := b.listeners[ev.Type]; ok && !l.capture {
				bubble = append(bubble, b)
			}
		}
	}

	for _, b := range capture {
		if ev.stopped {
			return
		}
		r.dispatchTo(b, ev)
	}
	for _, b := range bubble {
		if ev.stopped {
			return
		}
		r.dispatchTo(b, ev)
	}
}

// dispatchBroadcast delivers targetless events (resize) to every binding
// that listens for them, registration order.
func (r *Registry) dispatchBroadcast(ev *Event) {
	for _, b := range r.bindings {
		if _, ok := b.listeners[ev.Type]; ok {
			r.dispatchTo(b, ev)
		}
	}
}

// dispatchTo picks and runs at most one callback for one container.
func (r *Registry) dispatchTo(b *binding, ev *Event) {
	l := b.listeners[ev.Type]
	if l == nil {
		return
	}

	defer func() {
		if rec := recover(); rec != nil {
			logging.Errorf("event: handler panic (type=%s container=%s): %v", ev.Type, b.id, rec)
		}
	}()

	if b.flat {
		l.flatFn(ev, b.el)
		return
	}

	// Walk up from the target to the container; at each element test the
	// container's selectors in registration order. First match wins.
	for n := ev.Target; n != nil; n = n.Parent() {
		for _, rule := range l.rules {
			if rule.sel.Matches(n) {
				rule.fn(ev, n)
				return
			}
		}
		if n == b.el {
			break
		}
	}
	if l.catchAll != nil {
		l.catchAll(ev, b.el)
	}
}

func ancestorChain(el *ui.Element) []*ui.Element {
	chain := make([]*ui.Element, 0, 8)
	for n := el; n != nil; n = n.Parent() {
		chain = append(chain, n)
	}
	return chain
}
