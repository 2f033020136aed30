package panel

import (
	"github.com/milk9111/leveled/event"
	"github.com/milk9111/leveled/theme"
	"github.com/milk9111/leveled/ui"
)

// Dialog is a modal overlay with a title, an optional text field, and
// OK/Cancel buttons. One dialog can be open at a time; opening a second
// closes the first. Variants differ only by the strategy funcs passed to
// Open, not by subclassing.
type Dialog struct {
	doc *ui.Document
	reg *event.Registry
	th  *theme.Theme

	scrim *ui.Element
	box   *ui.Element
	field *ui.Element

	text     string
	hasField bool
	onAccept func(text string)
}

// NewDialog validates its preconditions up front and returns an error
// instead of a half-built value when the document has no overlay yet.
func NewDialog(doc *ui.Document, reg *event.Registry, th *theme.Theme) (*Dialog, error) {
	if doc == nil || doc.Overlay() == nil {
		return nil, errNoOverlay
	}
	return &Dialog{doc: doc, reg: reg, th: th}, nil
}

var errNoOverlay = errorString("dialog: document overlay missing")

type errorString string

func (e errorString) Error() string { return string(e) }

// Visible reports whether the dialog is open.
func (d *Dialog) Visible() bool { return d.scrim != nil }

// Prompt opens the dialog with a text field seeded with initial.
func (d *Dialog) Prompt(title, initial string, onAccept func(text string)) {
	d.open(title, initial, true, onAccept)
}

// Confirm opens the dialog with only OK/Cancel.
func (d *Dialog) Confirm(title string, onAccept func()) {
	d.open(title, "", false, func(string) { onAccept() })
}

func (d *Dialog) open(title, initial string, withField bool, onAccept func(string)) {
	if d.scrim != nil {
		d.Close()
	}
	d.text = initial
	d.hasField = withField
	d.onAccept = onAccept

	w, h := 320.0, 96.0
	if !withField {
		h = 72
	}
	x := (d.doc.Width() - w) / 2
	y := (d.doc.Height() - h) / 2

	d.scrim = ui.NewElement("scrim")
	d.scrim.ID = "dialog-scrim"
	d.scrim.Bounds = ui.Rect{Width: d.doc.Width(), Height: d.doc.Height()}
	d.scrim.HasBg = true
	d.scrim.Background = theme.Color("#000000")
	d.scrim.Alpha = 0.5

	d.box = ui.NewElement("dialog")
	d.box.Bounds = ui.Rect{X: x, Y: y, Width: w, Height: h}
	d.box.HasBg = true
	d.box.Background = theme.Color(d.th.Colors.Panel)
	d.box.HasBorder = true
	d.box.Border = theme.Color(d.th.Colors.Border)
	d.box.Alpha = 2 // cancel the scrim's alpha so the box reads solid

	titleEl := ui.NewElement("label")
	titleEl.Text = title
	titleEl.Foreground = theme.Color(d.th.Colors.Text)
	titleEl.Bounds = ui.Rect{X: x + 8, Y: y + 6, Width: w - 16, Height: d.th.TitleBarH}
	d.box.AppendChild(titleEl)

	row := y + 6 + d.th.TitleBarH
	if withField {
		d.field = ui.NewElement("input")
		d.field.Text = initial
		d.field.HasBg = true
		d.field.Background = theme.Color("#1a1a1a")
		d.field.Foreground = theme.Color(d.th.Colors.Text)
		d.field.HasBorder = true
		d.field.Border = theme.Color(d.th.Colors.Accent)
		d.field.Bounds = ui.Rect{X: x + 8, Y: row, Width: w - 16, Height: 22}
		d.box.AppendChild(d.field)
		row += 28
	}

	ok := button("OK", ui.Rect{X: x + w - 140, Y: row, Width: 60, Height: 22}, d.th)
	ok.SetData("dialog-action", "ok")
	cancel := button("Cancel", ui.Rect{X: x + w - 72, Y: row, Width: 64, Height: 22}, d.th)
	cancel.SetData("dialog-action", "cancel")
	d.box.AppendChild(ok)
	d.box.AppendChild(cancel)

	d.scrim.AppendChild(d.box)
	d.doc.Overlay().AppendChild(d.scrim)
	d.doc.Focus(d.field)

	d.reg.RegisterContainer(d.scrim, event.Handlers{
		event.Click: {
			{Selector: "[data-dialog-action=ok]", Fn: func(ev *event.Event, _ *ui.Element) {
				ev.StopPropagation()
				d.accept()
			}},
			{Selector: "[data-dialog-action=cancel]", Fn: func(ev *event.Event, _ *ui.Element) {
				ev.StopPropagation()
				d.Close()
			}},
			// clicks on the scrim outside the box cancel; clicks inside
			// the box are swallowed so they cannot reach panels below
			{Fn: func(ev *event.Event, _ *ui.Element) {
				ev.StopPropagation()
				if !d.box.Bounds.Contains(ui.Point{X: ev.X, Y: ev.Y}) {
					d.Close()
				}
			}},
		},
		event.KeyDown: {
			{Fn: func(ev *event.Event, _ *ui.Element) {
				ev.StopPropagation()
				d.key(ev)
			}},
		},
	}, "dialog")
}

func (d *Dialog) key(ev *event.Event) {
	switch ev.Key {
	case "Enter":
		d.accept()
	case "Escape":
		d.Close()
	case "Backspace":
		if d.hasField && len(d.text) > 0 {
			d.text = d.text[:len(d.text)-1]
			d.field.Text = d.text
		}
	}
	// printable characters arrive through AppendRunes, not key names
}

// AppendRunes feeds typed characters from the host's text input, which
// carries shifted and non-ASCII characters key names cannot.
func (d *Dialog) AppendRunes(runes []rune) {
	if !d.hasField || d.scrim == nil {
		return
	}
	d.text += string(runes)
	d.field.Text = d.text
}

func (d *Dialog) accept() {
	fn := d.onAccept
	text := d.text
	d.Close()
	if fn != nil {
		fn(text)
	}
}

// Close tears the dialog down and unregisters its handlers. Idempotent.
func (d *Dialog) Close() {
	if d.scrim == nil {
		return
	}
	d.reg.UnregisterContainer(d.scrim)
	d.scrim.Remove()
	d.scrim = nil
	d.box = nil
	d.field = nil
	d.onAccept = nil
	d.doc.Focus(nil)
}

func button(label string, r ui.Rect, th *theme.Theme) *ui.Element {
	b := ui.NewElement("button")
	b.Text = label
	b.Bounds = r
	b.HasBg = true
	b.Background = theme.Color(th.Colors.PanelTitle)
	b.Foreground = theme.Color(th.Colors.Text)
	b.HasBorder = true
	b.Border = theme.Color(th.Colors.Border)
	return b
}
