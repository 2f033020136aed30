package ui

import (
	"bytes"
	"image/color"
	"log"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/text/v2"
	"golang.org/x/image/font/gofont/goregular"
)

// Renderer draws a document back-to-front with a single shared pixel image
// and one text face. Alpha multiplies down the tree so a fading popup fades
// its items with it.
type Renderer struct {
	pixel    *ebiten.Image
	face     *text.GoTextFace
	FontSize float64
}

func NewRenderer(fontSize float64) *Renderer {
	src, err := text.NewGoTextFaceSource(bytes.NewReader(goregular.TTF))
	if err != nil {
		// goregular is embedded in the binary; failing to parse it is a
		// build defect, not a runtime condition.
		log.Fatalf("parse embedded font: %v", err)
	}
	pixel := ebiten.NewImage(1, 1)
	pixel.Fill(color.White)
	return &Renderer{
		pixel:    pixel,
		face:     &text.GoTextFace{Source: src, Size: fontSize},
		FontSize: fontSize,
	}
}

// TextWidth measures s with the renderer's face.
func (r *Renderer) TextWidth(s string) float64 {
	w, _ := text.Measure(s, r.face, 0)
	return w
}

func (r *Renderer) Draw(screen *ebiten.Image, doc *Document) {
	r.drawElement(screen, doc.Root(), 1)
}

func (r *Renderer) drawElement(screen *ebiten.Image, el *Element, alpha float64) {
	if !el.Visible() {
		return
	}
	alpha *= el.Alpha
	if alpha <= 0 {
		return
	}

	b := el.Bounds
	if el.HasBg && b.Width > 0 && b.Height > 0 {
		op := &ebiten.DrawImageOptions{}
		op.GeoM.Scale(b.Width, b.Height)
		op.GeoM.Translate(b.X, b.Y)
		op.ColorScale.ScaleWithColor(el.Background)
		op.ColorScale.ScaleAlpha(float32(alpha))
		screen.DrawImage(r.pixel, op)
	}
	if el.HasBorder && b.Width > 0 && b.Height > 0 {
		r.strokeRect(screen, b, el.Border, alpha)
	}
	if el.Text != "" {
		op := &text.DrawOptions{}
		pad := (b.Height - r.FontSize) / 2
		if pad < 0 {
			pad = 0
		}
		op.GeoM.Translate(b.X+6, b.Y+pad)
		fg := el.Foreground
		if fg == (color.RGBA{}) {
			fg = color.RGBA{230, 230, 230, 255}
		}
		if el.Disabled {
			fg = color.RGBA{120, 120, 120, 255}
		}
		op.ColorScale.ScaleWithColor(fg)
		op.ColorScale.ScaleAlpha(float32(alpha))
		text.Draw(screen, el.Text, r.face, op)
	}

	for _, c := range el.Children() {
		r.drawElement(screen, c, alpha)
	}
}

func (r *Renderer) strokeRect(screen *ebiten.Image, b Rect, c color.RGBA, alpha float64) {
	edges := []Rect{
		{X: b.X, Y: b.Y, Width: b.Width, Height: 1},
		{X: b.X, Y: b.Bottom() - 1, Width: b.Width, Height: 1},
		{X: b.X, Y: b.Y, Width: 1, Height: b.Height},
		{X: b.Right() - 1, Y: b.Y, Width: 1, Height: b.Height},
	}
	for _, e := range edges {
		op := &ebiten.DrawImageOptions{}
		op.GeoM.Scale(e.Width, e.Height)
		op.GeoM.Translate(e.X, e.Y)
		op.ColorScale.ScaleWithColor(c)
		op.ColorScale.ScaleAlpha(float32(alpha))
		screen.DrawImage(r.pixel, op)
	}
}
