package termhost

import (
	"github.com/agiangrant/pressable"
	"github.com/agiangrant/pressable/retained"
	"github.com/gdamore/tcell/v2"
	"github.com/mattn/go-runewidth"
)

// Draw renders every button and the status row, then shows the screen.
func (h *Host) Draw() {
	h.screen.Clear()
	for _, it := range h.app.Items {
		h.drawButton(it)
	}

	_, height := h.screen.Size()
	h.drawText(0, height-1, h.status, tcell.StyleDefault.Dim(true))
	h.screen.Show()
}

func (h *Host) drawButton(it *pressable.Item) {
	b := it.Button
	if !b.IsActive() {
		return
	}
	bounds := b.Bounds()
	x, y := int(bounds.X), int(bounds.Y)

	bg := tintColor(it)
	style := tcell.StyleDefault.Background(rgb(bg)).Foreground(rgb(contrast(bg)))
	if b.HasSelection() {
		style = style.Bold(true)
	}

	label := "  " + it.Config.Label + "  "
	h.drawText(x, y, label, style)

	// Selection marker in the gutter
	if b.HasSelection() {
		h.screen.SetContent(x-2, y, '>', nil, tcell.StyleDefault)
	}
}

// drawText writes s starting at x, advancing by each rune's cell width.
func (h *Host) drawText(x, y int, s string, style tcell.Style) {
	width, _ := h.screen.Size()
	s = runewidth.Truncate(s, width-x, "…")
	for _, r := range s {
		h.screen.SetContent(x, y, r, nil, style)
		x += runewidth.RuneWidth(r)
	}
}

func tintColor(it *pressable.Item) uint32 {
	if it.Tint != nil {
		return it.Tint.Color()
	}
	return retained.DefaultColorBlock().Color(it.Button.CurrentSelectionState())
}

func rgb(c uint32) tcell.Color {
	return tcell.NewRGBColor(int32(c>>24&0xFF), int32(c>>16&0xFF), int32(c>>8&0xFF))
}

// contrast picks black or white text for an RGBA background.
func contrast(c uint32) uint32 {
	r, g, b := float64(c>>24&0xFF), float64(c>>16&0xFF), float64(c>>8&0xFF)
	if 0.299*r+0.587*g+0.114*b > 140 {
		return 0x000000FF
	}
	return 0xFFFFFFFF
}
