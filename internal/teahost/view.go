package teahost

import (
	"fmt"
	"strings"

	"github.com/agiangrant/pressable"
	"github.com/agiangrant/pressable/retained"
	"github.com/charmbracelet/lipgloss"
)

func (m *Model) View() string {
	var sb strings.Builder
	sb.WriteString(titleStyle.Render("pressable"))
	sb.WriteString("\n")

	// Rows follow the bounds set in New
	row := 1
	for _, it := range m.app.Items {
		y := int(it.Button.Bounds().Y)
		for ; row < y; row++ {
			sb.WriteString("\n")
		}
		sb.WriteString(renderItem(it))
	}
	sb.WriteString("\n\n")
	sb.WriteString(mutedStyle.Render(m.status))
	return sb.String()
}

func renderItem(it *pressable.Item) string {
	b := it.Button
	if !b.IsActive() {
		return ""
	}
	color := retained.DefaultColorBlock().Color(b.CurrentSelectionState())
	if it.Tint != nil {
		color = it.Tint.Color()
	}

	style := buttonStyle.
		Background(hexColor(color)).
		Foreground(hexColor(contrast(color)))
	prefix := strings.Repeat(" ", gutter)
	if b.HasSelection() {
		style = style.Bold(true)
		prefix = "> "
	}
	return prefix + style.Render(it.Config.Label)
}

func hexColor(c uint32) lipgloss.Color {
	return lipgloss.Color(fmt.Sprintf("#%06x", c>>8))
}

// contrast picks black or white text for an RGBA background.
func contrast(c uint32) uint32 {
	r, g, b := float64(c>>24&0xFF), float64(c>>16&0xFF), float64(c>>8&0xFF)
	if 0.299*r+0.587*g+0.114*b > 140 {
		return 0x000000FF
	}
	return 0xFFFFFFFF
}
