package panel

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/eminiarts/tweakpine/config"
	"github.com/eminiarts/tweakpine/schema"
	"github.com/eminiarts/tweakpine/tui/theme"
)

const (
	defaultBoxWidth = 56
	labelWidth      = 16
	sliderWidth     = 14
)

// View renders the panel box, anchored to its corner when the window size is known.
func (m Model) View() string {
	panel, ok := m.store.GetPanel(m.panelID)
	if !ok {
		return m.theme.Error.Render("panel closed")
	}

	inner := m.boxWidth - 4
	var b strings.Builder
	b.WriteString(m.renderHeader(panel.Name, inner))
	b.WriteString("\n\n")

	for i, r := range m.rows {
		b.WriteString(m.renderRow(r, i == m.cursor, inner))
		b.WriteString("\n")
	}

	switch m.mode {
	case modeEdit, modeSaveName:
		b.WriteString("\n")
		b.WriteString(m.input.View())
	}
	if m.status != "" {
		b.WriteString("\n")
		if m.statusErr {
			b.WriteString(m.theme.Error.Render(theme.IconError + " " + m.status))
		} else {
			b.WriteString(m.theme.Success.Render(theme.IconSuccess + " " + m.status))
		}
	}
	b.WriteString("\n")
	b.WriteString(m.help.View(m.keys))

	box := m.theme.Box.Width(m.boxWidth).Render(b.String())
	if m.width == 0 || m.height == 0 {
		return box
	}
	h, v := placement(m.position)
	return lipgloss.Place(m.width, m.height, h, v, box)
}

func placement(position string) (lipgloss.Position, lipgloss.Position) {
	switch position {
	case config.PositionTopLeft:
		return lipgloss.Left, lipgloss.Top
	case config.PositionBottomLeft:
		return lipgloss.Left, lipgloss.Bottom
	case config.PositionBottomRight:
		return lipgloss.Right, lipgloss.Bottom
	default:
		return lipgloss.Right, lipgloss.Top
	}
}

func (m Model) renderHeader(name string, width int) string {
	label := BaseLabel
	active, _ := m.store.GetActivePresetID(m.panelID)
	presets, _ := m.store.GetPresets(m.panelID)
	for _, p := range presets {
		if p.ID == active {
			label = p.Name
		}
	}
	right := m.theme.Muted.Render(theme.IconPreset + " " + label)
	left := m.theme.Header.Render(name)
	gap := width - lipgloss.Width(left) - lipgloss.Width(right)
	if gap < 1 {
		gap = 1
	}
	return left + strings.Repeat(" ", gap) + right
}

func (m Model) renderRow(r row, selected bool, width int) string {
	cursor := "  "
	if selected {
		cursor = m.theme.Cursor.Render(theme.IconArrow) + " "
	}
	indent := strings.Repeat("  ", r.depth)

	var line string
	switch {
	case r.field != nil:
		spring, _ := m.currentSpring(r.meta.Path)
		f := *r.field
		line = m.renderLabel(f.Label) + m.renderSlider(spring.Field(f.Key), f.Min, f.Max, f.Step)
	case r.meta.Kind == schema.KindFolder:
		icon := theme.IconFolderClosed
		if m.open[r.meta.Path] {
			icon = theme.IconFolderOpen
		}
		line = m.theme.Folder.Render(icon + " " + r.meta.Label)
	case r.meta.Kind == schema.KindAction:
		line = m.theme.Accent.Render(theme.IconAction + " " + r.meta.Label)
	default:
		value, _ := m.store.GetValue(m.panelID, r.meta.Path)
		line = m.renderLabel(r.meta.Label) + m.renderValue(r.meta, value)
	}

	out := cursor + indent + line
	if selected {
		return m.theme.Selected.Render(padRight(out, width))
	}
	return out
}

func (m Model) renderLabel(label string) string {
	return m.theme.Label.Render(padRight(truncate(label, labelWidth-1), labelWidth))
}

func (m Model) renderValue(meta schema.ControlMeta, value schema.Value) string {
	switch n := meta.Node.(type) {
	case schema.Number:
		v, _ := value.(float64)
		return m.renderSlider(v, n.Min, n.Max, n.Step)
	case schema.Boolean:
		if b, _ := value.(bool); b {
			return m.theme.Success.Render("[x] on")
		}
		return m.theme.Muted.Render("[ ] off")
	case schema.Color:
		s, _ := value.(string)
		return m.renderSwatch(s)
	case schema.Select:
		s, _ := value.(string)
		label := s
		if i := n.OptionIndex(s); i >= 0 {
			label = n.Options[i].Label
		}
		return m.theme.Muted.Render("‹ ") + m.theme.Value.Render(label) + m.theme.Muted.Render(" ›")
	case schema.Text:
		s, _ := value.(string)
		if s == "" {
			return m.theme.Placeholder.Render(n.Placeholder)
		}
		return m.theme.Value.Render(truncate(s, sliderWidth+8))
	case schema.Spring:
		s, _ := value.(schema.SpringConfig)
		mode, _ := m.store.GetSpringMode(m.panelID, meta.Path)
		return m.theme.Accent.Render(theme.IconSpring+" "+Sparkline(s, mode, sliderWidth)) + " " + m.theme.Muted.Render(string(mode))
	}
	return ""
}

func (m Model) renderSlider(v, min, max, step float64) string {
	return m.theme.Fill.Render(strings.Repeat("━", sliderFill(v, min, max, sliderWidth))) +
		m.theme.Track.Render(strings.Repeat("─", sliderWidth-sliderFill(v, min, max, sliderWidth))) +
		" " + m.theme.Value.Render(formatNumber(v, step))
}

func (m Model) renderSwatch(hex string) string {
	bg, fg, ok := SwatchColors(hex)
	if !ok {
		return m.theme.Error.Render(hex)
	}
	return lipgloss.NewStyle().Background(lipgloss.Color(bg)).Foreground(lipgloss.Color(fg)).Render(" " + hex + " ")
}

func padRight(s string, width int) string {
	if w := lipgloss.Width(s); w < width {
		return s + strings.Repeat(" ", width-w)
	}
	return s
}

func truncate(s string, max int) string {
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	if max <= 1 {
		return string(runes[:max])
	}
	return string(runes[:max-1]) + "…"
}
