package viz

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

type styles struct {
	header lipgloss.Style
	label  lipgloss.Style
	value  lipgloss.Style
	panel  lipgloss.Style
	stats  lipgloss.Style
	graph  lipgloss.Style
	help   lipgloss.Style
	mode   map[string]lipgloss.Style
	high   lipgloss.Style
	mid    lipgloss.Style
	low    lipgloss.Style
	cursor lipgloss.Style
}

func newStyles(t Theme) styles {
	return styles{
		header: lipgloss.NewStyle().Foreground(t.Title).Bold(true).MarginBottom(1),
		label:  lipgloss.NewStyle().Foreground(t.Dim).Width(12),
		value:  lipgloss.NewStyle().Foreground(t.Text),
		panel: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(t.Frame),
		stats: lipgloss.NewStyle().
			Border(lipgloss.NormalBorder(), false, false, false, true).
			BorderForeground(t.Frame).
			Padding(0, 2).
			Width(44),
		graph: lipgloss.NewStyle().Foreground(t.Title),
		help:  lipgloss.NewStyle().Foreground(t.Dim).Italic(true),
		mode: map[string]lipgloss.Style{
			"idle":     lipgloss.NewStyle().Foreground(t.Idle).Bold(true),
			"held":     lipgloss.NewStyle().Foreground(t.Held).Bold(true),
			"rotating": lipgloss.NewStyle().Foreground(t.Rotating).Bold(true),
		},
		high:   lipgloss.NewStyle().Foreground(t.Bad),
		mid:    lipgloss.NewStyle().Foreground(t.Fair),
		low:    lipgloss.NewStyle().Foreground(t.Good),
		cursor: lipgloss.NewStyle().Foreground(t.Held).Bold(true),
	}
}

// ProgressBar renders a filled bar for a fraction in [0, 1].
func (s styles) ProgressBar(fraction float64, width int) string {
	filled := int(fraction * float64(width))
	filled = max(0, min(width, filled))
	return s.low.Render(strings.Repeat("█", filled)) + s.label.UnsetWidth().Render(strings.Repeat("░", width-filled))
}

// Sparkline renders the last width values as block characters scaled to the
// window's range. Large values are colored as warnings.
func (s styles) Sparkline(values []float64, width int) string {
	if len(values) == 0 {
		return strings.Repeat("─", width)
	}
	if len(values) > width {
		values = values[len(values)-width:]
	}

	chars := []rune{'▁', '▂', '▃', '▄', '▅', '▆', '▇', '█'}
	lo, hi := values[0], values[0]
	for _, v := range values {
		lo, hi = min(lo, v), max(hi, v)
	}
	rng := hi - lo
	if rng == 0 {
		rng = 1
	}

	var b strings.Builder
	for _, v := range values {
		norm := (v - lo) / rng
		c := string(chars[min(len(chars)-1, max(0, int(norm*float64(len(chars)-1))))])
		switch {
		case norm > 0.7:
			b.WriteString(s.high.Render(c))
		case norm > 0.3:
			b.WriteString(s.mid.Render(c))
		default:
			b.WriteString(s.low.Render(c))
		}
	}
	return b.String()
}
