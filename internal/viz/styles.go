package viz

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

const (
	canvasPadTop  = 1
	canvasPadLeft = 2
)

func canvasStyle() lipgloss.Style {
	return lipgloss.NewStyle().
		Padding(canvasPadTop, canvasPadLeft).
		Foreground(CurrentTheme.Primary)
}

func statsStyle() lipgloss.Style {
	return lipgloss.NewStyle().
		Border(lipgloss.NormalBorder(), false, false, false, true).
		BorderForeground(CurrentTheme.Muted).
		Padding(1, 2).
		Width(44)
}

func headerStyle() lipgloss.Style {
	return lipgloss.NewStyle().Foreground(CurrentTheme.Primary).Bold(true).MarginBottom(1)
}

func labelStyle() lipgloss.Style {
	return lipgloss.NewStyle().Foreground(CurrentTheme.Muted).Width(12)
}

func valueStyle() lipgloss.Style {
	return lipgloss.NewStyle().Foreground(CurrentTheme.Text)
}

func mutedStyle() lipgloss.Style {
	return lipgloss.NewStyle().Foreground(CurrentTheme.Muted)
}

func activeStyle() lipgloss.Style {
	return lipgloss.NewStyle().Foreground(CurrentTheme.Accent).Bold(true)
}

func heldStyle() lipgloss.Style {
	return lipgloss.NewStyle().Foreground(CurrentTheme.Held).Bold(true)
}

func helpStyle() lipgloss.Style {
	return lipgloss.NewStyle().Foreground(CurrentTheme.Muted).MarginTop(1)
}

// ParamBar renders val against a scale of twice its initial value.
func ParamBar(val, initial float64, width int) string {
	ratio := 0.0
	if initial != 0 {
		ratio = val / (2 * initial)
	}
	if ratio > 1 {
		ratio = 1
	} else if ratio < 0 {
		ratio = 0
	}
	filled := int(ratio * float64(width))
	return "[" + strings.Repeat("=", filled) + strings.Repeat("-", width-filled) + "]"
}
