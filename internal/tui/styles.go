package tui

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/Zuo-Peng/ai-chat-calendar/internal/record"
)

var (
	// Colors
	colorPrimary   = lipgloss.Color("12")  // bright blue
	colorDim       = lipgloss.Color("240") // gray
	colorHighlight = lipgloss.Color("11")  // bright yellow
	colorBorder    = lipgloss.Color("238") // dark gray

	platformColors = map[record.Platform]lipgloss.Color{
		record.Claude:     lipgloss.Color("208"),
		record.ChatGPT:    lipgloss.Color("10"),
		record.Gemini:     lipgloss.Color("12"),
		record.Perplexity: lipgloss.Color("14"),
		record.Copilot:    lipgloss.Color("13"),
	}

	// Input area
	styleInput = lipgloss.NewStyle().
			Foreground(colorPrimary).
			Bold(true)

	styleInputPrompt = lipgloss.NewStyle().
				Foreground(colorPrimary).
				Bold(true)

	// List items
	styleListSelected = lipgloss.NewStyle().
				Foreground(colorHighlight).
				Bold(true)

	styleStar = lipgloss.NewStyle().
			Foreground(colorHighlight)

	styleDim = lipgloss.NewStyle().
			Foreground(colorDim)

	// Panels
	stylePanelBorder = lipgloss.NewStyle().
				Border(lipgloss.RoundedBorder()).
				BorderForeground(colorBorder)

	styleActiveBorder = lipgloss.NewStyle().
				Border(lipgloss.RoundedBorder()).
				BorderForeground(colorPrimary)

	// Status bar
	styleStatusBar = lipgloss.NewStyle().
			Foreground(colorDim).
			Padding(0, 1)
)

func platformStyle(p record.Platform) lipgloss.Style {
	s := lipgloss.NewStyle().Width(10)
	if c, ok := platformColors[p]; ok {
		s = s.Foreground(c)
	}
	return s
}
