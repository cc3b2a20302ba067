package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"

	"github.com/Zuo-Peng/ai-chat-calendar/internal/record"
)

// linesPerItem is the number of terminal lines each record occupies.
const linesPerItem = 2

// renderList renders the left panel: the filtered records with scrolling.
func (m model) renderList(width, height int) string {
	if len(m.results) == 0 {
		return lipgloss.NewStyle().
			Foreground(colorDim).
			Width(width).
			Height(height).
			Align(lipgloss.Center, lipgloss.Center).
			Render("No records")
	}

	var lines []string
	for i, r := range m.results {
		if i < m.listOffset {
			continue
		}
		if len(lines)+linesPerItem > height {
			break
		}
		lines = append(lines, formatRecordLine(r, width, i == m.cursor)...)
	}

	for len(lines) < height {
		lines = append(lines, strings.Repeat(" ", width))
	}

	return strings.Join(lines, "\n")
}

// formatRecordLine formats a record as two lines:
//
//	line 1: [>] [*] platform  MM-DD  title
//	line 2:    tags  summary (dimmed)
func formatRecordLine(r record.Record, width int, selected bool) []string {
	star := " "
	if r.Starred {
		star = styleStar.Render("★")
	}
	src := platformStyle(r.Platform).Render(string(r.Platform))
	date := r.Date.Format("01-02")

	titleMax := width - 2 - 2 - 10 - 6 - 1 // prefix + star + platform + date + padding
	if titleMax < 0 {
		titleMax = 0
	}
	title := strings.ReplaceAll(r.Title, "\n", " ")
	if runewidth.StringWidth(title) > titleMax {
		title = runewidth.Truncate(title, titleMax, "…")
	}

	line1 := fmt.Sprintf("%s %s %s %s", star, src, date, title)
	if selected {
		line1 = styleListSelected.Render("> ") + line1
	} else {
		line1 = "  " + line1
	}

	detail := fmt.Sprintf("[%s] %s", strings.Join(r.Tags, ","), strings.ReplaceAll(r.Summary, "\n", " "))
	detailMax := width - 4 // indent
	if detailMax < 0 {
		detailMax = 0
	}
	if runewidth.StringWidth(detail) > detailMax {
		detail = runewidth.Truncate(detail, detailMax, "")
	}
	line2 := "    " + styleDim.Render(detail)

	return []string{line1, line2}
}

// adjustListScroll keeps the cursor visible within the list viewport.
func (m *model) adjustListScroll(listHeight int) {
	visibleItems := listHeight / linesPerItem
	if visibleItems < 1 {
		visibleItems = 1
	}
	if m.cursor < m.listOffset {
		m.listOffset = m.cursor
	}
	if m.cursor >= m.listOffset+visibleItems {
		m.listOffset = m.cursor - visibleItems + 1
	}
}
