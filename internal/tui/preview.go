package tui

import (
	"fmt"

	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/Zuo-Peng/ai-chat-calendar/internal/record"
	"github.com/Zuo-Peng/ai-chat-calendar/internal/render"
)

// previewRenderedMsg is sent when an async preview render completes.
type previewRenderedMsg struct {
	key     string
	content string
	hitLine int
}

// loadPreviewCmd returns a tea.Cmd that renders the record preview async.
func loadPreviewCmd(r record.Record, query string, width int) tea.Cmd {
	key := previewCacheKey(r, width)
	return func() tea.Msg {
		content, hitLine := render.Record(r, render.Options{
			Width: width,
			Query: query,
		})
		return previewRenderedMsg{key: key, content: content, hitLine: hitLine}
	}
}

func previewCacheKey(r record.Record, width int) string {
	return fmt.Sprintf("%s:%s:%t:%d", r.ID, r.Date.Format("20060102150405"), r.Starred, width)
}

// newViewport creates a new viewport model with the given dimensions.
func newViewport(width, height int) viewport.Model {
	vp := viewport.New(width, height)
	vp.Style = stylePanelBorder
	return vp
}
