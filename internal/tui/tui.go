// Package tui is an interactive terminal browser over the record collection.
package tui

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/atotto/clipboard"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/Zuo-Peng/ai-chat-calendar/internal/aggregate"
	"github.com/Zuo-Peng/ai-chat-calendar/internal/library"
	"github.com/Zuo-Peng/ai-chat-calendar/internal/record"
	"github.com/Zuo-Peng/ai-chat-calendar/internal/tags"
)

const debounceDelay = 200 * time.Millisecond

// message types

type filterResultMsg struct {
	query     string
	results   []record.Record
	analytics aggregate.Analytics
}

type debounceTickMsg struct {
	query string
}

// model

type model struct {
	lib         *library.Library
	opts        aggregate.Options
	query       string
	results     []record.Record
	analytics   aggregate.Analytics
	cursor      int
	listOffset  int
	filterInput textinput.Model
	preview     viewport.Model
	previewKey  string
	width       int
	height      int
	ready       bool
	quitting    bool
	selected    *record.Record
}

func initialModel(lib *library.Library, opts aggregate.Options) model {
	ti := textinput.New()
	ti.Placeholder = "Filter..."
	ti.Focus()
	ti.SetValue(opts.Query)
	ti.Prompt = "> "
	ti.PromptStyle = styleInputPrompt
	ti.TextStyle = styleInput
	ti.CharLimit = 256

	if opts.Scope == "" {
		opts.Scope = aggregate.ScopeAll
	}
	return model{
		lib:         lib,
		opts:        opts,
		query:       opts.Query,
		filterInput: ti,
		preview:     viewport.New(0, 0),
	}
}

// Run starts the browser and blocks until it exits. If the user picks a
// record with Enter, its content is copied to the clipboard (or printed to
// out when no clipboard is available).
func Run(lib *library.Library, opts aggregate.Options, out io.Writer) error {
	m := initialModel(lib, opts)
	p := tea.NewProgram(m, tea.WithAltScreen(), tea.WithMouseCellMotion())
	finalModel, err := p.Run()
	if err != nil {
		return fmt.Errorf("tui: %w", err)
	}

	fm := finalModel.(model)
	if fm.selected != nil {
		return copyContent(*fm.selected, out)
	}
	return nil
}

func copyContent(r record.Record, out io.Writer) error {
	if err := clipboard.WriteAll(r.Content); err != nil {
		_, err = fmt.Fprintln(out, r.Content)
		return err
	}
	_, err := fmt.Fprintf(out, "Copied to clipboard: %s (%s)\n", r.Title, r.ID)
	return err
}

// Init triggers the initial filter.
func (m model) Init() tea.Cmd {
	return tea.Batch(textinput.Blink, m.doFilter(m.query))
}

// Update handles messages.
func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd

	switch msg := msg.(type) {

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.ready = true
		m.preview = newViewport(m.previewWidth(), m.panelHeight())
		m.previewKey = ""
		cmds = append(cmds, m.loadCurrentPreview())
		return m, tea.Batch(cmds...)

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, keys.Quit):
			m.quitting = true
			return m, tea.Quit

		case key.Matches(msg, keys.Enter):
			if r, ok := m.current(); ok {
				m.selected = &r
				m.quitting = true
				return m, tea.Quit
			}
			return m, nil

		case key.Matches(msg, keys.Star):
			if r, ok := m.current(); ok {
				m.lib.ToggleStar(r.ID)
				return m, m.doFilter(m.query)
			}
			return m, nil

		case key.Matches(msg, keys.Scope):
			if m.opts.Scope == aggregate.ScopeHome {
				m.opts.Scope = aggregate.ScopeAll
			} else {
				m.opts.Scope = aggregate.ScopeHome
			}
			return m, m.doFilter(m.query)

		case key.Matches(msg, keys.Platform):
			m.opts.Platforms = nextPlatform(m.opts.Platforms)
			return m, m.doFilter(m.query)

		case key.Matches(msg, keys.Tag):
			m.opts.Tag = nextTag(m.opts.Tag)
			return m, m.doFilter(m.query)

		case key.Matches(msg, keys.Up):
			if m.cursor > 0 {
				m.cursor--
				m.adjustListScroll(m.panelHeight())
				cmds = append(cmds, m.loadCurrentPreview())
			}
			return m, tea.Batch(cmds...)

		case key.Matches(msg, keys.Down):
			if m.cursor < len(m.results)-1 {
				m.cursor++
				m.adjustListScroll(m.panelHeight())
				cmds = append(cmds, m.loadCurrentPreview())
			}
			return m, tea.Batch(cmds...)

		case key.Matches(msg, keys.PreviewUp):
			m.preview.LineUp(m.panelHeight() / 2)
			return m, nil

		case key.Matches(msg, keys.PreviewDn):
			m.preview.LineDown(m.panelHeight() / 2)
			return m, nil

		case key.Matches(msg, keys.PageUp):
			m.preview.LineUp(m.panelHeight())
			return m, nil

		case key.Matches(msg, keys.PageDown):
			m.preview.LineDown(m.panelHeight())
			return m, nil
		}

		// Pass remaining keys to text input
		var tiCmd tea.Cmd
		m.filterInput, tiCmd = m.filterInput.Update(msg)
		cmds = append(cmds, tiCmd)

		newQuery := m.filterInput.Value()
		if newQuery != m.query {
			m.query = newQuery
			cmds = append(cmds, m.scheduleDebouncedFilter(newQuery))
		}
		return m, tea.Batch(cmds...)

	case tea.MouseMsg:
		if !m.ready || len(m.results) == 0 {
			return m, nil
		}

		region, itemIdx := m.hitTest(msg.X, msg.Y)

		switch {
		case region == regionList && msg.Button == tea.MouseButtonWheelUp:
			if m.listOffset > 0 {
				m.listOffset--
			}
			return m, nil

		case region == regionList && msg.Button == tea.MouseButtonWheelDown:
			visibleItems := m.panelHeight() / linesPerItem
			maxOffset := len(m.results) - visibleItems
			if maxOffset < 0 {
				maxOffset = 0
			}
			if m.listOffset < maxOffset {
				m.listOffset++
			}
			return m, nil

		case region == regionList && msg.Button == tea.MouseButtonLeft && msg.Action == tea.MouseActionPress:
			if itemIdx >= 0 && itemIdx < len(m.results) && m.cursor != itemIdx {
				m.cursor = itemIdx
				m.adjustListScroll(m.panelHeight())
				cmds = append(cmds, m.loadCurrentPreview())
			}
			return m, tea.Batch(cmds...)

		case region == regionPreview && (msg.Button == tea.MouseButtonWheelUp || msg.Button == tea.MouseButtonWheelDown):
			var vpCmd tea.Cmd
			m.preview, vpCmd = m.preview.Update(msg)
			return m, vpCmd
		}
		return m, nil

	case debounceTickMsg:
		// Only filter if the query hasn't changed since the tick was scheduled
		if msg.query == m.query {
			cmds = append(cmds, m.doFilter(msg.query))
		}
		return m, tea.Batch(cmds...)

	case filterResultMsg:
		if msg.query != m.query {
			return m, nil
		}
		var selectedID string
		if r, ok := m.current(); ok {
			selectedID = r.ID
		}
		m.results = msg.results
		m.analytics = msg.analytics
		m.cursor = 0
		for i, r := range m.results {
			if r.ID == selectedID {
				m.cursor = i
				break
			}
		}
		m.listOffset = 0
		m.adjustListScroll(m.panelHeight())
		if len(m.results) == 0 {
			m.preview.SetContent("")
			m.previewKey = ""
			return m, nil
		}
		return m, m.loadCurrentPreview()

	case previewRenderedMsg:
		if msg.key == m.previewKey {
			return m, nil
		}
		if r, ok := m.current(); ok && previewCacheKey(r, m.previewWidth()) != msg.key {
			return m, nil // stale preview
		}
		m.preview.SetContent(msg.content)
		if msg.hitLine > 0 {
			m.preview.SetYOffset(msg.hitLine)
		} else {
			m.preview.GotoTop()
		}
		m.previewKey = msg.key
		return m, nil
	}

	return m, tea.Batch(cmds...)
}

// View renders the full TUI.
func (m model) View() string {
	if m.quitting || !m.ready {
		return ""
	}

	listW := m.listWidth()
	previewW := m.previewWidth()
	panelH := m.panelHeight()

	listPanel := stylePanelBorder.
		Width(listW).
		Height(panelH).
		Render(m.renderList(listW, panelH))

	m.preview.Width = previewW
	m.preview.Height = panelH
	previewPanel := styleActiveBorder.
		Width(previewW).
		Height(panelH).
		Render(m.preview.View())

	panels := lipgloss.JoinHorizontal(lipgloss.Top, listPanel, previewPanel)
	return lipgloss.JoinVertical(lipgloss.Left, m.filterInput.View(), panels, m.statusBar())
}

// helper methods

func (m model) current() (record.Record, bool) {
	if len(m.results) == 0 || m.cursor >= len(m.results) {
		return record.Record{}, false
	}
	return m.results[m.cursor], true
}

func (m model) listWidth() int {
	if m.width <= 0 {
		return 40
	}
	// 40% for list, minus border padding
	w := m.width*40/100 - 4
	if w < 20 {
		w = 20
	}
	return w
}

func (m model) previewWidth() int {
	if m.width <= 0 {
		return 60
	}
	// 60% for preview, minus border padding
	w := m.width*60/100 - 4
	if w < 20 {
		w = 20
	}
	return w
}

func (m model) panelHeight() int {
	if m.height <= 0 {
		return 20
	}
	// Subtract input row (1) + status bar (1) + borders (4)
	h := m.height - 6
	if h < 5 {
		h = 5
	}
	return h
}

type mouseRegion int

const (
	regionNone mouseRegion = iota
	regionList
	regionPreview
)

// hitTest maps terminal coordinates to a panel region and list item index.
func (m model) hitTest(x, y int) (mouseRegion, int) {
	pH := m.panelHeight()
	contentYStart := 2 // input row (1) + top border (1)
	contentYEnd := contentYStart + pH - 1

	if y < contentYStart || y > contentYEnd {
		return regionNone, -1
	}
	relY := y - contentYStart

	lw := m.listWidth()
	listBoxRight := lw + 1 // col 0=border, 1..lw=content, lw+1=border

	if x >= 1 && x <= lw {
		return regionList, m.listOffset + (relY / linesPerItem)
	}
	if x > listBoxRight+1 {
		return regionPreview, -1
	}
	return regionNone, -1
}

func (m model) statusBar() string {
	a := m.analytics
	tag := m.opts.Tag
	if tag == "" {
		tag = "any"
	}
	parts := []string{
		fmt.Sprintf("%d records", a.Total),
		fmt.Sprintf("★ %d", a.Starred),
		fmt.Sprintf("avg q %.1f", a.AverageQuality),
		fmt.Sprintf("scope %s", m.opts.Scope),
		fmt.Sprintf("platform %s", platformLabel(m.opts.Platforms)),
		fmt.Sprintf("tag %s", tag),
	}
	if top := a.TopTags(3); len(top) > 0 {
		var ranked []string
		for _, t := range top {
			ranked = append(ranked, fmt.Sprintf("%s(%d)", t.Tag, t.Count))
		}
		parts = append(parts, strings.Join(ranked, " "))
	}
	parts = append(parts, "C-s star", "tab scope", "C-p platform", "C-t tag", "Enter copy", "Esc quit")
	return styleStatusBar.Render(strings.Join(parts, " | "))
}

// nextPlatform cycles the platform filter: all, each platform alone, then
// none.
func nextPlatform(cur []record.Platform) []record.Platform {
	switch {
	case cur == nil:
		return []record.Platform{record.AllPlatforms[0]}
	case len(cur) == 0:
		return nil
	}
	for i, p := range record.AllPlatforms {
		if p == cur[0] && i+1 < len(record.AllPlatforms) {
			return []record.Platform{record.AllPlatforms[i+1]}
		}
	}
	return []record.Platform{}
}

// nextTag cycles the tag filter through every inferable tag, then back to
// any.
func nextTag(cur string) string {
	all := tags.Categories()
	if cur == "" {
		return all[0]
	}
	for i, t := range all {
		if t == cur && i+1 < len(all) {
			return all[i+1]
		}
	}
	return ""
}

func platformLabel(set []record.Platform) string {
	switch {
	case set == nil:
		return "all"
	case len(set) == 0:
		return aggregate.NoPlatforms
	}
	names := make([]string, len(set))
	for i, p := range set {
		names[i] = string(p)
	}
	return strings.Join(names, ",")
}

func (m model) doFilter(query string) tea.Cmd {
	lib := m.lib
	opts := m.opts
	opts.Query = query
	return func() tea.Msg {
		results := lib.Filtered(opts)
		return filterResultMsg{
			query:     query,
			results:   results,
			analytics: aggregate.Summarize(results),
		}
	}
}

func (m model) scheduleDebouncedFilter(query string) tea.Cmd {
	return tea.Tick(debounceDelay, func(time.Time) tea.Msg {
		return debounceTickMsg{query: query}
	})
}

func (m model) loadCurrentPreview() tea.Cmd {
	r, ok := m.current()
	if !ok {
		return nil
	}
	if previewCacheKey(r, m.previewWidth()) == m.previewKey {
		return nil // already showing this preview
	}
	return loadPreviewCmd(r, m.query, m.previewWidth())
}
