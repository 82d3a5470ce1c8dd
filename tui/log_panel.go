// ABOUTME: Implements a scrollable coordination log panel using the bubbles viewport component.
// ABOUTME: Displays playback events with color-coded formatting based on event kind.
package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/2389-research/lifeline/playback"
)

// LogPanelModel is a scrollable log of emitted playback events.
type LogPanelModel struct {
	entries  []playback.LogEntry
	max      int
	viewport viewport.Model
	focused  bool
	width    int
	height   int
}

// NewLogPanelModel creates a new log panel with a maximum number of entries.
// If maxEntries is <= 0, it defaults to 200.
func NewLogPanelModel(maxEntries int) LogPanelModel {
	if maxEntries <= 0 {
		maxEntries = 200
	}
	return LogPanelModel{
		entries:  make([]playback.LogEntry, 0, maxEntries),
		max:      maxEntries,
		viewport: viewport.New(80, 10),
	}
}

// Append adds an entry, evicting the oldest one at capacity.
func (m *LogPanelModel) Append(e playback.LogEntry) {
	if len(m.entries) >= m.max {
		m.entries = m.entries[1:]
	}
	m.entries = append(m.entries, e)
	m.syncViewport()
}

// Len returns the number of entries in the log.
func (m LogPanelModel) Len() int {
	return len(m.entries)
}

// SetFocused sets whether this panel accepts keyboard input.
func (m *LogPanelModel) SetFocused(focused bool) {
	m.focused = focused
}

// IsFocused returns whether the panel is focused.
func (m LogPanelModel) IsFocused() bool {
	return m.focused
}

// Update scrolls the viewport when the panel is focused.
func (m LogPanelModel) Update(msg tea.Msg) (LogPanelModel, tea.Cmd) {
	if !m.focused {
		return m, nil
	}
	var cmd tea.Cmd
	m.viewport, cmd = m.viewport.Update(msg)
	return m, cmd
}

// SetSize sets the available dimensions and updates the viewport.
func (m *LogPanelModel) SetSize(w, h int) {
	m.width = w
	m.height = h
	// Border takes two lines and two columns, the title one line.
	m.viewport.Width = max(w-2, 1)
	m.viewport.Height = max(h-3, 1)
	m.syncViewport()
}

// View renders the log panel.
func (m LogPanelModel) View() string {
	title := "COORDINATION LOG"
	if m.focused {
		title = "COORDINATION LOG (focused)"
	}

	content := "Waiting for the AI network..."
	if len(m.entries) > 0 {
		content = m.viewport.View()
	}

	style := BorderStyle
	if m.width > 2 {
		style = style.Width(m.width - 2)
	}
	if m.height > 2 {
		style = style.Height(m.height - 2)
	}
	return style.Render(TitleStyle.Render(title) + "\n" + content)
}

func (m *LogPanelModel) syncViewport() {
	lines := make([]string, 0, len(m.entries))
	for _, e := range m.entries {
		lines = append(lines, formatEntry(e))
	}
	m.viewport.SetContent(strings.Join(lines, "\n"))
	m.viewport.GotoBottom()
}

// formatEntry formats one log entry as "time kind source→target message".
func formatEntry(e playback.LogEntry) string {
	ts := LogTimestampStyle.Render(e.Timestamp.Format("15:04:05"))
	kind := StyleForKind(e.Kind).Render(fmt.Sprintf("%-9s", e.Kind))
	route := fmt.Sprintf("%s→%s", e.Source.Icon(), e.Target.Icon())
	return strings.Join([]string{ts, kind, route, e.Message}, " ")
}
