// ABOUTME: Implements a single-line status bar for the bottom of the TUI showing playback progress.
// ABOUTME: Displays the input, elapsed time, emitted event count, and whether the plan is AI-generated.
package tui

import (
	"fmt"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/2389-research/lifeline/plan"
)

// maxInputLen bounds how many characters of the input the bar shows.
const maxInputLen = 24

// StatusBarModel displays playback status in a single line.
type StatusBarModel struct {
	input     string
	startTime time.Time
	total     int
	emitted   int
	outcome   plan.Outcome
	width     int
}

// NewStatusBarModel creates a status bar for the given input.
func NewStatusBarModel(input string) StatusBarModel {
	return StatusBarModel{input: input}
}

// Start records the start time.
func (m *StatusBarModel) Start() {
	m.startTime = time.Now()
}

// SetAcquired records the event total and plan origin.
func (m *StatusBarModel) SetAcquired(total int, outcome plan.Outcome) {
	m.total = total
	m.outcome = outcome
}

// SetEmitted updates the emitted event count.
func (m *StatusBarModel) SetEmitted(n int) {
	m.emitted = n
}

// SetWidth sets the bar width for rendering.
func (m *StatusBarModel) SetWidth(w int) {
	m.width = w
}

// Elapsed returns the time since Start() was called, or zero if not started.
func (m StatusBarModel) Elapsed() time.Duration {
	if m.startTime.IsZero() {
		return 0
	}
	return time.Since(m.startTime)
}

// formatElapsed formats a duration as "12s" under a minute and "2m30s" above.
func formatElapsed(d time.Duration) string {
	d = d.Truncate(time.Second)
	if d < time.Minute {
		return fmt.Sprintf("%ds", int(d.Seconds()))
	}
	minutes := int(d.Minutes())
	seconds := int(d.Seconds()) - minutes*60
	return fmt.Sprintf("%dm%ds", minutes, seconds)
}

func truncateInput(s string) string {
	runes := []rune(s)
	if len(runes) <= maxInputLen {
		return s
	}
	return string(runes[:maxInputLen]) + "..."
}

func sourceLabel(o plan.Outcome) string {
	switch o {
	case plan.OutcomeGenerated:
		return "AI"
	case plan.OutcomeFallback:
		return "fallback"
	default:
		return "acquiring"
	}
}

// View renders the status bar as a single styled line.
func (m StatusBarModel) View() string {
	content := fmt.Sprintf("Input: %s | Elapsed: %s | %d/%d events | Plan: %s",
		truncateInput(m.input), formatElapsed(m.Elapsed()), m.emitted, m.total, sourceLabel(m.outcome))

	style := StatusBarStyle.Width(m.width)
	return lipgloss.PlaceHorizontal(m.width, lipgloss.Left, style.Render(content))
}
