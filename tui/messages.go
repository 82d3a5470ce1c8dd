// ABOUTME: Bubble Tea message types used in the TUI message loop.
// ABOUTME: Each type wraps a pipeline stage result for the tea.Msg interface.
package tui

import (
	"time"

	"github.com/2389-research/lifeline/emergency"
	"github.com/2389-research/lifeline/plan"
	"github.com/2389-research/lifeline/playback"
)

// AcquiredMsg carries the acquisition result that playback will replay.
type AcquiredMsg struct {
	Result plan.Result
}

// PlaybackUpdateMsg wraps one emitted playback event.
type PlaybackUpdateMsg struct {
	Update playback.Update
}

// PlaybackCompleteMsg signals that playback finished and the plan can be shown.
type PlaybackCompleteMsg struct {
	Plan emergency.Plan
}

// PlaybackErrorMsg reports that playback could not start.
type PlaybackErrorMsg struct {
	Err error
}

// TickMsg is sent periodically to update timers and spinners.
type TickMsg struct {
	Time time.Time
}
