// ABOUTME: Bridge connecting the acquisition pipeline and playback engine to the Bubble Tea message loop.
// ABOUTME: Provides EventBridge for engine callbacks, and tea.Cmd factories for acquisition, playback and ticks.
package tui

import (
	"context"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/2389-research/lifeline/emergency"
	"github.com/2389-research/lifeline/plan"
	"github.com/2389-research/lifeline/playback"
)

// Acquirer produces plans. *plan.Orchestrator implements it.
type Acquirer interface {
	Acquire(ctx context.Context, input, token string) plan.Result
}

// EventBridge wraps a tea.Program's Send method for injecting playback
// updates into the Bubble Tea message loop.
type EventBridge struct {
	send func(msg tea.Msg)
}

// NewEventBridge creates an EventBridge that sends messages via the given function.
// Typically called with program.Send as the argument.
func NewEventBridge(send func(msg tea.Msg)) *EventBridge {
	return &EventBridge{send: send}
}

// HandleUpdate matches playback.Config.Observer.
func (b *EventBridge) HandleUpdate(u playback.Update) {
	b.send(PlaybackUpdateMsg{Update: u})
}

// HandleComplete is the engine's completion callback.
func (b *EventBridge) HandleComplete(p emergency.Plan) {
	b.send(PlaybackCompleteMsg{Plan: p})
}

// AcquireCmd returns a tea.Cmd that acquires a plan for input and sends an AcquiredMsg.
func AcquireCmd(ctx context.Context, acq Acquirer, input, token string) tea.Cmd {
	return func() tea.Msg {
		return AcquiredMsg{Result: acq.Acquire(ctx, input, token)}
	}
}

// StartPlaybackCmd returns a tea.Cmd that starts the engine on res. Updates
// and completion arrive through the bridge; only a start failure produces a message.
func StartPlaybackCmd(ctx context.Context, engine *playback.Engine, res plan.Result, bridge *EventBridge) tea.Cmd {
	return func() tea.Msg {
		if err := engine.Start(ctx, res.Events, res.Plan, bridge.HandleComplete); err != nil {
			return PlaybackErrorMsg{Err: err}
		}
		return nil
	}
}

// TickCmd returns a tea.Cmd that sends a TickMsg after the given interval.
// Used for spinner animation and the elapsed timer.
func TickCmd(interval time.Duration) tea.Cmd {
	return func() tea.Msg {
		time.Sleep(interval)
		return TickMsg{Time: time.Now()}
	}
}
