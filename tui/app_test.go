// ABOUTME: Tests for the top-level AppModel and the event bridge.
// ABOUTME: Drives the model with acquisition and playback messages and checks phases and rendering.
package tui

import (
	"context"
	"math/rand/v2"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/2389-research/lifeline/emergency"
	"github.com/2389-research/lifeline/plan"
	"github.com/2389-research/lifeline/playback"
)

type stubAcquirer struct {
	res   plan.Result
	input string
}

func (s *stubAcquirer) Acquire(_ context.Context, input, _ string) plan.Result {
	s.input = input
	return s.res
}

func fallbackResult() plan.Result {
	sc := emergency.SecurityScenario.Clone()
	return plan.Result{
		AttemptID: "attempt-1",
		Plan:      sc.FallbackPlan(),
		Events:    sc.Events,
		Outcome:   plan.OutcomeFallback,
		Scenario:  sc.Name,
	}
}

func sized(t *testing.T, m AppModel) AppModel {
	t.Helper()
	updated, _ := m.Update(tea.WindowSizeMsg{Width: 120, Height: 40})
	return updated.(AppModel)
}

func TestAcquireCmdSendsResult(t *testing.T) {
	acq := &stubAcquirer{res: fallbackResult()}
	msg := AcquireCmd(context.Background(), acq, "有人跟踪我", "")()
	got, ok := msg.(AcquiredMsg)
	if !ok {
		t.Fatalf("msg type = %T, want AcquiredMsg", msg)
	}
	if got.Result.AttemptID != "attempt-1" || acq.input != "有人跟踪我" {
		t.Errorf("unexpected acquisition: %+v input=%q", got.Result, acq.input)
	}
}

func TestAppModelInitialView(t *testing.T) {
	m := NewAppModel(Options{Input: "头疼"})
	if m.View() != "Initializing..." {
		t.Errorf("view before size = %q", m.View())
	}
	m = sized(t, m)
	if m.Phase() != PhaseAcquiring {
		t.Errorf("phase = %v, want acquiring", m.Phase())
	}
	if !strings.Contains(m.View(), "acquiring") {
		t.Error("status bar should show acquiring")
	}
}

func TestAppModelTooSmall(t *testing.T) {
	m := NewAppModel(Options{})
	updated, _ := m.Update(tea.WindowSizeMsg{Width: 20, Height: 5})
	if !strings.Contains(updated.(AppModel).View(), "too small") {
		t.Error("expected too-small message")
	}
}

func TestAppModelAcquiredWithoutEngineShowsSummary(t *testing.T) {
	m := sized(t, NewAppModel(Options{Input: "有人跟踪我"}))
	res := fallbackResult()
	updated, cmd := m.Update(AcquiredMsg{Result: res})
	m = updated.(AppModel)
	if cmd != nil {
		t.Error("no playback command expected without an engine")
	}
	if m.Phase() != PhaseDone {
		t.Errorf("phase = %v, want done", m.Phase())
	}
	view := m.View()
	if !strings.Contains(view, res.Plan.Summary.Title) {
		t.Errorf("view missing summary title %q", res.Plan.Summary.Title)
	}
	if !strings.Contains(view, "DONE (fallback)") {
		t.Error("view missing fallback completion marker")
	}
}

func TestAppModelPlaysThroughEngine(t *testing.T) {
	msgs := make(chan tea.Msg, 32)
	bridge := NewEventBridge(func(msg tea.Msg) { msgs <- msg })
	engine := playback.NewEngine(playback.Config{
		Interval:    time.Millisecond,
		SettleDelay: -1,
		Rand:        rand.New(rand.NewPCG(1, 2)),
		Observer:    bridge.HandleUpdate,
	})

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	res := fallbackResult()
	m := sized(t, NewAppModel(Options{Ctx: ctx, Cancel: cancel, Engine: engine, Bridge: bridge, Input: "有人跟踪我"}))

	updated, cmd := m.Update(AcquiredMsg{Result: res})
	m = updated.(AppModel)
	if m.Phase() != PhasePlaying {
		t.Fatalf("phase = %v, want playing", m.Phase())
	}
	if cmd == nil {
		t.Fatal("expected playback command")
	}
	if msg := cmd(); msg != nil {
		t.Fatalf("start returned %v", msg)
	}

	deadline := time.After(5 * time.Second)
	for m.Phase() != PhaseDone {
		select {
		case msg := <-msgs:
			updated, _ = m.Update(msg)
			m = updated.(AppModel)
		case <-deadline:
			t.Fatal("playback did not complete")
		}
	}

	if m.log.Len() != len(res.Events) {
		t.Errorf("log entries = %d, want %d", m.log.Len(), len(res.Events))
	}
	if m.graph.Len() < 2 {
		t.Errorf("graph nodes = %d, want discovered nodes beyond me", m.graph.Len())
	}
	if !m.summary.HasPlan() {
		t.Error("summary should show the plan")
	}
}

func TestAppModelStartErrorMarksFailed(t *testing.T) {
	m := sized(t, NewAppModel(Options{}))
	updated, _ := m.Update(PlaybackErrorMsg{Err: playback.ErrAlreadyStarted})
	m = updated.(AppModel)
	if m.Err() == nil || m.Phase() != PhaseDone {
		t.Fatal("expected failed done state")
	}
	if !strings.Contains(m.View(), "FAILED") {
		t.Error("view missing failure marker")
	}
}

func TestAppModelQuitCancels(t *testing.T) {
	cancelled := false
	m := NewAppModel(Options{Cancel: func() { cancelled = true }})
	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("q")})
	if !cancelled {
		t.Error("quit should cancel the run")
	}
	if cmd == nil {
		t.Fatal("expected quit command")
	}
	if _, ok := cmd().(tea.QuitMsg); !ok {
		t.Error("expected tea.QuitMsg")
	}
}

func TestAppModelTabTogglesFocus(t *testing.T) {
	m := NewAppModel(Options{})
	updated, _ := m.Update(tea.KeyMsg{Type: tea.KeyTab})
	m = updated.(AppModel)
	if m.focus != FocusLog || !m.log.IsFocused() {
		t.Error("tab should focus the log")
	}
	updated, _ = m.Update(tea.KeyMsg{Type: tea.KeyTab})
	m = updated.(AppModel)
	if m.focus != FocusGraph || m.log.IsFocused() {
		t.Error("second tab should focus the graph")
	}
}

func TestTickStopsWhenDone(t *testing.T) {
	m := NewAppModel(Options{})
	_, cmd := m.Update(TickMsg{Time: time.Now()})
	if cmd == nil {
		t.Error("tick should reschedule while running")
	}
	m.phase = PhaseDone
	_, cmd = m.Update(TickMsg{Time: time.Now()})
	if cmd != nil {
		t.Error("tick should stop once done")
	}
}
