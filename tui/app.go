// ABOUTME: Top-level Bubble Tea AppModel composing the network, log, summary and status bar panels.
// ABOUTME: Drives one coordination run: acquire a plan, replay it, then show the summary.
package tui

import (
	"context"
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/2389-research/lifeline/playback"
)

// tickInterval drives the spinner and elapsed timer.
const tickInterval = 100 * time.Millisecond

// Phase is where the run is.
type Phase int

const (
	PhaseAcquiring Phase = iota
	PhasePlaying
	PhaseDone
)

// FocusTarget indicates which panel currently has keyboard focus.
type FocusTarget int

const (
	FocusGraph FocusTarget = iota
	FocusLog
)

// Options wires an AppModel to the pipeline. Engine must have been created
// with Bridge.HandleUpdate as its observer.
type Options struct {
	Ctx      context.Context
	Cancel   context.CancelFunc
	Acquirer Acquirer
	Engine   *playback.Engine
	Bridge   *EventBridge
	Input    string
	Token    string
}

// AppModel is the top-level Bubble Tea model.
type AppModel struct {
	graph     GraphPanelModel
	log       LogPanelModel
	summary   SummaryPanelModel
	statusBar StatusBarModel

	opts Options

	phase    Phase
	focus    FocusTarget
	fallback bool
	err      error
	width    int
	height   int
}

// NewAppModel creates an AppModel in the acquiring phase.
func NewAppModel(opts Options) AppModel {
	if opts.Ctx == nil {
		opts.Ctx = context.Background()
	}
	return AppModel{
		graph:     NewGraphPanelModel(playback.MeNode),
		log:       NewLogPanelModel(200),
		summary:   NewSummaryPanelModel(),
		statusBar: NewStatusBarModel(opts.Input),
		opts:      opts,
		phase:     PhaseAcquiring,
		focus:     FocusGraph,
	}
}

// Phase returns the current phase.
func (m AppModel) Phase() Phase {
	return m.phase
}

// Err returns the playback start error, if any.
func (m AppModel) Err() error {
	return m.err
}

// Init implements tea.Model.
func (m AppModel) Init() tea.Cmd {
	return tea.Batch(
		AcquireCmd(m.opts.Ctx, m.opts.Acquirer, m.opts.Input, m.opts.Token),
		TickCmd(tickInterval),
	)
}

// Update implements tea.Model.
func (m AppModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case AcquiredMsg:
		return m.handleAcquired(msg)

	case PlaybackUpdateMsg:
		return m.handleUpdate(msg)

	case PlaybackCompleteMsg:
		m.phase = PhaseDone
		m.graph.SetRunning(false)
		m.summary.SetPlan(msg.Plan)
		return m, nil

	case PlaybackErrorMsg:
		m.phase = PhaseDone
		m.err = msg.Err
		m.graph.SetRunning(false)
		return m, nil

	case TickMsg:
		m.graph.AdvanceSpinner()
		if m.phase == PhaseDone {
			return m, nil
		}
		return m, TickCmd(tickInterval)

	case tea.KeyMsg:
		return m.handleKeyMsg(msg)
	}

	return m, nil
}

func (m AppModel) handleAcquired(msg AcquiredMsg) (tea.Model, tea.Cmd) {
	res := msg.Result
	m.phase = PhasePlaying
	m.fallback = !res.Plan.IsAIGenerated
	m.statusBar.Start()
	m.statusBar.SetAcquired(len(res.Events), res.Outcome)
	m.graph.SetRunning(true)
	if m.opts.Engine == nil || m.opts.Bridge == nil {
		m.phase = PhaseDone
		m.graph.SetRunning(false)
		m.summary.SetPlan(res.Plan)
		return m, nil
	}
	return m, StartPlaybackCmd(m.opts.Ctx, m.opts.Engine, res, m.opts.Bridge)
}

func (m AppModel) handleUpdate(msg PlaybackUpdateMsg) (tea.Model, tea.Cmd) {
	u := msg.Update
	m.log.Append(u.Entry)
	newest := ""
	if u.NewNode != nil {
		newest = u.NewNode.ID
	}
	m.graph.SetNodes(u.Nodes, newest)
	m.statusBar.SetEmitted(u.Index + 1)
	return m, nil
}

func (m AppModel) handleKeyMsg(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q", "ctrl+c":
		if m.opts.Cancel != nil {
			m.opts.Cancel()
		}
		return m, tea.Quit

	case "tab":
		if m.focus == FocusGraph {
			m.focus = FocusLog
		} else {
			m.focus = FocusGraph
		}
		m.log.SetFocused(m.focus == FocusLog)
		return m, nil
	}

	if m.focus == FocusLog {
		var cmd tea.Cmd
		m.log, cmd = m.log.Update(msg)
		return m, cmd
	}
	return m, nil
}

// View implements tea.Model.
func (m AppModel) View() string {
	if m.width == 0 || m.height == 0 {
		return "Initializing..."
	}
	if m.width < 40 || m.height < 10 {
		return fmt.Sprintf("Terminal too small (%dx%d). Minimum: 40x10.", m.width, m.height)
	}

	statusBarHeight := 1
	graphHeight := max((m.height-statusBarHeight)*40/100, 3)
	bottomHeight := max(m.height-statusBarHeight-graphHeight, 3)
	summaryWidth := max(m.width*40/100, 10)
	logWidth := max(m.width-summaryWidth, 10)

	m.graph.SetWidth(m.width)
	m.summary.SetSize(summaryWidth, bottomHeight)
	m.log.SetSize(logWidth, bottomHeight)
	m.statusBar.SetWidth(m.width)

	bottom := lipgloss.JoinHorizontal(lipgloss.Top, m.summary.View(), m.log.View())

	status := m.statusBar.View()
	switch {
	case m.err != nil:
		status += " " + FallbackStyle.Render(fmt.Sprintf("FAILED: %v", m.err))
	case m.phase == PhaseDone && m.fallback:
		status += " " + FallbackStyle.Render("DONE (fallback)")
	case m.phase == PhaseDone:
		status += " " + DoneStyle.Render("DONE")
	}

	var b strings.Builder
	b.WriteString(m.graph.View())
	b.WriteString("\n")
	b.WriteString(bottom)
	b.WriteString("\n")
	b.WriteString(status)
	return b.String()
}
