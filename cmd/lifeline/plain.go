// ABOUTME: Plain-text and TUI playback modes for the CLI, plus report file output.
// ABOUTME: Both modes acquire one plan, replay it through the playback engine and optionally write a report.
package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"sync"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/2389-research/lifeline/config"
	"github.com/2389-research/lifeline/emergency"
	"github.com/2389-research/lifeline/metrics"
	"github.com/2389-research/lifeline/plan"
	"github.com/2389-research/lifeline/playback"
	"github.com/2389-research/lifeline/report"
	"github.com/2389-research/lifeline/tui"
)

// acquirer is the orchestrator surface the playback modes need.
type acquirer interface {
	Acquire(ctx context.Context, input, token string) plan.Result
}

// runPlain acquires a plan and prints each playback event as it is emitted.
func runPlain(ctx context.Context, w io.Writer, cfg *config.Config, acq acquirer, reg *metrics.Registry, opts options) int {
	res := acq.Acquire(ctx, opts.input, opts.token)
	if res.Reason != nil && opts.verbose {
		fmt.Fprintf(os.Stderr, "fallback: %s (%v)\n", plan.Classify(res.Reason), res.Reason)
	}

	var mu sync.Mutex
	engine := playback.NewEngine(playback.Config{
		Interval:    cfg.Tick,
		SettleDelay: cfg.Settle,
		Metrics:     reg,
		Observer: func(u playback.Update) {
			mu.Lock()
			defer mu.Unlock()
			fmt.Fprintln(w, formatUpdate(u))
		},
	})

	var final *emergency.Plan
	if err := engine.Start(ctx, res.Events, res.Plan, func(p emergency.Plan) {
		mu.Lock()
		defer mu.Unlock()
		final = &p
	}); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		return 1
	}
	<-engine.Done()

	mu.Lock()
	defer mu.Unlock()
	if final == nil {
		fmt.Fprintln(os.Stderr, "cancelled")
		return 130
	}
	fmt.Fprintln(w)
	fmt.Fprint(w, formatSummary(*final))

	return writeReport(opts.reportPath, *final, res.Events)
}

// formatUpdate renders one playback update as "[k/N] kind source→target message".
func formatUpdate(u playback.Update) string {
	e := u.Entry
	line := fmt.Sprintf("[%d/%d] %-9s %s %s→%s %s %s",
		u.Index+1, u.Total, e.Kind, e.Timestamp.Format("15:04:05"),
		e.Source.Icon(), e.Target.Icon(), e.Source, e.Message)
	if u.NewNode != nil {
		line += fmt.Sprintf(" (+%s %s)", u.NewNode.Type.Icon(), u.NewNode.Label)
	}
	return line
}

// formatSummary renders the completed plan for a terminal.
func formatSummary(p emergency.Plan) string {
	var b strings.Builder
	fmt.Fprintf(&b, "✅ %s\n", p.Summary.Title)
	fmt.Fprintf(&b, "%s\n\n", report.Subtitle(p))
	for _, a := range p.Summary.Actions {
		fmt.Fprintf(&b, "%s %s  %s\n", a.Icon, a.Title, a.Description)
	}
	if p.Summary.Recommendation != "" {
		fmt.Fprintf(&b, "\n💡 %s\n", p.Summary.Recommendation)
	}
	fmt.Fprintf(&b, "\n%s\n", report.Footer(p))
	return b.String()
}

// writeReport writes a Markdown or HTML report when path is set.
func writeReport(path string, p emergency.Plan, events []emergency.PlaybackEvent) int {
	if path == "" {
		return 0
	}
	var content string
	switch strings.ToLower(filepath.Ext(path)) {
	case ".md", ".markdown":
		content = report.Markdown(p, events)
	default:
		html, err := report.HTML(p, events)
		if err != nil {
			fmt.Fprintf(os.Stderr, "error: render report: %v\n", err)
			return 1
		}
		content = html
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		fmt.Fprintf(os.Stderr, "error: write report: %v\n", err)
		return 1
	}
	fmt.Fprintf(os.Stderr, "report written to %s\n", path)
	return 0
}

// recordingAcquirer remembers the last acquisition so the TUI mode can write
// a report after the program exits.
type recordingAcquirer struct {
	acq acquirer

	mu   sync.Mutex
	last *plan.Result
}

func (r *recordingAcquirer) Acquire(ctx context.Context, input, token string) plan.Result {
	res := r.acq.Acquire(ctx, input, token)
	r.mu.Lock()
	r.last = &res
	r.mu.Unlock()
	return res
}

func (r *recordingAcquirer) Last() (plan.Result, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.last == nil {
		return plan.Result{}, false
	}
	return *r.last, true
}

// runTUI plays the coordination in the Bubble Tea interface.
func runTUI(ctx context.Context, cfg *config.Config, acq acquirer, reg *metrics.Registry, opts options) int {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	var prog *tea.Program
	bridge := tui.NewEventBridge(func(msg tea.Msg) { prog.Send(msg) })
	engine := playback.NewEngine(playback.Config{
		Interval:    cfg.Tick,
		SettleDelay: cfg.Settle,
		Metrics:     reg,
		Observer:    bridge.HandleUpdate,
	})
	rec := &recordingAcquirer{acq: acq}

	model := tui.NewAppModel(tui.Options{
		Ctx:      ctx,
		Cancel:   cancel,
		Acquirer: rec,
		Engine:   engine,
		Bridge:   bridge,
		Input:    opts.input,
		Token:    opts.token,
	})
	prog = tea.NewProgram(model, tea.WithAltScreen(), tea.WithContext(ctx))

	final, err := prog.Run()
	if err != nil && ctx.Err() == nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		return 1
	}

	app, ok := final.(tui.AppModel)
	if !ok || app.Phase() != tui.PhaseDone || app.Err() != nil {
		return 0
	}
	if res, ok := rec.Last(); ok {
		fmt.Print(formatSummary(res.Plan))
		return writeReport(opts.reportPath, res.Plan, res.Events)
	}
	return 0
}
