// ABOUTME: Tests for the graph, log, status bar and summary panels.
// ABOUTME: Verifies rendering content and state changes of each sub-model.
package tui

import (
	"strings"
	"testing"
	"time"

	"github.com/2389-research/lifeline/emergency"
	"github.com/2389-research/lifeline/plan"
	"github.com/2389-research/lifeline/playback"
)

func TestStatusMarker(t *testing.T) {
	tests := []struct {
		status emergency.NodeStatus
		want   string
	}{
		{emergency.StatusSearching, "[~]"},
		{emergency.StatusConnected, "[*]"},
		{emergency.StatusActive, "[@]"},
		{emergency.NodeStatus("bogus"), "[?]"},
	}
	for _, tt := range tests {
		if got := StatusMarker(tt.status); got != tt.want {
			t.Errorf("StatusMarker(%q) = %q, want %q", tt.status, got, tt.want)
		}
	}
}

func TestGraphPanelStartsWithMe(t *testing.T) {
	g := NewGraphPanelModel(playback.MeNode)
	if g.Len() != 1 {
		t.Fatalf("Len() = %d, want 1", g.Len())
	}
	view := g.View()
	if !strings.Contains(view, "1 nodes") {
		t.Errorf("view missing node count: %q", view)
	}
	if !strings.Contains(view, playback.MeNode.Label) {
		t.Errorf("view missing me label: %q", view)
	}
}

func TestGraphPanelSpinnerOnNewestWhileRunning(t *testing.T) {
	g := NewGraphPanelModel(playback.MeNode)
	nurse := emergency.VisualNode{ID: "#hospital", Type: emergency.NodeNurse, Label: "医院", Status: emergency.StatusConnected}
	g.SetNodes([]emergency.VisualNode{playback.MeNode, nurse}, nurse.ID)
	g.SetRunning(true)

	if !strings.Contains(g.View(), SpinnerFrames[0]) {
		t.Error("expected spinner frame while running")
	}
	g.AdvanceSpinner()
	if !strings.Contains(g.View(), SpinnerFrames[1]) {
		t.Error("expected second spinner frame after advance")
	}
	g.SetRunning(false)
	if strings.Contains(g.View(), SpinnerFrames[1]) {
		t.Error("spinner should stop when not running")
	}
}

func TestLogPanelAppendEvictsOldest(t *testing.T) {
	l := NewLogPanelModel(2)
	for _, msg := range []string{"one", "two", "three"} {
		l.Append(playback.LogEntry{
			PlaybackEvent: emergency.PlaybackEvent{Kind: emergency.KindBroadcast, Message: msg},
			Timestamp:     time.Now(),
		})
	}
	if l.Len() != 2 {
		t.Fatalf("Len() = %d, want 2", l.Len())
	}
	if l.entries[0].Message != "two" {
		t.Errorf("oldest entry = %q, want two", l.entries[0].Message)
	}
}

func TestLogPanelDefaultCapacity(t *testing.T) {
	l := NewLogPanelModel(0)
	if l.max != 200 {
		t.Errorf("max = %d, want 200", l.max)
	}
}

func TestLogPanelEmptyView(t *testing.T) {
	l := NewLogPanelModel(10)
	if !strings.Contains(l.View(), "Waiting") {
		t.Errorf("empty view = %q", l.View())
	}
	l.SetFocused(true)
	if !strings.Contains(l.View(), "focused") {
		t.Error("focused title missing")
	}
}

func TestFormatEntry(t *testing.T) {
	e := playback.LogEntry{
		PlaybackEvent: emergency.PlaybackEvent{
			Source:  emergency.NodeMe,
			Target:  emergency.NodePolice,
			Message: "已报警",
			Kind:    emergency.KindSuccess,
		},
		Timestamp: time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC),
	}
	got := formatEntry(e)
	for _, want := range []string{"03:04:05", "success", "已报警", "→"} {
		if !strings.Contains(got, want) {
			t.Errorf("formatEntry missing %q: %q", want, got)
		}
	}
}

func TestFormatElapsed(t *testing.T) {
	tests := []struct {
		d    time.Duration
		want string
	}{
		{0, "0s"},
		{12 * time.Second, "12s"},
		{150 * time.Second, "2m30s"},
		{1500 * time.Millisecond, "1s"},
	}
	for _, tt := range tests {
		if got := formatElapsed(tt.d); got != tt.want {
			t.Errorf("formatElapsed(%v) = %q, want %q", tt.d, got, tt.want)
		}
	}
}

func TestStatusBarView(t *testing.T) {
	s := NewStatusBarModel("我的车在高速上抛锚了，怎么办才好呢请帮帮我")
	s.SetWidth(200)
	if !strings.Contains(s.View(), "acquiring") {
		t.Errorf("pre-acquisition view = %q", s.View())
	}
	s.SetAcquired(6, plan.OutcomeFallback)
	s.SetEmitted(2)
	view := s.View()
	for _, want := range []string{"2/6 events", "fallback"} {
		if !strings.Contains(view, want) {
			t.Errorf("view missing %q: %q", want, view)
		}
	}
	if s.Elapsed() != 0 {
		t.Error("elapsed should be zero before Start")
	}
}

func TestTruncateInput(t *testing.T) {
	short := "头疼"
	if truncateInput(short) != short {
		t.Error("short input should be unchanged")
	}
	long := strings.Repeat("急", maxInputLen+5)
	got := truncateInput(long)
	if !strings.HasSuffix(got, "...") || len([]rune(got)) != maxInputLen+3 {
		t.Errorf("truncateInput(long) = %q", got)
	}
}

func TestSummaryPanel(t *testing.T) {
	s := NewSummaryPanelModel()
	if s.HasPlan() {
		t.Fatal("new panel should have no plan")
	}
	if !strings.Contains(s.View(), "Coordinating") {
		t.Errorf("placeholder view = %q", s.View())
	}

	p := emergency.TrafficScenario.FallbackPlan()
	s.SetPlan(p)
	view := s.View()
	if !s.HasPlan() {
		t.Fatal("HasPlan() = false after SetPlan")
	}
	if !strings.Contains(view, p.Summary.Title) {
		t.Errorf("view missing title %q", p.Summary.Title)
	}
	if !strings.Contains(view, p.Summary.Actions[0].Title) {
		t.Errorf("view missing first action %q", p.Summary.Actions[0].Title)
	}
}

func TestStyleForKindCoversKinds(t *testing.T) {
	for _, k := range []emergency.PlaybackKind{emergency.KindBroadcast, emergency.KindFound, emergency.KindNegotiate, emergency.KindSuccess} {
		if StyleForKind(k).Render("x") == "" {
			t.Errorf("StyleForKind(%q) rendered empty", k)
		}
	}
}
