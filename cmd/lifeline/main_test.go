// ABOUTME: Tests for CLI flag parsing, config overrides, help output and the plain playback mode.
// ABOUTME: Uses stub acquirers and millisecond timings so playback finishes quickly.
package main

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/2389-research/lifeline/config"
	"github.com/2389-research/lifeline/emergency"
	"github.com/2389-research/lifeline/plan"
)

func TestParseFlagsDefaults(t *testing.T) {
	t.Setenv("LIFELINE_ACCESS_TOKEN", "")
	opts, err := parseFlags([]string{"头疼"})
	if err != nil {
		t.Fatalf("parseFlags: %v", err)
	}
	if opts.input != "头疼" {
		t.Errorf("input = %q, want 头疼", opts.input)
	}
	if opts.serverMode || opts.mcpMode || opts.plain || opts.strict {
		t.Errorf("unexpected mode flags: %+v", opts)
	}
	if opts.token != "" {
		t.Errorf("token = %q, want empty", opts.token)
	}
}

func TestParseFlagsAll(t *testing.T) {
	opts, err := parseFlags([]string{
		"-plain", "-tick", "10ms", "-settle", "20ms", "-strict",
		"-scenarios", "s.yaml", "-report", "out.md", "-token", "tok", "-verbose", "有人跟踪我",
	})
	if err != nil {
		t.Fatalf("parseFlags: %v", err)
	}
	if !opts.plain || !opts.strict || !opts.verbose {
		t.Errorf("bool flags not set: %+v", opts)
	}
	if opts.tick != 10*time.Millisecond || opts.settle != 20*time.Millisecond {
		t.Errorf("timings = %v/%v", opts.tick, opts.settle)
	}
	if opts.scenarios != "s.yaml" || opts.reportPath != "out.md" || opts.token != "tok" {
		t.Errorf("string flags = %+v", opts)
	}
	if opts.input != "有人跟踪我" {
		t.Errorf("input = %q", opts.input)
	}
}

func TestParseFlagsUnknown(t *testing.T) {
	if _, err := parseFlags([]string{"-nope"}); err == nil {
		t.Error("expected error for unknown flag")
	}
}

func TestApplyFlags(t *testing.T) {
	cfg := &config.Config{Bind: "127.0.0.1:3000", Tick: time.Second}
	applyFlags(cfg, options{addr: ":8080", settle: 5 * time.Millisecond, strict: true, scenarios: "x.yaml"})

	if cfg.Bind != ":8080" {
		t.Errorf("Bind = %q", cfg.Bind)
	}
	if cfg.Tick != time.Second {
		t.Errorf("Tick = %v, unset flag should keep config", cfg.Tick)
	}
	if cfg.Settle != 5*time.Millisecond {
		t.Errorf("Settle = %v", cfg.Settle)
	}
	if cfg.Strictness != plan.StrictnessStrict {
		t.Errorf("Strictness = %v", cfg.Strictness)
	}
	if cfg.ScenarioFile != "x.yaml" {
		t.Errorf("ScenarioFile = %q", cfg.ScenarioFile)
	}
}

func TestPrintHelp(t *testing.T) {
	var buf bytes.Buffer
	printHelp(&buf, "1.2.3")
	out := buf.String()
	for _, want := range []string{"lifeline 1.2.3", "-server", "-mcp", "-plain", "-report", "secondme"} {
		if !strings.Contains(out, want) {
			t.Errorf("help missing %q", want)
		}
	}
}

func TestEnvStatus(t *testing.T) {
	t.Setenv("LIFELINE_TEST_KEY", "x")
	if envStatus("LIFELINE_TEST_KEY") != "[set]" {
		t.Error("expected [set]")
	}
	t.Setenv("LIFELINE_TEST_KEY", "")
	if envStatus("LIFELINE_TEST_KEY") != "[not set]" {
		t.Error("expected [not set]")
	}
}

type stubAcquirer struct {
	res plan.Result
}

func (s stubAcquirer) Acquire(context.Context, string, string) plan.Result {
	return s.res
}

func trafficResult() plan.Result {
	sc := emergency.TrafficScenario.Clone()
	return plan.Result{
		AttemptID: "a1",
		Plan:      sc.FallbackPlan(),
		Events:    sc.Events,
		Outcome:   plan.OutcomeFallback,
		Scenario:  sc.Name,
	}
}

func TestRunPlainPrintsEventsAndSummary(t *testing.T) {
	res := trafficResult()
	cfg := &config.Config{Tick: time.Millisecond, Settle: time.Millisecond}
	var out bytes.Buffer

	code := runPlain(context.Background(), &out, cfg, stubAcquirer{res: res}, nil, options{input: "车坏了"})
	if code != 0 {
		t.Fatalf("exit code = %d", code)
	}

	got := out.String()
	total := len(res.Events)
	for i := 1; i <= total; i++ {
		if !strings.Contains(got, fmt.Sprintf("[%d/%d]", i, total)) {
			t.Errorf("missing event %d of %d", i, total)
		}
	}
	if !strings.Contains(got, res.Plan.Summary.Title) {
		t.Errorf("missing summary title %q", res.Plan.Summary.Title)
	}
}

func TestRunPlainWritesMarkdownReport(t *testing.T) {
	res := trafficResult()
	cfg := &config.Config{Tick: time.Millisecond, Settle: time.Millisecond}
	path := filepath.Join(t.TempDir(), "plan.md")
	var out bytes.Buffer

	code := runPlain(context.Background(), &out, cfg, stubAcquirer{res: res}, nil, options{input: "车坏了", reportPath: path})
	if code != 0 {
		t.Fatalf("exit code = %d", code)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read report: %v", err)
	}
	if !strings.Contains(string(data), "# ✅ "+res.Plan.Summary.Title) {
		t.Errorf("report missing heading: %s", data)
	}
}

func TestRunPlainCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	cfg := &config.Config{Tick: time.Hour, Settle: time.Millisecond}
	var out bytes.Buffer
	if code := runPlain(ctx, &out, cfg, stubAcquirer{res: trafficResult()}, nil, options{input: "x"}); code != 130 {
		t.Errorf("exit code = %d, want 130", code)
	}
}

func TestWriteReportHTML(t *testing.T) {
	res := trafficResult()
	path := filepath.Join(t.TempDir(), "plan.html")
	if code := writeReport(path, res.Plan, res.Events); code != 0 {
		t.Fatalf("exit code = %d", code)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read report: %v", err)
	}
	if !strings.Contains(string(data), "<table>") {
		t.Error("HTML report missing coordination table")
	}
}

func TestRecordingAcquirer(t *testing.T) {
	rec := &recordingAcquirer{acq: stubAcquirer{res: trafficResult()}}
	if _, ok := rec.Last(); ok {
		t.Fatal("Last() before Acquire should report false")
	}
	rec.Acquire(context.Background(), "x", "")
	got, ok := rec.Last()
	if !ok || got.AttemptID != "a1" {
		t.Errorf("Last() = %+v, %v", got, ok)
	}
}
