// ABOUTME: Plan acquisition: generate, normalize, validate and remap, degrading to a fallback scenario on any failure.
// ABOUTME: Acquire never returns an error; failure reasons are kept for logs, metrics and the journal only.
package plan

import (
	"context"
	"errors"
	"log"
	"strings"
	"time"

	"github.com/2389-research/lifeline/emergency"
	"github.com/2389-research/lifeline/journal"
	"github.com/2389-research/lifeline/metrics"
)

// Generator produces raw model output for a system prompt. Implementations
// report failures using this package's error taxonomy.
type Generator interface {
	Name() string
	Generate(ctx context.Context, token, systemPrompt string) (string, error)
}

// Recorder persists attempt diagnostics.
type Recorder interface {
	Record(ctx context.Context, a journal.Attempt) error
}

// Outcome says where a plan came from.
type Outcome string

const (
	OutcomeGenerated Outcome = "ai"
	OutcomeFallback  Outcome = "fallback"
)

// Result is one acquisition. Reason is nil for generated plans and is never
// shown to end users.
type Result struct {
	AttemptID string
	Plan      emergency.Plan
	Events    []emergency.PlaybackEvent
	Outcome   Outcome
	Scenario  string
	Reason    error
	Duration  time.Duration
}

// Config wires an Orchestrator.
type Config struct {
	Generator  Generator
	Selector   *emergency.Selector
	Strictness Strictness
	Recorder   Recorder
	Metrics    *metrics.Registry
}

// Orchestrator acquires plans. It is safe for concurrent use.
type Orchestrator struct {
	cfg Config
}

// NewOrchestrator returns an orchestrator. A nil Selector uses the built-in scenarios.
func NewOrchestrator(cfg Config) *Orchestrator {
	if cfg.Selector == nil {
		cfg.Selector = emergency.DefaultSelector
	}
	return &Orchestrator{cfg: cfg}
}

// Selector returns the fallback selector in use.
func (o *Orchestrator) Selector() *emergency.Selector {
	return o.cfg.Selector
}

// Generate runs the generator for input and normalizes its output without any
// fallback. An empty script is not an error here.
func (o *Orchestrator) Generate(ctx context.Context, input, token string) (RawPlan, error) {
	if strings.TrimSpace(input) == "" {
		return RawPlan{}, ErrInputRejected
	}
	if o.cfg.Generator == nil {
		return RawPlan{}, &TransportError{Generator: "none", Err: errors.New("no plan generator configured")}
	}

	text, err := o.cfg.Generator.Generate(ctx, token, SystemPrompt(input))
	if err != nil {
		return RawPlan{}, err
	}
	log.Printf("component=plan action=generated generator=%s raw_len=%d", o.cfg.Generator.Name(), len(text))

	raw, err := Normalize(text)
	if err != nil {
		return RawPlan{}, err
	}
	if err := Validate(raw, o.cfg.Strictness); err != nil {
		return RawPlan{}, err
	}
	return raw, nil
}

// Acquire returns a playable plan for input. Any failure, including empty
// input, yields the fallback scenario selected for input.
func (o *Orchestrator) Acquire(ctx context.Context, input, token string) Result {
	start := time.Now()
	res := Result{AttemptID: journal.NewID()}

	raw, err := o.Generate(ctx, input, token)
	if err == nil && len(raw.Script) == 0 {
		err = ErrEmptyScript
	}

	if err != nil {
		sc := o.cfg.Selector.Select(input)
		res.Plan = sc.FallbackPlan()
		res.Events = sc.Events
		res.Outcome = OutcomeFallback
		res.Scenario = sc.Name
		res.Reason = err
	} else {
		summary := o.cfg.Selector.Select(input).Summary
		if raw.Summary != nil {
			summary = *raw.Summary
		}
		res.Plan = emergency.Plan{Script: raw.Script, Summary: summary, IsAIGenerated: true}
		res.Events = ToPlayback(input, raw.Script)
		res.Outcome = OutcomeGenerated
	}
	res.Duration = time.Since(start)

	o.observe(ctx, input, res)
	return res
}

func (o *Orchestrator) observe(ctx context.Context, input string, res Result) {
	reason := Classify(res.Reason)
	generator := "none"
	if o.cfg.Generator != nil {
		generator = o.cfg.Generator.Name()
	}

	if res.Reason != nil && !errors.Is(res.Reason, ErrInputRejected) {
		log.Printf("component=plan action=fallback attempt=%s generator=%s reason=%s scenario=%s err=%q",
			res.AttemptID, generator, reason, res.Scenario, res.Reason.Error())
	}
	log.Printf("component=plan action=acquired attempt=%s generator=%s outcome=%s reason=%s input_len=%d events=%d duration_ms=%d",
		res.AttemptID, generator, res.Outcome, reason, len(input), len(res.Events), res.Duration.Milliseconds())

	o.cfg.Metrics.RecordAcquisition(string(res.Outcome), reason, res.Duration)

	if o.cfg.Recorder == nil {
		return
	}
	attempt := journal.Attempt{
		ID:          res.AttemptID,
		Generator:   generator,
		InputLength: len(input),
		Outcome:     string(res.Outcome),
		Reason:      reason,
		Events:      len(res.Events),
		Duration:    res.Duration,
	}
	var parseErr *ParseError
	if errors.As(res.Reason, &parseErr) {
		attempt.RawPrefix = parseErr.RawPrefix
	}
	// The caller's context may already be cancelled; the journal write should still land.
	if err := o.cfg.Recorder.Record(context.WithoutCancel(ctx), attempt); err != nil {
		log.Printf("component=plan action=journal_failed attempt=%s err=%v", res.AttemptID, err)
	}
}
