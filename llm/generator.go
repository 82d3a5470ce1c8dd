// ABOUTME: Plan generators: the SecondMe chat stream and any mux/llm client.
// ABOUTME: Both report failures using the plan package's error taxonomy.
package llm

import (
	"context"
	"errors"
	"log"
	"strings"

	muxllm "github.com/2389-research/mux/llm"
	"github.com/openai/openai-go"

	"github.com/2389-research/lifeline/metrics"
	"github.com/2389-research/lifeline/plan"
	"github.com/2389-research/lifeline/secondme"
	"github.com/2389-research/lifeline/sse"
)

// SecondMeGenerator generates plans through the user's SecondMe chat stream.
// It needs the caller's access token.
type SecondMeGenerator struct {
	client  *secondme.Client
	metrics *metrics.Registry
	opts    []sse.Option
}

// NewSecondMeGenerator wraps a SecondMe client. Extra options are passed to sse.Accumulate.
func NewSecondMeGenerator(client *secondme.Client, reg *metrics.Registry, opts ...sse.Option) *SecondMeGenerator {
	return &SecondMeGenerator{client: client, metrics: reg, opts: opts}
}

// Name identifies the generator in logs and the journal.
func (g *SecondMeGenerator) Name() string { return ProviderSecondMe }

// Generate streams a plan for systemPrompt and returns the accumulated text.
func (g *SecondMeGenerator) Generate(ctx context.Context, token, systemPrompt string) (string, error) {
	if token == "" {
		return "", plan.ErrAuthMissing
	}

	body, err := g.client.ChatStream(ctx, token, secondme.ChatRequest{
		Message:      plan.PlanRequestMessage,
		SystemPrompt: systemPrompt,
	})
	if err != nil {
		return "", &plan.TransportError{Generator: g.Name(), StatusCode: secondme.StatusCode(err), Err: err}
	}
	defer body.Close()

	opts := append([]sse.Option{
		sse.WithDiscardHook(func(line string, reason sse.DiscardReason, _ error) {
			g.metrics.RecordDiscardedLine(string(reason))
			log.Printf("component=llm.secondme action=discard_line reason=%s line_len=%d", reason, len(line))
		}),
	}, g.opts...)

	text, stats, err := sse.Accumulate(ctx, body, opts...)
	if err != nil {
		return "", &plan.TransportError{Generator: g.Name(), Err: err}
	}
	log.Printf("component=llm.secondme action=stream_done lines=%d fragments=%d discarded=%d saw_done=%t raw_len=%d",
		stats.Lines, stats.Fragments, stats.Discarded, stats.SawDone, len(text))
	return text, nil
}

// MuxGenerator generates plans with a mux/llm client using a server-side API key.
type MuxGenerator struct {
	name      string
	client    muxllm.Client
	model     string
	maxTokens int
}

// NewMuxGenerator wraps client. name labels the provider in logs.
func NewMuxGenerator(name string, client muxllm.Client, model string) *MuxGenerator {
	return &MuxGenerator{name: name, client: client, model: model, maxTokens: 4096}
}

// Name identifies the generator in logs and the journal.
func (g *MuxGenerator) Name() string { return g.name }

// Generate streams a completion and concatenates its text deltas. The token is unused.
func (g *MuxGenerator) Generate(ctx context.Context, _ string, systemPrompt string) (string, error) {
	req := &muxllm.Request{
		Model:     g.model,
		System:    systemPrompt,
		MaxTokens: g.maxTokens,
		Messages:  []muxllm.Message{{Role: muxllm.RoleUser, Content: plan.PlanRequestMessage}},
	}
	events, err := g.client.CreateMessageStream(ctx, req)
	if err != nil {
		return "", g.transportError(err)
	}

	var text strings.Builder
	for {
		select {
		case <-ctx.Done():
			return "", g.transportError(ctx.Err())
		case evt, ok := <-events:
			if !ok {
				return text.String(), nil
			}
			switch evt.Type {
			case muxllm.EventContentDelta:
				text.WriteString(evt.Text)
			case muxllm.EventError:
				return "", g.transportError(evt.Error)
			case muxllm.EventMessageStop:
				if text.Len() == 0 && evt.Response != nil {
					for _, block := range evt.Response.Content {
						if block.Type == muxllm.ContentTypeText {
							text.WriteString(block.Text)
						}
					}
				}
				log.Printf("component=llm.mux action=stream_done provider=%s model=%s raw_len=%d", g.name, g.model, text.Len())
				return text.String(), nil
			}
		}
	}
}

func (g *MuxGenerator) transportError(err error) error {
	te := &plan.TransportError{Generator: g.name, Err: err}
	var apiErr *openai.Error
	if errors.As(err, &apiErr) {
		te.StatusCode = apiErr.StatusCode
	}
	return te
}

var (
	_ plan.Generator = (*SecondMeGenerator)(nil)
	_ plan.Generator = (*MuxGenerator)(nil)
)
