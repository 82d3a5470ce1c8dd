// ABOUTME: Accumulates the text content of a streamed chat response delivered as SSE data lines.
// ABOUTME: Noise lines and malformed payloads are reported through hooks and never abort the read.
package sse

import (
	"context"
	"encoding/json"
	"io"
	"strings"
)

// DoneSentinel is the payload that marks the logical end of a stream.
const DoneSentinel = "[DONE]"

// DiscardReason labels why a line contributed no content.
type DiscardReason string

const (
	DiscardNotData     DiscardReason = "not_data"
	DiscardInvalidJSON DiscardReason = "invalid_json"
)

// Stats describes what Accumulate saw.
type Stats struct {
	Lines     int
	DataLines int
	Fragments int
	Discarded int
	SawDone   bool
	SessionID string
}

type options struct {
	stopAtDone bool
	onDiscard  func(line string, reason DiscardReason, err error)
	onFragment func(fragment string)
	onSession  func(id string)
}

// Option configures Accumulate.
type Option func(*options)

// WithStopAtDone ends the read as soon as a [DONE] payload is seen instead of
// draining the body to EOF.
func WithStopAtDone() Option {
	return func(o *options) { o.stopAtDone = true }
}

// WithDiscardHook is called for every non-blank line that yields no content
// because it is not a data line or its payload is not JSON.
func WithDiscardHook(fn func(line string, reason DiscardReason, err error)) Option {
	return func(o *options) { o.onDiscard = fn }
}

// WithFragmentHook is called with each content fragment as it is appended.
func WithFragmentHook(fn func(fragment string)) Option {
	return func(o *options) { o.onFragment = fn }
}

// WithSessionHook is called the first time a payload carries a sessionId.
func WithSessionHook(fn func(id string)) Option {
	return func(o *options) { o.onSession = fn }
}

// Payload is the subset of a streamed JSON data line that carries content.
type Payload struct {
	Content   string `json:"content"`
	SessionID string `json:"sessionId"`
	Choices   []struct {
		Delta struct {
			Content string `json:"content"`
		} `json:"delta"`
	} `json:"choices"`
}

// Fragment returns the payload's text: content first, then choices[0].delta.content.
func (p Payload) Fragment() string {
	if p.Content != "" {
		return p.Content
	}
	if len(p.Choices) > 0 {
		return p.Choices[0].Delta.Content
	}
	return ""
}

// ParseDataLine extracts the payload of a trimmed "data:" line. ok is false for
// lines that are not data lines.
func ParseDataLine(line string) (payload string, ok bool) {
	line = strings.TrimSpace(line)
	if !strings.HasPrefix(line, "data:") {
		return "", false
	}
	return strings.TrimSpace(line[len("data:"):]), true
}

// Accumulate reads r to exhaustion and returns the concatenated content
// fragments in arrival order. Only read errors and context cancellation are
// returned as errors.
func Accumulate(ctx context.Context, r io.Reader, opts ...Option) (string, Stats, error) {
	var o options
	for _, opt := range opts {
		opt(&o)
	}

	var (
		text  strings.Builder
		stats Stats
	)
	scanner := newLineScanner(r)
	for {
		if err := ctx.Err(); err != nil {
			return text.String(), stats, err
		}

		line, err := scanner.readLine()
		if err == io.EOF {
			return text.String(), stats, nil
		}
		if err != nil {
			if ctxErr := ctx.Err(); ctxErr != nil {
				return text.String(), stats, ctxErr
			}
			return text.String(), stats, err
		}
		stats.Lines++

		if strings.TrimSpace(line) == "" {
			continue
		}
		data, ok := ParseDataLine(line)
		if !ok {
			stats.Discarded++
			if o.onDiscard != nil {
				o.onDiscard(line, DiscardNotData, nil)
			}
			continue
		}
		stats.DataLines++

		if data == DoneSentinel {
			stats.SawDone = true
			if o.stopAtDone {
				return text.String(), stats, nil
			}
			continue
		}

		var p Payload
		if err := json.Unmarshal([]byte(data), &p); err != nil {
			stats.Discarded++
			if o.onDiscard != nil {
				o.onDiscard(line, DiscardInvalidJSON, err)
			}
			continue
		}
		if p.SessionID != "" && stats.SessionID == "" {
			stats.SessionID = p.SessionID
			if o.onSession != nil {
				o.onSession(p.SessionID)
			}
		}
		if frag := p.Fragment(); frag != "" {
			text.WriteString(frag)
			stats.Fragments++
			if o.onFragment != nil {
				o.onFragment(frag)
			}
		}
	}
}
