// ABOUTME: Tests for SSE content accumulation.
// ABOUTME: Covers line endings, chunk boundaries, noise handling, [DONE] policy and cancellation.
package sse

import (
	"context"
	"errors"
	"io"
	"strings"
	"testing"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
)

// chunkReader returns its input in fixed-size chunks to exercise boundary handling.
type chunkReader struct {
	data []byte
	size int
}

func (c *chunkReader) Read(p []byte) (int, error) {
	if len(c.data) == 0 {
		return 0, io.EOF
	}
	n := c.size
	if n > len(c.data) {
		n = len(c.data)
	}
	if n > len(p) {
		n = len(p)
	}
	copy(p, c.data[:n])
	c.data = c.data[n:]
	return n, nil
}

func TestAccumulate(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"single content", "data: {\"content\":\"hello\"}\n\n", "hello"},
		{"multiple fragments", "data: {\"content\":\"a\"}\ndata: {\"content\":\"b\"}\n", "ab"},
		{"openai delta", "data: {\"choices\":[{\"delta\":{\"content\":\"x\"}}]}\n", "x"},
		{"content preferred over delta", "data: {\"content\":\"c\",\"choices\":[{\"delta\":{\"content\":\"d\"}}]}\n", "c"},
		{"crlf", "data: {\"content\":\"a\"}\r\ndata: {\"content\":\"b\"}\r\n", "ab"},
		{"bare cr", "data: {\"content\":\"a\"}\rdata: {\"content\":\"b\"}\r", "ab"},
		{"no trailing newline", "data: {\"content\":\"tail\"}", "tail"},
		{"no space after prefix", "data:{\"content\":\"z\"}\n", "z"},
		{"indented line", "   data: {\"content\":\"i\"}   \n", "i"},
		{"done skipped", "data: {\"content\":\"a\"}\ndata: [DONE]\n", "a"},
		{"content after done kept", "data: [DONE]\ndata: {\"content\":\"late\"}\n", "late"},
		{"noise ignored", ": comment\nevent: message\nid: 3\ndata: {\"content\":\"ok\"}\n", "ok"},
		{"malformed json ignored", "data: {oops\ndata: {\"content\":\"ok\"}\n", "ok"},
		{"empty content ignored", "data: {\"content\":\"\"}\ndata: {\"sessionId\":\"s\"}\n", ""},
		{"empty body", "", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, _, err := Accumulate(context.Background(), strings.NewReader(tt.input))
			if err != nil {
				t.Fatalf("Accumulate: %v", err)
			}
			if got != tt.want {
				t.Errorf("got %q, want %q", got, tt.want)
			}
		})
	}
}

func TestAccumulate_Stats(t *testing.T) {
	input := ": keepalive\ndata: {\"sessionId\":\"sess-1\",\"content\":\"a\"}\ndata: nope\ndata: {\"content\":\"b\"}\ndata: [DONE]\n"

	var discarded []DiscardReason
	var sessions []string
	got, stats, err := Accumulate(context.Background(), strings.NewReader(input),
		WithDiscardHook(func(_ string, reason DiscardReason, _ error) { discarded = append(discarded, reason) }),
		WithSessionHook(func(id string) { sessions = append(sessions, id) }),
	)
	if err != nil {
		t.Fatalf("Accumulate: %v", err)
	}
	if got != "ab" {
		t.Errorf("got %q, want %q", got, "ab")
	}
	if stats.Lines != 5 {
		t.Errorf("Lines = %d, want 5", stats.Lines)
	}
	if stats.DataLines != 4 {
		t.Errorf("DataLines = %d, want 4", stats.DataLines)
	}
	if stats.Fragments != 2 {
		t.Errorf("Fragments = %d, want 2", stats.Fragments)
	}
	if stats.Discarded != 2 {
		t.Errorf("Discarded = %d, want 2", stats.Discarded)
	}
	if !stats.SawDone {
		t.Error("SawDone = false, want true")
	}
	if stats.SessionID != "sess-1" {
		t.Errorf("SessionID = %q, want sess-1", stats.SessionID)
	}
	if len(discarded) != 2 || discarded[0] != DiscardNotData || discarded[1] != DiscardInvalidJSON {
		t.Errorf("discard reasons = %v", discarded)
	}
	if len(sessions) != 1 {
		t.Errorf("session hook calls = %d, want 1", len(sessions))
	}
}

func TestAccumulate_StopAtDone(t *testing.T) {
	input := "data: {\"content\":\"a\"}\ndata: [DONE]\ndata: {\"content\":\"b\"}\n"
	got, stats, err := Accumulate(context.Background(), strings.NewReader(input), WithStopAtDone())
	if err != nil {
		t.Fatalf("Accumulate: %v", err)
	}
	if got != "a" {
		t.Errorf("got %q, want %q", got, "a")
	}
	if !stats.SawDone {
		t.Error("SawDone = false, want true")
	}
}

func TestAccumulate_FragmentHook(t *testing.T) {
	var frags []string
	_, _, err := Accumulate(context.Background(),
		strings.NewReader("data: {\"content\":\"你\"}\ndata: {\"content\":\"好\"}\n"),
		WithFragmentHook(func(f string) { frags = append(frags, f) }))
	if err != nil {
		t.Fatal(err)
	}
	if strings.Join(frags, "|") != "你|好" {
		t.Errorf("fragments = %v", frags)
	}
}

func TestAccumulate_Cancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, _, err := Accumulate(ctx, strings.NewReader("data: {\"content\":\"a\"}\n"))
	if !errors.Is(err, context.Canceled) {
		t.Errorf("err = %v, want context.Canceled", err)
	}
}

type failingReader struct{}

func (failingReader) Read([]byte) (int, error) { return 0, errors.New("connection reset") }

func TestAccumulate_ReadError(t *testing.T) {
	_, _, err := Accumulate(context.Background(), failingReader{})
	if err == nil || !strings.Contains(err.Error(), "connection reset") {
		t.Errorf("err = %v, want read error", err)
	}
}

func TestAccumulate_ChunkBoundaryInvariance(t *testing.T) {
	body := "data: {\"content\":\"救护车\"}\r\n: ping\r\ndata: {\"choices\":[{\"delta\":{\"content\":\"已出发\"}}]}\r\rdata: [DONE]\ndata: {\"content\":\"!\"}\n"
	want, _, err := Accumulate(context.Background(), strings.NewReader(body))
	if err != nil {
		t.Fatal(err)
	}

	parameters := gopter.DefaultTestParameters()
	properties := gopter.NewProperties(parameters)
	properties.Property("chunk size does not change the result", prop.ForAll(
		func(size int) bool {
			got, _, err := Accumulate(context.Background(), &chunkReader{data: []byte(body), size: size})
			return err == nil && got == want
		},
		gen.IntRange(1, len(body)),
	))
	properties.TestingRun(t)
}
