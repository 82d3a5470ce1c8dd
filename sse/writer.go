// ABOUTME: Server-side SSE framing: named events with JSON data, flushed as they are written.
// ABOUTME: Used by HTTP handlers that stream playback progress to browsers.
package sse

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
)

// Event is one outgoing server-sent event.
type Event struct {
	Event string
	Data  string
}

// Format renders the event in wire form, terminated by a blank line.
func (e Event) Format() string {
	if e.Event == "" {
		return fmt.Sprintf("data: %s\n\n", e.Data)
	}
	return fmt.Sprintf("event: %s\ndata: %s\n\n", e.Event, e.Data)
}

// Writer writes events to an HTTP response, flushing after each one when the
// underlying writer supports it.
type Writer struct {
	w       io.Writer
	flusher http.Flusher
}

// NewWriter sets the event-stream headers on w and returns a Writer for it.
func NewWriter(w http.ResponseWriter) *Writer {
	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.WriteHeader(http.StatusOK)

	flusher, _ := w.(http.Flusher)
	return &Writer{w: w, flusher: flusher}
}

// Send writes one event.
func (sw *Writer) Send(evt Event) error {
	if _, err := io.WriteString(sw.w, evt.Format()); err != nil {
		return err
	}
	if sw.flusher != nil {
		sw.flusher.Flush()
	}
	return nil
}

// SendJSON marshals v as the data of a named event.
func (sw *Writer) SendJSON(event string, v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("marshal %s event: %w", event, err)
	}
	return sw.Send(Event{Event: event, Data: string(data)})
}

// Write passes already-framed bytes through, flushing after each write.
func (sw *Writer) Write(p []byte) (int, error) {
	n, err := sw.w.Write(p)
	if err == nil && sw.flusher != nil {
		sw.flusher.Flush()
	}
	return n, err
}
