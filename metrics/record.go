// ABOUTME: Recording helpers wrapping the raw collectors with LifeLine's label conventions.
// ABOUTME: All helpers are no-ops on a nil Registry.
package metrics

import (
	"strconv"
	"time"
)

// RecordAcquisition records one finished plan acquisition.
func (r *Registry) RecordAcquisition(outcome, reason string, d time.Duration) {
	if r == nil {
		return
	}
	r.PlanAcquisitions.WithLabelValues(outcome, reason).Inc()
	r.PlanAcquisitionDuration.WithLabelValues(outcome).Observe(d.Seconds())
}

// RecordDiscardedLine records a streamed line that contributed no content.
func (r *Registry) RecordDiscardedLine(reason string) {
	if r == nil {
		return
	}
	r.SSEDiscardedLines.WithLabelValues(reason).Inc()
}

// RecordPlaybackEvent records one emitted playback event.
func (r *Registry) RecordPlaybackEvent(kind string) {
	if r == nil {
		return
	}
	r.PlaybackEvents.WithLabelValues(kind).Inc()
}

// PlaybackStarted marks a playback as running.
func (r *Registry) PlaybackStarted() {
	if r == nil {
		return
	}
	r.ActivePlaybacks.Inc()
}

// PlaybackFinished records a playback reaching a terminal state.
func (r *Registry) PlaybackFinished(state string) {
	if r == nil {
		return
	}
	r.ActivePlaybacks.Dec()
	r.Playbacks.WithLabelValues(state).Inc()
}

// RecordHTTPRequest records an HTTP request with its duration.
func (r *Registry) RecordHTTPRequest(method, path string, status int, d time.Duration) {
	if r == nil {
		return
	}
	code := strconv.Itoa(status)
	r.HTTPRequestsTotal.WithLabelValues(method, path, code).Inc()
	r.HTTPRequestDuration.WithLabelValues(method, path, code).Observe(d.Seconds())
}
