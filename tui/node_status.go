// ABOUTME: Display markers for visual node statuses and the spinner used for the newest node.
// ABOUTME: Keeps status-to-glyph mapping in one place for the graph panel.
package tui

import "github.com/2389-research/lifeline/emergency"

// StatusMarker returns a bracket-style marker for a node status.
func StatusMarker(s emergency.NodeStatus) string {
	switch s {
	case emergency.StatusSearching:
		return "[~]"
	case emergency.StatusConnected:
		return "[*]"
	case emergency.StatusActive:
		return "[@]"
	default:
		return "[?]"
	}
}

// SpinnerFrames contains the Braille-dot animation frames shown next to the
// most recently discovered node while playback runs.
var SpinnerFrames = []string{"⠋", "⠙", "⠹", "⠸", "⠼", "⠴", "⠦", "⠧", "⠇", "⠏"}
