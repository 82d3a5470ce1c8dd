// ABOUTME: Bubble Tea sub-model listing the coordination network's visual nodes with status markers.
// ABOUTME: The most recently discovered node carries a spinner while playback is running.
package tui

import (
	"fmt"
	"strings"

	"github.com/2389-research/lifeline/emergency"
)

// GraphPanelModel displays the discovered nodes in discovery order.
type GraphPanelModel struct {
	nodes        []emergency.VisualNode
	newest       string
	running      bool
	spinnerIndex int
	width        int
}

// NewGraphPanelModel creates a graph panel showing only the given starting nodes.
func NewGraphPanelModel(initial ...emergency.VisualNode) GraphPanelModel {
	return GraphPanelModel{nodes: append([]emergency.VisualNode(nil), initial...)}
}

// SetNodes replaces the node list with an engine snapshot. newest is the id
// of a node discovered by the latest event, or "".
func (m *GraphPanelModel) SetNodes(nodes []emergency.VisualNode, newest string) {
	m.nodes = append(m.nodes[:0:0], nodes...)
	if newest != "" {
		m.newest = newest
	}
}

// SetRunning toggles the spinner.
func (m *GraphPanelModel) SetRunning(running bool) {
	m.running = running
}

// Len returns the number of nodes shown.
func (m GraphPanelModel) Len() int {
	return len(m.nodes)
}

// AdvanceSpinner increments the spinner frame index.
func (m *GraphPanelModel) AdvanceSpinner() {
	m.spinnerIndex++
}

// SetWidth sets the available width for rendering.
func (m *GraphPanelModel) SetWidth(w int) {
	m.width = w
}

// View renders the graph panel as a string.
func (m GraphPanelModel) View() string {
	var b strings.Builder
	b.WriteString(TitleStyle.Render(fmt.Sprintf("=== AI NETWORK: %d nodes ===", len(m.nodes))))
	b.WriteString("\n")

	for _, n := range m.nodes {
		line := fmt.Sprintf("  %s %s %s (%s) @%.0f,%.0f",
			StatusMarker(n.Status), n.Type.Icon(), n.Label, n.Type, n.X, n.Y)
		if n.ID != "" && n.ID != n.Label {
			line += " " + n.ID
		}
		if m.running && n.ID == m.newest {
			line += " " + SpinnerFrames[m.spinnerIndex%len(SpinnerFrames)]
		}
		b.WriteString(StyleForStatus(n.Status).Render(line))
		b.WriteString("\n")
	}

	content := strings.TrimRight(b.String(), "\n")
	if m.width > 2 {
		return BorderStyle.Width(m.width - 2).Render(content)
	}
	return BorderStyle.Render(content)
}
