// ABOUTME: Defines lipgloss style constants for the TUI layout panels, node statuses, and log formatting.
// ABOUTME: Provides StyleForStatus and StyleForKind to map domain values to display styles.
package tui

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/2389-research/lifeline/emergency"
)

var (
	// Panel borders
	BorderStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("62"))

	// Title styling
	TitleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("170"))

	// Node status colors
	SearchingStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("214"))
	ConnectedStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("42"))
	ActiveStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("75")).Bold(true)
	UnknownStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))

	// Log event colors, one per playback kind
	LogTimestampStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
	LogBroadcastStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("75"))
	LogFoundStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("42"))
	LogNegotiateStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("214"))
	LogSuccessStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("42")).Bold(true)

	// Completion markers
	DoneStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("42"))
	FallbackStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("214"))

	// Status bar
	StatusBarStyle = lipgloss.NewStyle().
			Background(lipgloss.Color("236")).
			Foreground(lipgloss.Color("252")).
			Padding(0, 1)

	// Summary panel
	LabelStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
	ValueStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("252"))

	RecommendationStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("147")).Italic(true)
)

// StyleForStatus returns the style for a visual node status.
func StyleForStatus(status emergency.NodeStatus) lipgloss.Style {
	switch status {
	case emergency.StatusSearching:
		return SearchingStyle
	case emergency.StatusConnected:
		return ConnectedStyle
	case emergency.StatusActive:
		return ActiveStyle
	default:
		return UnknownStyle
	}
}

// StyleForKind returns the log style for a playback event kind.
func StyleForKind(kind emergency.PlaybackKind) lipgloss.Style {
	switch kind {
	case emergency.KindBroadcast:
		return LogBroadcastStyle
	case emergency.KindFound:
		return LogFoundStyle
	case emergency.KindNegotiate:
		return LogNegotiateStyle
	case emergency.KindSuccess:
		return LogSuccessStyle
	default:
		return LogBroadcastStyle
	}
}
