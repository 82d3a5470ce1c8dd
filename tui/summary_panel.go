// ABOUTME: Bubble Tea sub-model showing the plan summary once playback completes.
// ABOUTME: Renders title, origin line, actions, recommendation and credit footer.
package tui

import (
	"strings"

	"github.com/2389-research/lifeline/emergency"
	"github.com/2389-research/lifeline/report"
)

// SummaryPanelModel displays the completed plan's summary.
type SummaryPanelModel struct {
	plan   *emergency.Plan
	width  int
	height int
}

// NewSummaryPanelModel creates an empty summary panel.
func NewSummaryPanelModel() SummaryPanelModel {
	return SummaryPanelModel{}
}

// SetPlan shows p.
func (m *SummaryPanelModel) SetPlan(p emergency.Plan) {
	m.plan = &p
}

// HasPlan reports whether a plan is being shown.
func (m SummaryPanelModel) HasPlan() bool {
	return m.plan != nil
}

// SetSize sets the available dimensions.
func (m *SummaryPanelModel) SetSize(w, h int) {
	m.width = w
	m.height = h
}

// View renders the summary panel as a string.
func (m SummaryPanelModel) View() string {
	var lines []string
	if m.plan == nil {
		lines = append(lines, TitleStyle.Render("SUMMARY"), "", ValueStyle.Render("Coordinating..."))
	} else {
		s := m.plan.Summary
		lines = append(lines,
			TitleStyle.Render("✅ "+s.Title),
			LabelStyle.Render(report.Subtitle(*m.plan)),
			"",
		)
		for _, a := range s.Actions {
			lines = append(lines, a.Icon+" "+ValueStyle.Render(a.Title))
			lines = append(lines, "   "+LabelStyle.Render(a.Description))
		}
		if s.Recommendation != "" {
			lines = append(lines, "", RecommendationStyle.Render("💡 "+s.Recommendation))
		}
		lines = append(lines, "", LabelStyle.Render(report.Footer(*m.plan)))
	}

	style := BorderStyle
	if m.width > 2 {
		style = style.Width(m.width - 2)
	}
	if m.height > 2 {
		style = style.Height(m.height - 2)
	}
	return style.Render(strings.Join(lines, "\n"))
}
