// ABOUTME: MCP stdio server exposing emergency coordination as tools for assistant clients.
// ABOUTME: coordinate_emergency acquires a plan and returns it as Markdown plus structured output.
package mcpserver

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/2389-research/lifeline/emergency"
	"github.com/2389-research/lifeline/plan"
	"github.com/2389-research/lifeline/report"
)

// Acquirer produces plans. *plan.Orchestrator implements it.
type Acquirer interface {
	Acquire(ctx context.Context, input, token string) plan.Result
	Selector() *emergency.Selector
}

// CoordinateInput is the coordinate_emergency argument.
type CoordinateInput struct {
	Input string `json:"input" jsonschema:"free-text description of the emergency"`
}

// CoordinateOutput is the structured coordinate_emergency result.
type CoordinateOutput struct {
	AttemptID string                    `json:"attemptId"`
	Outcome   string                    `json:"outcome"`
	Scenario  string                    `json:"scenario,omitempty"`
	Plan      emergency.Plan            `json:"plan"`
	Events    []emergency.PlaybackEvent `json:"events"`
}

// ListScenariosInput takes no arguments.
type ListScenariosInput struct{}

// ScenarioInfo describes one fallback scenario.
type ScenarioInfo struct {
	Name     string   `json:"name"`
	Title    string   `json:"title"`
	Keywords []string `json:"keywords,omitempty"`
	Events   int      `json:"events"`
}

// ListScenariosOutput is the structured list_fallback_scenarios result.
type ListScenariosOutput struct {
	Scenarios []ScenarioInfo `json:"scenarios"`
}

var errEmptyInput = errors.New("input is required")

// Handlers holds the tool implementations.
type Handlers struct {
	acq   Acquirer
	token string
}

// NewHandlers returns tool handlers. token is passed to every acquisition and
// may be empty when the generator does not need one.
func NewHandlers(acq Acquirer, token string) *Handlers {
	return &Handlers{acq: acq, token: token}
}

// Coordinate acquires a plan for the described emergency.
func (h *Handlers) Coordinate(ctx context.Context, _ *mcp.CallToolRequest, in CoordinateInput) (*mcp.CallToolResult, CoordinateOutput, error) {
	input := strings.TrimSpace(in.Input)
	if input == "" {
		return nil, CoordinateOutput{}, errEmptyInput
	}
	res := h.acq.Acquire(ctx, input, h.token)
	log.Printf("component=mcp action=coordinate outcome=%s events=%d", res.Outcome, len(res.Events))

	out := CoordinateOutput{
		AttemptID: res.AttemptID,
		Outcome:   string(res.Outcome),
		Scenario:  res.Scenario,
		Plan:      res.Plan,
		Events:    res.Events,
	}
	return &mcp.CallToolResult{
		Content: []mcp.Content{&mcp.TextContent{Text: report.Markdown(res.Plan, res.Events)}},
	}, out, nil
}

// ListScenarios describes the fallback scenarios in selection order.
func (h *Handlers) ListScenarios(_ context.Context, _ *mcp.CallToolRequest, _ ListScenariosInput) (*mcp.CallToolResult, ListScenariosOutput, error) {
	sel := h.acq.Selector()
	var out ListScenariosOutput
	var b strings.Builder
	for _, sc := range sel.Scenarios() {
		info := ScenarioInfo{
			Name:     sc.Name,
			Title:    sc.Summary.Title,
			Keywords: sel.Keywords(sc.Name),
			Events:   len(sc.Events),
		}
		out.Scenarios = append(out.Scenarios, info)
		fmt.Fprintf(&b, "- **%s**: %s", info.Name, info.Title)
		if len(info.Keywords) > 0 {
			fmt.Fprintf(&b, " (%s)", strings.Join(info.Keywords, ", "))
		}
		b.WriteString("\n")
	}
	return &mcp.CallToolResult{
		Content: []mcp.Content{&mcp.TextContent{Text: b.String()}},
	}, out, nil
}

// NewServer registers the tools on a new MCP server.
func NewServer(h *Handlers, version string) *mcp.Server {
	server := mcp.NewServer(&mcp.Implementation{Name: "lifeline", Version: version}, nil)
	mcp.AddTool(server, &mcp.Tool{
		Name:        "coordinate_emergency",
		Description: "Coordinate an emergency response plan for a free-text description and return the summary and coordination log.",
	}, h.Coordinate)
	mcp.AddTool(server, &mcp.Tool{
		Name:        "list_fallback_scenarios",
		Description: "List the built-in fallback scenarios and the keywords that select them.",
	}, h.ListScenarios)
	return server
}

// Run serves the tools over stdio until ctx is cancelled or the client disconnects.
func Run(ctx context.Context, h *Handlers, version string) error {
	log.Printf("component=mcp action=serve transport=stdio")
	return NewServer(h, version).Run(ctx, &mcp.StdioTransport{})
}
