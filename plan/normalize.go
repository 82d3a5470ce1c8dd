// ABOUTME: Normalizes accumulated model text into a partial plan: strips code fences, parses JSON, classifies shape.
// ABOUTME: Accepts a bare script array, {script}, or {script, summary}; an unusable summary degrades to script-only.
package plan

import (
	"bytes"
	"encoding/json"
	"fmt"
	"log"
	"regexp"
	"strings"

	"github.com/2389-research/lifeline/emergency"
)

// Shape identifies which response layout a RawPlan came from.
type Shape int

const (
	ShapeLegacyArray Shape = iota + 1
	ShapeScriptOnly
	ShapeFull
)

func (s Shape) String() string {
	switch s {
	case ShapeLegacyArray:
		return "legacy_array"
	case ShapeScriptOnly:
		return "script_only"
	case ShapeFull:
		return "full"
	default:
		return "unknown"
	}
}

// RawPlan is a normalized, not yet remapped, generator response. Summary is
// nil unless Shape is ShapeFull. SummaryDropped holds the reason a present
// but unusable summary was discarded.
type RawPlan struct {
	Shape          Shape                 `json:"-"`
	Script         []emergency.WireEvent `json:"script"`
	Summary        *emergency.Summary    `json:"summary,omitempty"`
	SummaryDropped string                `json:"-"`
}

var (
	openingFence = regexp.MustCompile("^```[A-Za-z0-9_+-]*\\s*")
	closingFence = regexp.MustCompile("\\s*```$")
)

// stripFences removes a leading code fence (with or without a language tag)
// and the matching trailing fence.
func stripFences(text string) string {
	if !strings.HasPrefix(text, "```") {
		return text
	}
	text = openingFence.ReplaceAllString(text, "")
	return strings.TrimSpace(closingFence.ReplaceAllString(text, ""))
}

// Normalize parses accumulated model output. The returned error is always a *ParseError.
func Normalize(text string) (RawPlan, error) {
	body := stripFences(strings.TrimSpace(text))
	data := []byte(body)

	if !json.Valid(data) {
		return RawPlan{}, newParseError("response is not valid JSON", text, nil)
	}

	if trimmed := bytes.TrimSpace(data); len(trimmed) > 0 && trimmed[0] == '[' {
		var script []emergency.WireEvent
		if err := json.Unmarshal(data, &script); err != nil {
			return RawPlan{}, newParseError("script has unexpected structure", text, err)
		}
		return RawPlan{Shape: ShapeLegacyArray, Script: script}, nil
	}

	var obj map[string]json.RawMessage
	if err := json.Unmarshal(data, &obj); err != nil {
		return RawPlan{}, newParseError("unexpected structure", text, fmt.Errorf("%w: %v", ErrUnexpectedStructure, err))
	}
	rawScript, ok := obj["script"]
	if !ok || isNull(rawScript) {
		return RawPlan{}, newParseError("unexpected structure", text, ErrUnexpectedStructure)
	}

	var out RawPlan
	if err := json.Unmarshal(rawScript, &out.Script); err != nil {
		return RawPlan{}, newParseError("script has unexpected structure", text, err)
	}
	out.Shape = ShapeScriptOnly

	rawSummary, ok := obj["summary"]
	if !ok || isNull(rawSummary) {
		return out, nil
	}
	if isFalsy(rawSummary) {
		out.SummaryDropped = "summary is empty"
	} else {
		var summary emergency.Summary
		if err := json.Unmarshal(rawSummary, &summary); err != nil {
			out.SummaryDropped = fmt.Sprintf("summary has unexpected structure: %v", err)
		} else {
			out.Summary = &summary
			out.Shape = ShapeFull
		}
	}
	if out.SummaryDropped != "" {
		log.Printf("component=plan action=normalize result=summary_dropped reason=%q", out.SummaryDropped)
	}
	return out, nil
}

func isNull(raw json.RawMessage) bool {
	return string(bytes.TrimSpace(raw)) == "null"
}

// isFalsy matches the JSON scalars a model emits in place of an absent summary.
func isFalsy(raw json.RawMessage) bool {
	switch string(bytes.TrimSpace(raw)) {
	case `""`, "0", "false":
		return true
	}
	return false
}
