// ABOUTME: Converts a generated wire script into playback events bracketed by synthetic start and end events.
// ABOUTME: Source codes, targets and event types are mapped into the playback vocabulary by ordered rules.
package plan

import (
	"fmt"

	"github.com/2389-research/lifeline/emergency"
)

// sourceRules maps organization codes found in a wire source to node types.
// Order matters: the first contained token wins.
var sourceRules = emergency.Rules[emergency.NodeType]{
	{Keywords: []string{"me"}, Result: emergency.NodeMe},
	{Keywords: []string{"network"}, Result: emergency.NodeNetwork},
	{Keywords: []string{"P911"}, Result: emergency.NodePolice},
	{Keywords: []string{"H120"}, Result: emergency.NodeNurse},
	{Keywords: []string{"L888"}, Result: emergency.NodeLawyer},
	{Keywords: []string{"I555"}, Result: emergency.NodeInsurance},
	{Keywords: []string{"R222"}, Result: emergency.NodeMechanic},
	{Keywords: []string{"T444"}, Result: emergency.NodeNurse},
}

// Synthetic bracket events.
const (
	StartEventID    = "start"
	EndEventID      = "end"
	EndEventMessage = "✅ 你的AI已完成所有协调"

	generatedIDPrefix = "ai-"
)

// MapSource maps a wire source to a node type, defaulting to network.
func MapSource(source string) emergency.NodeType {
	return sourceRules.Match(source, emergency.NodeNetwork)
}

// MapTarget maps a wire target: only the literal "me" stays local.
func MapTarget(target string) emergency.NodeType {
	if target == "me" {
		return emergency.NodeMe
	}
	return emergency.NodeNetwork
}

// MapKind maps a wire event type to a playback kind. Unknown types negotiate.
func MapKind(kind emergency.WireKind) emergency.PlaybackKind {
	switch kind {
	case emergency.WireScan:
		return emergency.KindBroadcast
	case emergency.WireFound:
		return emergency.KindFound
	case emergency.WireConfirm:
		return emergency.KindSuccess
	default:
		return emergency.KindNegotiate
	}
}

// StartEvent announces the user's input to the network.
func StartEvent(input string) emergency.PlaybackEvent {
	return emergency.PlaybackEvent{
		ID:      StartEventID,
		Source:  emergency.NodeMe,
		Target:  emergency.NodeNetwork,
		Message: fmt.Sprintf("📡 正在向 AI 网络广播: \"%s\"", input),
		Kind:    emergency.KindBroadcast,
	}
}

// EndEvent closes every generated playback.
func EndEvent() emergency.PlaybackEvent {
	return emergency.PlaybackEvent{
		ID:      EndEventID,
		Source:  emergency.NodeMe,
		Target:  emergency.NodeMe,
		Message: EndEventMessage,
		Kind:    emergency.KindSuccess,
	}
}

// ToPlayback remaps script and brackets it with the start and end events.
func ToPlayback(input string, script []emergency.WireEvent) []emergency.PlaybackEvent {
	events := make([]emergency.PlaybackEvent, 0, len(script)+2)
	events = append(events, StartEvent(input))
	for i, w := range script {
		events = append(events, emergency.PlaybackEvent{
			ID:      fmt.Sprintf("%s%d", generatedIDPrefix, i),
			Source:  MapSource(w.Source),
			Target:  MapTarget(w.Target),
			Message: w.Message,
			Kind:    MapKind(w.Type),
		})
	}
	return append(events, EndEvent())
}
