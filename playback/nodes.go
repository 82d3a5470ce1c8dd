// ABOUTME: Derives visual nodes from "found" playback events.
// ABOUTME: Node id, label and type come from the event message; position is random within the canvas.
package playback

import (
	"fmt"
	"math/rand/v2"
	"regexp"
	"strings"

	"github.com/2389-research/lifeline/emergency"
)

// MeNode is the user's own agent, present from the start of every playback.
var MeNode = emergency.VisualNode{
	ID:     "me",
	Type:   emergency.NodeMe,
	Label:  "你的AI",
	X:      50,
	Y:      50,
	Status: emergency.StatusActive,
}

var nodeIDPattern = regexp.MustCompile(`#\w+`)

// labelRules classify a discovered node by its label. Unmatched labels are nurses.
var labelRules = emergency.Rules[emergency.NodeType]{
	{Keywords: []string{"医"}, Result: emergency.NodeNurse},
	{Keywords: []string{"警"}, Result: emergency.NodePolice},
	{Keywords: []string{"律"}, Result: emergency.NodeLawyer},
	{Keywords: []string{"修"}, Result: emergency.NodeMechanic},
	{Keywords: []string{"险"}, Result: emergency.NodeInsurance},
}

const defaultNodeLabel = "AI Node"

// DeriveNode builds the node announced by a found event at position index.
// The id is the first #tag in the message, else node-<index>; the label is
// the third space-separated field of the message.
func DeriveNode(index int, evt emergency.PlaybackEvent, rng *rand.Rand) emergency.VisualNode {
	id := nodeIDPattern.FindString(evt.Message)
	if id == "" {
		id = fmt.Sprintf("node-%d", index)
	}
	label := defaultNodeLabel
	if fields := strings.Split(evt.Message, " "); len(fields) > 2 && fields[2] != "" {
		label = fields[2]
	}
	return emergency.VisualNode{
		ID:     id,
		Type:   labelRules.Match(label, emergency.NodeNurse),
		Label:  label,
		X:      20 + rng.Float64()*60,
		Y:      20 + rng.Float64()*60,
		Status: emergency.StatusConnected,
	}
}
