// ABOUTME: Core data model for emergency coordination: wire events, playback events, plans and nodes.
// ABOUTME: Wire events are what a plan generator emits; playback events are what the engine replays.
package emergency

// WireKind is the event type used in generated plan scripts.
type WireKind string

const (
	WireScan      WireKind = "scan"
	WireFound     WireKind = "found"
	WireNegotiate WireKind = "negotiate"
	WireConfirm   WireKind = "confirm"
)

// PlaybackKind is the event type rendered during playback.
type PlaybackKind string

const (
	KindBroadcast PlaybackKind = "broadcast"
	KindFound     PlaybackKind = "found"
	KindNegotiate PlaybackKind = "negotiate"
	KindSuccess   PlaybackKind = "success"
)

// NodeType identifies the role of a participant in the coordination network.
type NodeType string

const (
	NodeMe        NodeType = "me"
	NodeNetwork   NodeType = "network"
	NodeNurse     NodeType = "nurse"
	NodeDoctor    NodeType = "doctor"
	NodeFamily    NodeType = "family"
	NodeAmbulance NodeType = "ambulance"
	NodePolice    NodeType = "police"
	NodeLawyer    NodeType = "lawyer"
	NodeMechanic  NodeType = "mechanic"
	NodeInsurance NodeType = "insurance"
)

// Icon returns the glyph used to draw a node of this type.
func (t NodeType) Icon() string {
	switch t {
	case NodeMe:
		return "🤖"
	case NodeNurse:
		return "🗣️"
	case NodeDoctor:
		return "🏥"
	case NodePolice:
		return "👮"
	case NodeLawyer:
		return "⚖️"
	case NodeMechanic:
		return "🔧"
	case NodeInsurance:
		return "📝"
	default:
		return "📞"
	}
}

// NodeStatus is the display status of a visual node.
type NodeStatus string

const (
	StatusSearching NodeStatus = "searching"
	StatusConnected NodeStatus = "connected"
	StatusActive    NodeStatus = "active"
)

// WireEvent is one entry of a generated plan script, exactly as the generator produced it.
type WireEvent struct {
	Source  string   `json:"source" yaml:"source" validate:"required"`
	Target  string   `json:"target" yaml:"target" validate:"required"`
	Message string   `json:"message" yaml:"message" validate:"required,max=15"`
	Type    WireKind `json:"type" yaml:"type" validate:"required,oneof=scan found negotiate confirm"`
}

// PlaybackEvent is one step of a coordination replay.
type PlaybackEvent struct {
	ID      string       `json:"id" yaml:"id"`
	Source  NodeType     `json:"source" yaml:"source"`
	Target  NodeType     `json:"target" yaml:"target"`
	Message string       `json:"message" yaml:"message"`
	Kind    PlaybackKind `json:"type" yaml:"type"`
}

// Action is a single recommended step shown in a plan summary.
type Action struct {
	Icon        string `json:"icon" yaml:"icon"`
	Title       string `json:"title" yaml:"title" validate:"required,max=6"`
	Description string `json:"description" yaml:"description" validate:"required,max=25"`
}

// Summary is the human-facing outcome of a coordination attempt.
type Summary struct {
	Title          string   `json:"title" yaml:"title" validate:"required,max=10"`
	Actions        []Action `json:"actions" yaml:"actions" validate:"min=3,max=5,dive"`
	Recommendation string   `json:"recommendation,omitempty" yaml:"recommendation,omitempty"`
}

// Plan is the result of one acquisition attempt. Script is empty unless IsAIGenerated is true.
type Plan struct {
	Script        []WireEvent `json:"script"`
	Summary       Summary     `json:"summary"`
	IsAIGenerated bool        `json:"isAIGenerated"`
}

// VisualNode is a participant discovered during playback. X and Y are percentages.
type VisualNode struct {
	ID     string     `json:"id"`
	Type   NodeType   `json:"type"`
	Label  string     `json:"label"`
	X      float64    `json:"x"`
	Y      float64    `json:"y"`
	Status NodeStatus `json:"status"`
}

// Scenario is a canned fallback: a fixed playback script and its summary.
type Scenario struct {
	Name    string          `json:"name" yaml:"name"`
	Events  []PlaybackEvent `json:"events" yaml:"events"`
	Summary Summary         `json:"summary" yaml:"summary"`
}

// Clone returns a deep copy so callers can't mutate shared scenario data.
func (s Scenario) Clone() Scenario {
	out := Scenario{Name: s.Name, Summary: s.Summary}
	out.Events = append([]PlaybackEvent(nil), s.Events...)
	out.Summary.Actions = append([]Action(nil), s.Summary.Actions...)
	return out
}

// FallbackPlan returns the plan shown when a scenario stands in for a generated one.
func (s Scenario) FallbackPlan() Plan {
	return Plan{
		Script:        []WireEvent{},
		Summary:       s.Clone().Summary,
		IsAIGenerated: false,
	}
}
