// ABOUTME: Fallback selection: classify free-text input into a canned scenario by keyword.
// ABOUTME: Selection is total and deterministic; the rule table can be swapped via a Selector.
package emergency

import "strings"

// Selector picks a fallback scenario for an input using an ordered rule list and a default.
type Selector struct {
	rules Rules[Scenario]
	def   Scenario
}

// NewSelector builds a selector from an ordered rule list and a default scenario.
func NewSelector(rules Rules[Scenario], def Scenario) *Selector {
	return &Selector{rules: rules, def: def}
}

// DefaultSelector uses the built-in medical/security/traffic scenarios.
var DefaultSelector = NewSelector(DefaultRules, MedicalScenario)

// Select returns a copy of the scenario for input. Matching is case-insensitive.
func (s *Selector) Select(input string) Scenario {
	return s.rules.Match(strings.ToLower(input), s.def).Clone()
}

// Scenarios lists every scenario the selector can return, rules first and the default last.
func (s *Selector) Scenarios() []Scenario {
	out := make([]Scenario, 0, len(s.rules)+1)
	for _, r := range s.rules {
		out = append(out, r.Result.Clone())
	}
	return append(out, s.def.Clone())
}

// Keywords returns the keywords that route to the named scenario. The default has none.
func (s *Selector) Keywords(name string) []string {
	for _, r := range s.rules {
		if r.Result.Name == name {
			return append([]string(nil), r.Keywords...)
		}
	}
	return nil
}

// SelectFallback classifies input with the built-in rules.
func SelectFallback(input string) Scenario {
	return DefaultSelector.Select(input)
}
