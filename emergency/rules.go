// ABOUTME: Ordered keyword rules evaluated first-match-wins, shared by every keyword classifier.
// ABOUTME: Keeps classification tables as data so they can be replaced without touching control flow.
package emergency

import "strings"

// Rule maps a keyword set to a result. It matches when the subject contains any keyword.
type Rule[T any] struct {
	Keywords []string `yaml:"keywords"`
	Result   T        `yaml:"result"`
}

// Matches reports whether subject contains at least one of the rule's keywords.
func (r Rule[T]) Matches(subject string) bool {
	for _, kw := range r.Keywords {
		if kw != "" && strings.Contains(subject, kw) {
			return true
		}
	}
	return false
}

// Rules is an ordered rule list.
type Rules[T any] []Rule[T]

// Match returns the result of the first matching rule, or def when none match.
func (rs Rules[T]) Match(subject string, def T) T {
	for _, r := range rs {
		if r.Matches(subject) {
			return r.Result
		}
	}
	return def
}
