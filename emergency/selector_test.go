// ABOUTME: Tests for keyword-based fallback selection.
// ABOUTME: Covers rule precedence, case folding, totality and copy isolation.
package emergency

import (
	"testing"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
)

func TestSelectFallback(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"empty input", "", ScenarioMedical},
		{"medical", "肚子痛", ScenarioMedical},
		{"robbery", "我被抢劫了", ScenarioSecurity},
		{"theft", "钱包被偷", ScenarioSecurity},
		{"fight", "有人打架", ScenarioSecurity},
		{"danger", "这里很危险", ScenarioSecurity},
		{"collision", "发生车祸", ScenarioTraffic},
		{"hit", "被撞了", ScenarioTraffic},
		{"breakdown", "汽车故障", ScenarioTraffic},
		{"security before traffic", "车被偷了", ScenarioSecurity},
		{"latin text", "I feel DIZZY", ScenarioMedical},
		{"lost", "迷路", ScenarioMedical},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := SelectFallback(tt.input)
			if got.Name != tt.want {
				t.Errorf("SelectFallback(%q) = %q, want %q", tt.input, got.Name, tt.want)
			}
		})
	}
}

func TestSelectFallback_ScenarioShape(t *testing.T) {
	for _, s := range DefaultSelector.Scenarios() {
		if len(s.Events) != 9 {
			t.Errorf("%s: len(Events) = %d, want 9", s.Name, len(s.Events))
		}
		if s.Events[0].Kind != KindBroadcast {
			t.Errorf("%s: first event kind = %q, want broadcast", s.Name, s.Events[0].Kind)
		}
		if last := s.Events[len(s.Events)-1]; last.Kind != KindSuccess {
			t.Errorf("%s: last event kind = %q, want success", s.Name, last.Kind)
		}
	}
}

func TestSelectFallback_ReturnsCopy(t *testing.T) {
	a := SelectFallback("车祸")
	a.Events[0].Message = "mutated"
	a.Summary.Actions[0].Title = "mutated"

	b := SelectFallback("车祸")
	if b.Events[0].Message == "mutated" {
		t.Error("event mutation leaked into shared scenario")
	}
	if b.Summary.Actions[0].Title == "mutated" {
		t.Error("action mutation leaked into shared scenario")
	}
}

func TestFallbackPlan(t *testing.T) {
	p := TrafficScenario.FallbackPlan()
	if p.IsAIGenerated {
		t.Error("IsAIGenerated = true, want false")
	}
	if p.Script == nil || len(p.Script) != 0 {
		t.Errorf("Script = %v, want empty non-nil slice", p.Script)
	}
	if p.Summary.Title != "事故处理协调完成" {
		t.Errorf("Summary.Title = %q", p.Summary.Title)
	}
}

func TestSelector_Keywords(t *testing.T) {
	if got := DefaultSelector.Keywords(ScenarioSecurity); len(got) != 4 {
		t.Errorf("Keywords(security) = %v, want 4 keywords", got)
	}
	if got := DefaultSelector.Keywords(ScenarioMedical); got != nil {
		t.Errorf("Keywords(medical) = %v, want nil", got)
	}
}

func TestSelectFallback_Properties(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 200
	properties := gopter.NewProperties(parameters)

	properties.Property("every input yields a usable summary", prop.ForAll(
		func(s string) bool {
			sc := SelectFallback(s)
			n := len(sc.Summary.Actions)
			return sc.Summary.Title != "" && n >= 3 && n <= 5 && len(sc.Events) > 0
		},
		gen.AnyString(),
	))

	properties.Property("selection is deterministic", prop.ForAll(
		func(s string) bool {
			return SelectFallback(s).Name == SelectFallback(s).Name
		},
		gen.AnyString(),
	))

	properties.Property("security keywords win over anything appended", prop.ForAll(
		func(prefix, suffix string) bool {
			return SelectFallback(prefix+"抢劫"+suffix+"车祸").Name == ScenarioSecurity
		},
		gen.AlphaString(),
		gen.AlphaString(),
	))

	properties.TestingRun(t)
}
