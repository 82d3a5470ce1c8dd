// ABOUTME: Loads a replacement fallback rule table from a YAML scenario file.
// ABOUTME: The file lists named scenarios with keywords; one of them is named as the default.
package emergency

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"
)

// Scenario file validation errors.
var (
	ErrNoScenarios     = errors.New("scenario file defines no scenarios")
	ErrUnknownDefault  = errors.New("default scenario not defined")
	ErrInvalidScenario = errors.New("invalid scenario")
)

type scenarioFile struct {
	Default   string          `yaml:"default"`
	Scenarios []scenarioEntry `yaml:"scenarios"`
}

type scenarioEntry struct {
	Scenario `yaml:",inline"`
	Keywords []string `yaml:"keywords"`
}

// LoadScenarioFile reads and parses a YAML scenario file.
func LoadScenarioFile(path string) (*Selector, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read scenario file: %w", err)
	}
	return ParseScenarios(data)
}

// ParseScenarios builds a Selector from YAML. Scenarios are matched in file order;
// the default scenario is only returned when no other rule matches, so it may
// not list keywords. Keywords are matched case-insensitively.
func ParseScenarios(data []byte) (*Selector, error) {
	var f scenarioFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("parse scenario file: %w", err)
	}
	if len(f.Scenarios) == 0 {
		return nil, ErrNoScenarios
	}

	var (
		rules Rules[Scenario]
		def   *Scenario
	)
	for i := range f.Scenarios {
		entry := f.Scenarios[i]
		if err := checkScenario(entry.Scenario); err != nil {
			return nil, err
		}
		if entry.Name == f.Default {
			if len(entry.Keywords) > 0 {
				return nil, fmt.Errorf("%w: default scenario %q lists keywords", ErrInvalidScenario, entry.Name)
			}
			s := entry.Scenario
			def = &s
			continue
		}
		keywords := make([]string, len(entry.Keywords))
		for k, kw := range entry.Keywords {
			keywords[k] = strings.ToLower(kw)
		}
		rules = append(rules, Rule[Scenario]{Keywords: keywords, Result: entry.Scenario})
	}
	if def == nil {
		return nil, fmt.Errorf("%w: %q", ErrUnknownDefault, f.Default)
	}
	return NewSelector(rules, *def), nil
}

// scenarioContract is the shape a file-defined scenario must have to be playable.
type scenarioContract struct {
	Name         string         `validate:"required"`
	Kinds        []PlaybackKind `validate:"min=1,dive,oneof=broadcast found negotiate success"`
	SummaryTitle string         `validate:"required"`
	Actions      []Action       `validate:"min=3,max=5"`
}

var scenarioValidate = validator.New(validator.WithRequiredStructEnabled())

func checkScenario(s Scenario) error {
	c := scenarioContract{Name: s.Name, SummaryTitle: s.Summary.Title, Actions: s.Summary.Actions}
	for _, e := range s.Events {
		c.Kinds = append(c.Kinds, e.Kind)
	}
	err := scenarioValidate.Struct(c)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return fmt.Errorf("%w: %v", ErrInvalidScenario, err)
	}
	parts := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		parts = append(parts, fmt.Sprintf("%s failed %s=%s (got %v)", fe.Field(), fe.Tag(), fe.Param(), fe.Value()))
	}
	return fmt.Errorf("%w: scenario %q: %s", ErrInvalidScenario, s.Name, strings.Join(parts, "; "))
}
