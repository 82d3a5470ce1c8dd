// ABOUTME: Optional contract validation of normalized plans against the generation prompt's limits.
// ABOUTME: Permissive mode accepts anything that parsed; strict mode rejects out-of-contract responses.
package plan

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/2389-research/lifeline/emergency"
)

// Strictness selects how closely generated plans must follow the prompt contract.
type Strictness int

const (
	StrictnessPermissive Strictness = iota
	StrictnessStrict
)

// ParseStrictness accepts "permissive" or "strict".
func ParseStrictness(s string) (Strictness, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "permissive":
		return StrictnessPermissive, nil
	case "strict":
		return StrictnessStrict, nil
	default:
		return StrictnessPermissive, fmt.Errorf("unknown strictness %q", s)
	}
}

func (s Strictness) String() string {
	if s == StrictnessStrict {
		return "strict"
	}
	return "permissive"
}

type contractPlan struct {
	Script  []emergency.WireEvent `validate:"min=5,max=8,dive"`
	Summary *emergency.Summary    `validate:"omitempty"`
}

var validate = validator.New(validator.WithRequiredStructEnabled())

// Validate checks raw against the prompt contract when strictness is strict.
// Event type must be one of the wire kinds, messages are at most 15 characters,
// scripts have 5-8 events and summaries have 3-5 actions. A summary that
// Normalize had to discard is also a violation. Violations are
// reported as *ParseError so they degrade like any malformed response.
func Validate(raw RawPlan, strictness Strictness) error {
	if strictness != StrictnessStrict {
		return nil
	}
	if raw.SummaryDropped != "" {
		return &ParseError{Reason: "response violates plan contract", Err: errors.New(raw.SummaryDropped)}
	}
	if err := validate.Struct(contractPlan{Script: raw.Script, Summary: raw.Summary}); err != nil {
		return &ParseError{Reason: "response violates plan contract", Err: describeViolations(err)}
	}
	return nil
}

func describeViolations(err error) error {
	verrs, ok := err.(validator.ValidationErrors)
	if !ok {
		return err
	}
	parts := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		parts = append(parts, fmt.Sprintf("%s failed %s", fe.Namespace(), fe.Tag()))
	}
	return errors.New(strings.Join(parts, "; "))
}
