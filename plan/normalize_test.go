// ABOUTME: Tests for response normalization: fence stripping, shape classification and parse errors.
// ABOUTME: Includes the canonical round-trip and the 500-character diagnostic prefix.
package plan

import (
	"encoding/json"
	"errors"
	"reflect"
	"strings"
	"testing"
	"unicode/utf8"
)

const canonicalPlan = `{"script":[{"source":"me","target":"network","message":"扫描法律援助节点","type":"scan"},{"source":"#L888","target":"me","message":"已检索交通法规","type":"negotiate"}],"summary":{"title":"法律援助协调完成","actions":[{"icon":"⚖️","title":"法律顾问","description":"已生成应对话术与权利提示"},{"icon":"🗣️","title":"翻译协助","description":"实时翻译已就绪"},{"icon":"📞","title":"家人通知","description":"已通知紧急联系人"}],"recommendation":"保持冷静"}}`

func TestNormalize_Shapes(t *testing.T) {
	tests := []struct {
		name       string
		text       string
		wantShape  Shape
		wantEvents int
		wantSum    bool
	}{
		{"full", canonicalPlan, ShapeFull, 2, true},
		{"script only", `{"script":[{"source":"me","target":"network","message":"m","type":"scan"}]}`, ShapeScriptOnly, 1, false},
		{"legacy array", `[{"source":"me","target":"network","message":"m","type":"scan"}]`, ShapeLegacyArray, 1, false},
		{"null summary", `{"script":[],"summary":null}`, ShapeScriptOnly, 0, false},
		{"empty script", `{"script":[],"summary":{"title":"t","actions":[]}}`, ShapeFull, 0, true},
		{"json fence", "```json\n" + canonicalPlan + "\n```", ShapeFull, 2, true},
		{"bare fence", "```\n" + canonicalPlan + "\n```", ShapeFull, 2, true},
		{"other language tag", "```javascript\n" + canonicalPlan + "\n```", ShapeFull, 2, true},
		{"surrounding whitespace", "\n\n  " + canonicalPlan + "  \n", ShapeFull, 2, true},
		{"extra keys ignored", `{"script":[],"note":"x"}`, ShapeScriptOnly, 0, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Normalize(tt.text)
			if err != nil {
				t.Fatalf("Normalize: %v", err)
			}
			if got.Shape != tt.wantShape {
				t.Errorf("Shape = %v, want %v", got.Shape, tt.wantShape)
			}
			if len(got.Script) != tt.wantEvents {
				t.Errorf("len(Script) = %d, want %d", len(got.Script), tt.wantEvents)
			}
			if (got.Summary != nil) != tt.wantSum {
				t.Errorf("Summary present = %v, want %v", got.Summary != nil, tt.wantSum)
			}
		})
	}
}

func TestNormalize_UnusableSummaryKeepsScript(t *testing.T) {
	const script = `[{"source":"me","target":"network","message":"m","type":"scan"}]`
	tests := []struct {
		name    string
		summary string
		reason  string
	}{
		{"empty string", `""`, "summary is empty"},
		{"zero", `0`, "summary is empty"},
		{"false", `false`, "summary is empty"},
		{"string", `"done"`, "summary has unexpected structure"},
		{"actions not a list", `{"title":"t","actions":"oops"}`, "summary has unexpected structure"},
		{"recommendation number", `{"title":"t","actions":[],"recommendation":5}`, "summary has unexpected structure"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Normalize(`{"script":` + script + `,"summary":` + tt.summary + `}`)
			if err != nil {
				t.Fatalf("Normalize: %v", err)
			}
			if got.Shape != ShapeScriptOnly {
				t.Errorf("Shape = %v, want script_only", got.Shape)
			}
			if len(got.Script) != 1 {
				t.Errorf("len(Script) = %d, want 1", len(got.Script))
			}
			if got.Summary != nil {
				t.Errorf("Summary = %+v, want nil", got.Summary)
			}
			if !strings.Contains(got.SummaryDropped, tt.reason) {
				t.Errorf("SummaryDropped = %q, want to contain %q", got.SummaryDropped, tt.reason)
			}
		})
	}
}

func TestNormalize_CanonicalRoundTrip(t *testing.T) {
	got, err := Normalize(canonicalPlan)
	if err != nil {
		t.Fatalf("Normalize: %v", err)
	}
	out, err := json.Marshal(got)
	if err != nil {
		t.Fatal(err)
	}
	var want, have any
	_ = json.Unmarshal([]byte(canonicalPlan), &want)
	_ = json.Unmarshal(out, &have)
	if !reflect.DeepEqual(want, have) {
		t.Errorf("round trip changed plan:\n got %s\nwant %s", out, canonicalPlan)
	}
}

func TestNormalize_Errors(t *testing.T) {
	tests := []struct {
		name   string
		text   string
		reason string
	}{
		{"empty object", `{}`, "unexpected structure"},
		{"null script", `{"script":null}`, "unexpected structure"},
		{"number", `42`, "unexpected structure"},
		{"not json", `Sure! Here is your plan`, "not valid JSON"},
		{"empty", ``, "not valid JSON"},
		{"script not a list", `{"script":"x"}`, "script has unexpected structure"},
		{"unterminated fence", "```json\n{\"script\":[", "not valid JSON"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Normalize(tt.text)
			var pe *ParseError
			if !errors.As(err, &pe) {
				t.Fatalf("err = %v, want *ParseError", err)
			}
			if !strings.Contains(pe.Reason, tt.reason) {
				t.Errorf("Reason = %q, want to contain %q", pe.Reason, tt.reason)
			}
		})
	}
}

func TestNormalize_RawPrefixLimit(t *testing.T) {
	text := strings.Repeat("救", 800)
	_, err := Normalize(text)
	var pe *ParseError
	if !errors.As(err, &pe) {
		t.Fatalf("err = %v, want *ParseError", err)
	}
	if n := utf8.RuneCountInString(pe.RawPrefix); n != RawPrefixLimit {
		t.Errorf("prefix runes = %d, want %d", n, RawPrefixLimit)
	}
	if !utf8.ValidString(pe.RawPrefix) {
		t.Error("prefix is not valid UTF-8")
	}
}
