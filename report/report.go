// ABOUTME: Renders a finished coordination as a Markdown report and converts it to HTML with goldmark.
// ABOUTME: The report carries the summary, its actions and the coordination log in playback order.
package report

import (
	"bytes"
	"fmt"
	"html/template"
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"

	"github.com/2389-research/lifeline/emergency"
)

const (
	generatedSubtitle = "AI 实时生成的救援方案"
	fallbackSubtitle  = "无需操作，请保持冷静"
	generatedFooter   = "本次救援由 SecondMe AI 实时协调"
	fallbackFooter    = "本次救援由 4 个 AI 节点协作完成"
)

// Subtitle is the line shown under the summary title.
func Subtitle(p emergency.Plan) string {
	if p.IsAIGenerated {
		return generatedSubtitle
	}
	return fallbackSubtitle
}

// Footer credits whoever coordinated the plan.
func Footer(p emergency.Plan) string {
	if p.IsAIGenerated {
		return generatedFooter
	}
	return fallbackFooter
}

// Markdown renders the plan summary and the coordination log.
func Markdown(p emergency.Plan, events []emergency.PlaybackEvent) string {
	var b strings.Builder
	fmt.Fprintf(&b, "# ✅ %s\n\n", escape(p.Summary.Title))
	fmt.Fprintf(&b, "_%s_\n\n", Subtitle(p))

	b.WriteString("## 行动\n\n")
	for _, a := range p.Summary.Actions {
		fmt.Fprintf(&b, "- %s **%s**: %s\n", a.Icon, escape(a.Title), escape(a.Description))
	}
	b.WriteString("\n")

	if p.Summary.Recommendation != "" {
		fmt.Fprintf(&b, "> 💡 %s\n\n", escape(p.Summary.Recommendation))
	}

	if len(events) > 0 {
		b.WriteString("## 协调记录\n\n")
		b.WriteString("| # | 来源 | 目标 | 类型 | 消息 |\n")
		b.WriteString("|---|---|---|---|---|\n")
		for i, e := range events {
			fmt.Fprintf(&b, "| %d | %s %s | %s %s | %s | %s |\n",
				i+1, e.Source.Icon(), e.Source, e.Target.Icon(), e.Target, e.Kind, cell(e.Message))
		}
		b.WriteString("\n")
	}

	fmt.Fprintf(&b, "---\n\n%s\n", Footer(p))
	return b.String()
}

// HTML renders the report as a standalone HTML document.
func HTML(p emergency.Plan, events []emergency.PlaybackEvent) (string, error) {
	body, err := ToHTML(Markdown(p, events))
	if err != nil {
		return "", err
	}
	var buf bytes.Buffer
	err = page.Execute(&buf, struct {
		Title string
		Body  template.HTML
	}{p.Summary.Title, template.HTML(body)})
	if err != nil {
		return "", fmt.Errorf("render report page: %w", err)
	}
	return buf.String(), nil
}

// ToHTML converts Markdown to an HTML fragment. Raw HTML in the input is not passed through.
func ToHTML(md string) (string, error) {
	var buf bytes.Buffer
	if err := markdown.Convert([]byte(md), &buf); err != nil {
		return "", fmt.Errorf("convert report markdown: %w", err)
	}
	return buf.String(), nil
}

var markdown = goldmark.New(goldmark.WithExtensions(extension.GFM))

var page = template.Must(template.New("report").Parse(`<!DOCTYPE html>
<html lang="zh">
<head><meta charset="utf-8"><title>{{.Title}}</title></head>
<body>
{{.Body}}
</body>
</html>
`))

var mdEscaper = strings.NewReplacer(
	`\`, `\\`, "*", `\*`, "_", `\_`, "`", "\\`", "[", `\[`, "]", `\]`, "<", "&lt;", ">", "&gt;",
)

func escape(s string) string {
	return mdEscaper.Replace(s)
}

// cell escapes text for a table cell and keeps it on one line.
func cell(s string) string {
	s = strings.NewReplacer("\r", " ", "\n", " ", "|", `\|`).Replace(s)
	return escape(s)
}
