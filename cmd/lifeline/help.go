// ABOUTME: Help display for the lifeline CLI with grouped flags, examples and environment status.
// ABOUTME: Provides printHelp for usage output and envStatus for credential detection.
package main

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/2389-research/lifeline/llm"
)

// printHelp writes usage patterns, grouped flags, examples and environment status to w.
func printHelp(w io.Writer, ver string) {
	fmt.Fprintf(w, "lifeline %s: AI emergency coordination playback\n", ver)
	fmt.Fprintln(w)

	fmt.Fprintln(w, "Usage:")
	fmt.Fprintln(w, "  lifeline [flags] \"<emergency>\"      Acquire a plan and play it back")
	fmt.Fprintln(w, "  lifeline -server [-addr host:port]  Start the HTTP server")
	fmt.Fprintln(w, "  lifeline -mcp                       Serve MCP tools over stdio")
	fmt.Fprintln(w)

	fmt.Fprintln(w, "Playback Flags:")
	fmt.Fprintln(w, "  -plain                Print events as lines instead of the TUI")
	fmt.Fprintln(w, "  -tick <duration>      Delay between events (default: 1.5s)")
	fmt.Fprintln(w, "  -settle <duration>    Delay before the summary (default: 1.5s)")
	fmt.Fprintln(w, "  -report <file>        Write a report (.md for Markdown, otherwise HTML)")
	fmt.Fprintln(w)

	fmt.Fprintln(w, "Plan Flags:")
	fmt.Fprintln(w, "  -token <token>        SecondMe access token (default: $LIFELINE_ACCESS_TOKEN)")
	fmt.Fprintln(w, "  -strict               Reject generated plans that break the prompt contract")
	fmt.Fprintln(w, "  -scenarios <file>     YAML file replacing the built-in fallback scenarios")
	fmt.Fprintln(w)

	fmt.Fprintln(w, "Server Flags:")
	fmt.Fprintln(w, "  -server               Start HTTP server mode")
	fmt.Fprintln(w, "  -addr <host:port>     Listen address (default: 127.0.0.1:3000)")
	fmt.Fprintln(w)

	fmt.Fprintln(w, "Other:")
	fmt.Fprintln(w, "  -verbose              Verbose output (TUI mode logs to lifeline.log)")
	fmt.Fprintln(w, "  -version              Print version and exit")
	fmt.Fprintln(w, "  -help                 Show this help")
	fmt.Fprintln(w)

	fmt.Fprintln(w, "Examples:")
	fmt.Fprintln(w, "  lifeline \"我在路上摔倒了，腿很疼\"")
	fmt.Fprintln(w, "  lifeline -plain -tick 200ms -report plan.md \"有人跟踪我\"")
	fmt.Fprintln(w, "  lifeline -server -addr :3000")
	fmt.Fprintln(w)

	fmt.Fprintln(w, "Environment:")
	fmt.Fprintf(w, "  LIFELINE_PLAN_PROVIDER  %s (one of %s)\n",
		envOrDash("LIFELINE_PLAN_PROVIDER"), strings.Join(llm.ProviderNames(), ", "))
	fmt.Fprintf(w, "  LIFELINE_ACCESS_TOKEN   %s\n", envStatus("LIFELINE_ACCESS_TOKEN"))
	fmt.Fprintf(w, "  LIFELINE_OAUTH_CLIENT_ID %s\n", envStatus("LIFELINE_OAUTH_CLIENT_ID"))
	fmt.Fprintf(w, "  ANTHROPIC_API_KEY       %s\n", envStatus("ANTHROPIC_API_KEY"))
	fmt.Fprintf(w, "  OPENAI_API_KEY          %s\n", envStatus("OPENAI_API_KEY"))
	fmt.Fprintf(w, "  GEMINI_API_KEY          %s\n", envStatus("GEMINI_API_KEY"))
	fmt.Fprintln(w)
	fmt.Fprintln(w, "  Without a token or API key every run plays a built-in fallback scenario.")
}

// envStatus returns "[set]" if the named environment variable is non-empty,
// or "[not set]" otherwise.
func envStatus(key string) string {
	if os.Getenv(key) != "" {
		return "[set]"
	}
	return "[not set]"
}

func envOrDash(key string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return "-"
}
