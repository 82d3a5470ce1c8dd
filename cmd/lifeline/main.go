// ABOUTME: CLI entrypoint for LifeLine with TUI, plain, HTTP server and MCP modes.
// ABOUTME: Wires config, the plan orchestrator, the playback engine and signal handling.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/2389-research/lifeline/config"
	"github.com/2389-research/lifeline/emergency"
	"github.com/2389-research/lifeline/journal"
	"github.com/2389-research/lifeline/llm"
	"github.com/2389-research/lifeline/mcpserver"
	"github.com/2389-research/lifeline/metrics"
	"github.com/2389-research/lifeline/plan"
	"github.com/2389-research/lifeline/secondme"
	"github.com/2389-research/lifeline/web"
)

var version = "dev"

// options holds the CLI flags and positional input.
type options struct {
	serverMode  bool
	mcpMode     bool
	plain       bool
	addr        string
	tick        time.Duration
	settle      time.Duration
	strict      bool
	scenarios   string
	reportPath  string
	token       string
	verbose     bool
	showVersion bool
	input       string
}

func main() {
	opts, err := parseFlags(os.Args[1:])
	if err != nil {
		if errors.Is(err, flag.ErrHelp) {
			os.Exit(0)
		}
		os.Exit(2)
	}

	if opts.showVersion {
		fmt.Printf("lifeline %s\n", version)
		os.Exit(0)
	}

	cfg, err := config.Load(".env")
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
	applyFlags(cfg, opts)

	os.Exit(run(cfg, opts))
}

// parseFlags parses command-line flags. The first positional argument is the
// emergency description.
func parseFlags(args []string) (options, error) {
	var opts options

	fs := flag.NewFlagSet("lifeline", flag.ContinueOnError)
	fs.BoolVar(&opts.serverMode, "server", false, "Start the HTTP server")
	fs.StringVar(&opts.addr, "addr", "", "Server listen address (default: LIFELINE_BIND or 127.0.0.1:3000)")
	fs.BoolVar(&opts.mcpMode, "mcp", false, "Serve MCP tools over stdio")
	fs.BoolVar(&opts.plain, "plain", false, "Print playback as plain lines instead of the TUI")
	fs.DurationVar(&opts.tick, "tick", 0, "Delay between playback events")
	fs.DurationVar(&opts.settle, "settle", 0, "Delay between the last event and the summary")
	fs.BoolVar(&opts.strict, "strict", false, "Reject generated plans that break the prompt contract")
	fs.StringVar(&opts.scenarios, "scenarios", "", "YAML file replacing the built-in fallback scenarios")
	fs.StringVar(&opts.reportPath, "report", "", "Write a report after playback (.md for Markdown, otherwise HTML)")
	fs.StringVar(&opts.token, "token", os.Getenv("LIFELINE_ACCESS_TOKEN"), "SecondMe access token for plan generation")
	fs.BoolVar(&opts.verbose, "verbose", false, "Verbose output")
	fs.BoolVar(&opts.showVersion, "version", false, "Print version and exit")

	fs.SetOutput(io.Discard)
	fs.Usage = func() {
		printHelp(os.Stderr, version)
	}

	if err := fs.Parse(args); err != nil {
		if !errors.Is(err, flag.ErrHelp) {
			fmt.Fprintf(os.Stderr, "error: %v\n", err)
		}
		return opts, err
	}

	if fs.NArg() > 0 {
		opts.input = fs.Arg(0)
	}
	return opts, nil
}

// applyFlags lets explicitly set flags override the environment config.
func applyFlags(cfg *config.Config, opts options) {
	if opts.addr != "" {
		cfg.Bind = opts.addr
	}
	if opts.tick > 0 {
		cfg.Tick = opts.tick
	}
	if opts.settle > 0 {
		cfg.Settle = opts.settle
	}
	if opts.strict {
		cfg.Strictness = plan.StrictnessStrict
	}
	if opts.scenarios != "" {
		cfg.ScenarioFile = opts.scenarios
	}
}

// run dispatches to the selected mode and returns the exit code.
func run(cfg *config.Config, opts options) int {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if !opts.serverMode && !opts.mcpMode && opts.input == "" {
		printHelp(os.Stderr, version)
		return 0
	}

	// The TUI owns the terminal; logs go to a file when verbose and nowhere otherwise.
	if !opts.serverMode && !opts.mcpMode && !opts.plain {
		if opts.verbose {
			f, err := tea.LogToFile("lifeline.log", "lifeline")
			if err != nil {
				fmt.Fprintf(os.Stderr, "error: %v\n", err)
				return 1
			}
			defer f.Close()
		} else {
			log.SetOutput(io.Discard)
		}
	} else if opts.plain && !opts.verbose {
		log.SetOutput(io.Discard)
	}

	reg := metrics.NewRegistry()
	sm := secondme.NewClient(cfg.SecondMeBaseURL, cfg.OAuth)

	orch, closeJournal, err := newOrchestrator(ctx, cfg, sm, reg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		return 1
	}
	defer closeJournal()

	switch {
	case opts.serverMode:
		return runServer(ctx, cfg, sm, orch, reg)
	case opts.mcpMode:
		if err := mcpserver.Run(ctx, mcpserver.NewHandlers(orch, opts.token), version); err != nil && ctx.Err() == nil {
			fmt.Fprintf(os.Stderr, "error: %v\n", err)
			return 1
		}
		return 0
	case opts.plain:
		return runPlain(ctx, os.Stdout, cfg, orch, reg, opts)
	default:
		return runTUI(ctx, cfg, orch, reg, opts)
	}
}

// newOrchestrator builds the plan orchestrator from config. The returned
// function closes the journal, if one was opened.
func newOrchestrator(ctx context.Context, cfg *config.Config, sm *secondme.Client, reg *metrics.Registry) (*plan.Orchestrator, func(), error) {
	gen, err := newGenerator(ctx, cfg, sm, reg)
	if err != nil {
		return nil, nil, err
	}

	ocfg := plan.Config{
		Generator:  gen,
		Strictness: cfg.Strictness,
		Metrics:    reg,
	}

	if cfg.ScenarioFile != "" {
		sel, err := emergency.LoadScenarioFile(cfg.ScenarioFile)
		if err != nil {
			return nil, nil, err
		}
		ocfg.Selector = sel
	}

	closeJournal := func() {}
	if cfg.JournalPath != "" {
		store, err := journal.Open(cfg.JournalPath)
		if err != nil {
			return nil, nil, err
		}
		ocfg.Recorder = store
		closeJournal = func() {
			if err := store.Close(); err != nil {
				log.Printf("component=cli action=journal_close err=%v", err)
			}
		}
	}

	return plan.NewOrchestrator(ocfg), closeJournal, nil
}

// newGenerator selects the SecondMe chat stream or a mux-backed provider.
func newGenerator(ctx context.Context, cfg *config.Config, sm *secondme.Client, reg *metrics.Registry) (plan.Generator, error) {
	if cfg.PlanProvider == llm.ProviderSecondMe {
		return llm.NewSecondMeGenerator(sm, reg), nil
	}
	client, model, err := llm.NewMuxClient(ctx, cfg.PlanProvider, cfg.PlanAPIKey, cfg.PlanModel, cfg.PlanBaseURL)
	if err != nil {
		return nil, err
	}
	log.Printf("component=cli action=generator provider=%s model=%s", cfg.PlanProvider, model)
	return llm.NewMuxGenerator(cfg.PlanProvider, client, model), nil
}

// runServer starts the HTTP server and blocks until ctx is cancelled.
func runServer(ctx context.Context, cfg *config.Config, sm *secondme.Client, orch *plan.Orchestrator, reg *metrics.Registry) int {
	if cfg.SessionSecret == config.DevSessionSecret {
		fmt.Fprintln(os.Stderr, "warning: using the development session secret; set LIFELINE_SESSION_SECRET")
	}
	if !cfg.OAuth.Configured() {
		fmt.Fprintln(os.Stderr, "warning: OAuth is not configured; set LIFELINE_OAUTH_CLIENT_ID and LIFELINE_OAUTH_CLIENT_SECRET")
	}

	srv, err := web.NewServer(web.Config{
		Addr:             cfg.Bind,
		SecondMe:         sm,
		Planner:          orch,
		Sessions:         web.NewSessionManager(cfg.SessionSecret, cfg.SecureCookies),
		Metrics:          reg,
		PlaybackInterval: cfg.Tick,
		SettleDelay:      cfg.Settle,
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		return 1
	}

	fmt.Fprintf(os.Stderr, "lifeline server listening on %s\n", cfg.Bind)
	if err := srv.ListenAndServe(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		return 1
	}
	return 0
}
