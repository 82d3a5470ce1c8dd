// ABOUTME: Runtime configuration loaded from LIFELINE_* environment variables after an optional .env file.
// ABOUTME: Validates the session secret, bind address, plan provider and timing before any host starts.
package config

import (
	"errors"
	"fmt"
	"net"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"

	"github.com/2389-research/lifeline/llm"
	"github.com/2389-research/lifeline/plan"
	"github.com/2389-research/lifeline/playback"
	"github.com/2389-research/lifeline/secondme"
)

// DevSessionSecret signs session cookies when LIFELINE_SESSION_SECRET is unset.
const DevSessionSecret = "lifeline-dev-secret-change-in-production-32ch"

// MinSessionSecretLen is the shortest accepted HMAC secret.
const MinSessionSecretLen = 32

var (
	ErrWeakSessionSecret = errors.New("LIFELINE_SESSION_SECRET must be at least 32 bytes")
	ErrInvalidBind       = errors.New("LIFELINE_BIND must be host:port")
	ErrInvalidDuration   = errors.New("invalid duration")
	ErrInvalidStrictness = errors.New("LIFELINE_STRICT must be permissive, strict, true or false")
)

// Config holds everything the hosts need to wire the pipeline.
type Config struct {
	Bind          string // LIFELINE_BIND, default 127.0.0.1:3000
	SessionSecret string // LIFELINE_SESSION_SECRET
	SecureCookies bool   // LIFELINE_SECURE_COOKIES

	OAuth           secondme.OAuthConfig // LIFELINE_OAUTH_CLIENT_ID, _SECRET, _REDIRECT_URI, _AUTHORIZE_URL
	SecondMeBaseURL string               // LIFELINE_SECONDME_BASE_URL

	PlanProvider string // LIFELINE_PLAN_PROVIDER, default secondme
	PlanModel    string // LIFELINE_PLAN_MODEL
	PlanBaseURL  string // LIFELINE_PLAN_BASE_URL, openai-compat only
	PlanAPIKey   string // from the provider's API key variable

	Tick       time.Duration   // LIFELINE_TICK
	Settle     time.Duration   // LIFELINE_SETTLE
	Strictness plan.Strictness // LIFELINE_STRICT

	JournalPath  string // LIFELINE_JOURNAL
	ScenarioFile string // LIFELINE_SCENARIOS
}

// Load reads the .env file at path, if it exists, then the environment.
// Variables already set in the environment win over the file.
func Load(path string) (*Config, error) {
	if path != "" {
		if err := godotenv.Load(path); err != nil && !errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("load %s: %w", path, err)
		}
	}
	return FromEnv()
}

// FromEnv builds a Config from LIFELINE_* variables.
func FromEnv() (*Config, error) {
	cfg := &Config{
		Bind:          envOrDefault("LIFELINE_BIND", "127.0.0.1:3000"),
		SessionSecret: envOrDefault("LIFELINE_SESSION_SECRET", DevSessionSecret),
		SecureCookies: envBool("LIFELINE_SECURE_COOKIES"),
		OAuth: secondme.OAuthConfig{
			ClientID:     os.Getenv("LIFELINE_OAUTH_CLIENT_ID"),
			ClientSecret: os.Getenv("LIFELINE_OAUTH_CLIENT_SECRET"),
			RedirectURI:  envOrDefault("LIFELINE_OAUTH_REDIRECT_URI", "http://localhost:3000/api/auth/callback"),
			AuthorizeURL: envOrDefault("LIFELINE_OAUTH_AUTHORIZE_URL", secondme.DefaultAuthorizeURL),
		},
		SecondMeBaseURL: envOrDefault("LIFELINE_SECONDME_BASE_URL", secondme.DefaultBaseURL),
		PlanProvider:    envOrDefault("LIFELINE_PLAN_PROVIDER", llm.ProviderSecondMe),
		PlanModel:       os.Getenv("LIFELINE_PLAN_MODEL"),
		PlanBaseURL:     os.Getenv("LIFELINE_PLAN_BASE_URL"),
		JournalPath:     os.Getenv("LIFELINE_JOURNAL"),
		ScenarioFile:    os.Getenv("LIFELINE_SCENARIOS"),
	}

	if len(cfg.SessionSecret) < MinSessionSecretLen {
		return nil, ErrWeakSessionSecret
	}
	if _, _, err := net.SplitHostPort(cfg.Bind); err != nil {
		return nil, fmt.Errorf("%w: %q", ErrInvalidBind, cfg.Bind)
	}

	if cfg.PlanProvider != llm.ProviderSecondMe {
		info, ok := llm.LookupProvider(cfg.PlanProvider)
		if !ok {
			return nil, fmt.Errorf("%w: %q (want one of %s)", llm.ErrUnknownProvider,
				cfg.PlanProvider, strings.Join(llm.ProviderNames(), ", "))
		}
		cfg.PlanAPIKey = os.Getenv(info.APIKeyEnv)
	}

	var err error
	if cfg.Tick, err = envDuration("LIFELINE_TICK", playback.DefaultInterval); err != nil {
		return nil, err
	}
	if cfg.Settle, err = envDuration("LIFELINE_SETTLE", playback.DefaultSettleDelay); err != nil {
		return nil, err
	}
	if cfg.Strictness, err = parseStrict(os.Getenv("LIFELINE_STRICT")); err != nil {
		return nil, err
	}
	return cfg, nil
}

func parseStrict(v string) (plan.Strictness, error) {
	switch strings.ToLower(strings.TrimSpace(v)) {
	case "", "false", "0", "no":
		return plan.StrictnessPermissive, nil
	case "true", "1", "yes":
		return plan.StrictnessStrict, nil
	}
	s, err := plan.ParseStrictness(v)
	if err != nil {
		return plan.StrictnessPermissive, fmt.Errorf("%w: %q", ErrInvalidStrictness, v)
	}
	return s, nil
}

func envDuration(key string, def time.Duration) (time.Duration, error) {
	v := os.Getenv(key)
	if v == "" {
		return def, nil
	}
	d, err := time.ParseDuration(v)
	if err != nil || d <= 0 {
		return 0, fmt.Errorf("%w: %s=%q", ErrInvalidDuration, key, v)
	}
	return d, nil
}

func envOrDefault(key, defaultVal string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return defaultVal
}

func envBool(key string) bool {
	switch strings.ToLower(os.Getenv(key)) {
	case "true", "1", "yes":
		return true
	}
	return false
}
