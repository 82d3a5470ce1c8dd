// ABOUTME: Catalog of plan-generation providers: the SecondMe chat stream plus mux-backed LLM providers.
// ABOUTME: Maps a provider name to its default model and the environment variable holding its API key.
package llm

import (
	"context"
	"errors"
	"fmt"
	"sort"

	muxllm "github.com/2389-research/mux/llm"
)

// Provider names accepted by NewMuxClient.
const (
	ProviderSecondMe     = "secondme"
	ProviderAnthropic    = "anthropic"
	ProviderOpenAI       = "openai"
	ProviderGemini       = "gemini"
	ProviderOpenAICompat = "openai-compat"
)

var (
	ErrUnknownProvider = errors.New("unknown plan provider")
	ErrMissingAPIKey   = errors.New("missing API key for plan provider")
)

// ProviderInfo describes one mux-backed provider.
type ProviderInfo struct {
	Name         string
	DefaultModel string
	APIKeyEnv    string
}

var providers = map[string]ProviderInfo{
	ProviderAnthropic:    {Name: ProviderAnthropic, DefaultModel: "claude-sonnet-4-5", APIKeyEnv: "ANTHROPIC_API_KEY"},
	ProviderOpenAI:       {Name: ProviderOpenAI, DefaultModel: "gpt-5.2-mini", APIKeyEnv: "OPENAI_API_KEY"},
	ProviderGemini:       {Name: ProviderGemini, DefaultModel: "gemini-3-flash-preview", APIKeyEnv: "GEMINI_API_KEY"},
	ProviderOpenAICompat: {Name: ProviderOpenAICompat, DefaultModel: "gpt-5.2-mini", APIKeyEnv: "OPENAI_API_KEY"},
}

// LookupProvider returns the catalog entry for name.
func LookupProvider(name string) (ProviderInfo, bool) {
	p, ok := providers[name]
	return p, ok
}

// ProviderNames lists every accepted provider name, including secondme.
func ProviderNames() []string {
	names := []string{ProviderSecondMe}
	for name := range providers {
		names = append(names, name)
	}
	sort.Strings(names[1:])
	return names
}

// NewMuxClient builds a mux client for a catalog provider. An empty model
// selects the provider default; baseURL only applies to openai-compat.
func NewMuxClient(ctx context.Context, provider, apiKey, model, baseURL string) (muxllm.Client, string, error) {
	info, ok := providers[provider]
	if !ok {
		return nil, "", fmt.Errorf("%w: %q", ErrUnknownProvider, provider)
	}
	if apiKey == "" {
		return nil, "", fmt.Errorf("%w: set %s", ErrMissingAPIKey, info.APIKeyEnv)
	}
	if model == "" {
		model = info.DefaultModel
	}

	switch provider {
	case ProviderAnthropic:
		return muxllm.NewAnthropicClient(apiKey, model), model, nil
	case ProviderOpenAI:
		return muxllm.NewOpenAIClient(apiKey, model), model, nil
	case ProviderGemini:
		client, err := muxllm.NewGeminiClient(ctx, apiKey, model)
		if err != nil {
			return nil, "", fmt.Errorf("create gemini client: %w", err)
		}
		return client, model, nil
	default:
		return NewOpenAICompatClient(apiKey, model, baseURL), model, nil
	}
}
