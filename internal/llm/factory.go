package llm

import (
	"errors"
	"fmt"
	"strings"
)

// Provider names accepted in the [llm] config section.
const (
	ProviderCopilot  = "copilot"
	ProviderOllama   = "ollama"
	ProviderLMStudio = "lmstudio"
)

// Client construction errors.
var (
	ErrUnsupportedProvider = errors.New("unsupported LLM provider")
	ErrModelRequired       = errors.New("model is required")
	ErrNoChoices           = errors.New("no response choices returned")
)

// Providers lists the supported provider names.
var Providers = []string{ProviderCopilot, ProviderOllama, ProviderLMStudio}

var providerAliases = map[string]string{
	"":          ProviderCopilot,
	"github":    ProviderCopilot,
	"lm-studio": ProviderLMStudio,
}

// ParseProvider normalizes a configured provider name.
func ParseProvider(name string) (string, error) {
	name = strings.ToLower(strings.TrimSpace(name))
	if alias, ok := providerAliases[name]; ok {
		return alias, nil
	}
	for _, p := range Providers {
		if p == name {
			return p, nil
		}
	}
	return "", fmt.Errorf("%w: %q", ErrUnsupportedProvider, name)
}

// NewClient creates an LLM client based on provider configuration.
func NewClient(provider, model, baseURL string) (Client, error) {
	p, err := ParseProvider(provider)
	if err != nil {
		return nil, err
	}
	switch p {
	case ProviderOllama:
		return NewOllamaClient(model, baseURL)
	case ProviderLMStudio:
		return NewLMStudioClient(model, baseURL)
	default:
		return NewCopilotClient(model)
	}
}
