package llm

import (
	"context"
	"fmt"
	"strings"

	"github.com/tmc/langchaingo/llms"
	"github.com/tmc/langchaingo/llms/ollama"
)

const defaultOllamaBaseURL = "http://localhost:11434"

// jsonTemperature keeps structured replies close to the requested shape.
const jsonTemperature = 0.1

var langChainRoles = map[string]llms.ChatMessageType{
	RoleSystem:    llms.ChatMessageTypeSystem,
	RoleUser:      llms.ChatMessageTypeHuman,
	RoleAssistant: llms.ChatMessageTypeAI,
}

// OllamaClient talks to a local Ollama server through langchaingo.
type OllamaClient struct {
	llm     *ollama.LLM
	model   string
	baseURL string
}

// NewOllamaClient returns a client for model. An empty baseURL means the
// default local server.
func NewOllamaClient(model, baseURL string) (*OllamaClient, error) {
	model = strings.TrimSpace(model)
	if model == "" {
		return nil, fmt.Errorf("%w: %s", ErrModelRequired, ProviderOllama)
	}
	if baseURL == "" {
		baseURL = defaultOllamaBaseURL
	}

	l, err := ollama.New(ollama.WithModel(model), ollama.WithServerURL(baseURL))
	if err != nil {
		return nil, fmt.Errorf("creating %s client: %w", ProviderOllama, err)
	}
	return &OllamaClient{llm: l, model: model, baseURL: baseURL}, nil
}

func (c *OllamaClient) Chat(ctx context.Context, messages []Message) (string, error) {
	return c.complete(ctx, messages)
}

func (c *OllamaClient) ChatJSON(ctx context.Context, messages []Message, result any) error {
	content, err := c.complete(ctx, messages, llms.WithJSONMode(), llms.WithTemperature(jsonTemperature))
	if err != nil {
		return err
	}
	return decodeJSON(content, result)
}

func (c *OllamaClient) complete(ctx context.Context, messages []Message, opts ...llms.CallOption) (string, error) {
	content := make([]llms.MessageContent, 0, len(messages))
	for _, m := range messages {
		role, ok := langChainRoles[strings.ToLower(m.Role)]
		if !ok {
			role = llms.ChatMessageTypeHuman
		}
		content = append(content, llms.TextParts(role, m.Content))
	}

	resp, err := c.llm.GenerateContent(ctx, content, append(opts, llms.WithModel(c.model))...)
	if err != nil {
		return "", fmt.Errorf("%s chat: %w", ProviderOllama, err)
	}
	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("%s: %w", ProviderOllama, ErrNoChoices)
	}
	return resp.Choices[0].Content, nil
}
