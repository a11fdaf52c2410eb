package llm

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
)

const (
	copilotBaseURL  = "https://api.githubcopilot.com"
	copilotClientID = "BlockClock/1.0"

	defaultLMStudioBaseURL = "http://localhost:1234/v1"

	// DefaultModel is the Copilot model used when none is configured.
	DefaultModel = "gpt-4o"
)

// OpenAIClient talks to any OpenAI-compatible chat completions endpoint.
// Copilot and LM Studio both use it.
type OpenAIClient struct {
	client   openai.Client
	provider string
	model    string
	baseURL  string
}

// NewCopilotClient exchanges the local GitHub token for a Copilot bearer
// token and returns a client for the Copilot chat API.
func NewCopilotClient(model string) (*OpenAIClient, error) {
	if model == "" {
		model = DefaultModel
	}

	githubToken, err := LoadGitHubToken()
	if err != nil {
		return nil, fmt.Errorf("loading GitHub token: %w", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	bearer, err := exchangeToken(ctx, http.DefaultClient, copilotTokenURL, githubToken)
	if err != nil {
		return nil, fmt.Errorf("exchanging token: %w", err)
	}

	return newOpenAIClient(ProviderCopilot, model, copilotBaseURL,
		option.WithAPIKey(bearer),
		option.WithHeader("Editor-Version", copilotClientID),
		option.WithHeader("Editor-Plugin-Version", copilotClientID),
		option.WithHeader("Copilot-Integration-Id", "vscode-chat"),
	), nil
}

// NewLMStudioClient returns a client for a local LM Studio server.
func NewLMStudioClient(model, baseURL string) (*OpenAIClient, error) {
	if strings.TrimSpace(model) == "" {
		return nil, fmt.Errorf("%w: %s", ErrModelRequired, ProviderLMStudio)
	}
	if baseURL == "" {
		baseURL = defaultLMStudioBaseURL
	}
	return newOpenAIClient(ProviderLMStudio, model, baseURL, option.WithAPIKey(lmStudioAPIKey())), nil
}

func newOpenAIClient(provider, model, baseURL string, opts ...option.RequestOption) *OpenAIClient {
	opts = append([]option.RequestOption{option.WithBaseURL(baseURL)}, opts...)
	return &OpenAIClient{
		client:   openai.NewClient(opts...),
		provider: provider,
		model:    model,
		baseURL:  baseURL,
	}
}

// lmStudioAPIKey returns the first configured key. LM Studio accepts any
// non-empty key when auth is off.
func lmStudioAPIKey() string {
	for _, name := range []string{"LMSTUDIO_API_KEY", "OPENAI_API_KEY"} {
		if v := os.Getenv(name); v != "" {
			return v
		}
	}
	return "lm-studio"
}

// Chat sends messages to the LLM and returns the response.
func (c *OpenAIClient) Chat(ctx context.Context, messages []Message) (string, error) {
	resp, err := c.client.Chat.Completions.New(ctx, openai.ChatCompletionNewParams{
		Model:    c.model,
		Messages: toOpenAIMessages(messages),
	})
	if err != nil {
		return "", fmt.Errorf("%s chat completion: %w", c.provider, err)
	}
	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("%s: %w", c.provider, ErrNoChoices)
	}
	return resp.Choices[0].Message.Content, nil
}

// ChatJSON sends messages and parses the response as JSON into result.
func (c *OpenAIClient) ChatJSON(ctx context.Context, messages []Message, result any) error {
	content, err := c.Chat(ctx, messages)
	if err != nil {
		return err
	}
	return decodeJSON(content, result)
}

// toOpenAIMessages converts messages for the OpenAI-compatible providers.
// Unknown roles are sent as user messages.
func toOpenAIMessages(messages []Message) []openai.ChatCompletionMessageParamUnion {
	out := make([]openai.ChatCompletionMessageParamUnion, len(messages))
	for i, msg := range messages {
		switch msg.Role {
		case RoleSystem:
			out[i] = openai.SystemMessage(msg.Content)
		case RoleAssistant:
			out[i] = openai.AssistantMessage(msg.Content)
		default:
			out[i] = openai.UserMessage(msg.Content)
		}
	}
	return out
}
