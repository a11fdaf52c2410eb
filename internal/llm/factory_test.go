package llm

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestParseProvider(t *testing.T) {
	tests := []struct {
		in      string
		want    string
		wantErr bool
	}{
		{"", ProviderCopilot, false},
		{"copilot", ProviderCopilot, false},
		{"GitHub", ProviderCopilot, false},
		{" Ollama ", ProviderOllama, false},
		{"lm-studio", ProviderLMStudio, false},
		{"lmstudio", ProviderLMStudio, false},
		{"openrouter", "", true},
	}
	for _, tc := range tests {
		t.Run(tc.in, func(t *testing.T) {
			got, err := ParseProvider(tc.in)
			if tc.wantErr {
				if !errors.Is(err, ErrUnsupportedProvider) {
					t.Fatalf("got %v, want ErrUnsupportedProvider", err)
				}
				return
			}
			if err != nil || got != tc.want {
				t.Errorf("ParseProvider(%q) = %q, %v; want %q", tc.in, got, err, tc.want)
			}
		})
	}
}

func TestNewClient_LocalProviders(t *testing.T) {
	tests := []struct {
		provider    string
		wantBaseURL string
	}{
		{"ollama", defaultOllamaBaseURL},
		{"lmstudio", defaultLMStudioBaseURL},
		{"lm-studio", defaultLMStudioBaseURL},
	}

	for _, tc := range tests {
		t.Run(tc.provider, func(t *testing.T) {
			client, err := NewClient(tc.provider, "llama3", "")
			if err != nil {
				t.Fatalf("expected nil error, got %v", err)
			}
			var baseURL string
			switch c := client.(type) {
			case *OllamaClient:
				baseURL = c.baseURL
			case *OpenAIClient:
				baseURL = c.baseURL
				if c.provider != ProviderLMStudio {
					t.Errorf("provider = %q, want %q", c.provider, ProviderLMStudio)
				}
			default:
				t.Fatalf("unexpected client type %T", client)
			}
			if baseURL != tc.wantBaseURL {
				t.Errorf("baseURL = %q, want %q", baseURL, tc.wantBaseURL)
			}
		})
	}
}

func TestNewClient_CustomBaseURL(t *testing.T) {
	client, err := NewOllamaClient("llama3", "http://gpu-box:11434")
	if err != nil {
		t.Fatalf("expected nil error, got %v", err)
	}
	if client.baseURL != "http://gpu-box:11434" {
		t.Errorf("baseURL = %q", client.baseURL)
	}
}

func TestNewClient_MissingModel(t *testing.T) {
	for _, provider := range []string{ProviderOllama, ProviderLMStudio} {
		t.Run(provider, func(t *testing.T) {
			if _, err := NewClient(provider, " ", ""); !errors.Is(err, ErrModelRequired) {
				t.Fatalf("got %v, want ErrModelRequired", err)
			}
		})
	}
}

func TestExchangeToken(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := r.Header.Get("Authorization"); got != "Token gh-123" {
			http.Error(w, "bad auth "+got, http.StatusUnauthorized)
			return
		}
		_, _ = w.Write([]byte(`{"token":"bearer-456","expires_at":1700000000}`))
	}))
	defer srv.Close()

	ctx := context.Background()
	token, err := exchangeToken(ctx, srv.Client(), srv.URL, "gh-123")
	if err != nil {
		t.Fatalf("exchange: %v", err)
	}
	if token != "bearer-456" {
		t.Errorf("token = %q, want bearer-456", token)
	}

	if _, err := exchangeToken(ctx, srv.Client(), srv.URL, "wrong"); err == nil {
		t.Error("expected error for rejected token")
	}
}
