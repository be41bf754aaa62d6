package llm

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/sashabaranov/go-openai"
)

// Cost per 1k tokens, rough blended rate for the default model
const openaiRatePer1K = 0.002

// OpenAIProvider implements Provider for OpenAI chat models
type OpenAIProvider struct {
	client *openai.Client
	config Config
}

// NewOpenAIProvider creates a new OpenAI provider
func NewOpenAIProvider(config Config) (*OpenAIProvider, error) {
	if config.APIKey == "" {
		return nil, fmt.Errorf("OpenAI API key is required: %w", ErrProviderUnavailable)
	}

	clientConfig := openai.DefaultConfig(config.APIKey)
	if config.BaseURL != "" {
		clientConfig.BaseURL = config.BaseURL
	}

	return &OpenAIProvider{
		client: openai.NewClientWithConfig(clientConfig),
		config: config,
	}, nil
}

// Name returns the provider name
func (p *OpenAIProvider) Name() string { return string(KindOpenAI) }

// Kind returns the backend family
func (p *OpenAIProvider) Kind() Kind { return KindOpenAI }

// ModelName returns the configured model id
func (p *OpenAIProvider) ModelName() string {
	if p.config.Model != "" {
		return p.config.Model
	}
	return openai.GPT4oMini
}

// IsAvailable checks credentials with a lightweight model listing call
func (p *OpenAIProvider) IsAvailable(ctx context.Context) bool {
	_, err := p.client.ListModels(ctx)
	return err == nil
}

// Generate produces text using the Chat Completions API
func (p *OpenAIProvider) Generate(ctx context.Context, messages []Message, opts Options) (*Response, error) {
	model := p.config.Model
	if model == "" {
		model = openai.GPT4oMini
	}

	chatMessages := make([]openai.ChatCompletionMessage, 0, len(messages))
	for _, m := range messages {
		chatMessages = append(chatMessages, openai.ChatCompletionMessage{
			Role:    m.Role,
			Content: m.Content,
		})
	}

	ctx, cancel := context.WithTimeout(ctx, p.timeout())
	defer cancel()

	req := openai.ChatCompletionRequest{
		Model:       model,
		Messages:    chatMessages,
		Temperature: float32(resolveTemperature(opts, p.config)),
		MaxTokens:   resolveMaxTokens(opts, p.config),
	}

	resp, err := p.client.CreateChatCompletion(ctx, req)
	if err != nil {
		return nil, &GenerationError{Kind: KindOpenAI, Err: err}
	}
	if len(resp.Choices) == 0 {
		return nil, &GenerationError{Kind: KindOpenAI, Err: fmt.Errorf("empty response")}
	}

	usage := Usage{
		PromptTokens:     resp.Usage.PromptTokens,
		CompletionTokens: resp.Usage.CompletionTokens,
		TotalTokens:      resp.Usage.TotalTokens,
	}
	usage.CostUSD = float64(usage.TotalTokens) / 1000 * openaiRatePer1K

	return &Response{
		Content: strings.TrimSpace(resp.Choices[0].Message.Content),
		Kind:    KindOpenAI,
		Model:   model,
		Usage:   usage,
	}, nil
}

func (p *OpenAIProvider) timeout() time.Duration {
	if p.config.Timeout > 0 {
		return time.Duration(p.config.Timeout) * time.Second
	}
	return 30 * time.Second
}

// Shared option resolution for all adapters

func resolveTemperature(opts Options, cfg Config) float64 {
	if opts.Temperature > 0 {
		return opts.Temperature
	}
	if cfg.Temperature > 0 {
		return cfg.Temperature
	}
	return 0.1
}

func resolveMaxTokens(opts Options, cfg Config) int {
	if opts.MaxTokens > 0 {
		return opts.MaxTokens
	}
	if cfg.MaxTokens > 0 {
		return cfg.MaxTokens
	}
	return 500
}
