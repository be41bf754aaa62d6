package llm

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/option"
)

const geminiRatePer1K = 0.0007

// GeminiProvider implements Provider for Google Gemini models
type GeminiProvider struct {
	client *genai.Client
	config Config
}

// NewGeminiProvider creates a new Gemini provider
func NewGeminiProvider(config Config) (*GeminiProvider, error) {
	if config.APIKey == "" {
		return nil, fmt.Errorf("Google AI API key is required: %w", ErrProviderUnavailable)
	}

	client, err := genai.NewClient(context.Background(), option.WithAPIKey(config.APIKey))
	if err != nil {
		return nil, fmt.Errorf("create genai client: %w", err)
	}

	return &GeminiProvider{
		client: client,
		config: config,
	}, nil
}

// Name returns the provider name
func (p *GeminiProvider) Name() string { return string(KindGemini) }

// Kind returns the backend family
func (p *GeminiProvider) Kind() Kind { return KindGemini }

// ModelName returns the configured model id
func (p *GeminiProvider) ModelName() string { return p.modelName() }

// IsAvailable checks credentials with a minimal token count call
func (p *GeminiProvider) IsAvailable(ctx context.Context) bool {
	model := p.client.GenerativeModel(p.modelName())
	_, err := model.CountTokens(ctx, genai.Text("Hi"))
	return err == nil
}

// Generate produces text with the Gemini API. System content becomes
// the model's system instruction; the remaining messages are joined
// into the user prompt.
func (p *GeminiProvider) Generate(ctx context.Context, messages []Message, opts Options) (*Response, error) {
	model := p.client.GenerativeModel(p.modelName())
	model.SetTemperature(float32(resolveTemperature(opts, p.config)))
	model.SetMaxOutputTokens(int32(resolveMaxTokens(opts, p.config)))

	var prompt strings.Builder
	for _, m := range messages {
		if m.Role == "system" {
			model.SystemInstruction = &genai.Content{
				Parts: []genai.Part{genai.Text(m.Content)},
			}
			continue
		}
		if prompt.Len() > 0 {
			prompt.WriteString("\n\n")
		}
		prompt.WriteString(m.Content)
	}

	timeout := time.Duration(p.config.Timeout) * time.Second
	if timeout == 0 {
		timeout = 30 * time.Second
	}
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	resp, err := model.GenerateContent(ctx, genai.Text(prompt.String()))
	if err != nil {
		return nil, &GenerationError{Kind: KindGemini, Err: err}
	}
	if len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil {
		return nil, &GenerationError{Kind: KindGemini, Err: fmt.Errorf("empty response")}
	}

	var content strings.Builder
	for _, part := range resp.Candidates[0].Content.Parts {
		if text, ok := part.(genai.Text); ok {
			content.WriteString(string(text))
		}
	}

	var usage Usage
	if resp.UsageMetadata != nil {
		usage = Usage{
			PromptTokens:     int(resp.UsageMetadata.PromptTokenCount),
			CompletionTokens: int(resp.UsageMetadata.CandidatesTokenCount),
			TotalTokens:      int(resp.UsageMetadata.TotalTokenCount),
		}
	}
	usage.CostUSD = float64(usage.TotalTokens) / 1000 * geminiRatePer1K

	return &Response{
		Content: strings.TrimSpace(content.String()),
		Kind:    KindGemini,
		Model:   p.modelName(),
		Usage:   usage,
	}, nil
}

func (p *GeminiProvider) modelName() string {
	if p.config.Model != "" {
		return p.config.Model
	}
	return "gemini-1.5-flash"
}

// Close releases the underlying client
func (p *GeminiProvider) Close() error {
	return p.client.Close()
}
