package llm

import (
	"context"
	"errors"
	"fmt"
)

// Kind identifies a text-generation backend family
type Kind string

const (
	KindOpenAI    Kind = "openai"
	KindAnthropic Kind = "anthropic"
	KindGemini    Kind = "gemini"
	KindOllama    Kind = "ollama"
)

// Message is the uniform role-tagged message format. Adapters translate
// this into whatever shape their backend needs (e.g. Anthropic hoists
// system content out of the message list); that translation must not
// leak into callers.
type Message struct {
	Role    string // system, user, assistant
	Content string
}

// Options are per-request generation knobs
type Options struct {
	Temperature float64
	MaxTokens   int
}

// Usage tracks token consumption and estimated cost for one call
type Usage struct {
	PromptTokens     int     `json:"prompt_tokens"`
	CompletionTokens int     `json:"completion_tokens"`
	TotalTokens      int     `json:"total_tokens"`
	CostUSD          float64 `json:"cost_usd"`
}

// Response is the uniform response format from any provider
type Response struct {
	Content  string
	Kind     Kind
	Model    string
	Usage    Usage
	Metadata map[string]any
}

// Config holds configuration for a single provider instance
type Config struct {
	Kind        Kind
	Model       string
	APIKey      string
	BaseURL     string
	Temperature float64
	MaxTokens   int
	Timeout     int // seconds

	// Proxy settings for HTTP-based backends
	HTTPProxy  string
	HTTPSProxy string
}

// Info is static provider metadata exposed for introspection
type Info struct {
	Name        string  `json:"name"`
	Kind        Kind    `json:"kind"`
	Model       string  `json:"model"`
	Available   bool    `json:"available"`
	Requests    int64   `json:"requests"`
	SuccessRate float64 `json:"success_rate"`
}

// Provider is the uniform interface over heterogeneous backends
type Provider interface {
	// Name returns the backend kind name
	Name() string

	// Kind returns the backend family
	Kind() Kind

	// Generate produces text from an ordered message list. It must
	// fail with a *GenerationError on transport or backend error,
	// never silently return empty text.
	Generate(ctx context.Context, messages []Message, opts Options) (*Response, error)

	// IsAvailable is a cheap liveness/credential check, called once at
	// registration. There is no periodic recheck.
	IsAvailable(ctx context.Context) bool
}

// GenerationError is a provider call failure at request time.
// The router applies exactly one fallback when it sees one.
type GenerationError struct {
	Kind Kind
	Err  error
}

func (e *GenerationError) Error() string {
	return fmt.Sprintf("%s generation failed: %v", e.Kind, e.Err)
}

func (e *GenerationError) Unwrap() error { return e.Err }

// ErrNoProvider indicates no provider at all could serve a request.
// The evidence analyzer catches this and degrades to its heuristic.
var ErrNoProvider = errors.New("no available LLM provider")

// ErrProviderUnavailable indicates a provider failed its liveness check
// at startup; it is excluded from routing for the life of the process.
var ErrProviderUnavailable = errors.New("provider unavailable")
