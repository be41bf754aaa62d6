package model

import "time"

// Config is the complete runtime configuration.
// Hierarchy (highest to lowest priority): CLI flags, SKEPTIC_* env
// vars, ~/.skeptic/config.yaml, the defaults below.
type Config struct {
	LLM         LLMConfig         `yaml:"llm" mapstructure:"llm"`
	Agents      AgentsConfig      `yaml:"agents" mapstructure:"agents"`
	Search      SearchConfig      `yaml:"search" mapstructure:"search"`
	Cache       CacheConfig       `yaml:"cache" mapstructure:"cache"`
	Processing  ProcessingConfig  `yaml:"processing" mapstructure:"processing"`
	HTTP        HTTPConfig        `yaml:"http" mapstructure:"http"`
	Output      OutputConfig      `yaml:"output" mapstructure:"output"`
}

// ProviderConfig holds credentials and generation knobs for one backend
type ProviderConfig struct {
	Enabled     bool    `yaml:"enabled" mapstructure:"enabled"`
	Model       string  `yaml:"model" mapstructure:"model"`
	APIKey      string  `yaml:"api_key" mapstructure:"api_key"`
	BaseURL     string  `yaml:"base_url" mapstructure:"base_url"`
	Temperature float64 `yaml:"temperature" mapstructure:"temperature"`
	MaxTokens   int     `yaml:"max_tokens" mapstructure:"max_tokens"`
	Timeout     int     `yaml:"timeout" mapstructure:"timeout"` // seconds
}

// LLMConfig configures all text-generation backends and routing
type LLMConfig struct {
	OpenAI    ProviderConfig `yaml:"openai" mapstructure:"openai"`
	Anthropic ProviderConfig `yaml:"anthropic" mapstructure:"anthropic"`
	Gemini    ProviderConfig `yaml:"gemini" mapstructure:"gemini"`
	Ollama    ProviderConfig `yaml:"ollama" mapstructure:"ollama"`

	// AgentProviders maps an agent name (logician, oracle, ...) to a
	// backend kind, registered under the logical name "{agent}_llm".
	AgentProviders map[string]string `yaml:"agent_providers" mapstructure:"agent_providers"`

	// Ensemble fan-out for evidence analysis
	EnsembleEnabled bool   `yaml:"ensemble_enabled" mapstructure:"ensemble_enabled"`
	VotingMethod    string `yaml:"voting_method" mapstructure:"voting_method"`

	// Proxy settings for HTTP-based backends
	HTTPProxy  string `yaml:"http_proxy" mapstructure:"http_proxy"`
	HTTPSProxy string `yaml:"https_proxy" mapstructure:"https_proxy"`
}

// AgentsConfig holds per-agent tunables resolved once at load time,
// so downstream code never probes for optional capabilities.
type AgentsConfig struct {
	MinClaimLength int `yaml:"min_claim_length" mapstructure:"min_claim_length"`
	MaxClaimLength int `yaml:"max_claim_length" mapstructure:"max_claim_length"`
	MaxSubClaims   int `yaml:"max_sub_claims" mapstructure:"max_sub_claims"`
}

// SearchConfig configures the evidence retrieval collaborators
type SearchConfig struct {
	NewsAPIKey        string  `yaml:"newsapi_key" mapstructure:"newsapi_key"`
	WebSearchEnabled  bool    `yaml:"web_search_enabled" mapstructure:"web_search_enabled"`
	MaxSourcesPerSub  int     `yaml:"max_sources_per_subclaim" mapstructure:"max_sources_per_subclaim"`
	RequestsPerSecond float64 `yaml:"requests_per_second" mapstructure:"requests_per_second"`
}

// CacheConfig configures the layered search-result cache
type CacheConfig struct {
	Enabled bool          `yaml:"enabled" mapstructure:"enabled"`
	Dir     string        `yaml:"dir" mapstructure:"dir"`
	TTL     time.Duration `yaml:"ttl" mapstructure:"ttl"`
}

// ProcessingConfig controls verdict thresholds and concurrency
type ProcessingConfig struct {
	ConfidenceThreshold float64       `yaml:"confidence_threshold" mapstructure:"confidence_threshold"`
	ParallelEnabled     bool          `yaml:"parallel_enabled" mapstructure:"parallel_enabled"`
	Workers             int           `yaml:"workers" mapstructure:"workers"`
	BatchTimeout        time.Duration `yaml:"batch_timeout" mapstructure:"batch_timeout"`
}

// HTTPConfig configures outbound retrieval requests
type HTTPConfig struct {
	Timeout      time.Duration `yaml:"timeout" mapstructure:"timeout"`
	UserAgent    string        `yaml:"user_agent" mapstructure:"user_agent"`
	MaxBodyBytes int64         `yaml:"max_body_bytes" mapstructure:"max_body_bytes"`
}

// OutputConfig controls rendering
type OutputConfig struct {
	Verbose       bool `yaml:"verbose" mapstructure:"verbose"`
	IncludeFooter bool `yaml:"include_footer" mapstructure:"include_footer"`
}

// DefaultConfig returns sensible defaults
func DefaultConfig() *Config {
	return &Config{
		LLM: LLMConfig{
			OpenAI:    ProviderConfig{Model: "gpt-4o-mini", Temperature: 0.1, MaxTokens: 500, Timeout: 30},
			Anthropic: ProviderConfig{Model: "claude-3-5-sonnet-20241022", Temperature: 0.1, MaxTokens: 500, Timeout: 30},
			Gemini:    ProviderConfig{Model: "gemini-1.5-flash", Temperature: 0.1, MaxTokens: 500, Timeout: 30},
			Ollama:    ProviderConfig{Enabled: true, Model: "llama3.1:8b", BaseURL: "http://localhost:11434", Temperature: 0.1, MaxTokens: 500, Timeout: 120},
			AgentProviders: map[string]string{},
			VotingMethod:   "weighted",
		},
		Agents: AgentsConfig{
			MinClaimLength: 10,
			MaxClaimLength: 1000,
			MaxSubClaims:   5,
		},
		Search: SearchConfig{
			MaxSourcesPerSub:  3,
			RequestsPerSecond: 2,
		},
		Cache: CacheConfig{
			Enabled: true,
			Dir:     "", // resolved to ~/.skeptic/cache at startup
			TTL:     24 * time.Hour,
		},
		Processing: ProcessingConfig{
			ConfidenceThreshold: 0.7,
			Workers:             3,
			BatchTimeout:        30 * time.Minute,
		},
		HTTP: HTTPConfig{
			Timeout:      30 * time.Second,
			UserAgent:    "Skeptic/0.1 (+https://github.com/skepticlab/skeptic)",
			MaxBodyBytes: 2_000_000,
		},
		Output: OutputConfig{
			IncludeFooter: true,
		},
	}
}
