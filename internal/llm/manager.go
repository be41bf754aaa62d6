package llm

import (
	"context"
	"errors"
	"fmt"
	"os"
	"sort"
	"strings"
	"sync"
	"sync/atomic"

	"github.com/skepticlab/skeptic/internal/model"
)

// Logical registry names for the default provider instances
const (
	nameOpenAI    = "openai_default"
	nameAnthropic = "claude_default"
	nameGemini    = "gemini_default"
	nameOllama    = "ollama_default"
)

// agentSuffix builds the logical name for an agent-specific mapping
func agentProviderName(agent string) string { return agent + "_llm" }

// Preference orders. The global order puts the local backend first for
// cost; the safe order is restricted to major hosted vendors and is
// used when bias risk is elevated.
var (
	globalPreference = []string{nameOllama, nameAnthropic, nameGemini, nameOpenAI}
	safePreference   = []string{nameAnthropic, nameOpenAI, nameGemini}
)

// safeRiskThreshold is the bias-risk score at or above which routing is
// restricted to the safe allowlist.
const safeRiskThreshold = 0.3

// Per-1k-token cost rates by backend kind, rough blended estimates
var costRates = map[Kind]float64{
	KindOpenAI:    openaiRatePer1K,
	KindAnthropic: anthropicRatePer1K,
	KindGemini:    geminiRatePer1K,
	KindOllama:    0,
}

// avgTokensPerWord is the rough factor used for cost estimation
const avgTokensPerWord = 1.3

// registration is one live provider handle plus its metadata and
// per-call performance counters. The counters are the only mutable
// state and are updated atomically.
type registration struct {
	provider  Provider
	requests  atomic.Int64
	successes atomic.Int64
}

func (r *registration) successRate() float64 {
	n := r.requests.Load()
	if n == 0 {
		return 1.0
	}
	return float64(r.successes.Load()) / float64(n)
}

func (r *registration) record(ok bool) {
	r.requests.Add(1)
	if ok {
		r.successes.Add(1)
	}
}

// GenerateRequest carries routing hints alongside the messages
type GenerateRequest struct {
	Messages     []Message
	AgentName    string // optional agent identity for per-agent routing
	ProviderName string // optional explicit provider override
	Options      Options
}

// Manager routes generation requests across registered providers,
// applies one-shot fallback on failure, and supports ensemble fan-out.
// The registry is read-only after construction and safe for
// concurrent use.
type Manager struct {
	providers map[string]*registration
	detector  *BiasDetector
	voting    string
}

// NewManager instantiates every configured provider, keeps the ones
// whose availability check passes, and skips the rest with a warning.
// A misconfigured or unreachable provider is never fatal.
func NewManager(ctx context.Context, cfg model.LLMConfig) *Manager {
	m := &Manager{
		providers: make(map[string]*registration),
		detector:  NewBiasDetector(DefaultBiasPolicy()),
		voting:    cfg.VotingMethod,
	}

	type candidate struct {
		name string
		kind Kind
		pc   model.ProviderConfig
	}

	candidates := []candidate{
		{nameOpenAI, KindOpenAI, cfg.OpenAI},
		{nameAnthropic, KindAnthropic, cfg.Anthropic},
		{nameGemini, KindGemini, cfg.Gemini},
		{nameOllama, KindOllama, cfg.Ollama},
	}

	for _, c := range candidates {
		if !c.pc.Enabled {
			continue
		}
		if c.kind != KindOllama && c.pc.APIKey == "" {
			continue
		}

		provider, err := newProvider(c.kind, providerConfig(c.kind, c.pc, cfg))
		if err != nil {
			fmt.Fprintf(os.Stderr, "Warning: provider %s not initialized: %v\n", c.name, err)
			continue
		}
		if !provider.IsAvailable(ctx) {
			fmt.Fprintf(os.Stderr, "Warning: provider %s failed availability check, excluded from routing\n", c.name)
			continue
		}
		m.providers[c.name] = &registration{provider: provider}
	}

	// Agent-specific mappings alias an already-registered backend under
	// the "{agent}_llm" logical name.
	for agent, backend := range cfg.AgentProviders {
		base := defaultNameForBackend(backend)
		if reg, ok := m.providers[base]; ok {
			m.providers[agentProviderName(agent)] = reg
		} else {
			fmt.Fprintf(os.Stderr, "Warning: agent %q mapped to unavailable backend %q\n", agent, backend)
		}
	}

	return m
}

func newProvider(kind Kind, cfg Config) (Provider, error) {
	switch kind {
	case KindOpenAI:
		return NewOpenAIProvider(cfg)
	case KindAnthropic:
		return NewAnthropicProvider(cfg)
	case KindGemini:
		return NewGeminiProvider(cfg)
	case KindOllama:
		return NewOllamaProvider(cfg)
	default:
		return nil, fmt.Errorf("unknown provider kind: %s", kind)
	}
}

func providerConfig(kind Kind, pc model.ProviderConfig, cfg model.LLMConfig) Config {
	return Config{
		Kind:        kind,
		Model:       pc.Model,
		APIKey:      pc.APIKey,
		BaseURL:     pc.BaseURL,
		Temperature: pc.Temperature,
		MaxTokens:   pc.MaxTokens,
		Timeout:     pc.Timeout,
		HTTPProxy:   cfg.HTTPProxy,
		HTTPSProxy:  cfg.HTTPSProxy,
	}
}

func defaultNameForBackend(backend string) string {
	switch strings.ToLower(backend) {
	case "openai":
		return nameOpenAI
	case "anthropic", "claude":
		return nameAnthropic
	case "gemini", "google":
		return nameGemini
	case "ollama", "local":
		return nameOllama
	default:
		return backend
	}
}

// NewManagerWithProviders builds a manager from an explicit registry.
// Used by tests and by callers that construct providers themselves.
func NewManagerWithProviders(providers map[string]Provider, voting string) *Manager {
	m := &Manager{
		providers: make(map[string]*registration, len(providers)),
		detector:  NewBiasDetector(DefaultBiasPolicy()),
		voting:    voting,
	}
	for name, p := range providers {
		m.providers[name] = &registration{provider: p}
	}
	return m
}

// HasProviders reports whether any provider survived initialization
func (m *Manager) HasProviders() bool { return len(m.providers) > 0 }

// Generate routes one request: explicit override, then agent mapping,
// then the safe allowlist when bias risk is elevated, then the global
// preference order. On a generation failure it attempts exactly one
// fallback to a different backend kind, then propagates.
func (m *Manager) Generate(ctx context.Context, req GenerateRequest) (*Response, error) {
	risk := m.detector.AssessContent(joinContents(req.Messages))

	name, reg, err := m.selectProvider(req.ProviderName, req.AgentName, risk.Score)
	if err != nil {
		return nil, err
	}

	resp, err := m.generateWith(ctx, name, reg, req, risk)
	if err == nil {
		return resp, nil
	}

	var genErr *GenerationError
	if !errors.As(err, &genErr) {
		return nil, err
	}

	fbName, fbReg := m.fallbackProvider(genErr.Kind, risk.Score)
	if fbReg == nil {
		return nil, err
	}

	fmt.Fprintf(os.Stderr, "Warning: provider %s failed, trying fallback %s: %v\n", name, fbName, err)
	return m.generateWith(ctx, fbName, fbReg, req, risk)
}

func (m *Manager) generateWith(ctx context.Context, name string, reg *registration, req GenerateRequest, risk ContentRisk) (*Response, error) {
	resp, err := reg.provider.Generate(ctx, req.Messages, req.Options)
	reg.record(err == nil)
	if err != nil {
		return nil, err
	}

	if resp.Metadata == nil {
		resp.Metadata = make(map[string]any)
	}
	resp.Metadata["provider"] = name
	if risk.Score > 0 {
		resp.Metadata["bias_risk"] = risk.Score
		bias := m.detector.AssessResponse(joinContents(req.Messages), resp.Content)
		if bias.Score > 0 {
			resp.Metadata["response_bias"] = bias
		}
	}
	return resp, nil
}

// selectProvider applies the routing policy. An explicit registered
// name wins unconditionally; an agent mapping comes next; elevated
// bias risk restricts candidates to the safe allowlist.
func (m *Manager) selectProvider(explicit, agent string, risk float64) (string, *registration, error) {
	if explicit != "" {
		if reg, ok := m.providers[explicit]; ok {
			return explicit, reg, nil
		}
	}

	if agent != "" {
		name := agentProviderName(agent)
		if reg, ok := m.providers[name]; ok {
			return name, reg, nil
		}
	}

	order := globalPreference
	if risk >= safeRiskThreshold {
		order = safePreference
	}
	for _, name := range order {
		if reg, ok := m.providers[name]; ok {
			return name, reg, nil
		}
	}

	return "", nil, ErrNoProvider
}

// fallbackProvider picks the next candidate excluding the backend kind
// that just failed, preferring the safe allowlist when risk was
// elevated.
func (m *Manager) fallbackProvider(failed Kind, risk float64) (string, *registration) {
	order := globalPreference
	if risk >= safeRiskThreshold {
		order = append(append([]string{}, safePreference...), globalPreference...)
	}

	for _, name := range order {
		reg, ok := m.providers[name]
		if !ok || reg.provider.Kind() == failed {
			continue
		}
		return name, reg
	}
	return "", nil
}

// EnsembleResponse is a Response annotated with voting metadata
type EnsembleResponse struct {
	Response
	EnsembleSize int     `json:"ensemble_size"`
	VotingMethod string  `json:"voting_method"`
	WinnerScore  float64 `json:"winner_score"`
}

// GenerateEnsemble fans the same prompt to up to 3 providers spanning
// distinct backend kinds and merges the successful responses by
// weighted voting: a response-quality heuristic multiplied by the
// provider's historical success rate. Partial failures are tolerated;
// the ensemble fails only when every member fails.
func (m *Manager) GenerateEnsemble(ctx context.Context, req GenerateRequest, providerNames []string) (*EnsembleResponse, error) {
	members := m.ensembleMembers(providerNames)
	if len(members) == 0 {
		return nil, ErrNoProvider
	}

	type vote struct {
		name string
		resp *Response
		err  error
	}

	votes := make([]vote, len(members))
	var wg sync.WaitGroup
	for i, name := range members {
		reg := m.providers[name]
		wg.Add(1)
		go func(i int, name string, reg *registration) {
			defer wg.Done()
			resp, err := reg.provider.Generate(ctx, req.Messages, req.Options)
			reg.record(err == nil)
			votes[i] = vote{name: name, resp: resp, err: err}
		}(i, name, reg)
	}
	wg.Wait()

	var (
		best      *Response
		bestName  string
		bestScore float64
		succeeded int
		lastErr   error
	)
	for _, v := range votes {
		if v.err != nil {
			lastErr = v.err
			continue
		}
		succeeded++
		score := responseQuality(v.resp.Content) * m.providers[v.name].successRate()
		if best == nil || score > bestScore {
			best, bestName, bestScore = v.resp, v.name, score
		}
	}

	if best == nil {
		return nil, fmt.Errorf("ensemble: all %d providers failed: %w", len(members), lastErr)
	}

	voting := m.voting
	if voting == "" {
		voting = "weighted"
	}

	if best.Metadata == nil {
		best.Metadata = make(map[string]any)
	}
	best.Metadata["provider"] = bestName
	best.Metadata["ensemble"] = true

	return &EnsembleResponse{
		Response:     *best,
		EnsembleSize: succeeded,
		VotingMethod: voting,
		WinnerScore:  bestScore,
	}, nil
}

// ensembleMembers picks up to 3 registered providers covering distinct
// backend kinds (one per kind, for cost control).
func (m *Manager) ensembleMembers(providerNames []string) []string {
	candidates := providerNames
	if len(candidates) == 0 {
		candidates = globalPreference
	}

	seen := make(map[Kind]bool)
	var members []string
	for _, name := range candidates {
		reg, ok := m.providers[name]
		if !ok {
			continue
		}
		kind := reg.provider.Kind()
		if seen[kind] {
			continue
		}
		seen[kind] = true
		members = append(members, name)
		if len(members) == 3 {
			break
		}
	}
	return members
}

// hedgeWords reduce a response's quality score when dense
var hedgeWords = []string{
	"might", "may", "possibly", "perhaps", "unclear",
	"uncertain", "cannot determine", "hard to say",
}

// responseQuality is the ensemble quality heuristic: length
// thresholds plus a penalty for hedge-word density.
func responseQuality(content string) float64 {
	trimmed := strings.TrimSpace(content)
	if trimmed == "" {
		return 0
	}

	score := 0.5
	switch {
	case len(trimmed) < 30:
		score = 0.2
	case len(trimmed) > 200:
		score = 0.8
	case len(trimmed) > 80:
		score = 0.7
	}

	lower := strings.ToLower(trimmed)
	words := len(strings.Fields(lower))
	hedges := 0
	for _, w := range hedgeWords {
		hedges += strings.Count(lower, w)
	}
	if words > 0 {
		score -= float64(hedges) / float64(words) * 2
	}

	if score < 0.05 {
		score = 0.05
	}
	return score
}

// EstimateCost estimates the dollar cost of processing text with the
// named provider using a linear token model. Unknown providers and
// the local backend estimate to zero.
func (m *Manager) EstimateCost(text string, providerName string) float64 {
	reg, ok := m.providers[providerName]
	if !ok {
		return 0
	}
	tokens := float64(len(strings.Fields(text))) * avgTokensPerWord
	return tokens / 1000 * costRates[reg.provider.Kind()]
}

// AvailableProviders returns metadata for every registered provider,
// sorted by logical name.
func (m *Manager) AvailableProviders() []Info {
	infos := make([]Info, 0, len(m.providers))
	for name, reg := range m.providers {
		infos = append(infos, Info{
			Name:        name,
			Kind:        reg.provider.Kind(),
			Model:       providerModel(reg.provider),
			Available:   true,
			Requests:    reg.requests.Load(),
			SuccessRate: reg.successRate(),
		})
	}
	sort.Slice(infos, func(i, j int) bool { return infos[i].Name < infos[j].Name })
	return infos
}

// ProviderForAgent returns the logical provider name that would serve
// the given agent, or the first global-preference match.
func (m *Manager) ProviderForAgent(agent string) string {
	name := agentProviderName(agent)
	if _, ok := m.providers[name]; ok {
		return name
	}
	for _, candidate := range globalPreference {
		if _, ok := m.providers[candidate]; ok {
			return candidate
		}
	}
	return ""
}

// AssessBiasRisk exposes the content risk assessment for callers that
// want to inspect it directly.
func (m *Manager) AssessBiasRisk(text string) ContentRisk {
	return m.detector.AssessContent(text)
}

func joinContents(messages []Message) string {
	parts := make([]string, 0, len(messages))
	for _, msg := range messages {
		parts = append(parts, msg.Content)
	}
	return strings.Join(parts, "\n")
}

type modelReporter interface{ ModelName() string }

func providerModel(p Provider) string {
	if r, ok := p.(modelReporter); ok {
		return r.ModelName()
	}
	return ""
}
