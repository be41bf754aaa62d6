package oracle

import (
	"context"
	"fmt"
	"os"
	"regexp"
	"strconv"
	"strings"

	"github.com/skepticlab/skeptic/internal/llm"
	"github.com/skepticlab/skeptic/internal/model"
)

// Heuristic fallback constants. Empirically tuned, not optimal.
const (
	// overlapSupportThreshold is the claim-word overlap ratio above
	// which the heuristic treats a source as supporting.
	overlapSupportThreshold = 0.45

	// contentSaturationChars is where the content-length adequacy
	// factor saturates.
	contentSaturationChars = 500

	// maxContentChars bounds the source content embedded in a prompt.
	// Longer content is truncated, not rejected.
	maxContentChars = 1500

	// maxExcerptSentences bounds the heuristic supporting excerpt.
	maxExcerptSentences = 2
)

const analyzerAgentName = "oracle"

const analysisSystemPrompt = `You are an expert fact-checker analyzing evidence. Your task is to determine if a source supports, contradicts, or is neutral regarding a claim.

Analyze carefully:
1. Does the source content directly support the claim?
2. Does it contradict the claim?
3. Is it neutral/irrelevant?
4. Extract the most relevant text that supports your assessment.

Respond in this exact format:
ASSESSMENT: [SUPPORTS/CONTRADICTS/NEUTRAL]
CONFIDENCE: [0.0-1.0]
RELEVANT_TEXT: [exact quote from source that supports your assessment]
REASONING: [brief explanation of your assessment]`

// Analyzer produces one Evidence per (claim, source) pair, via a
// provider call when one is available and via a deterministic keyword
// heuristic otherwise. A failed provider call degrades to the
// heuristic for that source only; Analyze never fails a whole claim.
type Analyzer struct {
	manager  *llm.Manager // nil when no LLM is configured
	ensemble bool
	verbose  bool
}

// NewAnalyzer creates an evidence analyzer
func NewAnalyzer(manager *llm.Manager, ensembleEnabled bool, verbose bool) *Analyzer {
	return &Analyzer{manager: manager, ensemble: ensembleEnabled, verbose: verbose}
}

// Analyze evaluates every source against the claim, order-preserving
func (a *Analyzer) Analyze(ctx context.Context, claim *model.Claim, sources []model.Source) []model.Evidence {
	evidence := make([]model.Evidence, 0, len(sources))
	for _, source := range sources {
		evidence = append(evidence, a.analyzeSource(ctx, claim, source))
	}
	return evidence
}

func (a *Analyzer) analyzeSource(ctx context.Context, claim *model.Claim, source model.Source) model.Evidence {
	if a.manager == nil || !a.manager.HasProviders() {
		return analyzeHeuristic(claim.Text, source)
	}

	messages := buildAnalysisMessages(claim.Text, source)
	opts := llm.Options{Temperature: 0.1, MaxTokens: 400}

	var (
		content  string
		metadata map[string]any
		method   = model.ExtractionLLM
	)

	if a.ensemble {
		resp, err := a.manager.GenerateEnsemble(ctx, llm.GenerateRequest{
			Messages:  messages,
			AgentName: analyzerAgentName,
			Options:   opts,
		}, nil)
		if err != nil {
			a.warnFallback(source, err)
			return analyzeHeuristic(claim.Text, source)
		}
		content = resp.Content
		method = model.ExtractionEnsemble
		metadata = map[string]any{
			"provider":      resp.Metadata["provider"],
			"ensemble_size": resp.EnsembleSize,
			"voting_method": resp.VotingMethod,
		}
	} else {
		resp, err := a.manager.Generate(ctx, llm.GenerateRequest{
			Messages:  messages,
			AgentName: analyzerAgentName,
			Options:   opts,
		})
		if err != nil {
			a.warnFallback(source, err)
			return analyzeHeuristic(claim.Text, source)
		}
		content = resp.Content
		metadata = map[string]any{"provider": resp.Metadata["provider"]}
	}

	analysis := parseEvidenceAnalysis(content)

	return model.Evidence{
		Source:           source,
		SupportingText:   analysis.RelevantText,
		SupportsClaim:    analysis.Supports,
		Confidence:       analysis.Confidence,
		ExtractionMethod: method,
		Metadata:         metadata,
	}
}

func (a *Analyzer) warnFallback(source model.Source, err error) {
	if a.verbose {
		fmt.Fprintf(os.Stderr, "Warning: LLM analysis failed for %q, using heuristic: %v\n", source.Title, err)
	}
}

func buildAnalysisMessages(claimText string, source model.Source) []llm.Message {
	content := source.Content
	truncated := ""
	if len(content) > maxContentChars {
		content = content[:maxContentChars]
		truncated = "..."
	}

	user := fmt.Sprintf(`Claim: %q

Source Title: %s
Source Content: %s%s

Analyze if this source supports, contradicts, or is neutral regarding the claim.`,
		claimText, source.Title, content, truncated)

	return []llm.Message{
		{Role: "system", Content: analysisSystemPrompt},
		{Role: "user", Content: user},
	}
}

// EvidenceAnalysis is the parsed structure of a provider's response
type EvidenceAnalysis struct {
	Assessment   string
	Supports     *bool // nil = neutral
	Confidence   float64
	RelevantText string
	Reasoning    string
}

// parseEvidenceAnalysis scans the response line by line for the four
// labeled fields. It is deliberately defensive: unrecognized lines are
// ignored, a malformed confidence defaults to 0.5, and any assessment
// other than SUPPORTS/CONTRADICTS maps to neutral, so a malformed
// response still yields a usable Evidence record.
func parseEvidenceAnalysis(responseText string) EvidenceAnalysis {
	analysis := EvidenceAnalysis{
		Assessment: "NEUTRAL",
		Confidence: 0.5,
	}

	for _, line := range strings.Split(strings.TrimSpace(responseText), "\n") {
		line = strings.TrimSpace(line)
		switch {
		case strings.HasPrefix(line, "ASSESSMENT:"):
			assessment := strings.ToUpper(strings.TrimSpace(fieldValue(line)))
			analysis.Assessment = assessment
			switch assessment {
			case "SUPPORTS":
				analysis.Supports = model.BoolPtr(true)
			case "CONTRADICTS":
				analysis.Supports = model.BoolPtr(false)
			default:
				analysis.Supports = nil
			}

		case strings.HasPrefix(line, "CONFIDENCE:"):
			if v, err := strconv.ParseFloat(strings.TrimSpace(fieldValue(line)), 64); err == nil {
				analysis.Confidence = clamp01(v)
			}

		case strings.HasPrefix(line, "RELEVANT_TEXT:"):
			analysis.RelevantText = strings.TrimSpace(fieldValue(line))

		case strings.HasPrefix(line, "REASONING:"):
			analysis.Reasoning = strings.TrimSpace(fieldValue(line))
		}
	}

	return analysis
}

func fieldValue(line string) string {
	if i := strings.Index(line, ":"); i >= 0 {
		return line[i+1:]
	}
	return ""
}

// analyzeHeuristic is the deterministic fallback: word-set overlap
// modulated by contextual negation, with a confidence blended from
// overlap, source credibility, and content-length adequacy.
func analyzeHeuristic(claimText string, source model.Source) model.Evidence {
	return model.Evidence{
		Source:           source,
		SupportingText:   extractSupportingText(claimText, source.Content),
		SupportsClaim:    assessSupportHeuristic(claimText, source.Content),
		Confidence:       heuristicConfidence(claimText, source.Content, source.CredibilityScore),
		ExtractionMethod: model.ExtractionHeuristic,
	}
}

// assessSupportHeuristic is tri-state: high overlap supports the
// claim, high overlap with a contextual negation contradicts it, and
// low overlap says nothing either way.
func assessSupportHeuristic(claimText, content string) *bool {
	if content == "" {
		return nil
	}

	claimWords := wordSet(claimText)
	if len(claimWords) == 0 {
		return nil
	}
	contentWords := wordSet(content)

	overlap := 0
	for w := range claimWords {
		if contentWords[w] {
			overlap++
		}
	}
	ratio := float64(overlap) / float64(len(claimWords))

	if ratio <= overlapSupportThreshold {
		return nil
	}
	if hasContextualNegation(claimWords, content) {
		return model.BoolPtr(false)
	}
	return model.BoolPtr(true)
}

// hasContextualNegation looks for a negation token immediately
// preceding one of the claim's keywords.
func hasContextualNegation(claimWords map[string]bool, content string) bool {
	contentLower := strings.ToLower(content)
	for w := range claimWords {
		for _, neg := range []string{"not", "no", "never", "false"} {
			pattern := `\b` + neg + `\s+` + regexp.QuoteMeta(w) + `\b`
			if matched, _ := regexp.MatchString(pattern, contentLower); matched {
				return true
			}
		}
	}
	return false
}

func heuristicConfidence(claimText, content string, credibility float64) float64 {
	if content == "" {
		return 0
	}

	claimWords := wordSet(claimText)
	contentWords := wordSet(content)

	overlap := 0
	for w := range claimWords {
		if contentWords[w] {
			overlap++
		}
	}
	ratio := 0.0
	if len(claimWords) > 0 {
		ratio = float64(overlap) / float64(len(claimWords))
	}

	lengthFactor := min(float64(len(content))/contentSaturationChars, 1.0)

	return min(ratio*0.5+credibility*0.3+lengthFactor*0.2, 1.0)
}

// extractSupportingText concatenates the first sentences of the source
// whose word overlap with the claim exceeds a small absolute threshold.
func extractSupportingText(claimText, content string) string {
	if content == "" {
		return ""
	}

	claimWords := wordSet(claimText)
	minOverlap := min(2, int(float64(len(claimWords))*0.3)+1)

	var relevant []string
	for _, sentence := range strings.Split(content, ".") {
		sentenceWords := wordSet(sentence)
		overlap := 0
		for w := range claimWords {
			if sentenceWords[w] {
				overlap++
			}
		}
		if overlap >= minOverlap {
			relevant = append(relevant, strings.TrimSpace(sentence))
			if len(relevant) == maxExcerptSentences {
				break
			}
		}
	}

	return strings.Join(relevant, ". ")
}

func wordSet(text string) map[string]bool {
	set := make(map[string]bool)
	for _, w := range strings.Fields(strings.ToLower(text)) {
		w = strings.Trim(w, `.,;:!?"'()[]`)
		if w != "" {
			set[w] = true
		}
	}
	return set
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
