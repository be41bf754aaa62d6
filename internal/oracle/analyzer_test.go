package oracle

import (
	"context"
	"errors"
	"testing"

	"github.com/skepticlab/skeptic/internal/llm"
	"github.com/skepticlab/skeptic/internal/model"
)

func TestParseEvidenceAnalysis_Supports(t *testing.T) {
	response := `ASSESSMENT: SUPPORTS
CONFIDENCE: 0.85
RELEVANT_TEXT: The Berlin Wall fell on November 9, 1989.
REASONING: The source states the date directly.`

	analysis := parseEvidenceAnalysis(response)

	if analysis.Supports == nil || !*analysis.Supports {
		t.Error("expected supports=true")
	}
	if analysis.Confidence != 0.85 {
		t.Errorf("expected confidence 0.85, got %f", analysis.Confidence)
	}
	if analysis.RelevantText != "The Berlin Wall fell on November 9, 1989." {
		t.Errorf("unexpected relevant text: %q", analysis.RelevantText)
	}
	if analysis.Reasoning != "The source states the date directly." {
		t.Errorf("unexpected reasoning: %q", analysis.Reasoning)
	}
}

func TestParseEvidenceAnalysis_Contradicts(t *testing.T) {
	analysis := parseEvidenceAnalysis("ASSESSMENT: CONTRADICTS\nCONFIDENCE: 0.9")

	if analysis.Supports == nil || *analysis.Supports {
		t.Error("expected supports=false")
	}
}

func TestParseEvidenceAnalysis_Malformed(t *testing.T) {
	analysis := parseEvidenceAnalysis("I'm not sure what you're asking about.")

	if analysis.Supports != nil {
		t.Error("malformed response should be neutral")
	}
	if analysis.Confidence != 0.5 {
		t.Errorf("expected default confidence 0.5, got %f", analysis.Confidence)
	}
	if analysis.Assessment != "NEUTRAL" {
		t.Errorf("expected NEUTRAL default, got %q", analysis.Assessment)
	}
}

func TestParseEvidenceAnalysis_BadConfidence(t *testing.T) {
	analysis := parseEvidenceAnalysis("ASSESSMENT: SUPPORTS\nCONFIDENCE: very high")
	if analysis.Confidence != 0.5 {
		t.Errorf("unparseable confidence should default to 0.5, got %f", analysis.Confidence)
	}

	analysis = parseEvidenceAnalysis("ASSESSMENT: SUPPORTS\nCONFIDENCE: 1.7")
	if analysis.Confidence != 1.0 {
		t.Errorf("out-of-range confidence should clamp to 1.0, got %f", analysis.Confidence)
	}
}

func TestParseEvidenceAnalysis_UnknownAssessment(t *testing.T) {
	analysis := parseEvidenceAnalysis("ASSESSMENT: MAYBE\nCONFIDENCE: 0.6")
	if analysis.Supports != nil {
		t.Error("unknown assessment should map to neutral, not false")
	}
}

func TestAnalyzeHeuristic_Supporting(t *testing.T) {
	source := model.Source{
		URL:              "https://en.wikipedia.org/wiki/Berlin_Wall",
		Title:            "Berlin Wall",
		Content:          "The Berlin Wall fell in 1989 after mass protests across East Germany.",
		CredibilityScore: 0.9,
	}

	evidence := analyzeHeuristic("The Berlin Wall fell in 1989.", source)

	if !evidence.Supports() {
		t.Error("expected heuristic support for overlapping content")
	}
	if evidence.ExtractionMethod != model.ExtractionHeuristic {
		t.Errorf("expected heuristic method, got %s", evidence.ExtractionMethod)
	}
	if evidence.Confidence <= 0 || evidence.Confidence > 1 {
		t.Errorf("confidence out of range: %f", evidence.Confidence)
	}
	if evidence.SupportingText == "" {
		t.Error("expected a supporting excerpt")
	}
}

func TestAnalyzeHeuristic_NegationContradicts(t *testing.T) {
	source := model.Source{
		Content:          "Contrary to the popular belief, the wall did not fall in 1988; the Berlin Wall fell in 1989.",
		CredibilityScore: 0.9,
	}

	evidence := analyzeHeuristic("The wall did fall in 1988.", source)

	if evidence.Supports() {
		t.Error("negated keyword should block heuristic support")
	}
	// Overlapping content that negates a claim keyword is evidence
	// against the claim, not mere irrelevance.
	if !evidence.Contradicts() {
		t.Error("expected heuristic contradiction for negated overlap")
	}
}

func TestAnalyzeHeuristic_LowOverlapNeutral(t *testing.T) {
	source := model.Source{
		Content:          "Carbonara is a pasta dish from Rome made with eggs and cured pork.",
		CredibilityScore: 0.9,
	}

	evidence := analyzeHeuristic("The Berlin Wall fell in 1989.", source)

	if evidence.SupportsClaim != nil {
		t.Error("unrelated content should stay neutral, not contradict")
	}
}

func TestAnalyzeHeuristic_EmptyContent(t *testing.T) {
	evidence := analyzeHeuristic("Some claim.", model.Source{CredibilityScore: 0.9})

	if evidence.Supports() {
		t.Error("empty content cannot support")
	}
	if evidence.Confidence != 0 {
		t.Errorf("empty content should give zero confidence, got %f", evidence.Confidence)
	}
}

func TestAnalyzer_NilManager(t *testing.T) {
	analyzer := NewAnalyzer(nil, false, false)
	claim := model.NewClaim("The Berlin Wall fell in 1989.")
	sources := []model.Source{
		{Content: "The Berlin Wall fell in 1989.", CredibilityScore: 0.9},
	}

	evidence := analyzer.Analyze(context.Background(), claim, sources)

	if len(evidence) != 1 {
		t.Fatalf("expected 1 evidence record, got %d", len(evidence))
	}
	if evidence[0].ExtractionMethod != model.ExtractionHeuristic {
		t.Errorf("nil manager should use the heuristic, got %s", evidence[0].ExtractionMethod)
	}
}

// scriptedProvider implements llm.Provider
type scriptedProvider struct {
	name     string
	kind     llm.Kind
	response string
	err      error
}

func (p *scriptedProvider) Name() string   { return p.name }
func (p *scriptedProvider) Kind() llm.Kind { return p.kind }

func (p *scriptedProvider) Generate(ctx context.Context, messages []llm.Message, opts llm.Options) (*llm.Response, error) {
	if p.err != nil {
		return nil, p.err
	}
	return &llm.Response{Content: p.response, Kind: p.kind}, nil
}

func (p *scriptedProvider) IsAvailable(ctx context.Context) bool { return true }

func TestAnalyzer_LLMPath(t *testing.T) {
	manager := llm.NewManagerWithProviders(map[string]llm.Provider{
		"ollama_default": &scriptedProvider{
			name: "ollama_default",
			kind: llm.KindOllama,
			response: `ASSESSMENT: SUPPORTS
CONFIDENCE: 0.9
RELEVANT_TEXT: The source confirms the claim.
REASONING: Direct match.`,
		},
	}, "weighted")

	analyzer := NewAnalyzer(manager, false, false)
	claim := model.NewClaim("The Eiffel Tower is in Paris.")
	sources := []model.Source{{Title: "Eiffel Tower", Content: "The Eiffel Tower is in Paris.", CredibilityScore: 0.9}}

	evidence := analyzer.Analyze(context.Background(), claim, sources)

	if len(evidence) != 1 {
		t.Fatalf("expected 1 evidence record, got %d", len(evidence))
	}
	if evidence[0].ExtractionMethod != model.ExtractionLLM {
		t.Errorf("expected LLM method, got %s", evidence[0].ExtractionMethod)
	}
	if !evidence[0].Supports() {
		t.Error("expected supporting evidence")
	}
	if evidence[0].Confidence != 0.9 {
		t.Errorf("expected confidence 0.9, got %f", evidence[0].Confidence)
	}
	if evidence[0].Metadata["provider"] != "ollama_default" {
		t.Errorf("expected provider metadata, got %v", evidence[0].Metadata)
	}
}

func TestAnalyzer_LLMFailureFallsBackToHeuristic(t *testing.T) {
	manager := llm.NewManagerWithProviders(map[string]llm.Provider{
		"ollama_default": &scriptedProvider{
			name: "ollama_default",
			kind: llm.KindOllama,
			err:  &llm.GenerationError{Kind: llm.KindOllama, Err: errors.New("connection refused")},
		},
	}, "weighted")

	analyzer := NewAnalyzer(manager, false, false)
	claim := model.NewClaim("The Berlin Wall fell in 1989.")
	sources := []model.Source{{Content: "The Berlin Wall fell in 1989.", CredibilityScore: 0.9}}

	evidence := analyzer.Analyze(context.Background(), claim, sources)

	if evidence[0].ExtractionMethod != model.ExtractionHeuristic {
		t.Errorf("provider failure should degrade to heuristic, got %s", evidence[0].ExtractionMethod)
	}
	if !evidence[0].Supports() {
		t.Error("heuristic should still find support in overlapping content")
	}
}

func TestAnalyzer_EnsemblePath(t *testing.T) {
	script := `ASSESSMENT: SUPPORTS
CONFIDENCE: 0.8
RELEVANT_TEXT: Confirmed by the source.
REASONING: Match.`

	manager := llm.NewManagerWithProviders(map[string]llm.Provider{
		"ollama_default": &scriptedProvider{name: "ollama_default", kind: llm.KindOllama, response: script},
		"claude_default": &scriptedProvider{name: "claude_default", kind: llm.KindAnthropic, response: script},
	}, "weighted")

	analyzer := NewAnalyzer(manager, true, false)
	claim := model.NewClaim("The Eiffel Tower is in Paris.")
	sources := []model.Source{{Content: "The Eiffel Tower is in Paris.", CredibilityScore: 0.9}}

	evidence := analyzer.Analyze(context.Background(), claim, sources)

	if evidence[0].ExtractionMethod != model.ExtractionEnsemble {
		t.Errorf("expected ensemble method, got %s", evidence[0].ExtractionMethod)
	}
	if evidence[0].Metadata["ensemble_size"] != 2 {
		t.Errorf("expected ensemble_size 2, got %v", evidence[0].Metadata["ensemble_size"])
	}
}

func TestBuildAnalysisMessages_Truncation(t *testing.T) {
	long := make([]byte, maxContentChars+100)
	for i := range long {
		long[i] = 'a'
	}
	source := model.Source{Title: "Long", Content: string(long)}

	messages := buildAnalysisMessages("claim", source)

	if len(messages) != 2 {
		t.Fatalf("expected system+user messages, got %d", len(messages))
	}
	user := messages[1].Content
	if len(user) > maxContentChars+300 {
		t.Errorf("content not truncated, user message length %d", len(user))
	}
}
