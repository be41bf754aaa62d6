package pipeline

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/skepticlab/skeptic/internal/model"
)

// Renderer writes verification results as JSON, Markdown or console text
type Renderer struct {
	includeFooter       bool
	confidenceThreshold float64
}

// NewRenderer creates a new renderer. Definitive verdicts whose
// confidence falls below the threshold are flagged in rendered output;
// a zero threshold disables the flag.
func NewRenderer(includeFooter bool, confidenceThreshold float64) *Renderer {
	return &Renderer{
		includeFooter:       includeFooter,
		confidenceThreshold: confidenceThreshold,
	}
}

// lowConfidence reports whether a definitive verdict came in under the
// configured confidence threshold
func (r *Renderer) lowConfidence(result model.VerificationResult) bool {
	if r.confidenceThreshold <= 0 {
		return false
	}
	if result.Verdict != model.VerdictSupported && result.Verdict != model.VerdictContradicted {
		return false
	}
	return result.Confidence < r.confidenceThreshold
}

// resultRecord is the stable JSON shape for one verified claim
type resultRecord struct {
	Claim           string         `json:"claim"`
	Verdict         string         `json:"verdict"`
	Confidence      float64        `json:"confidence"`
	EvidenceSummary string         `json:"evidence_summary"`
	Sources         []sourceRecord `json:"sources"`
	ProcessingTime  float64        `json:"processing_time"`
	Timestamp       string         `json:"timestamp"`
	Error           string         `json:"error,omitempty"`
}

type sourceRecord struct {
	URL         string  `json:"url"`
	Title       string  `json:"title"`
	Credibility float64 `json:"credibility"`
}

func toRecord(result model.VerificationResult) resultRecord {
	sources := make([]sourceRecord, 0, len(result.Sources))
	for _, src := range result.Sources {
		sources = append(sources, sourceRecord{
			URL:         src.URL,
			Title:       src.Title,
			Credibility: src.CredibilityScore,
		})
	}

	return resultRecord{
		Claim:           result.Claim,
		Verdict:         string(result.Verdict),
		Confidence:      result.Confidence,
		EvidenceSummary: result.EvidenceSummary,
		Sources:         sources,
		ProcessingTime:  result.ProcessingTime.Seconds(),
		Timestamp:       result.Timestamp.UTC().Format(time.RFC3339),
		Error:           result.ErrorMessage,
	}
}

// RenderJSON writes results to a JSON file
func (r *Renderer) RenderJSON(results []model.VerificationResult, path string) error {
	records := make([]resultRecord, 0, len(results))
	for _, result := range results {
		records = append(records, toRecord(result))
	}

	data, err := json.MarshalIndent(records, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal results: %w", err)
	}

	if err := os.WriteFile(path, append(data, '\n'), 0644); err != nil {
		return fmt.Errorf("write JSON: %w", err)
	}
	return nil
}

// RenderMarkdown writes results as a Markdown report
func (r *Renderer) RenderMarkdown(results []model.VerificationResult, path string) error {
	var md strings.Builder

	md.WriteString("# Claim Verification Report\n\n")
	md.WriteString(fmt.Sprintf("Generated: %s\n\n", time.Now().UTC().Format(time.RFC3339)))

	for _, result := range results {
		md.WriteString(fmt.Sprintf("## %s\n\n", result.Claim))
		md.WriteString(fmt.Sprintf("**Verdict:** %s  \n", result.Verdict))
		md.WriteString(fmt.Sprintf("**Confidence:** %.2f", result.Confidence))
		if r.lowConfidence(result) {
			md.WriteString(fmt.Sprintf(" (below the %.2f confidence threshold)", r.confidenceThreshold))
		}
		md.WriteString("\n\n")
		md.WriteString(result.EvidenceSummary)
		md.WriteString("\n\n")

		if len(result.Sources) > 0 {
			md.WriteString("### Sources\n\n")
			for _, src := range result.Sources {
				md.WriteString(fmt.Sprintf("- [%s](%s) (credibility %.2f)\n", src.Title, src.URL, src.CredibilityScore))
			}
			md.WriteString("\n")
		}
	}

	if r.includeFooter {
		md.WriteString("---\n\nGenerated by skeptic\n")
	}

	if err := os.WriteFile(path, []byte(md.String()), 0644); err != nil {
		return fmt.Errorf("write markdown: %w", err)
	}
	return nil
}

// RenderText writes a human-readable result to the given writer
func (r *Renderer) RenderText(w io.Writer, result model.VerificationResult, verbose bool) {
	fmt.Fprintf(w, "Claim:      %s\n", result.Claim)
	fmt.Fprintf(w, "Verdict:    %s\n", result.Verdict)
	fmt.Fprintf(w, "Confidence: %.2f\n", result.Confidence)
	if r.lowConfidence(result) {
		fmt.Fprintf(w, "Note:       confidence is below the %.2f threshold, treat with caution\n", r.confidenceThreshold)
	}
	fmt.Fprintf(w, "\n%s\n", result.EvidenceSummary)

	if len(result.Sources) > 0 {
		fmt.Fprintf(w, "\nSources (%d):\n", len(result.Sources))
		for _, src := range result.Sources {
			fmt.Fprintf(w, "  - %s (%s, credibility %.2f)\n", src.Title, src.URL, src.CredibilityScore)
		}
	}

	if verbose {
		fmt.Fprintf(w, "\nProcessed in %.2fs\n", result.ProcessingTime.Seconds())
	}

	if result.ErrorMessage != "" {
		fmt.Fprintf(w, "\nError: %s\n", result.ErrorMessage)
	}
}
