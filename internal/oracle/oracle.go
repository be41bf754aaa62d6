// Package oracle is the evidence-to-verdict synthesis engine: it
// turns a claim plus its retrieved sources into per-source evidence
// judgments and a final calibrated verdict.
package oracle

import (
	"context"
	"fmt"
	"time"

	"github.com/skepticlab/skeptic/internal/llm"
	"github.com/skepticlab/skeptic/internal/model"
)

// Oracle is the synthesis entry point. Process is synchronous and
// never returns an error: every internal failure is converted into an
// ERROR-verdict result.
type Oracle struct {
	analyzer   *Analyzer
	thresholds Thresholds
}

// New creates an Oracle. The manager may be nil, in which case every
// source is analyzed with the deterministic heuristic.
func New(manager *llm.Manager, ensembleEnabled bool, verbose bool) *Oracle {
	return &Oracle{
		analyzer:   NewAnalyzer(manager, ensembleEnabled, verbose),
		thresholds: DefaultThresholds(),
	}
}

// NewWithThresholds creates an Oracle with custom verdict tuning
func NewWithThresholds(manager *llm.Manager, ensembleEnabled bool, verbose bool, t Thresholds) *Oracle {
	o := New(manager, ensembleEnabled, verbose)
	o.thresholds = t
	return o
}

// Process synthesizes a verdict for the claim's attached sources.
// Zero sources short-circuit to INSUFFICIENT_EVIDENCE without any
// evidence analysis.
func (o *Oracle) Process(ctx context.Context, claim *model.Claim) (result model.VerificationResult) {
	start := time.Now()

	defer func() {
		if r := recover(); r != nil {
			result = errorResult(claim, fmt.Sprintf("%v", r), start)
		}
	}()

	if len(claim.Sources) == 0 {
		return model.VerificationResult{
			Claim:           claim.Text,
			Verdict:         model.VerdictInsufficientEvidence,
			Confidence:      0,
			EvidenceSummary: "No sources found to evaluate this claim.",
			Sources:         []model.Source{},
			ProcessingTime:  time.Since(start),
			Timestamp:       time.Now().UTC(),
		}
	}

	evidence := o.analyzer.Analyze(ctx, claim, claim.Sources)
	verdict, confidence := Synthesize(evidence, o.thresholds)

	return model.VerificationResult{
		Claim:           claim.Text,
		Verdict:         verdict,
		Confidence:      confidence,
		EvidenceSummary: Summarize(evidence, verdict),
		Sources:         claim.Sources,
		ProcessingTime:  time.Since(start),
		Timestamp:       time.Now().UTC(),
	}
}

func errorResult(claim *model.Claim, message string, start time.Time) model.VerificationResult {
	return model.VerificationResult{
		Claim:           claim.Text,
		Verdict:         model.VerdictError,
		Confidence:      0,
		EvidenceSummary: fmt.Sprintf("Error processing claim: %s", message),
		Sources:         []model.Source{},
		ProcessingTime:  time.Since(start),
		Timestamp:       time.Now().UTC(),
		ErrorMessage:    message,
	}
}
