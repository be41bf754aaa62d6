package oracle

import (
	"fmt"
	"math"
	"strings"

	"github.com/skepticlab/skeptic/internal/model"
)

// Thresholds are the tunable constants of verdict synthesis. The
// defaults were tuned empirically; callers may override them via
// configuration but should not assume they are optimal.
type Thresholds struct {
	// SupportRatio at or above which the verdict is SUPPORTED
	SupportRatio float64
	// ContradictRatio at or below which the verdict is CONTRADICTED
	ContradictRatio float64
	// EnsembleBoost multiplies the weight of ensemble-produced
	// evidence, rewarding cross-model agreement.
	EnsembleBoost float64
	// ConfidenceCap is the hard ceiling; the system never claims
	// near-certainty.
	ConfidenceCap float64
	// Calibration weights for ratio distance, evidence quality and
	// source diversity. Should sum to 1.
	RatioWeight     float64
	QualityWeight   float64
	DiversityWeight float64
	// DiversityTarget is the distinct-source count at which the
	// diversity factor saturates.
	DiversityTarget int
}

// DefaultThresholds returns the standard tuning
func DefaultThresholds() Thresholds {
	return Thresholds{
		SupportRatio:    0.7,
		ContradictRatio: 0.3,
		EnsembleBoost:   1.2,
		ConfidenceCap:   0.95,
		RatioWeight:     0.5,
		QualityWeight:   0.3,
		DiversityWeight: 0.2,
		DiversityTarget: 3,
	}
}

// Synthesize aggregates per-source evidence into one verdict and a
// calibrated confidence. It is deterministic: the same evidence list
// always yields the same verdict and confidence.
func Synthesize(evidence []model.Evidence, t Thresholds) (model.Verdict, float64) {
	if len(evidence) == 0 {
		return model.VerdictInsufficientEvidence, 0
	}

	var supporting, contradicting []model.Evidence
	for _, e := range evidence {
		switch {
		case e.Supports():
			supporting = append(supporting, e)
		case e.Contradicts():
			contradicting = append(contradicting, e)
		}
	}

	supportScore := weightedScore(supporting, t.EnsembleBoost)
	contradictScore := weightedScore(contradicting, t.EnsembleBoost)
	total := supportScore + contradictScore

	if total == 0 {
		return model.VerdictInsufficientEvidence, 0
	}

	ratio := supportScore / total

	verdict := model.VerdictInsufficientEvidence
	switch {
	case ratio >= t.SupportRatio && len(supporting) > 0:
		verdict = model.VerdictSupported
	case ratio <= t.ContradictRatio && len(contradicting) > 0:
		verdict = model.VerdictContradicted
	}

	return verdict, calibrateConfidence(evidence, ratio, t)
}

// weightedScore sums confidence x credibility, boosting evidence that
// came from ensemble analysis.
func weightedScore(evidence []model.Evidence, boost float64) float64 {
	score := 0.0
	for _, e := range evidence {
		w := e.Confidence * e.Source.CredibilityScore
		if e.ExtractionMethod == model.ExtractionEnsemble {
			w *= boost
		}
		score += w
	}
	return score
}

// calibrateConfidence combines the support ratio's distance from the
// undecided midpoint, mean per-evidence confidence, and source
// diversity, then applies the hard cap.
func calibrateConfidence(evidence []model.Evidence, ratio float64, t Thresholds) float64 {
	decisiveness := math.Abs(ratio-0.5) * 2 // [0,1]

	quality := 0.0
	urls := make(map[string]bool)
	for _, e := range evidence {
		quality += e.Confidence
		if e.Source.URL != "" {
			urls[e.Source.URL] = true
		}
	}
	quality /= float64(len(evidence))

	diversity := min(float64(len(urls))/float64(t.DiversityTarget), 1.0)

	confidence := decisiveness*t.RatioWeight + quality*t.QualityWeight + diversity*t.DiversityWeight
	if confidence > t.ConfidenceCap {
		confidence = t.ConfidenceCap
	}
	if confidence < 0 {
		confidence = 0
	}
	return confidence
}

// excerptPreviewChars bounds quoted excerpts in the summary
const excerptPreviewChars = 200

// Summarize renders the human-readable evidence summary: the verdict,
// source counts, and the highest-confidence supporting and
// contradicting excerpts.
func Summarize(evidence []model.Evidence, verdict model.Verdict) string {
	if len(evidence) == 0 {
		return "No evidence found to evaluate this claim."
	}

	var supporting, contradicting []model.Evidence
	neutral := 0
	for _, e := range evidence {
		switch {
		case e.Supports():
			supporting = append(supporting, e)
		case e.Contradicts():
			contradicting = append(contradicting, e)
		default:
			neutral++
		}
	}

	var parts []string
	switch verdict {
	case model.VerdictSupported:
		parts = append(parts, "This claim is SUPPORTED by the available evidence.")
	case model.VerdictContradicted:
		parts = append(parts, "This claim is CONTRADICTED by the available evidence.")
	default:
		parts = append(parts, "There is INSUFFICIENT EVIDENCE to verify this claim.")
	}

	parts = append(parts, fmt.Sprintf("Found %d sources: %d supporting, %d contradicting, %d neutral.",
		len(evidence), len(supporting), len(contradicting), neutral))

	if best := bestByConfidence(supporting); best != nil && best.SupportingText != "" {
		parts = append(parts, fmt.Sprintf("Key supporting evidence: %s", preview(best.SupportingText)))
	}
	if best := bestByConfidence(contradicting); best != nil && best.SupportingText != "" {
		parts = append(parts, fmt.Sprintf("Key contradicting evidence: %s", preview(best.SupportingText)))
	}

	return strings.Join(parts, " ")
}

func bestByConfidence(evidence []model.Evidence) *model.Evidence {
	var best *model.Evidence
	for i := range evidence {
		if best == nil || evidence[i].Confidence > best.Confidence {
			best = &evidence[i]
		}
	}
	return best
}

func preview(text string) string {
	if len(text) <= excerptPreviewChars {
		return text
	}
	return text[:excerptPreviewChars] + "..."
}
