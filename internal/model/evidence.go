package model

// Extraction methods recorded on Evidence
const (
	ExtractionLLM       = "llm_analysis"
	ExtractionEnsemble  = "ensemble_analysis"
	ExtractionHeuristic = "heuristic_analysis"
)

// Evidence binds one Source to one Claim. SupportsClaim is tri-state:
// true (supports), false (contradicts), nil (could not determine).
// nil is an explicit state and must never be collapsed into false.
// Evidence is created fresh for every (claim, source) pair and never
// mutated after creation.
type Evidence struct {
	Source           Source         `json:"source"`
	SupportingText   string         `json:"supporting_text"`
	SupportsClaim    *bool          `json:"supports_claim"` // null = neutral
	Confidence       float64        `json:"confidence"`     // [0,1]
	ExtractionMethod string         `json:"extraction_method"`
	Metadata         map[string]any `json:"metadata,omitempty"`
}

// Supports reports whether the evidence supports the claim
func (e Evidence) Supports() bool {
	return e.SupportsClaim != nil && *e.SupportsClaim
}

// Contradicts reports whether the evidence contradicts the claim
func (e Evidence) Contradicts() bool {
	return e.SupportsClaim != nil && !*e.SupportsClaim
}

// Neutral reports whether the evidence could not be determined either way
func (e Evidence) Neutral() bool {
	return e.SupportsClaim == nil
}

// BoolPtr is a convenience for building tri-state values
func BoolPtr(v bool) *bool {
	return &v
}
