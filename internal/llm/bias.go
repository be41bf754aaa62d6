package llm

import (
	"regexp"
	"strings"
)

// BiasPolicy is the pluggable table of sensitive topics and response
// anti-patterns the detector works from. The shipped default is a
// small, illustrative set; completeness and fairness of the list is a
// policy decision, not something this code can judge.
type BiasPolicy struct {
	// SensitiveKeywords are topics known to trigger provider-side
	// suppression or avoidance.
	SensitiveKeywords []string

	// CompoundPatterns are regexes (keyword co-occurring with a
	// disputed date) that score 0.8 flat on match.
	CompoundPatterns []string

	// AvoidancePhrases are hedging formulations that indicate a
	// provider dodged an unambiguous question.
	AvoidancePhrases []string

	// ConfirmationWords are terms a direct answer to a keyword+date
	// prompt would normally contain.
	ConfirmationWords []string
}

// DefaultBiasPolicy returns the built-in policy table
func DefaultBiasPolicy() BiasPolicy {
	return BiasPolicy{
		SensitiveKeywords: []string{
			"berlin wall", "tiananmen square", "hong kong protests", "taiwan independence",
			"tibet", "xinjiang", "uyghur", "falun gong", "democracy china",
			"human rights china", "censorship china", "cultural revolution",
		},
		CompoundPatterns: []string{
			`berlin wall.*1989`, `tiananmen.*1989`, `hong kong.*protest`,
		},
		AvoidancePhrases: []string{
			"insufficient information", "cannot be verified", "unclear from sources",
			"disputed claims", "different perspectives", "complex situation",
			"multiple viewpoints", "sensitive topic", "political nature",
		},
		ConfirmationWords: []string{
			"fell", "fall", "collapsed", "ended", "demolished",
		},
	}
}

// Bias level thresholds
const (
	BiasLevelHigh    = "HIGH"    // score >= 0.8
	BiasLevelMedium  = "MEDIUM"  // score >= 0.6
	BiasLevelLow     = "LOW"     // score >= 0.3
	BiasLevelMinimal = "MINIMAL"
)

// ContentRisk is the pre-generation risk assessment of a prompt
type ContentRisk struct {
	Score                float64  `json:"score"` // [0,1]
	Categories           []string `json:"categories,omitempty"`
	HighRisk             bool     `json:"high_risk"`
	RequiresSafeProvider bool     `json:"requires_safe_provider"`
}

// ResponseBias is the post-hoc assessment of a provider's response
type ResponseBias struct {
	Score          float64 `json:"score"`
	Level          string  `json:"level"`
	AvoidanceScore float64 `json:"avoidance_score"`
	OmissionScore  float64 `json:"omission_score"`
	Biased         bool    `json:"biased"`
}

// BiasDetector scores text for the likelihood of triggering
// provider-side suppression on politically sensitive topics.
// It is a keyword heuristic, not a certified bias detector.
type BiasDetector struct {
	policy    BiasPolicy
	compounds []*regexp.Regexp
}

var yearPattern = regexp.MustCompile(`\b(1[0-9]{3}|20[0-9]{2})\b`)

// NewBiasDetector creates a detector from a policy table
func NewBiasDetector(policy BiasPolicy) *BiasDetector {
	compounds := make([]*regexp.Regexp, 0, len(policy.CompoundPatterns))
	for _, p := range policy.CompoundPatterns {
		if re, err := regexp.Compile(p); err == nil {
			compounds = append(compounds, re)
		}
	}
	return &BiasDetector{policy: policy, compounds: compounds}
}

// AssessContent scores a prompt for bias risk. Zero keyword hits score
// 0; a compound keyword+date pattern scores 0.8 flat; otherwise
// min(0.3 * hits, 0.7).
func (d *BiasDetector) AssessContent(content string) ContentRisk {
	lower := strings.ToLower(content)

	hits := 0
	for _, keyword := range d.policy.SensitiveKeywords {
		if strings.Contains(lower, keyword) {
			hits++
		}
	}

	if hits == 0 {
		return ContentRisk{}
	}

	score := min(float64(hits)*0.3, 0.7)
	for _, re := range d.compounds {
		if re.MatchString(lower) {
			score = 0.8
			break
		}
	}

	risk := ContentRisk{
		Score:                score,
		HighRisk:             score > 0.7,
		RequiresSafeProvider: score > 0.5,
	}
	if score > 0.3 {
		risk.Categories = []string{"political"}
	}
	return risk
}

// AssessResponse checks a provider's response to a risky prompt for
// two anti-patterns: hedging where the prompt was unambiguous, and
// omission of an expected date token. The final score is the max of
// the two.
func (d *BiasDetector) AssessResponse(original, response string) ResponseBias {
	originalLower := strings.ToLower(original)
	responseLower := strings.ToLower(response)

	avoidance := d.avoidanceScore(originalLower, responseLower)
	omission := d.omissionScore(originalLower, responseLower)

	score := max(avoidance, omission)
	return ResponseBias{
		Score:          score,
		Level:          biasLevel(score),
		AvoidanceScore: avoidance,
		OmissionScore:  omission,
		Biased:         score > 0.6,
	}
}

// avoidanceScore detects hedging in responses to prompts that matched
// a compound keyword+date pattern and therefore have a plain answer.
func (d *BiasDetector) avoidanceScore(original, response string) float64 {
	if !d.hasCompoundMatch(original) {
		return 0
	}

	for _, phrase := range d.policy.AvoidancePhrases {
		if strings.Contains(response, phrase) {
			return 0.9
		}
	}

	// A substantial response that never confirms the fact is also
	// avoidance, scored slightly lower.
	for _, word := range d.policy.ConfirmationWords {
		if strings.Contains(response, word) {
			return 0
		}
	}
	if len(response) > 50 {
		return 0.8
	}
	return 0
}

// omissionScore detects a year token present next to a sensitive
// keyword in the prompt but absent from the response.
func (d *BiasDetector) omissionScore(original, response string) float64 {
	if !d.containsSensitiveKeyword(original) {
		return 0
	}

	for _, year := range yearPattern.FindAllString(original, -1) {
		if !strings.Contains(response, year) {
			return 0.7
		}
	}
	return 0
}

func (d *BiasDetector) hasCompoundMatch(lower string) bool {
	for _, re := range d.compounds {
		if re.MatchString(lower) {
			return true
		}
	}
	return false
}

func (d *BiasDetector) containsSensitiveKeyword(lower string) bool {
	for _, keyword := range d.policy.SensitiveKeywords {
		if strings.Contains(lower, keyword) {
			return true
		}
	}
	return false
}

func biasLevel(score float64) string {
	switch {
	case score >= 0.8:
		return BiasLevelHigh
	case score >= 0.6:
		return BiasLevelMedium
	case score >= 0.3:
		return BiasLevelLow
	default:
		return BiasLevelMinimal
	}
}
