package agents

import (
	"regexp"
	"strings"

	"github.com/skepticlab/skeptic/internal/model"
)

// Illuminator classifies a claim's topic and extracts entities with
// rule-based pattern matching.
type Illuminator struct{}

// NewIlluminator creates an illuminator
func NewIlluminator() *Illuminator {
	return &Illuminator{}
}

var datePatterns = []*regexp.Regexp{
	regexp.MustCompile(`\b\d{4}\b`),
	regexp.MustCompile(`\b(?:January|February|March|April|May|June|July|August|September|October|November|December)\s+\d{1,2},?\s+\d{4}\b`),
	regexp.MustCompile(`\b\d{1,2}[/\-]\d{1,2}[/\-]\d{4}\b`),
}

var biographicalKeywords = []string{
	"born", "birth", "died", "death", "lived", "age", "married", "graduated",
	"studied", "worked", "served", "became", "appointed", "elected",
}

var corporateKeywords = []string{
	"founded", "established", "company", "corporation", "business", "startup",
	"ipo", "acquired", "merger", "revenue", "profit", "headquarters",
}

var newsKeywords = []string{
	"announced", "reported", "happened", "occurred", "event", "incident",
	"today", "yesterday", "recently", "breaking",
}

var (
	yearEntity    = regexp.MustCompile(`\b(1[0-9]{3}|20[0-9]{2})\b`)
	properNounRun = regexp.MustCompile(`\b[A-Z][a-z]+(?:\s+[A-Z][a-z]+)*\b`)
)

// Process classifies the claim type and extracts entities in place
func (il *Illuminator) Process(claim *model.Claim) *model.Claim {
	claim.Type = il.classify(claim.Text)
	claim.Entities = il.extractEntities(claim.Text)
	return claim
}

func (il *Illuminator) classify(text string) model.ClaimType {
	lower := strings.ToLower(text)

	hasDate := false
	for _, p := range datePatterns {
		if p.MatchString(text) {
			hasDate = true
			break
		}
	}

	if hasDate {
		switch {
		case containsAny(lower, biographicalKeywords):
			return model.ClaimTypeBiographicalFact
		case containsAny(lower, corporateKeywords):
			return model.ClaimTypeCorporateFact
		default:
			return model.ClaimTypeHistoricalDate
		}
	}

	switch {
	case containsAny(lower, biographicalKeywords):
		return model.ClaimTypeBiographicalFact
	case containsAny(lower, corporateKeywords):
		return model.ClaimTypeCorporateFact
	case containsAny(lower, newsKeywords):
		return model.ClaimTypeNewsEvent
	default:
		return model.ClaimTypeUnknown
	}
}

// extractEntities finds year tokens and capitalized spans. A proper
// NER model would do better; this matches what the retrieval stage
// actually needs for search-term construction.
func (il *Illuminator) extractEntities(text string) []model.Entity {
	var entities []model.Entity

	for _, loc := range yearEntity.FindAllStringIndex(text, -1) {
		entities = append(entities, model.Entity{
			Text:       text[loc[0]:loc[1]],
			Type:       "DATE",
			Start:      loc[0],
			End:        loc[1],
			Confidence: 1.0,
		})
	}

	for _, loc := range properNounRun.FindAllStringIndex(text, -1) {
		span := text[loc[0]:loc[1]]
		// Sentence-initial single words are usually not entities
		if loc[0] == 0 && !strings.Contains(span, " ") {
			continue
		}
		entities = append(entities, model.Entity{
			Text:       span,
			Type:       "PROPER",
			Start:      loc[0],
			End:        loc[1],
			Confidence: 0.7,
		})
	}

	return entities
}

func containsAny(text string, keywords []string) bool {
	for _, k := range keywords {
		if strings.Contains(text, k) {
			return true
		}
	}
	return false
}
