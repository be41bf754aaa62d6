package agents

import (
	"context"
	"fmt"
	"strings"

	"github.com/skepticlab/skeptic/internal/llm"
	"github.com/skepticlab/skeptic/internal/model"
)

const logicianAgentName = "logician"

// Logician deconstructs a claim into independently-verifiable
// sub-claims, via an LLM when one is available and rule-based
// splitting otherwise. It always produces at least one sub-claim.
type Logician struct {
	manager      *llm.Manager // nil disables LLM deconstruction
	maxSubClaims int
}

// NewLogician creates a logician
func NewLogician(manager *llm.Manager, cfg model.AgentsConfig) *Logician {
	maxSub := cfg.MaxSubClaims
	if maxSub <= 0 {
		maxSub = 5
	}
	return &Logician{manager: manager, maxSubClaims: maxSub}
}

// Process fills in the claim's sub-claims
func (l *Logician) Process(ctx context.Context, claim *model.Claim) *model.Claim {
	var subClaims []model.SubClaim

	if l.manager != nil && l.manager.HasProviders() {
		subClaims = l.llmDeconstruct(ctx, claim.Text)
	}
	if len(subClaims) == 0 {
		subClaims = l.ruleBasedDeconstruct(claim)
	}

	if len(subClaims) > l.maxSubClaims {
		subClaims = subClaims[:l.maxSubClaims]
	}
	claim.SubClaims = subClaims
	return claim
}

func (l *Logician) llmDeconstruct(ctx context.Context, claimText string) []model.SubClaim {
	prompt := fmt.Sprintf(`Break down the following claim into its verifiable sub-components:

Claim: %q

Please identify:
1. Key factual assertions that can be independently verified
2. Entities involved (people, organizations, dates, locations)

Format your response as:
SUB-CLAIM 1: [specific verifiable fact]
ENTITIES: [entity1], [entity2], ...

SUB-CLAIM 2: [another specific verifiable fact]
ENTITIES: [entity1], [entity2], ...

Focus on claims that can be verified through reliable sources.`, claimText)

	resp, err := l.manager.Generate(ctx, llm.GenerateRequest{
		Messages: []llm.Message{
			{Role: "system", Content: "You are an expert at breaking down factual claims into verifiable sub-components."},
			{Role: "user", Content: prompt},
		},
		AgentName: logicianAgentName,
		Options:   llm.Options{Temperature: 0.1, MaxTokens: 500},
	})
	if err != nil {
		return nil
	}

	return parseSubClaims(resp.Content)
}

// parseSubClaims scans the SUB-CLAIM/ENTITIES line format. Malformed
// sections are skipped rather than failing the deconstruction.
func parseSubClaims(responseText string) []model.SubClaim {
	var subClaims []model.SubClaim
	var current *model.SubClaim

	flush := func() {
		if current != nil && current.Text != "" {
			subClaims = append(subClaims, *current)
		}
		current = nil
	}

	for _, line := range strings.Split(strings.TrimSpace(responseText), "\n") {
		line = strings.TrimSpace(line)
		switch {
		case strings.HasPrefix(line, "SUB-CLAIM"):
			flush()
			if i := strings.Index(line, ":"); i >= 0 {
				current = &model.SubClaim{
					Text:       strings.TrimSpace(line[i+1:]),
					Verifiable: true,
				}
			}

		case strings.HasPrefix(line, "ENTITIES:") && current != nil:
			for _, name := range strings.Split(line[len("ENTITIES:"):], ",") {
				name = strings.TrimSpace(name)
				if name != "" {
					current.Entities = append(current.Entities, model.Entity{
						Text:       name,
						Type:       "PROPER",
						Confidence: 0.8,
					})
				}
			}
		}
	}
	flush()

	return subClaims
}

// ruleBasedDeconstruct splits on coordinating conjunctions between
// clauses; a claim that does not split becomes its own sub-claim.
func (l *Logician) ruleBasedDeconstruct(claim *model.Claim) []model.SubClaim {
	text := strings.TrimSuffix(claim.Text, ".")

	var parts []string
	for _, sep := range []string{", and ", " and ", "; "} {
		if strings.Contains(text, sep) {
			parts = strings.Split(text, sep)
			break
		}
	}
	if len(parts) < 2 {
		parts = []string{text}
	}

	subClaims := make([]model.SubClaim, 0, len(parts))
	for _, part := range parts {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		subClaims = append(subClaims, model.SubClaim{
			Text:       part,
			Entities:   claim.Entities,
			Type:       claim.Type,
			Verifiable: true,
		})
	}

	if len(subClaims) == 0 {
		subClaims = []model.SubClaim{{
			Text:       claim.Text,
			Type:       claim.Type,
			Verifiable: true,
		}}
	}
	return subClaims
}
