package model

import (
	"fmt"
	"time"
)

// ClaimType categorizes the nature of a claim
type ClaimType string

const (
	ClaimTypeHistoricalDate   ClaimType = "historical_date"   // Claims anchored to a specific date
	ClaimTypeBiographicalFact ClaimType = "biographical_fact" // Claims about a person's life
	ClaimTypeCorporateFact    ClaimType = "corporate_fact"    // Claims about companies/organizations
	ClaimTypeNewsEvent        ClaimType = "news_event"        // Claims about recent events
	ClaimTypeUnknown          ClaimType = "unknown"           // Not yet classified
)

// Entity represents a named entity extracted from claim text
type Entity struct {
	Text       string  `json:"text"`                 // The entity surface form
	Type       string  `json:"type"`                 // PERSON, ORG, DATE, GPE, etc.
	Start      int     `json:"start"`                // Byte offset in claim text
	End        int     `json:"end"`                  // Byte offset past the entity
	Confidence float64 `json:"confidence,omitempty"` // Extraction confidence
}

// SubClaim is an atomic, independently-verifiable assertion derived
// from a Claim. Created once by deconstruction, read-only afterward.
type SubClaim struct {
	Text       string    `json:"text"`
	Entities   []Entity  `json:"entities,omitempty"`
	Type       ClaimType `json:"type,omitempty"`
	Verifiable bool      `json:"verifiable"`
}

// Claim is the user-submitted factual statement under verification.
// The text is immutable; derived fields are filled in by successive
// pipeline stages and never removed mid-run.
type Claim struct {
	Text      string     `json:"text"`
	ID        string     `json:"id"`
	Type      ClaimType  `json:"type"`
	Entities  []Entity   `json:"entities,omitempty"`
	SubClaims []SubClaim `json:"sub_claims,omitempty"`
	Sources   []Source   `json:"sources,omitempty"`
	CreatedAt time.Time  `json:"created_at"`
}

// NewClaim creates a claim with a timestamp-derived ID
func NewClaim(text string) *Claim {
	now := time.Now().UTC()
	return &Claim{
		Text:      text,
		ID:        fmt.Sprintf("%d", now.UnixNano()),
		Type:      ClaimTypeUnknown,
		CreatedAt: now,
	}
}
