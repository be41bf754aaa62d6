package model

import "time"

// SourceKind classifies where a source was discovered
type SourceKind string

const (
	SourceKindWikipedia SourceKind = "wikipedia"
	SourceKindNews      SourceKind = "news"
	SourceKindWeb       SourceKind = "web"
)

// Source is an evidence document retrieved for a claim.
// Immutable once discovered; the credibility score is assigned at
// discovery time from static per-domain tables.
type Source struct {
	URL              string     `json:"url"`
	Title            string     `json:"title"`
	Content          string     `json:"content,omitempty"`
	Kind             SourceKind `json:"kind"`
	CredibilityScore float64    `json:"credibility_score"` // [0,1]
	RelevanceScore   float64    `json:"relevance_score"`   // [0,1]
	PublishedAt      *time.Time `json:"published_at,omitempty"`
}
