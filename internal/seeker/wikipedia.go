package seeker

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"regexp"
	"strings"
	"time"

	"github.com/skepticlab/skeptic/internal/model"
)

const (
	defaultWikipediaBase = "https://en.wikipedia.org/api/rest_v1/page/summary/"
	wikipediaCredibility = 0.9
	maxTermsPerQuery     = 3
)

// WikipediaClient retrieves article summaries from the Wikipedia REST API
type WikipediaClient struct {
	httpClient *http.Client
	baseURL    string
	userAgent  string
}

// NewWikipediaClient creates a Wikipedia search backend
func NewWikipediaClient(timeout time.Duration, userAgent string) *WikipediaClient {
	if timeout == 0 {
		timeout = 30 * time.Second
	}
	return &WikipediaClient{
		httpClient: &http.Client{Timeout: timeout},
		baseURL:    defaultWikipediaBase,
		userAgent:  userAgent,
	}
}

// Kind reports the source kind this backend produces
func (c *WikipediaClient) Kind() model.SourceKind {
	return model.SourceKindWikipedia
}

type wikipediaSummary struct {
	Title       string `json:"title"`
	Extract     string `json:"extract"`
	ContentURLs struct {
		Desktop struct {
			Page string `json:"page"`
		} `json:"desktop"`
	} `json:"content_urls"`
}

// Search extracts candidate page titles from the query and fetches a
// summary for each. Missing pages are skipped, not errors.
func (c *WikipediaClient) Search(ctx context.Context, query string) ([]model.Source, error) {
	terms := searchTerms(query)
	if len(terms) > maxTermsPerQuery {
		terms = terms[:maxTermsPerQuery]
	}

	var sources []model.Source
	for _, term := range terms {
		summary, err := c.fetchSummary(ctx, term)
		if err != nil {
			if ctx.Err() != nil {
				return sources, ctx.Err()
			}
			continue
		}
		if summary.Title == "" || summary.Extract == "" {
			continue
		}

		sources = append(sources, model.Source{
			URL:              summary.ContentURLs.Desktop.Page,
			Title:            summary.Title,
			Content:          summary.Extract,
			Kind:             model.SourceKindWikipedia,
			CredibilityScore: wikipediaCredibility,
			RelevanceScore:   relevanceScore(query, summary.Extract),
		})
	}

	return sources, nil
}

func (c *WikipediaClient) fetchSummary(ctx context.Context, term string) (*wikipediaSummary, error) {
	url := c.baseURL + strings.ReplaceAll(term, " ", "_")

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("User-Agent", c.userAgent)
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch summary: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		io.Copy(io.Discard, resp.Body)
		return nil, fmt.Errorf("unexpected status: %d", resp.StatusCode)
	}

	var summary wikipediaSummary
	if err := json.NewDecoder(resp.Body).Decode(&summary); err != nil {
		return nil, fmt.Errorf("decode summary: %w", err)
	}
	return &summary, nil
}

var (
	multiWordNoun = regexp.MustCompile(`\b[A-Z][a-z]+(?:\s+[A-Z][a-z]+)+\b`)
	singleNoun    = regexp.MustCompile(`\b[A-Z][a-z]{2,}\b`)
	fullYear      = regexp.MustCompile(`\b(19[0-9][0-9]|20[0-9][0-9])\b`)
)

var skipTitleWords = map[string]bool{
	"The": true, "This": true, "That": true, "There": true, "Then": true,
	"They": true, "Their": true, "When": true, "Where": true, "What": true,
	"Who": true, "How": true,
}

var actionWords = map[string]bool{
	"fell": true, "founded": true, "born": true, "died": true,
	"became": true, "was": true, "were": true, "is": true, "are": true,
}

// searchTerms turns a sub-claim into candidate page titles, in
// priority order: multi-word proper nouns, then single proper nouns,
// then full four-digit years, then a combination of the top nouns.
func searchTerms(query string) []string {
	multiword := multiWordNoun.FindAllString(query, -1)

	var singles []string
	for _, noun := range singleNoun.FindAllString(query, -1) {
		if !skipTitleWords[noun] {
			singles = append(singles, noun)
		}
	}
	if len(singles) > 3 {
		singles = singles[:3]
	}

	years := fullYear.FindAllString(query, -1)

	terms := append([]string{}, multiword...)
	terms = append(terms, singles...)
	terms = append(terms, years...)
	if len(singles) >= 2 {
		terms = append(terms, singles[0]+"_"+singles[1])
	}

	seen := make(map[string]bool)
	var final []string
	for _, term := range terms {
		term = strings.TrimSpace(term)
		key := strings.ToLower(term)
		if len(term) < 2 || seen[key] {
			continue
		}
		seen[key] = true
		final = append(final, term)
	}

	// Fallback for queries with no proper nouns: keep the longer
	// content words, skipping verbs that never name a page.
	if len(final) == 0 {
		for _, word := range strings.Fields(query) {
			clean := strings.Trim(word, ".,;:!?\"'()")
			if len(clean) > 3 && !actionWords[strings.ToLower(clean)] {
				final = append(final, clean)
			}
			if len(final) == maxTermsPerQuery {
				break
			}
		}
	}

	if len(final) > 5 {
		final = final[:5]
	}
	return final
}
