package seeker

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/skepticlab/skeptic/internal/model"
)

const (
	defaultNewsAPIBase = "https://newsapi.org/v2/everything"
	newsPageSize       = 5
)

// NewsClient retrieves recent articles from NewsAPI
type NewsClient struct {
	httpClient *http.Client
	baseURL    string
	apiKey     string
	userAgent  string
}

// NewNewsClient creates a NewsAPI search backend
func NewNewsClient(apiKey string, timeout time.Duration, userAgent string) *NewsClient {
	if timeout == 0 {
		timeout = 30 * time.Second
	}
	return &NewsClient{
		httpClient: &http.Client{Timeout: timeout},
		baseURL:    defaultNewsAPIBase,
		apiKey:     apiKey,
		userAgent:  userAgent,
	}
}

// Kind reports the source kind this backend produces
func (c *NewsClient) Kind() model.SourceKind {
	return model.SourceKindNews
}

type newsResponse struct {
	Status   string `json:"status"`
	Message  string `json:"message"`
	Articles []struct {
		Source struct {
			Name string `json:"name"`
		} `json:"source"`
		Title       string `json:"title"`
		Description string `json:"description"`
		Content     string `json:"content"`
		URL         string `json:"url"`
		PublishedAt string `json:"publishedAt"`
	} `json:"articles"`
}

// Search queries NewsAPI's everything endpoint, sorted by relevancy
func (c *NewsClient) Search(ctx context.Context, query string) ([]model.Source, error) {
	params := url.Values{
		"q":        {query},
		"apiKey":   {c.apiKey},
		"sortBy":   {"relevancy"},
		"pageSize": {fmt.Sprint(newsPageSize)},
		"language": {"en"},
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"?"+params.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("User-Agent", c.userAgent)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("news search: %w", err)
	}
	defer resp.Body.Close()

	var decoded newsResponse
	if err := json.NewDecoder(resp.Body).Decode(&decoded); err != nil {
		return nil, fmt.Errorf("decode news response: %w", err)
	}

	if resp.StatusCode != http.StatusOK || decoded.Status != "ok" {
		return nil, fmt.Errorf("news API error (status %d): %s", resp.StatusCode, decoded.Message)
	}

	var sources []model.Source
	for _, article := range decoded.Articles {
		if article.URL == "" {
			continue
		}
		content := strings.TrimSpace(article.Description + " " + article.Content)
		sources = append(sources, model.Source{
			URL:              article.URL,
			Title:            article.Title,
			Content:          content,
			Kind:             model.SourceKindNews,
			CredibilityScore: outletCredibility(article.Source.Name),
			RelevanceScore:   relevanceScore(query, article.Description),
			PublishedAt:      parsePublishedAt(article.PublishedAt),
		})
	}

	return sources, nil
}

var highCredibilityOutlets = []string{"reuters", "associated press", "bbc", "npr", "pbs"}

var mediumCredibilityOutlets = []string{
	"cnn", "fox news", "msnbc", "wall street journal", "new york times",
}

// outletCredibility scores a news outlet by name
func outletCredibility(name string) float64 {
	lower := strings.ToLower(name)
	for _, outlet := range highCredibilityOutlets {
		if strings.Contains(lower, outlet) {
			return 0.9
		}
	}
	for _, outlet := range mediumCredibilityOutlets {
		if strings.Contains(lower, outlet) {
			return 0.7
		}
	}
	return 0.5
}

func parsePublishedAt(value string) *time.Time {
	if value == "" {
		return nil
	}
	t, err := time.Parse(time.RFC3339, value)
	if err != nil {
		return nil
	}
	return &t
}
