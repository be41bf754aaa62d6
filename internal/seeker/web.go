package seeker

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"golang.org/x/net/html"

	"github.com/skepticlab/skeptic/internal/model"
	"github.com/skepticlab/skeptic/internal/util"
	"github.com/skepticlab/skeptic/internal/worker"
)

// Sources whose content is at least this long are not worth refetching.
const enrichContentThreshold = 400

// Enricher fetches the full page behind a source when the search
// backend only returned a snippet. Fetches honor robots.txt and a
// per-domain rate limit.
type Enricher struct {
	httpClient *http.Client
	robots     *util.RobotsChecker
	limiter    *worker.Limiter
	userAgent  string
	maxBytes   int64
}

// NewEnricher creates a page-content enricher
func NewEnricher(httpCfg model.HTTPConfig, requestsPerSecond float64) *Enricher {
	timeout := httpCfg.Timeout
	if timeout == 0 {
		timeout = 30 * time.Second
	}
	maxBytes := httpCfg.MaxBodyBytes
	if maxBytes <= 0 {
		maxBytes = 2_000_000
	}
	if requestsPerSecond <= 0 {
		requestsPerSecond = 2
	}

	return &Enricher{
		httpClient: &http.Client{
			Timeout: timeout,
			CheckRedirect: func(req *http.Request, via []*http.Request) error {
				if len(via) >= 3 {
					return fmt.Errorf("stopped after 3 redirects")
				}
				return nil
			},
		},
		robots:    util.NewRobotsChecker(httpCfg.UserAgent, timeout),
		limiter:   worker.NewLimiter(requestsPerSecond, 5),
		userAgent: httpCfg.UserAgent,
		maxBytes:  maxBytes,
	}
}

// Enrich replaces snippet-length content with extracted page text.
// Failures leave the snippet in place.
func (e *Enricher) Enrich(ctx context.Context, sources []model.Source) {
	for i := range sources {
		src := &sources[i]
		if src.URL == "" || len(src.Content) >= enrichContentThreshold {
			continue
		}

		text, err := e.fetchText(ctx, src.URL)
		if err != nil || text == "" {
			continue
		}

		src.Content = text
		if src.CredibilityScore == 0 {
			src.CredibilityScore = domainCredibility(src.URL)
		}
	}
}

func (e *Enricher) fetchText(ctx context.Context, rawURL string) (string, error) {
	allowed, crawlDelay, err := e.robots.CanFetch(ctx, rawURL)
	if err != nil {
		return "", err
	}
	if !allowed {
		return "", fmt.Errorf("disallowed by robots.txt: %s", rawURL)
	}

	if err := e.limiter.Wait(ctx, rawURL, crawlDelay); err != nil {
		return "", err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return "", fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("User-Agent", e.userAgent)
	req.Header.Set("Accept", "text/html,application/xhtml+xml,application/xml;q=0.9,*/*;q=0.8")

	resp, err := e.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("fetch: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return "", fmt.Errorf("unexpected status: %d", resp.StatusCode)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, e.maxBytes))
	if err != nil {
		return "", fmt.Errorf("read body: %w", err)
	}

	return extractPageText(string(body))
}

// extractPageText pulls visible text out of an HTML document,
// skipping script, style and similar non-content elements.
func extractPageText(htmlContent string) (string, error) {
	doc, err := html.Parse(strings.NewReader(htmlContent))
	if err != nil {
		return "", err
	}

	var buf strings.Builder
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode {
			switch n.Data {
			case "script", "style", "noscript", "iframe", "nav", "footer":
				return
			}
		}
		if n.Type == html.TextNode {
			text := strings.TrimSpace(n.Data)
			if text != "" {
				buf.WriteString(text)
				buf.WriteString(" ")
			}
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(doc)

	return strings.TrimSpace(buf.String()), nil
}

var highCredibilityDomains = []string{"wikipedia.org", "britannica.com", ".gov", ".edu"}

var mediumCredibilityDomains = []string{"bbc.com", "reuters.com", "ap.org"}

// domainCredibility scores a URL by its domain
func domainCredibility(rawURL string) float64 {
	if rawURL == "" {
		return 0.5
	}
	lower := strings.ToLower(rawURL)
	for _, domain := range highCredibilityDomains {
		if strings.Contains(lower, domain) {
			return 0.9
		}
	}
	for _, domain := range mediumCredibilityDomains {
		if strings.Contains(lower, domain) {
			return 0.8
		}
	}
	return 0.5
}
