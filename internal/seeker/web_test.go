package seeker

import (
	"strings"
	"testing"
)

func TestExtractPageText(t *testing.T) {
	page := `<html><head>
		<script>var x = "hidden";</script>
		<style>body { color: red }</style>
	</head><body>
		<nav>Home About Contact</nav>
		<h1>Article Title</h1>
		<p>First paragraph of content.</p>
		<footer>Copyright notice</footer>
	</body></html>`

	text, err := extractPageText(page)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	for _, want := range []string{"Article Title", "First paragraph of content."} {
		if !strings.Contains(text, want) {
			t.Errorf("extracted text missing %q: %s", want, text)
		}
	}
	for _, skip := range []string{"hidden", "color: red", "Home About", "Copyright"} {
		if strings.Contains(text, skip) {
			t.Errorf("extracted text should not contain %q: %s", skip, text)
		}
	}
}

func TestDomainCredibility(t *testing.T) {
	cases := []struct {
		url  string
		want float64
	}{
		{"https://en.wikipedia.org/wiki/Topic", 0.9},
		{"https://www.britannica.com/topic", 0.9},
		{"https://www.usa.gov/page", 0.9},
		{"https://www.bbc.com/news/story", 0.8},
		{"https://www.reuters.com/article", 0.8},
		{"https://random-blog.example/post", 0.5},
		{"", 0.5},
	}
	for _, tc := range cases {
		if got := domainCredibility(tc.url); got != tc.want {
			t.Errorf("domainCredibility(%q) = %f, want %f", tc.url, got, tc.want)
		}
	}
}
