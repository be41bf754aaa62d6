// Package agents holds the upstream pipeline collaborators: input
// cleaning (herald), topic classification (illuminator), and claim
// deconstruction (logician).
package agents

import (
	"regexp"
	"strings"
	"unicode"

	"github.com/skepticlab/skeptic/internal/model"
)

// Herald validates and normalizes raw claim text
type Herald struct {
	minLength int
	maxLength int
}

// NewHerald creates a herald with the configured length bounds
func NewHerald(cfg model.AgentsConfig) *Herald {
	minLen := cfg.MinClaimLength
	if minLen <= 0 {
		minLen = 10
	}
	maxLen := cfg.MaxClaimLength
	if maxLen <= 0 {
		maxLen = 1000
	}
	return &Herald{minLength: minLen, maxLength: maxLen}
}

var (
	whitespaceRun = regexp.MustCompile(`\s+`)
	curlyQuotes   = regexp.MustCompile("[“”‘’„‚]")
	longDashes    = regexp.MustCompile("[–—]")
	nonAlpha      = regexp.MustCompile(`[^a-zA-Z]`)
)

// Process turns raw input into a clean Claim. Returns false when the
// input fails validation.
func (h *Herald) Process(raw string) (*model.Claim, bool) {
	if !h.validate(raw) {
		return nil, false
	}
	return model.NewClaim(h.clean(raw)), true
}

func (h *Herald) validate(text string) bool {
	trimmed := strings.TrimSpace(text)
	if len(trimmed) < h.minLength || len(text) > h.maxLength {
		return false
	}
	// Require at least a few letters; symbols and digits alone carry
	// no verifiable content.
	return len(nonAlpha.ReplaceAllString(text, "")) >= 3
}

func (h *Herald) clean(text string) string {
	cleaned := whitespaceRun.ReplaceAllString(strings.TrimSpace(text), " ")
	cleaned = curlyQuotes.ReplaceAllString(cleaned, `"`)
	cleaned = longDashes.ReplaceAllString(cleaned, "-")

	var b strings.Builder
	for _, r := range cleaned {
		if unicode.IsPrint(r) || unicode.IsSpace(r) {
			b.WriteRune(r)
		}
	}
	cleaned = b.String()

	if !strings.HasSuffix(cleaned, ".") && !strings.HasSuffix(cleaned, "!") && !strings.HasSuffix(cleaned, "?") {
		cleaned += "."
	}
	return cleaned
}
