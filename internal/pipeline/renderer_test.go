package pipeline

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/skepticlab/skeptic/internal/model"
)

func sampleResult() model.VerificationResult {
	return model.VerificationResult{
		Claim:           "The Berlin Wall fell in 1989.",
		Verdict:         model.VerdictSupported,
		Confidence:      0.85,
		EvidenceSummary: "Analyzed 2 sources: 2 supporting, 0 contradicting.",
		Sources: []model.Source{
			{
				URL:              "https://en.wikipedia.org/wiki/Berlin_Wall",
				Title:            "Berlin Wall",
				CredibilityScore: 0.9,
			},
		},
		ProcessingTime: 1500 * time.Millisecond,
		Timestamp:      time.Date(2024, 3, 15, 10, 30, 0, 0, time.UTC),
	}
}

func TestRenderJSON(t *testing.T) {
	path := filepath.Join(t.TempDir(), "results.json")
	r := NewRenderer(false, 0)

	if err := r.RenderJSON([]model.VerificationResult{sampleResult()}, path); err != nil {
		t.Fatalf("render failed: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}

	var records []map[string]any
	if err := json.Unmarshal(data, &records); err != nil {
		t.Fatalf("output is not valid JSON: %v", err)
	}
	if len(records) != 1 {
		t.Fatalf("expected 1 record, got %d", len(records))
	}

	rec := records[0]
	if rec["claim"] != "The Berlin Wall fell in 1989." {
		t.Errorf("claim = %v", rec["claim"])
	}
	if rec["verdict"] != "SUPPORTED" {
		t.Errorf("verdict = %v", rec["verdict"])
	}
	if rec["processing_time"] != 1.5 {
		t.Errorf("processing_time = %v, want 1.5", rec["processing_time"])
	}
	if rec["timestamp"] != "2024-03-15T10:30:00Z" {
		t.Errorf("timestamp = %v", rec["timestamp"])
	}
	if _, hasError := rec["error"]; hasError {
		t.Error("error field should be omitted when empty")
	}
}

func TestRenderMarkdown(t *testing.T) {
	path := filepath.Join(t.TempDir(), "report.md")
	r := NewRenderer(true, 0)

	if err := r.RenderMarkdown([]model.VerificationResult{sampleResult()}, path); err != nil {
		t.Fatalf("render failed: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	md := string(data)

	for _, want := range []string{
		"## The Berlin Wall fell in 1989.",
		"**Verdict:** SUPPORTED",
		"[Berlin Wall](https://en.wikipedia.org/wiki/Berlin_Wall)",
		"Generated by skeptic",
	} {
		if !strings.Contains(md, want) {
			t.Errorf("markdown missing %q", want)
		}
	}
}

func TestRenderMarkdown_NoFooter(t *testing.T) {
	path := filepath.Join(t.TempDir(), "report.md")
	r := NewRenderer(false, 0)

	if err := r.RenderMarkdown([]model.VerificationResult{sampleResult()}, path); err != nil {
		t.Fatalf("render failed: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if strings.Contains(string(data), "Generated by skeptic") {
		t.Error("footer rendered when disabled")
	}
}

func TestRenderText(t *testing.T) {
	var buf bytes.Buffer
	r := NewRenderer(false, 0)

	r.RenderText(&buf, sampleResult(), true)
	out := buf.String()

	for _, want := range []string{
		"Verdict:    SUPPORTED",
		"Confidence: 0.85",
		"Sources (1):",
		"Processed in 1.50s",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("text output missing %q:\n%s", want, out)
		}
	}
	if strings.Contains(out, "Error:") {
		t.Error("error line rendered for a clean result")
	}
}

func TestRenderText_Error(t *testing.T) {
	var buf bytes.Buffer
	r := NewRenderer(false, 0)

	result := sampleResult()
	result.Verdict = model.VerdictError
	result.ErrorMessage = "input rejected as invalid"
	r.RenderText(&buf, result, false)

	if !strings.Contains(buf.String(), "Error: input rejected as invalid") {
		t.Errorf("text output missing error line:\n%s", buf.String())
	}
}

func TestRenderText_LowConfidenceNote(t *testing.T) {
	var buf bytes.Buffer
	r := NewRenderer(false, 0.7)

	result := sampleResult()
	result.Confidence = 0.55
	r.RenderText(&buf, result, false)

	if !strings.Contains(buf.String(), "below the 0.70 threshold") {
		t.Errorf("expected a low-confidence note:\n%s", buf.String())
	}

	buf.Reset()
	result.Confidence = 0.85
	r.RenderText(&buf, result, false)
	if strings.Contains(buf.String(), "threshold") {
		t.Error("no note expected at or above the threshold")
	}
}

func TestRenderText_NoNoteForIndecisiveVerdict(t *testing.T) {
	var buf bytes.Buffer
	r := NewRenderer(false, 0.7)

	result := sampleResult()
	result.Verdict = model.VerdictInsufficientEvidence
	result.Confidence = 0.1
	r.RenderText(&buf, result, false)

	if strings.Contains(buf.String(), "threshold") {
		t.Error("the threshold only qualifies definitive verdicts")
	}
}

func TestRenderMarkdown_LowConfidenceNote(t *testing.T) {
	path := filepath.Join(t.TempDir(), "report.md")
	r := NewRenderer(false, 0.7)

	result := sampleResult()
	result.Confidence = 0.55
	if err := r.RenderMarkdown([]model.VerificationResult{result}, path); err != nil {
		t.Fatalf("render failed: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(data), "below the 0.70 confidence threshold") {
		t.Error("markdown missing the low-confidence qualifier")
	}
}
