package model

import "time"

// Verdict is the final categorical outcome of verification
type Verdict string

const (
	VerdictSupported            Verdict = "SUPPORTED"
	VerdictContradicted         Verdict = "CONTRADICTED"
	VerdictInsufficientEvidence Verdict = "INSUFFICIENT_EVIDENCE"
	VerdictError                Verdict = "ERROR"
)

// VerificationResult is the terminal output for one claim.
// Created once per claim; an ERROR verdict with a populated
// ErrorMessage is the only failure signal callers ever see.
type VerificationResult struct {
	Claim           string        `json:"claim"`
	Verdict         Verdict       `json:"verdict"`
	Confidence      float64       `json:"confidence"` // [0,1], always 0 on ERROR
	EvidenceSummary string        `json:"evidence_summary"`
	Sources         []Source      `json:"sources"`
	ProcessingTime  time.Duration `json:"processing_time"`
	Timestamp       time.Time     `json:"timestamp"`
	ErrorMessage    string        `json:"error_message,omitempty"`
}
