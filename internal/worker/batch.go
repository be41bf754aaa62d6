package worker

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/skepticlab/skeptic/internal/model"
)

// Verifier defines the interface for verifying a single claim
type Verifier interface {
	Verify(ctx context.Context, claimText string) model.VerificationResult
}

// VerifyJob represents one claim verification job. The job carries
// the batch deadline context because the pool's internal context only
// governs shutdown.
type VerifyJob struct {
	ClaimText string
	Verifier  Verifier
	ctx       context.Context
}

// Execute runs the verification
func (j *VerifyJob) Execute(ctx context.Context) Result {
	if j.ctx != nil {
		ctx = j.ctx
	}
	result := j.Verifier.Verify(ctx, j.ClaimText)
	return &VerifyResult{Result: result}
}

// VerifyResult wraps a verification result for the pool
type VerifyResult struct {
	Result model.VerificationResult
}

// GetError reports a failed verification. A claim that resolved to a
// verdict, even INSUFFICIENT_EVIDENCE, is not an error.
func (r *VerifyResult) GetError() error {
	if r.Result.Verdict == model.VerdictError && r.Result.ErrorMessage != "" {
		return fmt.Errorf("%s", r.Result.ErrorMessage)
	}
	return nil
}

// BatchProcessor verifies multiple claims concurrently
type BatchProcessor struct {
	verifier    Verifier
	concurrency int
	timeout     time.Duration
}

// NewBatchProcessor creates a new batch processor. A zero timeout
// means the batch runs until done.
func NewBatchProcessor(verifier Verifier, concurrency int, timeout time.Duration) *BatchProcessor {
	return &BatchProcessor{
		verifier:    verifier,
		concurrency: concurrency,
		timeout:     timeout,
	}
}

// ProcessClaims verifies claims concurrently and returns one result
// per claim. Ordering follows completion, not submission.
func (b *BatchProcessor) ProcessClaims(ctx context.Context, claims []string) []*VerifyResult {
	if len(claims) == 0 {
		return []*VerifyResult{}
	}

	if b.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, b.timeout)
		defer cancel()
	}

	pool := NewPool(b.concurrency)
	pool.Start()

	for _, claim := range claims {
		pool.Submit(&VerifyJob{
			ClaimText: claim,
			Verifier:  b.verifier,
			ctx:       ctx,
		})
	}

	results := pool.Wait()

	verifyResults := make([]*VerifyResult, len(results))
	for i, result := range results {
		verifyResults[i] = result.(*VerifyResult)
	}

	return verifyResults
}

// ProcessFile reads claims from a file and verifies them concurrently
func (b *BatchProcessor) ProcessFile(ctx context.Context, filePath string) ([]*VerifyResult, error) {
	claims, err := ReadClaimsFromFile(filePath)
	if err != nil {
		return nil, fmt.Errorf("read claims: %w", err)
	}

	return b.ProcessClaims(ctx, claims), nil
}

// ReadClaimsFromFile reads claims from a file (one per line)
func ReadClaimsFromFile(filePath string) ([]string, error) {
	file, err := os.Open(filePath)
	if err != nil {
		return nil, fmt.Errorf("open file: %w", err)
	}
	defer func() { _ = file.Close() }()

	var claims []string
	seen := make(map[string]bool)

	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())

		// Skip empty lines and comments
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		if !seen[line] {
			seen[line] = true
			claims = append(claims, line)
		}
	}

	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("scan file: %w", err)
	}

	return claims, nil
}
