package worker

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/skepticlab/skeptic/internal/model"
)

// mockVerifier implements Verifier
type mockVerifier struct {
	shouldError bool
}

func (m *mockVerifier) Verify(ctx context.Context, claimText string) model.VerificationResult {
	time.Sleep(10 * time.Millisecond) // Simulate work
	if m.shouldError {
		return model.VerificationResult{
			Claim:        claimText,
			Verdict:      model.VerdictError,
			ErrorMessage: "verification failed",
		}
	}
	return model.VerificationResult{
		Claim:      claimText,
		Verdict:    model.VerdictSupported,
		Confidence: 0.8,
	}
}

func TestBatchProcessor_ProcessClaims(t *testing.T) {
	processor := NewBatchProcessor(&mockVerifier{}, 2, 0)

	claims := []string{
		"The Berlin Wall fell in 1989.",
		"Apple was founded in 1976.",
		"The Eiffel Tower is in Paris.",
	}

	results := processor.ProcessClaims(context.Background(), claims)

	if len(results) != 3 {
		t.Fatalf("expected 3 results, got %d", len(results))
	}

	for _, res := range results {
		if err := res.GetError(); err != nil {
			t.Errorf("unexpected error for %q: %v", res.Result.Claim, err)
		}
		if res.Result.Verdict != model.VerdictSupported {
			t.Errorf("expected SUPPORTED, got %s", res.Result.Verdict)
		}
	}
}

func TestBatchProcessor_ProcessClaims_Error(t *testing.T) {
	processor := NewBatchProcessor(&mockVerifier{shouldError: true}, 2, 0)

	results := processor.ProcessClaims(context.Background(), []string{"some claim"})

	if len(results) != 1 {
		t.Fatalf("expected 1 result, got %d", len(results))
	}
	if results[0].GetError() == nil {
		t.Error("expected error, got nil")
	}
	if results[0].Result.Verdict != model.VerdictError {
		t.Errorf("expected ERROR verdict, got %s", results[0].Result.Verdict)
	}
}

func TestBatchProcessor_ProcessClaims_Empty(t *testing.T) {
	processor := NewBatchProcessor(&mockVerifier{}, 2, 0)

	results := processor.ProcessClaims(context.Background(), []string{})
	if len(results) != 0 {
		t.Errorf("expected 0 results, got %d", len(results))
	}
}

func TestReadClaimsFromFile(t *testing.T) {
	content := `The Berlin Wall fell in 1989.
# comment line
Apple was founded in 1976.

The Berlin Wall fell in 1989.
`

	tmpfile, err := os.CreateTemp("", "claims")
	if err != nil {
		t.Fatal(err)
	}
	defer os.Remove(tmpfile.Name())

	if _, err := tmpfile.WriteString(content); err != nil {
		t.Fatal(err)
	}
	tmpfile.Close()

	claims, err := ReadClaimsFromFile(tmpfile.Name())
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	// Comments, blanks and the duplicate line are dropped
	if len(claims) != 2 {
		t.Fatalf("expected 2 claims, got %d: %v", len(claims), claims)
	}
	if claims[0] != "The Berlin Wall fell in 1989." {
		t.Errorf("unexpected first claim: %q", claims[0])
	}
}

func TestReadClaimsFromFile_Missing(t *testing.T) {
	if _, err := ReadClaimsFromFile("/nonexistent/claims.txt"); err == nil {
		t.Error("expected error for missing file")
	}
}
