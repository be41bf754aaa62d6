package cli

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/skepticlab/skeptic/internal/model"
	"github.com/skepticlab/skeptic/internal/pipeline"
	"github.com/skepticlab/skeptic/internal/worker"
)

var (
	concurrency  int
	batchOutput  string
	batchMD      string
	batchTimeout time.Duration
)

// batchCmd represents the batch command
var batchCmd = &cobra.Command{
	Use:   "batch <file>",
	Short: "Verify multiple claims from a file in parallel",
	Long: `Batch verifies multiple claims concurrently:
- Read claims from the input file (one per line, # starts a comment)
- Verify claims in parallel with a configurable worker count
- Write all results to a single JSON report

Example:
  skeptic batch claims.txt
  skeptic batch claims.txt --workers 5 --json results.json
  skeptic batch claims.txt --timeout 1h`,
	Args: cobra.ExactArgs(1),
	RunE: runBatch,
}

func init() {
	rootCmd.AddCommand(batchCmd)

	batchCmd.Flags().IntVar(&concurrency, "workers", 3, "number of concurrent workers")
	batchCmd.Flags().StringVar(&batchOutput, "json", "results.json", "output JSON path")
	batchCmd.Flags().StringVar(&batchMD, "md", "", "output Markdown path (optional)")
	batchCmd.Flags().DurationVar(&batchTimeout, "timeout", 30*time.Minute, "total timeout for batch processing")
	batchCmd.Flags().BoolVar(&noCache, "no-cache", false, "disable search cache (force fresh retrieval)")
	batchCmd.Flags().BoolVar(&ensemble, "ensemble", false, "analyze evidence with a multi-provider ensemble")
	batchCmd.Flags().BoolVar(&webSearch, "web-search", false, "fetch full page content for snippet-only sources")
}

// resolveWorkers decides the batch worker count. An explicit --workers
// flag wins; otherwise parallel processing must be enabled in the
// configuration for the configured worker count to apply.
func resolveWorkers(pc model.ProcessingConfig, workersFlagSet bool, flagWorkers int) int {
	if workersFlagSet && flagWorkers > 0 {
		return flagWorkers
	}
	if !pc.ParallelEnabled {
		return 1
	}
	if pc.Workers > 0 {
		return pc.Workers
	}
	return 1
}

func runBatch(cmd *cobra.Command, args []string) error {
	file := args[0]
	ctx := context.Background()

	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	applyVerifyFlags(cfg)
	cfg.Processing.Workers = resolveWorkers(cfg.Processing, cmd.Flags().Changed("workers"), concurrency)
	if batchTimeout > 0 {
		cfg.Processing.BatchTimeout = batchTimeout
	}

	claims, err := worker.ReadClaimsFromFile(file)
	if err != nil {
		return err
	}
	if len(claims) == 0 {
		return fmt.Errorf("no claims found in %s", file)
	}

	fmt.Fprintf(os.Stderr, "Verifying %d claim(s) with %d worker(s)\n\n", len(claims), cfg.Processing.Workers)

	p := pipeline.NewPipeline(ctx, cfg)
	processor := worker.NewBatchProcessor(p, cfg.Processing.Workers, cfg.Processing.BatchTimeout)

	start := time.Now()
	verifyResults := processor.ProcessClaims(ctx, claims)
	totalTime := time.Since(start)

	results := make([]model.VerificationResult, 0, len(verifyResults))
	errored := 0
	var processed time.Duration
	for _, vr := range verifyResults {
		results = append(results, vr.Result)
		if vr.GetError() != nil {
			errored++
		} else {
			processed += vr.Result.ProcessingTime
		}
	}

	renderer := p.Renderer()
	if err := renderer.RenderJSON(results, batchOutput); err != nil {
		return fmt.Errorf("render JSON: %w", err)
	}
	if batchMD != "" {
		if err := renderer.RenderMarkdown(results, batchMD); err != nil {
			return fmt.Errorf("render markdown: %w", err)
		}
	}

	succeeded := len(results) - errored
	avg := time.Duration(0)
	if succeeded > 0 {
		avg = processed / time.Duration(succeeded)
	}

	fmt.Fprintf(os.Stderr, "\n=== PROCESSING SUMMARY ===\n")
	fmt.Fprintf(os.Stderr, "Total claims processed:  %d\n", len(results))
	fmt.Fprintf(os.Stderr, "Successfully processed:  %d\n", succeeded)
	fmt.Fprintf(os.Stderr, "Errors:                  %d\n", errored)
	fmt.Fprintf(os.Stderr, "Average processing time: %.2fs\n", avg.Seconds())
	fmt.Fprintf(os.Stderr, "Total time:              %.2fs\n", totalTime.Seconds())
	fmt.Fprintf(os.Stderr, "Results saved to:        %s\n", batchOutput)

	return nil
}
