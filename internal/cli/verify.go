package cli

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/skepticlab/skeptic/internal/model"
	"github.com/skepticlab/skeptic/internal/pipeline"
)

var (
	outJSON       string
	outMD         string
	verifyTimeout time.Duration
	noCache       bool
	noFooter      bool
	ensemble      bool
	webSearch     bool
	agentProvider []string
)

// verifyCmd represents the verify command
var verifyCmd = &cobra.Command{
	Use:   "verify <claim>",
	Short: "Verify a single factual claim",
	Long: `Verify runs one claim through the full pipeline:
- Validate and normalize the input
- Classify the claim and extract entities
- Deconstruct it into verifiable sub-claims
- Gather evidence from Wikipedia and news sources
- Synthesize a verdict with a calibrated confidence score

Example:
  skeptic verify "The Berlin Wall fell in 1989."
  skeptic verify "Apple was founded in 1976." --json result.json
  skeptic verify "The Eiffel Tower is in Paris." --ensemble`,
	Args: cobra.ExactArgs(1),
	RunE: runVerify,
}

func init() {
	rootCmd.AddCommand(verifyCmd)

	verifyCmd.Flags().StringVar(&outJSON, "json", "", "output JSON path (optional)")
	verifyCmd.Flags().StringVar(&outMD, "md", "", "output Markdown path (optional)")
	verifyCmd.Flags().DurationVar(&verifyTimeout, "timeout", 5*time.Minute, "overall verification timeout")
	verifyCmd.Flags().BoolVar(&noCache, "no-cache", false, "disable search cache (force fresh retrieval)")
	verifyCmd.Flags().BoolVar(&noFooter, "no-footer", false, "disable footer in Markdown reports")
	verifyCmd.Flags().BoolVar(&ensemble, "ensemble", false, "analyze evidence with a multi-provider ensemble")
	verifyCmd.Flags().BoolVar(&webSearch, "web-search", false, "fetch full page content for snippet-only sources")
	verifyCmd.Flags().StringSliceVar(&agentProvider, "agent-provider", nil, "agent to backend mapping, e.g. oracle=claude (repeatable)")
}

func runVerify(cmd *cobra.Command, args []string) error {
	claimText := args[0]
	ctx, cancel := context.WithTimeout(context.Background(), verifyTimeout)
	defer cancel()

	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	applyVerifyFlags(cfg)

	if verbose {
		fmt.Fprintf(os.Stderr, "Verifying: %s\n", claimText)
		fmt.Fprintf(os.Stderr, "Timeout: %v\n", verifyTimeout)
		fmt.Fprintf(os.Stderr, "Cache: %v\n", cfg.Cache.Enabled)
		fmt.Fprintln(os.Stderr)
	}

	p := pipeline.NewPipeline(ctx, cfg)
	result := p.Verify(ctx, claimText)

	renderer := p.Renderer()
	renderer.RenderText(os.Stdout, result, cfg.Output.Verbose)

	if outJSON != "" {
		if err := renderer.RenderJSON([]model.VerificationResult{result}, outJSON); err != nil {
			return fmt.Errorf("render JSON: %w", err)
		}
		if verbose {
			fmt.Fprintf(os.Stderr, "Wrote JSON: %s\n", outJSON)
		}
	}
	if outMD != "" {
		if err := renderer.RenderMarkdown([]model.VerificationResult{result}, outMD); err != nil {
			return fmt.Errorf("render markdown: %w", err)
		}
		if verbose {
			fmt.Fprintf(os.Stderr, "Wrote Markdown: %s\n", outMD)
		}
	}

	if result.Verdict == model.VerdictError {
		return fmt.Errorf("verification failed: %s", result.ErrorMessage)
	}
	return nil
}

// applyVerifyFlags layers command flags over the loaded configuration
func applyVerifyFlags(cfg *model.Config) {
	cfg.Cache.Enabled = cfg.Cache.Enabled && !noCache
	cfg.Output.IncludeFooter = cfg.Output.IncludeFooter && !noFooter
	if ensemble {
		cfg.LLM.EnsembleEnabled = true
	}
	if webSearch {
		cfg.Search.WebSearchEnabled = true
	}

	for _, mapping := range agentProvider {
		agent, backend, ok := splitMapping(mapping)
		if !ok {
			fmt.Fprintf(os.Stderr, "Warning: ignoring malformed --agent-provider %q (want agent=backend)\n", mapping)
			continue
		}
		if cfg.LLM.AgentProviders == nil {
			cfg.LLM.AgentProviders = make(map[string]string)
		}
		cfg.LLM.AgentProviders[agent] = backend
	}
}

func splitMapping(mapping string) (agent, backend string, ok bool) {
	for i, r := range mapping {
		if r == '=' {
			agent, backend = mapping[:i], mapping[i+1:]
			return agent, backend, agent != "" && backend != ""
		}
	}
	return "", "", false
}
