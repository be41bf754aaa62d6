// Package pipeline wires the verification agents into a single
// claim-to-verdict flow: herald (input validation), illuminator
// (classification), logician (deconstruction), seeker (evidence
// retrieval) and oracle (synthesis).
package pipeline

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/skepticlab/skeptic/internal/agents"
	"github.com/skepticlab/skeptic/internal/cache"
	"github.com/skepticlab/skeptic/internal/llm"
	"github.com/skepticlab/skeptic/internal/model"
	"github.com/skepticlab/skeptic/internal/oracle"
	"github.com/skepticlab/skeptic/internal/seeker"
)

// Pipeline orchestrates the complete verification process
type Pipeline struct {
	herald      *agents.Herald
	illuminator *agents.Illuminator
	logician    *agents.Logician
	seeker      *seeker.Seeker
	oracle      *oracle.Oracle
	manager     *llm.Manager
	renderer    *Renderer
	config      *model.Config
}

// NewPipeline creates a pipeline from configuration. Backends that
// fail to initialize are skipped with a warning; the pipeline always
// comes up, degrading to heuristic analysis when no provider works.
func NewPipeline(ctx context.Context, cfg *model.Config) *Pipeline {
	manager := llm.NewManager(ctx, cfg.LLM)
	if !manager.HasProviders() {
		fmt.Fprintln(os.Stderr, "Warning: no LLM providers available, using heuristic analysis")
	}

	var store cache.Cache
	if cfg.Cache.Enabled {
		store = cache.NewLayeredCache(cfg.Cache.TTL, resolveCacheDir(cfg.Cache.Dir), cfg.Cache.TTL)
	}

	return &Pipeline{
		herald:      agents.NewHerald(cfg.Agents),
		illuminator: agents.NewIlluminator(),
		logician:    agents.NewLogician(manager, cfg.Agents),
		seeker:      seeker.New(cfg.Search, cfg.HTTP, store, cfg.Cache.TTL, cfg.Output.Verbose),
		oracle:      oracle.New(manager, cfg.LLM.EnsembleEnabled, cfg.Output.Verbose),
		manager:     manager,
		renderer:    NewRenderer(cfg.Output.IncludeFooter, cfg.Processing.ConfidenceThreshold),
		config:      cfg,
	}
}

// Manager exposes the provider registry for introspection commands
func (p *Pipeline) Manager() *llm.Manager {
	return p.manager
}

// Renderer exposes the output renderer configured for this pipeline
func (p *Pipeline) Renderer() *Renderer {
	return p.renderer
}

// Verify runs one claim through every stage and always returns a
// result: stage failures map to an ERROR verdict, not a panic or a
// lost claim.
func (p *Pipeline) Verify(ctx context.Context, claimText string) model.VerificationResult {
	start := time.Now()

	claim, ok := p.herald.Process(claimText)
	if !ok {
		return model.VerificationResult{
			Claim:           claimText,
			Verdict:         model.VerdictError,
			Confidence:      0,
			EvidenceSummary: "Pipeline error: input rejected as invalid",
			ErrorMessage:    "input rejected as invalid",
			ProcessingTime:  time.Since(start),
			Timestamp:       time.Now().UTC(),
		}
	}

	claim = p.illuminator.Process(claim)
	claim = p.logician.Process(ctx, claim)

	if err := p.seeker.Process(ctx, claim); err != nil {
		return model.VerificationResult{
			Claim:           claim.Text,
			Verdict:         model.VerdictError,
			Confidence:      0,
			EvidenceSummary: fmt.Sprintf("Pipeline error: %v", err),
			ErrorMessage:    err.Error(),
			ProcessingTime:  time.Since(start),
			Timestamp:       time.Now().UTC(),
		}
	}

	result := p.oracle.Process(ctx, claim)
	result.ProcessingTime = time.Since(start)
	return result
}

// resolveCacheDir expands an empty cache dir to ~/.skeptic/cache
func resolveCacheDir(dir string) string {
	if dir != "" {
		return dir
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return ".skeptic-cache"
	}
	return filepath.Join(home, ".skeptic", "cache")
}
