package cli

import (
	"context"
	"fmt"
	"os"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/skepticlab/skeptic/internal/llm"
)

var estimateText string

// providersCmd represents the providers command
var providersCmd = &cobra.Command{
	Use:   "providers",
	Short: "List configured LLM backends",
	Long: `Providers lists every configured LLM backend with its model and
availability, plus which backend each agent is routed to.

With --estimate, prints the projected cost of analyzing the given text
on each backend.

Example:
  skeptic providers
  skeptic providers --estimate "The Berlin Wall fell in 1989."`,
	RunE: runProviders,
}

func init() {
	rootCmd.AddCommand(providersCmd)

	providersCmd.Flags().StringVar(&estimateText, "estimate", "", "estimate analysis cost for the given text")
}

func runProviders(cmd *cobra.Command, args []string) error {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	manager := llm.NewManager(ctx, cfg.LLM)
	infos := manager.AvailableProviders()

	if len(infos) == 0 {
		fmt.Println("No LLM backends configured. Evidence analysis will use the keyword heuristic.")
		fmt.Println()
		fmt.Println("Set OPENAI_API_KEY, ANTHROPIC_API_KEY or GEMINI_API_KEY, or run a local Ollama.")
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "NAME\tBACKEND\tMODEL\tAVAILABLE\tREQUESTS\tSUCCESS")
	for _, info := range infos {
		fmt.Fprintf(w, "%s\t%s\t%s\t%v\t%d\t%.0f%%\n",
			info.Name, info.Kind, info.Model, info.Available, info.Requests, info.SuccessRate*100)
	}
	w.Flush()

	for agent, backend := range cfg.LLM.AgentProviders {
		fmt.Printf("\nAgent %q routed to %s (%s)\n", agent, manager.ProviderForAgent(agent), backend)
	}

	if estimateText != "" {
		fmt.Printf("\nEstimated cost for %q:\n", truncateText(estimateText, 60))
		for _, info := range infos {
			fmt.Printf("  %-18s $%.6f\n", info.Name, manager.EstimateCost(estimateText, info.Name))
		}
	}

	return nil
}

func truncateText(text string, limit int) string {
	if len(text) <= limit {
		return text
	}
	return text[:limit] + "..."
}
