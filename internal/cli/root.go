package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/skepticlab/skeptic/internal/model"
)

var (
	cfgFile string
	verbose bool
)

// rootCmd represents the base command
var rootCmd = &cobra.Command{
	Use:   "skeptic",
	Short: "Skeptic - automated claim verification",
	Long: `Skeptic verifies factual claims against publicly available evidence.

A claim is cleaned and classified, broken into verifiable sub-claims,
researched against Wikipedia and news sources, and the gathered
evidence is synthesized into a verdict: SUPPORTED, CONTRADICTED or
INSUFFICIENT_EVIDENCE, with a calibrated confidence score.

Evidence analysis uses whichever LLM backends are configured (OpenAI,
Anthropic, Gemini, Ollama) with automatic fallback, and degrades to a
keyword heuristic when none are available.`,
	SilenceErrors: true,
	SilenceUsage:  true,
}

// Execute runs the root command
func Execute() error {
	return rootCmd.Execute()
}

// versionCmd represents the version command
var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Println("skeptic v0.1.0")
	},
}

func init() {
	cobra.OnInitialize(initConfig)

	// Global flags
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default: $HOME/.skeptic/config.yaml)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")

	_ = viper.BindPFlag("output.verbose", rootCmd.PersistentFlags().Lookup("verbose"))

	rootCmd.AddCommand(versionCmd)
}

// initConfig reads in config file and ENV variables
func initConfig() {
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		home, err := os.UserHomeDir()
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error finding home directory: %v\n", err)
			return
		}

		viper.AddConfigPath(home + "/.skeptic")
		viper.SetConfigType("yaml")
		viper.SetConfigName("config")
	}

	// Read in environment variables that match SKEPTIC_*
	viper.SetEnvPrefix("SKEPTIC")
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err == nil && verbose {
		fmt.Fprintf(os.Stderr, "Using config file: %s\n", viper.ConfigFileUsed())
	}
}

// loadConfig resolves the effective configuration: defaults, then the
// config file and SKEPTIC_* env vars, then well-known API key env vars
// for any backend still missing credentials.
func loadConfig() (*model.Config, error) {
	cfg := model.DefaultConfig()

	if err := viper.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("parse configuration: %w", err)
	}

	if cfg.LLM.OpenAI.APIKey == "" {
		cfg.LLM.OpenAI.APIKey = os.Getenv("OPENAI_API_KEY")
	}
	if cfg.LLM.Anthropic.APIKey == "" {
		cfg.LLM.Anthropic.APIKey = os.Getenv("ANTHROPIC_API_KEY")
	}
	if cfg.LLM.Gemini.APIKey == "" {
		cfg.LLM.Gemini.APIKey = os.Getenv("GEMINI_API_KEY")
	}
	if cfg.Search.NewsAPIKey == "" {
		cfg.Search.NewsAPIKey = os.Getenv("NEWSAPI_KEY")
	}
	if baseURL := os.Getenv("OLLAMA_BASE_URL"); baseURL != "" {
		cfg.LLM.Ollama.BaseURL = baseURL
	}

	// A backend with credentials is usable unless explicitly disabled
	// in the config file.
	if cfg.LLM.OpenAI.APIKey != "" && !viper.IsSet("llm.openai.enabled") {
		cfg.LLM.OpenAI.Enabled = true
	}
	if cfg.LLM.Anthropic.APIKey != "" && !viper.IsSet("llm.anthropic.enabled") {
		cfg.LLM.Anthropic.Enabled = true
	}
	if cfg.LLM.Gemini.APIKey != "" && !viper.IsSet("llm.gemini.enabled") {
		cfg.LLM.Gemini.Enabled = true
	}

	cfg.Output.Verbose = cfg.Output.Verbose || verbose

	return cfg, nil
}
