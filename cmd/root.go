package cmd

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/chartloom/chartloom-cli/internal/ai"
	cfgpkg "github.com/chartloom/chartloom-cli/internal/config"
	"github.com/chartloom/chartloom-cli/internal/dataset"
)

var (
	// Global flags (wired later to config/viper)
	cfgFile string
	debug   bool
	// Retry/HTTP flags (override config if set)
	flagHTTPTimeoutSec   int
	flagRetryMaxAttempts int
	flagRetryBaseDelayMs int
	flagRetryMaxDelayMs  int

	// Loaded configuration
	cfg *cfgpkg.Global
)

var rootCmd = &cobra.Command{
	Use:   "chartloom",
	Short: "ChartLoom CLI: turn tabular data into filtered views, charts, and AI insights",
	Long: `ChartLoom ingests CSV, JSON, XLSX, or photographed tables, applies
column filters, derives comparison and distribution charts, and asks an
AI collaborator for a narrative analysis with chart suggestions.`,
}

// Execute is the entry point called by main.main()
func Execute() {
	// Initialize configuration before executing commands
	cobra.OnInitialize(loadConfig)
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "✗ Error:", err)
		os.Exit(1)
	}
}

func init() {
	// Persistent global flags available to all subcommands
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is ~/.chartloom/config.yaml)")
	rootCmd.PersistentFlags().BoolVar(&debug, "debug", false, "enable debug output")
	rootCmd.PersistentFlags().IntVar(&flagHTTPTimeoutSec, "http-timeout", 0, "HTTP client timeout in seconds (overrides config)")
	rootCmd.PersistentFlags().IntVar(&flagRetryMaxAttempts, "retry-max", 0, "max retry attempts on 429/5xx (overrides config)")
	rootCmd.PersistentFlags().IntVar(&flagRetryBaseDelayMs, "retry-base-ms", 0, "base retry backoff in ms (overrides config)")
	rootCmd.PersistentFlags().IntVar(&flagRetryMaxDelayMs, "retry-max-ms", 0, "max retry backoff cap in ms (overrides config)")
}

func loadConfig() {
	c, err := cfgpkg.Load(cfgFile)
	if err != nil {
		// Non-fatal: allow running commands that don't need config
		fmt.Fprintf(os.Stderr, "⚠ Warning: failed to load config: %v\n", err)
		return
	}
	cfg = c

	// Apply CLI overrides if provided
	f := rootCmd.PersistentFlags()
	if f.Changed("http-timeout") && flagHTTPTimeoutSec > 0 {
		cfg.HTTPTimeoutSec = flagHTTPTimeoutSec
	}
	if f.Changed("retry-max") && flagRetryMaxAttempts > 0 {
		cfg.RetryMaxAttempts = flagRetryMaxAttempts
	}
	if f.Changed("retry-base-ms") && flagRetryBaseDelayMs > 0 {
		cfg.RetryBaseDelayMs = flagRetryBaseDelayMs
	}
	if f.Changed("retry-max-ms") && flagRetryMaxDelayMs > 0 {
		cfg.RetryMaxDelayMs = flagRetryMaxDelayMs
	}
}

// ensureConfig loads configuration on demand for commands that run
// before cobra.OnInitialize fires (tests, direct calls).
func ensureConfig() (*cfgpkg.Global, error) {
	if cfg != nil {
		return cfg, nil
	}
	c, err := cfgpkg.Load(cfgFile)
	if err != nil {
		return nil, err
	}
	cfg = c
	return cfg, nil
}

// newAnalyzer builds the AI collaborator from the loaded config.
func newAnalyzer(modelOverride string) (*ai.Analyzer, error) {
	c, err := ensureConfig()
	if err != nil {
		return nil, err
	}
	client := ai.NewClientWithBaseURL(
		c.APIKey,
		time.Duration(c.HTTPTimeoutSec)*time.Second,
		c.RetryMaxAttempts,
		time.Duration(c.RetryBaseDelayMs)*time.Millisecond,
		time.Duration(c.RetryMaxDelayMs)*time.Millisecond,
		c.BaseURL,
	)
	model := c.Model
	if modelOverride != "" {
		model = modelOverride
	}
	return &ai.Analyzer{
		Client:            client,
		Model:             model,
		VisionModel:       c.VisionModel,
		SampleRows:        c.SampleRows,
		MaxTokens:         c.MaxTokens,
		Temperature:       c.Temperature,
		PromptTokenBudget: c.PromptTokenBudget,
	}, nil
}

// loadDataset reads and parses a local file, routing images through the
// vision collaborator.
func loadDataset(ctx context.Context, path string) (*dataset.Dataset, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", dataset.ErrReadFailure, err)
	}
	if dataset.DetectFormat(path, "") == dataset.FormatImage {
		analyzer, err := newAnalyzer("")
		if err != nil {
			return nil, err
		}
		return analyzer.ExtractTable(ctx, path, imageMIME(path), content)
	}
	return dataset.Parse(path, "", content)
}

func imageMIME(path string) string {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".png":
		return "image/png"
	case ".webp":
		return "image/webp"
	}
	return "image/jpeg"
}
