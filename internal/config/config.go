package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"
)

// Global configuration structure.
type Global struct {
	APIKey      string `mapstructure:"api_key" yaml:"api_key"`
	BaseURL     string `mapstructure:"base_url" yaml:"base_url"`
	Model       string `mapstructure:"model" yaml:"model"`
	VisionModel string `mapstructure:"vision_model" yaml:"vision_model"`

	MaxTokens         int     `mapstructure:"max_tokens" yaml:"max_tokens"`
	Temperature       float64 `mapstructure:"temperature" yaml:"temperature"`
	SampleRows        int     `mapstructure:"sample_rows" yaml:"sample_rows"`
	PromptTokenBudget int     `mapstructure:"prompt_token_budget" yaml:"prompt_token_budget"`

	// HTTP/Retry configuration
	HTTPTimeoutSec   int `mapstructure:"http_timeout_sec" yaml:"http_timeout_sec"`
	RetryMaxAttempts int `mapstructure:"retry_max_attempts" yaml:"retry_max_attempts"`
	RetryBaseDelayMs int `mapstructure:"retry_base_delay_ms" yaml:"retry_base_delay_ms"`
	RetryMaxDelayMs  int `mapstructure:"retry_max_delay_ms" yaml:"retry_max_delay_ms"`

	// Rendering
	Palette      string `mapstructure:"palette" yaml:"palette"`
	RenderWidth  int    `mapstructure:"render_width" yaml:"render_width"`
	RenderHeight int    `mapstructure:"render_height" yaml:"render_height"`

	SessionsDir string `mapstructure:"sessions_dir" yaml:"sessions_dir"`
}

// Save writes the given configuration to the cfgFile path. If cfgFile is empty,
// it writes to ~/.chartloom/config.yaml, creating the directory if necessary.
func Save(c *Global, cfgFile string) error {
	var path string
	if cfgFile != "" {
		path = cfgFile
	} else {
		home, err := os.UserHomeDir()
		if err != nil {
			return fmt.Errorf("resolve home dir: %w", err)
		}
		dir := filepath.Join(home, ".chartloom")
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("mkdir config dir: %w", err)
		}
		path = filepath.Join(dir, "config.yaml")
	}
	b, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshal yaml: %w", err)
	}
	if err := os.WriteFile(path, b, 0o644); err != nil {
		return fmt.Errorf("write config: %w", err)
	}
	return nil
}

// Load loads configuration from file, env, and defaults.
// Precedence: flags (cfgFile) > env > config file > defaults.
func Load(cfgFile string) (*Global, error) {
	v := viper.New()
	v.SetEnvPrefix("CHARTLOOM")
	v.AutomaticEnv()

	// Defaults
	v.SetDefault("base_url", "https://openrouter.ai/api/v1")
	v.SetDefault("model", "openai/gpt-4o-mini")
	v.SetDefault("vision_model", "openai/gpt-4o")
	v.SetDefault("max_tokens", 4096)
	v.SetDefault("temperature", 0.2)
	v.SetDefault("sample_rows", 30)
	v.SetDefault("prompt_token_budget", 8000)
	// HTTP/retry defaults
	v.SetDefault("http_timeout_sec", 60)
	v.SetDefault("retry_max_attempts", 3)
	v.SetDefault("retry_base_delay_ms", 500)
	v.SetDefault("retry_max_delay_ms", 4000)
	// Rendering defaults
	v.SetDefault("palette", "vivid")
	v.SetDefault("render_width", 800)
	v.SetDefault("render_height", 500)

	// Config file
	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
	} else {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("resolve home dir: %w", err)
		}
		dir := filepath.Join(home, ".chartloom")
		_ = os.MkdirAll(dir, 0o755)
		v.AddConfigPath(dir)
		v.SetConfigName("config")
		v.SetConfigType("yaml")
	}
	// optional read
	_ = v.ReadInConfig()

	var c Global
	if err := v.Unmarshal(&c); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}
	// Resolve sessions_dir default: ~/.chartloom/sessions
	if c.SessionsDir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("resolve home dir: %w", err)
		}
		c.SessionsDir = filepath.Join(home, ".chartloom", "sessions")
	}
	return &c, nil
}
