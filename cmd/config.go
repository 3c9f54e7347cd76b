package cmd

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/chartloom/chartloom-cli/internal/charts"
	cfgpkg "github.com/chartloom/chartloom-cli/internal/config"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "View or set ChartLoom configuration",
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show effective configuration",
	RunE: func(cmd *cobra.Command, args []string) error {
		c, err := ensureConfig()
		if err != nil {
			return err
		}
		fmt.Printf("api_key: %s\n", mask(c.APIKey))
		fmt.Printf("base_url: %s\n", c.BaseURL)
		fmt.Printf("model: %s\n", c.Model)
		fmt.Printf("vision_model: %s\n", c.VisionModel)
		fmt.Printf("max_tokens: %d\n", c.MaxTokens)
		fmt.Printf("temperature: %.3f\n", c.Temperature)
		fmt.Printf("sample_rows: %d\n", c.SampleRows)
		fmt.Printf("prompt_token_budget: %d\n", c.PromptTokenBudget)
		fmt.Printf("palette: %s\n", c.Palette)
		fmt.Printf("render_width: %d\n", c.RenderWidth)
		fmt.Printf("render_height: %d\n", c.RenderHeight)
		fmt.Printf("sessions_dir: %s\n", c.SessionsDir)
		return nil
	},
}

var configSetCmd = &cobra.Command{
	Use:   "set <key> <value>",
	Short: "Set a config value and save to disk",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		key, val := args[0], args[1]
		c, err := ensureConfig()
		if err != nil {
			return err
		}
		switch key {
		case "api_key":
			c.APIKey = val
		case "base_url":
			c.BaseURL = val
		case "model":
			c.Model = val
		case "vision_model":
			c.VisionModel = val
		case "max_tokens":
			i, err := strconv.Atoi(val)
			if err != nil {
				return fmt.Errorf("invalid int for max_tokens: %w", err)
			}
			c.MaxTokens = i
		case "temperature":
			f, err := strconv.ParseFloat(val, 64)
			if err != nil {
				return fmt.Errorf("invalid float for temperature: %w", err)
			}
			c.Temperature = f
		case "sample_rows":
			i, err := strconv.Atoi(val)
			if err != nil || i < 1 {
				return fmt.Errorf("invalid int for sample_rows: %v", val)
			}
			c.SampleRows = i
		case "prompt_token_budget":
			i, err := strconv.Atoi(val)
			if err != nil || i < 0 {
				return fmt.Errorf("invalid int for prompt_token_budget: %v", val)
			}
			c.PromptTokenBudget = i
		case "palette":
			if _, ok := charts.Palettes[val]; !ok {
				return fmt.Errorf("unknown palette %q (available: %v)", val, charts.PaletteNames())
			}
			c.Palette = val
		case "render_width":
			i, err := strconv.Atoi(val)
			if err != nil || i < 1 {
				return fmt.Errorf("invalid int for render_width: %v", val)
			}
			c.RenderWidth = i
		case "render_height":
			i, err := strconv.Atoi(val)
			if err != nil || i < 1 {
				return fmt.Errorf("invalid int for render_height: %v", val)
			}
			c.RenderHeight = i
		case "sessions_dir":
			c.SessionsDir = val
		default:
			return fmt.Errorf("unknown key: %s", key)
		}
		if err := cfgpkg.Save(c, cfgFile); err != nil {
			return err
		}
		fmt.Println("Saved config")
		return nil
	},
}

func init() {
	rootCmd.AddCommand(configCmd)
	configCmd.AddCommand(configShowCmd)
	configCmd.AddCommand(configSetCmd)
}

func mask(s string) string {
	if s == "" {
		return ""
	}
	if len(s) <= 6 {
		return "******"
	}
	return s[:3] + "****" + s[len(s)-3:]
}
