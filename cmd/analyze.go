package cmd

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/chartloom/chartloom-cli/internal/charts"
	"github.com/chartloom/chartloom-cli/internal/render"
	"github.com/chartloom/chartloom-cli/internal/session"
	"github.com/chartloom/chartloom-cli/internal/utils"
)

var (
	anaModel     string
	anaJSON      bool
	anaRenderDir string
	anaSave      bool
)

var analyzeCmd = &cobra.Command{
	Use:   "analyze <file>",
	Short: "Upload a dataset to the AI collaborator and print its report",
	Long: `Parses the file (CSV, JSON, XLSX, or a photographed table), sends a
bounded sample to the AI collaborator, and prints the returned headline,
summary, insights, and suggested charts. On any analysis failure the
upload is discarded, matching the dashboard's reset-on-error behavior.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		path := args[0]
		analyzer, err := newAnalyzer(anaModel)
		if err != nil {
			return err
		}
		ds, err := loadDataset(cmd.Context(), path)
		if err != nil {
			return err
		}

		sess := session.New()
		sess.SetDataset(ds)
		tag := sess.BeginAnalysis()

		rep, err := analyzer.AnalyzeDataset(cmd.Context(), ds)
		if err != nil {
			sess.FailAnalysis(tag)
			return err
		}
		sess.CompleteAnalysis(tag, &session.Report{
			Headline: rep.Headline,
			Summary:  rep.Summary,
			Insights: rep.Insights,
			Charts:   rep.Charts,
		})

		if anaJSON {
			b, err := utils.PrettyJSON(rep)
			if err != nil {
				return err
			}
			fmt.Println(string(b))
		} else {
			printReport(cmd, ds.Source, ds.Len(), rep.Headline, rep.Summary, rep.Insights, rep.Charts)
		}

		if anaRenderDir != "" {
			if err := renderSuggestions(sess, rep.Charts, anaRenderDir); err != nil {
				return err
			}
		}
		if anaSave {
			c, err := ensureConfig()
			if err != nil {
				return err
			}
			state := sess.Snapshot("", path)
			if err := session.NewStore(c.SessionsDir).Save(state); err != nil {
				return err
			}
			fmt.Printf("✓ Saved session %s\n", state.ID)
		}
		return nil
	},
}

func printReport(cmd *cobra.Command, source string, rows int, headline, summary string, insights []string, suggested []charts.Config) {
	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "✓ Analyzed %s (%d rows)\n\n", source, rows)
	if headline != "" {
		fmt.Fprintf(out, "# %s\n\n", headline)
	}
	if summary != "" {
		fmt.Fprintf(out, "%s\n\n", summary)
	}
	if len(insights) > 0 {
		fmt.Fprintln(out, "Insights:")
		for _, ins := range insights {
			fmt.Fprintf(out, "  - %s\n", ins)
		}
		fmt.Fprintln(out)
	}
	if len(suggested) > 0 {
		fmt.Fprintln(out, "Suggested charts:")
		for _, c := range suggested {
			fmt.Fprintf(out, "  - [%s] %s (%s vs %s)\n", c.Type, c.Title, c.XKey, strings.Join(c.YKeys, ", "))
		}
	}
}

// renderSuggestions draws each suggested chart over the session's
// filtered rows.
func renderSuggestions(sess *session.Session, suggested []charts.Config, dir string) error {
	c, err := ensureConfig()
	if err != nil {
		return err
	}
	r := render.New(c.RenderWidth, c.RenderHeight)
	ds := sess.Dataset()
	view := *ds
	view.Rows = sess.Rows()
	for i, cfg := range suggested {
		name := fmt.Sprintf("%02d-%s.png", i+1, slug(cfg.Title))
		path := filepath.Join(dir, name)
		if err := r.RenderFile(path, cfg, &view); err != nil {
			fmt.Fprintf(os.Stderr, "⚠ Warning: skipped %q: %v\n", cfg.Title, err)
			continue
		}
		fmt.Printf("✓ Wrote %s\n", path)
	}
	return nil
}

func slug(s string) string {
	var b strings.Builder
	for _, r := range strings.ToLower(s) {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			b.WriteRune(r)
		default:
			if !strings.HasSuffix(b.String(), "-") {
				b.WriteByte('-')
			}
		}
	}
	out := strings.Trim(b.String(), "-")
	if out == "" {
		return "chart"
	}
	if len(out) > 48 {
		out = out[:48]
	}
	return out
}

func init() {
	rootCmd.AddCommand(analyzeCmd)
	analyzeCmd.Flags().StringVarP(&anaModel, "model", "m", "", "model to use (overrides config)")
	analyzeCmd.Flags().BoolVar(&anaJSON, "json", false, "print the raw report as JSON")
	analyzeCmd.Flags().StringVar(&anaRenderDir, "render-dir", "", "render suggested charts as PNGs into this directory")
	analyzeCmd.Flags().BoolVar(&anaSave, "save", false, "persist the session for later use")
}
