package cmd

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/chartloom/chartloom-cli/internal/charts"
	"github.com/chartloom/chartloom-cli/internal/filter"
	"github.com/chartloom/chartloom-cli/internal/render"
	"github.com/chartloom/chartloom-cli/internal/session"
	"github.com/chartloom/chartloom-cli/internal/utils"
)

var (
	chtType     string
	chtTitle    string
	chtX        string
	chtY        []string
	chtGroup    string
	chtEntities []string
	chtMetrics  []string
	chtWhere    []string
	chtPalette  string
	chtOut      string
	chtStats    bool
)

var chartCmd = &cobra.Command{
	Use:   "chart <file>",
	Short: "Render a chart from a dataset as PNG",
	Long: `Renders bar, line, area, pie, scatter, or boxplot charts from the
dataset's columns. With --group, renders one radar/bar comparison chart
per selected entity, transposing that entity's first matching row into
one point per metric.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		c, err := ensureConfig()
		if err != nil {
			return err
		}
		ds, err := loadDataset(cmd.Context(), args[0])
		if err != nil {
			return err
		}

		sess := session.New()
		sess.SetDataset(ds)
		var set filter.Set
		for _, spec := range chtWhere {
			p, err := filter.ParsePredicate(spec)
			if err != nil {
				return err
			}
			set = append(set, p)
		}
		sess.SetFilters(set)

		paletteName := chtPalette
		if paletteName == "" {
			paletteName = c.Palette
		}
		palette := charts.PaletteByName(paletteName)
		r := render.New(c.RenderWidth, c.RenderHeight)

		kind, err := charts.ParseChartType(chtType)
		if err != nil {
			return err
		}

		if chtGroup != "" {
			return renderFacets(cmd, sess, r, kind, palette)
		}

		if chtStats && kind == charts.TypeBoxplot {
			return printBoxStats(cmd, sess, chtX, firstOr(chtY, ""))
		}

		view := *ds
		view.Rows = sess.Rows()
		cfg := charts.Config{
			Type:    kind,
			Title:   chtTitle,
			XKey:    chtX,
			YKeys:   chtY,
			Palette: palette,
		}
		if cfg.Title == "" {
			cfg.Title = fmt.Sprintf("%s by %s", firstOr(chtY, "value"), chtX)
		}
		if err := r.RenderFile(chtOut, cfg, &view); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "✓ Wrote %s\n", chtOut)
		return nil
	},
}

func renderFacets(cmd *cobra.Command, sess *session.Session, r *render.Renderer, kind charts.ChartType, palette []string) error {
	ds := sess.Dataset()
	entities := chtEntities
	if len(entities) == 0 {
		view := *ds
		view.Rows = sess.Rows()
		entities = charts.DefaultEntities(&view, chtGroup)
	}
	metrics := chtMetrics
	if len(metrics) == 0 {
		metrics = ds.NumericColumns()
	}
	sess.SetFacetSelection(chtGroup, entities, metrics, kind)

	fcs, err := sess.FacetCharts(palette)
	if err != nil {
		return err
	}
	if len(fcs) == 0 {
		return fmt.Errorf("no entities of %q matched any filtered row", chtGroup)
	}
	dir := chtOut
	if filepath.Ext(dir) == ".png" {
		dir = filepath.Dir(dir)
	}
	if err := utils.EnsureDir(dir); err != nil {
		return err
	}
	for _, fc := range fcs {
		path := filepath.Join(dir, slug(fc.Entity)+".png")
		f, err := os.Create(path)
		if err != nil {
			return err
		}
		err = r.RenderFacet(f, fc)
		f.Close()
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "✓ Wrote %s\n", path)
	}
	return nil
}

func printBoxStats(cmd *cobra.Command, sess *session.Session, groupCol, valueCol string) error {
	if groupCol == "" || valueCol == "" {
		return fmt.Errorf("--stats requires --x (group column) and --y (value column)")
	}
	ds := sess.Dataset()
	view := *ds
	view.Rows = sess.Rows()
	out := cmd.OutOrStdout()
	fmt.Fprintln(out, "group\tmin\tq1\tmedian\tq3\tmax\tcount")
	for _, st := range charts.BoxStats(&view, groupCol, valueCol) {
		fmt.Fprintf(out, "%s\t%g\t%g\t%g\t%g\t%g\t%d\n",
			st.Group, st.Min, st.Q1, st.Median, st.Q3, st.Max, st.Count)
	}
	return nil
}

func firstOr(ss []string, fallback string) string {
	if len(ss) > 0 {
		return ss[0]
	}
	return fallback
}

func init() {
	rootCmd.AddCommand(chartCmd)
	chartCmd.Flags().StringVarP(&chtType, "type", "t", "bar", "chart type: bar|line|area|pie|scatter|boxplot|radar")
	chartCmd.Flags().StringVar(&chtTitle, "title", "", "chart title")
	chartCmd.Flags().StringVarP(&chtX, "x", "x", "", "x-axis / category column")
	chartCmd.Flags().StringSliceVarP(&chtY, "y", "y", nil, "y-axis column(s)")
	chartCmd.Flags().StringVarP(&chtGroup, "group", "g", "", "grouping column for per-entity comparison charts")
	chartCmd.Flags().StringSliceVar(&chtEntities, "entities", nil, "entities to compare (default: first 6 distinct values)")
	chartCmd.Flags().StringSliceVar(&chtMetrics, "metrics", nil, "metric columns to compare (default: all numeric columns)")
	chartCmd.Flags().StringArrayVarP(&chtWhere, "where", "w", nil, "predicate column:op:value (repeatable, ANDed)")
	chartCmd.Flags().StringVar(&chtPalette, "palette", "", "color palette name (overrides config)")
	chartCmd.Flags().StringVarP(&chtOut, "out", "o", "chart.png", "output PNG path (directory for --group)")
	chartCmd.Flags().BoolVar(&chtStats, "stats", false, "print boxplot statistics as text instead of rendering")
}
