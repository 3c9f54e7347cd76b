// Package render draws chart configurations to PNG using go-chart.
// The web dashboard's renderer is canvas-based; this is the CLI-side
// equivalent for saving charts to disk.
package render

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	chart "github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"

	"github.com/chartloom/chartloom-cli/internal/charts"
	"github.com/chartloom/chartloom-cli/internal/dataset"
	"github.com/chartloom/chartloom-cli/internal/utils"
)

const (
	DefaultWidth  = 800
	DefaultHeight = 500
)

// Renderer renders chart configs over dataset rows.
type Renderer struct {
	Width  int
	Height int
}

func New(width, height int) *Renderer {
	if width <= 0 {
		width = DefaultWidth
	}
	if height <= 0 {
		height = DefaultHeight
	}
	return &Renderer{Width: width, Height: height}
}

// Render draws cfg over rows as a PNG. Box plots are drawn as median
// bars per group; radar configs are drawn as bars since the backend
// has no polar renderer.
func (r *Renderer) Render(w io.Writer, cfg charts.Config, ds *dataset.Dataset) error {
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid chart config: %w", err)
	}
	switch cfg.Type {
	case charts.TypeBar, charts.TypeRadar:
		return r.renderBars(w, cfg, ds)
	case charts.TypePie:
		return r.renderPie(w, cfg, ds)
	case charts.TypeBoxplot:
		return r.renderBoxplot(w, cfg, ds)
	case charts.TypeLine, charts.TypeArea, charts.TypeScatter:
		return r.renderXY(w, cfg, ds)
	}
	return fmt.Errorf("unknown chart type %q", cfg.Type)
}

// RenderFacet draws one entity's transposed comparison chart.
func (r *Renderer) RenderFacet(w io.Writer, fc charts.FacetChart) error {
	bars := make([]chart.Value, 0, len(fc.Points))
	for i, p := range fc.Points {
		bars = append(bars, chart.Value{
			Label: p.Metric,
			Value: p.Value,
			Style: chart.Style{FillColor: colorFromHex(fc.Config.SeriesColor(i))},
		})
	}
	return r.renderBarValues(w, fc.Config.Title, bars)
}

// RenderFile renders to a PNG file, creating parent directories.
func (r *Renderer) RenderFile(path string, cfg charts.Config, ds *dataset.Dataset) error {
	if err := utils.EnsureDir(filepath.Dir(path)); err != nil {
		return fmt.Errorf("create output directory: %w", err)
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	defer f.Close()
	return r.Render(f, cfg, ds)
}

func (r *Renderer) renderBars(w io.Writer, cfg charts.Config, ds *dataset.Dataset) error {
	yKey := cfg.YKeys[0]
	bars := make([]chart.Value, 0, len(ds.Rows))
	for i, row := range ds.Rows {
		n, ok := row.Value(yKey).Num()
		if !ok {
			continue
		}
		bars = append(bars, chart.Value{
			Label: row.Value(cfg.XKey).Text(),
			Value: n,
			Style: chart.Style{FillColor: colorFromHex(cfg.SeriesColor(i))},
		})
	}
	return r.renderBarValues(w, cfg.Title, bars)
}

func (r *Renderer) renderBarValues(w io.Writer, title string, bars []chart.Value) error {
	if len(bars) == 0 {
		return fmt.Errorf("no numeric values to chart")
	}
	ch := chart.BarChart{
		Title:    title,
		Width:    r.Width,
		Height:   r.Height,
		BarWidth: barWidth(r.Width, len(bars)),
		Bars:     bars,
	}
	if err := ch.Render(chart.PNG, w); err != nil {
		return fmt.Errorf("render bar chart: %w", err)
	}
	return nil
}

func (r *Renderer) renderPie(w io.Writer, cfg charts.Config, ds *dataset.Dataset) error {
	yKey := cfg.YKeys[0]
	vals := make([]chart.Value, 0, len(ds.Rows))
	for i, row := range ds.Rows {
		n, ok := row.Value(yKey).Num()
		if !ok || n <= 0 {
			continue
		}
		vals = append(vals, chart.Value{
			Label: row.Value(cfg.XKey).Text(),
			Value: n,
			Style: chart.Style{FillColor: colorFromHex(cfg.SeriesColor(i))},
		})
	}
	if len(vals) == 0 {
		return fmt.Errorf("no positive values to chart")
	}
	ch := chart.PieChart{
		Title:  cfg.Title,
		Width:  r.Width,
		Height: r.Height,
		Values: vals,
	}
	if err := ch.Render(chart.PNG, w); err != nil {
		return fmt.Errorf("render pie chart: %w", err)
	}
	return nil
}

func (r *Renderer) renderBoxplot(w io.Writer, cfg charts.Config, ds *dataset.Dataset) error {
	stats := charts.BoxStats(ds, cfg.XKey, cfg.YKeys[0])
	bars := make([]chart.Value, 0, len(stats))
	for i, st := range stats {
		bars = append(bars, chart.Value{
			Label: st.Group,
			Value: st.Median,
			Style: chart.Style{FillColor: colorFromHex(cfg.SeriesColor(i))},
		})
	}
	return r.renderBarValues(w, cfg.Title, bars)
}

func (r *Renderer) renderXY(w io.Writer, cfg charts.Config, ds *dataset.Dataset) error {
	labels := make([]string, 0, len(ds.Rows))
	for _, row := range ds.Rows {
		labels = append(labels, row.Value(cfg.XKey).Text())
	}

	series := make([]chart.Series, 0, len(cfg.YKeys))
	for si, yKey := range cfg.YKeys {
		xs := make([]float64, 0, len(ds.Rows))
		ys := make([]float64, 0, len(ds.Rows))
		for i, row := range ds.Rows {
			n, ok := row.Value(yKey).Num()
			if !ok {
				continue
			}
			xs = append(xs, float64(i))
			ys = append(ys, n)
		}
		if len(ys) == 0 {
			continue
		}
		color := colorFromHex(cfg.SeriesColor(si))
		style := chart.Style{StrokeColor: color}
		switch cfg.Type {
		case charts.TypeArea:
			style.FillColor = color.WithAlpha(64)
		case charts.TypeScatter:
			style.StrokeWidth = 0
			style.DotWidth = 4
			style.DotColor = color
		}
		series = append(series, chart.ContinuousSeries{
			Name:    yKey,
			XValues: xs,
			YValues: ys,
			Style:   style,
		})
	}
	if len(series) == 0 {
		return fmt.Errorf("no numeric values to chart")
	}

	ch := chart.Chart{
		Title:  cfg.Title,
		Width:  r.Width,
		Height: r.Height,
		XAxis: chart.XAxis{
			ValueFormatter: func(v interface{}) string {
				f, ok := v.(float64)
				if !ok {
					return ""
				}
				i := int(f)
				if float64(i) != f || i < 0 || i >= len(labels) {
					return ""
				}
				return labels[i]
			},
		},
		Series: series,
	}
	if err := ch.Render(chart.PNG, w); err != nil {
		return fmt.Errorf("render chart: %w", err)
	}
	return nil
}

// barWidth sizes bars so the set roughly fills the canvas.
func barWidth(canvas, n int) int {
	if n == 0 {
		return 20
	}
	w := (canvas - 100) / (n * 2)
	if w < 8 {
		w = 8
	}
	if w > 80 {
		w = 80
	}
	return w
}

func colorFromHex(hex string) drawing.Color {
	return drawing.ColorFromHex(strings.TrimPrefix(hex, "#"))
}
