// Package charts defines chart configurations and the chart-data
// derivations (facet transposition, box-plot statistics) that feed
// rendering.
package charts

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

// ChartType is the closed set of renderable chart kinds.
type ChartType string

const (
	TypeBar     ChartType = "bar"
	TypeLine    ChartType = "line"
	TypeArea    ChartType = "area"
	TypePie     ChartType = "pie"
	TypeScatter ChartType = "scatter"
	TypeBoxplot ChartType = "boxplot"
	TypeRadar   ChartType = "radar"
)

var chartTypes = map[ChartType]bool{
	TypeBar: true, TypeLine: true, TypeArea: true, TypePie: true,
	TypeScatter: true, TypeBoxplot: true, TypeRadar: true,
}

// ParseChartType validates a type tag (case-insensitive).
func ParseChartType(s string) (ChartType, error) {
	t := ChartType(strings.ToLower(strings.TrimSpace(s)))
	if !chartTypes[t] {
		return "", fmt.Errorf("unknown chart type %q", s)
	}
	return t, nil
}

// Config describes one chart to render. Configs come either from the
// remote analysis collaborator or are synthesized locally by the
// facet transform; both paths validate the same way.
type Config struct {
	Type        ChartType `json:"type" yaml:"type"`
	Title       string    `json:"title" yaml:"title"`
	Description string    `json:"description,omitempty" yaml:"description,omitempty"`
	XKey        string    `json:"xAxisKey" yaml:"x_key"`
	YKeys       []string  `json:"yAxisKeys" yaml:"y_keys"`
	Palette     []string  `json:"colors,omitempty" yaml:"palette,omitempty"`
}

// Validate checks the required fields and fills a default palette.
func (c *Config) Validate() error {
	if !chartTypes[c.Type] {
		return fmt.Errorf("unknown chart type %q", c.Type)
	}
	if strings.TrimSpace(c.Title) == "" {
		return errors.New("chart title is required")
	}
	if strings.TrimSpace(c.XKey) == "" {
		return errors.New("chart x-axis key is required")
	}
	if len(c.YKeys) == 0 {
		return errors.New("chart needs at least one y-axis key")
	}
	if len(c.Palette) == 0 {
		c.Palette = DefaultPalette()
	}
	return nil
}

// SeriesColor returns the palette color for series i, cycling by
// index modulo palette length.
func (c *Config) SeriesColor(i int) string {
	if len(c.Palette) == 0 {
		p := DefaultPalette()
		return p[i%len(p)]
	}
	return c.Palette[i%len(c.Palette)]
}

// Palettes is the built-in color catalog. Keys are stable names that
// can be referenced from config.
var Palettes = map[string][]string{
	"vivid": {"#6366f1", "#ec4899", "#14b8a6", "#f59e0b", "#8b5cf6", "#ef4444"},
	"ocean": {"#0ea5e9", "#0891b2", "#155e75", "#14b8a6", "#2dd4bf", "#67e8f9"},
	"warm":  {"#f97316", "#ef4444", "#f59e0b", "#eab308", "#dc2626", "#fb923c"},
	"moss":  {"#16a34a", "#65a30d", "#15803d", "#84cc16", "#4d7c0f", "#22c55e"},
}

const defaultPaletteName = "vivid"

// DefaultPalette returns a copy of the default color cycle.
func DefaultPalette() []string {
	return append([]string(nil), Palettes[defaultPaletteName]...)
}

// PaletteByName resolves a named palette, falling back to the default
// for unknown names.
func PaletteByName(name string) []string {
	if p, ok := Palettes[strings.ToLower(strings.TrimSpace(name))]; ok {
		return append([]string(nil), p...)
	}
	return DefaultPalette()
}

// PaletteNames lists the catalog in stable order.
func PaletteNames() []string {
	names := make([]string, 0, len(Palettes))
	for n := range Palettes {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}
