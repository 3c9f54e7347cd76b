package charts

import (
	"fmt"

	"github.com/chartloom/chartloom-cli/internal/dataset"
)

// DefaultEntityLimit bounds the initial entity pre-selection so a
// high-cardinality grouping column does not explode the first render.
const DefaultEntityLimit = 6

// Entities returns the distinct string forms of the grouping column
// across the dataset, in first-occurrence order. This is the universe
// of selectable facet entities.
func Entities(ds *dataset.Dataset, groupCol string) []string {
	seen := make(map[string]bool)
	var out []string
	for _, row := range ds.Rows {
		label := row.Value(groupCol).Text()
		if !seen[label] {
			seen[label] = true
			out = append(out, label)
		}
	}
	return out
}

// DefaultEntities is the pre-selected entity set: the first
// DefaultEntityLimit distinct values.
func DefaultEntities(ds *dataset.Dataset, groupCol string) []string {
	all := Entities(ds, groupCol)
	if len(all) > DefaultEntityLimit {
		return all[:DefaultEntityLimit]
	}
	return all
}

// FacetPoint is one transposed cell: a metric name and its numeric
// value in the entity's row.
type FacetPoint struct {
	Metric string  `json:"metric"`
	Value  float64 `json:"value"`
}

// FacetChart pairs one entity's chart config with its transposed
// mini-dataset.
type FacetChart struct {
	Entity string
	Config Config
	Points []FacetPoint
}

// Facet builds one comparison chart per selected entity: the first row
// whose grouping column matches the entity label (string-compared) is
// transposed into one point per selected metric, defaulting to 0 when
// the metric does not coerce to a number. Entities with no matching
// row are omitted. Duplicate group values beyond the first row are
// ignored; there is no aggregation across duplicates.
func Facet(ds *dataset.Dataset, groupCol string, entities, metrics []string, kind ChartType, palette []string) ([]FacetChart, error) {
	if kind != TypeRadar && kind != TypeBar {
		return nil, fmt.Errorf("facet charts must be radar or bar, got %q", kind)
	}
	if len(palette) == 0 {
		palette = DefaultPalette()
	}
	var out []FacetChart
	for _, entity := range entities {
		row, ok := firstMatch(ds, groupCol, entity)
		if !ok {
			continue
		}
		points := make([]FacetPoint, 0, len(metrics))
		for _, m := range metrics {
			n, ok := row.Value(m).Num()
			if !ok {
				n = 0
			}
			points = append(points, FacetPoint{Metric: m, Value: n})
		}
		cfg := Config{
			Type:    kind,
			Title:   fmt.Sprintf("%s: %s", groupCol, entity),
			XKey:    "metric",
			YKeys:   []string{"value"},
			Palette: palette,
		}
		out = append(out, FacetChart{Entity: entity, Config: cfg, Points: points})
	}
	return out, nil
}

func firstMatch(ds *dataset.Dataset, groupCol, entity string) (dataset.Row, bool) {
	for _, row := range ds.Rows {
		if row.Value(groupCol).Text() == entity {
			return row, true
		}
	}
	return nil, false
}
