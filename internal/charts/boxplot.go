package charts

import (
	"sort"

	"github.com/chartloom/chartloom-cli/internal/dataset"
)

// BoxStat holds the order statistics of one group for a distribution
// chart. Quartiles use the nearest-rank method: the sorted values are
// indexed at a floor-rounded position, without interpolation.
type BoxStat struct {
	Group  string  `json:"group"`
	Min    float64 `json:"min"`
	Q1     float64 `json:"q1"`
	Median float64 `json:"median"`
	Q3     float64 `json:"q3"`
	Max    float64 `json:"max"`
	// Count is the number of numeric samples the stats were computed over.
	Count int `json:"count"`
}

// BoxStats partitions rows by the string form of groupCol and computes
// per-group order statistics over the values of valueCol that coerce
// to finite numbers. Non-numeric entries are dropped, not zeroed.
// Groups whose partition is empty after numeric filtering are
// excluded. Output follows first-appearance order of group labels.
func BoxStats(ds *dataset.Dataset, groupCol, valueCol string) []BoxStat {
	order := make([]string, 0, 8)
	parts := make(map[string][]float64)
	for _, row := range ds.Rows {
		label := row.Value(groupCol).Text()
		if _, ok := parts[label]; !ok {
			order = append(order, label)
			parts[label] = nil
		}
		if n, ok := row.Value(valueCol).Num(); ok {
			parts[label] = append(parts[label], n)
		}
	}

	out := make([]BoxStat, 0, len(order))
	for _, label := range order {
		vals := parts[label]
		if len(vals) == 0 {
			continue
		}
		sort.Float64s(vals)
		n := len(vals)
		out = append(out, BoxStat{
			Group:  label,
			Min:    vals[0],
			Q1:     vals[n*25/100],
			Median: vals[n*50/100],
			Q3:     vals[n*75/100],
			Max:    vals[n-1],
			Count:  n,
		})
	}
	return out
}
