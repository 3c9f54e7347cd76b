// Package session holds the dashboard view state: the immutable source
// dataset, the filter set, and the facet selections. Every state change
// synchronously recomputes the filtered row set and publishes it to
// subscribers; there is no debouncing or incremental diffing.
package session

import (
	"sync"

	"github.com/chartloom/chartloom-cli/internal/charts"
	"github.com/chartloom/chartloom-cli/internal/dataset"
	"github.com/chartloom/chartloom-cli/internal/filter"
)

// Update is the derived state published to subscribers after each
// recomputation.
type Update struct {
	Dataset  *dataset.Dataset
	Rows     []dataset.Row
	Filters  filter.Set
	Report   *Report
	Group    string
	Entities []string
	Metrics  []string
}

// Report is the applied analysis result. It aliases the collaborator's
// report shape without importing it, keeping session free of the ai
// dependency direction.
type Report struct {
	Headline string
	Summary  string
	Insights []string
	Charts   []charts.Config
}

// Session is the single-owner dashboard state. The mutex only guards
// the seam between the UI goroutine and a late-arriving analysis
// completion; everything else is driven from one goroutine.
type Session struct {
	mu sync.Mutex

	source  *dataset.Dataset
	filters filter.Set
	rows    []dataset.Row

	group    string
	entities []string
	metrics  []string
	kind     charts.ChartType

	report      *Report
	analysisTag uint64
	pendingTag  uint64

	subs []func(Update)
}

func New() *Session {
	return &Session{kind: charts.TypeRadar}
}

// Subscribe registers a callback invoked after every recomputation.
// Callbacks run synchronously on the mutating goroutine, outside the
// session lock, so a subscriber may call back into the session.
func (s *Session) Subscribe(fn func(Update)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.subs = append(s.subs, fn)
}

// SetDataset installs a freshly parsed dataset and resets derived
// state: filters are cleared, the facet selections default to the
// first grouping column's leading entities and all numeric metrics.
func (s *Session) SetDataset(ds *dataset.Dataset) {
	s.mu.Lock()
	s.source = ds
	s.filters = nil
	s.report = nil
	s.group = ""
	s.entities = nil
	s.metrics = nil
	if ds != nil && len(ds.Columns) > 0 {
		s.group = ds.Columns[0]
		s.entities = charts.DefaultEntities(ds, s.group)
		s.metrics = ds.NumericColumns()
	}
	s.recomputeLocked()
	u, subs := s.snapshotLocked()
	s.mu.Unlock()
	notify(subs, u)
}

// Reset returns to the pre-upload state, discarding any pending
// analysis result by advancing the tag.
func (s *Session) Reset() {
	s.mu.Lock()
	s.source = nil
	s.filters = nil
	s.rows = nil
	s.report = nil
	s.group = ""
	s.entities = nil
	s.metrics = nil
	s.analysisTag++
	s.pendingTag = 0
	u, subs := s.snapshotLocked()
	s.mu.Unlock()
	notify(subs, u)
}

func (s *Session) Dataset() *dataset.Dataset {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.source
}

// Rows returns the current filtered row set.
func (s *Session) Rows() []dataset.Row {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.rows
}

func (s *Session) Filters() filter.Set {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append(filter.Set(nil), s.filters...)
}

// AddFilter appends a predicate targeting column with the default
// operator for its inferred type, and returns it for editing.
func (s *Session) AddFilter(column string) filter.Predicate {
	s.mu.Lock()
	t := dataset.TypeString
	if s.source != nil {
		t = s.source.InferType(column)
	}
	p := filter.New(column, t)
	s.filters = append(s.filters, p)
	s.recomputeLocked()
	u, subs := s.snapshotLocked()
	s.mu.Unlock()
	notify(subs, u)
	return p
}

// UpdateFilter replaces the predicate with a matching ID.
func (s *Session) UpdateFilter(p filter.Predicate) {
	s.mu.Lock()
	s.filters = s.filters.Replace(p)
	s.recomputeLocked()
	u, subs := s.snapshotLocked()
	s.mu.Unlock()
	notify(subs, u)
}

// RemoveFilter drops the predicate with the given id.
func (s *Session) RemoveFilter(id string) {
	s.mu.Lock()
	s.filters = s.filters.Remove(id)
	s.recomputeLocked()
	u, subs := s.snapshotLocked()
	s.mu.Unlock()
	notify(subs, u)
}

// SetFilters installs a whole filter set at once (CLI path).
func (s *Session) SetFilters(set filter.Set) {
	s.mu.Lock()
	s.filters = append(filter.Set(nil), set...)
	s.recomputeLocked()
	u, subs := s.snapshotLocked()
	s.mu.Unlock()
	notify(subs, u)
}

// SetFacetSelection updates the grouping column and the selected
// entities/metrics for comparison charts.
func (s *Session) SetFacetSelection(group string, entities, metrics []string, kind charts.ChartType) {
	s.mu.Lock()
	s.group = group
	s.entities = append([]string(nil), entities...)
	s.metrics = append([]string(nil), metrics...)
	if kind == charts.TypeRadar || kind == charts.TypeBar {
		s.kind = kind
	}
	s.recomputeLocked()
	u, subs := s.snapshotLocked()
	s.mu.Unlock()
	notify(subs, u)
}

// FacetCharts derives the comparison charts for the current selection
// over the filtered rows.
func (s *Session) FacetCharts(palette []string) ([]charts.FacetChart, error) {
	s.mu.Lock()
	ds := &dataset.Dataset{Source: sourceName(s.source), Columns: sourceColumns(s.source), Rows: s.rows}
	group, entities, metrics, kind := s.group, s.entities, s.metrics, s.kind
	s.mu.Unlock()
	return charts.Facet(ds, group, entities, metrics, kind, palette)
}

func sourceName(ds *dataset.Dataset) string {
	if ds == nil {
		return ""
	}
	return ds.Source
}

func sourceColumns(ds *dataset.Dataset) []string {
	if ds == nil {
		return nil
	}
	return ds.Columns
}

// recomputeLocked refreshes the filtered rows. Caller holds the mutex.
func (s *Session) recomputeLocked() {
	if s.source == nil {
		s.rows = nil
		return
	}
	s.rows = filter.Apply(s.source, s.filters)
}

// snapshotLocked captures the publishable state and the subscriber
// list under the lock. Callbacks then run after release, so a
// subscriber reading the session back does not deadlock.
func (s *Session) snapshotLocked() (Update, []func(Update)) {
	u := Update{
		Dataset:  s.source,
		Rows:     s.rows,
		Filters:  append(filter.Set(nil), s.filters...),
		Report:   s.report,
		Group:    s.group,
		Entities: append([]string(nil), s.entities...),
		Metrics:  append([]string(nil), s.metrics...),
	}
	return u, append(([]func(Update))(nil), s.subs...)
}

func notify(subs []func(Update), u Update) {
	for _, fn := range subs {
		fn(u)
	}
}
