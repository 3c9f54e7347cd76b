package session

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
	"gopkg.in/yaml.v3"

	"github.com/chartloom/chartloom-cli/internal/charts"
	"github.com/chartloom/chartloom-cli/internal/filter"
	"github.com/chartloom/chartloom-cli/internal/utils"
)

// State is the durable shape of a session: enough to re-open a
// dashboard on the same source file. The dataset itself is not stored;
// it is re-parsed from SourcePath on load.
type State struct {
	ID         string             `yaml:"id"`
	SourcePath string             `yaml:"source_path"`
	Filters    []filter.Predicate `yaml:"filters,omitempty"`
	Group      string             `yaml:"group,omitempty"`
	Entities   []string           `yaml:"entities,omitempty"`
	Metrics    []string           `yaml:"metrics,omitempty"`
	ChartKind  string             `yaml:"chart_kind,omitempty"`
	Report     *Report            `yaml:"report,omitempty"`
	CreatedAt  time.Time          `yaml:"created_at"`
	UpdatedAt  time.Time          `yaml:"updated_at"`
}

// Store persists session states as YAML files in a directory.
type Store struct {
	Dir string
}

// DefaultStoreDir is ~/.chartloom/sessions.
func DefaultStoreDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("resolve home directory: %w", err)
	}
	return filepath.Join(home, ".chartloom", "sessions"), nil
}

func NewStore(dir string) *Store {
	return &Store{Dir: dir}
}

// Snapshot captures the current session as a storable State. A new ID
// is minted when the session was never saved before.
func (s *Session) Snapshot(id, sourcePath string) State {
	s.mu.Lock()
	defer s.mu.Unlock()
	if id == "" {
		id = uuid.New().String()
	}
	now := time.Now().UTC()
	return State{
		ID:         id,
		SourcePath: sourcePath,
		Filters:    append([]filter.Predicate(nil), s.filters...),
		Group:      s.group,
		Entities:   append([]string(nil), s.entities...),
		Metrics:    append([]string(nil), s.metrics...),
		ChartKind:  string(s.kind),
		Report:     s.report,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
}

// Restore applies a stored state onto a session whose dataset has
// already been re-parsed and installed.
func (s *Session) Restore(st State) {
	kind, err := charts.ParseChartType(st.ChartKind)
	if err != nil {
		kind = charts.TypeRadar
	}
	s.SetFacetSelection(st.Group, st.Entities, st.Metrics, kind)
	s.SetFilters(st.Filters)
	if st.Report != nil {
		tag := s.BeginAnalysis()
		s.CompleteAnalysis(tag, st.Report)
	}
}

// Save writes the state to <dir>/<id>.yaml.
func (st *Store) Save(state State) error {
	if state.ID == "" {
		return fmt.Errorf("session state has no id")
	}
	if err := utils.EnsureDir(st.Dir); err != nil {
		return fmt.Errorf("create session directory: %w", err)
	}
	data, err := yaml.Marshal(state)
	if err != nil {
		return fmt.Errorf("marshal session: %w", err)
	}
	path := filepath.Join(st.Dir, state.ID+".yaml")
	if err := utils.SafeWriteFile(path, data); err != nil {
		return fmt.Errorf("write session: %w", err)
	}
	return nil
}

// Load reads the state with the given id.
func (st *Store) Load(id string) (State, error) {
	path := filepath.Join(st.Dir, id+".yaml")
	data, err := os.ReadFile(path)
	if err != nil {
		return State{}, fmt.Errorf("read session %s: %w", id, err)
	}
	var state State
	if err := yaml.Unmarshal(data, &state); err != nil {
		return State{}, fmt.Errorf("parse session %s: %w", id, err)
	}
	return state, nil
}

// List returns the ids of all stored sessions, sorted.
func (st *Store) List() ([]string, error) {
	entries, err := os.ReadDir(st.Dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("list sessions: %w", err)
	}
	var ids []string
	for _, e := range entries {
		name := e.Name()
		if e.IsDir() || !strings.HasSuffix(name, ".yaml") {
			continue
		}
		ids = append(ids, strings.TrimSuffix(name, ".yaml"))
	}
	sort.Strings(ids)
	return ids, nil
}

// Delete removes a stored session.
func (st *Store) Delete(id string) error {
	path := filepath.Join(st.Dir, id+".yaml")
	if err := os.Remove(path); err != nil {
		return fmt.Errorf("delete session %s: %w", id, err)
	}
	return nil
}
