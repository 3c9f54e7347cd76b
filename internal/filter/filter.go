// Package filter implements conjunctive row filtering with per-column
// operator semantics gated by inferred column type.
package filter

import (
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/chartloom/chartloom-cli/internal/dataset"
)

// Operator is one of the closed set of predicate operators.
type Operator string

const (
	OpContains   Operator = "contains"
	OpEquals     Operator = "equals"
	OpNotEquals  Operator = "!="
	OpStartsWith Operator = "starts_with"
	OpEndsWith   Operator = "ends_with"
	OpGreater    Operator = ">"
	OpLess       Operator = "<"
	OpGreaterEq  Operator = ">="
	OpLessEq     Operator = "<="
)

var (
	numericOps = []Operator{OpGreater, OpLess, OpGreaterEq, OpLessEq, OpEquals, OpNotEquals}
	stringOps  = []Operator{OpContains, OpEquals, OpNotEquals, OpStartsWith, OpEndsWith}
)

// OperatorsFor returns the operator menu offered for a column of the
// given inferred type. The first entry is the default operator.
func OperatorsFor(t dataset.Type) []Operator {
	if t == dataset.TypeNumber {
		return append([]Operator(nil), numericOps...)
	}
	return append([]Operator(nil), stringOps...)
}

// Predicate is one (column, operator, value) test. Value is kept as
// the user-typed string; coercion happens at evaluation time.
type Predicate struct {
	ID     string   `yaml:"id" json:"id"`
	Column string   `yaml:"column" json:"column"`
	Op     Operator `yaml:"op" json:"op"`
	Value  string   `yaml:"value" json:"value"`
}

// New creates a predicate targeting column, with the default operator
// for the column's type and an empty comparison value.
func New(column string, t dataset.Type) Predicate {
	return Predicate{
		ID:     uuid.NewString(),
		Column: column,
		Op:     OperatorsFor(t)[0],
	}
}

// Retarget points the predicate at a new column, resetting the
// operator to the head of the new menu and clearing the value.
func (p *Predicate) Retarget(column string, t dataset.Type) {
	p.Column = column
	p.Op = OperatorsFor(t)[0]
	p.Value = ""
}

// Set is an ordered list of predicates combined with logical AND.
// Order affects display only; conjunction is commutative.
type Set []Predicate

// Remove deletes the predicate with the given id, returning a new set.
func (s Set) Remove(id string) Set {
	out := make(Set, 0, len(s))
	for _, p := range s {
		if p.ID != id {
			out = append(out, p)
		}
	}
	return out
}

// Replace swaps the predicate with a matching ID, returning a new set.
func (s Set) Replace(p Predicate) Set {
	out := make(Set, len(s))
	copy(out, s)
	for i := range out {
		if out[i].ID == p.ID {
			out[i] = p
		}
	}
	return out
}

// Apply returns the rows satisfying every predicate, preserving input
// order and row identity. An empty set is the identity transform
// (everything retained); the original slice is never mutated.
func Apply(ds *dataset.Dataset, s Set) []dataset.Row {
	out := make([]dataset.Row, 0, len(ds.Rows))
	for _, row := range ds.Rows {
		if Matches(row, s) {
			out = append(out, row)
		}
	}
	return out
}

// Matches reports whether the row satisfies every predicate in s.
func Matches(row dataset.Row, s Set) bool {
	for _, p := range s {
		if !eval(row, p) {
			return false
		}
	}
	return true
}

func eval(row dataset.Row, p Predicate) bool {
	v, ok := row[p.Column]
	if !ok || v.IsNull() {
		return false
	}
	cell := strings.ToLower(v.Text())
	want := strings.ToLower(p.Value)
	switch p.Op {
	case OpContains:
		return strings.Contains(cell, want)
	case OpEquals:
		return dataset.LooseEqualFold(v, dataset.Text(p.Value))
	case OpNotEquals:
		return !dataset.LooseEqualFold(v, dataset.Text(p.Value))
	case OpStartsWith:
		return strings.HasPrefix(cell, want)
	case OpEndsWith:
		return strings.HasSuffix(cell, want)
	case OpGreater, OpLess, OpGreaterEq, OpLessEq:
		a, ok := v.Num()
		if !ok {
			return false
		}
		b, ok := dataset.Text(p.Value).Num()
		if !ok {
			return false
		}
		switch p.Op {
		case OpGreater:
			return a > b
		case OpLess:
			return a < b
		case OpGreaterEq:
			return a >= b
		default:
			return a <= b
		}
	}
	return false
}

// ParsePredicate decodes the CLI form "column:op:value" (value may
// contain further colons).
func ParsePredicate(spec string) (Predicate, error) {
	parts := strings.SplitN(spec, ":", 3)
	if len(parts) < 2 {
		return Predicate{}, fmt.Errorf("invalid filter %q (want column:op:value)", spec)
	}
	op := Operator(strings.TrimSpace(parts[1]))
	if !validOperator(op) {
		return Predicate{}, fmt.Errorf("unknown operator %q in filter %q", op, spec)
	}
	p := Predicate{ID: uuid.NewString(), Column: strings.TrimSpace(parts[0]), Op: op}
	if len(parts) == 3 {
		p.Value = parts[2]
	}
	return p, nil
}

func validOperator(op Operator) bool {
	for _, o := range numericOps {
		if o == op {
			return true
		}
	}
	for _, o := range stringOps {
		if o == op {
			return true
		}
	}
	return false
}
