// Package dataset holds the in-memory tabular model: ordered rows of
// tagged scalar values, format parsers (CSV, JSON array, XLSX), and
// per-column type inference.
package dataset

// Type is the inferred semantic type of a column.
type Type uint8

const (
	TypeString Type = iota
	TypeNumber
	TypeBool
)

func (t Type) String() string {
	switch t {
	case TypeNumber:
		return "number"
	case TypeBool:
		return "boolean"
	}
	return "string"
}

// Row maps column name to cell value. All rows of a dataset share the
// header-derived key set.
type Row map[string]Value

// Value returns the cell for col, or Null when absent.
func (r Row) Value(col string) Value {
	if v, ok := r[col]; ok {
		return v
	}
	return Null
}

// Dataset is an ordered, immutable-by-convention sequence of rows.
// Transforms downstream (filtering, faceting, statistics) derive new
// slices and never mutate Rows in place.
type Dataset struct {
	// Source is the label of the upload (usually the file name).
	Source string
	// Columns preserves header order.
	Columns []string
	Rows    []Row
}

func (d *Dataset) Len() int { return len(d.Rows) }

// Head returns up to n leading rows (the preview window).
func (d *Dataset) Head(n int) []Row {
	if n >= len(d.Rows) {
		return d.Rows
	}
	if n < 0 {
		n = 0
	}
	return d.Rows[:n]
}

// InferType classifies a column from the value in row 0 only.
// This single-sample policy keeps typing O(1) per column; a column
// whose later values disagree with row 0 keeps its first
// classification. Callers tolerate the mismatch: numeric operators
// exclude rows that fail to coerce instead of erroring.
func (d *Dataset) InferType(col string) Type {
	if len(d.Rows) == 0 {
		return TypeString
	}
	switch d.Rows[0].Value(col).Kind() {
	case KindNumber:
		return TypeNumber
	case KindBool:
		return TypeBool
	}
	return TypeString
}

// NumericColumns returns the columns inferred numeric, in header order.
func (d *Dataset) NumericColumns() []string {
	var out []string
	for _, c := range d.Columns {
		if d.InferType(c) == TypeNumber {
			out = append(out, c)
		}
	}
	return out
}
