package dataset

import (
	"math"
	"strconv"
	"strings"
)

// Kind discriminates the scalar variants a cell can hold.
type Kind uint8

const (
	KindNull Kind = iota
	KindNumber
	KindText
	KindBool
)

func (k Kind) String() string {
	switch k {
	case KindNumber:
		return "number"
	case KindText:
		return "text"
	case KindBool:
		return "boolean"
	}
	return "null"
}

// Value is a tagged scalar: exactly one of number, text, or boolean,
// or the null value. The zero Value is null.
type Value struct {
	kind Kind
	num  float64
	text string
	b    bool
}

// Null is the absent/null cell value.
var Null = Value{}

func Number(f float64) Value { return Value{kind: KindNumber, num: f} }
func Text(s string) Value    { return Value{kind: KindText, text: s} }
func Bool(b bool) Value      { return Value{kind: KindBool, b: b} }

func (v Value) Kind() Kind   { return v.kind }
func (v Value) IsNull() bool { return v.kind == KindNull }

// Num coerces the value to a finite float64.
// Numbers pass through, booleans map to 1/0, text is parsed after
// trimming and must consume the whole token. Null and non-numeric
// text report ok=false.
func (v Value) Num() (float64, bool) {
	switch v.kind {
	case KindNumber:
		if math.IsNaN(v.num) || math.IsInf(v.num, 0) {
			return 0, false
		}
		return v.num, true
	case KindBool:
		if v.b {
			return 1, true
		}
		return 0, true
	case KindText:
		s := strings.TrimSpace(v.text)
		if s == "" {
			return 0, false
		}
		f, err := strconv.ParseFloat(s, 64)
		if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
			return 0, false
		}
		return f, true
	}
	return 0, false
}

// Text returns the canonical string form: numbers without a trailing
// exponent where possible, booleans as "true"/"false", null as "".
func (v Value) Text() string {
	switch v.kind {
	case KindNumber:
		return strconv.FormatFloat(v.num, 'f', -1, 64)
	case KindText:
		return v.text
	case KindBool:
		return strconv.FormatBool(v.b)
	}
	return ""
}

// LooseEqual compares two values numerically when both coerce, and by
// exact string form otherwise, so a cell holding 5 equals the typed
// filter text "5".
func LooseEqual(a, b Value) bool {
	if an, ok := a.Num(); ok {
		if bn, ok := b.Num(); ok {
			return an == bn
		}
	}
	return a.Text() == b.Text()
}

// LooseEqualFold is LooseEqual with a case-insensitive string fallback.
func LooseEqualFold(a, b Value) bool {
	if an, ok := a.Num(); ok {
		if bn, ok := b.Num(); ok {
			return an == bn
		}
	}
	return strings.EqualFold(a.Text(), b.Text())
}

// coerceField converts one trimmed, quote-stripped token into a cell
// value: fully-numeric non-empty tokens become numbers, everything
// else stays text. Empty tokens are empty text, not null.
func coerceField(s string) Value {
	if s != "" {
		if f, err := strconv.ParseFloat(s, 64); err == nil && !math.IsNaN(f) && !math.IsInf(f, 0) {
			return Number(f)
		}
	}
	return Text(s)
}

// stripQuotes removes one layer of surrounding double quotes.
func stripQuotes(s string) string {
	if len(s) >= 2 && s[0] == '"' && s[len(s)-1] == '"' {
		return s[1 : len(s)-1]
	}
	return s
}
