package filter

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/chartloom/chartloom-cli/internal/dataset"
)

func sampleDataset() *dataset.Dataset {
	return dataset.ParseCSV("t.csv",
		"name,age,city\n"+
			"Bob,41,Boston\n"+
			"alice,33,Austin\n"+
			"Carol,not-a-number,boston\n"+
			"dave,25,Denver\n")
}

func TestApplyEmptySetIsIdentity(t *testing.T) {
	ds := sampleDataset()
	got := Apply(ds, nil)
	require.Len(t, got, len(ds.Rows))
	for i := range got {
		// Same Row references, same order.
		assert.Equal(t, ds.Rows[i].Value("name").Text(), got[i].Value("name").Text())
	}
}

func TestApplyConjunction(t *testing.T) {
	ds := sampleDataset()
	set := Set{
		{ID: "1", Column: "city", Op: OpContains, Value: "o"},
		{ID: "2", Column: "age", Op: OpGreater, Value: "30"},
	}
	got := Apply(ds, set)
	require.Len(t, got, 1)
	assert.Equal(t, "Bob", got[0].Value("name").Text())
}

func TestNumericComparisonExcludesNonNumeric(t *testing.T) {
	ds := sampleDataset()
	got := Apply(ds, Set{{ID: "1", Column: "age", Op: OpGreater, Value: "0"}})
	// Carol's age is text and must be excluded, not raise.
	require.Len(t, got, 3)
	for _, r := range got {
		assert.NotEqual(t, "Carol", r.Value("name").Text())
	}
}

func TestNumericComparisonNonNumericFilterValue(t *testing.T) {
	ds := sampleDataset()
	got := Apply(ds, Set{{ID: "1", Column: "age", Op: OpLess, Value: "tall"}})
	assert.Empty(t, got)
}

func TestCaseInsensitivity(t *testing.T) {
	ds := sampleDataset()

	got := Apply(ds, Set{{ID: "1", Column: "name", Op: OpEquals, Value: "bob"}})
	require.Len(t, got, 1, "equals must ignore case")

	got = Apply(ds, Set{{ID: "1", Column: "city", Op: OpEquals, Value: "BOSTON"}})
	assert.Len(t, got, 2)

	got = Apply(ds, Set{{ID: "1", Column: "name", Op: OpNotEquals, Value: "BOB"}})
	require.Len(t, got, 3, "!= must ignore case too")

	got = Apply(ds, Set{{ID: "1", Column: "name", Op: OpStartsWith, Value: "AL"}})
	require.Len(t, got, 1)
	assert.Equal(t, "alice", got[0].Value("name").Text())

	got = Apply(ds, Set{{ID: "1", Column: "city", Op: OpEndsWith, Value: "TON"}})
	assert.Len(t, got, 3)

	got = Apply(ds, Set{{ID: "1", Column: "city", Op: OpContains, Value: "OST"}})
	assert.Len(t, got, 2)
}

func TestLooseNumericEquality(t *testing.T) {
	ds := dataset.ParseCSV("t.csv", "n\n5\n5.0\nfive\n")
	got := Apply(ds, Set{{ID: "1", Column: "n", Op: OpEquals, Value: "5"}})
	// 5 and 5.0 coerce to the same number; "five" does not coerce.
	assert.Len(t, got, 2)
}

func TestNullValueFailsEveryOperator(t *testing.T) {
	ds := &dataset.Dataset{
		Columns: []string{"a"},
		Rows:    []dataset.Row{{"a": dataset.Null}, {}},
	}
	for _, op := range append(OperatorsFor(dataset.TypeNumber), OperatorsFor(dataset.TypeString)...) {
		got := Apply(ds, Set{{ID: "1", Column: "a", Op: op, Value: ""}})
		assert.Empty(t, got, "operator %s must fail on null/absent", op)
	}
}

func TestOperatorsFor(t *testing.T) {
	assert.Equal(t, []Operator{OpGreater, OpLess, OpGreaterEq, OpLessEq, OpEquals, OpNotEquals},
		OperatorsFor(dataset.TypeNumber))
	assert.Equal(t, []Operator{OpContains, OpEquals, OpNotEquals, OpStartsWith, OpEndsWith},
		OperatorsFor(dataset.TypeString))
}

func TestRetargetResetsOperatorAndValue(t *testing.T) {
	p := New("age", dataset.TypeNumber)
	require.Equal(t, OpGreater, p.Op)
	p.Value = "30"
	p.Retarget("name", dataset.TypeString)
	assert.Equal(t, "name", p.Column)
	assert.Equal(t, OpContains, p.Op)
	assert.Empty(t, p.Value)
	assert.NotEmpty(t, p.ID, "identity survives retargeting")
}

func TestSetRemoveReplace(t *testing.T) {
	a := New("x", dataset.TypeString)
	b := New("y", dataset.TypeString)
	s := Set{a, b}

	s2 := s.Remove(a.ID)
	require.Len(t, s2, 1)
	assert.Equal(t, b.ID, s2[0].ID)
	assert.Len(t, s, 2, "Remove must not mutate the receiver")

	b.Value = "changed"
	s3 := s.Replace(b)
	assert.Equal(t, "changed", s3[1].Value)
	assert.Empty(t, s[1].Value)
}

func TestParsePredicate(t *testing.T) {
	p, err := ParsePredicate("city:contains:bos")
	require.NoError(t, err)
	assert.Equal(t, "city", p.Column)
	assert.Equal(t, OpContains, p.Op)
	assert.Equal(t, "bos", p.Value)
	assert.NotEmpty(t, p.ID)

	p, err = ParsePredicate("note:equals:a:b:c")
	require.NoError(t, err)
	assert.Equal(t, "a:b:c", p.Value, "value may contain colons")

	_, err = ParsePredicate("justacolumn")
	assert.Error(t, err)

	_, err = ParsePredicate("col:frobnicate:x")
	assert.Error(t, err)
}

func TestGreaterEqualLessEqual(t *testing.T) {
	ds := dataset.ParseCSV("t.csv", "n\n1\n2\n3\n")
	assert.Len(t, Apply(ds, Set{{ID: "1", Column: "n", Op: OpGreaterEq, Value: "2"}}), 2)
	assert.Len(t, Apply(ds, Set{{ID: "1", Column: "n", Op: OpLessEq, Value: "2"}}), 2)
}
