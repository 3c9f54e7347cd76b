package render

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/chartloom/chartloom-cli/internal/charts"
	"github.com/chartloom/chartloom-cli/internal/dataset"
)

var pngMagic = []byte{0x89, 'P', 'N', 'G'}

func testDataset() *dataset.Dataset {
	return dataset.ParseCSV("sales.csv", "region,q1,q2\nnorth,120,140\nsouth,95,110\neast,80,70\nwest,60,90\n")
}

func renderToBuf(t *testing.T, cfg charts.Config) []byte {
	t.Helper()
	var buf bytes.Buffer
	err := New(400, 300).Render(&buf, cfg, testDataset())
	require.NoError(t, err)
	return buf.Bytes()
}

func TestRenderChartTypes(t *testing.T) {
	for _, typ := range []charts.ChartType{
		charts.TypeBar, charts.TypeLine, charts.TypeArea,
		charts.TypePie, charts.TypeScatter, charts.TypeBoxplot, charts.TypeRadar,
	} {
		t.Run(string(typ), func(t *testing.T) {
			out := renderToBuf(t, charts.Config{
				Type:  typ,
				Title: "quarterly sales",
				XKey:  "region",
				YKeys: []string{"q1", "q2"},
			})
			require.Greater(t, len(out), len(pngMagic))
			assert.Equal(t, pngMagic, out[:len(pngMagic)])
		})
	}
}

func TestRenderInvalidConfig(t *testing.T) {
	var buf bytes.Buffer
	err := New(0, 0).Render(&buf, charts.Config{Type: "sparkline"}, testDataset())
	assert.Error(t, err)
}

func TestRenderNoNumericValues(t *testing.T) {
	ds := dataset.ParseCSV("notes.csv", "name,note\na,hello\nb,world\n")
	var buf bytes.Buffer
	err := New(400, 300).Render(&buf, charts.Config{
		Type:  charts.TypeBar,
		Title: "notes",
		XKey:  "name",
		YKeys: []string{"note"},
	}, ds)
	assert.Error(t, err)
}

func TestRenderFacet(t *testing.T) {
	cs, err := charts.Facet(testDataset(), "region", []string{"north"}, []string{"q1", "q2"}, charts.TypeRadar, nil)
	require.NoError(t, err)
	require.Len(t, cs, 1)

	var buf bytes.Buffer
	require.NoError(t, New(400, 300).RenderFacet(&buf, cs[0]))
	assert.Equal(t, pngMagic, buf.Bytes()[:len(pngMagic)])
}

func TestRenderFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out", "chart.png")
	err := New(400, 300).RenderFile(path, charts.Config{
		Type:  charts.TypeBar,
		Title: "quarterly sales",
		XKey:  "region",
		YKeys: []string{"q1"},
	}, testDataset())
	require.NoError(t, err)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, pngMagic, data[:len(pngMagic)])
}

func TestDefaultDimensions(t *testing.T) {
	r := New(0, -1)
	assert.Equal(t, DefaultWidth, r.Width)
	assert.Equal(t, DefaultHeight, r.Height)
}
