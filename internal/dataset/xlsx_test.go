package dataset

import (
	"archive/zip"
	"bytes"
	"errors"
	"testing"
)

// buildWorkbook assembles a minimal OOXML container in memory.
func buildWorkbook(t *testing.T, files map[string]string) []byte {
	t.Helper()
	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	for name, content := range files {
		w, err := zw.Create(name)
		if err != nil {
			t.Fatalf("zip create %s: %v", name, err)
		}
		if _, err := w.Write([]byte(content)); err != nil {
			t.Fatalf("zip write %s: %v", name, err)
		}
	}
	if err := zw.Close(); err != nil {
		t.Fatalf("zip close: %v", err)
	}
	return buf.Bytes()
}

const testWorkbookXML = `<?xml version="1.0"?>
<workbook xmlns="http://schemas.openxmlformats.org/spreadsheetml/2006/main"
          xmlns:r="http://schemas.openxmlformats.org/officeDocument/2006/relationships">
  <sheets>
    <sheet name="Data" sheetId="1" r:id="rId1"/>
    <sheet name="Other" sheetId="2" r:id="rId2"/>
  </sheets>
</workbook>`

const testRelsXML = `<?xml version="1.0"?>
<Relationships xmlns="http://schemas.openxmlformats.org/package/2006/relationships">
  <Relationship Id="rId1" Target="worksheets/sheet1.xml"/>
  <Relationship Id="rId2" Target="worksheets/sheet2.xml"/>
</Relationships>`

const testSharedXML = `<?xml version="1.0"?>
<sst xmlns="http://schemas.openxmlformats.org/spreadsheetml/2006/main">
  <si><t>name</t></si>
  <si><t>score</t></si>
  <si><t>alpha</t></si>
  <si><t>beta</t></si>
</sst>`

const testSheet1XML = `<?xml version="1.0"?>
<worksheet xmlns="http://schemas.openxmlformats.org/spreadsheetml/2006/main">
  <sheetData>
    <row r="1"><c r="A1" t="s"><v>0</v></c><c r="B1" t="s"><v>1</v></c></row>
    <row r="2"><c r="A2" t="s"><v>2</v></c><c r="B2"><v>1</v></c></row>
    <row r="3"><c r="A3" t="s"><v>3</v></c><c r="B3"><v>2.5</v></c></row>
  </sheetData>
</worksheet>`

// Second sheet holds different data so first-sheet selection is observable.
const testSheet2XML = `<?xml version="1.0"?>
<worksheet xmlns="http://schemas.openxmlformats.org/spreadsheetml/2006/main">
  <sheetData>
    <row r="1"><c r="A1" t="s"><v>1</v></c></row>
    <row r="2"><c r="A2"><v>99</v></c></row>
  </sheetData>
</worksheet>`

func testWorkbookFiles() map[string]string {
	return map[string]string{
		"xl/workbook.xml":            testWorkbookXML,
		"xl/_rels/workbook.xml.rels": testRelsXML,
		"xl/sharedStrings.xml":       testSharedXML,
		"xl/worksheets/sheet1.xml":   testSheet1XML,
		"xl/worksheets/sheet2.xml":   testSheet2XML,
	}
}

func TestParseXLSXFirstSheet(t *testing.T) {
	ds, err := ParseXLSX("t.xlsx", buildWorkbook(t, testWorkbookFiles()))
	if err != nil {
		t.Fatalf("ParseXLSX: %v", err)
	}
	if len(ds.Columns) != 2 || ds.Columns[0] != "name" || ds.Columns[1] != "score" {
		t.Fatalf("columns = %v", ds.Columns)
	}
	if len(ds.Rows) != 2 {
		t.Fatalf("rows = %d, want 2", len(ds.Rows))
	}
	if got := ds.Rows[0].Value("name").Text(); got != "alpha" {
		t.Errorf("row0 name = %q", got)
	}
	if n, ok := ds.Rows[1].Value("score").Num(); !ok || n != 2.5 {
		t.Errorf("row1 score = %v %v", n, ok)
	}
	if ds.InferType("score") != TypeNumber {
		t.Error("score should infer number")
	}
}

func TestParseXLSXEmptySheet(t *testing.T) {
	files := testWorkbookFiles()
	files["xl/worksheets/sheet1.xml"] = `<?xml version="1.0"?>
<worksheet xmlns="http://schemas.openxmlformats.org/spreadsheetml/2006/main">
  <sheetData>
    <row r="1"><c r="A1" t="s"><v>0</v></c></row>
  </sheetData>
</worksheet>`
	_, err := ParseXLSX("t.xlsx", buildWorkbook(t, files))
	if !errors.Is(err, ErrEmptyData) {
		t.Fatalf("err = %v, want ErrEmptyData", err)
	}
}

func TestParseXLSXCorrupt(t *testing.T) {
	_, err := ParseXLSX("t.xlsx", []byte("this is not a zip archive"))
	if !errors.Is(err, ErrInvalidFormat) {
		t.Fatalf("err = %v, want ErrInvalidFormat", err)
	}
}

func TestColIndexFromRef(t *testing.T) {
	tests := map[string]int{"A1": 0, "B3": 1, "Z9": 25, "AA10": 26, "C12": 2}
	for ref, want := range tests {
		if got := colIndexFromRef(ref); got != want {
			t.Errorf("colIndexFromRef(%q) = %d, want %d", ref, got, want)
		}
	}
}

func TestDetectFormat(t *testing.T) {
	tests := []struct {
		name, mime string
		want       Format
	}{
		{"data.csv", "text/csv", FormatCSV},
		{"data.json", "application/json", FormatJSON},
		{"data.xlsx", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", FormatXLSX},
		{"photo.png", "image/png", FormatImage},
		{"notes.txt", "text/plain", FormatCSV},
		{"blob", "application/json", FormatJSON},
	}
	for _, tt := range tests {
		if got := DetectFormat(tt.name, tt.mime); got != tt.want {
			t.Errorf("DetectFormat(%q, %q) = %v, want %v", tt.name, tt.mime, got, tt.want)
		}
	}
}
