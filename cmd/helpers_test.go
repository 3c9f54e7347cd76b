package cmd

import (
	"bytes"
	"strings"
	"testing"

	"github.com/spf13/cobra"

	"github.com/chartloom/chartloom-cli/internal/dataset"
)

func TestSlug(t *testing.T) {
	cases := map[string]string{
		"Population by City": "population-by-city",
		"  Q1 / Q2 (2024)  ": "q1-q2-2024",
		"":                   "chart",
		"???":                "chart",
	}
	for in, want := range cases {
		if got := slug(in); got != want {
			t.Errorf("slug(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestImageMIME(t *testing.T) {
	cases := map[string]string{
		"table.png":  "image/png",
		"table.PNG":  "image/png",
		"table.webp": "image/webp",
		"table.jpg":  "image/jpeg",
		"table.jpeg": "image/jpeg",
	}
	for in, want := range cases {
		if got := imageMIME(in); got != want {
			t.Errorf("imageMIME(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestProjectColumns(t *testing.T) {
	all := []string{"a", "b", "c"}
	got, err := projectColumns(all, []string{"c", "a"})
	if err != nil {
		t.Fatalf("projectColumns error: %v", err)
	}
	// Header order wins over request order.
	if len(got) != 2 || got[0] != "a" || got[1] != "c" {
		t.Fatalf("unexpected projection: %v", got)
	}
	if _, err := projectColumns(all, []string{"ghost"}); err == nil {
		t.Fatalf("expected error for unknown column")
	}
}

func TestPrintCSVRoundTrip(t *testing.T) {
	ds := dataset.ParseCSV("t.csv", "name,score\nalice,10\nbob,7\n")
	var buf bytes.Buffer
	c := &cobra.Command{}
	c.SetOut(&buf)

	printCSV(c, ds.Columns, ds.Rows)

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 3 {
		t.Fatalf("expected header + 2 rows, got %d lines", len(lines))
	}
	if lines[0] != "name,score" {
		t.Fatalf("unexpected header: %q", lines[0])
	}
	if lines[1] != "alice,10" || lines[2] != "bob,7" {
		t.Fatalf("unexpected rows: %v", lines[1:])
	}
}

func TestPrintJSONKeepsNumbers(t *testing.T) {
	ds := dataset.ParseCSV("t.csv", "name,score\nalice,10\n")
	var buf bytes.Buffer
	c := &cobra.Command{}
	c.SetOut(&buf)

	if err := printJSON(c, ds.Columns, ds.Rows); err != nil {
		t.Fatalf("printJSON error: %v", err)
	}
	out := buf.String()
	if !strings.Contains(out, `"score": 10`) {
		t.Fatalf("expected numeric score in output:\n%s", out)
	}
	if !strings.Contains(out, `"name": "alice"`) {
		t.Fatalf("expected string name in output:\n%s", out)
	}
}
