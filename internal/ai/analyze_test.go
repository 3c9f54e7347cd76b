package ai

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"testing"
	"time"

	"github.com/chartloom/chartloom-cli/internal/charts"
	"github.com/chartloom/chartloom-cli/internal/dataset"
)

func analysisDataset() *dataset.Dataset {
	return dataset.ParseCSV("cities.csv", "city,population,area\nparis,2100000,105\nlyon,520000,48\n")
}

func TestParseReportStripsFences(t *testing.T) {
	content := "```json\n{\"headline\":\"h\",\"summary\":\"s\",\"insights\":[\"i\"],\"charts\":[]}\n```"
	rep, err := ParseReport(content, []string{"city"})
	if err != nil {
		t.Fatalf("ParseReport error: %v", err)
	}
	if rep.Headline != "h" || rep.Summary != "s" || len(rep.Insights) != 1 {
		t.Fatalf("unexpected report: %+v", rep)
	}
}

func TestParseReportEmptyIsFailure(t *testing.T) {
	for _, content := range []string{"", "   ", "```\n```"} {
		if _, err := ParseReport(content, nil); !errors.Is(err, ErrAnalysisFailure) {
			t.Fatalf("content %q: expected ErrAnalysisFailure, got %v", content, err)
		}
	}
}

func TestParseReportMalformedJSON(t *testing.T) {
	if _, err := ParseReport("not json at all", nil); !errors.Is(err, ErrAnalysisFailure) {
		t.Fatalf("expected ErrAnalysisFailure, got %v", err)
	}
}

func TestParseReportRequiresNarrative(t *testing.T) {
	if _, err := ParseReport(`{"insights":["i"]}`, nil); !errors.Is(err, ErrAnalysisFailure) {
		t.Fatalf("expected ErrAnalysisFailure for narrative-free report, got %v", err)
	}
}

func TestParseReportDropsBadCharts(t *testing.T) {
	content := `{
		"headline": "h",
		"summary": "s",
		"charts": [
			{"type": "bar", "title": "good", "xAxisKey": "city", "yAxisKeys": ["population"]},
			{"type": "bar", "title": "unknown col", "xAxisKey": "city", "yAxisKeys": ["ghost"]},
			{"type": "sparkline", "title": "bad type", "xAxisKey": "city", "yAxisKeys": ["population"]},
			{"type": "bar", "title": "", "xAxisKey": "city", "yAxisKeys": ["population"]}
		]
	}`
	rep, err := ParseReport(content, []string{"city", "population"})
	if err != nil {
		t.Fatalf("ParseReport error: %v", err)
	}
	if len(rep.Charts) != 1 || rep.Charts[0].Title != "good" {
		t.Fatalf("expected only the valid chart to survive, got %+v", rep.Charts)
	}
	if len(rep.Charts[0].Palette) == 0 {
		t.Fatalf("expected validation to fill a default palette")
	}
}

func TestSampleTableBoundsRows(t *testing.T) {
	ds := analysisDataset()
	table := SampleTable(ds, 1)
	if strings.Count(table, "\n") != 3 { // header + separator + 1 row
		t.Fatalf("expected 1 data row, got table:\n%s", table)
	}
	if !strings.Contains(table, "paris") || strings.Contains(table, "lyon") {
		t.Fatalf("unexpected rows in table:\n%s", table)
	}
}

func TestSampleTableEscapesCells(t *testing.T) {
	ds := dataset.ParseCSV("notes.csv", "note\nline\n")
	ds.Rows[0]["note"] = dataset.Text("a|b\nc")
	table := SampleTable(ds, 5)
	if strings.Contains(table, "a|b") {
		t.Fatalf("pipe not escaped:\n%s", table)
	}
	if !strings.Contains(table, "a/b c") {
		t.Fatalf("expected sanitized cell, got:\n%s", table)
	}
}

func TestBuildPromptRespectsBudget(t *testing.T) {
	a := &Analyzer{PromptTokenBudget: 10}
	prompt := a.buildPrompt(analysisDataset())
	if got := len([]rune(prompt)); got > 40 {
		t.Fatalf("prompt exceeds budget: %d chars", got)
	}
}

func TestAnalyzeDatasetEndToEnd(t *testing.T) {
	report := `{"headline":"two cities","summary":"population dominates","insights":["paris is largest"],"charts":[{"type":"bar","title":"pop","xAxisKey":"city","yAxisKeys":["population"]}]}`
	srv := newIPv4Server(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(GenerateResponse{Choices: []Choice{{Message: Message{Role: "assistant", Content: report}}}})
	}))
	defer srv.Close()

	a := &Analyzer{
		Client: NewClientWithBaseURL("test", 2*time.Second, 1, 10*time.Millisecond, 50*time.Millisecond, srv.URL),
		Model:  "test-model",
	}
	rep, err := a.AnalyzeDataset(context.Background(), analysisDataset())
	if err != nil {
		t.Fatalf("AnalyzeDataset error: %v", err)
	}
	if rep.Headline != "two cities" || len(rep.Charts) != 1 {
		t.Fatalf("unexpected report: %+v", rep)
	}
	if rep.Charts[0].Type != charts.TypeBar {
		t.Fatalf("unexpected chart type: %v", rep.Charts[0].Type)
	}
}

func TestAnalyzeDatasetWrapsTransportError(t *testing.T) {
	srv := testServerSequence(t, []int{500}, nil, nil)
	defer srv.Close()

	a := &Analyzer{
		Client: NewClientWithBaseURL("test", 2*time.Second, 1, 10*time.Millisecond, 50*time.Millisecond, srv.URL),
		Model:  "test-model",
	}
	_, err := a.AnalyzeDataset(context.Background(), analysisDataset())
	if !errors.Is(err, ErrAnalysisFailure) {
		t.Fatalf("expected ErrAnalysisFailure, got %v", err)
	}
}

func TestExtractTableEndToEnd(t *testing.T) {
	transcription := `[{"name":"a","score":1},{"name":"b","score":2}]`
	srv := newIPv4Server(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(GenerateResponse{Choices: []Choice{{Message: Message{Role: "assistant", Content: transcription}}}})
	}))
	defer srv.Close()

	a := &Analyzer{
		Client:      NewClientWithBaseURL("test", 2*time.Second, 1, 10*time.Millisecond, 50*time.Millisecond, srv.URL),
		Model:       "test-model",
		VisionModel: "vision-model",
	}
	ds, err := a.ExtractTable(context.Background(), "photo.png", "image/png", []byte{0x89, 'P', 'N', 'G'})
	if err != nil {
		t.Fatalf("ExtractTable error: %v", err)
	}
	if ds.Len() != 2 || len(ds.Columns) != 2 {
		t.Fatalf("unexpected dataset: %+v", ds)
	}
	if ds.InferType("score") != dataset.TypeNumber {
		t.Fatalf("expected numeric score column")
	}
}

func TestExtractTableEmptyTranscription(t *testing.T) {
	srv := newIPv4Server(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(GenerateResponse{Choices: []Choice{{Message: Message{Role: "assistant", Content: "[]"}}}})
	}))
	defer srv.Close()

	a := &Analyzer{
		Client: NewClientWithBaseURL("test", 2*time.Second, 1, 10*time.Millisecond, 50*time.Millisecond, srv.URL),
		Model:  "test-model",
	}
	_, err := a.ExtractTable(context.Background(), "photo.png", "image/png", []byte{1})
	if !errors.Is(err, ErrImageExtraction) {
		t.Fatalf("expected ErrImageExtraction, got %v", err)
	}
}
