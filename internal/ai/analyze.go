package ai

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/chartloom/chartloom-cli/internal/charts"
	"github.com/chartloom/chartloom-cli/internal/dataset"
	"github.com/chartloom/chartloom-cli/internal/utils"
)

// SampleRowLimit bounds how many leading rows are shared with the
// analysis collaborator per upload.
const SampleRowLimit = 30

// Report is the structured output of the analysis collaborator.
type Report struct {
	Headline string          `json:"headline"`
	Summary  string          `json:"summary"`
	Insights []string        `json:"insights"`
	Charts   []charts.Config `json:"charts"`
}

// Analyzer wraps a Client with the prompt and validation logic for
// dataset analysis.
type Analyzer struct {
	Client      *Client
	Model       string
	VisionModel string
	SampleRows  int
	MaxTokens   int
	Temperature float64
	// PromptTokenBudget caps the estimated prompt size; the sample
	// table is truncated to fit.
	PromptTokenBudget int
}

const analysisSystemPrompt = `You are a data analyst. You receive a sample of a tabular dataset.
Respond with a single JSON object and nothing else, using this shape:
{
  "headline": "one sentence naming the most notable finding",
  "summary": "a short paragraph describing the dataset",
  "insights": ["three to six short observations"],
  "charts": [
    {
      "type": "bar|line|area|pie|scatter|boxplot|radar",
      "title": "chart title",
      "description": "what the chart shows",
      "xAxisKey": "column for the category/x axis",
      "yAxisKeys": ["one or more numeric columns"],
      "colors": ["#hex", "..."]
    }
  ]
}
Only reference columns that exist in the sample. Do not wrap the JSON in markdown fences.`

// AnalyzeDataset sends a bounded sample of the unfiltered dataset to
// the collaborator and returns its validated report. Malformed or
// empty output is ErrAnalysisFailure; the caller resets to the
// pre-upload state on any error here.
func (a *Analyzer) AnalyzeDataset(ctx context.Context, ds *dataset.Dataset) (*Report, error) {
	prompt := a.buildPrompt(ds)
	resp, err := a.Client.Generate(ctx, GenerateRequest{
		Model: a.Model,
		Messages: []Message{
			{Role: "system", Content: analysisSystemPrompt},
			{Role: "user", Content: prompt},
		},
		MaxTokens:   a.MaxTokens,
		Temperature: a.Temperature,
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrAnalysisFailure, err)
	}
	rep, err := ParseReport(resp.Content(), ds.Columns)
	if err != nil {
		return nil, err
	}
	return rep, nil
}

func (a *Analyzer) buildPrompt(ds *dataset.Dataset) string {
	limit := a.SampleRows
	if limit <= 0 || limit > SampleRowLimit {
		limit = SampleRowLimit
	}
	var b strings.Builder
	fmt.Fprintf(&b, "Dataset: %s\n", ds.Source)
	fmt.Fprintf(&b, "Rows: %d\n", ds.Len())
	fmt.Fprintf(&b, "Columns: %s\n\n", strings.Join(ds.Columns, ", "))
	b.WriteString("Sample rows:\n")
	b.WriteString(SampleTable(ds, limit))

	out := b.String()
	if a.PromptTokenBudget > 0 {
		out = utils.TruncateToTokenLimit(out, a.PromptTokenBudget)
	}
	return out
}

// SampleTable renders up to limit leading rows as a compact markdown
// table, suitable for prompts.
func SampleTable(ds *dataset.Dataset, limit int) string {
	var b strings.Builder
	b.WriteString("| ")
	for i, c := range ds.Columns {
		if i > 0 {
			b.WriteString(" | ")
		}
		b.WriteString(safeCell(c))
	}
	b.WriteString(" |\n| ")
	for i := range ds.Columns {
		if i > 0 {
			b.WriteString(" | ")
		}
		b.WriteString("---")
	}
	b.WriteString(" |\n")
	for _, row := range ds.Head(limit) {
		b.WriteString("| ")
		for i, c := range ds.Columns {
			if i > 0 {
				b.WriteString(" | ")
			}
			val := row.Value(c).Text()
			if len(val) > 80 {
				val = val[:77] + "..."
			}
			b.WriteString(safeCell(val))
		}
		b.WriteString(" |\n")
	}
	return b.String()
}

func safeCell(s string) string {
	return strings.ReplaceAll(strings.ReplaceAll(s, "\n", " "), "|", "/")
}

// ParseReport decodes the collaborator's response content into a
// Report. Markdown fences are tolerated; chart configs that fail
// validation or reference unknown columns are dropped. A report with
// neither headline nor summary is ErrAnalysisFailure.
func ParseReport(content string, columns []string) (*Report, error) {
	content = stripFences(content)
	if strings.TrimSpace(content) == "" {
		return nil, fmt.Errorf("%w: empty response", ErrAnalysisFailure)
	}
	var rep Report
	if err := json.Unmarshal([]byte(content), &rep); err != nil {
		return nil, fmt.Errorf("%w: decode report: %v", ErrAnalysisFailure, err)
	}
	if strings.TrimSpace(rep.Headline) == "" && strings.TrimSpace(rep.Summary) == "" {
		return nil, fmt.Errorf("%w: report carries no narrative", ErrAnalysisFailure)
	}
	known := make(map[string]bool, len(columns))
	for _, c := range columns {
		known[c] = true
	}
	kept := rep.Charts[:0]
	for i := range rep.Charts {
		c := rep.Charts[i]
		if err := c.Validate(); err != nil {
			continue
		}
		if !known[c.XKey] {
			continue
		}
		ok := true
		for _, y := range c.YKeys {
			if !known[y] {
				ok = false
				break
			}
		}
		if ok {
			kept = append(kept, c)
		}
	}
	rep.Charts = kept
	return &rep, nil
}

// stripFences removes one layer of ```...``` wrapping if present.
func stripFences(s string) string {
	t := strings.TrimSpace(s)
	if !strings.HasPrefix(t, "```") {
		return t
	}
	t = strings.TrimPrefix(t, "```")
	if i := strings.Index(t, "\n"); i >= 0 {
		t = t[i+1:] // drop the language tag line
	}
	if i := strings.LastIndex(t, "```"); i >= 0 {
		t = t[:i]
	}
	return strings.TrimSpace(t)
}
