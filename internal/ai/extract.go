package ai

import (
	"context"
	"encoding/base64"
	"fmt"
	"strings"

	"github.com/chartloom/chartloom-cli/internal/dataset"
)

const extractionPrompt = `The image contains a table. Transcribe it as a JSON array of flat
objects, one object per data row, using the table's header row for the
keys. Use plain numbers for numeric cells. Respond with the JSON array
only, no markdown fences, no commentary. If the image contains no
table, respond with [].`

// ExtractTable asks the vision collaborator to transcribe a
// photographed table into rows. Any failure, including an empty or
// non-array transcription, is ErrImageExtraction.
func (a *Analyzer) ExtractTable(ctx context.Context, name, mimeType string, image []byte) (*dataset.Dataset, error) {
	model := a.VisionModel
	if model == "" {
		model = a.Model
	}
	dataURI := fmt.Sprintf("data:%s;base64,%s", mimeType, base64.StdEncoding.EncodeToString(image))
	resp, err := a.Client.GenerateVision(ctx, VisionRequest{
		Model: model,
		Messages: []VisionMessage{
			{
				Role: "user",
				Content: []ContentPart{
					{Type: "text", Text: extractionPrompt},
					{Type: "image_url", ImageURL: &ImageURL{URL: dataURI}},
				},
			},
		},
		MaxTokens: a.MaxTokens,
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrImageExtraction, err)
	}
	content := stripFences(resp.Content())
	if strings.TrimSpace(content) == "" {
		return nil, fmt.Errorf("%w: empty transcription", ErrImageExtraction)
	}
	ds, err := dataset.ParseJSON(name, []byte(content))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrImageExtraction, err)
	}
	if ds.Len() == 0 {
		return nil, fmt.Errorf("%w: no rows transcribed", ErrImageExtraction)
	}
	return ds, nil
}
