package dataset

import (
	"fmt"
	"path/filepath"
	"strings"
)

// Format is the detected source format of an upload.
type Format uint8

const (
	FormatCSV Format = iota
	FormatJSON
	FormatXLSX
	FormatImage
)

func (f Format) String() string {
	switch f {
	case FormatJSON:
		return "json"
	case FormatXLSX:
		return "xlsx"
	case FormatImage:
		return "image"
	}
	return "csv"
}

// DetectFormat picks a format from file name and MIME type. CSV is the
// fallback for any unrecognized text content. Image uploads are routed
// by the caller to the table-extraction collaborator, not to Parse.
func DetectFormat(name, mimeType string) Format {
	ext := strings.ToLower(filepath.Ext(name))
	mt := strings.ToLower(strings.TrimSpace(mimeType))
	switch {
	case ext == ".xlsx" || ext == ".xls" || strings.Contains(mt, "spreadsheet"):
		return FormatXLSX
	case strings.HasPrefix(mt, "image/") || ext == ".png" || ext == ".jpg" || ext == ".jpeg" || ext == ".webp":
		return FormatImage
	case ext == ".json" || strings.Contains(mt, "json"):
		return FormatJSON
	}
	return FormatCSV
}

// Parse converts raw uploaded content into a dataset according to the
// detected format. FormatImage is not parseable here and returns
// ErrInvalidFormat; callers hand images to the extraction collaborator.
func Parse(name, mimeType string, content []byte) (*Dataset, error) {
	switch DetectFormat(name, mimeType) {
	case FormatXLSX:
		return ParseXLSX(name, content)
	case FormatJSON:
		return ParseJSON(name, content)
	case FormatImage:
		return nil, fmt.Errorf("%w: image content requires table extraction", ErrInvalidFormat)
	}
	return ParseCSV(name, string(content)), nil
}
