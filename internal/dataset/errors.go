package dataset

import "errors"

// Pipeline error taxonomy. All parse-side failures wrap one of these
// sentinels so the orchestration boundary can fold them into a single
// user-visible message and return to the pre-upload state.
var (
	// ErrEmptyData means the source parsed cleanly but produced no rows.
	ErrEmptyData = errors.New("dataset contains no rows")
	// ErrInvalidFormat means the content does not match the declared or
	// inferred format (bad JSON, corrupt workbook).
	ErrInvalidFormat = errors.New("content does not match the expected format")
	// ErrReadFailure means the underlying byte read did not complete.
	ErrReadFailure = errors.New("failed to read source content")
	// ErrParseFailure means a format-specific structural parse error.
	ErrParseFailure = errors.New("failed to parse source content")
)
