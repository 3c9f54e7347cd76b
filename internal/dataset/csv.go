package dataset

import "strings"

// ParseCSV converts comma-delimited text into a dataset.
//
// The split is a naive per-comma split: quoted fields containing
// commas are NOT honored. Callers that need RFC 4180 quoting must
// pre-process; the rest of the pipeline assumes this rule.
//
// Rules:
//   - lines are split on newline, blank lines dropped;
//   - fewer than 2 non-blank lines yields an empty dataset, not an error;
//   - the first line is the header: comma-split, trimmed, one layer of
//     surrounding double quotes stripped per token;
//   - a data line is kept only when it has at least as many fields as
//     there are headers (extra trailing fields are ignored, short rows
//     are dropped entirely);
//   - each kept field is trimmed, quote-stripped, and stored as a
//     number when non-empty and fully numeric, otherwise as text.
func ParseCSV(name string, content string) *Dataset {
	ds := &Dataset{Source: name}
	lines := make([]string, 0, 16)
	for _, ln := range strings.Split(content, "\n") {
		if strings.TrimSpace(ln) != "" {
			lines = append(lines, ln)
		}
	}
	if len(lines) < 2 {
		return ds
	}

	rawHeader := strings.Split(lines[0], ",")
	headers := make([]string, len(rawHeader))
	for i, h := range rawHeader {
		headers[i] = stripQuotes(strings.TrimSpace(h))
	}
	ds.Columns = headers

	for _, ln := range lines[1:] {
		fields := strings.Split(ln, ",")
		if len(fields) < len(headers) {
			continue
		}
		row := make(Row, len(headers))
		for i, h := range headers {
			row[h] = coerceField(stripQuotes(strings.TrimSpace(fields[i])))
		}
		ds.Rows = append(ds.Rows, row)
	}
	return ds
}
