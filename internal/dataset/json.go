package dataset

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// ParseJSON converts a top-level JSON array of flat objects into a
// dataset. Anything other than an array at the top level is
// ErrInvalidFormat. JSON scalars map onto cell kinds directly; nested
// values are kept as their raw JSON text.
func ParseJSON(name string, content []byte) (*Dataset, error) {
	var elems []json.RawMessage
	if err := json.Unmarshal(content, &elems); err != nil {
		return nil, fmt.Errorf("%w: top-level JSON value must be an array: %v", ErrInvalidFormat, err)
	}

	ds := &Dataset{Source: name}
	for i, raw := range elems {
		var obj map[string]json.RawMessage
		if err := json.Unmarshal(raw, &obj); err != nil {
			return nil, fmt.Errorf("%w: element %d is not an object: %v", ErrParseFailure, i, err)
		}
		row := make(Row, len(obj))
		for k, rv := range obj {
			row[k] = jsonValue(rv)
		}
		if ds.Columns == nil {
			cols, err := objectKeys(raw)
			if err != nil {
				return nil, fmt.Errorf("%w: %v", ErrParseFailure, err)
			}
			ds.Columns = cols
		}
		ds.Rows = append(ds.Rows, row)
	}
	return ds, nil
}

func jsonValue(raw json.RawMessage) Value {
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return Text(s)
	}
	var f float64
	if err := json.Unmarshal(raw, &f); err == nil {
		return Number(f)
	}
	var b bool
	if err := json.Unmarshal(raw, &b); err == nil {
		return Bool(b)
	}
	if bytes.Equal(bytes.TrimSpace(raw), []byte("null")) {
		return Null
	}
	// Nested object/array: keep the raw JSON as text.
	return Text(string(raw))
}

// objectKeys extracts the keys of a JSON object in document order.
// encoding/json maps are unordered, so the header order comes from a
// token walk over the first element instead.
func objectKeys(raw json.RawMessage) ([]string, error) {
	dec := json.NewDecoder(bytes.NewReader(raw))
	tok, err := dec.Token()
	if err != nil {
		return nil, err
	}
	if d, ok := tok.(json.Delim); !ok || d != '{' {
		return nil, fmt.Errorf("expected object, got %v", tok)
	}
	var keys []string
	for dec.More() {
		kt, err := dec.Token()
		if err != nil {
			return nil, err
		}
		key, ok := kt.(string)
		if !ok {
			return nil, fmt.Errorf("expected object key, got %v", kt)
		}
		keys = append(keys, key)
		// Skip the value.
		var skip json.RawMessage
		if err := dec.Decode(&skip); err != nil {
			return nil, err
		}
	}
	return keys, nil
}
