// Copyright Kampmann Lab, 2026. All rights reserved.

package stringdb

import (
	"bufio"
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"strings"
)

// Table is a parsed tabular API result: named columns and rows in
// response order.
type Table struct {
	Columns []string
	Rows    [][]string
}

// Len returns the number of data rows.
func (t *Table) Len() int { return len(t.Rows) }

// ParseTSV parses tab-delimited text with a header row.
func ParseTSV(text string) (*Table, error) {
	text = strings.TrimRight(text, "\n")
	if text == "" {
		return nil, fmt.Errorf("empty tabular response")
	}

	lines := strings.Split(text, "\n")
	t := &Table{Columns: strings.Split(lines[0], "\t")}
	for _, line := range lines[1:] {
		t.Rows = append(t.Rows, strings.Split(line, "\t"))
	}
	return t, nil
}

// ParseJSONArray parses a JSON array of objects into a Table. Column
// order follows first appearance across the array, matching the field
// order the service emits. String values are unquoted; every other
// value keeps its compact JSON text so numbers round-trip unchanged.
// Keys missing from a given object yield an empty cell.
func ParseJSONArray(text string) (*Table, error) {
	dec := json.NewDecoder(strings.NewReader(text))

	tok, err := dec.Token()
	if err != nil {
		return nil, fmt.Errorf("parsing JSON response: %w", err)
	}
	if d, ok := tok.(json.Delim); !ok || d != '[' {
		return nil, fmt.Errorf("parsing JSON response: expected array, got %v", tok)
	}

	t := &Table{}
	colIndex := make(map[string]int)
	var records []map[string]string

	for dec.More() {
		rec, err := parseJSONObject(dec, t, colIndex)
		if err != nil {
			return nil, err
		}
		records = append(records, rec)
	}
	if _, err := dec.Token(); err != nil {
		return nil, fmt.Errorf("parsing JSON response: %w", err)
	}

	for _, rec := range records {
		row := make([]string, len(t.Columns))
		for col, val := range rec {
			row[colIndex[col]] = val
		}
		t.Rows = append(t.Rows, row)
	}
	return t, nil
}

// parseJSONObject consumes one object from the decoder, registering any
// new keys as table columns in encounter order.
func parseJSONObject(dec *json.Decoder, t *Table, colIndex map[string]int) (map[string]string, error) {
	tok, err := dec.Token()
	if err != nil {
		return nil, fmt.Errorf("parsing JSON response: %w", err)
	}
	if d, ok := tok.(json.Delim); !ok || d != '{' {
		return nil, fmt.Errorf("parsing JSON response: expected object, got %v", tok)
	}

	rec := make(map[string]string)
	for dec.More() {
		keyTok, err := dec.Token()
		if err != nil {
			return nil, fmt.Errorf("parsing JSON response: %w", err)
		}
		key, ok := keyTok.(string)
		if !ok {
			return nil, fmt.Errorf("parsing JSON response: non-string key %v", keyTok)
		}

		var raw json.RawMessage
		if err := dec.Decode(&raw); err != nil {
			return nil, fmt.Errorf("parsing JSON value for %q: %w", key, err)
		}

		if _, seen := colIndex[key]; !seen {
			colIndex[key] = len(t.Columns)
			t.Columns = append(t.Columns, key)
		}
		rec[key] = renderJSONValue(raw)
	}
	if _, err := dec.Token(); err != nil {
		return nil, fmt.Errorf("parsing JSON response: %w", err)
	}
	return rec, nil
}

// renderJSONValue converts a raw JSON value to its cell text. Strings
// lose their quotes; everything else is compacted as-is.
func renderJSONValue(raw json.RawMessage) string {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) > 0 && trimmed[0] == '"' {
		var s string
		if err := json.Unmarshal(trimmed, &s); err == nil {
			return s
		}
	}
	var buf bytes.Buffer
	if err := json.Compact(&buf, trimmed); err != nil {
		return string(trimmed)
	}
	return buf.String()
}

// WriteTSV writes the table as tab-separated text: one header row, then
// the data rows in order.
func (t *Table) WriteTSV(w io.Writer) error {
	bw := bufio.NewWriter(w)
	if _, err := bw.WriteString(strings.Join(t.Columns, "\t") + "\n"); err != nil {
		return err
	}
	for _, row := range t.Rows {
		if _, err := bw.WriteString(strings.Join(row, "\t") + "\n"); err != nil {
			return err
		}
	}
	return bw.Flush()
}
