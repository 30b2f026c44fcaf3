// Package ingest parses batch input files into work items. Each non-empty
// line or entry becomes one item, in file order.
package ingest

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"path/filepath"
	"strings"
)

// Format identifies a supported batch input format
type Format string

const (
	FormatText Format = "text"
	FormatCSV  Format = "csv"
	FormatJSON Format = "json"
)

// ParseFormat validates a user-supplied format name
func ParseFormat(s string) (Format, error) {
	switch Format(strings.ToLower(s)) {
	case FormatText:
		return FormatText, nil
	case FormatCSV:
		return FormatCSV, nil
	case FormatJSON:
		return FormatJSON, nil
	default:
		return "", fmt.Errorf("unsupported format %q (want text, csv, or json)", s)
	}
}

// DetectFormat guesses the format from a file name, defaulting to text
func DetectFormat(filename string) Format {
	switch strings.ToLower(filepath.Ext(filename)) {
	case ".csv":
		return FormatCSV
	case ".json":
		return FormatJSON
	default:
		return FormatText
	}
}

// Parse reads items from r in the given format. Blank entries are dropped;
// order is preserved.
func Parse(r io.Reader, format Format) ([]string, error) {
	switch format {
	case FormatCSV:
		return parseCSV(r)
	case FormatJSON:
		return parseJSON(r)
	default:
		return parseText(r)
	}
}

func parseText(r io.Reader) ([]string, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("failed to read input: %w", err)
	}

	normalized := strings.ReplaceAll(string(data), "\r\n", "\n")
	normalized = strings.ReplaceAll(normalized, "\r", "\n")

	var items []string
	for _, line := range strings.Split(normalized, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		items = append(items, line)
	}
	return items, nil
}

// parseCSV takes the first field of each row. RFC 4180 quoting applies:
// embedded quotes are doubled and fields may span lines.
func parseCSV(r io.Reader) ([]string, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1

	var items []string
	for {
		row, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to parse csv: %w", err)
		}
		if len(row) == 0 {
			continue
		}
		item := strings.TrimSpace(row[0])
		if item == "" {
			continue
		}
		items = append(items, item)
	}
	return items, nil
}

// parseJSON accepts an array of strings or of objects carrying a "text" field
func parseJSON(r io.Reader) ([]string, error) {
	var raw []json.RawMessage
	if err := json.NewDecoder(r).Decode(&raw); err != nil {
		return nil, fmt.Errorf("failed to parse json: %w", err)
	}

	var items []string
	for i, msg := range raw {
		var s string
		if err := json.Unmarshal(msg, &s); err == nil {
			if s = strings.TrimSpace(s); s != "" {
				items = append(items, s)
			}
			continue
		}

		var obj struct {
			Text string `json:"text"`
		}
		if err := json.Unmarshal(msg, &obj); err != nil {
			return nil, fmt.Errorf("entry %d is neither a string nor an object: %w", i, err)
		}
		if text := strings.TrimSpace(obj.Text); text != "" {
			items = append(items, text)
		}
	}
	return items, nil
}
