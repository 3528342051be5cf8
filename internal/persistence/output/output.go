// Package output writes and reads the creative item records file.
package output

import (
	"bytes"
	"encoding/json"
	"fmt"

	"creativecatalog.ai/internal/creative"
	"creativecatalog.ai/internal/persistence/blob"
)

const indent = "    "

// Encode renders records as a JSON array indented by four spaces. Tree
// payloads become standard base64 strings.
func Encode(records []creative.Record) ([]byte, error) {
	if records == nil {
		records = []creative.Record{}
	}
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetIndent("", indent)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(records); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// WriteRecords writes the records file atomically; a ".zst" suffix selects
// zstd compression.
func WriteRecords(path string, records []creative.Record) error {
	b, err := Encode(records)
	if err != nil {
		return err
	}
	if err := blob.WriteFile(path, b); err != nil {
		return fmt.Errorf("write records %s: %w", path, err)
	}
	return nil
}

func ReadRecords(path string) ([]creative.Record, error) {
	raw, err := blob.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var out []creative.Record
	if err := json.Unmarshal(raw, &out); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return out, nil
}
