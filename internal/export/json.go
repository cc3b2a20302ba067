package export

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/Zuo-Peng/ai-chat-calendar/internal/record"
)

// JSONExporter writes a pretty-printed JSON array of records.
type JSONExporter struct{}

func (e *JSONExporter) Export(records []record.Record, w io.Writer) error {
	if records == nil {
		records = []record.Record{}
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(records)
}

func (e *JSONExporter) Extension() string {
	return "json"
}

// JSONLExporter writes one record per line.
type JSONLExporter struct{}

func (e *JSONLExporter) Export(records []record.Record, w io.Writer) error {
	enc := json.NewEncoder(w)
	for _, r := range records {
		if err := enc.Encode(r); err != nil {
			return fmt.Errorf("encode record %s: %w", r.ID, err)
		}
	}
	return nil
}

func (e *JSONLExporter) Extension() string {
	return "jsonl"
}

// ReadJSON decodes a JSON array written by JSONExporter.
func ReadJSON(r io.Reader) ([]record.Record, error) {
	var out []record.Record
	if err := json.NewDecoder(r).Decode(&out); err != nil {
		return nil, fmt.Errorf("decode records: %w", err)
	}
	return out, nil
}
