package export

import (
	"io"

	"gopkg.in/yaml.v3"

	"github.com/Zuo-Peng/ai-chat-calendar/internal/record"
)

// YAMLExporter writes records as a YAML sequence.
type YAMLExporter struct{}

func (e *YAMLExporter) Export(records []record.Record, w io.Writer) error {
	if records == nil {
		records = []record.Record{}
	}
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	defer func() { _ = enc.Close() }()

	return enc.Encode(records)
}

func (e *YAMLExporter) Extension() string {
	return "yaml"
}
