// Package export writes a record set to a file artifact in one of several
// formats.
package export

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/Zuo-Peng/ai-chat-calendar/internal/record"
)

// Exporter writes records in one format.
type Exporter interface {
	Export(records []record.Record, w io.Writer) error
	Extension() string
}

var exporters = map[string]func() Exporter{
	"json":     func() Exporter { return &JSONExporter{} },
	"jsonl":    func() Exporter { return &JSONLExporter{} },
	"yaml":     func() Exporter { return &YAMLExporter{} },
	"yml":      func() Exporter { return &YAMLExporter{} },
	"md":       func() Exporter { return &MarkdownExporter{} },
	"markdown": func() Exporter { return &MarkdownExporter{} },
	"sqlite":   func() Exporter { return &SQLiteExporter{} },
	"db":       func() Exporter { return &SQLiteExporter{} },
}

// Formats lists the canonical format names.
func Formats() []string {
	return []string{"json", "jsonl", "yaml", "md", "sqlite"}
}

// NewExporter returns the exporter for format. Empty means json.
func NewExporter(format string) (Exporter, error) {
	f := strings.ToLower(strings.TrimSpace(format))
	if f == "" {
		f = "json"
	}
	mk, ok := exporters[f]
	if !ok {
		names := make([]string, 0, len(exporters))
		for k := range exporters {
			names = append(names, k)
		}
		sort.Strings(names)
		return nil, &ExportError{Format: format, Err: fmt.Errorf("%w (supported: %s)", ErrUnsupportedFormat, strings.Join(names, ", "))}
	}
	return mk(), nil
}

// FileName returns "<name>.<ext>" for exp.
func FileName(name string, exp Exporter) string {
	return name + "." + exp.Extension()
}

// WriteFile exports records to dir/<name>.<ext> and returns the path.
func WriteFile(dir, name string, exp Exporter, records []record.Record) (string, error) {
	path := filepath.Join(dir, FileName(name, exp))
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", &ExportError{Format: exp.Extension(), Path: path, Err: err}
	}
	f, err := os.Create(path)
	if err != nil {
		return "", &ExportError{Format: exp.Extension(), Path: path, Err: err}
	}
	if err := exp.Export(records, f); err != nil {
		_ = f.Close()
		return "", &ExportError{Format: exp.Extension(), Path: path, Err: err}
	}
	if err := f.Close(); err != nil {
		return "", &ExportError{Format: exp.Extension(), Path: path, Err: err}
	}
	return path, nil
}
