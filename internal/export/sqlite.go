package export

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/Zuo-Peng/ai-chat-calendar/internal/record"
)

// SQLiteExporter writes a searchable sqlite archive. The database is built in
// a temporary directory and then streamed to w.
type SQLiteExporter struct{}

func (e *SQLiteExporter) Export(records []record.Record, w io.Writer) error {
	dir, err := os.MkdirTemp("", "acc-export-")
	if err != nil {
		return err
	}
	defer os.RemoveAll(dir)

	path := filepath.Join(dir, "archive.db")
	a, err := OpenArchive(path)
	if err != nil {
		return err
	}
	if err := a.Insert(records); err != nil {
		a.Close()
		return fmt.Errorf("write archive: %w", err)
	}
	if err := a.Close(); err != nil {
		return err
	}

	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()
	_, err = io.Copy(w, f)
	return err
}

func (e *SQLiteExporter) Extension() string {
	return "db"
}
