package export

import (
	"errors"
	"fmt"
)

// ErrUnsupportedFormat is returned by NewExporter for an unknown format.
var ErrUnsupportedFormat = errors.New("unsupported format")

// ExportError represents errors during export
type ExportError struct {
	Format string
	Path   string
	Err    error
}

func (e *ExportError) Error() string {
	if e.Path == "" {
		return fmt.Sprintf("export error [%s]: %v", e.Format, e.Err)
	}
	return fmt.Sprintf("export error [%s] %s: %v", e.Format, e.Path, e.Err)
}

func (e *ExportError) Unwrap() error {
	return e.Err
}
