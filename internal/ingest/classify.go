package ingest

import (
	"path/filepath"
	"strings"

	"github.com/Zuo-Peng/ai-chat-calendar/internal/parse"
	"github.com/Zuo-Peng/ai-chat-calendar/internal/record"
)

// Classify picks the platform of a decoded document. Checks run in order
// across all formats before moving to the next check: file name hint, entry
// shape of a top-level or data.<field> container, the container field name
// itself, and for array documents the shape of the first object entry.
func Classify(name string, doc any) (record.Platform, bool) {
	formats := parse.Formats()

	base := strings.ToLower(filepath.Base(name))
	for _, f := range formats {
		for _, hint := range f.FilenameHints {
			if strings.Contains(base, hint) {
				return f.Name, true
			}
		}
	}

	if obj, ok := doc.(*parse.Object); ok {
		// A container field may be shared between formats, so the entries
		// decide before the field name does.
		for _, prefix := range []string{"", "data."} {
			for _, f := range formats {
				if v, ok := obj.Path(prefix + f.TopLevelField); ok {
					if p, ok := sniffEntries(v, formats); ok {
						return p, true
					}
				}
			}
		}
		for _, prefix := range []string{"", "data."} {
			for _, f := range formats {
				if _, ok := obj.Path(prefix + f.TopLevelField); ok {
					return f.Name, true
				}
			}
		}
		return "", false
	}

	return sniffEntries(doc, formats)
}

// sniffEntries matches the first object entry of an array against each
// format's entry marker.
func sniffEntries(v any, formats []*parse.Format) (record.Platform, bool) {
	arr, ok := v.([]any)
	if !ok {
		return "", false
	}
	for _, e := range arr {
		entry, ok := e.(*parse.Object)
		if !ok {
			continue
		}
		for _, f := range formats {
			if _, ok := entry.Get(f.EntryMarker); ok {
				return f.Name, true
			}
		}
		break
	}
	return "", false
}
