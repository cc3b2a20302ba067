package export

import (
	"fmt"
	"io"
	"strings"

	"github.com/Zuo-Peng/ai-chat-calendar/internal/record"
)

// MarkdownExporter writes one section per record, grouped under day headings.
type MarkdownExporter struct{}

func (e *MarkdownExporter) Export(records []record.Record, w io.Writer) error {
	if _, err := fmt.Fprintf(w, "# Conversations\n\n**Records:** %d\n\n", len(records)); err != nil {
		return err
	}

	day := ""
	for _, r := range records {
		d := r.Date.Format("2006-01-02")
		if d != day {
			day = d
			_, _ = fmt.Fprintf(w, "## %s\n\n", day)
		}
		star := ""
		if r.Starred {
			star = " ★"
		}
		_, _ = fmt.Fprintf(w, "### %s%s\n\n", r.Title, star)
		_, _ = fmt.Fprintf(w, "**Platform:** %s  \n", r.Platform.DisplayName())
		_, _ = fmt.Fprintf(w, "**ID:** %s  \n", r.ID)
		_, _ = fmt.Fprintf(w, "**Tags:** %s  \n", strings.Join(r.Tags, ", "))
		_, _ = fmt.Fprintf(w, "**Quality:** %.1f\n\n", r.Quality)
		if _, err := fmt.Fprintf(w, "%s\n\n---\n\n", escapeMarkdown(r.Content)); err != nil {
			return err
		}
	}
	return nil
}

// escapeMarkdown escapes emphasis markers outside fenced code blocks.
func escapeMarkdown(text string) string {
	lines := strings.Split(text, "\n")
	inCodeBlock := false
	for i, line := range lines {
		if strings.HasPrefix(line, "```") {
			inCodeBlock = !inCodeBlock
			continue
		}
		if inCodeBlock {
			continue
		}
		line = strings.ReplaceAll(line, "**", "\\*\\*")
		lines[i] = strings.ReplaceAll(line, "__", "\\_\\_")
	}
	return strings.Join(lines, "\n")
}

func (e *MarkdownExporter) Extension() string {
	return "md"
}
