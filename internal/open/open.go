// Package open shows a record in the user's editor.
package open

import (
	"bytes"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/Zuo-Peng/ai-chat-calendar/internal/export"
	"github.com/Zuo-Peng/ai-chat-calendar/internal/record"
)

// Record writes r as Markdown to a temporary file and opens it in $EDITOR
// (less when unset), positioned at the first line mentioning query.
func Record(r record.Record, query string) error {
	var buf bytes.Buffer
	if err := (&export.MarkdownExporter{}).Export([]record.Record{r}, &buf); err != nil {
		return fmt.Errorf("render record: %w", err)
	}

	dir, err := os.MkdirTemp("", "acc-open-")
	if err != nil {
		return err
	}
	defer os.RemoveAll(dir)

	filePath := filepath.Join(dir, safeName(r.ID)+".md")
	if err := os.WriteFile(filePath, buf.Bytes(), 0o600); err != nil {
		return err
	}

	editor := os.Getenv("EDITOR")
	if editor == "" {
		editor = "less"
	}

	cmd := editorCommand(editor, filePath, HitLine(buf.String(), query))
	cmd.Stdin = os.Stdin
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	return cmd.Run()
}

// HitLine returns the 1-based line of the first case-insensitive match of
// query, or 1.
func HitLine(text, query string) int {
	q := strings.ToLower(strings.TrimSpace(query))
	if q == "" {
		return 1
	}
	for i, line := range strings.Split(text, "\n") {
		if strings.Contains(strings.ToLower(line), q) {
			return i + 1
		}
	}
	return 1
}

func editorCommand(editor, filePath string, lineNum int) *exec.Cmd {
	switch {
	case strings.Contains(editor, "vim") || strings.Contains(editor, "nvim"):
		return exec.Command(editor, fmt.Sprintf("+%d", lineNum), filePath)
	case strings.Contains(editor, "code"):
		return exec.Command(editor, "--goto", filePath+":"+strconv.Itoa(lineNum))
	case strings.Contains(editor, "less"):
		return exec.Command(editor, "+"+strconv.Itoa(lineNum), filePath)
	default:
		return exec.Command(editor, filePath)
	}
}

func safeName(id string) string {
	return strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '-', r == '_':
			return r
		}
		return '_'
	}, id)
}
