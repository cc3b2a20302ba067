// Package render draws records as coloured, wrapped terminal text.
package render

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/mattn/go-runewidth"

	"github.com/Zuo-Peng/ai-chat-calendar/internal/record"
)

const (
	colorReset   = "\033[0m"
	colorUser    = "\033[1;34m" // bold blue
	colorAssist  = "\033[1;32m" // bold green
	colorSystem  = "\033[2;35m" // dim magenta
	colorDim     = "\033[2m"
	colorHit     = "\033[43m"   // yellow background
	colorBoldRed = "\033[1;31m" // bold red for keyword highlights
	colorStar    = "\033[1;33m"
)

type Options struct {
	Width int    // wrap width (0 = no wrap)
	Query string // terms to highlight
	Plain bool   // no ANSI colour
}

// Turn is one speaker block of a record's content.
type Turn struct {
	Role string
	Text string
}

var knownRoles = map[string]bool{
	"user": true, "human": true, "assistant": true, "ai": true,
	"system": true, "tool": true, "unknown": true,
}

// Turns splits content back into speaker blocks. A paragraph that does not
// start with a known "role:" label belongs to the previous turn.
func Turns(content string) []Turn {
	var turns []Turn
	for _, para := range strings.Split(content, "\n\n") {
		role, text, ok := strings.Cut(para, ": ")
		if ok && knownRoles[strings.ToLower(role)] {
			turns = append(turns, Turn{Role: role, Text: text})
			continue
		}
		if len(turns) == 0 {
			turns = append(turns, Turn{Text: para})
			continue
		}
		turns[len(turns)-1].Text += "\n\n" + para
	}
	return turns
}

// highlightKeywords wraps case-insensitive matches of query terms in bold red ANSI codes.
func highlightKeywords(text, query string) string {
	for _, term := range strings.Fields(query) {
		lower := strings.ToLower(term)
		i := 0
		for i < len(text) {
			idx := strings.Index(strings.ToLower(text[i:]), lower)
			if idx < 0 {
				break
			}
			pos := i + idx
			orig := text[pos : pos+len(term)]
			replacement := colorBoldRed + orig + colorReset
			text = text[:pos] + replacement + text[pos+len(term):]
			i = pos + len(replacement)
		}
	}
	return text
}

// indentLines prepends each line of text with the given prefix.
func indentLines(text, prefix string) string {
	lines := strings.Split(text, "\n")
	for i, l := range lines {
		lines[i] = prefix + l
	}
	return strings.Join(lines, "\n")
}

// wrapLine breaks a single line into multiple lines that fit within maxWidth
// visible columns, skipping ANSI escape sequences when measuring width.
func wrapLine(line string, maxWidth int) []string {
	if maxWidth <= 0 {
		return []string{line}
	}

	var result []string
	var cur strings.Builder
	visW := 0

	i := 0
	for i < len(line) {
		// ANSI escape sequence: ESC[ ... m
		if i+1 < len(line) && line[i] == '\033' && line[i+1] == '[' {
			j := i + 2
			for j < len(line) && line[j] != 'm' {
				j++
			}
			if j < len(line) {
				j++ // include 'm'
			}
			cur.WriteString(line[i:j])
			i = j
			continue
		}

		r, size := utf8.DecodeRuneInString(line[i:])
		rw := runewidth.RuneWidth(r)

		if visW+rw > maxWidth {
			result = append(result, cur.String())
			cur.Reset()
			visW = 0
		}

		cur.WriteRune(r)
		visW += rw
		i += size
	}

	if cur.Len() > 0 {
		result = append(result, cur.String())
	}

	if len(result) == 0 {
		return []string{""}
	}
	return result
}

func roleStyle(role string) (color, label string) {
	switch strings.ToLower(role) {
	case "user", "human":
		return colorUser, "USER"
	case "assistant", "ai":
		return colorAssist, "ASST"
	case "":
		return colorDim, "TEXT"
	default:
		return colorSystem, strings.ToUpper(role)
	}
}

// Record renders r and returns the text and the 0-based line of the first
// turn that mentions the query (-1 when there is none).
func Record(r record.Record, opts Options) (string, int) {
	var b strings.Builder
	hitLine := -1
	lineCount := 0

	paint := func(color, s string) string {
		if opts.Plain || color == "" {
			return s
		}
		return color + s + colorReset
	}

	writeLine := func(s string) {
		for _, wl := range wrapLine(s, opts.Width) {
			b.WriteString(wl)
			b.WriteString("\n")
			lineCount++
		}
	}

	star := ""
	if r.Starred {
		star = " " + paint(colorStar, "★")
	}
	writeLine(paint(colorDim, fmt.Sprintf("--- %s [%s] %s ---", r.ID, r.Platform.DisplayName(), r.Date.Format("2006-01-02 15:04"))))
	writeLine(r.Title + star)
	writeLine(paint(colorDim, fmt.Sprintf("tags: %s  quality: %.1f", strings.Join(r.Tags, ", "), r.Quality)))
	writeLine("")

	separator := paint(colorDim, strings.Repeat("-", 50))
	query := strings.ToLower(strings.TrimSpace(opts.Query))
	for i, t := range Turns(r.Content) {
		if i > 0 {
			writeLine(separator)
		}
		color, label := roleStyle(t.Role)
		if hitLine < 0 && query != "" && strings.Contains(strings.ToLower(t.Text), query) {
			hitLine = lineCount
			writeLine(paint(colorHit, fmt.Sprintf(">> %s <<", label)))
		} else {
			writeLine(paint(color, label+" >"))
		}

		text := t.Text
		if !opts.Plain {
			text = highlightKeywords(text, opts.Query)
		}
		for _, tl := range strings.Split(indentLines(text, "  "), "\n") {
			writeLine(tl)
		}
		writeLine("") // blank line after message
	}

	return b.String(), hitLine
}

// Truncate cuts s to at most w display columns, adding an ellipsis when cut.
func Truncate(s string, w int) string {
	s = strings.ReplaceAll(s, "\n", " ")
	if runewidth.StringWidth(s) <= w {
		return s
	}
	return runewidth.Truncate(s, w, "…")
}
