package render

import (
	"reflect"
	"strings"
	"testing"
	"time"

	"github.com/Zuo-Peng/ai-chat-calendar/internal/record"
)

func TestTurns(t *testing.T) {
	content := "user: hello\n\nassistant: first para\n\nsecond para\n\nHuman: again"
	want := []Turn{
		{Role: "user", Text: "hello"},
		{Role: "assistant", Text: "first para\n\nsecond para"},
		{Role: "Human", Text: "again"},
	}
	if got := Turns(content); !reflect.DeepEqual(got, want) {
		t.Errorf("Turns() = %+v, want %+v", got, want)
	}

	blob := Turns("User: a\nAI: b")
	if len(blob) != 1 || blob[0].Role != "User" || blob[0].Text != "a\nAI: b" {
		t.Errorf("blob Turns() = %+v", blob)
	}

	raw := Turns("no label here")
	if len(raw) != 1 || raw[0].Role != "" {
		t.Errorf("unlabelled Turns() = %+v", raw)
	}
}

func TestWrapLine(t *testing.T) {
	tests := []struct {
		name  string
		line  string
		width int
		want  []string
	}{
		{"no wrap", "abcdef", 0, []string{"abcdef"}},
		{"ascii", "abcdef", 4, []string{"abcd", "ef"}},
		{"wide runes", "日本語", 4, []string{"日本", "語"}},
		{"ansi not counted", "\033[1mab\033[0mcd", 2, []string{"\033[1mab\033[0m", "cd"}},
		{"empty", "", 5, []string{""}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := wrapLine(tt.line, tt.width); !reflect.DeepEqual(got, tt.want) {
				t.Errorf("wrapLine() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestHighlightKeywords(t *testing.T) {
	got := highlightKeywords("Go is go", "GO")
	want := colorBoldRed + "Go" + colorReset + " is " + colorBoldRed + "go" + colorReset
	if got != want {
		t.Errorf("highlightKeywords() = %q, want %q", got, want)
	}
	if highlightKeywords("x", "") != "x" {
		t.Error("empty query should not change text")
	}
}

func TestRecord(t *testing.T) {
	r := record.Build(record.Fields{
		ID:       "g1",
		Platform: record.ChatGPT,
		Title:    "Channels",
		Date:     time.Date(2024, 1, 5, 10, 0, 0, 0, time.UTC),
		Content:  "user: how do channels work\n\nassistant: they pass values between goroutines",
	}, time.Date(2024, 1, 6, 0, 0, 0, 0, time.UTC))

	out, hit := Record(r, Options{Plain: true, Query: "goroutines"})
	if strings.Contains(out, "\033[") {
		t.Error("plain output contains ANSI codes")
	}
	lines := strings.Split(out, "\n")
	if hit < 0 || lines[hit] != ">> ASST <<" {
		t.Errorf("hit line %d = %q", hit, lines[max(hit, 0)])
	}
	for _, want := range []string{"--- g1 [ChatGPT] 2024-01-05 10:00 ---", "Channels", "USER >", "  how do channels work"} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}

	_, hit = Record(r, Options{Plain: true})
	if hit != -1 {
		t.Errorf("hit without query = %d", hit)
	}
}

func TestTruncate(t *testing.T) {
	if got := Truncate("short", 10); got != "short" {
		t.Errorf("Truncate() = %q", got)
	}
	if got := Truncate("a\nb", 10); got != "a b" {
		t.Errorf("newlines should flatten, got %q", got)
	}
	got := Truncate("abcdefghij", 5)
	if got != "abcd…" {
		t.Errorf("Truncate() = %q, want abcd…", got)
	}
}
