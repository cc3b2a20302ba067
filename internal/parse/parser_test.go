package parse

import (
	"errors"
	"io"
	"log/slog"
	"math"
	"reflect"
	"strings"
	"testing"
	"time"

	"github.com/Zuo-Peng/ai-chat-calendar/internal/quality"
	"github.com/Zuo-Peng/ai-chat-calendar/internal/record"
)

var testNow = time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)

func testEnv() Env {
	return Env{
		Now:    testNow,
		UserID: "tester",
		Logger: slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
}

func mustDecode(t *testing.T, s string) any {
	t.Helper()
	doc, err := Decode([]byte(s))
	if err != nil {
		t.Fatalf("Decode() error = %v", err)
	}
	return doc
}

func parseWith(t *testing.T, p record.Platform, s string) *Result {
	t.Helper()
	parser, ok := Lookup(p)
	if !ok {
		t.Fatalf("Lookup(%s) found no parser", p)
	}
	res, err := parser.Parse(mustDecode(t, s), testEnv())
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}
	return res
}

func assertInvariants(t *testing.T, recs []record.Record) {
	t.Helper()
	for i, r := range recs {
		if len(r.Tags) == 0 {
			t.Errorf("record %d has no tags", i)
		}
		if !validQuality(r.Quality) {
			t.Errorf("record %d quality %v out of range", i, r.Quality)
		}
		if strings.TrimSpace(r.Content) == "" {
			t.Errorf("record %d has empty content", i)
		}
		if r.Title == "" || r.ID == "" {
			t.Errorf("record %d missing title or id: %+v", i, r)
		}
	}
}

func TestChatGPT_SingleTurnScenario(t *testing.T) {
	doc := `{"conversations": [{"title": "T", "create_time": 1700000000, "mapping": {"a": {"message": {"author": {"role": "user"}, "content": {"parts": ["hello world"]}}}}}]}`

	res := parseWith(t, record.ChatGPT, doc)
	if len(res.Records) != 1 {
		t.Fatalf("Parse() returned %d records, want 1", len(res.Records))
	}
	r := res.Records[0]
	if r.Content != "user: hello world" {
		t.Errorf("Content = %q, want %q", r.Content, "user: hello world")
	}
	if !reflect.DeepEqual(r.Tags, []string{"general"}) {
		t.Errorf("Tags = %v, want [general]", r.Tags)
	}
	// Base 3, minus 1 for content under 100 runes. See DESIGN.md, Open
	// Question decisions, on the single-turn quality.
	if r.Quality != 2 {
		t.Errorf("Quality = %v, want 2", r.Quality)
	}
	if r.Title != "T" {
		t.Errorf("Title = %q, want T", r.Title)
	}
	if want := time.Unix(1700000000, 0).UTC(); !r.Date.Equal(want) {
		t.Errorf("Date = %v, want %v", r.Date, want)
	}
	if r.ID != "chatgpt_0" {
		t.Errorf("ID = %q, want synthesized chatgpt_0", r.ID)
	}
	if r.Platform != record.ChatGPT || r.Starred {
		t.Errorf("unexpected platform/starred: %s %v", r.Platform, r.Starred)
	}
	if r.UserID != "tester" || !r.ExtractedAt.Equal(testNow) {
		t.Errorf("provenance = %q %v", r.UserID, r.ExtractedAt)
	}
}

func TestChatGPT_MappingOrderAndFiltering(t *testing.T) {
	doc := `[{
		"id": "conv-1",
		"title": "Ordering",
		"mapping": {
			"root": {"message": null},
			"z": {"message": {"author": {"role": "user"}, "content": {"content_type": "text", "parts": ["first"]}}},
			"a": {"message": {"author": {"role": "assistant"}, "content": {"parts": ["second", "line"]}}},
			"sys": {"message": {"author": {"role": "system"}, "content": {"parts": [""]}}},
			"img": {"message": {"author": {"role": "user"}, "content": {"parts": [{"content_type": "image_asset_pointer"}]}}}
		}
	}]`

	res := parseWith(t, record.ChatGPT, doc)
	if len(res.Records) != 1 {
		t.Fatalf("Parse() returned %d records, want 1", len(res.Records))
	}
	want := "user: first\n\nassistant: second\nline"
	if got := res.Records[0].Content; got != want {
		t.Errorf("Content = %q, want %q", got, want)
	}
	if res.Records[0].ID != "conv-1" {
		t.Errorf("ID = %q, want conv-1", res.Records[0].ID)
	}
}

func TestChatGPT_Variants(t *testing.T) {
	tests := []struct {
		name        string
		doc         string
		wantContent []string
	}{
		{
			name:        "nested data container",
			doc:         `{"data": {"conversations": [{"messages": [{"role": "user", "content": "hi"}, {"author": {"role": "assistant"}, "message": "hello"}]}]}}`,
			wantContent: []string{"user: hi\n\nassistant: hello"},
		},
		{
			name:        "blob turn",
			doc:         `{"conversations": [{"conversation": "User: a\nAI: b"}]}`,
			wantContent: []string{"User: a\nAI: b"},
		},
		{
			name:        "blob with role",
			doc:         `{"conversations": [{"conversation": {"role": "user", "text": "hey"}}]}`,
			wantContent: []string{"user: hey"},
		},
		{
			name:        "numeric and array content coerced",
			doc:         `{"conversations": [{"messages": [{"role": "user", "content": 42}, {"role": "assistant", "content": ["a", "b"]}]}]}`,
			wantContent: []string{"user: 42\n\nassistant: a\nb"},
		},
		{
			name:        "missing role",
			doc:         `{"conversations": [{"messages": [{"content": "orphan"}]}]}`,
			wantContent: []string{"unknown: orphan"},
		},
		{
			name:        "empty entries dropped silently",
			doc:         `{"conversations": [{"messages": []}, {"mapping": {}}, {"messages": [{"role": "user", "content": "   "}]}, {"messages": [{"role": "user", "content": "kept"}]}]}`,
			wantContent: []string{"user: kept"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := parseWith(t, record.ChatGPT, tt.doc)
			if len(res.Skipped) != 0 {
				t.Errorf("Skipped = %v, want none", res.Skipped)
			}
			var got []string
			for _, r := range res.Records {
				got = append(got, r.Content)
			}
			if !reflect.DeepEqual(got, tt.wantContent) {
				t.Errorf("contents = %q, want %q", got, tt.wantContent)
			}
			assertInvariants(t, res.Records)
		})
	}
}

func TestChatGPT_MalformedEntriesIsolated(t *testing.T) {
	doc := `{"conversations": [
		"not an object",
		{"title": "no turns"},
		{"messages": [1, 2]},
		{"title": "good", "messages": [{"role": "user", "content": "ok"}]}
	]}`

	res := parseWith(t, record.ChatGPT, doc)
	if len(res.Records) != 1 || res.Records[0].Title != "good" {
		t.Fatalf("Records = %+v, want only the good entry", res.Records)
	}
	if len(res.Skipped) != 3 {
		t.Fatalf("Skipped = %d, want 3", len(res.Skipped))
	}
	if res.Skipped[1].Index != 1 || !errors.Is(res.Skipped[1], ErrNoTurns) {
		t.Errorf("Skipped[1] = %v, want ErrNoTurns at index 1", res.Skipped[1])
	}
	// the good entry keeps its own ordinal in synthesized fields
	if res.Records[0].ID != "chatgpt_3" {
		t.Errorf("ID = %q, want chatgpt_3", res.Records[0].ID)
	}
}

func TestContainerNotFound(t *testing.T) {
	for _, p := range []record.Platform{record.ChatGPT, record.Claude} {
		parser, _ := Lookup(p)
		_, err := parser.Parse(mustDecode(t, `{"something": []}`), testEnv())
		if !errors.Is(err, ErrContainerNotFound) {
			t.Errorf("%s: Parse() error = %v, want ErrContainerNotFound", p, err)
		}
		var de *DocumentError
		if !errors.As(err, &de) || de.Platform != p {
			t.Errorf("%s: error should be a DocumentError for the platform, got %T", p, err)
		}
	}
}

func TestClaude_Export(t *testing.T) {
	doc := `[
		{
			"uuid": "c-1",
			"name": "Debugging session",
			"created_at": "2024-01-05T10:00:00.000000Z",
			"chat_messages": [
				{"sender": "human", "text": "Why does this error happen?", "content": [{"type": "text", "text": "Why does this error happen?"}]},
				{"sender": "assistant", "text": "", "content": [{"type": "text", "text": "Because of a nil map."}, {"type": "text", "text": "Initialize it."}]}
			]
		},
		{
			"name": "",
			"created_at": 1704448800000,
			"chat_messages": [{"sender": "human", "text": "second"}]
		}
	]`

	res := parseWith(t, record.Claude, doc)
	if len(res.Records) != 2 {
		t.Fatalf("Parse() returned %d records, want 2", len(res.Records))
	}
	first := res.Records[0]
	want := "human: Why does this error happen?\n\nassistant: Because of a nil map.\nInitialize it."
	if first.Content != want {
		t.Errorf("Content = %q, want %q", first.Content, want)
	}
	if first.ID != "c-1" || first.Title != "Debugging session" {
		t.Errorf("ID/Title = %q/%q", first.ID, first.Title)
	}
	if !first.HasTag("debugging") {
		t.Errorf("Tags = %v, want debugging", first.Tags)
	}
	if want := time.Date(2024, 1, 5, 10, 0, 0, 0, time.UTC); !first.Date.Equal(want) {
		t.Errorf("Date = %v, want %v", first.Date, want)
	}

	second := res.Records[1]
	if second.Title != "Claude Conversation 2" {
		t.Errorf("fallback Title = %q", second.Title)
	}
	if second.ID != "claude_1" {
		t.Errorf("fallback ID = %q", second.ID)
	}
	if want := time.UnixMilli(1704448800000).UTC(); !second.Date.Equal(want) {
		t.Errorf("millisecond Date = %v, want %v", second.Date, want)
	}
	assertInvariants(t, res.Records)
}

func TestClaude_Containers(t *testing.T) {
	entry := `{"chat_messages": [{"sender": "human", "text": "x"}]}`
	docs := []string{
		`{"chats": [` + entry + `]}`,
		`{"conversations": [` + entry + `]}`,
		`[` + entry + `]`,
		`{"data": {"chats": [` + entry + `]}}`,
		`{"data": {"conversations": [` + entry + `]}}`,
	}
	for _, d := range docs {
		res := parseWith(t, record.Claude, d)
		if len(res.Records) != 1 {
			t.Errorf("Parse(%s) returned %d records, want 1", d, len(res.Records))
		}
	}
}

func TestTimestampFallback(t *testing.T) {
	tests := []struct {
		name string
		doc  string
		want time.Time
	}{
		{"unparseable string", `{"conversations": [{"create_time": "yesterday", "messages": [{"role": "user", "content": "x"}]}]}`, testNow},
		{"absent", `{"conversations": [{"messages": [{"role": "user", "content": "x"}]}]}`, testNow},
		{"null falls through to next alias", `{"conversations": [{"create_time": null, "update_time": 1700000000.5, "messages": [{"role": "user", "content": "x"}]}]}`, time.Unix(1700000000, 5e8).UTC()},
		{"numeric string", `{"conversations": [{"create_time": "1700000000", "messages": [{"role": "user", "content": "x"}]}]}`, time.Unix(1700000000, 0).UTC()},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := parseWith(t, record.ChatGPT, tt.doc)
			if len(res.Records) != 1 {
				t.Fatalf("got %d records", len(res.Records))
			}
			if !res.Records[0].Date.Equal(tt.want) {
				t.Errorf("Date = %v, want %v", res.Records[0].Date, tt.want)
			}
		})
	}
}

func TestLookup(t *testing.T) {
	if !Supported(record.ChatGPT) || !Supported(record.Claude) {
		t.Error("chatgpt and claude should be supported")
	}
	if Supported(record.Gemini) {
		t.Error("gemini has no parser")
	}
	fs := Formats()
	if len(fs) != 2 || fs[0].Platform() != record.ChatGPT {
		t.Errorf("Formats() = %v", fs)
	}
}

// validQuality reports whether v lies in [1, 5] on a half-point step.
func validQuality(v float64) bool {
	return v >= quality.Min && v <= quality.Max && math.Mod(v*2, 1) == 0
}
