package ingest

import (
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/oklog/ulid/v2"

	"github.com/Zuo-Peng/ai-chat-calendar/internal/record"
)

const (
	chatGPTDoc = `{"conversations": [{"title": "A", "create_time": 1700000000, "mapping": {"a": {"message": {"author": {"role": "user"}, "content": {"parts": ["hello world"]}}}}}]}`
	claudeDoc  = `{"chats": [{"uuid": "c1", "name": "B", "chat_messages": [{"sender": "human", "text": "hi"}]}, {"uuid": "c2", "chat_messages": "oops"}, 7]}`
)

var fixedNow = time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)

func newTestCoordinator() *Coordinator {
	return &Coordinator{
		UserID: "tester",
		Logger: slog.New(slog.NewTextHandler(io.Discard, nil)),
		Now:    func() time.Time { return fixedNow },
	}
}

func TestIngest_InvalidJSONBatch(t *testing.T) {
	existing := []record.Record{{ID: "keep-1"}, {ID: "keep-2"}}
	c := newTestCoordinator()

	res := c.Ingest(existing, []Document{{Name: "export.json", Data: []byte("not json")}})

	if len(res.Records) != len(existing) {
		t.Fatalf("Records = %d, want %d", len(res.Records), len(existing))
	}
	for i := range existing {
		if res.Records[i].ID != existing[i].ID {
			t.Errorf("Records[%d] = %q, want %q", i, res.Records[i].ID, existing[i].ID)
		}
	}
	if len(res.Outcomes) != 1 {
		t.Fatalf("Outcomes = %d, want 1", len(res.Outcomes))
	}
	out := res.Outcomes[0]
	if out.OK || out.Kind != KindMalformedJSON || out.Message == "" {
		t.Errorf("Outcome = %+v, want malformed-json failure", out)
	}
	if res.Stats.Failed != 1 || res.Stats.Succeeded != 0 {
		t.Errorf("Stats = %v", res.Stats)
	}
}

func TestIngest_SecondDocumentInvalid(t *testing.T) {
	res := newTestCoordinator().Ingest(nil, []Document{
		{Name: "first.json", Data: []byte(chatGPTDoc)},
		{Name: "second.json", Data: []byte(`{"conversations": [`)},
	})

	if len(res.Outcomes) != 2 || !res.Outcomes[0].OK || res.Outcomes[1].OK {
		t.Fatalf("Outcomes = %+v, want one success then one failure", res.Outcomes)
	}
	if res.Outcomes[1].Kind != KindMalformedJSON {
		t.Errorf("second Kind = %q, want %q", res.Outcomes[1].Kind, KindMalformedJSON)
	}
	if len(res.Records) != 1 || res.Records[0].Title != "A" {
		t.Errorf("Records = %+v, want only the first document's record", res.Records)
	}
}

func TestIngest_MixedBatch(t *testing.T) {
	existing := []record.Record{{ID: "old"}}
	c := newTestCoordinator()

	docs := []Document{
		{Name: "one.json", Data: []byte(chatGPTDoc)},
		{Name: "bad.json", Data: []byte(`{"foo": 1}`)},
		{Name: "claude_export.json", Data: []byte(`{"nothing": []}`)},
		{Name: "two.json", Data: []byte(claudeDoc)},
	}
	res := c.Ingest(existing, docs)

	wantKinds := []ErrorKind{KindNone, KindUnrecognizedFormat, KindContainerNotFound, KindNone}
	for i, want := range wantKinds {
		if got := res.Outcomes[i].Kind; got != want {
			t.Errorf("Outcomes[%d].Kind = %q, want %q", i, got, want)
		}
		if res.Outcomes[i].Name != docs[i].Name {
			t.Errorf("Outcomes[%d].Name = %q", i, res.Outcomes[i].Name)
		}
	}

	claude := res.Outcomes[3]
	if !claude.OK || claude.Platform != record.Claude || claude.Count != 1 || claude.Skipped != 2 {
		t.Errorf("claude outcome = %+v", claude)
	}
	if len(claude.Entries) != 2 || claude.Entries[0].Index != 1 || claude.Entries[1].Index != 2 {
		t.Fatalf("claude entries = %+v", claude.Entries)
	}
	for _, e := range claude.Entries {
		if e.Kind != KindMalformedEntry || e.Message == "" {
			t.Errorf("entry failure = %+v", e)
		}
	}
	if len(res.Outcomes[0].Entries) != 0 {
		t.Errorf("chatgpt entries = %+v", res.Outcomes[0].Entries)
	}

	var ids []string
	for _, r := range res.Records {
		ids = append(ids, r.ID)
	}
	if got, want := strings.Join(ids, ","), "old,chatgpt_0,c1"; got != want {
		t.Errorf("record order = %s, want %s", got, want)
	}

	want := Stats{Documents: 4, Succeeded: 2, Failed: 2, Records: 2, Skipped: 2}
	if res.Stats != want {
		t.Errorf("Stats = %v, want %v", res.Stats, want)
	}
	if added := res.Added(len(existing)); len(added) != 2 {
		t.Errorf("Added() = %d records, want 2", len(added))
	}
	if existing[0].ID != "old" || len(existing) != 1 {
		t.Error("existing collection was modified")
	}
}

func TestIngest_DuplicatesKept(t *testing.T) {
	c := newTestCoordinator()
	first := c.Ingest(nil, []Document{{Name: "a.json", Data: []byte(chatGPTDoc)}})
	second := c.Ingest(first.Records, []Document{{Name: "a.json", Data: []byte(chatGPTDoc)}})

	if len(second.Records) != 2 || second.Records[0].ID != second.Records[1].ID {
		t.Errorf("re-import should append a duplicate, got %d records", len(second.Records))
	}
	if first.BatchID == second.BatchID {
		t.Error("batches should get distinct IDs")
	}
	if _, err := ulid.ParseStrict(first.BatchID); err != nil {
		t.Errorf("BatchID %q is not a ULID: %v", first.BatchID, err)
	}
}

func TestIngestFiles(t *testing.T) {
	dir := t.TempDir()
	good := filepath.Join(dir, "chatgpt-export.json")
	if err := os.WriteFile(good, []byte(chatGPTDoc), 0o644); err != nil {
		t.Fatal(err)
	}
	missing := filepath.Join(dir, "missing.json")

	res := newTestCoordinator().IngestFiles(nil, []string{missing, good})

	if res.Outcomes[0].OK || res.Outcomes[0].Kind != KindRead {
		t.Errorf("missing file outcome = %+v, want read-error", res.Outcomes[0])
	}
	if !res.Outcomes[1].OK || res.Outcomes[1].Platform != record.ChatGPT {
		t.Errorf("good file outcome = %+v", res.Outcomes[1])
	}
	if len(res.Records) != 1 {
		t.Errorf("Records = %d, want 1", len(res.Records))
	}
	if r := res.Records[0]; r.UserID != "tester" || !r.ExtractedAt.Equal(fixedNow) {
		t.Errorf("provenance = %q %v", r.UserID, r.ExtractedAt)
	}
}

func TestStats_String(t *testing.T) {
	s := Stats{Documents: 3, Succeeded: 2, Failed: 1, Records: 5, Skipped: 1}
	want := "documents=3 succeeded=2 failed=1 records=5 skipped=1"
	if s.String() != want {
		t.Errorf("String() = %q, want %q", s.String(), want)
	}
}

func TestIngest_ClaudeConversationsContainer(t *testing.T) {
	doc := `{"conversations": [{"uuid": "c9", "name": "Claude under conversations", "created_at": "2024-01-05T10:00:00Z", "chat_messages": [{"sender": "human", "text": "hi"}, {"sender": "assistant", "text": "hello"}]}]}`
	res := newTestCoordinator().Ingest(nil, []Document{{Name: "export.json", Data: []byte(doc)}})

	out := res.Outcomes[0]
	if !out.OK || out.Platform != record.Claude || out.Count != 1 || out.Skipped != 0 {
		t.Fatalf("Outcome = %+v, want one claude record", out)
	}
	if got := res.Records[0]; got.ID != "c9" || got.Platform != record.Claude {
		t.Errorf("record = %s on %s", got.ID, got.Platform)
	}
}
