package library

import (
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/Zuo-Peng/ai-chat-calendar/internal/aggregate"
	"github.com/Zuo-Peng/ai-chat-calendar/internal/ingest"
	"github.com/Zuo-Peng/ai-chat-calendar/internal/record"
)

const chatDoc = `{"conversations": [{"id": "g1", "title": "Fix the bug", "create_time": 1704448800, "messages": [{"role": "user", "content": "there is an error"}]}]}`

var now = time.Date(2024, 1, 5, 12, 0, 0, 0, time.UTC)

func newTestLibrary() *Library {
	return New(Options{
		Home:     record.Claude,
		UserID:   "tester",
		Location: time.UTC,
		Logger:   slog.New(slog.NewTextHandler(io.Discard, nil)),
		Now:      func() time.Time { return now },
	})
}

func TestLibrary_IngestAndViews(t *testing.T) {
	lib := newTestLibrary()
	lib.AddCurrentSession()

	res := lib.Ingest([]ingest.Document{{Name: "a.json", Data: []byte(chatDoc)}, {Name: "b.json", Data: []byte("{")}})
	if res.Stats.Succeeded != 1 || res.Stats.Failed != 1 {
		t.Fatalf("Stats = %v", res.Stats)
	}
	if lib.Len() != 2 {
		t.Fatalf("Len() = %d, want 2", lib.Len())
	}

	home := lib.Filtered(aggregate.Options{Scope: aggregate.ScopeHome})
	if len(home) != 1 || home[0].ID != record.CurrentSessionID {
		t.Errorf("home scope = %+v, want only the current session", home)
	}

	debugging := lib.Filtered(aggregate.Options{Query: "debugging"})
	if len(debugging) != 1 || debugging[0].ID != "g1" {
		t.Errorf("tag query = %+v", debugging)
	}

	cal := lib.Calendar(aggregate.Options{})
	if len(cal["2024-01-05"]) != 2 {
		t.Errorf("calendar = %v", aggregate.DayKeys(cal))
	}

	a := lib.Analytics(aggregate.Options{})
	if a.Total != 2 || a.Starred != 1 {
		t.Errorf("Analytics = %+v", a)
	}
}

func TestLibrary_ToggleStar(t *testing.T) {
	lib := newTestLibrary()
	lib.Ingest([]ingest.Document{{Name: "a.json", Data: []byte(chatDoc)}})

	held := lib.Records()
	if !lib.ToggleStar("g1") {
		t.Fatal("ToggleStar(g1) = false")
	}
	if r, _ := lib.Get("g1"); !r.Starred {
		t.Error("g1 should be starred")
	}
	if held[0].Starred {
		t.Error("previously returned slice must not change")
	}
	if lib.ToggleStar("missing") {
		t.Error("ToggleStar(missing) = true")
	}
}

func TestLibrary_IngestFiles(t *testing.T) {
	p := filepath.Join(t.TempDir(), "export.json")
	if err := os.WriteFile(p, []byte(chatDoc), 0o644); err != nil {
		t.Fatal(err)
	}
	lib := newTestLibrary()
	res := lib.IngestFiles([]string{p})
	if !res.Outcomes[0].OK || lib.Len() != 1 {
		t.Errorf("IngestFiles() = %+v", res.Outcomes)
	}
}

func TestLibrary_Samples(t *testing.T) {
	lib := newTestLibrary()
	lib.AddSamples()
	if lib.Len() == 0 {
		t.Fatal("AddSamples() added nothing")
	}
	for _, r := range lib.Records() {
		if r.UserID != "tester" || len(r.Tags) == 0 {
			t.Errorf("sample %s = %+v", r.ID, r)
		}
	}
}

func TestLibrary_ConcurrentAccess(t *testing.T) {
	lib := newTestLibrary()
	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(2)
		go func() {
			defer wg.Done()
			lib.Ingest([]ingest.Document{{Name: "a.json", Data: []byte(chatDoc)}})
		}()
		go func() {
			defer wg.Done()
			_ = lib.Analytics(aggregate.Options{})
			lib.ToggleStar("g1")
		}()
	}
	wg.Wait()
	if lib.Len() != 8 {
		t.Errorf("Len() = %d, want 8", lib.Len())
	}
}
