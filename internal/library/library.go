// Package library holds the in-memory record collection for one session and
// exposes it to the CLI, the terminal browser and the HTTP API.
package library

import (
	"log/slog"
	"sync"
	"time"

	"github.com/Zuo-Peng/ai-chat-calendar/internal/aggregate"
	"github.com/Zuo-Peng/ai-chat-calendar/internal/ingest"
	"github.com/Zuo-Peng/ai-chat-calendar/internal/record"
)

// Options configure a Library.
type Options struct {
	Home     record.Platform
	UserID   string
	Location *time.Location
	Logger   *slog.Logger
	Now      func() time.Time
}

// Library is safe for concurrent use. The collection is replaced wholesale
// on every mutation; slices handed out are never modified afterwards.
type Library struct {
	mu      sync.RWMutex
	records []record.Record

	home   record.Platform
	loc    *time.Location
	coord  *ingest.Coordinator
	logger *slog.Logger
	now    func() time.Time
}

func New(opts Options) *Library {
	if opts.Home == "" {
		opts.Home = record.Claude
	}
	if opts.Location == nil {
		opts.Location = time.Local
	}
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	return &Library{
		home: opts.Home,
		loc:  opts.Location,
		coord: &ingest.Coordinator{
			UserID: opts.UserID,
			Logger: opts.Logger,
			Now:    opts.Now,
		},
		logger: opts.Logger,
		now:    opts.Now,
	}
}

// Home returns the home platform used by the home scope.
func (l *Library) Home() record.Platform { return l.home }

// Location returns the zone calendar days are computed in.
func (l *Library) Location() *time.Location { return l.loc }

// Records returns the whole collection.
func (l *Library) Records() []record.Record {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.records
}

// Len returns the collection size.
func (l *Library) Len() int {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return len(l.records)
}

// Get returns the first record with id.
func (l *Library) Get(id string) (record.Record, bool) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	for _, r := range l.records {
		if r.ID == id {
			return r, true
		}
	}
	return record.Record{}, false
}

func (l *Library) withHome(opts aggregate.Options) aggregate.Options {
	if opts.Home == "" {
		opts.Home = l.home
	}
	return opts
}

// Filtered returns the records passing opts.
func (l *Library) Filtered(opts aggregate.Options) []record.Record {
	return aggregate.Filter(l.Records(), l.withHome(opts))
}

// Calendar groups the filtered records by local day.
func (l *Library) Calendar(opts aggregate.Options) map[string][]record.Record {
	return aggregate.GroupByDay(l.Filtered(opts), l.loc)
}

// Analytics summarizes the filtered records.
func (l *Library) Analytics(opts aggregate.Options) aggregate.Analytics {
	return aggregate.Summarize(l.Filtered(opts))
}

// Add appends records directly, e.g. the current-session record or samples.
func (l *Library) Add(recs ...record.Record) {
	l.mu.Lock()
	defer l.mu.Unlock()
	next := make([]record.Record, len(l.records), len(l.records)+len(recs))
	copy(next, l.records)
	l.records = append(next, recs...)
}

// AddCurrentSession appends the current-session record.
func (l *Library) AddCurrentSession() {
	l.Add(record.CurrentSession(l.now(), l.coord.UserID))
}

// AddSamples appends the demo sample records.
func (l *Library) AddSamples() {
	l.Add(record.Samples(l.now(), l.coord.UserID)...)
}

// Ingest parses a batch of documents and appends the results.
func (l *Library) Ingest(docs []ingest.Document) ingest.Result {
	l.mu.Lock()
	defer l.mu.Unlock()
	res := l.coord.Ingest(l.records, docs)
	l.records = res.Records
	return res
}

// IngestFiles reads and ingests files one at a time.
func (l *Library) IngestFiles(paths []string) ingest.Result {
	l.mu.Lock()
	defer l.mu.Unlock()
	res := l.coord.IngestFiles(l.records, paths)
	l.records = res.Records
	return res
}

// ToggleStar flips the starred flag on every record with id and reports
// whether any record matched.
func (l *Library) ToggleStar(id string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	next, ok := aggregate.ToggleStar(l.records, id)
	if ok {
		l.records = next
		l.logger.Debug("star toggled", "id", id)
	}
	return ok
}
