// Package ingest turns a batch of export documents into records appended to
// an existing collection.
package ingest

import (
	"crypto/rand"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"sync"
	"time"

	"github.com/oklog/ulid/v2"

	"github.com/Zuo-Peng/ai-chat-calendar/internal/parse"
	"github.com/Zuo-Peng/ai-chat-calendar/internal/record"
)

// ErrorKind classifies a per-document failure.
type ErrorKind string

const (
	KindNone               ErrorKind = ""
	KindMalformedEntry     ErrorKind = "malformed-entry"
	KindContainerNotFound  ErrorKind = "container-not-found"
	KindUnrecognizedFormat ErrorKind = "unrecognized-format"
	KindMalformedJSON      ErrorKind = "malformed-json"
	KindRead               ErrorKind = "read-error"
)

// Document is one raw export: a name (usually the file name) and its bytes.
type Document struct {
	Name string `json:"name"`
	Data []byte `json:"data"`
}

// Outcome reports what happened to one document.
type Outcome struct {
	Name     string          `json:"name"`
	Platform record.Platform `json:"platform,omitempty"`
	OK       bool            `json:"ok"`
	Count    int             `json:"count"`
	Skipped  int             `json:"skipped"`
	Kind     ErrorKind       `json:"kind,omitempty"`
	Message  string          `json:"message,omitempty"`

	// Entries lists the entries skipped inside an ingested document.
	Entries []EntryFailure `json:"entries,omitempty"`
}

// EntryFailure is one skipped entry. Its kind is always KindMalformedEntry.
type EntryFailure struct {
	Index   int       `json:"index"`
	Kind    ErrorKind `json:"kind"`
	Message string    `json:"message"`
}

type Stats struct {
	Documents int `json:"documents"`
	Succeeded int `json:"succeeded"`
	Failed    int `json:"failed"`
	Records   int `json:"records"`
	Skipped   int `json:"skipped"`
}

func (s Stats) String() string {
	return fmt.Sprintf("documents=%d succeeded=%d failed=%d records=%d skipped=%d",
		s.Documents, s.Succeeded, s.Failed, s.Records, s.Skipped)
}

// Result is the outcome of one batch. Records is the new collection: the
// existing records followed by everything parsed from the batch.
type Result struct {
	BatchID  string          `json:"batchId"`
	Records  []record.Record `json:"-"`
	Outcomes []Outcome       `json:"outcomes"`
	Stats    Stats           `json:"stats"`
}

// Added returns the records the batch appended.
func (r Result) Added(existing int) []record.Record {
	if existing > len(r.Records) {
		return nil
	}
	return r.Records[existing:]
}

// Coordinator runs ingestion batches. The zero value is usable.
type Coordinator struct {
	UserID string
	Logger *slog.Logger
	Now    func() time.Time

	mu      sync.Mutex
	entropy io.Reader
}

func (c *Coordinator) logger() *slog.Logger {
	if c.Logger != nil {
		return c.Logger
	}
	return slog.Default()
}

func (c *Coordinator) now() time.Time {
	if c.Now != nil {
		return c.Now()
	}
	return time.Now()
}

func (c *Coordinator) batchID(now time.Time) string {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.entropy == nil {
		c.entropy = ulid.Monotonic(rand.Reader, 0)
	}
	return ulid.MustNew(ulid.Timestamp(now), c.entropy).String()
}

// Ingest processes docs in order. Failures are reported per document and
// never abort the batch; existing is copied, never modified.
func (c *Coordinator) Ingest(existing []record.Record, docs []Document) Result {
	return c.run(existing, len(docs), func(i int) (Document, error) {
		return docs[i], nil
	})
}

// IngestFiles reads and processes files one at a time.
func (c *Coordinator) IngestFiles(existing []record.Record, paths []string) Result {
	return c.run(existing, len(paths), func(i int) (Document, error) {
		data, err := os.ReadFile(paths[i])
		return Document{Name: paths[i], Data: data}, err
	})
}

func (c *Coordinator) run(existing []record.Record, n int, next func(int) (Document, error)) Result {
	now := c.now()
	log := c.logger()

	res := Result{BatchID: c.batchID(now)}
	res.Records = make([]record.Record, len(existing), len(existing)+n)
	copy(res.Records, existing)
	log = log.With("batch", res.BatchID)

	env := parse.Env{Now: now, UserID: c.UserID, Logger: log}
	for i := 0; i < n; i++ {
		doc, err := next(i)
		var (
			out  Outcome
			recs []record.Record
		)
		if err != nil {
			out = failed(doc.Name, "", KindRead, fmt.Errorf("read: %w", err))
		} else {
			out, recs = ingestDocument(doc, env)
		}

		res.Stats.Documents++
		if out.OK {
			res.Stats.Succeeded++
			res.Stats.Records += out.Count
			res.Stats.Skipped += out.Skipped
			res.Records = append(res.Records, recs...)
			log.Debug("document ingested", "name", out.Name, "platform", out.Platform,
				"records", out.Count, "skipped", out.Skipped)
		} else {
			res.Stats.Failed++
			log.Warn("document failed", "name", out.Name, "kind", out.Kind, "error", out.Message)
		}
		res.Outcomes = append(res.Outcomes, out)
	}

	log.Debug("batch complete", "stats", res.Stats.String())
	return res
}

func ingestDocument(doc Document, env parse.Env) (Outcome, []record.Record) {
	decoded, err := parse.Decode(doc.Data)
	if err != nil {
		return failed(doc.Name, "", KindMalformedJSON, fmt.Errorf("invalid JSON: %w", err)), nil
	}

	platform, ok := Classify(doc.Name, decoded)
	if !ok {
		return failed(doc.Name, "", KindUnrecognizedFormat, errors.New("unrecognized export format")), nil
	}

	parser, ok := parse.Lookup(platform)
	if !ok {
		return failed(doc.Name, platform, KindUnrecognizedFormat, fmt.Errorf("no parser for %s", platform)), nil
	}

	// Parse fails only when no container rule matches.
	pr, err := parser.Parse(decoded, env)
	if err != nil {
		return failed(doc.Name, platform, KindContainerNotFound, err), nil
	}

	out := Outcome{
		Name:     doc.Name,
		Platform: platform,
		OK:       true,
		Count:    len(pr.Records),
		Skipped:  len(pr.Skipped),
	}
	for _, ee := range pr.Skipped {
		out.Entries = append(out.Entries, EntryFailure{
			Index:   ee.Index,
			Kind:    KindMalformedEntry,
			Message: ee.Err.Error(),
		})
	}
	return out, pr.Records
}

func failed(name string, p record.Platform, kind ErrorKind, err error) Outcome {
	return Outcome{Name: name, Platform: p, Kind: kind, Message: err.Error()}
}
