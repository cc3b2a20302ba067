// Package parse turns platform conversation exports into normalized records.
package parse

import (
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/Zuo-Peng/ai-chat-calendar/internal/record"
)

const turnSeparator = "\n\n"

// Parser converts one decoded export document into records.
type Parser interface {
	Platform() record.Platform
	Parse(doc any, env Env) (*Result, error)
}

// Env carries the ingestion-time inputs a parser needs.
type Env struct {
	Now    time.Time
	UserID string
	Logger *slog.Logger
}

func (e Env) logger() *slog.Logger {
	if e.Logger != nil {
		return e.Logger
	}
	return slog.Default()
}

func (e Env) now() time.Time {
	if e.Now.IsZero() {
		return time.Now()
	}
	return e.Now
}

// Result holds the records parsed from a document and the entries skipped
// along the way.
type Result struct {
	Records []record.Record
	Skipped []*EntryError
}

// Format is a platform's export contract: where conversations live, how
// turns are laid out and which field aliases carry title, time and id.
type Format struct {
	Name record.Platform

	// Classification hints.
	FilenameHints []string
	TopLevelField string
	EntryMarker   string

	Containers []ContainerRule
	Turns      []TurnRule

	TitleKeys []string
	TimeKeys  []string
	IDKeys    []string
}

func (f *Format) Platform() record.Platform { return f.Name }

// Parse locates the conversation container and converts every entry. Entry
// failures are collected in Result.Skipped; only a missing container fails
// the document.
func (f *Format) Parse(doc any, env Env) (*Result, error) {
	entries, rule, ok := f.locate(doc)
	if !ok {
		return nil, &DocumentError{Platform: f.Name, Err: ErrContainerNotFound}
	}

	log := env.logger()
	log.Debug("container located", "platform", f.Name, "rule", rule, "entries", len(entries))

	now := env.now()
	result := &Result{}
	for i, e := range entries {
		rec, err := f.parseEntry(i, e, now, env.UserID)
		if err != nil {
			ee := &EntryError{Platform: f.Name, Index: i, Err: err}
			log.Warn("skipping entry", "error", ee)
			result.Skipped = append(result.Skipped, ee)
			continue
		}
		if rec == nil {
			continue
		}
		result.Records = append(result.Records, *rec)
	}
	return result, nil
}

func (f *Format) locate(doc any) ([]any, string, bool) {
	for _, r := range f.Containers {
		if r.Applies(doc) {
			return r.Extract(doc), r.Name, true
		}
	}
	return nil, "", false
}

// parseEntry returns nil, nil for an entry whose content is empty.
func (f *Format) parseEntry(index int, e any, now time.Time, userID string) (*record.Record, error) {
	entry, ok := e.(*Object)
	if !ok {
		return nil, fmt.Errorf("entry is not an object")
	}

	turns, err := f.turns(entry)
	if err != nil {
		return nil, err
	}
	content := strings.Join(turns, turnSeparator)
	if strings.TrimSpace(content) == "" {
		return nil, nil
	}

	title := fmt.Sprintf("%s Conversation %d", f.Name.DisplayName(), index+1)
	if v, ok := firstPresent(entry, f.TitleKeys); ok {
		if s, ok := coerceText(v); ok && strings.TrimSpace(s) != "" {
			title = strings.TrimSpace(s)
		}
	}

	var date time.Time
	if v, ok := firstPresent(entry, f.TimeKeys); ok {
		date, _ = coerceTime(v)
	}

	id := fmt.Sprintf("%s_%d", f.Name, index)
	if v, ok := firstPresent(entry, f.IDKeys); ok {
		if s, ok := coerceText(v); ok && strings.TrimSpace(s) != "" {
			id = s
		}
	}

	rec := record.Build(record.Fields{
		ID:       id,
		Platform: f.Name,
		Title:    title,
		Date:     date,
		Content:  content,
		UserID:   userID,
	}, now)
	return &rec, nil
}

func (f *Format) turns(entry *Object) ([]string, error) {
	for _, r := range f.Turns {
		if r.Applies(entry) {
			return r.Extract(entry)
		}
	}
	return nil, ErrNoTurns
}

// formats lists every parser in classification priority order.
var formats = []*Format{chatGPTFormat, claudeFormat}

// Formats returns the registered formats in classification priority order.
func Formats() []*Format {
	return append([]*Format(nil), formats...)
}

// Lookup returns the parser for a platform.
func Lookup(p record.Platform) (Parser, bool) {
	for _, f := range formats {
		if f.Name == p {
			return f, true
		}
	}
	return nil, false
}

// Supported reports whether a platform has a parser.
func Supported(p record.Platform) bool {
	_, ok := Lookup(p)
	return ok
}

// Platforms returns the platforms that have a parser, in classification
// priority order.
func Platforms() []record.Platform {
	out := make([]record.Platform, 0, len(formats))
	for _, f := range formats {
		out = append(out, f.Name)
	}
	return out
}
