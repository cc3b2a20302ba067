// Package aggregate derives views over a record collection: filtering,
// calendar grouping, analytics and starring. Every function is pure over
// its inputs.
package aggregate

import (
	"fmt"
	"strings"

	"github.com/Zuo-Peng/ai-chat-calendar/internal/record"
)

// Scope selects which part of the collection is in view.
type Scope string

const (
	// ScopeHome keeps the home platform and the current-session record.
	ScopeHome Scope = "home"
	// ScopeAll keeps everything.
	ScopeAll Scope = "all"
)

// ParseScope accepts "home" or "all"; empty means all.
func ParseScope(s string) (Scope, error) {
	switch Scope(strings.ToLower(strings.TrimSpace(s))) {
	case "", ScopeAll:
		return ScopeAll, nil
	case ScopeHome:
		return ScopeHome, nil
	}
	return "", fmt.Errorf("unknown scope %q (want home or all)", s)
}

// Options are the filter inputs.
type Options struct {
	Query string
	// Platforms restricts results to the listed platforms. nil means no
	// restriction; a non-nil empty slice selects nothing.
	Platforms []record.Platform
	Scope     Scope
	Home      record.Platform
	Tag       string // "" = any
}

// NoPlatforms is the platform-selection token for an explicitly empty set.
const NoPlatforms = "none"

// ParsePlatforms reads platform selections such as "chatgpt,claude". Values
// may repeat. No values yields nil; "none" yields an empty, non-nil set.
func ParsePlatforms(values []string) ([]record.Platform, error) {
	var out []record.Platform
	for _, raw := range values {
		for _, s := range strings.Split(raw, ",") {
			s = strings.TrimSpace(s)
			switch {
			case s == "":
				continue
			case strings.EqualFold(s, NoPlatforms):
				if out == nil {
					out = []record.Platform{}
				}
				continue
			}
			p, err := record.ParsePlatform(s)
			if err != nil {
				return nil, err
			}
			out = append(out, p)
		}
	}
	return out, nil
}

// Scoped returns the records visible under scope.
func Scoped(records []record.Record, scope Scope, home record.Platform) []record.Record {
	if scope != ScopeHome {
		return records
	}
	out := make([]record.Record, 0, len(records))
	for _, r := range records {
		if r.Platform == home || r.ID == record.CurrentSessionID {
			out = append(out, r)
		}
	}
	return out
}

// Filter applies scope, then the platform set and tag, then a
// case-insensitive query against title, content and tags. The query is
// matched as given, without trimming. Order is preserved.
func Filter(records []record.Record, opts Options) []record.Record {
	scoped := Scoped(records, opts.Scope, opts.Home)
	query := strings.ToLower(opts.Query)

	out := make([]record.Record, 0, len(scoped))
	for _, r := range scoped {
		if !platformMatch(r.Platform, opts.Platforms) {
			continue
		}
		if opts.Tag != "" && !r.HasTag(opts.Tag) {
			continue
		}
		if query != "" && !queryMatch(r, query) {
			continue
		}
		out = append(out, r)
	}
	return out
}

func platformMatch(p record.Platform, set []record.Platform) bool {
	if set == nil {
		return true
	}
	for _, s := range set {
		if s == p {
			return true
		}
	}
	return false
}

func queryMatch(r record.Record, q string) bool {
	if strings.Contains(strings.ToLower(r.Title), q) ||
		strings.Contains(strings.ToLower(r.Content), q) {
		return true
	}
	for _, t := range r.Tags {
		if strings.Contains(strings.ToLower(t), q) {
			return true
		}
	}
	return false
}
