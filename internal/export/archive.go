package export

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"
	"unicode"

	_ "modernc.org/sqlite"

	"github.com/Zuo-Peng/ai-chat-calendar/internal/record"
)

const schema = `
PRAGMA journal_mode = DELETE;
PRAGMA synchronous = NORMAL;
PRAGMA busy_timeout = 5000;

CREATE TABLE IF NOT EXISTS records (
    seq          INTEGER PRIMARY KEY AUTOINCREMENT,
    id           TEXT NOT NULL,
    platform     TEXT NOT NULL,
    title        TEXT NOT NULL,
    date         TEXT NOT NULL,
    summary      TEXT NOT NULL DEFAULT '',
    content      TEXT NOT NULL,
    starred      INTEGER NOT NULL DEFAULT 0,
    quality      REAL NOT NULL,
    user_id      TEXT NOT NULL DEFAULT '',
    extracted_at TEXT NOT NULL DEFAULT ''
);

CREATE TABLE IF NOT EXISTS tags (
    seq INTEGER NOT NULL,
    pos INTEGER NOT NULL,
    tag TEXT NOT NULL,
    PRIMARY KEY (seq, pos)
);

CREATE INDEX IF NOT EXISTS records_date ON records(date);
CREATE INDEX IF NOT EXISTS tags_tag ON tags(tag);

CREATE VIRTUAL TABLE IF NOT EXISTS records_fts USING fts5(
    title,
    content,
    content=records,
    content_rowid=seq,
    tokenize='unicode61'
);

-- triggers to keep FTS in sync
CREATE TRIGGER IF NOT EXISTS records_ai AFTER INSERT ON records BEGIN
    INSERT INTO records_fts(rowid, title, content) VALUES (new.seq, new.title, new.content);
END;

CREATE TRIGGER IF NOT EXISTS records_ad AFTER DELETE ON records BEGIN
    INSERT INTO records_fts(records_fts, rowid, title, content) VALUES('delete', old.seq, old.title, old.content);
END;

CREATE TABLE IF NOT EXISTS meta (key TEXT PRIMARY KEY, value TEXT);
`

// archiveVersion is stored in the meta table of every archive.
const archiveVersion = "1"

const timeLayout = time.RFC3339Nano

// Archive is a sqlite file holding exported records with a full-text index.
type Archive struct {
	db *sql.DB
}

// OpenArchive opens or creates an archive at path.
func OpenArchive(path string) (*Archive, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("create archive dir: %w", err)
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open archive: %w", err)
	}
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("init schema: %w", err)
	}
	if _, err := db.Exec("INSERT OR REPLACE INTO meta (key, value) VALUES ('archive_version', ?)", archiveVersion); err != nil {
		db.Close()
		return nil, fmt.Errorf("write meta: %w", err)
	}
	return &Archive{db: db}, nil
}

func (a *Archive) Close() error {
	return a.db.Close()
}

// Insert appends records in one transaction.
func (a *Archive) Insert(records []record.Record) error {
	tx, err := a.db.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	recStmt, err := tx.Prepare(
		`INSERT INTO records (id, platform, title, date, summary, content, starred, quality, user_id, extracted_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
	)
	if err != nil {
		return err
	}
	defer recStmt.Close()

	tagStmt, err := tx.Prepare(`INSERT INTO tags (seq, pos, tag) VALUES (?, ?, ?)`)
	if err != nil {
		return err
	}
	defer tagStmt.Close()

	for _, r := range records {
		res, err := recStmt.Exec(
			r.ID,
			string(r.Platform),
			r.Title,
			r.Date.Format(timeLayout),
			r.Summary,
			r.Content,
			r.Starred,
			r.Quality,
			r.UserID,
			r.ExtractedAt.Format(timeLayout),
		)
		if err != nil {
			return fmt.Errorf("insert %s: %w", r.ID, err)
		}
		seq, err := res.LastInsertId()
		if err != nil {
			return err
		}
		for i, t := range r.Tags {
			if _, err := tagStmt.Exec(seq, i, t); err != nil {
				return fmt.Errorf("insert tag %s: %w", r.ID, err)
			}
		}
	}
	return tx.Commit()
}

// Count returns the number of archived records.
func (a *Archive) Count() (int, error) {
	var n int
	err := a.db.QueryRow("SELECT COUNT(*) FROM records").Scan(&n)
	return n, err
}

// Records loads every archived record in insertion order.
func (a *Archive) Records() ([]record.Record, error) {
	tags, err := a.tagsBySeq()
	if err != nil {
		return nil, err
	}

	rows, err := a.db.Query(
		`SELECT seq, id, platform, title, date, summary, content, starred, quality, user_id, extracted_at
		 FROM records ORDER BY seq`,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []record.Record
	for rows.Next() {
		var (
			r                 record.Record
			seq               int64
			platform          string
			date, extractedAt string
		)
		if err := rows.Scan(&seq, &r.ID, &platform, &r.Title, &date, &r.Summary, &r.Content,
			&r.Starred, &r.Quality, &r.UserID, &extractedAt); err != nil {
			return nil, err
		}
		r.Platform = record.Platform(platform)
		if r.Date, err = time.Parse(timeLayout, date); err != nil {
			return nil, fmt.Errorf("record %s date: %w", r.ID, err)
		}
		r.ExtractedAt, _ = time.Parse(timeLayout, extractedAt)
		r.Tags = tags[seq]
		if r.Tags == nil {
			r.Tags = []string{}
		}
		r.Relationships = []string{}
		out = append(out, r)
	}
	return out, rows.Err()
}

func (a *Archive) tagsBySeq() (map[int64][]string, error) {
	rows, err := a.db.Query("SELECT seq, tag FROM tags ORDER BY seq, pos")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make(map[int64][]string)
	for rows.Next() {
		var seq int64
		var tag string
		if err := rows.Scan(&seq, &tag); err != nil {
			return nil, err
		}
		out[seq] = append(out[seq], tag)
	}
	return out, rows.Err()
}

// Hit is one archive search result.
type Hit struct {
	ID       string
	Platform record.Platform
	Title    string
	Date     string
	Snippet  string
	Rank     float64
}

// SearchOptions narrow an archive search.
type SearchOptions struct {
	Query    string
	Platform record.Platform // "" = all
	Tag      string          // "" = all
	Limit    int
}

// containsCJK returns true if the string contains any CJK Unified Ideograph.
func containsCJK(s string) bool {
	for _, r := range s {
		if unicode.Is(unicode.Han, r) {
			return true
		}
	}
	return false
}

// Search runs a full-text query over titles and content. CJK queries fall
// back to substring matching since unicode61 does not segment them.
func (a *Archive) Search(opts SearchOptions) ([]Hit, error) {
	if opts.Limit <= 0 {
		opts.Limit = 50
	}
	if strings.TrimSpace(opts.Query) == "" {
		return nil, fmt.Errorf("empty query")
	}
	if containsCJK(opts.Query) {
		return a.searchLike(opts)
	}
	return a.searchFTS(opts)
}

func filters(opts SearchOptions) ([]string, []interface{}) {
	var conditions []string
	var args []interface{}
	if opts.Platform != "" {
		conditions = append(conditions, "r.platform = ?")
		args = append(args, string(opts.Platform))
	}
	if opts.Tag != "" {
		conditions = append(conditions, "EXISTS (SELECT 1 FROM tags t WHERE t.seq = r.seq AND t.tag = ?)")
		args = append(args, opts.Tag)
	}
	return conditions, args
}

func (a *Archive) searchFTS(opts SearchOptions) ([]Hit, error) {
	conditions := []string{"records_fts MATCH ?"}
	args := []interface{}{opts.Query}
	c, fa := filters(opts)
	conditions = append(conditions, c...)
	args = append(args, fa...)

	query := fmt.Sprintf(`
		SELECT
			r.id,
			r.platform,
			r.title,
			r.date,
			snippet(records_fts, 1, '>>>', '<<<', '...', 40) AS snip,
			bm25(records_fts) AS rank
		FROM records_fts
		JOIN records r ON records_fts.rowid = r.seq
		WHERE %s
		ORDER BY rank
		LIMIT ?
	`, strings.Join(conditions, " AND "))
	args = append(args, opts.Limit)

	rows, err := a.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("search query: %w", err)
	}
	defer rows.Close()

	var hits []Hit
	for rows.Next() {
		var h Hit
		var platform string
		if err := rows.Scan(&h.ID, &platform, &h.Title, &h.Date, &h.Snippet, &h.Rank); err != nil {
			return nil, err
		}
		h.Platform = record.Platform(platform)
		hits = append(hits, h)
	}
	return hits, rows.Err()
}

func (a *Archive) searchLike(opts SearchOptions) ([]Hit, error) {
	conditions := []string{"(r.title LIKE ? OR r.content LIKE ?)"}
	pattern := "%" + opts.Query + "%"
	args := []interface{}{pattern, pattern}
	c, fa := filters(opts)
	conditions = append(conditions, c...)
	args = append(args, fa...)

	query := fmt.Sprintf(`
		SELECT r.id, r.platform, r.title, r.date, r.content
		FROM records r
		WHERE %s
		ORDER BY r.date DESC
		LIMIT ?
	`, strings.Join(conditions, " AND "))
	args = append(args, opts.Limit)

	rows, err := a.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("search query: %w", err)
	}
	defer rows.Close()

	var hits []Hit
	for rows.Next() {
		var h Hit
		var platform, content string
		if err := rows.Scan(&h.ID, &platform, &h.Title, &h.Date, &content); err != nil {
			return nil, err
		}
		h.Platform = record.Platform(platform)
		h.Snippet = Snippet(content, opts.Query, 30)
		hits = append(hits, h)
	}
	return hits, rows.Err()
}

// Snippet extracts a window around the first case-insensitive occurrence of
// query in text, marking the match with >>> and <<<.
func Snippet(text, query string, contextChars int) string {
	runes := []rune(text)
	lower := []rune(strings.ToLower(text))
	qRunes := []rune(strings.ToLower(query))
	runePos := indexRunes(lower, qRunes)
	if runePos < 0 || len(lower) != len(runes) {
		// no match, return head
		if len(runes) > contextChars*2 {
			return string(runes[:contextChars*2]) + "..."
		}
		return text
	}
	start := runePos - contextChars
	if start < 0 {
		start = 0
	}
	end := runePos + len(qRunes) + contextChars
	if end > len(runes) {
		end = len(runes)
	}
	prefix := ""
	suffix := ""
	if start > 0 {
		prefix = "..."
	}
	if end < len(runes) {
		suffix = "..."
	}
	snippet := string(runes[start:runePos]) +
		">>>" + string(runes[runePos:runePos+len(qRunes)]) + "<<<" +
		string(runes[runePos+len(qRunes):end])
	return prefix + snippet + suffix
}

func indexRunes(s, sub []rune) int {
	if len(sub) == 0 {
		return -1
	}
	for i := 0; i+len(sub) <= len(s); i++ {
		match := true
		for j := range sub {
			if s[i+j] != sub[j] {
				match = false
				break
			}
		}
		if match {
			return i
		}
	}
	return -1
}
