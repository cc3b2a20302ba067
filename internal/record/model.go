package record

import (
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/Zuo-Peng/ai-chat-calendar/internal/quality"
	"github.com/Zuo-Peng/ai-chat-calendar/internal/tags"
)

type Platform string

const (
	Claude     Platform = "claude"
	ChatGPT    Platform = "chatgpt"
	Gemini     Platform = "gemini"
	Perplexity Platform = "perplexity"
	Copilot    Platform = "copilot"
)

// AllPlatforms is the closed platform set, in display order.
var AllPlatforms = []Platform{Claude, ChatGPT, Gemini, Perplexity, Copilot}

var displayNames = map[Platform]string{
	Claude:     "Claude",
	ChatGPT:    "ChatGPT",
	Gemini:     "Gemini",
	Perplexity: "Perplexity",
	Copilot:    "Copilot",
}

func (p Platform) String() string { return string(p) }

// DisplayName returns the human-facing platform name.
func (p Platform) DisplayName() string {
	if n, ok := displayNames[p]; ok {
		return n
	}
	return string(p)
}

// ParsePlatform resolves a platform name case-insensitively.
func ParsePlatform(s string) (Platform, error) {
	p := Platform(strings.ToLower(strings.TrimSpace(s)))
	if _, ok := displayNames[p]; !ok {
		return "", fmt.Errorf("unknown platform %q", s)
	}
	return p, nil
}

const summaryLen = 150

// CurrentSessionID is the fixed ID of the distinguished current-session record.
const CurrentSessionID = "current-session"

// Record is the canonical, normalized conversation.
type Record struct {
	ID            string    `json:"id" yaml:"id"`
	Platform      Platform  `json:"platform" yaml:"platform"`
	Title         string    `json:"title" yaml:"title"`
	Date          time.Time `json:"date" yaml:"date"`
	Summary       string    `json:"summary" yaml:"summary"`
	Content       string    `json:"content" yaml:"content"`
	Tags          []string  `json:"tags" yaml:"tags"`
	Starred       bool      `json:"starred" yaml:"starred"`
	Quality       float64   `json:"quality" yaml:"quality"`
	Relationships []string  `json:"relationships" yaml:"relationships"`
	UserID        string    `json:"userId" yaml:"userId"`
	ExtractedAt   time.Time `json:"extractedAt" yaml:"extractedAt"`
}

// Fields are the source-derived parts of a record.
type Fields struct {
	ID       string
	Platform Platform
	Title    string
	Date     time.Time
	Content  string
	Starred  bool
	UserID   string
}

// Build derives summary, tags and quality and returns the finished record.
// extractedAt doubles as the date when f.Date is zero.
func Build(f Fields, extractedAt time.Time) Record {
	date := f.Date
	if date.IsZero() {
		date = extractedAt
	}
	t := tags.Infer(f.Content, f.Title)
	return Record{
		ID:            f.ID,
		Platform:      f.Platform,
		Title:         f.Title,
		Date:          date,
		Summary:       Summarize(f.Content),
		Content:       f.Content,
		Tags:          t,
		Starred:       f.Starred,
		Quality:       quality.Score(f.Content, t),
		Relationships: []string{},
		UserID:        f.UserID,
		ExtractedAt:   extractedAt,
	}
}

// Summarize returns the first 150 characters of content, with "..." appended
// when anything was cut.
func Summarize(content string) string {
	if utf8.RuneCountInString(content) <= summaryLen {
		return content
	}
	return string([]rune(content)[:summaryLen]) + "..."
}

// HasTag reports whether the record carries tag.
func (r Record) HasTag(tag string) bool {
	for _, t := range r.Tags {
		if t == tag {
			return true
		}
	}
	return false
}
