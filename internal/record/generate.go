package record

import (
	"fmt"
	"strings"
	"time"
)

// CurrentSession returns the distinguished record describing the live session.
// It is always starred and always on the Claude platform.
func CurrentSession(now time.Time, userID string) Record {
	content := strings.Join([]string{
		"user: Build a calendar that collects my AI conversations from every platform, tags them by topic and scores their quality.",
		"assistant: Here is the plan: parse the ChatGPT and Claude exports, normalize each conversation into one record shape, infer tags from keywords, score each record, then group them by day and compute analytics. I'll explain each step and show the code as we go.",
	}, "\n\n")
	return Build(Fields{
		ID:       CurrentSessionID,
		Platform: Claude,
		Title:    "Current Session: Conversation Calendar",
		Date:     now,
		Content:  content,
		Starred:  true,
		UserID:   userID,
	}, now)
}

type sample struct {
	platform Platform
	title    string
	daysAgo  int
	turns    []string
}

var samples = []sample{
	{ChatGPT, "Fixing a goroutine leak", 1, []string{
		"user: My worker pool leaks goroutines after a timeout error. How do I fix it?",
		"assistant: Close the jobs channel from the producer and select on ctx.Done() in each worker. Here is the code:\n```go\nfor {\n\tselect {\n\tcase <-ctx.Done():\n\t\treturn\n\tcase j, ok := <-jobs:\n\t\tif !ok {\n\t\t\treturn\n\t\t}\n\t\thandle(j)\n\t}\n}\n```",
	}},
	{Claude, "Trip itinerary for Lisbon", 3, []string{
		"user: Plan a four day trip to Lisbon with one day trip to Sintra.",
		"assistant: Day 1: Alfama and the castle. Day 2: Belem. Day 3: Sintra by train. Day 4: LX Factory and a sunset at Miradouro da Senhora do Monte.",
	}},
	{Gemini, "Quarterly marketing strategy", 6, []string{
		"user: Draft a marketing strategy for a small coffee startup.",
		"assistant: Focus on local partnerships, a loyalty program and short video content. Track customer retention monthly.",
	}},
	{Perplexity, "Sleep research summary", 9, []string{
		"user: Summarize recent research on sleep and memory consolidation.",
		"assistant: Several studies link slow-wave sleep to declarative memory consolidation; the analysis in most papers is correlational.",
	}},
	{Copilot, "SQL query performance", 12, []string{
		"user: This SQL query is slow on a 10M row table. How can I optimize it?",
		"assistant: Add a composite index on (customer_id, created_at) and avoid functions on indexed columns in the WHERE clause.",
	}},
	{ChatGPT, "Explain closures", 15, []string{
		"user: Explain closures like I'm new to programming.",
		"assistant: A closure is a function that remembers the variables from the place where it was created, even after that place is gone.",
	}},
}

// Samples returns a fixed set of demonstration records dated relative to now.
func Samples(now time.Time, userID string) []Record {
	out := make([]Record, 0, len(samples))
	for i, s := range samples {
		out = append(out, Build(Fields{
			ID:       fmt.Sprintf("sample_%d", i),
			Platform: s.platform,
			Title:    s.title,
			Date:     now.AddDate(0, 0, -s.daysAgo),
			Content:  strings.Join(s.turns, "\n\n"),
			UserID:   userID,
		}, now))
	}
	return out
}
