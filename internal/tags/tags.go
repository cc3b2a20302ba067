// Package tags infers topic labels for a conversation from keyword matches.
package tags

import "strings"

// General is returned when no trigger matches.
const General = "general"

type category struct {
	Tag      string
	Keywords []string
}

// categories is evaluated in order; the order of Infer's result follows it.
var categories = []category{
	{"coding", []string{"code", "function", "programming", "javascript", "typescript", "python", "golang", "react", "api", "algorithm", "compile", "regex"}},
	{"writing", []string{"write", "writing", "essay", "article", "blog", "draft", "proofread", "grammar"}},
	{"research", []string{"research", "study", "analysis", "paper", "citation", "hypothesis"}},
	{"data", []string{"data", "database", "sql", "spreadsheet", "csv", "dataset", "statistics"}},
	{"design", []string{"design", "layout", "css", "figma", "typography", "color palette"}},
	{"business", []string{"business", "marketing", "strategy", "startup", "revenue", "customer", "sales"}},
	{"creative", []string{"story", "poem", "creative", "fiction", "character", "lyrics"}},
	{"education", []string{"homework", "lesson", "course", "exam", "curriculum", "student"}},
	{"health", []string{"health", "fitness", "diet", "nutrition", "workout", "symptom"}},
	{"travel", []string{"travel", "trip", "flight", "hotel", "itinerary", "vacation"}},
}

// special triggers run after the category table, each against its own keyword set.
var special = []category{
	{"debugging", []string{"error", "bug", "fix"}},
	{"learning", []string{"learn", "tutorial", "explain"}},
	{"optimization", []string{"optimize", "performance", "speed"}},
}

// Infer returns the topic tags for a conversation. Matching is a
// case-insensitive substring test over title and content. The result is
// never empty and its order is stable.
func Infer(content, title string) []string {
	text := strings.ToLower(title + " " + content)

	var out []string
	seen := make(map[string]bool)
	add := func(tag string) {
		if !seen[tag] {
			seen[tag] = true
			out = append(out, tag)
		}
	}

	for _, c := range categories {
		if containsAny(text, c.Keywords) {
			add(c.Tag)
		}
	}
	for _, c := range special {
		if containsAny(text, c.Keywords) {
			add(c.Tag)
		}
	}

	if len(out) == 0 {
		return []string{General}
	}
	return out
}

// Categories returns every tag Infer can produce, in result order.
func Categories() []string {
	out := make([]string, 0, len(categories)+len(special)+1)
	for _, c := range categories {
		out = append(out, c.Tag)
	}
	for _, c := range special {
		out = append(out, c.Tag)
	}
	return append(out, General)
}

func containsAny(text string, keywords []string) bool {
	for _, k := range keywords {
		if strings.Contains(text, k) {
			return true
		}
	}
	return false
}
