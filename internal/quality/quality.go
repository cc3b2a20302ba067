// Package quality scores normalized conversations on a 1-5 scale.
package quality

import (
	"math"
	"strings"
	"unicode/utf8"
)

const (
	Base = 3.0
	Min  = 1.0
	Max  = 5.0

	longContent  = 2000
	shortContent = 100
	manyTags     = 2
	manyLines    = 10
)

// Score rates a conversation from its content and tags. Adjustments are
// applied in a fixed order to a base of 3, then the result is clamped to
// [1, 5] and rounded to the nearest half point.
func Score(content string, tags []string) float64 {
	score := Base
	n := utf8.RuneCountInString(content)

	if n > longContent {
		score += 1
	}
	if n < shortContent {
		score -= 1
	}
	if strings.Contains(content, "```") || strings.Contains(content, "code") {
		score += 0.5
	}
	if len(tags) > manyTags {
		score += 0.3
	}
	if len(strings.Split(content, "\n")) > manyLines {
		score += 0.2
	}

	return round(clamp(score))
}

// clamp bounds v to [Min, Max].
func clamp(v float64) float64 {
	return math.Max(Min, math.Min(Max, v))
}

// round rounds v to the nearest 0.5.
func round(v float64) float64 {
	return math.Round(v*2) / 2
}

// valid reports whether v is a score Score can produce.
func valid(v float64) bool {
	return v >= Min && v <= Max && round(v) == v
}
