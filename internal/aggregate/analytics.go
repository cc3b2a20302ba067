package aggregate

import (
	"math"
	"sort"

	"github.com/Zuo-Peng/ai-chat-calendar/internal/record"
)

// Analytics is a rollup over a record set.
type Analytics struct {
	Total          int                     `json:"total"`
	Starred        int                     `json:"starred"`
	ByPlatform     map[record.Platform]int `json:"byPlatform"`
	ByTag          map[string]int          `json:"byTag"`
	AverageQuality float64                 `json:"averageQuality"`
}

// TagCount is one entry of a tag ranking.
type TagCount struct {
	Tag   string `json:"tag"`
	Count int    `json:"count"`
}

// Summarize counts records, starred records, platforms and tags, and averages
// quality to one decimal place. An empty set averages to 0.
func Summarize(records []record.Record) Analytics {
	a := Analytics{
		ByPlatform: make(map[record.Platform]int),
		ByTag:      make(map[string]int),
	}
	var sum float64
	for _, r := range records {
		a.Total++
		if r.Starred {
			a.Starred++
		}
		a.ByPlatform[r.Platform]++
		for _, t := range r.Tags {
			a.ByTag[t]++
		}
		sum += r.Quality
	}
	if a.Total > 0 {
		a.AverageQuality = math.Round(sum/float64(a.Total)*10) / 10
	}
	return a
}

// TopTags returns up to n tags by descending count, ties broken by name.
// n <= 0 returns all of them.
func (a Analytics) TopTags(n int) []TagCount {
	out := make([]TagCount, 0, len(a.ByTag))
	for t, c := range a.ByTag {
		out = append(out, TagCount{Tag: t, Count: c})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Count != out[j].Count {
			return out[i].Count > out[j].Count
		}
		return out[i].Tag < out[j].Tag
	})
	if n > 0 && len(out) > n {
		out = out[:n]
	}
	return out
}
