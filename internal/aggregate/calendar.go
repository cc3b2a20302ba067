package aggregate

import (
	"sort"
	"time"

	"github.com/Zuo-Peng/ai-chat-calendar/internal/record"
)

// DayLayout is the calendar bucket key format.
const DayLayout = "2006-01-02"

// GroupByDay buckets records by calendar day in loc. Within a bucket records
// keep collection order.
func GroupByDay(records []record.Record, loc *time.Location) map[string][]record.Record {
	if loc == nil {
		loc = time.Local
	}
	groups := make(map[string][]record.Record)
	for _, r := range records {
		key := r.Date.In(loc).Format(DayLayout)
		groups[key] = append(groups[key], r)
	}
	return groups
}

// DayKeys returns the bucket keys in ascending order.
func DayKeys(groups map[string][]record.Record) []string {
	keys := make([]string, 0, len(groups))
	for k := range groups {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Day is one cell of a month view.
type Day struct {
	Date    time.Time
	Key     string
	Records []record.Record
}

// Month lays out every day of a calendar month, empty days included.
func Month(groups map[string][]record.Record, year int, month time.Month, loc *time.Location) []Day {
	if loc == nil {
		loc = time.Local
	}
	first := time.Date(year, month, 1, 0, 0, 0, 0, loc)
	var days []Day
	for d := first; d.Month() == month; d = d.AddDate(0, 0, 1) {
		key := d.Format(DayLayout)
		days = append(days, Day{Date: d, Key: key, Records: groups[key]})
	}
	return days
}
