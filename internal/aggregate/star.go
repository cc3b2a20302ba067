package aggregate

import "github.com/Zuo-Peng/ai-chat-calendar/internal/record"

// ToggleStar returns a copy of records with Starred flipped on every record
// whose ID is id. The second result reports whether any record matched.
func ToggleStar(records []record.Record, id string) ([]record.Record, bool) {
	out := make([]record.Record, len(records))
	copy(out, records)
	found := false
	for i := range out {
		if out[i].ID == id {
			out[i].Starred = !out[i].Starred
			found = true
		}
	}
	return out, found
}
