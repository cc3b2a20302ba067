package parse

import (
	"encoding/json"
	"math"
	"strconv"
	"strings"
	"time"
)

// epochMillisThreshold separates epoch seconds from epoch milliseconds.
// 1e12 ms is September 2001; 1e12 s is tens of thousands of years away.
const epochMillisThreshold = 1e12

// textKeys are tried in order when an object stands in for text.
var textKeys = []string{"parts", "text", "content"}

// coerceText turns a loosely typed value into text. Strings, numbers and
// booleans are formatted directly; arrays join their resolvable elements with
// newlines; objects resolve through their parts, text or content field.
// Anything else is unresolvable.
func coerceText(v any) (string, bool) {
	switch x := v.(type) {
	case nil:
		return "", false
	case string:
		return x, true
	case json.Number:
		return x.String(), true
	case bool:
		return strconv.FormatBool(x), true
	case []any:
		var parts []string
		for _, e := range x {
			s, ok := coerceText(e)
			if !ok || strings.TrimSpace(s) == "" {
				continue
			}
			parts = append(parts, s)
		}
		if len(parts) == 0 {
			return "", false
		}
		return strings.Join(parts, "\n"), true
	case *Object:
		for _, k := range textKeys {
			if inner, ok := x.Get(k); ok && inner != nil {
				return coerceText(inner)
			}
		}
	}
	return "", false
}

var timeLayouts = []string{
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02T15:04:05.999999999",
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02",
}

// coerceTime reads epoch seconds, epoch milliseconds (as numbers or numeric
// strings) and ISO-8601 strings.
func coerceTime(v any) (time.Time, bool) {
	switch x := v.(type) {
	case json.Number:
		f, err := x.Float64()
		if err != nil {
			return time.Time{}, false
		}
		return fromEpoch(f)
	case string:
		s := strings.TrimSpace(x)
		if s == "" {
			return time.Time{}, false
		}
		if f, err := strconv.ParseFloat(s, 64); err == nil {
			return fromEpoch(f)
		}
		for _, layout := range timeLayouts {
			if t, err := time.Parse(layout, s); err == nil {
				return t, true
			}
		}
	}
	return time.Time{}, false
}

func fromEpoch(f float64) (time.Time, bool) {
	if f <= 0 || math.IsInf(f, 0) || math.IsNaN(f) {
		return time.Time{}, false
	}
	if f >= epochMillisThreshold {
		return time.UnixMilli(int64(f)).UTC(), true
	}
	sec, frac := math.Modf(f)
	return time.Unix(int64(sec), int64(frac*1e9)).UTC(), true
}

// firstPresent returns the value of the first alias that is present and not
// null.
func firstPresent(o *Object, aliases []string) (any, bool) {
	for _, a := range aliases {
		if v, ok := o.Path(a); ok && v != nil {
			return v, true
		}
	}
	return nil, false
}
