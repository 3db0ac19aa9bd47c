package parser

import "time"

// dateLayouts are tried in order when coercing a created/edited string.
var dateLayouts = []string{
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02 15:04:05",
	"2006-01-02",
}

// CoerceDates walks maps and slices, converting any string value under a
// key literally named "created" or "edited" into a time.Time. Strings that
// fail to parse coerce to the current time rather than propagating an error.
func CoerceDates(v any) any {
	switch t := v.(type) {
	case map[string]any:
		out := make(map[string]any, len(t))
		for k, val := range t {
			if k == "created" || k == "edited" {
				if s, ok := val.(string); ok {
					out[k] = coerceDate(s)
					continue
				}
			}
			out[k] = CoerceDates(val)
		}
		return out
	case []any:
		out := make([]any, len(t))
		for i, val := range t {
			out[i] = CoerceDates(val)
		}
		return out
	default:
		return v
	}
}

func coerceDate(s string) time.Time {
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t
		}
	}
	return time.Now()
}

// DatesToStrings walks maps and slices, serializing every time.Time value
// to RFC 3339 so emitted YAML carries dates in a standard string form.
func DatesToStrings(v any) any {
	switch t := v.(type) {
	case time.Time:
		return t.UTC().Format(time.RFC3339)
	case map[string]any:
		out := make(map[string]any, len(t))
		for k, val := range t {
			out[k] = DatesToStrings(val)
		}
		return out
	case []any:
		out := make([]any, len(t))
		for i, val := range t {
			out[i] = DatesToStrings(val)
		}
		return out
	default:
		return v
	}
}
