package normalization

import "encoding/json"

// GraphValue maps an arbitrary decoded JSON value onto a form the graph
// store accepts: null and scalars pass through, lists coerce per element
// with nulls dropped and order preserved, and nested maps collapse to one
// opaque JSON string. Every non-scalar property written to the graph goes
// through here.
func GraphValue(v any) any {
	switch t := v.(type) {
	case nil:
		return nil
	case string:
		return t
	case bool:
		return t
	case float64:
		return t
	case int:
		return t
	case int64:
		return t
	case []any:
		out := make([]any, 0, len(t))
		for _, item := range t {
			if c := GraphValue(item); c != nil {
				out = append(out, c)
			}
		}
		return out
	default:
		raw, err := json.Marshal(v)
		if err != nil {
			return nil
		}
		return string(raw)
	}
}

// StringList coerces a decoded JSON list into its non-empty string members.
func StringList(v any) []string {
	items, ok := v.([]any)
	if !ok {
		return []string{}
	}
	out := make([]string, 0, len(items))
	for _, item := range items {
		s, ok := item.(string)
		if !ok || s == "" {
			continue
		}
		out = append(out, s)
	}
	return out
}
