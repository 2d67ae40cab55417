package normalization

import (
	"fmt"
	"math"
	"strconv"
)

// agreementIDSources is the ordered identifier fallback chain: agreement
// name, agreement id, document contract id, source filename. The first
// non-empty candidate wins.
var agreementIDSources = []func(doc, agreement map[string]any) any{
	func(_, agreement map[string]any) any { return agreement["agreement_name"] },
	func(_, agreement map[string]any) any { return agreement["agreement_id"] },
	func(doc, _ map[string]any) any { return doc["contract_id"] },
	func(doc, _ map[string]any) any { return doc["file_name"] },
}

// ResolveAgreementID derives the stable agreement identifier for a
// document. Returns the caller-supplied fallback when every source is
// absent; an empty result means the document cannot be ingested.
func ResolveAgreementID(doc map[string]any, fallback string) string {
	agreement, _ := doc["agreement"].(map[string]any)
	for _, source := range agreementIDSources {
		if id := presentID(source(doc, agreement)); id != "" {
			return id
		}
	}
	return fallback
}

// NormalizeClauseID renders a raw clause id. Null passes through; integral
// numbers drop their fractional part ("3", never "3.0"); everything else
// takes its natural string form.
func NormalizeClauseID(raw any) any {
	switch t := raw.(type) {
	case nil:
		return nil
	case string:
		return t
	case float64:
		return numericID(t)
	case int:
		return strconv.Itoa(t)
	case int64:
		return strconv.FormatInt(t, 10)
	default:
		return fmt.Sprint(t)
	}
}

// ResolveClauseID yields a clause's identifier, falling back to the 1-based
// positional index when the explicit id is absent. Re-ingesting the same
// clause ordering therefore re-derives the same ids.
func ResolveClauseID(raw any, idx int) string {
	if id := presentID(raw); id != "" {
		return id
	}
	return strconv.Itoa(idx)
}

// presentID renders an identifier candidate, treating null, empty strings,
// zero numbers, and false as absent.
func presentID(v any) string {
	switch t := v.(type) {
	case nil:
		return ""
	case string:
		return t
	case float64:
		if t == 0 {
			return ""
		}
		return numericID(t)
	case int:
		if t == 0 {
			return ""
		}
		return strconv.Itoa(t)
	case int64:
		if t == 0 {
			return ""
		}
		return strconv.FormatInt(t, 10)
	case bool:
		if !t {
			return ""
		}
		return "true"
	default:
		return fmt.Sprint(t)
	}
}

func numericID(f float64) string {
	if f == math.Trunc(f) && !math.IsInf(f, 0) {
		if math.Abs(f) < 1<<62 {
			return strconv.FormatInt(int64(f), 10)
		}
		return strconv.FormatFloat(f, 'f', -1, 64)
	}
	return strconv.FormatFloat(f, 'g', -1, 64)
}
