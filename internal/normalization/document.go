package normalization

import (
	"path/filepath"
	"strings"
)

// Canonical dispute-resolution methods. Raw values that lower-case onto one
// of these are canonicalized; anything else passes through untouched.
var disputeMethods = map[string]struct{}{
	"arbitration": {},
	"litigation":  {},
	"mediation":   {},
	"negotiation": {},
}

// Normalize reconciles a raw parsed contract document, in either the legacy
// nested shape or the flat enhanced shape, into the canonical record the
// loaders consume. The maps it rewrites are copied first; untouched nested
// values stay shared with the input. sourceName stamps file_name and feeds
// the contract id chain.
//
// Rules, in order: rename contract_type/auto_renew to their canonical
// names; hoist basic_agreement_information fields for keys not already set
// (explicit enhanced fields always win); promote and reshape parties; split
// governing_law_and_dispute_resolution into governing_law and
// dispute_resolution; drop the legacy blocks; guarantee a clauses list;
// stamp file_name and contract_id.
func Normalize(raw map[string]any, sourceName string) map[string]any {
	doc := copyMap(raw)
	agreement := copyMap(asMap(doc["agreement"]))

	renameKey(agreement, "contract_type", "agreement_type")
	renameKey(agreement, "auto_renew", "auto_renewal")

	hoistBasicInfo(agreement)
	promoteParties(doc, agreement)
	splitGoverningLaw(doc, agreement)

	delete(agreement, "basic_agreement_information")
	delete(agreement, "governing_law_and_dispute_resolution")
	doc["agreement"] = agreement

	if doc["clauses"] == nil {
		doc["clauses"] = []any{}
	}

	if sourceName != "" {
		if doc["file_name"] == nil {
			doc["file_name"] = sourceName
		}
		contractID := firstPresent(doc["contract_id"], agreement["contract_id"], stem(sourceName))
		doc["contract_id"] = contractID
		if agreement["contract_id"] == nil {
			agreement["contract_id"] = contractID
		}
	}

	return doc
}

var basicInfoFields = [][2]string{
	{"agreement_name", "agreement_name"},
	{"contract_type", "agreement_type"},
	{"agreement_date", "agreement_date"},
	{"effective_date", "effective_date"},
	{"expiration_date", "expiration_date"},
	{"renewal_term", "renewal_term"},
	{"notice_period_to_terminate_renewal", "notice_period_to_terminate_renewal"},
	{"auto_renew", "auto_renewal"},
	{"total_contract_value", "total_contract_value"},
}

func hoistBasicInfo(agreement map[string]any) {
	bai := asMap(agreement["basic_agreement_information"])
	if bai == nil {
		return
	}
	for _, pair := range basicInfoFields {
		src, dst := pair[0], pair[1]
		if _, exists := agreement[dst]; exists {
			continue
		}
		if v, ok := bai[src]; ok {
			agreement[dst] = v
		}
	}
}

func promoteParties(doc, agreement map[string]any) {
	raw := asList(doc["parties"])
	delete(doc, "parties")
	if len(raw) == 0 {
		raw = asList(agreement["parties"])
	}
	normalized := make([]any, 0, len(raw))
	for _, item := range raw {
		party := asMap(item)
		if party == nil {
			continue
		}
		normalized = append(normalized, map[string]any{
			"role":                  party["role"],
			"name":                  firstPresent(party["legal_name"], party["name"]),
			"incorporation_country": firstPresent(party["country"], party["incorporation_country"]),
			"incorporation_state":   firstPresent(party["state"], party["incorporation_state"]),
		})
	}
	if len(normalized) > 0 {
		agreement["parties"] = normalized
	}
}

func splitGoverningLaw(doc, agreement map[string]any) {
	combined := asMap(doc["governing_law_and_dispute_resolution"])
	delete(doc, "governing_law_and_dispute_resolution")
	if combined == nil {
		combined = asMap(agreement["governing_law_and_dispute_resolution"])
	}
	if len(combined) == 0 {
		return
	}
	if _, exists := agreement["governing_law"]; !exists {
		agreement["governing_law"] = map[string]any{
			"country":              combined["governing_country"],
			"state":                combined["governing_state"],
			"most_favored_country": combined["most_favored_country"],
		}
	}
	if _, exists := agreement["dispute_resolution"]; !exists {
		agreement["dispute_resolution"] = map[string]any{
			"method":          normalizeDisputeMethod(combined["dispute_resolution_method"]),
			"venue":           combined["venue"],
			"jurisdiction":    combined["jurisdiction"],
			"governing_rules": firstPresent(combined["rules"], combined["rules_governing_dispute_resolution"]),
		}
	}
}

// normalizeDisputeMethod lower-cases only onto a recognized canonical
// method; unrecognized raw values pass through and nothing is invented.
func normalizeDisputeMethod(raw any) any {
	s, ok := raw.(string)
	if !ok {
		return raw
	}
	if strings.TrimSpace(s) == "" {
		return nil
	}
	lower := strings.ToLower(s)
	if _, canonical := disputeMethods[lower]; canonical {
		return lower
	}
	return s
}

func copyMap(src map[string]any) map[string]any {
	out := make(map[string]any, len(src))
	for k, v := range src {
		out[k] = v
	}
	return out
}

func asMap(v any) map[string]any {
	m, _ := v.(map[string]any)
	return m
}

func asList(v any) []any {
	l, _ := v.([]any)
	return l
}

// firstPresent returns the first candidate that is neither null nor an
// empty string.
func firstPresent(candidates ...any) any {
	for _, c := range candidates {
		if c == nil {
			continue
		}
		if s, ok := c.(string); ok && s == "" {
			continue
		}
		return c
	}
	return nil
}

func renameKey(m map[string]any, from, to string) {
	if _, exists := m[to]; exists {
		return
	}
	if v, ok := m[from]; ok {
		m[to] = v
		delete(m, from)
	}
}

func stem(name string) string {
	base := filepath.Base(name)
	return strings.TrimSuffix(base, filepath.Ext(base))
}
