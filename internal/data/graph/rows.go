package graph

import (
	"fmt"

	"github.com/gravamen/contractgraph-backend/internal/normalization"
)

// Param builders for the contract graph. Everything here is pure: maps
// in, Cypher parameter maps out, with the no-null-node guards applied
// before any query runs. Non-scalar values pass through
// normalization.GraphValue so the store only ever sees storable types.

func agreementParams(agreement map[string]any, agreementID string) map[string]any {
	tcv := asMap(agreement["total_contract_value"])
	return map[string]any{
		"agreement_id":                       agreementID,
		"name":                               presentOr(agreement["agreement_name"], agreementID),
		"agreement_type":                     agreement["agreement_type"],
		"effective_date":                     agreement["effective_date"],
		"expiration_date":                    agreement["expiration_date"],
		"agreement_date":                     agreement["agreement_date"],
		"auto_renewal":                       agreement["auto_renewal"],
		"renewal_term":                       agreement["renewal_term"],
		"notice_period_to_terminate_renewal": agreement["notice_period_to_terminate_renewal"],
		"total_contract_value":               normalization.GraphValue(tcv["amount"]),
		"contract_currency":                  tcv["currency"],
	}
}

// governingLawParams is nil when the agreement names no governing
// country; the Country hub node is only merged for a real name.
func governingLawParams(agreement map[string]any, agreementID string) map[string]any {
	governing := asMap(agreement["governing_law"])
	if !truthy(governing["country"]) {
		return nil
	}
	return map[string]any{
		"agreement_id": agreementID,
		"country":      governing["country"],
		"state":        governing["state"],
	}
}

func partyRows(agreement map[string]any) []map[string]any {
	parties := asList(agreement["parties"])
	rows := make([]map[string]any, 0, len(parties))
	for _, item := range parties {
		party := asMap(item)
		if party == nil || !truthy(party["name"]) {
			continue
		}
		rows = append(rows, map[string]any{
			"name":                  party["name"],
			"role":                  party["role"],
			"incorporation_country": party["incorporation_country"],
			"incorporation_state":   party["incorporation_state"],
		})
	}
	return rows
}

// incorporationRows filters party rows down to those naming an
// incorporation country, for the Organization->Country link.
func incorporationRows(parties []map[string]any) []map[string]any {
	rows := make([]map[string]any, 0, len(parties))
	for _, party := range parties {
		if !truthy(party["incorporation_country"]) {
			continue
		}
		rows = append(rows, party)
	}
	return rows
}

func clauseRows(doc map[string]any, agreementID string) []map[string]any {
	clauses := asList(doc["clauses"])
	rows := make([]map[string]any, 0, len(clauses))
	for idx, item := range clauses {
		clause := asMap(item)
		if clause == nil {
			continue
		}
		ord := idx + 1
		clauseID := normalization.ResolveClauseID(clause["clause_id"], ord)
		key := fmt.Sprintf("%s:::%s", agreementID, clauseID)
		drafts := asMap(clause["drafts"])
		provenance := asMap(clause["provenance"])
		excerpts := normalization.StringList(clause["excerpts"])

		rows = append(rows, map[string]any{
			"clause_id": clauseID,
			"excerpts":  excerpts,
			"props": map[string]any{
				"clause_key":              key,
				"title":                   clause["title"],
				"right_holder":            clause["right_holder"],
				"obligor":                 clause["obligor"],
				"dependencies":            compactList(clause["dependencies"]),
				"excerpts":                excerpts,
				"source_document_id":      provenance["source_document_id"],
				"page_refs":               normalization.GraphValue(provenance["page_refs"]),
				"confidence_overall":      clause["confidence_overall"],
				"defaults_applied":        compactList(clause["defaults_applied"]),
				"external_inference_used": clause["external_inference_used"],
				"draft_p0_full":           drafts["p0_full"],
				"draft_p50_full":          drafts["p50_full"],
				"draft_p100_full":         drafts["p100_full"],
				"draft_p25_delta":         normalization.GraphValue(drafts["p25_delta"]),
				"draft_p75_delta":         normalization.GraphValue(drafts["p75_delta"]),
				"clause_order":            ord,
			},
		})
	}
	return rows
}

// variableRows flattens every clause's variables into one batch. Enum
// rows get a second pass linking the EnumValue hub.
func variableRows(doc map[string]any, agreementID string) (vars []map[string]any, enums []map[string]any) {
	clauses := asList(doc["clauses"])
	for idx, item := range clauses {
		clause := asMap(item)
		if clause == nil {
			continue
		}
		clauseID := normalization.ResolveClauseID(clause["clause_id"], idx+1)
		key := fmt.Sprintf("%s:::%s", agreementID, clauseID)
		for _, vi := range asList(clause["variables"]) {
			variable := asMap(vi)
			if variable == nil || !truthy(variable["name"]) {
				continue
			}
			value := normalization.GraphValue(variable["value"])
			vars = append(vars, map[string]any{
				"clause_id":  clauseID,
				"clause_key": key,
				"name":       variable["name"],
				"props": map[string]any{
					"value":            value,
					"type":             variable["type"],
					"unit":             variable["unit"],
					"evidence":         normalization.GraphValue(variable["evidence"]),
					"confidence":       variable["confidence"],
					"defaults_applied": normalization.GraphValue(variable["defaults_applied"]),
				},
			})
			if t, _ := variable["type"].(string); t == "enum" && value != nil && value != "" {
				enums = append(enums, map[string]any{
					"clause_key": key,
					"name":       variable["name"],
					"enum_name":  value,
				})
			}
		}
	}
	return vars, enums
}

func asMap(v any) map[string]any {
	m, _ := v.(map[string]any)
	return m
}

func asList(v any) []any {
	l, _ := v.([]any)
	return l
}

// truthy mirrors how absent values are treated across the pipeline:
// null, empty strings, zero numbers, false, and empty collections all
// count as absent.
func truthy(v any) bool {
	switch t := v.(type) {
	case nil:
		return false
	case string:
		return t != ""
	case bool:
		return t
	case float64:
		return t != 0
	case int:
		return t != 0
	case int64:
		return t != 0
	case []any:
		return len(t) > 0
	case map[string]any:
		return len(t) > 0
	}
	return true
}

func presentOr(v, fallback any) any {
	if truthy(v) {
		return v
	}
	return fallback
}

// compactList keeps truthy members, coerced, order preserved.
func compactList(v any) []any {
	items := asList(v)
	out := make([]any, 0, len(items))
	for _, item := range items {
		if truthy(item) {
			out = append(out, normalization.GraphValue(item))
		}
	}
	return out
}
