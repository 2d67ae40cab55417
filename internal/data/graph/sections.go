package graph

import (
	"fmt"

	"github.com/gravamen/contractgraph-backend/internal/normalization"
)

// sectionSteps assembles the optional contract-section writes for the
// full ingestion path. Singleton sections are keyed by agreement_id,
// list sections by (agreement_id, ord) so re-ingesting a document
// updates nodes in place instead of stacking duplicates.
func sectionSteps(agreement map[string]any, agreementID string) []step {
	var steps []step

	if dr := asMap(agreement["dispute_resolution"]); dr != nil {
		steps = append(steps, singletonSteps(agreementID, "DisputeResolution", "HAS_DISPUTE_RESOLUTION",
			pickProps(dr, "method", "venue", "jurisdiction", "governing_rules"), nil)...)
	}

	if lc := asMap(agreement["liability_cap"]); sectionExists(lc) {
		steps = append(steps, singletonSteps(agreementID, "LiabilityCap", "HAS_LIABILITY_CAP",
			pickProps(lc, "cap_amount", "currency", "cap_type", "calculation_basis", "applies_to_party", "carve_outs"),
			normalization.StringList(lc["excerpts"]))...)
	}

	steps = append(steps, listSteps(agreementID, "Indemnification", "HAS_INDEMNIFICATION",
		sectionRows(asList(agreement["indemnification"]),
			propsOf("indemnitor", "indemnitee", "scope", "triggers", "limitations")))...)

	steps = append(steps, listSteps(agreementID, "Obligation", "HAS_OBLIGATION",
		sectionRows(asList(agreement["obligations"]),
			propsOf("obligation_type", "obligated_party", "description", "deadline",
				"deliverables", "performance_standards", "consequences_of_breach")))...)

	if pt := asMap(agreement["payment_terms"]); pt != nil {
		steps = append(steps, singletonSteps(agreementID, "PaymentTerms", "HAS_PAYMENT_TERMS",
			pickProps(pt, "payment_schedule", "payment_method", "currency",
				"late_payment_penalty", "pricing_model", "price_increases"),
			normalization.StringList(pt["excerpts"]))...)
	}

	steps = append(steps, listSteps(agreementID, "IntellectualProperty", "HAS_IP_PROVISION",
		sectionRows(asList(agreement["intellectual_property"]), ipProps))...)

	if conf := asMap(agreement["confidentiality"]); sectionExists(conf) {
		steps = append(steps, singletonSteps(agreementID, "Confidentiality", "HAS_CONFIDENTIALITY",
			pickProps(conf, "duration", "surviving_termination", "exceptions", "return_obligations"),
			normalization.StringList(conf["excerpts"]))...)
	}

	if dp := asMap(agreement["data_protection"]); dp != nil {
		steps = append(steps, singletonSteps(agreementID, "DataProtection", "HAS_DATA_PROTECTION",
			pickProps(dp, "gdpr_compliant", "data_processing_agreement", "data_subject_rights",
				"breach_notification_period", "data_location_restrictions", "subprocessor_consent_required"),
			normalization.StringList(dp["excerpts"]))...)
	}

	steps = append(steps, complianceSteps(agreementID, asList(agreement["compliance_frameworks"]))...)

	steps = append(steps, listSteps(agreementID, "Warranty", "HAS_WARRANTY",
		sectionRows(asList(agreement["warranties"]),
			propsOf("warranty_type", "warrantor", "warranty_statement", "duration", "remedies", "disclaimers")))...)

	if term := asMap(agreement["termination"]); term != nil {
		steps = append(steps, terminationSteps(agreementID, term)...)
	}

	if ins := asMap(agreement["insurance"]); insuranceRequired(ins) {
		steps = append(steps, insuranceSteps(agreementID, ins)...)
	}

	steps = append(steps, listSteps(agreementID, "Restriction", "HAS_RESTRICTION",
		sectionRows(asList(agreement["restrictions"]),
			propsOf("restriction_type", "restricted_party", "description",
				"duration", "geographic_scope", "exceptions")))...)

	if coc := asMap(agreement["change_of_control"]); coc != nil {
		steps = append(steps, singletonSteps(agreementID, "ChangeOfControl", "HAS_CHANGE_OF_CONTROL",
			pickProps(coc, "triggers_termination", "requires_consent", "notification_required", "affected_party"),
			normalization.StringList(coc["excerpts"]))...)
	}

	if fm := asMap(agreement["force_majeure"]); sectionExists(fm) {
		steps = append(steps, singletonSteps(agreementID, "ForceMajeure", "HAS_FORCE_MAJEURE",
			pickProps(fm, "covered_events", "notice_period", "suspension_of_obligations",
				"termination_allowed", "termination_trigger_period"),
			normalization.StringList(fm["excerpts"]))...)
	}

	return steps
}

// sectionExists reports whether an optional section is flagged present.
// Only a literal boolean true counts; extraction sets exists=false on
// sections it looked for and did not find.
func sectionExists(section map[string]any) bool {
	if section == nil {
		return false
	}
	flag, ok := section["exists"].(bool)
	return ok && flag
}

func insuranceRequired(section map[string]any) bool {
	if section == nil {
		return false
	}
	flag, ok := section["required"].(bool)
	return ok && flag
}

// pickProps coerces the named keys into a property map. Absent keys map
// to nil so SET += clears values the latest extraction no longer claims.
func pickProps(section map[string]any, keys ...string) map[string]any {
	props := make(map[string]any, len(keys))
	for _, key := range keys {
		props[key] = normalization.GraphValue(section[key])
	}
	return props
}

func propsOf(keys ...string) func(map[string]any) map[string]any {
	return func(section map[string]any) map[string]any {
		return pickProps(section, keys...)
	}
}

func ipProps(ip map[string]any) map[string]any {
	props := pickProps(ip, "ip_type", "owner", "subject_matter")
	license := asMap(ip["license_details"])
	for _, key := range []string{"license_type", "scope", "territory", "duration",
		"sublicensable", "transferable", "perpetual", "irrevocable"} {
		var v any
		if license != nil {
			v = license[key]
		}
		props[key] = normalization.GraphValue(v)
	}
	return props
}

func terminationProps(term map[string]any) map[string]any {
	return map[string]any{
		"convenience_allowed":       nestedValue(term, "termination_for_convenience", "allowed"),
		"convenience_notice_period": nestedValue(term, "termination_for_convenience", "notice_period"),
		"termination_fee":           nestedValue(term, "termination_for_convenience", "termination_fee"),
		"convenience_parties":       nestedValue(term, "termination_for_convenience", "allowed_parties"),
		"cause_breach_types":        nestedValue(term, "termination_for_cause", "breach_types"),
		"cause_cure_period":         nestedValue(term, "termination_for_cause", "cure_period"),
		"cause_notice_required":     nestedValue(term, "termination_for_cause", "notice_required"),
		"surviving_clauses":         normalization.GraphValue(term["surviving_clauses"]),
	}
}

func nestedValue(section map[string]any, key, sub string) any {
	if m := asMap(section[key]); m != nil {
		return normalization.GraphValue(m[sub])
	}
	return nil
}

// sectionRows converts a raw section list into keyed UNWIND rows. The
// ord is the position in the source list, so positions stay stable even
// when malformed entries are skipped.
func sectionRows(items []any, build func(map[string]any) map[string]any) []map[string]any {
	var rows []map[string]any
	for idx, item := range items {
		section := asMap(item)
		if section == nil {
			continue
		}
		rows = append(rows, map[string]any{
			"ord":      idx,
			"props":    build(section),
			"excerpts": normalization.StringList(section["excerpts"]),
		})
	}
	return rows
}

func rowsHaveExcerpts(rows []map[string]any) bool {
	for _, row := range rows {
		if texts, ok := row["excerpts"].([]string); ok && len(texts) > 0 {
			return true
		}
	}
	return false
}

func singletonSteps(agreementID, label, rel string, props map[string]any, excerpts []string) []step {
	steps := []step{{
		query: fmt.Sprintf(`
MATCH (a:Agreement {agreement_id: $agreement_id})
MERGE (n:%s {agreement_id: $agreement_id})
SET n += $props
MERGE (a)-[:%s]->(n)
`, label, rel),
		params: map[string]any{"agreement_id": agreementID, "props": props},
	}}
	if len(excerpts) > 0 {
		steps = append(steps, step{
			query: fmt.Sprintf(`
MATCH (n:%s {agreement_id: $agreement_id})
UNWIND $texts AS text
MERGE (e:Excerpt {text: text})
MERGE (n)-[:HAS_EXCERPT]->(e)
`, label),
			params: map[string]any{"agreement_id": agreementID, "texts": excerpts},
		})
	}
	return steps
}

func listSteps(agreementID, label, rel string, rows []map[string]any) []step {
	if len(rows) == 0 {
		return nil
	}
	steps := []step{{
		query: fmt.Sprintf(`
MATCH (a:Agreement {agreement_id: $agreement_id})
UNWIND $rows AS row
MERGE (n:%s {agreement_id: $agreement_id, ord: row.ord})
SET n += row.props
MERGE (a)-[:%s]->(n)
`, label, rel),
		params: map[string]any{"agreement_id": agreementID, "rows": rows},
	}}
	if rowsHaveExcerpts(rows) {
		steps = append(steps, step{
			query: fmt.Sprintf(`
UNWIND $rows AS row
UNWIND row.excerpts AS text
MATCH (n:%s {agreement_id: $agreement_id, ord: row.ord})
MERGE (e:Excerpt {text: text})
MERGE (n)-[:HAS_EXCERPT]->(e)
`, label),
			params: map[string]any{"agreement_id": agreementID, "rows": rows},
		})
	}
	return steps
}

// complianceSteps links each framework entry through a per-agreement
// ComplianceRequirement to a shared ComplianceFramework hub. Entries
// without a framework name carry nothing worth anchoring and are
// dropped.
func complianceSteps(agreementID string, items []any) []step {
	var rows []map[string]any
	for idx, item := range items {
		cf := asMap(item)
		if cf == nil || !truthy(cf["framework_name"]) {
			continue
		}
		rows = append(rows, map[string]any{
			"ord":            idx,
			"framework_name": normalization.GraphValue(cf["framework_name"]),
			"props": pickProps(cf, "certification_required", "audit_rights",
				"audit_frequency", "specific_requirements"),
			"excerpts": normalization.StringList(cf["excerpts"]),
		})
	}
	if len(rows) == 0 {
		return nil
	}
	steps := []step{{
		query: `
MATCH (a:Agreement {agreement_id: $agreement_id})
UNWIND $rows AS row
MERGE (f:ComplianceFramework {framework_name: row.framework_name})
MERGE (n:ComplianceRequirement {agreement_id: $agreement_id, ord: row.ord})
SET n += row.props
MERGE (a)-[:COMPLIES_WITH]->(n)
MERGE (n)-[:FRAMEWORK_TYPE]->(f)
`,
		params: map[string]any{"agreement_id": agreementID, "rows": rows},
	}}
	if rowsHaveExcerpts(rows) {
		steps = append(steps, step{
			query: `
UNWIND $rows AS row
UNWIND row.excerpts AS text
MATCH (n:ComplianceRequirement {agreement_id: $agreement_id, ord: row.ord})
MERGE (e:Excerpt {text: text})
MERGE (n)-[:HAS_EXCERPT]->(e)
`,
			params: map[string]any{"agreement_id": agreementID, "rows": rows},
		})
	}
	return steps
}

func terminationSteps(agreementID string, term map[string]any) []step {
	steps := singletonSteps(agreementID, "Termination", "HAS_TERMINATION_PROVISIONS",
		terminationProps(term), normalization.StringList(term["excerpts"]))

	var rows []map[string]any
	for idx, item := range asList(term["post_termination_obligations"]) {
		pto := asMap(item)
		if pto == nil {
			continue
		}
		rows = append(rows, map[string]any{
			"ord":   idx,
			"props": pickProps(pto, "obligation", "responsible_party", "duration"),
		})
	}
	if len(rows) > 0 {
		steps = append(steps, step{
			query: `
MATCH (t:Termination {agreement_id: $agreement_id})
UNWIND $rows AS row
MERGE (n:PostTerminationObligation {agreement_id: $agreement_id, ord: row.ord})
SET n += row.props
MERGE (t)-[:HAS_POST_TERMINATION_OBLIGATION]->(n)
`,
			params: map[string]any{"agreement_id": agreementID, "rows": rows},
		})
	}
	return steps
}

func insuranceSteps(agreementID string, ins map[string]any) []step {
	steps := singletonSteps(agreementID, "InsuranceRequirement", "HAS_INSURANCE_REQUIREMENT",
		pickProps(ins, "proof_required"), normalization.StringList(ins["excerpts"]))

	var rows []map[string]any
	for idx, item := range asList(ins["types"]) {
		it := asMap(item)
		if it == nil {
			continue
		}
		rows = append(rows, map[string]any{
			"ord": idx,
			"props": pickProps(it, "insurance_type", "minimum_coverage",
				"currency", "additional_insured_required"),
		})
	}
	if len(rows) > 0 {
		steps = append(steps, step{
			query: `
MATCH (ins:InsuranceRequirement {agreement_id: $agreement_id})
UNWIND $rows AS row
MERGE (n:InsuranceType {agreement_id: $agreement_id, ord: row.ord})
SET n += row.props
MERGE (ins)-[:REQUIRES_INSURANCE_TYPE]->(n)
`,
			params: map[string]any{"agreement_id": agreementID, "rows": rows},
		})
	}
	return steps
}
