package normalization

import (
	"reflect"
	"testing"
)

func TestNormalizeHoistsLegacyBasicInfo(t *testing.T) {
	raw := map[string]any{
		"agreement": map[string]any{
			"basic_agreement_information": map[string]any{
				"agreement_name": "Acme MSA",
				"contract_type":  "MSA",
				"effective_date": "2024-01-01",
				"auto_renew":     true,
			},
		},
	}

	doc := Normalize(raw, "acme_msa.json")
	agreement := doc["agreement"].(map[string]any)

	if got := agreement["agreement_name"]; got != "Acme MSA" {
		t.Fatalf("agreement_name: want=%q got=%v", "Acme MSA", got)
	}
	if got := agreement["agreement_type"]; got != "MSA" {
		t.Fatalf("agreement_type: want=%q got=%v", "MSA", got)
	}
	if got := agreement["auto_renewal"]; got != true {
		t.Fatalf("auto_renewal: want true got=%v", got)
	}
	if _, exists := agreement["basic_agreement_information"]; exists {
		t.Fatalf("basic_agreement_information should be dropped")
	}
}

func TestNormalizeExplicitFieldsWinOverLegacy(t *testing.T) {
	raw := map[string]any{
		"agreement": map[string]any{
			"agreement_type": "SaaS Subscription",
			"basic_agreement_information": map[string]any{
				"contract_type": "MSA",
			},
		},
	}

	doc := Normalize(raw, "")
	agreement := doc["agreement"].(map[string]any)
	if got := agreement["agreement_type"]; got != "SaaS Subscription" {
		t.Fatalf("agreement_type: want=%q got=%v", "SaaS Subscription", got)
	}
}

func TestNormalizeRenamesTopLevelVariants(t *testing.T) {
	raw := map[string]any{
		"agreement": map[string]any{
			"contract_type": "NDA",
			"auto_renew":    false,
		},
	}

	doc := Normalize(raw, "")
	agreement := doc["agreement"].(map[string]any)
	if got := agreement["agreement_type"]; got != "NDA" {
		t.Fatalf("agreement_type: want=%q got=%v", "NDA", got)
	}
	if got, exists := agreement["auto_renewal"]; !exists || got != false {
		t.Fatalf("auto_renewal: want false got=%v", got)
	}
	if _, exists := agreement["contract_type"]; exists {
		t.Fatalf("contract_type should be renamed away")
	}
}

func TestNormalizePromotesDocumentLevelParties(t *testing.T) {
	raw := map[string]any{
		"agreement": map[string]any{},
		"parties": []any{
			map[string]any{
				"legal_name": "Acme Corp",
				"role":       "Customer",
				"country":    "USA",
				"state":      "Delaware",
			},
			"not a party",
		},
	}

	doc := Normalize(raw, "")
	agreement := doc["agreement"].(map[string]any)

	if _, exists := doc["parties"]; exists {
		t.Fatalf("document-level parties should move under agreement")
	}
	parties := agreement["parties"].([]any)
	if len(parties) != 1 {
		t.Fatalf("parties: want 1 got=%d", len(parties))
	}
	want := map[string]any{
		"role":                  "Customer",
		"name":                  "Acme Corp",
		"incorporation_country": "USA",
		"incorporation_state":   "Delaware",
	}
	if !reflect.DeepEqual(parties[0], want) {
		t.Fatalf("party: want=%v got=%v", want, parties[0])
	}
}

func TestNormalizeKeepsCanonicalPartyShape(t *testing.T) {
	raw := map[string]any{
		"agreement": map[string]any{
			"parties": []any{
				map[string]any{
					"name":                  "Beta LLC",
					"role":                  "Provider",
					"incorporation_country": "Germany",
				},
			},
		},
	}

	doc := Normalize(raw, "")
	agreement := doc["agreement"].(map[string]any)
	party := agreement["parties"].([]any)[0].(map[string]any)
	if party["name"] != "Beta LLC" {
		t.Fatalf("name: want=%q got=%v", "Beta LLC", party["name"])
	}
	if party["incorporation_country"] != "Germany" {
		t.Fatalf("incorporation_country: want=%q got=%v", "Germany", party["incorporation_country"])
	}
}

func TestNormalizeSplitsGoverningLaw(t *testing.T) {
	raw := map[string]any{
		"agreement": map[string]any{},
		"governing_law_and_dispute_resolution": map[string]any{
			"governing_country":                  "USA",
			"governing_state":                    "New York",
			"dispute_resolution_method":          "Arbitration",
			"venue":                              "NYC",
			"rules_governing_dispute_resolution": "AAA Commercial Rules",
		},
	}

	doc := Normalize(raw, "")
	agreement := doc["agreement"].(map[string]any)

	gl := agreement["governing_law"].(map[string]any)
	if gl["country"] != "USA" || gl["state"] != "New York" {
		t.Fatalf("governing_law: got=%v", gl)
	}
	dr := agreement["dispute_resolution"].(map[string]any)
	if dr["method"] != "arbitration" {
		t.Fatalf("method: want=%q got=%v", "arbitration", dr["method"])
	}
	if dr["governing_rules"] != "AAA Commercial Rules" {
		t.Fatalf("governing_rules: want=%q got=%v", "AAA Commercial Rules", dr["governing_rules"])
	}
	if _, exists := doc["governing_law_and_dispute_resolution"]; exists {
		t.Fatalf("combined block should be dropped from document")
	}
	if _, exists := agreement["governing_law_and_dispute_resolution"]; exists {
		t.Fatalf("combined block should be dropped from agreement")
	}
}

func TestNormalizeGoverningLawDoesNotClobberExplicitBlocks(t *testing.T) {
	raw := map[string]any{
		"agreement": map[string]any{
			"governing_law": map[string]any{"country": "France"},
			"governing_law_and_dispute_resolution": map[string]any{
				"governing_country": "USA",
			},
		},
	}

	doc := Normalize(raw, "")
	agreement := doc["agreement"].(map[string]any)
	gl := agreement["governing_law"].(map[string]any)
	if gl["country"] != "France" {
		t.Fatalf("governing_law: want=%q got=%v", "France", gl["country"])
	}
}

func TestNormalizeDisputeMethod(t *testing.T) {
	cases := []struct {
		name string
		in   any
		want any
	}{
		{"canonical lowered", "Arbitration", "arbitration"},
		{"already canonical", "mediation", "mediation"},
		{"unrecognized untouched", "Trial by Jury", "Trial by Jury"},
		{"blank cleared", "  ", nil},
		{"non-string untouched", 4.0, 4.0},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := normalizeDisputeMethod(tc.in); got != tc.want {
				t.Fatalf("normalizeDisputeMethod(%v): want=%v got=%v", tc.in, tc.want, got)
			}
		})
	}
}

func TestNormalizeGuaranteesClauseList(t *testing.T) {
	doc := Normalize(map[string]any{"agreement": map[string]any{}}, "")
	clauses, ok := doc["clauses"].([]any)
	if !ok {
		t.Fatalf("clauses: want list got=%T", doc["clauses"])
	}
	if len(clauses) != 0 {
		t.Fatalf("clauses: want empty got=%v", clauses)
	}
}

func TestNormalizeStampsProvenance(t *testing.T) {
	doc := Normalize(map[string]any{"agreement": map[string]any{}}, "acme_msa.json")
	if got := doc["file_name"]; got != "acme_msa.json" {
		t.Fatalf("file_name: want=%q got=%v", "acme_msa.json", got)
	}
	if got := doc["contract_id"]; got != "acme_msa" {
		t.Fatalf("contract_id: want=%q got=%v", "acme_msa", got)
	}
	agreement := doc["agreement"].(map[string]any)
	if got := agreement["contract_id"]; got != "acme_msa" {
		t.Fatalf("agreement contract_id: want=%q got=%v", "acme_msa", got)
	}
}

func TestNormalizeKeepsExistingProvenance(t *testing.T) {
	raw := map[string]any{
		"agreement":   map[string]any{},
		"file_name":   "original.json",
		"contract_id": "CID-42",
	}
	doc := Normalize(raw, "renamed.json")
	if got := doc["file_name"]; got != "original.json" {
		t.Fatalf("file_name: want=%q got=%v", "original.json", got)
	}
	if got := doc["contract_id"]; got != "CID-42" {
		t.Fatalf("contract_id: want=%q got=%v", "CID-42", got)
	}
}

func TestNormalizeDoesNotMutateInput(t *testing.T) {
	raw := map[string]any{
		"agreement": map[string]any{
			"basic_agreement_information": map[string]any{"agreement_name": "Acme MSA"},
		},
		"parties": []any{map[string]any{"legal_name": "Acme Corp"}},
	}

	Normalize(raw, "acme_msa.json")

	agreement := raw["agreement"].(map[string]any)
	if _, exists := agreement["basic_agreement_information"]; !exists {
		t.Fatalf("input agreement mutated")
	}
	if _, exists := raw["parties"]; !exists {
		t.Fatalf("input document mutated")
	}
	if _, exists := raw["file_name"]; exists {
		t.Fatalf("input document stamped")
	}
}
