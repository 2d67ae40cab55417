package graph

import (
	"reflect"
	"strings"
	"testing"
)

func stepsMentioning(steps []step, label string) []step {
	var out []step
	for _, st := range steps {
		if strings.Contains(st.query, label) {
			out = append(out, st)
		}
	}
	return out
}

func TestSectionStepsHonorExistsFlag(t *testing.T) {
	agreement := map[string]any{
		"liability_cap": map[string]any{
			"exists":     false,
			"cap_amount": 5000000.0,
		},
	}
	if got := stepsMentioning(sectionSteps(agreement, "A-1"), ":LiabilityCap"); len(got) != 0 {
		t.Fatalf("exists=false should load nothing, got %d steps", len(got))
	}

	agreement["liability_cap"].(map[string]any)["exists"] = "true"
	if got := stepsMentioning(sectionSteps(agreement, "A-1"), ":LiabilityCap"); len(got) != 0 {
		t.Fatalf("string exists flag should not count, got %d steps", len(got))
	}

	agreement["liability_cap"] = map[string]any{
		"exists":     true,
		"cap_amount": 5000000.0,
		"cap_type":   "aggregate",
		"excerpts":   []any{"Liability shall not exceed $5,000,000."},
	}
	got := stepsMentioning(sectionSteps(agreement, "A-1"), ":LiabilityCap")
	if len(got) != 2 {
		t.Fatalf("cap + excerpt steps: want=2 got=%d", len(got))
	}
	props := got[0].params["props"].(map[string]any)
	if props["cap_amount"] != 5000000.0 || props["cap_type"] != "aggregate" {
		t.Fatalf("cap props: got=%v", props)
	}
}

func TestSectionStepsPresenceGuards(t *testing.T) {
	steps := sectionSteps(map[string]any{}, "A-1")
	if len(steps) != 0 {
		t.Fatalf("empty agreement: want=0 steps got=%d", len(steps))
	}

	agreement := map[string]any{
		"payment_terms": map[string]any{"payment_schedule": "monthly"},
	}
	got := stepsMentioning(sectionSteps(agreement, "A-1"), ":PaymentTerms")
	if len(got) != 1 {
		t.Fatalf("payment terms: want=1 step got=%d", len(got))
	}
	props := got[0].params["props"].(map[string]any)
	if props["payment_schedule"] != "monthly" {
		t.Fatalf("payment props: got=%v", props)
	}
	if props["late_payment_penalty"] != nil {
		t.Fatalf("absent prop should stay nil for SET += clearing, got=%v", props["late_payment_penalty"])
	}
}

func TestSectionRowsKeepOrdinals(t *testing.T) {
	rows := sectionRows([]any{
		map[string]any{"obligation_type": "delivery"},
		"junk entry",
		map[string]any{"obligation_type": "support"},
	}, propsOf("obligation_type"))
	if len(rows) != 2 {
		t.Fatalf("rows: want=2 got=%d", len(rows))
	}
	if rows[0]["ord"] != 0 || rows[1]["ord"] != 2 {
		t.Fatalf("ordinals should track source positions, got %v and %v", rows[0]["ord"], rows[1]["ord"])
	}
}

func TestTerminationPropsFlattenNestedBlocks(t *testing.T) {
	props := terminationProps(map[string]any{
		"termination_for_convenience": map[string]any{
			"allowed":         true,
			"notice_period":   "90 days",
			"termination_fee": "25% of remaining fees",
			"allowed_parties": []any{"Customer"},
		},
		"surviving_clauses": []any{"Confidentiality", "Indemnification"},
	})
	if props["convenience_allowed"] != true {
		t.Fatalf("convenience_allowed: got=%v", props["convenience_allowed"])
	}
	if props["convenience_notice_period"] != "90 days" {
		t.Fatalf("convenience_notice_period: got=%v", props["convenience_notice_period"])
	}
	if props["cause_cure_period"] != nil {
		t.Fatalf("missing cause block should flatten to nil, got=%v", props["cause_cure_period"])
	}
	if got := props["surviving_clauses"]; !reflect.DeepEqual(got, []any{"Confidentiality", "Indemnification"}) {
		t.Fatalf("surviving_clauses: got=%v", got)
	}
}

func TestTerminationStepsIncludePostObligations(t *testing.T) {
	agreement := map[string]any{
		"termination": map[string]any{
			"termination_for_convenience": map[string]any{"allowed": true},
			"post_termination_obligations": []any{
				map[string]any{"obligation": "return data", "responsible_party": "Provider"},
			},
		},
	}
	steps := sectionSteps(agreement, "A-1")
	got := stepsMentioning(steps, ":PostTerminationObligation")
	if len(got) != 1 {
		t.Fatalf("post-termination step: want=1 got=%d", len(got))
	}
	if !strings.Contains(got[0].query, "MATCH (t:Termination") {
		t.Fatalf("post-termination obligations should hang off Termination, query=%s", got[0].query)
	}
	rows := got[0].params["rows"].([]map[string]any)
	if len(rows) != 1 || rows[0]["props"].(map[string]any)["obligation"] != "return data" {
		t.Fatalf("post-termination rows: got=%v", rows)
	}
}

func TestIPPropsFlattenLicenseDetails(t *testing.T) {
	props := ipProps(map[string]any{
		"ip_type": "license",
		"owner":   "Provider",
		"license_details": map[string]any{
			"license_type":  "non-exclusive",
			"sublicensable": true,
		},
	})
	if props["ip_type"] != "license" || props["license_type"] != "non-exclusive" {
		t.Fatalf("ip props: got=%v", props)
	}
	if props["sublicensable"] != true {
		t.Fatalf("sublicensable: got=%v", props["sublicensable"])
	}
	if props["territory"] != nil {
		t.Fatalf("absent license field: want=nil got=%v", props["territory"])
	}

	bare := ipProps(map[string]any{"ip_type": "ownership", "owner": "Customer"})
	if bare["license_type"] != nil {
		t.Fatalf("no license details: want=nil got=%v", bare["license_type"])
	}
}

func TestInsuranceStepsRequireFlag(t *testing.T) {
	agreement := map[string]any{
		"insurance": map[string]any{
			"required": false,
			"types":    []any{map[string]any{"insurance_type": "Cyber Liability"}},
		},
	}
	if got := stepsMentioning(sectionSteps(agreement, "A-1"), "Insurance"); len(got) != 0 {
		t.Fatalf("required=false should load nothing, got %d steps", len(got))
	}

	agreement["insurance"] = map[string]any{
		"required":       true,
		"proof_required": true,
		"types": []any{
			map[string]any{"insurance_type": "Commercial General Liability", "minimum_coverage": 2000000.0},
			map[string]any{"insurance_type": "Cyber Liability", "minimum_coverage": 10000000.0},
		},
	}
	steps := sectionSteps(agreement, "A-1")
	if got := stepsMentioning(steps, ":InsuranceRequirement"); len(got) == 0 {
		t.Fatalf("insurance requirement step missing")
	}
	typeSteps := stepsMentioning(steps, ":InsuranceType")
	if len(typeSteps) != 1 {
		t.Fatalf("insurance type step: want=1 got=%d", len(typeSteps))
	}
	rows := typeSteps[0].params["rows"].([]map[string]any)
	if len(rows) != 2 {
		t.Fatalf("insurance type rows: want=2 got=%d", len(rows))
	}
}

func TestComplianceStepsSkipUnnamedFrameworks(t *testing.T) {
	steps := complianceSteps("A-1", []any{
		map[string]any{"framework_name": "SOC2", "audit_rights": true},
		map[string]any{"certification_required": true},
		map[string]any{"framework_name": "GDPR", "excerpts": []any{"Processor shall comply with GDPR."}},
	})
	if len(steps) != 2 {
		t.Fatalf("compliance steps: want=2 got=%d", len(steps))
	}
	rows := steps[0].params["rows"].([]map[string]any)
	if len(rows) != 2 {
		t.Fatalf("compliance rows: want=2 got=%d", len(rows))
	}
	if rows[0]["framework_name"] != "SOC2" || rows[1]["framework_name"] != "GDPR" {
		t.Fatalf("framework names: got=%v and %v", rows[0]["framework_name"], rows[1]["framework_name"])
	}
	if rows[1]["ord"] != 2 {
		t.Fatalf("framework ord should track source position, got=%v", rows[1]["ord"])
	}
}

func TestDisputeResolutionStepsCarryNoExcerpts(t *testing.T) {
	agreement := map[string]any{
		"dispute_resolution": map[string]any{
			"method":   "arbitration",
			"venue":    "New York",
			"excerpts": []any{"Disputes resolved by binding arbitration."},
		},
	}
	got := stepsMentioning(sectionSteps(agreement, "A-1"), ":DisputeResolution")
	if len(got) != 1 {
		t.Fatalf("dispute resolution: want=1 step got=%d", len(got))
	}
	if strings.Contains(got[0].query, "Excerpt") {
		t.Fatalf("dispute resolution should not link excerpts, query=%s", got[0].query)
	}
}
