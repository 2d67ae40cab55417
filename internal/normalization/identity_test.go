package normalization

import "testing"

func agreementDoc(agreement, doc map[string]any) map[string]any {
	out := map[string]any{"agreement": agreement}
	for k, v := range doc {
		out[k] = v
	}
	return out
}

func TestResolveAgreementIDPrefersAgreementName(t *testing.T) {
	doc := agreementDoc(
		map[string]any{"agreement_name": "Master Services Agreement", "agreement_id": "MSA-001"},
		map[string]any{"contract_id": "acme_msa", "file_name": "acme_msa.json"},
	)
	if got := ResolveAgreementID(doc, ""); got != "Master Services Agreement" {
		t.Fatalf("ResolveAgreementID: want=%q got=%q", "Master Services Agreement", got)
	}
}

func TestResolveAgreementIDFallsBackThroughChain(t *testing.T) {
	doc := agreementDoc(
		map[string]any{"agreement_name": "", "agreement_id": "MSA-001"},
		map[string]any{"contract_id": "acme_msa"},
	)
	if got := ResolveAgreementID(doc, ""); got != "MSA-001" {
		t.Fatalf("agreement_id: want=%q got=%q", "MSA-001", got)
	}

	delete(doc["agreement"].(map[string]any), "agreement_id")
	if got := ResolveAgreementID(doc, ""); got != "acme_msa" {
		t.Fatalf("contract_id: want=%q got=%q", "acme_msa", got)
	}

	delete(doc, "contract_id")
	doc["file_name"] = "acme_msa.json"
	if got := ResolveAgreementID(doc, ""); got != "acme_msa.json" {
		t.Fatalf("file_name: want=%q got=%q", "acme_msa.json", got)
	}
}

func TestResolveAgreementIDEmptyWhenNothingPresent(t *testing.T) {
	doc := map[string]any{"agreement": map[string]any{}}
	if got := ResolveAgreementID(doc, ""); got != "" {
		t.Fatalf("ResolveAgreementID: want empty got=%q", got)
	}
	if got := ResolveAgreementID(doc, "run-0007"); got != "run-0007" {
		t.Fatalf("fallback: want=%q got=%q", "run-0007", got)
	}
}

func TestNormalizeClauseID(t *testing.T) {
	cases := []struct {
		name string
		in   any
		want any
	}{
		{"nil passes through", nil, nil},
		{"string untouched", "7.2", "7.2"},
		{"integral float drops fraction", 3.0, "3"},
		{"fractional float keeps fraction", 3.5, "3.5"},
		{"int zero renders", 0, "0"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := NormalizeClauseID(tc.in); got != tc.want {
				t.Fatalf("NormalizeClauseID(%v): want=%v got=%v", tc.in, tc.want, got)
			}
		})
	}
}

func TestResolveClauseIDUsesExplicitID(t *testing.T) {
	if got := ResolveClauseID("PAY-1", 5); got != "PAY-1" {
		t.Fatalf("ResolveClauseID: want=%q got=%q", "PAY-1", got)
	}
	if got := ResolveClauseID(4.0, 5); got != "4" {
		t.Fatalf("ResolveClauseID: want=%q got=%q", "4", got)
	}
}

func TestResolveClauseIDFallsBackToPosition(t *testing.T) {
	// Third clause in the list, no explicit id.
	if got := ResolveClauseID(nil, 3); got != "3" {
		t.Fatalf("nil id: want=%q got=%q", "3", got)
	}
	if got := ResolveClauseID("", 3); got != "3" {
		t.Fatalf("empty id: want=%q got=%q", "3", got)
	}
	if got := ResolveClauseID(0.0, 2); got != "2" {
		t.Fatalf("zero id: want=%q got=%q", "2", got)
	}
}
