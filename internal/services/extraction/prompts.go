package extraction

import (
	"fmt"
	"os"
	"strings"

	"github.com/gravamen/contractgraph-backend/internal/platform/envutil"
)

// Default prompts are embedded so the binary runs without any prompt files.
// EXTRACT_SYSTEM_PROMPT_PATH / EXTRACT_USER_PROMPT_PATH (or the --prompt
// flag) override them from disk.

const defaultSystemPrompt = `You are a meticulous legal contract analyst. You read commercial agreements and extract their full structure into JSON. Respond with exactly one JSON object and nothing else: no prose, no markdown fences. Use null for anything the contract does not state; never invent values. Quote supporting excerpts verbatim from the contract text.`

const defaultExtractionPrompt = `Extract the contract between the START/END sentinels into a JSON object with this structure:

{
  "agreement": {
    "agreement_name": string or null,
    "agreement_type": string or null,
    "agreement_date": string or null,
    "effective_date": string or null,
    "expiration_date": string or null,
    "renewal_term": string or null,
    "notice_period_to_terminate_renewal": string or null,
    "auto_renewal": boolean or null,
    "total_contract_value": number or null,
    "contract_currency": string or null,
    "parties": [
      {"role": string, "name": string, "incorporation_country": string or null, "incorporation_state": string or null}
    ],
    "governing_law": {"country": string or null, "state": string or null, "most_favored_country": string or null},
    "dispute_resolution": {"method": string or null, "venue": string or null, "jurisdiction": string or null, "governing_rules": string or null},
    "liability_cap": {"exists": boolean, "cap_amount": number or null, "cap_type": "aggregate" | "per_incident" | "unlimited" or null, "currency": string or null, "applies_to_party": string or null, "carve_outs": [string], "excerpts": [string]},
    "indemnification": [
      {"indemnifying_party": string, "indemnified_party": string, "scope": string, "exceptions": [string], "excerpts": [string]}
    ],
    "obligations": [
      {"obligation_type": string, "obligated_party": string, "description": string, "deadline": string or null, "deliverables": [string], "performance_standards": string or null, "consequences_of_breach": string or null, "excerpts": [string]}
    ],
    "payment_terms": {"payment_schedule": string or null, "payment_due_days": number or null, "late_payment_interest": string or null, "currency": string or null, "excerpts": [string]},
    "intellectual_property": [
      {"ip_type": "ownership" | "license" | "assignment", "owner": string or null, "subject_matter": string or null, "license_scope": string or null, "sublicensable": boolean, "excerpts": [string]}
    ],
    "confidentiality": {"exists": boolean, "duration": string or null, "survives_termination": boolean or null, "exceptions": [string], "excerpts": [string]},
    "data_protection": {"gdpr_compliant": boolean, "breach_notification_period": string or null, "data_location_restrictions": [string], "excerpts": [string]},
    "compliance_frameworks": [
      {"framework_name": string, "certification_required": boolean, "audit_rights": boolean, "audit_frequency": string or null, "excerpts": [string]}
    ],
    "warranties": [
      {"warranty_type": string, "description": string, "duration": string or null, "remedy": string or null, "excerpts": [string]}
    ],
    "termination": {"convenience_allowed": boolean, "convenience_notice_period": string or null, "cause_grounds": [string], "cure_period": string or null, "termination_fee": string or null, "post_termination_obligations": [string], "excerpts": [string]},
    "insurance": {"required": boolean, "types": [{"insurance_type": string, "minimum_coverage": number or null, "currency": string or null}], "excerpts": [string]},
    "restrictions": [
      {"restriction_type": string, "description": string, "duration": string or null, "excerpts": [string]}
    ],
    "change_of_control": {"exists": boolean, "consent_required": boolean or null, "notice_required": boolean or null, "excerpts": [string]},
    "force_majeure": {"exists": boolean, "events": [string], "notice_period": string or null, "excerpts": [string]}
  },
  "clauses": [
    {
      "clause_id": string,
      "title": string,
      "right_holder": string or null,
      "obligor": string or null,
      "drafts": {"p0_full": string, "p25_delta": string or null, "p50_full": string, "p75_delta": string or null, "p100_full": string},
      "variables": [
        {"name": string, "value": string or number or boolean, "type": "string" | "number" | "boolean" | "enum", "unit": string or null, "confidence": number, "evidence": [string]}
      ],
      "confidence_overall": number,
      "excerpts": [string]
    }
  ]
}

Rules:
- Omit an optional section entirely when the contract has no language for it; set its "exists"/"required" flag false when the contract expressly negates it.
- Insurance type names must match the contract wording (for example "Commercial General Liability", "Cyber Liability", "Professional Liability").
- Monetary amounts are plain numbers without currency symbols or thousands separators; name the currency separately.
- Dates stay in the form the contract writes them unless an unambiguous ISO 8601 form exists.
- Every excerpts list quotes the contract verbatim, at most three short excerpts per section.`

type prompts struct {
	system string
	user   string
}

// loadPrompts resolves the system and extraction prompts: an explicit
// override path wins, then the env-configured path, then the embedded
// default.
func loadPrompts(overridePath string) (prompts, error) {
	system, err := promptFrom(envutil.Str("EXTRACT_SYSTEM_PROMPT_PATH", ""), defaultSystemPrompt)
	if err != nil {
		return prompts{}, err
	}
	userPath := overridePath
	if userPath == "" {
		userPath = envutil.Str("EXTRACT_USER_PROMPT_PATH", "")
	}
	user, err := promptFrom(userPath, defaultExtractionPrompt)
	if err != nil {
		return prompts{}, err
	}
	return prompts{system: system, user: user}, nil
}

func promptFrom(path, fallback string) (string, error) {
	if path == "" {
		return fallback, nil
	}
	raw, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("read prompt %s: %w", path, err)
	}
	text := strings.TrimSpace(string(raw))
	if text == "" {
		return "", fmt.Errorf("prompt file %s is empty", path)
	}
	return text, nil
}
