package domain

// Facts are the bounded subgraph projections the validator reads, one type
// per rule category. Absent string properties come back empty, absent
// numerics nil.

type LiabilityCapFact struct {
	Amount    *float64 `json:"cap_amount,omitempty"`
	Currency  string   `json:"currency,omitempty"`
	Type      string   `json:"cap_type,omitempty"`
	AppliesTo string   `json:"applies_to_party,omitempty"`
	CarveOuts []string `json:"carve_outs,omitempty"`
}

type ObligationFact struct {
	Type                 string   `json:"obligation_type,omitempty"`
	ObligatedParty       string   `json:"obligated_party,omitempty"`
	Description          string   `json:"description,omitempty"`
	Deadline             string   `json:"deadline,omitempty"`
	Deliverables         []string `json:"deliverables,omitempty"`
	PerformanceStandards string   `json:"performance_standards,omitempty"`
	ConsequencesOfBreach string   `json:"consequences_of_breach,omitempty"`
}

type ComplianceFact struct {
	Framework             string `json:"framework_name"`
	CertificationRequired bool   `json:"certification_required"`
	AuditRights           bool   `json:"audit_rights"`
	AuditFrequency        string `json:"audit_frequency,omitempty"`
}

type IPFact struct {
	Type          string `json:"ip_type,omitempty"`
	Owner         string `json:"owner,omitempty"`
	SubjectMatter string `json:"subject_matter,omitempty"`
	Sublicensable bool   `json:"sublicensable"`
}

type InsuranceFact struct {
	Type     string   `json:"insurance_type"`
	Coverage *float64 `json:"minimum_coverage,omitempty"`
	Currency string   `json:"currency,omitempty"`
}

type DataProtectionFact struct {
	GDPRCompliant            bool     `json:"gdpr_compliant"`
	BreachNotificationPeriod string   `json:"breach_notification_period,omitempty"`
	LocationRestrictions     []string `json:"data_location_restrictions,omitempty"`
}

type TerminationFact struct {
	ConvenienceAllowed      bool   `json:"convenience_allowed"`
	ConvenienceNoticePeriod string `json:"convenience_notice_period,omitempty"`
	TerminationFee          string `json:"termination_fee,omitempty"`
}
