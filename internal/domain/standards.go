package domain

// ClientStandards is one client's contract acceptance policy. Registered
// standards are immutable; validation reads them, nothing writes them back.
type ClientStandards struct {
	ClientID   string `json:"client_id" yaml:"client_id"`
	ClientName string `json:"client_name" yaml:"client_name"`

	// Liability
	MaxLiabilityCap   *float64 `json:"max_liability_cap,omitempty" yaml:"max_liability_cap"`
	MinLiabilityCap   *float64 `json:"min_liability_cap,omitempty" yaml:"min_liability_cap"`
	PreferredCapType  string   `json:"preferred_cap_type,omitempty" yaml:"preferred_cap_type"`
	RequiredCarveOuts []string `json:"required_carve_outs,omitempty" yaml:"required_carve_outs"`

	// Obligations
	RequiredSLAUptime    *float64 `json:"required_sla_uptime,omitempty" yaml:"required_sla_uptime"`
	MaxAcceptablePenalty string   `json:"max_acceptable_penalty,omitempty" yaml:"max_acceptable_penalty"`
	RequiredDeliverables []string `json:"required_deliverables,omitempty" yaml:"required_deliverables"`

	// Intellectual property
	IPOwnershipRequired *bool  `json:"ip_ownership_required,omitempty" yaml:"ip_ownership_required"`
	SharedIPAllowed     bool   `json:"shared_ip_allowed,omitempty" yaml:"shared_ip_allowed"`
	OpenSourcePolicy    string `json:"open_source_policy,omitempty" yaml:"open_source_policy"`
	SublicensingAllowed bool   `json:"sublicensing_allowed,omitempty" yaml:"sublicensing_allowed"`

	// Compliance
	RequiredFrameworks    []string `json:"required_frameworks,omitempty" yaml:"required_frameworks"`
	CertificationRequired bool     `json:"certification_required,omitempty" yaml:"certification_required"`
	AuditRightsRequired   *bool    `json:"audit_rights_required,omitempty" yaml:"audit_rights_required"`

	// Insurance
	MinGeneralLiability      *float64 `json:"min_general_liability,omitempty" yaml:"min_general_liability"`
	MinCyberLiability        *float64 `json:"min_cyber_liability,omitempty" yaml:"min_cyber_liability"`
	MinProfessionalLiability *float64 `json:"min_professional_liability,omitempty" yaml:"min_professional_liability"`

	// Data protection
	GDPRRequired               bool     `json:"gdpr_required,omitempty" yaml:"gdpr_required"`
	DataLocationRestrictions   []string `json:"data_location_restrictions,omitempty" yaml:"data_location_restrictions"`
	BreachNotificationMaxHours *int     `json:"breach_notification_max_hours,omitempty" yaml:"breach_notification_max_hours"`

	// Termination
	TerminationForConvenienceRequired bool     `json:"termination_for_convenience_required,omitempty" yaml:"termination_for_convenience_required"`
	MaxTerminationFeePercent          *float64 `json:"max_termination_fee_percent,omitempty" yaml:"max_termination_fee_percent"`

	// Legacy clause lists, kept for older policy files.
	MandatoryClauses    []string `json:"mandatory_clauses,omitempty" yaml:"mandatory_clauses"`
	ProhibitedClauses   []string `json:"prohibited_clauses,omitempty" yaml:"prohibited_clauses"`
	NonNegotiableTerms  []string `json:"non_negotiable_terms,omitempty" yaml:"non_negotiable_terms"`
	AutoRejectIfMissing []string `json:"auto_reject_if_missing,omitempty" yaml:"auto_reject_if_missing"`

	// CustomRules is carried verbatim; no rule group evaluates it.
	CustomRules map[string]any `json:"custom_rules,omitempty" yaml:"custom_rules"`
}

const (
	DefaultPreferredCapType = "aggregate"
	DefaultOpenSourcePolicy = "prohibited"
)

// WithDefaults returns a copy with unset policy fields filled in:
// preferred cap type "aggregate", open-source policy "prohibited", and
// IP-ownership / audit-rights requirements defaulting to true.
func (s ClientStandards) WithDefaults() ClientStandards {
	out := s
	if out.PreferredCapType == "" {
		out.PreferredCapType = DefaultPreferredCapType
	}
	if out.OpenSourcePolicy == "" {
		out.OpenSourcePolicy = DefaultOpenSourcePolicy
	}
	if out.IPOwnershipRequired == nil {
		t := true
		out.IPOwnershipRequired = &t
	}
	if out.AuditRightsRequired == nil {
		t := true
		out.AuditRightsRequired = &t
	}
	if out.RequiredCarveOuts == nil {
		out.RequiredCarveOuts = []string{}
	}
	if out.RequiredDeliverables == nil {
		out.RequiredDeliverables = []string{}
	}
	if out.RequiredFrameworks == nil {
		out.RequiredFrameworks = []string{}
	}
	if out.DataLocationRestrictions == nil {
		out.DataLocationRestrictions = []string{}
	}
	if out.CustomRules == nil {
		out.CustomRules = map[string]any{}
	}
	return out
}
