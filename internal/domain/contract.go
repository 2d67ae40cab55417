package domain

// Party is one organization's participation in an agreement. Role and
// incorporation details live on the relationship, not the organization.
type Party struct {
	Name                 string `json:"name"`
	Role                 string `json:"role,omitempty"`
	IncorporationCountry string `json:"incorporation_country,omitempty"`
	IncorporationState   string `json:"incorporation_state,omitempty"`
}

type ContractSummary struct {
	AgreementID    string   `json:"agreement_id"`
	Name           string   `json:"name,omitempty"`
	Type           string   `json:"agreement_type,omitempty"`
	EffectiveDate  string   `json:"effective_date,omitempty"`
	ExpirationDate string   `json:"expiration_date,omitempty"`
	Parties        []string `json:"parties,omitempty"`
}

type ContractDetail struct {
	AgreementID      string            `json:"agreement_id"`
	Name             string            `json:"name,omitempty"`
	Type             string            `json:"agreement_type,omitempty"`
	AgreementDate    string            `json:"agreement_date,omitempty"`
	EffectiveDate    string            `json:"effective_date,omitempty"`
	ExpirationDate   string            `json:"expiration_date,omitempty"`
	RenewalTerm      string            `json:"renewal_term,omitempty"`
	GoverningCountry string            `json:"governing_country,omitempty"`
	GoverningState   string            `json:"governing_state,omitempty"`
	Parties          []Party           `json:"parties,omitempty"`
	LiabilityCap     *LiabilityCapFact `json:"liability_cap,omitempty"`
	Obligations      []ObligationFact  `json:"obligations,omitempty"`
	Compliance       []ComplianceFact  `json:"compliance_frameworks,omitempty"`
	IPProvisions     []IPFact          `json:"intellectual_property,omitempty"`
	Termination      *TerminationFact  `json:"termination,omitempty"`
}

type LiabilityCapStats struct {
	AverageCap             *float64 `json:"average_cap,omitempty"`
	MinimumCap             *float64 `json:"minimum_cap,omitempty"`
	MaximumCap             *float64 `json:"maximum_cap,omitempty"`
	TotalContractsWithCaps int64    `json:"total_contracts_with_caps"`
	CapTypes               []string `json:"cap_types,omitempty"`
	Currencies             []string `json:"currencies,omitempty"`
}

// ClauseHit is one fulltext search match over clause titles and drafts.
type ClauseHit struct {
	AgreementID string  `json:"agreement_id"`
	ClauseID    string  `json:"clause_id"`
	Title       string  `json:"title,omitempty"`
	Score       float64 `json:"score"`
}
