package graph

import (
	"context"

	"github.com/neo4j/neo4j-go-driver/v5/neo4j"

	"github.com/gravamen/contractgraph-backend/internal/domain"
	apperrors "github.com/gravamen/contractgraph-backend/internal/pkg/errors"
)

// Fact readers: bounded projections of one agreement's subgraph, one
// per validation rule category. Each returns every matching node;
// rule evaluation decides how many it looks at.

func (s *Store) AgreementExists(ctx context.Context, agreementID string) (bool, error) {
	records, err := s.readRecords(ctx, `
MATCH (a:Agreement {agreement_id: $agreement_id})
RETURN count(a) > 0 AS found
`, map[string]any{"agreement_id": agreementID})
	if err != nil {
		return false, err
	}
	if len(records) == 0 {
		return false, nil
	}
	return recBool(records[0], "found"), nil
}

func (s *Store) LiabilityCaps(ctx context.Context, agreementID string) ([]domain.LiabilityCapFact, error) {
	records, err := s.readRecords(ctx, `
MATCH (a:Agreement {agreement_id: $agreement_id})-[:HAS_LIABILITY_CAP]->(lc:LiabilityCap)
RETURN lc.cap_amount AS cap_amount,
       lc.currency AS currency,
       lc.cap_type AS cap_type,
       lc.applies_to_party AS applies_to_party,
       lc.carve_outs AS carve_outs
`, map[string]any{"agreement_id": agreementID})
	if err != nil {
		return nil, err
	}
	facts := make([]domain.LiabilityCapFact, 0, len(records))
	for _, record := range records {
		facts = append(facts, domain.LiabilityCapFact{
			Amount:    recFloatPtr(record, "cap_amount"),
			Currency:  recString(record, "currency"),
			Type:      recString(record, "cap_type"),
			AppliesTo: recString(record, "applies_to_party"),
			CarveOuts: recStrings(record, "carve_outs"),
		})
	}
	return facts, nil
}

func (s *Store) Obligations(ctx context.Context, agreementID string) ([]domain.ObligationFact, error) {
	records, err := s.readRecords(ctx, `
MATCH (a:Agreement {agreement_id: $agreement_id})-[:HAS_OBLIGATION]->(o:Obligation)
RETURN o.obligation_type AS obligation_type,
       o.obligated_party AS obligated_party,
       o.description AS description,
       o.deadline AS deadline,
       o.deliverables AS deliverables,
       o.performance_standards AS performance_standards,
       o.consequences_of_breach AS consequences_of_breach
`, map[string]any{"agreement_id": agreementID})
	if err != nil {
		return nil, err
	}
	facts := make([]domain.ObligationFact, 0, len(records))
	for _, record := range records {
		facts = append(facts, domain.ObligationFact{
			Type:                 recString(record, "obligation_type"),
			ObligatedParty:       recString(record, "obligated_party"),
			Description:          recString(record, "description"),
			Deadline:             recString(record, "deadline"),
			Deliverables:         recStrings(record, "deliverables"),
			PerformanceStandards: recString(record, "performance_standards"),
			ConsequencesOfBreach: recString(record, "consequences_of_breach"),
		})
	}
	return facts, nil
}

func (s *Store) ComplianceFrameworks(ctx context.Context, agreementID string) ([]domain.ComplianceFact, error) {
	records, err := s.readRecords(ctx, `
MATCH (a:Agreement {agreement_id: $agreement_id})-[:COMPLIES_WITH]->(c:ComplianceRequirement)
      -[:FRAMEWORK_TYPE]->(f:ComplianceFramework)
RETURN f.framework_name AS framework_name,
       c.certification_required AS certification_required,
       c.audit_rights AS audit_rights,
       c.audit_frequency AS audit_frequency
`, map[string]any{"agreement_id": agreementID})
	if err != nil {
		return nil, err
	}
	facts := make([]domain.ComplianceFact, 0, len(records))
	for _, record := range records {
		facts = append(facts, domain.ComplianceFact{
			Framework:             recString(record, "framework_name"),
			CertificationRequired: recBool(record, "certification_required"),
			AuditRights:           recBool(record, "audit_rights"),
			AuditFrequency:        recString(record, "audit_frequency"),
		})
	}
	return facts, nil
}

func (s *Store) IPProvisions(ctx context.Context, agreementID string) ([]domain.IPFact, error) {
	records, err := s.readRecords(ctx, `
MATCH (a:Agreement {agreement_id: $agreement_id})-[:HAS_IP_PROVISION]->(ip:IntellectualProperty)
RETURN ip.ip_type AS ip_type,
       ip.owner AS owner,
       ip.subject_matter AS subject_matter,
       ip.sublicensable AS sublicensable
`, map[string]any{"agreement_id": agreementID})
	if err != nil {
		return nil, err
	}
	facts := make([]domain.IPFact, 0, len(records))
	for _, record := range records {
		facts = append(facts, domain.IPFact{
			Type:          recString(record, "ip_type"),
			Owner:         recString(record, "owner"),
			SubjectMatter: recString(record, "subject_matter"),
			Sublicensable: recBool(record, "sublicensable"),
		})
	}
	return facts, nil
}

func (s *Store) InsuranceTypes(ctx context.Context, agreementID string) ([]domain.InsuranceFact, error) {
	records, err := s.readRecords(ctx, `
MATCH (a:Agreement {agreement_id: $agreement_id})-[:HAS_INSURANCE_REQUIREMENT]->(:InsuranceRequirement)
      -[:REQUIRES_INSURANCE_TYPE]->(it:InsuranceType)
RETURN it.insurance_type AS insurance_type,
       it.minimum_coverage AS minimum_coverage,
       it.currency AS currency
`, map[string]any{"agreement_id": agreementID})
	if err != nil {
		return nil, err
	}
	facts := make([]domain.InsuranceFact, 0, len(records))
	for _, record := range records {
		facts = append(facts, domain.InsuranceFact{
			Type:     recString(record, "insurance_type"),
			Coverage: recFloatPtr(record, "minimum_coverage"),
			Currency: recString(record, "currency"),
		})
	}
	return facts, nil
}

func (s *Store) DataProtection(ctx context.Context, agreementID string) ([]domain.DataProtectionFact, error) {
	records, err := s.readRecords(ctx, `
MATCH (a:Agreement {agreement_id: $agreement_id})-[:HAS_DATA_PROTECTION]->(dp:DataProtection)
RETURN dp.gdpr_compliant AS gdpr_compliant,
       dp.breach_notification_period AS breach_notification_period,
       dp.data_location_restrictions AS data_location_restrictions
`, map[string]any{"agreement_id": agreementID})
	if err != nil {
		return nil, err
	}
	facts := make([]domain.DataProtectionFact, 0, len(records))
	for _, record := range records {
		facts = append(facts, domain.DataProtectionFact{
			GDPRCompliant:            recBool(record, "gdpr_compliant"),
			BreachNotificationPeriod: recString(record, "breach_notification_period"),
			LocationRestrictions:     recStrings(record, "data_location_restrictions"),
		})
	}
	return facts, nil
}

func (s *Store) Termination(ctx context.Context, agreementID string) ([]domain.TerminationFact, error) {
	records, err := s.readRecords(ctx, `
MATCH (a:Agreement {agreement_id: $agreement_id})-[:HAS_TERMINATION_PROVISIONS]->(t:Termination)
RETURN t.convenience_allowed AS convenience_allowed,
       t.convenience_notice_period AS convenience_notice_period,
       t.termination_fee AS termination_fee
`, map[string]any{"agreement_id": agreementID})
	if err != nil {
		return nil, err
	}
	facts := make([]domain.TerminationFact, 0, len(records))
	for _, record := range records {
		facts = append(facts, domain.TerminationFact{
			ConvenienceAllowed:      recBool(record, "convenience_allowed"),
			ConvenienceNoticePeriod: recString(record, "convenience_notice_period"),
			TerminationFee:          recString(record, "termination_fee"),
		})
	}
	return facts, nil
}

// readRecords runs one query in a read session and collects every
// record before the session closes.
func (s *Store) readRecords(ctx context.Context, query string, params map[string]any) ([]*neo4j.Record, error) {
	if !s.Ready() {
		return nil, apperrors.ErrUnavailable
	}
	session := s.client.Driver.NewSession(ctx, neo4j.SessionConfig{
		AccessMode:   neo4j.AccessModeRead,
		DatabaseName: s.client.Database,
	})
	defer session.Close(ctx)

	out, err := session.ExecuteRead(ctx, func(tx neo4j.ManagedTransaction) (any, error) {
		res, err := tx.Run(ctx, query, params)
		if err != nil {
			return nil, err
		}
		return res.Collect(ctx)
	})
	if err != nil {
		return nil, err
	}
	return out.([]*neo4j.Record), nil
}

// Record value accessors. Graph properties written by older loaders may
// carry looser types than the canonical writers produce, so numerics
// accept both integer and float wire forms.

func recString(record *neo4j.Record, key string) string {
	v, ok := record.Get(key)
	if !ok {
		return ""
	}
	str, _ := v.(string)
	return str
}

func recBool(record *neo4j.Record, key string) bool {
	v, ok := record.Get(key)
	if !ok {
		return false
	}
	b, _ := v.(bool)
	return b
}

func recFloatPtr(record *neo4j.Record, key string) *float64 {
	v, ok := record.Get(key)
	if !ok {
		return nil
	}
	switch n := v.(type) {
	case float64:
		return &n
	case int64:
		f := float64(n)
		return &f
	}
	return nil
}

func recStrings(record *neo4j.Record, key string) []string {
	v, ok := record.Get(key)
	if !ok {
		return nil
	}
	items, ok := v.([]any)
	if !ok {
		return nil
	}
	out := make([]string, 0, len(items))
	for _, item := range items {
		if str, ok := item.(string); ok {
			out = append(out, str)
		}
	}
	return out
}
