package graph

import (
	"context"
	"strings"

	"github.com/neo4j/neo4j-go-driver/v5/neo4j"

	"github.com/gravamen/contractgraph-backend/internal/domain"
	apperrors "github.com/gravamen/contractgraph-backend/internal/pkg/errors"
)

const (
	defaultListLimit   = 50
	defaultSearchLimit = 20
)

// GetContract returns one agreement with its parties, governing law,
// and the section facts the detail view surfaces.
func (s *Store) GetContract(ctx context.Context, agreementID string) (*domain.ContractDetail, error) {
	records, err := s.readRecords(ctx, `
MATCH (a:Agreement {agreement_id: $agreement_id})
OPTIONAL MATCH (a)-[gbl:GOVERNED_BY_LAW]->(country:Country)
OPTIONAL MATCH (p:Organization)-[ipt:IS_PARTY_TO]->(a)
RETURN a.name AS name,
       a.agreement_type AS agreement_type,
       a.agreement_date AS agreement_date,
       a.effective_date AS effective_date,
       a.expiration_date AS expiration_date,
       a.renewal_term AS renewal_term,
       country.name AS governing_country,
       gbl.state AS governing_state,
       collect(DISTINCT {name: p.name, role: ipt.role,
               incorporation_country: ipt.incorporation_country,
               incorporation_state: ipt.incorporation_state}) AS parties
`, map[string]any{"agreement_id": agreementID})
	if err != nil {
		return nil, err
	}
	if len(records) == 0 {
		return nil, apperrors.ErrNotFound
	}

	record := records[0]
	detail := &domain.ContractDetail{
		AgreementID:      agreementID,
		Name:             recString(record, "name"),
		Type:             recString(record, "agreement_type"),
		AgreementDate:    recString(record, "agreement_date"),
		EffectiveDate:    recString(record, "effective_date"),
		ExpirationDate:   recString(record, "expiration_date"),
		RenewalTerm:      recString(record, "renewal_term"),
		GoverningCountry: recString(record, "governing_country"),
		GoverningState:   recString(record, "governing_state"),
		Parties:          partyList(record),
	}

	caps, err := s.LiabilityCaps(ctx, agreementID)
	if err != nil {
		return nil, err
	}
	if len(caps) > 0 {
		detail.LiabilityCap = &caps[0]
	}
	if detail.Obligations, err = s.Obligations(ctx, agreementID); err != nil {
		return nil, err
	}
	if detail.Compliance, err = s.ComplianceFrameworks(ctx, agreementID); err != nil {
		return nil, err
	}
	if detail.IPProvisions, err = s.IPProvisions(ctx, agreementID); err != nil {
		return nil, err
	}
	terms, err := s.Termination(ctx, agreementID)
	if err != nil {
		return nil, err
	}
	if len(terms) > 0 {
		detail.Termination = &terms[0]
	}
	return detail, nil
}

// ListContracts returns agreement summaries ordered by id.
func (s *Store) ListContracts(ctx context.Context, limit int) ([]domain.ContractSummary, error) {
	if limit <= 0 {
		limit = defaultListLimit
	}
	records, err := s.readRecords(ctx, `
MATCH (a:Agreement)
OPTIONAL MATCH (p:Organization)-[:IS_PARTY_TO]->(a)
WITH a, collect(DISTINCT p.name) AS parties
RETURN a.agreement_id AS agreement_id,
       a.name AS name,
       a.agreement_type AS agreement_type,
       a.effective_date AS effective_date,
       a.expiration_date AS expiration_date,
       parties
ORDER BY a.agreement_id
LIMIT $limit
`, map[string]any{"limit": limit})
	if err != nil {
		return nil, err
	}
	summaries := make([]domain.ContractSummary, 0, len(records))
	for _, record := range records {
		id := recString(record, "agreement_id")
		if id == "" {
			continue
		}
		summaries = append(summaries, domain.ContractSummary{
			AgreementID:    id,
			Name:           recString(record, "name"),
			Type:           recString(record, "agreement_type"),
			EffectiveDate:  recString(record, "effective_date"),
			ExpirationDate: recString(record, "expiration_date"),
			Parties:        recStrings(record, "parties"),
		})
	}
	return summaries, nil
}

// LiabilityCapStats aggregates cap amounts across every loaded
// agreement. Caps without an amount are excluded.
func (s *Store) LiabilityCapStats(ctx context.Context) (*domain.LiabilityCapStats, error) {
	records, err := s.readRecords(ctx, `
MATCH (:Agreement)-[:HAS_LIABILITY_CAP]->(lc:LiabilityCap)
WHERE lc.cap_amount IS NOT NULL
RETURN count(lc) AS total,
       avg(lc.cap_amount) AS average_cap,
       min(lc.cap_amount) AS minimum_cap,
       max(lc.cap_amount) AS maximum_cap,
       collect(DISTINCT lc.cap_type) AS cap_types,
       collect(DISTINCT lc.currency) AS currencies
`, nil)
	if err != nil {
		return nil, err
	}
	stats := &domain.LiabilityCapStats{}
	if len(records) == 0 {
		return stats, nil
	}
	record := records[0]
	if v, ok := record.Get("total"); ok {
		stats.TotalContractsWithCaps, _ = v.(int64)
	}
	stats.AverageCap = recFloatPtr(record, "average_cap")
	stats.MinimumCap = recFloatPtr(record, "minimum_cap")
	stats.MaximumCap = recFloatPtr(record, "maximum_cap")
	stats.CapTypes = recStrings(record, "cap_types")
	stats.Currencies = recStrings(record, "currencies")
	return stats, nil
}

// SearchClauses queries the clause fulltext index, falling back to a
// CONTAINS scan over titles and drafts when the index or the fulltext
// procedures are unavailable.
func (s *Store) SearchClauses(ctx context.Context, text string, limit int) ([]domain.ClauseHit, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil, nil
	}
	if limit <= 0 {
		limit = defaultSearchLimit
	}

	records, err := s.readRecords(ctx, `
CALL db.index.fulltext.queryNodes('clauseTextIndex', $q) YIELD node, score
RETURN node.agreement_id AS agreement_id,
       node.clause_id AS clause_id,
       node.title AS title,
       score
LIMIT $limit
`, map[string]any{"q": text, "limit": limit})
	if err != nil {
		s.log.Warn("clause fulltext query failed (falling back to scan)", "error", err)
		records, err = s.readRecords(ctx, `
MATCH (c:Clause)
WHERE any(field IN [c.title, c.draft_p0_full, c.draft_p50_full, c.draft_p100_full]
          WHERE toLower(coalesce(field, '')) CONTAINS toLower($q))
RETURN c.agreement_id AS agreement_id,
       c.clause_id AS clause_id,
       c.title AS title,
       0.0 AS score
LIMIT $limit
`, map[string]any{"q": text, "limit": limit})
		if err != nil {
			return nil, err
		}
	}

	hits := make([]domain.ClauseHit, 0, len(records))
	for _, record := range records {
		hit := domain.ClauseHit{
			AgreementID: recString(record, "agreement_id"),
			ClauseID:    recString(record, "clause_id"),
			Title:       recString(record, "title"),
		}
		if v, ok := record.Get("score"); ok {
			hit.Score, _ = v.(float64)
		}
		hits = append(hits, hit)
	}
	return hits, nil
}

func partyList(record *neo4j.Record) []domain.Party {
	v, ok := record.Get("parties")
	if !ok {
		return nil
	}
	items, ok := v.([]any)
	if !ok {
		return nil
	}
	parties := make([]domain.Party, 0, len(items))
	for _, item := range items {
		m, ok := item.(map[string]any)
		if !ok {
			continue
		}
		name, _ := m["name"].(string)
		if name == "" {
			continue
		}
		role, _ := m["role"].(string)
		country, _ := m["incorporation_country"].(string)
		state, _ := m["incorporation_state"].(string)
		parties = append(parties, domain.Party{
			Name:                 name,
			Role:                 role,
			IncorporationCountry: country,
			IncorporationState:   state,
		})
	}
	return parties
}
