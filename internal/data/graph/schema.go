package graph

import (
	"context"

	"github.com/neo4j/neo4j-go-driver/v5/neo4j"

	apperrors "github.com/gravamen/contractgraph-backend/internal/pkg/errors"
)

var schemaStatements = []string{
	`CREATE CONSTRAINT agreement_id_unique IF NOT EXISTS FOR (a:Agreement) REQUIRE a.agreement_id IS UNIQUE`,
	`CREATE INDEX clause_agreement_clause IF NOT EXISTS FOR (c:Clause) ON (c.agreement_id, c.clause_id)`,
	`CREATE INDEX variable_clause_key_name IF NOT EXISTS FOR (v:Variable) ON (v.clause_key, v.name)`,
	`CREATE INDEX organization_name IF NOT EXISTS FOR (o:Organization) ON (o.name)`,
	`CREATE INDEX compliance_framework_name IF NOT EXISTS FOR (f:ComplianceFramework) ON (f.framework_name)`,
	`CREATE INDEX country_name IF NOT EXISTS FOR (c:Country) ON (c.name)`,
	`CREATE INDEX liability_cap_amount IF NOT EXISTS FOR (lc:LiabilityCap) ON (lc.cap_amount)`,
	`CREATE FULLTEXT INDEX clauseTextIndex IF NOT EXISTS FOR (c:Clause) ON EACH [c.title, c.draft_p0_full, c.draft_p50_full, c.draft_p100_full]`,
	`CREATE FULLTEXT INDEX excerptTextIndex IF NOT EXISTS FOR (e:Excerpt) ON EACH [e.text]`,
	"CREATE VECTOR INDEX excerpt_embedding IF NOT EXISTS FOR (e:Excerpt) ON (e.embedding) OPTIONS {indexConfig: {`vector.dimensions`: 1536, `vector.similarity_function`: 'cosine'}}",
}

// EnsureSchema creates the constraints and indexes the load and read
// paths rely on. Best-effort: a store without fulltext or vector
// support still ingests, it just serves the fallback query paths.
func (s *Store) EnsureSchema(ctx context.Context) {
	if !s.Ready() {
		return
	}
	session := s.client.Driver.NewSession(ctx, neo4j.SessionConfig{
		AccessMode:   neo4j.AccessModeWrite,
		DatabaseName: s.client.Database,
	})
	defer session.Close(ctx)

	for _, q := range schemaStatements {
		if res, err := session.Run(ctx, q, nil); err != nil {
			s.log.Warn("neo4j schema init failed (continuing)", "error", err)
		} else {
			_, _ = res.Consume(ctx)
		}
	}
}

// MigrateLegacyAgreements copies contract_id onto agreement_id for
// Agreement nodes written before the key was consolidated. Returns the
// number of nodes relabeled.
func (s *Store) MigrateLegacyAgreements(ctx context.Context) (int64, error) {
	if !s.Ready() {
		return 0, apperrors.ErrUnavailable
	}
	session := s.client.Driver.NewSession(ctx, neo4j.SessionConfig{
		AccessMode:   neo4j.AccessModeWrite,
		DatabaseName: s.client.Database,
	})
	defer session.Close(ctx)

	out, err := session.ExecuteWrite(ctx, func(tx neo4j.ManagedTransaction) (any, error) {
		res, err := tx.Run(ctx, `
MATCH (a:Agreement)
WHERE a.agreement_id IS NULL AND a.contract_id IS NOT NULL
SET a.agreement_id = a.contract_id
RETURN count(a) AS migrated
`, nil)
		if err != nil {
			return nil, err
		}
		record, err := res.Single(ctx)
		if err != nil {
			return nil, err
		}
		n, _ := record.Get("migrated")
		count, _ := n.(int64)
		return count, nil
	})
	if err != nil {
		return 0, err
	}
	migrated, _ := out.(int64)
	if migrated > 0 {
		s.log.Info("legacy agreements migrated", "count", migrated)
	}
	return migrated, nil
}
