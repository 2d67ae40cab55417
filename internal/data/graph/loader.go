package graph

import (
	"context"

	"github.com/neo4j/neo4j-go-driver/v5/neo4j"

	"github.com/gravamen/contractgraph-backend/internal/normalization"
	apperrors "github.com/gravamen/contractgraph-backend/internal/pkg/errors"
	"github.com/gravamen/contractgraph-backend/internal/platform/logger"
	"github.com/gravamen/contractgraph-backend/internal/platform/neo4jdb"
)

// Store owns every read and write against the contract graph.
type Store struct {
	client *neo4jdb.Client
	log    *logger.Logger
}

func NewStore(client *neo4jdb.Client, log *logger.Logger) *Store {
	return &Store{client: client, log: log.With("store", "ContractGraph")}
}

// Ready reports whether a graph store is actually configured behind
// this Store.
func (s *Store) Ready() bool {
	return s != nil && s.client != nil && s.client.Driver != nil
}

// step is one parameterized write inside a document transaction.
type step struct {
	query  string
	params map[string]any
}

// LoadDocument ingests the agreement, party, clause, and variable
// structure of one normalized document. Returns the resolved agreement
// id, or "" when the document carries no usable identity (caller counts
// it as skipped).
func (s *Store) LoadDocument(ctx context.Context, doc map[string]any, sourceName string) (string, error) {
	return s.load(ctx, doc, sourceName, false)
}

// LoadDocumentFull ingests everything LoadDocument does plus all
// optional contract sections (liability cap, obligations, compliance,
// IP, termination, ...) with their excerpt links, in one transaction.
func (s *Store) LoadDocumentFull(ctx context.Context, doc map[string]any, sourceName string) (string, error) {
	return s.load(ctx, doc, sourceName, true)
}

func (s *Store) load(ctx context.Context, doc map[string]any, sourceName string, full bool) (string, error) {
	if !s.Ready() {
		return "", apperrors.ErrUnavailable
	}

	agreementID := normalization.ResolveAgreementID(doc, "")
	if agreementID == "" {
		return "", nil
	}
	agreement := asMap(doc["agreement"])

	steps := documentSteps(doc, agreement, agreementID, full)
	if full {
		steps = append(steps, sectionSteps(agreement, agreementID)...)
	}

	session := s.client.Driver.NewSession(ctx, neo4j.SessionConfig{
		AccessMode:   neo4j.AccessModeWrite,
		DatabaseName: s.client.Database,
	})
	defer session.Close(ctx)

	_, err := session.ExecuteWrite(ctx, func(tx neo4j.ManagedTransaction) (any, error) {
		for _, st := range steps {
			if err := runStep(ctx, tx, st.query, st.params); err != nil {
				return nil, err
			}
		}
		return nil, nil
	})
	if err != nil {
		return "", err
	}

	s.log.Debug("document loaded",
		"agreement_id", agreementID,
		"source", sourceName,
		"steps", len(steps),
		"full", full,
	)
	return agreementID, nil
}

// documentSteps assembles the agreement/party/clause/variable writes
// shared by both ingestion variants. Incorporation edges are only
// materialized on the full path.
func documentSteps(doc, agreement map[string]any, agreementID string, full bool) []step {
	steps := []step{{
		query: `
MERGE (a:Agreement {agreement_id: $agreement_id})
SET a += $props
`,
		params: map[string]any{
			"agreement_id": agreementID,
			"props":        agreementParams(agreement, agreementID),
		},
	}}

	if gl := governingLawParams(agreement, agreementID); gl != nil {
		steps = append(steps, step{
			query: `
MATCH (a:Agreement {agreement_id: $agreement_id})
MERGE (c:Country {name: $country})
MERGE (a)-[r:GOVERNED_BY_LAW]->(c)
SET r.state = $state
`,
			params: gl,
		})
	}

	if parties := partyRows(agreement); len(parties) > 0 {
		steps = append(steps, step{
			query: `
MATCH (a:Agreement {agreement_id: $agreement_id})
UNWIND $rows AS row
MERGE (p:Organization {name: row.name})
MERGE (p)-[r:IS_PARTY_TO]->(a)
SET r.role = row.role,
    r.incorporation_country = row.incorporation_country,
    r.incorporation_state = row.incorporation_state
`,
			params: map[string]any{"agreement_id": agreementID, "rows": parties},
		})
		if incorporated := incorporationRows(parties); full && len(incorporated) > 0 {
			steps = append(steps, step{
				query: `
UNWIND $rows AS row
MATCH (p:Organization {name: row.name})
MERGE (c:Country {name: row.incorporation_country})
MERGE (p)-[r:INCORPORATED_IN]->(c)
SET r.state = row.incorporation_state
`,
				params: map[string]any{"rows": incorporated},
			})
		}
	}

	clauses := clauseRows(doc, agreementID)
	if len(clauses) > 0 {
		steps = append(steps, step{
			query: `
MATCH (a:Agreement {agreement_id: $agreement_id})
UNWIND $rows AS row
MERGE (c:Clause {agreement_id: $agreement_id, clause_id: row.clause_id})
SET c += row.props
MERGE (a)-[:HAS_CLAUSE]->(c)
`,
			params: map[string]any{"agreement_id": agreementID, "rows": clauses},
		})
		steps = append(steps, step{
			query: `
UNWIND $rows AS row
UNWIND row.excerpts AS text
MATCH (c:Clause {agreement_id: $agreement_id, clause_id: row.clause_id})
MERGE (e:Excerpt {text: text})
MERGE (c)-[:HAS_EXCERPT]->(e)
`,
			params: map[string]any{"agreement_id": agreementID, "rows": clauses},
		})
	}

	vars, enums := variableRows(doc, agreementID)
	if len(vars) > 0 {
		steps = append(steps, step{
			query: `
UNWIND $rows AS row
MATCH (c:Clause {agreement_id: $agreement_id, clause_id: row.clause_id})
MERGE (v:Variable {clause_key: row.clause_key, name: row.name})
SET v += row.props
MERGE (c)-[:HAS_VARIABLE]->(v)
`,
			params: map[string]any{"agreement_id": agreementID, "rows": vars},
		})
	}
	if len(enums) > 0 {
		steps = append(steps, step{
			query: `
UNWIND $rows AS row
MATCH (v:Variable {clause_key: row.clause_key, name: row.name})
MERGE (ev:EnumValue {name: row.enum_name})
MERGE (v)-[:HAS_VALUE]->(ev)
`,
			params: map[string]any{"rows": enums},
		})
	}

	return steps
}

func runStep(ctx context.Context, tx neo4j.ManagedTransaction, query string, params map[string]any) error {
	res, err := tx.Run(ctx, query, params)
	if err != nil {
		return err
	}
	_, err = res.Consume(ctx)
	return err
}
