package graph

import (
	"context"

	"github.com/neo4j/neo4j-go-driver/v5/neo4j"

	apperrors "github.com/gravamen/contractgraph-backend/internal/pkg/errors"
	"github.com/gravamen/contractgraph-backend/internal/platform/openai"
)

const embedBatchSize = 100

// BackfillEmbeddings embeds every Excerpt that has text but no vector
// yet, in batches, until none remain. Returns the number of excerpts
// embedded. A nil embedder turns the backfill into a no-op.
func (s *Store) BackfillEmbeddings(ctx context.Context, embedder openai.Client) (int, error) {
	if embedder == nil {
		return 0, nil
	}
	if !s.Ready() {
		return 0, apperrors.ErrUnavailable
	}

	total := 0
	for {
		texts, err := s.pendingExcerpts(ctx)
		if err != nil {
			return total, err
		}
		if len(texts) == 0 {
			return total, nil
		}

		vectors, err := embedder.Embed(ctx, texts)
		if err != nil {
			return total, err
		}

		rows := make([]map[string]any, 0, len(texts))
		for i, text := range texts {
			vec := make([]float64, len(vectors[i]))
			for j, v := range vectors[i] {
				vec[j] = float64(v)
			}
			rows = append(rows, map[string]any{"text": text, "embedding": vec})
		}
		if err := s.writeEmbeddings(ctx, rows); err != nil {
			return total, err
		}

		total += len(texts)
		s.log.Debug("excerpt embeddings written", "batch", len(texts), "total", total)
	}
}

func (s *Store) pendingExcerpts(ctx context.Context) ([]string, error) {
	session := s.client.Driver.NewSession(ctx, neo4j.SessionConfig{
		AccessMode:   neo4j.AccessModeRead,
		DatabaseName: s.client.Database,
	})
	defer session.Close(ctx)

	out, err := session.ExecuteRead(ctx, func(tx neo4j.ManagedTransaction) (any, error) {
		res, err := tx.Run(ctx, `
MATCH (e:Excerpt)
WHERE e.text IS NOT NULL AND e.embedding IS NULL
RETURN e.text AS text
LIMIT $limit
`, map[string]any{"limit": embedBatchSize})
		if err != nil {
			return nil, err
		}
		records, err := res.Collect(ctx)
		if err != nil {
			return nil, err
		}
		texts := make([]string, 0, len(records))
		for _, record := range records {
			if v, ok := record.Get("text"); ok {
				if text, ok := v.(string); ok && text != "" {
					texts = append(texts, text)
				}
			}
		}
		return texts, nil
	})
	if err != nil {
		return nil, err
	}
	return out.([]string), nil
}

func (s *Store) writeEmbeddings(ctx context.Context, rows []map[string]any) error {
	session := s.client.Driver.NewSession(ctx, neo4j.SessionConfig{
		AccessMode:   neo4j.AccessModeWrite,
		DatabaseName: s.client.Database,
	})
	defer session.Close(ctx)

	_, err := session.ExecuteWrite(ctx, func(tx neo4j.ManagedTransaction) (any, error) {
		return nil, runStep(ctx, tx, `
UNWIND $rows AS row
MATCH (e:Excerpt {text: row.text})
SET e.embedding = row.embedding
`, map[string]any{"rows": rows})
	})
	return err
}
