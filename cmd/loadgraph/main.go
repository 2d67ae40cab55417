package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"

	"github.com/gravamen/contractgraph-backend/internal/data/db"
	"github.com/gravamen/contractgraph-backend/internal/data/graph"
	"github.com/gravamen/contractgraph-backend/internal/data/repos/ingestruns"
	"github.com/gravamen/contractgraph-backend/internal/platform/envutil"
	"github.com/gravamen/contractgraph-backend/internal/platform/logger"
	"github.com/gravamen/contractgraph-backend/internal/platform/neo4jdb"
	"github.com/gravamen/contractgraph-backend/internal/platform/openai"
	"github.com/gravamen/contractgraph-backend/internal/platform/shutdown"
	"github.com/gravamen/contractgraph-backend/internal/services/ingestion"
)

func main() {
	opts := ingestion.OptionsFromEnv()
	var (
		minimal bool
		watch   bool
		migrate bool
		embed   bool
	)
	flag.StringVar(&opts.InputDir, "input", opts.InputDir, "directory of extraction JSON documents")
	flag.IntVar(&opts.Workers, "workers", opts.Workers, "parallel document loads")
	flag.BoolVar(&minimal, "minimal", false, "load only agreements, clauses, and variables (skip optional sections)")
	flag.BoolVar(&watch, "watch", false, "keep watching the input directory for new documents")
	flag.BoolVar(&migrate, "migrate-legacy", false, "relabel contract_id-keyed agreements onto agreement_id first")
	flag.BoolVar(&embed, "embed", true, "backfill excerpt embeddings after loading (needs OPENAI_API_KEY)")
	flag.Parse()
	if minimal {
		opts.Full = false
	}

	log, err := logger.New(envutil.Str("APP_MODE", "dev"))
	if err != nil {
		fmt.Printf("Failed to init logger: %v\n", err)
		os.Exit(1)
	}
	defer log.Sync()

	ctx, stop := shutdown.NotifyContext(context.Background())
	defer stop()

	neoClient, err := neo4jdb.NewFromEnv(log)
	if err != nil {
		log.Error("Neo4j init failed", "error", err)
		os.Exit(1)
	}
	if neoClient == nil {
		log.Error("NEO4J_URI is required for graph loading")
		os.Exit(1)
	}
	defer func() { _ = neoClient.Close(context.Background()) }()

	store := graph.NewStore(neoClient, log)
	store.EnsureSchema(ctx)
	if migrate {
		if _, err := store.MigrateLegacyAgreements(ctx); err != nil {
			log.Error("Legacy migration failed", "error", err)
			os.Exit(1)
		}
	}

	ledger, err := db.NewFromEnv(log)
	if err != nil {
		log.Warn("Ledger init failed, run will not be recorded", "error", err)
	}
	defer func() { _ = ledger.Close() }()
	var runsRepo ingestruns.IngestRunRepo
	if ledger.Ready() {
		runsRepo = ingestruns.NewIngestRunRepo(ledger.DB(), log)
	}

	svc := ingestion.NewService(store, runsRepo, log)
	summary, err := svc.Run(ctx, opts)
	if err != nil {
		log.Error("Ingestion run failed", "error", err)
		os.Exit(1)
	}

	if embed {
		backfillEmbeddings(ctx, store, log)
	}

	if watch {
		if _, err := svc.Watch(ctx, opts.InputDir, opts.Full); err != nil && !errors.Is(err, context.Canceled) {
			log.Error("Watch mode failed", "error", err)
			os.Exit(1)
		}
		return
	}

	if summary.Total > 0 && summary.Ingested == 0 {
		os.Exit(1)
	}
}

// backfillEmbeddings is best-effort: no API key means no vectors, and a
// failed backfill never fails the load.
func backfillEmbeddings(ctx context.Context, store *graph.Store, log *logger.Logger) {
	if os.Getenv("OPENAI_API_KEY") == "" {
		log.Info("OPENAI_API_KEY not set, skipping excerpt embeddings")
		return
	}
	embedder, err := openai.NewClient(log)
	if err != nil {
		log.Warn("OpenAI init failed, skipping excerpt embeddings", "error", err)
		return
	}
	n, err := store.BackfillEmbeddings(ctx, embedder)
	if err != nil {
		log.Warn("Embedding backfill stopped early", "embedded", n, "error", err)
		return
	}
	if n > 0 {
		log.Info("Excerpt embeddings backfilled", "count", n)
	}
}
