package main

import (
	"context"
	"fmt"
	"os"

	"github.com/gravamen/contractgraph-backend/internal/data/db"
	"github.com/gravamen/contractgraph-backend/internal/data/graph"
	"github.com/gravamen/contractgraph-backend/internal/data/repos/ingestruns"
	httpServer "github.com/gravamen/contractgraph-backend/internal/http"
	httpH "github.com/gravamen/contractgraph-backend/internal/http/handlers"
	"github.com/gravamen/contractgraph-backend/internal/observability"
	"github.com/gravamen/contractgraph-backend/internal/platform/cache"
	"github.com/gravamen/contractgraph-backend/internal/platform/envutil"
	"github.com/gravamen/contractgraph-backend/internal/platform/logger"
	"github.com/gravamen/contractgraph-backend/internal/platform/neo4jdb"
	"github.com/gravamen/contractgraph-backend/internal/platform/shutdown"
	"github.com/gravamen/contractgraph-backend/internal/services/validation"
)

func main() {
	log, err := logger.New(envutil.Str("APP_MODE", "dev"))
	if err != nil {
		fmt.Printf("Failed to init logger: %v\n", err)
		os.Exit(1)
	}
	defer log.Sync()

	ctx, stop := shutdown.NotifyContext(context.Background())
	defer stop()

	otelShutdown := observability.InitOTel(ctx, log, observability.OtelConfig{
		ServiceName: envutil.Str("OTEL_SERVICE_NAME", "contractgraph-api"),
		Environment: envutil.Str("APP_MODE", "dev"),
	})
	if otelShutdown != nil {
		defer func() { _ = otelShutdown(context.Background()) }()
	}

	// Graph store. The API runs without it; graph-backed endpoints
	// degrade to 503 until NEO4J_URI is configured.
	neoClient, err := neo4jdb.NewFromEnv(log)
	if err != nil {
		log.Warn("Neo4j init failed, graph endpoints unavailable", "error", err)
	}
	store := graph.NewStore(neoClient, log)
	if store.Ready() {
		store.EnsureSchema(ctx)
	}
	defer func() { _ = neoClient.Close(context.Background()) }()

	// Client standards: a YAML file when configured, the built-in
	// samples otherwise.
	registry := validation.NewRegistry(log)
	if path := envutil.Str("CLIENT_STANDARDS_PATH", ""); path != "" {
		n, err := registry.LoadFile(path)
		if err != nil {
			log.Error("Could not load client standards", "path", path, "error", err)
			os.Exit(1)
		}
		log.Info("Client standards loaded", "path", path, "clients", n)
	} else {
		for _, s := range validation.SampleStandards() {
			if err := registry.Register(s); err != nil {
				log.Error("Could not register sample standards", "error", err)
				os.Exit(1)
			}
		}
	}
	validator := validation.NewService(registry, store, log)

	reportCache, err := cache.NewFromEnv(log)
	if err != nil {
		log.Warn("Redis init failed, validation cache disabled", "error", err)
	}
	defer func() { _ = reportCache.Close() }()

	ledger, err := db.NewFromEnv(log)
	if err != nil {
		log.Warn("Ledger init failed, ingest-run history unavailable", "error", err)
	}
	defer func() { _ = ledger.Close() }()
	var runsRepo ingestruns.IngestRunRepo
	if ledger.Ready() {
		runsRepo = ingestruns.NewIngestRunRepo(ledger.DB(), log)
	}

	cacheReady := func() bool { return reportCache != nil }
	server := httpServer.NewServer(httpServer.RouterConfig{
		Log:               log,
		HealthHandler:     httpH.NewHealthHandler(store.Ready, cacheReady, ledger.Ready),
		ValidateHandler:   httpH.NewValidateHandler(validator, reportCache, log),
		ClientsHandler:    httpH.NewClientsHandler(registry),
		ContractsHandler:  httpH.NewContractsHandler(store),
		IngestRunsHandler: httpH.NewIngestRunsHandler(runsRepo),
	})

	addr := ":" + envutil.Str("PORT", "8080")
	log.Info("Starting API server", "addr", addr)
	if err := server.Run(ctx, addr); err != nil {
		log.Error("Server exited", "error", err)
		os.Exit(1)
	}
}
