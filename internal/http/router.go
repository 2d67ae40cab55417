package http

import (
	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"

	httpH "github.com/gravamen/contractgraph-backend/internal/http/handlers"
	httpMW "github.com/gravamen/contractgraph-backend/internal/http/middleware"
	"github.com/gravamen/contractgraph-backend/internal/platform/envutil"
	"github.com/gravamen/contractgraph-backend/internal/platform/logger"
)

type RouterConfig struct {
	Log *logger.Logger

	HealthHandler     *httpH.HealthHandler
	ValidateHandler   *httpH.ValidateHandler
	ClientsHandler    *httpH.ClientsHandler
	ContractsHandler  *httpH.ContractsHandler
	IngestRunsHandler *httpH.IngestRunsHandler
}

func NewRouter(cfg RouterConfig) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(httpMW.AttachTraceContext())
	r.Use(httpMW.RequestLogger(cfg.Log))
	r.Use(httpMW.CORS())
	if envutil.Bool("OTEL_ENABLED", false) {
		r.Use(otelgin.Middleware(envutil.Str("OTEL_SERVICE_NAME", "contractgraph-api")))
	}

	// Health
	if cfg.HealthHandler != nil {
		r.GET("/healthcheck", cfg.HealthHandler.HealthCheck)
	}

	api := r.Group("/api")
	{
		if cfg.ValidateHandler != nil {
			api.POST("/validate", cfg.ValidateHandler.Validate)
		}

		if cfg.ClientsHandler != nil {
			api.GET("/clients", cfg.ClientsHandler.ListClients)
		}

		if cfg.ContractsHandler != nil {
			api.GET("/contracts", cfg.ContractsHandler.ListContracts)
			api.GET("/contracts/:id", cfg.ContractsHandler.GetContract)
			api.GET("/clauses/search", cfg.ContractsHandler.SearchClauses)
			api.GET("/liability-caps/stats", cfg.ContractsHandler.LiabilityCapStats)
		}

		if cfg.IngestRunsHandler != nil {
			api.GET("/ingest-runs", cfg.IngestRunsHandler.ListRuns)
		}
	}

	return r
}
