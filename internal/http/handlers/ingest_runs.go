package handlers

import (
	"fmt"

	"github.com/gin-gonic/gin"

	"github.com/gravamen/contractgraph-backend/internal/data/repos/ingestruns"
	"github.com/gravamen/contractgraph-backend/internal/http/response"
	"github.com/gravamen/contractgraph-backend/internal/pkg/dbctx"
	apperrors "github.com/gravamen/contractgraph-backend/internal/pkg/errors"
)

type IngestRunsHandler struct {
	runs ingestruns.IngestRunRepo
}

func NewIngestRunsHandler(runs ingestruns.IngestRunRepo) *IngestRunsHandler {
	return &IngestRunsHandler{runs: runs}
}

// ListRuns handles GET /api/ingest-runs. Without a ledger database the
// endpoint is declared unavailable rather than returning an empty list.
func (h *IngestRunsHandler) ListRuns(c *gin.Context) {
	if h.runs == nil {
		response.RespondAppError(c, fmt.Errorf("ingest ledger not configured: %w", apperrors.ErrUnavailable))
		return
	}
	runs, err := h.runs.ListRecent(dbctx.Context{Ctx: c.Request.Context()}, queryInt(c, "limit"))
	if err != nil {
		response.RespondAppError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"runs": runs, "count": len(runs)})
}
