package handlers

import (
	"context"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/gravamen/contractgraph-backend/internal/domain"
	"github.com/gravamen/contractgraph-backend/internal/http/response"
)

// ContractSearcher is the read-side query surface over the contract
// graph.
type ContractSearcher interface {
	GetContract(ctx context.Context, agreementID string) (*domain.ContractDetail, error)
	ListContracts(ctx context.Context, limit int) ([]domain.ContractSummary, error)
	LiabilityCapStats(ctx context.Context) (*domain.LiabilityCapStats, error)
	SearchClauses(ctx context.Context, text string, limit int) ([]domain.ClauseHit, error)
}

type ContractsHandler struct {
	search ContractSearcher
}

func NewContractsHandler(search ContractSearcher) *ContractsHandler {
	return &ContractsHandler{search: search}
}

func (h *ContractsHandler) ListContracts(c *gin.Context) {
	contracts, err := h.search.ListContracts(c.Request.Context(), queryInt(c, "limit"))
	if err != nil {
		response.RespondAppError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"contracts": contracts, "count": len(contracts)})
}

func (h *ContractsHandler) GetContract(c *gin.Context) {
	detail, err := h.search.GetContract(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.RespondAppError(c, err)
		return
	}
	response.RespondOK(c, detail)
}

func (h *ContractsHandler) LiabilityCapStats(c *gin.Context) {
	stats, err := h.search.LiabilityCapStats(c.Request.Context())
	if err != nil {
		response.RespondAppError(c, err)
		return
	}
	response.RespondOK(c, stats)
}

func (h *ContractsHandler) SearchClauses(c *gin.Context) {
	hits, err := h.search.SearchClauses(c.Request.Context(), c.Query("q"), queryInt(c, "limit"))
	if err != nil {
		response.RespondAppError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"clauses": hits, "count": len(hits)})
}

func queryInt(c *gin.Context, name string) int {
	raw := c.Query(name)
	if raw == "" {
		return 0
	}
	v, err := strconv.Atoi(raw)
	if err != nil || v < 0 {
		return 0
	}
	return v
}
