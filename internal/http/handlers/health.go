package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/gravamen/contractgraph-backend/internal/http/response"
)

// Probe reports whether an optional collaborator is actually wired.
type Probe func() bool

type HealthHandler struct {
	graph  Probe
	cache  Probe
	ledger Probe
}

func NewHealthHandler(graph, cache, ledger Probe) *HealthHandler {
	return &HealthHandler{graph: graph, cache: cache, ledger: ledger}
}

func (h *HealthHandler) HealthCheck(c *gin.Context) {
	response.RespondOK(c, gin.H{
		"status": "ok",
		"components": gin.H{
			"graph":  probeStatus(h.graph),
			"cache":  probeStatus(h.cache),
			"ledger": probeStatus(h.ledger),
		},
	})
}

func probeStatus(p Probe) string {
	if p == nil || !p() {
		return "off"
	}
	return "up"
}
