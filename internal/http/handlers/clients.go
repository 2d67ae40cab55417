package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/gravamen/contractgraph-backend/internal/domain"
	"github.com/gravamen/contractgraph-backend/internal/http/response"
)

// StandardsLister exposes the registered client standards.
type StandardsLister interface {
	List() []domain.ClientStandards
}

type ClientsHandler struct {
	registry StandardsLister
}

func NewClientsHandler(registry StandardsLister) *ClientsHandler {
	return &ClientsHandler{registry: registry}
}

type clientSummary struct {
	ClientID   string `json:"client_id"`
	ClientName string `json:"client_name"`
}

func (h *ClientsHandler) ListClients(c *gin.Context) {
	standards := h.registry.List()
	summaries := make([]clientSummary, 0, len(standards))
	for _, s := range standards {
		summaries = append(summaries, clientSummary{ClientID: s.ClientID, ClientName: s.ClientName})
	}
	response.RespondOK(c, gin.H{"clients": summaries})
}
