package handlers

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/gravamen/contractgraph-backend/internal/domain"
	"github.com/gravamen/contractgraph-backend/internal/http/response"
	apperrors "github.com/gravamen/contractgraph-backend/internal/pkg/errors"
	"github.com/gravamen/contractgraph-backend/internal/platform/cache"
	"github.com/gravamen/contractgraph-backend/internal/platform/logger"
)

// Validator runs one contract against one client's standards.
type Validator interface {
	Validate(ctx context.Context, clientID, contractID string) (*domain.Report, error)
}

type ValidateHandler struct {
	validator Validator
	cache     *cache.Cache
	log       *logger.Logger
}

func NewValidateHandler(validator Validator, reportCache *cache.Cache, baseLog *logger.Logger) *ValidateHandler {
	return &ValidateHandler{
		validator: validator,
		cache:     reportCache,
		log:       baseLog.With("handler", "ValidateHandler"),
	}
}

type validateRequest struct {
	ClientID   string `json:"client_id" binding:"required"`
	ContractID string `json:"contract_id" binding:"required"`
}

// Validate handles POST /api/validate. ?format=text returns the
// rendered report instead of the JSON structure. Reports are served
// through a read-through cache when Redis is configured.
func (h *ValidateHandler) Validate(c *gin.Context) {
	var req validateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondError(c, http.StatusBadRequest, "INVALID_ARGUMENT",
			fmt.Errorf("client_id and contract_id are required: %w", apperrors.ErrInvalidArgument))
		return
	}

	ctx := c.Request.Context()
	key := fmt.Sprintf("validate:%s:%s", req.ClientID, req.ContractID)

	var report domain.Report
	hit, err := h.cache.GetJSON(ctx, key, &report)
	if err != nil {
		h.log.Warn("Report cache read failed", "key", key, "error", err)
		hit = false
	}
	if !hit {
		fresh, err := h.validator.Validate(ctx, req.ClientID, req.ContractID)
		if err != nil {
			response.RespondAppError(c, err)
			return
		}
		report = *fresh
		if err := h.cache.SetJSON(ctx, key, report); err != nil {
			h.log.Warn("Report cache write failed", "key", key, "error", err)
		}
	}

	if strings.EqualFold(c.Query("format"), "text") {
		c.String(http.StatusOK, report.Render())
		return
	}
	response.RespondOK(c, report)
}
