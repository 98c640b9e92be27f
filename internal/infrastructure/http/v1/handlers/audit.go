package handlers

import (
	"context"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/Stiliyan26/Ticket-Master/internal/core/apperror"
	"github.com/Stiliyan26/Ticket-Master/internal/core/id"
	"github.com/Stiliyan26/Ticket-Master/internal/infrastructure/http/v1/dto"
	"github.com/Stiliyan26/Ticket-Master/internal/infrastructure/storage/postgres"
)

const (
	defaultHistoryLimit = 50
	maxHistoryLimit     = 200
)

// AuditHistory reads the reservation audit trail.
type AuditHistory interface {
	GetEntityHistory(ctx context.Context, entityType string, entityID id.ID, limit int) ([]postgres.AuditEntry, error)
}

// AuditHandler serves the audit trail of an entity, newest first.
type AuditHandler struct {
	base  *BaseHandler
	audit AuditHistory
}

// NewAuditHandler creates an audit handler.
func NewAuditHandler(base *BaseHandler, audit AuditHistory) *AuditHandler {
	return &AuditHandler{base: base, audit: audit}
}

// RegisterRoutes mounts audit routes on the group.
func (h *AuditHandler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("/audit/:entity/:id", h.History)
}

// History handles GET /audit/:entity/:id.
func (h *AuditHandler) History(c *gin.Context) {
	entityType := c.Param("entity")
	switch entityType {
	case "venue", "seat", "event", "ticket", "booking":
	default:
		h.base.Error(c, apperror.NewValidation("unknown entity type").
			WithDetail("entity", entityType))
		return
	}

	entityID, ok := h.base.ParamID(c, "id")
	if !ok {
		return
	}

	limit := defaultHistoryLimit
	if raw := c.Query("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 1 {
			h.base.Error(c, apperror.NewValidation("invalid limit").
				WithDetail("limit", raw))
			return
		}
		limit = parsed
	}
	if limit > maxHistoryLimit {
		limit = maxHistoryLimit
	}

	entries, err := h.audit.GetEntityHistory(c.Request.Context(), entityType, entityID, limit)
	if err != nil {
		h.base.Error(c, err)
		return
	}

	out := make([]dto.AuditEntryResponse, len(entries))
	for i, e := range entries {
		out[i] = dto.FromAuditEntry(e)
	}
	h.base.OK(c, out)
}
