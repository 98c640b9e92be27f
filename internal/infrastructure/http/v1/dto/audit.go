package dto

import (
	"encoding/json"
	"time"

	"github.com/Stiliyan26/Ticket-Master/internal/infrastructure/storage/postgres"
)

// AuditEntryResponse is the wire shape of one audit trail entry.
// Changes is the decompressed payload as recorded.
type AuditEntryResponse struct {
	ID         string          `json:"id"`
	EntityType string          `json:"entityType"`
	EntityID   string          `json:"entityId"`
	Action     string          `json:"action"`
	UserID     string          `json:"userId,omitempty"`
	Changes    json.RawMessage `json:"changes,omitempty"`
	CreatedAt  time.Time       `json:"createdAt"`
}

// FromAuditEntry maps an audit entry onto its response.
func FromAuditEntry(e postgres.AuditEntry) AuditEntryResponse {
	return AuditEntryResponse{
		ID:         e.ID.String(),
		EntityType: e.EntityType,
		EntityID:   e.EntityID.String(),
		Action:     e.Action,
		UserID:     e.UserID,
		Changes:    e.Changes,
		CreatedAt:  e.CreatedAt,
	}
}
