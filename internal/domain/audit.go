package domain

import (
	"context"

	"github.com/Stiliyan26/Ticket-Master/internal/core/id"
)

// AuditLog records entity changes for later inspection.
// Implemented by the postgres audit service; writes made inside a
// transaction commit or roll back with it.
type AuditLog interface {
	LogChange(ctx context.Context, entityType string, entityID id.ID, action string, changes map[string]any) error
}
