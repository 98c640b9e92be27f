package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Stiliyan26/Ticket-Master/internal/core/id"
	"github.com/Stiliyan26/Ticket-Master/internal/infrastructure/http/v1/dto"
	"github.com/Stiliyan26/Ticket-Master/internal/infrastructure/http/v1/middleware"
	"github.com/Stiliyan26/Ticket-Master/internal/infrastructure/storage/postgres"
)

type fakeAuditHistory struct {
	entries   []postgres.AuditEntry
	lastLimit int
}

func (f *fakeAuditHistory) GetEntityHistory(ctx context.Context, entityType string, entityID id.ID, limit int) ([]postgres.AuditEntry, error) {
	f.lastLimit = limit
	return f.entries, nil
}

func newAuditRouter(history *fakeAuditHistory) *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.Use(middleware.ErrorHandler())
	NewAuditHandler(NewBaseHandler(), history).RegisterRoutes(router.Group(""))
	return router
}

func TestAuditHistory(t *testing.T) {
	ticketID := id.New()
	history := &fakeAuditHistory{entries: []postgres.AuditEntry{
		{
			ID:         id.New(),
			EntityType: "ticket",
			EntityID:   ticketID,
			Action:     "held",
			UserID:     "user-1",
			Changes:    json.RawMessage(`{"count":2}`),
			CreatedAt:  time.Now().UTC(),
		},
	}}
	router := newAuditRouter(history)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/audit/ticket/"+ticketID.String(), nil)
	router.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)

	var out []dto.AuditEntryResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out))
	require.Len(t, out, 1)
	assert.Equal(t, "ticket", out[0].EntityType)
	assert.Equal(t, ticketID.String(), out[0].EntityID)
	assert.Equal(t, "held", out[0].Action)
	assert.Equal(t, 50, history.lastLimit)
}

func TestAuditHistory_CapsLimit(t *testing.T) {
	history := &fakeAuditHistory{}
	router := newAuditRouter(history)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/audit/booking/"+id.New().String()+"?limit=9999", nil)
	router.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, 200, history.lastLimit)
}

func TestAuditHistory_Rejections(t *testing.T) {
	history := &fakeAuditHistory{}
	router := newAuditRouter(history)

	tests := []struct {
		name string
		path string
	}{
		{"UnknownEntityType", "/audit/warehouse/" + id.New().String()},
		{"MalformedID", "/audit/ticket/not-a-uuid"},
		{"NonNumericLimit", "/audit/ticket/" + id.New().String() + "?limit=ten"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			req := httptest.NewRequest(http.MethodGet, tt.path, nil)
			router.ServeHTTP(w, req)
			assert.Equal(t, http.StatusBadRequest, w.Code)
		})
	}
}
