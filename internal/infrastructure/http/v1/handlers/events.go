package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/Stiliyan26/Ticket-Master/internal/domain/event"
	"github.com/Stiliyan26/Ticket-Master/internal/domain/ticket"
	"github.com/Stiliyan26/Ticket-Master/internal/infrastructure/http/v1/dto"
)

// EventHandler serves event endpoints, including per-event ticket views.
type EventHandler struct {
	base    *BaseHandler
	service *event.Service
	tickets *ticket.Service
}

// NewEventHandler creates an event handler.
func NewEventHandler(base *BaseHandler, service *event.Service, tickets *ticket.Service) *EventHandler {
	return &EventHandler{base: base, service: service, tickets: tickets}
}

// RegisterRoutes mounts event routes on the group.
func (h *EventHandler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.POST("/events", h.Create)
	rg.GET("/events", h.List)
	rg.GET("/events/:id", h.Get)
	rg.PUT("/events/:id", h.Update)
	rg.DELETE("/events/:id", h.Delete)
	rg.GET("/events/:id/tickets", h.ListTickets)
	rg.GET("/events/:id/availability", h.Availability)
}

// Create handles POST /events.
func (h *EventHandler) Create(c *gin.Context) {
	var req dto.CreateEventRequest
	if !h.base.BindJSON(c, &req) {
		return
	}

	in, err := req.ToInput()
	if err != nil {
		h.base.Error(c, err)
		return
	}

	ev, err := h.service.Create(c.Request.Context(), in)
	if err != nil {
		h.base.Error(c, err)
		return
	}
	h.base.Created(c, dto.FromEvent(ev))
}

// Get handles GET /events/:id.
func (h *EventHandler) Get(c *gin.Context) {
	eventID, ok := h.base.ParamID(c, "id")
	if !ok {
		return
	}

	ev, err := h.service.GetByID(c.Request.Context(), eventID, false)
	if err != nil {
		h.base.Error(c, err)
		return
	}
	h.base.OK(c, dto.FromEvent(ev))
}

// Update handles PUT /events/:id.
func (h *EventHandler) Update(c *gin.Context) {
	eventID, ok := h.base.ParamID(c, "id")
	if !ok {
		return
	}

	var req dto.UpdateEventRequest
	if !h.base.BindJSON(c, &req) {
		return
	}

	in, err := req.ToInput()
	if err != nil {
		h.base.Error(c, err)
		return
	}

	ev, err := h.service.Update(c.Request.Context(), eventID, in)
	if err != nil {
		h.base.Error(c, err)
		return
	}
	h.base.OK(c, dto.FromEvent(ev))
}

// Delete handles DELETE /events/:id.
func (h *EventHandler) Delete(c *gin.Context) {
	eventID, ok := h.base.ParamID(c, "id")
	if !ok {
		return
	}

	if err := h.service.Remove(c.Request.Context(), eventID); err != nil {
		h.base.Error(c, err)
		return
	}
	h.base.NoContent(c)
}

// List handles GET /events.
func (h *EventHandler) List(c *gin.Context) {
	var page dto.PageRequest
	if !h.base.BindQuery(c, &page) {
		return
	}

	result, err := h.service.List(c.Request.Context(), page.ToPage())
	if err != nil {
		h.base.Error(c, err)
		return
	}
	h.base.OK(c, dto.NewListResponse(result, dto.FromEvent))
}

// ListTickets handles GET /events/:id/tickets.
func (h *EventHandler) ListTickets(c *gin.Context) {
	eventID, ok := h.base.ParamID(c, "id")
	if !ok {
		return
	}

	var page dto.PageRequest
	if !h.base.BindQuery(c, &page) {
		return
	}

	result, err := h.tickets.FindByEvent(c.Request.Context(), eventID, page.ToPage())
	if err != nil {
		h.base.Error(c, err)
		return
	}
	h.base.OK(c, dto.NewListResponse(result, dto.FromTicket))
}

// Availability handles GET /events/:id/availability.
func (h *EventHandler) Availability(c *gin.Context) {
	eventID, ok := h.base.ParamID(c, "id")
	if !ok {
		return
	}

	counts, err := h.tickets.CountAvailable(c.Request.Context(), eventID)
	if err != nil {
		h.base.Error(c, err)
		return
	}
	h.base.OK(c, dto.AvailabilityResponse{
		Available: counts.Available,
		Total:     counts.Total,
	})
}
