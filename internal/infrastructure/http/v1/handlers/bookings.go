package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/Stiliyan26/Ticket-Master/internal/core/apperror"
	"github.com/Stiliyan26/Ticket-Master/internal/domain/booking"
	"github.com/Stiliyan26/Ticket-Master/internal/infrastructure/http/v1/dto"
)

// BookingHandler serves booking endpoints. All routes require an
// authenticated user.
type BookingHandler struct {
	base    *BaseHandler
	service *booking.Service
}

// NewBookingHandler creates a booking handler.
func NewBookingHandler(base *BaseHandler, service *booking.Service) *BookingHandler {
	return &BookingHandler{base: base, service: service}
}

// RegisterRoutes mounts booking routes on the group.
func (h *BookingHandler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.POST("/bookings", h.Create)
	rg.GET("/bookings", h.ListMine)
	rg.GET("/bookings/:id", h.Get)
	rg.POST("/bookings/:id/cancel", h.Cancel)
}

// Create handles POST /bookings.
func (h *BookingHandler) Create(c *gin.Context) {
	userID := h.base.GetUserID(c)
	if userID == "" {
		h.base.Error(c, apperror.NewUnauthorized("authentication required"))
		return
	}

	var req dto.CreateBookingRequest
	if !h.base.BindJSON(c, &req) {
		return
	}

	ticketIDs, err := req.ParsedTicketIDs()
	if err != nil {
		h.base.Error(c, err)
		return
	}

	b, err := h.service.Create(c.Request.Context(), userID, ticketIDs)
	if err != nil {
		h.base.Error(c, err)
		return
	}
	h.base.Created(c, dto.FromBooking(b))
}

// Get handles GET /bookings/:id.
func (h *BookingHandler) Get(c *gin.Context) {
	bookingID, ok := h.base.ParamID(c, "id")
	if !ok {
		return
	}

	b, err := h.service.GetByID(c.Request.Context(), bookingID)
	if err != nil {
		h.base.Error(c, err)
		return
	}

	if userID := h.base.GetUserID(c); userID != "" && b.UserID != userID {
		h.base.Error(c, apperror.NewForbidden("booking belongs to another user"))
		return
	}
	h.base.OK(c, dto.FromBooking(b))
}

// Cancel handles POST /bookings/:id/cancel.
func (h *BookingHandler) Cancel(c *gin.Context) {
	bookingID, ok := h.base.ParamID(c, "id")
	if !ok {
		return
	}

	b, err := h.service.GetByID(c.Request.Context(), bookingID)
	if err != nil {
		h.base.Error(c, err)
		return
	}
	if userID := h.base.GetUserID(c); userID != "" && b.UserID != userID {
		h.base.Error(c, apperror.NewForbidden("booking belongs to another user"))
		return
	}

	cancelled, err := h.service.Cancel(c.Request.Context(), bookingID)
	if err != nil {
		h.base.Error(c, err)
		return
	}
	h.base.OK(c, dto.FromBooking(cancelled))
}

// ListMine handles GET /bookings.
func (h *BookingHandler) ListMine(c *gin.Context) {
	userID := h.base.GetUserID(c)
	if userID == "" {
		h.base.Error(c, apperror.NewUnauthorized("authentication required"))
		return
	}

	var page dto.PageRequest
	if !h.base.BindQuery(c, &page) {
		return
	}

	result, err := h.service.ListByUser(c.Request.Context(), userID, page.ToPage())
	if err != nil {
		h.base.Error(c, err)
		return
	}
	h.base.OK(c, dto.NewListResponse(result, dto.FromBooking))
}
