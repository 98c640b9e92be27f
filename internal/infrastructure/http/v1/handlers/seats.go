package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/Stiliyan26/Ticket-Master/internal/domain/seat"
	"github.com/Stiliyan26/Ticket-Master/internal/infrastructure/http/v1/dto"
)

// SeatHandler serves seat endpoints.
type SeatHandler struct {
	base    *BaseHandler
	service *seat.Service
}

// NewSeatHandler creates a seat handler.
func NewSeatHandler(base *BaseHandler, service *seat.Service) *SeatHandler {
	return &SeatHandler{base: base, service: service}
}

// RegisterRoutes mounts seat routes on the group.
func (h *SeatHandler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.POST("/venues/:id/seats", h.CreateBatch)
	rg.GET("/venues/:id/seats", h.ListByVenue)
	rg.GET("/seats/:id", h.Get)
	rg.PUT("/seats/:id", h.Update)
	rg.DELETE("/seats/:id", h.Delete)
}

// CreateBatch handles POST /venues/:id/seats.
func (h *SeatHandler) CreateBatch(c *gin.Context) {
	venueID, ok := h.base.ParamID(c, "id")
	if !ok {
		return
	}

	var req dto.CreateSeatsRequest
	if !h.base.BindJSON(c, &req) {
		return
	}

	seats, err := h.service.CreateBatch(c.Request.Context(), venueID, req.Positions())
	if err != nil {
		h.base.Error(c, err)
		return
	}

	responses := make([]dto.SeatResponse, len(seats))
	for i, s := range seats {
		responses[i] = dto.FromSeat(s)
	}
	h.base.Created(c, responses)
}

// Get handles GET /seats/:id.
func (h *SeatHandler) Get(c *gin.Context) {
	seatID, ok := h.base.ParamID(c, "id")
	if !ok {
		return
	}

	s, err := h.service.GetByID(c.Request.Context(), seatID)
	if err != nil {
		h.base.Error(c, err)
		return
	}
	h.base.OK(c, dto.FromSeat(s))
}

// Update handles PUT /seats/:id.
func (h *SeatHandler) Update(c *gin.Context) {
	seatID, ok := h.base.ParamID(c, "id")
	if !ok {
		return
	}

	var req dto.UpdateSeatRequest
	if !h.base.BindJSON(c, &req) {
		return
	}

	s, err := h.service.Update(c.Request.Context(), seatID, seat.Position{
		Section: req.Section,
		Row:     req.Row,
		Number:  req.Number,
	})
	if err != nil {
		h.base.Error(c, err)
		return
	}
	h.base.OK(c, dto.FromSeat(s))
}

// Delete handles DELETE /seats/:id.
func (h *SeatHandler) Delete(c *gin.Context) {
	seatID, ok := h.base.ParamID(c, "id")
	if !ok {
		return
	}

	if err := h.service.Delete(c.Request.Context(), seatID); err != nil {
		h.base.Error(c, err)
		return
	}
	h.base.NoContent(c)
}

// ListByVenue handles GET /venues/:id/seats.
func (h *SeatHandler) ListByVenue(c *gin.Context) {
	venueID, ok := h.base.ParamID(c, "id")
	if !ok {
		return
	}

	var page dto.PageRequest
	if !h.base.BindQuery(c, &page) {
		return
	}

	result, err := h.service.ListByVenue(c.Request.Context(), venueID, page.ToPage())
	if err != nil {
		h.base.Error(c, err)
		return
	}
	h.base.OK(c, dto.NewListResponse(result, dto.FromSeat))
}
