package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/Stiliyan26/Ticket-Master/internal/domain/venue"
	"github.com/Stiliyan26/Ticket-Master/internal/infrastructure/http/v1/dto"
)

// VenueHandler serves venue endpoints.
type VenueHandler struct {
	base    *BaseHandler
	service *venue.Service
}

// NewVenueHandler creates a venue handler.
func NewVenueHandler(base *BaseHandler, service *venue.Service) *VenueHandler {
	return &VenueHandler{base: base, service: service}
}

// RegisterRoutes mounts venue routes on the group.
func (h *VenueHandler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.POST("/venues", h.Create)
	rg.GET("/venues", h.List)
	rg.GET("/venues/:id", h.Get)
	rg.PUT("/venues/:id", h.Update)
	rg.DELETE("/venues/:id", h.Delete)
}

// Create handles POST /venues.
func (h *VenueHandler) Create(c *gin.Context) {
	var req dto.CreateVenueRequest
	if !h.base.BindJSON(c, &req) {
		return
	}

	v, err := h.service.Create(c.Request.Context(), req.Name, req.Address)
	if err != nil {
		h.base.Error(c, err)
		return
	}
	h.base.Created(c, dto.FromVenue(v))
}

// Get handles GET /venues/:id.
func (h *VenueHandler) Get(c *gin.Context) {
	venueID, ok := h.base.ParamID(c, "id")
	if !ok {
		return
	}

	v, err := h.service.GetByID(c.Request.Context(), venueID)
	if err != nil {
		h.base.Error(c, err)
		return
	}
	h.base.OK(c, dto.FromVenue(v))
}

// Update handles PUT /venues/:id.
func (h *VenueHandler) Update(c *gin.Context) {
	venueID, ok := h.base.ParamID(c, "id")
	if !ok {
		return
	}

	var req dto.UpdateVenueRequest
	if !h.base.BindJSON(c, &req) {
		return
	}

	v, err := h.service.Update(c.Request.Context(), venueID, req.Name, req.Address)
	if err != nil {
		h.base.Error(c, err)
		return
	}
	h.base.OK(c, dto.FromVenue(v))
}

// Delete handles DELETE /venues/:id.
func (h *VenueHandler) Delete(c *gin.Context) {
	venueID, ok := h.base.ParamID(c, "id")
	if !ok {
		return
	}

	if err := h.service.Delete(c.Request.Context(), venueID); err != nil {
		h.base.Error(c, err)
		return
	}
	h.base.NoContent(c)
}

// List handles GET /venues.
func (h *VenueHandler) List(c *gin.Context) {
	var page dto.PageRequest
	if !h.base.BindQuery(c, &page) {
		return
	}

	result, err := h.service.List(c.Request.Context(), page.ToPage())
	if err != nil {
		h.base.Error(c, err)
		return
	}
	h.base.OK(c, dto.NewListResponse(result, dto.FromVenue))
}
