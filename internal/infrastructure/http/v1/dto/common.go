// Package dto provides Data Transfer Objects for API requests/responses.
package dto

import (
	"github.com/Stiliyan26/Ticket-Master/internal/domain"
)

// --- Pagination ---

// PageRequest contains pagination query parameters.
type PageRequest struct {
	Limit   int    `form:"limit"`
	Offset  int    `form:"offset"`
	OrderBy string `form:"orderBy"`
}

// ToPage converts query parameters into a domain page.
func (p PageRequest) ToPage() domain.Page {
	return domain.Page{
		Limit:   p.Limit,
		Offset:  p.Offset,
		OrderBy: p.OrderBy,
	}.Normalize()
}

// ListResponse wraps list results with pagination.
type ListResponse struct {
	Items      any   `json:"items"`
	TotalCount int64 `json:"totalCount"`
	Limit      int   `json:"limit"`
	Offset     int   `json:"offset"`
}

// NewListResponse maps a domain list result onto the wire shape.
func NewListResponse[T, D any](r domain.ListResult[T], mapFn func(T) D) ListResponse {
	items := make([]D, len(r.Items))
	for i, item := range r.Items {
		items[i] = mapFn(item)
	}
	return ListResponse{
		Items:      items,
		TotalCount: r.TotalCount,
		Limit:      r.Limit,
		Offset:     r.Offset,
	}
}

// --- Common responses ---

// IDResponse returns the id of a created resource.
type IDResponse struct {
	ID string `json:"id"`
}

// SuccessResponse is a generic success acknowledgement.
type SuccessResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message,omitempty"`
}
