// Package domain provides shared business-layer types.
package domain

// Page contains common pagination options for list operations.
type Page struct {
	// OrderBy specifies sorting (e.g., "name", "-created_at")
	OrderBy string

	Limit  int
	Offset int
}

// DefaultPage returns sensible defaults.
func DefaultPage() Page {
	return Page{
		Limit:   50,
		OrderBy: "created_at",
	}
}

// Normalize clamps pagination values into valid ranges.
func (p Page) Normalize() Page {
	if p.Limit <= 0 || p.Limit > 500 {
		p.Limit = 50
	}
	if p.Offset < 0 {
		p.Offset = 0
	}
	if p.OrderBy == "" {
		p.OrderBy = "created_at"
	}
	return p
}

// ListResult contains paginated results.
type ListResult[T any] struct {
	Items      []T   `json:"items"`
	TotalCount int64 `json:"totalCount"`
	Limit      int   `json:"limit"`
	Offset     int   `json:"offset"`
}
