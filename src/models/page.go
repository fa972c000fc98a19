package models

// Page is the paginated envelope returned by list endpoints
type Page[T any] struct {
	Data       []T `json:"data"`
	Total      int `json:"total"`
	Page       int `json:"page"`
	PageSize   int `json:"pageSize"`
	TotalPages int `json:"totalPages"`
}

// IsEmpty returns true if the page carries no records
func (p *Page[T]) IsEmpty() bool {
	return p == nil || len(p.Data) == 0
}

// FilterParams are the query parameters of a list request
type FilterParams struct {
	Page     int    `json:"page"`
	PageSize int    `json:"pageSize"`
	Name     string `json:"name,omitempty"`
}
