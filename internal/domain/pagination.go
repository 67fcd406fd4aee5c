package domain

// Page bounds for speaker listings.
const (
	DefaultPageSize = 20
	MaxPageSize     = 100
)

// PaginationParams selects one page of a listing. Page is 1-based.
type PaginationParams struct {
	Page     int
	PageSize int
}

// NewPaginationParams clamps page and size: page < 1 becomes 1, size < 1 becomes
// DefaultPageSize and size above MaxPageSize is capped.
func NewPaginationParams(page, size int) PaginationParams {
	if page < 1 {
		page = 1
	}
	switch {
	case size < 1:
		size = DefaultPageSize
	case size > MaxPageSize:
		size = MaxPageSize
	}
	return PaginationParams{Page: page, PageSize: size}
}

// Limit is the row limit of the page.
func (p PaginationParams) Limit() int {
	return p.PageSize
}

// Offset is the number of rows before the page.
func (p PaginationParams) Offset() int {
	if p.Page < 1 {
		return 0
	}
	return (p.Page - 1) * p.PageSize
}

// TotalPages is the number of pages needed for total rows.
func (p PaginationParams) TotalPages(total int) int {
	if p.PageSize <= 0 {
		return 0
	}
	return (total + p.PageSize - 1) / p.PageSize
}
