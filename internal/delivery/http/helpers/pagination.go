package helpers

import (
	"net/http"
	"strconv"

	"conferencecentral/internal/domain"
)

// ParsePagination reads ?page= and ?page_size=. Missing or malformed values fall
// back to the first page of DefaultPageSize rows.
func ParsePagination(r *http.Request) domain.PaginationParams {
	q := r.URL.Query()
	return domain.NewPaginationParams(queryInt(q.Get("page")), queryInt(q.Get("page_size")))
}

func queryInt(s string) int {
	v, err := strconv.Atoi(s)
	if err != nil {
		return 0
	}
	return v
}

// PaginationMeta describes the returned page of a listing.
type PaginationMeta struct {
	Page       int `json:"page"`
	PageSize   int `json:"page_size"`
	Total      int `json:"total"`
	TotalPages int `json:"total_pages"`
}

// NewPaginationMeta describes params given the listing's total row count.
func NewPaginationMeta(params domain.PaginationParams, total int) PaginationMeta {
	return PaginationMeta{
		Page:       params.Page,
		PageSize:   params.PageSize,
		Total:      total,
		TotalPages: params.TotalPages(total),
	}
}
