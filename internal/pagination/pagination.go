package pagination

import (
	"net/url"
	"strconv"
)

const (
	// DefaultLimit is applied when the caller does not specify a page size.
	DefaultLimit = 10
	// MaxLimit caps the page size a caller may request.
	MaxLimit = 100
)

// Params captures the 1-based page and page-size requested by a caller.
type Params struct {
	Page  int
	Limit int
}

// ParseParams reads page and limit from query values, applying defaults and
// flooring both at 1. Values that do not parse fall back to the defaults.
func ParseParams(values url.Values) Params {
	p := Params{Page: 1, Limit: DefaultLimit}

	if raw := values.Get("page"); raw != "" {
		if page, err := strconv.Atoi(raw); err == nil && page > 0 {
			p.Page = page
		}
	}
	if raw := values.Get("limit"); raw != "" {
		if limit, err := strconv.Atoi(raw); err == nil && limit > 0 {
			p.Limit = limit
		}
	}
	if p.Limit > MaxLimit {
		p.Limit = MaxLimit
	}

	return p
}

// Offset returns the number of rows to skip for the requested page.
func (p Params) Offset() int {
	return (p.Page - 1) * p.Limit
}

// Page is the uniform result envelope wrapped around every list endpoint.
type Page[T any] struct {
	TotalCount   int64 `json:"totalCount"`
	CurrentPage  int   `json:"currentPage"`
	Limit        int   `json:"limit"`
	NextPage     *int  `json:"nextPage"`
	PreviousPage *int  `json:"previousPage"`
	Items        []T   `json:"items"`
}

// NewPage wraps items in the pagination envelope. NextPage is set iff more
// rows remain beyond the current page; PreviousPage iff the page is not the
// first. Items is never null in the serialized form.
func NewPage[T any](items []T, totalCount int64, params Params) Page[T] {
	if items == nil {
		items = []T{}
	}

	page := Page[T]{
		TotalCount:  totalCount,
		CurrentPage: params.Page,
		Limit:       params.Limit,
		Items:       items,
	}

	if int64(params.Page)*int64(params.Limit) < totalCount {
		next := params.Page + 1
		page.NextPage = &next
	}
	if params.Page > 1 {
		prev := params.Page - 1
		page.PreviousPage = &prev
	}

	return page
}
