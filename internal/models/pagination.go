package models

const (
	DefaultPageSize = 20
	MaxPageSize     = 100
	// MaxPage bounds offsets so Page*PageSize cannot overflow.
	MaxPage = 100_000
)

// Page is a normalized 1-based page request.
type Page struct {
	Page     int
	PageSize int
}

// NewPage clamps page into 1..MaxPage and pageSize into 1..MaxPageSize,
// using DefaultPageSize when pageSize is unset.
func NewPage(page, pageSize int) Page {
	switch {
	case page < 1:
		page = 1
	case page > MaxPage:
		page = MaxPage
	}
	switch {
	case pageSize == 0:
		pageSize = DefaultPageSize
	case pageSize < 1:
		pageSize = 1
	case pageSize > MaxPageSize:
		pageSize = MaxPageSize
	}
	return Page{Page: page, PageSize: pageSize}
}

// Offset returns the row offset of the page.
func (p Page) Offset() int {
	return (p.Page - 1) * p.PageSize
}

// HasMore reports whether rows remain after this page.
func (p Page) HasMore(total int64) bool {
	return total > int64(p.Page*p.PageSize)
}

// ListPage is a generic page of results.
type ListPage[T any] struct {
	Items    []T   `json:"items"`
	Total    int64 `json:"total"`
	Page     int   `json:"page"`
	PageSize int   `json:"page_size"`
	HasMore  bool  `json:"has_more"`
}

// NewListPage wraps items with the paging metadata of p.
func NewListPage[T any](items []T, total int64, p Page) *ListPage[T] {
	if items == nil {
		items = []T{}
	}
	return &ListPage[T]{
		Items:    items,
		Total:    total,
		Page:     p.Page,
		PageSize: p.PageSize,
		HasMore:  p.HasMore(total),
	}
}
