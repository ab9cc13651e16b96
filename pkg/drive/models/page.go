package models

const (
	// DefaultPageSize is used when a request does not specify a page size.
	DefaultPageSize = 20

	// MaxPageSize caps the page size a request may ask for.
	MaxPageSize = 100
)

// Page is a 1-indexed pagination request.
type Page struct {
	Number int `json:"page"`
	Size   int `json:"page_size"`
}

// NewPage builds a Page, clamping out-of-range values: numbers below 1
// become 1, sizes below 1 become DefaultPageSize, sizes above MaxPageSize
// become MaxPageSize.
func NewPage(number, size int) Page {
	if number < 1 {
		number = 1
	}
	if size < 1 {
		size = DefaultPageSize
	}
	if size > MaxPageSize {
		size = MaxPageSize
	}
	return Page{Number: number, Size: size}
}

// Offset returns the row offset for this page: (page-1) * size.
func (p Page) Offset() int {
	return (p.Number - 1) * p.Size
}

// Limit returns the row limit for this page.
func (p Page) Limit() int {
	return p.Size
}

// PageResult is one page of results together with pagination totals.
type PageResult[T any] struct {
	Items      []T   `json:"items"`
	TotalItems int64 `json:"total_items"`
	TotalPages int   `json:"total_pages"`
	Page       int   `json:"page"`
	PageSize   int   `json:"page_size"`
}

// NewPageResult assembles a PageResult. TotalPages is the ceiling of
// total/size: 25 items at size 10 yield 3 pages. Zero items yield zero
// pages.
func NewPageResult[T any](items []T, totalItems int64, page Page) *PageResult[T] {
	if items == nil {
		items = []T{}
	}
	totalPages := int((totalItems + int64(page.Size) - 1) / int64(page.Size))
	return &PageResult[T]{
		Items:      items,
		TotalItems: totalItems,
		TotalPages: totalPages,
		Page:       page.Number,
		PageSize:   page.Size,
	}
}
