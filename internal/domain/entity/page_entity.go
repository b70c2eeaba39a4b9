package entity

// Page is one slice of a paginated, newest-first listing.
type Page[T any] struct {
	Items    []T
	Page     int
	PerPage  int
	Total    int64
	LastPage int
}

// NewPage computes LastPage from total and perPage. Pages are 1-based.
func NewPage[T any](items []T, page, perPage int, total int64) Page[T] {
	if items == nil {
		items = []T{}
	}
	last := 1
	if perPage > 0 && total > 0 {
		last = int((total + int64(perPage) - 1) / int64(perPage))
	}
	return Page[T]{Items: items, Page: page, PerPage: perPage, Total: total, LastPage: last}
}

// Offset converts a 1-based page number into a row offset, clamping page to >= 1.
func Offset(page, perPage int) (int, int) {
	if page < 1 {
		page = 1
	}
	return page, (page - 1) * perPage
}
