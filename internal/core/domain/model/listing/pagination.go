package listing

// DefaultPageSize applies when a page size of zero is requested.
const DefaultPageSize = 10

// Window is the effective page of a listing.
type Window struct {
	Page        int
	PageSize    int
	HasNextPage bool
}

// Offset is the number of rows to skip for the window.
func (w Window) Offset() int {
	return (w.Page - 1) * w.PageSize
}

// ResolveWindow normalizes a one-based page request against total rows.
//
// A page of zero, or a page starting at or past the last row, resets to the
// first page. The overflow check uses the requested size before a zero size
// is replaced by DefaultPageSize, so any page with size zero lands on page 1
// only when it is page 0 or the listing is empty.
func ResolveWindow(page, pageSize, total int) Window {
	w := Window{Page: page, PageSize: pageSize}

	if page == 0 || (page-1)*pageSize >= total {
		w.Page = 1
	}
	if pageSize == 0 {
		w.PageSize = DefaultPageSize
	}
	w.HasNextPage = w.Page*w.PageSize < total

	return w
}
