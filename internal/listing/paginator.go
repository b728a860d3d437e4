package listing

// DefaultItemsPerPage is used when a screen configures no page size.
const DefaultItemsPerPage = 8

// Window is one derived page of a collection. Start and End are 1-indexed and
// inclusive; both are zero for an empty collection.
type Window[T any] struct {
	Items       []T
	CurrentPage int
	TotalPages  int
	Total       int
	Start       int
	End         int
	HasNext     bool
	HasPrev     bool
}

// Paginator tracks the current page of a collection of known length.
type Paginator struct {
	perPage int
	current int
}

func NewPaginator(itemsPerPage int) *Paginator {
	if itemsPerPage <= 0 {
		itemsPerPage = DefaultItemsPerPage
	}
	return &Paginator{perPage: itemsPerPage, current: 1}
}

func (p *Paginator) ItemsPerPage() int { return p.perPage }

func (p *Paginator) CurrentPage() int { return p.current }

// TotalPages never returns less than one.
func TotalPages(total, perPage int) int {
	if perPage <= 0 {
		perPage = DefaultItemsPerPage
	}
	if total <= 0 {
		return 1
	}
	return (total + perPage - 1) / perPage
}

func clamp(page, pages int) int {
	if page < 1 {
		return 1
	}
	if page > pages {
		return pages
	}
	return page
}

// GoToPage moves to n, clamped into [1, TotalPages(total)].
func (p *Paginator) GoToPage(n, total int) int {
	p.current = clamp(n, TotalPages(total, p.perPage))
	return p.current
}

func (p *Paginator) Next(total int) int { return p.GoToPage(p.current+1, total) }

func (p *Paginator) Prev(total int) int { return p.GoToPage(p.current-1, total) }

// Reset returns to the first page.
func (p *Paginator) Reset() { p.current = 1 }

// Paginate slices items at the current page. When the collection shrank so
// that the current page is past the end, the paginator goes back to page 1.
func Paginate[T any](p *Paginator, items []T) Window[T] {
	if p.current > TotalPages(len(items), p.perPage) || p.current < 1 {
		p.current = 1
	}
	return Page(items, p.current, p.perPage)
}

// Page slices items into the given 1-indexed page after clamping it.
func Page[T any](items []T, page, perPage int) Window[T] {
	if perPage <= 0 {
		perPage = DefaultItemsPerPage
	}
	total := len(items)
	pages := TotalPages(total, perPage)
	page = clamp(page, pages)

	start := (page - 1) * perPage
	end := min(start+perPage, total)

	w := Window[T]{
		Items:       items[start:end:end],
		CurrentPage: page,
		TotalPages:  pages,
		Total:       total,
		HasNext:     page < pages,
		HasPrev:     page > 1,
	}
	if total > 0 {
		w.Start = start + 1
		w.End = end
	}
	return w
}
