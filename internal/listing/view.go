package listing

import "sync"

// View composes a store, a search query and a paginator into the state one
// admin screen renders.
type View[T Entity] struct {
	mu     sync.Mutex
	store  *Store[T]
	fields Fields[T]
	pager  *Paginator
	query  string
}

func NewView[T Entity](store *Store[T], fields Fields[T], itemsPerPage int) *View[T] {
	if store == nil {
		store = NewStore[T]()
	}
	return &View[T]{store: store, fields: fields, pager: NewPaginator(itemsPerPage)}
}

func (v *View[T]) Store() *Store[T] { return v.store }

func (v *View[T]) PerPage() int { return v.pager.ItemsPerPage() }

func (v *View[T]) Query() string {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.query
}

// SetQuery changes the search text and returns to the first page.
func (v *View[T]) SetQuery(query string) Window[T] {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.query = query
	v.pager.Reset()
	return Paginate(v.pager, v.filtered())
}

// Filtered returns the store items matching the current query.
func (v *View[T]) Filtered() []T {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.filtered()
}

func (v *View[T]) GoToPage(n int) Window[T] {
	v.mu.Lock()
	defer v.mu.Unlock()
	items := v.filtered()
	v.pager.GoToPage(n, len(items))
	return Paginate(v.pager, items)
}

func (v *View[T]) NextPage() Window[T] {
	v.mu.Lock()
	defer v.mu.Unlock()
	items := v.filtered()
	v.pager.Next(len(items))
	return Paginate(v.pager, items)
}

func (v *View[T]) PrevPage() Window[T] {
	v.mu.Lock()
	defer v.mu.Unlock()
	items := v.filtered()
	v.pager.Prev(len(items))
	return Paginate(v.pager, items)
}

// Current derives the page from the latest store contents. A collection that
// shrank below the current page sends the view back to page 1.
func (v *View[T]) Current() Window[T] {
	v.mu.Lock()
	defer v.mu.Unlock()
	return Paginate(v.pager, v.filtered())
}

func (v *View[T]) filtered() []T {
	return Filter(v.store.Items(), v.query, v.fields)
}
